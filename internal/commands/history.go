package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/backoffice/internal/runlog"
)

func newHistoryCommand(opts *globalOptions) *cobra.Command {
	var last int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded import runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := opts.load()
			if err != nil {
				return err
			}
			if cfg.Import.RunLogPath == "" {
				return fmt.Errorf("import.run_log_path is not set")
			}
			return runHistory(cmd.OutOrStdout(), cfg.Import.RunLogPath, last)
		},
	}

	cmd.Flags().IntVar(&last, "last", 20, "show only the most recent N runs (0 for all)")

	return cmd
}

func runHistory(out io.Writer, path string, last int) error {
	entries, err := runlog.Read(path)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "Nenhuma importação registrada.")
		return nil
	}
	if last > 0 && len(entries) > last {
		entries = entries[len(entries)-last:]
	}

	for _, e := range entries {
		mode := ""
		if e.DryRun {
			mode = " (simulação)"
		}
		total := "?"
		if e.TableTotal >= 0 {
			total = fmt.Sprint(e.TableTotal)
		}
		fmt.Fprintf(out, "%s  %s  %s%s  importados=%d ignorados=%d erros=%d total=%s\n",
			e.RunID.String()[:8], e.StartedAt.Local().Format(time.DateTime), e.File, mode, e.Imported, e.Skipped, e.Errors, total)
	}
	return nil
}
