package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cleared-dev/backoffice/internal/config"
	"github.com/cleared-dev/backoffice/internal/importer"
	"github.com/cleared-dev/backoffice/internal/runlog"
	"github.com/cleared-dev/backoffice/internal/store"
)

type importFlags struct {
	file      string
	dryRun    bool
	errorsCSV string
}

func newImportCommand(opts *globalOptions) *cobra.Command {
	var flags importFlags

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import accounts payable rows from a spreadsheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if err := cfg.Validate(); err != nil {
				return err
			}
			if flags.file != "" {
				cfg.Import.InputPath = flags.file
			}

			ctx := cmd.Context()
			pool, err := store.Connect(ctx, cfg.Database.URL, cfg.Database.MaxConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			return runImport(ctx, cmd.OutOrStdout(), store.New(pool, logger), logger, cfg.Import, flags)
		},
	}

	cmd.Flags().StringVar(&flags.file, "file", "", "spreadsheet to import (.xlsx or .csv); defaults to import.input_path")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "resolve and report without inserting")
	cmd.Flags().StringVar(&flags.errorsCSV, "errors-csv", "", "write row errors to this CSV file")

	return cmd
}

func runImport(ctx context.Context, out io.Writer, st importer.Store, logger *zap.Logger, cfg config.ImportConfig, flags importFlags) error {
	resolver, ok := importer.ResolverByName(cfg.EventMatch)
	if !ok {
		return fmt.Errorf("unknown event match policy %q", cfg.EventMatch)
	}

	runID := uuid.New()
	logger = logger.With(zap.String("run_id", runID.String()))
	startedAt := time.Now()
	rows, err := importer.DefaultRegistry().ReadFile(cfg.InputPath)
	if err != nil {
		return err
	}
	logger.Info("sheet loaded", zap.String("path", cfg.InputPath), zap.Int("rows", len(rows)))

	imp := importer.New(st, logger, importer.Options{
		EventResolver:            resolver,
		EnforceSubcategoryParent: cfg.EnforceSubcategoryParent,
		FallbackActorID:          cfg.FallbackActorID,
		DryRun:                   flags.dryRun,
	})
	report, err := imp.Run(ctx, rows)
	if err != nil {
		return err
	}

	limit := cfg.ErrorDisplayLimit
	if limit == 0 {
		limit = importer.DefaultErrorDisplayLimit
	}
	report.Print(out, limit)

	if flags.errorsCSV != "" {
		if err := report.SaveErrors(flags.errorsCSV); err != nil {
			return err
		}
		fmt.Fprintf(out, "Erros gravados em %s\n", flags.errorsCSV)
	}

	if cfg.RunLogPath != "" {
		entry := runlog.Entry{
			RunID:      runID,
			StartedAt:  startedAt,
			File:       cfg.InputPath,
			DryRun:     report.DryRun,
			Imported:   report.Imported,
			Skipped:    report.Skipped,
			Errors:     len(report.Errors),
			TableTotal: report.TableTotal,
		}
		if err := runlog.Append(cfg.RunLogPath, entry); err != nil {
			logger.Warn("recording import run failed", zap.String("path", cfg.RunLogPath), zap.Error(err))
		}
	}
	return nil
}
