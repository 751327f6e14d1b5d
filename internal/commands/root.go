package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cleared-dev/backoffice/internal/buildinfo"
	"github.com/cleared-dev/backoffice/internal/config"
	"github.com/cleared-dev/backoffice/internal/logging"
)

// DefaultConfigPath is where init writes, and every command reads, the config.
const DefaultConfigPath = "backoffice.yaml"

type globalOptions struct {
	configPath string
	envPath    string
	logLevel   string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "backoffice",
		Short:   "Back-office ledger import and permission administration",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", DefaultConfigPath, "path to backoffice.yaml")
	flags.StringVar(&opts.envPath, "env", ".env", "dotenv file loaded when present")
	flags.StringVar(&opts.logLevel, "log-level", "", "override log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newInitCommand(),
		newImportCommand(opts),
		newMigrateCommand(opts),
		newServeCommand(opts),
		newHistoryCommand(opts),
	)

	return rootCmd
}

// load resolves the config and builds the logger for a command run.
func (o *globalOptions) load() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Resolve(o.configPath, o.envPath)
	if err != nil {
		return nil, nil, err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
