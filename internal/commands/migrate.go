package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cleared-dev/backoffice/internal/permissions"
	"github.com/cleared-dev/backoffice/internal/schema"
)

func newMigrateCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update tables and install the module catalog",
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

			db, err := schema.Open(cfg.Database.URL)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}

			modules := permissions.DefaultModules()
			if err := schema.Migrate(db, modules); err != nil {
				return err
			}
			logger.Info("migration complete", zap.Int("modules", len(modules)))
			fmt.Fprintf(cmd.OutOrStdout(), "Migrated %d tables, %d modules in catalog\n", len(schema.Models()), len(modules))
			return nil
		},
	}
}
