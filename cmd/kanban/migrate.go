package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"kanban/internal/config"
	"kanban/internal/store"
)

func newMigrateCmd(cfg *config.Config, out *output) *cobra.Command {
	var dryRun bool
	var inspect bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run or inspect database schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.DBPath == "" {
				return fmt.Errorf("db path is required")
			}

			if !inspect && !dryRun {
				// Same as what happens on server start.
				st, err := store.Open(cfg.DBPath)
				if err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
				if err := st.Close(); err != nil {
					return err
				}
			}

			db, err := store.OpenRaw(cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			plan, err := store.MigrationPlan(db)
			if err != nil {
				return fmt.Errorf("inspect migrations: %w", err)
			}
			if out.structured() {
				return out.write(plan)
			}
			if !inspect && !dryRun {
				return out.plain("migrations applied; schema version %d\n", plan.CurrentVersion)
			}

			_ = out.plain("current version: %d\n", plan.CurrentVersion)
			_ = out.plain("available version: %d\n", plan.AvailableVersion)
			if len(plan.Pending) == 0 {
				return out.plain("no pending migrations\n")
			}
			_ = out.plain("pending migrations: %d\n", len(plan.Pending))
			for _, m := range plan.Pending {
				_ = out.plain("  %d: %s\n", m.Version, m.Description)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show pending migrations without applying")
	cmd.Flags().BoolVar(&inspect, "inspect", false, "show migration status")

	return cmd
}
