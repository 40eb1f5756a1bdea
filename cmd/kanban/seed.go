package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"kanban/internal/config"
	"kanban/internal/service"
	"kanban/internal/store"
)

func newSeedCmd(cfg *config.Config, out *output) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a YAML fixture into an empty database",
		Long:  "Load a YAML fixture into an empty database. Without --file the embedded demo board is used. A database that already has users is left untouched.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.DBPath == "" {
				return fmt.Errorf("db path is required")
			}
			st, err := store.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()

			result, err := seedStore(cmd.Context(), st, file)
			if err != nil {
				return err
			}
			if out.structured() {
				return out.write(result)
			}
			if result.Skipped {
				return out.plain("database already has users; nothing seeded\n")
			}
			return out.plain("seeded %d users, %d task types, %d tasks\n", result.Users, result.TaskTypes, result.Tasks)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "path to a YAML fixture (default: embedded demo board)")
	return cmd
}

func seedStore(ctx context.Context, st *store.Store, path string) (*service.SeedResult, error) {
	var (
		data *service.SeedData
		err  error
	)
	if path == "" {
		data, err = service.DefaultSeed()
	} else {
		var f *os.File
		f, err = os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		data, err = service.LoadSeed(f)
	}
	if err != nil {
		return nil, err
	}
	return service.NewSeeder(st, nil, slog.Default()).Seed(ctx, data)
}
