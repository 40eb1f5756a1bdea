package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"kanban/internal/config"
	"kanban/internal/server"
	"kanban/internal/service"
	"kanban/internal/store"
)

func newSrvCmd(cfg *config.Config) *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "srv",
		Short: "Run the kanban API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg == nil {
				return fmt.Errorf("config not initialized")
			}
			if cfg.DBPath == "" {
				return fmt.Errorf("db path is required")
			}

			logger := slog.Default()

			addr, err := server.ListenAddr(cfg.APIURL)
			if err != nil {
				return err
			}

			logger.Info("opening database", "component", "server", "path", cfg.DBPath)
			st, err := store.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()

			if seed {
				if _, err := seedStore(cmd.Context(), st, ""); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(addr, st, server.Options{
				SessionTTL: cfg.SessionTTL(),
				Tasks:      taskServiceOptions(cfg),
				Logger:     logger,
			})
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().BoolVar(&seed, "seed", false, "load the demo fixture into an empty database before serving")
	return cmd
}

func taskServiceOptions(cfg *config.Config) service.TaskServiceOptions {
	opts := service.DefaultTaskServiceOptions()
	opts.MaxDoing = cfg.Lifecycle.MaxDoing
	opts.AllowDoneCorrection = cfg.Lifecycle.AllowDoneCorrection
	return opts
}
