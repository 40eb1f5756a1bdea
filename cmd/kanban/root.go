package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"kanban/internal/config"
)

func newRootCmd(cfg *config.Config) *cobra.Command {
	out := &output{}
	var logLevel string

	cmd := &cobra.Command{
		Use:           "kanban",
		Short:         "Kanban is a small task board for managers and developers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			warning, err := configureLoggerForCLI(logLevel, cfg.LogLevel)
			if err != nil {
				return err
			}
			if warning != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), warning)
			}
			out.w = cmd.OutOrStdout()
			return out.resolve()
		},
	}

	cmd.Version = version
	cmd.PersistentFlags().BoolVar(&out.json, "json", false, "output JSON (shorthand for --output json)")
	cmd.PersistentFlags().StringVarP(&out.format, "output", "o", "", "output format: text, json, json-pretty, yaml")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	cmd.AddCommand(
		newSrvCmd(cfg),
		newMigrateCmd(cfg, out),
		newSeedCmd(cfg, out),
		newInfoCmd(cfg, out),
		newConfigCmd(cfg, out),
		newLoginCmd(cfg, out),
		newLogoutCmd(cfg),
		newWhoamiCmd(cfg, out),
		newUserCmd(cfg, out),
		newTaskCmd(cfg, out),
		newTypeCmd(cfg, out),
		newReportCmd(cfg, out),
		newBackupCmd(cfg, out),
	)

	return cmd
}
