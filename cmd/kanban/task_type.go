package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"kanban/internal/api"
	"kanban/internal/config"
)

func newTypeCmd(cfg *config.Config, out *output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "type",
		Short: "Work with task types",
	}
	cmd.AddCommand(newTypeListCmd(cfg, out), newTypeCreateCmd(cfg, out))
	return cmd
}

func newTypeListCmd(cfg *config.Config, out *output) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List task types",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				types, err := client.ListTaskTypes(cmd.Context())
				if err != nil {
					return err
				}
				if out.structured() {
					return out.write(types)
				}
				tw := tabwriter.NewWriter(out.writer(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "NAME\tCOLOR\tID")
				for _, tt := range types {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", tt.Name, tt.Color, tt.ID)
				}
				return tw.Flush()
			})
		},
	}
}

func newTypeCreateCmd(cfg *config.Config, out *output) *cobra.Command {
	var color string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a task type",
		Args:  requireExactlyArgs(1, "name is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				created, err := client.CreateTaskType(cmd.Context(), api.TaskTypeCreateRequest{Name: args[0], Color: color})
				if err != nil {
					return err
				}
				if out.structured() {
					return out.write(created)
				}
				return out.plain("created task type %s %s (%s)\n", created.Name, created.Color, created.ID)
			})
		},
	}

	cmd.Flags().StringVar(&color, "color", "", "hex color; default picks from the palette")
	return cmd
}
