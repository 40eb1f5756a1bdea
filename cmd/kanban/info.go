package main

import (
	"sort"

	"github.com/spf13/cobra"

	"kanban/internal/api"
	"kanban/internal/config"
)

type infoOutput struct {
	api.InfoResponse `yaml:",inline"`
	APIURL           string `json:"apiUrl" yaml:"api_url"`
	DBPath           string `json:"dbPath" yaml:"db_path"`
}

func newInfoCmd(cfg *config.Config, out *output) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show database and board info",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.GetInfo(cmd.Context())
				if err != nil {
					return err
				}
				info := infoOutput{InfoResponse: resp, APIURL: cfg.APIURL, DBPath: cfg.DBPath}
				if out.structured() {
					return out.write(info)
				}

				_ = out.plain("api_url: %s\n", info.APIURL)
				_ = out.plain("db_path: %s\n", info.DBPath)
				_ = out.plain("schema_version: %d\n", info.SchemaVersion)
				_ = out.plain("users: %d\n", info.Users)
				_ = out.plain("task_types: %d\n", info.TaskTypes)
				_ = out.plain("total_tasks: %d\n", info.TotalTasks)

				statuses := make([]string, 0, len(info.TaskCounts))
				for status := range info.TaskCounts {
					statuses = append(statuses, status)
				}
				sort.Strings(statuses)
				for _, status := range statuses {
					_ = out.plain("  %s: %d\n", status, info.TaskCounts[status])
				}
				return nil
			})
		},
	}
}
