package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"kanban/internal/api"
	"kanban/internal/config"
	"kanban/internal/service"
)

func newReportCmd(cfg *config.Config, out *output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Manager reports over owned tasks",
	}
	cmd.AddCommand(newReportCompletedCmd(cfg, out), newReportInProgressCmd(cfg, out))
	return cmd
}

func newReportCompletedCmd(cfg *config.Config, out *output) *cobra.Command {
	return &cobra.Command{
		Use:   "completed",
		Short: "Planned versus real duration of finished tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				report, err := client.CompletedReport(cmd.Context())
				if err != nil {
					return err
				}
				if out.structured() {
					return out.write(report)
				}
				return writeCompletedReport(out, report)
			})
		},
	}
}

func newReportInProgressCmd(cfg *config.Config, out *output) *cobra.Command {
	return &cobra.Command{
		Use:   "in-progress",
		Short: "Schedule position of unfinished tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				report, err := client.InProgressReport(cmd.Context())
				if err != nil {
					return err
				}
				if out.structured() {
					return out.write(report)
				}
				return writeInProgressReport(out, report)
			})
		},
	}
}

func writeCompletedReport(out *output, report service.CompletedReport) error {
	tw := tabwriter.NewWriter(out.writer(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TITLE\tDEVELOPER\tPLANNED\tREAL\tVARIANCE\tPOINTS")
	for _, row := range report.Tasks {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%+d\t%d\n", row.Title, row.DeveloperName, row.PlannedDays, row.RealDays, row.Variance, row.StoryPoints)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	return out.plain("total: %d  on time: %d  delayed: %d  story points: %d\n",
		report.Total, report.OnTime, report.Delayed, report.TotalStoryPoints)
}

func writeInProgressReport(out *output, report service.InProgressReport) error {
	tw := tabwriter.NewWriter(out.writer(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STATUS\tTITLE\tDEVELOPER\tSCHEDULE")
	for _, row := range report.Tasks {
		schedule := fmt.Sprintf("%d days left", row.DaysRemaining)
		if row.Late {
			schedule = fmt.Sprintf("%d days late", row.DaysLate)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", row.Status, row.Title, row.DeveloperName, schedule)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	return out.plain("total: %d  todo: %d  doing: %d  late: %d\n", report.Total, report.Todo, report.Doing, report.Late)
}
