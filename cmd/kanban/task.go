package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"kanban/internal/api"
	"kanban/internal/config"
)

func newTaskCmd(cfg *config.Config, out *output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Work with board tasks",
	}
	cmd.AddCommand(
		newTaskListCmd(cfg, out),
		newTaskCreateCmd(cfg, out),
		newTaskEditCmd(cfg, out),
		newTaskMoveCmd(cfg, out),
		newTaskDeleteCmd(cfg),
	)
	return cmd
}

func newTaskListCmd(cfg *config.Config, out *output) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the tasks visible to the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				tasks, err := client.ListTasks(cmd.Context())
				if err != nil {
					return err
				}
				if out.structured() {
					return out.write(tasks)
				}
				return out.taskList(tasks)
			})
		},
	}
}

func newTaskCreateCmd(cfg *config.Config, out *output) *cobra.Command {
	var (
		req                     api.TaskCreateRequest
		developerID, start, end string
	)

	cmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a task owned by the logged-in manager",
		Args:  requireExactlyArgs(1, "title is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Title = args[0]
			req.DeveloperID = flagString(cmd, "developer", developerID)
			req.PlannedStartDate = flagString(cmd, "start", start)
			req.PlannedEndDate = flagString(cmd, "end", end)

			return withClient(cfg, func(client *api.Client) error {
				task, err := client.CreateTask(cmd.Context(), req)
				if err != nil {
					return err
				}
				if out.structured() {
					return out.write(task)
				}
				return out.taskDetail(task)
			})
		},
	}

	cmd.Flags().StringVar(&req.Description, "description", "", "task description")
	cmd.Flags().IntVar(&req.StoryPoints, "points", 0, "story points (1-8)")
	cmd.Flags().IntVar(&req.ExecutionOrder, "order", 0, "execution order in the developer queue")
	cmd.Flags().StringVar(&req.TaskTypeID, "type", "", "task type id (required)")
	cmd.Flags().StringVar(&developerID, "developer", "", "assigned developer id")
	cmd.Flags().StringVar(&start, "start", "", "planned start date (YYYY-MM-DD or RFC3339)")
	cmd.Flags().StringVar(&end, "end", "", "planned end date (YYYY-MM-DD or RFC3339)")
	return cmd
}

func newTaskEditCmd(cfg *config.Config, out *output) *cobra.Command {
	var (
		title, description, developerID, typeID, start, end string
		points, order                                       int
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change task fields; pass an empty value to clear developer or dates",
		Args:  requireExactlyArgs(1, "id is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := api.TaskUpdateRequest{
				Title:            flagString(cmd, "title", title),
				Description:      flagString(cmd, "description", description),
				DeveloperID:      flagString(cmd, "developer", developerID),
				TaskTypeID:       flagString(cmd, "type", typeID),
				PlannedStartDate: flagString(cmd, "start", start),
				PlannedEndDate:   flagString(cmd, "end", end),
				StoryPoints:      flagInt(cmd, "points", points),
				ExecutionOrder:   flagInt(cmd, "order", order),
			}
			if req == (api.TaskUpdateRequest{}) {
				return fmt.Errorf("at least one field flag is required")
			}

			return withClient(cfg, func(client *api.Client) error {
				task, err := client.UpdateTask(cmd.Context(), args[0], req)
				if err != nil {
					return err
				}
				if out.structured() {
					return out.write(task)
				}
				return out.taskDetail(task)
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringVar(&developerID, "developer", "", "developer id; empty unassigns")
	cmd.Flags().StringVar(&typeID, "type", "", "task type id")
	cmd.Flags().StringVar(&start, "start", "", "planned start date; empty clears")
	cmd.Flags().StringVar(&end, "end", "", "planned end date; empty clears")
	cmd.Flags().IntVar(&points, "points", 0, "story points (1-8)")
	cmd.Flags().IntVar(&order, "order", 0, "execution order")
	return cmd
}

func newTaskMoveCmd(cfg *config.Config, out *output) *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <TODO|DOING|DONE>",
		Short: "Move a task to another column",
		Args:  requireExactlyArgs(2, "id and status are required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				task, err := client.MoveTask(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				if out.structured() {
					return out.write(task)
				}
				return out.plain("%s -> %s\n", task.Title, task.Status)
			})
		},
	}
}

func newTaskDeleteCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		Args:    requireExactlyArgs(1, "id is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				return client.DeleteTask(cmd.Context(), args[0])
			})
		},
	}
}

// flagString returns a pointer to value only when the flag was given, so an
// explicit empty value reaches the API as a clear.
func flagString(cmd *cobra.Command, name, value string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &value
}

func flagInt(cmd *cobra.Command, name string, value int) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &value
}
