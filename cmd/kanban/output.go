package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"kanban/internal/api"
	"kanban/internal/format"
	"kanban/internal/models"
)

// output carries the selected rendering for one command invocation. A nil
// formatter means human-readable text.
type output struct {
	json      bool
	format    string
	formatter format.Formatter
	w         io.Writer
}

func (o *output) resolve() error {
	name := o.format
	if o.json {
		if name != "" && !strings.EqualFold(name, "json") {
			return fmt.Errorf("--json conflicts with --output %s", name)
		}
		name = "json"
	}
	f, err := format.ForName(name)
	if err != nil {
		return err
	}
	o.formatter = f
	return nil
}

func (o *output) writer() io.Writer {
	if o.w == nil {
		return os.Stdout
	}
	return o.w
}

func (o *output) structured() bool {
	return o.formatter != nil
}

func (o *output) write(payload any) error {
	return o.formatter.Write(o.writer(), payload)
}

func (o *output) plain(layout string, args ...any) error {
	_, err := fmt.Fprintf(o.writer(), layout, args...)
	return err
}

func (o *output) taskList(tasks []models.TaskDetail) error {
	if len(tasks) == 0 {
		return o.plain("no tasks\n")
	}
	tw := tabwriter.NewWriter(o.writer(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STATUS\tORDER\tTITLE\tTYPE\tDEVELOPER\tPOINTS\tID")
	for _, task := range tasks {
		developer := task.DeveloperName
		if developer == "" {
			developer = "-"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%d\t%s\n",
			task.Status, task.ExecutionOrder, task.Title, task.TaskTypeName, developer, task.StoryPoints, task.ID)
	}
	return tw.Flush()
}

func (o *output) taskDetail(task models.TaskDetail) error {
	lines := []string{
		fmt.Sprintf("id: %s", task.ID),
		fmt.Sprintf("title: %s", task.Title),
		fmt.Sprintf("status: %s", task.Status),
		fmt.Sprintf("type: %s", task.TaskTypeName),
		fmt.Sprintf("story_points: %d", task.StoryPoints),
		fmt.Sprintf("execution_order: %d", task.ExecutionOrder),
		fmt.Sprintf("manager: %s", task.ManagerName),
	}
	if task.DeveloperName != "" {
		lines = append(lines, fmt.Sprintf("developer: %s", task.DeveloperName))
	}
	if task.Description != "" {
		lines = append(lines, fmt.Sprintf("description: %s", task.Description))
	}
	for _, d := range []struct {
		label string
		value *time.Time
	}{
		{"planned_start", task.PlannedStartDate},
		{"planned_end", task.PlannedEndDate},
		{"real_start", task.RealStartDate},
		{"real_end", task.RealEndDate},
	} {
		if d.value != nil {
			lines = append(lines, fmt.Sprintf("%s: %s", d.label, formatTime(*d.value)))
		}
	}
	return o.plain("%s\n", strings.Join(lines, "\n"))
}

func (o *output) userList(users []api.User) error {
	if len(users) == 0 {
		return o.plain("no users\n")
	}
	tw := tabwriter.NewWriter(o.writer(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "USERNAME\tNAME\tROLE\tLEVEL\tID")
	for _, user := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", user.Username, user.Name, user.Role, user.ExperienceLevel, user.ID)
	}
	return tw.Flush()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
