package service

import (
	"context"
	"testing"
	"time"

	"kanban/internal/models"
)

func TestCompletedReport(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	start := env.clock.now
	plannedEnd := start.Add(48 * time.Hour)
	planned, err := env.tasks.CreateTask(ctx, CreateTaskInput{
		Title: "planned", StoryPoints: 5, ExecutionOrder: 1, DeveloperID: env.dev.ID, TaskTypeID: env.taskType.ID,
		PlannedStartDate: &start, PlannedEndDate: &plannedEnd,
	}, env.manager.ID)
	if err != nil {
		t.Fatalf("create planned: %v", err)
	}
	unplanned := env.createTask(t, env.dev2.ID, 1)

	env.move(t, planned.ID, models.StatusDoing, env.devReq(env.dev))
	env.move(t, unplanned.ID, models.StatusDoing, env.devReq(env.dev2))
	// Three and a half days of real work against two planned days.
	env.clock.Advance(84 * time.Hour)
	env.move(t, planned.ID, models.StatusDone, env.devReq(env.dev))
	env.move(t, unplanned.ID, models.StatusDone, env.devReq(env.dev2))

	report, err := env.reports.CompletedReport(ctx, env.managerReq())
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.Total != 2 || report.TotalStoryPoints != 8 {
		t.Fatalf("unexpected totals: %+v", report)
	}

	byID := map[string]CompletedTaskReport{}
	for _, row := range report.Tasks {
		byID[row.ID] = row
	}
	row := byID[planned.ID]
	if row.PlannedDays != 2 || row.RealDays != 4 || row.Variance != 2 || !row.Delayed {
		t.Fatalf("unexpected planned row: planned=%d real=%d variance=%d delayed=%v", row.PlannedDays, row.RealDays, row.Variance, row.Delayed)
	}
	row = byID[unplanned.ID]
	if row.PlannedDays != 0 || row.Variance != 0 || row.Delayed {
		t.Fatalf("expected zero variance without a plan, got %+v", row)
	}
	if report.Delayed != 1 || report.OnTime != 1 {
		t.Fatalf("expected one delayed and one on time, got on_time=%d delayed=%d", report.OnTime, report.Delayed)
	}

	other, err := env.reports.CompletedReport(ctx, Requester{ID: env.other.ID, Role: models.RoleManager})
	if err != nil {
		t.Fatalf("other report: %v", err)
	}
	if other.Total != 0 {
		t.Fatalf("expected report scoped to owner, got %d tasks", other.Total)
	}

	_, err = env.reports.CompletedReport(ctx, env.devReq(env.dev))
	requireKind(t, err, KindForbidden)
}

func TestInProgressReport(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	now := env.clock.now
	late := now.Add(-36 * time.Hour)
	soon := now.Add(30 * time.Hour)

	lateTask, err := env.tasks.CreateTask(ctx, CreateTaskInput{
		Title: "late", StoryPoints: 1, ExecutionOrder: 1, DeveloperID: env.dev.ID, TaskTypeID: env.taskType.ID, PlannedEndDate: &late,
	}, env.manager.ID)
	if err != nil {
		t.Fatalf("create late: %v", err)
	}
	soonTask, err := env.tasks.CreateTask(ctx, CreateTaskInput{
		Title: "soon", StoryPoints: 1, ExecutionOrder: 2, DeveloperID: env.dev.ID, TaskTypeID: env.taskType.ID, PlannedEndDate: &soon,
	}, env.manager.ID)
	if err != nil {
		t.Fatalf("create soon: %v", err)
	}
	undated := env.createTask(t, env.dev2.ID, 1)
	done := env.createTask(t, env.dev2.ID, 2)
	env.move(t, lateTask.ID, models.StatusDoing, env.devReq(env.dev))
	env.move(t, undated.ID, models.StatusDone, env.devReq(env.dev2))
	env.move(t, done.ID, models.StatusDone, env.devReq(env.dev2))

	report, err := env.reports.InProgressReport(ctx, env.managerReq())
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.Total != 2 || report.Todo != 1 || report.Doing != 1 || report.Late != 1 {
		t.Fatalf("unexpected summary: %+v", report)
	}

	byID := map[string]InProgressTaskReport{}
	for _, row := range report.Tasks {
		byID[row.ID] = row
	}
	if row := byID[lateTask.ID]; row.DaysRemaining != -1 || row.DaysLate != 1 || !row.Late {
		t.Fatalf("unexpected late row: remaining=%d late=%d", row.DaysRemaining, row.DaysLate)
	}
	if row := byID[soonTask.ID]; row.DaysRemaining != 2 || row.DaysLate != 0 || row.Late {
		t.Fatalf("unexpected soon row: remaining=%d late=%d", row.DaysRemaining, row.DaysLate)
	}
}

func TestSpanDays(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		start *time.Time
		end   *time.Time
		want  int
	}{
		{name: "missing", start: nil, end: &base, want: 0},
		{name: "same instant", start: &base, end: &base, want: 0},
		{name: "partial day rounds up", start: &base, end: ptr(base.Add(time.Hour)), want: 1},
		{name: "reversed uses magnitude", start: ptr(base.Add(49 * time.Hour)), end: &base, want: 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := spanDays(tc.start, tc.end); got != tc.want {
				t.Fatalf("spanDays = %d, want %d", got, tc.want)
			}
		})
	}
}
