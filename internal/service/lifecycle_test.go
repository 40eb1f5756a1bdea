package service

import (
	"context"
	"testing"
	"time"

	"kanban/internal/models"
)

func TestMoveRequiresDeclaredOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first := env.createTask(t, env.dev.ID, 1)
	second := env.createTask(t, env.dev.ID, 2)

	_, err := env.tasks.MoveTask(ctx, second.ID, models.StatusDoing, env.devReq(env.dev))
	requireKind(t, err, KindConflict)
	requireCode(t, err, CodeOutOfOrder)
	if err.Error() != "must execute tasks in declared order" {
		t.Fatalf("unexpected message: %v", err)
	}

	_, err = env.tasks.MoveTask(ctx, second.ID, models.StatusDone, env.devReq(env.dev))
	requireCode(t, err, CodeOutOfOrder)

	moved := env.move(t, first.ID, models.StatusDoing, env.devReq(env.dev))
	if moved.Status != models.StatusDoing {
		t.Fatalf("expected DOING, got %s", moved.Status)
	}
	if moved.RealStartDate == nil || !moved.RealStartDate.Equal(env.clock.now) {
		t.Fatalf("expected realStartDate %v, got %v", env.clock.now, moved.RealStartDate)
	}

	// Once the earlier task left TODO the later one may start.
	env.move(t, second.ID, models.StatusDoing, env.devReq(env.dev))
}

func TestMoveEnforcesInProgressLimit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := env.createTask(t, env.dev.ID, 1)
	b := env.createTask(t, env.dev.ID, 2)
	c := env.createTask(t, env.dev.ID, 3)
	env.move(t, a.ID, models.StatusDoing, env.devReq(env.dev))
	env.move(t, b.ID, models.StatusDoing, env.devReq(env.dev))

	_, err := env.tasks.MoveTask(ctx, c.ID, models.StatusDoing, env.devReq(env.dev))
	requireKind(t, err, KindConflict)
	requireCode(t, err, CodeWIPLimit)
	if err.Error() != "max 2 concurrent in-progress tasks per developer" {
		t.Fatalf("unexpected message: %v", err)
	}

	// Finishing one frees a slot.
	env.move(t, a.ID, models.StatusDone, env.devReq(env.dev))
	env.move(t, c.ID, models.StatusDoing, env.devReq(env.dev))
}

func TestMoveConfiguredLimit(t *testing.T) {
	opts := DefaultTaskServiceOptions()
	opts.MaxDoing = 1
	env := newTestEnvWithOptions(t, t.TempDir(), opts)

	a := env.createTask(t, env.dev.ID, 1)
	b := env.createTask(t, env.dev.ID, 2)
	env.move(t, a.ID, models.StatusDoing, env.devReq(env.dev))

	_, err := env.tasks.MoveTask(context.Background(), b.ID, models.StatusDoing, env.devReq(env.dev))
	requireCode(t, err, CodeWIPLimit)
	if err.Error() != "max 1 concurrent in-progress tasks per developer" {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestMoveRejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	task := env.createTask(t, env.dev.ID, 1)

	tests := []struct {
		name     string
		taskID   string
		status   models.TaskStatus
		req      Requester
		wantKind Kind
		wantCode int
	}{
		{name: "invalid status", taskID: task.ID, status: "BLOCKED", req: env.devReq(env.dev), wantKind: KindInvalidArgument, wantCode: CodeInvalidStatus},
		{name: "lowercase status", taskID: task.ID, status: "doing", req: env.devReq(env.dev), wantKind: KindInvalidArgument, wantCode: CodeInvalidStatus},
		{name: "missing task", taskID: "nope", status: models.StatusDoing, req: env.devReq(env.dev), wantKind: KindNotFound, wantCode: CodeTaskNotFound},
		{name: "other developer", taskID: task.ID, status: models.StatusDoing, req: env.devReq(env.dev2), wantKind: KindForbidden, wantCode: CodeForbidden},
		{name: "unknown role", taskID: task.ID, status: models.StatusDoing, req: Requester{ID: env.dev.ID, Role: "ADMIN"}, wantKind: KindForbidden, wantCode: CodeForbidden},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.tasks.MoveTask(ctx, tc.taskID, tc.status, tc.req)
			requireKind(t, err, tc.wantKind)
			requireCode(t, err, tc.wantCode)
		})
	}

	_, err := env.tasks.MoveTask(ctx, task.ID, models.StatusDoing, env.devReq(env.dev2))
	if err == nil || err.Error() != "may only move own tasks" {
		t.Fatalf("expected ownership message, got %v", err)
	}
}

func TestMoveSameStatusIsNoop(t *testing.T) {
	env := newTestEnv(t)
	task := env.createTask(t, env.dev.ID, 2)
	env.createTask(t, env.dev.ID, 1)

	// TODO -> TODO is outside the ordering gate.
	got := env.move(t, task.ID, models.StatusTodo, env.devReq(env.dev))
	if got.Status != models.StatusTodo || got.RealStartDate != nil {
		t.Fatalf("expected unchanged task, got %+v", got)
	}
}

func TestMoveSameStatusKeepsOrderGate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	doing := env.createTask(t, env.dev.ID, 2)
	env.move(t, doing.ID, models.StatusDoing, env.devReq(env.dev))
	done := env.createTask(t, env.dev.ID, 3)
	env.move(t, done.ID, models.StatusDone, env.devReq(env.dev))

	// Unchanged moves succeed while the queue ahead is clear.
	started := env.clock.now
	env.clock.Advance(time.Hour)
	got := env.move(t, doing.ID, models.StatusDoing, env.devReq(env.dev))
	if got.RealStartDate == nil || !got.RealStartDate.Equal(started) {
		t.Fatalf("expected realStartDate kept at %v, got %v", started, got.RealStartDate)
	}
	env.move(t, done.ID, models.StatusDone, env.devReq(env.dev))

	env.createTask(t, env.dev.ID, 1)

	for _, tc := range []struct {
		id     string
		status models.TaskStatus
	}{
		{doing.ID, models.StatusDoing},
		{done.ID, models.StatusDone},
	} {
		_, err := env.tasks.MoveTask(ctx, tc.id, tc.status, env.devReq(env.dev))
		requireKind(t, err, KindConflict)
		requireCode(t, err, CodeOutOfOrder)
	}
}

func TestMoveDoneCorrectionPath(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	task := env.createTask(t, env.dev.ID, 1)
	env.move(t, task.ID, models.StatusDoing, env.devReq(env.dev))
	env.clock.Advance(48 * time.Hour)
	done := env.move(t, task.ID, models.StatusDone, env.devReq(env.dev))
	if done.RealEndDate == nil || !done.RealEndDate.Equal(env.clock.now) {
		t.Fatalf("expected realEndDate %v, got %v", env.clock.now, done.RealEndDate)
	}

	_, err := env.tasks.EditTask(ctx, task.ID, TaskEdit{Title: ptr("nope")}, env.managerReq())
	requireCode(t, err, CodeTaskImmutable)

	reopened := env.move(t, task.ID, models.StatusTodo, env.managerReq())
	if reopened.Status != models.StatusTodo {
		t.Fatalf("expected TODO, got %s", reopened.Status)
	}
	if reopened.RealEndDate != nil {
		t.Fatalf("expected realEndDate cleared, got %v", reopened.RealEndDate)
	}
	if reopened.RealStartDate == nil {
		t.Fatal("expected realStartDate preserved")
	}

	edited, err := env.tasks.EditTask(ctx, task.ID, TaskEdit{Title: ptr("editable again")}, env.managerReq())
	if err != nil {
		t.Fatalf("edit after correction: %v", err)
	}
	if edited.Title != "editable again" {
		t.Fatalf("unexpected title %q", edited.Title)
	}
}

func TestMoveDoneCorrectionRechecksOrder(t *testing.T) {
	env := newTestEnv(t)

	task := env.createTask(t, env.dev.ID, 1)
	env.move(t, task.ID, models.StatusDone, env.devReq(env.dev))
	env.createTask(t, env.dev.ID, 1)

	_, err := env.tasks.MoveTask(context.Background(), task.ID, models.StatusTodo, env.devReq(env.dev))
	requireKind(t, err, KindConflict)
	requireCode(t, err, CodeExecutionOrderInUse)
}

func TestMoveDoneCorrectionDisabled(t *testing.T) {
	opts := DefaultTaskServiceOptions()
	opts.AllowDoneCorrection = false
	env := newTestEnvWithOptions(t, t.TempDir(), opts)

	task := env.createTask(t, env.dev.ID, 1)
	env.move(t, task.ID, models.StatusDone, env.devReq(env.dev))

	for _, status := range []models.TaskStatus{models.StatusTodo, models.StatusDoing, models.StatusDone} {
		_, err := env.tasks.MoveTask(context.Background(), task.ID, status, env.devReq(env.dev))
		requireKind(t, err, KindConflict)
		requireCode(t, err, CodeTaskImmutable)
		if err.Error() != "completed tasks are immutable" {
			t.Fatalf("unexpected message: %v", err)
		}
	}
}

func TestMoveUnassignedTaskSkipsQueueGates(t *testing.T) {
	env := newTestEnv(t)

	for order := 1; order <= 3; order++ {
		task := env.createTask(t, "", order+10)
		env.move(t, task.ID, models.StatusDoing, env.managerReq())
	}
}

func TestMoveRestartKeepsFirstStart(t *testing.T) {
	env := newTestEnv(t)
	task := env.createTask(t, env.dev.ID, 1)

	first := env.move(t, task.ID, models.StatusDoing, env.devReq(env.dev))
	started := *first.RealStartDate

	env.clock.Advance(time.Hour)
	env.move(t, task.ID, models.StatusTodo, env.devReq(env.dev))
	env.clock.Advance(time.Hour)
	again := env.move(t, task.ID, models.StatusDoing, env.devReq(env.dev))
	if !again.RealStartDate.Equal(started) {
		t.Fatalf("expected realStartDate %v preserved, got %v", started, again.RealStartDate)
	}
}

func TestPlanTransition(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	earlier := now.Add(-time.Hour)

	tests := []struct {
		name          string
		task          models.Task
		to            models.TaskStatus
		wantStart     bool
		wantEnd       bool
		wantClearEnd  bool
		wantStartNone bool
	}{
		{name: "todo to doing", task: models.Task{Status: models.StatusTodo}, to: models.StatusDoing, wantStart: true},
		{name: "todo to doing restart", task: models.Task{Status: models.StatusTodo, RealStartDate: &earlier}, to: models.StatusDoing, wantStartNone: true},
		{name: "doing to done", task: models.Task{Status: models.StatusDoing}, to: models.StatusDone, wantEnd: true, wantStartNone: true},
		{name: "todo to done", task: models.Task{Status: models.StatusTodo}, to: models.StatusDone, wantEnd: true, wantStartNone: true},
		{name: "done to todo", task: models.Task{Status: models.StatusDone, RealEndDate: &earlier}, to: models.StatusTodo, wantClearEnd: true, wantStartNone: true},
		{name: "done to doing", task: models.Task{Status: models.StatusDone, RealStartDate: &earlier, RealEndDate: &earlier}, to: models.StatusDoing, wantClearEnd: true, wantStartNone: true},
		{name: "done to doing never started", task: models.Task{Status: models.StatusDone, RealEndDate: &earlier}, to: models.StatusDoing, wantStart: true, wantClearEnd: true},
		{name: "doing to todo", task: models.Task{Status: models.StatusDoing}, to: models.StatusTodo, wantStartNone: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			update := planTransition(&tc.task, tc.to, now)
			if update.Status == nil || *update.Status != tc.to {
				t.Fatalf("expected status %s, got %v", tc.to, update.Status)
			}
			if tc.wantStart && (update.RealStartDate == nil || !update.RealStartDate.Equal(now)) {
				t.Fatalf("expected realStartDate %v, got %v", now, update.RealStartDate)
			}
			if tc.wantStartNone && update.RealStartDate != nil {
				t.Fatalf("expected realStartDate untouched, got %v", update.RealStartDate)
			}
			if tc.wantEnd && (update.RealEndDate == nil || !update.RealEndDate.Equal(now)) {
				t.Fatalf("expected realEndDate %v, got %v", now, update.RealEndDate)
			}
			if tc.wantClearEnd && (update.RealEndDate == nil || !update.RealEndDate.IsZero()) {
				t.Fatalf("expected realEndDate cleared, got %v", update.RealEndDate)
			}
			if !tc.wantEnd && !tc.wantClearEnd && update.RealEndDate != nil {
				t.Fatalf("expected realEndDate untouched, got %v", update.RealEndDate)
			}
		})
	}
}
