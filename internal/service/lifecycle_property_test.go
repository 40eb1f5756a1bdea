package service

import (
	"context"
	"testing"

	"pgregory.net/rapid"

	"kanban/internal/models"
	"kanban/internal/store"
)

// TestLifecycleInvariantsHold drives random creates, moves and edits against a
// real store and checks the per-developer invariants after every step.
func TestLifecycleInvariantsHold(t *testing.T) {
	dir := t.TempDir()
	statuses := []models.TaskStatus{models.StatusTodo, models.StatusDoing, models.StatusDone}

	rapid.Check(t, func(rt *rapid.T) {
		env := newTestEnvWithOptions(t, dir, DefaultTaskServiceOptions())
		ctx := context.Background()
		devs := []*models.User{env.dev, env.dev2}
		var taskIDs []string

		steps := rapid.IntRange(5, 40).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 2).Draw(rt, "op") {
			case 0:
				dev := rapid.SampledFrom(devs).Draw(rt, "dev")
				order := rapid.IntRange(1, 5).Draw(rt, "order")
				task, err := env.tasks.CreateTask(ctx, CreateTaskInput{
					Title: "t", StoryPoints: 1, ExecutionOrder: order, DeveloperID: dev.ID, TaskTypeID: env.taskType.ID,
				}, env.manager.ID)
				if err == nil {
					taskIDs = append(taskIDs, task.ID)
				} else if KindOf(err) != KindConflict {
					rt.Fatalf("create: unexpected error %v", err)
				}
			case 1:
				if len(taskIDs) == 0 {
					continue
				}
				id := rapid.SampledFrom(taskIDs).Draw(rt, "task")
				status := rapid.SampledFrom(statuses).Draw(rt, "status")
				_, err := env.tasks.MoveTask(ctx, id, status, env.managerReq())
				if err != nil && KindOf(err) != KindConflict {
					rt.Fatalf("move: unexpected error %v", err)
				}
			case 2:
				if len(taskIDs) == 0 {
					continue
				}
				id := rapid.SampledFrom(taskIDs).Draw(rt, "task")
				dev := rapid.SampledFrom(devs).Draw(rt, "new_dev")
				order := rapid.IntRange(1, 5).Draw(rt, "new_order")
				_, err := env.tasks.EditTask(ctx, id, TaskEdit{DeveloperID: &dev.ID, ExecutionOrder: &order}, env.managerReq())
				if err != nil && KindOf(err) != KindConflict {
					rt.Fatalf("edit: unexpected error %v", err)
				}
			}
			checkInvariants(rt, env.store)
		}
	})
}

func checkInvariants(rt *rapid.T, st *store.Store) {
	tasks, err := st.ListTasks(context.Background(), store.TaskFilter{})
	if err != nil {
		rt.Fatalf("list: %v", err)
	}

	type slot struct {
		dev   string
		order int
	}
	seen := map[slot]string{}
	doing := map[string]int{}
	for _, task := range tasks {
		if task.Status == models.StatusDone {
			if task.RealEndDate == nil {
				rt.Fatalf("DONE task %s has no realEndDate", task.ID)
			}
			continue
		}
		if task.RealEndDate != nil {
			rt.Fatalf("active task %s kept realEndDate", task.ID)
		}
		if task.Status == models.StatusDoing && task.RealStartDate == nil {
			rt.Fatalf("DOING task %s has no realStartDate", task.ID)
		}
		if task.DeveloperID == "" {
			continue
		}
		key := slot{dev: task.DeveloperID, order: task.ExecutionOrder}
		if other, ok := seen[key]; ok {
			rt.Fatalf("tasks %s and %s share order %d for developer %s", other, task.ID, key.order, key.dev)
		}
		seen[key] = task.ID
		if task.Status == models.StatusDoing {
			doing[task.DeveloperID]++
			if doing[task.DeveloperID] > models.MaxDoingPerDeveloper {
				rt.Fatalf("developer %s has %d DOING tasks", task.DeveloperID, doing[task.DeveloperID])
			}
		}
	}
}
