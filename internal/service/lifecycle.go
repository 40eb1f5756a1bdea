package service

import (
	"context"
	"time"

	"kanban/internal/models"
	"kanban/internal/store"
)

// MoveTask transitions a task to newStatus after checking ownership, the
// declared execution order, and the in-progress limit.
func (s *TaskService) MoveTask(ctx context.Context, taskID string, newStatus models.TaskStatus, req Requester) (*models.TaskDetail, error) {
	if !models.IsValidTaskStatus(newStatus) {
		return nil, invalidArgument(CodeInvalidStatus, "invalid status: %q", newStatus)
	}
	if !req.IsManager() && !req.IsDeveloper() {
		return nil, forbidden("unknown role %q", req.Role)
	}

	var moved *models.TaskDetail
	var from models.TaskStatus
	err := s.store.InTx(ctx, func(repo store.Repository) error {
		task, err := repo.GetTask(ctx, taskID)
		if err != nil {
			return storeFailure("get task", err)
		}
		if task == nil {
			return notFound(CodeTaskNotFound, "task not found")
		}
		if req.IsDeveloper() && task.DeveloperID != req.ID {
			return forbidden("may only move own tasks")
		}
		from = task.Status

		if task.Status == models.StatusDone && !s.opts.AllowDoneCorrection {
			return conflict(CodeTaskImmutable, "completed tasks are immutable")
		}
		if task.Status == newStatus {
			// Nothing to write, but the declared order still holds.
			if err := s.checkOrderGate(ctx, repo, task, newStatus); err != nil {
				return err
			}
			moved, err = repo.GetTaskDetail(ctx, task.ID)
			return storeFailure("load task", err)
		}
		if !models.CanTransition(task.Status, newStatus) {
			return invalidArgument(CodeInvalidStatus, "cannot move task from %s to %s", task.Status, newStatus)
		}

		if err := s.checkMoveGates(ctx, repo, task, newStatus); err != nil {
			return err
		}

		update := planTransition(task, newStatus, s.now())
		if _, err := repo.UpdateTask(ctx, task.ID, update); err != nil {
			return classifyWriteError("move task", err)
		}
		moved, err = repo.GetTaskDetail(ctx, task.ID)
		return storeFailure("load task", err)
	})
	if err != nil {
		return nil, err
	}

	if from != newStatus {
		s.logger.Info("task moved", "task_id", moved.ID, "from", from, "to", newStatus, "requester_id", req.ID)
	}
	return moved, nil
}

// checkMoveGates applies the rules that depend on the developer's other tasks.
// Unassigned tasks have no developer queue, so every count is zero for them.
func (s *TaskService) checkMoveGates(ctx context.Context, repo store.Repository, task *models.Task, newStatus models.TaskStatus) error {
	if !task.HasDeveloper() {
		return nil
	}

	// Leaving DONE puts the task back into the developer's active queue.
	if task.Status == models.StatusDone {
		if err := s.requireOrderFree(ctx, repo, task.DeveloperID, task.ExecutionOrder, task.ID); err != nil {
			return err
		}
	}

	if err := s.checkOrderGate(ctx, repo, task, newStatus); err != nil {
		return err
	}

	if newStatus == models.StatusDoing && task.Status != models.StatusDoing {
		if err := s.requireDoingCapacity(ctx, repo, task.DeveloperID); err != nil {
			return err
		}
	}
	return nil
}

// checkOrderGate rejects starting or finishing a task while an earlier task
// in the same developer queue is still TODO.
func (s *TaskService) checkOrderGate(ctx context.Context, repo store.Repository, task *models.Task, newStatus models.TaskStatus) error {
	if !task.HasDeveloper() {
		return nil
	}
	if newStatus != models.StatusDoing && newStatus != models.StatusDone {
		return nil
	}
	pending, err := repo.CountPendingBefore(ctx, task.DeveloperID, task.ExecutionOrder)
	if err != nil {
		return storeFailure("count pending tasks", err)
	}
	if pending > 0 {
		return conflict(CodeOutOfOrder, "must execute tasks in declared order")
	}
	return nil
}

// planTransition returns the status and timestamp changes for moving task to
// newStatus at now. realStartDate is stamped only the first time the task
// enters DOING. A zero time clears a column.
func planTransition(task *models.Task, newStatus models.TaskStatus, now time.Time) store.TaskUpdate {
	status := newStatus
	update := store.TaskUpdate{Status: &status}

	if newStatus == models.StatusDoing && task.RealStartDate == nil {
		start := now
		update.RealStartDate = &start
	}
	if newStatus == models.StatusDone {
		end := now
		update.RealEndDate = &end
	}
	if task.Status == models.StatusDone && newStatus != models.StatusDone {
		cleared := time.Time{}
		update.RealEndDate = &cleared
	}
	return update
}
