package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"kanban/internal/models"
	"kanban/internal/store"
)

// Requester identifies the authenticated caller of a service operation.
type Requester struct {
	ID   string
	Role models.Role
}

func (r Requester) IsManager() bool {
	return r.Role == models.RoleManager
}

func (r Requester) IsDeveloper() bool {
	return r.Role == models.RoleDeveloper
}

// TaskServiceOptions tunes lifecycle rules.
type TaskServiceOptions struct {
	// MaxDoing caps concurrent DOING tasks per developer. Zero means models.MaxDoingPerDeveloper.
	MaxDoing int
	// AllowDoneCorrection permits moving DONE tasks back to TODO or DOING.
	AllowDoneCorrection bool
	Now                 func() time.Time
	Logger              *slog.Logger
}

// DefaultTaskServiceOptions returns the standard board rules.
func DefaultTaskServiceOptions() TaskServiceOptions {
	return TaskServiceOptions{
		MaxDoing:            models.MaxDoingPerDeveloper,
		AllowDoneCorrection: true,
	}
}

// TaskService enforces the task lifecycle rules. Every mutation runs its
// validation reads and its write inside one store transaction.
type TaskService struct {
	store  store.DataStore
	opts   TaskServiceOptions
	now    func() time.Time
	logger *slog.Logger
}

// NewTaskService constructs a TaskService.
func NewTaskService(ds store.DataStore, opts TaskServiceOptions) *TaskService {
	if opts.MaxDoing <= 0 {
		opts.MaxDoing = models.MaxDoingPerDeveloper
	}
	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskService{
		store:  ds,
		opts:   opts,
		now:    now,
		logger: logger.With("component", "tasks"),
	}
}

// CreateTaskInput carries the fields of a new task.
type CreateTaskInput struct {
	Title            string
	Description      string
	StoryPoints      int
	PlannedStartDate *time.Time
	PlannedEndDate   *time.Time
	ExecutionOrder   int
	DeveloperID      string
	TaskTypeID       string
}

// TaskEdit carries optional field changes. DeveloperID pointing at "" unassigns
// the task; a date pointing at the zero time clears it.
type TaskEdit struct {
	Title            *string
	Description      *string
	StoryPoints      *int
	PlannedStartDate *time.Time
	PlannedEndDate   *time.Time
	ExecutionOrder   *int
	DeveloperID      *string
	TaskTypeID       *string
}

func (e TaskEdit) isEmpty() bool {
	return e.Title == nil && e.Description == nil && e.StoryPoints == nil &&
		e.PlannedStartDate == nil && e.PlannedEndDate == nil &&
		e.ExecutionOrder == nil && e.DeveloperID == nil && e.TaskTypeID == nil
}

// CreateTask creates a TODO task owned by the requesting manager.
func (s *TaskService) CreateTask(ctx context.Context, in CreateTaskInput, requesterID string) (*models.TaskDetail, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.DeveloperID = strings.TrimSpace(in.DeveloperID)
	in.TaskTypeID = strings.TrimSpace(in.TaskTypeID)
	if err := validateCreateInput(in); err != nil {
		return nil, err
	}

	var created *models.TaskDetail
	err := s.store.InTx(ctx, func(repo store.Repository) error {
		requester, err := repo.GetUser(ctx, requesterID)
		if err != nil {
			return storeFailure("get requester", err)
		}
		if requester == nil {
			return notFound(CodeUserNotFound, "requester not found")
		}
		if !requester.IsManager() {
			return forbidden("only managers can create tasks")
		}

		if err := requireTaskType(ctx, repo, in.TaskTypeID); err != nil {
			return err
		}
		if in.DeveloperID != "" {
			if err := requireDeveloper(ctx, repo, in.DeveloperID); err != nil {
				return err
			}
			if err := s.requireOrderFree(ctx, repo, in.DeveloperID, in.ExecutionOrder, ""); err != nil {
				return err
			}
		}

		task := &models.Task{
			ID:               store.NewID(),
			Title:            in.Title,
			Description:      in.Description,
			StoryPoints:      in.StoryPoints,
			Status:           models.StatusTodo,
			ExecutionOrder:   in.ExecutionOrder,
			PlannedStartDate: in.PlannedStartDate,
			PlannedEndDate:   in.PlannedEndDate,
			ManagerID:        requester.ID,
			DeveloperID:      in.DeveloperID,
			TaskTypeID:       in.TaskTypeID,
		}
		if err := repo.CreateTask(ctx, task); err != nil {
			return classifyWriteError("create task", err)
		}

		created, err = repo.GetTaskDetail(ctx, task.ID)
		return storeFailure("load task", err)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("task created", "task_id", created.ID, "manager_id", created.ManagerID, "developer_id", created.DeveloperID)
	return created, nil
}

// ListTasks returns the tasks visible to the requester: managers see the tasks
// they own, developers see every task.
func (s *TaskService) ListTasks(ctx context.Context, req Requester) ([]models.TaskDetail, error) {
	filter := store.TaskFilter{}
	switch req.Role {
	case models.RoleManager:
		filter.ManagerID = req.ID
	case models.RoleDeveloper:
	default:
		return nil, forbidden("unknown role %q", req.Role)
	}

	tasks, err := s.store.ListTasks(ctx, filter)
	if err != nil {
		return nil, storeFailure("list tasks", err)
	}
	return tasks, nil
}

// EditTask changes the editable fields of a non-DONE task owned by the requesting manager.
func (s *TaskService) EditTask(ctx context.Context, taskID string, edit TaskEdit, req Requester) (*models.TaskDetail, error) {
	if !req.IsManager() {
		return nil, forbidden("only managers can edit tasks")
	}
	if edit.isEmpty() {
		return nil, invalidArgument(CodeMissingRequired, "at least one field is required")
	}
	if err := validateEdit(edit); err != nil {
		return nil, err
	}

	var edited *models.TaskDetail
	err := s.store.InTx(ctx, func(repo store.Repository) error {
		task, err := repo.GetTask(ctx, taskID)
		if err != nil {
			return storeFailure("get task", err)
		}
		if task == nil {
			return notFound(CodeTaskNotFound, "task not found")
		}
		if task.Status == models.StatusDone {
			return conflict(CodeTaskImmutable, "completed tasks are immutable")
		}
		if task.ManagerID != req.ID {
			return forbidden("managers may only edit their own tasks")
		}

		if err := validateDateRange(
			pickDate(edit.PlannedStartDate, task.PlannedStartDate),
			pickDate(edit.PlannedEndDate, task.PlannedEndDate),
		); err != nil {
			return err
		}

		update := store.TaskUpdate{
			Title:            trimmedPtr(edit.Title),
			Description:      edit.Description,
			StoryPoints:      edit.StoryPoints,
			PlannedStartDate: edit.PlannedStartDate,
			PlannedEndDate:   edit.PlannedEndDate,
			ExecutionOrder:   edit.ExecutionOrder,
			DeveloperID:      trimmedPtr(edit.DeveloperID),
			TaskTypeID:       trimmedPtr(edit.TaskTypeID),
		}

		if update.TaskTypeID != nil && *update.TaskTypeID != task.TaskTypeID {
			if err := requireTaskType(ctx, repo, *update.TaskTypeID); err != nil {
				return err
			}
		}

		developerID := task.DeveloperID
		if update.DeveloperID != nil {
			developerID = *update.DeveloperID
		}
		order := task.ExecutionOrder
		if update.ExecutionOrder != nil {
			order = *update.ExecutionOrder
		}
		developerChanged := developerID != task.DeveloperID
		if developerChanged && developerID != "" {
			if err := requireDeveloper(ctx, repo, developerID); err != nil {
				return err
			}
			if task.Status == models.StatusDoing {
				if err := s.requireDoingCapacity(ctx, repo, developerID); err != nil {
					return err
				}
			}
		}
		if developerID != "" && (developerChanged || order != task.ExecutionOrder) {
			if err := s.requireOrderFree(ctx, repo, developerID, order, task.ID); err != nil {
				return err
			}
		}

		if _, err := repo.UpdateTask(ctx, task.ID, update); err != nil {
			return classifyWriteError("update task", err)
		}
		edited, err = repo.GetTaskDetail(ctx, task.ID)
		return storeFailure("load task", err)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("task edited", "task_id", edited.ID, "manager_id", req.ID)
	return edited, nil
}

// DeleteTask hard-deletes a task owned by the requesting manager.
func (s *TaskService) DeleteTask(ctx context.Context, taskID string, req Requester) error {
	if !req.IsManager() {
		return forbidden("only managers can delete tasks")
	}

	err := s.store.InTx(ctx, func(repo store.Repository) error {
		task, err := repo.GetTask(ctx, taskID)
		if err != nil {
			return storeFailure("get task", err)
		}
		if task == nil {
			return notFound(CodeTaskNotFound, "task not found")
		}
		if task.ManagerID != req.ID {
			return forbidden("managers may only delete their own tasks")
		}
		deleted, err := repo.DeleteTask(ctx, task.ID)
		if err != nil {
			return storeFailure("delete task", err)
		}
		if !deleted {
			return notFound(CodeTaskNotFound, "task not found")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("task deleted", "task_id", taskID, "manager_id", req.ID)
	return nil
}

func (s *TaskService) requireOrderFree(ctx context.Context, repo store.Repository, developerID string, order int, excludeTaskID string) error {
	taken, err := repo.ExecutionOrderTaken(ctx, developerID, order, excludeTaskID)
	if err != nil {
		return storeFailure("check execution order", err)
	}
	if taken {
		return conflict(CodeExecutionOrderInUse, "execution order already in use for this developer")
	}
	return nil
}

func (s *TaskService) requireDoingCapacity(ctx context.Context, repo store.Repository, developerID string) error {
	doing, err := repo.CountDoing(ctx, developerID)
	if err != nil {
		return storeFailure("count in-progress tasks", err)
	}
	if doing >= s.opts.MaxDoing {
		return conflict(CodeWIPLimit, "max %d concurrent in-progress tasks per developer", s.opts.MaxDoing)
	}
	return nil
}

func requireTaskType(ctx context.Context, repo store.Repository, id string) error {
	taskType, err := repo.GetTaskType(ctx, id)
	if err != nil {
		return storeFailure("get task type", err)
	}
	if taskType == nil {
		return notFound(CodeTaskTypeNotFound, "task type not found")
	}
	return nil
}

func requireDeveloper(ctx context.Context, repo store.Repository, id string) error {
	user, err := repo.GetUser(ctx, id)
	if err != nil {
		return storeFailure("get developer", err)
	}
	if user == nil {
		return notFound(CodeUserNotFound, "developer not found")
	}
	if !user.IsDeveloper() {
		return invalidArgument(CodeInvalidRole, "assignee must be a developer")
	}
	return nil
}

// classifyWriteError maps constraint violations that slipped past the
// pre-checks to conflicts.
func classifyWriteError(op string, err error) error {
	if store.IsUniqueViolation(err) {
		return conflict(CodeExecutionOrderInUse, "execution order already in use for this developer")
	}
	if store.IsForeignKeyViolation(err) {
		return conflict(CodeConflict, "referenced record no longer exists")
	}
	return storeFailure(op, err)
}

func validateCreateInput(in CreateTaskInput) error {
	if in.Title == "" {
		return invalidArgument(CodeMissingRequired, "title is required")
	}
	if in.StoryPoints <= 0 {
		return invalidArgument(CodeInvalidArgument, "storyPoints must be a positive integer")
	}
	if in.ExecutionOrder <= 0 {
		return invalidArgument(CodeInvalidArgument, "executionOrder must be a positive integer")
	}
	if in.TaskTypeID == "" {
		return invalidArgument(CodeMissingRequired, "taskTypeId is required")
	}
	return validateDateRange(in.PlannedStartDate, in.PlannedEndDate)
}

func validateEdit(edit TaskEdit) error {
	if edit.Title != nil && strings.TrimSpace(*edit.Title) == "" {
		return invalidArgument(CodeMissingRequired, "title cannot be empty")
	}
	if edit.StoryPoints != nil && *edit.StoryPoints <= 0 {
		return invalidArgument(CodeInvalidArgument, "storyPoints must be a positive integer")
	}
	if edit.ExecutionOrder != nil && *edit.ExecutionOrder <= 0 {
		return invalidArgument(CodeInvalidArgument, "executionOrder must be a positive integer")
	}
	if edit.TaskTypeID != nil && strings.TrimSpace(*edit.TaskTypeID) == "" {
		return invalidArgument(CodeMissingRequired, "taskTypeId cannot be empty")
	}
	return nil
}

func validateDateRange(start, end *time.Time) error {
	if start == nil || end == nil || start.IsZero() || end.IsZero() {
		return nil
	}
	if end.Before(*start) {
		return invalidArgument(CodeInvalidDateRange, "plannedEndDate must not be before plannedStartDate")
	}
	return nil
}

func pickDate(edited, current *time.Time) *time.Time {
	if edited != nil {
		return edited
	}
	return current
}

func trimmedPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	return &trimmed
}
