package service

import (
	"context"
	"log/slog"
	"strings"

	"kanban/internal/models"
	"kanban/internal/store"
)

// taskTypePalette supplies colors for task types created without one.
var taskTypePalette = []string{"#3b82f6", "#ef4444", "#f59e0b", "#10b981", "#8b5cf6"}

// TaskTypeService manages task categories.
type TaskTypeService struct {
	store  store.DataStore
	logger *slog.Logger
}

// NewTaskTypeService constructs a TaskTypeService.
func NewTaskTypeService(ds store.DataStore, logger *slog.Logger) *TaskTypeService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskTypeService{store: ds, logger: logger.With("component", "task_types")}
}

// CreateTaskType stores a new task type. An empty color picks the next palette entry.
func (s *TaskTypeService) CreateTaskType(ctx context.Context, name, color string) (*models.TaskType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidArgument(CodeMissingRequired, "name is required")
	}
	color = strings.TrimSpace(color)

	taskType := &models.TaskType{ID: store.NewID(), Name: name, Color: color}
	err := s.store.InTx(ctx, func(repo store.Repository) error {
		if taskType.Color == "" {
			existing, err := repo.ListTaskTypes(ctx)
			if err != nil {
				return storeFailure("list task types", err)
			}
			taskType.Color = paletteColor(len(existing))
		}
		return storeFailure("create task type", repo.CreateTaskType(ctx, taskType))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("task type created", "task_type_id", taskType.ID, "name", taskType.Name)
	return taskType, nil
}

// ListTaskTypes returns all task types.
func (s *TaskTypeService) ListTaskTypes(ctx context.Context) ([]models.TaskType, error) {
	types, err := s.store.ListTaskTypes(ctx)
	if err != nil {
		return nil, storeFailure("list task types", err)
	}
	return types, nil
}

// UpdateTaskType renames or recolors a task type.
func (s *TaskTypeService) UpdateTaskType(ctx context.Context, id string, name, color *string) (*models.TaskType, error) {
	if name == nil && color == nil {
		return nil, invalidArgument(CodeMissingRequired, "at least one field is required")
	}
	update := store.TaskTypeUpdate{Name: trimmedPtr(name), Color: trimmedPtr(color)}
	if update.Name != nil && *update.Name == "" {
		return nil, invalidArgument(CodeMissingRequired, "name cannot be empty")
	}
	if update.Color != nil && *update.Color == "" {
		return nil, invalidArgument(CodeMissingRequired, "color cannot be empty")
	}

	var updated *models.TaskType
	err := s.store.InTx(ctx, func(repo store.Repository) error {
		found, err := repo.UpdateTaskType(ctx, id, update)
		if err != nil {
			return storeFailure("update task type", err)
		}
		if !found {
			return notFound(CodeTaskTypeNotFound, "task type not found")
		}
		updated, err = repo.GetTaskType(ctx, id)
		return storeFailure("load task type", err)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteTaskType removes a task type that no task references.
func (s *TaskTypeService) DeleteTaskType(ctx context.Context, id string) error {
	err := s.store.InTx(ctx, func(repo store.Repository) error {
		refs, err := repo.CountTasksForType(ctx, id)
		if err != nil {
			return storeFailure("count task type references", err)
		}
		if refs > 0 {
			return conflict(CodeStillReferenced, "task type is referenced by %d task(s)", refs)
		}
		deleted, err := repo.DeleteTaskType(ctx, id)
		if err != nil {
			return storeFailure("delete task type", err)
		}
		if !deleted {
			return notFound(CodeTaskTypeNotFound, "task type not found")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("task type deleted", "task_type_id", id)
	return nil
}

func paletteColor(index int) string {
	return taskTypePalette[index%len(taskTypePalette)]
}
