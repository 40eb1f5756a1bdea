package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"kanban/internal/models"
)

// TaskTypeUpdate holds optional task type field changes.
type TaskTypeUpdate struct {
	Name  *string
	Color *string
}

// CreateTaskType inserts a task type.
func (q *Queries) CreateTaskType(ctx context.Context, taskType *models.TaskType) error {
	if taskType == nil {
		return fmt.Errorf("task type is required")
	}
	if taskType.ID == "" {
		taskType.ID = NewID()
	}
	_, err := q.db.ExecContext(ctx,
		"INSERT INTO task_types (id, name, color) VALUES (?, ?, ?)",
		taskType.ID, taskType.Name, taskType.Color,
	)
	return err
}

// GetTaskType returns a task type by id, or nil when absent.
func (q *Queries) GetTaskType(ctx context.Context, id string) (*models.TaskType, error) {
	row := q.db.QueryRowContext(ctx, "SELECT id, name, color FROM task_types WHERE id = ?", id)
	return scanTaskType(row)
}

// ListTaskTypes returns all task types sorted by name.
func (q *Queries) ListTaskTypes(ctx context.Context) ([]models.TaskType, error) {
	rows, err := q.db.QueryContext(ctx, "SELECT id, name, color FROM task_types ORDER BY name ASC, id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	types := make([]models.TaskType, 0)
	for rows.Next() {
		taskType, err := scanTaskType(rows)
		if err != nil {
			return nil, err
		}
		types = append(types, *taskType)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return types, nil
}

// UpdateTaskType applies update. It returns false when the task type does not exist.
func (q *Queries) UpdateTaskType(ctx context.Context, id string, update TaskTypeUpdate) (bool, error) {
	set := []string{}
	args := []any{}
	if update.Name != nil {
		set = append(set, "name = ?")
		args = append(args, *update.Name)
	}
	if update.Color != nil {
		set = append(set, "color = ?")
		args = append(args, *update.Color)
	}
	if len(set) == 0 {
		taskType, err := q.GetTaskType(ctx, id)
		return taskType != nil, err
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE task_types SET %s WHERE id = ?", strings.Join(set, ", "))
	result, err := q.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// DeleteTaskType removes a task type. It returns false when it does not exist.
func (q *Queries) DeleteTaskType(ctx context.Context, id string) (bool, error) {
	result, err := q.db.ExecContext(ctx, "DELETE FROM task_types WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func scanTaskType(scanner interface {
	Scan(dest ...any) error
}) (*models.TaskType, error) {
	var taskType models.TaskType
	if err := scanner.Scan(&taskType.ID, &taskType.Name, &taskType.Color); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &taskType, nil
}
