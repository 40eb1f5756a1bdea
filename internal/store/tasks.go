package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"kanban/internal/models"
)

// TaskFilter narrows ListTasks. Empty fields do not filter.
type TaskFilter struct {
	ManagerID   string
	DeveloperID string
	Statuses    []models.TaskStatus
	Limit       int
	Offset      int
}

// TaskUpdate holds optional task field changes. A pointer to "" clears the
// developer, and a pointer to the zero time clears a date.
type TaskUpdate struct {
	Title            *string
	Description      *string
	StoryPoints      *int
	Status           *models.TaskStatus
	ExecutionOrder   *int
	PlannedStartDate *time.Time
	PlannedEndDate   *time.Time
	RealStartDate    *time.Time
	RealEndDate      *time.Time
	DeveloperID      *string
	TaskTypeID       *string
}

// IsEmpty reports whether the update carries no changes.
func (u TaskUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.StoryPoints == nil &&
		u.Status == nil && u.ExecutionOrder == nil &&
		u.PlannedStartDate == nil && u.PlannedEndDate == nil &&
		u.RealStartDate == nil && u.RealEndDate == nil &&
		u.DeveloperID == nil && u.TaskTypeID == nil
}

const taskColumns = `t.id, t.title, t.description, t.story_points, t.status, t.execution_order,
	t.planned_start_date, t.planned_end_date, t.real_start_date, t.real_end_date,
	t.manager_id, t.developer_id, t.task_type_id`

const taskDetailColumns = taskColumns + `,
	COALESCE(d.name, ?), COALESCE(d.avatar_url, ''), COALESCE(m.name, ''),
	COALESCE(tt.name, ''), COALESCE(tt.color, ?)`

const taskDetailJoins = `
	FROM tasks t
	LEFT JOIN users d ON d.id = t.developer_id
	LEFT JOIN users m ON m.id = t.manager_id
	LEFT JOIN task_types tt ON tt.id = t.task_type_id`

// CreateTask inserts a task.
func (q *Queries) CreateTask(ctx context.Context, task *models.Task) error {
	if task == nil {
		return fmt.Errorf("task is required")
	}
	if task.ID == "" {
		task.ID = NewID()
	}

	_, err := q.db.ExecContext(ctx, `
		INSERT INTO tasks (
			id, title, description, story_points, status, execution_order,
			planned_start_date, planned_end_date, real_start_date, real_end_date,
			manager_id, developer_id, task_type_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		task.ID,
		task.Title,
		nullIfEmpty(task.Description),
		task.StoryPoints,
		string(task.Status),
		task.ExecutionOrder,
		nullTime(task.PlannedStartDate),
		nullTime(task.PlannedEndDate),
		nullTime(task.RealStartDate),
		nullTime(task.RealEndDate),
		task.ManagerID,
		nullIfEmpty(task.DeveloperID),
		task.TaskTypeID,
	)
	return err
}

// GetTask returns a task by id, or nil when absent.
func (q *Queries) GetTask(ctx context.Context, id string) (*models.Task, error) {
	row := q.db.QueryRowContext(ctx, "SELECT "+taskColumns+" FROM tasks t WHERE t.id = ?", id)
	return scanTask(row)
}

// GetTaskDetail returns an enriched task by id, or nil when absent.
func (q *Queries) GetTaskDetail(ctx context.Context, id string) (*models.TaskDetail, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT "+taskDetailColumns+taskDetailJoins+" WHERE t.id = ?",
		models.UnassignedDeveloperName, models.NeutralTaskTypeColor, id,
	)
	return scanTaskDetail(row)
}

// ListTasks returns enriched tasks matching filter, ordered by execution order.
func (q *Queries) ListTasks(ctx context.Context, filter TaskFilter) ([]models.TaskDetail, error) {
	query, args := buildListQuery(filter)
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]models.TaskDetail, 0)
	for rows.Next() {
		task, err := scanTaskDetail(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

// UpdateTask applies update to a task. It returns false when the task does not exist.
func (q *Queries) UpdateTask(ctx context.Context, id string, update TaskUpdate) (bool, error) {
	if id == "" {
		return false, fmt.Errorf("id is required")
	}

	set := []string{}
	args := []any{}

	if update.Title != nil {
		set = append(set, "title = ?")
		args = append(args, *update.Title)
	}
	if update.Description != nil {
		set = append(set, "description = ?")
		args = append(args, nullIfEmpty(*update.Description))
	}
	if update.StoryPoints != nil {
		set = append(set, "story_points = ?")
		args = append(args, *update.StoryPoints)
	}
	if update.Status != nil {
		set = append(set, "status = ?")
		args = append(args, string(*update.Status))
	}
	if update.ExecutionOrder != nil {
		set = append(set, "execution_order = ?")
		args = append(args, *update.ExecutionOrder)
	}
	if update.PlannedStartDate != nil {
		set = append(set, "planned_start_date = ?")
		args = append(args, nullTime(update.PlannedStartDate))
	}
	if update.PlannedEndDate != nil {
		set = append(set, "planned_end_date = ?")
		args = append(args, nullTime(update.PlannedEndDate))
	}
	if update.RealStartDate != nil {
		set = append(set, "real_start_date = ?")
		args = append(args, nullTime(update.RealStartDate))
	}
	if update.RealEndDate != nil {
		set = append(set, "real_end_date = ?")
		args = append(args, nullTime(update.RealEndDate))
	}
	if update.DeveloperID != nil {
		set = append(set, "developer_id = ?")
		args = append(args, nullIfEmpty(*update.DeveloperID))
	}
	if update.TaskTypeID != nil {
		set = append(set, "task_type_id = ?")
		args = append(args, *update.TaskTypeID)
	}

	if len(set) == 0 {
		return q.taskExists(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE tasks SET %s WHERE id = ?", strings.Join(set, ", "))
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

// DeleteTask removes a task. It returns false when the task does not exist.
func (q *Queries) DeleteTask(ctx context.Context, id string) (bool, error) {
	result, err := q.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// ExecutionOrderTaken reports whether another non-DONE task of the developer
// already uses order. excludeTaskID may be empty.
func (q *Queries) ExecutionOrderTaken(ctx context.Context, developerID string, order int, excludeTaskID string) (bool, error) {
	if developerID == "" {
		return false, nil
	}
	var count int
	err := q.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM tasks
		WHERE developer_id = ? AND execution_order = ? AND status <> ? AND id <> ?
	`, developerID, order, string(models.StatusDone), excludeTaskID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountPendingBefore counts TODO tasks of the developer with a smaller execution order.
func (q *Queries) CountPendingBefore(ctx context.Context, developerID string, order int) (int, error) {
	if developerID == "" {
		return 0, nil
	}
	var count int
	err := q.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM tasks
		WHERE developer_id = ? AND status = ? AND execution_order < ?
	`, developerID, string(models.StatusTodo), order).Scan(&count)
	return count, err
}

// CountDoing counts the developer's DOING tasks.
func (q *Queries) CountDoing(ctx context.Context, developerID string) (int, error) {
	if developerID == "" {
		return 0, nil
	}
	var count int
	err := q.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM tasks WHERE developer_id = ? AND status = ?",
		developerID, string(models.StatusDoing),
	).Scan(&count)
	return count, err
}

// CountTasksForUser counts tasks that reference the user as manager or developer.
func (q *Queries) CountTasksForUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := q.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM tasks WHERE manager_id = ? OR developer_id = ?",
		userID, userID,
	).Scan(&count)
	return count, err
}

// CountTasksForType counts tasks that reference the task type.
func (q *Queries) CountTasksForType(ctx context.Context, taskTypeID string) (int, error) {
	var count int
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tasks WHERE task_type_id = ?", taskTypeID).Scan(&count)
	return count, err
}

func (q *Queries) taskExists(ctx context.Context, id string) (bool, error) {
	var count int
	if err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tasks WHERE id = ?", id).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

type taskRow struct {
	task         models.Task
	status       string
	description  sql.NullString
	developerID  sql.NullString
	plannedStart sql.NullString
	plannedEnd   sql.NullString
	realStart    sql.NullString
	realEnd      sql.NullString
}

func (r *taskRow) dest() []any {
	return []any{
		&r.task.ID,
		&r.task.Title,
		&r.description,
		&r.task.StoryPoints,
		&r.status,
		&r.task.ExecutionOrder,
		&r.plannedStart,
		&r.plannedEnd,
		&r.realStart,
		&r.realEnd,
		&r.task.ManagerID,
		&r.developerID,
		&r.task.TaskTypeID,
	}
}

func (r *taskRow) finish() (models.Task, error) {
	task := r.task
	task.Status = models.TaskStatus(r.status)
	task.Description = r.description.String
	task.DeveloperID = r.developerID.String

	var err error
	if task.PlannedStartDate, err = parseNullTime(r.plannedStart); err != nil {
		return task, err
	}
	if task.PlannedEndDate, err = parseNullTime(r.plannedEnd); err != nil {
		return task, err
	}
	if task.RealStartDate, err = parseNullTime(r.realStart); err != nil {
		return task, err
	}
	if task.RealEndDate, err = parseNullTime(r.realEnd); err != nil {
		return task, err
	}
	return task, nil
}

func scanTask(scanner interface {
	Scan(dest ...any) error
}) (*models.Task, error) {
	var row taskRow
	if err := scanner.Scan(row.dest()...); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	task, err := row.finish()
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func scanTaskDetail(scanner interface {
	Scan(dest ...any) error
}) (*models.TaskDetail, error) {
	var row taskRow
	var detail models.TaskDetail
	dest := append(row.dest(),
		&detail.DeveloperName,
		&detail.DeveloperAvatar,
		&detail.ManagerName,
		&detail.TaskTypeName,
		&detail.TaskTypeColor,
	)
	if err := scanner.Scan(dest...); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	task, err := row.finish()
	if err != nil {
		return nil, err
	}
	detail.Task = task
	return &detail, nil
}

func placeholders(count int) string {
	if count <= 0 {
		return ""
	}
	return strings.TrimRight(strings.Repeat("?,", count), ",")
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullTime(value *time.Time) any {
	if value == nil || value.IsZero() {
		return nil
	}
	return formatTime(*value)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, value)
}

func parseNullTime(value sql.NullString) (*time.Time, error) {
	if !value.Valid || value.String == "" {
		return nil, nil
	}
	parsed, err := parseTime(value.String)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
