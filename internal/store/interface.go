package store

import (
	"context"
	"time"

	"kanban/internal/models"
)

// TaskRepository covers task persistence and the counting queries used by lifecycle rules.
type TaskRepository interface {
	CreateTask(ctx context.Context, task *models.Task) error
	GetTask(ctx context.Context, id string) (*models.Task, error)
	GetTaskDetail(ctx context.Context, id string) (*models.TaskDetail, error)
	ListTasks(ctx context.Context, filter TaskFilter) ([]models.TaskDetail, error)
	UpdateTask(ctx context.Context, id string, update TaskUpdate) (bool, error)
	DeleteTask(ctx context.Context, id string) (bool, error)
	ExecutionOrderTaken(ctx context.Context, developerID string, order int, excludeTaskID string) (bool, error)
	CountPendingBefore(ctx context.Context, developerID string, order int) (int, error)
	CountDoing(ctx context.Context, developerID string) (int, error)
	CountTasksForUser(ctx context.Context, userID string) (int, error)
	CountTasksForType(ctx context.Context, taskTypeID string) (int, error)
}

// UserRepository covers user persistence. Returned users carry the password hash;
// callers outside authentication must strip it.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, id string, update UserUpdate) (bool, error)
	DeleteUser(ctx context.Context, id string) (bool, error)
	CountSubordinates(ctx context.Context, managerID string) (int, error)
}

// TaskTypeRepository covers task type persistence.
type TaskTypeRepository interface {
	CreateTaskType(ctx context.Context, taskType *models.TaskType) error
	GetTaskType(ctx context.Context, id string) (*models.TaskType, error)
	ListTaskTypes(ctx context.Context) ([]models.TaskType, error)
	UpdateTaskType(ctx context.Context, id string, update TaskTypeUpdate) (bool, error)
	DeleteTaskType(ctx context.Context, id string) (bool, error)
}

// SessionRepository persists browser/API sessions issued at login.
type SessionRepository interface {
	CreateSession(ctx context.Context, userID, tokenHash string, expiresAt, createdAt time.Time) error
	GetUserBySessionTokenHash(ctx context.Context, tokenHash string, now time.Time) (*models.User, error)
	RevokeSessionByTokenHash(ctx context.Context, tokenHash string, revokedAt time.Time) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// Repository is the full statement surface available inside and outside transactions.
type Repository interface {
	TaskRepository
	UserRepository
	TaskTypeRepository
	SessionRepository
}

// DataStore is a Repository that can also run a function inside one transaction.
type DataStore interface {
	Repository
	InTx(ctx context.Context, fn func(Repository) error) error
}

var (
	_ Repository = (*Queries)(nil)
	_ DataStore  = (*Store)(nil)
)
