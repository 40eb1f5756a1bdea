package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"kanban/internal/auth"
	"kanban/internal/models"
	"kanban/internal/store"
)

var (
	testHasher = auth.Hasher{Cost: bcrypt.MinCost}
	testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
	dbCounter  atomic.Int64
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type testEnv struct {
	store    *store.Store
	tasks    *TaskService
	users    *UserService
	types    *TaskTypeService
	reports  *ReportService
	clock    *testClock
	manager  *models.User
	other    *models.User
	dev      *models.User
	dev2     *models.User
	taskType *models.TaskType
}

func openTestStore(t testing.TB, dir string) *store.Store {
	t.Helper()
	path := filepath.Join(dir, fmt.Sprintf("test-%d.db", dbCounter.Add(1)))
	st, err := store.Open(path)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithOptions(t, t.TempDir(), DefaultTaskServiceOptions())
}

func newTestEnvWithOptions(t testing.TB, dir string, opts TaskServiceOptions) *testEnv {
	t.Helper()
	ctx := context.Background()
	st := openTestStore(t, dir)
	clock := &testClock{now: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
	opts.Now = clock.Now
	opts.Logger = testLogger

	env := &testEnv{
		store:   st,
		tasks:   NewTaskService(st, opts),
		users:   NewUserService(st, testHasher, testLogger),
		types:   NewTaskTypeService(st, testLogger),
		reports: NewReportService(st, clock.Now),
		clock:   clock,
	}

	mustUser := func(in CreateUserInput) *models.User {
		user, err := env.users.CreateUser(ctx, in)
		if err != nil {
			t.Fatalf("create user %s: %v", in.Username, err)
		}
		return user
	}
	env.manager = mustUser(CreateUserInput{Name: "Alice Manager", Username: "alice", Password: "password123", Role: "MANAGER", ExperienceLevel: "SENIOR"})
	env.other = mustUser(CreateUserInput{Name: "Oscar Manager", Username: "oscar", Password: "password123", Role: "MANAGER", ExperienceLevel: "MID"})
	env.dev = mustUser(CreateUserInput{Name: "Bob Developer", Username: "bob", Password: "password123", Role: "DEVELOPER", ExperienceLevel: "MID", ManagerID: env.manager.ID})
	env.dev2 = mustUser(CreateUserInput{Name: "Charlie Coder", Username: "charlie", Password: "password123", Role: "DEVELOPER", ExperienceLevel: "JUNIOR", ManagerID: env.manager.ID})

	taskType, err := env.types.CreateTaskType(ctx, "Feature", "#3b82f6")
	if err != nil {
		t.Fatalf("create task type: %v", err)
	}
	env.taskType = taskType
	return env
}

func (e *testEnv) managerReq() Requester {
	return Requester{ID: e.manager.ID, Role: models.RoleManager}
}

func (e *testEnv) devReq(user *models.User) Requester {
	return Requester{ID: user.ID, Role: models.RoleDeveloper}
}

func (e *testEnv) createTask(t testing.TB, developerID string, order int) *models.TaskDetail {
	t.Helper()
	task, err := e.tasks.CreateTask(context.Background(), CreateTaskInput{
		Title:          fmt.Sprintf("task %d", order),
		StoryPoints:    3,
		ExecutionOrder: order,
		DeveloperID:    developerID,
		TaskTypeID:     e.taskType.ID,
	}, e.manager.ID)
	if err != nil {
		t.Fatalf("create task (dev=%s order=%d): %v", developerID, order, err)
	}
	return task
}

func (e *testEnv) move(t testing.TB, taskID string, status models.TaskStatus, req Requester) *models.TaskDetail {
	t.Helper()
	task, err := e.tasks.MoveTask(context.Background(), taskID, status, req)
	if err != nil {
		t.Fatalf("move %s to %s: %v", taskID, status, err)
	}
	return task
}

func requireKind(t testing.TB, err error, kind Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if got := KindOf(err); got != kind {
		t.Fatalf("expected %s error, got %s: %v", kind, got, err)
	}
}

func requireCode(t testing.TB, err error, code int) {
	t.Helper()
	var svcErr *Error
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected service error with code %d, got %v", code, err)
	}
	if svcErr.Code != code {
		t.Fatalf("expected code %d, got %d: %v", code, svcErr.Code, err)
	}
}

func ptr[T any](v T) *T {
	return &v
}
