package store

import (
	"context"
	"path/filepath"
	"testing"

	"kanban/internal/models"
)

func TestStoreInfo(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	info, err := st.StoreInfo(ctx)
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	if info.SchemaVersion == 0 {
		t.Fatal("expected non-zero schema version")
	}
	if info.TotalTasks != 0 {
		t.Fatalf("expected 0 total tasks, got %d", info.TotalTasks)
	}

	f := seedFixture(t, st)
	t1 := newTask(f, "a", 1, f.dev.ID)
	t2 := newTask(f, "b", 2, f.dev.ID)
	for _, task := range []*models.Task{t1, t2} {
		if err := st.CreateTask(ctx, task); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	done := models.StatusDone
	if _, err := st.UpdateTask(ctx, t1.ID, TaskUpdate{Status: &done}); err != nil {
		t.Fatalf("update: %v", err)
	}

	info, err = st.StoreInfo(ctx)
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	if info.TotalTasks != 2 {
		t.Fatalf("expected 2 total tasks, got %d", info.TotalTasks)
	}
	if info.TaskCounts["TODO"] != 1 || info.TaskCounts["DONE"] != 1 {
		t.Fatalf("unexpected counts: %+v", info.TaskCounts)
	}
	if info.Users != 2 || info.TaskTypes != 1 {
		t.Fatalf("expected 2 users and 1 type, got %d and %d", info.Users, info.TaskTypes)
	}
}

func TestSnapshotTo(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	f := seedFixture(t, st)
	task := newTask(f, "snapshotted", 1, f.dev.ID)
	if err := st.CreateTask(ctx, task); err != nil {
		t.Fatalf("create: %v", err)
	}

	path := filepath.Join(t.TempDir(), "copy.db")
	if err := st.SnapshotTo(ctx, path); err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if err := st.SnapshotTo(ctx, path); err == nil {
		t.Fatal("expected snapshot over an existing file to fail")
	}

	copied, err := Open(path)
	if err != nil {
		t.Fatalf("open copy: %v", err)
	}
	defer copied.Close()
	got, err := copied.GetTask(ctx, task.ID)
	if err != nil || got == nil {
		t.Fatalf("expected task in copy, got %v (err %v)", got, err)
	}
	if got.Title != "snapshotted" {
		t.Fatalf("unexpected title %q", got.Title)
	}
}
