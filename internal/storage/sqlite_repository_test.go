package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func setupRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "dailyplan-test.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}

	repo, err := NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	return repo
}

func boolPtr(v bool) *bool { return &v }

func TestTaskCRUD(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	created := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)

	task := Task{
		ID:        "task-1",
		Title:     "Buy milk",
		Category:  "Home",
		StartDate: created.Add(time.Hour),
		Priority:  "medium",
		CreatedAt: created,
	}
	if err := repo.CreateTask(ctx, task); err != nil {
		t.Fatalf("create task: %v", err)
	}

	got, err := repo.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got.Title != task.Title || got.Category != "Home" || got.Priority != "medium" {
		t.Fatalf("unexpected task get result: %#v", got)
	}
	if !got.StartDate.Equal(task.StartDate) {
		t.Fatalf("start date round trip mismatch: got %v want %v", got.StartDate, task.StartDate)
	}
	if got.IsArchived {
		t.Fatalf("expected unarchived task, got %#v", got)
	}

	task.Title = "Buy oat milk"
	task.IsArchived = true
	if err := repo.UpdateTask(ctx, task); err != nil {
		t.Fatalf("update task: %v", err)
	}

	got, err = repo.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if got.Title != "Buy oat milk" || !got.IsArchived {
		t.Fatalf("update not persisted: %#v", got)
	}

	if err := repo.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("delete task: %v", err)
	}
	if _, err := repo.GetTask(ctx, task.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestUpdateMissingTaskReturnsNotFound(t *testing.T) {
	repo := setupRepo(t)
	err := repo.UpdateTask(context.Background(), Task{
		ID:        "ghost",
		Title:     "nope",
		Category:  "General",
		StartDate: time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC),
		Priority:  "low",
		CreatedAt: time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteMissingTaskReturnsNotFound(t *testing.T) {
	repo := setupRepo(t)
	if err := repo.DeleteTask(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListTasksFiltersAndOrder(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	base := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)

	seed := []Task{
		{ID: "a", Title: "Vacuum", Category: "Home", StartDate: base, Priority: "low", CreatedAt: base},
		{ID: "b", Title: "Report", Category: "Work", StartDate: base, Priority: "high", CreatedAt: base.Add(time.Minute)},
		{ID: "c", Title: "Dishes", Category: "Home", StartDate: base, Priority: "medium", CreatedAt: base.Add(2 * time.Minute)},
		{ID: "d", Title: "Old report", Category: "Work", StartDate: base, Priority: "low", IsArchived: true, CreatedAt: base.Add(3 * time.Minute)},
	}
	for _, in := range seed {
		if err := repo.CreateTask(ctx, in); err != nil {
			t.Fatalf("seed %s: %v", in.ID, err)
		}
	}

	home, err := repo.ListTasks(ctx, TaskListFilter{Category: "Home"})
	if err != nil {
		t.Fatalf("list home: %v", err)
	}
	if len(home) != 2 || home[0].ID != "a" || home[1].ID != "c" {
		t.Fatalf("unexpected home list: %#v", home)
	}

	active, err := repo.ListTasks(ctx, TaskListFilter{Archived: boolPtr(false)})
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 3 {
		t.Fatalf("expected 3 active tasks, got %d", len(active))
	}

	archived, err := repo.ListTasks(ctx, TaskListFilter{Archived: boolPtr(true)})
	if err != nil {
		t.Fatalf("list archived: %v", err)
	}
	if len(archived) != 1 || archived[0].ID != "d" {
		t.Fatalf("unexpected archived list: %#v", archived)
	}

	page, err := repo.ListTasks(ctx, TaskListFilter{Limit: 2, Offset: 1})
	if err != nil {
		t.Fatalf("list page: %v", err)
	}
	if len(page) != 2 || page[0].ID != "b" || page[1].ID != "c" {
		t.Fatalf("unexpected page: %#v", page)
	}
}

func TestListTasksKeepsInsertionOrderWithinSameInstant(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	at := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)

	for _, id := range []string{"1", "2", "3"} {
		if err := repo.CreateTask(ctx, Task{
			ID: id, Title: "t" + id, Category: "General", StartDate: at, Priority: "low", CreatedAt: at,
		}); err != nil {
			t.Fatalf("seed %s: %v", id, err)
		}
	}

	got, err := repo.ListTasks(ctx, TaskListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 || got[0].ID != "1" || got[1].ID != "2" || got[2].ID != "3" {
		t.Fatalf("unexpected order: %#v", got)
	}
}

func TestTimesComeBackInLocalZone(t *testing.T) {
	restore := time.Local
	time.Local = time.FixedZone("UTC-4", -4*60*60)
	t.Cleanup(func() { time.Local = restore })

	repo := setupRepo(t)
	ctx := context.Background()
	start := time.Date(2026, 6, 1, 22, 0, 0, 0, time.UTC)

	if err := repo.CreateTask(ctx, Task{
		ID: "tz-1", Title: "Evening call", Category: "Work",
		StartDate: start, Priority: "high", CreatedAt: start,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.GetTask(ctx, "tz-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.StartDate.Equal(start) {
		t.Fatalf("reading back moved the instant: got %v want %v", got.StartDate, start)
	}
	if got.StartDate.Location() != time.Local {
		t.Fatalf("start date should be in the local zone, got %v", got.StartDate.Location())
	}
	if got.CreatedAt.Location() != time.Local {
		t.Fatalf("created at should be in the local zone, got %v", got.CreatedAt.Location())
	}
}
