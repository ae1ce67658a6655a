package planner

import (
	"context"
	"errors"
	"testing"
	"time"

	"dailyplan/internal/notify"
	"dailyplan/internal/storage"
)

// flakyRepo fails a configurable number of UpdateTask calls, then behaves.
type flakyRepo struct {
	storage.Repository
	failUpdates int
	updates     []storage.Task
}

func (f *flakyRepo) UpdateTask(ctx context.Context, in storage.Task) error {
	if f.failUpdates > 0 {
		f.failUpdates--
		return errors.New("disk full")
	}
	f.updates = append(f.updates, in)
	return f.Repository.UpdateTask(ctx, in)
}

func setupFlakyPlanner(t *testing.T) (*Planner, *flakyRepo, *fakeNotifier) {
	t.Helper()
	inner, fake := setupPlanner(t)
	repo := &flakyRepo{Repository: inner.repo}
	clock := func() time.Time { return testNow }
	discard := func(string, ...any) {}
	coord := notify.NewCoordinator(fake, notify.WithClock(clock), notify.WithLogf(discard))
	return New(repo, coord, WithClock(clock), WithLogf(discard)), repo, fake
}

func TestRestoreRollsBackOnPersistenceFailure(t *testing.T) {
	p, repo, fake := setupFlakyPlanner(t)
	ctx := context.Background()

	task := mustCreate(t, p, homeDraft("Buy milk", time.Hour))
	if err := p.Archive(ctx, task.ID); err != nil {
		t.Fatalf("archive: %v", err)
	}

	repo.failUpdates = 1
	err := p.Restore(ctx, task.ID)
	if err == nil {
		t.Fatal("expected restore to surface the persistence failure")
	}

	// The failed restore re-saved the archived state and scheduled nothing.
	got, gerr := p.Get(ctx, task.ID)
	if gerr != nil {
		t.Fatalf("get: %v", gerr)
	}
	if !got.IsArchived {
		t.Fatal("archived flag not rolled back after failed restore")
	}
	if len(repo.updates) == 0 || !repo.updates[len(repo.updates)-1].IsArchived {
		t.Fatal("rollback re-save did not persist the archived state")
	}
	if _, ok := fake.pending[task.ID]; ok {
		t.Fatal("failed restore must not schedule a notification")
	}
}

func TestEditRestoresOldScheduleOnPersistenceFailure(t *testing.T) {
	p, repo, fake := setupFlakyPlanner(t)
	ctx := context.Background()

	task := mustCreate(t, p, homeDraft("Buy milk", time.Hour))

	repo.failUpdates = 1
	if _, err := p.Edit(ctx, task.ID, homeDraft("Buy milk", 3*time.Hour)); err == nil {
		t.Fatal("expected edit to surface the persistence failure")
	}

	req, ok := fake.pending[task.ID]
	if !ok {
		t.Fatal("old schedule should survive a failed edit")
	}
	if !req.FireAt.Equal(testNow.Add(time.Hour)) {
		t.Fatalf("old fire time not restored: %v", req.FireAt)
	}
}
