package notify

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"dailyplan/internal/model"
)

type fakeNotifier struct {
	pending  map[string]Request
	failNext error
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{pending: make(map[string]Request)}
}

func (f *fakeNotifier) RequestPermission(context.Context) (bool, error) { return true, nil }

func (f *fakeNotifier) ScheduleAt(req Request) error {
	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return err
	}
	f.pending[req.ID] = req
	return nil
}

func (f *fakeNotifier) Cancel(id string) {
	delete(f.pending, id)
}

func (f *fakeNotifier) ListPending() []string {
	ids := make([]string, 0, len(f.pending))
	for id := range f.pending {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestScheduleFutureTask(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	fake := newFakeNotifier()
	coord := NewCoordinator(fake, WithClock(fixedClock(now)))

	task := model.Task{ID: "t1", Title: "Buy milk", StartDate: now.Add(time.Hour)}
	coord.Schedule(task)

	req, ok := fake.pending["t1"]
	if !ok {
		t.Fatal("expected pending notification for t1")
	}
	if req.Title != DeliveryTitle {
		t.Fatalf("unexpected content title: %q", req.Title)
	}
	if req.Body != "Buy milk" {
		t.Fatalf("unexpected body: %q", req.Body)
	}
	if !req.FireAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("unexpected fire time: %v", req.FireAt)
	}
}

func TestSchedulePastTaskIsSilentNoop(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	fake := newFakeNotifier()
	coord := NewCoordinator(fake, WithClock(fixedClock(now)))

	coord.Schedule(model.Task{ID: "past", Title: "Too late", StartDate: now.Add(-time.Minute)})
	coord.Schedule(model.Task{ID: "now", Title: "Right now", StartDate: now})

	if got := coord.Pending(); len(got) != 0 {
		t.Fatalf("expected no pending notifications, got %v", got)
	}
}

func TestScheduleTruncatesFireTimeToMinute(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	fake := newFakeNotifier()
	coord := NewCoordinator(fake, WithClock(fixedClock(now)))

	start := time.Date(2026, 2, 9, 13, 30, 42, 999, time.UTC)
	coord.Schedule(model.Task{ID: "t1", Title: "x", StartDate: start})

	want := time.Date(2026, 2, 9, 13, 30, 0, 0, time.UTC)
	if got := fake.pending["t1"].FireAt; !got.Equal(want) {
		t.Fatalf("fire time not truncated to minute: got %v want %v", got, want)
	}
}

func TestRescheduleReplacesNeverStacks(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	fake := newFakeNotifier()
	coord := NewCoordinator(fake, WithClock(fixedClock(now)))

	task := model.Task{ID: "t1", Title: "x", StartDate: now.Add(time.Hour)}
	coord.Schedule(task)
	task.StartDate = now.Add(2 * time.Hour)
	coord.Schedule(task)

	if got := coord.Pending(); len(got) != 1 || got[0] != "t1" {
		t.Fatalf("expected exactly one pending entry, got %v", got)
	}
	if got := fake.pending["t1"].FireAt; !got.Equal(now.Add(2 * time.Hour)) {
		t.Fatalf("expected replacement fire time, got %v", got)
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	fake := newFakeNotifier()
	coord := NewCoordinator(fake, WithClock(fixedClock(now)))

	task := model.Task{ID: "t1", Title: "x", StartDate: now.Add(time.Hour)}
	coord.Schedule(task)
	coord.Cancel(task)
	coord.Cancel(task)
	coord.CancelID("never-existed")

	if got := coord.Pending(); len(got) != 0 {
		t.Fatalf("expected no pending notifications, got %v", got)
	}
}

func TestScheduleFailureIsLoggedNotFatal(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	fake := newFakeNotifier()
	fake.failNext = errors.New("boom")

	var logged string
	coord := NewCoordinator(fake,
		WithClock(fixedClock(now)),
		WithLogf(func(format string, args ...any) { logged = format }),
	)

	coord.Schedule(model.Task{ID: "t1", Title: "x", StartDate: now.Add(time.Hour)})
	if logged == "" {
		t.Fatal("expected scheduling failure to be logged")
	}
	if got := coord.Pending(); len(got) != 0 {
		t.Fatalf("expected no pending after failure, got %v", got)
	}
}
