package notify

import (
	"log"
	"time"

	"dailyplan/internal/model"
)

// DeliveryTitle is the fixed content title of every task notification; the
// body carries the task's own title.
const DeliveryTitle = "Task Starting Now!"

// Coordinator maintains a 1:1-or-none mapping from task id to a pending
// notification. Scheduling is a best-effort side effect of task mutation:
// failures are logged and never block the mutation itself.
type Coordinator struct {
	notifier Notifier
	now      func() time.Time
	logf     func(format string, args ...any)
}

type CoordinatorOption func(*Coordinator)

func WithClock(now func() time.Time) CoordinatorOption {
	return func(c *Coordinator) { c.now = now }
}

func WithLogf(logf func(format string, args ...any)) CoordinatorOption {
	return func(c *Coordinator) { c.logf = logf }
}

func NewCoordinator(notifier Notifier, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		notifier: notifier,
		now:      time.Now,
		logf:     log.Printf,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Schedule registers a single pending notification firing at the task's
// start date, replacing any previous one for the same id. A start date not
// strictly in the future is a silent no-op: past-dated tasks never notify.
func (c *Coordinator) Schedule(task model.Task) {
	if !task.StartDate.After(c.now()) {
		return
	}
	c.notifier.Cancel(task.ID)
	err := c.notifier.ScheduleAt(Request{
		ID:     task.ID,
		Title:  DeliveryTitle,
		Body:   task.Title,
		FireAt: truncateToMinute(task.StartDate),
	})
	if err != nil {
		c.logf("notify: schedule %s: %v", task.ID, err)
	}
}

// Cancel removes the pending notification for the task, if any.
func (c *Coordinator) Cancel(task model.Task) {
	c.CancelID(task.ID)
}

// CancelID is Cancel for callers that only hold the id (the task may
// already be gone from the store).
func (c *Coordinator) CancelID(id string) {
	c.notifier.Cancel(id)
}

// Pending returns the task ids with an outstanding notification.
func (c *Coordinator) Pending() []string {
	return c.notifier.ListPending()
}

// Trigger resolution is year..minute; seconds are not guaranteed.
func truncateToMinute(t time.Time) time.Time {
	y, mo, d := t.Date()
	h, min, _ := t.Clock()
	return time.Date(y, mo, d, h, min, 0, 0, t.Location())
}
