// Package notify keeps at most one pending local notification per task,
// consistent with the task's current schedule and archived state.
package notify

import (
	"context"
	"time"
)

// Request is the wire format handed to the notification capability:
// identifier, content strings, and the firing instant.
type Request struct {
	ID     string
	Title  string
	Body   string
	FireAt time.Time
}

// Delivery is an incoming fired notification together with the
// presentation the policy granted it.
type Delivery struct {
	Request      Request
	DeliveredAt  time.Time
	Presentation Presentation
}

// Presentation directs how a delivery surfaces while the app is active.
type Presentation struct {
	Banner bool
	Sound  bool
	Badge  bool
}

// Policy decides the presentation for a delivery. The default policy
// requests full presentation even with the app in the foreground.
type Policy func(Delivery) Presentation

func FullPresentation(Delivery) Presentation {
	return Presentation{Banner: true, Sound: true, Badge: true}
}

// Notifier is the local-notification capability. Scheduling an id that
// already has a pending request replaces it; Cancel of an unknown id is a
// no-op.
type Notifier interface {
	RequestPermission(ctx context.Context) (bool, error)
	ScheduleAt(req Request) error
	Cancel(id string)
	ListPending() []string
}
