package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidPriority = errors.New("model: invalid task priority")

// CategoryOther is the form sentinel for a user-supplied category. It is
// resolved to the custom text before a Task is constructed and never stored.
const CategoryOther = "Other"

// PresetCategories returns the suggested category labels offered by the
// editing form. A Task's Category may also be any other non-empty string.
func PresetCategories() []string {
	return []string{"General", "Home", "Academy", "Work", "University"}
}

type Task struct {
	ID         string
	Title      string
	Category   string
	StartDate  time.Time
	Priority   Priority
	IsArchived bool
	CreatedAt  time.Time
}

// NewTask constructs an unarchived Task with a fresh id. The id is the
// task's identity for its whole life and keys its pending notification.
func NewTask(title, category string, startDate time.Time, priority Priority, now time.Time) Task {
	if priority == "" {
		priority = PriorityMedium
	}
	return Task{
		ID:        uuid.NewString(),
		Title:     title,
		Category:  category,
		StartDate: startDate,
		Priority:  priority,
		CreatedAt: now,
	}
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("model: task title is required")
	}
	if strings.TrimSpace(t.Category) == "" {
		return errors.New("model: task category is required")
	}
	if t.StartDate.IsZero() {
		return errors.New("model: task start date is required")
	}
	if !t.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, t.Priority)
	}
	if t.CreatedAt.IsZero() {
		return errors.New("model: task created_at is required")
	}
	return nil
}

// CombineDateTime merges a date-only pick and a time-of-day pick into the
// single due instant, in the date's location. Seconds are zeroed; trigger
// resolution is minute-level.
func CombineDateTime(datePart, timePart time.Time) time.Time {
	y, mo, d := datePart.Date()
	h, min, _ := timePart.Clock()
	return time.Date(y, mo, d, h, min, 0, 0, datePart.Location())
}
