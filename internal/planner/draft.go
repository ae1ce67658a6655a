package planner

import (
	"fmt"
	"strings"
	"time"

	"dailyplan/internal/model"
)

// ValidationError blocks a save before anything is persisted. It is user
// input feedback, not a system error, and is never logged.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("planner: invalid %s: %s", e.Field, e.Reason)
}

// Draft carries the editing form's state: title, a category pick (possibly
// the Other sentinel plus custom text), a separately edited date and
// time-of-day, and a priority. The creation form defaults priority to low.
type Draft struct {
	Title          string
	Category       string
	CustomCategory string
	Date           time.Time
	TimeOfDay      time.Time
	Priority       model.Priority
}

func (d Draft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return &ValidationError{Field: "title", Reason: "title must not be empty"}
	}
	if d.Category == model.CategoryOther && strings.TrimSpace(d.CustomCategory) == "" {
		return &ValidationError{Field: "category", Reason: "custom category must not be empty"}
	}
	if strings.TrimSpace(d.Category) == "" {
		return &ValidationError{Field: "category", Reason: "category must not be empty"}
	}
	return nil
}

func (d Draft) resolvedCategory() string {
	if d.Category == model.CategoryOther {
		return strings.TrimSpace(d.CustomCategory)
	}
	return d.Category
}

func (d Draft) priorityOrDefault() model.Priority {
	if d.Priority == "" {
		return model.PriorityLow
	}
	return d.Priority
}

// instant combines the draft's date and time pickers into the single due
// instant that is persisted and keys the notification trigger.
func (d Draft) instant() time.Time {
	return model.CombineDateTime(d.Date, d.TimeOfDay)
}

// EditDraft rebuilds the form state for an existing task. A category
// outside the preset set loads as Other with the custom field prefilled,
// so editing a custom-category task round-trips instead of starting blank.
func EditDraft(task model.Task) Draft {
	d := Draft{
		Title:     task.Title,
		Category:  task.Category,
		Date:      task.StartDate,
		TimeOfDay: task.StartDate,
		Priority:  task.Priority,
	}
	if !isPresetCategory(task.Category) {
		d.Category = model.CategoryOther
		d.CustomCategory = task.Category
	}
	return d
}

func isPresetCategory(category string) bool {
	for _, preset := range model.PresetCategories() {
		if category == preset {
			return true
		}
	}
	return false
}
