package storage

import "time"

type Task struct {
	ID         string
	Title      string
	Category   string
	StartDate  time.Time
	Priority   string
	IsArchived bool
	CreatedAt  time.Time
}

// TaskListFilter narrows ListTasks. A nil Archived matches both archived
// and active tasks.
type TaskListFilter struct {
	Category string
	Archived *bool
	Limit    int
	Offset   int
}
