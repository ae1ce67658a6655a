// Package planner turns user intents (create, edit, archive, restore,
// delete) into ordered store and notification-coordinator calls, and
// derives the grouped views the UI displays. Every mutation follows the
// same sequence: validate, mutate the store, reconcile the task's pending
// notification.
package planner

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"dailyplan/internal/model"
	"dailyplan/internal/notify"
	"dailyplan/internal/storage"
)

type Planner struct {
	repo  storage.Repository
	coord *notify.Coordinator
	now   func() time.Time
	logf  func(format string, args ...any)
}

type Option func(*Planner)

func WithClock(now func() time.Time) Option {
	return func(p *Planner) { p.now = now }
}

func WithLogf(logf func(format string, args ...any)) Option {
	return func(p *Planner) { p.logf = logf }
}

func New(repo storage.Repository, coord *notify.Coordinator, opts ...Option) *Planner {
	p := &Planner{
		repo:  repo,
		coord: coord,
		now:   time.Now,
		logf:  log.Printf,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Create validates the draft, persists a new task, and schedules its
// notification. The notification is best effort and cannot fail the create.
func (p *Planner) Create(ctx context.Context, draft Draft) (model.Task, error) {
	if err := draft.Validate(); err != nil {
		return model.Task{}, err
	}

	task := model.NewTask(draft.Title, draft.resolvedCategory(), draft.instant(), draft.priorityOrDefault(), p.now())
	if err := p.repo.CreateTask(ctx, toRecord(task)); err != nil {
		return model.Task{}, fmt.Errorf("planner: create task: %w", err)
	}
	p.coord.Schedule(task)
	return task, nil
}

// Edit rewrites a task's fields from the draft. The old notification is
// cancelled before the store write and the new schedule registered after
// it commits; if the write fails the old schedule is put back.
func (p *Planner) Edit(ctx context.Context, id string, draft Draft) (model.Task, error) {
	if err := draft.Validate(); err != nil {
		return model.Task{}, err
	}

	old, err := p.Get(ctx, id)
	if err != nil {
		return model.Task{}, err
	}

	updated := old
	updated.Title = draft.Title
	updated.Category = draft.resolvedCategory()
	updated.StartDate = draft.instant()
	updated.Priority = draft.priorityOrDefault()

	p.coord.Cancel(old)
	if err := p.repo.UpdateTask(ctx, toRecord(updated)); err != nil {
		if !old.IsArchived {
			p.coord.Schedule(old)
		}
		return model.Task{}, fmt.Errorf("planner: update task: %w", err)
	}
	if !updated.IsArchived {
		p.coord.Schedule(updated)
	}
	return updated, nil
}

// Archive soft-deletes: the task stays in the store but loses its pending
// notification and leaves the active view.
func (p *Planner) Archive(ctx context.Context, id string) error {
	task, err := p.Get(ctx, id)
	if err != nil {
		return err
	}

	p.coord.Cancel(task)
	task.IsArchived = true
	if err := p.repo.UpdateTask(ctx, toRecord(task)); err != nil {
		return fmt.Errorf("planner: archive task: %w", err)
	}
	return nil
}

// Restore un-archives. On persistence failure the archived flag is rolled
// back and re-saved best effort rather than leaving the in-memory and
// persisted states split. The notification returns only for a still-future
// start date.
func (p *Planner) Restore(ctx context.Context, id string) error {
	task, err := p.Get(ctx, id)
	if err != nil {
		return err
	}

	task.IsArchived = false
	if err := p.repo.UpdateTask(ctx, toRecord(task)); err != nil {
		task.IsArchived = true
		if rerr := p.repo.UpdateTask(ctx, toRecord(task)); rerr != nil {
			p.logf("planner: rollback restore %s: %v", id, rerr)
		}
		return fmt.Errorf("planner: restore task: %w", err)
	}

	if task.StartDate.After(p.now()) {
		p.coord.Schedule(task)
	}
	return nil
}

// Delete removes permanently. The coordinator is cancelled explicitly: once
// the row is gone the id would otherwise leave an orphaned pending entry.
func (p *Planner) Delete(ctx context.Context, id string) error {
	p.coord.CancelID(id)
	if err := p.repo.DeleteTask(ctx, id); err != nil {
		return fmt.Errorf("planner: delete task: %w", err)
	}
	return nil
}

// DeleteAllArchived empties the archive, cancelling per item, and reports
// how many tasks were removed.
func (p *Planner) DeleteAllArchived(ctx context.Context) (int, error) {
	archived := true
	records, err := p.repo.ListTasks(ctx, storage.TaskListFilter{Archived: &archived})
	if err != nil {
		return 0, fmt.Errorf("planner: list archived: %w", err)
	}

	deleted := 0
	for _, rec := range records {
		p.coord.CancelID(rec.ID)
		if err := p.repo.DeleteTask(ctx, rec.ID); err != nil {
			return deleted, fmt.Errorf("planner: delete archived task %s: %w", rec.ID, err)
		}
		deleted++
	}
	return deleted, nil
}

// RehydrateNotifications re-registers schedules after a process restart.
// The notifier's pending set lives in memory, so on startup every active
// task with a still-future start date is scheduled again. Reports how many
// tasks were scheduled.
func (p *Planner) RehydrateNotifications(ctx context.Context) (int, error) {
	archived := false
	records, err := p.repo.ListTasks(ctx, storage.TaskListFilter{Archived: &archived})
	if err != nil {
		return 0, fmt.Errorf("planner: list active: %w", err)
	}

	scheduled := 0
	for _, rec := range records {
		task := fromRecord(rec)
		if !task.StartDate.After(p.now()) {
			continue
		}
		p.coord.Schedule(task)
		scheduled++
	}
	return scheduled, nil
}

func (p *Planner) Get(ctx context.Context, id string) (model.Task, error) {
	rec, err := p.repo.GetTask(ctx, id)
	if err != nil {
		return model.Task{}, fmt.Errorf("planner: get task: %w", err)
	}
	return fromRecord(rec), nil
}

// Group is one category section of a task list view.
type Group struct {
	Category string
	Tasks    []model.Task
}

// Groups derives the grouped view for either the active or the archived
// list. Categories are the distinct values among matches, sorted
// lexicographically; within a group tasks keep insertion order.
func (p *Planner) Groups(ctx context.Context, archived bool) ([]Group, error) {
	records, err := p.repo.ListTasks(ctx, storage.TaskListFilter{Archived: &archived})
	if err != nil {
		return nil, fmt.Errorf("planner: list tasks: %w", err)
	}

	byCategory := make(map[string][]model.Task)
	for _, rec := range records {
		task := fromRecord(rec)
		byCategory[task.Category] = append(byCategory[task.Category], task)
	}

	categories := make([]string, 0, len(byCategory))
	for category := range byCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	groups := make([]Group, 0, len(categories))
	for _, category := range categories {
		groups = append(groups, Group{Category: category, Tasks: byCategory[category]})
	}
	return groups, nil
}

func toRecord(task model.Task) storage.Task {
	return storage.Task{
		ID:         task.ID,
		Title:      task.Title,
		Category:   task.Category,
		StartDate:  task.StartDate,
		Priority:   string(task.Priority),
		IsArchived: task.IsArchived,
		CreatedAt:  task.CreatedAt,
	}
}

func fromRecord(rec storage.Task) model.Task {
	return model.Task{
		ID:         rec.ID,
		Title:      rec.Title,
		Category:   rec.Category,
		StartDate:  rec.StartDate,
		Priority:   model.Priority(rec.Priority),
		IsArchived: rec.IsArchived,
		CreatedAt:  rec.CreatedAt,
	}
}
