package update

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"dailyplan/internal/model"
	"dailyplan/internal/planner"
	"dailyplan/internal/views"
)

const (
	formDateLayout = "2006-01-02"
	formTimeLayout = "15:04"
)

type formField int

const (
	fieldTitle formField = iota
	fieldCategory
	fieldCustom
	fieldDate
	fieldTime
	fieldPriority
)

// formState mirrors the editing form: separate date and time inputs are
// combined into the task's single due instant on save.
type formState struct {
	editingID   string
	title       textinput.Model
	custom      textinput.Model
	date        textinput.Model
	timeOfDay   textinput.Model
	categoryIdx int
	priorityIdx int
	focus       formField
	hint        string
}

// formCategories is the picker order: presets then the Other sentinel.
func formCategories() []string {
	return append(model.PresetCategories(), model.CategoryOther)
}

func newFormState(draft planner.Draft, editingID string) formState {
	f := formState{editingID: editingID}

	f.title = textinput.New()
	f.title.Placeholder = "Title"
	f.title.CharLimit = 120
	f.title.SetValue(draft.Title)
	f.title.Focus()

	f.custom = textinput.New()
	f.custom.Placeholder = "Custom category"
	f.custom.CharLimit = 60
	f.custom.SetValue(draft.CustomCategory)

	now := time.Now()
	date, clock := now, now
	if !draft.Date.IsZero() {
		date = draft.Date
	}
	if !draft.TimeOfDay.IsZero() {
		clock = draft.TimeOfDay
	}
	f.date = textinput.New()
	f.date.Placeholder = formDateLayout
	f.date.CharLimit = len(formDateLayout)
	f.date.SetValue(date.Format(formDateLayout))

	f.timeOfDay = textinput.New()
	f.timeOfDay.Placeholder = formTimeLayout
	f.timeOfDay.CharLimit = len(formTimeLayout)
	f.timeOfDay.SetValue(clock.Format(formTimeLayout))

	category := draft.Category
	if category == "" {
		category = model.PresetCategories()[0]
	}
	for i, c := range formCategories() {
		if c == category {
			f.categoryIdx = i
		}
	}
	// The creation form defaults to low; an edit keeps the task's priority.
	for i, p := range model.Priorities() {
		if p == draft.Priority {
			f.priorityIdx = i
		}
	}
	return f
}

func (f formState) category() string {
	return formCategories()[f.categoryIdx]
}

func (f formState) viewData() views.FormData {
	return views.FormData{
		Editing:        f.editingID != "",
		TitleInput:     f.title.View(),
		Categories:     formCategories(),
		CategoryIndex:  f.categoryIdx,
		CustomInput:    f.custom.View(),
		ShowCustom:     f.category() == model.CategoryOther,
		DateInput:      f.date.View(),
		TimeInput:      f.timeOfDay.View(),
		PriorityIndex:  f.priorityIdx,
		FocusedField:   f.focusName(),
		ValidationHint: f.hint,
	}
}

func (f formState) focusName() string {
	switch f.focus {
	case fieldTitle:
		return "title"
	case fieldCategory:
		return "category"
	case fieldCustom:
		return "custom"
	case fieldDate:
		return "date"
	case fieldTime:
		return "time"
	case fieldPriority:
		return "priority"
	}
	return ""
}

func (f formState) draft() (planner.Draft, error) {
	date, err := time.ParseInLocation(formDateLayout, f.date.Value(), time.Local)
	if err != nil {
		return planner.Draft{}, fmt.Errorf("date must look like %s", formDateLayout)
	}
	clock, err := time.ParseInLocation(formTimeLayout, f.timeOfDay.Value(), time.Local)
	if err != nil {
		return planner.Draft{}, fmt.Errorf("time must look like %s", formTimeLayout)
	}
	return planner.Draft{
		Title:          f.title.Value(),
		Category:       f.category(),
		CustomCategory: f.custom.Value(),
		Date:           date,
		TimeOfDay:      clock,
		Priority:       model.Priorities()[f.priorityIdx],
	}, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ModeList
		m.Status = StatusBar{Text: "edit cancelled"}
		return m, nil
	case "enter":
		return m.submitForm()
	case "tab", "shift+tab":
		m.form.advanceFocus(msg.String() == "shift+tab")
		return m, nil
	case "left", "right":
		switch m.form.focus {
		case fieldCategory:
			m.form.categoryIdx = cycle(m.form.categoryIdx, len(formCategories()), msg.String() == "right")
			return m, nil
		case fieldPriority:
			m.form.priorityIdx = cycle(m.form.priorityIdx, len(model.Priorities()), msg.String() == "right")
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.form.focus {
	case fieldTitle:
		m.form.title, cmd = m.form.title.Update(msg)
	case fieldCustom:
		m.form.custom, cmd = m.form.custom.Update(msg)
	case fieldDate:
		m.form.date, cmd = m.form.date.Update(msg)
	case fieldTime:
		m.form.timeOfDay, cmd = m.form.timeOfDay.Update(msg)
	}
	return m, cmd
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	draft, err := m.form.draft()
	if err != nil {
		m.form.hint = err.Error()
		return m, nil
	}

	ctx := context.Background()
	if m.form.editingID == "" {
		_, err = m.planner.Create(ctx, draft)
	} else {
		_, err = m.planner.Edit(ctx, m.form.editingID, draft)
	}

	var verr *planner.ValidationError
	if errors.As(err, &verr) {
		m.form.hint = verr.Reason
		return m, nil
	}
	if err != nil {
		m.mode = ModeList
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.reload()
		return m, nil
	}

	m.mode = ModeList
	if m.form.editingID == "" {
		m.Status = StatusBar{Text: fmt.Sprintf("added %q", draft.Title)}
	} else {
		m.Status = StatusBar{Text: fmt.Sprintf("saved %q", draft.Title)}
	}
	m.reload()
	return m, nil
}

func (f *formState) advanceFocus(backwards bool) {
	fields := []formField{fieldTitle, fieldCategory, fieldCustom, fieldDate, fieldTime, fieldPriority}
	if f.category() != model.CategoryOther {
		fields = []formField{fieldTitle, fieldCategory, fieldDate, fieldTime, fieldPriority}
	}

	pos := 0
	for i, field := range fields {
		if field == f.focus {
			pos = i
		}
	}
	if backwards {
		pos--
	} else {
		pos++
	}
	pos = (pos + len(fields)) % len(fields)
	f.focus = fields[pos]

	f.title.Blur()
	f.custom.Blur()
	f.date.Blur()
	f.timeOfDay.Blur()
	switch f.focus {
	case fieldTitle:
		f.title.Focus()
	case fieldCustom:
		f.custom.Focus()
	case fieldDate:
		f.date.Focus()
	case fieldTime:
		f.timeOfDay.Focus()
	}
}

func cycle(idx, size int, forward bool) int {
	if forward {
		return (idx + 1) % size
	}
	return (idx - 1 + size) % size
}

// quickDraft backs the palette's "add <title>": General category, low
// priority, due one hour from now.
func quickDraft(title string) planner.Draft {
	at := time.Now().Add(time.Hour)
	return planner.Draft{
		Title:     title,
		Category:  model.PresetCategories()[0],
		Date:      at,
		TimeOfDay: at,
		Priority:  model.PriorityLow,
	}
}
