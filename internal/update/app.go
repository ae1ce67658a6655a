// Package update holds the bubbletea program driving the planner: a
// grouped active list, the archive, the editing form, and a slash-command
// palette. All task mutations flow through planner commands; this layer
// never touches the store or the notifier directly.
package update

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"dailyplan/internal/commands"
	"dailyplan/internal/model"
	"dailyplan/internal/notify"
	"dailyplan/internal/planner"
	"dailyplan/internal/views"
)

type Mode string

const (
	ModeList         Mode = "list"
	ModeArchive      Mode = "archive"
	ModeForm         Mode = "form"
	ModePalette      Mode = "palette"
	ModeConfirmPurge Mode = "confirm_purge"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type KeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Add     key.Binding
	Edit    key.Binding
	Archive key.Binding
	Restore key.Binding
	Delete  key.Binding
	Toggle  key.Binding
	Purge   key.Binding
	Palette key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add task")),
		Edit:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit task")),
		Archive: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "archive")),
		Restore: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restore")),
		Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Toggle:  key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "toggle archive")),
		Purge:   key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "purge archive")),
		Palette: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "command")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Edit, k.Archive, k.Toggle, k.Palette, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Add, k.Edit},
		{k.Archive, k.Restore, k.Delete, k.Toggle, k.Purge},
		{k.Palette, k.Help, k.Quit},
	}
}

type Model struct {
	planner    *planner.Planner
	deliveries <-chan notify.Delivery

	mode     Mode
	active   []planner.Group
	archived []planner.Group
	// filterCategory narrows the visible list to one category. Set by the
	// palette's show command, cleared by the next show or a view toggle.
	filterCategory string
	cursor         int
	form           formState

	paletteInput textinput.Model
	keys         KeyMap
	helpModel    help.Model
	helpVisible  bool

	Status   StatusBar
	Banner   string
	Quitting bool
}

// DeliveryMsg carries a fired notification into the program for the
// in-app banner.
type DeliveryMsg struct {
	Delivery notify.Delivery
}

func NewModel(p *planner.Planner, deliveries <-chan notify.Delivery) Model {
	palette := textinput.New()
	palette.Placeholder = "add Buy milk | show archive | purge"
	palette.CharLimit = 120

	m := Model{
		planner:      p,
		deliveries:   deliveries,
		mode:         ModeList,
		paletteInput: palette,
		keys:         DefaultKeyMap(),
		helpModel:    help.New(),
	}
	m.reload()
	return m
}

func (m Model) Init() tea.Cmd {
	return waitForDeliveryCmd(m.deliveries)
}

func waitForDeliveryCmd(ch <-chan notify.Delivery) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		d, ok := <-ch
		if !ok {
			return nil
		}
		return DeliveryMsg{Delivery: d}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case DeliveryMsg:
		if typed.Delivery.Presentation.Banner {
			m.Banner = views.RenderDeliveryBanner(
				typed.Delivery.Request.Title,
				typed.Delivery.Request.Body,
				typed.Delivery.DeliveredAt,
			)
		}
		return m, waitForDeliveryCmd(m.deliveries)
	case tea.KeyMsg:
		return m.handleKey(typed)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case ModeForm:
		return m.handleFormKey(msg)
	case ModePalette:
		return m.handlePaletteKey(msg)
	case ModeConfirmPurge:
		return m.handleConfirmPurgeKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.helpVisible = !m.helpVisible
		return m, nil
	case key.Matches(msg, m.keys.Palette):
		m.mode = ModePalette
		m.paletteInput.SetValue("")
		m.paletteInput.Focus()
		return m, nil
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.cursor < m.taskCount()-1 {
			m.cursor++
		}
		return m, nil
	case key.Matches(msg, m.keys.Toggle):
		if m.mode == ModeList {
			m.mode = ModeArchive
		} else {
			m.mode = ModeList
		}
		m.filterCategory = ""
		m.cursor = 0
		return m, nil
	case key.Matches(msg, m.keys.Add):
		m.form = newFormState(planner.Draft{}, "")
		m.mode = ModeForm
		return m, nil
	case key.Matches(msg, m.keys.Edit):
		if m.mode != ModeList {
			return m, nil
		}
		task, ok := m.taskAtCursor()
		if !ok {
			return m, nil
		}
		m.form = newFormState(planner.EditDraft(task), task.ID)
		m.mode = ModeForm
		return m, nil
	case key.Matches(msg, m.keys.Archive):
		if m.mode != ModeList {
			return m, nil
		}
		if task, ok := m.taskAtCursor(); ok {
			m.runOp(fmt.Sprintf("archived %q", task.Title), func(ctx context.Context) error {
				return m.planner.Archive(ctx, task.ID)
			})
		}
		return m, nil
	case key.Matches(msg, m.keys.Restore):
		if m.mode != ModeArchive {
			return m, nil
		}
		if task, ok := m.taskAtCursor(); ok {
			m.runOp(fmt.Sprintf("restored %q", task.Title), func(ctx context.Context) error {
				return m.planner.Restore(ctx, task.ID)
			})
		}
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		if task, ok := m.taskAtCursor(); ok {
			m.runOp(fmt.Sprintf("deleted %q", task.Title), func(ctx context.Context) error {
				return m.planner.Delete(ctx, task.ID)
			})
		}
		return m, nil
	case key.Matches(msg, m.keys.Purge):
		if m.mode == ModeArchive && m.taskCount() > 0 {
			m.mode = ModeConfirmPurge
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleConfirmPurgeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		deleted, err := m.planner.DeleteAllArchived(context.Background())
		if err != nil {
			m.Status = StatusBar{Text: err.Error(), IsError: true}
		} else {
			m.Status = StatusBar{Text: fmt.Sprintf("deleted %d archived tasks", deleted)}
		}
		m.mode = ModeArchive
		m.reload()
	case "n", "N", "esc":
		m.mode = ModeArchive
		m.Status = StatusBar{Text: "purge cancelled"}
	}
	return m, nil
}

func (m Model) handlePaletteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ModeList
		m.paletteInput.Blur()
		return m, nil
	case "enter":
		input := m.paletteInput.Value()
		m.paletteInput.Blur()
		m.mode = ModeList
		m.executeCommand(input)
		m.reload()
		return m, nil
	}
	var cmd tea.Cmd
	m.paletteInput, cmd = m.paletteInput.Update(msg)
	return m, cmd
}

// executeCommand runs a palette command synchronously against the planner.
func (m *Model) executeCommand(input string) {
	cmd, err := commands.Parse(input)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return
	}

	ctx := context.Background()
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(args commands.AddArgs) (commands.Result, error) {
			task, err := m.planner.Create(ctx, quickDraft(args.Title))
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("added %q", task.Title)}, nil
		},
		Show: func(args commands.ShowArgs) (commands.Result, error) {
			if args.Subject == "archive" {
				m.mode = ModeArchive
			} else {
				m.mode = ModeList
			}
			m.filterCategory = args.Category
			m.cursor = 0
			message := "showing " + args.Subject
			if args.Category != "" {
				message = fmt.Sprintf("showing %s, category %s", args.Subject, args.Category)
			}
			return commands.Result{Message: message}, nil
		},
		Archive: func(args commands.TargetArgs) (commands.Result, error) {
			if err := m.planner.Archive(ctx, args.ID); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: "archived " + args.ID}, nil
		},
		Restore: func(args commands.TargetArgs) (commands.Result, error) {
			if err := m.planner.Restore(ctx, args.ID); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: "restored " + args.ID}, nil
		},
		Delete: func(args commands.TargetArgs) (commands.Result, error) {
			if err := m.planner.Delete(ctx, args.ID); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: "deleted " + args.ID}, nil
		},
		Purge: func() (commands.Result, error) {
			deleted, err := m.planner.DeleteAllArchived(ctx)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("deleted %d archived tasks", deleted)}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return
	}
	m.Status = StatusBar{Text: res.Message}
}

// runOp executes a planner mutation, records the outcome, and reloads.
func (m *Model) runOp(okStatus string, op func(context.Context) error) {
	if err := op(context.Background()); err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
	} else {
		m.Status = StatusBar{Text: okStatus}
	}
	m.reload()
}

func (m *Model) reload() {
	ctx := context.Background()
	active, err := m.planner.Groups(ctx, false)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return
	}
	archived, err := m.planner.Groups(ctx, true)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return
	}
	m.active = active
	m.archived = archived
	if max := m.taskCount(); m.cursor >= max {
		m.cursor = max - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) visibleGroups() []planner.Group {
	groups := m.active
	if m.mode == ModeArchive || m.mode == ModeConfirmPurge {
		groups = m.archived
	}
	if m.filterCategory == "" {
		return groups
	}
	for _, g := range groups {
		if g.Category == m.filterCategory {
			return []planner.Group{g}
		}
	}
	return nil
}

func (m Model) taskCount() int {
	n := 0
	for _, g := range m.visibleGroups() {
		n += len(g.Tasks)
	}
	return n
}

func (m Model) taskAtCursor() (model.Task, bool) {
	idx := 0
	for _, g := range m.visibleGroups() {
		for _, task := range g.Tasks {
			if idx == m.cursor {
				return task, true
			}
			idx++
		}
	}
	return model.Task{}, false
}

const helpMarkdown = `# Daily Plan

Plan tasks by category and get a local notification when one starts.

- **a** add a task, **e** edit the selected task
- **x** archive, **v** switch between active and archive views
- **r** restore (archive view), **d** delete, **P** purge the archive
- **/** opens the command palette: ` + "`add <title>`" + `, ` +
	"`show active|archive [category:X]`" + `, ` + "`archive|restore|delete <id>`" + `, ` + "`purge`" + `

Archived tasks keep their data but never notify.`

func (m Model) View() string {
	if m.Quitting {
		return ""
	}

	if m.helpVisible {
		return views.RenderApp(views.AppData{
			Header:  "Daily Plan — Help",
			Content: views.RenderMarkdown(helpMarkdown),
			Footer:  m.helpModel.View(m.keys),
		})
	}

	header := "Daily Plan"
	content := ""
	switch m.mode {
	case ModeForm:
		header = "Daily Plan — Task"
		content = views.RenderForm(m.form.viewData())
	case ModeArchive:
		header = "Daily Plan — Archive"
		content = views.RenderGroups(m.visibleGroups(), m.cursor, "Archive is empty for now.")
	case ModeConfirmPurge:
		header = "Daily Plan — Archive"
		content = views.RenderGroups(m.visibleGroups(), -1, "Archive is empty for now.") +
			"\n\nDelete all archived tasks? This action cannot be undone. (y/n)"
	case ModePalette:
		content = views.RenderGroups(m.visibleGroups(), m.cursor, "Create your task!") +
			"\n\n/" + m.paletteInput.View()
	default:
		content = views.RenderGroups(m.visibleGroups(), m.cursor, "Create your task!")
	}

	footer := ""
	if m.helpVisible {
		footer = m.helpModel.View(m.keys)
	}
	return views.RenderApp(views.AppData{
		Header:  header,
		Content: content,
		Status:  m.Status.Text,
		IsError: m.Status.IsError,
		Banner:  m.Banner,
		Footer:  footer,
	})
}
