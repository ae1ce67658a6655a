package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"dailyplan/internal/model"
	"dailyplan/internal/planner"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	categoryStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	dateStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	bannerStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	emptyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)

	priorityStyles = map[model.Priority]lipgloss.Style{
		model.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		model.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		model.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
)

// PriorityDot renders the colored marker shown next to every task: green
// for low, yellow for medium, red for high.
func PriorityDot(p model.Priority) string {
	style, ok := priorityStyles[p]
	if !ok {
		style = priorityStyles[model.PriorityMedium]
	}
	return style.Render("●")
}

type AppData struct {
	Header  string
	Content string
	Status  string
	IsError bool
	Banner  string
	Footer  string
}

func RenderApp(data AppData) string {
	lines := []string{headerStyle.Render(data.Header), data.Content}
	if data.Status != "" {
		status := statusStyle.Render(data.Status)
		if data.IsError {
			status = errorStyle.Render(data.Status)
		}
		lines = append(lines, status)
	}
	if data.Banner != "" {
		lines = append(lines, bannerStyle.Render(data.Banner))
	}
	if data.Footer != "" {
		lines = append(lines, footerStyle.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

// RenderGroups renders category sections with their tasks. cursor is the
// flat task index across all groups; -1 disables selection.
func RenderGroups(groups []planner.Group, cursor int, empty string) string {
	if len(groups) == 0 {
		return emptyStyle.Render(empty)
	}

	var b strings.Builder
	idx := 0
	for _, group := range groups {
		b.WriteString(categoryStyle.Render(group.Category))
		b.WriteString("\n")
		for _, task := range group.Tasks {
			marker := "  "
			line := fmt.Sprintf("%s %s %s", PriorityDot(task.Priority), task.Title,
				dateStyle.Render(task.StartDate.Format("Jan 2, 15:04")))
			if idx == cursor {
				marker = "> "
				line = selectedStyle.Render(line)
			}
			b.WriteString(marker + line + "\n")
			idx++
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func RenderDeliveryBanner(title, body string, at time.Time) string {
	return fmt.Sprintf("%s %s %s", headerStyle.Render(title), body,
		dateStyle.Render(at.Format("15:04")))
}

func RenderMarkdown(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	out, err := glamour.Render(md, "dark")
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
