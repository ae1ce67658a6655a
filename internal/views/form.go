package views

import (
	"strings"

	"dailyplan/internal/model"
)

type FormData struct {
	Editing        bool
	TitleInput     string
	Categories     []string
	CategoryIndex  int
	CustomInput    string
	ShowCustom     bool
	DateInput      string
	TimeInput      string
	PriorityIndex  int
	FocusedField   string
	ValidationHint string
}

func RenderForm(data FormData) string {
	title := "New Task"
	if data.Editing {
		title = "Edit Task"
	}

	var b strings.Builder
	b.WriteString(categoryStyle.Render(title) + "\n\n")
	b.WriteString(formField("Title", data.TitleInput, data.FocusedField == "title"))

	cats := make([]string, len(data.Categories))
	for i, c := range data.Categories {
		if i == data.CategoryIndex {
			cats[i] = selectedStyle.Render("[" + c + "]")
		} else {
			cats[i] = c
		}
	}
	b.WriteString(formField("Category", strings.Join(cats, " "), data.FocusedField == "category"))

	if data.ShowCustom {
		b.WriteString(formField("Custom category", data.CustomInput, data.FocusedField == "custom"))
	}

	b.WriteString(formField("Date", data.DateInput, data.FocusedField == "date"))
	b.WriteString(formField("Time", data.TimeInput, data.FocusedField == "time"))

	prios := make([]string, 0, 3)
	for i, p := range model.Priorities() {
		label := PriorityDot(p) + " " + string(p)
		if i == data.PriorityIndex {
			label = selectedStyle.Render("[") + label + selectedStyle.Render("]")
		}
		prios = append(prios, label)
	}
	b.WriteString(formField("Priority", strings.Join(prios, "  "), data.FocusedField == "priority"))

	if data.ValidationHint != "" {
		b.WriteString("\n" + errorStyle.Render(data.ValidationHint))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formField(label, value string, focused bool) string {
	marker := "  "
	if focused {
		marker = "> "
	}
	return marker + dateStyle.Render(label+":") + " " + value + "\n"
}
