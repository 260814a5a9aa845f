// Package taskform renders the dialog used to create a task, either from
// scratch, from the current draft or from a saved entry.
package taskform

import (
	"strings"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/yourdiary/pkg/gateway"
	"tableflip.dev/yourdiary/pkg/tasks"
	"tableflip.dev/yourdiary/pkg/tui/theme"
)

type field int

const (
	fieldTitle field = iota
	fieldDescription
	fieldPriority
	fieldDue
	fieldCount
)

var priorities = []gateway.Priority{gateway.PriorityLow, gateway.PriorityMedium, gateway.PriorityHigh}

// SubmitMsg asks the owner to create the task.
type SubmitMsg struct {
	Kind tasks.CreateKind
	Form tasks.Form
}

// CancelMsg reports the dialog was dismissed.
type CancelMsg struct{}

// Model is the task dialog.
type Model struct {
	kind  tasks.CreateKind
	theme theme.Theme

	title       textinput.Model
	description textinput.Model
	due         textinput.Model
	priority    int

	focus field
	width int
	err   string
}

// New opens a dialog of kind pre-filled with form.
func New(kind tasks.CreateKind, form tasks.Form, th theme.Theme) *Model {
	title := textinput.New()
	title.Prompt = ""
	title.VirtualCursor = true
	title.Placeholder = "What needs doing?"
	title.CharLimit = tasks.TitleLimit
	title.SetValue(form.Title)

	desc := textinput.New()
	desc.Prompt = ""
	desc.VirtualCursor = true
	desc.Placeholder = "Optional details"
	desc.SetValue(form.Description)

	due := textinput.New()
	due.Prompt = ""
	due.VirtualCursor = true
	due.Placeholder = "YYYY-MM-DD"
	due.CharLimit = 10
	due.SetValue(form.DueDate)

	m := &Model{
		kind:        kind,
		theme:       th,
		title:       title,
		description: desc,
		due:         due,
		priority:    1,
	}
	for i, p := range priorities {
		if string(p) == strings.ToLower(form.Priority) {
			m.priority = i
		}
	}
	m.SetWidth(60)
	m.focusField(fieldTitle)
	return m
}

// Kind is what the dialog creates.
func (m *Model) Kind() tasks.CreateKind {
	return m.kind
}

// Form returns the current contents.
func (m *Model) Form() tasks.Form {
	return tasks.Form{
		Title:       m.title.Value(),
		Description: m.description.Value(),
		Priority:    string(priorities[m.priority]),
		DueDate:     m.due.Value(),
	}
}

// SetError shows a validation message under the fields.
func (m *Model) SetError(text string) {
	m.err = text
}

// SetWidth sizes the inputs to fit a dialog width wide.
func (m *Model) SetWidth(width int) {
	if width < 30 {
		width = 30
	}
	m.width = width
	inner := width - 20
	m.title.SetWidth(inner)
	m.description.SetWidth(inner)
	m.due.SetWidth(inner)
}

func (m *Model) focusField(f field) {
	m.focus = f
	for i, in := range []*textinput.Model{&m.title, &m.description, nil, &m.due} {
		if in == nil {
			continue
		}
		if field(i) == f {
			in.Focus()
		} else {
			in.Blur()
		}
	}
}

// Update handles keys while the dialog is open.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return nil
	}
	switch key.String() {
	case "esc":
		return func() tea.Msg { return CancelMsg{} }
	case "tab", "down":
		m.focusField((m.focus + 1) % fieldCount)
		return nil
	case "shift+tab", "up":
		m.focusField((m.focus + fieldCount - 1) % fieldCount)
		return nil
	case "enter":
		form := m.Form()
		if _, err := form.Task(); err != nil {
			m.err = err.Error()
			return nil
		}
		m.err = ""
		kind := m.kind
		return func() tea.Msg { return SubmitMsg{Kind: kind, Form: form} }
	}

	var cmd tea.Cmd
	switch m.focus {
	case fieldTitle:
		m.title, cmd = m.title.Update(msg)
	case fieldDescription:
		m.description, cmd = m.description.Update(msg)
	case fieldDue:
		m.due, cmd = m.due.Update(msg)
	case fieldPriority:
		switch key.String() {
		case "left", "h":
			m.priority = (m.priority + len(priorities) - 1) % len(priorities)
		case "right", "l", "space":
			m.priority = (m.priority + 1) % len(priorities)
		}
	}
	return cmd
}

func (m *Model) heading() string {
	switch m.kind {
	case tasks.KindConverted:
		return "Convert to Task"
	case tasks.KindFromDraft:
		return "Create Task from Entry"
	default:
		return "Add Task"
	}
}

// View renders the dialog.
func (m *Model) View() string {
	th := m.theme.Modal
	label := func(f field, text string) string {
		if f == m.focus {
			return th.Focus.Render("› " + text)
		}
		return th.Label.Render("  " + text)
	}
	row := func(f field, text, value string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, lipgloss.NewStyle().Width(16).Render(label(f, text)), value)
	}

	var chips []string
	for i, p := range priorities {
		s := " " + string(p) + " "
		if i == m.priority {
			s = th.Focus.Reverse(true).Render(s)
		}
		chips = append(chips, s)
	}

	lines := []string{
		th.Title.Render(m.heading()),
		"",
		row(fieldTitle, "Title", m.title.View()),
		row(fieldDescription, "Description", m.description.View()),
		row(fieldPriority, "Priority", strings.Join(chips, " ")),
		row(fieldDue, "Due date", m.due.View()),
		"",
	}
	if m.err != "" {
		lines = append(lines, th.Error.Render(m.err))
	} else {
		lines = append(lines, th.Label.Render("enter create · tab next field · esc cancel"))
	}
	return th.Frame.Width(m.width).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
