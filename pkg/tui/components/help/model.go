// Package help renders the key reference overlay inside a scrollable
// viewport.
package help

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss/v2"
)

// Binding is one key and what it does.
type Binding struct {
	Key  string
	Help string
}

// Section groups the bindings of one pane.
type Section struct {
	Title    string
	Bindings []Binding
}

// CloseMsg asks the owner to close the overlay.
type CloseMsg struct{}

// Model shows sections of bindings in a bordered viewport.
type Model struct {
	viewport viewport.Model
	sections []Section
	width    int
	height   int

	frame lipgloss.Style
	err   error
}

// New constructs an overlay sized to the provided bounds.
func New(sections []Section, width, height int) *Model {
	vp := viewport.New(
		viewport.WithWidth(max(width, 1)),
		viewport.WithHeight(max(height, 1)),
	)
	vp.MouseWheelEnabled = true
	m := &Model{
		viewport: vp,
		sections: sections,
		frame:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
	}
	m.SetSize(width, height)
	return m
}

// Update scrolls the viewport; esc, q and ? close the overlay.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyPressMsg); ok {
		switch key.String() {
		case "esc", "q", "?", "f1":
			return func() tea.Msg { return CloseMsg{} }
		}
	}
	vp, cmd := m.viewport.Update(msg)
	m.viewport = vp
	return cmd
}

// View renders the bindings inside a rounded frame.
func (m *Model) View() string {
	return m.frame.Width(m.width).Height(m.height).Render(m.viewport.View())
}

// SetSize fits the overlay to width x height and re-lays out the content.
func (m *Model) SetSize(width, height int) {
	width, height = max(width, 32), max(height, 8)
	if m.width == width && m.height == height {
		return
	}
	m.width, m.height = width, height

	inner := max(width-m.frame.GetHorizontalFrameSize(), 1)
	m.viewport.SetWidth(inner)
	m.viewport.SetHeight(max(height-m.frame.GetVerticalFrameSize(), 1))
	m.viewport.SetContent(m.render(inner))
	m.viewport.SetYOffset(0)
}

// Err is the last rendering failure, if any.
func (m *Model) Err() error {
	return m.err
}

func (m *Model) render(width int) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(max(width, 10)),
	)
	if err != nil {
		m.err = err
		return "help unavailable: " + err.Error()
	}
	content, err := renderer.Render(Markdown(m.sections))
	if err != nil {
		m.err = err
		return "help unavailable: " + err.Error()
	}
	m.err = nil
	return strings.Trim(stripANSI(content), "\n")
}

// Markdown lays the sections out as one heading and bullet list each.
func Markdown(sections []Section) string {
	var sb strings.Builder
	for _, s := range sections {
		fmt.Fprintf(&sb, "## %s\n\n", s.Title)
		for _, b := range s.Bindings {
			fmt.Fprintf(&sb, "- **%s** %s\n", b.Key, b.Help)
		}
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;:]*[A-Za-z~]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}
