package diary

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/yourdiary/pkg/notify"
	"tableflip.dev/yourdiary/pkg/suggest"
	"tableflip.dev/yourdiary/pkg/tasks"
	"tableflip.dev/yourdiary/pkg/tui/theme"
)

const (
	headerRows = 1
	footerRows = 1
	// The editor panel is two border rows plus title, input, blank and button.
	editorRows = 6
)

func (m *Model) bodyRows() int {
	return max(editorRows+4, m.height-headerRows-footerRows)
}

func (m *Model) renderHeader() string {
	title := m.theme.Panel.Title.Render("📔 YourDiary")
	if m.client.Composer.Celebrating() {
		title += "  " + m.theme.Panel.Party.Render("🎉 ") + theme.Gradient("saved!", "#ff6ad5", "#ffd75f")
	}
	return title
}

func (m *Model) renderFooter() string {
	keys := [][2]string{{"tab", "switch pane"}}
	switch {
	case m.confirming:
		keys = [][2]string{{"y", "delete"}, {"n", "keep"}}
	case m.focus == paneBoard:
		keys = append(keys, [2]string{"space", "toggle"}, [2]string{"d", "delete"}, [2]string{"r", "reload"}, [2]string{"ctrl+n", "new task"})
	case m.focus == paneHistory:
		keys = append(keys, [2]string{"c", "convert to task"})
	default:
		keys = append(keys,
			[2]string{"ctrl+s", "save"},
			[2]string{"alt+1-5", "accept"},
			[2]string{"ctrl+r", "more"},
			[2]string{"ctrl+l", "length"},
			[2]string{"ctrl+t", "task from entry"},
			[2]string{"esc", "hide"},
		)
	}
	keys = append(keys, [2]string{"f1", "help"}, [2]string{"ctrl+c", "quit"})

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, m.theme.Footer.Key.Render(k[0])+" "+m.theme.Footer.Help.Render(k[1]))
	}
	return truncate.StringWithTail(strings.Join(parts, "  "), uint(max(m.width, 1)), "…")
}

func (m *Model) frame(p pane) lipgloss.Style {
	if m.focus == p && !m.confirming {
		return m.theme.Panel.Focused
	}
	return m.theme.Panel.Frame
}

// renderLeft stacks history, the suggestion panel and the editor. The panel
// sits on whichever side of the input suggest.Anchor picks.
func (m *Model) renderLeft() string {
	width := m.leftWidth()
	rows := m.bodyRows()
	editor := m.renderEditor(width)

	panel := m.renderSuggestions(width)
	panelRows := 0
	if panel != "" {
		panelRows = lipgloss.Height(panel)
	}

	inputY := headerRows + rows - editorRows + 2
	place := suggest.Anchor(suggest.Rect{X: 0, Y: inputY, Width: width, Height: 1}, panelRows, rows-editorRows, 0)

	historyRows := rows - editorRows
	if panel != "" {
		historyRows -= place.Height
	}
	history := m.renderHistory(width, max(historyRows, 3))

	if panel == "" {
		return lipgloss.JoinVertical(lipgloss.Left, history, editor)
	}
	panel = lipgloss.NewStyle().MaxHeight(place.Height).Render(panel)
	if place.Above {
		return lipgloss.JoinVertical(lipgloss.Left, history, panel, editor)
	}
	return lipgloss.JoinVertical(lipgloss.Left, history, editor, panel)
}

func (m *Model) renderEditor(width int) string {
	th := m.theme.Panel
	button := th.Button.Render(m.client.Composer.SubmitLabel())
	if m.client.Composer.Busy() {
		button = th.Busy.Render(m.client.Composer.SubmitLabel())
	}
	length := m.client.Input.Option().Label()
	if m.client.Input.Option() == suggest.OptionCustom {
		length = fmt.Sprintf("%s: %d chars", length, m.client.Input.Custom())
	}
	lines := []string{
		th.Title.Render("Dear diary"),
		m.input.View(),
		"",
		button + "  " + th.Muted.Render("Length: "+length),
	}
	return m.frame(paneEditor).Width(width - 2).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderSuggestions(width int) string {
	v := m.client.Session.View()
	th := m.theme.Suggestions
	var lines []string
	switch v.State {
	case suggest.Hidden:
		return ""
	case suggest.Loading:
		lines = append(lines, m.spinner.View()+" "+th.Placeholder.Render(v.Placeholder))
	case suggest.Empty:
		lines = append(lines, th.Placeholder.Render(v.Placeholder))
	case suggest.Populated:
		lines = append(lines, th.Header.Render(v.Header))
		inner := width - 8
		draft := m.client.Input.Draft()
		runes := []rune(draft.Text)
		prefix := string(runes[:min(max(draft.Caret, 0), len(runes))])
		for i, item := range v.Items {
			chars := th.Chars.Render(fmt.Sprintf(" %d chars", item.Chars))
			tail := lastRunes(prefix, inner-lipgloss.Width(chars)-lipgloss.Width(item.Text)-4)
			lines = append(lines, fmt.Sprintf("%d  %s%s%s", i+1, th.Prefix.Render(tail), th.Completion.Render(item.Text), chars))
		}
	}
	if v.Acknowledging {
		lines = append(lines, th.Ack.Render("✓ inserted"))
	}
	return th.Frame.Width(width - 2).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderHistory(width, rows int) string {
	th := m.theme.Panel
	lines := []string{th.Title.Render(fmt.Sprintf("Saved entries (%d)", len(m.historyList.Items())))}
	if len(m.historyList.Items()) == 0 {
		lines = append(lines, th.Muted.Render("Nothing saved yet."))
	} else {
		m.historyList.SetSize(width-4, max(rows-3, 1))
		lines = append(lines, m.historyList.View())
	}
	return m.frame(paneHistory).Width(width - 2).Height(rows - 2).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderRight() string {
	width := m.rightWidth()
	var blocks []string
	for _, n := range m.toasts.Active() {
		style, ok := m.theme.Toast[n.Level]
		if !ok {
			style = m.theme.Toast[notify.Info]
		}
		blocks = append(blocks, style.Width(width-2).Render(n.Text))
	}
	used := 0
	for _, b := range blocks {
		used += lipgloss.Height(b)
	}
	blocks = append(blocks, m.renderBoard(width, max(m.bodyRows()-used, 5)))
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

func (m *Model) renderBoard(width, rows int) string {
	lines := []string{m.theme.Panel.Title.Render(fmt.Sprintf("Tasks (%d)", len(m.boardList.Items())))}
	listRows := rows - 3
	if m.confirming {
		listRows -= 2
	}
	if len(m.boardList.Items()) == 0 {
		lines = append(lines, m.theme.Panel.Muted.Render("No tasks yet. ctrl+n adds one."))
	} else {
		m.boardList.SetSize(width-4, max(listRows, 1))
		lines = append(lines, m.boardList.View())
	}
	if m.confirming {
		lines = append(lines, "", m.theme.Modal.Error.Render(tasks.DeletePrompt+" (y/n)"))
	}
	return m.frame(paneBoard).Width(width - 2).Height(rows - 2).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderTask(v tasks.View, selected bool, room uint) string {
	th := m.theme.Board
	a := v.Appearance()

	box := "[ ]"
	if a.Struck {
		box = "[x]"
	}
	title := truncate.StringWithTail(v.Title, room, "…")
	if a.Struck {
		title = th.Struck.Render(title)
	} else {
		title = th.Title.Render(title)
	}
	meta := ""
	if style, ok := th.Priority[string(v.Priority)]; ok {
		meta = style.Render(string(v.Priority))
	}
	if v.DueDate != "" {
		meta += " " + m.theme.Panel.Muted.Render(v.DueDate)
	}

	badge := th.Badge[a.BadgeLevel].Render(a.Badge)
	switch {
	case v.Removing:
		badge = th.Busy.Render("removed")
	case v.Busy:
		badge = th.Busy.Render("deleting…")
	case v.Provisional:
		badge = th.Busy.Render("new")
	}

	line := fmt.Sprintf("%s %s %s %s", box, title, meta, badge)
	if selected {
		line = th.Selected.Render(line)
	}
	return line
}

// lastRunes keeps the end of s that fits in n cells, marking the cut.
func lastRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return ""
	}
	return "…" + string(r[len(r)-n+1:])
}
