package diary

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/yourdiary/pkg/tasks"
	"tableflip.dev/yourdiary/pkg/tui/components/help"
	"tableflip.dev/yourdiary/pkg/tui/components/taskform"
)

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	if m.dialog != nil {
		return m.dialog.Update(msg)
	}
	if m.help != nil {
		return m.help.Update(msg)
	}
	if m.confirming {
		return m.handleConfirmKey(msg)
	}

	key := msg.String()
	switch key {
	case "ctrl+c":
		m.persistDraft()
		return tea.Quit
	case "tab":
		m.moveFocus((m.focus + 1) % paneCount)
		return nil
	case "shift+tab":
		m.moveFocus((m.focus + paneCount - 1) % paneCount)
		return nil
	case "ctrl+s":
		return m.client.Composer.Save()
	case "ctrl+r":
		return m.client.Input.Refresh()
	case "ctrl+l":
		return m.client.Input.SelectOption(m.client.Input.Option().Next())
	case "alt+up":
		return m.client.Input.SetCustom(m.client.Input.Custom() + customStep)
	case "alt+down":
		return m.client.Input.SetCustom(m.client.Input.Custom() - customStep)
	case "ctrl+t":
		m.openDialog(tasks.KindFromDraft, m.client.Composer.SeedFromDraft())
		return nil
	case "ctrl+n":
		m.openDialog(tasks.KindFresh, tasks.Form{})
		return nil
	case "f1":
		m.openHelp()
		return nil
	}
	if n, ok := suggestionKey(key); ok && m.focus == paneEditor {
		return m.acceptSuggestion(n)
	}

	switch m.focus {
	case paneBoard:
		return m.handleBoardKey(msg)
	case paneHistory:
		return m.handleHistoryKey(msg)
	default:
		return m.handleEditorKey(msg)
	}
}

// moveFocus switches panes. Leaving the editor dismisses the suggestion
// panel along with any response still on its way.
func (m *Model) moveFocus(p pane) {
	if m.focus == paneEditor && p != paneEditor {
		m.client.Session.Dismiss()
	}
	m.focus = p
}

// suggestionKey maps alt+1..alt+9 onto a zero based index.
func suggestionKey(key string) (int, bool) {
	rest, ok := strings.CutPrefix(key, "alt+")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 || n > 9 {
		return 0, false
	}
	return n - 1, true
}

func (m *Model) acceptSuggestion(i int) tea.Cmd {
	_, cmd, ok := m.client.SelectSuggestion(i)
	if !ok {
		return nil
	}
	return cmd
}

func (m *Model) handleEditorKey(msg tea.KeyPressMsg) tea.Cmd {
	if msg.String() == "esc" {
		m.client.Session.Dismiss()
		return nil
	}
	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		m.client.Input.MoveCaret(m.input.Position())
		return cmd
	}
	return tea.Batch(cmd, m.client.Input.Change(m.input.Value(), m.input.Position()), m.scheduleAutosave())
}

func (m *Model) handleBoardKey(msg tea.KeyPressMsg) tea.Cmd {
	v, ok := m.selectedTask()
	switch msg.String() {
	case "q":
		m.persistDraft()
		return tea.Quit
	case "space", "x", "enter":
		if ok {
			return m.client.Tasks.Toggle(v.ID)
		}
		return nil
	case "d", "delete":
		if ok && !v.Busy && !v.Removing && !v.Provisional {
			m.confirming = true
		}
		return nil
	case "r":
		return m.client.Tasks.Reload()
	case "?":
		m.openHelp()
		return nil
	}
	var cmd tea.Cmd
	m.boardList, cmd = m.boardList.Update(msg)
	return cmd
}

func (m *Model) handleConfirmKey(msg tea.KeyPressMsg) tea.Cmd {
	m.confirming = false
	switch msg.String() {
	case "y", "enter":
		if v, ok := m.selectedTask(); ok {
			return m.client.Tasks.Delete(v.ID, tasks.Confirmed)
		}
	}
	return nil
}

// handleHistoryKey navigates the saved entries, newest first.
func (m *Model) handleHistoryKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "q":
		m.persistDraft()
		return tea.Quit
	case "?":
		m.openHelp()
		return nil
	case "c", "enter":
		if e, ok := m.selectedEntry(); ok {
			m.openDialog(tasks.KindConverted, m.client.Composer.ConvertForm(e.Text))
		}
		return nil
	}
	var cmd tea.Cmd
	m.historyList, cmd = m.historyList.Update(msg)
	return cmd
}

func (m *Model) openDialog(kind tasks.CreateKind, form tasks.Form) {
	m.dialog = taskform.New(kind, form, m.theme)
	m.dialog.SetWidth(m.dialogWidth())
}

func (m *Model) submitTask(msg taskform.SubmitMsg) tea.Cmd {
	switch msg.Kind {
	case tasks.KindFromDraft:
		return m.client.Composer.CreateFromDraft(msg.Form)
	case tasks.KindConverted:
		return m.client.Composer.Convert(msg.Form)
	default:
		return m.client.Tasks.Create(tasks.KindFresh, msg.Form)
	}
}

func (m *Model) openHelp() {
	m.help = help.New(keyHelp, m.dialogWidth(), m.height-4)
}

var keyHelp = []help.Section{
	{Title: "Anywhere", Bindings: []help.Binding{
		{Key: "tab", Help: "focus the next pane"},
		{Key: "ctrl+s", Help: "save the entry"},
		{Key: "alt+1..9", Help: "insert that suggestion at the caret"},
		{Key: "ctrl+r", Help: "ask for more suggestions now"},
		{Key: "ctrl+l", Help: "cycle the suggestion length"},
		{Key: "alt+up/down", Help: "move the custom length by 5 characters"},
		{Key: "ctrl+t", Help: "turn the draft into a task"},
		{Key: "ctrl+n", Help: "new task"},
		{Key: "f1", Help: "this help"},
		{Key: "ctrl+c", Help: "quit, keeping the draft"},
	}},
	{Title: "Editor", Bindings: []help.Binding{
		{Key: "esc", Help: "hide the suggestions until the next edit"},
	}},
	{Title: "Tasks", Bindings: []help.Binding{
		{Key: "up/down", Help: "select a task; pgup/pgdown page through"},
		{Key: "space", Help: "mark done or pending"},
		{Key: "d", Help: "delete after confirmation"},
		{Key: "r", Help: "reload the board"},
	}},
	{Title: "History", Bindings: []help.Binding{
		{Key: "up/down", Help: "select an entry, newest first"},
		{Key: "c", Help: "convert the entry into a task"},
	}},
}
