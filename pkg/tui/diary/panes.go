package diary

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/v2/list"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/yourdiary/pkg/composer"
	"tableflip.dev/yourdiary/pkg/tasks"
)

// taskItem is one row of the board list.
type taskItem struct {
	tasks.View
}

func (i taskItem) FilterValue() string { return i.Title }

// entryItem is one saved entry in the history list.
type entryItem struct {
	composer.Entry
}

func (i entryItem) FilterValue() string { return i.Text }

// taskDelegate draws a task from its Appearance on a single row.
type taskDelegate struct {
	m *Model
}

func (d taskDelegate) Height() int                         { return 1 }
func (d taskDelegate) Spacing() int                        { return 0 }
func (d taskDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d taskDelegate) Render(w io.Writer, l list.Model, index int, item list.Item) {
	it, ok := item.(taskItem)
	if !ok {
		return
	}
	selected := d.m.focus == paneBoard && index == l.Index()
	_, _ = fmt.Fprint(w, d.m.renderTask(it.View, selected, uint(max(l.Width()-26, 8))))
}

// entryDelegate draws a saved entry as its time and first line.
type entryDelegate struct {
	m *Model
}

func (d entryDelegate) Height() int                         { return 1 }
func (d entryDelegate) Spacing() int                        { return 0 }
func (d entryDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d entryDelegate) Render(w io.Writer, l list.Model, index int, item list.Item) {
	it, ok := item.(entryItem)
	if !ok {
		return
	}
	room := uint(max(l.Width()-14, 10))
	line := d.m.theme.Panel.Muted.Render(it.At.Format("Jan 2 15:04")) + "  " + truncate.StringWithTail(it.Text, room, "…")
	if d.m.focus == paneHistory && index == l.Index() {
		line = d.m.theme.Board.Selected.Render(line)
	}
	_, _ = fmt.Fprint(w, line)
}

func newPaneList(delegate list.ItemDelegate, singular, plural string) list.Model {
	l := list.New(nil, delegate, 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetStatusBarItemName(singular, plural)
	l.DisableQuitKeybindings()
	return l
}

// syncLists mirrors the board and the saved entries, newest first, into the
// pane lists and keeps each selection in range.
func (m *Model) syncLists() tea.Cmd {
	views := m.client.Tasks.Board().Views()
	items := make([]list.Item, 0, len(views))
	for _, v := range views {
		items = append(items, taskItem{View: v})
	}
	boardCmd := m.boardList.SetItems(items)
	clampList(&m.boardList)

	history := m.client.Composer.History()
	entries := make([]list.Item, 0, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		entries = append(entries, entryItem{Entry: history[i]})
	}
	historyCmd := m.historyList.SetItems(entries)
	clampList(&m.historyList)

	return tea.Batch(boardCmd, historyCmd)
}

func clampList(l *list.Model) {
	if n := len(l.Items()); l.Index() >= n {
		l.Select(max(0, n-1))
	}
}

// selectedTask is the task under the board cursor.
func (m *Model) selectedTask() (tasks.View, bool) {
	it, ok := m.boardList.SelectedItem().(taskItem)
	return it.View, ok
}

// selectedEntry is the entry under the history cursor.
func (m *Model) selectedEntry() (composer.Entry, bool) {
	it, ok := m.historyList.SelectedItem().(entryItem)
	return it.Entry, ok
}
