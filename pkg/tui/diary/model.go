// Package diary is the interactive front-end: a diary editor with live
// suggestions, the task board and the entries saved this session.
package diary

import (
	"context"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/v2/list"
	"github.com/charmbracelet/bubbles/v2/spinner"
	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/yourdiary/pkg/app"
	"tableflip.dev/yourdiary/pkg/composer"
	"tableflip.dev/yourdiary/pkg/gateway"
	"tableflip.dev/yourdiary/pkg/loop"
	"tableflip.dev/yourdiary/pkg/notify"
	"tableflip.dev/yourdiary/pkg/observability"
	"tableflip.dev/yourdiary/pkg/store"
	"tableflip.dev/yourdiary/pkg/suggest"
	"tableflip.dev/yourdiary/pkg/tasks"
	"tableflip.dev/yourdiary/pkg/tui/components/help"
	"tableflip.dev/yourdiary/pkg/tui/components/taskform"
	"tableflip.dev/yourdiary/pkg/tui/theme"
)

const (
	autosaveDelay = 500 * time.Millisecond
	pruneEvery    = time.Second
	customStep    = 5
)

type pane int

const (
	paneEditor pane = iota
	paneBoard
	paneHistory
	paneCount
)

type autosaveMsg struct{ gen uint64 }

type pruneMsg struct{}

type cacheEventMsg struct{ event store.Event }

type cacheClosedMsg struct{}

// Options configure the model. Client is required; everything else is
// optional.
type Options struct {
	Client *app.Client
	Cache  store.Cache
	// Toasts must also be a sink of Client for notifications to show up.
	Toasts *notify.Queue
	// Watch reloads the board when another process rewrites the cache.
	Watch bool

	Context context.Context
	Tick    loop.TickFunc
	Theme   *theme.Theme
}

// Model is the root Bubble Tea model.
type Model struct {
	client *app.Client
	cache  store.Cache
	watch  bool
	toasts *notify.Queue
	ctx    context.Context
	tick   loop.TickFunc
	theme  theme.Theme

	input textinput.Model
	focus pane
	// spinner animates the loading panel; spinning is true while its tick
	// is armed.
	spinner  spinner.Model
	spinning bool

	boardList   list.Model
	historyList list.Model
	confirming  bool
	dialog      *taskform.Model
	help        *help.Model

	autosaveGen uint64
	snapshot    []gateway.Task
	events      <-chan store.Event

	width  int
	height int
}

// New builds the model around o.Client.
func New(o Options) *Model {
	ctx := o.Context
	if ctx == nil {
		ctx = context.Background()
	}
	tick := o.Tick
	if tick == nil {
		tick = loop.Tick
	}
	th := theme.Default()
	if o.Theme != nil {
		th = *o.Theme
	}
	toasts := o.Toasts
	if toasts == nil {
		toasts = notify.NewQueue(notify.DefaultTTL, 3)
	}

	ti := textinput.New()
	ti.Prompt = ""
	ti.VirtualCursor = true
	ti.Placeholder = o.Client.Composer.Placeholder()
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = th.Suggestions.Placeholder

	m := &Model{
		client:  o.Client,
		cache:   o.Cache,
		watch:   o.Watch,
		toasts:  toasts,
		ctx:     ctx,
		tick:    tick,
		theme:   th,
		input:   ti,
		spinner: sp,
		width:   100,
		height:  30,
	}
	m.boardList = newPaneList(taskDelegate{m: m}, "task", "tasks")
	m.historyList = newPaneList(entryDelegate{m: m}, "entry", "entries")
	m.syncLists()
	m.syncInput()
	return m
}

// Run launches the Bubble Tea program.
func Run(o Options) error {
	if o.Context == nil {
		o.Context = context.Background()
	}
	p := tea.NewProgram(New(o), tea.WithAltScreen(), tea.WithContext(o.Context))
	_, err := p.Run()
	return err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.client.Init(), m.prune()}
	if m.cache != nil && m.watch {
		ch, err := m.cache.Watch(m.ctx)
		if err != nil {
			observability.Logger().Warn("watching cache failed", "err", err)
		} else {
			m.events = ch
			cmds = append(cmds, m.waitForEvent())
		}
	}
	return tea.Batch(cmds...)
}

// Update routes messages to the client and the open dialog.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.SetWidth(m.leftWidth() - 6)
		if m.dialog != nil {
			m.dialog.SetWidth(m.dialogWidth())
		}
		if m.help != nil {
			m.help.SetSize(m.dialogWidth(), m.height-4)
		}
	case tea.KeyPressMsg:
		cmds = append(cmds, m.handleKey(msg))
	case taskform.SubmitMsg:
		cmds = append(cmds, m.submitTask(msg))
	case taskform.CancelMsg:
		m.dialog = nil
	case help.CloseMsg:
		m.help = nil
	case autosaveMsg:
		if msg.gen == m.autosaveGen {
			m.persistDraft()
		}
	case pruneMsg:
		cmds = append(cmds, m.prune())
	case cacheEventMsg:
		cmds = append(cmds, m.cacheChanged(msg.event), m.waitForEvent())
	case cacheClosedMsg:
		m.events = nil
	case spinner.TickMsg:
		m.spinning = false
		if m.client.Session.State() == suggest.Loading {
			m.spinner, _ = m.spinner.Update(msg)
		}
	}

	cmds = append(cmds, m.client.Update(msg))

	switch msg := msg.(type) {
	case tasks.CreatedMsg:
		m.dialog = nil
	case tasks.BoardMsg:
		if msg.Err == nil {
			m.persistBoard()
		}
	case composer.SavedMsg:
		if msg.Err == nil {
			m.persistEntry()
		}
	}

	cmds = append(cmds, m.syncLists(), m.syncInput(), m.spin())
	return m, tea.Batch(cmds...)
}

// syncInput mirrors the draft owned by the client into the text input. It
// schedules an autosave when the draft was changed from outside the input.
func (m *Model) syncInput() tea.Cmd {
	m.input.Placeholder = m.client.Composer.Placeholder()
	d := m.client.Input.Draft()
	if m.input.Value() == d.Text {
		return nil
	}
	m.input.SetValue(d.Text)
	m.input.SetCursor(d.Caret)
	return m.scheduleAutosave()
}

// spin arms the next spinner frame while suggestions are loading.
func (m *Model) spin() tea.Cmd {
	if m.spinning || m.client.Session.State() != suggest.Loading {
		return nil
	}
	m.spinning = true
	return m.tick(m.spinner.Spinner.FPS, func(time.Time) tea.Msg { return m.spinner.Tick() })
}

func (m *Model) scheduleAutosave() tea.Cmd {
	if m.cache == nil {
		return nil
	}
	m.autosaveGen++
	gen := m.autosaveGen
	return m.tick(autosaveDelay, func(time.Time) tea.Msg { return autosaveMsg{gen: gen} })
}

func (m *Model) persistDraft() {
	if m.cache == nil {
		return
	}
	if err := m.cache.SaveDraft(m.client.Input.Draft()); err != nil {
		observability.Logger().Warn("autosaving draft failed", "err", err)
	}
}

func (m *Model) persistBoard() {
	board := m.client.Tasks.Board().Tasks()
	if m.cache == nil || slices.Equal(board, m.snapshot) {
		return
	}
	m.snapshot = board
	if err := m.cache.SaveBoard(board); err != nil {
		observability.Logger().Warn("caching board failed", "err", err)
	}
}

func (m *Model) persistEntry() {
	history := m.client.Composer.History()
	if m.cache == nil || len(history) == 0 {
		return
	}
	if err := m.cache.AppendHistory(history[len(history)-1]); err != nil {
		observability.Logger().Warn("caching entry failed", "err", err)
	}
}

func (m *Model) prune() tea.Cmd {
	m.toasts.Active()
	return m.tick(pruneEvery, func(time.Time) tea.Msg { return pruneMsg{} })
}

func (m *Model) waitForEvent() tea.Cmd {
	ch := m.events
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		evt, ok := <-ch
		if !ok {
			return cacheClosedMsg{}
		}
		return cacheEventMsg{event: evt}
	}
}

// cacheChanged reacts to writes by other processes, e.g. a task command run
// in another terminal.
func (m *Model) cacheChanged(evt store.Event) tea.Cmd {
	observability.Logger().Debug("cache changed", "type", evt.Type.String())
	switch evt.Type {
	case store.EventBoardChanged, store.EventInvalidated:
		return m.client.Tasks.Reload()
	}
	return nil
}

func (m *Model) leftWidth() int {
	return max(40, m.width*3/5)
}

func (m *Model) rightWidth() int {
	return max(30, m.width-m.leftWidth())
}

func (m *Model) dialogWidth() int {
	return min(72, max(40, m.width-8))
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.dialog != nil {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.dialog.View())
	}
	if m.help != nil {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.help.View())
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.renderLeft(), m.renderRight())
	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, m.renderFooter())
}
