package diary

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/v2/spinner"
	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/yourdiary/pkg/app"
	"tableflip.dev/yourdiary/pkg/devserver"
	"tableflip.dev/yourdiary/pkg/gateway"
	"tableflip.dev/yourdiary/pkg/loop"
	"tableflip.dev/yourdiary/pkg/notify"
	"tableflip.dev/yourdiary/pkg/store"
	"tableflip.dev/yourdiary/pkg/suggest"
	"tableflip.dev/yourdiary/pkg/tasks"
)

// shortTicks fires sub-second timers at once and drops the rest, so the
// periodic prune and the welcome placeholder never run in tests.
func shortTicks(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
	if d >= time.Second {
		return nil
	}
	return loop.Immediate(d, fn)
}

type cacheDir string

func (c cacheDir) BasePath() string { return string(c) }

type fixture struct {
	server *devserver.Server
	gw     *gateway.Client
	toasts *notify.Queue
	cache  store.Cache
	m      *Model
}

func newFixture(t *testing.T, opts ...devserver.Option) *fixture {
	t.Helper()
	server := devserver.New(opts...)
	ts := httptest.NewServer(server.Router())
	t.Cleanup(ts.Close)

	gw, err := gateway.New(ts.URL)
	if err != nil {
		t.Fatalf("gateway.New() error = %v", err)
	}
	cache, err := store.Load(cacheDir(t.TempDir()))
	if err != nil {
		t.Fatalf("store.Load() error = %v", err)
	}
	toasts := notify.NewQueue(time.Minute, 5)
	client := app.New(app.Options{Gateway: gw, Sink: toasts, Tick: shortTicks, ReloadDelay: -1})

	return &fixture{
		server: server,
		gw:     gw,
		toasts: toasts,
		cache:  cache,
		m:      New(Options{Client: client, Cache: cache, Toasts: toasts, Tick: shortTicks}),
	}
}

func (f *fixture) drive(cmd tea.Cmd) {
	loop.Run(cmd, func(msg tea.Msg) tea.Cmd {
		_, next := f.m.Update(msg)
		return next
	})
}

func (f *fixture) press(keys ...tea.KeyPressMsg) {
	for _, k := range keys {
		k := k
		f.drive(func() tea.Msg { return k })
	}
}

func (f *fixture) typeText(s string) {
	for _, r := range s {
		f.press(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func ctrl(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Mod: tea.ModCtrl}
}

func alt(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Mod: tea.ModAlt}
}

func (f *fixture) toast(t *testing.T, want string) {
	t.Helper()
	for _, n := range f.toasts.Active() {
		if n.Text == want {
			return
		}
	}
	t.Fatalf("no toast %q in %+v", want, f.toasts.Active())
}

func TestTypingShowsSuggestionsAndAltAccepts(t *testing.T) {
	f := newFixture(t)
	f.typeText("Hello wor")

	if got := f.m.client.Input.Draft(); got.Text != "Hello wor" || got.Caret != 9 {
		t.Fatalf("draft = %+v", got)
	}
	if f.m.client.Session.State() != suggest.Populated {
		t.Fatalf("state = %s, want populated", f.m.client.Session.State())
	}
	first := f.m.client.Session.Items()[0]
	if !strings.Contains(f.m.View(), first) {
		t.Fatalf("suggestion %q not rendered", first)
	}

	f.press(alt('1'))
	if got := f.m.input.Value(); got != "Hello wor"+first {
		t.Fatalf("input = %q, want the suggestion spliced in", got)
	}
	if f.m.client.Session.State() != suggest.Hidden {
		t.Fatalf("panel should hide after accepting")
	}

	d, err := f.cache.Draft()
	if err != nil || d.Text != "Hello wor"+first {
		t.Fatalf("autosaved draft = %+v, %v", d, err)
	}
}

func TestEscDismissesSuggestions(t *testing.T) {
	f := newFixture(t)
	f.typeText("Today")
	f.press(tea.KeyPressMsg{Code: tea.KeyEscape})
	if f.m.client.Session.State() != suggest.Hidden {
		t.Fatalf("state = %s, want hidden", f.m.client.Session.State())
	}
	if f.m.input.Value() != "Today" {
		t.Fatalf("esc must keep the draft, got %q", f.m.input.Value())
	}
}

func TestLeavingEditorDismissesSuggestions(t *testing.T) {
	f := newFixture(t)
	f.typeText("Hello wor")
	if f.m.client.Session.State() != suggest.Populated {
		t.Fatalf("state = %s, want populated", f.m.client.Session.State())
	}

	f.press(tea.KeyPressMsg{Code: tea.KeyTab})
	if f.m.focus == paneEditor {
		t.Fatalf("tab should move focus off the editor")
	}
	if f.m.client.Session.State() != suggest.Hidden {
		t.Fatalf("state = %s, want hidden after leaving the editor", f.m.client.Session.State())
	}

	f.press(alt('1'))
	if got := f.m.input.Value(); got != "Hello wor" {
		t.Fatalf("alt+1 outside the editor changed the draft to %q", got)
	}
}

func TestSaveClearsInputAndCachesEntry(t *testing.T) {
	f := newFixture(t)
	f.typeText("A calm day")
	f.press(ctrl('s'))

	if f.m.input.Value() != "" {
		t.Fatalf("input = %q, want cleared", f.m.input.Value())
	}
	f.toast(t, "Entry saved! 2 more entries until next AI training.")

	history := f.cache.History(context.Background())
	if len(history) != 1 || history[0].Text != "A calm day" {
		t.Fatalf("cached history = %+v", history)
	}
	if got := f.server.Entries(); len(got) != 1 {
		t.Fatalf("server entries = %v", got)
	}
}

func TestBlankSaveWarns(t *testing.T) {
	f := newFixture(t)
	f.press(ctrl('s'))
	f.toast(t, "Please write something in your diary first! 📝")
}

func TestBoardToggleAndConfirmedDelete(t *testing.T) {
	f := newFixture(t)
	if err := f.gw.CreateTask(context.Background(), gateway.NewTask{Title: "Water plants", Priority: gateway.PriorityLow}); err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}
	f.drive(f.m.Init())
	if f.m.client.Tasks.Board().Len() != 1 {
		t.Fatalf("board not loaded")
	}
	if !strings.Contains(f.m.View(), "Water plants") {
		t.Fatalf("task not rendered")
	}

	f.press(tea.KeyPressMsg{Code: tea.KeyTab})
	if f.m.focus != paneBoard {
		t.Fatalf("focus = %d, want board", f.m.focus)
	}
	f.press(tea.KeyPressMsg{Code: tea.KeySpace, Text: " "})
	if got := f.server.Tasks()[0].Status; got != gateway.StatusCompleted {
		t.Fatalf("server status = %s", got)
	}
	f.toast(t, "Task completed! Great job! 🎉")

	f.press(tea.KeyPressMsg{Code: 'd', Text: "d"})
	if !f.m.confirming {
		t.Fatalf("delete should ask first")
	}
	if !strings.Contains(f.m.View(), tasks.DeletePrompt) {
		t.Fatalf("prompt not rendered")
	}
	f.press(tea.KeyPressMsg{Code: 'n', Text: "n"})
	if len(f.server.Tasks()) != 1 {
		t.Fatalf("declined delete must not call the service")
	}

	f.press(tea.KeyPressMsg{Code: 'd', Text: "d"}, tea.KeyPressMsg{Code: 'y', Text: "y"})
	if len(f.server.Tasks()) != 0 {
		t.Fatalf("task not deleted on the server")
	}
	if f.m.client.Tasks.Board().Len() != 0 {
		t.Fatalf("task still on the board")
	}

	cached, err := f.cache.Board()
	if err != nil || len(cached) != 1 {
		t.Fatalf("board snapshot = %+v, %v", cached, err)
	}
}

func TestTaskFromDraftClearsDraft(t *testing.T) {
	f := newFixture(t)
	f.typeText("Call mum")
	f.press(ctrl('t'))
	if f.m.dialog == nil {
		t.Fatalf("dialog not opened")
	}
	if got := f.m.dialog.Form().Title; got != "Call mum" {
		t.Fatalf("title = %q", got)
	}

	f.press(tea.KeyPressMsg{Code: tea.KeyEnter})
	if f.m.dialog != nil {
		t.Fatalf("dialog should close once created")
	}
	if f.m.input.Value() != "" {
		t.Fatalf("draft = %q, want cleared", f.m.input.Value())
	}
	f.toast(t, "Task created successfully! ✅")
	if got := f.server.Tasks(); len(got) != 1 || got[0].Title != "Call mum" {
		t.Fatalf("server tasks = %+v", got)
	}
}

func TestDialogRejectsBlankTitle(t *testing.T) {
	f := newFixture(t)
	f.press(ctrl('n'))
	f.press(tea.KeyPressMsg{Code: tea.KeyEnter})
	if f.m.dialog == nil {
		t.Fatalf("dialog must stay open")
	}
	if len(f.server.Tasks()) != 0 {
		t.Fatalf("no call expected")
	}
	f.press(tea.KeyPressMsg{Code: tea.KeyEscape})
	if f.m.dialog != nil {
		t.Fatalf("esc should close the dialog")
	}
}

func TestSuggestionKey(t *testing.T) {
	for key, want := range map[string]int{"alt+1": 0, "alt+5": 4} {
		if got, ok := suggestionKey(key); !ok || got != want {
			t.Errorf("suggestionKey(%q) = %d, %v", key, got, ok)
		}
	}
	for _, key := range []string{"1", "alt+0", "alt+x", "ctrl+1"} {
		if _, ok := suggestionKey(key); ok {
			t.Errorf("suggestionKey(%q) should not match", key)
		}
	}
}

func TestHelpOverlayOpensAndCloses(t *testing.T) {
	f := newFixture(t)
	f.press(tea.KeyPressMsg{Code: tea.KeyF1})
	if f.m.help == nil {
		t.Fatalf("f1 should open the help overlay")
	}
	if view := f.m.View(); !strings.Contains(view, "ctrl+s") {
		t.Fatalf("help should list ctrl+s:\n%s", view)
	}
	f.typeText("q")
	if f.m.help != nil {
		t.Fatalf("q should close the help overlay")
	}
	if f.m.input.Value() != "" {
		t.Fatalf("keys meant for the overlay leaked into the editor: %q", f.m.input.Value())
	}
}

func TestLoadingPanelSpins(t *testing.T) {
	f := newFixture(t)
	f.typeText("H")
	_, cmd := f.m.Update(tea.KeyPressMsg{Code: 'i', Text: "i"})
	if f.m.client.Session.State() != suggest.Loading {
		t.Fatalf("state = %s, want loading", f.m.client.Session.State())
	}
	if !f.m.spinning {
		t.Fatalf("spinner tick not armed while loading")
	}
	if view := f.m.View(); !strings.Contains(view, spinner.MiniDot.Frames[0]) {
		t.Fatalf("loading panel has no spinner:\n%s", view)
	}

	f.drive(cmd)
	if f.m.client.Session.State() != suggest.Populated {
		t.Fatalf("state = %s, want populated", f.m.client.Session.State())
	}
	if f.m.spinning {
		t.Fatalf("spinner should stop once suggestions arrive")
	}
}

func TestBoardListMovesSelection(t *testing.T) {
	f := newFixture(t)
	for _, title := range []string{"Water plants", "Feed cat"} {
		if err := f.gw.CreateTask(context.Background(), gateway.NewTask{Title: title, Priority: gateway.PriorityLow}); err != nil {
			t.Fatalf("CreateTask() error = %v", err)
		}
	}
	f.drive(f.m.Init())
	f.press(tea.KeyPressMsg{Code: tea.KeyTab}, tea.KeyPressMsg{Code: tea.KeyDown})
	second, ok := f.m.selectedTask()
	if !ok || second.ID != f.m.client.Tasks.Board().Views()[1].ID {
		t.Fatalf("selected = %+v, want the second task", second)
	}

	f.press(tea.KeyPressMsg{Code: tea.KeySpace, Text: " "})
	for _, task := range f.server.Tasks() {
		want := gateway.StatusPending
		if task.ID == second.ID {
			want = gateway.StatusCompleted
		}
		if task.Status != want {
			t.Fatalf("%s status = %s, want %s", task.Title, task.Status, want)
		}
	}

	f.press(tea.KeyPressMsg{Code: tea.KeyDown})
	if v, _ := f.m.selectedTask(); v.ID != second.ID {
		t.Fatalf("selection ran past the last task")
	}
}

func TestHistoryConvertsSelectedEntry(t *testing.T) {
	f := newFixture(t)
	f.typeText("Walk dog")
	f.press(ctrl('s'))
	f.typeText("Bake bread")
	f.press(ctrl('s'))

	f.press(tea.KeyPressMsg{Code: tea.KeyTab}, tea.KeyPressMsg{Code: tea.KeyTab})
	if f.m.focus != paneHistory {
		t.Fatalf("focus = %d, want history", f.m.focus)
	}
	if e, _ := f.m.selectedEntry(); e.Text != "Bake bread" {
		t.Fatalf("selected = %q, want the newest entry first", e.Text)
	}
	f.press(tea.KeyPressMsg{Code: tea.KeyDown}, tea.KeyPressMsg{Code: 'c', Text: "c"})
	if f.m.dialog == nil {
		t.Fatalf("c should open the convert dialog")
	}
	if got := f.m.dialog.Form().Title; got != "Walk dog" {
		t.Fatalf("title = %q, want the older entry", got)
	}
}

func TestNewTaskShowsWithoutListing(t *testing.T) {
	f := newFixture(t, devserver.WithoutListing())
	f.drive(f.m.Init())
	if f.m.client.Tasks.Listed() {
		t.Fatalf("a 404 listing should switch to the local board")
	}

	f.press(ctrl('n'))
	f.typeText("Fix bike")
	f.press(tea.KeyPressMsg{Code: tea.KeyEnter})
	if f.m.dialog != nil {
		t.Fatalf("dialog should close once created")
	}
	if got := f.server.Tasks(); len(got) != 1 || got[0].Title != "Fix bike" {
		t.Fatalf("server tasks = %+v", got)
	}
	views := f.m.client.Tasks.Board().Views()
	if len(views) != 1 || !views[0].Provisional {
		t.Fatalf("board = %+v, want one provisional task", views)
	}
	if !strings.Contains(f.m.View(), "Fix bike") {
		t.Fatalf("new task not rendered")
	}
}
