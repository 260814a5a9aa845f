// Package composer runs the save-entry flow and seeds task dialogs from
// diary writing.
package composer

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/yourdiary/pkg/gateway"
	"tableflip.dev/yourdiary/pkg/loop"
	"tableflip.dev/yourdiary/pkg/notify"
	"tableflip.dev/yourdiary/pkg/observability"
	"tableflip.dev/yourdiary/pkg/suggest"
	"tableflip.dev/yourdiary/pkg/tasks"
)

// Placeholders for the diary input.
const (
	WelcomePlaceholder = "Dear diary... Start writing and let AI help you express your thoughts!"
	ResetPlaceholder   = "Dear diary... What's on your mind today?"
)

// Labels of the submit control.
const (
	SaveLabel = "Save Entry"
	BusyLabel = "Saving & Training AI..."
)

const (
	// WelcomeDelay is when the welcome placeholder appears after start.
	WelcomeDelay = time.Second
	// CelebrateDuration is how long the input is highlighted after a save.
	CelebrateDuration = time.Second
	// TrainingEvery is the entry cadence at which the service retrains.
	TrainingEvery = 3
)

// TrainingMessage is the success text for a save that brought the entry count
// to total.
func TrainingMessage(total int) string {
	if total%TrainingEvery == 0 {
		return "Entry saved! 🧠 AI is learning from your writing style..."
	}
	return fmt.Sprintf("Entry saved! %d more entries until next AI training.", TrainingEvery-total%TrainingEvery)
}

// Saver stores diary entries.
type Saver interface {
	SaveEntry(ctx context.Context, message string) (gateway.SaveEntryResponse, error)
}

// Entry is a diary entry saved during this run.
type Entry struct {
	Text  string
	Total int
	At    time.Time
}

// SavedMsg reports the outcome of a save.
type SavedMsg struct {
	Text  string
	Total int
	Err   error
}

type welcomeMsg struct{}

type celebrateDoneMsg struct{ id uint64 }

// Composer owns the submit control, the input placeholder and the entries
// saved so far.
type Composer struct {
	saver Saver
	sink  notify.Sink
	input *suggest.Debouncer
	tasks *tasks.Synchronizer
	ctx   context.Context
	tick  loop.TickFunc
	now   func() time.Time

	busy        bool
	placeholder string
	celebrating bool
	celebrateID uint64
	history     []Entry
}

// Option configures a Composer.
type Option func(*Composer)

// WithTick replaces the timer.
func WithTick(tick loop.TickFunc) Option {
	return func(c *Composer) {
		if tick != nil {
			c.tick = tick
		}
	}
}

// WithContext sets the context saves run under.
func WithContext(ctx context.Context) Option {
	return func(c *Composer) {
		if ctx != nil {
			c.ctx = ctx
		}
	}
}

// WithHistory preloads entries saved in earlier runs.
func WithHistory(entries []Entry) Option {
	return func(c *Composer) {
		c.history = append([]Entry(nil), entries...)
	}
}

// New creates a composer over the draft owned by input. board may be nil when
// no task flows are offered.
func New(saver Saver, sink notify.Sink, input *suggest.Debouncer, board *tasks.Synchronizer, opts ...Option) *Composer {
	if sink == nil {
		sink = notify.Discard
	}
	c := &Composer{
		saver:       saver,
		sink:        sink,
		input:       input,
		tasks:       board,
		ctx:         context.Background(),
		tick:        loop.Tick,
		now:         time.Now,
		placeholder: ResetPlaceholder,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Init schedules the welcome placeholder.
func (c *Composer) Init() tea.Cmd {
	return c.tick(WelcomeDelay, func(time.Time) tea.Msg { return welcomeMsg{} })
}

// Busy reports whether a save is in flight; the submit control is disabled
// meanwhile.
func (c *Composer) Busy() bool {
	return c.busy
}

// SubmitLabel is the text of the submit control.
func (c *Composer) SubmitLabel() string {
	if c.busy {
		return BusyLabel
	}
	return SaveLabel
}

// Placeholder is the hint shown in an empty input.
func (c *Composer) Placeholder() string {
	return c.placeholder
}

// Celebrating is set for a moment after a successful save.
func (c *Composer) Celebrating() bool {
	return c.celebrating
}

// History returns the entries saved, oldest first.
func (c *Composer) History() []Entry {
	return append([]Entry(nil), c.history...)
}

// Save stores the current draft. A blank draft only warns.
func (c *Composer) Save() tea.Cmd {
	text := strings.TrimSpace(c.input.Draft().Text)
	if text == "" {
		c.sink.Notify(notify.Warning, "Please write something in your diary first! 📝")
		return nil
	}
	if c.busy {
		return nil
	}
	c.busy = true

	saver, ctx := c.saver, c.ctx
	return func() tea.Msg {
		resp, err := saver.SaveEntry(ctx, text)
		return SavedMsg{Text: text, Total: resp.TotalMessages, Err: err}
	}
}

// Clear empties the draft, hides suggestions and restores the placeholder.
func (c *Composer) Clear() {
	c.input.Clear()
	c.placeholder = ResetPlaceholder
}

// SeedFromDraft pre-fills a task dialog from the trimmed draft.
func (c *Composer) SeedFromDraft() tasks.Form {
	text := strings.TrimSpace(c.input.Draft().Text)
	if text == "" {
		return tasks.Form{}
	}
	return tasks.FormFromText(text)
}

// ConvertForm pre-fills the conversion dialog from a saved entry.
func (c *Composer) ConvertForm(message string) tasks.Form {
	return tasks.FormFromText(message)
}

// CreateFromDraft creates a task from the draft dialog. The draft is cleared
// once the service accepted it.
func (c *Composer) CreateFromDraft(form tasks.Form) tea.Cmd {
	if c.tasks == nil {
		return nil
	}
	return c.tasks.Create(tasks.KindFromDraft, form)
}

// Convert creates a task from the conversion dialog.
func (c *Composer) Convert(form tasks.Form) tea.Cmd {
	if c.tasks == nil {
		return nil
	}
	return c.tasks.Create(tasks.KindConverted, form)
}

// Update applies save results and timers.
func (c *Composer) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case SavedMsg:
		return c.saved(msg)
	case tasks.CreatedMsg:
		if msg.Kind == tasks.KindFromDraft {
			c.Clear()
		}
	case welcomeMsg:
		if c.input.Draft().Len() == 0 {
			c.placeholder = WelcomePlaceholder
		}
	case celebrateDoneMsg:
		if msg.id == c.celebrateID {
			c.celebrating = false
		}
	}
	return nil
}

func (c *Composer) saved(msg SavedMsg) tea.Cmd {
	c.busy = false
	if msg.Err != nil {
		observability.Logger().Warn("saving entry failed", "err", msg.Err)
		c.sink.Notify(notify.Danger, "Failed to save entry. Please try again.")
		return nil
	}

	c.history = append(c.history, Entry{Text: msg.Text, Total: msg.Total, At: c.now()})
	c.Clear()
	c.sink.Notify(notify.Success, TrainingMessage(msg.Total))
	observability.Logger().Info("entry saved", "total", msg.Total, "training", msg.Total%TrainingEvery == 0)

	c.celebrateID++
	c.celebrating = true
	id := c.celebrateID
	return c.tick(CelebrateDuration, func(time.Time) tea.Msg { return celebrateDoneMsg{id: id} })
}
