package suggest

import (
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/yourdiary/pkg/gateway"
	"tableflip.dev/yourdiary/pkg/loop"
)

const (
	// DefaultQuiet is the pause after the last keystroke before suggestions
	// are requested.
	DefaultQuiet = 400 * time.Millisecond
	// MinLength is the shortest draft that gets suggestions.
	MinLength = 2
	// NormalCount is requested after a typing pause.
	NormalCount = 3
	// RefreshCount is requested on an explicit refresh.
	RefreshCount = 5
)

type debounceMsg struct{ id uint64 }

// Debouncer owns the draft. It coalesces bursts of edits into one suggestion
// request per pause and remembers the selected suggestion length.
type Debouncer struct {
	session *Session
	tick    loop.TickFunc
	quiet   time.Duration

	draft Draft

	option Option
	custom int

	armed   uint64
	pending bool
}

// DebouncerOption configures a Debouncer.
type DebouncerOption func(*Debouncer)

// WithQuiet sets the quiescence window.
func WithQuiet(d time.Duration) DebouncerOption {
	return func(db *Debouncer) {
		if d > 0 {
			db.quiet = d
		}
	}
}

// WithTimer replaces the timer used for the quiescence window.
func WithTimer(tick loop.TickFunc) DebouncerOption {
	return func(db *Debouncer) {
		if tick != nil {
			db.tick = tick
		}
	}
}

// WithLength sets the initial length option and custom slider value.
func WithLength(o Option, custom int) DebouncerOption {
	return func(db *Debouncer) {
		if o != "" {
			db.option = o
		}
		db.custom = clampCustom(custom)
	}
}

// NewDebouncer creates a debouncer feeding session.
func NewDebouncer(session *Session, opts ...DebouncerOption) *Debouncer {
	d := &Debouncer{
		session: session,
		tick:    loop.Tick,
		quiet:   DefaultQuiet,
		option:  Option20,
		custom:  DefaultCustom,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Draft returns the current draft.
func (d *Debouncer) Draft() Draft {
	return d.draft
}

// Option is the selected length option.
func (d *Debouncer) Option() Option {
	return d.option
}

// Custom is the custom slider value.
func (d *Debouncer) Custom() int {
	return d.custom
}

// Length is the wire length for the current selection.
func (d *Debouncer) Length() gateway.MaxLength {
	return LengthFor(d.option, d.custom)
}

// Pending reports whether a quiescence timer is armed.
func (d *Debouncer) Pending() bool {
	return d.pending
}

// Change records an edit and re-arms the quiescence timer. Short drafts hide
// the panel at once and schedule nothing.
func (d *Debouncer) Change(text string, caret int) tea.Cmd {
	d.draft = Draft{Text: text, Caret: caret}
	d.draft.Caret = clampCaret(caret, d.draft.Len())
	d.armed++
	if d.draft.Len() < MinLength {
		d.pending = false
		d.session.Hide()
		return nil
	}
	d.pending = true
	d.session.Prime()
	id := d.armed
	return d.tick(d.quiet, func(time.Time) tea.Msg { return debounceMsg{id: id} })
}

// MoveCaret updates the caret without counting as an edit.
func (d *Debouncer) MoveCaret(caret int) {
	d.draft.Caret = clampCaret(caret, d.draft.Len())
}

// Load replaces the draft without scheduling anything, e.g. when restoring a
// saved draft.
func (d *Debouncer) Load(draft Draft) {
	d.armed++
	d.pending = false
	draft.Caret = clampCaret(draft.Caret, draft.Len())
	d.draft = draft
}

// Insert splices text in at the caret. It is not an edit: no new request is
// scheduled.
func (d *Debouncer) Insert(text string) Draft {
	d.draft = d.draft.Insert(text)
	return d.draft
}

// Clear empties the draft, disarms the timer and hides the panel.
func (d *Debouncer) Clear() {
	d.armed++
	d.pending = false
	d.draft = Draft{}
	d.session.Hide()
}

// Refresh bypasses the timer and asks for the larger refresh count.
func (d *Debouncer) Refresh() tea.Cmd {
	if d.draft.Len() < MinLength {
		return nil
	}
	d.armed++
	d.pending = false
	return d.session.Request(d.draft.Text, d.Length(), RefreshCount)
}

// SelectOption switches the length option and refreshes.
func (d *Debouncer) SelectOption(o Option) tea.Cmd {
	d.option = o
	return d.Refresh()
}

// SetCustom moves the custom slider. It refreshes only while the custom
// option is selected.
func (d *Debouncer) SetCustom(v int) tea.Cmd {
	d.custom = clampCustom(v)
	if d.option != OptionCustom {
		return nil
	}
	return d.Refresh()
}

// Update fires the request when the latest timer expires.
func (d *Debouncer) Update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(debounceMsg); ok {
		if msg.id != d.armed || !d.pending {
			return nil
		}
		d.pending = false
		return d.session.Request(d.draft.Text, d.Length(), NormalCount)
	}
	return nil
}
