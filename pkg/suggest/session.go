package suggest

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/yourdiary/pkg/gateway"
	"tableflip.dev/yourdiary/pkg/loop"
	"tableflip.dev/yourdiary/pkg/observability"
)

// Timings of the suggestion panel.
const (
	DefaultEmptyDismiss = 2500 * time.Millisecond
	AckDuration         = 300 * time.Millisecond
)

// Placeholder texts shown while no suggestions are listed.
const (
	ThinkingText = "YourDiary AI is thinking..."
	LearningText = "Training AI for better suggestions..."
)

// State is the display state of the suggestion panel.
type State int

const (
	Hidden State = iota
	Loading
	Populated
	Empty
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Populated:
		return "populated"
	case Empty:
		return "empty"
	default:
		return "hidden"
	}
}

// Suggester is the part of the gateway the session needs.
type Suggester interface {
	Suggestions(ctx context.Context, req gateway.SuggestionRequest) (gateway.SuggestionResponse, error)
}

// SuggestionsMsg delivers the outcome of the request tagged Sequence.
type SuggestionsMsg struct {
	Sequence    uint64
	Suggestions []string
	Err         error
}

type emptyDismissMsg struct{ seq uint64 }

type ackDoneMsg struct{ id uint64 }

// Item is one listed suggestion.
type Item struct {
	Text  string
	Chars int
}

// View is what a renderer needs to draw the panel.
type View struct {
	State       State
	Header      string
	Placeholder string
	Items       []Item
	// Acknowledging is set briefly after a suggestion was accepted.
	Acknowledging bool
}

// Session owns the suggestion display state. Only the response to the most
// recently issued request may change what is shown.
type Session struct {
	suggester    Suggester
	parent       context.Context
	tick         loop.TickFunc
	emptyDismiss time.Duration
	metrics      *observability.Metrics

	seq    uint64
	live   bool
	cancel context.CancelFunc

	state  State
	items  []string
	length gateway.MaxLength

	ackID  uint64
	acking bool
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithTick replaces the timer used for the auto-hide and acknowledgment.
func WithTick(tick loop.TickFunc) SessionOption {
	return func(s *Session) {
		if tick != nil {
			s.tick = tick
		}
	}
}

// WithEmptyDismiss sets how long the "still learning" placeholder stays.
func WithEmptyDismiss(d time.Duration) SessionOption {
	return func(s *Session) {
		if d > 0 {
			s.emptyDismiss = d
		}
	}
}

// WithContext sets the parent of every per-request context.
func WithContext(ctx context.Context) SessionOption {
	return func(s *Session) {
		if ctx != nil {
			s.parent = ctx
		}
	}
}

// WithMetrics counts dropped stale responses.
func WithMetrics(m *observability.Metrics) SessionOption {
	return func(s *Session) {
		s.metrics = m
	}
}

// NewSession creates a hidden session fetching from suggester.
func NewSession(suggester Suggester, opts ...SessionOption) *Session {
	s := &Session{
		suggester:    suggester,
		parent:       context.Background(),
		tick:         loop.Tick,
		emptyDismiss: DefaultEmptyDismiss,
		length:       gateway.Chars(20),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State reports the current display state.
func (s *Session) State() State {
	return s.state
}

// Sequence is the number of the latest issued request.
func (s *Session) Sequence() uint64 {
	return s.seq
}

// Items returns a copy of the listed suggestions.
func (s *Session) Items() []string {
	return append([]string(nil), s.items...)
}

// Prime shows the thinking placeholder while a debounce timer runs. No
// request is issued; one still in flight is for older text and is dropped.
func (s *Session) Prime() {
	s.release()
	s.state = Loading
	s.items = nil
}

// Request enters Loading and issues a new request. Any earlier request is
// superseded: its context is cancelled and its response will be dropped.
func (s *Session) Request(text string, length gateway.MaxLength, count int) tea.Cmd {
	s.release()
	s.seq++
	seq := s.seq
	ctx, cancel := context.WithCancel(s.parent)
	s.cancel = cancel
	s.live = true
	s.state = Loading
	s.items = nil
	s.length = length

	req := gateway.SuggestionRequest{Text: text, MaxLength: length, Count: count, Sequence: seq}
	suggester := s.suggester
	observability.Logger().Debug("suggestion request", "seq", seq, "count", count, "max_length", length.String())
	return func() tea.Msg {
		resp, err := suggester.Suggestions(ctx, req)
		if err != nil {
			return SuggestionsMsg{Sequence: seq, Err: err}
		}
		return SuggestionsMsg{Sequence: seq, Suggestions: resp.Suggestions}
	}
}

// Hide forces the panel closed. A response still in flight will not reopen it.
func (s *Session) Hide() {
	s.release()
	s.state = Hidden
	s.items = nil
}

// Dismiss is Hide triggered by the user (cancel key, focus leaving the input
// and the panel).
func (s *Session) Dismiss() {
	if s.state != Hidden {
		observability.Logger().Debug("suggestions dismissed", "seq", s.seq, "state", s.state.String())
	}
	s.Hide()
}

// Select accepts the suggestion at index i, hides the panel and starts the
// acknowledgment. ok is false when nothing is listed at i.
func (s *Session) Select(i int) (text string, cmd tea.Cmd, ok bool) {
	if s.state != Populated || i < 0 || i >= len(s.items) {
		return "", nil, false
	}
	text = s.items[i]
	s.Hide()
	s.ackID++
	s.acking = true
	id := s.ackID
	return text, s.tick(AckDuration, func(time.Time) tea.Msg { return ackDoneMsg{id: id} }), true
}

// Update applies responses and timers addressed to the session.
func (s *Session) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case SuggestionsMsg:
		return s.apply(msg)
	case emptyDismissMsg:
		if msg.seq == s.seq && s.state == Empty {
			s.state = Hidden
		}
	case ackDoneMsg:
		if msg.id == s.ackID {
			s.acking = false
		}
	}
	return nil
}

func (s *Session) apply(msg SuggestionsMsg) tea.Cmd {
	if msg.Sequence != s.seq || !s.live {
		s.metrics.StaleDropped()
		observability.Logger().Debug("stale suggestions dropped", "seq", msg.Sequence, "latest", s.seq)
		return nil
	}
	s.live = false
	s.release()

	if msg.Err != nil {
		if errors.Is(msg.Err, context.Canceled) {
			return nil
		}
		observability.Logger().Warn("suggestion request failed", "seq", msg.Sequence, "err", msg.Err)
		return s.showEmpty()
	}
	if len(msg.Suggestions) == 0 {
		return s.showEmpty()
	}
	s.state = Populated
	s.items = append([]string(nil), msg.Suggestions...)
	return nil
}

func (s *Session) showEmpty() tea.Cmd {
	s.state = Empty
	s.items = nil
	seq := s.seq
	return s.tick(s.emptyDismiss, func(time.Time) tea.Msg { return emptyDismissMsg{seq: seq} })
}

func (s *Session) release() {
	s.live = false
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// View snapshots what should be drawn.
func (s *Session) View() View {
	v := View{State: s.state, Acknowledging: s.acking}
	switch s.state {
	case Loading:
		v.Placeholder = ThinkingText
	case Empty:
		v.Placeholder = LearningText
	case Populated:
		v.Header = fmt.Sprintf("%d AI suggestions (%s)", len(s.items), s.length.Describe())
		v.Items = make([]Item, len(s.items))
		for i, text := range s.items {
			v.Items[i] = Item{Text: text, Chars: utf8.RuneCountInString(text)}
		}
	}
	return v
}
