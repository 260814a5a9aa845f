// Package notify carries transient status messages from the client core to
// whatever renders them.
package notify

import (
	"sync"
	"time"
)

// Level is the severity of a notification.
type Level string

const (
	Info    Level = "info"
	Success Level = "success"
	Warning Level = "warning"
	Danger  Level = "danger"
)

// DefaultTTL is how long a toast stays up.
const DefaultTTL = 5 * time.Second

// Notification is one message shown to the user.
type Notification struct {
	Level Level
	Text  string
	At    time.Time
}

// Sink renders notifications. The core only ever calls Notify.
type Sink interface {
	Notify(level Level, text string)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(level Level, text string)

func (f SinkFunc) Notify(level Level, text string) {
	f(level, text)
}

// Discard drops every notification.
var Discard Sink = SinkFunc(func(Level, string) {})

// Multi fans a notification out to several sinks.
func Multi(sinks ...Sink) Sink {
	return SinkFunc(func(level Level, text string) {
		for _, s := range sinks {
			if s != nil {
				s.Notify(level, text)
			}
		}
	})
}

// Recorder keeps every notification it receives.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *Recorder) Notify(level Level, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, Notification{Level: level, Text: text, At: time.Now()})
}

// All returns a copy of the recorded notifications, oldest first.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}

// Last returns the newest notification.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}, false
	}
	return r.items[len(r.items)-1], true
}

// Len is the number of notifications recorded so far.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// ProblemSince returns the first warning or danger recorded at index mark or
// later. Callers take mark from Len before starting an operation.
func (r *Recorder) ProblemSince(mark int) (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if mark < 0 {
		mark = 0
	}
	for _, n := range r.items[min(mark, len(r.items)):] {
		if n.Level == Warning || n.Level == Danger {
			return n, true
		}
	}
	return Notification{}, false
}

// Reset forgets everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = nil
}
