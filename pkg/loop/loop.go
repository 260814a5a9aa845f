// Package loop holds the pieces the client state machines share with the
// event loop that drives them: how timers are armed, and a synchronous driver
// for places that have no Bubble Tea program (the CLI and tests).
package loop

import (
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
)

// TickFunc arms a one-shot timer that delivers fn's message after d.
type TickFunc func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd

// Tick is the real timer used inside a Bubble Tea program.
func Tick(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
	return tea.Tick(d, fn)
}

// Immediate fires every timer at once. Ordering between timers is preserved
// only as far as the driver preserves command order.
func Immediate(_ time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return fn(time.Now())
	}
}

// Never drops every timer. Useful for one-shot commands that exit before any
// delayed effect would be visible.
func Never(time.Duration, func(time.Time) tea.Msg) tea.Cmd {
	return nil
}

// Run executes cmd and hands every message it produces to handle, feeding
// follow-up commands back in until none remain. Commands run one at a time in
// FIFO order, which mirrors the single-threaded delivery of a Bubble Tea
// program. It returns every message handled, in order.
func Run(cmd tea.Cmd, handle func(tea.Msg) tea.Cmd) []tea.Msg {
	var seen []tea.Msg
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		msg := next()
		if msg == nil {
			continue
		}
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		seen = append(seen, msg)
		if handle != nil {
			queue = append(queue, handle(msg))
		}
	}
	return seen
}

// Collect executes cmd, flattening batches, and returns the messages without
// handling them.
func Collect(cmd tea.Cmd) []tea.Msg {
	return Run(cmd, nil)
}
