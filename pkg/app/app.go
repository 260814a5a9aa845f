// Package app wires the client core into one explicit store. Front-ends hold
// a *Client and feed every message through Client.Update.
package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/yourdiary/pkg/composer"
	"tableflip.dev/yourdiary/pkg/gateway"
	"tableflip.dev/yourdiary/pkg/loop"
	"tableflip.dev/yourdiary/pkg/notify"
	"tableflip.dev/yourdiary/pkg/observability"
	"tableflip.dev/yourdiary/pkg/suggest"
	"tableflip.dev/yourdiary/pkg/tasks"
)

// Options collects everything needed to build a Client. Zero values pick the
// package defaults.
type Options struct {
	Gateway gateway.Gateway
	Sink    notify.Sink
	Metrics *observability.Metrics
	Context context.Context
	// Tick arms every timer of the core. Defaults to loop.Tick.
	Tick loop.TickFunc

	Quiet        time.Duration
	EmptyDismiss time.Duration
	// ReloadDelay below zero turns the post-create reload off.
	ReloadDelay time.Duration

	Length suggest.Option
	Custom int
	Policy tasks.Policy

	Board   []gateway.Task
	Draft   suggest.Draft
	History []composer.Entry
}

// Client owns one instance of each component.
type Client struct {
	Gateway  gateway.Gateway
	Sink     notify.Sink
	Session  *suggest.Session
	Input    *suggest.Debouncer
	Tasks    *tasks.Synchronizer
	Composer *composer.Composer
}

// New builds a Client.
func New(o Options) *Client {
	ctx := o.Context
	if ctx == nil {
		ctx = context.Background()
	}
	tick := o.Tick
	if tick == nil {
		tick = loop.Tick
	}
	sink := o.Sink
	if sink == nil {
		sink = notify.Discard
	}
	sink = countingSink{sink: sink, metrics: o.Metrics}
	reload := o.ReloadDelay
	if reload == 0 {
		reload = tasks.DefaultReloadDelay
	}
	custom := o.Custom
	if custom == 0 {
		custom = suggest.DefaultCustom
	}

	session := suggest.NewSession(o.Gateway,
		suggest.WithTick(tick),
		suggest.WithContext(ctx),
		suggest.WithEmptyDismiss(o.EmptyDismiss),
		suggest.WithMetrics(o.Metrics),
	)
	input := suggest.NewDebouncer(session,
		suggest.WithTimer(tick),
		suggest.WithQuiet(o.Quiet),
		suggest.WithLength(o.Length, custom),
	)
	input.Load(o.Draft)
	board := tasks.NewSynchronizer(o.Gateway, sink,
		tasks.WithTick(tick),
		tasks.WithContext(ctx),
		tasks.WithPolicy(o.Policy),
		tasks.WithReloadDelay(reload),
		tasks.WithMetrics(o.Metrics),
	)
	board.Load(o.Board)

	return &Client{
		Gateway:  o.Gateway,
		Sink:     sink,
		Session:  session,
		Input:    input,
		Tasks:    board,
		Composer: composer.New(o.Gateway, sink, input, board, composer.WithTick(tick), composer.WithContext(ctx), composer.WithHistory(o.History)),
	}
}

// Init starts the welcome placeholder and the first board reload.
func (c *Client) Init() tea.Cmd {
	return tea.Batch(c.Composer.Init(), c.Tasks.Reload())
}

// Update hands msg to every component; each ignores what is not addressed to
// it.
func (c *Client) Update(msg tea.Msg) tea.Cmd {
	return tea.Batch(
		c.Input.Update(msg),
		c.Session.Update(msg),
		c.Tasks.Update(msg),
		c.Composer.Update(msg),
	)
}

// SelectSuggestion splices the listed suggestion i into the draft at the
// caret.
func (c *Client) SelectSuggestion(i int) (suggest.Draft, tea.Cmd, bool) {
	text, cmd, ok := c.Session.Select(i)
	if !ok {
		return c.Input.Draft(), nil, false
	}
	return c.Input.Insert(text), cmd, true
}

// Drive runs cmd to completion, synchronously, feeding every message back
// through Update. Front-ends without an event loop (the CLI) use it.
func (c *Client) Drive(cmd tea.Cmd) []tea.Msg {
	return loop.Run(cmd, c.Update)
}

type countingSink struct {
	sink    notify.Sink
	metrics *observability.Metrics
}

func (s countingSink) Notify(level notify.Level, text string) {
	s.metrics.Notified(string(level))
	observability.Logger().Debug("notification", "level", string(level), "text", text)
	s.sink.Notify(level, text)
}
