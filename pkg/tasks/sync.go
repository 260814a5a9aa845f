// Package tasks keeps the task board in step with the service: optimistic
// status toggles, confirmed deletions and the shared creation flow.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/yourdiary/pkg/gateway"
	"tableflip.dev/yourdiary/pkg/loop"
	"tableflip.dev/yourdiary/pkg/notify"
	"tableflip.dev/yourdiary/pkg/observability"
)

const (
	// DefaultReloadDelay is the pause between a successful create and the
	// board reload that shows the new task.
	DefaultReloadDelay = time.Second
	// DetachDelay is how long a deleted view fades before it goes.
	DetachDelay = 300 * time.Millisecond
	// DeletePrompt is asked before any deletion.
	DeletePrompt = "Are you sure you want to delete this task? This action cannot be undone."
)

// Remote is the part of the gateway the synchronizer calls.
type Remote interface {
	CreateTask(ctx context.Context, task gateway.NewTask) error
	UpdateTaskStatus(ctx context.Context, id gateway.TaskID, status gateway.TaskStatus) error
	DeleteTask(ctx context.Context, id gateway.TaskID) error
	ListTasks(ctx context.Context) ([]gateway.Task, error)
}

// Confirmer blocks until the user answered a yes/no question.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool {
	return f(prompt)
}

// Confirmed is a Confirmer for callers that already asked.
var Confirmed Confirmer = ConfirmFunc(func(string) bool { return true })

// CreatedMsg is emitted after a task was created, so the initiating dialog
// can close and the draft-seeded flow can clear the draft.
type CreatedMsg struct {
	Kind CreateKind
}

// BoardMsg carries a task listing.
type BoardMsg struct {
	Tasks []gateway.Task
	Err   error
}

type statusResultMsg struct {
	mutation uint64
	err      error
}

type deleteResultMsg struct {
	mutation uint64
	err      error
}

type detachMsg struct{ id gateway.TaskID }

type createResultMsg struct {
	kind CreateKind
	task gateway.NewTask
	err  error
}

type reloadMsg struct{}

// Synchronizer owns the board and every in-flight task mutation.
type Synchronizer struct {
	remote      Remote
	sink        notify.Sink
	ctx         context.Context
	tick        loop.TickFunc
	policy      Policy
	reloadDelay time.Duration
	metrics     *observability.Metrics

	board *Board
	// confirmed is the last status the service acknowledged per task.
	confirmed map[gateway.TaskID]gateway.TaskStatus
	pending   map[uint64]PendingMutation
	toggles   map[gateway.TaskID]int
	nextID    uint64
	creating  bool
	// unlisted is set once the service said it has no task listing.
	unlisted  bool
	nextLocal int
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithPolicy selects how failed toggles are reconciled.
func WithPolicy(p Policy) Option {
	return func(s *Synchronizer) {
		if p != "" {
			s.policy = p
		}
	}
}

// WithReloadDelay sets the pause before the post-create reload. Zero or less
// disables the reload.
func WithReloadDelay(d time.Duration) Option {
	return func(s *Synchronizer) {
		s.reloadDelay = d
	}
}

// WithTick replaces the timer.
func WithTick(tick loop.TickFunc) Option {
	return func(s *Synchronizer) {
		if tick != nil {
			s.tick = tick
		}
	}
}

// WithContext sets the context remote calls run under.
func WithContext(ctx context.Context) Option {
	return func(s *Synchronizer) {
		if ctx != nil {
			s.ctx = ctx
		}
	}
}

// WithMetrics counts rollbacks.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Synchronizer) {
		s.metrics = m
	}
}

// NewSynchronizer creates a synchronizer over an empty board.
func NewSynchronizer(remote Remote, sink notify.Sink, opts ...Option) *Synchronizer {
	if sink == nil {
		sink = notify.Discard
	}
	s := &Synchronizer{
		remote:      remote,
		sink:        sink,
		ctx:         context.Background(),
		tick:        loop.Tick,
		policy:      Strict,
		reloadDelay: DefaultReloadDelay,
		board:       NewBoard(nil),
		confirmed:   map[gateway.TaskID]gateway.TaskStatus{},
		pending:     map[uint64]PendingMutation{},
		toggles:     map[gateway.TaskID]int{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Board is the board as currently shown.
func (s *Synchronizer) Board() *Board {
	return s.board
}

// Policy is the reconciliation policy in use.
func (s *Synchronizer) Policy() Policy {
	return s.policy
}

// Pending returns the mutations still waiting for the service.
func (s *Synchronizer) Pending() []PendingMutation {
	out := make([]PendingMutation, 0, len(s.pending))
	for id := uint64(1); id <= s.nextID; id++ {
		if m, ok := s.pending[id]; ok {
			out = append(out, m)
		}
	}
	return out
}

// Listed reports whether the service offers a task listing, as far as we
// know.
func (s *Synchronizer) Listed() bool {
	return !s.unlisted
}

// Creating reports whether a create call is in flight.
func (s *Synchronizer) Creating() bool {
	return s.creating
}

// Load replaces the board with a listing. Views with a toggle in flight keep
// their optimistic status; views already fading out are not brought back.
func (s *Synchronizer) Load(list []gateway.Task) {
	next := NewBoard(nil)
	for _, t := range list {
		s.confirmed[t.ID] = t.Status
		if old := s.board.view(t.ID); old != nil {
			if old.Removing {
				continue
			}
			if s.toggles[t.ID] > 0 {
				t.Status = old.Status
			}
			next.put(t)
			next.views[t.ID].Busy = old.Busy
			continue
		}
		next.put(t)
	}
	s.board = next
}

// Remember puts a task known only from elsewhere, e.g. an id given on the
// command line, on the board. Tasks already on the board are left alone.
func (s *Synchronizer) Remember(t gateway.Task) {
	if s.board.view(t.ID) != nil {
		return
	}
	s.board.put(t)
}

// Toggle flips the status of a task at once and tells the service.
func (s *Synchronizer) Toggle(id gateway.TaskID) tea.Cmd {
	v := s.board.view(id)
	if v == nil || v.Removing || v.Provisional {
		return nil
	}
	target := gateway.StatusFor(v.Status != gateway.StatusCompleted)
	if _, ok := s.confirmed[id]; !ok {
		s.confirmed[id] = v.Status
	}
	m := s.track(id, MutationToggle, target, *v)
	s.toggles[id]++
	v.Status = target

	observability.Logger().Debug("task toggled", "task", string(id), "status", string(target), "mutation", m.ID)
	remote, ctx := s.remote, s.ctx
	return func() tea.Msg {
		return statusResultMsg{mutation: m.ID, err: remote.UpdateTaskStatus(ctx, id, target)}
	}
}

// Delete asks confirm and, on yes, removes the task at the service. The view
// stays until the service agreed.
func (s *Synchronizer) Delete(id gateway.TaskID, confirm Confirmer) tea.Cmd {
	v := s.board.view(id)
	if v == nil || v.Busy || v.Removing || v.Provisional {
		return nil
	}
	if confirm == nil || !confirm.Confirm(DeletePrompt) {
		return nil
	}
	m := s.track(id, MutationDelete, v.Status, *v)
	v.Busy = true

	remote, ctx := s.remote, s.ctx
	return func() tea.Msg {
		return deleteResultMsg{mutation: m.ID, err: remote.DeleteTask(ctx, id)}
	}
}

// Create validates form and creates the task. Invalid forms only warn.
func (s *Synchronizer) Create(kind CreateKind, form Form) tea.Cmd {
	task, err := form.Task()
	if err != nil {
		if errors.Is(err, ErrTitleRequired) {
			s.sink.Notify(notify.Warning, "Please enter a task title")
		} else {
			s.sink.Notify(notify.Warning, err.Error())
		}
		return nil
	}
	if s.creating {
		return nil
	}
	s.creating = true

	remote, ctx := s.remote, s.ctx
	return func() tea.Msg {
		return createResultMsg{kind: kind, task: task, err: remote.CreateTask(ctx, task)}
	}
}

// Reload fetches the board from the service. Once the service turned out to
// have no listing it is not asked again and the local board stands.
func (s *Synchronizer) Reload() tea.Cmd {
	if s.unlisted {
		return nil
	}
	remote, ctx := s.remote, s.ctx
	return func() tea.Msg {
		list, err := remote.ListTasks(ctx)
		return BoardMsg{Tasks: list, Err: err}
	}
}

// Update applies results and timers addressed to the synchronizer.
func (s *Synchronizer) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case statusResultMsg:
		s.statusResult(msg)
	case deleteResultMsg:
		return s.deleteResult(msg)
	case detachMsg:
		if v := s.board.view(msg.id); v != nil && v.Removing {
			s.board.remove(msg.id)
		}
	case createResultMsg:
		return s.createResult(msg)
	case reloadMsg:
		return s.Reload()
	case BoardMsg:
		if gateway.IsUnsupported(msg.Err) {
			s.unlisted = true
			observability.Logger().Info("service has no task listing, keeping the local board", "err", msg.Err)
			return nil
		}
		if msg.Err != nil {
			observability.Logger().Warn("task board reload failed", "err", msg.Err)
			return nil
		}
		s.Load(msg.Tasks)
	}
	return nil
}

func (s *Synchronizer) track(id gateway.TaskID, kind MutationKind, target gateway.TaskStatus, snapshot View) PendingMutation {
	s.nextID++
	m := PendingMutation{ID: s.nextID, TaskID: id, Kind: kind, Target: target, Snapshot: snapshot}
	s.pending[m.ID] = m
	return m
}

func (s *Synchronizer) statusResult(msg statusResultMsg) {
	m, ok := s.pending[msg.mutation]
	if !ok {
		return
	}
	delete(s.pending, msg.mutation)
	s.toggles[m.TaskID]--
	if s.toggles[m.TaskID] <= 0 {
		delete(s.toggles, m.TaskID)
	}

	if msg.err == nil {
		s.confirmed[m.TaskID] = m.Target
		if m.Target == gateway.StatusCompleted {
			s.sink.Notify(notify.Success, "Task completed! Great job! 🎉")
		} else {
			s.sink.Notify(notify.Success, "Task marked as pending 📝")
		}
		return
	}

	observability.Logger().Warn("task status update failed", "task", string(m.TaskID), "status", string(m.Target), "err", msg.err)
	s.sink.Notify(notify.Danger, "Error updating task")
	if s.policy != Strict || s.toggles[m.TaskID] > 0 {
		return
	}
	v := s.board.view(m.TaskID)
	if v == nil {
		return
	}
	if confirmed, ok := s.confirmed[m.TaskID]; ok && v.Status != confirmed {
		v.Status = confirmed
		s.metrics.RolledBack()
		observability.Logger().Info("task status rolled back", "task", string(m.TaskID), "status", string(confirmed))
	}
}

func (s *Synchronizer) deleteResult(msg deleteResultMsg) tea.Cmd {
	m, ok := s.pending[msg.mutation]
	if !ok {
		return nil
	}
	delete(s.pending, msg.mutation)
	v := s.board.view(m.TaskID)
	if v != nil {
		v.Busy = false
	}

	if msg.err != nil {
		observability.Logger().Warn("task delete failed", "task", string(m.TaskID), "err", msg.err)
		s.sink.Notify(notify.Danger, "Error deleting task")
		return nil
	}
	delete(s.confirmed, m.TaskID)
	s.sink.Notify(notify.Info, "Task deleted successfully 🗑️")
	if v == nil {
		return nil
	}
	v.Removing = true
	id := m.TaskID
	return s.tick(DetachDelay, func(time.Time) tea.Msg { return detachMsg{id: id} })
}

func (s *Synchronizer) createResult(msg createResultMsg) tea.Cmd {
	s.creating = false
	if msg.err != nil {
		observability.Logger().Warn("task create failed", "kind", msg.kind.String(), "err", msg.err)
		s.sink.Notify(notify.Danger, msg.kind.failureText())
		return nil
	}
	s.sink.Notify(notify.Success, msg.kind.successText())
	s.addProvisional(msg.task)
	kind := msg.kind
	created := func() tea.Msg { return CreatedMsg{Kind: kind} }
	if s.reloadDelay <= 0 {
		return created
	}
	return tea.Batch(created, s.tick(s.reloadDelay, func(time.Time) tea.Msg { return reloadMsg{} }))
}

// addProvisional shows a created task at once. The create call does not
// return an id, so the view gets a local one until a listing replaces it.
func (s *Synchronizer) addProvisional(t gateway.NewTask) {
	s.nextLocal++
	s.board.putView(View{
		Task: gateway.Task{
			ID:          gateway.TaskID(fmt.Sprintf("local-%d", s.nextLocal)),
			Title:       t.Title,
			Description: t.Description,
			Priority:    t.Priority,
			Status:      gateway.StatusPending,
			DueDate:     t.DueDate,
		},
		Provisional: true,
	})
}
