package tasks

import (
	"tableflip.dev/yourdiary/pkg/gateway"
	"tableflip.dev/yourdiary/pkg/notify"
)

// Badge texts for the two task states.
const (
	BadgeComplete = "✓ Complete"
	BadgePending  = "◷ Pending"
)

// Appearance is how a task should be drawn for its status.
type Appearance struct {
	Struck     bool
	Dimmed     bool
	Badge      string
	BadgeLevel notify.Level
}

// AppearanceFor maps a status onto its visual state.
func AppearanceFor(status gateway.TaskStatus) Appearance {
	if status == gateway.StatusCompleted {
		return Appearance{Struck: true, Dimmed: true, Badge: BadgeComplete, BadgeLevel: notify.Success}
	}
	return Appearance{Badge: BadgePending, BadgeLevel: notify.Warning}
}

// View is a task as bound to the board.
type View struct {
	gateway.Task
	// Busy is set while a blocking call (delete) is in flight.
	Busy bool
	// Removing is set once a delete succeeded; the view detaches shortly after.
	Removing bool
	// Provisional views stand for tasks created here whose id the service
	// has not told us yet. They are replaced by the next listing.
	Provisional bool
}

// Appearance is the visual state for the view's current status.
func (v View) Appearance() Appearance {
	return AppearanceFor(v.Status)
}

// Board holds task views by identifier, in display order.
type Board struct {
	order []gateway.TaskID
	views map[gateway.TaskID]*View
}

// NewBoard builds a board from a task listing.
func NewBoard(list []gateway.Task) *Board {
	b := &Board{views: map[gateway.TaskID]*View{}}
	for _, t := range list {
		b.put(t)
	}
	return b
}

func (b *Board) put(t gateway.Task) {
	b.putView(View{Task: t})
}

func (b *Board) putView(v View) {
	if _, ok := b.views[v.ID]; !ok {
		b.order = append(b.order, v.ID)
	}
	b.views[v.ID] = &v
}

// Get returns a copy of the view for id.
func (b *Board) Get(id gateway.TaskID) (View, bool) {
	v, ok := b.views[id]
	if !ok {
		return View{}, false
	}
	return *v, true
}

// Len is the number of views on the board.
func (b *Board) Len() int {
	return len(b.order)
}

// Views returns copies of every view in display order.
func (b *Board) Views() []View {
	out := make([]View, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, *b.views[id])
	}
	return out
}

// Tasks returns the tasks as currently shown, for snapshots. Views fading
// out are left out, as are provisional ones whose ids mean nothing to the
// service.
func (b *Board) Tasks() []gateway.Task {
	out := make([]gateway.Task, 0, len(b.order))
	for _, id := range b.order {
		if v := b.views[id]; !v.Provisional && !v.Removing {
			out = append(out, v.Task)
		}
	}
	return out
}

func (b *Board) view(id gateway.TaskID) *View {
	return b.views[id]
}

func (b *Board) remove(id gateway.TaskID) {
	if _, ok := b.views[id]; !ok {
		return
	}
	delete(b.views, id)
	for i, candidate := range b.order {
		if candidate == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}
