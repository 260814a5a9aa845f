package tasks

import (
	"fmt"
	"strings"

	"tableflip.dev/yourdiary/pkg/gateway"
)

// Policy decides what happens to an optimistic status flip whose remote call
// failed.
type Policy string

const (
	// Strict puts the last status the server confirmed back once no other
	// toggle for the task is in flight.
	Strict Policy = "strict"
	// Drift leaves the flip in place; the next board reload corrects it.
	Drift Policy = "drift"
)

// ParsePolicy accepts "strict" or "drift"; empty means strict.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return Strict, nil
	case Strict, Drift:
		return p, nil
	default:
		return "", fmt.Errorf("unknown rollback policy %q: want %s or %s", s, Strict, Drift)
	}
}

// MutationKind tells status toggles and deletions apart.
type MutationKind int

const (
	MutationToggle MutationKind = iota
	MutationDelete
)

func (k MutationKind) String() string {
	if k == MutationDelete {
		return "delete"
	}
	return "toggle"
}

// PendingMutation lives for the round-trip of one remote call against a task.
type PendingMutation struct {
	ID       uint64
	TaskID   gateway.TaskID
	Kind     MutationKind
	Target   gateway.TaskStatus
	Snapshot View
}
