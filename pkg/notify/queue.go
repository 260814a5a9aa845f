package notify

import (
	"sync"
	"time"
)

// Queue holds toasts for an interactive renderer and expires them after a
// TTL. Newest toasts are returned first.
type Queue struct {
	mu    sync.Mutex
	ttl   time.Duration
	limit int
	now   func() time.Time
	items []Notification
}

// NewQueue creates a queue keeping at most limit toasts for ttl each.
func NewQueue(ttl time.Duration, limit int) *Queue {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if limit <= 0 {
		limit = 3
	}
	return &Queue{ttl: ttl, limit: limit, now: time.Now}
}

func (q *Queue) Notify(level Level, text string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append([]Notification{{Level: level, Text: text, At: q.now()}}, q.items...)
	if len(q.items) > q.limit {
		q.items = q.items[:q.limit]
	}
}

// Active prunes expired toasts and returns the remaining ones.
func (q *Queue) Active() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	now := q.now()
	kept := q.items[:0]
	for _, n := range q.items {
		if now.Sub(n.At) < q.ttl {
			kept = append(kept, n)
		}
	}
	q.items = kept
	return append([]Notification(nil), kept...)
}
