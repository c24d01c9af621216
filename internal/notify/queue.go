package notify

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Queue keeps notifications until the presentation layer drains them.
// Each notification is handed out once; actions stay runnable by ID until
// the next Drain.
type Queue struct {
	mu       sync.Mutex
	pending  []Notification
	shown    map[uuid.UUID]Notification
	capacity int
}

// NewQueue returns a queue that keeps at most capacity pending
// notifications, dropping the oldest first.
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = 16
	}
	return &Queue{capacity: capacity, shown: make(map[uuid.UUID]Notification)}
}

// Notify implements Sink.
func (q *Queue) Notify(n Notification) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, n)
	if over := len(q.pending) - q.capacity; over > 0 {
		q.pending = q.pending[over:]
	}
}

// Drain returns the pending notifications and empties the queue.
func (q *Queue) Drain() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.pending
	q.pending = nil
	q.shown = make(map[uuid.UUID]Notification, len(out))
	for _, n := range out {
		q.shown[n.NotificationID()] = n
	}
	return out
}

// Lookup finds a notification handed out by the last Drain or still
// pending.
func (q *Queue) Lookup(id uuid.UUID) (Notification, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if n, ok := q.shown[id]; ok {
		return n, true
	}
	for _, n := range q.pending {
		if n.NotificationID() == id {
			return n, true
		}
	}
	return nil, false
}

// LogSink writes notifications to a zap logger.
type LogSink struct {
	Logger *zap.Logger
}

func (s LogSink) Notify(n Notification) {
	s.Logger.Info("Notification",
		zap.String("id", n.NotificationID().String()),
		zap.String("kind", string(n.Kind())),
		zap.String("text", n.Text()),
		zap.String("label", Label(n)))
}
