package notification

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
)

var (
	ErrQueueFull   = errors.New("notification queue is full")
	ErrQueueClosed = errors.New("notification queue is closed")
)

// Batch is the unit of work handed to the dispatcher workers.
type Batch struct {
	Notifications []NewNotification `json:"notifications"`
	QueuedAt      time.Time         `json:"queued_at"`
}

// Queue transports batches from request handlers to dispatcher workers.
type Queue interface {
	// Push must not block for long; a full queue returns ErrQueueFull.
	Push(ctx context.Context, batch Batch) error
	// Pop blocks until a batch is available, ctx is done or the queue is closed.
	Pop(ctx context.Context) (Batch, error)
	Close() error
}

type memoryQueue struct {
	ch     chan Batch
	mu     sync.RWMutex
	closed bool
}

var _ Queue = (*memoryQueue)(nil)

// NewMemoryQueue returns an in-process queue holding up to size batches.
func NewMemoryQueue(size int) Queue {
	if size < 1 {
		size = 1
	}
	return &memoryQueue{ch: make(chan Batch, size)}
}

func (q *memoryQueue) Push(_ context.Context, batch Batch) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.ch <- batch:
		return nil
	default:
		return ErrQueueFull
	}
}

// Pop keeps returning buffered batches after Close until the queue is drained.
func (q *memoryQueue) Pop(ctx context.Context) (Batch, error) {
	select {
	case batch, ok := <-q.ch:
		if !ok {
			return Batch{}, ErrQueueClosed
		}
		return batch, nil
	case <-ctx.Done():
		return Batch{}, ctx.Err()
	}
}

func (q *memoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		q.closed = true
		close(q.ch)
	}
	return nil
}
