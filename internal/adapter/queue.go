package adapter

import (
	"sync"

	"github.com/1ureka/roswebrtc/internal/protocol"
)

// ActionQueue accumulates configure actions between flushes.
type ActionQueue struct {
	mu      sync.Mutex
	pending []protocol.Action
}

// Enqueue appends actions to the tail of the pending batch. All arguments of
// one call stay contiguous.
func (q *ActionQueue) Enqueue(actions ...protocol.Action) {
	q.mu.Lock()
	q.pending = append(q.pending, actions...)
	q.mu.Unlock()
}

// Flush detaches the pending batch and returns it. The result is never nil.
func (q *ActionQueue) Flush() []protocol.Action {
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	q.mu.Unlock()

	if batch == nil {
		batch = []protocol.Action{}
	}
	return batch
}

// Len reports the number of pending actions.
func (q *ActionQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
