package history

import (
	"fmt"
	"sync"
)

// DefaultCapacity is the number of records kept when no size is configured.
const DefaultCapacity = 10

// Ring is a fixed-capacity Store backed by a circular buffer.
// Push is O(1) and evicts the oldest record once the ring is full.
// It is safe for concurrent use.
type Ring struct {
	mu   sync.RWMutex
	buf  []Record
	head int // index of the newest record
	size int
}

// New creates an empty Ring holding at most capacity records.
func New(capacity int) (*Ring, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("history capacity must be positive, got %d", capacity)
	}
	return &Ring{
		buf:  make([]Record, capacity),
		head: 0,
	}, nil
}

// Push inserts rec as the newest record.
func (r *Ring) Push(rec Record) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.buf)
	r.head = (r.head - 1 + n) % n
	r.buf[r.head] = rec

	if r.size < n {
		r.size++
		return 0
	}
	return 1
}

// Snapshot copies the current contents, newest first.
// The result is never nil.
func (r *Ring) Snapshot() []Record {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Record, r.size)
	n := len(r.buf)
	for i := 0; i < r.size; i++ {
		out[i] = r.buf[(r.head+i)%n]
	}
	return out
}

func (r *Ring) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.size
}

func (r *Ring) Cap() int {
	return len(r.buf)
}
