package fuse

import (
	"fmt"
	"sync"
	"time"
)

// StageError records a payload a Binding rejected.
type StageError struct {
	// Stage is where the payload was rejected: "decode", "validate", "pipeline" or "dispatch".
	Stage string

	// At is when the rejection happened, read from the Binding's clock.
	At time.Time

	// Err is the underlying error.
	Err error
}

// Error implements error.
func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error.
func (e *StageError) Unwrap() error {
	return e.Err
}

// errorRing is a thread-safe ring buffer holding the most recent rejections.
type errorRing struct {
	mu      sync.RWMutex
	entries []*StageError
	head    int
	count   int
}

// newErrorRing creates a ring with the given capacity.
// A non-positive size disables the history and returns nil.
func newErrorRing(size int) *errorRing {
	if size <= 0 {
		return nil
	}
	return &errorRing{entries: make([]*StageError, size)}
}

// push adds an entry, overwriting the oldest when full.
func (r *errorRing) push(e *StageError) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[r.head] = e
	r.head = (r.head + 1) % len(r.entries)
	if r.count < len(r.entries) {
		r.count++
	}
}

// clear drops every entry.
func (r *errorRing) clear() {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	clear(r.entries)
	r.head = 0
	r.count = 0
}

// all returns the entries oldest first as errors.
func (r *errorRing) all() []error {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.count == 0 {
		return nil
	}

	size := len(r.entries)
	start := (r.head - r.count + size) % size
	result := make([]error, r.count)
	for i := range r.count {
		result[i] = r.entries[(start+i)%size]
	}
	return result
}
