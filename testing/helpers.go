// Package testing provides test utilities and helpers for fuse states,
// hosts and bindings.
package testing

import (
	"sync"
	"testing"
	"time"

	"github.com/zoobzio/fuse"
)

// WaitFor polls a condition until it returns true or timeout is reached.
// Returns true if the condition was met, false if timeout occurred.
func WaitFor(t *testing.T, timeout time.Duration, condition func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return condition()
}

// RequireCurrent fails the test immediately if the state does not resolve to want.
func RequireCurrent[T comparable](t *testing.T, f *fuse.Fused[T], want T) {
	t.Helper()
	got, ok := f.Current()
	if !ok {
		t.Fatalf("expected %v, got unset", want)
	}
	if got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

// RequireUnset fails the test immediately if the state resolves to a value.
func RequireUnset[T any](t *testing.T, f *fuse.Fused[T]) {
	t.Helper()
	if got, ok := f.Current(); ok {
		t.Fatalf("expected unset, got %v", got)
	}
}

// RequireMode fails the test immediately if the state is not in the expected mode.
func RequireMode[T any](t *testing.T, f *fuse.Fused[T], expected fuse.Mode) {
	t.Helper()
	if got := f.Mode(); got != expected {
		t.Fatalf("expected mode %s, got %s", expected, got)
	}
}

// Recorder records values passed to an observer. It is safe for concurrent use.
//
//	rec := &testing.Recorder[int]{}
//	state := fuse.New[int](fuse.OnInternalChange(rec.Record))
type Recorder[T any] struct {
	mu     sync.Mutex
	values []T
}

// Record appends v. Pass it to fuse.OnInternalChange.
func (r *Recorder[T]) Record(v T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, v)
}

// Values returns a copy of the recorded values, oldest first.
func (r *Recorder[T]) Values() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]T, len(r.values))
	copy(out, r.values)
	return out
}

// Count returns how many values were recorded.
func (r *Recorder[T]) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.values)
}

// Last returns the most recent value and true, or the zero value and false.
func (r *Recorder[T]) Last() (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.values) == 0 {
		var zero T
		return zero, false
	}
	return r.values[len(r.values)-1], true
}

// Counter counts re-evaluation signals. Pass Signal to fuse.WithNotify.
type Counter struct {
	mu sync.Mutex
	n  int
}

// Signal increments the counter.
func (c *Counter) Signal() {
	c.mu.Lock()
	c.n++
	c.mu.Unlock()
}

// Count returns the number of signals.
func (c *Counter) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

// NewTestBinding creates a sync-mode binding fed by a buffered channel.
// Returns the binding and a channel for sending test payloads. Payloads are
// applied on Start or Process and reach the state on host.Flush.
func NewTestBinding[T any](t *testing.T, state *fuse.Fused[T], host *fuse.Host, middleware ...fuse.Middleware[T]) (*fuse.Binding[T], chan<- []byte) {
	t.Helper()
	ch := make(chan []byte, 10)
	b := fuse.Bind(fuse.NewSyncChannelWatcher(ch), state, host, middleware...).SyncMode()
	return b, ch
}
