package fuse

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/zoobzio/capitan"
)

// DefaultQueueSize is the default capacity of a Host task queue.
const DefaultQueueSize = 64

// maxRenderPasses bounds how many times one burst re-renders when the render
// itself invalidates the host.
const maxRenderPasses = 16

// Host is a single-threaded owner for Fused values. It serializes every
// read and write onto one goroutine and coalesces re-evaluation signals:
// any number of Invalidate calls during a burst of tasks produce one render.
//
// Tasks reach the host through Dispatch, which is safe to call from any
// goroutine. Invalidate and everything the tasks and the render function
// touch belong to the host goroutine.
//
// Example:
//
//	host := fuse.NewHost(func() { fmt.Println(state.ValueOr(0)) })
//	state := fuse.New[int](fuse.WithInitial(0), fuse.WithNotify[int](host.Invalidate))
//
//	go host.Run(ctx)
//	host.Dispatch(func() { state.Set(5) })
type Host struct {
	render  func()
	tasks   chan func()
	done    chan struct{}
	metrics MetricsProvider

	dirty   bool
	renders atomic.Int64

	mu      sync.Mutex
	started bool
}

// NewHost creates a Host that calls render once per burst that invalidated it.
func NewHost(render func()) *Host {
	return &Host{
		render: render,
		tasks:  make(chan func(), DefaultQueueSize),
		done:   make(chan struct{}),
	}
}

// QueueSize sets the task queue capacity. Must be called before Run or Dispatch.
func (h *Host) QueueSize(n int) *Host {
	if n > 0 {
		h.tasks = make(chan func(), n)
	}
	return h
}

// Metrics sets a metrics provider. Must be called before Run.
func (h *Host) Metrics(m MetricsProvider) *Host {
	h.metrics = m
	return h
}

// Invalidate requests a render at the end of the current burst. It is meant
// to be passed to WithNotify and must only be called on the host goroutine.
func (h *Host) Invalidate() {
	h.dirty = true
}

// Renders returns the number of renders performed so far.
func (h *Host) Renders() int {
	return int(h.renders.Load())
}

// Pending returns the number of queued tasks not yet run.
func (h *Host) Pending() int {
	return len(h.tasks)
}

// Dispatch queues fn to run on the host goroutine. It blocks while the queue
// is full and returns ErrHostStopped once Run has returned.
//
// Tasks already running on the host must not Dispatch into a full queue;
// they can call into Fused values directly.
func (h *Host) Dispatch(fn func()) error {
	return h.DispatchContext(context.Background(), fn)
}

// DispatchContext is Dispatch that gives up when ctx is done, returning
// ctx.Err(). Producers with their own lifetime, such as tickers, use it so
// stopping them never waits on a full queue.
func (h *Host) DispatchContext(ctx context.Context, fn func()) error {
	select {
	case <-h.done:
		return ErrHostStopped
	default:
	}
	select {
	case h.tasks <- fn:
		return nil
	case <-h.done:
		return ErrHostStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run processes tasks until ctx is canceled. Each loop turn takes one task,
// runs every task already queued behind it, then renders once if any task
// invalidated the host.
//
// Run can only be called once. Subsequent calls return ErrAlreadyStarted.
func (h *Host) Run(ctx context.Context) error {
	h.mu.Lock()
	if h.started {
		h.mu.Unlock()
		return ErrAlreadyStarted
	}
	h.started = true
	h.mu.Unlock()
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-h.tasks:
			fn()
			h.burst(ctx, 1)
		}
	}
}

// Flush runs every queued task on the calling goroutine and renders once if
// needed. It returns the number of tasks run. Flush is the synchronous
// counterpart of Run for tests and hosts that own their own loop; it must not
// be used while Run is active.
func (h *Host) Flush() int {
	return h.burst(context.Background(), 0)
}

// burst drains the tasks queued at entry, then renders.
func (h *Host) burst(ctx context.Context, ran int) int {
	for pending := len(h.tasks); pending > 0; pending-- {
		fn := <-h.tasks
		fn()
		ran++
	}

	for pass := 0; h.dirty && pass < maxRenderPasses; pass++ {
		h.dirty = false
		if h.render != nil {
			h.render()
		}
		h.renders.Add(1)
		capitan.Emit(ctx, HostRendered,
			KeyBurst.Field(ran),
		)
		if h.metrics != nil {
			h.metrics.OnRender(ran)
		}
	}
	return ran
}
