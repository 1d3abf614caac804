package fuse

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// DefaultDebounce is the default debounce duration for change processing.
const DefaultDebounce = 100 * time.Millisecond

// Binding makes a watched source the owner of a Fused. Each payload from the
// watcher is decoded, validated and passed through middleware, then handed
// to the Host, which syncs it into the state and re-renders.
//
// A payload that decodes to "absent" (see Absent) releases control and the
// state continues uncontrolled from its last value. A payload rejected at
// any stage leaves the previous external value in force.
//
// Like any owner, the Binding re-supplies its value on every evaluation
// cycle: call Resync from the host's render function so internal writes
// made while controlled are overridden.
type Binding[T any] struct {
	name       string
	watcher    Watcher
	state      *Fused[T]
	host       *Host
	pipeline   Middleware[T]
	debounce   time.Duration
	syncMode   bool
	clock      clockz.Clock
	codec      Codec
	metrics    MetricsProvider
	onStop     func()

	// previous is owned by the processing goroutine.
	previous Maybe[T]
	// external is owned by the host goroutine.
	external Maybe[T]

	applied      atomic.Int64
	lastError    atomic.Pointer[error]
	errorHistory *errorRing

	mu      sync.Mutex
	started bool

	// For sync mode: channel to receive changes
	changes <-chan []byte
}

// Bind creates a Binding that drives state from watcher through host.
//
// Example:
//
//	binding := fuse.Bind(fuse.NewFileWatcher("value.yaml"), state, host,
//	    fuse.UseTransform("clamp", func(_ context.Context, c *fuse.Change[int]) *fuse.Change[int] {
//	        if v, ok := c.Current.Get(); ok && v < 0 {
//	            c.Current = fuse.Some(0)
//	        }
//	        return c
//	    }),
//	).Codec(fuse.YAMLCodec{})
//
//	if err := binding.Start(ctx); err != nil {
//	    log.Printf("initial value rejected: %v", err)
//	}
func Bind[T any](watcher Watcher, state *Fused[T], host *Host, middleware ...Middleware[T]) *Binding[T] {
	return &Binding[T]{
		name:         state.Name(),
		watcher:      watcher,
		state:        state,
		host:         host,
		pipeline:     newPipeline(state.Name(), middleware),
		debounce:     DefaultDebounce,
		clock:        clockz.RealClock,
		codec:        JSONCodec{},
		errorHistory: newErrorRing(0),
	}
}

// -----------------------------------------------------------------------------
// Chainable Instance Configuration
// -----------------------------------------------------------------------------

// Name sets the name reported in emitted events. Defaults to the state's name.
func (b *Binding[T]) Name(name string) *Binding[T] {
	b.name = name
	return b
}

// Debounce sets the debounce duration for change processing.
// Changes arriving within this duration are coalesced into a single update.
// Default: 100ms. Must be called before Start().
func (b *Binding[T]) Debounce(d time.Duration) *Binding[T] {
	b.debounce = d
	return b
}

// SyncMode enables synchronous processing for testing.
// In sync mode, changes are processed only through Process() without
// debouncing or goroutines, making tests deterministic. Must be called
// before Start().
func (b *Binding[T]) SyncMode() *Binding[T] {
	b.syncMode = true
	return b
}

// Clock sets a custom clock for time operations.
// Use this with clockz.FakeClock for deterministic debounce testing.
func (b *Binding[T]) Clock(clock clockz.Clock) *Binding[T] {
	b.clock = clock
	return b
}

// Codec sets the payload codec. Default: JSONCodec.
func (b *Binding[T]) Codec(codec Codec) *Binding[T] {
	b.codec = codec
	return b
}

// Metrics sets a metrics provider.
func (b *Binding[T]) Metrics(m MetricsProvider) *Binding[T] {
	b.metrics = m
	return b
}

// ErrorHistorySize keeps the n most recent rejections (see ErrorHistory).
func (b *Binding[T]) ErrorHistorySize(n int) *Binding[T] {
	b.errorHistory = newErrorRing(n)
	return b
}

// OnStop registers a function called when asynchronous watching ends.
func (b *Binding[T]) OnStop(fn func()) *Binding[T] {
	b.onStop = fn
	return b
}

// -----------------------------------------------------------------------------
// Owner side (host goroutine)
// -----------------------------------------------------------------------------

// External returns the external value last delivered to the host.
// Must be called on the host goroutine.
func (b *Binding[T]) External() Maybe[T] {
	return b.external
}

// Resync runs an evaluation cycle of the state with the bound external value.
// Must be called on the host goroutine, typically from the render function.
func (b *Binding[T]) Resync() {
	b.state.Sync(b.external)
}

// -----------------------------------------------------------------------------
// Watching
// -----------------------------------------------------------------------------

// Applied returns the number of payloads dispatched to the host.
func (b *Binding[T]) Applied() int {
	return int(b.applied.Load())
}

// LastError returns the last rejection, or nil if the latest payload was applied.
func (b *Binding[T]) LastError() error {
	ptr := b.lastError.Load()
	if ptr == nil {
		return nil
	}
	return *ptr
}

// ErrorHistory returns recent rejections, oldest first. Each entry is a
// *StageError. Returns nil if history is not enabled.
func (b *Binding[T]) ErrorHistory() []error {
	return b.errorHistory.all()
}

// Start begins watching. It blocks until the first payload is handled
// (applied or rejected), then continues watching asynchronously.
//
// If the first payload is rejected, Start returns the error but keeps
// watching for valid updates.
//
// In sync mode, Start only handles the first payload. Use Process() to
// handle subsequent ones.
//
// Start can only be called once. Subsequent calls return ErrAlreadyStarted.
func (b *Binding[T]) Start(ctx context.Context) error {
	b.mu.Lock()
	if b.started {
		b.mu.Unlock()
		return ErrAlreadyStarted
	}
	b.started = true
	b.mu.Unlock()

	capitan.Emit(ctx, BindingStarted,
		KeyName.Field(b.name),
		KeyDebounce.Field(b.debounce),
	)

	changes, err := b.watcher.Watch(ctx)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	var initialErr error
	select {
	case <-ctx.Done():
		return ctx.Err()
	case raw, ok := <-changes:
		if !ok {
			return ErrWatcherClosed
		}
		b.received(ctx)
		initialErr = b.process(ctx, raw)
	}

	if b.syncMode {
		b.changes = changes
		return initialErr
	}

	go b.watch(ctx, changes)

	return initialErr
}

// Process reads and handles the next payload from the watcher.
// This is only available in sync mode and is used for deterministic testing.
// Returns false if no payload is available or the channel is closed.
func (b *Binding[T]) Process(ctx context.Context) bool {
	if !b.syncMode {
		return false
	}

	select {
	case raw, ok := <-b.changes:
		if !ok {
			return false
		}
		b.received(ctx)
		_ = b.process(ctx, raw) //nolint:errcheck // Errors stored via reject
		return true
	default:
		return false
	}
}

func (b *Binding[T]) received(ctx context.Context) {
	capitan.Emit(ctx, BindingChangeReceived,
		KeyName.Field(b.name),
	)
}

// process decodes, validates and runs middleware over one payload, then
// hands the result to the host.
func (b *Binding[T]) process(ctx context.Context, raw []byte) error {
	start := b.clock.Now()

	incoming, err := decode[T](b.codec, raw)
	if err != nil {
		return b.reject(ctx, "decode", start, err)
	}

	if v, ok := incoming.Get(); ok {
		if validator, ok := any(v).(Validator); ok {
			if err := validator.Validate(); err != nil {
				return b.reject(ctx, "validate", start, err)
			}
		}
	}

	change := &Change[T]{Previous: b.previous, Current: incoming, Raw: raw}
	change, err = b.pipeline.Process(ctx, change)
	if err != nil {
		return b.reject(ctx, "pipeline", start, err)
	}

	ext := change.Current
	if err := b.host.DispatchContext(ctx, func() {
		b.external = ext
		b.state.Sync(ext)
		b.host.Invalidate()
	}); err != nil {
		return b.reject(ctx, "dispatch", start, err)
	}

	b.previous = ext
	b.applied.Add(1)
	b.lastError.Store(nil)
	b.errorHistory.clear()
	capitan.Emit(ctx, BindingApplied,
		KeyName.Field(b.name),
		KeyValue.Field(ext.String()),
	)
	if b.metrics != nil {
		b.metrics.OnBindingApplied(b.clock.Since(start))
	}
	return nil
}

// reject records a failed payload and returns it as a *StageError.
func (b *Binding[T]) reject(ctx context.Context, stage string, start time.Time, err error) error {
	rejection := &StageError{Stage: stage, At: b.clock.Now(), Err: err}
	var stored error = rejection
	b.lastError.Store(&stored)
	b.errorHistory.push(rejection)

	switch stage {
	case "decode":
		capitan.Emit(ctx, BindingDecodeFailed,
			KeyName.Field(b.name),
			KeyError.Field(err.Error()),
		)
	case "validate":
		capitan.Emit(ctx, BindingValidationFailed,
			KeyName.Field(b.name),
			KeyError.Field(err.Error()),
		)
	case "dispatch":
		capitan.Emit(ctx, BindingDispatchFailed,
			KeyName.Field(b.name),
			KeyError.Field(err.Error()),
		)
	default:
		capitan.Emit(ctx, BindingPipelineFailed,
			KeyName.Field(b.name),
			KeyError.Field(err.Error()),
		)
	}
	if b.metrics != nil {
		b.metrics.OnBindingFailure(stage, b.clock.Since(start))
	}
	return rejection
}

// watch processes changes from the watcher channel with debouncing.
func (b *Binding[T]) watch(ctx context.Context, changes <-chan []byte) {
	defer func() {
		capitan.Emit(ctx, BindingStopped,
			KeyName.Field(b.name),
		)
		if b.onStop != nil {
			b.onStop()
		}
	}()

	var (
		timer      clockz.Timer
		pending    []byte
		hasPending bool
	)

	for {
		// Get timer channel or nil if no timer
		var timerC <-chan time.Time
		if timer != nil {
			timerC = timer.C()
		}

		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case raw, ok := <-changes:
			if !ok {
				// Channel closed, process any pending change
				if hasPending {
					_ = b.process(ctx, pending) //nolint:errcheck // Errors stored via reject
				}
				return
			}

			b.received(ctx)
			pending = raw
			hasPending = true

			// Reset or start debounce timer
			if timer == nil {
				timer = b.clock.NewTimer(b.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C():
					default:
					}
				}
				timer.Reset(b.debounce)
			}

		case <-timerC:
			if hasPending {
				_ = b.process(ctx, pending) //nolint:errcheck // Errors stored via reject
				hasPending = false
			}
		}
	}
}
