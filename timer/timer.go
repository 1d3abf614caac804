// Package timer provides a counting clock component built on fuse.Fused.
//
// A Timer counts up once per interval while attached. It works both ways a
// fused component can be used: left alone it owns its count, and given a
// Value in its props it shows exactly what its parent supplies.
//
//	host := fuse.NewHost(render)
//	t := timer.New(host, timer.Props{Default: fuse.Some(100)})
//	t.Attach(ctx)
//	defer t.Detach()
package timer

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
	"github.com/zoobzio/fuse"
)

// DefaultInterval is the default tick interval.
const DefaultInterval = 100 * time.Millisecond

// Props are the inputs a parent passes to a Timer on every render.
type Props struct {
	// Value, when set, controls the displayed count.
	Value fuse.Maybe[int]

	// Default seeds the count once at construction when Value is unset.
	Default fuse.Maybe[int]

	// OnChange is called with every count the Timer produces itself.
	// It is not called when the count changes because Value changed.
	OnChange func(int)
}

// Timer is a clock component. Its count lives in a fuse.Fused seeded with
// Default, falling back to 0.
//
// Rerender, Value and Render must be called on the host goroutine.
// Attach and Detach may be called from any goroutine.
type Timer struct {
	host     *fuse.Host
	state    *fuse.Fused[int]
	props    Props
	clock    clockz.Clock
	interval time.Duration

	// attached holds the generation of the current attachment, 0 when
	// detached. Ticks carry the generation they were produced for.
	attached    atomic.Uint64
	mu          sync.Mutex
	generations uint64
	cancel      context.CancelFunc
	done        chan struct{}
}

// New creates a Timer whose re-evaluation signal goes to host.
func New(host *fuse.Host, props Props) *Timer {
	t := &Timer{
		host:     host,
		props:    props,
		clock:    clockz.RealClock,
		interval: DefaultInterval,
	}
	t.state = fuse.New[int](
		fuse.WithName[int]("timer"),
		fuse.When(props.Value, fuse.WithExternal[int]),
		fuse.When(props.Default, fuse.WithDefault[int]),
		fuse.WithInitial(0),
		fuse.OnInternalChange(t.changed),
		fuse.WithNotify[int](host.Invalidate),
	)
	return t
}

// Interval sets the tick interval. Must be called before Attach.
func (t *Timer) Interval(d time.Duration) *Timer {
	if d > 0 {
		t.interval = d
	}
	return t
}

// Clock sets the clock driving the ticker. Must be called before Attach.
// Use this with clockz.FakeClock for deterministic tests.
func (t *Timer) Clock(clock clockz.Clock) *Timer {
	t.clock = clock
	return t
}

// State exposes the underlying fused state.
func (t *Timer) State() *fuse.Fused[int] {
	return t.state
}

// Attach starts the ticker. Each tick is dispatched to the host and adds one
// to the count. Attaching an attached Timer does nothing.
func (t *Timer) Attach(ctx context.Context) {
	t.mu.Lock()
	if t.cancel != nil {
		t.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	ticker := t.clock.NewTicker(t.interval)
	done := make(chan struct{})
	t.cancel = cancel
	t.done = done
	t.generations++
	gen := t.generations
	t.attached.Store(gen)
	t.mu.Unlock()

	capitan.Emit(ctx, TimerAttached,
		fuse.KeyName.Field(t.state.Name()),
		fuse.KeyInterval.Field(t.interval),
	)

	go func() {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C():
				if err := t.host.DispatchContext(ctx, func() { t.tick(gen) }); err != nil {
					return
				}
			}
		}
	}()
}

// Detach stops the ticker and waits for it to exit. Ticks already queued on
// the host are dropped, even if the Timer is attached again before they
// run. Detaching a detached Timer does nothing.
func (t *Timer) Detach() {
	t.mu.Lock()
	cancel, done := t.cancel, t.done
	t.cancel, t.done = nil, nil
	t.attached.Store(0)
	t.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done

	capitan.Emit(context.Background(), TimerDetached,
		fuse.KeyName.Field(t.state.Name()),
	)
}

// Attached reports whether the ticker is running.
func (t *Timer) Attached() bool {
	return t.attached.Load() != 0
}

// Rerender runs an evaluation cycle with new props.
func (t *Timer) Rerender(props Props) {
	t.props = props
	t.state.Sync(props.Value)
}

// Value returns the displayed count.
func (t *Timer) Value() int {
	return t.state.ValueOr(0)
}

// Render returns the displayed text.
func (t *Timer) Render() string {
	return fmt.Sprintf("time: %d", t.Value())
}

// tick runs on the host goroutine. Ticks from an earlier attachment are
// dropped.
func (t *Timer) tick(gen uint64) {
	if t.attached.Load() != gen {
		return
	}
	t.state.Update(func(prev fuse.Maybe[int]) int {
		return prev.Or(0) + 1
	})
}

// changed forwards internal changes to the latest props.
func (t *Timer) changed(v int) {
	if t.props.OnChange != nil {
		t.props.OnChange(v)
	}
}
