package testing

import (
	"context"
	"testing"
	"time"

	"github.com/zoobzio/fuse"
)

func TestWaitFor(t *testing.T) {
	t.Run("condition met immediately", func(t *testing.T) {
		result := WaitFor(t, 100*time.Millisecond, func() bool {
			return true
		})
		if !result {
			t.Error("expected WaitFor to return true")
		}
	})

	t.Run("condition never met", func(t *testing.T) {
		result := WaitFor(t, 30*time.Millisecond, func() bool {
			return false
		})
		if result {
			t.Error("expected WaitFor to return false")
		}
	})

	t.Run("condition met after delay", func(t *testing.T) {
		start := time.Now()
		result := WaitFor(t, time.Second, func() bool {
			return time.Since(start) > 20*time.Millisecond
		})
		if !result {
			t.Error("expected WaitFor to return true")
		}
	})
}

func TestRecorder(t *testing.T) {
	rec := &Recorder[int]{}

	if _, ok := rec.Last(); ok {
		t.Error("expected no last value on empty recorder")
	}

	state := fuse.New[int](fuse.WithInitial(0), fuse.OnInternalChange(rec.Record))
	state.Set(1)
	state.Set(2)
	state.Set(2) // equal, not recorded

	if rec.Count() != 2 {
		t.Fatalf("expected 2 records, got %d", rec.Count())
	}
	values := rec.Values()
	if values[0] != 1 || values[1] != 2 {
		t.Errorf("expected [1 2], got %v", values)
	}
	if last, ok := rec.Last(); !ok || last != 2 {
		t.Errorf("expected last 2, got %d (%v)", last, ok)
	}
}

func TestCounter(t *testing.T) {
	var counter Counter
	state := fuse.New[string](fuse.WithNotify[string](counter.Signal))

	state.Set("a")
	state.Set("a")
	state.Set("b")

	if counter.Count() != 2 {
		t.Errorf("expected 2 signals, got %d", counter.Count())
	}
}

func TestRequireHelpers(t *testing.T) {
	state := fuse.New[int]()
	RequireUnset(t, state)
	RequireMode(t, state, fuse.ModeUncontrolled)

	state.Control(4)
	RequireCurrent(t, state, 4)
	RequireMode(t, state, fuse.ModeControlled)
}

func TestNewTestBinding(t *testing.T) {
	ctx := context.Background()
	host := fuse.NewHost(nil)
	state := fuse.New[int](fuse.WithInitial(1))

	binding, ch := NewTestBinding(t, state, host)
	ch <- []byte(`9`)

	if err := binding.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	host.Flush()
	RequireCurrent(t, state, 9)

	ch <- []byte(`null`)
	if !binding.Process(ctx) {
		t.Fatal("expected Process to handle a payload")
	}
	host.Flush()
	RequireCurrent(t, state, 9)
	RequireMode(t, state, fuse.ModeUncontrolled)
}
