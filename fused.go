package fuse

import (
	"context"

	"github.com/zoobzio/capitan"
)

// Fused holds a value that behaves as controlled when its owner supplies an
// external value and as uncontrolled otherwise.
//
// On every evaluation cycle the owner calls Sync with the external value it
// holds (or None). Internal writes go through Set or Update, are compared
// with the current value, and when accepted notify the observer and request
// a re-evaluation from the host.
//
// Fused is NOT thread-safe. All calls must happen on one logical thread,
// typically a Host. Reentrant writes from the observer are supported: the
// value is committed before the observer runs.
type Fused[T any] struct {
	name     string
	current  Maybe[T]
	mode     Mode
	compare  Comparator[T]
	onChange func(T)
	notify   func()
	metrics  MetricsProvider
	ctx      context.Context
}

// New creates a Fused.
//
// The value is seeded once from WithDefault, then WithInitial, then left
// unset. If WithExternal is given the Fused starts controlled and resolves
// to the external value. The observer is not called during construction.
//
// Example:
//
//	state := fuse.New[int](
//	    fuse.WithInitial(0),
//	    fuse.OnInternalChange(func(v int) { log.Printf("now %d", v) }),
//	    fuse.WithNotify[int](host.Invalidate),
//	)
//	state.Update(func(prev fuse.Maybe[int]) int { return prev.Or(0) + 1 })
func New[T any](opts ...Option[T]) *Fused[T] {
	cfg := &config[T]{
		compare: Identical[T](),
		ctx:     context.Background(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	f := &Fused[T]{
		name:     cfg.name,
		current:  cfg.def.or(cfg.initial),
		compare:  cfg.compare,
		onChange: cfg.onChange,
		notify:   cfg.notify,
		metrics:  cfg.metrics,
		ctx:      cfg.ctx,
	}
	if cfg.external.IsSet() {
		f.current = cfg.external
		f.mode = ModeControlled
	}

	capitan.Emit(f.ctx, StateSeeded,
		KeyName.Field(f.name),
		KeyMode.Field(f.mode.String()),
		KeyValue.Field(f.current.String()),
	)

	return f
}

// Name returns the name given with WithName.
func (f *Fused[T]) Name() string {
	return f.name
}

// Current returns the resolved value and true, or the zero value and false
// if nothing was ever seeded or synced.
func (f *Fused[T]) Current() (T, bool) {
	return f.current.Get()
}

// Resolve returns the resolved value as a Maybe.
func (f *Fused[T]) Resolve() Maybe[T] {
	return f.current
}

// ValueOr returns the resolved value, or fallback if unset.
func (f *Fused[T]) ValueOr(fallback T) T {
	return f.current.Or(fallback)
}

// Mode returns the control mode of the latest evaluation cycle.
func (f *Fused[T]) Mode() Mode {
	return f.mode
}

// Sync runs one evaluation cycle with the owner's external value.
//
// An unset ext leaves the value untouched and switches to uncontrolled mode.
// A set ext that differs from the current value (per the comparator)
// overwrites it. External overwrites never call the observer and never
// request a re-evaluation: the owner is already evaluating.
func (f *Fused[T]) Sync(ext Maybe[T]) {
	v, ok := ext.Get()
	if !ok {
		f.transition(ModeUncontrolled)
		return
	}
	f.transition(ModeControlled)

	if f.compare(f.current, v) {
		if f.metrics != nil {
			f.metrics.OnExternalSync(false)
		}
		return
	}

	f.current = ext
	capitan.Emit(f.ctx, StateExternalSynced,
		KeyName.Field(f.name),
		KeyValue.Field(ext.String()),
	)
	if f.metrics != nil {
		f.metrics.OnExternalSync(true)
	}
}

// Control is Sync(Some(v)).
func (f *Fused[T]) Control(v T) {
	f.Sync(Some(v))
}

// Release is Sync(None()). The last resolved value becomes the internal
// starting point.
func (f *Fused[T]) Release() {
	f.Sync(None[T]())
}

// Set writes v as an internal change.
func (f *Fused[T]) Set(v T) {
	f.commit(v)
}

// Update writes the result of fn applied to the current value as an
// internal change. prev is unset if nothing was seeded yet.
func (f *Fused[T]) Update(fn func(prev Maybe[T]) T) {
	f.commit(fn(f.current))
}

// commit stores next if it differs from the current value, then notifies
// the observer and the host.
func (f *Fused[T]) commit(next T) {
	if f.compare(f.current, next) {
		capitan.Emit(f.ctx, StateWriteSkipped,
			KeyName.Field(f.name),
		)
		if f.metrics != nil {
			f.metrics.OnWriteSkipped()
		}
		return
	}

	f.current = Some(next)
	capitan.Emit(f.ctx, StateInternalChanged,
		KeyName.Field(f.name),
		KeyMode.Field(f.mode.String()),
		KeyValue.Field(f.current.String()),
	)
	if f.metrics != nil {
		f.metrics.OnInternalChange()
	}

	if f.onChange != nil {
		f.onChange(next)
	}
	if f.notify != nil {
		f.notify()
	}
}

// transition updates the mode and emits a mode change event if changed.
func (f *Fused[T]) transition(to Mode) {
	from := f.mode
	if from == to {
		return
	}
	f.mode = to
	capitan.Emit(f.ctx, StateModeChanged,
		KeyName.Field(f.name),
		KeyOldMode.Field(from.String()),
		KeyNewMode.Field(to.String()),
	)
	if f.metrics != nil {
		f.metrics.OnModeChange(from, to)
	}
}
