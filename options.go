package fuse

import "context"

// config holds construction options for a Fused.
type config[T any] struct {
	name     string
	external Maybe[T]
	def      Maybe[T]
	initial  Maybe[T]
	compare  Comparator[T]
	onChange func(T)
	notify   func()
	metrics  MetricsProvider
	ctx      context.Context
}

// Option configures a Fused at construction.
type Option[T any] func(*config[T])

// WithName sets the name reported in emitted events.
func WithName[T any](name string) Option[T] {
	return func(c *config[T]) {
		c.name = name
	}
}

// WithExternal supplies the external value for the first evaluation cycle.
// The Fused starts in controlled mode and resolves to v immediately.
func WithExternal[T any](v T) Option[T] {
	return func(c *config[T]) {
		c.external = Some(v)
	}
}

// WithDefault seeds the value when no external value is present.
// It takes priority over WithInitial and is only read at construction.
func WithDefault[T any](v T) Option[T] {
	return func(c *config[T]) {
		c.def = Some(v)
	}
}

// WithInitial seeds the value when neither an external value nor a default
// is present. It is only read at construction.
func WithInitial[T any](v T) Option[T] {
	return func(c *config[T]) {
		c.initial = Some(v)
	}
}

// WithCompare replaces the default Identical comparator.
func WithCompare[T any](cmp Comparator[T]) Option[T] {
	return func(c *config[T]) {
		if cmp != nil {
			c.compare = cmp
		}
	}
}

// OnInternalChange registers the observer called with the new value after
// every accepted internal write. It is never called for external syncs.
func OnInternalChange[T any](fn func(T)) Option[T] {
	return func(c *config[T]) {
		c.onChange = fn
	}
}

// WithNotify registers the re-evaluation signal. fn is called exactly once
// per accepted internal write, after the observer. Coalescing multiple
// signals is the host's concern (see Host.Invalidate).
func WithNotify[T any](fn func()) Option[T] {
	return func(c *config[T]) {
		c.notify = fn
	}
}

// WithMetrics sets a metrics provider.
func WithMetrics[T any](m MetricsProvider) Option[T] {
	return func(c *config[T]) {
		c.metrics = m
	}
}

// WithContext sets the context attached to emitted events.
func WithContext[T any](ctx context.Context) Option[T] {
	return func(c *config[T]) {
		if ctx != nil {
			c.ctx = ctx
		}
	}
}

// When applies opt to the held value of m, or does nothing if m is unset.
// It lets optional props flow straight into construction:
//
//	fuse.New[int](
//	    fuse.When(props.Value, fuse.WithExternal[int]),
//	    fuse.When(props.Default, fuse.WithDefault[int]),
//	)
func When[T any](m Maybe[T], opt func(T) Option[T]) Option[T] {
	v, ok := m.Get()
	if !ok {
		return func(*config[T]) {}
	}
	return opt(v)
}
