package fuse

import (
	"context"

	"github.com/zoobzio/pipz"
)

// Middleware processes a Change before its value reaches the state.
// Any pipz.Chainable over *Change[T] can be used; the Use* helpers cover
// the common cases.
type Middleware[T any] = pipz.Chainable[*Change[T]]

// UseTransform creates a stage that rewrites the change.
// Cannot fail. Use for pure transformations such as clamping or defaulting.
func UseTransform[T any](name string, fn func(context.Context, *Change[T]) *Change[T]) Middleware[T] {
	return pipz.Transform(pipz.NewIdentity(name, "fuse transform stage"), fn)
}

// UseApply creates a stage that can rewrite the change and fail.
// A failure rejects the payload and keeps the previous external value.
func UseApply[T any](name string, fn func(context.Context, *Change[T]) (*Change[T], error)) Middleware[T] {
	return pipz.Apply(pipz.NewIdentity(name, "fuse apply stage"), fn)
}

// UseEffect creates a stage that performs a side effect.
// The change passes through unchanged. Use for logging, auditing or
// notifications; a returned error rejects the payload.
func UseEffect[T any](name string, fn func(context.Context, *Change[T]) error) Middleware[T] {
	return pipz.Effect(pipz.NewIdentity(name, "fuse effect stage"), fn)
}

// UseFilter creates a stage that only lets changes matching predicate
// through. A change that does not match keeps the previous external value,
// so a filtered payload neither takes nor releases control.
func UseFilter[T any](name string, predicate func(context.Context, *Change[T]) bool) Middleware[T] {
	return pipz.Transform(pipz.NewIdentity(name, "fuse filter stage"), func(ctx context.Context, c *Change[T]) *Change[T] {
		if !predicate(ctx, c) {
			c.Current = c.Previous
		}
		return c
	})
}

// newPipeline chains the stages into one sequence, run in order.
func newPipeline[T any](name string, stages []Middleware[T]) Middleware[T] {
	if name == "" {
		name = "binding"
	}
	return pipz.NewSequence(pipz.NewIdentity(name+":middleware", "fuse binding middleware"), stages...)
}
