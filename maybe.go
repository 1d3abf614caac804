package fuse

import "fmt"

// Maybe holds a value of type T or nothing. The zero value is unset.
//
// Maybe is used wherever a value may legitimately be absent: the external
// value an owner supplies on an evaluation cycle, the seeds given at
// construction, and the resolution of a Fused before anything was seeded.
type Maybe[T any] struct {
	value T
	set   bool
}

// Some returns a Maybe holding v.
func Some[T any](v T) Maybe[T] {
	return Maybe[T]{value: v, set: true}
}

// None returns an unset Maybe.
func None[T any]() Maybe[T] {
	return Maybe[T]{}
}

// Get returns the held value and true, or the zero value and false.
func (m Maybe[T]) Get() (T, bool) {
	return m.value, m.set
}

// IsSet reports whether m holds a value.
func (m Maybe[T]) IsSet() bool {
	return m.set
}

// Or returns the held value, or fallback if m is unset.
func (m Maybe[T]) Or(fallback T) T {
	if !m.set {
		return fallback
	}
	return m.value
}

// String formats the held value with %v, or "unset".
func (m Maybe[T]) String() string {
	if !m.set {
		return "unset"
	}
	return fmt.Sprintf("%v", m.value)
}

// or returns m if set, otherwise other.
func (m Maybe[T]) or(other Maybe[T]) Maybe[T] {
	if m.set {
		return m
	}
	return other
}
