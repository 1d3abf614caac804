package fuse

import "reflect"

// Comparator reports whether next is the same value as prev. A Fused uses
// its comparator for every "did the value actually change" decision.
//
// prev may be unset (nothing seeded yet); next is always a value.
type Comparator[T any] func(prev Maybe[T], next T) bool

// Identical is the default comparator. It uses == when the dynamic type of
// the values is comparable. Values of non-comparable types (slices, maps,
// funcs) are never reported equal, so every write of such a value counts as
// a change. Supply WithCompare for structural equality.
func Identical[T any]() Comparator[T] {
	return func(prev Maybe[T], next T) bool {
		p, ok := prev.Get()
		if !ok {
			return false
		}
		a, b := any(p), any(next)
		if a == nil || b == nil {
			return a == nil && b == nil
		}
		ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
		if ta != tb || !ta.Comparable() {
			return false
		}
		// Comparable types can still hold non-comparable values
		// (an interface field carrying a slice), so recover from the panic.
		return safeEqual(a, b)
	}
}

// Equal returns a comparator using == on comparable types.
func Equal[T comparable]() Comparator[T] {
	return func(prev Maybe[T], next T) bool {
		p, ok := prev.Get()
		return ok && p == next
	}
}

// EqualFunc adapts a two-value equality function. An unset prev is never
// equal to a value.
func EqualFunc[T any](eq func(a, b T) bool) Comparator[T] {
	return func(prev Maybe[T], next T) bool {
		p, ok := prev.Get()
		return ok && eq(p, next)
	}
}

func safeEqual(a, b any) (equal bool) {
	defer func() {
		if recover() != nil {
			equal = false
		}
	}()
	return a == b
}
