package fuse

// Validator is implemented by external value types that check themselves.
// A Binding rejects decoded values whose Validate method returns an error;
// the previous external value stays in force.
type Validator interface {
	Validate() error
}

// Change carries an external value through a Binding's middleware.
// It provides both the previous and the incoming value so stages can make
// decisions based on what changed.
type Change[T any] struct {
	// Previous is the last external value the Binding dispatched.
	// Unset before the first dispatch or after the owner released control.
	Previous Maybe[T]

	// Current is the decoded incoming value. Unset means the owner supplies
	// no value and the state returns to uncontrolled mode. Stages may
	// replace it.
	Current Maybe[T]

	// Raw contains the original bytes received from the watcher.
	Raw []byte
}
