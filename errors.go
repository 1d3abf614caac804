package fuse

import "errors"

var (
	// ErrHostStopped is returned by Dispatch after Run has returned.
	ErrHostStopped = errors.New("host stopped")

	// ErrAlreadyStarted is returned when Run or Start is called twice.
	ErrAlreadyStarted = errors.New("already started")

	// ErrWatcherClosed is returned when a watcher closes before emitting
	// its initial value.
	ErrWatcherClosed = errors.New("watcher closed before emitting initial value")
)
