package timer

import "github.com/zoobzio/capitan"

// Timer lifecycle signals.
var (
	// TimerAttached is emitted when a Timer starts ticking.
	TimerAttached = capitan.NewSignal(
		"fuse.timer.attached",
		"Timer ticker started",
	)

	// TimerDetached is emitted when a Timer stops ticking.
	TimerDetached = capitan.NewSignal(
		"fuse.timer.detached",
		"Timer ticker stopped",
	)
)
