package fuse

import "github.com/zoobzio/capitan"

// Field keys for fuse events.
var (
	// KeyName is the name given to a Fused or Binding.
	KeyName = capitan.NewStringKey("name")

	// KeyMode is the current control mode.
	KeyMode = capitan.NewStringKey("mode")

	// KeyOldMode is the mode before a transition.
	KeyOldMode = capitan.NewStringKey("old_mode")

	// KeyNewMode is the mode after a transition.
	KeyNewMode = capitan.NewStringKey("new_mode")

	// KeyValue is the value involved in a write or sync, formatted with %v.
	KeyValue = capitan.NewStringKey("value")

	// KeyError is the error message when an operation fails.
	KeyError = capitan.NewStringKey("error")

	// KeyDebounce is the configured debounce duration.
	KeyDebounce = capitan.NewDurationKey("debounce")

	// KeyInterval is the tick interval of a periodic source.
	KeyInterval = capitan.NewDurationKey("interval")

	// KeyBurst is the number of tasks a Host ran before rendering.
	KeyBurst = capitan.NewIntKey("burst")
)
