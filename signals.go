package fuse

import "github.com/zoobzio/capitan"

// Fused state signals.
var (
	// StateSeeded is emitted when a Fused is constructed.
	StateSeeded = capitan.NewSignal(
		"fuse.state.seeded",
		"Fused state seeded",
	)

	// StateInternalChanged is emitted when an internal write is accepted.
	StateInternalChanged = capitan.NewSignal(
		"fuse.state.internal.changed",
		"Internal write committed",
	)

	// StateWriteSkipped is emitted when an internal write compares equal
	// to the current value and is dropped.
	StateWriteSkipped = capitan.NewSignal(
		"fuse.state.write.skipped",
		"Internal write compared equal",
	)

	// StateExternalSynced is emitted when an external value overwrites the
	// current value.
	StateExternalSynced = capitan.NewSignal(
		"fuse.state.external.synced",
		"External value synced",
	)

	// StateModeChanged is emitted when a Fused switches between controlled
	// and uncontrolled mode.
	StateModeChanged = capitan.NewSignal(
		"fuse.state.mode.changed",
		"Control mode transition",
	)
)

// Host signals.
var (
	// HostRendered is emitted when a Host performs a coalesced render.
	HostRendered = capitan.NewSignal(
		"fuse.host.rendered",
		"Host re-evaluated after a burst",
	)
)

// Binding signals.
var (
	// BindingStarted is emitted when a Binding begins watching.
	BindingStarted = capitan.NewSignal(
		"fuse.binding.started",
		"Binding watching started",
	)

	// BindingStopped is emitted when a Binding stops watching.
	BindingStopped = capitan.NewSignal(
		"fuse.binding.stopped",
		"Binding watching stopped",
	)

	// BindingChangeReceived is emitted when raw data is received from the watcher.
	BindingChangeReceived = capitan.NewSignal(
		"fuse.binding.change.received",
		"Raw change received from watcher",
	)

	// BindingDecodeFailed is emitted when the codec fails.
	BindingDecodeFailed = capitan.NewSignal(
		"fuse.binding.decode.failed",
		"Codec failed to decode payload",
	)

	// BindingValidationFailed is emitted when a decoded value fails validation.
	BindingValidationFailed = capitan.NewSignal(
		"fuse.binding.validation.failed",
		"Validation failed",
	)

	// BindingPipelineFailed is emitted when a middleware stage fails.
	BindingPipelineFailed = capitan.NewSignal(
		"fuse.binding.pipeline.failed",
		"Middleware pipeline failed",
	)

	// BindingDispatchFailed is emitted when the host refuses a value.
	BindingDispatchFailed = capitan.NewSignal(
		"fuse.binding.dispatch.failed",
		"Host refused dispatch",
	)

	// BindingApplied is emitted when an external value is handed to the host.
	BindingApplied = capitan.NewSignal(
		"fuse.binding.applied",
		"External value dispatched",
	)
)
