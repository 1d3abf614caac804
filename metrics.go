package fuse

import "time"

// MetricsProvider allows integration with metrics systems like Prometheus, StatsD, etc.
// Implement this interface to receive callbacks on key state, host and binding events.
type MetricsProvider interface {
	// OnInternalChange is called when an internal write is committed.
	OnInternalChange()

	// OnWriteSkipped is called when an internal write compares equal and is dropped.
	OnWriteSkipped()

	// OnExternalSync is called for every evaluation cycle that supplies an
	// external value. changed reports whether it overwrote the current value.
	OnExternalSync(changed bool)

	// OnModeChange is called when a Fused switches control mode.
	OnModeChange(from, to Mode)

	// OnRender is called when a Host renders. burst is the number of tasks
	// that ran in the burst.
	OnRender(burst int)

	// OnBindingApplied is called when a Binding dispatches a value.
	// Duration is the time taken to decode, validate and run middleware.
	OnBindingApplied(duration time.Duration)

	// OnBindingFailure is called when a Binding rejects a payload.
	// Stage is "decode", "validate", "pipeline" or "dispatch".
	OnBindingFailure(stage string, duration time.Duration)
}

// NoOpMetricsProvider is a no-op implementation of MetricsProvider.
// Use this as an embedded type to implement only the methods you need.
type NoOpMetricsProvider struct{}

func (NoOpMetricsProvider) OnInternalChange()                          {}
func (NoOpMetricsProvider) OnWriteSkipped()                            {}
func (NoOpMetricsProvider) OnExternalSync(_ bool)                      {}
func (NoOpMetricsProvider) OnModeChange(_, _ Mode)                     {}
func (NoOpMetricsProvider) OnRender(_ int)                             {}
func (NoOpMetricsProvider) OnBindingApplied(_ time.Duration)           {}
func (NoOpMetricsProvider) OnBindingFailure(_ string, _ time.Duration) {}
