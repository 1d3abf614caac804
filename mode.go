package fuse

// Mode reports who owns the value of a Fused on the latest evaluation cycle.
type Mode int32

const (
	// ModeUncontrolled indicates the Fused owns its value. No external value
	// was supplied on the latest evaluation cycle.
	ModeUncontrolled Mode = iota

	// ModeControlled indicates an owner supplied an external value on the
	// latest evaluation cycle. The external value wins over internal writes.
	ModeControlled
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeUncontrolled:
		return "uncontrolled"
	case ModeControlled:
		return "controlled"
	default:
		return "unknown"
	}
}
