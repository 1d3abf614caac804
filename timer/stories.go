package timer

import (
	"context"
	"fmt"

	"github.com/zoobzio/fuse"
)

// Story is a parent component that renders one Timer in one of the usage
// combinations: no props, default only, observed, controlled, and synced.
// A parent that keeps its own value holds it in an uncontrolled Fused.
//
// Render and the actions (Increment, Decrement, Reset) must run on the host
// goroutine.
type Story struct {
	name    string
	timer   *Timer
	value   *fuse.Fused[int]
	props   func(s *Story) Props
	caption func(s *Story) string
}

// Name returns the story name.
func (s *Story) Name() string {
	return s.name
}

// Timer returns the rendered Timer.
func (s *Story) Timer() *Timer {
	return s.timer
}

// Value returns the parent's own value, unset if the parent never got one.
func (s *Story) Value() fuse.Maybe[int] {
	if s.value == nil {
		return fuse.None[int]()
	}
	return s.value.Resolve()
}

// Render re-renders the Timer with fresh props and returns the story text.
func (s *Story) Render() string {
	s.timer.Rerender(s.props(s))
	return s.caption(s)
}

// Attach starts the Timer.
func (s *Story) Attach(ctx context.Context) {
	s.timer.Attach(ctx)
}

// Detach stops the Timer.
func (s *Story) Detach() {
	s.timer.Detach()
}

// Increment adds one to the parent's value, if the parent keeps one.
func (s *Story) Increment() {
	if s.value != nil {
		s.value.Update(func(prev fuse.Maybe[int]) int { return prev.Or(0) + 1 })
	}
}

// Decrement subtracts one from the parent's value, if the parent keeps one.
func (s *Story) Decrement() {
	if s.value != nil {
		s.value.Update(func(prev fuse.Maybe[int]) int { return prev.Or(0) - 1 })
	}
}

// Reset sets the parent's value to 0, if the parent keeps one.
func (s *Story) Reset() {
	if s.value != nil {
		s.value.Set(0)
	}
}

// set is the OnChange callback of parents that mirror the Timer.
func (s *Story) set(v int) {
	s.value.Set(v)
}

func (s *Story) valueText() string {
	v, ok := s.Value().Get()
	if !ok {
		return "null"
	}
	return fmt.Sprint(v)
}

// newStory builds the Timer from the story's first props.
func newStory(host *fuse.Host, name string, value *fuse.Fused[int], props func(*Story) Props, caption func(*Story) string) *Story {
	s := &Story{name: name, value: value, props: props, caption: caption}
	s.timer = New(host, props(s))
	return s
}

// parentValue creates the parent's own state.
func parentValue(host *fuse.Host, name string, opts ...fuse.Option[int]) *fuse.Fused[int] {
	opts = append([]fuse.Option[int]{
		fuse.WithName[int](name),
		fuse.WithNotify[int](host.Invalidate),
	}, opts...)
	return fuse.New[int](opts...)
}

// NoProps renders a Timer with no props. It counts from 0.
func NoProps(host *fuse.Host) *Story {
	return newStory(host, "no-props", nil,
		func(*Story) Props { return Props{} },
		func(s *Story) string { return s.timer.Render() },
	)
}

// DefaultProp renders a Timer that starts at 100.
func DefaultProp(host *fuse.Host) *Story {
	return newStory(host, "default-prop", nil,
		func(*Story) Props { return Props{Default: fuse.Some(100)} },
		func(s *Story) string { return "A timer starts with 100: " + s.timer.Render() },
	)
}

// Observed renders an uncontrolled Timer whose parent mirrors every count
// it produces. The parent starts with no value.
func Observed(host *fuse.Host) *Story {
	return newStory(host, "observed", parentValue(host, "observed-parent"),
		func(s *Story) Props { return Props{OnChange: s.set} },
		func(s *Story) string {
			return s.timer.Render() + " | Value set by the timer: " + s.valueText()
		},
	)
}

// Controlled renders a Timer whose count is entirely the parent's value.
// Ticks are overridden on the next render; only Increment and Decrement
// move the count.
func Controlled(host *fuse.Host) *Story {
	return newStory(host, "controlled", parentValue(host, "controlled-parent", fuse.WithInitial(0)),
		func(s *Story) Props { return Props{Value: s.Value()} },
		func(s *Story) string {
			return "The timer's value is completely controlled by: [+] [-] " + s.timer.Render()
		},
	)
}

// Synced renders a Timer that is controlled by its parent while the parent
// mirrors every tick back, so the count advances and Reset sets it to 0.
// The Default of 100 is ignored because Value is present from the start.
func Synced(host *fuse.Host) *Story {
	return newStory(host, "synced", parentValue(host, "synced-parent", fuse.WithInitial(0)),
		func(s *Story) Props {
			return Props{Default: fuse.Some(100), Value: s.Value(), OnChange: s.set}
		},
		func(s *Story) string {
			return "Set timer's value from outside: [reset] " + s.timer.Render() +
				" | Value set by the timer: " + s.valueText()
		},
	)
}

// All returns every story, in the order above.
func All(host *fuse.Host) []*Story {
	return []*Story{
		NoProps(host),
		DefaultProp(host),
		Observed(host),
		Controlled(host),
		Synced(host),
	}
}
