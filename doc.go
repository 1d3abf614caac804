/*
Package fuse provides fused state: a value that behaves as controlled when an
owner supplies it and as uncontrolled otherwise, switching between the two at
any time without losing the value.

# Fused

A Fused holds one value of type T, or nothing. It is seeded once at
construction and then driven from two sides:

	state := fuse.New[int](
	    fuse.WithDefault(100),
	    fuse.OnInternalChange(func(v int) { parent.Set(v) }),
	    fuse.WithNotify[int](host.Invalidate),
	)

	// Owner side, once per evaluation cycle
	state.Sync(props.Value)

	// Component side
	state.Update(func(prev fuse.Maybe[int]) int { return prev.Or(0) + 1 })

External values always win: a set value passed to Sync overwrites the
current one. Internal writes are compared with the current value and dropped
when equal. An accepted internal write is committed first, then reported to
the observer, then signalled to the host. Sync never calls the observer.

# Host

Fused is not safe for concurrent use. A Host owns a set of Fused values on a
single goroutine: other goroutines Dispatch work to it, and the Host renders
once per burst of tasks that invalidated it.

	host := fuse.NewHost(render)
	go host.Run(ctx)
	host.Dispatch(func() { state.Set(5) })

Flush runs the same burst synchronously, which is what tests use.

# Binding

A Binding makes an outside source the owner of a Fused. Payloads from a
Watcher are decoded with a Codec, checked with Validate when the value type
implements Validator, passed through pipz middleware, then synced on the
host. An empty or null payload releases control.

	binding := fuse.Bind(fuse.NewFileWatcher("value.yaml"), state, host).
	    Codec(fuse.YAMLCodec{})

# Observability

Every state, host and binding event is emitted through capitan. Hook the
signals in signals.go to log them, and implement MetricsProvider to count
them.
*/
package fuse
