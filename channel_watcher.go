package fuse

import "context"

// ChannelWatcher wraps an existing byte channel as a Watcher.
// Useful for testing and for owners that already push encoded values.
//
// Payloads describe the owner's current value, not a stream of events, so
// the forwarding goroutine keeps only the most recent payload when the
// consumer falls behind.
type ChannelWatcher struct {
	ch   <-chan []byte
	sync bool
}

// NewChannelWatcher creates a ChannelWatcher that forwards the latest value
// from the given channel through an internal goroutine.
func NewChannelWatcher(ch <-chan []byte) *ChannelWatcher {
	return &ChannelWatcher{ch: ch}
}

// NewSyncChannelWatcher creates a ChannelWatcher that returns the source
// channel directly without an intermediate goroutine. Every payload is
// delivered. Use with Binding.SyncMode() for deterministic testing.
func NewSyncChannelWatcher(ch <-chan []byte) *ChannelWatcher {
	return &ChannelWatcher{ch: ch, sync: true}
}

// Watch returns a channel that emits values from the wrapped channel.
func (w *ChannelWatcher) Watch(ctx context.Context) (<-chan []byte, error) {
	if w.sync {
		return w.ch, nil
	}

	out := make(chan []byte)
	go func() {
		defer close(out)

		var (
			pending    []byte
			hasPending bool
			src        = w.ch
		)
		for {
			// Only offer a send when something is pending
			var send chan<- []byte
			if hasPending {
				send = out
			}
			if src == nil && !hasPending {
				return
			}

			select {
			case <-ctx.Done():
				return
			case v, ok := <-src:
				if !ok {
					// Source closed: flush what is pending, then stop
					src = nil
					continue
				}
				pending = v
				hasPending = true
			case send <- pending:
				pending = nil
				hasPending = false
			}
		}
	}()
	return out, nil
}
