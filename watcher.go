package fuse

import "context"

// Watcher observes an external source and emits raw bytes on a channel.
// Implementations must emit the current value immediately upon Watch() being
// called so the first evaluation cycle sees the owner's value.
type Watcher interface {
	// Watch begins observing the source and returns a channel that emits
	// raw bytes when changes occur. The channel is closed when the context
	// is canceled or an unrecoverable error occurs.
	Watch(ctx context.Context) (<-chan []byte, error)
}
