package fuse

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher watches a file holding an owner's value and emits its contents.
//
// The parent directory is watched so editors that replace the file through a
// rename are picked up. When the file is removed an empty payload is emitted,
// which a Binding treats as "no external value" and releases control.
type FileWatcher struct {
	path string
}

// NewFileWatcher creates a new FileWatcher for the given file path.
func NewFileWatcher(path string) *FileWatcher {
	return &FileWatcher{path: filepath.Clean(path)}
}

// Path returns the watched file path.
func (w *FileWatcher) Path() string {
	return w.path
}

// Watch begins watching the file and returns a channel that emits the file
// contents whenever the file is written, created, renamed or removed. The
// current contents (empty if the file does not exist) are emitted
// immediately.
func (w *FileWatcher) Watch(ctx context.Context) (<-chan []byte, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}

	out := make(chan []byte)

	go func() {
		defer close(out)
		defer watcher.Close()

		if !w.emit(ctx, out) {
			return
		}

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != w.path {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
					continue
				}
				if !w.emit(ctx, out) {
					return
				}

			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
				// Continue watching despite errors
			}
		}
	}()

	return out, nil
}

// emit reads the file and sends its contents. A missing file sends an empty
// payload; other read errors are skipped. Returns false if ctx is done.
func (w *FileWatcher) emit(ctx context.Context, out chan<- []byte) bool {
	data, err := os.ReadFile(w.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return true
		}
		data = []byte{}
	}
	select {
	case out <- data:
		return true
	case <-ctx.Done():
		return false
	}
}
