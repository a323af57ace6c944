package bitbuf

import (
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

// Option configures a Buffer at construction time.
type Option func(*Buffer) error

// WatchFile installs an fsnotify watch on path so that the file-backed
// refill callback can wait on a write event instead of busy-polling,
// turning the spec's synchronous "refill once, retest" contract into an
// event-driven one for a growing file (the incrementally-fed network-feed
// case of a locally tailed capture file).
func WatchFile(path string) Option {
	return func(b *Buffer) error {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			return errors.Wrap(err, "bitbuf: cannot create watcher")
		}
		if err := w.Add(path); err != nil {
			w.Close()
			return errors.Wrap(err, "bitbuf: cannot watch file")
		}
		b.watcher = w
		b.watchPath = path
		b.watchCh = make(chan struct{}, 1)
		go b.watchLoop()

		inner := b.refill
		b.refill = func(buf *Buffer) error {
			before := len(buf.data)
			if err := inner(buf); err != nil {
				return err
			}
			if len(buf.data) > before {
				return nil
			}
			select {
			case <-b.watchCh:
				return inner(buf)
			case <-time.After(2 * time.Second):
				return nil
			}
		}
		return nil
	}
}

func (b *Buffer) watchLoop() {
	for {
		select {
		case ev, ok := <-b.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				select {
				case b.watchCh <- struct{}{}:
				default:
				}
			}
		case _, ok := <-b.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (b *Buffer) stopWatch() {
	if b.watcher != nil {
		b.watcher.Close()
		b.watcher = nil
	}
}

// Apply applies the given options, returning the first error encountered.
func Apply(b *Buffer, opts ...Option) (*Buffer, error) {
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	return b, nil
}
