package state

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

type Partition string

const (
	PartitionSynced Partition = "synced"
	PartitionLocal  Partition = "local"
)

// ChangeEvent reports that a partition was rewritten, possibly by another
// context. Readers should re-read the store; the event carries no payload
// because every read is a point-in-time snapshot anyway.
type ChangeEvent struct {
	Partition Partition
}

// Watch emits a ChangeEvent whenever a state partition file changes on
// disk. This is how one context observes writes issued by another; delivery
// is best-effort and eventually consistent. The watcher closes the channel
// when ctx is done.
func (s *Store) Watch(ctx context.Context) (<-chan ChangeEvent, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create state watcher: %w", err)
	}

	dirs := map[string]struct{}{
		filepath.Dir(s.syncedPath): {},
		filepath.Dir(s.localPath):  {},
	}
	for dir := range dirs {
		if err := os.MkdirAll(dir, stateDirMode); err != nil {
			_ = watcher.Close()
			return nil, fmt.Errorf("create state directory: %w", err)
		}
		if err := watcher.Add(dir); err != nil {
			_ = watcher.Close()
			return nil, fmt.Errorf("watch state directory %q: %w", dir, err)
		}
	}

	events := make(chan ChangeEvent, 1)

	go func() {
		defer close(events)
		defer func() { _ = watcher.Close() }()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}

				var partition Partition
				switch filepath.Clean(event.Name) {
				case s.syncedPath:
					partition = PartitionSynced
				case s.localPath:
					partition = PartitionLocal
				default:
					continue
				}

				// Drop instead of block when the consumer lags; it will
				// re-read the latest snapshot on its next event anyway.
				select {
				case events <- ChangeEvent{Partition: partition}:
				default:
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return events, nil
}
