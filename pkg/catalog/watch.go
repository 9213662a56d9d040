package catalog

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Invalidator is the subset of Cache that Watch needs. The overlay cache
// satisfies it too.
type Invalidator interface {
	Invalidate()
}

// Watch invalidates caches whenever their backing local file changes, so
// operators can edit the catalog or corrections file without restarting the
// server. The watch runs until Close is called.
type Watch struct {
	watcher *fsnotify.Watcher
	logger  *zap.Logger
	done    chan struct{}
}

// NewWatch starts watching the given path-to-cache bindings. Paths are
// watched via their parent directory so editor rename-and-replace saves are
// still observed.
func NewWatch(bindings map[string]Invalidator, logger *zap.Logger) (*Watch, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	byPath := make(map[string]Invalidator, len(bindings))
	dirs := make(map[string]struct{})
	for path, cache := range bindings {
		abs, err := filepath.Abs(path)
		if err != nil {
			watcher.Close()
			return nil, fmt.Errorf("resolving watch path %s: %w", path, err)
		}
		byPath[abs] = cache
		dirs[filepath.Dir(abs)] = struct{}{}
	}

	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	w := &Watch{
		watcher: watcher,
		logger:  logger,
		done:    make(chan struct{}),
	}

	go w.run(byPath)

	return w, nil
}

func (w *Watch) run(byPath map[string]Invalidator) {
	defer close(w.done)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			abs, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}

			cache, ok := byPath[abs]
			if !ok {
				continue
			}

			w.logger.Info("catalog file changed, invalidating cache", zap.String("path", abs))
			cache.Invalidate()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("catalog watch error", zap.Error(err))
		}
	}
}

// Close stops the watch and waits for the event loop to exit.
func (w *Watch) Close() error {
	err := w.watcher.Close()
	<-w.done

	return err
}
