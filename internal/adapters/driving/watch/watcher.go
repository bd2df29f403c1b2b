// Package watch triggers work when the corpus files change on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/wikisearch/internal/logger"
)

// DefaultDebounce is the quiet period after the last change before the
// handler runs. SQLite writes touch the database and its WAL in bursts.
const DefaultDebounce = 2 * time.Second

// Handler is called once per burst of changes.
type Handler func(ctx context.Context) error

// Watcher watches a set of files in one directory.
type Watcher struct {
	dir      string
	names    []string
	debounce time.Duration
	watcher  *fsnotify.Watcher
}

// New watches dir for changes to the named files.
// Watching the directory catches files that are replaced or created later.
func New(dir string, names []string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	return &Watcher{
		dir:      dir,
		names:    names,
		debounce: debounce,
		watcher:  fw,
	}, nil
}

// Run calls handle after each burst of relevant changes until ctx is done.
// Handler errors are logged and do not stop the loop.
func (w *Watcher) Run(ctx context.Context, handle Handler) error {
	defer w.watcher.Close()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			logger.Debug("(search/watch) %s %s", event.Op, filepath.Base(event.Name))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("(search/watch) watch error: %v", err)

		case <-fire:
			fire = nil
			if err := handle(ctx); err != nil {
				logger.Warn("(search/watch) handler failed: %v", err)
			}

		case <-ctx.Done():
			return nil
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	return slices.Contains(w.names, filepath.Base(event.Name))
}
