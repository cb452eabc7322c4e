package convert

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bluemouse/aiconfig/pkg/logger"
	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

// WatchSpec pairs a source directory with a destination for one kind.
type WatchSpec struct {
	Kind Kind
	Src  string
	Dst  string
}

// debounceDelay coalesces editor write bursts on the same file.
const debounceDelay = 200 * time.Millisecond

// Watch converts matching files as they are created or modified in the
// watched source directories. It blocks until the context is canceled.
func Watch(ctx context.Context, specs []WatchSpec, onResult func(Result)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create file watcher")
	}
	defer watcher.Close()

	byDir := make(map[string][]WatchSpec)
	for _, spec := range specs {
		dir := filepath.Clean(spec.Src)
		if _, watched := byDir[dir]; !watched {
			if err := watcher.Add(dir); err != nil {
				return errors.Wrapf(err, "failed to watch %s", dir)
			}
		}
		byDir[dir] = append(byDir[dir], spec)
	}

	var mu sync.Mutex
	pending := make(map[string]*time.Timer)

	// No conversions may fire after Watch returns.
	stopPending := func() {
		mu.Lock()
		defer mu.Unlock()
		for path, timer := range pending {
			timer.Stop()
			delete(pending, path)
		}
	}

	schedule := func(spec WatchSpec, path string) {
		mu.Lock()
		defer mu.Unlock()

		if timer, ok := pending[path]; ok {
			timer.Stop()
		}
		pending[path] = time.AfterFunc(debounceDelay, func() {
			mu.Lock()
			delete(pending, path)
			mu.Unlock()

			onResult(ConvertFile(spec.Kind, path, spec.Dst))
		})
	}

	for {
		select {
		case <-ctx.Done():
			stopPending()
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				stopPending()
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			dir := filepath.Clean(filepath.Dir(event.Name))
			for _, spec := range byDir[dir] {
				if strings.HasSuffix(filepath.Base(event.Name), spec.Kind.SourceSuffix()) {
					schedule(spec, event.Name)
					break
				}
			}
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				stopPending()
				return nil
			}
			logger.G(ctx).WithError(watchErr).Warn("file watcher error")
		}
	}
}
