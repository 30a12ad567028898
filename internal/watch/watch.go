// Package watch reports changes to a set of source files.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/resizetizer/resizetizer/internal/slog"
)

const debounceDef = 500 * time.Millisecond

type watcher struct {
	files    map[string]bool
	debounce time.Duration
	log      slog.Logger
}

type conf struct {
	debounce time.Duration
	log      slog.Logger
}

// Opts configures [Watch].
type Opts func(*conf)

// WithDebounce sets how long changes must settle before they are reported.
func WithDebounce(d time.Duration) Opts {
	return func(c *conf) {
		c.debounce = d
	}
}

// WithLog sets the logger.
func WithLog(log slog.Logger) Opts {
	return func(c *conf) {
		c.log = log
	}
}

func newWatcher(files []string, opts []Opts) (*watcher, error) {
	c := conf{
		debounce: debounceDef,
		log:      slog.Null{},
	}
	for _, opt := range opts {
		opt(&c)
	}
	w := &watcher{
		files:    map[string]bool{},
		debounce: c.debounce,
		log:      c.log,
	}
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", f, err)
		}
		w.files[abs] = true
	}
	return w, nil
}

// Watch calls fn with the sorted list of changed files once writes settle, until ctx is done.
// Parent directories are watched so files replaced by a rename are still seen.
func Watch(ctx context.Context, files []string, fn func(context.Context, []string), opts ...Opts) error {
	w, err := newWatcher(files, opts)
	if err != nil {
		return err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fsw.Close()
	dirs := map[string]bool{}
	for f := range w.files {
		dirs[filepath.Dir(f)] = true
	}
	for d := range dirs {
		err = fsw.Add(d)
		if err != nil {
			return fmt.Errorf("failed to watch %s: %w", d, err)
		}
		w.log.Debug("watching directory", "dir", d)
	}
	return w.loop(ctx, fsw.Events, fsw.Errors, fn)
}

func (w *watcher) loop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error, fn func(context.Context, []string)) error {
	pending := map[string]bool{}
	var timer *time.Timer
	var timerC <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			name := filepath.Clean(ev.Name)
			if !w.files[name] || !ev.Has(fsnotify.Create|fsnotify.Write) {
				continue
			}
			w.log.Debug("source changed", "file", name, "op", ev.Op.String())
			pending[name] = true
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerC = timer.C
		case <-timerC:
			timerC = nil
			changed := make([]string, 0, len(pending))
			for name := range pending {
				changed = append(changed, name)
			}
			sort.Strings(changed)
			pending = map[string]bool{}
			fn(ctx, changed)
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", "err", err)
		}
	}
}
