package staging

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/jobkeeper/internal/logging"
	"github.com/fsnotify/fsnotify"
)

// Watcher calls onChange after files appear or change in the staging
// directory. Bursts of events within the debounce window produce one call.
type Watcher struct {
	watcher  *fsnotify.Watcher
	dir      string
	debounce time.Duration
	onChange func(ctx context.Context)
	log      logging.Logger
}

func NewWatcher(dir string, debounce time.Duration, onChange func(ctx context.Context), log logging.Logger) (*Watcher, error) {
	if log == nil {
		log = logging.Nop()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to watch staging directory %s: %w", dir, err)
	}
	return &Watcher{
		watcher:  w,
		dir:      dir,
		debounce: debounce,
		onChange: onChange,
		log:      log.With("component", "staging"),
	}, nil
}

// Run processes events until ctx is done, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	var fire <-chan time.Time
	var timer *time.Timer
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(ev) {
				continue
			}
			w.log.Debug(ctx, "staging change", "path", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.onChange(ctx)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn(ctx, "staging watcher error", "error", err)
		}
	}
}

func relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Rename) {
		return false
	}
	base := filepath.Base(ev.Name)
	return !strings.HasPrefix(base, ".")
}
