// Package watch reports changes under test data directories so suites can be
// regenerated.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/goatx/testgen/internal/logger"
)

// DefaultDebounce is the quiet period after the last event before a change
// is reported.
const DefaultDebounce = 200 * time.Millisecond

type Config struct {
	Paths []string
	// Ignore lists directories whose events are dropped, typically the
	// output directory of generated suites.
	Ignore   []string
	Debounce time.Duration
}

// Watcher coalesces file system events under Paths into change
// notifications.
type Watcher struct {
	cfg    Config
	log    logger.Logger
	fsw    *fsnotify.Watcher
	mu     sync.Mutex
	closed bool
}

func New(cfg Config, log logger.Logger) (*Watcher, error) {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{cfg: cfg, log: log, fsw: fsw}
	for _, root := range cfg.Paths {
		if err := w.addRecursive(root); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

// Changes returns a channel that receives one value per burst of events. It
// is closed when ctx is done or the watcher is closed.
func (w *Watcher) Changes(ctx context.Context) <-chan struct{} {
	out := make(chan struct{}, 1)
	go w.loop(ctx, out)
	return out
}

func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	return w.fsw.Close()
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip inaccessible entries
		}
		if !info.IsDir() {
			return nil
		}
		if w.ignored(path) {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

func (w *Watcher) ignored(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	for _, dir := range w.cfg.Ignore {
		ignore, err := filepath.Abs(dir)
		if err != nil {
			continue
		}
		if abs == ignore || strings.HasPrefix(abs, ignore+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (w *Watcher) loop(ctx context.Context, out chan<- struct{}) {
	defer close(out)

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if w.ignored(ev.Name) || ev.Op == fsnotify.Chmod {
				continue
			}
			if ev.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = w.addRecursive(ev.Name)
				}
			}
			w.log.Debug("test data changed", "path", ev.Name, "op", ev.Op.String())

			if timer == nil {
				timer = time.NewTimer(w.cfg.Debounce)
			} else {
				timer.Reset(w.cfg.Debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			select {
			case out <- struct{}{}:
			default:
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", "error", err)
		}
	}
}
