package presenter

import (
	"errors"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const referenceDebounce = 150 * time.Millisecond

var errNoWatchableDir = errors.New("presenter: no reference directory could be watched")

// ReferenceWatcher watches the reference image directory and calls onChange
// once edits to any watched file settle. onChange runs on the watcher's
// goroutine; callers marshal onto the UI thread themselves.
type ReferenceWatcher struct {
	Logger   *slog.Logger
	onChange func()
	delay    time.Duration

	fs    *fsnotify.Watcher
	files map[string]struct{}
	done  chan struct{}

	mu    sync.Mutex
	timer *time.Timer
	once  sync.Once
}

// NewReferenceWatcher starts watching the directories of paths. Events for
// other files in those directories are ignored.
func NewReferenceWatcher(paths []string, onChange func(), logger *slog.Logger) (*ReferenceWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &ReferenceWatcher{
		Logger:   logger,
		onChange: onChange,
		delay:    referenceDebounce,
		fs:       fsw,
		files:    make(map[string]struct{}),
		done:     make(chan struct{}),
	}
	dirs := make(map[string]struct{})
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = filepath.Clean(p)
		}
		w.files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	added := 0
	for d := range dirs {
		if err := fsw.Add(d); err != nil {
			if logger != nil {
				logger.Warn("reference watch", "dir", d, "error", err)
			}
			continue
		}
		added++
	}
	if added == 0 && len(dirs) > 0 {
		_ = fsw.Close()
		return nil, errNoWatchableDir
	}
	go w.loop()
	return w, nil
}

func (w *ReferenceWatcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			if w.Logger != nil {
				w.Logger.Error("reference watcher", "error", err)
			}
		}
	}
}

func (w *ReferenceWatcher) handle(ev fsnotify.Event) {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return
	}
	name, err := filepath.Abs(ev.Name)
	if err != nil {
		name = filepath.Clean(ev.Name)
	}
	if _, ok := w.files[name]; !ok {
		return
	}
	if w.Logger != nil {
		w.Logger.Debug("reference changed", "path", name, "op", ev.Op.String())
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, w.fire)
}

func (w *ReferenceWatcher) fire() {
	select {
	case <-w.done:
		return
	default:
	}
	if w.onChange != nil {
		w.onChange()
	}
}

// Close stops watching. Pending notifications are dropped.
func (w *ReferenceWatcher) Close() error {
	if w == nil {
		return nil
	}
	var err error
	w.once.Do(func() {
		close(w.done)
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
		err = w.fs.Close()
	})
	return err
}
