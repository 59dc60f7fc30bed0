package watch

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jhenstridge/go-inotify"
)

func logger() *slog.Logger {
	return slog.Default().With("module", "watch")
}

// settle gives editors time to finish writing before a reload is requested.
const settle = 100 * time.Millisecond

// dirEvents covers both an in-place rewrite and a new file renamed over
// the old one, which is how most editors save.
const dirEvents = inotify.IN_CLOSE_WRITE | inotify.IN_MOVED_TO

// ShaderWatcher notices when any of a set of shader files has been
// rewritten or replaced. Notifications are coalesced: many writes between
// two calls to Pending count once.
//
// The parent directories are watched rather than the files, since a watch
// on a file dies with its inode when the file is replaced.
type ShaderWatcher struct {
	watcher *inotify.Watcher
	// directory -> base names of the watched files in it
	files   map[string]map[string]bool
	changed chan struct{}
}

func New(paths ...string) (*ShaderWatcher, error) {
	files := map[string]map[string]bool{}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("could not watch %s: %w", p, err)
		}
		dir, name := filepath.Split(filepath.Clean(p))
		dir = filepath.Clean(dir)
		if files[dir] == nil {
			files[dir] = map[string]bool{}
		}
		files[dir][name] = true
	}

	watcher, err := inotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("could not create inotify watcher: %w", err)
	}
	for dir := range files {
		_, err = watcher.AddWatch(dir, dirEvents)
		if err != nil {
			_ = watcher.Close()
			return nil, fmt.Errorf("could not watch %s: %w", dir, err)
		}
	}
	return &ShaderWatcher{
		watcher: watcher,
		files:   files,
		changed: make(chan struct{}, 1),
	}, nil
}

// Start handles inotify events in the background until Close is called.
func (s *ShaderWatcher) Start() {
	go s.run()
}

func (s *ShaderWatcher) run() {
	for ev := range s.watcher.Event {
		s.handle(ev)
	}
}

func (s *ShaderWatcher) handle(ev inotify.Event) {
	if ev.Watch == nil || ev.Mask&dirEvents == 0 {
		return
	}
	if !s.files[ev.Watch.Path][ev.Name] {
		return
	}
	logger().Debug(fmt.Sprintf("%s changed (%s)", filepath.Join(ev.Watch.Path, ev.Name), ev.Mask))
	time.Sleep(settle)
	s.notify()
}

func (s *ShaderWatcher) notify() {
	select {
	case s.changed <- struct{}{}:
	default:
	}
}

// Pending reports whether a file changed since the last call. It never
// blocks, so the render loop can poll it every frame.
func (s *ShaderWatcher) Pending() bool {
	select {
	case <-s.changed:
		return true
	default:
		return false
	}
}

// Close stops the watcher and returns the error, if any, that ended
// reading events.
func (s *ShaderWatcher) Close() error {
	return s.watcher.Close()
}
