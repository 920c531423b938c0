package hotreload

import (
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/richinsley/goshaderhost/program"
)

// DefaultDebounce collapses the burst of events a single editor save makes.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reports edits to the files of the current shader set. It never
// touches GL state; notify is expected to post a request to the render loop.
type Watcher struct {
	watcher  *fsnotify.Watcher
	notify   func()
	debounce time.Duration

	mu      sync.Mutex
	files   map[string]bool
	dirs    map[string]bool
	pending *time.Timer
	closed  bool

	done chan struct{}
}

func New(notify func(), debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		watcher:  fw,
		notify:   notify,
		debounce: debounce,
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
		done:     make(chan struct{}),
	}
	go w.watchLoop()
	return w, nil
}

// Watch replaces the watched files with those of set. Built-in sources and
// remote identifiers are not watched.
func (w *Watcher) Watch(set program.SourceSet) error {
	files := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, id := range []string{set.Vertex, set.Fragment} {
		if !isFile(id) {
			continue
		}
		path, err := filepath.Abs(id)
		if err != nil {
			return err
		}
		files[path] = true
		dirs[filepath.Dir(path)] = true
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	// Watch directories; editors that save by rename replace the file.
	for dir := range dirs {
		if w.dirs[dir] {
			continue
		}
		if err := w.watcher.Add(dir); err != nil {
			return err
		}
	}
	for dir := range w.dirs {
		if !dirs[dir] {
			w.watcher.Remove(dir)
		}
	}
	w.files, w.dirs = files, dirs
	if len(files) > 0 {
		log.Printf("Watching %d shader file(s) of %s", len(files), set)
	}
	return nil
}

func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.pending != nil {
		w.pending.Stop()
	}
	w.mu.Unlock()

	close(w.done)
	return w.watcher.Close()
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.changed(filepath.Clean(event.Name))
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Shader watcher error: %v", err)
		}
	}
}

func (w *Watcher) changed(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || !w.files[path] {
		return
	}
	if w.pending != nil {
		w.pending.Reset(w.debounce)
		return
	}
	w.pending = time.AfterFunc(w.debounce, w.fire)
}

func (w *Watcher) fire() {
	w.mu.Lock()
	w.pending = nil
	closed := w.closed
	w.mu.Unlock()
	if !closed {
		log.Printf("Shader source changed, requesting reload")
		w.notify()
	}
}

func isFile(id string) bool {
	if id == "" {
		return false
	}
	scheme, _, ok := strings.Cut(id, ":")
	return !ok || len(scheme) <= 1
}
