package filesystem

import (
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/manojxshrestha/win11web-sub000/src/lib"
)

type watcher struct {
	path      string
	recursive bool
	fn        func(fsnotify.Event)
}

type watcherSet struct {
	mu     sync.RWMutex
	nextID int
	byID   map[int]*watcher
}

func newWatcherSet() *watcherSet {
	return &watcherSet{byID: make(map[int]*watcher)}
}

// Watch calls fn for every change to a direct child of path, or to any
// descendant when recursive is set. Changes to path itself are reported too.
// The returned function removes the watch.
//
// fn runs on the goroutine that made the change, after the store lock has
// been released; it must not block.
func (fs *Filesystem) Watch(path string, recursive bool, fn func(fsnotify.Event)) (stop func()) {
	ws := fs.watchers
	ws.mu.Lock()
	id := ws.nextID
	ws.nextID++
	ws.byID[id] = &watcher{path: lib.Normalize(path), recursive: recursive, fn: fn}
	ws.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			ws.mu.Lock()
			delete(ws.byID, id)
			ws.mu.Unlock()
		})
	}
}

func (w *watcher) matches(name string) bool {
	if name == w.path {
		return true
	}
	if w.recursive {
		return lib.IsWithin(name, w.path)
	}
	return lib.IsChildOf(name, w.path)
}

func (fs *Filesystem) emit(events ...fsnotify.Event) {
	if len(events) == 0 {
		return
	}
	ws := fs.watchers
	ws.mu.RLock()
	targets := make([]*watcher, 0, len(ws.byID))
	for _, w := range ws.byID {
		targets = append(targets, w)
	}
	ws.mu.RUnlock()

	for _, ev := range events {
		for _, w := range targets {
			if w.matches(ev.Name) {
				deliver(w, ev)
			}
		}
	}
}

func deliver(w *watcher, ev fsnotify.Event) {
	defer func() {
		if r := recover(); r != nil {
			logrus.Errorf("filesystem watcher on %s panicked: %v", w.path, r)
		}
	}()
	w.fn(ev)
}
