package storage

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports writes to local files that are open in the editor. It
// watches each file's directory so that editors which save by rename are
// still seen.
type Watcher struct {
	fs *fsnotify.Watcher

	mu    sync.Mutex
	files map[string]bool // absolute file paths
	dirs  map[string]int  // directory -> number of watched files in it
}

// NewWatcher creates a Watcher.
func NewWatcher() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fs:    fw,
		files: make(map[string]bool),
		dirs:  make(map[string]int),
	}, nil
}

// Watch starts reporting changes to path. Object paths are ignored.
func (w *Watcher) Watch(path string) error {
	if IsObjectPath(path) {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.files[path] {
		return nil
	}
	dir := filepath.Dir(path)
	if w.dirs[dir] == 0 {
		if err := w.fs.Add(dir); err != nil {
			return err
		}
	}
	w.dirs[dir]++
	w.files[path] = true
	return nil
}

// Unwatch stops reporting changes to path.
func (w *Watcher) Unwatch(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.files[path] {
		return
	}
	delete(w.files, path)
	dir := filepath.Dir(path)
	w.dirs[dir]--
	if w.dirs[dir] <= 0 {
		delete(w.dirs, dir)
		_ = w.fs.Remove(dir)
	}
}

// Run delivers the path of every changed watched file to onChange until ctx
// is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context, onChange func(path string)) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.mu.Lock()
			watched := w.files[event.Name]
			w.mu.Unlock()
			if watched {
				onChange(event.Name)
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.Warningf("watch: %v", err)
		}
	}
}

// Close releases the underlying OS watches.
func (w *Watcher) Close() error {
	return w.fs.Close()
}
