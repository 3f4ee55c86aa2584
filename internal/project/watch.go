package project

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Change reports a single filesystem event the daemon's analysis thread
// must react to: either an ordinary .elm file edit (Path set, Rescan
// false) or an elm.json change that invalidates the whole knowledge base
// (Rescan true).
type Change struct {
	Path   string
	Rescan bool
}

// Watcher recursively watches a project root for changes originating
// outside the editor, adapting the RecursiveWatcher pattern: an
// fsnotify.Watcher with one watch per directory, re-added or removed as
// directories come and go.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	root      string

	changes chan Change
	errs    chan error
	done    chan struct{}
}

// NewWatcher starts watching root (and everything beneath it) recursively.
func NewWatcher(root string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("project: new watcher: %w", err)
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		root:      root,
		changes:   make(chan Change),
		errs:      make(chan error),
		done:      make(chan struct{}),
	}

	if err := w.add(root); err != nil {
		fsWatcher.Close()
		return nil, err
	}

	go w.run()
	return w, nil
}

// Changes returns the channel of filesystem changes relevant to the
// project: .elm file edits and elm.json rescans. Events for anything else
// (elm-stuff churn, unrelated files) are filtered before reaching here.
func (w *Watcher) Changes() <-chan Change { return w.changes }

// Errors returns the channel of watcher-internal errors (e.g. a directory
// vanishing between the event firing and the re-Add call).
func (w *Watcher) Errors() <-chan error { return w.errs }

// Close stops the watcher and releases its OS resources.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsWatcher.Close()
}

func (w *Watcher) add(path string) error {
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == "elm-stuff" {
			return filepath.SkipDir
		}
		return w.fsWatcher.Add(p)
	})
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			case <-w.done:
				return
			}
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	info, err := os.Stat(event.Name)
	if err == nil && info.IsDir() {
		switch {
		case event.Op&fsnotify.Create != 0:
			_ = w.add(event.Name)
		}
		return
	}

	switch filepath.Base(event.Name) {
	case ElmJSON:
		w.emit(Change{Path: event.Name, Rescan: true})
		return
	}

	if filepath.Ext(event.Name) != ".elm" {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	w.emit(Change{Path: event.Name})
}

func (w *Watcher) emit(c Change) {
	select {
	case w.changes <- c:
	case <-w.done:
	}
}
