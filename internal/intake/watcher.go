package intake

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"smarthire/internal/errors"
)

// Watcher feeds resume files dropped into a directory straight into a
// collector
type Watcher struct {
	collector  *Collector
	dir        string
	extensions map[string]bool
	logger     *errors.Logger
}

// NewWatcher creates a watcher for the given directory. extensions
// lists accepted file suffixes such as ".pdf".
func NewWatcher(collector *Collector, dir string, extensions []string, logger *errors.Logger) *Watcher {
	exts := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		exts[strings.ToLower(e)] = true
	}
	return &Watcher{collector: collector, dir: dir, extensions: exts, logger: logger}
}

// Run watches the directory until the context is cancelled. Each newly
// created matching file is added to the collector.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.NewIOError(errors.ErrCodeFileNotReadable, "failed to create directory watcher", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return errors.NewIOError(errors.ErrCodeFileNotFound, "failed to watch "+w.dir, err)
	}
	w.logger.Info("watching for resumes", "dir", w.dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			if !w.extensions[strings.ToLower(filepath.Ext(event.Name))] {
				continue
			}
			if err := w.collector.AddFile(event.Name); err != nil {
				w.logger.LogError(err, "skipping dropped file", "path", event.Name)
				continue
			}
			w.logger.Info("picked up resume", "path", event.Name)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.LogError(err, "watcher error")
		}
	}
}
