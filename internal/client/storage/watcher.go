package storage

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aydevelopers/adminconsole/internal/logging"
	"github.com/fsnotify/fsnotify"
)

// Watcher reports writes to the database file and its journal/WAL siblings.
// It watches the directory, not the file, so that files created after Start
// (the journal) are seen too.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	onChange func()
	logger   logging.Logger

	stopOnce sync.Once
	done     chan struct{}
}

func NewWatcher(path string, onChange func(), logger logging.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		_ = fw.Close()
		return nil, err
	}
	return &Watcher{
		path:     path,
		watcher:  fw,
		onChange: onChange,
		logger:   logger,
		done:     make(chan struct{}),
	}, nil
}

// Start runs the event loop until ctx is done or Close is called.
func (w *Watcher) Start(ctx context.Context) {
	defer close(w.done)
	base := filepath.Base(w.path)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !strings.HasPrefix(filepath.Base(event.Name), base) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) {
				w.logger.Debug(ctx, "storage file changed", "file", event.Name, "op", event.Op.String())
				w.onChange()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error(ctx, "storage watcher error", "error", err)
		}
	}
}

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.stopOnce.Do(func() {
		err = w.watcher.Close()
	})
	return err
}

// Done is closed when Start returns.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}
