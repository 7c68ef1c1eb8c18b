package service

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"rooming-data/internal/debounce"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// FileWatcher reloads the catalog when the data file changes. Bursts of
// events (editors writing via temp file and rename) collapse into one reload.
type FileWatcher struct {
	path     string
	svc      RoomingListService
	watcher  *fsnotify.Watcher
	debounce *debounce.Debouncer
	logger   *zap.Logger
}

// NewFileWatcher watches the directory holding path so renames over the file
// are seen.
func NewFileWatcher(path string, svc RoomingListService, delay time.Duration, logger *zap.Logger) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	return &FileWatcher{
		path:     abs,
		svc:      svc,
		watcher:  w,
		debounce: debounce.New(delay),
		logger:   logger,
	}, nil
}

// Run processes events until ctx is done, then closes the watcher.
func (fw *FileWatcher) Run(ctx context.Context) {
	defer func() {
		fw.debounce.Stop()
		_ = fw.watcher.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleEvent(ctx, ev)
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Warn("File watcher error", zap.Error(err))
		}
	}
}

func (fw *FileWatcher) handleEvent(ctx context.Context, ev fsnotify.Event) {
	if filepath.Clean(ev.Name) != fw.path {
		return
	}
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return
	}
	fw.logger.Debug("Data file changed", zap.String("path", ev.Name), zap.String("op", ev.Op.String()))
	fw.debounce.Schedule(func() {
		if _, err := fw.svc.Reload(ctx); err != nil {
			fw.logger.Warn("Reload after file change failed", zap.Error(err))
		}
	})
}
