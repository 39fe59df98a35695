package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long Watch waits for writes to settle.
const DefaultDebounce = 200 * time.Millisecond

// Watcher reloads a config file whenever it changes on disk.
type Watcher struct {
	logger   *zap.Logger
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	onChange func(Config)
}

// NewWatcher watches path and calls onChange with each successfully
// reloaded config. A file that fails to parse is logged and ignored, so the
// previous config stays in effect.
func NewWatcher(logger *zap.Logger, path string, debounce time.Duration, onChange func(Config)) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	// Editors replace files on save, so watch the directory and filter.
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		logger:   logger,
		watcher:  w,
		path:     filepath.Clean(path),
		debounce: debounce,
		onChange: onChange,
	}, nil
}

// Run processes file events until ctx is done, then closes the watcher.
func (cw *Watcher) Run(ctx context.Context) error {
	defer cw.watcher.Close()

	debounceTimer := time.NewTimer(cw.debounce)
	if !debounceTimer.Stop() {
		<-debounceTimer.C
	}

	for {
		select {
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return nil
			}
			if cw.relevant(event) {
				cw.logger.Debug("config change detected",
					zap.String("file", event.Name),
					zap.String("op", event.Op.String()))
				debounceTimer.Reset(cw.debounce)
			}

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return nil
			}
			cw.logger.Warn("config watcher error", zap.Error(err))

		case <-debounceTimer.C:
			cw.reload()

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (cw *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != cw.path {
		return false
	}
	return event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0
}

func (cw *Watcher) reload() {
	cfg, err := LoadFile(cw.path)
	if err != nil {
		cw.logger.Warn("config reload failed, keeping previous", zap.Error(err))
		return
	}
	if len(cfg.Fixes) > 0 {
		cw.logger.Warn("config values replaced with defaults", zap.Strings("fields", cfg.Fixes))
	}
	cw.logger.Info("config reloaded", zap.String("path", cw.path))
	cw.onChange(cfg)
}
