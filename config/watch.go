package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/regginator/omniwordlist/errors"
	"github.com/regginator/omniwordlist/logger"
)

// ReloadFunc receives the freshly loaded and validated config, or the
// error that prevented it.
type ReloadFunc func(Config, error)

const watchDebounce = 250 * time.Millisecond

// Watch calls fn with the config at path every time the file changes,
// until ctx is cancelled. The parent directory is watched so that editors
// that replace the file by rename are seen.
func Watch(ctx context.Context, path string, fn ReloadFunc) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.WrapKind(err, errors.ErrConfig, "failed to create fsnotify watcher")
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.WrapKind(err, errors.ErrConfig, "failed to resolve config path")
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return errors.WrapKindf(err, errors.ErrConfig, "failed to watch %s", filepath.Dir(abs))
	}

	var debounce *time.Timer
	reload := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(watchDebounce, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})

		case <-reload:
			cfg, err := Load(path)
			if err == nil {
				err = cfg.Validate()
			}
			logger.Debugw("config reloaded", logger.FieldFile, path, logger.FieldError, err)
			fn(cfg, err)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnw("config watcher error", logger.FieldError, err)
		}
	}
}
