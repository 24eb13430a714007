package internal

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	pkgconfig "github.com/starford/recipes/pkg/config"
)

const reloadDebounce = 200 * time.Millisecond

// watchConfig watches the config file until ctx is cancelled and applies a
// changed log level to level. The parent directory is watched so that a
// file replaced by rename is still picked up.
func watchConfig(ctx context.Context, path string, level *slog.LevelVar, logger *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	logger.Info("config watcher: started", slog.String("path", abs))

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
				fire = timer.C
			} else {
				timer.Reset(reloadDebounce)
			}

		case <-fire:
			timer, fire = nil, nil
			reloadConfig(abs, level, logger)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("config watcher: error", slog.String("error", err.Error()))
		}
	}
}

// reloadConfig re-reads path and applies its log level. Invalid files are
// logged and ignored.
func reloadConfig(path string, level *slog.LevelVar, logger *slog.Logger) {
	cfg := NewDefaultConfig()
	if err := pkgconfig.Load(path, cfg); err != nil {
		logger.Warn("config reload failed", slog.String("path", path), slog.String("error", err.Error()))
		return
	}
	if cfg.App.LogLevel == level.Level() {
		logger.Debug("config reloaded, log level unchanged", slog.String("path", path))
		return
	}
	old := level.Level()
	level.Set(cfg.App.LogLevel)
	logger.Info("config reloaded",
		slog.String("old_log_level", old.String()),
		slog.String("log_level", cfg.App.LogLevel.String()),
		slog.String("note", "settings other than log_level apply on restart"))
}
