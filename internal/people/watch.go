package people

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the name map whenever its CSV changes on disk, until
// ctx is cancelled. The parent directory is watched because editors
// typically replace the file (write temp → rename), which would drop a
// direct file watch. Reloads are debounced.
func Watch(ctx context.Context, nm *NameMap, logger *slog.Logger) error {
	if nm.Path() == "" {
		<-ctx.Done()
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	abs, err := filepath.Abs(nm.Path())
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	logger.Info("namemap watcher: started", slog.String("path", abs))

	var reloadTimer *time.Timer
	var reloadCh <-chan time.Time

	scheduleReload := func() {
		if reloadTimer == nil {
			reloadTimer = time.NewTimer(200 * time.Millisecond)
			reloadCh = reloadTimer.C
		} else {
			reloadTimer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			logger.Info("namemap watcher: stopped")
			return nil

		case <-reloadCh:
			if err := nm.Load(); err != nil {
				logger.Warn("namemap watcher: reload failed", slog.String("error", err.Error()))
				continue
			}
			logger.Info("namemap watcher: reloaded", slog.Int("mappings", nm.Len()))

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				scheduleReload()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("namemap watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
