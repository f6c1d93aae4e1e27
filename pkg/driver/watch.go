package driver

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch rebuilds whenever the input file is written or recreated, until ctx
// is cancelled. Every build outcome, failures included, is passed to
// onBuild; a failing build does not stop the watch.
//
// The input's directory is watched rather than the file itself because
// editors commonly replace files instead of writing them in place.
func (d *Driver) Watch(ctx context.Context, onBuild func(Result, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	input, err := filepath.Abs(d.cfg.Input)
	if err != nil {
		return fmt.Errorf("resolve input: %w", err)
	}
	if err := watcher.Add(filepath.Dir(input)); err != nil {
		return fmt.Errorf("failed to watch directory: %w", err)
	}

	d.logger.Info("watching for changes", "input", d.cfg.Input)

	// Editors emit several events per save; build once they settle.
	delay := d.cfg.Debounce.Duration
	timer := time.NewTimer(delay)
	timer.Stop()
	defer timer.Stop()
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("stopping watcher")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !sameFile(event.Name, input) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			d.logger.Debug("input changed", "op", event.Op.String())
			timer.Reset(delay)
			pending = timer.C

		case <-pending:
			pending = nil
			res, err := d.Build()
			if err != nil {
				d.logger.Error("build failed", "error", err)
			}
			if onBuild != nil {
				onBuild(res, err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			d.logger.Error("watcher error", "error", err)
		}
	}
}

func sameFile(name, abs string) bool {
	p, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	return p == abs
}
