// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/MKhiriev/wiredsync/internal/folder"
	"github.com/MKhiriev/wiredsync/internal/logger"
)

// DefaultDebounce is how long the watcher waits for a burst of peer file
// events to settle before importing.
const DefaultDebounce = 2 * time.Second

// FolderWatcher imports peer packages shortly after they change in the
// shared folder. It only imports: exporting from here would rewrite this
// device's file and wake every peer's watcher in turn.
type FolderWatcher struct {
	dir      string
	ownFile  string
	importer Importer
	debounce time.Duration
	logger   *logger.Logger

	readyOnce sync.Once
	ready     chan struct{}
}

func NewFolderWatcher(dir, deviceID string, importer Importer, debounce time.Duration, logger *logger.Logger) *FolderWatcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &FolderWatcher{
		dir:      dir,
		ownFile:  folder.ExportFileName(deviceID),
		importer: importer,
		debounce: debounce,
		logger:   logger,
		ready:    make(chan struct{}),
	}
}

// Ready is closed once the folder is being watched.
func (w *FolderWatcher) Ready() <-chan struct{} { return w.ready }

func (w *FolderWatcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	if err = watcher.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	w.readyOnce.Do(func() { close(w.ready) })

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !w.isPeerExport(event) {
				continue
			}
			w.logger.Debug().
				Str("func", "FolderWatcher.Run").
				Str("file", filepath.Base(event.Name)).
				Str("op", event.Op.String()).
				Msg("peer export changed")
			timer.Reset(w.debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Str("func", "FolderWatcher.Run").Msg("watch error")

		case <-timer.C:
			w.importNow(ctx)
		}
	}
}

func (w *FolderWatcher) isPeerExport(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Base(event.Name)
	return name != w.ownFile &&
		strings.HasPrefix(name, folder.ExportPrefix) &&
		strings.HasSuffix(name, folder.ExportSuffix)
}

func (w *FolderWatcher) importNow(ctx context.Context) {
	summary, err := w.importer.ImportFromPeers(ctx)
	if err != nil {
		w.logger.Warn().
			Err(err).
			Str("func", "FolderWatcher.importNow").
			Msg("import after folder change failed")
		return
	}
	w.logger.Info().
		Str("func", "FolderWatcher.importNow").
		Int("merged", summary.TotalMerged()).
		Int("deleted", summary.TotalDeleted()).
		Msg("imported after folder change")
}
