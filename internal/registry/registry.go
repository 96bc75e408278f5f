// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package registry maintains the shared device registry and the capped sync
// history. Both files are written outside the folder lock; updates from
// processes on the same host are serialized with an advisory file lock.
package registry

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"time"

	"github.com/gofrs/flock"

	"github.com/MKhiriev/wiredsync/internal/folder"
	"github.com/MKhiriev/wiredsync/internal/logger"
	"github.com/MKhiriev/wiredsync/models"
)

// MaxHistoryEntries caps the history file; the oldest entries are dropped.
const MaxHistoryEntries = 50

const localLockRetryDelay = 50 * time.Millisecond

// Registry reads and writes the registry and history files of one folder.
type Registry struct {
	folder *folder.Folder
	guard  *flock.Flock
	now    func() time.Time
	logger *logger.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLocalLock serializes read-modify-write cycles of processes on this
// host through an advisory lock on path. path must be on a local disk.
func WithLocalLock(path string) Option {
	return func(r *Registry) {
		if path != "" {
			r.guard = flock.New(path)
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// New returns a Registry on f.
func New(f *folder.Folder, opts ...Option) *Registry {
	r := &Registry{
		folder: f,
		now:    time.Now,
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RegisterDevice inserts entry or replaces the existing entry with the same
// device id. LastSeen is stamped with the current time when unset.
func (r *Registry) RegisterDevice(ctx context.Context, entry models.DeviceEntry) error {
	if entry.DeviceID == "" {
		return ErrEmptyDeviceID
	}
	if entry.LastSeen.IsZero() {
		entry.LastSeen = models.NewTimestamp(r.now())
	}

	return r.locked(ctx, func() error {
		devices := r.readDevices()

		replaced := false
		for i := range devices {
			if devices[i].DeviceID == entry.DeviceID {
				devices[i] = entry
				replaced = true
				break
			}
		}
		if !replaced {
			devices = append(devices, entry)
		}
		sortDevices(devices)

		if err := r.folder.WriteJSON(folder.RegistryFileName, devices); err != nil {
			return fmt.Errorf("write registry: %w", err)
		}

		r.logger.Debug().
			Str("func", "Registry.RegisterDevice").
			Str("device_id", entry.DeviceID).
			Bool("new", !replaced).
			Msg("device registered")
		return nil
	})
}

// Devices returns every known device sorted by id.
func (r *Registry) Devices() []models.DeviceEntry {
	devices := r.readDevices()
	sortDevices(devices)
	return devices
}

// LogEvent appends entry to the history, dropping the oldest entries beyond
// MaxHistoryEntries. Timestamp is stamped with the current time when unset.
func (r *Registry) LogEvent(ctx context.Context, entry models.HistoryEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = models.NewTimestamp(r.now())
	}

	return r.locked(ctx, func() error {
		history := append(r.readHistory(), entry)
		if len(history) > MaxHistoryEntries {
			history = history[len(history)-MaxHistoryEntries:]
		}

		if err := r.folder.WriteJSON(folder.HistoryFileName, history); err != nil {
			return fmt.Errorf("write history: %w", err)
		}
		return nil
	})
}

// RecentHistory returns the newest limit entries, oldest first. A limit of
// zero or less returns the whole history.
func (r *Registry) RecentHistory(limit int) []models.HistoryEntry {
	history := r.readHistory()
	if limit > 0 && len(history) > limit {
		history = history[len(history)-limit:]
	}
	return history
}

func (r *Registry) locked(ctx context.Context, fn func() error) error {
	if r.guard == nil {
		return fn()
	}

	ok, err := r.guard.TryLockContext(ctx, localLockRetryDelay)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLocalLockBusy, err)
	}
	if !ok {
		return ErrLocalLockBusy
	}
	defer func() { _ = r.guard.Unlock() }()

	return fn()
}

// readDevices treats a missing or unreadable registry as empty.
func (r *Registry) readDevices() []models.DeviceEntry {
	var devices []models.DeviceEntry
	if err := r.folder.ReadJSON(folder.RegistryFileName, &devices); err != nil {
		r.logReadError("Registry.readDevices", folder.RegistryFileName, err)
		return nil
	}
	return devices
}

// readHistory treats a missing or unreadable history as empty.
func (r *Registry) readHistory() []models.HistoryEntry {
	var history []models.HistoryEntry
	if err := r.folder.ReadJSON(folder.HistoryFileName, &history); err != nil {
		r.logReadError("Registry.readHistory", folder.HistoryFileName, err)
		return nil
	}
	return history
}

func (r *Registry) logReadError(fn, file string, err error) {
	if errors.Is(err, fs.ErrNotExist) {
		return
	}
	r.logger.Warn().
		Err(err).
		Str("func", fn).
		Str("file", file).
		Msg("unreadable file, starting empty")
}

func sortDevices(devices []models.DeviceEntry) {
	sort.Slice(devices, func(i, j int) bool { return devices[i].DeviceID < devices[j].DeviceID })
}
