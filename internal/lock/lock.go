// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package lock implements the shared-folder lock that serializes sync cycles
// across devices. The claim is an exclusive file create; a lock older than
// the staleness timeout is presumed abandoned, moved aside and removed.
package lock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/MKhiriev/wiredsync/internal/folder"
	"github.com/MKhiriev/wiredsync/internal/logger"
	"github.com/MKhiriev/wiredsync/models"
)

// UnknownHolder is reported when a lock file exists but cannot be parsed.
const UnknownHolder = "unknown"

const (
	DefaultTimeout   = 5 * time.Minute
	defaultBaseDelay = 500 * time.Millisecond
	defaultMaxDelay  = 10 * time.Second
	jitterPercent    = 20
)

// Handle is proof of a successful Acquire.
type Handle struct {
	Record models.LockRecord
}

// Manager acquires and releases the folder lock on behalf of one device.
type Manager struct {
	folder    *folder.Folder
	deviceID  string
	processID int
	hostName  string

	timeout   time.Duration
	retries   uint64
	baseDelay time.Duration
	maxDelay  time.Duration
	now       func() time.Time

	logger *logger.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithTimeout sets the staleness timeout.
func WithTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// WithRetries sets how many extra attempts Acquire makes on contention.
func WithRetries(n uint64) Option {
	return func(m *Manager) { m.retries = n }
}

// WithBackoff sets the retry delays.
func WithBackoff(base, max time.Duration) Option {
	return func(m *Manager) {
		m.baseDelay = base
		m.maxDelay = max
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithProcess overrides the process id and host name written to the lock.
func WithProcess(pid int, host string) Option {
	return func(m *Manager) {
		m.processID = pid
		m.hostName = host
	}
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// NewManager returns a Manager for deviceID on f.
func NewManager(f *folder.Folder, deviceID string, opts ...Option) *Manager {
	host, _ := os.Hostname()
	m := &Manager{
		folder:    f,
		deviceID:  deviceID,
		processID: os.Getpid(),
		hostName:  host,
		timeout:   DefaultTimeout,
		baseDelay: defaultBaseDelay,
		maxDelay:  defaultMaxDelay,
		now:       time.Now,
		logger:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Timeout returns the staleness timeout.
func (m *Manager) Timeout() time.Duration { return m.timeout }

// Acquire claims the folder lock. On a live peer lock it retries with
// exponential backoff up to the configured number of retries and then
// returns a [*ContentionError].
func (m *Manager) Acquire(ctx context.Context) (*Handle, error) {
	var handle *Handle

	backoff := retry.NewExponential(m.baseDelay)
	backoff = retry.WithMaxRetries(m.retries, backoff)
	backoff = retry.WithCappedDuration(m.maxDelay, backoff)
	backoff = retry.WithJitterPercent(jitterPercent, backoff)

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		h, err := m.tryAcquire()
		if errors.Is(err, ErrLockContention) {
			m.logger.Debug().
				Err(err).
				Str("func", "Manager.Acquire").
				Str("device_id", m.deviceID).
				Msg("lock busy")
			return retry.RetryableError(err)
		}
		if err != nil {
			return err
		}
		handle = h
		return nil
	})
	if err != nil {
		return nil, err
	}

	return handle, nil
}

func (m *Manager) tryAcquire() (*Handle, error) {
	name := m.folder.Path(folder.LockFileName)

	if info, err := m.folder.Stat(folder.LockFileName); err == nil {
		age := m.now().Sub(info.ModTime())
		if age <= m.timeout {
			return nil, &ContentionError{Holder: m.holder(), Age: age}
		}
		m.logger.Warn().
			Str("func", "Manager.tryAcquire").
			Str("holder", m.holder()).
			Dur("age", age).
			Msg("removing stale lock")
		if err = m.clearStale(info); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("stat lock: %w", err)
	}

	record := models.LockRecord{
		DeviceID:  m.deviceID,
		LockedAt:  models.NewTimestamp(m.now()),
		ProcessID: m.processID,
		HostName:  m.hostName,
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encode lock: %w", err)
	}

	f, err := m.folder.Fs().OpenFile(name, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			// a peer won the race
			return nil, &ContentionError{Holder: m.holder()}
		}
		return nil, fmt.Errorf("create lock: %w", err)
	}

	if _, err = f.Write(payload); err != nil {
		_ = f.Close()
		_ = m.folder.Remove(folder.LockFileName)
		return nil, fmt.Errorf("write lock: %w", err)
	}
	if err = f.Close(); err != nil {
		_ = m.folder.Remove(folder.LockFileName)
		return nil, fmt.Errorf("close lock: %w", err)
	}

	m.logger.Debug().
		Str("func", "Manager.tryAcquire").
		Str("device_id", m.deviceID).
		Msg("lock acquired")

	return &Handle{Record: record}, nil
}

// clearStale removes the stale lock described by stale. The lock is first
// renamed to a name only this attempt uses, so a peer that replaced it in
// the meantime is detected by its modification time and put back instead of
// being deleted.
func (m *Manager) clearStale(stale fs.FileInfo) error {
	aside := fmt.Sprintf("%s.stale.%d.%d", folder.LockFileName, m.processID, time.Now().UnixNano())

	err := m.folder.Rename(folder.LockFileName, aside)
	if errors.Is(err, fs.ErrNotExist) {
		// already cleared by a peer; the exclusive create decides
		return nil
	}
	if err != nil {
		return fmt.Errorf("move stale lock: %w", err)
	}

	moved, err := m.folder.Stat(aside)
	if err != nil {
		return fmt.Errorf("stat moved lock: %w", err)
	}
	if !moved.ModTime().Equal(stale.ModTime()) || moved.Size() != stale.Size() {
		m.logger.Warn().
			Str("func", "Manager.clearStale").
			Str("device_id", m.deviceID).
			Msg("lock was renewed by a peer, restoring it")
		if err = m.restore(aside); err != nil {
			return err
		}
		return &ContentionError{Holder: m.holder()}
	}

	if err = m.folder.Remove(aside); err != nil {
		return fmt.Errorf("remove stale lock: %w", err)
	}
	return nil
}

// restore moves a lock taken aside by mistake back into place unless a
// newer lock already occupies it.
func (m *Manager) restore(aside string) error {
	if _, err := m.folder.Stat(folder.LockFileName); err == nil {
		return m.folder.Remove(aside)
	}
	if err := m.folder.Rename(aside, folder.LockFileName); err != nil {
		return fmt.Errorf("restore lock: %w", err)
	}
	return nil
}

// holder reads the device id from the current lock file.
func (m *Manager) holder() string {
	rec, err := m.read()
	if err != nil || rec.DeviceID == "" {
		return UnknownHolder
	}
	return rec.DeviceID
}

func (m *Manager) read() (models.LockRecord, error) {
	var rec models.LockRecord
	data, err := m.folder.ReadFile(folder.LockFileName)
	if err != nil {
		return rec, err
	}
	if err = json.Unmarshal(data, &rec); err != nil {
		return rec, fmt.Errorf("%w: %w", folder.ErrCorrupt, err)
	}
	return rec, nil
}

// Release removes the lock if it still belongs to h. A lock that was broken
// or taken over in the meantime is left alone and [ErrNotHeld] is returned.
func (m *Manager) Release(h *Handle) error {
	if h == nil {
		return nil
	}

	rec, err := m.read()
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotHeld
	}
	if err != nil {
		return fmt.Errorf("read lock: %w", err)
	}

	if rec.DeviceID != h.Record.DeviceID || rec.ProcessID != h.Record.ProcessID || !rec.LockedAt.Equal(h.Record.LockedAt) {
		m.logger.Warn().
			Str("func", "Manager.Release").
			Str("holder", rec.DeviceID).
			Msg("lock was taken over, not removing")
		return ErrNotHeld
	}

	if err = m.folder.Remove(folder.LockFileName); err != nil {
		return fmt.Errorf("remove lock: %w", err)
	}
	return nil
}

// Inspect describes the current lock, or returns nil when there is none.
func (m *Manager) Inspect() (*models.LockInfo, error) {
	info, err := m.folder.Stat(folder.LockFileName)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("stat lock: %w", err)
	}

	rec, err := m.read()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		rec = models.LockRecord{DeviceID: UnknownHolder}
	}

	age := m.now().Sub(info.ModTime())
	return &models.LockInfo{
		LockRecord: rec,
		AgeSeconds: age.Seconds(),
		IsStale:    age > m.timeout,
	}, nil
}

// ForceBreak deletes the lock regardless of age and returns what it broke,
// or nil when there was no lock.
func (m *Manager) ForceBreak() (*models.LockRecord, error) {
	if _, err := m.folder.Stat(folder.LockFileName); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	rec, err := m.read()
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		rec = models.LockRecord{DeviceID: UnknownHolder}
	}

	if err = m.folder.Remove(folder.LockFileName); err != nil {
		return nil, fmt.Errorf("remove lock: %w", err)
	}

	m.logger.Warn().
		Str("func", "Manager.ForceBreak").
		Str("holder", rec.DeviceID).
		Msg("lock force-broken")

	return &rec, nil
}
