// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"time"
)

// SyncMode selects how much of the store an export contains.
type SyncMode string

const (
	// ModeFull exports every row of every sync table.
	ModeFull SyncMode = "full"
	// ModeIncremental exports only rows changed since the last sync.
	ModeIncremental SyncMode = "incremental"
)

// Defaults applied when a source leaves a field unset.
const (
	DefaultIntervalMinutes = 5
	DefaultLockTimeout     = 5 * time.Minute
	DefaultMode            = ModeFull
)

// SyncConfig is the explicit configuration handed to the sync engine.
type SyncConfig struct {
	// Enabled turns synchronization on.
	Enabled bool
	// FolderPath is the shared directory; empty means "not configured".
	FolderPath string
	// DeviceID overrides the persisted device id when non-empty.
	DeviceID string
	// Interval is how often watch mode runs a cycle.
	Interval time.Duration
	// Mode selects full or incremental exports.
	Mode SyncMode
	// LockTimeout is the stale lock age.
	LockTimeout time.Duration
	// LockRetries is the number of extra lock attempts on contention.
	LockRetries uint64
	// AppVersion is recorded in the device registry.
	AppVersion string
}

// ClientStorage contains local database settings.
type ClientStorage struct {
	// DSN is the SQLite database file path or DSN.
	DSN string
}

// ClientLog contains logging settings.
type ClientLog struct {
	File  string
	Level string
}

// ClientConfig is the runtime configuration of the wiredsync CLI assembled
// from [StructuredConfig].
type ClientConfig struct {
	// Storage contains local store settings.
	Storage ClientStorage
	// Sync contains the engine settings.
	Sync SyncConfig
	// Log contains logging settings.
	Log ClientLog
}

// GetClientConfig builds and validates the runtime config view from the
// merged structured configuration. It returns the positional arguments left
// after flag parsing.
func GetClientConfig(args []string) (*ClientConfig, []string, error) {
	cfg, rest, err := GetStructuredConfig(args)
	if err != nil {
		return nil, nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := cfg.ClientConfig()
	return clientCfg, rest, clientCfg.validate()
}

// ClientConfig projects the structured config onto the runtime view and
// fills defaults.
func (cfg *StructuredConfig) ClientConfig() *ClientConfig {
	clientCfg := &ClientConfig{
		Storage: ClientStorage{
			DSN: cfg.Storage.DB.DSN,
		},
		Sync: SyncConfig{
			Enabled:     cfg.Sync.Enabled,
			FolderPath:  cfg.Sync.FolderPath,
			DeviceID:    cfg.Sync.DeviceID,
			Interval:    time.Duration(cfg.Sync.IntervalMinutes) * time.Minute,
			Mode:        SyncMode(cfg.Sync.Mode),
			LockTimeout: cfg.Sync.LockTimeout,
			AppVersion:  cfg.App.Version,
		},
		Log: ClientLog{
			File:  cfg.Log.File,
			Level: cfg.Log.Level,
		},
	}

	if cfg.Sync.LockRetries > 0 {
		clientCfg.Sync.LockRetries = uint64(cfg.Sync.LockRetries)
	}
	if cfg.Sync.IntervalMinutes == 0 {
		clientCfg.Sync.Interval = DefaultIntervalMinutes * time.Minute
	}
	if clientCfg.Sync.Mode == "" {
		clientCfg.Sync.Mode = DefaultMode
	}
	if clientCfg.Sync.LockTimeout == 0 {
		clientCfg.Sync.LockTimeout = DefaultLockTimeout
	}

	return clientCfg
}
