// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"time"
)

// StructuredConfig is the top-level configuration container for wiredsync.
// It aggregates all sub-configurations and is populated by merging values
// from environment variables, command-line flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings.
	App App `envPrefix:"APP_"`

	// Storage holds the local inventory database settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Sync holds the shared-folder synchronization settings.
	Sync Sync `envPrefix:"SYNC_"`

	// Log holds logging destination and verbosity.
	Log Log `envPrefix:"LOG_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// Version is recorded in the device registry. Falls back to the build
	// version when empty.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Storage groups the configuration for the local store.
type Storage struct {
	// DB holds the SQLite database settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the local SQLite database.
type DB struct {
	// DSN is the SQLite database file path or DSN.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Sync holds the shared-folder synchronization settings.
type Sync struct {
	// Enabled turns synchronization on. A disabled engine reports the
	// "disabled" status and never touches the folder.
	// Env: SYNC_ENABLED
	Enabled bool `env:"ENABLED"`

	// FolderPath is the shared directory all devices exchange files through.
	// Env: SYNC_FOLDER_PATH
	FolderPath string `env:"FOLDER_PATH"`

	// DeviceID overrides the device id persisted in the local store.
	// Env: SYNC_DEVICE_ID
	DeviceID string `env:"DEVICE_ID"`

	// IntervalMinutes is how often watch mode runs a sync cycle.
	// Env: SYNC_INTERVAL_MINUTES
	IntervalMinutes int `env:"INTERVAL_MINUTES"`

	// Mode selects "full" or "incremental" exports.
	// Env: SYNC_MODE
	Mode string `env:"MODE"`

	// LockTimeout is the age after which a folder lock is considered stale.
	// Env: SYNC_LOCK_TIMEOUT
	LockTimeout time.Duration `env:"LOCK_TIMEOUT"`

	// LockRetries is the number of extra lock attempts on contention.
	// Env: SYNC_LOCK_RETRIES
	LockRetries int `env:"LOCK_RETRIES"`
}

// Log holds logging settings.
type Log struct {
	// File is the log file path. Empty means stderr.
	// Env: LOG_FILE
	File string `env:"FILE"`

	// Level is a zerolog level name.
	// Env: LOG_LEVEL
	Level string `env:"LEVEL"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (first non-zero value wins per field):
//  1. Environment variables
//  2. Command-line flags parsed from args
//  3. JSON file (path taken from the first of sources 1 and 2 naming one)
//
// The returned slice holds the positional arguments left after flag parsing.
func GetStructuredConfig(args []string) (*StructuredConfig, []string, error) {
	return newConfigBuilder().
		withEnv(os.Environ()).
		withFlags(args).
		withJSON().
		build()
}
