// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_AllFields(t *testing.T) {
	// Arrange
	environ := []string{
		"CONFIG=/path/to/config.json",

		"APP_VERSION=2.4.0",

		"STORAGE_DB_DATABASE_URI=/var/lib/wiredpart/inventory.db",

		"SYNC_ENABLED=true",
		"SYNC_FOLDER_PATH=/mnt/share/wiredpart",
		"SYNC_DEVICE_ID=truck-7",
		"SYNC_INTERVAL_MINUTES=10",
		"SYNC_MODE=incremental",
		"SYNC_LOCK_TIMEOUT=2m",
		"SYNC_LOCK_RETRIES=3",

		"LOG_FILE=/var/log/wiredsync.log",
		"LOG_LEVEL=warn",
	}

	// Act
	cfg, err := parseEnv(environ)

	// Assert
	require.NoError(t, err)

	assert.Equal(t, "/path/to/config.json", cfg.JSONFilePath)
	assert.Equal(t, "2.4.0", cfg.App.Version)
	assert.Equal(t, "/var/lib/wiredpart/inventory.db", cfg.Storage.DB.DSN)

	assert.True(t, cfg.Sync.Enabled)
	assert.Equal(t, "/mnt/share/wiredpart", cfg.Sync.FolderPath)
	assert.Equal(t, "truck-7", cfg.Sync.DeviceID)
	assert.Equal(t, 10, cfg.Sync.IntervalMinutes)
	assert.Equal(t, "incremental", cfg.Sync.Mode)
	assert.Equal(t, 2*time.Minute, cfg.Sync.LockTimeout)
	assert.Equal(t, 3, cfg.Sync.LockRetries)

	assert.Equal(t, "/var/log/wiredsync.log", cfg.Log.File)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestParseEnv_Empty(t *testing.T) {
	cfg, err := parseEnv(nil)
	require.NoError(t, err)
	assert.Equal(t, &StructuredConfig{}, cfg)
}

// TestParseEnv_IgnoresProcessEnvironment verifies that only the given
// environ is read.
func TestParseEnv_IgnoresProcessEnvironment(t *testing.T) {
	t.Setenv("SYNC_FOLDER_PATH", "/from-process")

	cfg, err := parseEnv([]string{"SYNC_DEVICE_ID=office"})
	require.NoError(t, err)
	assert.Empty(t, cfg.Sync.FolderPath)
	assert.Equal(t, "office", cfg.Sync.DeviceID)
}

func TestParseEnv_InvalidValue(t *testing.T) {
	cfg, err := parseEnv([]string{"SYNC_INTERVAL_MINUTES=often"})
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "error reading sync environment")
	assert.Contains(t, err.Error(), "IntervalMinutes")
}
