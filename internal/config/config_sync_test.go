// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/wiredsync/models"
)

func TestStructuredConfig_ClientConfig_Defaults(t *testing.T) {
	cfg := &StructuredConfig{Storage: Storage{DB: DB{DSN: "inv.db"}}}

	clientCfg := cfg.ClientConfig()

	assert.Equal(t, "inv.db", clientCfg.Storage.DSN)
	assert.False(t, clientCfg.Sync.Enabled)
	assert.Equal(t, DefaultIntervalMinutes*time.Minute, clientCfg.Sync.Interval)
	assert.Equal(t, ModeFull, clientCfg.Sync.Mode)
	assert.Equal(t, DefaultLockTimeout, clientCfg.Sync.LockTimeout)
	assert.Zero(t, clientCfg.Sync.LockRetries)
	assert.NoError(t, clientCfg.validate())
}

func TestStructuredConfig_ClientConfig_Explicit(t *testing.T) {
	cfg := &StructuredConfig{
		App:     App{Version: "9.9.9"},
		Storage: Storage{DB: DB{DSN: "inv.db"}},
		Sync: Sync{
			Enabled:         true,
			FolderPath:      "/share",
			DeviceID:        "dev",
			IntervalMinutes: 2,
			Mode:            "incremental",
			LockTimeout:     time.Minute,
			LockRetries:     5,
		},
		Log: Log{File: "x.log", Level: "debug"},
	}

	clientCfg := cfg.ClientConfig()

	assert.Equal(t, SyncConfig{
		Enabled:     true,
		FolderPath:  "/share",
		DeviceID:    "dev",
		Interval:    2 * time.Minute,
		Mode:        ModeIncremental,
		LockTimeout: time.Minute,
		LockRetries: 5,
		AppVersion:  "9.9.9",
	}, clientCfg.Sync)
	assert.Equal(t, ClientLog{File: "x.log", Level: "debug"}, clientCfg.Log)
}

func TestClientConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ClientConfig
		wantErr error
	}{
		{
			name:    "missing dsn",
			cfg:     ClientConfig{Sync: SyncConfig{Mode: ModeFull}},
			wantErr: ErrInvalidStorageConfigs,
		},
		{
			name:    "unknown mode",
			cfg:     ClientConfig{Storage: ClientStorage{DSN: "a.db"}, Sync: SyncConfig{Mode: "delta"}},
			wantErr: ErrInvalidSyncConfigs,
		},
		{
			name: "incremental",
			cfg:  ClientConfig{Storage: ClientStorage{DSN: "a.db"}, Sync: SyncConfig{Mode: ModeIncremental}},
		},
		{
			name:    "device id with a slash",
			cfg:     ClientConfig{Storage: ClientStorage{DSN: "a.db"}, Sync: SyncConfig{Mode: ModeFull, DeviceID: "dev/1"}},
			wantErr: models.ErrInvalidDeviceID,
		},
		{
			name:    "device id with a space",
			cfg:     ClientConfig{Storage: ClientStorage{DSN: "a.db"}, Sync: SyncConfig{Mode: ModeFull, DeviceID: "van 2"}},
			wantErr: ErrInvalidSyncConfigs,
		},
		{
			name: "device id in the file name charset",
			cfg:  ClientConfig{Storage: ClientStorage{DSN: "a.db"}, Sync: SyncConfig{Mode: ModeFull, DeviceID: "dev_1.van-A"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestGetClientConfig(t *testing.T) {
	t.Setenv("STORAGE_DB_DATABASE_URI", "env.db")
	t.Setenv("SYNC_ENABLED", "true")

	cfg, rest, err := GetClientConfig([]string{"-folder", "/share", "status"})
	require.NoError(t, err)

	assert.Equal(t, []string{"status"}, rest)
	assert.Equal(t, "env.db", cfg.Storage.DSN)
	assert.True(t, cfg.Sync.Enabled)
	assert.Equal(t, "/share", cfg.Sync.FolderPath)
}

func TestGetClientConfig_InvalidMode(t *testing.T) {
	t.Setenv("STORAGE_DB_DATABASE_URI", "env.db")

	_, _, err := GetClientConfig([]string{"-mode", "sometimes"})
	assert.ErrorIs(t, err, ErrInvalidSyncConfigs)
}

func TestGetClientConfig_DeviceIDsMustNotCollide(t *testing.T) {
	t.Setenv("STORAGE_DB_DATABASE_URI", "env.db")

	_, _, err := GetClientConfig([]string{"-device", "dev_1"})
	require.NoError(t, err)

	_, _, err = GetClientConfig([]string{"-device", "dev/1"})
	assert.ErrorIs(t, err, models.ErrInvalidDeviceID)
}
