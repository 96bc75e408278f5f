// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON_Success(t *testing.T) {
	// Arrange
	p := filepath.Join(t.TempDir(), "config.json")

	jsonBody := `{
		"app": { "version": "3.1.0" },
		"storage": { "db": { "dsn": "/data/inventory.db" } },
		"sync": {
			"enabled": true,
			"folder_path": "/mnt/nas/wiredpart",
			"device_id": "laptop",
			"interval_minutes": 20,
			"mode": "full",
			"lock_timeout": "3m",
			"lock_retries": 4
		},
		"log": { "file": "/tmp/ws.log", "level": "error" }
	}`
	require.NoError(t, os.WriteFile(p, []byte(jsonBody), 0o600))

	// Act
	cfg, err := parseJSON(p)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "3.1.0", cfg.App.Version)
	assert.Equal(t, "/data/inventory.db", cfg.Storage.DB.DSN)
	assert.True(t, cfg.Sync.Enabled)
	assert.Equal(t, "/mnt/nas/wiredpart", cfg.Sync.FolderPath)
	assert.Equal(t, "laptop", cfg.Sync.DeviceID)
	assert.Equal(t, 20, cfg.Sync.IntervalMinutes)
	assert.Equal(t, "full", cfg.Sync.Mode)
	assert.Equal(t, 3*time.Minute, cfg.Sync.LockTimeout)
	assert.Equal(t, 4, cfg.Sync.LockRetries)
	assert.Equal(t, "/tmp/ws.log", cfg.Log.File)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Empty(t, cfg.JSONFilePath)
}

func TestParseJSON_FileNotFound(t *testing.T) {
	_, err := parseJSON(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading a json file")
}

func TestParseJSON_Malformed(t *testing.T) {
	p := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(p, []byte("{not json"), 0o600))

	_, err := parseJSON(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error decoding json configs")
}

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    time.Duration
		wantErr bool
	}{
		{name: "string", in: `"45s"`, want: 45 * time.Second},
		{name: "nanoseconds", in: `1000000000`, want: time.Second},
		{name: "bad string", in: `"forever"`, wantErr: true},
		{name: "bad json", in: `{`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := json.Unmarshal([]byte(tt.in), &d)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, time.Duration(d))
		})
	}
}

func TestDuration_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(Duration(90 * time.Second))
	require.NoError(t, err)
	assert.Equal(t, `"1m30s"`, string(b))
}
