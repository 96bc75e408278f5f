// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/wiredsync/internal/config"
	"github.com/MKhiriev/wiredsync/internal/folder"
	"github.com/MKhiriev/wiredsync/internal/logger"
	"github.com/MKhiriev/wiredsync/internal/service"
	"github.com/MKhiriev/wiredsync/models"
)

// stubSync overrides the SyncService methods a test needs. Calling any
// other method panics through the nil embedded interface.
type stubSync struct {
	service.SyncService

	summary   models.MergeSummary
	status    models.SyncStatus
	report    models.StatusReport
	lock      *models.LockRecord
	err       error
	loadedPkg *models.ExportPackage
	conflicts []models.ConflictRecord
}

func (s *stubSync) DeviceID() string { return "dev-a" }

func (s *stubSync) Export(context.Context) (string, error) {
	return "/share/wiredsync_export_dev-a.json", s.err
}

func (s *stubSync) ImportFromPeers(context.Context) (models.MergeSummary, error) {
	return s.summary, s.err
}

func (s *stubSync) SyncSafe(context.Context) models.SyncStatus { return s.status }

func (s *stubSync) Status(context.Context) (models.StatusReport, error) { return s.report, s.err }

func (s *stubSync) ForceBreakLock(context.Context) (*models.LockRecord, error) { return s.lock, s.err }

func (s *stubSync) LoadPackage(string) (*models.ExportPackage, error) { return s.loadedPkg, s.err }

func (s *stubSync) DetectConflicts(context.Context, *models.ExportPackage) ([]models.ConflictRecord, error) {
	return s.conflicts, s.err
}

func newTestApp(svc service.SyncService) (*App, *bytes.Buffer) {
	out := &bytes.Buffer{}
	cfg := &config.ClientConfig{Sync: config.SyncConfig{Interval: time.Minute}}
	app := newApp(cfg, &service.Services{SyncService: svc}, models.NewAppBuildInfo("1.2.3", "2026-10-01", "abc123"), out, logger.Nop())
	return app, out
}

func TestApp_Run_CommandErrors(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantErr   error
		wantUsage bool
	}{
		{name: "no command", args: nil, wantErr: ErrMissingArgument, wantUsage: true},
		{name: "unknown command", args: []string{"frobnicate"}, wantErr: ErrUnknownCommand, wantUsage: true},
		{name: "conflicts without file", args: []string{CmdConflicts}, wantErr: ErrMissingArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, out := newTestApp(&stubSync{})
			err := app.Run(context.Background(), tt.args)
			require.ErrorIs(t, err, tt.wantErr)
			if tt.wantUsage {
				assert.Contains(t, out.String(), "usage: wiredsync")
			} else {
				assert.Empty(t, out.String())
			}
		})
	}
}

func TestApp_Run_Import(t *testing.T) {
	summary := models.NewMergeSummary()
	summary.Merged["suppliers"] = 2
	summary.Deleted["jobs"] = 1
	summary.Skipped = 1
	summary.Reasons = []models.SkippedReason{{
		Kind:     models.SkipSchemaMismatch,
		DeviceID: "dev-old",
		Message:  "schema version mismatch: local 3, remote 2",
	}}

	t.Run("text", func(t *testing.T) {
		app, out := newTestApp(&stubSync{summary: summary})
		require.NoError(t, app.Run(context.Background(), []string{CmdImport}))

		text := out.String()
		assert.Contains(t, text, "IMPORT")
		assert.Contains(t, text, "suppliers")
		assert.Contains(t, text, "2 merged")
		assert.Contains(t, text, "1 deleted")
		assert.Contains(t, text, "Skipped packages: 1")
		assert.Contains(t, text, "device=dev-old")
	})

	t.Run("json", func(t *testing.T) {
		app, out := newTestApp(&stubSync{summary: summary})
		require.NoError(t, app.Run(context.Background(), []string{CmdImport, "-json"}))

		var got map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		assert.EqualValues(t, 2, got["suppliers"])
		assert.EqualValues(t, 1, got["_skipped"])
	})

	t.Run("error", func(t *testing.T) {
		boom := errors.New("boom")
		app, _ := newTestApp(&stubSync{err: boom})
		require.ErrorIs(t, app.Run(context.Background(), []string{CmdImport}), boom)
	})
}

func TestApp_Run_SyncSafe(t *testing.T) {
	t.Run("locked is not a failure", func(t *testing.T) {
		app, out := newTestApp(&stubSync{status: models.SyncStatus{State: models.StateLocked, Reason: "held by dev-b"}})
		require.NoError(t, app.Run(context.Background(), []string{CmdSyncSafe}))
		assert.Contains(t, out.String(), "Status: locked")
		assert.Contains(t, out.String(), "held by dev-b")
	})

	t.Run("error status fails the command", func(t *testing.T) {
		app, _ := newTestApp(&stubSync{status: models.SyncStatus{State: models.StateError, Reason: "disk full"}})
		err := app.Run(context.Background(), []string{CmdSyncSafe})
		require.ErrorIs(t, err, ErrSyncFailed)
		assert.Contains(t, err.Error(), "disk full")
	})

	t.Run("success json", func(t *testing.T) {
		summary := models.NewMergeSummary()
		app, out := newTestApp(&stubSync{status: models.SyncStatus{State: models.StateSuccess, Summary: &summary}})
		require.NoError(t, app.Run(context.Background(), []string{CmdSyncSafe, "-json"}))

		var got map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		assert.Equal(t, "success", got["status"])
	})
}

func TestApp_Run_Status(t *testing.T) {
	app, out := newTestApp(&stubSync{report: models.StatusReport{
		Enabled:         true,
		Configured:      true,
		DeviceID:        "dev-a",
		SyncFolder:      "/share",
		IntervalMinutes: 5,
		OtherDevices: []models.PeerFile{
			{DeviceID: "dev-b", SizeBytes: 128},
		},
	}})

	require.NoError(t, app.Run(context.Background(), []string{CmdStatus}))
	text := out.String()
	assert.Contains(t, text, "dev-a")
	assert.Contains(t, text, "/share")
	assert.Contains(t, text, "Never")
	assert.Contains(t, text, "dev-b")
	assert.Contains(t, text, "128 bytes")
}

func TestApp_Run_ForceBreakLock(t *testing.T) {
	t.Run("no lock", func(t *testing.T) {
		app, out := newTestApp(&stubSync{})
		require.NoError(t, app.Run(context.Background(), []string{CmdForceBreakLock}))
		assert.Contains(t, out.String(), "No lock was held.")
	})

	t.Run("lock removed", func(t *testing.T) {
		app, out := newTestApp(&stubSync{lock: &models.LockRecord{DeviceID: "dev-b", ProcessID: 42, HostName: "van-2"}})
		require.NoError(t, app.Run(context.Background(), []string{CmdForceBreakLock}))
		assert.Contains(t, out.String(), "dev-b")
		assert.Contains(t, out.String(), "pid 42")
	})
}

func TestApp_Run_Conflicts(t *testing.T) {
	local, err := models.ParseTimestamp("2026-01-01T10:00:00.000Z")
	require.NoError(t, err)
	remote, err := models.ParseTimestamp("2026-01-01T11:00:00.000Z")
	require.NoError(t, err)

	app, out := newTestApp(&stubSync{
		loadedPkg: &models.ExportPackage{DeviceID: "dev-b"},
		conflicts: []models.ConflictRecord{{
			Table:            "jobs",
			PrimaryKeyColumn: "id",
			PrimaryKeyValue:  models.IntValue(7),
			LocalUpdated:     local,
			RemoteUpdated:    remote,
		}},
	})

	require.NoError(t, app.Run(context.Background(), []string{CmdConflicts, "peer.json"}))
	text := out.String()
	assert.Contains(t, text, "CONFLICTS WITH dev-b")
	assert.Contains(t, text, "jobs id=7")
	assert.Contains(t, text, "remote wins")
}

func TestApp_Run_Version(t *testing.T) {
	app, out := newTestApp(&stubSync{})
	require.NoError(t, app.Run(context.Background(), []string{CmdVersion, "-json"}))

	var got map[string]string
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "1.2.3", got["version"])
	assert.Equal(t, "abc123", got["commit"])
}

func TestRegistryLockPath(t *testing.T) {
	assert.Equal(t, filepath.Join("data", registryLockFile), registryLockPath("data/inventory.db"))
	assert.Equal(t, filepath.Join("/var/lib", registryLockFile), registryLockPath("file:/var/lib/inventory.db?_fk=1"))
	assert.Equal(t, filepath.Join(os.TempDir(), registryLockFile), registryLockPath(":memory:"))
}

func TestNewApp_ExportAndStatus(t *testing.T) {
	dir := t.TempDir()
	share := filepath.Join(dir, "share")
	require.NoError(t, os.Mkdir(share, 0o755))

	cfg := &config.ClientConfig{
		Storage: config.ClientStorage{DSN: filepath.Join(dir, "inventory.db")},
		Sync: config.SyncConfig{
			Enabled:     true,
			FolderPath:  share,
			DeviceID:    "van-1",
			Interval:    time.Minute,
			Mode:        config.ModeFull,
			LockTimeout: time.Minute,
		},
	}

	out := &bytes.Buffer{}
	app, err := NewApp(context.Background(), cfg, models.NewAppBuildInfo("0.1.0", "", ""), out, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	require.NoError(t, app.Run(context.Background(), []string{CmdExport}))
	assert.FileExists(t, filepath.Join(share, folder.ExportFileName("van-1")))
	assert.Equal(t, "0.1.0", cfg.Sync.AppVersion)

	out.Reset()
	require.NoError(t, app.Run(context.Background(), []string{CmdStatus, "-json"}))

	var report models.StatusReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, "van-1", report.DeviceID)
	assert.True(t, report.Configured)
	assert.Empty(t, report.OtherDevices)
}

type stubJob struct {
	started chan time.Duration
	stopped bool
}

func (j *stubJob) Start(_ context.Context, interval time.Duration) { j.started <- interval }

func (j *stubJob) Stop() { j.stopped = true }

func (j *stubJob) LastStatus() (models.SyncStatus, bool) {
	return models.SyncStatus{State: models.StateSuccess}, true
}

func TestApp_Run_WatchStopsOnCancel(t *testing.T) {
	out := &bytes.Buffer{}
	job := &stubJob{started: make(chan time.Duration, 1)}
	cfg := &config.ClientConfig{Sync: config.SyncConfig{Interval: 3 * time.Minute}}
	app := newApp(cfg, &service.Services{SyncService: &stubSync{}, SyncJob: job}, models.AppBuildInfo{}, out, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx, []string{CmdWatch}) }()

	select {
	case interval := <-job.started:
		assert.Equal(t, 3*time.Minute, interval)
	case <-time.After(time.Second):
		t.Fatal("sync job was not started")
	}
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watch did not stop")
	}
	assert.True(t, job.stopped)
	assert.Contains(t, out.String(), "watching as dev-a")
	assert.Contains(t, out.String(), "Status: success")
}
