// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package registry

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/wiredsync/internal/folder"
	"github.com/MKhiriev/wiredsync/models"
)

func newSharedFolder(t *testing.T) *folder.Folder {
	t.Helper()
	mfs := afero.NewMemMapFs()
	require.NoError(t, mfs.MkdirAll("/share", 0o755))
	return folder.New(mfs, "/share")
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestRegisterDeviceUpserts(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	r := New(newSharedFolder(t), WithClock(clock.now))
	ctx := context.Background()

	require.NoError(t, r.RegisterDevice(ctx, models.DeviceEntry{DeviceID: "truck-1", HostName: "van", AppVersion: "1.0"}))
	first := r.Devices()
	require.Len(t, first, 1)
	assert.Equal(t, "2026-03-01T12:00:00.000Z", first[0].LastSeen.String())

	clock.advance(time.Hour)
	require.NoError(t, r.RegisterDevice(ctx, models.DeviceEntry{DeviceID: "truck-1", HostName: "van", AppVersion: "1.1"}))

	devices := r.Devices()
	require.Len(t, devices, 1)
	assert.Equal(t, "1.1", devices[0].AppVersion)
	assert.True(t, devices[0].LastSeen.After(first[0].LastSeen))
}

func TestDevicesSortedAndShared(t *testing.T) {
	f := newSharedFolder(t)
	ctx := context.Background()

	require.NoError(t, New(f).RegisterDevice(ctx, models.DeviceEntry{DeviceID: "office"}))
	require.NoError(t, New(f).RegisterDevice(ctx, models.DeviceEntry{DeviceID: "field"}))

	devices := New(f).Devices()
	require.Len(t, devices, 2)
	assert.Equal(t, "field", devices[0].DeviceID)
	assert.Equal(t, "office", devices[1].DeviceID)
}

func TestRegisterDeviceRequiresID(t *testing.T) {
	r := New(newSharedFolder(t))
	assert.ErrorIs(t, r.RegisterDevice(context.Background(), models.DeviceEntry{}), ErrEmptyDeviceID)
}

func TestHistoryEmpty(t *testing.T) {
	r := New(newSharedFolder(t))
	assert.Empty(t, r.RecentHistory(10))
}

func TestRecentHistoryNewestLast(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	r := New(newSharedFolder(t), WithClock(clock.now))
	ctx := context.Background()

	require.NoError(t, r.LogEvent(ctx, models.HistoryEntry{DeviceID: "a", EventType: models.EventExport}))
	clock.advance(time.Second)
	require.NoError(t, r.LogEvent(ctx, models.HistoryEntry{
		DeviceID:  "a",
		EventType: models.EventImport,
		Details:   map[string]any{"rows": 3},
	}))

	latest := r.RecentHistory(1)
	require.Len(t, latest, 1)
	assert.Equal(t, models.EventImport, latest[0].EventType)
	assert.Equal(t, "a", latest[0].DeviceID)
	assert.Equal(t, float64(3), latest[0].Details["rows"])
	assert.Equal(t, "2026-03-01T12:00:01.000Z", latest[0].Timestamp.String())

	all := r.RecentHistory(0)
	require.Len(t, all, 2)
	assert.Equal(t, models.EventExport, all[0].EventType)
}

func TestHistoryCapped(t *testing.T) {
	r := New(newSharedFolder(t))
	ctx := context.Background()

	for i := 0; i < MaxHistoryEntries+10; i++ {
		require.NoError(t, r.LogEvent(ctx, models.HistoryEntry{
			DeviceID:  strconv.Itoa(i),
			EventType: models.EventSyncComplete,
		}))
	}

	all := r.RecentHistory(0)
	require.Len(t, all, MaxHistoryEntries)
	assert.Equal(t, "10", all[0].DeviceID)
	assert.Equal(t, strconv.Itoa(MaxHistoryEntries+9), all[len(all)-1].DeviceID)
}

func TestCorruptFilesStartEmpty(t *testing.T) {
	f := newSharedFolder(t)
	require.NoError(t, f.WriteFileAtomic(folder.RegistryFileName, []byte("{oops")))
	require.NoError(t, f.WriteFileAtomic(folder.HistoryFileName, []byte("not json")))

	r := New(f)
	assert.Empty(t, r.Devices())
	assert.Empty(t, r.RecentHistory(5))

	require.NoError(t, r.RegisterDevice(context.Background(), models.DeviceEntry{DeviceID: "x"}))
	assert.Len(t, r.Devices(), 1)
}

func TestLocalLockSerializesWriters(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "registry.lock")
	r := New(newSharedFolder(t), WithLocalLock(lockPath))

	other := flock.New(lockPath)
	require.NoError(t, other.Lock())

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	err := r.RegisterDevice(ctx, models.DeviceEntry{DeviceID: "blocked"})
	assert.ErrorIs(t, err, ErrLocalLockBusy)
	assert.Empty(t, r.Devices())

	require.NoError(t, other.Unlock())
	require.NoError(t, r.RegisterDevice(context.Background(), models.DeviceEntry{DeviceID: "free"}))
	assert.Len(t, r.Devices(), 1)
}
