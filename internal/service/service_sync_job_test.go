// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MKhiriev/wiredsync/internal/logger"
	"github.com/MKhiriev/wiredsync/models"
)

// countingSync is a SyncService whose SyncSafe only counts calls.
type countingSync struct {
	SyncService
	calls atomic.Int32
}

func (c *countingSync) SyncSafe(context.Context) models.SyncStatus {
	c.calls.Add(1)
	return models.SyncStatus{State: models.StateSuccess}
}

func TestSyncJob_RunsOnTicker(t *testing.T) {
	svc := &countingSync{}
	job := NewSyncJob(svc, logger.Nop())

	job.Start(context.Background(), 10*time.Millisecond)
	assert.Eventually(t, func() bool { return svc.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	job.Stop()

	after := svc.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, svc.calls.Load())

	status, ok := job.LastStatus()
	assert.True(t, ok)
	assert.Equal(t, models.StateSuccess, status.State)
}

func TestSyncJob_StopsOnContextCancel(t *testing.T) {
	svc := &countingSync{}
	job := NewSyncJob(svc, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	job.Start(ctx, time.Hour)
	cancel()
	job.Stop()

	_, ok := job.LastStatus()
	assert.False(t, ok)
	assert.Zero(t, svc.calls.Load())
}

func TestSyncJob_StopIdle(t *testing.T) {
	job := NewSyncJob(&countingSync{}, logger.Nop())
	job.Stop()
}
