// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/wiredsync/internal/config"
	"github.com/MKhiriev/wiredsync/internal/logger"
	"github.com/MKhiriev/wiredsync/models"
)

type syncJob struct {
	syncService SyncService
	logger      *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup

	last    models.SyncStatus
	hasLast bool
}

// NewSyncJob creates a syncJob that calls syncService.SyncSafe on a ticker.
// The job is idle until Start is called.
func NewSyncJob(syncService SyncService, logger *logger.Logger) SyncJob {
	return &syncJob{syncService: syncService, logger: logger}
}

// Start implements SyncJob. It stops any previously running job, then
// launches a background goroutine that calls SyncSafe every interval. If
// interval is zero or negative it defaults to the configured default. The
// goroutine exits when ctx is cancelled or Stop is called.
func (j *syncJob) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = config.DefaultIntervalMinutes * time.Minute
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				j.run(jobCtx)
			}
		}
	}()
}

func (j *syncJob) run(ctx context.Context) {
	status := j.syncService.SyncSafe(ctx)

	j.mu.Lock()
	j.last = status
	j.hasLast = true
	j.mu.Unlock()

	j.logger.Info().
		Str("func", "syncJob.run").
		Str("status", string(status.State)).
		Str("reason", status.Reason).
		Msg("periodic sync finished")
}

// Stop implements SyncJob. It cancels the background goroutine's context and
// blocks until the goroutine has fully exited. Safe to call when the job is
// not running.
func (j *syncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}

func (j *syncJob) LastStatus() (models.SyncStatus, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.last, j.hasLast
}
