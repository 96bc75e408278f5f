// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MKhiriev/wiredsync/internal/logger"
	"github.com/MKhiriev/wiredsync/models"
)

type recordingJob struct {
	mu       sync.Mutex
	started  time.Duration
	stopped  bool
	startCnt int
}

func (j *recordingJob) Start(_ context.Context, interval time.Duration) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.started = interval
	j.startCnt++
}

func (j *recordingJob) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.stopped = true
}

func (j *recordingJob) LastStatus() (models.SyncStatus, bool) { return models.SyncStatus{}, false }

func TestSyncWorker_Run(t *testing.T) {
	job := &recordingJob{}
	w := NewSyncWorker(job, 3*time.Minute, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- w.Run(ctx) }()

	assert.Eventually(t, func() bool {
		job.mu.Lock()
		defer job.mu.Unlock()
		return job.startCnt == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)

	job.mu.Lock()
	defer job.mu.Unlock()
	assert.Equal(t, 3*time.Minute, job.started)
	assert.True(t, job.stopped)
}
