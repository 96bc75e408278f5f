// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/wiredsync/internal/logger"
	"github.com/MKhiriev/wiredsync/internal/service"
)

// SyncWorker drives a periodic sync job for the lifetime of its context.
type SyncWorker struct {
	job      service.SyncJob
	interval time.Duration
	logger   *logger.Logger
}

func NewSyncWorker(job service.SyncJob, interval time.Duration, logger *logger.Logger) *SyncWorker {
	return &SyncWorker{job: job, interval: interval, logger: logger}
}

func (w *SyncWorker) Run(ctx context.Context) error {
	w.logger.Info().
		Str("func", "SyncWorker.Run").
		Dur("interval", w.interval).
		Msg("periodic sync started")

	w.job.Start(ctx, w.interval)
	<-ctx.Done()
	w.job.Stop()

	w.logger.Info().Str("func", "SyncWorker.Run").Msg("periodic sync stopped")
	return nil
}
