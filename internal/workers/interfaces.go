// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package workers provides the long-running background workers of watch
// mode. It defines the Worker interface and a Workers aggregate that runs
// several workers until their context is cancelled.
package workers

import (
	"context"

	"github.com/MKhiriev/wiredsync/models"
)

// Worker is the interface that must be implemented by any background worker.
// Run blocks until ctx is cancelled or the worker fails.
//
// Example implementation:
//
//	type MyWorker struct{}
//
//	func (w *MyWorker) Run(ctx context.Context) error {
//	    <-ctx.Done()
//	    return nil
//	}
type Worker interface {
	Run(ctx context.Context) error
}

// Importer merges peer packages on demand.
type Importer interface {
	ImportFromPeers(ctx context.Context) (models.MergeSummary, error)
}
