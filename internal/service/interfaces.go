// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"time"

	"github.com/MKhiriev/wiredsync/models"
)

// ExportBuilder produces export packages from the local store.
type ExportBuilder interface {
	// BuildFull reads every row of every sync table.
	BuildFull(ctx context.Context, deviceID string) (ExportResult, error)

	// BuildIncremental reads only rows whose updated_at, or created_at when
	// the table has no updated_at, is strictly after since. Tables with
	// neither column are exported in full. A nil since falls back to
	// BuildFull.
	BuildIncremental(ctx context.Context, deviceID string, since *models.Timestamp) (ExportResult, error)
}

// TombstoneTracker turns local deletions into tombstones and applies the
// tombstones of peers.
type TombstoneTracker interface {
	// BuildWithDeletions attaches to pkg the primary keys present in prior
	// but gone from the store now, and returns the snapshot to keep for the
	// next export. A nil prior yields no tombstones.
	BuildWithDeletions(ctx context.Context, pkg *models.ExportPackage, prior *models.IDSnapshot) (*models.IDSnapshot, []models.SkippedReason, error)

	// LoadSnapshot reads the device's previous id snapshot, or nil when
	// there is none.
	LoadSnapshot(deviceID string) (*models.IDSnapshot, error)

	// SaveSnapshot replaces the device's id snapshot.
	SaveSnapshot(snapshot *models.IDSnapshot) error

	// Apply deletes the rows named by pkg's tombstones, children first, and
	// records the outcome in summary.
	Apply(ctx context.Context, pkg *models.ExportPackage, summary *models.MergeSummary)
}

// MergeEngine merges one accepted peer package into the local store.
type MergeEngine interface {
	// Merge applies last-writer-wins to timestamped tables and
	// insert-if-absent to append-only tables. Row failures are recorded in
	// the returned summary and never abort the merge.
	Merge(ctx context.Context, pkg *models.ExportPackage) models.MergeSummary
}

// ConflictDetector reports rows edited on both sides. It never writes.
type ConflictDetector interface {
	Detect(ctx context.Context, pkg *models.ExportPackage) []models.ConflictRecord
}

// SchemaGate decides whether a peer package may be merged at all.
type SchemaGate interface {
	// Check returns nil when pkg carries the local schema version and an
	// error wrapping [ErrSchemaMismatch] otherwise.
	Check(localVersion int64, pkg *models.ExportPackage) error
}

// SyncService is the surface used by the CLI and watch mode.
type SyncService interface {
	// DeviceID returns the identity this service exports under.
	DeviceID() string

	// Export writes this device's package to the shared folder under the
	// folder lock and returns the file path.
	Export(ctx context.Context) (string, error)

	// ImportFromPeers merges every peer package under the folder lock.
	ImportFromPeers(ctx context.Context) (models.MergeSummary, error)

	// Sync runs export then import while holding the folder lock once.
	Sync(ctx context.Context) (models.MergeSummary, error)

	// SyncSafe runs a full cycle and reports every outcome as a status. It
	// never returns an error and never panics.
	SyncSafe(ctx context.Context) models.SyncStatus

	Status(ctx context.Context) (models.StatusReport, error)
	DetailedStatus(ctx context.Context) (models.DetailedStatusReport, error)

	// LoadPackage reads an export package from path.
	LoadPackage(path string) (*models.ExportPackage, error)
	DetectConflicts(ctx context.Context, pkg *models.ExportPackage) ([]models.ConflictRecord, error)

	// ForceBreakLock removes the folder lock regardless of age. It returns
	// nil when there was no lock.
	ForceBreakLock(ctx context.Context) (*models.LockRecord, error)

	VerifySyncTables(ctx context.Context) (models.TableVerification, error)
	CheckSchemaCompatibility(ctx context.Context) (models.SchemaCompatibility, error)
}

// SyncJob runs SyncSafe on a ticker until stopped.
type SyncJob interface {
	// Start launches the job. A running job is stopped first.
	Start(ctx context.Context, interval time.Duration)

	// Stop cancels the job and waits for it to exit.
	Stop()

	// LastStatus returns the status of the most recent cycle.
	LastStatus() (models.SyncStatus, bool)
}

// IDGenerator mints device identifiers.
type IDGenerator interface {
	Generate() string
}
