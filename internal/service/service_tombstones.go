// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/MKhiriev/wiredsync/internal/folder"
	"github.com/MKhiriev/wiredsync/internal/logger"
	"github.com/MKhiriev/wiredsync/internal/store"
	"github.com/MKhiriev/wiredsync/models"
)

type tombstoneTracker struct {
	store  store.SyncStore
	tables models.TableSet
	folder *folder.Folder
	logger *logger.Logger
}

// NewTombstoneTracker returns a [TombstoneTracker] keeping id snapshots in f.
func NewTombstoneTracker(st store.SyncStore, tables models.TableSet, f *folder.Folder, logger *logger.Logger) TombstoneTracker {
	return &tombstoneTracker{
		store:  st,
		tables: tables,
		folder: f,
		logger: logger,
	}
}

func (t *tombstoneTracker) BuildWithDeletions(ctx context.Context, pkg *models.ExportPackage, prior *models.IDSnapshot) (*models.IDSnapshot, []models.SkippedReason, error) {
	if pkg == nil {
		return nil, nil, ErrNilPackage
	}

	next := &models.IDSnapshot{
		DeviceID: pkg.DeviceID,
		TakenAt:  pkg.ExportedAt,
		Tables:   make(map[string][]models.Value),
	}

	var skipped []models.SkippedReason
	for _, table := range t.tables.Tables() {
		ids, err := t.currentIDs(ctx, table)
		if err != nil {
			t.logger.Warn().
				Err(err).
				Str("func", "tombstoneTracker.BuildWithDeletions").
				Str("table", table).
				Msg("ids unreadable, keeping previous snapshot")
			skipped = append(skipped, models.SkippedReason{
				Kind:    models.SkipTableReadFailed,
				Table:   table,
				Class:   string(store.Classify(err)),
				Message: err.Error(),
			})
			// an unreadable table must not look like every row was deleted
			if prior != nil {
				if prev, ok := prior.Tables[table]; ok {
					next.Tables[table] = prev
				}
			}
			continue
		}
		if len(ids) > 0 {
			next.Tables[table] = ids
		}

		if prior == nil {
			continue
		}
		if deleted := diffIDs(prior.Tables[table], ids); len(deleted) > 0 {
			if pkg.Tombstones == nil {
				pkg.Tombstones = make(map[string][]models.Value)
			}
			pkg.Tombstones[table] = deleted
		}
	}

	return next, skipped, nil
}

func (t *tombstoneTracker) currentIDs(ctx context.Context, table string) ([]models.Value, error) {
	pk, err := t.store.PrimaryKey(ctx, table)
	if err != nil {
		return nil, err
	}
	return t.store.ReadColumn(ctx, table, pk)
}

// diffIDs returns the members of prev missing from current, in prev order.
func diffIDs(prev, current []models.Value) []models.Value {
	if len(prev) == 0 {
		return nil
	}
	present := make(map[string]struct{}, len(current))
	for _, v := range current {
		present[v.Key()] = struct{}{}
	}

	var deleted []models.Value
	for _, v := range prev {
		if _, ok := present[v.Key()]; !ok {
			deleted = append(deleted, v)
		}
	}
	return deleted
}

func (t *tombstoneTracker) LoadSnapshot(deviceID string) (*models.IDSnapshot, error) {
	var snap models.IDSnapshot
	err := t.folder.ReadJSON(folder.IDsFileName(deviceID), &snap)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if errors.Is(err, folder.ErrCorrupt) {
		t.logger.Warn().
			Err(err).
			Str("func", "tombstoneTracker.LoadSnapshot").
			Str("device_id", deviceID).
			Msg("discarding corrupt id snapshot")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read id snapshot: %w", err)
	}
	return &snap, nil
}

func (t *tombstoneTracker) SaveSnapshot(snapshot *models.IDSnapshot) error {
	if snapshot == nil {
		return nil
	}
	if err := t.folder.WriteJSON(folder.IDsFileName(snapshot.DeviceID), snapshot); err != nil {
		return fmt.Errorf("write id snapshot: %w", err)
	}
	return nil
}

func (t *tombstoneTracker) Apply(ctx context.Context, pkg *models.ExportPackage, summary *models.MergeSummary) {
	if pkg == nil || len(pkg.Tombstones) == 0 {
		return
	}
	if summary.Deleted == nil {
		summary.Deleted = make(map[string]int)
	}

	for _, table := range t.tables.Reversed() {
		ids, ok := pkg.Tombstones[table]
		if !ok || len(ids) == 0 {
			continue
		}

		pk, err := t.store.PrimaryKey(ctx, table)
		if err != nil {
			summary.Reasons = append(summary.Reasons, models.SkippedReason{
				Kind:     models.SkipTombstoneFailed,
				DeviceID: pkg.DeviceID,
				Table:    table,
				Class:    string(store.Classify(err)),
				Message:  err.Error(),
			})
			continue
		}

		for _, id := range ids {
			reason, deleted := t.applyOne(ctx, pkg, table, pk, id)
			if reason != nil {
				summary.Reasons = append(summary.Reasons, *reason)
				continue
			}
			if deleted {
				summary.Deleted[table]++
			}
		}
	}
}

// applyOne deletes a single row unless the local copy changed after the
// peer exported its deletion.
func (t *tombstoneTracker) applyOne(ctx context.Context, pkg *models.ExportPackage, table, pk string, id models.Value) (*models.SkippedReason, bool) {
	fail := func(kind models.SkipKind, err error) *models.SkippedReason {
		t.logger.Warn().
			Err(err).
			Str("func", "tombstoneTracker.applyOne").
			Str("table", table).
			Str("key", id.String()).
			Str("device_id", pkg.DeviceID).
			Msg("tombstone not applied")
		return &models.SkippedReason{
			Kind:     kind,
			DeviceID: pkg.DeviceID,
			Table:    table,
			Key:      id.String(),
			Class:    string(store.Classify(err)),
			Message:  err.Error(),
		}
	}

	if t.tables.IsTimestamped(table) && !pkg.ExportedAt.IsZero() {
		local, found, err := t.store.GetRow(ctx, table, pk, id)
		if err != nil {
			return fail(models.SkipTombstoneFailed, err), false
		}
		if !found {
			return nil, false
		}
		if v, ok := local.Get(models.ColumnUpdatedAt); ok {
			if ts, err := models.TimestampFromValue(v); err == nil && ts.After(pkg.ExportedAt) {
				return fail(models.SkipModifiedAfterDelete,
					fmt.Errorf("local row updated at %s, deleted at %s", ts, pkg.ExportedAt)), false
			}
		}
	}

	deleted, err := t.store.DeleteRow(ctx, table, pk, id)
	if err != nil {
		return fail(models.SkipTombstoneFailed, err), false
	}
	return nil, deleted
}
