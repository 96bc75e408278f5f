// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/wiredsync/internal/logger"
	"github.com/MKhiriev/wiredsync/internal/store"
	"github.com/MKhiriev/wiredsync/models"
)

type mergeEngine struct {
	store  store.SyncStore
	tables models.TableSet
	logger *logger.Logger
}

// NewMergeEngine returns a [MergeEngine] writing into st.
func NewMergeEngine(st store.SyncStore, tables models.TableSet, logger *logger.Logger) MergeEngine {
	return &mergeEngine{
		store:  st,
		tables: tables,
		logger: logger,
	}
}

func (m *mergeEngine) Merge(ctx context.Context, pkg *models.ExportPackage) models.MergeSummary {
	summary := models.NewMergeSummary()
	if pkg == nil {
		return summary
	}

	for table := range pkg.Tables {
		if !m.tables.Contains(table) {
			m.logger.Debug().
				Str("func", "mergeEngine.Merge").
				Str("table", table).
				Str("device_id", pkg.DeviceID).
				Msg("ignoring table outside the sync set")
		}
	}

	// parents before children
	for _, table := range m.tables.Tables() {
		rows, ok := pkg.Tables[table]
		if !ok || len(rows) == 0 {
			continue
		}

		pk, err := m.store.PrimaryKey(ctx, table)
		if err != nil {
			m.logger.Warn().
				Err(err).
				Str("func", "mergeEngine.Merge").
				Str("table", table).
				Msg("table skipped")
			summary.Reasons = append(summary.Reasons, models.SkippedReason{
				Kind:     models.SkipRowMergeFailed,
				DeviceID: pkg.DeviceID,
				Table:    table,
				Class:    string(store.Classify(err)),
				Message:  err.Error(),
			})
			continue
		}

		merged := 0
		for _, row := range rows {
			ok, reason := m.mergeRow(ctx, pkg.DeviceID, table, pk, row)
			if reason != nil {
				summary.Reasons = append(summary.Reasons, *reason)
			}
			if ok {
				merged++
			}
		}
		if merged > 0 {
			summary.Merged[table] = merged
		}
	}

	return summary
}

// mergeRow reports whether the row was inserted or overwritten.
func (m *mergeEngine) mergeRow(ctx context.Context, deviceID, table, pk string, row models.Row) (bool, *models.SkippedReason) {
	reason := func(kind models.SkipKind, key string, err error) *models.SkippedReason {
		m.logger.Warn().
			Err(err).
			Str("func", "mergeEngine.mergeRow").
			Str("table", table).
			Str("key", key).
			Str("device_id", deviceID).
			Msg("row skipped")
		r := &models.SkippedReason{
			Kind:     kind,
			DeviceID: deviceID,
			Table:    table,
			Key:      key,
			Message:  err.Error(),
		}
		if kind == models.SkipRowMergeFailed {
			r.Class = string(store.Classify(err))
		}
		return r
	}

	id, ok := row.Get(pk)
	if !ok || id.IsNull() {
		return false, reason(models.SkipMissingPrimaryKey, "", fmt.Errorf("row has no %q value", pk))
	}
	key := id.String()

	local, found, err := m.store.GetRow(ctx, table, pk, id)
	if err != nil {
		return false, reason(models.SkipRowMergeFailed, key, err)
	}

	if !found {
		if err = m.store.InsertRow(ctx, table, row); err != nil {
			return false, reason(models.SkipRowMergeFailed, key, err)
		}
		return true, nil
	}

	if !m.tables.IsTimestamped(table) {
		return false, nil
	}

	newer, err := isNewer(row, local)
	if err != nil {
		return false, reason(models.SkipBadTimestamp, key, err)
	}
	if !newer {
		return false, nil
	}

	if err = m.store.UpdateRow(ctx, table, pk, id, row); err != nil {
		return false, reason(models.SkipRowMergeFailed, key, err)
	}
	return true, nil
}

// isNewer reports whether incoming's updated_at is strictly after local's.
// An unparseable timestamp on either side is never newer.
func isNewer(incoming, local models.Row) (bool, error) {
	in, err := rowUpdatedAt(incoming)
	if err != nil {
		return false, fmt.Errorf("incoming %s: %w", models.ColumnUpdatedAt, err)
	}
	cur, err := rowUpdatedAt(local)
	if err != nil {
		return false, fmt.Errorf("local %s: %w", models.ColumnUpdatedAt, err)
	}
	return in.After(cur), nil
}

func rowUpdatedAt(row models.Row) (models.Timestamp, error) {
	v, ok := row.Get(models.ColumnUpdatedAt)
	if !ok {
		return models.Timestamp{}, models.ErrEmptyTimestamp
	}
	return models.TimestampFromValue(v)
}
