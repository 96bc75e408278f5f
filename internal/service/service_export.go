// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/wiredsync/internal/logger"
	"github.com/MKhiriev/wiredsync/internal/store"
	"github.com/MKhiriev/wiredsync/models"
)

// ExportResult is a built package plus the tables that could not be read.
type ExportResult struct {
	Package *models.ExportPackage
	Skipped []models.SkippedReason
}

type exportBuilder struct {
	store  store.SyncStore
	tables models.TableSet
	now    func() time.Time
	logger *logger.Logger
}

// NewExportBuilder returns an [ExportBuilder] reading tables from st.
func NewExportBuilder(st store.SyncStore, tables models.TableSet, logger *logger.Logger) ExportBuilder {
	return &exportBuilder{
		store:  st,
		tables: tables,
		now:    time.Now,
		logger: logger,
	}
}

func (b *exportBuilder) BuildFull(ctx context.Context, deviceID string) (ExportResult, error) {
	return b.build(ctx, deviceID, nil)
}

func (b *exportBuilder) BuildIncremental(ctx context.Context, deviceID string, since *models.Timestamp) (ExportResult, error) {
	if since == nil || since.IsZero() {
		return b.build(ctx, deviceID, nil)
	}
	return b.build(ctx, deviceID, since)
}

func (b *exportBuilder) build(ctx context.Context, deviceID string, since *models.Timestamp) (ExportResult, error) {
	version, err := b.store.CurrentSchemaVersion(ctx)
	if err != nil {
		return ExportResult{}, fmt.Errorf("read schema version: %w", err)
	}

	pkg := models.NewExportPackage(deviceID, version, models.NewTimestamp(b.now()))
	if since != nil {
		s := *since
		pkg.Incremental = true
		pkg.Since = &s
	}

	var skipped []models.SkippedReason
	for _, table := range b.tables.Tables() {
		rows, err := b.readTable(ctx, table, since)
		if err != nil {
			b.logger.Warn().
				Err(err).
				Str("func", "exportBuilder.build").
				Str("table", table).
				Msg("table skipped")
			skipped = append(skipped, models.SkippedReason{
				Kind:    models.SkipTableReadFailed,
				Table:   table,
				Class:   string(store.Classify(err)),
				Message: err.Error(),
			})
			continue
		}
		if len(rows) == 0 {
			continue
		}
		for i := range rows {
			rows[i] = normalizeTimestamps(rows[i])
		}
		pkg.Tables[table] = rows
	}

	b.logger.Debug().
		Str("func", "exportBuilder.build").
		Str("device_id", deviceID).
		Bool("incremental", pkg.Incremental).
		Int("tables", len(pkg.Tables)).
		Int("rows", pkg.RowCount()).
		Msg("export built")

	return ExportResult{Package: pkg, Skipped: skipped}, nil
}

func (b *exportBuilder) readTable(ctx context.Context, table string, since *models.Timestamp) ([]models.Row, error) {
	if since == nil {
		return b.store.ReadAllRows(ctx, table)
	}

	columns, err := b.store.Columns(ctx, table)
	if err != nil {
		return nil, err
	}

	switch {
	case contains(columns, models.ColumnUpdatedAt):
		return b.store.ReadRowsSince(ctx, table, models.ColumnUpdatedAt, *since)
	case contains(columns, models.ColumnCreatedAt):
		return b.store.ReadRowsSince(ctx, table, models.ColumnCreatedAt, *since)
	default:
		return b.store.ReadAllRows(ctx, table)
	}
}

// normalizeTimestamps rewrites parseable created_at and updated_at values
// to the canonical layout. Other values are left for the merge engine to
// report.
func normalizeTimestamps(row models.Row) models.Row {
	for _, col := range []string{models.ColumnCreatedAt, models.ColumnUpdatedAt} {
		v, ok := row.Get(col)
		if !ok || v.IsNull() {
			continue
		}
		ts, err := models.TimestampFromValue(v)
		if err != nil {
			continue
		}
		row = row.Set(col, ts.Value())
	}
	return row
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
