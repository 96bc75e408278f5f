// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/wiredsync/internal/logger"
	"github.com/MKhiriev/wiredsync/internal/store"
	"github.com/MKhiriev/wiredsync/models"
)

type conflictDetector struct {
	store  store.SyncStore
	tables models.TableSet
	logger *logger.Logger
}

// NewConflictDetector returns a read-only [ConflictDetector] over st.
func NewConflictDetector(st store.SyncStore, tables models.TableSet, logger *logger.Logger) ConflictDetector {
	return &conflictDetector{
		store:  st,
		tables: tables,
		logger: logger,
	}
}

func (d *conflictDetector) Detect(ctx context.Context, pkg *models.ExportPackage) []models.ConflictRecord {
	if pkg == nil {
		return nil
	}

	var conflicts []models.ConflictRecord
	for _, table := range d.tables.Tables() {
		rows, ok := pkg.Tables[table]
		if !ok || !d.tables.IsTimestamped(table) {
			continue
		}

		pk, err := d.store.PrimaryKey(ctx, table)
		if err != nil {
			d.logger.Debug().
				Err(err).
				Str("func", "conflictDetector.Detect").
				Str("table", table).
				Msg("table not inspected")
			continue
		}

		for _, remote := range rows {
			id, ok := remote.Get(pk)
			if !ok || id.IsNull() {
				continue
			}
			local, found, err := d.store.GetRow(ctx, table, pk, id)
			if err != nil || !found {
				continue
			}
			if !timestampsDiffer(local, remote) || !businessDataDiffers(local, remote) {
				continue
			}

			localTS, _ := rowUpdatedAt(local)
			remoteTS, _ := rowUpdatedAt(remote)
			conflicts = append(conflicts, models.ConflictRecord{
				Table:            table,
				PrimaryKeyColumn: pk,
				PrimaryKeyValue:  id,
				LocalUpdated:     localTS,
				RemoteUpdated:    remoteTS,
				LocalRow:         local,
				RemoteRow:        remote,
			})
		}
	}

	return conflicts
}

// timestampsDiffer compares parsed updated_at values, falling back to the
// raw values when either side does not parse.
func timestampsDiffer(local, remote models.Row) bool {
	l, lerr := rowUpdatedAt(local)
	r, rerr := rowUpdatedAt(remote)
	if lerr == nil && rerr == nil {
		return !l.Equal(r)
	}
	lv, _ := local.Get(models.ColumnUpdatedAt)
	rv, _ := remote.Get(models.ColumnUpdatedAt)
	return !lv.Equal(rv)
}

// businessDataDiffers reports whether any column of remote other than the
// timestamps holds a different value locally.
func businessDataDiffers(local, remote models.Row) bool {
	for _, c := range remote {
		if c.Name == models.ColumnUpdatedAt || c.Name == models.ColumnCreatedAt {
			continue
		}
		lv, ok := local.Get(c.Name)
		if !ok || !lv.Equal(c.Value) {
			return true
		}
	}
	return false
}
