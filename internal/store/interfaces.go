// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"

	"github.com/MKhiriev/wiredsync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// SyncStore is row-level access to the local inventory database by table
// name, primary key, and column values.
type SyncStore interface {
	// Tables lists the application tables present in the database.
	Tables(ctx context.Context) ([]string, error)
	// Columns lists the columns of table in declaration order.
	Columns(ctx context.Context, table string) ([]string, error)
	// PrimaryKey returns the primary-key column of table, "id" when the
	// table declares none.
	PrimaryKey(ctx context.Context, table string) (string, error)

	ReadAllRows(ctx context.Context, table string) ([]models.Row, error)
	// ReadRowsSince returns rows whose column is strictly after since.
	ReadRowsSince(ctx context.Context, table, column string, since models.Timestamp) ([]models.Row, error)
	// ReadColumn returns one column of every row.
	ReadColumn(ctx context.Context, table, column string) ([]models.Value, error)

	GetRow(ctx context.Context, table, pkColumn string, pk models.Value) (models.Row, bool, error)
	InsertRow(ctx context.Context, table string, row models.Row) error
	// UpdateRow overwrites every column of row except pkColumn.
	UpdateRow(ctx context.Context, table, pkColumn string, pk models.Value, row models.Row) error
	// DeleteRow reports whether a row was removed.
	DeleteRow(ctx context.Context, table, pkColumn string, pk models.Value) (bool, error)

	CurrentSchemaVersion(ctx context.Context) (int64, error)
}

// SettingsRepository persists small per-device values such as the device id
// and the last sync time.
type SettingsRepository interface {
	// GetSetting returns [ErrSettingNotFound] for keys never written.
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}
