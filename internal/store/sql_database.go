// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"

	"github.com/MKhiriev/wiredsync/internal/logger"
	"github.com/MKhiriev/wiredsync/migrations"
)

type DB struct {
	*sql.DB
	errorClassifier *SQLiteErrorClassifier
	logger          *logger.Logger
}

func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB)
}

// SchemaVersion returns the applied migration version.
func (db *DB) SchemaVersion(_ context.Context) (int64, error) {
	return migrations.Version(db.DB)
}
