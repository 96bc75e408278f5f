// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/wiredsync/internal/config"
	"github.com/MKhiriev/wiredsync/internal/logger"
)

// Storages groups the local store repositories into a single value that can
// be passed to the service layer.
type Storages struct {
	// Rows is row-level access to the inventory tables.
	Rows SyncStore

	// Settings holds the device id and last sync time.
	Settings SettingsRepository

	db *DB
}

// NewStorages initialises the storage layer:
//  1. Opens an SQLite connection to cfg.DSN, creating the file if needed.
//  2. Runs pending schema migrations via [DB.Migrate].
//  3. Wires the row and settings repositories to the connection.
func NewStorages(ctx context.Context, cfg config.ClientStorage, logger *logger.Logger) (*Storages, error) {
	logger.Debug().Str("func", "NewStorages").Msg("creating new storages...")

	db, err := NewConnectSQLite(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &Storages{
		Rows:     NewRowRepository(db, logger),
		Settings: NewSettingsRepository(db, logger),
		db:       db,
	}, nil
}

// Close releases the database connection.
func (s *Storages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
