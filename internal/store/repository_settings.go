// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/wiredsync/internal/logger"
)

// Well-known settings keys.
const (
	SettingDeviceID            = "device_id"
	SettingLastSyncTimestamp   = "last_sync_timestamp"
	SettingLastExportTimestamp = "last_export_timestamp"
)

type settingsRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewSettingsRepository returns the [SettingsRepository] stored in the
// sync_settings table.
func NewSettingsRepository(db *DB, logger *logger.Logger) SettingsRepository {
	return &settingsRepository{
		db:     db,
		logger: logger,
	}
}

func (s *settingsRepository) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, getSetting, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrSettingNotFound
	}
	if err != nil {
		s.logger.Err(err).
			Str("func", "settingsRepository.GetSetting").
			Str("key", key).
			Msg("failed to read setting")
		return "", fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return value, nil
}

func (s *settingsRepository) SetSetting(ctx context.Context, key, value string) error {
	if _, err := s.db.ExecContext(ctx, setSetting, key, value); err != nil {
		s.logger.Err(err).
			Str("func", "settingsRepository.SetSetting").
			Str("key", key).
			Msg("failed to write setting")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}
