// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"

	"github.com/MKhiriev/wiredsync/models"
)

// validate checks the merged [StructuredConfig] for values no projection can
// repair.
func (cfg *StructuredConfig) validate() error {
	if cfg.Sync.IntervalMinutes < 0 {
		return fmt.Errorf("%w: interval_minutes must not be negative", ErrInvalidSyncConfigs)
	}

	if cfg.Sync.LockTimeout < 0 {
		return fmt.Errorf("%w: lock_timeout must not be negative", ErrInvalidSyncConfigs)
	}

	if cfg.Sync.LockRetries < 0 {
		return fmt.Errorf("%w: lock_retries must not be negative", ErrInvalidSyncConfigs)
	}

	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	switch cfg.Sync.Mode {
	case ModeFull, ModeIncremental:
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidSyncConfigs, cfg.Sync.Mode)
	}

	if id := cfg.Sync.DeviceID; id != "" && !models.ValidDeviceID(id) {
		return fmt.Errorf("%w: %w: %q", ErrInvalidSyncConfigs, models.ErrInvalidDeviceID, id)
	}

	return nil
}
