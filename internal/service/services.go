// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/wiredsync/internal/config"
	"github.com/MKhiriev/wiredsync/internal/folder"
	"github.com/MKhiriev/wiredsync/internal/logger"
	"github.com/MKhiriev/wiredsync/internal/registry"
	"github.com/MKhiriev/wiredsync/internal/store"
	"github.com/MKhiriev/wiredsync/internal/utils"
	"github.com/MKhiriev/wiredsync/models"
)

type Services struct {
	SyncService SyncService
	SyncJob     SyncJob
}

// NewServices resolves the device identity and wires the sync engine onto
// the operating-system filesystem. registryLockPath names a local file used
// to serialize registry writes between processes on this host; empty
// disables it.
func NewServices(ctx context.Context, storages *store.Storages, cfg config.SyncConfig, registryLockPath string, logger *logger.Logger) (*Services, error) {
	deviceID, err := ResolveDeviceID(ctx, storages.Settings, cfg.DeviceID, utils.NewDeviceIDGenerator())
	if err != nil {
		return nil, err
	}

	f := folder.NewOS(cfg.FolderPath)
	syncSvc := NewSyncService(SyncDeps{
		Store:    storages.Rows,
		Settings: storages.Settings,
		Folder:   f,
		Tables:   models.DefaultTableSet(),
		DeviceID: deviceID,
		Config:   cfg,
		Registry: registry.New(f,
			registry.WithLocalLock(registryLockPath),
			registry.WithLogger(logger),
		),
		Logger: logger,
	})

	return &Services{
		SyncService: syncSvc,
		SyncJob:     NewSyncJob(syncSvc, logger),
	}, nil
}

// ResolveDeviceID returns the configured id, else the persisted id, else a
// freshly generated one. Whatever is returned is persisted.
func ResolveDeviceID(ctx context.Context, settings store.SettingsRepository, configured string, gen IDGenerator) (string, error) {
	stored, err := settings.GetSetting(ctx, store.SettingDeviceID)
	if err != nil && !errors.Is(err, store.ErrSettingNotFound) {
		return "", fmt.Errorf("read device id: %w", err)
	}

	id := configured
	if id == "" {
		id = stored
	}
	if id == "" {
		id = gen.Generate()
	}
	if !models.ValidDeviceID(id) {
		return "", fmt.Errorf("%w: %q", models.ErrInvalidDeviceID, id)
	}

	if id != stored {
		if err = settings.SetSetting(ctx, store.SettingDeviceID, id); err != nil {
			return "", fmt.Errorf("save device id: %w", err)
		}
	}
	return id, nil
}
