// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/MKhiriev/wiredsync/internal/folder"
	"github.com/MKhiriev/wiredsync/internal/store"
	"github.com/MKhiriev/wiredsync/models"
)

const unknownVersion = "unknown"

func (s *syncService) configured() bool {
	return s.cfg.Enabled && s.folder.Root() != "" && s.folder.Exists()
}

func (s *syncService) Status(ctx context.Context) (models.StatusReport, error) {
	report := models.StatusReport{
		Enabled:         s.cfg.Enabled,
		Configured:      s.configured(),
		DeviceID:        s.deviceID,
		SyncFolder:      s.folder.Root(),
		IntervalMinutes: int(s.cfg.Interval / time.Minute),
		OtherDevices:    []models.PeerFile{},
	}
	if ts := s.settingTimestamp(ctx, store.SettingLastSyncTimestamp); ts != nil {
		report.LastSync = *ts
	}

	if !report.Configured {
		return report, nil
	}

	files, err := s.peerFiles()
	if err != nil {
		return report, err
	}
	for _, f := range files {
		report.OtherDevices = append(report.OtherDevices, models.PeerFile{
			DeviceID:     f.DeviceID,
			LastModified: models.NewTimestamp(f.Info.ModTime()),
			SizeBytes:    f.Info.Size(),
		})
	}

	return report, nil
}

func (s *syncService) DetailedStatus(ctx context.Context) (models.DetailedStatusReport, error) {
	base, err := s.Status(ctx)
	if err != nil {
		return models.DetailedStatusReport{}, err
	}

	report := models.DetailedStatusReport{
		StatusReport:  base,
		RecentHistory: []models.HistoryEntry{},
		KnownDevices:  []models.DeviceEntry{},
		LastSyncHuman: models.HumanizeSince(base.LastSync, s.now()),
	}
	if !base.Configured {
		return report, nil
	}

	if report.LockInfo, err = s.locks.Inspect(); err != nil {
		s.logger.Warn().
			Err(err).
			Str("func", "syncService.DetailedStatus").
			Msg("lock not inspected")
	}
	if h := s.registry.RecentHistory(DetailedHistoryLimit); h != nil {
		report.RecentHistory = h
	}
	if d := s.registry.Devices(); d != nil {
		report.KnownDevices = d
	}
	if report.SchemaCompatibility, err = s.CheckSchemaCompatibility(ctx); err != nil {
		return report, err
	}

	return report, nil
}

func (s *syncService) CheckSchemaCompatibility(ctx context.Context) (models.SchemaCompatibility, error) {
	local, err := s.store.CurrentSchemaVersion(ctx)
	if err != nil {
		return models.SchemaCompatibility{}, fmt.Errorf("read schema version: %w", err)
	}

	report := models.SchemaCompatibility{
		LocalVersion:        local,
		CompatibleDevices:   []string{},
		IncompatibleDevices: []models.IncompatibleDevice{},
	}
	if s.folder.Root() == "" || !s.folder.Exists() {
		return report, nil
	}

	files, err := s.peerFiles()
	if err != nil {
		return report, err
	}
	for _, f := range files {
		pkg, err := s.readPackage(f.Name)
		if err != nil {
			report.IncompatibleDevices = append(report.IncompatibleDevices, models.IncompatibleDevice{
				DeviceID: f.DeviceID,
				File:     f.Name,
				Version:  unknownVersion,
			})
			continue
		}
		if pkg.DeviceID == s.deviceID {
			continue
		}
		if errors.Is(s.gate.Check(local, pkg), ErrSchemaMismatch) {
			report.IncompatibleDevices = append(report.IncompatibleDevices, models.IncompatibleDevice{
				DeviceID: pkg.DeviceID,
				File:     f.Name,
				Version:  strconv.FormatInt(pkg.SchemaVersion, 10),
			})
			continue
		}
		report.CompatibleDevices = append(report.CompatibleDevices, pkg.DeviceID)
	}

	return report, nil
}

func (s *syncService) VerifySyncTables(ctx context.Context) (models.TableVerification, error) {
	present, err := s.store.Tables(ctx)
	if err != nil {
		return models.TableVerification{}, fmt.Errorf("list tables: %w", err)
	}

	inDB := make(map[string]struct{}, len(present))
	for _, t := range present {
		inDB[t] = struct{}{}
	}

	report := models.TableVerification{
		SyncedTables:    s.tables.Tables(),
		MissingFromDB:   []string{},
		MissingFromSync: []string{},
	}
	for _, t := range report.SyncedTables {
		if _, ok := inDB[t]; !ok {
			report.MissingFromDB = append(report.MissingFromDB, t)
		}
	}
	for _, t := range present {
		if !s.tables.Contains(t) {
			report.MissingFromSync = append(report.MissingFromSync, t)
		}
	}
	sort.Strings(report.MissingFromSync)

	return report, nil
}

// peerFiles lists export files other than this device's own.
func (s *syncService) peerFiles() ([]folder.ExportFile, error) {
	files, err := s.folder.ListExports()
	if err != nil {
		return nil, err
	}
	own := folder.ExportFileName(s.deviceID)
	out := files[:0]
	for _, f := range files {
		if f.Name != own {
			out = append(out, f)
		}
	}
	return out, nil
}
