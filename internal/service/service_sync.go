// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/afero"

	"github.com/MKhiriev/wiredsync/internal/config"
	"github.com/MKhiriev/wiredsync/internal/folder"
	"github.com/MKhiriev/wiredsync/internal/lock"
	"github.com/MKhiriev/wiredsync/internal/logger"
	"github.com/MKhiriev/wiredsync/internal/registry"
	"github.com/MKhiriev/wiredsync/internal/store"
	"github.com/MKhiriev/wiredsync/internal/utils"
	"github.com/MKhiriev/wiredsync/models"
)

// DetailedHistoryLimit is how many history entries DetailedStatus returns.
const DetailedHistoryLimit = 10

// SyncDeps are the collaborators of the sync orchestrator. Registry and
// Locks default to instances on Folder when nil.
type SyncDeps struct {
	Store    store.SyncStore
	Settings store.SettingsRepository
	Folder   *folder.Folder
	Tables   models.TableSet
	DeviceID string
	Config   config.SyncConfig

	Registry *registry.Registry
	Locks    *lock.Manager
	Clock    func() time.Time
	Logger   *logger.Logger
}

type syncService struct {
	cfg      config.SyncConfig
	deviceID string
	hostName string

	store    store.SyncStore
	settings store.SettingsRepository
	folder   *folder.Folder
	tables   models.TableSet

	locks    *lock.Manager
	registry *registry.Registry

	exporter   ExportBuilder
	merger     MergeEngine
	detector   ConflictDetector
	tombstones TombstoneTracker
	gate       SchemaGate

	now    func() time.Time
	logger *logger.Logger
}

// NewSyncService wires the export, merge, conflict, tombstone, and schema
// components around one device identity.
func NewSyncService(deps SyncDeps) SyncService {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	host, _ := os.Hostname()

	locks := deps.Locks
	if locks == nil {
		locks = lock.NewManager(deps.Folder, deps.DeviceID,
			lock.WithTimeout(deps.Config.LockTimeout),
			lock.WithRetries(deps.Config.LockRetries),
			lock.WithClock(now),
			lock.WithLogger(log),
		)
	}
	reg := deps.Registry
	if reg == nil {
		reg = registry.New(deps.Folder, registry.WithClock(now), registry.WithLogger(log))
	}

	exporter := &exportBuilder{store: deps.Store, tables: deps.Tables, now: now, logger: log}

	return &syncService{
		cfg:        deps.Config,
		deviceID:   deps.DeviceID,
		hostName:   host,
		store:      deps.Store,
		settings:   deps.Settings,
		folder:     deps.Folder,
		tables:     deps.Tables,
		locks:      locks,
		registry:   reg,
		exporter:   exporter,
		merger:     NewMergeEngine(deps.Store, deps.Tables, log),
		detector:   NewConflictDetector(deps.Store, deps.Tables, log),
		tombstones: NewTombstoneTracker(deps.Store, deps.Tables, deps.Folder, log),
		gate:       NewSchemaGate(),
		now:        now,
		logger:     log,
	}
}

func (s *syncService) DeviceID() string { return s.deviceID }

// exportOutcome is what one export run produced.
type exportOutcome struct {
	path     string
	pkg      *models.ExportPackage
	skipped  []models.SkippedReason
	size     int
	checksum string
}

// importOutcome is what one import run produced.
type importOutcome struct {
	summary   models.MergeSummary
	corrupt   []string
	conflicts []models.ConflictRecord
}

func (s *syncService) Export(ctx context.Context) (string, error) {
	if err := s.checkFolder(); err != nil {
		return "", err
	}

	var out exportOutcome
	err := s.withLock(ctx, func(ctx context.Context) error {
		var err error
		out, err = s.exportLocked(ctx)
		return err
	})
	if err != nil {
		return "", err
	}

	s.touchLastSync(ctx)
	s.recordExport(ctx, out)
	return out.path, nil
}

func (s *syncService) ImportFromPeers(ctx context.Context) (models.MergeSummary, error) {
	if err := s.checkFolder(); err != nil {
		return models.NewMergeSummary(), err
	}

	var out importOutcome
	err := s.withLock(ctx, func(ctx context.Context) error {
		var err error
		out, err = s.importLocked(ctx)
		return err
	})
	if err != nil {
		return models.NewMergeSummary(), err
	}

	s.touchLastSync(ctx)
	s.recordImport(ctx, out)
	return out.summary, nil
}

func (s *syncService) Sync(ctx context.Context) (models.MergeSummary, error) {
	if err := s.checkFolder(); err != nil {
		return models.NewMergeSummary(), err
	}

	s.registerDevice(ctx)

	var (
		exported exportOutcome
		imported importOutcome
	)
	err := s.withLock(ctx, func(ctx context.Context) error {
		var err error
		if exported, err = s.exportLocked(ctx); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		if imported, err = s.importLocked(ctx); err != nil {
			return fmt.Errorf("import: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.NewMergeSummary(), err
	}

	s.touchLastSync(ctx)
	s.recordExport(ctx, exported)
	s.recordImport(ctx, imported)
	s.logEvent(ctx, models.EventSyncComplete, map[string]any{
		"merged":  imported.summary.TotalMerged(),
		"deleted": imported.summary.TotalDeleted(),
	})

	return imported.summary, nil
}

func (s *syncService) SyncSafe(ctx context.Context) (status models.SyncStatus) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().
				Str("func", "syncService.SyncSafe").
				Interface("panic", r).
				Msg("sync panicked")
			status = models.SyncStatus{State: models.StateError, Reason: fmt.Sprintf("internal error: %v", r)}
			s.logEvent(ctx, models.EventError, map[string]any{"error": status.Reason})
		}
	}()

	if !s.cfg.Enabled {
		return models.SyncStatus{State: models.StateDisabled}
	}
	if err := s.folder.CheckWritable(); err != nil {
		if errors.Is(err, folder.ErrNotConfigured) {
			return models.SyncStatus{State: models.StateNotConfigured}
		}
		s.logger.Warn().
			Err(err).
			Str("func", "syncService.SyncSafe").
			Str("folder", s.folder.Root()).
			Msg("sync folder unavailable")
		return models.SyncStatus{State: models.StateOffline, Reason: err.Error()}
	}

	summary, err := s.Sync(ctx)
	if err != nil {
		state := models.StateError
		if errors.Is(err, lock.ErrLockContention) {
			state = models.StateLocked
		}
		s.logger.Warn().
			Err(err).
			Str("func", "syncService.SyncSafe").
			Str("status", string(state)).
			Msg("sync failed")
		s.logEvent(ctx, models.EventError, map[string]any{
			"status": string(state),
			"error":  err.Error(),
		})
		return models.SyncStatus{State: state, Reason: err.Error()}
	}

	return models.SyncStatus{State: models.StateSuccess, Summary: &summary}
}

// checkFolder maps the configuration and write check result onto the error
// taxonomy of Export and ImportFromPeers.
func (s *syncService) checkFolder() error {
	if !s.cfg.Enabled {
		return fmt.Errorf("%w: %w", ErrNotConfigured, ErrDisabled)
	}
	err := s.folder.CheckWritable()
	switch {
	case err == nil:
		return nil
	case errors.Is(err, folder.ErrNotConfigured):
		return ErrNotConfigured
	default:
		return fmt.Errorf("%w: %w", ErrOffline, err)
	}
}

func (s *syncService) withLock(ctx context.Context, fn func(context.Context) error) error {
	h, err := s.locks.Acquire(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := s.locks.Release(h); err != nil {
			s.logger.Warn().
				Err(err).
				Str("func", "syncService.withLock").
				Msg("lock release failed")
		}
	}()

	return fn(ctx)
}

func (s *syncService) exportLocked(ctx context.Context) (exportOutcome, error) {
	var (
		res ExportResult
		err error
	)
	if s.cfg.Mode == config.ModeIncremental {
		res, err = s.exporter.BuildIncremental(ctx, s.deviceID, s.settingTimestamp(ctx, store.SettingLastExportTimestamp))
	} else {
		res, err = s.exporter.BuildFull(ctx, s.deviceID)
	}
	if err != nil {
		return exportOutcome{}, fmt.Errorf("build export: %w", err)
	}
	pkg := res.Package

	prior, err := s.tombstones.LoadSnapshot(s.deviceID)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("func", "syncService.exportLocked").
			Msg("previous id snapshot unavailable, no tombstones this time")
		prior = nil
	}
	snapshot, skipped, err := s.tombstones.BuildWithDeletions(ctx, pkg, prior)
	if err != nil {
		return exportOutcome{}, fmt.Errorf("collect deletions: %w", err)
	}

	payload, err := json.MarshalIndent(pkg, "", "  ")
	if err != nil {
		return exportOutcome{}, fmt.Errorf("encode export: %w", err)
	}
	name := folder.ExportFileName(s.deviceID)
	if err = s.folder.WriteFileAtomic(name, payload); err != nil {
		return exportOutcome{}, fmt.Errorf("write export: %w", err)
	}
	if err = s.tombstones.SaveSnapshot(snapshot); err != nil {
		s.logger.Warn().
			Err(err).
			Str("func", "syncService.exportLocked").
			Msg("id snapshot not saved")
	}
	s.setSetting(ctx, store.SettingLastExportTimestamp, pkg.ExportedAt.String())

	s.logger.Info().
		Str("func", "syncService.exportLocked").
		Str("file", name).
		Int("rows", pkg.RowCount()).
		Int("tombstones", pkg.TombstoneCount()).
		Msg("export written")

	return exportOutcome{
		path:     s.folder.Path(name),
		pkg:      pkg,
		skipped:  append(res.Skipped, skipped...),
		size:     len(payload),
		checksum: utils.Checksum(payload),
	}, nil
}

func (s *syncService) importLocked(ctx context.Context) (importOutcome, error) {
	out := importOutcome{summary: models.NewMergeSummary()}

	localVersion, err := s.store.CurrentSchemaVersion(ctx)
	if err != nil {
		return out, fmt.Errorf("read schema version: %w", err)
	}
	files, err := s.folder.ListExports()
	if err != nil {
		return out, err
	}

	own := folder.ExportFileName(s.deviceID)
	for _, f := range files {
		if err = ctx.Err(); err != nil {
			return out, err
		}
		if f.Name == own {
			continue
		}

		pkg, err := s.readPackage(f.Name)
		if err != nil {
			s.logger.Warn().
				Err(err).
				Str("func", "syncService.importLocked").
				Str("file", f.Name).
				Msg("corrupt peer file skipped")
			out.summary.CorruptFiles++
			out.summary.Reasons = append(out.summary.Reasons, models.SkippedReason{
				Kind:     models.SkipCorruptPeerFile,
				DeviceID: f.DeviceID,
				File:     f.Name,
				Message:  err.Error(),
			})
			out.corrupt = append(out.corrupt, f.Name)
			continue
		}
		if pkg.DeviceID == s.deviceID {
			continue
		}

		if err = s.gate.Check(localVersion, pkg); err != nil {
			s.logger.Warn().
				Err(err).
				Str("func", "syncService.importLocked").
				Str("file", f.Name).
				Str("device_id", pkg.DeviceID).
				Msg("peer package rejected")
			out.summary.Skipped++
			out.summary.Reasons = append(out.summary.Reasons, models.SkippedReason{
				Kind:     models.SkipSchemaMismatch,
				DeviceID: pkg.DeviceID,
				File:     f.Name,
				Message:  err.Error(),
			})
			continue
		}

		conflicts := s.detector.Detect(ctx, pkg)
		out.conflicts = append(out.conflicts, conflicts...)

		merged := s.merger.Merge(ctx, pkg)
		merged.Conflicts = len(conflicts)
		s.tombstones.Apply(ctx, pkg, &merged)
		out.summary.Add(merged)

		s.logger.Info().
			Str("func", "syncService.importLocked").
			Str("file", f.Name).
			Str("device_id", pkg.DeviceID).
			Int("merged", merged.TotalMerged()).
			Int("deleted", merged.TotalDeleted()).
			Int("conflicts", len(conflicts)).
			Msg("peer package merged")
	}

	return out, nil
}

// readPackage decodes a peer export. A package without a device id is
// treated as corrupt.
func (s *syncService) readPackage(name string) (*models.ExportPackage, error) {
	var pkg models.ExportPackage
	if err := s.folder.ReadJSON(name, &pkg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptPackage, err)
	}
	if pkg.DeviceID == "" {
		return nil, fmt.Errorf("%w: %s: missing device_id", ErrCorruptPackage, name)
	}
	return &pkg, nil
}

func (s *syncService) LoadPackage(path string) (*models.ExportPackage, error) {
	data, err := afero.ReadFile(s.folder.Fs(), path)
	if err != nil {
		return nil, err
	}
	var pkg models.ExportPackage
	if err = json.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorruptPackage, filepath.Base(path), err)
	}
	return &pkg, nil
}

func (s *syncService) DetectConflicts(ctx context.Context, pkg *models.ExportPackage) ([]models.ConflictRecord, error) {
	if pkg == nil {
		return nil, ErrNilPackage
	}
	return s.detector.Detect(ctx, pkg), nil
}

func (s *syncService) ForceBreakLock(ctx context.Context) (*models.LockRecord, error) {
	broken, err := s.locks.ForceBreak()
	if err != nil {
		return nil, err
	}
	if broken == nil {
		return nil, nil
	}

	s.logEvent(ctx, models.EventForceBreakLock, map[string]any{
		"broken_device_id": broken.DeviceID,
		"broken_host_name": broken.HostName,
		"locked_at":        broken.LockedAt.String(),
	})
	return broken, nil
}

func (s *syncService) registerDevice(ctx context.Context) {
	err := s.registry.RegisterDevice(ctx, models.DeviceEntry{
		DeviceID:   s.deviceID,
		HostName:   s.hostName,
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
		LastSeen:   models.NewTimestamp(s.now()),
		AppVersion: s.cfg.AppVersion,
	})
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("func", "syncService.registerDevice").
			Msg("device registry not updated")
	}
}

// logEvent appends to the shared history. Failures are logged only.
func (s *syncService) logEvent(ctx context.Context, event models.EventType, details map[string]any) {
	err := s.registry.LogEvent(ctx, models.HistoryEntry{
		DeviceID:  s.deviceID,
		EventType: event,
		Timestamp: models.NewTimestamp(s.now()),
		Details:   details,
	})
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("func", "syncService.logEvent").
			Str("event", string(event)).
			Msg("sync history not updated")
	}
}

func (s *syncService) recordExport(ctx context.Context, out exportOutcome) {
	details := map[string]any{
		"file":       filepath.Base(out.path),
		"rows":       out.pkg.RowCount(),
		"tables":     len(out.pkg.Tables),
		"tombstones": out.pkg.TombstoneCount(),
		"bytes":      out.size,
		"sha256":     out.checksum,
	}
	if out.pkg.Incremental {
		details["incremental"] = true
	}
	if len(out.skipped) > 0 {
		details["skipped_tables"] = len(out.skipped)
	}
	s.logEvent(ctx, models.EventExport, details)
}

func (s *syncService) recordImport(ctx context.Context, out importOutcome) {
	for _, name := range out.corrupt {
		s.logEvent(ctx, models.EventError, map[string]any{
			"file":  name,
			"error": string(models.SkipCorruptPeerFile),
		})
	}
	if len(out.conflicts) > 0 {
		s.logEvent(ctx, models.EventConflict, map[string]any{
			"count": len(out.conflicts),
		})
	}
	s.logEvent(ctx, models.EventImport, map[string]any{
		"merged":        out.summary.TotalMerged(),
		"deleted":       out.summary.TotalDeleted(),
		"skipped":       out.summary.Skipped,
		"corrupt_files": out.summary.CorruptFiles,
	})
}

func (s *syncService) touchLastSync(ctx context.Context) {
	s.setSetting(ctx, store.SettingLastSyncTimestamp, models.NewTimestamp(s.now()).String())
}

func (s *syncService) setSetting(ctx context.Context, key, value string) {
	if err := s.settings.SetSetting(ctx, key, value); err != nil {
		s.logger.Warn().
			Err(err).
			Str("func", "syncService.setSetting").
			Str("key", key).
			Msg("setting not saved")
	}
}

// settingTimestamp returns nil when the setting is absent or unparseable.
func (s *syncService) settingTimestamp(ctx context.Context, key string) *models.Timestamp {
	raw, err := s.settings.GetSetting(ctx, key)
	if err != nil {
		return nil
	}
	ts, err := models.ParseTimestamp(raw)
	if err != nil {
		return nil
	}
	return &ts
}
