// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/MKhiriev/wiredsync/internal/config"
	"github.com/MKhiriev/wiredsync/internal/logger"
	"github.com/MKhiriev/wiredsync/internal/service"
	"github.com/MKhiriev/wiredsync/internal/store"
	"github.com/MKhiriev/wiredsync/internal/workers"
	"github.com/MKhiriev/wiredsync/models"
)

// Command names accepted by [App.Run].
const (
	CmdExport         = "export"
	CmdImport         = "import"
	CmdSync           = "sync"
	CmdSyncSafe       = "sync-safe"
	CmdStatus         = "status"
	CmdDetailedStatus = "detailed-status"
	CmdConflicts      = "conflicts"
	CmdForceBreakLock = "force-break-lock"
	CmdVerifyTables   = "verify-tables"
	CmdSchema         = "schema"
	CmdWatch          = "watch"
	CmdVersion        = "version"
	CmdHelp           = "help"
)

const registryLockFile = "wiredsync.registry.lock"

type App struct {
	cfg       *config.ClientConfig
	storages  *store.Storages
	services  *service.Services
	view      *view
	out       io.Writer
	buildInfo models.AppBuildInfo
	logger    *logger.Logger
}

// NewApp opens the local store and wires the sync services. Output of every
// command goes to out.
func NewApp(ctx context.Context, cfg *config.ClientConfig, buildInfo models.AppBuildInfo, out io.Writer, log *logger.Logger) (*App, error) {
	if cfg.Sync.AppVersion == "" && buildInfo.Known() {
		cfg.Sync.AppVersion = buildInfo.BuildVersion()
	}

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}

	svcs, err := service.NewServices(ctx, storages, cfg.Sync, registryLockPath(cfg.Storage.DSN), log)
	if err != nil {
		_ = storages.Close()
		return nil, fmt.Errorf("create services: %w", err)
	}

	app := newApp(cfg, svcs, buildInfo, out, log)
	app.storages = storages
	return app, nil
}

func newApp(cfg *config.ClientConfig, svcs *service.Services, buildInfo models.AppBuildInfo, out io.Writer, log *logger.Logger) *App {
	return &App{
		cfg:       cfg,
		services:  svcs,
		view:      newView(out),
		out:       out,
		buildInfo: buildInfo,
		logger:    log,
	}
}

// registryLockPath places the same-host registry guard next to the database
// file. In-memory databases get a lock in the temp dir.
func registryLockPath(dsn string) string {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.Index(path, "?"); i >= 0 {
		path = path[:i]
	}
	if path == "" || path == ":memory:" || path == "memory" {
		return filepath.Join(os.TempDir(), registryLockFile)
	}
	return filepath.Join(filepath.Dir(path), registryLockFile)
}

// Run executes one command. args[0] is the command name; the rest are its
// flags and operands.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, a.view.usage())
		return fmt.Errorf("%w: command", ErrMissingArgument)
	}

	cmd := args[0]
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	asJSON := fs.Bool("json", false, "print the result as JSON")
	if err := fs.Parse(args[1:]); err != nil {
		return fmt.Errorf("error parsing %s flags: %w", cmd, err)
	}
	operands := fs.Args()

	a.logger.Debug().Str("func", "App.Run").Str("command", cmd).Msg("running command")

	svc := a.services.SyncService
	switch cmd {
	case CmdExport:
		path, err := svc.Export(ctx)
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		return a.print(*asJSON, map[string]string{"path": path}, a.view.exported(path))

	case CmdImport:
		summary, err := svc.ImportFromPeers(ctx)
		if err != nil {
			return fmt.Errorf("import: %w", err)
		}
		return a.print(*asJSON, summary, a.view.summary("IMPORT", summary))

	case CmdSync:
		summary, err := svc.Sync(ctx)
		if err != nil {
			return fmt.Errorf("sync: %w", err)
		}
		return a.print(*asJSON, summary, a.view.summary("SYNC", summary))

	case CmdSyncSafe:
		status := svc.SyncSafe(ctx)
		if err := a.print(*asJSON, status, a.view.syncStatus(status)); err != nil {
			return err
		}
		if status.State == models.StateError {
			return fmt.Errorf("%w: %s", ErrSyncFailed, status.Reason)
		}
		return nil

	case CmdStatus:
		report, err := svc.Status(ctx)
		if err != nil {
			return fmt.Errorf("status: %w", err)
		}
		return a.print(*asJSON, report, a.view.status(report))

	case CmdDetailedStatus:
		report, err := svc.DetailedStatus(ctx)
		if err != nil {
			return fmt.Errorf("detailed status: %w", err)
		}
		return a.print(*asJSON, report, a.view.detailedStatus(report))

	case CmdConflicts:
		if len(operands) == 0 {
			return fmt.Errorf("%w: %s needs a package file", ErrMissingArgument, cmd)
		}
		pkg, err := svc.LoadPackage(operands[0])
		if err != nil {
			return fmt.Errorf("load package: %w", err)
		}
		records, err := svc.DetectConflicts(ctx, pkg)
		if err != nil {
			return fmt.Errorf("detect conflicts: %w", err)
		}
		return a.print(*asJSON, records, a.view.conflicts(pkg.DeviceID, records))

	case CmdForceBreakLock:
		rec, err := svc.ForceBreakLock(ctx)
		if err != nil {
			return fmt.Errorf("force break lock: %w", err)
		}
		return a.print(*asJSON, rec, a.view.lockBroken(rec))

	case CmdVerifyTables:
		res, err := svc.VerifySyncTables(ctx)
		if err != nil {
			return fmt.Errorf("verify tables: %w", err)
		}
		return a.print(*asJSON, res, a.view.verification(res))

	case CmdSchema:
		res, err := svc.CheckSchemaCompatibility(ctx)
		if err != nil {
			return fmt.Errorf("schema compatibility: %w", err)
		}
		return a.print(*asJSON, res, a.view.schema(res))

	case CmdWatch:
		return a.watch(ctx)

	case CmdVersion:
		return a.print(*asJSON, map[string]string{
			"version": a.buildInfo.BuildVersion(),
			"date":    a.buildInfo.BuildDate(),
			"commit":  a.buildInfo.BuildCommit(),
		}, a.view.buildInfo(a.buildInfo))

	case CmdHelp:
		fmt.Fprintln(a.out, a.view.usage())
		return nil
	}

	fmt.Fprintln(a.out, a.view.usage())
	return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd)
}

// watch runs the periodic sync and, when the shared folder is reachable,
// imports peer packages as they change. It returns when ctx is cancelled or
// the process is interrupted.
func (a *App) watch(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := a.services.SyncService
	ws := []workers.Worker{
		workers.NewSyncWorker(a.services.SyncJob, a.cfg.Sync.Interval, a.logger),
	}
	if a.cfg.Sync.Enabled && a.cfg.Sync.FolderPath != "" {
		if info, err := os.Stat(a.cfg.Sync.FolderPath); err == nil && info.IsDir() {
			ws = append(ws, workers.NewFolderWatcher(a.cfg.Sync.FolderPath, svc.DeviceID(), svc, workers.DefaultDebounce, a.logger))
		} else {
			a.logger.Warn().
				Str("func", "App.watch").
				Str("folder", a.cfg.Sync.FolderPath).
				Msg("sync folder unavailable, folder watcher disabled")
		}
	}

	fmt.Fprintln(a.out, a.view.note(fmt.Sprintf("watching as %s every %s (ctrl+c to stop)", svc.DeviceID(), a.cfg.Sync.Interval)))

	err := workers.NewWorkers(ws...).Run(ctx)
	if status, ok := a.services.SyncJob.LastStatus(); ok {
		fmt.Fprintln(a.out, a.view.syncStatus(status))
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watch: %w", err)
	}
	return nil
}

func (a *App) print(asJSON bool, v any, text string) error {
	if !asJSON {
		_, err := fmt.Fprintln(a.out, text)
		return err
	}
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

// Close releases the local store.
func (a *App) Close() error {
	if a.storages == nil {
		return nil
	}
	return a.storages.Close()
}
