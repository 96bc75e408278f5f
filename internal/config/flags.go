// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"flag"
	"fmt"
	"io"
	"time"
)

// ParseFlags parses configuration flags from args and returns the remaining
// positional arguments (the command and its operands).
//
// Flags:
//
//	-d database DSN
//	-folder shared sync folder
//	-device device id override
//	-enabled enable synchronization
//	-interval sync interval in minutes
//	-mode export mode (full, incremental)
//	-lock-timeout stale lock age (e.g., "5m")
//	-lock-retries extra lock attempts on contention
//	-app-version application version
//	-log-file log file path
//	-log-level log level
//	-c/-config json file path with configs
func ParseFlags(args []string) (*StructuredConfig, []string, error) {
	fs := flag.NewFlagSet("wiredsync", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var databaseDSN string
	var folderPath string
	var deviceID string
	var enabled bool
	var intervalMinutes int
	var mode string
	var lockTimeout time.Duration
	var lockRetries int
	var appVersion string
	var logFile string
	var logLevel string
	var jsonConfigPath string

	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&folderPath, "folder", "", "Shared sync folder")
	fs.StringVar(&deviceID, "device", "", "Device id override")
	fs.BoolVar(&enabled, "enabled", false, "Enable synchronization")
	fs.IntVar(&intervalMinutes, "interval", 0, "Sync interval in minutes")
	fs.StringVar(&mode, "mode", "", "Export mode (full, incremental)")
	fs.DurationVar(&lockTimeout, "lock-timeout", 0, "Stale lock age (e.g., 5m)")
	fs.IntVar(&lockRetries, "lock-retries", 0, "Extra lock attempts on contention")
	fs.StringVar(&appVersion, "app-version", "", "Application version")
	fs.StringVar(&logFile, "log-file", "", "Log file path")
	fs.StringVar(&logLevel, "log-level", "", "Log level")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		App: App{
			Version: appVersion,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Sync: Sync{
			Enabled:         enabled,
			FolderPath:      folderPath,
			DeviceID:        deviceID,
			IntervalMinutes: intervalMinutes,
			Mode:            mode,
			LockTimeout:     lockTimeout,
			LockRetries:     lockRetries,
		},
		Log: Log{
			File:  logFile,
			Level: logLevel,
		},
		JSONFilePath: jsonConfigPath,
	}, fs.Args(), nil
}
