// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/MKhiriev/wiredsync/internal/client"
	"github.com/MKhiriev/wiredsync/internal/config"
	"github.com/MKhiriev/wiredsync/internal/logger"
	"github.com/MKhiriev/wiredsync/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	cfg, args, err := config.GetClientConfig(os.Args[1:])
	if err != nil {
		logger.NewFileLogger("wiredsync", "", "").Fatal().Err(err).Msg("error getting configs")
	}

	log := logger.NewFileLogger("wiredsync", cfg.Log.File, cfg.Log.Level)
	ctx := context.Background()

	app, err := client.NewApp(ctx, cfg, models.NewAppBuildInfo(buildVersion, buildDate, buildCommit), os.Stdout, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}

	err = app.Run(ctx, args)
	if closeErr := app.Close(); closeErr != nil {
		log.Warn().Err(closeErr).Msg("error closing local storage")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("client run error")
	}
}

// printBuildInfo writes build metadata to stderr so command output on
// stdout stays machine-readable.
func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Fprintf(os.Stderr, "Build version: %s\n", buildVersion)
	fmt.Fprintf(os.Stderr, "Build date: %s\n", buildDate)
	fmt.Fprintf(os.Stderr, "Build commit: %s\n", buildCommit)
}
