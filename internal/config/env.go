// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv fills a fresh [StructuredConfig] from environ, a list of
// KEY=value pairs as returned by os.Environ. The nested groups read the
// APP_, STORAGE_DB_, SYNC_ and LOG_ prefixes, so the sync engine is driven by
// SYNC_ENABLED, SYNC_FOLDER_PATH, SYNC_DEVICE_ID, SYNC_INTERVAL_MINUTES,
// SYNC_MODE, SYNC_LOCK_TIMEOUT and SYNC_LOCK_RETRIES. CONFIG names the JSON
// file.
func parseEnv(environ []string) (*StructuredConfig, error) {
	cfg := new(StructuredConfig)
	opts := env.Options{Environment: env.ToMap(environ)}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("error reading sync environment: %w", err)
	}

	return cfg, nil
}
