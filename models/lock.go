// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// LockRecord is the content of the shared-folder lock file.
type LockRecord struct {
	DeviceID  string    `json:"device_id"`
	LockedAt  Timestamp `json:"locked_at"`
	ProcessID int       `json:"process_id"`
	HostName  string    `json:"host_name"`
}

// LockInfo describes the current lock file as seen by Inspect.
type LockInfo struct {
	LockRecord
	AgeSeconds float64 `json:"age_seconds"`
	IsStale    bool    `json:"is_stale"`
}
