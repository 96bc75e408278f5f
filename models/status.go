// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"strconv"
	"time"
)

// SyncState is the tag of a SyncStatus.
type SyncState string

const (
	StateDisabled      SyncState = "disabled"
	StateNotConfigured SyncState = "not_configured"
	StateOffline       SyncState = "offline"
	StateLocked        SyncState = "locked"
	StateError         SyncState = "error"
	StateSuccess       SyncState = "success"
)

// SyncStatus is the tagged result of a resilient sync. Reason is set for
// offline, locked, and error; Summary is set for success.
type SyncStatus struct {
	State   SyncState     `json:"status"`
	Reason  string        `json:"reason,omitempty"`
	Summary *MergeSummary `json:"summary,omitempty"`
}

// OK reports whether the sync completed.
func (s SyncStatus) OK() bool { return s.State == StateSuccess }

// PeerFile describes another device's export file in the shared folder.
type PeerFile struct {
	DeviceID     string    `json:"device_id"`
	LastModified Timestamp `json:"last_modified"`
	SizeBytes    int64     `json:"size_bytes"`
}

// StatusReport is the short status shown by the UI.
type StatusReport struct {
	Enabled         bool       `json:"enabled"`
	Configured      bool       `json:"configured"`
	DeviceID        string     `json:"device_id"`
	SyncFolder      string     `json:"sync_folder"`
	LastSync        Timestamp  `json:"last_sync"`
	IntervalMinutes int        `json:"interval_minutes"`
	OtherDevices    []PeerFile `json:"other_devices"`
}

// IncompatibleDevice names a peer whose export cannot be merged. Version is
// "unknown" when the peer file could not be parsed.
type IncompatibleDevice struct {
	DeviceID string `json:"device_id"`
	File     string `json:"file"`
	Version  string `json:"version"`
}

// SchemaCompatibility summarizes how each peer's schema epoch relates to
// the local one.
type SchemaCompatibility struct {
	LocalVersion        int64                `json:"local_version"`
	CompatibleDevices   []string             `json:"compatible_devices"`
	IncompatibleDevices []IncompatibleDevice `json:"incompatible_devices"`
}

// DetailedStatusReport extends StatusReport with lock, history, schema, and
// registry information.
type DetailedStatusReport struct {
	StatusReport
	LockInfo            *LockInfo           `json:"lock_info"`
	RecentHistory       []HistoryEntry      `json:"recent_history"`
	SchemaCompatibility SchemaCompatibility `json:"schema_compatibility"`
	KnownDevices        []DeviceEntry       `json:"known_devices"`
	LastSyncHuman       string              `json:"last_sync_human"`
}

// TableVerification compares the sync table set with the local schema.
type TableVerification struct {
	SyncedTables    []string `json:"synced_tables"`
	MissingFromDB   []string `json:"missing_from_db"`
	MissingFromSync []string `json:"missing_from_sync"`
}

// HumanizeSince renders how long ago ts was relative to now.
func HumanizeSince(ts Timestamp, now time.Time) string {
	if ts.IsZero() {
		return "Never"
	}
	d := now.Sub(ts.Time())
	if d < time.Minute {
		return "Just now"
	}
	if d < time.Hour {
		return plural(int(d/time.Minute), "minute")
	}
	if d < 24*time.Hour {
		return plural(int(d/time.Hour), "hour")
	}
	return plural(int(d/(24*time.Hour)), "day")
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit + " ago"
	}
	return strconv.Itoa(n) + " " + unit + "s ago"
}
