// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// ValidDeviceID reports whether id is non-empty and uses only ASCII letters,
// digits, dots, dashes and underscores. Such ids map onto distinct file
// names in the shared folder.
func ValidDeviceID(id string) bool {
	if id == "" {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_', c == '.':
		default:
			return false
		}
	}
	return true
}

// DeviceEntry is one row of the shared device registry. Entries are upserted
// on every sync and never removed automatically.
type DeviceEntry struct {
	DeviceID   string    `json:"device_id"`
	HostName   string    `json:"hostname"`
	Platform   string    `json:"platform"`
	LastSeen   Timestamp `json:"last_seen"`
	AppVersion string    `json:"app_version"`
}

// EventType classifies a sync history entry.
type EventType string

const (
	EventExport         EventType = "export"
	EventImport         EventType = "import"
	EventSyncComplete   EventType = "sync_complete"
	EventConflict       EventType = "conflict"
	EventError          EventType = "error"
	EventForceBreakLock EventType = "force_break_lock"
)

// HistoryEntry is one event in the capped shared sync history.
type HistoryEntry struct {
	DeviceID  string         `json:"device_id"`
	EventType EventType      `json:"event_type"`
	Timestamp Timestamp      `json:"timestamp"`
	Details   map[string]any `json:"details,omitempty"`
}
