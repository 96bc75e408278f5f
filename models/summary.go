// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"sort"
)

// SkipKind classifies why a table, row, file, or tombstone was not applied.
type SkipKind string

const (
	SkipTableReadFailed     SkipKind = "table_read_failed"
	SkipCorruptPeerFile     SkipKind = "corrupt_peer_file"
	SkipSchemaMismatch      SkipKind = "schema_mismatch"
	SkipRowMergeFailed      SkipKind = "row_merge_failed"
	SkipMissingPrimaryKey   SkipKind = "missing_primary_key"
	SkipBadTimestamp        SkipKind = "bad_timestamp"
	SkipTombstoneFailed     SkipKind = "tombstone_failed"
	SkipModifiedAfterDelete SkipKind = "modified_after_delete"
)

// SkippedReason records one absorbed failure so operators can tell "no
// changes" apart from "failed to read".
type SkippedReason struct {
	Kind     SkipKind `json:"kind"`
	DeviceID string   `json:"device_id,omitempty"`
	File     string   `json:"file,omitempty"`
	Table    string   `json:"table,omitempty"`
	Key      string   `json:"key,omitempty"`
	Class    string   `json:"class,omitempty"`
	Message  string   `json:"message"`
}

// MergeSummary is the outcome of importing peer packages.
type MergeSummary struct {
	// Merged maps table name to the number of rows inserted or overwritten.
	Merged map[string]int

	// Skipped counts whole peer packages rejected by the schema gate.
	Skipped int

	// Deleted maps table name to the number of tombstones applied.
	Deleted map[string]int

	// CorruptFiles counts peer files that failed to parse.
	CorruptFiles int

	// Conflicts counts rows the conflict detector flagged before merging.
	Conflicts int

	// Reasons lists every absorbed failure.
	Reasons []SkippedReason
}

// NewMergeSummary returns an empty summary.
func NewMergeSummary() MergeSummary {
	return MergeSummary{
		Merged:  make(map[string]int),
		Deleted: make(map[string]int),
	}
}

// TotalMerged returns the number of merged rows across all tables.
func (s MergeSummary) TotalMerged() int {
	n := 0
	for _, c := range s.Merged {
		n += c
	}
	return n
}

// TotalDeleted returns the number of applied tombstones across all tables.
func (s MergeSummary) TotalDeleted() int {
	n := 0
	for _, c := range s.Deleted {
		n += c
	}
	return n
}

// IsEmpty reports whether nothing was merged, deleted, or skipped.
func (s MergeSummary) IsEmpty() bool {
	return s.TotalMerged() == 0 && s.TotalDeleted() == 0 && s.Skipped == 0 && s.CorruptFiles == 0
}

// Add folds other into s.
func (s *MergeSummary) Add(other MergeSummary) {
	if s.Merged == nil {
		s.Merged = make(map[string]int)
	}
	if s.Deleted == nil {
		s.Deleted = make(map[string]int)
	}
	for t, c := range other.Merged {
		s.Merged[t] += c
	}
	for t, c := range other.Deleted {
		s.Deleted[t] += c
	}
	s.Skipped += other.Skipped
	s.CorruptFiles += other.CorruptFiles
	s.Conflicts += other.Conflicts
	s.Reasons = append(s.Reasons, other.Reasons...)
}

// Tables returns the names of tables with merged rows, sorted.
func (s MergeSummary) Tables() []string {
	names := make([]string, 0, len(s.Merged))
	for t := range s.Merged {
		names = append(names, t)
	}
	sort.Strings(names)
	return names
}

// MarshalJSON flattens the per-table counters next to the reserved
// "_skipped" counter.
func (s MergeSummary) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(s.Merged)+5)
	for t, c := range s.Merged {
		out[t] = c
	}
	out["_skipped"] = s.Skipped
	if len(s.Deleted) > 0 {
		out["_deleted"] = s.Deleted
	}
	if s.CorruptFiles > 0 {
		out["_corrupt_files"] = s.CorruptFiles
	}
	if s.Conflicts > 0 {
		out["_conflicts"] = s.Conflicts
	}
	if len(s.Reasons) > 0 {
		out["_reasons"] = s.Reasons
	}
	return json.Marshal(out)
}

// ConflictRecord describes a row edited on both sides since their last
// common state. It is computed on demand and never persisted.
type ConflictRecord struct {
	Table            string    `json:"table"`
	PrimaryKeyColumn string    `json:"primary_key_column"`
	PrimaryKeyValue  Value     `json:"primary_key_value"`
	LocalUpdated     Timestamp `json:"local_updated"`
	RemoteUpdated    Timestamp `json:"remote_updated"`
	LocalRow         Row       `json:"local_row"`
	RemoteRow        Row       `json:"remote_row"`
}
