// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// ExportPackage is the snapshot one device publishes to the shared folder
// for its peers. It is built fresh on every export, written once, and
// superseded by the next export from the same device.
type ExportPackage struct {
	// DeviceID identifies the exporting device.
	DeviceID string `json:"device_id"`

	// ExportedAt is the wall-clock time the package was built.
	ExportedAt Timestamp `json:"exported_at"`

	// SchemaVersion is the exporting store's schema epoch.
	SchemaVersion int64 `json:"schema_version"`

	// Tables maps table name to the exported rows. A table with no rows is
	// omitted: absence means "no changes", not "empty".
	Tables map[string][]Row `json:"tables"`

	// Tombstones maps table name to primary keys deleted since the
	// device's previous export.
	Tombstones map[string][]Value `json:"tombstones,omitempty"`

	// Incremental is set when only rows changed after Since were exported.
	Incremental bool `json:"incremental,omitempty"`

	// Since is the lower bound of an incremental export.
	Since *Timestamp `json:"since,omitempty"`
}

// NewExportPackage returns an empty package stamped with the given identity.
func NewExportPackage(deviceID string, schemaVersion int64, exportedAt Timestamp) *ExportPackage {
	return &ExportPackage{
		DeviceID:      deviceID,
		ExportedAt:    exportedAt,
		SchemaVersion: schemaVersion,
		Tables:        make(map[string][]Row),
	}
}

// RowCount returns the total number of rows across all tables.
func (p *ExportPackage) RowCount() int {
	n := 0
	for _, rows := range p.Tables {
		n += len(rows)
	}
	return n
}

// TombstoneCount returns the total number of tombstones across all tables.
func (p *ExportPackage) TombstoneCount() int {
	n := 0
	for _, ids := range p.Tombstones {
		n += len(ids)
	}
	return n
}

// IDSnapshot records, per table, the primary keys present in a device's
// previous export. It is the Tombstone Tracker's side record.
type IDSnapshot struct {
	DeviceID string             `json:"device_id"`
	TakenAt  Timestamp          `json:"taken_at"`
	Tables   map[string][]Value `json:"tables"`
}
