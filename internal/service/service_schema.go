// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import "github.com/MKhiriev/wiredsync/models"

type schemaGate struct{}

// NewSchemaGate returns the all-or-nothing [SchemaGate].
func NewSchemaGate() SchemaGate {
	return schemaGate{}
}

func (schemaGate) Check(localVersion int64, pkg *models.ExportPackage) error {
	if pkg == nil {
		return ErrNilPackage
	}
	if pkg.SchemaVersion != localVersion {
		return &SchemaMismatchError{Local: localVersion, Remote: pkg.SchemaVersion}
	}
	return nil
}
