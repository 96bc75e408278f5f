// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"fmt"
)

var (
	ErrNotConfigured = errors.New("sync is not configured")
	ErrDisabled      = errors.New("sync is disabled")
	ErrOffline       = errors.New("sync folder is offline")

	ErrSchemaMismatch = errors.New("schema version mismatch")
	ErrCorruptPackage = errors.New("corrupt export package")
	ErrNilPackage     = errors.New("export package is nil")
)

// SchemaMismatchError is returned by the schema gate. It matches
// [ErrSchemaMismatch] with errors.Is.
type SchemaMismatchError struct {
	Local  int64
	Remote int64
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("%s: local %d, remote %d", ErrSchemaMismatch, e.Local, e.Remote)
}

func (e *SchemaMismatchError) Is(target error) bool {
	return target == ErrSchemaMismatch
}
