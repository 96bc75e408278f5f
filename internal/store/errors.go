// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrUnknownTable is returned when a table name does not exist in the
	// local schema. Table names are never interpolated into SQL before this
	// check passes.
	ErrUnknownTable = errors.New("unknown table")

	// ErrUnknownColumn is returned when a row or filter names a column the
	// local table does not have.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrEmptyRow is returned when an insert is attempted with no columns.
	ErrEmptyRow = errors.New("row has no columns")

	// ErrSettingNotFound is returned when a settings key has never been
	// written.
	ErrSettingNotFound = errors.New("setting not found")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")
)
