// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"errors"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// ErrorClass names the kind of failure behind a store error. It is recorded
// in skipped-row reports so operators can tell a missing parent row from a
// busy database.
type ErrorClass string

const (
	// ClassConstraint covers UNIQUE, CHECK, and NOT NULL violations.
	ClassConstraint ErrorClass = "constraint"
	// ClassForeignKey is a FOREIGN KEY violation, usually a parent row that
	// has not arrived yet.
	ClassForeignKey ErrorClass = "foreign_key"
	// ClassBusy means the database was locked by another connection.
	ClassBusy ErrorClass = "busy"
	// ClassMissingTable means the table does not exist locally.
	ClassMissingTable ErrorClass = "missing_table"
	// ClassOther is everything else.
	ClassOther ErrorClass = "other"
)

// SQLiteErrorClassifier maps mattn/go-sqlite3 errors to [ErrorClass] values.
type SQLiteErrorClassifier struct{}

// NewSQLiteErrorClassifier constructs a [SQLiteErrorClassifier] ready for use.
func NewSQLiteErrorClassifier() *SQLiteErrorClassifier {
	return &SQLiteErrorClassifier{}
}

// Classify inspects err and returns its class. A nil error is [ClassOther].
func (c *SQLiteErrorClassifier) Classify(err error) ErrorClass {
	if err == nil {
		return ClassOther
	}

	if errors.Is(err, ErrUnknownTable) {
		return ClassMissingTable
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code {
		case sqlite3.ErrConstraint:
			if sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey {
				return ClassForeignKey
			}
			return ClassConstraint
		case sqlite3.ErrBusy, sqlite3.ErrLocked:
			return ClassBusy
		}
	}

	if strings.Contains(err.Error(), "no such table") {
		return ClassMissingTable
	}

	return ClassOther
}

// Retryable reports whether the failed operation may succeed if attempted
// again.
func (c *SQLiteErrorClassifier) Retryable(err error) bool {
	return c.Classify(err) == ClassBusy
}

// Classify is a package-level shortcut for callers outside the store.
func Classify(err error) ErrorClass {
	return NewSQLiteErrorClassifier().Classify(err)
}
