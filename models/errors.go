// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "errors"

// Codec errors returned while converting rows and timestamps.
var (
	// ErrUnsupportedValue is returned when a Go or JSON value has no
	// scalar Value counterpart.
	ErrUnsupportedValue = errors.New("unsupported column value")

	// ErrNonScalarValue is returned when a row column holds a JSON array or
	// object.
	ErrNonScalarValue = errors.New("column value is not a scalar")

	// ErrEmptyTimestamp is returned when a timestamp column is null or empty.
	ErrEmptyTimestamp = errors.New("empty timestamp")

	// ErrInvalidTimestamp is returned when a timestamp cannot be parsed in
	// any accepted layout.
	ErrInvalidTimestamp = errors.New("invalid timestamp")
)

// ErrInvalidDeviceID is returned for a device id that [ValidDeviceID]
// rejects.
var ErrInvalidDeviceID = errors.New("device id may only contain letters, digits, '.', '-' and '_'")
