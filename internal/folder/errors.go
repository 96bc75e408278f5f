// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package folder

import "errors"

var (
	// ErrNotConfigured means no folder path was set.
	ErrNotConfigured = errors.New("sync folder not configured")
	// ErrMissing means the folder path does not exist or is not a directory.
	ErrMissing = errors.New("sync folder does not exist")
	// ErrNotWritable means the write check failed.
	ErrNotWritable = errors.New("sync folder is not writable")
	// ErrCorrupt means a file exists but could not be decoded.
	ErrCorrupt = errors.New("corrupt sync file")
)
