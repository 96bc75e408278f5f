// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package lock

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrLockContention matches any [*ContentionError].
	ErrLockContention = errors.New("sync folder is locked")

	// ErrNotHeld is returned by Release when the lock file no longer names
	// the handle's owner.
	ErrNotHeld = errors.New("lock is not held by this process")
)

// ContentionError names the device holding a live lock.
type ContentionError struct {
	Holder string
	Age    time.Duration
}

func (e *ContentionError) Error() string {
	return fmt.Sprintf("sync folder is locked by device %q (held %s)", e.Holder, e.Age.Round(time.Second))
}

// Is lets errors.Is(err, ErrLockContention) match.
func (e *ContentionError) Is(target error) bool {
	return target == ErrLockContention
}
