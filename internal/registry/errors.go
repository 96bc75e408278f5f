// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package registry

import "errors"

var (
	ErrEmptyDeviceID = errors.New("device id is empty")
	ErrLocalLockBusy = errors.New("registry is being updated by another process")
)
