// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import "github.com/google/uuid"

// DeviceIDGenerator mints identifiers for devices that have never synced.
// Version 7 ids sort by creation time, so the registry lists older devices
// first when ids are compared.
type DeviceIDGenerator struct {
}

func NewDeviceIDGenerator() *DeviceIDGenerator {
	return &DeviceIDGenerator{}
}

func (g *DeviceIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
