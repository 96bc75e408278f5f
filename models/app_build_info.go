// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "strings"

// AppBuildInfo is the link-time identity of the wiredsync binary. Its
// version is written to the device registry when no app version is
// configured.
type AppBuildInfo struct {
	version string
	date    string
	commit  string
}

func NewAppBuildInfo(version, date, commit string) AppBuildInfo {
	return AppBuildInfo{version: version, date: date, commit: commit}
}

func (a AppBuildInfo) BuildVersion() string { return a.version }

func (a AppBuildInfo) BuildDate() string { return a.date }

func (a AppBuildInfo) BuildCommit() string { return a.commit }

// Known reports whether a version was injected at build time. Placeholders
// such as "N/A" do not count.
func (a AppBuildInfo) Known() bool {
	v := strings.TrimSpace(a.version)
	return v != "" && !strings.EqualFold(v, "N/A")
}
