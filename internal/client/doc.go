// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the wiredsync command-line runtime.
//
// It wires the local store, the sync services, and the background workers
// into a single process lifecycle and renders results for the terminal.
package client
