// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import "context"

// Client defines the minimal lifecycle contract for runnable client
// applications.
type Client interface {
	// Run executes the command named by args[0] and blocks until it
	// finishes. The watch command blocks until ctx is cancelled.
	Run(ctx context.Context, args []string) error

	// Close releases the resources opened by the client.
	Close() error
}
