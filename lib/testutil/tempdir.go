// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"io"
	"log/slog"
	"os"
	"testing"
)

// SocketDir creates a short-named temporary directory under /tmp for
// Unix sockets. sun_path is limited to 108 bytes, and t.TempDir paths
// can exceed it. The directory is removed when the test completes.
func SocketDir(t *testing.T) string {
	t.Helper()
	directory, err := os.MkdirTemp("/tmp", "provernet-*")
	if err != nil {
		t.Fatalf("creating socket directory: %v", err)
	}
	t.Cleanup(func() {
		_ = os.RemoveAll(directory)
	})
	return directory
}

// Logger returns a logger that discards everything below Error. Set
// PROVERNET_TEST_LOG=1 to see debug output.
func Logger() *slog.Logger {
	if os.Getenv("PROVERNET_TEST_LOG") != "" {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
