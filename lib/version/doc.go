// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

// Package version carries build information injected with -ldflags -X:
//
//   - [GitCommit] short git SHA
//   - [GitDirty] "true" when the tree had uncommitted changes
//   - [BuildTime] UTC build timestamp
//   - [Version] semantic version, set for releases
//
// Development builds and tests see "unknown" and "0.1.0-dev".
// [Info] formats the --version line; [Full] adds the Go toolchain and
// platform.
package version
