// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil holds helpers shared by the coordinator's tests:
// bounded channel waits, short socket directories, quiet loggers, and
// unique identifiers for proof requests and programs.
package testutil
