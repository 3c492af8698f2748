// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

// Package process holds entrypoint helpers shared by the coordinator
// and CLI binaries. Error output that can happen before the structured
// logger exists goes through here.
package process
