// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the coordinator's YAML configuration.
//
// Configuration comes from exactly one file, named by the
// PROVERNET_CONFIG environment variable (via [Load]) or a --config
// flag (via [LoadFile]). There is no discovery and no search path.
//
// The file may carry development, staging, and production sections
// that override base values when [Config].Environment matches. After
// loading, ${VAR} and ${VAR:-default} patterns are expanded in socket
// paths and URLs. Environment variables never override a value
// directly.
//
// Key exports:
//
//   - [Config] with RPC, Blob, Artifacts, and Signing sections
//   - [Default] for a complete development configuration
//   - [Load] and [LoadFile]
//   - [Config.Validate]
package config
