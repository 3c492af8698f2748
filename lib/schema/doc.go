// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

// Package schema holds the types shared by every provernet service.
// [Signed] is the authenticated request envelope; the service-specific
// messages live in the subpackages:
//
//   - network: proof requests, programs, and the ProverNetwork methods
//   - artifact: artifact types and the ArtifactStore method
//
// This package depends on no other provernet packages.
package schema
