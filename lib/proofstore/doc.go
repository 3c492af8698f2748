// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

// Package proofstore holds the coordinator's authoritative state: proof
// requests with their status views, and registered programs.
//
// [RequestStore] keeps each [network.ProofRequest] together with the
// [network.ProofRequestStatus] derived from it and changes both in one
// critical section, so a reader never sees a status that disagrees
// with its record. A btree orders records by creation time for
// [Query]. [ProgramRegistry] maps verifying-key hashes to programs
// under a separate lock.
//
// Requests move Requested or Assigned to Fulfilled or Unfulfillable.
// Both are terminal: further transitions fail with [ErrTerminal].
// Nothing is ever deleted.
package proofstore
