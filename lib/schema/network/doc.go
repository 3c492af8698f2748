// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

// Package network defines the wire types of the network.ProverNetwork
// service: proof requests, their status snapshots, programs, the
// enumerations that classify them, and the request and response
// bodies of every implemented method.
//
// Every type uses `cbor` struct tags. Signed bodies are part of the
// signature contract: a field added to a body changes the canonical
// encoding, so clients and server must agree on the struct.
package network
