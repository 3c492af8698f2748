// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

// provernet-coordinator is the development coordinator of the proof
// network. It accepts signed proof requests for registered programs,
// records fulfillment or failure reported by provers, and answers
// status, detail, and filtered listing queries. All state is held in
// memory and lost on exit.
//
// Three endpoints run under one shutdown signal:
//
//   - gRPC (rpc.address) serving network.ProverNetwork and
//     artifact.ArtifactStore with the CBOR codec. Methods without a
//     handler answer Unimplemented.
//   - An optional Unix control socket (rpc.socket_path) serving the
//     same methods, one CBOR request per connection.
//   - The blob endpoint (blob.address): PUT and GET /artifacts/{id},
//     GET /health, and GET /metrics.
//
// Requests are authenticated by recovering the secp256k1 signer of
// the canonical CBOR encoding of the request body. FulfillProof moves
// the proof bytes to the blob endpoint before committing.
//
// Configuration is one YAML file named by --config or PROVERNET_CONFIG.
package main
