// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

// Package service provides the transport plumbing shared by coordinator
// binaries.
//
// Handlers are registered once, on a [Router], under a fully qualified
// method name ("network.ProverNetwork/RequestProof"). Each handler is
// an [ActionFunc] that receives the raw CBOR request body and returns a
// result value or an error. The same Router is then served by:
//
//   - [GRPCServer]: a grpc-go server whose service descriptors are
//     built from the Router's method names. Messages use the "cbor"
//     codec from lib/codec. Methods with no handler, in any service,
//     reach a single catch-all that answers Unimplemented.
//   - [SocketServer]: a Unix socket speaking one CBOR request and one
//     CBOR response per connection, for local tooling.
//
// [HTTPServer] manages the listener lifecycle of plain HTTP handlers
// (the blob endpoint). [ServiceClient] and [GRPCClient] are the
// matching clients.
//
// # Errors
//
// Handlers report failures as [*Error] values carrying a [Code]. The
// gRPC server maps codes to grpc status codes; the socket server puts
// the code in the response envelope. An error without a code is
// reported as internal.
package service
