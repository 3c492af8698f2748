// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

// provernet is the command-line client for a provernet coordinator.
// It signs and submits proof requests, reports fulfillment or failure,
// registers programs, and stages artifacts on the blob endpoint.
//
// Commands reach the coordinator over gRPC (--grpc) or its control
// socket (--socket). Signing commands take a hex secp256k1 key from
// --key or PROVERNET_KEY.
//
// On a terminal results print as aligned text. When stdout is piped
// they print as CBOR diagnostic notation with the wire field names.
package main
