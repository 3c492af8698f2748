// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the coordinator's CBOR encoding configuration.
//
// CBOR is used for every coordinator protocol: gRPC message bodies (via
// the "cbor" grpc codec registered by this package), the local control
// socket, and the canonical byte sequence that clients sign. The
// encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted map
// keys, smallest integer encoding, no indefinite-length items. Same
// logical data always produces identical bytes, which is what makes the
// encoding usable for signatures: the server re-encodes the decoded
// body and recovers the signer from those bytes.
//
// For buffer-oriented operations:
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// For stream-oriented operations (sockets):
//
//	encoder := codec.NewEncoder(conn)
//	decoder := codec.NewDecoder(conn)
//
// Wire types use `cbor` struct tags with snake_case keys.
package codec
