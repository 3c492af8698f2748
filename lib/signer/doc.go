// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

// Package signer recovers the address that signed a request body.
//
// A client signs the personal-message hash of the body's canonical
// encoding:
//
//	keccak256("\x19" + protocol + " Signed Message:\n" + len(message) + message)
//
// where message is the deterministic CBOR encoding of the body and
// protocol defaults to "Ethereum". The signature is 65 bytes, r || s || v,
// with v in {0, 1, 27, 28}. The signer's address is the last 20 bytes
// of the Keccak-256 hash of its uncompressed public key.
//
// Recovery proves only that someone holding a key signed these exact
// bytes. There is no nonce, expiry, or replay check, and the
// recovered address is not looked up anywhere: any well-formed
// signature yields some address.
package signer
