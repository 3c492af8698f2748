// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

package signer

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// AddressLength is the size of a signer address in bytes.
const AddressLength = 20

// Address is a 20-byte account address derived from a secp256k1
// public key.
type Address [AddressLength]byte

// Bytes returns a copy of the address as a slice, the form carried in
// wire types.
func (a Address) Bytes() []byte {
	out := make([]byte, AddressLength)
	copy(out, a[:])
	return out
}

// Hex returns the 0x-prefixed lower-case hex encoding.
func (a Address) Hex() string {
	return "0x" + hex.EncodeToString(a[:])
}

func (a Address) String() string { return a.Hex() }

// ParseAddress decodes a hex address, with or without the 0x prefix.
func ParseAddress(text string) (Address, error) {
	var address Address
	decoded, err := hex.DecodeString(strings.TrimPrefix(text, "0x"))
	if err != nil {
		return address, fmt.Errorf("address %q: %w", text, err)
	}
	if len(decoded) != AddressLength {
		return address, fmt.Errorf("address %q: %d bytes, want %d", text, len(decoded), AddressLength)
	}
	copy(address[:], decoded)
	return address, nil
}

// AddressFromPublicKey derives the address of key.
func AddressFromPublicKey(key *secp256k1.PublicKey) Address {
	// Drop the 0x04 uncompressed-point prefix before hashing.
	digest := Keccak256(key.SerializeUncompressed()[1:])
	var address Address
	copy(address[:], digest[len(digest)-AddressLength:])
	return address
}
