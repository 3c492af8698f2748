// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

package signer

import (
	"strconv"

	"golang.org/x/crypto/sha3"
)

// DefaultProtocolName is the protocol named in the personal-message
// prefix when none is configured.
const DefaultProtocolName = "Ethereum"

// Keccak256 returns the legacy (pre-NIST) Keccak-256 digest of the
// concatenation of data.
func Keccak256(data ...[]byte) [32]byte {
	hasher := sha3.NewLegacyKeccak256()
	for _, chunk := range data {
		hasher.Write(chunk)
	}
	var digest [32]byte
	hasher.Sum(digest[:0])
	return digest
}

// PersonalMessageHash returns the hash a personal-sign signature
// commits to: Keccak-256 over "\x19<protocol> Signed Message:\n",
// the decimal length of message, and message itself.
func PersonalMessageHash(protocolName string, message []byte) [32]byte {
	prefix := "\x19" + protocolName + " Signed Message:\n" + strconv.Itoa(len(message))
	return Keccak256([]byte(prefix), message)
}
