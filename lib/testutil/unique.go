// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"encoding/binary"
	"fmt"
	"sync/atomic"
)

var uniqueCounter atomic.Uint64

// UniqueID returns "prefix-N" with N increasing across the test binary.
//
//	name := testutil.UniqueID("program") // "program-1", "program-2", ...
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, uniqueCounter.Add(1))
}

// UniqueHash returns a distinct 32-byte value, suitable as a request
// id, vk hash, or transaction hash. The leading byte is tag, so hashes
// built for different purposes never collide.
func UniqueHash(tag byte) []byte {
	hash := make([]byte, 32)
	hash[0] = tag
	binary.BigEndian.PutUint64(hash[24:], uniqueCounter.Add(1))
	return hash
}

// UniqueAddress returns a distinct 20-byte address.
func UniqueAddress() []byte {
	address := make([]byte, 20)
	address[0] = 0xad
	binary.BigEndian.PutUint64(address[12:], uniqueCounter.Add(1))
	return address
}
