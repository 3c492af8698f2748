// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import "fmt"

// MessageFormat is the encoding a client declares it signed. Every
// format canonicalizes to deterministic CBOR; the value is carried so
// that a client's declaration is visible in logs.
type MessageFormat int32

const (
	FormatUnspecified MessageFormat = 0
	FormatBinary      MessageFormat = 1
	FormatJSON        MessageFormat = 2
)

func (f MessageFormat) String() string {
	switch f {
	case FormatUnspecified:
		return "unspecified"
	case FormatBinary:
		return "binary"
	case FormatJSON:
		return "json"
	default:
		return fmt.Sprintf("unknown(%d)", int32(f))
	}
}

// Signed is the envelope for every authenticated method. Signature is
// 65 bytes (r || s || v) over the personal-message hash of the
// canonical encoding of Body. A nil Body is rejected before signature
// recovery.
type Signed[T any] struct {
	Format    MessageFormat `cbor:"format"`
	Signature []byte        `cbor:"signature"`
	Body      *T            `cbor:"body,omitempty"`
}
