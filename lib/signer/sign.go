// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

package signer

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/provernet/coordinator/lib/schema"
)

// Key is a secp256k1 private key held by a client.
type Key struct {
	private *secp256k1.PrivateKey
}

// GenerateKey returns a fresh random key.
func GenerateKey() (*Key, error) {
	private, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, fmt.Errorf("generating secp256k1 key: %w", err)
	}
	return &Key{private: private}, nil
}

// ParseKey decodes a 32-byte hex private key, with or without the 0x
// prefix.
func ParseKey(text string) (*Key, error) {
	decoded, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(text), "0x"))
	if err != nil {
		return nil, fmt.Errorf("private key: %w", err)
	}
	if len(decoded) != 32 {
		return nil, fmt.Errorf("private key: %d bytes, want 32", len(decoded))
	}
	return &Key{private: secp256k1.PrivKeyFromBytes(decoded)}, nil
}

// Address returns the address of the key's public half.
func (k *Key) Address() Address {
	return AddressFromPublicKey(k.private.PubKey())
}

// SignHash signs hash and returns r || s || v with v in {27, 28}.
func (k *Key) SignHash(hash [32]byte) []byte {
	compact := ecdsa.SignCompact(k.private, hash[:], false)
	signature := make([]byte, SignatureLength)
	copy(signature, compact[1:])
	signature[64] = compact[0]
	return signature
}

// SignBody signs the canonical encoding of body the way
// Authenticator.RecoverSigner expects.
func (k *Key) SignBody(protocolName string, format schema.MessageFormat, body any) ([]byte, error) {
	message, err := Canonicalize(format, body)
	if err != nil {
		return nil, err
	}
	return k.SignHash(PersonalMessageHash(protocolName, message)), nil
}

// Envelope signs body and wraps it in a binary-format envelope.
func Envelope[T any](k *Key, protocolName string, body *T) (schema.Signed[T], error) {
	signature, err := k.SignBody(protocolName, schema.FormatBinary, body)
	if err != nil {
		return schema.Signed[T]{}, err
	}
	return schema.Signed[T]{
		Format:    schema.FormatBinary,
		Signature: signature,
		Body:      body,
	}, nil
}
