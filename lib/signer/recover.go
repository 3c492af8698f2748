// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

package signer

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/provernet/coordinator/lib/codec"
	"github.com/provernet/coordinator/lib/schema"
)

// SignatureLength is the size of an r || s || v signature.
const SignatureLength = 65

var (
	// ErrMissingBody is returned when a signed envelope carries no
	// body.
	ErrMissingBody = errors.New("request body is required")

	// ErrInvalidSignature is returned when a signature cannot be
	// parsed or no public key can be recovered from it.
	ErrInvalidSignature = errors.New("invalid signature")
)

// Authenticator recovers signer addresses for one protocol name.
// It holds no mutable state and is safe for concurrent use.
type Authenticator struct {
	protocolName string
}

// NewAuthenticator returns an Authenticator using protocolName in the
// personal-message prefix. An empty name selects DefaultProtocolName.
func NewAuthenticator(protocolName string) *Authenticator {
	if protocolName == "" {
		protocolName = DefaultProtocolName
	}
	return &Authenticator{protocolName: protocolName}
}

// ProtocolName returns the name used in the message prefix.
func (a *Authenticator) ProtocolName() string {
	return a.protocolName
}

// Canonicalize returns the byte sequence a client signs for body.
// Every declared format, including unknown values, falls back to the
// deterministic CBOR encoding.
func Canonicalize(format schema.MessageFormat, body any) ([]byte, error) {
	message, err := codec.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding body for signing: %w", err)
	}
	return message, nil
}

// RecoverSigner returns the address that produced signature over the
// canonical encoding of body. A nil body (untyped or a nil pointer)
// fails with ErrMissingBody; any parse or recovery failure wraps
// ErrInvalidSignature.
func (a *Authenticator) RecoverSigner(format schema.MessageFormat, body any, signature []byte) (Address, error) {
	if isNil(body) {
		return Address{}, ErrMissingBody
	}
	message, err := Canonicalize(format, body)
	if err != nil {
		return Address{}, err
	}
	hash := PersonalMessageHash(a.protocolName, message)
	return RecoverAddress(hash, signature)
}

// Recover unwraps a signed envelope and recovers its signer.
func Recover[T any](a *Authenticator, envelope schema.Signed[T]) (Address, error) {
	if envelope.Body == nil {
		return Address{}, ErrMissingBody
	}
	return a.RecoverSigner(envelope.Format, envelope.Body, envelope.Signature)
}

// RecoverAddress recovers the signer address of a 65-byte r || s || v
// signature over hash.
func RecoverAddress(hash [32]byte, signature []byte) (Address, error) {
	if len(signature) != SignatureLength {
		return Address{}, fmt.Errorf("%w: length %d, want %d", ErrInvalidSignature, len(signature), SignatureLength)
	}

	recoveryID := signature[64]
	if recoveryID >= 27 {
		recoveryID -= 27
	}
	if recoveryID > 1 {
		return Address{}, fmt.Errorf("%w: recovery id %d", ErrInvalidSignature, signature[64])
	}

	// decred's compact form puts the recovery code first: 27 + id for
	// an uncompressed key, followed by r and s.
	compact := make([]byte, SignatureLength)
	compact[0] = 27 + recoveryID
	copy(compact[1:], signature[:64])

	publicKey, _, err := ecdsa.RecoverCompact(compact, hash[:])
	if err != nil {
		return Address{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return AddressFromPublicKey(publicKey), nil
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	reflected := reflect.ValueOf(value)
	switch reflected.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return reflected.IsNil()
	}
	return false
}
