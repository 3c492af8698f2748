// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"fmt"

	"google.golang.org/grpc/encoding"
)

// Name is the gRPC content-subtype for CBOR message bodies. Clients
// select it with grpc.CallContentSubtype(codec.Name); the server picks
// the codec from the request's content-type.
const Name = "cbor"

func init() {
	encoding.RegisterCodec(grpcCodec{})
}

// grpcCodec adapts the deterministic CBOR modes to grpc-go's
// encoding.Codec.
type grpcCodec struct{}

func (grpcCodec) Marshal(v any) ([]byte, error) {
	data, err := encMode.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("cbor codec: marshal %T: %w", v, err)
	}
	return data, nil
}

// Unmarshal leaves v untouched for an empty message, the way an empty
// protobuf message decodes to its zero value.
func (grpcCodec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	if err := decMode.Unmarshal(data, v); err != nil {
		return fmt.Errorf("cbor codec: unmarshal %T: %w", v, err)
	}
	return nil
}

func (grpcCodec) Name() string {
	return Name
}
