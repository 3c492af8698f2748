// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

package artifact

import (
	"fmt"
	"strings"
)

// ServiceName is the gRPC service for artifact staging.
const ServiceName = "artifact.ArtifactStore"

const MethodCreateArtifact = ServiceName + "/CreateArtifact"

// Type classifies the payload an artifact will hold.
type Type int32

const (
	TypeUnspecified Type = 0
	TypeProgram     Type = 1
	TypeStdin       Type = 2
	TypeProof       Type = 3
	TypeTransaction Type = 4
)

var typeNames = []string{"unspecified", "program", "stdin", "proof", "transaction"}

func (t Type) String() string {
	if t.Valid() {
		return typeNames[t]
	}
	return fmt.Sprintf("unknown(%d)", int32(t))
}

// Valid reports whether t is one of the defined artifact types.
func (t Type) Valid() bool {
	return t >= 0 && int(t) < len(typeNames)
}

// ParseType accepts the lower-case names returned by String.
func ParseType(name string) (Type, error) {
	normalized := strings.ToLower(name)
	for i, candidate := range typeNames {
		if candidate == normalized {
			return Type(i), nil
		}
	}
	return 0, fmt.Errorf("unknown artifact type %q (valid: %s)", name, strings.Join(typeNames, ", "))
}

type CreateArtifactRequest struct {
	ArtifactType Type `cbor:"artifact_type"`
}

// CreateArtifactResponse returns the storage URI under which the
// artifact is referenced in proof requests and the URL its bytes must
// be PUT to.
type CreateArtifactResponse struct {
	ArtifactURI          string `cbor:"artifact_uri"`
	ArtifactPresignedURL string `cbor:"artifact_presigned_url"`
}
