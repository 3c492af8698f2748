// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"

	"github.com/provernet/coordinator/lib/artifactdir"
	"github.com/provernet/coordinator/lib/schema/artifact"
	"github.com/provernet/coordinator/lib/service"
)

// handleCreateArtifact mints an artifact identity. The caller PUTs
// the bytes to the returned presigned URL. No signature is required.
func (c *Coordinator) handleCreateArtifact(ctx context.Context, raw []byte) (any, error) {
	var request artifact.CreateArtifactRequest
	if err := service.Decode(raw, &request); err != nil {
		return nil, err
	}
	created, err := c.artifacts.Create(request.ArtifactType)
	if err != nil {
		if errors.Is(err, artifactdir.ErrUnknownType) {
			return nil, service.Errorf(service.CodeInvalidArgument, "%w", err)
		}
		return nil, err
	}
	c.logger.Debug("artifact created",
		"artifact_type", request.ArtifactType.String(),
		"artifact_uri", created.URI,
		"artifacts", c.artifacts.Len(),
	)
	return artifact.CreateArtifactResponse{
		ArtifactURI:          created.URI,
		ArtifactPresignedURL: created.PresignedURL,
	}, nil
}
