// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

// Package artifact defines the wire types of the artifact.ArtifactStore
// service: artifact types and the CreateArtifact request and response.
package artifact
