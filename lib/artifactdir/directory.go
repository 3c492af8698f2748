// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

// Package artifactdir mints artifact identities: a random id, the
// s3:// URI under which proof requests reference the artifact, and the
// HTTP URL its bytes are uploaded to and downloaded from.
//
// The directory only names artifacts. Bytes live in the blob endpoint
// (lib/blobstore), keyed by the same id.
package artifactdir

import (
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/provernet/coordinator/lib/schema/artifact"
)

// ErrUnknownType is returned for an artifact type outside the
// defined enumeration.
var ErrUnknownType = errors.New("unknown artifact type")

// ErrNotFound is returned by lookup for a URI that was never recorded.
var ErrNotFound = errors.New("artifact not found")

// Artifact is one minted artifact identity.
type Artifact struct {
	ID   string
	Type artifact.Type
	// URI is the storage reference, s3://<bucket>/<prefix>/<id>.
	URI string
	// PresignedURL is where clients PUT the bytes and anyone GETs
	// them back.
	PresignedURL string
}

// Config configures a Directory.
type Config struct {
	// Bucket is the bucket named in every URI.
	Bucket string
	// PublicBaseURL prefixes presigned and download URLs.
	PublicBaseURL string
	// UploadBaseURL prefixes the URLs the coordinator uploads to
	// itself.
	UploadBaseURL string
}

// Directory mints and records artifacts. Safe for concurrent use.
type Directory struct {
	bucket        string
	publicBaseURL string
	uploadBaseURL string

	mu        sync.RWMutex
	artifacts map[string]Artifact
}

// New creates a Directory.
func New(config Config) *Directory {
	return &Directory{
		bucket:        config.Bucket,
		publicBaseURL: strings.TrimSuffix(config.PublicBaseURL, "/"),
		uploadBaseURL: strings.TrimSuffix(config.UploadBaseURL, "/"),
		artifacts:     make(map[string]Artifact),
	}
}

// prefixes maps each type to the path segment of its URI.
var prefixes = map[artifact.Type]string{
	artifact.TypeUnspecified: "artifacts",
	artifact.TypeProgram:     "programs",
	artifact.TypeStdin:       "stdins",
	artifact.TypeProof:       "proofs",
	artifact.TypeTransaction: "transactions",
}

// Mint computes a new artifact identity without recording it.
func (d *Directory) Mint(artifactType artifact.Type) (Artifact, error) {
	prefix, ok := prefixes[artifactType]
	if !ok {
		return Artifact{}, fmt.Errorf("%w: %d", ErrUnknownType, int32(artifactType))
	}
	random := uuid.New()
	id := hex.EncodeToString(random[:])
	return Artifact{
		ID:           id,
		Type:         artifactType,
		URI:          "s3://" + d.bucket + "/" + prefix + "/" + id,
		PresignedURL: d.DownloadURL(id),
	}, nil
}

// Record stores a minted artifact.
func (d *Directory) Record(minted Artifact) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.artifacts[minted.URI] = minted
}

// Create mints and records an artifact.
func (d *Directory) Create(artifactType artifact.Type) (Artifact, error) {
	minted, err := d.Mint(artifactType)
	if err != nil {
		return Artifact{}, err
	}
	d.Record(minted)
	return minted, nil
}

// lookup returns the recorded artifact with the given URI.
func (d *Directory) lookup(uri string) (Artifact, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	found, ok := d.artifacts[uri]
	if !ok {
		return Artifact{}, fmt.Errorf("%w: %s", ErrNotFound, uri)
	}
	return found, nil
}

// Len returns the number of recorded artifacts.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.artifacts)
}

// DownloadURL is the public URL for id.
func (d *Directory) DownloadURL(id string) string {
	return d.publicBaseURL + "/artifacts/" + url.PathEscape(id)
}

// UploadURL is the URL the coordinator PUTs proof bytes to.
func (d *Directory) UploadURL(id string) string {
	return d.uploadBaseURL + "/artifacts/" + url.PathEscape(id)
}

// IDFromURI extracts the artifact id from an s3:// URI or an
// /artifacts/ URL.
func IDFromURI(uri string) (string, error) {
	parsed, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("parsing artifact URI: %w", err)
	}
	if parsed.Scheme == "" {
		return "", fmt.Errorf("artifact URI %q has no scheme", uri)
	}
	path := strings.Trim(parsed.Path, "/")
	slash := strings.LastIndex(path, "/")
	if slash < 0 || slash == len(path)-1 {
		return "", fmt.Errorf("artifact URI %q has no id", uri)
	}
	return path[slash+1:], nil
}
