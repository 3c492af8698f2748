// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

// Package blobstore is the coordinator's HTTP blob endpoint: an
// in-memory object store keyed by artifact id, the chi handler that
// serves it, and the retrying client the coordinator uses to upload
// proof bytes to it.
//
// Objects may be compressed at rest with lz4 or zstd. Data that does
// not shrink is kept raw, so an object's stored encoding can differ
// from the configured one. Every object carries a blake3 digest of
// its uncompressed bytes, served as the ETag.
package blobstore
