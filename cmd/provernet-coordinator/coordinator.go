// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/provernet/coordinator/lib/artifactdir"
	"github.com/provernet/coordinator/lib/clock"
	"github.com/provernet/coordinator/lib/metrics"
	"github.com/provernet/coordinator/lib/proofstore"
	"github.com/provernet/coordinator/lib/schema/artifact"
	"github.com/provernet/coordinator/lib/schema/network"
	"github.com/provernet/coordinator/lib/service"
	"github.com/provernet/coordinator/lib/signer"
)

// hashLength is the size of request ids and transaction hashes.
const hashLength = 32

// proofUploader moves proof bytes to the blob endpoint. Satisfied by
// *blobstore.Uploader; tests substitute a failing double.
type proofUploader interface {
	Upload(ctx context.Context, url string, data []byte) error
}

// Coordinator owns the proof marketplace state and serves every
// method of the dispatch table. Handlers run concurrently; all shared
// state lives in the stores, which do their own locking.
type Coordinator struct {
	requests  *proofstore.RequestStore
	programs  *proofstore.ProgramRegistry
	artifacts *artifactdir.Directory
	auth      *signer.Authenticator
	uploader  proofUploader
	metrics   *metrics.Metrics
	clock     clock.Clock

	// random supplies request ids and transaction hashes.
	random io.Reader

	logger *slog.Logger
}

// registerActions registers every implemented method on router. Any
// other method, of any service, falls through to the router's
// Unimplemented answer.
func (c *Coordinator) registerActions(router *service.Router) {
	router.Handle(network.MethodRequestProof, c.handleRequestProof)
	router.Handle(network.MethodFulfillProof, c.handleFulfillProof)
	router.Handle(network.MethodFailFulfillment, c.handleFailFulfillment)
	router.Handle(network.MethodGetProofRequestStatus, c.handleGetProofRequestStatus)
	router.Handle(network.MethodGetProofRequestDetails, c.handleGetProofRequestDetails)
	router.Handle(network.MethodGetFilteredProofRequests, c.handleGetFilteredProofRequests)

	router.Handle(network.MethodCreateProgram, c.handleCreateProgram)
	router.Handle(network.MethodGetProgram, c.handleGetProgram)
	router.Handle(network.MethodGetNonce, c.handleGetNonce)
	router.Handle(network.MethodGetOwner, c.handleGetOwner)

	router.Handle(artifact.MethodCreateArtifact, c.handleCreateArtifact)
}

// now returns the current time in unix seconds.
func (c *Coordinator) now() uint64 {
	return uint64(clock.Unix(c.clock))
}

// randomHash returns hashLength random bytes.
func (c *Coordinator) randomHash() ([]byte, error) {
	hash := make([]byte, hashLength)
	if _, err := io.ReadFull(c.random, hash); err != nil {
		return nil, fmt.Errorf("generating random hash: %w", err)
	}
	return hash, nil
}

// authError converts a signer failure to InvalidArgument.
func authError(err error) error {
	if errors.Is(err, signer.ErrMissingBody) {
		return service.Errorf(service.CodeInvalidArgument, "Request body is required")
	}
	return service.Errorf(service.CodeInvalidArgument, "Failed to recover signer address: %w", err)
}

// storeError converts a proofstore sentinel to its coded form. Other
// errors pass through and surface as Internal.
func storeError(err error) error {
	switch {
	case errors.Is(err, proofstore.ErrNotFound), errors.Is(err, proofstore.ErrProgramNotFound):
		return service.Errorf(service.CodeNotFound, "%w", err)
	case errors.Is(err, proofstore.ErrTerminal):
		return service.Errorf(service.CodeFailedPrecondition, "%w", err)
	default:
		return err
	}
}
