// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/provernet/coordinator/lib/proofstore"
	"github.com/provernet/coordinator/lib/schema"
	"github.com/provernet/coordinator/lib/schema/artifact"
	"github.com/provernet/coordinator/lib/schema/network"
	"github.com/provernet/coordinator/lib/service"
	"github.com/provernet/coordinator/lib/signer"
)

// handleRequestProof records a new proof request. The signer becomes
// both requester and fulfiller: this coordinator assigns every request
// to whoever asked for it.
func (c *Coordinator) handleRequestProof(ctx context.Context, raw []byte) (any, error) {
	var envelope schema.Signed[network.RequestProofBody]
	if err := service.Decode(raw, &envelope); err != nil {
		return nil, err
	}
	requester, err := signer.Recover(c.auth, envelope)
	if err != nil {
		return nil, authError(err)
	}
	body := envelope.Body

	requestID, err := c.randomHash()
	if err != nil {
		return nil, err
	}
	txHash, err := c.randomHash()
	if err != nil {
		return nil, err
	}

	// An unregistered program is tolerated; its URIs stay empty.
	var programURI string
	program, err := c.programs.Get(body.VKHash)
	switch {
	case err == nil:
		programURI = program.ProgramURI
	case !errors.Is(err, proofstore.ErrProgramNotFound):
		return nil, err
	}

	now := c.now()
	record := network.ProofRequest{
		RequestID:         requestID,
		VKHash:            slices.Clone(body.VKHash),
		Version:           body.Version,
		Mode:              body.Mode,
		Strategy:          body.Strategy,
		ProgramURI:        programURI,
		ProgramPublicURI:  programURI,
		StdinURI:          body.StdinURI,
		StdinPublicURI:    body.StdinURI,
		Deadline:          body.Deadline,
		CycleLimit:        body.CycleLimit,
		GasLimit:          body.GasLimit,
		MinAuctionPeriod:  body.MinAuctionPeriod,
		Whitelist:         body.Whitelist,
		TxHash:            txHash,
		Requester:         requester.Bytes(),
		Fulfiller:         requester.Bytes(),
		FulfillmentStatus: network.FulfillmentAssigned,
		ExecutionStatus:   network.ExecutionUnexecuted,
		PublicValuesHash:  body.PublicValuesHash,
		Domain:            body.Domain,
		Auctioneer:        body.Auctioneer,
		Executor:          body.Executor,
		Verifier:          body.Verifier,
		Treasury:          body.Treasury,
		BaseFee:           body.BaseFee,
		MaxPricePerPGU:    body.MaxPricePerPGU,
		Variant:           body.Variant,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	status := network.ProofRequestStatus{
		FulfillmentStatus: record.FulfillmentStatus,
		ExecutionStatus:   record.ExecutionStatus,
		RequestTxHash:     txHash,
		Deadline:          body.Deadline,
	}
	// Create clones both values, so the body's slices are not shared
	// with the stored record.
	if err := c.requests.Create(record, status); err != nil {
		return nil, err
	}
	c.metrics.ProofRequestTransition(network.FulfillmentAssigned)

	c.logger.Info("proof request created",
		"request_id", fmt.Sprintf("%x", requestID),
		"requester", requester.Hex(),
		"vk_hash", fmt.Sprintf("%x", body.VKHash),
		"program_registered", programURI != "",
	)
	return network.RequestProofResponse{TxHash: txHash, RequestID: requestID}, nil
}

// handleFulfillProof stores the proof bytes on the blob endpoint and
// marks the request Fulfilled. The upload runs without any store lock
// held; the request is checked again when the result is committed.
// A failed upload changes nothing.
func (c *Coordinator) handleFulfillProof(ctx context.Context, raw []byte) (any, error) {
	var envelope schema.Signed[network.FulfillProofBody]
	if err := service.Decode(raw, &envelope); err != nil {
		return nil, err
	}
	fulfiller, err := signer.Recover(c.auth, envelope)
	if err != nil {
		return nil, authError(err)
	}
	body := envelope.Body

	if err := c.requests.CheckOpen(body.RequestID); err != nil {
		return nil, storeError(err)
	}

	txHash, err := c.randomHash()
	if err != nil {
		return nil, err
	}
	proof, err := c.artifacts.Mint(artifact.TypeProof)
	if err != nil {
		return nil, err
	}

	uploadURL := c.artifacts.UploadURL(proof.ID)
	if err := c.uploader.Upload(ctx, uploadURL, body.Proof); err != nil {
		c.logger.Error("proof upload failed",
			"request_id", fmt.Sprintf("%x", body.RequestID),
			"url", uploadURL,
			"error", err,
		)
		return nil, service.Errorf(service.CodeInternal, "Failed to upload proof: %w", err)
	}

	_, err = c.requests.Fulfill(body.RequestID, proofstore.Fulfillment{
		Fulfiller:      fulfiller.Bytes(),
		FulfillTxHash:  txHash,
		ProofURI:       proof.URI,
		ProofPublicURI: proof.PresignedURL,
		Now:            c.now(),
	})
	if err != nil {
		// Another call reached a terminal status during the upload.
		// The uploaded blob stays behind unreferenced.
		return nil, storeError(err)
	}
	c.artifacts.Record(proof)
	c.metrics.ProofRequestTransition(network.FulfillmentFulfilled)

	c.logger.Info("proof request fulfilled",
		"request_id", fmt.Sprintf("%x", body.RequestID),
		"fulfiller", fulfiller.Hex(),
		"proof_uri", proof.URI,
		"proof_bytes", len(body.Proof),
		"artifacts", c.artifacts.Len(),
	)
	return network.FulfillProofResponse{TxHash: txHash}, nil
}

// handleFailFulfillment marks a request Unfulfillable. The envelope's
// signature is not checked. The response carries the request's
// original transaction hash.
func (c *Coordinator) handleFailFulfillment(ctx context.Context, raw []byte) (any, error) {
	var envelope schema.Signed[network.FailFulfillmentBody]
	if err := service.Decode(raw, &envelope); err != nil {
		return nil, err
	}
	if envelope.Body == nil {
		return nil, authError(signer.ErrMissingBody)
	}
	body := envelope.Body

	var errorCode int32
	if body.Error != nil {
		errorCode = *body.Error
	}

	updated, err := c.requests.Fail(body.RequestID, errorCode, c.now())
	if err != nil {
		return nil, storeError(err)
	}
	c.metrics.ProofRequestTransition(network.FulfillmentUnfulfillable)

	c.logger.Info("proof request failed",
		"request_id", fmt.Sprintf("%x", body.RequestID),
		"error_code", errorCode,
	)
	return network.FailFulfillmentResponse{TxHash: updated.TxHash}, nil
}

func (c *Coordinator) handleGetProofRequestStatus(ctx context.Context, raw []byte) (any, error) {
	var request network.GetProofRequestStatusRequest
	if err := service.Decode(raw, &request); err != nil {
		return nil, err
	}
	status, err := c.requests.Status(request.RequestID)
	if err != nil {
		return nil, storeError(err)
	}
	return status, nil
}

func (c *Coordinator) handleGetProofRequestDetails(ctx context.Context, raw []byte) (any, error) {
	var request network.GetProofRequestDetailsRequest
	if err := service.Decode(raw, &request); err != nil {
		return nil, err
	}
	record, err := c.requests.Details(request.RequestID)
	if err != nil {
		return nil, storeError(err)
	}
	return network.GetProofRequestDetailsResponse{Request: &record}, nil
}

// handleGetFilteredProofRequests filters a snapshot of the store. The
// store lock is held only while the snapshot is copied.
func (c *Coordinator) handleGetFilteredProofRequests(ctx context.Context, raw []byte) (any, error) {
	var criteria network.GetFilteredProofRequestsRequest
	if err := service.Decode(raw, &criteria); err != nil {
		return nil, err
	}
	records := c.requests.Snapshot()
	page := proofstore.Query(records, criteria)
	c.logger.Debug("filtered proof requests",
		"total", len(records),
		"returned", len(page),
	)
	return network.GetFilteredProofRequestsResponse{Requests: page}, nil
}
