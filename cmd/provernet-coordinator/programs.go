// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"

	"github.com/provernet/coordinator/lib/schema"
	"github.com/provernet/coordinator/lib/schema/network"
	"github.com/provernet/coordinator/lib/service"
	"github.com/provernet/coordinator/lib/signer"
)

// handleCreateProgram registers a program under its vk hash, replacing
// any earlier registration. The signer becomes the owner.
func (c *Coordinator) handleCreateProgram(ctx context.Context, raw []byte) (any, error) {
	var envelope schema.Signed[network.CreateProgramBody]
	if err := service.Decode(raw, &envelope); err != nil {
		return nil, err
	}
	owner, err := signer.Recover(c.auth, envelope)
	if err != nil {
		return nil, authError(err)
	}
	body := envelope.Body
	if len(body.VKHash) == 0 {
		return nil, service.Errorf(service.CodeInvalidArgument, "vk_hash is required")
	}

	txHash, err := c.randomHash()
	if err != nil {
		return nil, err
	}

	replaced, err := c.programs.Create(network.Program{
		VK:         body.VK,
		VKHash:     body.VKHash,
		ProgramURI: body.ProgramURI,
		Name:       body.Name,
		Owner:      owner.Bytes(),
		CreatedAt:  c.now(),
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("program registered",
		"vk_hash", fmt.Sprintf("%x", body.VKHash),
		"owner", owner.Hex(),
		"program_uri", body.ProgramURI,
		"replaced", replaced,
	)
	return network.CreateProgramResponse{TxHash: txHash}, nil
}

func (c *Coordinator) handleGetProgram(ctx context.Context, raw []byte) (any, error) {
	var request network.GetProgramRequest
	if err := service.Decode(raw, &request); err != nil {
		return nil, err
	}
	program, err := c.programs.Get(request.VKHash)
	if err != nil {
		return nil, storeError(err)
	}
	return network.GetProgramResponse{Program: &program}, nil
}

// handleGetNonce always answers 0: submissions carry no replay
// protection, so there is no per-account counter to report.
func (c *Coordinator) handleGetNonce(ctx context.Context, raw []byte) (any, error) {
	var request network.GetNonceRequest
	if err := service.Decode(raw, &request); err != nil {
		return nil, err
	}
	return network.GetNonceResponse{Nonce: 0}, nil
}

// handleGetOwner echoes the address: every account owns itself.
func (c *Coordinator) handleGetOwner(ctx context.Context, raw []byte) (any, error) {
	var request network.GetOwnerRequest
	if err := service.Decode(raw, &request); err != nil {
		return nil, err
	}
	return network.GetOwnerResponse{Owner: request.Address}, nil
}
