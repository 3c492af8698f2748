// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

// Package coordclient provides typed access to a provernet coordinator
// over gRPC or its Unix control socket. Each method maps to one RPC.
// Server failures are returned as *service.ServiceError, whose Code
// distinguishes not-found from invalid input and the rest.
package coordclient

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc"

	"github.com/provernet/coordinator/lib/schema"
	"github.com/provernet/coordinator/lib/schema/artifact"
	"github.com/provernet/coordinator/lib/schema/network"
	"github.com/provernet/coordinator/lib/service"
	"github.com/provernet/coordinator/lib/signer"
)

// ErrNoKey is returned by methods that must sign when the client was
// created without a key.
var ErrNoKey = errors.New("a signing key is required")

// Client calls a coordinator.
type Client struct {
	caller service.Caller
	closer func() error

	key          *signer.Key
	protocolName string
}

// Option configures a Client.
type Option func(*Client)

// WithKey signs request bodies with key. protocolName must match the
// coordinator's signing.protocol_name; empty selects the default.
func WithKey(key *signer.Key, protocolName string) Option {
	return func(c *Client) {
		c.key = key
		if protocolName != "" {
			c.protocolName = protocolName
		}
	}
}

// New wraps an existing Caller.
func New(caller service.Caller, options ...Option) *Client {
	c := &Client{
		caller:       caller,
		closer:       func() error { return nil },
		protocolName: signer.DefaultProtocolName,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// DialGRPC creates a client for the coordinator's gRPC endpoint.
// dialOptions are passed to grpc after the codec defaults.
func DialGRPC(target string, options []Option, dialOptions ...grpc.DialOption) (*Client, error) {
	grpcClient, err := service.DialGRPC(target, dialOptions...)
	if err != nil {
		return nil, err
	}
	c := New(grpcClient, options...)
	c.closer = grpcClient.Close
	return c, nil
}

// NewSocket creates a client for the coordinator's control socket.
func NewSocket(socketPath string, options ...Option) *Client {
	return New(service.NewServiceClient(socketPath), options...)
}

// Close releases the underlying connection, if any.
func (c *Client) Close() error {
	return c.closer()
}

// Address returns the signing key's address, or the zero address
// when the client has no key.
func (c *Client) Address() signer.Address {
	if c.key == nil {
		return signer.Address{}
	}
	return c.key.Address()
}

func signBody[T any](c *Client, body *T) (schema.Signed[T], error) {
	if c.key == nil {
		return schema.Signed[T]{}, ErrNoKey
	}
	envelope, err := signer.Envelope(c.key, c.protocolName, body)
	if err != nil {
		return schema.Signed[T]{}, fmt.Errorf("signing request body: %w", err)
	}
	return envelope, nil
}

// --- Proof requests ---

// RequestProof submits a signed proof request.
func (c *Client) RequestProof(ctx context.Context, body network.RequestProofBody) (network.RequestProofResponse, error) {
	var response network.RequestProofResponse
	envelope, err := signBody(c, &body)
	if err != nil {
		return response, err
	}
	err = c.caller.Call(ctx, network.MethodRequestProof, envelope, &response)
	return response, err
}

// FulfillProof submits proof bytes for a request, signed as the
// fulfiller.
func (c *Client) FulfillProof(ctx context.Context, body network.FulfillProofBody) (network.FulfillProofResponse, error) {
	var response network.FulfillProofResponse
	envelope, err := signBody(c, &body)
	if err != nil {
		return response, err
	}
	err = c.caller.Call(ctx, network.MethodFulfillProof, envelope, &response)
	return response, err
}

// FailFulfillment marks a request unfulfillable. The body is signed
// when the client has a key; the coordinator does not require it.
func (c *Client) FailFulfillment(ctx context.Context, body network.FailFulfillmentBody) (network.FailFulfillmentResponse, error) {
	var response network.FailFulfillmentResponse
	envelope := schema.Signed[network.FailFulfillmentBody]{Body: &body}
	if c.key != nil {
		var err error
		if envelope, err = signBody(c, &body); err != nil {
			return response, err
		}
	}
	err := c.caller.Call(ctx, network.MethodFailFulfillment, envelope, &response)
	return response, err
}

func (c *Client) ProofRequestStatus(ctx context.Context, requestID []byte) (network.ProofRequestStatus, error) {
	var status network.ProofRequestStatus
	err := c.caller.Call(ctx, network.MethodGetProofRequestStatus,
		network.GetProofRequestStatusRequest{RequestID: requestID}, &status)
	return status, err
}

func (c *Client) ProofRequestDetails(ctx context.Context, requestID []byte) (network.ProofRequest, error) {
	var response network.GetProofRequestDetailsResponse
	err := c.caller.Call(ctx, network.MethodGetProofRequestDetails,
		network.GetProofRequestDetailsRequest{RequestID: requestID}, &response)
	if err != nil {
		return network.ProofRequest{}, err
	}
	if response.Request == nil {
		return network.ProofRequest{}, fmt.Errorf("details for %x carry no request", requestID)
	}
	return *response.Request, nil
}

// FilteredProofRequests returns one page of requests matching
// criteria, oldest first.
func (c *Client) FilteredProofRequests(ctx context.Context, criteria network.GetFilteredProofRequestsRequest) ([]network.ProofRequest, error) {
	var response network.GetFilteredProofRequestsResponse
	if err := c.caller.Call(ctx, network.MethodGetFilteredProofRequests, criteria, &response); err != nil {
		return nil, err
	}
	return response.Requests, nil
}

// --- Programs and accounts ---

// CreateProgram registers a program owned by the client's key.
func (c *Client) CreateProgram(ctx context.Context, body network.CreateProgramBody) (network.CreateProgramResponse, error) {
	var response network.CreateProgramResponse
	envelope, err := signBody(c, &body)
	if err != nil {
		return response, err
	}
	err = c.caller.Call(ctx, network.MethodCreateProgram, envelope, &response)
	return response, err
}

func (c *Client) Program(ctx context.Context, vkHash []byte) (network.Program, error) {
	var response network.GetProgramResponse
	err := c.caller.Call(ctx, network.MethodGetProgram, network.GetProgramRequest{VKHash: vkHash}, &response)
	if err != nil {
		return network.Program{}, err
	}
	if response.Program == nil {
		return network.Program{}, fmt.Errorf("program %x: empty response", vkHash)
	}
	return *response.Program, nil
}

func (c *Client) Nonce(ctx context.Context, address []byte) (uint64, error) {
	var response network.GetNonceResponse
	err := c.caller.Call(ctx, network.MethodGetNonce, network.GetNonceRequest{Address: address}, &response)
	return response.Nonce, err
}

func (c *Client) Owner(ctx context.Context, address []byte) ([]byte, error) {
	var response network.GetOwnerResponse
	err := c.caller.Call(ctx, network.MethodGetOwner, network.GetOwnerRequest{Address: address}, &response)
	return response.Owner, err
}

// --- Artifacts ---

// CreateArtifact mints an artifact. PUT the bytes to the returned
// presigned URL, then reference the artifact URI in requests.
func (c *Client) CreateArtifact(ctx context.Context, artifactType artifact.Type) (artifact.CreateArtifactResponse, error) {
	var response artifact.CreateArtifactResponse
	err := c.caller.Call(ctx, artifact.MethodCreateArtifact,
		artifact.CreateArtifactRequest{ArtifactType: artifactType}, &response)
	return response, err
}
