// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

package network

// ServiceName is the gRPC service that carries the proof marketplace
// methods.
const ServiceName = "network.ProverNetwork"

// Implemented methods. Any other method of ServiceName is answered
// with Unimplemented.
const (
	MethodRequestProof             = ServiceName + "/RequestProof"
	MethodFulfillProof             = ServiceName + "/FulfillProof"
	MethodFailFulfillment          = ServiceName + "/FailFulfillment"
	MethodGetProofRequestStatus    = ServiceName + "/GetProofRequestStatus"
	MethodGetProofRequestDetails   = ServiceName + "/GetProofRequestDetails"
	MethodGetFilteredProofRequests = ServiceName + "/GetFilteredProofRequests"
	MethodCreateProgram            = ServiceName + "/CreateProgram"
	MethodGetProgram               = ServiceName + "/GetProgram"
	MethodGetNonce                 = ServiceName + "/GetNonce"
	MethodGetOwner                 = ServiceName + "/GetOwner"
)

// RequestProofBody is the signed body of RequestProof.
type RequestProofBody struct {
	Nonce            uint64              `cbor:"nonce"`
	VKHash           []byte              `cbor:"vk_hash"`
	Version          string              `cbor:"version"`
	Mode             ProofMode           `cbor:"mode"`
	Strategy         FulfillmentStrategy `cbor:"strategy"`
	StdinURI         string              `cbor:"stdin_uri"`
	Deadline         uint64              `cbor:"deadline"`
	CycleLimit       uint64              `cbor:"cycle_limit"`
	GasLimit         uint64              `cbor:"gas_limit"`
	MinAuctionPeriod uint64              `cbor:"min_auction_period"`
	Whitelist        [][]byte            `cbor:"whitelist,omitempty"`
	Domain           []byte              `cbor:"domain,omitempty"`
	Auctioneer       []byte              `cbor:"auctioneer,omitempty"`
	Executor         []byte              `cbor:"executor,omitempty"`
	Verifier         []byte              `cbor:"verifier,omitempty"`
	Treasury         []byte              `cbor:"treasury,omitempty"`
	PublicValuesHash []byte              `cbor:"public_values_hash,omitempty"`
	BaseFee          string              `cbor:"base_fee,omitempty"`
	MaxPricePerPGU   string              `cbor:"max_price_per_pgu,omitempty"`
	Variant          int32               `cbor:"variant,omitempty"`
}

type RequestProofResponse struct {
	TxHash    []byte `cbor:"tx_hash"`
	RequestID []byte `cbor:"request_id"`
}

// FulfillProofBody is the signed body of FulfillProof. Proof carries
// the proof bytes, which the coordinator moves to the blob endpoint.
type FulfillProofBody struct {
	Nonce            uint64 `cbor:"nonce"`
	RequestID        []byte `cbor:"request_id"`
	Proof            []byte `cbor:"proof"`
	Domain           []byte `cbor:"domain,omitempty"`
	Variant          int32  `cbor:"variant,omitempty"`
	ReservedMetadata string `cbor:"reserved_metadata,omitempty"`
}

type FulfillProofResponse struct {
	TxHash []byte `cbor:"tx_hash"`
}

// FailFulfillmentBody is the body of FailFulfillment. The envelope's
// signature is accepted but not verified.
type FailFulfillmentBody struct {
	Nonce     uint64 `cbor:"nonce"`
	RequestID []byte `cbor:"request_id"`
	Error     *int32 `cbor:"error,omitempty"`
	Domain    []byte `cbor:"domain,omitempty"`
}

type FailFulfillmentResponse struct {
	TxHash []byte `cbor:"tx_hash"`
}

type GetProofRequestStatusRequest struct {
	RequestID []byte `cbor:"request_id"`
}

type GetProofRequestDetailsRequest struct {
	RequestID []byte `cbor:"request_id"`
}

type GetProofRequestDetailsResponse struct {
	Request *ProofRequest `cbor:"request,omitempty"`
}

// GetFilteredProofRequestsRequest carries the query criteria. Every
// field is optional; an absent field matches everything. From, To and
// NotBidBy are accepted and ignored.
type GetFilteredProofRequestsRequest struct {
	Version           string             `cbor:"version,omitempty"`
	FulfillmentStatus *FulfillmentStatus `cbor:"fulfillment_status,omitempty"`
	ExecutionStatus   *ExecutionStatus   `cbor:"execution_status,omitempty"`
	Mode              *ProofMode         `cbor:"mode,omitempty"`
	MinimumDeadline   *uint64            `cbor:"minimum_deadline,omitempty"`
	VKHash            []byte             `cbor:"vk_hash,omitempty"`
	Requester         []byte             `cbor:"requester,omitempty"`
	Fulfiller         []byte             `cbor:"fulfiller,omitempty"`
	SettlementStatus  *SettlementStatus  `cbor:"settlement_status,omitempty"`
	ExecuteFailCause  *ExecuteFailCause  `cbor:"execute_fail_cause,omitempty"`
	Error             *int32             `cbor:"error,omitempty"`
	From              *uint64            `cbor:"from,omitempty"`
	To                *uint64            `cbor:"to,omitempty"`
	NotBidBy          []byte             `cbor:"not_bid_by,omitempty"`
	Page              *uint32            `cbor:"page,omitempty"`
	Limit             *uint32            `cbor:"limit,omitempty"`
}

type GetFilteredProofRequestsResponse struct {
	Requests []ProofRequest `cbor:"requests"`
}

// CreateProgramBody is the signed body of CreateProgram. The signer
// becomes the program's owner.
type CreateProgramBody struct {
	Nonce      uint64 `cbor:"nonce"`
	VK         []byte `cbor:"vk"`
	VKHash     []byte `cbor:"vk_hash"`
	ProgramURI string `cbor:"program_uri"`
	Name       string `cbor:"name,omitempty"`
	Domain     []byte `cbor:"domain,omitempty"`
}

type CreateProgramResponse struct {
	TxHash []byte `cbor:"tx_hash"`
}

type GetProgramRequest struct {
	VKHash []byte `cbor:"vk_hash"`
}

type GetProgramResponse struct {
	Program *Program `cbor:"program,omitempty"`
}

type GetNonceRequest struct {
	Address []byte `cbor:"address"`
}

type GetNonceResponse struct {
	Nonce uint64 `cbor:"nonce"`
}

type GetOwnerRequest struct {
	Address []byte `cbor:"address"`
}

type GetOwnerResponse struct {
	Owner []byte `cbor:"owner"`
}
