// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

package network

import "slices"

// ProofRequest is the authoritative record of one request to prove a
// program execution. The coordinator creates it on RequestProof and
// mutates it on FulfillProof and FailFulfillment; it is never deleted.
//
// Addresses (Requester, Fulfiller, Whitelist entries) are 20-byte
// secp256k1 addresses. RequestID, TxHash and FulfillTxHash are 32
// bytes.
type ProofRequest struct {
	RequestID        []byte              `cbor:"request_id"`
	VKHash           []byte              `cbor:"vk_hash"`
	Version          string              `cbor:"version"`
	Mode             ProofMode           `cbor:"mode"`
	Strategy         FulfillmentStrategy `cbor:"strategy"`
	ProgramURI       string              `cbor:"program_uri"`
	ProgramPublicURI string              `cbor:"program_public_uri"`
	StdinURI         string              `cbor:"stdin_uri"`
	StdinPublicURI   string              `cbor:"stdin_public_uri"`
	Deadline         uint64              `cbor:"deadline"`
	CycleLimit       uint64              `cbor:"cycle_limit"`
	GasLimit         uint64              `cbor:"gas_limit"`
	MinAuctionPeriod uint64              `cbor:"min_auction_period"`
	Whitelist        [][]byte            `cbor:"whitelist,omitempty"`
	TxHash           []byte              `cbor:"tx_hash"`
	Requester        []byte              `cbor:"requester"`

	// Fulfiller is nil when no prover is assigned.
	Fulfiller []byte `cbor:"fulfiller,omitempty"`

	FulfillmentStatus FulfillmentStatus `cbor:"fulfillment_status"`
	ExecutionStatus   ExecutionStatus   `cbor:"execution_status"`
	SettlementStatus  SettlementStatus  `cbor:"settlement_status"`
	ExecuteFailCause  ExecuteFailCause  `cbor:"execute_fail_cause"`
	ErrorCode         int32             `cbor:"error"`

	FulfillTxHash    []byte `cbor:"fulfill_tx_hash,omitempty"`
	ProofURI         string `cbor:"proof_uri,omitempty"`
	ProofPublicURI   string `cbor:"proof_public_uri,omitempty"`
	PublicValuesHash []byte `cbor:"public_values_hash,omitempty"`

	// Pass-through fields from the submission body. The coordinator
	// stores them but attaches no behavior.
	Domain         []byte `cbor:"domain,omitempty"`
	Auctioneer     []byte `cbor:"auctioneer,omitempty"`
	Executor       []byte `cbor:"executor,omitempty"`
	Verifier       []byte `cbor:"verifier,omitempty"`
	Treasury       []byte `cbor:"treasury,omitempty"`
	BaseFee        string `cbor:"base_fee,omitempty"`
	MaxPricePerPGU string `cbor:"max_price_per_pgu,omitempty"`
	Variant        int32  `cbor:"variant,omitempty"`

	// Timestamps are unix seconds.
	CreatedAt   uint64  `cbor:"created_at"`
	UpdatedAt   uint64  `cbor:"updated_at"`
	FulfilledAt *uint64 `cbor:"fulfilled_at,omitempty"`
}

// Clone returns a deep copy. Store readers always receive clones so
// that no caller holds a reference into the live record.
func (r ProofRequest) Clone() ProofRequest {
	clone := r
	clone.RequestID = slices.Clone(r.RequestID)
	clone.VKHash = slices.Clone(r.VKHash)
	clone.TxHash = slices.Clone(r.TxHash)
	clone.Requester = slices.Clone(r.Requester)
	clone.Fulfiller = slices.Clone(r.Fulfiller)
	clone.FulfillTxHash = slices.Clone(r.FulfillTxHash)
	clone.PublicValuesHash = slices.Clone(r.PublicValuesHash)
	clone.Domain = slices.Clone(r.Domain)
	clone.Auctioneer = slices.Clone(r.Auctioneer)
	clone.Executor = slices.Clone(r.Executor)
	clone.Verifier = slices.Clone(r.Verifier)
	clone.Treasury = slices.Clone(r.Treasury)
	if r.Whitelist != nil {
		clone.Whitelist = make([][]byte, len(r.Whitelist))
		for i, address := range r.Whitelist {
			clone.Whitelist[i] = slices.Clone(address)
		}
	}
	if r.FulfilledAt != nil {
		fulfilledAt := *r.FulfilledAt
		clone.FulfilledAt = &fulfilledAt
	}
	return clone
}

// ProofRequestStatus is the denormalized status view returned by
// GetProofRequestStatus. It is updated in the same critical section as
// the ProofRequest it describes.
type ProofRequestStatus struct {
	FulfillmentStatus FulfillmentStatus `cbor:"fulfillment_status"`
	ExecutionStatus   ExecutionStatus   `cbor:"execution_status"`
	RequestTxHash     []byte            `cbor:"request_tx_hash"`
	Deadline          uint64            `cbor:"deadline"`
	FulfillTxHash     []byte            `cbor:"fulfill_tx_hash,omitempty"`
	ProofURI          string            `cbor:"proof_uri,omitempty"`
	ProofPublicURI    string            `cbor:"proof_public_uri,omitempty"`
	PublicValuesHash  []byte            `cbor:"public_values_hash,omitempty"`
}

// Clone returns a deep copy.
func (s ProofRequestStatus) Clone() ProofRequestStatus {
	clone := s
	clone.RequestTxHash = slices.Clone(s.RequestTxHash)
	clone.FulfillTxHash = slices.Clone(s.FulfillTxHash)
	clone.PublicValuesHash = slices.Clone(s.PublicValuesHash)
	return clone
}

// Program is a registered guest program, keyed by the hash of its
// verifying key.
type Program struct {
	VK         []byte `cbor:"vk"`
	VKHash     []byte `cbor:"vk_hash"`
	ProgramURI string `cbor:"program_uri"`
	Name       string `cbor:"name,omitempty"`
	Owner      []byte `cbor:"owner"`
	CreatedAt  uint64 `cbor:"created_at"`
}

// Clone returns a deep copy.
func (p Program) Clone() Program {
	clone := p
	clone.VK = slices.Clone(p.VK)
	clone.VKHash = slices.Clone(p.VKHash)
	clone.Owner = slices.Clone(p.Owner)
	return clone
}
