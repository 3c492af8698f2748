// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

package proofstore

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/btree"

	"github.com/provernet/coordinator/lib/schema/network"
)

var (
	// ErrNotFound means no proof request has the given id.
	ErrNotFound = errors.New("proof request not found")

	// ErrTerminal means the proof request is already Fulfilled or
	// Unfulfillable.
	ErrTerminal = errors.New("proof request is already terminal")

	// ErrDuplicate means a proof request with the id already exists.
	ErrDuplicate = errors.New("proof request already exists")
)

// entry is one proof request and its status view. seq breaks
// created_at ties in insertion order.
type entry struct {
	request network.ProofRequest
	status  network.ProofRequestStatus
	seq     uint64
}

func lessByCreation(a, b *entry) bool {
	if a.request.CreatedAt != b.request.CreatedAt {
		return a.request.CreatedAt < b.request.CreatedAt
	}
	return a.seq < b.seq
}

// RequestStore maps request ids to proof requests. It is safe for
// concurrent use. Every accessor returns deep copies.
type RequestStore struct {
	mu      sync.RWMutex
	entries map[string]*entry
	// byCreation indexes entries by (created_at, seq). CreatedAt is
	// never modified after Create, so entries never move.
	byCreation *btree.BTreeG[*entry]
	nextSeq    uint64
}

// NewRequestStore creates an empty store.
func NewRequestStore() *RequestStore {
	return &RequestStore{
		entries:    make(map[string]*entry),
		byCreation: btree.NewG(16, lessByCreation),
	}
}

// Fulfillment is what FulfillProof commits.
type Fulfillment struct {
	Fulfiller      []byte
	FulfillTxHash  []byte
	ProofURI       string
	ProofPublicURI string
	// Now is the commit time in unix seconds.
	Now uint64
}

// Create inserts a new proof request with its status view.
func (s *RequestStore) Create(request network.ProofRequest, status network.ProofRequestStatus) error {
	if len(request.RequestID) == 0 {
		return errors.New("proof request has no id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := string(request.RequestID)
	if _, exists := s.entries[key]; exists {
		return fmt.Errorf("%w: %x", ErrDuplicate, request.RequestID)
	}
	stored := &entry{
		request: request.Clone(),
		status:  status.Clone(),
		seq:     s.nextSeq,
	}
	s.nextSeq++
	s.entries[key] = stored
	s.byCreation.ReplaceOrInsert(stored)
	return nil
}

// Status returns the status view for id.
func (s *RequestStore) Status(id []byte) (network.ProofRequestStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.entries[string(id)]
	if !ok {
		return network.ProofRequestStatus{}, notFound(id)
	}
	return stored.status.Clone(), nil
}

// Details returns the full record for id.
func (s *RequestStore) Details(id []byte) (network.ProofRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.entries[string(id)]
	if !ok {
		return network.ProofRequest{}, notFound(id)
	}
	return stored.request.Clone(), nil
}

// CheckOpen reports whether id exists and still accepts a transition.
// The answer can change before the caller commits; Fulfill and Fail
// check again under the lock.
func (s *RequestStore) CheckOpen(id []byte) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.entries[string(id)]
	if !ok {
		return notFound(id)
	}
	if stored.request.FulfillmentStatus.Terminal() {
		return terminal(stored)
	}
	return nil
}

// Fulfill moves id to Fulfilled and Executed and records the proof
// location on both the record and its status view. Returns the updated
// record.
func (s *RequestStore) Fulfill(id []byte, fulfillment Fulfillment) (network.ProofRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.entries[string(id)]
	if !ok {
		return network.ProofRequest{}, notFound(id)
	}
	if stored.request.FulfillmentStatus.Terminal() {
		return network.ProofRequest{}, terminal(stored)
	}

	now := max(fulfillment.Now, stored.request.CreatedAt)
	fulfilledAt := now

	request := &stored.request
	request.FulfillmentStatus = network.FulfillmentFulfilled
	request.ExecutionStatus = network.ExecutionExecuted
	request.Fulfiller = slices.Clone(fulfillment.Fulfiller)
	request.FulfillTxHash = slices.Clone(fulfillment.FulfillTxHash)
	request.ProofURI = fulfillment.ProofURI
	request.ProofPublicURI = fulfillment.ProofPublicURI
	request.FulfilledAt = &fulfilledAt
	request.UpdatedAt = now

	status := &stored.status
	status.FulfillmentStatus = network.FulfillmentFulfilled
	status.ExecutionStatus = network.ExecutionExecuted
	status.FulfillTxHash = slices.Clone(fulfillment.FulfillTxHash)
	status.ProofURI = fulfillment.ProofURI
	status.ProofPublicURI = fulfillment.ProofPublicURI

	return request.Clone(), nil
}

// Fail moves id to Unfulfillable with errorCode. Returns the updated
// record.
func (s *RequestStore) Fail(id []byte, errorCode int32, now uint64) (network.ProofRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.entries[string(id)]
	if !ok {
		return network.ProofRequest{}, notFound(id)
	}
	if stored.request.FulfillmentStatus.Terminal() {
		return network.ProofRequest{}, terminal(stored)
	}

	stored.request.FulfillmentStatus = network.FulfillmentUnfulfillable
	stored.request.ErrorCode = errorCode
	stored.request.UpdatedAt = max(now, stored.request.CreatedAt)
	stored.status.FulfillmentStatus = network.FulfillmentUnfulfillable

	return stored.request.Clone(), nil
}

// Snapshot returns a copy of every record in creation order.
func (s *RequestStore) Snapshot() []network.ProofRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]network.ProofRequest, 0, len(s.entries))
	s.byCreation.Ascend(func(stored *entry) bool {
		records = append(records, stored.request.Clone())
		return true
	})
	return records
}

// Len returns the number of proof requests.
func (s *RequestStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func notFound(id []byte) error {
	return fmt.Errorf("%w: %x", ErrNotFound, id)
}

func terminal(stored *entry) error {
	return fmt.Errorf("%w: %x is %s", ErrTerminal, stored.request.RequestID, stored.request.FulfillmentStatus)
}
