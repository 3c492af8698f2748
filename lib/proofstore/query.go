// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

package proofstore

import (
	"bytes"
	"cmp"
	"slices"

	"github.com/provernet/coordinator/lib/schema/network"
)

// DefaultLimit is the page size when the criteria carry no limit.
const DefaultLimit = 50

// Query filters records, orders them by creation time, and returns one
// page. records is normally a [RequestStore.Snapshot]; Query holds no
// lock and leaves records unmodified.
//
// Every set criterion must match (AND). From, To and NotBidBy are
// accepted and ignored. An explicit limit of 0 yields an empty page.
func Query(records []network.ProofRequest, criteria network.GetFilteredProofRequestsRequest) []network.ProofRequest {
	matched := records[:0:0]
	for i := range records {
		if matches(&records[i], &criteria) {
			matched = append(matched, records[i])
		}
	}

	slices.SortStableFunc(matched, func(a, b network.ProofRequest) int {
		return cmp.Compare(a.CreatedAt, b.CreatedAt)
	})

	var page, limit uint64 = 0, DefaultLimit
	if criteria.Page != nil {
		page = uint64(*criteria.Page)
	}
	if criteria.Limit != nil {
		limit = uint64(*criteria.Limit)
	}

	offset := page * limit
	if limit == 0 || offset >= uint64(len(matched)) {
		return []network.ProofRequest{}
	}
	end := min(offset+limit, uint64(len(matched)))
	return matched[offset:end]
}

func matches(record *network.ProofRequest, criteria *network.GetFilteredProofRequestsRequest) bool {
	if criteria.Version != "" && record.Version != criteria.Version {
		return false
	}
	if criteria.Mode != nil && record.Mode != *criteria.Mode {
		return false
	}
	if criteria.FulfillmentStatus != nil && record.FulfillmentStatus != *criteria.FulfillmentStatus {
		return false
	}
	if criteria.ExecutionStatus != nil && record.ExecutionStatus != *criteria.ExecutionStatus {
		return false
	}
	if criteria.SettlementStatus != nil && record.SettlementStatus != *criteria.SettlementStatus {
		return false
	}
	if criteria.ExecuteFailCause != nil && record.ExecuteFailCause != *criteria.ExecuteFailCause {
		return false
	}
	if criteria.Error != nil && record.ErrorCode != *criteria.Error {
		return false
	}
	if criteria.MinimumDeadline != nil && record.Deadline <= *criteria.MinimumDeadline {
		return false
	}
	if len(criteria.Requester) > 0 && !bytes.Equal(record.Requester, criteria.Requester) {
		return false
	}
	// A set fulfiller filter never matches an unassigned request.
	if criteria.Fulfiller != nil && (record.Fulfiller == nil || !bytes.Equal(record.Fulfiller, criteria.Fulfiller)) {
		return false
	}
	if len(criteria.VKHash) > 0 && !bytes.Equal(record.VKHash, criteria.VKHash) {
		return false
	}
	return true
}
