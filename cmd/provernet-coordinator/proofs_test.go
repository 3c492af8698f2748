// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/provernet/coordinator/lib/artifactdir"
	"github.com/provernet/coordinator/lib/schema"
	"github.com/provernet/coordinator/lib/schema/network"
	"github.com/provernet/coordinator/lib/service"
	"github.com/provernet/coordinator/lib/signer"
	"github.com/provernet/coordinator/lib/testutil"
)

func testRequestBody(vkHash []byte) network.RequestProofBody {
	return network.RequestProofBody{
		Nonce:            1,
		VKHash:           vkHash,
		Version:          "sp1-v5.0.0",
		Mode:             network.ProofModeGroth16,
		Strategy:         network.StrategyHosted,
		StdinURI:         "s3://spn-artifacts/stdins/0123",
		Deadline:         uint64(testEpoch.Add(time.Hour).Unix()),
		CycleLimit:       1_000_000,
		GasLimit:         2_000_000,
		MinAuctionPeriod: 5,
		PublicValuesHash: testutil.UniqueHash(0xa1),
		BaseFee:          "100",
		Variant:          2,
	}
}

func TestRequestProofRecordsRequest(t *testing.T) {
	env := newTestEnv(t, testEnvOptions{})
	vkHash := testutil.UniqueHash(0x01)

	env.call(t, network.MethodCreateProgram, sign(t, env.key, &network.CreateProgramBody{
		VK:         []byte("verifying key"),
		VKHash:     vkHash,
		ProgramURI: "s3://spn-artifacts/programs/fib",
	}), nil)

	body := testRequestBody(vkHash)
	response := env.requestProof(t, body)
	if len(response.RequestID) != hashLength {
		t.Fatalf("request id is %d bytes, want %d", len(response.RequestID), hashLength)
	}
	if len(response.TxHash) != hashLength {
		t.Fatalf("tx hash is %d bytes, want %d", len(response.TxHash), hashLength)
	}

	record := env.details(t, response.RequestID)
	signerAddress := env.key.Address().Bytes()
	now := uint64(testEpoch.Unix())

	checks := []struct {
		name      string
		got, want any
	}{
		{"fulfillment status", record.FulfillmentStatus, network.FulfillmentAssigned},
		{"execution status", record.ExecutionStatus, network.ExecutionUnexecuted},
		{"program uri", record.ProgramURI, "s3://spn-artifacts/programs/fib"},
		{"program public uri", record.ProgramPublicURI, "s3://spn-artifacts/programs/fib"},
		{"stdin uri", record.StdinURI, body.StdinURI},
		{"stdin public uri", record.StdinPublicURI, body.StdinURI},
		{"version", record.Version, body.Version},
		{"mode", record.Mode, body.Mode},
		{"strategy", record.Strategy, body.Strategy},
		{"deadline", record.Deadline, body.Deadline},
		{"cycle limit", record.CycleLimit, body.CycleLimit},
		{"gas limit", record.GasLimit, body.GasLimit},
		{"min auction period", record.MinAuctionPeriod, body.MinAuctionPeriod},
		{"base fee", record.BaseFee, body.BaseFee},
		{"variant", record.Variant, body.Variant},
		{"created at", record.CreatedAt, now},
		{"updated at", record.UpdatedAt, now},
	}
	for _, check := range checks {
		if check.got != check.want {
			t.Errorf("%s = %v, want %v", check.name, check.got, check.want)
		}
	}
	if !bytes.Equal(record.Requester, signerAddress) {
		t.Errorf("requester = %x, want %x", record.Requester, signerAddress)
	}
	if !bytes.Equal(record.Fulfiller, signerAddress) {
		t.Errorf("fulfiller = %x, want %x", record.Fulfiller, signerAddress)
	}
	if !bytes.Equal(record.TxHash, response.TxHash) {
		t.Errorf("tx hash = %x, want %x", record.TxHash, response.TxHash)
	}
	if !bytes.Equal(record.PublicValuesHash, body.PublicValuesHash) {
		t.Errorf("public values hash = %x, want %x", record.PublicValuesHash, body.PublicValuesHash)
	}
	if record.FulfilledAt != nil {
		t.Errorf("fulfilled at = %d, want unset", *record.FulfilledAt)
	}

	status := env.status(t, response.RequestID)
	if status.FulfillmentStatus != network.FulfillmentAssigned || status.ExecutionStatus != network.ExecutionUnexecuted {
		t.Errorf("status = %s/%s, want assigned/unexecuted", status.FulfillmentStatus, status.ExecutionStatus)
	}
	if !bytes.Equal(status.RequestTxHash, response.TxHash) {
		t.Errorf("status request tx hash = %x, want %x", status.RequestTxHash, response.TxHash)
	}
	if status.Deadline != body.Deadline {
		t.Errorf("status deadline = %d, want %d", status.Deadline, body.Deadline)
	}
}

func TestRequestProofUnregisteredProgram(t *testing.T) {
	env := newTestEnv(t, testEnvOptions{})

	response := env.requestProof(t, testRequestBody(testutil.UniqueHash(0x02)))
	record := env.details(t, response.RequestID)
	if record.ProgramURI != "" || record.ProgramPublicURI != "" {
		t.Errorf("program uris = %q, %q, want empty", record.ProgramURI, record.ProgramPublicURI)
	}
	if record.StdinURI == "" {
		t.Error("stdin uri should still be recorded")
	}
}

func TestRequestProofAuthentication(t *testing.T) {
	env := newTestEnv(t, testEnvOptions{})
	body := testRequestBody(testutil.UniqueHash(0x03))

	t.Run("missing body", func(t *testing.T) {
		err := env.tryCall(network.MethodRequestProof, schema.Signed[network.RequestProofBody]{
			Format:    schema.FormatBinary,
			Signature: make([]byte, signer.SignatureLength),
		}, nil)
		requireCode(t, err, service.CodeInvalidArgument)
	})

	t.Run("short signature", func(t *testing.T) {
		envelope := sign(t, env.key, &body)
		envelope.Signature = envelope.Signature[:64]
		requireCode(t, env.tryCall(network.MethodRequestProof, envelope, nil), service.CodeInvalidArgument)
	})

	t.Run("bad recovery id", func(t *testing.T) {
		envelope := sign(t, env.key, &body)
		envelope.Signature[64] = 31
		requireCode(t, env.tryCall(network.MethodRequestProof, envelope, nil), service.CodeInvalidArgument)
	})

	t.Run("mutated body", func(t *testing.T) {
		envelope := sign(t, env.key, &body)
		mutated := *envelope.Body
		mutated.CycleLimit++
		envelope.Body = &mutated

		var response network.RequestProofResponse
		err := env.tryCall(network.MethodRequestProof, envelope, &response)
		if err != nil {
			requireCode(t, err, service.CodeInvalidArgument)
			return
		}
		// Recovery succeeded, but not as the key that signed.
		record := env.details(t, response.RequestID)
		if bytes.Equal(record.Requester, env.key.Address().Bytes()) {
			t.Error("mutated body was attributed to the original signer")
		}
	})

	if got := env.coordinator.requests.Len(); got > 1 {
		t.Errorf("store holds %d requests, want at most the mutated one", got)
	}
}

func TestFulfillProof(t *testing.T) {
	env := newTestEnv(t, testEnvOptions{})
	request := env.requestProof(t, testRequestBody(testutil.UniqueHash(0x04)))

	prover, err := signer.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	env.clock.Advance(30 * time.Second)

	proofBytes := bytes.Repeat([]byte("groth16 proof "), 64)
	var response network.FulfillProofResponse
	env.call(t, network.MethodFulfillProof, sign(t, prover, &network.FulfillProofBody{
		Nonce:     2,
		RequestID: request.RequestID,
		Proof:     proofBytes,
	}), &response)
	if len(response.TxHash) != hashLength {
		t.Fatalf("fulfill tx hash is %d bytes, want %d", len(response.TxHash), hashLength)
	}

	record := env.details(t, request.RequestID)
	fulfilledAt := uint64(testEpoch.Add(30 * time.Second).Unix())
	if record.FulfillmentStatus != network.FulfillmentFulfilled {
		t.Errorf("fulfillment status = %s, want fulfilled", record.FulfillmentStatus)
	}
	if record.ExecutionStatus != network.ExecutionExecuted {
		t.Errorf("execution status = %s, want executed", record.ExecutionStatus)
	}
	if !bytes.Equal(record.Fulfiller, prover.Address().Bytes()) {
		t.Errorf("fulfiller = %x, want prover %x", record.Fulfiller, prover.Address().Bytes())
	}
	if !bytes.Equal(record.FulfillTxHash, response.TxHash) {
		t.Errorf("fulfill tx hash = %x, want %x", record.FulfillTxHash, response.TxHash)
	}
	if record.FulfilledAt == nil || *record.FulfilledAt != fulfilledAt {
		t.Errorf("fulfilled at = %v, want %d", record.FulfilledAt, fulfilledAt)
	}
	if record.UpdatedAt != fulfilledAt {
		t.Errorf("updated at = %d, want %d", record.UpdatedAt, fulfilledAt)
	}
	if !strings.HasPrefix(record.ProofURI, "s3://spn-artifacts/proofs/") {
		t.Errorf("proof uri = %q, want an s3 proofs uri", record.ProofURI)
	}
	if !strings.HasPrefix(record.ProofPublicURI, testPublicBaseURL+"/artifacts/") {
		t.Errorf("proof public uri = %q, want a download url under %s", record.ProofPublicURI, testPublicBaseURL)
	}

	status := env.status(t, request.RequestID)
	if status.FulfillmentStatus != record.FulfillmentStatus || status.ExecutionStatus != record.ExecutionStatus {
		t.Errorf("status %s/%s disagrees with record %s/%s",
			status.FulfillmentStatus, status.ExecutionStatus, record.FulfillmentStatus, record.ExecutionStatus)
	}
	if status.ProofURI != record.ProofURI || status.ProofPublicURI != record.ProofPublicURI {
		t.Errorf("status proof uris (%q, %q) disagree with record (%q, %q)",
			status.ProofURI, status.ProofPublicURI, record.ProofURI, record.ProofPublicURI)
	}
	if !bytes.Equal(status.FulfillTxHash, response.TxHash) {
		t.Errorf("status fulfill tx hash = %x, want %x", status.FulfillTxHash, response.TxHash)
	}

	// The proof bytes landed on the blob endpoint under the artifact id.
	id, err := artifactdir.IDFromURI(record.ProofURI)
	if err != nil {
		t.Fatalf("IDFromURI: %v", err)
	}
	stored, _, err := env.blobs.Get(id)
	if err != nil {
		t.Fatalf("blob %s: %v", id, err)
	}
	if !bytes.Equal(stored, proofBytes) {
		t.Errorf("stored proof is %d bytes, want the %d uploaded", len(stored), len(proofBytes))
	}
	if got := env.coordinator.artifacts.Len(); got != 1 {
		t.Errorf("artifact directory holds %d artifacts, want the recorded proof", got)
	}
}

func TestFulfillProofUploadFailure(t *testing.T) {
	env := newTestEnv(t, testEnvOptions{uploader: failingUploader{}})
	request := env.requestProof(t, testRequestBody(testutil.UniqueHash(0x05)))
	before := env.details(t, request.RequestID)

	err := env.tryCall(network.MethodFulfillProof, sign(t, env.key, &network.FulfillProofBody{
		RequestID: request.RequestID,
		Proof:     []byte("proof"),
	}), nil)
	requireCode(t, err, service.CodeInternal)

	after := env.details(t, request.RequestID)
	if after.FulfillmentStatus != network.FulfillmentAssigned {
		t.Errorf("fulfillment status = %s, want assigned", after.FulfillmentStatus)
	}
	if after.ProofURI != "" || after.FulfillTxHash != nil || after.UpdatedAt != before.UpdatedAt {
		t.Errorf("failed upload modified the record: %+v", after)
	}
	if got := env.coordinator.artifacts.Len(); got != 0 {
		t.Errorf("artifact directory holds %d artifacts, want 0", got)
	}
}

func TestFulfillProofRejectsUnknownAndTerminal(t *testing.T) {
	env := newTestEnv(t, testEnvOptions{})

	t.Run("unknown request", func(t *testing.T) {
		err := env.tryCall(network.MethodFulfillProof, sign(t, env.key, &network.FulfillProofBody{
			RequestID: testutil.UniqueHash(0x06),
			Proof:     []byte("proof"),
		}), nil)
		requireCode(t, err, service.CodeNotFound)
		if got := env.blobs.Len(); got != 0 {
			t.Errorf("blob endpoint holds %d objects, want 0: nothing should upload for an unknown request", got)
		}
	})

	t.Run("already fulfilled", func(t *testing.T) {
		request := env.requestProof(t, testRequestBody(testutil.UniqueHash(0x07)))
		fulfill := sign(t, env.key, &network.FulfillProofBody{RequestID: request.RequestID, Proof: []byte("first")})
		env.call(t, network.MethodFulfillProof, fulfill, nil)
		first := env.details(t, request.RequestID)
		if first.FulfilledAt == nil {
			t.Fatal("fulfilled request carries no fulfilled_at")
		}
		env.clock.Advance(time.Minute)

		again := sign(t, env.key, &network.FulfillProofBody{RequestID: request.RequestID, Proof: []byte("second")})
		requireCode(t, env.tryCall(network.MethodFulfillProof, again, nil), service.CodeFailedPrecondition)

		fail := schema.Signed[network.FailFulfillmentBody]{Body: &network.FailFulfillmentBody{RequestID: request.RequestID}}
		requireCode(t, env.tryCall(network.MethodFailFulfillment, fail, nil), service.CodeFailedPrecondition)

		after := env.details(t, request.RequestID)
		if after.ProofURI != first.ProofURI {
			t.Errorf("proof uri changed from %q to %q", first.ProofURI, after.ProofURI)
		}
		if after.FulfilledAt == nil || *after.FulfilledAt != *first.FulfilledAt {
			t.Errorf("fulfilled_at = %v, want %d", after.FulfilledAt, *first.FulfilledAt)
		}
		if after.UpdatedAt != first.UpdatedAt {
			t.Errorf("updated_at = %d, want %d", after.UpdatedAt, first.UpdatedAt)
		}
	})

	t.Run("missing body", func(t *testing.T) {
		err := env.tryCall(network.MethodFulfillProof, schema.Signed[network.FulfillProofBody]{
			Signature: make([]byte, signer.SignatureLength),
		}, nil)
		requireCode(t, err, service.CodeInvalidArgument)
	})
}

func TestFailFulfillment(t *testing.T) {
	env := newTestEnv(t, testEnvOptions{})

	t.Run("with error code", func(t *testing.T) {
		request := env.requestProof(t, testRequestBody(testutil.UniqueHash(0x08)))
		env.clock.Advance(time.Minute)

		// Unsigned: the signature is not checked.
		var response network.FailFulfillmentResponse
		env.call(t, network.MethodFailFulfillment, schema.Signed[network.FailFulfillmentBody]{
			Body: &network.FailFulfillmentBody{RequestID: request.RequestID, Error: ptr(int32(7))},
		}, &response)
		if !bytes.Equal(response.TxHash, request.TxHash) {
			t.Errorf("tx hash = %x, want the request's original %x", response.TxHash, request.TxHash)
		}

		record := env.details(t, request.RequestID)
		if record.FulfillmentStatus != network.FulfillmentUnfulfillable {
			t.Errorf("fulfillment status = %s, want unfulfillable", record.FulfillmentStatus)
		}
		if record.ErrorCode != 7 {
			t.Errorf("error code = %d, want 7", record.ErrorCode)
		}
		if want := uint64(env.clock.Now().Unix()); record.UpdatedAt != want {
			t.Errorf("updated at = %d, want %d", record.UpdatedAt, want)
		}
		if status := env.status(t, request.RequestID); status.FulfillmentStatus != network.FulfillmentUnfulfillable {
			t.Errorf("status view = %s, want unfulfillable", status.FulfillmentStatus)
		}
	})

	t.Run("error code defaults to zero", func(t *testing.T) {
		request := env.requestProof(t, testRequestBody(testutil.UniqueHash(0x09)))
		env.call(t, network.MethodFailFulfillment, schema.Signed[network.FailFulfillmentBody]{
			Body: &network.FailFulfillmentBody{RequestID: request.RequestID},
		}, nil)
		if record := env.details(t, request.RequestID); record.ErrorCode != 0 {
			t.Errorf("error code = %d, want 0", record.ErrorCode)
		}
	})

	t.Run("unknown request", func(t *testing.T) {
		err := env.tryCall(network.MethodFailFulfillment, schema.Signed[network.FailFulfillmentBody]{
			Body: &network.FailFulfillmentBody{RequestID: testutil.UniqueHash(0x0a)},
		}, nil)
		requireCode(t, err, service.CodeNotFound)
	})

	t.Run("missing body", func(t *testing.T) {
		err := env.tryCall(network.MethodFailFulfillment, schema.Signed[network.FailFulfillmentBody]{}, nil)
		requireCode(t, err, service.CodeInvalidArgument)
	})
}

func TestStatusAndDetailsNotFound(t *testing.T) {
	env := newTestEnv(t, testEnvOptions{})
	unknown := testutil.UniqueHash(0x0b)

	requireCode(t, env.tryCall(network.MethodGetProofRequestStatus,
		network.GetProofRequestStatusRequest{RequestID: unknown}, nil), service.CodeNotFound)
	requireCode(t, env.tryCall(network.MethodGetProofRequestDetails,
		network.GetProofRequestDetailsRequest{RequestID: unknown}, nil), service.CodeNotFound)
}

func TestGetFilteredProofRequests(t *testing.T) {
	env := newTestEnv(t, testEnvOptions{})
	other, err := signer.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}

	// Four requests one second apart: three from env.key, one from
	// other. The third is fulfilled.
	var ids [][]byte
	for i, key := range []*signer.Key{env.key, env.key, other, env.key} {
		body := testRequestBody(testutil.UniqueHash(0x10))
		if i == 1 {
			body.Version = "sp1-v4.0.0"
		}
		var response network.RequestProofResponse
		env.call(t, network.MethodRequestProof, sign(t, key, &body), &response)
		ids = append(ids, response.RequestID)
		env.clock.Advance(time.Second)
	}
	env.call(t, network.MethodFulfillProof, sign(t, env.key, &network.FulfillProofBody{
		RequestID: ids[2],
		Proof:     []byte("proof"),
	}), nil)

	tests := []struct {
		name     string
		criteria network.GetFilteredProofRequestsRequest
		want     [][]byte
	}{
		{
			name: "everything in creation order",
			want: ids,
		},
		{
			name:     "by version",
			criteria: network.GetFilteredProofRequestsRequest{Version: "sp1-v4.0.0"},
			want:     [][]byte{ids[1]},
		},
		{
			name:     "by requester",
			criteria: network.GetFilteredProofRequestsRequest{Requester: other.Address().Bytes()},
			want:     [][]byte{ids[2]},
		},
		{
			name:     "by fulfillment status",
			criteria: network.GetFilteredProofRequestsRequest{FulfillmentStatus: ptr(network.FulfillmentAssigned)},
			want:     [][]byte{ids[0], ids[1], ids[3]},
		},
		{
			name:     "fulfilled only",
			criteria: network.GetFilteredProofRequestsRequest{FulfillmentStatus: ptr(network.FulfillmentFulfilled)},
			want:     [][]byte{ids[2]},
		},
		{
			name:     "by fulfiller",
			criteria: network.GetFilteredProofRequestsRequest{Fulfiller: env.key.Address().Bytes()},
			want:     [][]byte{ids[0], ids[1], ids[2], ids[3]},
		},
		{
			name:     "second page",
			criteria: network.GetFilteredProofRequestsRequest{Page: ptr(uint32(1)), Limit: ptr(uint32(3))},
			want:     [][]byte{ids[3]},
		},
		{
			name:     "zero limit",
			criteria: network.GetFilteredProofRequestsRequest{Limit: ptr(uint32(0))},
			want:     nil,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var response network.GetFilteredProofRequestsResponse
			env.call(t, network.MethodGetFilteredProofRequests, test.criteria, &response)
			if len(response.Requests) != len(test.want) {
				t.Fatalf("got %d requests, want %d", len(response.Requests), len(test.want))
			}
			for i, record := range response.Requests {
				if !bytes.Equal(record.RequestID, test.want[i]) {
					t.Errorf("request %d = %x, want %x", i, record.RequestID, test.want[i])
				}
			}
		})
	}
}

func TestProofTransitionsAreCounted(t *testing.T) {
	env := newTestEnv(t, testEnvOptions{})
	first := env.requestProof(t, testRequestBody(testutil.UniqueHash(0x11)))
	second := env.requestProof(t, testRequestBody(testutil.UniqueHash(0x12)))
	env.call(t, network.MethodFulfillProof, sign(t, env.key, &network.FulfillProofBody{
		RequestID: first.RequestID,
		Proof:     []byte("proof"),
	}), nil)
	env.call(t, network.MethodFailFulfillment, schema.Signed[network.FailFulfillmentBody]{
		Body: &network.FailFulfillmentBody{RequestID: second.RequestID},
	}, nil)

	text := env.scrape(t)
	for _, line := range []string{
		`provernet_proof_requests_total{status="assigned"} 2`,
		`provernet_proof_requests_total{status="fulfilled"} 1`,
		`provernet_proof_requests_total{status="unfulfillable"} 1`,
		`provernet_rpc_requests_total{code="ok",method="network.ProverNetwork/RequestProof"} 2`,
	} {
		if !strings.Contains(text, line+"\n") {
			t.Errorf("exposition missing %q", line)
		}
	}
}
