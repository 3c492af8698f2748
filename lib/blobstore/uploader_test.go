// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

package blobstore

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/provernet/coordinator/lib/testutil"
)

func TestUploaderRoundTripThroughHandler(t *testing.T) {
	store := NewStore(EncodingLZ4)
	server := newTestServer(t, HandlerConfig{Store: store, MaxObjectSize: 1 << 20})
	uploader := NewUploader(UploaderConfig{Timeout: 5 * time.Second, Logger: testutil.Logger()})
	ctx := context.Background()
	proof := compressibleProof()

	if err := uploader.Upload(ctx, server.URL+"/artifacts/p1", proof); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	got, err := uploader.Download(ctx, server.URL+"/artifacts/p1")
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if !bytes.Equal(got, proof) {
		t.Error("Download returned different bytes")
	}

	if _, err := uploader.Download(ctx, server.URL+"/artifacts/missing"); err == nil {
		t.Error("Download of a missing artifact succeeded")
	}
}

func TestUploaderRetriesServerErrors(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		if string(body) != "proof" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	uploader := NewUploader(UploaderConfig{Timeout: 5 * time.Second})
	if err := uploader.Upload(context.Background(), server.URL+"/artifacts/x", []byte("proof")); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if attempts.Load() != 2 {
		t.Errorf("attempts = %d, want 2", attempts.Load())
	}
}

func TestUploaderClientErrorIsNotRetried(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		io.WriteString(w, "Artifact too large")
	}))
	defer server.Close()

	uploader := NewUploader(UploaderConfig{Timeout: 5 * time.Second})
	err := uploader.Upload(context.Background(), server.URL+"/artifacts/x", []byte("proof"))
	if err == nil {
		t.Fatal("Upload succeeded against a 413")
	}
	if attempts.Load() != 1 {
		t.Errorf("attempts = %d, want 1", attempts.Load())
	}
}

func TestUploaderGivesUp(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	uploader := NewUploader(UploaderConfig{Timeout: 5 * time.Second, RetryMax: 1})
	if err := uploader.Upload(context.Background(), server.URL+"/artifacts/x", []byte("proof")); err == nil {
		t.Fatal("Upload succeeded against a failing server")
	}
}
