// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/provernet/coordinator/lib/codec"
	"github.com/provernet/coordinator/lib/testutil"
)

// startSocketServer serves router on a fresh socket and returns a
// client for it. The server is stopped when the test ends.
func startSocketServer(t *testing.T, router *Router) *ServiceClient {
	t.Helper()
	socketPath := filepath.Join(testutil.SocketDir(t), "coordinator.sock")
	server := NewSocketServer(socketPath, router, testutil.Logger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Serve(ctx) }()
	t.Cleanup(func() {
		cancel()
		if err := testutil.RequireReceive(t, done, 5*time.Second, "socket server shutdown"); err != nil {
			t.Errorf("Serve: %v", err)
		}
	})

	testutil.RequireClosed(t, server.Ready(), 5*time.Second, "socket server ready")
	return NewServiceClient(socketPath)
}

func TestSocketRoundTrip(t *testing.T) {
	router := testRouter()
	registerEcho(router)
	client := startSocketServer(t, router)
	ctx := context.Background()

	var response echoResponse
	if err := client.Call(ctx, "test.Echo/Echo", echoRequest{Message: "hello"}, &response); err != nil {
		t.Fatalf("Call: %v", err)
	}
	if response.Echo != "hello" {
		t.Errorf("Echo = %q, want hello", response.Echo)
	}

	// A nil result is a valid empty response.
	response = echoResponse{Echo: "unchanged"}
	if err := client.Call(ctx, "test.Echo/Empty", nil, &response); err != nil {
		t.Fatalf("Call(Empty): %v", err)
	}
	if response.Echo != "unchanged" {
		t.Errorf("empty response modified result: %+v", response)
	}
}

func TestSocketErrorCodes(t *testing.T) {
	router := testRouter()
	registerEcho(router)
	client := startSocketServer(t, router)
	ctx := context.Background()

	tests := []struct {
		method  string
		request any
		want    Code
	}{
		{"test.Echo/Echo", echoRequest{}, CodeInvalidArgument},
		{"test.Echo/Missing", nil, CodeNotFound},
		{"test.Echo/Panic", nil, CodeInternal},
		{"network.ProverNetwork/GetBalance", nil, CodeUnimplemented},
	}
	for _, test := range tests {
		t.Run(test.method, func(t *testing.T) {
			err := client.Call(ctx, test.method, test.request, nil)
			var serviceErr *ServiceError
			if !errors.As(err, &serviceErr) {
				t.Fatalf("error = %v, want *ServiceError", err)
			}
			if serviceErr.Code != test.want {
				t.Errorf("code = %s, want %s", serviceErr.Code, test.want)
			}
			if serviceErr.Method != test.method {
				t.Errorf("method = %q, want %q", serviceErr.Method, test.method)
			}
		})
	}
}

func TestSocketRejectsMissingMethod(t *testing.T) {
	router := testRouter()
	client := startSocketServer(t, router)

	conn, err := net.Dial("unix", client.socketPath)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := codec.NewEncoder(conn).Encode(SocketRequest{}); err != nil {
		t.Fatalf("writing request: %v", err)
	}
	var response Response
	if err := codec.NewDecoder(conn).Decode(&response); err != nil {
		t.Fatalf("reading response: %v", err)
	}
	if response.OK || response.Code != CodeInvalidArgument {
		t.Errorf("response = %+v, want invalid_argument failure", response)
	}
}

func TestSocketServeRemovesSocketFile(t *testing.T) {
	socketPath := filepath.Join(testutil.SocketDir(t), "coordinator.sock")
	server := NewSocketServer(socketPath, testRouter(), testutil.Logger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Serve(ctx) }()
	testutil.RequireClosed(t, server.Ready(), 5*time.Second, "socket server ready")

	cancel()
	if err := testutil.RequireReceive(t, done, 5*time.Second, "socket server shutdown"); err != nil {
		t.Fatalf("Serve: %v", err)
	}
	if _, err := net.Dial("unix", socketPath); err == nil {
		t.Error("socket still accepting after shutdown")
	}
}
