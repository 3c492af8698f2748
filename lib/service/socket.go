// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/provernet/coordinator/lib/codec"
)

// SocketRequest is the wire envelope a socket client sends: the method
// to invoke and that method's CBOR request message.
type SocketRequest struct {
	Method  string           `cbor:"method"`
	Request codec.RawMessage `cbor:"request,omitempty"`
}

// Response is the wire envelope for every socket response. On failure
// Code and Error describe the problem; on success Data holds the CBOR
// response message, if any.
type Response struct {
	OK    bool             `cbor:"ok"`
	Code  Code             `cbor:"code,omitempty"`
	Error string           `cbor:"error,omitempty"`
	Data  codec.RawMessage `cbor:"data,omitempty"`
}

// SocketServer serves a Router on a Unix socket. Each connection
// handles exactly one request-response cycle: the client writes a
// SocketRequest, the server dispatches it and writes a Response, then
// the connection closes.
type SocketServer struct {
	socketPath string
	router     *Router
	logger     *slog.Logger

	// activeConnections tracks in-flight handlers. Serve waits for
	// them before returning.
	activeConnections sync.WaitGroup

	ready chan struct{}
}

// NewSocketServer creates a server that will listen on socketPath and
// dispatch to router.
func NewSocketServer(socketPath string, router *Router, logger *slog.Logger) *SocketServer {
	return &SocketServer{
		socketPath: socketPath,
		router:     router,
		logger:     logger,
		ready:      make(chan struct{}),
	}
}

// Ready is closed once the socket is bound.
func (s *SocketServer) Ready() <-chan struct{} {
	return s.ready
}

// Serve accepts connections until ctx is cancelled, then stops
// accepting and waits for active handlers to complete.
//
// Any existing socket file at the configured path is removed before
// listening. The socket file is removed on return.
func (s *SocketServer) Serve(ctx context.Context) error {
	if err := os.Remove(s.socketPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing stale socket %s: %w", s.socketPath, err)
	}

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.socketPath, err)
	}
	defer func() {
		listener.Close()
		os.Remove(s.socketPath)
	}()

	// Unblock Accept when the context is cancelled.
	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	close(s.ready)
	s.logger.Info("socket server listening", "path", s.socketPath)

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				break
			}
			s.logger.Error("accept failed", "error", err)
			continue
		}

		s.activeConnections.Add(1)
		go func() {
			defer s.activeConnections.Done()
			s.handleConnection(ctx, conn)
		}()
	}

	s.activeConnections.Wait()
	s.logger.Info("socket server stopped")
	return nil
}

// readTimeout is how long we wait for the client to send its request.
const readTimeout = 30 * time.Second

// writeTimeout is how long we wait for the response to be written.
const writeTimeout = 10 * time.Second

// maxRequestSize bounds a single socket request. Proof bytes travel
// inside FulfillProof requests, so this is sized for proofs rather
// than for control messages.
const maxRequestSize = 64 << 20

func (s *SocketServer) handleConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(readTimeout))

	// CBOR is self-delimiting, so one Decode reads exactly one
	// request. LimitReader bounds memory per connection.
	var request SocketRequest
	if err := codec.NewDecoder(io.LimitReader(conn, maxRequestSize)).Decode(&request); err != nil {
		if errors.Is(err, io.EOF) {
			// Client connected but sent nothing.
			return
		}
		s.writeError(conn, Errorf(CodeInvalidArgument, "invalid request: %v", err))
		return
	}
	if request.Method == "" {
		s.writeError(conn, Errorf(CodeInvalidArgument, "missing required field: method"))
		return
	}

	result, err := s.router.Dispatch(ctx, request.Method, request.Request)
	if err != nil {
		s.writeError(conn, err)
		return
	}
	s.writeSuccess(conn, result)
}

// writeError sends {ok: false, code, error}. Write failures are logged
// at debug level; the connection is closing regardless.
func (s *SocketServer) writeError(conn net.Conn, err error) {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if writeErr := codec.NewEncoder(conn).Encode(Response{
		OK:    false,
		Code:  CodeOf(err),
		Error: err.Error(),
	}); writeErr != nil {
		s.logger.Debug("failed to write error response", "error", writeErr)
	}
}

// writeSuccess sends {ok: true} with the marshaled result in data.
func (s *SocketServer) writeSuccess(conn net.Conn, result any) {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))

	response := Response{OK: true}
	if result != nil {
		data, err := codec.Marshal(result)
		if err != nil {
			s.writeError(conn, Errorf(CodeInternal, "marshaling response: %v", err))
			return
		}
		response.Data = data
	}

	if err := codec.NewEncoder(conn).Encode(response); err != nil {
		s.logger.Debug("failed to write success response", "error", err)
	}
}
