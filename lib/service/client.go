// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/provernet/coordinator/lib/codec"
)

// Caller invokes one method and decodes its response into result.
// Implemented by ServiceClient (Unix socket) and GRPCClient.
type Caller interface {
	Call(ctx context.Context, method string, request, result any) error
}

// dialTimeout is the maximum time to wait for a connection to the
// service socket.
const dialTimeout = 5 * time.Second

// responseReadTimeout is how long the client waits for the server's
// response after writing the request. Matched to the server's
// readTimeout + writeTimeout plus handler time.
const responseReadTimeout = 45 * time.Second

// maxResponseSize is the maximum size of a single CBOR response.
const maxResponseSize = 64 << 20

// ServiceError is returned by a Caller when the server reports a
// failure. Code is the server's error kind.
type ServiceError struct {
	Method  string
	Code    Code
	Message string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s on %q: %s", e.Code, e.Method, e.Message)
}

// ServiceClient sends requests to a SocketServer. Each Call opens a
// new connection, matching the server's one-request-per-connection
// model.
type ServiceClient struct {
	socketPath string
}

// NewServiceClient creates a client for the socket at socketPath.
func NewServiceClient(socketPath string) *ServiceClient {
	return &ServiceClient{socketPath: socketPath}
}

// Call sends request to method and decodes the response data into
// result (which may be nil). Server failures are *ServiceError;
// connection and encoding failures are plain errors.
func (c *ServiceClient) Call(ctx context.Context, method string, request, result any) error {
	var encoded codec.RawMessage
	if request != nil {
		data, err := codec.Marshal(request)
		if err != nil {
			return fmt.Errorf("encoding %s request: %w", method, err)
		}
		encoded = data
	}

	response, err := c.send(ctx, SocketRequest{Method: method, Request: encoded})
	if err != nil {
		return fmt.Errorf("calling %q on %s: %w", method, c.socketPath, err)
	}

	if !response.OK {
		return &ServiceError{
			Method:  method,
			Code:    response.Code,
			Message: response.Error,
		}
	}

	if result != nil && len(response.Data) > 0 {
		if err := codec.Unmarshal(response.Data, result); err != nil {
			return fmt.Errorf("decoding response data for %q: %w", method, err)
		}
	}
	return nil
}

// send connects to the socket, writes the request, and reads the
// response.
func (c *ServiceClient) send(ctx context.Context, request SocketRequest) (*Response, error) {
	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return nil, fmt.Errorf("connecting: %w", err)
	}
	defer conn.Close()

	if err := codec.NewEncoder(conn).Encode(request); err != nil {
		return nil, fmt.Errorf("writing request: %w", err)
	}

	// Half-close so the server's read side sees EOF cleanly.
	if unixConn, ok := conn.(*net.UnixConn); ok {
		unixConn.CloseWrite()
	}

	conn.SetReadDeadline(time.Now().Add(responseReadTimeout))
	var response Response
	if err := codec.NewDecoder(io.LimitReader(conn, maxResponseSize)).Decode(&response); err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return &response, nil
}

// GRPCClient calls a GRPCServer using the CBOR codec.
type GRPCClient struct {
	conn *grpc.ClientConn
}

// DialGRPC creates a client for the server at target. The connection
// is plaintext; TLS termination is left to the deployment.
func DialGRPC(target string, options ...grpc.DialOption) (*GRPCClient, error) {
	options = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(
			grpc.CallContentSubtype(codec.Name),
			grpc.MaxCallRecvMsgSize(64<<20),
			grpc.MaxCallSendMsgSize(64<<20),
		),
	}, options...)

	conn, err := grpc.NewClient(target, options...)
	if err != nil {
		return nil, fmt.Errorf("creating grpc client for %s: %w", target, err)
	}
	return &GRPCClient{conn: conn}, nil
}

// Call invokes method ("package.Service/Method"). Server failures
// are *ServiceError.
func (c *GRPCClient) Call(ctx context.Context, method string, request, result any) error {
	if request == nil {
		request = struct{}{}
	}
	if result == nil {
		result = &struct{}{}
	}
	err := c.conn.Invoke(ctx, "/"+method, request, result)
	if err == nil {
		return nil
	}
	if grpcStatus, ok := status.FromError(err); ok {
		return &ServiceError{
			Method:  method,
			Code:    codeFromGRPC(grpcStatus.Code()),
			Message: grpcStatus.Message(),
		}
	}
	return fmt.Errorf("calling %q: %w", method, err)
}

// Close releases the connection.
func (c *GRPCClient) Close() error {
	return c.conn.Close()
}
