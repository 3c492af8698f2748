// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/keepalive"

	"github.com/provernet/coordinator/lib/codec"
)

// GRPCServerConfig configures a GRPCServer.
type GRPCServerConfig struct {
	// Address is the TCP listen address. Ignored when Listener is
	// set.
	Address string

	// Listener, if set, is served instead of binding Address. Tests
	// pass a bufconn listener.
	Listener net.Listener

	// Router supplies the handlers. Required.
	Router *Router

	// ShutdownTimeout bounds the graceful drain after the context is
	// cancelled. When it expires, remaining calls are cut off.
	// Defaults to 10 seconds.
	ShutdownTimeout time.Duration

	// MaxMessageSize bounds received messages. Defaults to 64 MiB,
	// enough for proofs carried inline in FulfillProof.
	MaxMessageSize int

	// Logger is the structured logger. Required.
	Logger *slog.Logger
}

// GRPCServer serves a Router over gRPC with the CBOR codec.
//
// Every service named by a Router method gets a grpc.ServiceDesc built
// from the Router. Calls to methods without a handler, including
// methods of services the Router has never heard of, reach one
// catch-all that dispatches through the Router and so answer
// Unimplemented.
type GRPCServer struct {
	config GRPCServerConfig

	ready chan struct{}
	addr  net.Addr
}

// NewGRPCServer validates config and creates a server. Call Serve to
// start it.
func NewGRPCServer(config GRPCServerConfig) *GRPCServer {
	if config.Router == nil {
		panic("service.GRPCServer: Router is required")
	}
	if config.Logger == nil {
		panic("service.GRPCServer: Logger is required")
	}
	if config.Address == "" && config.Listener == nil {
		panic("service.GRPCServer: Address or Listener is required")
	}
	if config.ShutdownTimeout == 0 {
		config.ShutdownTimeout = 10 * time.Second
	}
	if config.MaxMessageSize == 0 {
		config.MaxMessageSize = 64 << 20
	}
	return &GRPCServer{
		config: config,
		ready:  make(chan struct{}),
	}
}

// Ready is closed once the server is bound.
func (s *GRPCServer) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the resolved listen address. Valid after Ready is
// closed.
func (s *GRPCServer) Addr() net.Addr {
	return s.addr
}

// Serve runs the server until ctx is cancelled, then drains in-flight
// calls with GracefulStop. If the drain exceeds ShutdownTimeout the
// server is stopped hard. Serve returns only after the server has
// fully stopped.
func (s *GRPCServer) Serve(ctx context.Context) error {
	listener := s.config.Listener
	if listener == nil {
		var err error
		listener, err = net.Listen("tcp", s.config.Address)
		if err != nil {
			return fmt.Errorf("listening on %s: %w", s.config.Address, err)
		}
	}
	s.addr = listener.Addr()

	server := grpc.NewServer(
		grpc.MaxRecvMsgSize(s.config.MaxMessageSize),
		grpc.MaxSendMsgSize(s.config.MaxMessageSize),
		grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
			MinTime:             10 * time.Second,
			PermitWithoutStream: true,
		}),
		grpc.UnknownServiceHandler(s.unknownMethod),
	)
	for _, descriptor := range s.serviceDescriptors() {
		server.RegisterService(descriptor, s)
	}

	close(s.ready)
	s.logger().Info("grpc server listening", "address", s.addr.String())

	serveDone := make(chan error, 1)
	go func() {
		serveDone <- server.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		s.logger().Info("grpc server draining")
	case err := <-serveDone:
		if err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("grpc server: %w", err)
		}
		return nil
	}

	stopped := make(chan struct{})
	go func() {
		server.GracefulStop()
		close(stopped)
	}()

	drainCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	select {
	case <-stopped:
	case <-drainCtx.Done():
		s.logger().Warn("grpc drain timed out, stopping", "timeout", s.config.ShutdownTimeout)
		server.Stop()
		<-stopped
	}

	<-serveDone
	s.logger().Info("grpc server stopped")
	return nil
}

func (s *GRPCServer) logger() *slog.Logger {
	return s.config.Logger
}

// serviceDescriptors groups the Router's methods by service.
func (s *GRPCServer) serviceDescriptors() []*grpc.ServiceDesc {
	var descriptors []*grpc.ServiceDesc
	byService := make(map[string]*grpc.ServiceDesc)

	for _, method := range s.config.Router.Methods() {
		serviceName, methodName, err := SplitMethod(method)
		if err != nil {
			// Router.Handle already rejected malformed names.
			panic(err)
		}
		descriptor, exists := byService[serviceName]
		if !exists {
			descriptor = &grpc.ServiceDesc{
				ServiceName: serviceName,
				HandlerType: (*any)(nil),
			}
			byService[serviceName] = descriptor
			descriptors = append(descriptors, descriptor)
		}
		descriptor.Methods = append(descriptor.Methods, grpc.MethodDesc{
			MethodName: methodName,
			Handler:    s.unaryHandler(method),
		})
	}
	return descriptors
}

// unaryHandler adapts one Router method to grpc's method handler
// signature. The request stays raw CBOR until the Router's handler
// decodes it.
func (s *GRPCServer) unaryHandler(method string) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(_ any, ctx context.Context, decode func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		var raw codec.RawMessage
		if err := decode(&raw); err != nil {
			return nil, grpcError(Errorf(CodeInvalidArgument, "decoding %s request: %v", method, err))
		}

		invoke := func(ctx context.Context, request any) (any, error) {
			result, err := s.config.Router.Dispatch(ctx, method, *request.(*codec.RawMessage))
			if err != nil {
				return nil, grpcError(err)
			}
			if result == nil {
				return struct{}{}, nil
			}
			return result, nil
		}

		if interceptor == nil {
			return invoke(ctx, &raw)
		}
		info := &grpc.UnaryServerInfo{Server: s, FullMethod: "/" + method}
		return interceptor(ctx, &raw, info, invoke)
	}
}

// unknownMethod answers every call without a registered handler.
func (s *GRPCServer) unknownMethod(_ any, stream grpc.ServerStream) error {
	method, ok := grpc.MethodFromServerStream(stream)
	if !ok {
		return grpcError(Errorf(CodeUnimplemented, "unknown method"))
	}
	_, err := s.config.Router.Dispatch(stream.Context(), method, nil)
	return grpcError(err)
}
