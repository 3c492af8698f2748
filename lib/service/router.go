// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/provernet/coordinator/lib/clock"
	"github.com/provernet/coordinator/lib/codec"
)

// ActionFunc processes one request. The raw parameter is the CBOR
// encoding of the method's request message; the handler decodes it
// into its own type.
//
// Return a value to send as the response message, or an error. A nil
// result is sent as an empty message.
type ActionFunc func(ctx context.Context, raw []byte) (any, error)

// Observer is called once per dispatched request, after the handler
// returns.
type Observer func(method string, code Code, elapsed time.Duration)

// Router maps fully qualified method names to handlers. Register every
// handler before serving; the handler table is read without locking.
type Router struct {
	handlers  map[string]ActionFunc
	observers []Observer
	logger    *slog.Logger
	clock     clock.Clock
}

// NewRouter creates an empty Router.
func NewRouter(logger *slog.Logger, clk clock.Clock) *Router {
	return &Router{
		handlers: make(map[string]ActionFunc),
		logger:   logger,
		clock:    clk,
	}
}

// Handle registers handler for method, written "package.Service/Method".
// Panics on a malformed or duplicate method name.
func (r *Router) Handle(method string, handler ActionFunc) {
	if _, _, err := SplitMethod(method); err != nil {
		panic(fmt.Sprintf("service.Router: %v", err))
	}
	if _, exists := r.handlers[method]; exists {
		panic(fmt.Sprintf("service.Router: duplicate handler for method %q", method))
	}
	r.handlers[method] = handler
}

// Observe adds an Observer. Call before serving.
func (r *Router) Observe(observer Observer) {
	r.observers = append(r.observers, observer)
}

// Methods returns the registered method names in sorted order.
func (r *Router) Methods() []string {
	methods := make([]string, 0, len(r.handlers))
	for method := range r.handlers {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	return methods
}

// UnknownMethod is the method name observers receive for a call to a
// method with no handler. Caller-chosen names never reach observers.
const UnknownMethod = "unknown"

// Dispatch runs the handler for method. Unknown methods fail with
// CodeUnimplemented and are observed as [UnknownMethod]. A panicking
// handler is converted to an internal error.
func (r *Router) Dispatch(ctx context.Context, method string, raw []byte) (result any, err error) {
	method = strings.TrimPrefix(method, "/")
	observed := method
	started := r.clock.Now()

	defer func() {
		if recovered := recover(); recovered != nil {
			r.logger.Error("handler panicked", "method", method, "panic", recovered)
			result, err = nil, Errorf(CodeInternal, "%s: internal error", method)
		}

		code := CodeOf(err)
		elapsed := r.clock.Now().Sub(started)
		for _, observer := range r.observers {
			observer(observed, code, elapsed)
		}
		switch code {
		case CodeOK:
		case CodeUnimplemented:
			r.logger.Debug("method called but not implemented", "method", method)
		default:
			r.logger.Debug("method failed", "method", method, "code", string(code), "error", err)
		}
	}()

	handler, exists := r.handlers[method]
	if !exists {
		observed = UnknownMethod
		return nil, Errorf(CodeUnimplemented, "%s not implemented", method)
	}
	return handler(ctx, raw)
}

// SplitMethod splits "package.Service/Method" into its service and
// method parts.
func SplitMethod(method string) (serviceName, methodName string, err error) {
	method = strings.TrimPrefix(method, "/")
	slash := strings.LastIndex(method, "/")
	if slash <= 0 || slash == len(method)-1 {
		return "", "", fmt.Errorf("method %q is not of the form package.Service/Method", method)
	}
	return method[:slash], method[slash+1:], nil
}

// Decode unmarshals a request message into target. An empty message
// leaves target at its zero value, matching a request with every field
// unset. Malformed CBOR is an invalid-argument error.
func Decode(raw []byte, target any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := codec.Unmarshal(raw, target); err != nil {
		return Errorf(CodeInvalidArgument, "invalid request: %v", err)
	}
	return nil
}
