// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Code is the machine-readable kind of a handler failure.
type Code string

const (
	// CodeOK labels successful calls in metrics. It is never carried
	// by an Error.
	CodeOK Code = "ok"

	// CodeInvalidArgument: malformed request, missing body, or a
	// signature that does not recover.
	CodeInvalidArgument Code = "invalid_argument"

	// CodeNotFound: unknown request id, vk hash, or artifact.
	CodeNotFound Code = "not_found"

	// CodeFailedPrecondition: the target exists but its state does
	// not allow the operation (a proof request already terminal).
	CodeFailedPrecondition Code = "failed_precondition"

	// CodeUnimplemented: the method exists in the protocol but has no
	// behavior.
	CodeUnimplemented Code = "unimplemented"

	// CodeInternal: a downstream failure, such as a proof upload.
	CodeInternal Code = "internal"
)

// Error is a handler failure with a Code.
type Error struct {
	Code Code
	err  error
}

// Errorf builds an Error. The format supports %w, so the cause stays
// visible to errors.Is.
func Errorf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, err: fmt.Errorf(format, args...)}
}

func (e *Error) Error() string { return e.err.Error() }

func (e *Error) Unwrap() error { return e.err }

// CodeOf returns the code of err: CodeOK for nil, the code of the first
// *Error in the chain, the code of a grpc status, or CodeInternal.
func CodeOf(err error) Code {
	if err == nil {
		return CodeOK
	}
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	if grpcStatus, ok := status.FromError(err); ok {
		return codeFromGRPC(grpcStatus.Code())
	}
	return CodeInternal
}

// GRPC returns the grpc status code for c.
func (c Code) GRPC() codes.Code {
	switch c {
	case CodeOK:
		return codes.OK
	case CodeInvalidArgument:
		return codes.InvalidArgument
	case CodeNotFound:
		return codes.NotFound
	case CodeFailedPrecondition:
		return codes.FailedPrecondition
	case CodeUnimplemented:
		return codes.Unimplemented
	default:
		return codes.Internal
	}
}

func codeFromGRPC(code codes.Code) Code {
	switch code {
	case codes.OK:
		return CodeOK
	case codes.InvalidArgument:
		return CodeInvalidArgument
	case codes.NotFound:
		return CodeNotFound
	case codes.FailedPrecondition:
		return CodeFailedPrecondition
	case codes.Unimplemented:
		return CodeUnimplemented
	default:
		return CodeInternal
	}
}

// grpcError converts a handler error to a grpc status error.
func grpcError(err error) error {
	if err == nil {
		return nil
	}
	var coded *Error
	if !errors.As(err, &coded) {
		if _, ok := status.FromError(err); ok {
			return err
		}
	}
	return status.Error(CodeOf(err).GRPC(), err.Error())
}
