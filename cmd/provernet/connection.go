// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/provernet/coordinator/lib/coordclient"
	"github.com/provernet/coordinator/lib/signer"
)

// keyEnvironmentVariable supplies --key when the flag is absent.
const keyEnvironmentVariable = "PROVERNET_KEY"

// connectionFlags select the coordinator endpoint and the signing key.
// Every command that talks to the coordinator registers them.
type connectionFlags struct {
	GRPCAddress  string
	SocketPath   string
	KeyHex       string
	ProtocolName string
	Timeout      time.Duration
}

func (f *connectionFlags) register(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&f.GRPCAddress, "grpc", "127.0.0.1:50051", "coordinator gRPC address")
	flagSet.StringVar(&f.SocketPath, "socket", "", "coordinator control socket (overrides --grpc)")
	flagSet.StringVar(&f.KeyHex, "key", "", "hex secp256k1 private key (default $"+keyEnvironmentVariable+")")
	flagSet.StringVar(&f.ProtocolName, "protocol-name", signer.DefaultProtocolName, "protocol name in the signed-message prefix")
	flagSet.DurationVar(&f.Timeout, "timeout", 30*time.Second, "deadline for the whole command")
}

// key resolves the signing key from --key or the environment. It
// returns nil without error when neither is set and required is false.
func (f *connectionFlags) key(required bool) (*signer.Key, error) {
	text := f.KeyHex
	if text == "" {
		text = os.Getenv(keyEnvironmentVariable)
	}
	if text == "" {
		if required {
			return nil, fmt.Errorf("a signing key is required: pass --key or set %s", keyEnvironmentVariable)
		}
		return nil, nil
	}
	return signer.ParseKey(text)
}

// dial connects to the coordinator. requireKey makes a missing key an
// error before any connection is made.
func (f *connectionFlags) dial(requireKey bool) (*coordclient.Client, error) {
	key, err := f.key(requireKey)
	if err != nil {
		return nil, err
	}
	var options []coordclient.Option
	if key != nil {
		options = append(options, coordclient.WithKey(key, f.ProtocolName))
	}

	if f.SocketPath != "" {
		return coordclient.NewSocket(f.SocketPath, options...), nil
	}
	if f.GRPCAddress == "" {
		return nil, fmt.Errorf("--grpc or --socket is required")
	}
	return coordclient.DialGRPC(f.GRPCAddress, options)
}

func (f *connectionFlags) withTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	if f.Timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, f.Timeout)
}

// parseHash decodes a hex argument, with or without the 0x prefix.
// length 0 accepts any non-empty value.
func parseHash(name, text string, length int) ([]byte, error) {
	decoded, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(text), "0x"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if len(decoded) == 0 {
		return nil, fmt.Errorf("%s is empty", name)
	}
	if length > 0 && len(decoded) != length {
		return nil, fmt.Errorf("%s: %d bytes, want %d", name, len(decoded), length)
	}
	return decoded, nil
}

func formatHex(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	return "0x" + hex.EncodeToString(data)
}
