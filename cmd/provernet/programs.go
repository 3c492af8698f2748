// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/provernet/coordinator/lib/schema/network"
	"github.com/provernet/coordinator/lib/signer"
)

func (a *app) createProgramCommand() *Command {
	var (
		conn       connectionFlags
		vkFile     string
		vkHash     string
		programURI string
		name       string
		nonce      uint64
	)
	return &Command{
		Name:    "create-program",
		Summary: "Register a program owned by the signing key",
		Usage:   "provernet create-program --vk FILE --program-uri URI [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("create-program", pflag.ContinueOnError)
			conn.register(flagSet)
			flagSet.StringVar(&vkFile, "vk", "", "file holding the verifying key")
			flagSet.StringVar(&vkHash, "vk-hash", "", "verifying key hash (hex; default keccak256 of the key)")
			flagSet.StringVar(&programURI, "program-uri", "", "artifact URI of the program binary")
			flagSet.StringVar(&name, "name", "", "human-readable program name")
			flagSet.Uint64Var(&nonce, "nonce", 0, "request nonce")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 0 {
				return fmt.Errorf("unexpected argument %q", args[0])
			}
			body := network.CreateProgramBody{
				Nonce:      nonce,
				ProgramURI: programURI,
				Name:       name,
			}
			if vkFile != "" {
				vk, err := os.ReadFile(vkFile)
				if err != nil {
					return fmt.Errorf("reading verifying key: %w", err)
				}
				body.VK = vk
			}
			switch {
			case vkHash != "":
				hash, err := parseHash("--vk-hash", vkHash, hashLength)
				if err != nil {
					return err
				}
				body.VKHash = hash
			case len(body.VK) > 0:
				hash := signer.Keccak256(body.VK)
				body.VKHash = hash[:]
			default:
				return fmt.Errorf("--vk or --vk-hash is required")
			}

			client, err := conn.dial(true)
			if err != nil {
				return err
			}
			defer client.Close()
			ctx, cancel := conn.withTimeout(a.ctx)
			defer cancel()

			response, err := client.CreateProgram(ctx, body)
			if err != nil {
				return err
			}
			return a.output.record(response, []field{
				{"vk_hash", formatHex(body.VKHash)},
				{"tx_hash", formatHex(response.TxHash)},
			})
		},
	}
}

func (a *app) programCommand() *Command {
	var conn connectionFlags
	return &Command{
		Name:    "program",
		Summary: "Show a registered program",
		Usage:   "provernet program VK_HASH [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("program", pflag.ContinueOnError)
			conn.register(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one VK_HASH argument, got %d", len(args))
			}
			vkHash, err := parseHash("vk hash", args[0], hashLength)
			if err != nil {
				return err
			}
			client, err := conn.dial(false)
			if err != nil {
				return err
			}
			defer client.Close()
			ctx, cancel := conn.withTimeout(a.ctx)
			defer cancel()

			program, err := client.Program(ctx, vkHash)
			if err != nil {
				return err
			}
			return a.output.record(program, programFields(program))
		},
	}
}

func (a *app) nonceCommand() *Command {
	var conn connectionFlags
	return &Command{
		Name:    "nonce",
		Summary: "Show the next nonce for an address",
		Usage:   "provernet nonce [ADDRESS] [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("nonce", pflag.ContinueOnError)
			conn.register(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			address, err := addressArgument(&conn, args)
			if err != nil {
				return err
			}
			client, err := conn.dial(false)
			if err != nil {
				return err
			}
			defer client.Close()
			ctx, cancel := conn.withTimeout(a.ctx)
			defer cancel()

			nonce, err := client.Nonce(ctx, address)
			if err != nil {
				return err
			}
			return a.output.record(network.GetNonceResponse{Nonce: nonce}, []field{
				{"address", formatHex(address)},
				{"nonce", strconv.FormatUint(nonce, 10)},
			})
		},
	}
}

func (a *app) ownerCommand() *Command {
	var conn connectionFlags
	return &Command{
		Name:    "owner",
		Summary: "Show the account that owns an address",
		Usage:   "provernet owner [ADDRESS] [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("owner", pflag.ContinueOnError)
			conn.register(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			address, err := addressArgument(&conn, args)
			if err != nil {
				return err
			}
			client, err := conn.dial(false)
			if err != nil {
				return err
			}
			defer client.Close()
			ctx, cancel := conn.withTimeout(a.ctx)
			defer cancel()

			owner, err := client.Owner(ctx, address)
			if err != nil {
				return err
			}
			return a.output.record(network.GetOwnerResponse{Owner: owner}, []field{
				{"address", formatHex(address)},
				{"owner", formatHex(owner)},
			})
		},
	}
}

// addressArgument takes the address from args, or from the signing
// key when args is empty.
func addressArgument(conn *connectionFlags, args []string) ([]byte, error) {
	switch len(args) {
	case 0:
		key, err := conn.key(false)
		if err != nil {
			return nil, err
		}
		if key == nil {
			return nil, fmt.Errorf("pass an ADDRESS or a signing key")
		}
		return key.Address().Bytes(), nil
	case 1:
		address, err := signer.ParseAddress(args[0])
		if err != nil {
			return nil, err
		}
		return address.Bytes(), nil
	default:
		return nil, fmt.Errorf("expected at most one ADDRESS argument, got %d", len(args))
	}
}
