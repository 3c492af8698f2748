// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/provernet/coordinator/lib/schema/network"
)

const hashLength = 32

func (a *app) requestCommand() *Command {
	var (
		conn             connectionFlags
		vkHash           string
		proverVersion    string
		mode             string
		strategy         string
		stdinURI         string
		deadline         time.Duration
		cycleLimit       uint64
		gasLimit         uint64
		minAuctionPeriod uint64
		nonce            uint64
	)
	return &Command{
		Name:    "request",
		Summary: "Submit a signed proof request",
		Usage:   "provernet request --vk-hash HASH --stdin-uri URI [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("request", pflag.ContinueOnError)
			conn.register(flagSet)
			flagSet.StringVar(&vkHash, "vk-hash", "", "verifying key hash of a registered program (hex)")
			flagSet.StringVar(&proverVersion, "version", "sp1-v5.0.0", "prover version string")
			flagSet.StringVar(&mode, "mode", "compressed", "proof mode (core, compressed, plonk, groth16)")
			flagSet.StringVar(&strategy, "strategy", "hosted", "fulfillment strategy (hosted, reserved, auction)")
			flagSet.StringVar(&stdinURI, "stdin-uri", "", "artifact URI of the program input")
			flagSet.DurationVar(&deadline, "deadline", time.Hour, "time from now until the request expires")
			flagSet.Uint64Var(&cycleLimit, "cycle-limit", 0, "maximum execution cycles")
			flagSet.Uint64Var(&gasLimit, "gas-limit", 0, "maximum prover gas")
			flagSet.Uint64Var(&minAuctionPeriod, "min-auction-period", 0, "minimum auction period in seconds")
			flagSet.Uint64Var(&nonce, "nonce", 0, "request nonce")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 0 {
				return fmt.Errorf("unexpected argument %q", args[0])
			}
			hash, err := parseHash("--vk-hash", vkHash, hashLength)
			if err != nil {
				return err
			}
			proofMode, err := network.ParseProofMode(mode)
			if err != nil {
				return err
			}
			fulfillmentStrategy, err := network.ParseFulfillmentStrategy(strategy)
			if err != nil {
				return err
			}
			if deadline <= 0 {
				return fmt.Errorf("--deadline must be positive")
			}

			client, err := conn.dial(true)
			if err != nil {
				return err
			}
			defer client.Close()
			ctx, cancel := conn.withTimeout(a.ctx)
			defer cancel()

			response, err := client.RequestProof(ctx, network.RequestProofBody{
				Nonce:            nonce,
				VKHash:           hash,
				Version:          proverVersion,
				Mode:             proofMode,
				Strategy:         fulfillmentStrategy,
				StdinURI:         stdinURI,
				Deadline:         uint64(time.Now().Add(deadline).Unix()),
				CycleLimit:       cycleLimit,
				GasLimit:         gasLimit,
				MinAuctionPeriod: minAuctionPeriod,
			})
			if err != nil {
				return err
			}
			return a.output.record(response, []field{
				{"request_id", formatHex(response.RequestID)},
				{"tx_hash", formatHex(response.TxHash)},
			})
		},
	}
}

func (a *app) statusCommand() *Command {
	var conn connectionFlags
	return &Command{
		Name:    "status",
		Summary: "Show the status of a proof request",
		Usage:   "provernet status REQUEST_ID [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("status", pflag.ContinueOnError)
			conn.register(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			requestID, err := requestIDArgument(args)
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

			status, err := client.ProofRequestStatus(ctx, requestID)
			if err != nil {
				return err
			}
			return a.output.record(status, statusFields(status))
		},
	}
}

func (a *app) detailsCommand() *Command {
	var conn connectionFlags
	return &Command{
		Name:    "details",
		Summary: "Show the full record of a proof request",
		Usage:   "provernet details REQUEST_ID [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("details", pflag.ContinueOnError)
			conn.register(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			requestID, err := requestIDArgument(args)
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

			record, err := client.ProofRequestDetails(ctx, requestID)
			if err != nil {
				return err
			}
			return a.output.record(record, requestFields(record))
		},
	}
}

func (a *app) listCommand() *Command {
	var (
		conn              connectionFlags
		proverVersion     string
		fulfillmentStatus string
		executionStatus   string
		mode              string
		vkHash            string
		requester         string
		fulfiller         string
		minimumDeadline   uint64
		page              uint32
		limit             uint32
		flagSet           *pflag.FlagSet
	)
	return &Command{
		Name:    "list",
		Summary: "List proof requests matching filters, oldest first",
		Usage:   "provernet list [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet = pflag.NewFlagSet("list", pflag.ContinueOnError)
			conn.register(flagSet)
			flagSet.StringVar(&proverVersion, "version", "", "match this prover version")
			flagSet.StringVar(&fulfillmentStatus, "fulfillment-status", "", "match this fulfillment status")
			flagSet.StringVar(&executionStatus, "execution-status", "", "match this execution status")
			flagSet.StringVar(&mode, "mode", "", "match this proof mode")
			flagSet.StringVar(&vkHash, "vk-hash", "", "match this verifying key hash (hex)")
			flagSet.StringVar(&requester, "requester", "", "match this requester address (hex)")
			flagSet.StringVar(&fulfiller, "fulfiller", "", "match this fulfiller address (hex)")
			flagSet.Uint64Var(&minimumDeadline, "minimum-deadline", 0, "only requests whose deadline is after this unix time")
			flagSet.Uint32Var(&page, "page", 0, "page number, starting at 0")
			flagSet.Uint32Var(&limit, "limit", 50, "page size")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 0 {
				return fmt.Errorf("unexpected argument %q", args[0])
			}
			criteria, err := listCriteria(flagSet, listFilters{
				version:           proverVersion,
				fulfillmentStatus: fulfillmentStatus,
				executionStatus:   executionStatus,
				mode:              mode,
				vkHash:            vkHash,
				requester:         requester,
				fulfiller:         fulfiller,
				minimumDeadline:   minimumDeadline,
				page:              page,
				limit:             limit,
			})
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

			records, err := client.FilteredProofRequests(ctx, criteria)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(records))
			for _, record := range records {
				rows = append(rows, []string{
					formatHex(record.RequestID),
					record.FulfillmentStatus.String(),
					record.ExecutionStatus.String(),
					record.Version,
					formatUnix(record.CreatedAt),
				})
			}
			return a.output.table(network.GetFilteredProofRequestsResponse{Requests: records},
				[]string{"REQUEST_ID", "FULFILLMENT", "EXECUTION", "VERSION", "CREATED"}, rows)
		},
	}
}

type listFilters struct {
	version           string
	fulfillmentStatus string
	executionStatus   string
	mode              string
	vkHash            string
	requester         string
	fulfiller         string
	minimumDeadline   uint64
	page              uint32
	limit             uint32
}

// listCriteria converts the list flags into a query. Only flags the
// user set become criteria, so an unset --limit leaves the server's
// default in force.
func listCriteria(flagSet *pflag.FlagSet, filters listFilters) (network.GetFilteredProofRequestsRequest, error) {
	var criteria network.GetFilteredProofRequestsRequest
	criteria.Version = filters.version

	if filters.fulfillmentStatus != "" {
		status, err := network.ParseFulfillmentStatus(filters.fulfillmentStatus)
		if err != nil {
			return criteria, err
		}
		criteria.FulfillmentStatus = &status
	}
	if filters.executionStatus != "" {
		status, err := network.ParseExecutionStatus(filters.executionStatus)
		if err != nil {
			return criteria, err
		}
		criteria.ExecutionStatus = &status
	}
	if filters.mode != "" {
		mode, err := network.ParseProofMode(filters.mode)
		if err != nil {
			return criteria, err
		}
		criteria.Mode = &mode
	}

	var err error
	if filters.vkHash != "" {
		if criteria.VKHash, err = parseHash("--vk-hash", filters.vkHash, hashLength); err != nil {
			return criteria, err
		}
	}
	if filters.requester != "" {
		if criteria.Requester, err = parseHash("--requester", filters.requester, 0); err != nil {
			return criteria, err
		}
	}
	if filters.fulfiller != "" {
		if criteria.Fulfiller, err = parseHash("--fulfiller", filters.fulfiller, 0); err != nil {
			return criteria, err
		}
	}

	if flagSet.Changed("minimum-deadline") {
		criteria.MinimumDeadline = &filters.minimumDeadline
	}
	if flagSet.Changed("page") {
		criteria.Page = &filters.page
	}
	if flagSet.Changed("limit") {
		criteria.Limit = &filters.limit
	}
	return criteria, nil
}

func (a *app) fulfillCommand() *Command {
	var (
		conn      connectionFlags
		proofFile string
		nonce     uint64
	)
	return &Command{
		Name:    "fulfill",
		Summary: "Submit a proof for an assigned request",
		Usage:   "provernet fulfill REQUEST_ID --proof FILE [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("fulfill", pflag.ContinueOnError)
			conn.register(flagSet)
			flagSet.StringVar(&proofFile, "proof", "", "file holding the proof bytes")
			flagSet.Uint64Var(&nonce, "nonce", 0, "fulfillment nonce")
			return flagSet
		},
		Run: func(args []string) error {
			requestID, err := requestIDArgument(args)
			if err != nil {
				return err
			}
			if proofFile == "" {
				return fmt.Errorf("--proof is required")
			}
			proof, err := os.ReadFile(proofFile)
			if err != nil {
				return fmt.Errorf("reading proof: %w", err)
			}

			client, err := conn.dial(true)
			if err != nil {
				return err
			}
			defer client.Close()
			ctx, cancel := conn.withTimeout(a.ctx)
			defer cancel()

			response, err := client.FulfillProof(ctx, network.FulfillProofBody{
				Nonce:     nonce,
				RequestID: requestID,
				Proof:     proof,
			})
			if err != nil {
				return err
			}
			return a.output.record(response, []field{{"tx_hash", formatHex(response.TxHash)}})
		},
	}
}

func (a *app) failCommand() *Command {
	var (
		conn      connectionFlags
		errorCode int32
		flagSet   *pflag.FlagSet
	)
	return &Command{
		Name:    "fail",
		Summary: "Mark a proof request unfulfillable",
		Usage:   "provernet fail REQUEST_ID [--error CODE] [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet = pflag.NewFlagSet("fail", pflag.ContinueOnError)
			conn.register(flagSet)
			flagSet.Int32Var(&errorCode, "error", 0, "error code recorded on the request")
			return flagSet
		},
		Run: func(args []string) error {
			requestID, err := requestIDArgument(args)
			if err != nil {
				return err
			}
			body := network.FailFulfillmentBody{RequestID: requestID}
			if flagSet.Changed("error") {
				body.Error = &errorCode
			}

			client, err := conn.dial(false)
			if err != nil {
				return err
			}
			defer client.Close()
			ctx, cancel := conn.withTimeout(a.ctx)
			defer cancel()

			response, err := client.FailFulfillment(ctx, body)
			if err != nil {
				return err
			}
			return a.output.record(response, []field{{"tx_hash", formatHex(response.TxHash)}})
		},
	}
}

func requestIDArgument(args []string) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("expected exactly one REQUEST_ID argument, got %d", len(args))
	}
	return parseHash("request id", args[0], hashLength)
}
