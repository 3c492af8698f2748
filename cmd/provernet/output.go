// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/provernet/coordinator/lib/codec"
	"github.com/provernet/coordinator/lib/schema/network"
)

// field is one labelled line of terminal output.
type field struct {
	name  string
	value string
}

// printer renders command results. On a terminal it writes aligned
// text; otherwise it writes the CBOR diagnostic notation of the raw
// response so scripts see every field with its wire name.
type printer struct {
	w        io.Writer
	terminal bool
}

// record prints value as name/value lines. Empty values are skipped
// in text mode.
func (p printer) record(value any, fields []field) error {
	if !p.terminal {
		return p.diagnostic(value)
	}
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		fmt.Fprintf(tw, "%s:\t%s\n", f.name, f.value)
	}
	return tw.Flush()
}

// table prints value as a header row plus one row per entry.
func (p printer) table(value any, header []string, rows [][]string) error {
	if !p.terminal {
		return p.diagnostic(value)
	}
	if len(rows) == 0 {
		_, err := fmt.Fprintln(p.w, "(none)")
		return err
	}
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

func (p printer) diagnostic(value any) error {
	data, err := codec.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	text, err := codec.Diagnose(data)
	if err != nil {
		return fmt.Errorf("rendering output: %w", err)
	}
	_, err = fmt.Fprintln(p.w, text)
	return err
}

func requestFields(record network.ProofRequest) []field {
	fields := []field{
		{"request_id", formatHex(record.RequestID)},
		{"vk_hash", formatHex(record.VKHash)},
		{"version", record.Version},
		{"mode", record.Mode.String()},
		{"strategy", record.Strategy.String()},
		{"fulfillment", record.FulfillmentStatus.String()},
		{"execution", record.ExecutionStatus.String()},
		{"requester", formatHex(record.Requester)},
		{"fulfiller", formatHex(record.Fulfiller)},
		{"program_uri", record.ProgramURI},
		{"stdin_uri", record.StdinURI},
		{"proof_uri", record.ProofURI},
		{"proof_public_uri", record.ProofPublicURI},
		{"deadline", formatUnix(record.Deadline)},
		{"cycle_limit", formatCount(record.CycleLimit)},
		{"gas_limit", formatCount(record.GasLimit)},
		{"tx_hash", formatHex(record.TxHash)},
		{"fulfill_tx_hash", formatHex(record.FulfillTxHash)},
		{"created_at", formatUnix(record.CreatedAt)},
		{"updated_at", formatUnix(record.UpdatedAt)},
	}
	if record.FulfilledAt != nil {
		fields = append(fields, field{"fulfilled_at", formatUnix(*record.FulfilledAt)})
	}
	if record.ErrorCode != 0 {
		fields = append(fields, field{"error", strconv.FormatInt(int64(record.ErrorCode), 10)})
	}
	return fields
}

func statusFields(status network.ProofRequestStatus) []field {
	return []field{
		{"fulfillment", status.FulfillmentStatus.String()},
		{"execution", status.ExecutionStatus.String()},
		{"request_tx_hash", formatHex(status.RequestTxHash)},
		{"deadline", formatUnix(status.Deadline)},
		{"fulfill_tx_hash", formatHex(status.FulfillTxHash)},
		{"proof_uri", status.ProofURI},
		{"proof_public_uri", status.ProofPublicURI},
		{"public_values_hash", formatHex(status.PublicValuesHash)},
	}
}

func programFields(program network.Program) []field {
	return []field{
		{"vk_hash", formatHex(program.VKHash)},
		{"name", program.Name},
		{"program_uri", program.ProgramURI},
		{"owner", formatHex(program.Owner)},
		{"vk_bytes", formatCount(uint64(len(program.VK)))},
		{"created_at", formatUnix(program.CreatedAt)},
	}
}

// formatUnix renders unix seconds as UTC RFC 3339. Zero is blank.
func formatUnix(seconds uint64) string {
	if seconds == 0 {
		return ""
	}
	return time.Unix(int64(seconds), 0).UTC().Format(time.RFC3339)
}

func formatCount(value uint64) string {
	if value == 0 {
		return ""
	}
	return strconv.FormatUint(value, 10)
}
