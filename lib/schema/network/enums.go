// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

package network

import (
	"fmt"
	"strings"
)

// FulfillmentStatus is the marketplace lifecycle position of a proof
// request.
type FulfillmentStatus int32

const (
	FulfillmentUnspecified   FulfillmentStatus = 0
	FulfillmentRequested     FulfillmentStatus = 1
	FulfillmentAssigned      FulfillmentStatus = 2
	FulfillmentFulfilled     FulfillmentStatus = 3
	FulfillmentUnfulfillable FulfillmentStatus = 4
)

var fulfillmentStatusNames = []string{"unspecified", "requested", "assigned", "fulfilled", "unfulfillable"}

func (s FulfillmentStatus) String() string { return enumName(fulfillmentStatusNames, int32(s)) }

// Terminal reports whether no further transition is allowed.
func (s FulfillmentStatus) Terminal() bool {
	return s == FulfillmentFulfilled || s == FulfillmentUnfulfillable
}

// ParseFulfillmentStatus accepts the lower-case names returned by
// String.
func ParseFulfillmentStatus(name string) (FulfillmentStatus, error) {
	value, err := parseEnum("fulfillment status", fulfillmentStatusNames, name)
	return FulfillmentStatus(value), err
}

// ExecutionStatus records whether the requested program has been run.
type ExecutionStatus int32

const (
	ExecutionUnspecified      ExecutionStatus = 0
	ExecutionUnexecuted       ExecutionStatus = 1
	ExecutionExecuted         ExecutionStatus = 2
	ExecutionUnexecutable     ExecutionStatus = 3
	ExecutionValidationFailed ExecutionStatus = 4
)

var executionStatusNames = []string{"unspecified", "unexecuted", "executed", "unexecutable", "validation_failed"}

func (s ExecutionStatus) String() string { return enumName(executionStatusNames, int32(s)) }

func ParseExecutionStatus(name string) (ExecutionStatus, error) {
	value, err := parseEnum("execution status", executionStatusNames, name)
	return ExecutionStatus(value), err
}

// ProofMode selects the proof system output.
type ProofMode int32

const (
	ProofModeUnspecified ProofMode = 0
	ProofModeCore        ProofMode = 1
	ProofModeCompressed  ProofMode = 2
	ProofModePlonk       ProofMode = 3
	ProofModeGroth16     ProofMode = 4
)

var proofModeNames = []string{"unspecified", "core", "compressed", "plonk", "groth16"}

func (m ProofMode) String() string { return enumName(proofModeNames, int32(m)) }

func ParseProofMode(name string) (ProofMode, error) {
	value, err := parseEnum("proof mode", proofModeNames, name)
	return ProofMode(value), err
}

// FulfillmentStrategy is how a prover is chosen for a request.
type FulfillmentStrategy int32

const (
	StrategyUnspecified FulfillmentStrategy = 0
	StrategyHosted      FulfillmentStrategy = 1
	StrategyReserved    FulfillmentStrategy = 2
	StrategyAuction     FulfillmentStrategy = 3
)

var strategyNames = []string{"unspecified", "hosted", "reserved", "auction"}

func (s FulfillmentStrategy) String() string { return enumName(strategyNames, int32(s)) }

func ParseFulfillmentStrategy(name string) (FulfillmentStrategy, error) {
	value, err := parseEnum("fulfillment strategy", strategyNames, name)
	return FulfillmentStrategy(value), err
}

// SettlementStatus is carried for filtering only; nothing in the
// coordinator drives it.
type SettlementStatus int32

const (
	SettlementUnspecified SettlementStatus = 0
	SettlementRequested   SettlementStatus = 1
	SettlementInProgress  SettlementStatus = 2
	SettlementCompleted   SettlementStatus = 3
)

var settlementStatusNames = []string{"unspecified", "requested", "in_progress", "completed"}

func (s SettlementStatus) String() string { return enumName(settlementStatusNames, int32(s)) }

func ParseSettlementStatus(name string) (SettlementStatus, error) {
	value, err := parseEnum("settlement status", settlementStatusNames, name)
	return SettlementStatus(value), err
}

// ExecuteFailCause explains an Unexecutable execution status. Carried
// for filtering only.
type ExecuteFailCause int32

const (
	FailCauseUnspecified        ExecuteFailCause = 0
	FailCauseHalted             ExecuteFailCause = 1
	FailCauseCycleLimitExceeded ExecuteFailCause = 2
	FailCauseGasLimitExceeded   ExecuteFailCause = 3
	FailCauseOther              ExecuteFailCause = 4
)

var failCauseNames = []string{"unspecified", "halted", "cycle_limit_exceeded", "gas_limit_exceeded", "other"}

func (c ExecuteFailCause) String() string { return enumName(failCauseNames, int32(c)) }

func ParseExecuteFailCause(name string) (ExecuteFailCause, error) {
	value, err := parseEnum("execute fail cause", failCauseNames, name)
	return ExecuteFailCause(value), err
}

func enumName(names []string, value int32) string {
	if value >= 0 && int(value) < len(names) {
		return names[value]
	}
	return fmt.Sprintf("unknown(%d)", value)
}

func parseEnum(kind string, names []string, name string) (int32, error) {
	normalized := strings.ToLower(strings.ReplaceAll(name, "-", "_"))
	for i, candidate := range names {
		if candidate == normalized {
			return int32(i), nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q (valid: %s)", kind, name, strings.Join(names, ", "))
}
