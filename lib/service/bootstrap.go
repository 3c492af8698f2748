// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"fmt"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/provernet/coordinator/lib/clock"
	"github.com/provernet/coordinator/lib/config"
)

// CommonFlags holds the flag values shared by the service binaries.
// Call [RegisterCommonFlags] to bind them to a flag set before parsing.
type CommonFlags struct {
	ConfigPath  string
	LogLevel    string
	ShowVersion bool
}

// RegisterCommonFlags binds [CommonFlags] fields to flagSet with the
// standard names and help text. Binaries register their own flags on
// the same set before parsing.
func RegisterCommonFlags(flagSet *pflag.FlagSet, flags *CommonFlags) {
	flagSet.StringVar(&flags.ConfigPath, "config", "", "path to the YAML config file (default: $"+config.EnvironmentVariable+")")
	flagSet.StringVar(&flags.LogLevel, "log-level", "", "override log_level from the config file (debug, info, warn, error)")
	flagSet.BoolVar(&flags.ShowVersion, "version", false, "print version information and exit")
}

// BootstrapResult holds what [Bootstrap] produced.
type BootstrapResult struct {
	// Config is the loaded, validated configuration with the
	// environment overrides applied.
	Config *config.Config

	// Logger is the service logger, already installed as the slog
	// default.
	Logger *slog.Logger

	// Clock is the real clock.
	Clock clock.Clock
}

// Bootstrap loads and validates the configuration named by flags and
// builds the logger. A --log-level flag takes precedence over the
// file's log_level.
func Bootstrap(flags CommonFlags) (*BootstrapResult, error) {
	var (
		cfg *config.Config
		err error
	)
	if flags.ConfigPath != "" {
		cfg, err = config.LoadFile(flags.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if flags.LogLevel != "" {
		cfg.LogLevel = flags.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	level, err := ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	return &BootstrapResult{
		Config: cfg,
		Logger: NewLogger(level),
		Clock:  clock.Real(),
	}, nil
}
