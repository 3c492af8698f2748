// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvironmentVariable names the variable [Load] reads the config path
// from.
const EnvironmentVariable = "PROVERNET_CONFIG"

// Environment represents the deployment environment.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// Compression algorithms accepted by blob.compression.
const (
	CompressionNone = "none"
	CompressionLZ4  = "lz4"
	CompressionZstd = "zstd"
)

// Config is the coordinator configuration.
type Config struct {
	// Environment selects which override section applies.
	Environment Environment `yaml:"environment"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	RPC       RPCConfig       `yaml:"rpc"`
	Blob      BlobConfig      `yaml:"blob"`
	Artifacts ArtifactsConfig `yaml:"artifacts"`
	Signing   SigningConfig   `yaml:"signing"`

	Development *Overrides `yaml:"development,omitempty"`
	Staging     *Overrides `yaml:"staging,omitempty"`
	Production  *Overrides `yaml:"production,omitempty"`
}

// Overrides holds the fields an environment section may replace.
// Empty strings and zero values leave the base value in place.
type Overrides struct {
	LogLevel  string           `yaml:"log_level,omitempty"`
	RPC       *RPCConfig       `yaml:"rpc,omitempty"`
	Blob      *BlobConfig      `yaml:"blob,omitempty"`
	Artifacts *ArtifactsConfig `yaml:"artifacts,omitempty"`
	Signing   *SigningConfig   `yaml:"signing,omitempty"`
}

// RPCConfig configures the gRPC listener and the optional control
// socket.
type RPCConfig struct {
	// Address is the gRPC TCP listen address.
	Address string `yaml:"address"`

	// SocketPath, when set, also serves the dispatch table on a Unix
	// socket with the one-request-per-connection CBOR protocol.
	SocketPath string `yaml:"socket_path"`

	// ShutdownTimeout bounds the graceful drain of in-flight calls.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// BlobConfig configures the HTTP blob endpoint.
type BlobConfig struct {
	// Address is the HTTP listen address.
	Address string `yaml:"address"`

	// PublicBaseURL prefixes public proof download links.
	PublicBaseURL string `yaml:"public_base_url"`

	// UploadBaseURL prefixes presigned upload URLs and is where the
	// coordinator itself uploads proof bytes.
	UploadBaseURL string `yaml:"upload_base_url"`

	// Compression is the at-rest encoding: none, lz4, or zstd.
	Compression string `yaml:"compression"`

	// MaxObjectSize bounds a single upload in bytes.
	MaxObjectSize int64 `yaml:"max_object_size"`

	// UploadTimeout bounds one proof upload, retries included.
	UploadTimeout time.Duration `yaml:"upload_timeout"`

	// AllowedOrigins lists CORS origins for browser uploads.
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// ArtifactsConfig configures artifact URI minting.
type ArtifactsConfig struct {
	// Bucket is the bucket named in every s3:// artifact URI.
	Bucket string `yaml:"bucket"`
}

// SigningConfig configures signature recovery.
type SigningConfig struct {
	// ProtocolName is the word in the personal-message prefix
	// "\x19<ProtocolName> Signed Message:\n".
	ProtocolName string `yaml:"protocol_name"`
}

// Default returns a complete development configuration. LoadFile
// decodes the file on top of it, so a file only needs the values it
// changes.
func Default() *Config {
	return &Config{
		Environment: Development,
		LogLevel:    "info",
		RPC: RPCConfig{
			Address:         "127.0.0.1:50051",
			ShutdownTimeout: 10 * time.Second,
		},
		Blob: BlobConfig{
			Address:        "0.0.0.0:8082",
			PublicBaseURL:  "http://spn-coordinator-001:8082",
			UploadBaseURL:  "http://localhost:8082",
			Compression:    CompressionNone,
			MaxObjectSize:  1 << 30,
			UploadTimeout:  30 * time.Second,
			AllowedOrigins: []string{"*"},
		},
		Artifacts: ArtifactsConfig{
			Bucket: "spn-artifacts",
		},
		Signing: SigningConfig{
			ProtocolName: "Ethereum",
		},
	}
}

// Load loads the file named by PROVERNET_CONFIG. There is no fallback:
// an unset variable is an error.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your coordinator config file, or use --config", EnvironmentVariable)
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from path, applies the matching
// environment section, and expands variables.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.applyEnvironmentOverrides()
	cfg.expandVariables()
	return cfg, nil
}

func (c *Config) applyEnvironmentOverrides() {
	var overrides *Overrides
	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
		// Production stores proofs compressed unless told otherwise.
		if overrides == nil && c.Blob.Compression == CompressionNone {
			overrides = &Overrides{Blob: &BlobConfig{Compression: CompressionZstd}}
		}
	}
	if overrides == nil {
		return
	}

	setString(&c.LogLevel, overrides.LogLevel)

	if rpc := overrides.RPC; rpc != nil {
		setString(&c.RPC.Address, rpc.Address)
		setString(&c.RPC.SocketPath, rpc.SocketPath)
		if rpc.ShutdownTimeout != 0 {
			c.RPC.ShutdownTimeout = rpc.ShutdownTimeout
		}
	}

	if blob := overrides.Blob; blob != nil {
		setString(&c.Blob.Address, blob.Address)
		setString(&c.Blob.PublicBaseURL, blob.PublicBaseURL)
		setString(&c.Blob.UploadBaseURL, blob.UploadBaseURL)
		setString(&c.Blob.Compression, blob.Compression)
		if blob.MaxObjectSize != 0 {
			c.Blob.MaxObjectSize = blob.MaxObjectSize
		}
		if blob.UploadTimeout != 0 {
			c.Blob.UploadTimeout = blob.UploadTimeout
		}
		if blob.AllowedOrigins != nil {
			c.Blob.AllowedOrigins = blob.AllowedOrigins
		}
	}

	if artifacts := overrides.Artifacts; artifacts != nil {
		setString(&c.Artifacts.Bucket, artifacts.Bucket)
	}

	if signing := overrides.Signing; signing != nil {
		setString(&c.Signing.ProtocolName, signing.ProtocolName)
	}
}

func setString(target *string, value string) {
	if value != "" {
		*target = value
	}
}

func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	c.RPC.SocketPath = expandVars(c.RPC.SocketPath, vars)
	c.Blob.PublicBaseURL = expandVars(c.Blob.PublicBaseURL, vars)
	c.Blob.UploadBaseURL = expandVars(c.Blob.UploadBaseURL, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default}. Values in vars take
// precedence over the process environment.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}
		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

var logLevels = []string{"debug", "info", "warn", "warning", "error"}

var compressions = []string{CompressionNone, CompressionLZ4, CompressionZstd}

// Validate reports every problem in the configuration at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Staging && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}
	if !slices.Contains(logLevels, strings.ToLower(c.LogLevel)) {
		errs = append(errs, fmt.Errorf("log_level must be one of: %v", logLevels[:4]))
	}

	if c.RPC.Address == "" {
		errs = append(errs, errors.New("rpc.address is required"))
	}
	if c.RPC.ShutdownTimeout < 0 {
		errs = append(errs, errors.New("rpc.shutdown_timeout must not be negative"))
	}

	if c.Blob.Address == "" {
		errs = append(errs, errors.New("blob.address is required"))
	}
	if err := validateBaseURL(c.Blob.PublicBaseURL); err != nil {
		errs = append(errs, fmt.Errorf("blob.public_base_url: %w", err))
	}
	if err := validateBaseURL(c.Blob.UploadBaseURL); err != nil {
		errs = append(errs, fmt.Errorf("blob.upload_base_url: %w", err))
	}
	if !slices.Contains(compressions, c.Blob.Compression) {
		errs = append(errs, fmt.Errorf("blob.compression must be one of: %v", compressions))
	}
	if c.Blob.MaxObjectSize <= 0 {
		errs = append(errs, errors.New("blob.max_object_size must be positive"))
	}
	if c.Blob.UploadTimeout <= 0 {
		errs = append(errs, errors.New("blob.upload_timeout must be positive"))
	}

	if c.Artifacts.Bucket == "" {
		errs = append(errs, errors.New("artifacts.bucket is required"))
	}
	if c.Signing.ProtocolName == "" {
		errs = append(errs, errors.New("signing.protocol_name is required"))
	}

	return errors.Join(errs...)
}

func validateBaseURL(raw string) error {
	if raw == "" {
		return errors.New("required")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return errors.New("missing host")
	}
	return nil
}
