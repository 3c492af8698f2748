// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "coordinator.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return configPath
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Environment != Development {
		t.Errorf("environment = %s, want development", cfg.Environment)
	}
	if cfg.RPC.Address != "127.0.0.1:50051" {
		t.Errorf("rpc.address = %s", cfg.RPC.Address)
	}
	if cfg.Blob.PublicBaseURL != "http://spn-coordinator-001:8082" {
		t.Errorf("blob.public_base_url = %s", cfg.Blob.PublicBaseURL)
	}
	if cfg.Artifacts.Bucket != "spn-artifacts" {
		t.Errorf("artifacts.bucket = %s", cfg.Artifacts.Bucket)
	}
	if cfg.Signing.ProtocolName != "Ethereum" {
		t.Errorf("signing.protocol_name = %s", cfg.Signing.ProtocolName)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

func TestLoadRequiresEnvironmentVariable(t *testing.T) {
	t.Setenv(EnvironmentVariable, "")

	_, err := Load()
	if err == nil {
		t.Fatal("Load succeeded without PROVERNET_CONFIG")
	}
	if !strings.HasPrefix(err.Error(), "PROVERNET_CONFIG environment variable not set") {
		t.Errorf("error = %q", err)
	}
}

func TestLoadFromEnvironmentVariable(t *testing.T) {
	t.Setenv(EnvironmentVariable, writeConfig(t, `
environment: staging
rpc:
  address: 0.0.0.0:6000
  shutdown_timeout: 3s
blob:
  compression: lz4
  upload_timeout: 1m
`))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Environment != Staging {
		t.Errorf("environment = %s, want staging", cfg.Environment)
	}
	if cfg.RPC.Address != "0.0.0.0:6000" {
		t.Errorf("rpc.address = %s", cfg.RPC.Address)
	}
	if cfg.RPC.ShutdownTimeout != 3*time.Second {
		t.Errorf("rpc.shutdown_timeout = %v", cfg.RPC.ShutdownTimeout)
	}
	if cfg.Blob.UploadTimeout != time.Minute {
		t.Errorf("blob.upload_timeout = %v", cfg.Blob.UploadTimeout)
	}
	if cfg.Blob.Compression != CompressionLZ4 {
		t.Errorf("blob.compression = %s", cfg.Blob.Compression)
	}
	// Unset values keep their defaults.
	if cfg.Artifacts.Bucket != "spn-artifacts" {
		t.Errorf("artifacts.bucket = %s, want default", cfg.Artifacts.Bucket)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	content := `
environment: %s
artifacts:
  bucket: base-bucket
staging:
  log_level: debug
  artifacts:
    bucket: staging-bucket
  blob:
    allowed_origins: ["https://explorer.example"]
`
	tests := []struct {
		environment     string
		wantBucket      string
		wantLevel       string
		wantCompression string
		wantOrigins     int
	}{
		{"development", "base-bucket", "info", CompressionNone, 1},
		{"staging", "staging-bucket", "debug", CompressionNone, 1},
		{"production", "base-bucket", "info", CompressionZstd, 1},
	}
	for _, test := range tests {
		t.Run(test.environment, func(t *testing.T) {
			cfg, err := LoadFile(writeConfig(t, strings.Replace(content, "%s", test.environment, 1)))
			if err != nil {
				t.Fatalf("LoadFile: %v", err)
			}
			if cfg.Artifacts.Bucket != test.wantBucket {
				t.Errorf("bucket = %s, want %s", cfg.Artifacts.Bucket, test.wantBucket)
			}
			if cfg.LogLevel != test.wantLevel {
				t.Errorf("log_level = %s, want %s", cfg.LogLevel, test.wantLevel)
			}
			if cfg.Blob.Compression != test.wantCompression {
				t.Errorf("compression = %s, want %s", cfg.Blob.Compression, test.wantCompression)
			}
			if len(cfg.Blob.AllowedOrigins) != test.wantOrigins {
				t.Errorf("allowed_origins = %v", cfg.Blob.AllowedOrigins)
			}
		})
	}
}

func TestStagingOverrideReplacesOrigins(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, `
environment: staging
staging:
  blob:
    allowed_origins: ["https://explorer.example"]
`))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(cfg.Blob.AllowedOrigins) != 1 || cfg.Blob.AllowedOrigins[0] != "https://explorer.example" {
		t.Errorf("allowed_origins = %v", cfg.Blob.AllowedOrigins)
	}
}

func TestExpandVars(t *testing.T) {
	t.Setenv("PROVERNET_TEST_HOST", "blobs.internal")

	tests := []struct {
		input string
		want  string
	}{
		{"http://${PROVERNET_TEST_HOST}:8082", "http://blobs.internal:8082"},
		{"http://${PROVERNET_TEST_MISSING:-fallback}:8082", "http://fallback:8082"},
		{"${HOME}/coordinator.sock", "/home/prover/coordinator.sock"},
		{"no variables", "no variables"},
	}
	vars := map[string]string{"HOME": "/home/prover"}
	for _, test := range tests {
		if got := expandVars(test.input, vars); got != test.want {
			t.Errorf("expandVars(%q) = %q, want %q", test.input, got, test.want)
		}
	}
}

func TestLoadFileExpandsURLs(t *testing.T) {
	t.Setenv("PROVERNET_TEST_PUBLIC", "downloads.example")
	cfg, err := LoadFile(writeConfig(t, `
blob:
  public_base_url: https://${PROVERNET_TEST_PUBLIC}
`))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Blob.PublicBaseURL != "https://downloads.example" {
		t.Errorf("public_base_url = %s", cfg.Blob.PublicBaseURL)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad environment", func(c *Config) { c.Environment = "qa" }, "invalid environment"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"missing rpc address", func(c *Config) { c.RPC.Address = "" }, "rpc.address"},
		{"bad compression", func(c *Config) { c.Blob.Compression = "gzip" }, "blob.compression"},
		{"relative public url", func(c *Config) { c.Blob.PublicBaseURL = "/proofs" }, "blob.public_base_url"},
		{"zero object size", func(c *Config) { c.Blob.MaxObjectSize = 0 }, "blob.max_object_size"},
		{"missing bucket", func(c *Config) { c.Artifacts.Bucket = "" }, "artifacts.bucket"},
		{"missing protocol", func(c *Config) { c.Signing.ProtocolName = "" }, "signing.protocol_name"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := Default()
			test.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate succeeded")
			}
			if !strings.Contains(err.Error(), test.wantErr) {
				t.Errorf("error %q does not mention %q", err, test.wantErr)
			}
		})
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.RPC.Address = ""
	cfg.Artifacts.Bucket = ""
	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate succeeded")
	}
	for _, want := range []string{"rpc.address", "artifacts.bucket"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}
