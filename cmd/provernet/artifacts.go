// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/provernet/coordinator/lib/artifactdir"
	"github.com/provernet/coordinator/lib/blobstore"
	"github.com/provernet/coordinator/lib/schema/artifact"
)

func (a *app) artifactCommand() *Command {
	var conn connectionFlags
	return &Command{
		Name:    "artifact",
		Summary: "Mint an artifact URI and its upload URL",
		Usage:   "provernet artifact TYPE [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("artifact", pflag.ContinueOnError)
			conn.register(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one TYPE argument (program, stdin, proof, transaction)")
			}
			artifactType, err := artifact.ParseType(args[0])
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

			response, err := client.CreateArtifact(ctx, artifactType)
			if err != nil {
				return err
			}
			return a.output.record(response, artifactFields(response))
		},
	}
}

func (a *app) uploadCommand() *Command {
	var (
		conn    connectionFlags
		blobURL string
	)
	return &Command{
		Name:    "upload",
		Summary: "Mint an artifact and upload a file's bytes to it",
		Usage:   "provernet upload TYPE FILE [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("upload", pflag.ContinueOnError)
			conn.register(flagSet)
			flagSet.StringVar(&blobURL, "blob-url", "", "blob endpoint base URL to upload through (default: the presigned URL's host)")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 2 {
				return fmt.Errorf("expected TYPE and FILE arguments, got %d arguments", len(args))
			}
			artifactType, err := artifact.ParseType(args[0])
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[1], err)
			}

			client, err := conn.dial(false)
			if err != nil {
				return err
			}
			defer client.Close()
			ctx, cancel := conn.withTimeout(a.ctx)
			defer cancel()

			response, err := client.CreateArtifact(ctx, artifactType)
			if err != nil {
				return err
			}
			target := response.ArtifactPresignedURL
			if blobURL != "" {
				if target, err = blobObjectURL(blobURL, response.ArtifactPresignedURL); err != nil {
					return err
				}
			}
			if err := newUploader(conn.Timeout).Upload(ctx, target, data); err != nil {
				return err
			}
			return a.output.record(response, append(artifactFields(response),
				field{"bytes", strconv.Itoa(len(data))}))
		},
	}
}

func (a *app) downloadCommand() *Command {
	var (
		blobURL    string
		outputPath string
		timeout    time.Duration
	)
	return &Command{
		Name:    "download",
		Summary: "Fetch an artifact's bytes",
		Usage:   "provernet download URL|S3_URI [--blob-url URL] [--output FILE]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("download", pflag.ContinueOnError)
			flagSet.StringVar(&blobURL, "blob-url", "", "blob endpoint base URL (required for s3:// URIs)")
			flagSet.StringVarP(&outputPath, "output", "o", "", "write to FILE instead of stdout")
			flagSet.DurationVar(&timeout, "timeout", 30*time.Second, "deadline for the download")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one URL argument, got %d", len(args))
			}
			source := args[0]
			if blobURL != "" || strings.HasPrefix(source, "s3://") {
				if blobURL == "" {
					return fmt.Errorf("--blob-url is required to download %s", source)
				}
				var err error
				if source, err = blobObjectURL(blobURL, source); err != nil {
					return err
				}
			}

			data, err := newUploader(timeout).Download(a.ctx, source)
			if err != nil {
				return err
			}
			if outputPath != "" {
				return os.WriteFile(outputPath, data, 0o644)
			}
			_, err = a.stdout.Write(data)
			return err
		},
	}
}

func (a *app) healthCommand() *Command {
	var timeout time.Duration
	return &Command{
		Name:    "health",
		Summary: "Check that a blob endpoint is serving",
		Usage:   "provernet health BLOB_URL",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("health", pflag.ContinueOnError)
			flagSet.DurationVar(&timeout, "timeout", 5*time.Second, "deadline for the check")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one BLOB_URL argument, got %d", len(args))
			}
			data, err := newUploader(timeout).Download(a.ctx, strings.TrimSuffix(args[0], "/")+"/health")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(a.stdout, strings.TrimSpace(string(data)))
			return err
		},
	}
}

func artifactFields(response artifact.CreateArtifactResponse) []field {
	return []field{
		{"artifact_uri", response.ArtifactURI},
		{"presigned_url", response.ArtifactPresignedURL},
	}
}

// blobObjectURL rebases an artifact reference (s3:// URI or /artifacts/
// URL) onto the blob endpoint at base.
func blobObjectURL(base, reference string) (string, error) {
	if _, err := url.Parse(base); err != nil {
		return "", fmt.Errorf("--blob-url: %w", err)
	}
	id, err := artifactdir.IDFromURI(reference)
	if err != nil {
		return "", err
	}
	directory := artifactdir.New(artifactdir.Config{PublicBaseURL: base})
	return directory.DownloadURL(id), nil
}

// newUploader retries a failed transfer once.
func newUploader(timeout time.Duration) *blobstore.Uploader {
	return blobstore.NewUploader(blobstore.UploaderConfig{Timeout: timeout, RetryMax: 1})
}
