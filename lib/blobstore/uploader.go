// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// UploaderConfig configures an Uploader.
type UploaderConfig struct {
	// Timeout bounds one Upload or Download, retries included.
	// Defaults to 30 seconds.
	Timeout time.Duration

	// RetryMax is the number of retries after the first attempt.
	// Defaults to 3.
	RetryMax int

	// Logger receives retry diagnostics. Optional.
	Logger *slog.Logger
}

// Uploader moves bytes to and from a blob endpoint over HTTP,
// retrying connection errors and 5xx responses.
type Uploader struct {
	client  *retryablehttp.Client
	timeout time.Duration
}

// NewUploader creates an Uploader.
func NewUploader(config UploaderConfig) *Uploader {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RetryMax == 0 {
		config.RetryMax = 3
	}

	client := retryablehttp.NewClient()
	client.RetryMax = config.RetryMax
	client.RetryWaitMin = 100 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.Logger = nil
	if config.Logger != nil {
		// *slog.Logger satisfies retryablehttp.LeveledLogger.
		client.Logger = config.Logger
	}
	return &Uploader{client: client, timeout: config.Timeout}
}

// Upload PUTs data to url. Any non-2xx final response is an error.
func (u *Uploader) Upload(ctx context.Context, url string, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	request, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPut, url, data)
	if err != nil {
		return fmt.Errorf("building upload request: %w", err)
	}
	request.Header.Set("Content-Type", "application/octet-stream")

	response, err := u.client.Do(request)
	if err != nil {
		return fmt.Errorf("uploading to %s: %w", url, err)
	}
	defer response.Body.Close()

	if response.StatusCode/100 != 2 {
		return fmt.Errorf("uploading to %s: %s: %s", url, response.Status, readSnippet(response.Body))
	}
	io.Copy(io.Discard, response.Body)
	return nil
}

// Download GETs the bytes at url.
func (u *Uploader) Download(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	request, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building download request: %w", err)
	}
	response, err := u.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", url, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("downloading %s: %s: %s", url, response.Status, readSnippet(response.Body))
	}
	var buffer bytes.Buffer
	if _, err := buffer.ReadFrom(response.Body); err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}
	return buffer.Bytes(), nil
}

func readSnippet(body io.Reader) string {
	snippet, _ := io.ReadAll(io.LimitReader(body, 512))
	return string(bytes.TrimSpace(snippet))
}
