// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

package blobstore

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// HandlerConfig configures the blob endpoint's HTTP handler.
type HandlerConfig struct {
	// Store holds the objects. Required.
	Store *Store

	// MaxObjectSize bounds a PUT body in bytes. Larger bodies are
	// answered 413.
	MaxObjectSize int64

	// AllowedOrigins lists CORS origins. Empty disables CORS.
	AllowedOrigins []string

	// Metrics, if set, is served at GET /metrics.
	Metrics http.Handler

	// OnStored, if set, is called after every successful PUT.
	OnStored func(id string, info Info)

	// Logger is the structured logger. Required.
	Logger *slog.Logger
}

// NewHandler returns the blob endpoint:
//
//	PUT /artifacts/{id}   store the body
//	GET /artifacts/{id}   fetch the bytes
//	GET /health           liveness
//	GET /metrics          Prometheus exposition, when configured
func NewHandler(config HandlerConfig) http.Handler {
	if config.Store == nil {
		panic("blobstore.NewHandler: Store is required")
	}
	if config.Logger == nil {
		panic("blobstore.NewHandler: Logger is required")
	}
	h := &handler{config: config}

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	if len(config.AllowedOrigins) > 0 {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: config.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPut, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "Content-Length"},
			ExposedHeaders: []string{"ETag"},
			MaxAge:         300,
		}))
	}

	router.Put("/artifacts/{id}", h.put)
	router.Get("/artifacts/{id}", h.get)
	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeText(w, http.StatusOK, "OK")
	})
	if config.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", config.Metrics)
	}
	return router
}

type handler struct {
	config HandlerConfig
}

func (h *handler) put(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	body := io.Reader(r.Body)
	if h.config.MaxObjectSize > 0 {
		body = http.MaxBytesReader(w, r.Body, h.config.MaxObjectSize)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeText(w, http.StatusRequestEntityTooLarge, "Artifact too large")
			return
		}
		h.config.Logger.Debug("reading upload failed", "artifact_id", id, "error", err)
		writeText(w, http.StatusBadRequest, "Failed to read artifact body")
		return
	}

	info, err := h.config.Store.Put(id, data)
	if err != nil {
		h.config.Logger.Error("storing artifact failed", "artifact_id", id, "error", err)
		writeText(w, http.StatusInternalServerError, "Failed to store artifact")
		return
	}
	h.config.Logger.Debug("artifact stored",
		"artifact_id", id,
		"size", info.Size,
		"stored_size", info.StoredSize,
		"encoding", info.Encoding.String(),
	)
	if h.config.OnStored != nil {
		h.config.OnStored(id, info)
	}

	w.Header().Set("ETag", strconv.Quote(info.Digest))
	writeText(w, http.StatusOK, "Artifact uploaded successfully")
}

func (h *handler) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	data, info, err := h.config.Store.Get(id)
	if errors.Is(err, ErrNotFound) {
		writeText(w, http.StatusNotFound, "Artifact not found")
		return
	}
	if err != nil {
		h.config.Logger.Error("reading artifact failed", "artifact_id", id, "error", err)
		writeText(w, http.StatusInternalServerError, "Failed to read artifact")
		return
	}

	header := w.Header()
	header.Set("Content-Type", "application/octet-stream")
	header.Set("Content-Length", strconv.Itoa(len(data)))
	header.Set("ETag", strconv.Quote(info.Digest))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func writeText(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	io.WriteString(w, text)
}
