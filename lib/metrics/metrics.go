// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

// Package metrics holds the coordinator's Prometheus collectors on a
// dedicated registry, served by the blob endpoint at GET /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/provernet/coordinator/lib/schema/network"
	"github.com/provernet/coordinator/lib/service"
)

const namespace = "provernet"

// Metrics is the coordinator's collector set. Each instance owns its
// registry, so tests can create as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	rpcRequests   *prometheus.CounterVec
	rpcDuration   *prometheus.HistogramVec
	proofRequests *prometheus.CounterVec
	blobBytes     prometheus.Counter
}

// BuildInfo labels the provernet_build_info gauge.
type BuildInfo struct {
	Version string
	Commit  string
}

// New creates the collectors and registers them with a fresh registry
// alongside the Go runtime and process collectors.
func New(build BuildInfo) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	m := &Metrics{
		registry: registry,
		rpcRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rpc_requests_total",
				Help:      "RPC calls by method and result code.",
			},
			[]string{"method", "code"},
		),
		rpcDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "rpc_duration_seconds",
				Help:      "RPC handler latency.",
				Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5, 30},
			},
			[]string{"method"},
		),
		proofRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "proof_requests_total",
				Help:      "Proof request lifecycle transitions by resulting status.",
			},
			[]string{"status"},
		),
		blobBytes: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "blob_bytes_total",
				Help:      "Uncompressed bytes accepted by the blob endpoint.",
			},
		),
	}

	factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "build_info",
			Help:      "Build version of the running coordinator. Always 1.",
		},
		[]string{"version", "commit"},
	).WithLabelValues(build.Version, build.Commit).Set(1)

	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRPC records one dispatched call. It has the signature of
// service.Observer.
func (m *Metrics) ObserveRPC(method string, code service.Code, elapsed time.Duration) {
	m.rpcRequests.WithLabelValues(method, string(code)).Inc()
	m.rpcDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// ProofRequestTransition counts a proof request entering status.
func (m *Metrics) ProofRequestTransition(status network.FulfillmentStatus) {
	m.proofRequests.WithLabelValues(status.String()).Inc()
}

// BlobStored counts bytes accepted by the blob endpoint.
func (m *Metrics) BlobStored(size int) {
	m.blobBytes.Add(float64(size))
}

// TrackBlobObjects exports count as provernet_blob_objects. Call once.
func (m *Metrics) TrackBlobObjects(count func() int) {
	promauto.With(m.registry).NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "blob_objects",
			Help:      "Objects held by the blob endpoint.",
		},
		func() float64 { return float64(count()) },
	)
}
