// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

// Package metrics counts scan outcomes served by the HTTP API.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "scanner"

// OutcomeOK labels successful scans; failures are labeled with their error kind.
const OutcomeOK = "ok"

type Recorder struct {
	registry *prometheus.Registry

	scans     *prometheus.CounterVec
	consumed  prometheus.Histogram
	arguments prometheus.Counter
}

// NewRecorder registers the scan metrics on a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		scans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scans_total",
			Help:      "Scan requests by outcome.",
		}, []string{"source", "outcome"}),
		consumed: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "consumed_characters",
			Help:      "Characters consumed per scan request.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
		arguments: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "arguments_scanned_total",
			Help:      "Arguments successfully scanned.",
		}),
	}
	r.registry.MustRegister(r.scans, r.consumed, r.arguments)
	return r
}

// Observe records one scan. source is "request" or "preset".
func (r *Recorder) Observe(source, outcome string, consumed, scanned int) {
	r.scans.WithLabelValues(source, outcome).Inc()
	r.consumed.Observe(float64(consumed))
	r.arguments.Add(float64(scanned))
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
