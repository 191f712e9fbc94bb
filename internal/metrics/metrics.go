// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package metrics exposes Prometheus metrics about the executed connector syncs.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mia-platform/fivetran-sync/internal/syncer"
)

const (
	namespace = "fivetran"
	subsystem = "sync"

	outcomeLabel = "outcome"
	// OutcomeError labels the syncs aborted by an error before reaching a terminal status.
	OutcomeError = "error"
)

var _ syncer.Observer = &SyncCollector{}

// SyncCollector records the outcome of every sync on its own registry.
type SyncCollector struct {
	registry     *prometheus.Registry
	runsTotal    *prometheus.CounterVec
	pollDuration *prometheus.HistogramVec
}

// NewSyncCollector returns a collector with the sync metrics and the go runtime
// metrics already registered.
func NewSyncCollector() (*SyncCollector, error) {
	registry := prometheus.NewRegistry()

	runsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "runs_total",
		Help:      "Total number of connector syncs executed, by outcome.",
	}, []string{outcomeLabel})

	pollDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "poll_duration_seconds",
		Help:      "Time spent waiting for the completion of a connector sync.",
		Buckets:   []float64{1, 5, 15, 30, 60, 300, 600, 1800, 3600},
	}, []string{outcomeLabel})

	for _, collector := range []prometheus.Collector{
		runsTotal,
		pollDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := registry.Register(collector); err != nil {
			return nil, err
		}
	}

	for _, outcome := range []string{
		string(syncer.StatusSuccess),
		string(syncer.StatusFailure),
		string(syncer.StatusTimeout),
		OutcomeError,
	} {
		runsTotal.WithLabelValues(outcome)
	}

	return &SyncCollector{
		registry:     registry,
		runsTotal:    runsTotal,
		pollDuration: pollDuration,
	}, nil
}

// ObserveOutcome records a sync result.
func (c *SyncCollector) ObserveOutcome(_ string, outcome *syncer.Outcome, err error) {
	if err != nil || outcome == nil {
		c.runsTotal.WithLabelValues(OutcomeError).Inc()
		return
	}

	label := string(outcome.Status)
	c.runsTotal.WithLabelValues(label).Inc()
	c.pollDuration.WithLabelValues(label).Observe(outcome.Elapsed.Seconds())
}

// Registry returns the registry holding the collected metrics.
func (c *SyncCollector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler returns an HTTP handler exposing the metrics in the Prometheus text format.
func (c *SyncCollector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
