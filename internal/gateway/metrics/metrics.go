// Copyright 2026 The FlowPlane Authors
// SPDX-License-Identifier: Apache-2.0

// Package metrics exposes Prometheus instrumentation for workflow runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/daz23456/flowplane/internal/engine"
)

// Notifier records engine lifecycle events as Prometheus metrics.
type Notifier struct {
	executionsTotal   *prometheus.CounterVec
	executionDuration *prometheus.HistogramVec
	stepsTotal        *prometheus.CounterVec
	stepDuration      *prometheus.HistogramVec
	activeRuns        prometheus.Gauge
}

var _ engine.Notifier = (*Notifier)(nil)

// NewNotifier builds the metrics notifier and registers its collectors.
func NewNotifier(reg prometheus.Registerer) *Notifier {
	n := &Notifier{
		executionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "flowplane_executions_total",
			Help: "Completed workflow executions by status.",
		}, []string{"status"}),
		executionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "flowplane_execution_duration_seconds",
			Help:    "Wall-clock duration of workflow executions.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 14),
		}, []string{"status"}),
		stepsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "flowplane_steps_total",
			Help: "Completed steps by terminal status.",
		}, []string{"status"}),
		stepDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "flowplane_step_duration_seconds",
			Help:    "Wall-clock duration of steps.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 14),
		}, []string{"status"}),
		activeRuns: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "flowplane_active_runs",
			Help: "Workflow executions currently in flight.",
		}),
	}
	reg.MustRegister(n.executionsTotal, n.executionDuration, n.stepsTotal, n.stepDuration, n.activeRuns)
	return n
}

func (n *Notifier) WorkflowStarted(runID, namespace, workflowName string, at time.Time) {
	n.activeRuns.Inc()
}

func (n *Notifier) StepStarted(runID, stepID, taskRef string, at time.Time) {}

func (n *Notifier) StepCompleted(runID string, result engine.StepResult) {
	status := string(result.Status)
	n.stepsTotal.WithLabelValues(status).Inc()
	n.stepDuration.WithLabelValues(status).Observe(float64(result.DurationMs) / 1000)
}

func (n *Notifier) WorkflowCompleted(runID string, status engine.RunStatus, durationMs int64, at time.Time) {
	n.activeRuns.Dec()
	n.executionsTotal.WithLabelValues(string(status)).Inc()
	n.executionDuration.WithLabelValues(string(status)).Observe(float64(durationMs) / 1000)
}
