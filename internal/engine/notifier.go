// Copyright 2026 The FlowPlane Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"log/slog"
	"time"
)

// Notifier receives lifecycle events during a workflow run. Implementations
// must not block; slow consumers should buffer internally. A WorkflowStarted
// event precedes every step event of its run, and WorkflowCompleted follows
// all of them.
type Notifier interface {
	WorkflowStarted(runID, namespace, workflowName string, at time.Time)
	StepStarted(runID, stepID, taskRef string, at time.Time)
	StepCompleted(runID string, result StepResult)
	WorkflowCompleted(runID string, status RunStatus, durationMs int64, at time.Time)
}

// NopNotifier discards all events.
type NopNotifier struct{}

var _ Notifier = NopNotifier{}

func (NopNotifier) WorkflowStarted(string, string, string, time.Time)     {}
func (NopNotifier) StepStarted(string, string, string, time.Time)         {}
func (NopNotifier) StepCompleted(string, StepResult)                      {}
func (NopNotifier) WorkflowCompleted(string, RunStatus, int64, time.Time) {}

// MultiNotifier fans events out to several notifiers.
type MultiNotifier []Notifier

var _ Notifier = MultiNotifier(nil)

func (m MultiNotifier) WorkflowStarted(runID, namespace, workflowName string, at time.Time) {
	for _, n := range m {
		n.WorkflowStarted(runID, namespace, workflowName, at)
	}
}

func (m MultiNotifier) StepStarted(runID, stepID, taskRef string, at time.Time) {
	for _, n := range m {
		n.StepStarted(runID, stepID, taskRef, at)
	}
}

func (m MultiNotifier) StepCompleted(runID string, result StepResult) {
	for _, n := range m {
		n.StepCompleted(runID, result)
	}
}

func (m MultiNotifier) WorkflowCompleted(runID string, status RunStatus, durationMs int64, at time.Time) {
	for _, n := range m {
		n.WorkflowCompleted(runID, status, durationMs, at)
	}
}

// safeNotifier shields the orchestrator from notifier panics. A subscriber
// bug must never fail a run.
type safeNotifier struct {
	inner  Notifier
	logger *slog.Logger
}

var _ Notifier = (*safeNotifier)(nil)

func newSafeNotifier(inner Notifier, logger *slog.Logger) *safeNotifier {
	if inner == nil {
		inner = NopNotifier{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &safeNotifier{inner: inner, logger: logger}
}

func (s *safeNotifier) emit(event string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("notifier panicked", "event", event, "panic", r)
		}
	}()
	fn()
}

func (s *safeNotifier) WorkflowStarted(runID, namespace, workflowName string, at time.Time) {
	s.emit("WorkflowStarted", func() { s.inner.WorkflowStarted(runID, namespace, workflowName, at) })
}

func (s *safeNotifier) StepStarted(runID, stepID, taskRef string, at time.Time) {
	s.emit("StepStarted", func() { s.inner.StepStarted(runID, stepID, taskRef, at) })
}

func (s *safeNotifier) StepCompleted(runID string, result StepResult) {
	s.emit("StepCompleted", func() { s.inner.StepCompleted(runID, result) })
}

func (s *safeNotifier) WorkflowCompleted(runID string, status RunStatus, durationMs int64, at time.Time) {
	s.emit("WorkflowCompleted", func() { s.inner.WorkflowCompleted(runID, status, durationMs, at) })
}
