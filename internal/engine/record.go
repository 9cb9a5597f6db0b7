// Copyright 2026 The FlowPlane Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"time"

	"github.com/daz23456/flowplane/internal/quality"
)

// StepStatus is the lifecycle state of a single step.
type StepStatus string

const (
	StepStatusPending   StepStatus = "Pending"
	StepStatusRunning   StepStatus = "Running"
	StepStatusSucceeded StepStatus = "Succeeded"
	StepStatusFailed    StepStatus = "Failed"
	StepStatusSkipped   StepStatus = "Skipped"
)

// RunStatus is the lifecycle state of a workflow execution.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "Running"
	RunStatusSucceeded RunStatus = "Succeeded"
	RunStatusFailed    RunStatus = "Failed"
	RunStatusCancelled RunStatus = "Cancelled"
)

// SkipReason explains why a step was skipped.
type SkipReason string

const (
	// SkipReasonCondition means the step's condition evaluated to false.
	SkipReasonCondition SkipReason = "ConditionFalse"

	// SkipReasonUpstreamSkipped means a dependency was skipped without failing.
	// This cascade does not taint the run status.
	SkipReasonUpstreamSkipped SkipReason = "UpstreamSkipped"

	// SkipReasonUpstreamFailed means a dependency failed. The run fails.
	SkipReasonUpstreamFailed SkipReason = "UpstreamFailed"

	// SkipReasonCancelled means the run was cancelled before the step started.
	SkipReasonCancelled SkipReason = "Cancelled"
)

// StepResult captures the terminal state of one step.
type StepResult struct {
	StepID string `json:"stepId"`

	// TaskRef is the effective task or workflow reference after switch
	// evaluation, empty for steps that never reached dispatch.
	TaskRef string `json:"taskRef,omitempty"`

	Status     StepStatus `json:"status"`
	SkipReason SkipReason `json:"skipReason,omitempty"`

	// Output is the parsed task output, the ordered iteration list for
	// forEach steps, or nil for failed and skipped steps.
	Output any `json:"output,omitempty"`

	Error *StepError `json:"error,omitempty"`

	// ContinueOnFailure records that a failure here did not taint the run.
	ContinueOnFailure bool `json:"continueOnFailure,omitempty"`

	Attempts    int        `json:"attempts,omitempty"`
	HTTPStatus  int        `json:"httpStatus,omitempty"`
	ResolvedURL string     `json:"resolvedUrl,omitempty"`
	StartedAt   time.Time  `json:"startedAt"`
	CompletedAt time.Time  `json:"completedAt"`
	DurationMs  int64      `json:"durationMs"`

	// Quality grades the response body when an HTTP task fails.
	Quality *quality.Score `json:"quality,omitempty"`
}

// IterationResult is one entry of a forEach step's output list.
type IterationResult struct {
	Index   int        `json:"index"`
	Success bool       `json:"success"`
	Output  any        `json:"output,omitempty"`
	Error   *StepError `json:"error,omitempty"`
}

// ExecutionRecord is the complete account of one workflow run. The
// orchestrator always returns a completed record, even for failed or
// cancelled runs.
type ExecutionRecord struct {
	ID           string         `json:"id"`
	WorkflowName string         `json:"workflowName"`
	Namespace    string         `json:"namespace"`
	Status       RunStatus      `json:"status"`
	Input        map[string]any `json:"input,omitempty"`

	// Output is the resolved workflow output mapping, nil unless the run
	// succeeded.
	Output map[string]any `json:"output,omitempty"`

	// Steps are appended in termination order.
	Steps []StepResult `json:"steps"`

	// Error is set for run-level failures that occur before or outside step
	// dispatch, such as input validation or graph construction.
	Error *StepError `json:"error,omitempty"`

	StartedAt   time.Time `json:"startedAt"`
	CompletedAt time.Time `json:"completedAt"`
	DurationMs  int64     `json:"durationMs"`
}

// Step returns the result for stepID, or nil if the step never terminated.
func (r *ExecutionRecord) Step(stepID string) *StepResult {
	for i := range r.Steps {
		if r.Steps[i].StepID == stepID {
			return &r.Steps[i]
		}
	}
	return nil
}

func (r *ExecutionRecord) finish(status RunStatus, at time.Time) {
	r.Status = status
	r.CompletedAt = at
	r.DurationMs = at.Sub(r.StartedAt).Milliseconds()
}
