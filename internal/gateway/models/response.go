// Copyright 2026 The FlowPlane Authors
// SPDX-License-Identifier: Apache-2.0

// Package models defines the gateway's request and response shapes.
package models

import (
	"time"

	workflowv1 "github.com/daz23456/flowplane/api/v1"
	"github.com/daz23456/flowplane/internal/engine"
)

// APIResponse is the standard response wrapper.
type APIResponse[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

// ListResponse is a paginated list payload.
type ListResponse[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

func SuccessResponse[T any](data T) APIResponse[T] {
	return APIResponse[T]{Success: true, Data: data}
}

func ErrorResponse(message, code string) APIResponse[any] {
	return APIResponse[any]{Success: false, Error: message, Code: code}
}

func ListSuccessResponse[T any](items []T, total int64, limit, offset int) APIResponse[ListResponse[T]] {
	return APIResponse[ListResponse[T]]{
		Success: true,
		Data:    ListResponse[T]{Items: items, TotalCount: total, Limit: limit, Offset: offset},
	}
}

// WorkflowResponse summarizes a workflow definition.
type WorkflowResponse struct {
	Name      string                           `json:"name"`
	Namespace string                           `json:"namespace"`
	Input     map[string]workflowv1.InputField `json:"input,omitempty"`
	StepCount int                              `json:"stepCount"`
	Steps     []WorkflowStepResponse           `json:"steps,omitempty"`
	Triggers  []workflowv1.Trigger             `json:"triggers,omitempty"`
}

// WorkflowStepResponse summarizes one step of a workflow definition.
type WorkflowStepResponse struct {
	ID          string   `json:"id"`
	TaskRef     string   `json:"taskRef,omitempty"`
	WorkflowRef string   `json:"workflowRef,omitempty"`
	DependsOn   []string `json:"dependsOn,omitempty"`
	HasSwitch   bool     `json:"hasSwitch,omitempty"`
	HasForEach  bool     `json:"hasForEach,omitempty"`
}

// TaskResponse summarizes a task definition.
type TaskResponse struct {
	Name       string              `json:"name"`
	Namespace  string              `json:"namespace"`
	Type       workflowv1.TaskType `json:"type"`
	Categories []string            `json:"categories,omitempty"`
	Tags       []string            `json:"tags,omitempty"`
}

// ExecutionResponse is the API form of an execution record.
type ExecutionResponse struct {
	ID           string               `json:"id"`
	WorkflowName string               `json:"workflowName"`
	Namespace    string               `json:"namespace"`
	Status       engine.RunStatus     `json:"status"`
	Input        map[string]any       `json:"input,omitempty"`
	Output       map[string]any       `json:"output,omitempty"`
	Steps        []engine.StepResult  `json:"steps,omitempty"`
	Error        *engine.StepError    `json:"error,omitempty"`
	StartedAt    time.Time            `json:"startedAt"`
	CompletedAt  time.Time            `json:"completedAt"`
	DurationMs   int64                `json:"durationMs"`
}

// FromRecord converts an engine record for API responses.
func FromRecord(rec *engine.ExecutionRecord) ExecutionResponse {
	return ExecutionResponse{
		ID:           rec.ID,
		WorkflowName: rec.WorkflowName,
		Namespace:    rec.Namespace,
		Status:       rec.Status,
		Input:        rec.Input,
		Output:       rec.Output,
		Steps:        rec.Steps,
		Error:        rec.Error,
		StartedAt:    rec.StartedAt,
		CompletedAt:  rec.CompletedAt,
		DurationMs:   rec.DurationMs,
	}
}

// FromWorkflow converts a workflow definition for API responses.
func FromWorkflow(wf *workflowv1.Workflow, includeSteps bool) WorkflowResponse {
	resp := WorkflowResponse{
		Name:      wf.Name,
		Namespace: wf.Namespace,
		Input:     wf.Spec.Input,
		StepCount: len(wf.Spec.Tasks),
		Triggers:  wf.Spec.Triggers,
	}
	if includeSteps {
		for _, step := range wf.Spec.Tasks {
			resp.Steps = append(resp.Steps, WorkflowStepResponse{
				ID:          step.ID,
				TaskRef:     step.TaskRef,
				WorkflowRef: step.WorkflowRef,
				DependsOn:   step.DependsOn,
				HasSwitch:   step.Switch != nil,
				HasForEach:  step.ForEach != nil,
			})
		}
	}
	return resp
}

// FromTask converts a task definition for API responses.
func FromTask(task *workflowv1.WorkflowTask) TaskResponse {
	return TaskResponse{
		Name:       task.Name,
		Namespace:  task.Namespace,
		Type:       task.Spec.Type,
		Categories: task.Spec.Categories,
		Tags:       task.Spec.Tags,
	}
}
