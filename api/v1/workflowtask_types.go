// Copyright 2026 The FlowPlane Authors
// SPDX-License-Identifier: Apache-2.0

package v1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
)

// TaskType identifies how a WorkflowTask is executed.
// +kubebuilder:validation:Enum=http;transform
type TaskType string

const (
	// TaskTypeHTTP executes the task as a templated HTTP request.
	TaskTypeHTTP TaskType = "http"

	// TaskTypeTransform extracts a value from a resolved input document.
	TaskTypeTransform TaskType = "transform"
)

// WorkflowTaskSpec defines the desired state of WorkflowTask.
// A WorkflowTask is a typed, reusable unit of work referenced by Workflow steps.
// It is immutable once loaded into the catalog and keyed by (namespace, name).
type WorkflowTaskSpec struct {
	// Type selects the execution strategy for this task.
	// +required
	Type TaskType `json:"type"`

	// InputSchema is a JSON-Schema subset the resolved step input is validated
	// against before execution.
	//
	// +optional
	// +kubebuilder:pruning:PreserveUnknownFields
	// +kubebuilder:validation:Type=object
	InputSchema *runtime.RawExtension `json:"inputSchema,omitempty"`

	// OutputSchema is a JSON-Schema subset the task output is validated against
	// after execution.
	//
	// +optional
	// +kubebuilder:pruning:PreserveUnknownFields
	// +kubebuilder:validation:Type=object
	OutputSchema *runtime.RawExtension `json:"outputSchema,omitempty"`

	// HTTP configures the request for http-type tasks. Template expressions
	// enclosed in {{...}} are allowed in method, url, headers, and body.
	// +optional
	HTTP *HTTPTaskSpec `json:"http,omitempty"`

	// Transform configures the extraction for transform-type tasks.
	// +optional
	Transform *TransformTaskSpec `json:"transform,omitempty"`

	// Timeout is the per-execution deadline for this task. Defaults to 30s.
	// +optional
	Timeout *metav1.Duration `json:"timeout,omitempty"`

	// Retry configures the retry policy applied on transport errors and
	// 5xx responses. Transform tasks never retry.
	// +optional
	Retry *RetrySpec `json:"retry,omitempty"`

	// Categories groups tasks for catalog browsing.
	// +optional
	Categories []string `json:"categories,omitempty"`

	// Tags are free-form labels for catalog filtering.
	// +optional
	Tags []string `json:"tags,omitempty"`
}

// HTTPTaskSpec describes a templated HTTP request.
type HTTPTaskSpec struct {
	// Method is the HTTP method. Template expressions are allowed.
	// +required
	Method string `json:"method"`

	// URL is the request URL. Template expressions are allowed.
	// +required
	URL string `json:"url"`

	// Headers are request headers. Both values and keys may contain templates.
	// +optional
	Headers map[string]string `json:"headers,omitempty"`

	// Body is the request body. String leaves may contain templates.
	//
	// +optional
	// +kubebuilder:pruning:PreserveUnknownFields
	Body *runtime.RawExtension `json:"body,omitempty"`
}

// TransformTaskSpec describes a JSONPath-style extraction over a resolved
// input document.
type TransformTaskSpec struct {
	// Input is the document to extract from. String leaves may contain
	// templates resolved against the execution context.
	//
	// +required
	// +kubebuilder:pruning:PreserveUnknownFields
	Input *runtime.RawExtension `json:"input"`

	// JSONPath is the extraction expression, e.g. "$.orders[0].id".
	// +required
	JSONPath string `json:"jsonPath"`
}

// RetrySpec configures exponential backoff retries.
// Attempt N waits backoffMs * 2^(N-1) before running.
type RetrySpec struct {
	// MaxAttempts is the total number of attempts including the first.
	// +kubebuilder:validation:Minimum=1
	// +optional
	MaxAttempts int32 `json:"maxAttempts,omitempty"`

	// BackoffMs is the base backoff in milliseconds. Defaults to 1000.
	// +kubebuilder:validation:Minimum=0
	// +optional
	BackoffMs int64 `json:"backoffMs,omitempty"`
}

// WorkflowTaskStatus defines the observed state of WorkflowTask.
type WorkflowTaskStatus struct {
	// Conditions represent the current state of the WorkflowTask resource.
	// +listType=map
	// +listMapKey=type
	// +optional
	Conditions []metav1.Condition `json:"conditions,omitempty"`
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status

// WorkflowTask is the Schema for the workflowtasks API.
// WorkflowTask declares a typed HTTP endpoint or transform with input/output
// JSON Schemas that Workflow steps reference by name.
type WorkflowTask struct {
	metav1.TypeMeta `json:",inline"`

	// metadata is a standard object metadata
	// +optional
	metav1.ObjectMeta `json:"metadata,omitempty,omitzero"`

	// spec defines the desired state of WorkflowTask
	// +required
	Spec WorkflowTaskSpec `json:"spec"`

	// status defines the observed state of WorkflowTask
	// +optional
	Status WorkflowTaskStatus `json:"status,omitempty,omitzero"`
}

// +kubebuilder:object:root=true

// WorkflowTaskList contains a list of WorkflowTask
type WorkflowTaskList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []WorkflowTask `json:"items"`
}

func init() {
	SchemeBuilder.Register(&WorkflowTask{}, &WorkflowTaskList{})
}
