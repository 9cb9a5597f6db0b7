// Copyright 2026 The FlowPlane Authors
// SPDX-License-Identifier: Apache-2.0

package v1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
)

// WorkflowSpec defines the desired state of Workflow.
// A Workflow is a directed acyclic composition of task references with
// templated inputs. Template expressions use {{...}} syntax and can reference
// input.*, tasks.<stepId>.output.*, and forEach.* bindings.
type WorkflowSpec struct {
	// Input declares the workflow input fields. Submitted inputs are validated
	// against these declarations before any step runs.
	// +optional
	Input map[string]InputField `json:"input,omitempty"`

	// Tasks is the ordered sequence of steps composing the workflow DAG.
	// Declaration order breaks scheduling ties within a topological level.
	// +required
	Tasks []Step `json:"tasks"`

	// Output maps workflow output fields to template expressions resolved
	// against the final execution context.
	// +optional
	Output map[string]string `json:"output,omitempty"`

	// Triggers declares how executions of this workflow may be initiated.
	// Trigger delivery is handled outside the execution engine.
	// +optional
	Triggers []Trigger `json:"triggers,omitempty"`
}

// InputField declares a single workflow input parameter.
type InputField struct {
	// Type is the expected JSON type (string, number, integer, boolean,
	// object, array).
	// +required
	Type string `json:"type"`

	// Required marks the field as mandatory.
	// +optional
	Required bool `json:"required,omitempty"`

	// Default is substituted when the field is absent from the submitted input.
	//
	// +optional
	// +kubebuilder:pruning:PreserveUnknownFields
	Default *runtime.RawExtension `json:"default,omitempty"`

	// Description is surfaced in suggested prompts for invalid submissions.
	// +optional
	Description string `json:"description,omitempty"`
}

// Step is a node in the workflow DAG. Exactly one of taskRef, workflowRef,
// or switch resolves to an effective task for each execution.
type Step struct {
	// ID uniquely identifies the step within the workflow.
	// +required
	// +kubebuilder:validation:Pattern=`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`
	// +kubebuilder:validation:MaxLength=63
	ID string `json:"id"`

	// TaskRef names the WorkflowTask to execute.
	// +optional
	TaskRef string `json:"taskRef,omitempty"`

	// WorkflowRef names a Workflow to execute as a nested run. The step's
	// resolved input becomes the nested workflow's input.
	// +optional
	WorkflowRef string `json:"workflowRef,omitempty"`

	// Input maps task input fields to scalars or template expressions.
	//
	// +optional
	// +kubebuilder:pruning:PreserveUnknownFields
	Input *runtime.RawExtension `json:"input,omitempty"`

	// DependsOn lists step IDs that must reach a non-failing terminal state
	// before this step may start. Implicit dependencies are also discovered
	// from tasks.<id>.output references in templates.
	// +optional
	DependsOn []string `json:"dependsOn,omitempty"`

	// Condition is a template expression that must evaluate to a boolean.
	// A false result skips the step.
	// +optional
	Condition string `json:"condition,omitempty"`

	// Switch routes the step to one of several task references based on a
	// resolved value.
	// +optional
	Switch *SwitchSpec `json:"switch,omitempty"`

	// ForEach fans the step out over a resolved list of items.
	// +optional
	ForEach *ForEachSpec `json:"forEach,omitempty"`

	// Timeout overrides the task's per-execution deadline.
	// +optional
	Timeout *metav1.Duration `json:"timeout,omitempty"`

	// Retry overrides the task's retry policy.
	// +optional
	Retry *RetrySpec `json:"retry,omitempty"`

	// ContinueOnFailure prevents this step's failure from skipping
	// downstream steps.
	// +optional
	ContinueOnFailure bool `json:"continueOnFailure,omitempty"`
}

// SwitchSpec selects an effective task reference by comparing a resolved
// value against cases in declaration order. Strings compare case-insensitively;
// all other operands use deep JSON equality.
type SwitchSpec struct {
	// Value is a template expression producing the value to match.
	// +required
	Value string `json:"value"`

	// Cases are evaluated in order; the first match wins.
	// +required
	Cases []SwitchCase `json:"cases"`

	// Default is used when no case matches.
	// +optional
	Default *SwitchDefault `json:"default,omitempty"`
}

// SwitchCase pairs a match value with the task to execute.
type SwitchCase struct {
	// Match is the literal compared against the resolved switch value.
	//
	// +required
	// +kubebuilder:pruning:PreserveUnknownFields
	Match *runtime.RawExtension `json:"match"`

	// TaskRef is the task executed when this case matches.
	// +required
	TaskRef string `json:"taskRef"`
}

// SwitchDefault names the task executed when no case matches.
type SwitchDefault struct {
	// +required
	TaskRef string `json:"taskRef"`
}

// ForEachSpec fans a step out over a list.
type ForEachSpec struct {
	// Items is a template expression that must resolve to a list.
	// +required
	Items string `json:"items"`

	// ItemVar is the binding name for the current item, available to
	// templates as forEach.<itemVar>. The iteration index is forEach.index.
	// +required
	ItemVar string `json:"itemVar"`

	// MaxParallel bounds concurrent iterations. Zero or absent runs all
	// iterations in parallel.
	// +kubebuilder:validation:Minimum=0
	// +optional
	MaxParallel int32 `json:"maxParallel,omitempty"`
}

// Trigger declares an execution trigger for a workflow.
type Trigger struct {
	// Schedule is a cron expression for time-based triggers.
	// +optional
	Schedule string `json:"schedule,omitempty"`

	// Webhook configures an inbound webhook trigger.
	// +optional
	Webhook *WebhookTrigger `json:"webhook,omitempty"`
}

// WebhookTrigger configures an inbound webhook trigger.
type WebhookTrigger struct {
	// Path is the webhook path suffix registered by the gateway.
	// +required
	Path string `json:"path"`
}

// WorkflowStatus defines the observed state of Workflow.
type WorkflowStatus struct {
	// Conditions represent the current state of the Workflow resource.
	// +listType=map
	// +listMapKey=type
	// +optional
	Conditions []metav1.Condition `json:"conditions,omitempty"`
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status

// Workflow is the Schema for the workflows API.
// Workflow composes WorkflowTask references into a dependency-ordered DAG
// executed by the orchestration engine.
type Workflow struct {
	metav1.TypeMeta `json:",inline"`

	// metadata is a standard object metadata
	// +optional
	metav1.ObjectMeta `json:"metadata,omitempty,omitzero"`

	// spec defines the desired state of Workflow
	// +required
	Spec WorkflowSpec `json:"spec"`

	// status defines the observed state of Workflow
	// +optional
	Status WorkflowStatus `json:"status,omitempty,omitzero"`
}

// +kubebuilder:object:root=true

// WorkflowList contains a list of Workflow
type WorkflowList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []Workflow `json:"items"`
}

func init() {
	SchemeBuilder.Register(&Workflow{}, &WorkflowList{})
}
