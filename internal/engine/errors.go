// Copyright 2026 The FlowPlane Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"errors"
	"fmt"

	"github.com/daz23456/flowplane/internal/schema"
	"github.com/daz23456/flowplane/internal/template"
)

// ErrorCode classifies a workflow or step failure. Codes are surfaced
// verbatim in execution records and lifecycle events.
type ErrorCode string

const (
	ErrCodeInputValidation        ErrorCode = "InputValidationError"
	ErrCodeGraphCyclic            ErrorCode = "GraphCyclic"
	ErrCodeGraphInvalid           ErrorCode = "GraphInvalid"
	ErrCodeTemplateMissingBinding ErrorCode = "TemplateMissingBinding"
	ErrCodeTemplateMalformed      ErrorCode = "TemplateMalformed"
	ErrCodeConditionType          ErrorCode = "ConditionTypeError"
	ErrCodeSwitchNoMatch          ErrorCode = "SwitchNoMatch"
	ErrCodeForEachItemsNotArray   ErrorCode = "ForEachItemsNotArray"
	ErrCodeTaskNotFound           ErrorCode = "TaskNotFound"
	ErrCodeInputSchemaViolation   ErrorCode = "InputSchemaViolation"
	ErrCodeOutputSchemaViolation  ErrorCode = "OutputSchemaViolation"
	ErrCodeResponseParse          ErrorCode = "ResponseParseError"
	ErrCodeHTTP                   ErrorCode = "HttpError"
	ErrCodeTransport              ErrorCode = "TransportError"
	ErrCodeTransform              ErrorCode = "TransformError"
	ErrCodeTimeout                ErrorCode = "Timeout"
	ErrCodeCancelled              ErrorCode = "Cancelled"
	ErrCodeSubWorkflowTooDeep     ErrorCode = "SubWorkflowTooDeep"
	ErrCodeSubWorkflowCycle       ErrorCode = "SubWorkflowCycle"
	ErrCodeUpstreamFailed         ErrorCode = "UpstreamFailed"
)

// StepError is a structured failure value attached to step results and
// execution records. No error escapes the orchestrator as a panic; every
// failure is carried through this type.
type StepError struct {
	// Code is the taxonomy classification.
	Code ErrorCode `json:"code"`

	// Message is a human-readable description.
	Message string `json:"message"`

	// HTTPStatus is set for HttpError failures.
	HTTPStatus int `json:"httpStatus,omitempty"`

	// Fields carries schema validation details for
	// InputValidationError / InputSchemaViolation / OutputSchemaViolation.
	Fields []schema.FieldError `json:"fields,omitempty"`

	// SuggestedPrompt helps callers fix InputValidationError failures.
	SuggestedPrompt string `json:"suggestedPrompt,omitempty"`
}

func (e *StepError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newStepError(code ErrorCode, format string, args ...any) *StepError {
	return &StepError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// templateError maps template resolution failures onto the taxonomy.
func templateError(err error) *StepError {
	switch {
	case errors.Is(err, template.ErrMissingBinding):
		return &StepError{Code: ErrCodeTemplateMissingBinding, Message: err.Error()}
	case errors.Is(err, template.ErrMalformed):
		return &StepError{Code: ErrCodeTemplateMalformed, Message: err.Error()}
	default:
		return &StepError{Code: ErrCodeTemplateMalformed, Message: err.Error()}
	}
}
