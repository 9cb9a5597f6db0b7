// Copyright 2026 The FlowPlane Authors
// SPDX-License-Identifier: Apache-2.0

package models

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ExecuteRequest is the body of an execution submission.
type ExecuteRequest struct {
	// Input carries the workflow input fields. The engine validates them
	// against the workflow's declared input schema.
	Input map[string]any `json:"input"`

	// Timeout bounds the whole run in seconds. Zero means no run-level bound.
	TimeoutSeconds int `json:"timeoutSeconds,omitempty" validate:"gte=0,lte=3600"`
}

// Validate checks request-level constraints before the engine sees the input.
func (r *ExecuteRequest) Validate() error {
	return validate.Struct(r)
}

// ListQuery carries pagination parameters for history listings.
type ListQuery struct {
	Workflow string `validate:"omitempty,max=253"`
	Limit    int    `validate:"gte=0,lte=500"`
	Offset   int    `validate:"gte=0"`
}

// Validate checks pagination bounds.
func (q *ListQuery) Validate() error {
	return validate.Struct(q)
}
