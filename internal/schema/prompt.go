// Copyright 2026 The FlowPlane Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	workflowv1 "github.com/daz23456/flowplane/api/v1"
)

// FromInputFields builds a JSON-Schema-subset document from a workflow's
// declared input fields.
func FromInputFields(fields map[string]workflowv1.InputField) map[string]any {
	properties := make(map[string]any, len(fields))
	var required []string

	for name, field := range fields {
		prop := map[string]any{"type": field.Type}
		if field.Description != "" {
			prop["description"] = field.Description
		}
		properties[name] = prop
		if field.Required {
			required = append(required, name)
		}
	}
	sort.Strings(required)

	doc := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		requiredAny := make([]any, len(required))
		for i, name := range required {
			requiredAny[i] = name
		}
		doc["required"] = requiredAny
	}
	return doc
}

// ApplyInputDefaults returns a copy of input with declared defaults filled in
// for absent fields. Present fields are never overwritten.
func ApplyInputDefaults(input map[string]any, fields map[string]workflowv1.InputField) map[string]any {
	result := make(map[string]any, len(input))
	for k, v := range input {
		result[k] = v
	}

	for name, field := range fields {
		if _, present := result[name]; present {
			continue
		}
		if field.Default == nil || field.Default.Raw == nil {
			continue
		}
		var value any
		if err := json.Unmarshal(field.Default.Raw, &value); err != nil {
			continue
		}
		result[name] = value
	}
	return result
}

// SuggestedPrompt renders a human-readable enumeration of the missing
// required fields with their declared types and descriptions, helping a
// caller fix an invalid execution request.
func SuggestedPrompt(fields map[string]workflowv1.InputField, errs []FieldError) string {
	var missing []string
	for _, fe := range errs {
		if fe.Actual == "absent" {
			missing = append(missing, fe.FieldPath)
		}
	}
	if len(missing) == 0 {
		return ""
	}
	sort.Strings(missing)

	var b strings.Builder
	b.WriteString("The following required fields are missing:\n")
	for _, name := range missing {
		field, ok := fields[name]
		if !ok {
			fmt.Fprintf(&b, "  - %s\n", name)
			continue
		}
		if field.Description != "" {
			fmt.Fprintf(&b, "  - %s (%s): %s\n", name, field.Type, field.Description)
		} else {
			fmt.Fprintf(&b, "  - %s (%s)\n", name, field.Type)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
