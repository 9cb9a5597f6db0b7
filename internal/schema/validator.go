// Copyright 2026 The FlowPlane Authors
// SPDX-License-Identifier: Apache-2.0

// Package schema validates values against a JSON-Schema subset.
//
// The supported keywords are type, properties, required, items, enum,
// minimum/maximum, minLength/maxLength, pattern, additionalProperties, and
// intra-document $ref. Unknown keywords are ignored.
package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strings"
)

// FieldError describes a single validation failure.
type FieldError struct {
	FieldPath string `json:"fieldPath"`
	Message   string `json:"message"`
	Expected  string `json:"expected"`
	Actual    string `json:"actual"`
}

// maxRefDepth bounds $ref chains so cyclic references terminate.
const maxRefDepth = 32

// Validate checks value against the schema and returns all failures.
// A nil or empty schema accepts any value.
func Validate(value any, schema map[string]any) []FieldError {
	if len(schema) == 0 {
		return nil
	}
	v := &validator{root: schema}
	return v.validate(value, schema, "", 0)
}

type validator struct {
	root map[string]any
}

func (v *validator) validate(value any, schema map[string]any, path string, refDepth int) []FieldError {
	if ref, ok := schema["$ref"].(string); ok {
		if refDepth >= maxRefDepth {
			return []FieldError{{
				FieldPath: path,
				Message:   fmt.Sprintf("$ref chain exceeds depth %d", maxRefDepth),
				Expected:  "terminating $ref chain",
				Actual:    ref,
			}}
		}
		resolved, err := v.resolveRef(ref)
		if err != nil {
			return []FieldError{{
				FieldPath: path,
				Message:   err.Error(),
				Expected:  "resolvable intra-document reference",
				Actual:    ref,
			}}
		}
		return v.validate(value, resolved, path, refDepth+1)
	}

	var errs []FieldError

	if typ, ok := schema["type"].(string); ok {
		if fe := checkType(value, typ, path); fe != nil {
			// Remaining keyword checks assume the declared type.
			return append(errs, *fe)
		}
	}

	if enum, ok := schema["enum"].([]any); ok {
		if fe := checkEnum(value, enum, path); fe != nil {
			errs = append(errs, *fe)
		}
	}

	switch typed := value.(type) {
	case map[string]any:
		errs = append(errs, v.validateObject(typed, schema, path, refDepth)...)
	case []any:
		errs = append(errs, v.validateArray(typed, schema, path, refDepth)...)
	case string:
		errs = append(errs, validateString(typed, schema, path)...)
	case float64:
		errs = append(errs, validateNumber(typed, schema, path)...)
	case int:
		errs = append(errs, validateNumber(float64(typed), schema, path)...)
	case int64:
		errs = append(errs, validateNumber(float64(typed), schema, path)...)
	}

	return errs
}

func (v *validator) validateObject(value map[string]any, schema map[string]any, path string, refDepth int) []FieldError {
	var errs []FieldError

	if required, ok := schema["required"].([]any); ok {
		for _, item := range required {
			name, ok := item.(string)
			if !ok {
				continue
			}
			if _, present := value[name]; !present {
				errs = append(errs, FieldError{
					FieldPath: joinPath(path, name),
					Message:   fmt.Sprintf("missing required field %q", name),
					Expected:  "present",
					Actual:    "absent",
				})
			}
		}
	}

	properties, _ := schema["properties"].(map[string]any)
	for name, propSchema := range properties {
		propMap, ok := propSchema.(map[string]any)
		if !ok {
			continue
		}
		fieldValue, present := value[name]
		if !present {
			continue
		}
		errs = append(errs, v.validate(fieldValue, propMap, joinPath(path, name), refDepth)...)
	}

	if allowExtra, ok := schema["additionalProperties"].(bool); ok && !allowExtra {
		for name := range value {
			if _, declared := properties[name]; !declared {
				errs = append(errs, FieldError{
					FieldPath: joinPath(path, name),
					Message:   fmt.Sprintf("unexpected field %q", name),
					Expected:  "no additional properties",
					Actual:    name,
				})
			}
		}
	}

	return errs
}

func (v *validator) validateArray(value []any, schema map[string]any, path string, refDepth int) []FieldError {
	items, ok := schema["items"].(map[string]any)
	if !ok {
		return nil
	}
	var errs []FieldError
	for i, item := range value {
		errs = append(errs, v.validate(item, items, fmt.Sprintf("%s[%d]", path, i), refDepth)...)
	}
	return errs
}

func validateString(value string, schema map[string]any, path string) []FieldError {
	var errs []FieldError

	if min, ok := numberKeyword(schema, "minLength"); ok && len(value) < int(min) {
		errs = append(errs, FieldError{
			FieldPath: path,
			Message:   fmt.Sprintf("string shorter than minLength %d", int(min)),
			Expected:  fmt.Sprintf("length >= %d", int(min)),
			Actual:    fmt.Sprintf("length %d", len(value)),
		})
	}
	if max, ok := numberKeyword(schema, "maxLength"); ok && len(value) > int(max) {
		errs = append(errs, FieldError{
			FieldPath: path,
			Message:   fmt.Sprintf("string longer than maxLength %d", int(max)),
			Expected:  fmt.Sprintf("length <= %d", int(max)),
			Actual:    fmt.Sprintf("length %d", len(value)),
		})
	}
	if pattern, ok := schema["pattern"].(string); ok {
		re, err := regexp.Compile(pattern)
		if err != nil {
			errs = append(errs, FieldError{
				FieldPath: path,
				Message:   fmt.Sprintf("invalid pattern %q: %v", pattern, err),
				Expected:  "valid regular expression",
				Actual:    pattern,
			})
		} else if !re.MatchString(value) {
			errs = append(errs, FieldError{
				FieldPath: path,
				Message:   fmt.Sprintf("string does not match pattern %q", pattern),
				Expected:  pattern,
				Actual:    value,
			})
		}
	}

	return errs
}

func validateNumber(value float64, schema map[string]any, path string) []FieldError {
	var errs []FieldError

	if min, ok := numberKeyword(schema, "minimum"); ok && value < min {
		errs = append(errs, FieldError{
			FieldPath: path,
			Message:   fmt.Sprintf("value below minimum %v", min),
			Expected:  fmt.Sprintf(">= %v", min),
			Actual:    formatValue(value),
		})
	}
	if max, ok := numberKeyword(schema, "maximum"); ok && value > max {
		errs = append(errs, FieldError{
			FieldPath: path,
			Message:   fmt.Sprintf("value above maximum %v", max),
			Expected:  fmt.Sprintf("<= %v", max),
			Actual:    formatValue(value),
		})
	}

	return errs
}

func checkType(value any, typ string, path string) *FieldError {
	if typeMatches(value, typ) {
		return nil
	}
	return &FieldError{
		FieldPath: path,
		Message:   fmt.Sprintf("expected %s, got %s", typ, typeName(value)),
		Expected:  typ,
		Actual:    typeName(value),
	}
}

func checkEnum(value any, enum []any, path string) *FieldError {
	for _, allowed := range enum {
		if reflect.DeepEqual(value, allowed) {
			return nil
		}
	}
	return &FieldError{
		FieldPath: path,
		Message:   "value not in enum",
		Expected:  formatValue(enum),
		Actual:    formatValue(value),
	}
}

func (v *validator) resolveRef(ref string) (map[string]any, error) {
	if !strings.HasPrefix(ref, "#/") {
		return nil, fmt.Errorf("unsupported $ref %q: only intra-document references are allowed", ref)
	}
	var current any = v.root
	for _, part := range strings.Split(strings.TrimPrefix(ref, "#/"), "/") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("cannot resolve $ref %q", ref)
		}
		current, ok = m[part]
		if !ok {
			return nil, fmt.Errorf("cannot resolve $ref %q: missing %q", ref, part)
		}
	}
	resolved, ok := current.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("$ref %q does not point at a schema", ref)
	}
	return resolved, nil
}

func typeMatches(value any, typ string) bool {
	switch typ {
	case "object":
		_, ok := value.(map[string]any)
		return ok
	case "array":
		_, ok := value.([]any)
		return ok
	case "string":
		_, ok := value.(string)
		return ok
	case "number":
		return isNumber(value)
	case "integer":
		f, ok := asFloat(value)
		return ok && f == math.Trunc(f)
	case "boolean":
		_, ok := value.(bool)
		return ok
	case "null":
		return value == nil
	default:
		// Unknown type keyword values are ignored like unknown keywords.
		return true
	}
}

func numberKeyword(schema map[string]any, key string) (float64, bool) {
	return asFloat(schema[key])
}

func asFloat(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func isNumber(value any) bool {
	_, ok := asFloat(value)
	return ok
}

func typeName(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64:
		if v == math.Trunc(v) {
			return "integer"
		}
		return "number"
	case int, int32, int64:
		return "integer"
	default:
		return fmt.Sprintf("%T", value)
	}
}

func formatValue(value any) string {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}
	return string(encoded)
}

func joinPath(path, field string) string {
	if path == "" {
		return field
	}
	return path + "." + field
}
