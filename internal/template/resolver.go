// Copyright 2026 The FlowPlane Authors
// SPDX-License-Identifier: Apache-2.0

// Package template resolves {{...}} expressions against a workflow execution context.
package template

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformed reports a syntax error in a template expression.
	ErrMalformed = errors.New("template malformed")

	// ErrMissingBinding reports a path that cannot be resolved against the
	// context and has no default filter.
	ErrMissingBinding = errors.New("template missing binding")
)

// Resolver evaluates template expressions of the form
//
//	{{ <path> [| <filter>]... }}
//
// where path is a dotted sequence of identifiers with optional integer
// subscripts (e.g. tasks.fetch-user.output.orders[0].id) and the recognized
// filters are toJson and default:<literal>.
type Resolver struct{}

// NewResolver creates a template resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve evaluates all expressions within a string value.
//
// Two rendering modes apply:
//
//  1. Standalone expression mode: when the string is a single expression
//     (after trimming), the resolved value keeps its native type.
//     "{{ input.count }}" with count=42 resolves to the number 42.
//
//  2. Interpolation mode: when expressions are embedded in surrounding text,
//     each result is coerced to string via JSON encoding with scalars
//     unquoted. "hi {{ tasks.a.output.name }}" becomes "hi Ada".
func (r *Resolver) Resolve(raw string, ctx map[string]any) (any, error) {
	exprs, err := findExpressions(raw)
	if err != nil {
		return nil, err
	}
	if len(exprs) == 0 {
		return raw, nil
	}

	trimmed := strings.TrimSpace(raw)
	if len(exprs) == 1 && exprs[0].full == trimmed {
		return r.evaluate(exprs[0].inner, ctx)
	}

	rendered := raw
	for _, match := range exprs {
		value, err := r.evaluate(match.inner, ctx)
		if err != nil {
			return nil, err
		}
		rendered = strings.Replace(rendered, match.full, stringify(value), 1)
	}
	return rendered, nil
}

// ResolveValue walks mappings and sequences, resolving every string leaf.
// Non-string leaves pass through unchanged.
func (r *Resolver) ResolveValue(value any, ctx map[string]any) (any, error) {
	switch v := value.(type) {
	case string:
		return r.Resolve(v, ctx)
	case map[string]any:
		result := make(map[string]any, len(v))
		for key, item := range v {
			resolved, err := r.ResolveValue(item, ctx)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", key, err)
			}
			result[key] = resolved
		}
		return result, nil
	case []any:
		result := make([]any, len(v))
		for i, item := range v {
			resolved, err := r.ResolveValue(item, ctx)
			if err != nil {
				return nil, err
			}
			result[i] = resolved
		}
		return result, nil
	default:
		return value, nil
	}
}

// Paths returns the context paths referenced by expressions in raw.
// Malformed expressions are skipped; the graph builder only needs the
// well-formed references and resolution reports syntax errors later.
func Paths(raw string) []string {
	exprs, err := findExpressions(raw)
	if err != nil {
		return nil
	}
	var paths []string
	for _, match := range exprs {
		segments := strings.Split(match.inner, "|")
		path := strings.TrimSpace(segments[0])
		if _, err := parsePath(path); err == nil {
			paths = append(paths, path)
		}
	}
	return paths
}

// PathsInValue collects referenced paths from every string leaf of a nested value.
func PathsInValue(value any) []string {
	switch v := value.(type) {
	case string:
		return Paths(v)
	case map[string]any:
		var paths []string
		for _, item := range v {
			paths = append(paths, PathsInValue(item)...)
		}
		return paths
	case []any:
		var paths []string
		for _, item := range v {
			paths = append(paths, PathsInValue(item)...)
		}
		return paths
	default:
		return nil
	}
}

// evaluate resolves a single expression body (path plus optional filter chain).
// Filters compose left to right.
func (r *Resolver) evaluate(inner string, ctx map[string]any) (any, error) {
	segments := strings.Split(inner, "|")
	pathExpr := strings.TrimSpace(segments[0])

	path, err := parsePath(pathExpr)
	if err != nil {
		return nil, err
	}

	value, found := lookup(ctx, path)

	for _, segment := range segments[1:] {
		filter := strings.TrimSpace(segment)
		switch {
		case filter == "toJson":
			if !found {
				return nil, fmt.Errorf("path %q: %w", pathExpr, ErrMissingBinding)
			}
			encoded, err := json.Marshal(value)
			if err != nil {
				return nil, fmt.Errorf("toJson on path %q: %w", pathExpr, ErrMalformed)
			}
			value = string(encoded)
		case strings.HasPrefix(filter, "default:"):
			if !found || value == nil {
				value = parseLiteral(strings.TrimPrefix(filter, "default:"))
				found = true
			}
		case filter == "":
			return nil, fmt.Errorf("empty filter in %q: %w", inner, ErrMalformed)
		default:
			return nil, fmt.Errorf("unknown filter %q: %w", filter, ErrMalformed)
		}
	}

	if !found {
		return nil, fmt.Errorf("path %q: %w", pathExpr, ErrMissingBinding)
	}
	return value, nil
}

type exprMatch struct {
	full  string
	inner string
}

// findExpressions locates all {{...}} markers within a string.
// An opening marker without a matching close fails the whole string.
func findExpressions(raw string) ([]exprMatch, error) {
	var matches []exprMatch
	i := 0
	for i < len(raw) {
		start := strings.Index(raw[i:], "{{")
		if start == -1 {
			break
		}
		start += i

		end := strings.Index(raw[start+2:], "}}")
		if end == -1 {
			return nil, fmt.Errorf("unclosed expression at offset %d: %w", start, ErrMalformed)
		}
		end += start + 2

		matches = append(matches, exprMatch{
			full:  raw[start : end+2],
			inner: strings.TrimSpace(raw[start+2 : end]),
		})
		i = end + 2
	}
	return matches, nil
}

// stringify coerces a resolved value for interpolation. Strings embed as-is;
// everything else uses its JSON encoding.
func stringify(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}
	return string(encoded)
}

// parseLiteral interprets a default filter literal. JSON literals keep their
// native type; anything that does not parse as JSON is a bare string.
func parseLiteral(lit string) any {
	lit = strings.TrimSpace(lit)
	var value any
	if err := json.Unmarshal([]byte(lit), &value); err != nil {
		return lit
	}
	return value
}
