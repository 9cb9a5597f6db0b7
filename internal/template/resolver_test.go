// Copyright 2026 The FlowPlane Authors
// SPDX-License-Identifier: Apache-2.0

package template

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testContext() map[string]any {
	return map[string]any{
		"input": map[string]any{
			"count":  float64(42),
			"name":   "ada",
			"nested": map[string]any{"flag": true},
		},
		"tasks": map[string]any{
			"fetch-user": map[string]any{
				"output": map[string]any{
					"name": "Ada",
					"orders": []any{
						map[string]any{"id": "o-1"},
						map[string]any{"id": "o-2"},
					},
				},
			},
		},
		"forEach": map[string]any{
			"item":  "first",
			"index": float64(0),
		},
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want any
	}{
		{
			name: "plain string without expressions",
			raw:  "hello",
			want: "hello",
		},
		{
			name: "standalone expression preserves numeric type",
			raw:  "{{ input.count }}",
			want: float64(42),
		},
		{
			name: "standalone expression preserves boolean type",
			raw:  "{{ input.nested.flag }}",
			want: true,
		},
		{
			name: "standalone expression with surrounding whitespace",
			raw:  "  {{ input.name }}  ",
			want: "ada",
		},
		{
			name: "interpolated string",
			raw:  "hi {{ tasks.fetch-user.output.name }}",
			want: "hi Ada",
		},
		{
			name: "interpolated number is unquoted",
			raw:  "count={{ input.count }}",
			want: "count=42",
		},
		{
			name: "subscript access",
			raw:  "{{ tasks.fetch-user.output.orders[1].id }}",
			want: "o-2",
		},
		{
			name: "forEach bindings",
			raw:  "{{ forEach.item }}-{{ forEach.index }}",
			want: "first-0",
		},
		{
			name: "toJson filter serializes",
			raw:  "{{ tasks.fetch-user.output.orders[0] | toJson }}",
			want: `{"id":"o-1"}`,
		},
		{
			name: "default filter on missing path",
			raw:  "{{ input.missing | default:7 }}",
			want: float64(7),
		},
		{
			name: "default filter with string literal",
			raw:  "{{ input.missing | default:fallback }}",
			want: "fallback",
		},
		{
			name: "default then toJson compose left to right",
			raw:  "{{ input.missing | default:7 | toJson }}",
			want: "7",
		},
		{
			name: "default ignored when value present",
			raw:  "{{ input.count | default:0 }}",
			want: float64(42),
		},
		{
			name: "interpolated object uses JSON encoding",
			raw:  "order: {{ tasks.fetch-user.output.orders[0] }}",
			want: `order: {"id":"o-1"}`,
		},
	}

	r := NewResolver()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := r.Resolve(tt.raw, testContext())
			if err != nil {
				t.Fatalf("Resolve(%q) failed: %v", tt.raw, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Resolve(%q) mismatch (-want +got):\n%s", tt.raw, diff)
			}
		})
	}
}

func TestResolveErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{
			name:    "missing binding without default",
			raw:     "{{ input.absent }}",
			wantErr: ErrMissingBinding,
		},
		{
			name:    "missing nested binding",
			raw:     "{{ tasks.unknown.output.x }}",
			wantErr: ErrMissingBinding,
		},
		{
			name:    "unclosed expression",
			raw:     "{{ input.count",
			wantErr: ErrMalformed,
		},
		{
			name:    "empty path",
			raw:     "{{ }}",
			wantErr: ErrMalformed,
		},
		{
			name:    "unknown filter",
			raw:     "{{ input.count | upper }}",
			wantErr: ErrMalformed,
		},
		{
			name:    "invalid subscript",
			raw:     "{{ input.orders[x] }}",
			wantErr: ErrMalformed,
		},
		{
			name:    "invalid identifier",
			raw:     "{{ input.na me }}",
			wantErr: ErrMalformed,
		},
	}

	r := NewResolver()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := r.Resolve(tt.raw, testContext())
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Resolve(%q) error = %v, want %v", tt.raw, err, tt.wantErr)
			}
		})
	}
}

func TestResolveValue(t *testing.T) {
	t.Parallel()

	r := NewResolver()
	input := map[string]any{
		"greeting": "hi {{ tasks.fetch-user.output.name }}",
		"count":    "{{ input.count }}",
		"constant": float64(3),
		"nested": map[string]any{
			"ids": []any{"{{ tasks.fetch-user.output.orders[0].id }}", "literal"},
		},
	}

	got, err := r.ResolveValue(input, testContext())
	if err != nil {
		t.Fatalf("ResolveValue failed: %v", err)
	}

	want := map[string]any{
		"greeting": "hi Ada",
		"count":    float64(42),
		"constant": float64(3),
		"nested": map[string]any{
			"ids": []any{"o-1", "literal"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ResolveValue mismatch (-want +got):\n%s", diff)
	}
}

func TestPaths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "single path",
			raw:  "{{ tasks.a.output.x }}",
			want: []string{"tasks.a.output.x"},
		},
		{
			name: "multiple paths with filters",
			raw:  "{{ tasks.a.output.x | toJson }} and {{ input.y | default:0 }}",
			want: []string{"tasks.a.output.x", "input.y"},
		},
		{
			name: "no expressions",
			raw:  "plain",
			want: nil,
		},
		{
			name: "malformed expressions are skipped",
			raw:  "{{ tasks.a.output",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Paths(tt.raw)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Paths(%q) mismatch (-want +got):\n%s", tt.raw, diff)
			}
		})
	}
}

func TestPathsInValue(t *testing.T) {
	t.Parallel()

	value := map[string]any{
		"a": "{{ tasks.one.output.v }}",
		"b": []any{"{{ tasks.two.output.v }}", float64(1)},
	}
	got := PathsInValue(value)
	if len(got) != 2 {
		t.Fatalf("expected 2 paths, got %v", got)
	}
	seen := map[string]bool{}
	for _, p := range got {
		seen[p] = true
	}
	if !seen["tasks.one.output.v"] || !seen["tasks.two.output.v"] {
		t.Errorf("unexpected paths: %v", got)
	}
}
