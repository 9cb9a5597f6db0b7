// Copyright 2026 The FlowPlane Authors
// SPDX-License-Identifier: Apache-2.0

package template

import (
	"fmt"
	"strconv"
	"strings"
)

// segment is one element of a parsed path: a map key or a list index.
type segment struct {
	key   string
	index int
	isIdx bool
}

// parsePath parses a dotted path with optional integer subscripts into
// traversal segments. "tasks.fetch-user.output.orders[0].id" becomes
// [tasks fetch-user output orders [0] id].
func parsePath(path string) ([]segment, error) {
	if path == "" {
		return nil, fmt.Errorf("empty path: %w", ErrMalformed)
	}

	var segments []segment
	for _, part := range strings.Split(path, ".") {
		if part == "" {
			return nil, fmt.Errorf("empty path segment in %q: %w", path, ErrMalformed)
		}

		key := part
		var subscripts []int
		for {
			open := strings.Index(key, "[")
			if open == -1 {
				break
			}
			closing := strings.Index(key, "]")
			if closing < open {
				return nil, fmt.Errorf("unbalanced subscript in %q: %w", path, ErrMalformed)
			}
			idx, err := strconv.Atoi(key[open+1 : closing])
			if err != nil || idx < 0 {
				return nil, fmt.Errorf("invalid subscript in %q: %w", path, ErrMalformed)
			}
			subscripts = append(subscripts, idx)
			key = key[:open] + key[closing+1:]
		}

		if !isIdentifier(key) {
			return nil, fmt.Errorf("invalid identifier %q in path %q: %w", key, path, ErrMalformed)
		}

		segments = append(segments, segment{key: key})
		for _, idx := range subscripts {
			segments = append(segments, segment{index: idx, isIdx: true})
		}
	}
	return segments, nil
}

// lookup traverses the context along the parsed path.
func lookup(ctx map[string]any, path []segment) (any, bool) {
	var current any = ctx
	for _, seg := range path {
		if seg.isIdx {
			list, ok := current.([]any)
			if !ok || seg.index >= len(list) {
				return nil, false
			}
			current = list[seg.index]
			continue
		}

		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[seg.key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}
