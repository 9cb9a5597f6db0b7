// Copyright 2026 The FlowPlane Authors
// SPDX-License-Identifier: Apache-2.0

// Package quality scores non-success HTTP responses so operators can tell
// well-formed API errors apart from garbage replies.
package quality

import (
	"encoding/json"
	"strings"
)

// Score grades a response body between 0 (opaque) and 1 (fully structured).
type Score struct {
	// Value is the aggregate grade in [0, 1].
	Value float64 `json:"value"`

	// Reasons lists the heuristics that contributed to the grade.
	Reasons []string `json:"reasons,omitempty"`
}

// Analyzer inspects a non-2xx response and grades how actionable it is.
type Analyzer interface {
	Analyze(statusCode int, body []byte) Score
}

// HeuristicAnalyzer grades responses with simple structural checks.
type HeuristicAnalyzer struct{}

var _ Analyzer = (*HeuristicAnalyzer)(nil)

// NewHeuristicAnalyzer returns the default response analyzer.
func NewHeuristicAnalyzer() *HeuristicAnalyzer {
	return &HeuristicAnalyzer{}
}

// Analyze grades statusCode and body. Higher scores indicate a structured
// error the caller can act on.
func (a *HeuristicAnalyzer) Analyze(statusCode int, body []byte) Score {
	var score Score

	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		score.Reasons = append(score.Reasons, "empty body")
		return score
	}
	score.Value += 0.1
	score.Reasons = append(score.Reasons, "non-empty body")

	var doc map[string]any
	if err := json.Unmarshal([]byte(trimmed), &doc); err != nil {
		score.Reasons = append(score.Reasons, "body is not a JSON object")
		return score
	}
	score.Value += 0.3
	score.Reasons = append(score.Reasons, "JSON object body")

	if hasAnyKey(doc, "message", "error", "detail", "title") {
		score.Value += 0.3
		score.Reasons = append(score.Reasons, "carries an error message field")
	}
	if hasAnyKey(doc, "code", "status", "type") {
		score.Value += 0.2
		score.Reasons = append(score.Reasons, "carries a machine-readable code field")
	}
	if statusCode >= 400 && statusCode < 500 {
		score.Value += 0.1
		score.Reasons = append(score.Reasons, "client error status")
	}
	if score.Value > 1 {
		score.Value = 1
	}
	return score
}

func hasAnyKey(doc map[string]any, keys ...string) bool {
	for _, key := range keys {
		if _, ok := doc[key]; ok {
			return true
		}
	}
	return false
}
