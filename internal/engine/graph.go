// Copyright 2026 The FlowPlane Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	workflowv1 "github.com/daz23456/flowplane/api/v1"
	"github.com/daz23456/flowplane/internal/template"
)

// Graph is the dependency DAG of a workflow's steps with precomputed
// topological levels. Steps in the same level have no dependencies on each
// other and may run in parallel.
type Graph struct {
	// Order lists step IDs in declaration order.
	Order []string

	// Steps indexes the workflow steps by ID.
	Steps map[string]*workflowv1.Step

	// Dependencies maps each step to the IDs it depends on, explicit and
	// implicit, deduplicated and sorted.
	Dependencies map[string][]string

	// Levels groups step IDs by topological level. Ties within a level keep
	// declaration order.
	Levels [][]string

	// Cycles holds one representative path per detected cycle. A graph with
	// cycles has no levels.
	Cycles [][]string
}

// HasCycles reports whether the workflow is not a DAG.
func (g *Graph) HasCycles() bool {
	return len(g.Cycles) > 0
}

// BuildGraph constructs the dependency graph for steps. Explicit dependsOn
// edges are merged with implicit edges discovered from tasks.<id>.output
// template references in step inputs, conditions, switch values and case
// matches, and forEach items. Structural problems (duplicate or unknown step
// IDs) are returned as an error; cycles are recorded on the graph instead so
// the caller can report every cycle at once.
func BuildGraph(steps []workflowv1.Step) (*Graph, error) {
	g := &Graph{
		Steps:        make(map[string]*workflowv1.Step, len(steps)),
		Dependencies: make(map[string][]string, len(steps)),
	}

	for i := range steps {
		step := &steps[i]
		if _, exists := g.Steps[step.ID]; exists {
			return nil, fmt.Errorf("duplicate step id %q", step.ID)
		}
		g.Steps[step.ID] = step
		g.Order = append(g.Order, step.ID)
	}

	for _, id := range g.Order {
		step := g.Steps[id]
		deps := map[string]bool{}

		for _, dep := range step.DependsOn {
			if _, known := g.Steps[dep]; !known {
				return nil, fmt.Errorf("step %q depends on unknown step %q", id, dep)
			}
			deps[dep] = true
		}
		for _, ref := range referencedSteps(step) {
			// Template references to steps outside the workflow surface
			// later as missing bindings, not as graph errors.
			if _, known := g.Steps[ref]; known && ref != id {
				deps[ref] = true
			}
		}

		sorted := make([]string, 0, len(deps))
		for dep := range deps {
			sorted = append(sorted, dep)
		}
		sort.Strings(sorted)
		g.Dependencies[id] = sorted
	}

	g.Cycles = findCycles(g)
	if !g.HasCycles() {
		g.Levels = computeLevels(g)
	}
	return g, nil
}

// referencedSteps extracts the step IDs named by tasks.<id>.output template
// paths anywhere in the step's templated fields.
func referencedSteps(step *workflowv1.Step) []string {
	var paths []string

	if step.Input != nil && len(step.Input.Raw) > 0 {
		var doc any
		if err := json.Unmarshal(step.Input.Raw, &doc); err == nil {
			paths = append(paths, template.PathsInValue(doc)...)
		}
	}
	if step.Condition != "" {
		paths = append(paths, template.Paths(step.Condition)...)
	}
	if step.Switch != nil {
		paths = append(paths, template.Paths(step.Switch.Value)...)
		for _, c := range step.Switch.Cases {
			if c.Match != nil && len(c.Match.Raw) > 0 {
				var doc any
				if err := json.Unmarshal(c.Match.Raw, &doc); err == nil {
					paths = append(paths, template.PathsInValue(doc)...)
				}
			}
		}
	}
	if step.ForEach != nil {
		paths = append(paths, template.Paths(step.ForEach.Items)...)
	}

	var ids []string
	for _, p := range paths {
		if id, ok := stepIDFromPath(p); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// stepIDFromPath returns the step ID of a tasks.<id>.output... path.
func stepIDFromPath(path string) (string, bool) {
	parts := strings.Split(path, ".")
	if len(parts) < 3 || parts[0] != "tasks" || parts[1] == "" {
		return "", false
	}
	// Strip a trailing subscript from the ID segment, e.g. tasks.a[0].
	id := parts[1]
	if i := strings.IndexByte(id, '['); i >= 0 {
		id = id[:i]
	}
	return id, true
}

// findCycles runs a three-color DFS in declaration order and collects one
// representative path per back edge.
func findCycles(g *Graph) [][]string {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(g.Order))
	var cycles [][]string

	var visit func(id string, stack []string)
	visit = func(id string, stack []string) {
		color[id] = gray
		stack = append(stack, id)
		for _, dep := range g.Dependencies[id] {
			switch color[dep] {
			case white:
				visit(dep, stack)
			case gray:
				cycles = append(cycles, cyclePath(stack, dep))
			}
		}
		color[id] = black
	}

	for _, id := range g.Order {
		if color[id] == white {
			visit(id, nil)
		}
	}
	return cycles
}

// cyclePath slices the DFS stack from the first occurrence of start and
// closes the loop.
func cyclePath(stack []string, start string) []string {
	for i, id := range stack {
		if id == start {
			path := append([]string{}, stack[i:]...)
			return append(path, start)
		}
	}
	return []string{start, start}
}

// computeLevels runs Kahn's algorithm, emitting whole levels at a time so the
// orchestrator can dispatch each level as one parallel batch. Declaration
// order breaks ties within a level.
func computeLevels(g *Graph) [][]string {
	indegree := make(map[string]int, len(g.Order))
	dependents := make(map[string][]string, len(g.Order))
	for id, deps := range g.Dependencies {
		indegree[id] = len(deps)
		for _, dep := range deps {
			dependents[dep] = append(dependents[dep], id)
		}
	}

	var levels [][]string
	remaining := len(g.Order)
	for remaining > 0 {
		var level []string
		for _, id := range g.Order {
			if deg, ok := indegree[id]; ok && deg == 0 {
				level = append(level, id)
			}
		}
		if len(level) == 0 {
			// Unreachable for an acyclic graph.
			break
		}
		for _, id := range level {
			delete(indegree, id)
			for _, dependent := range dependents[id] {
				if _, ok := indegree[dependent]; ok {
					indegree[dependent]--
				}
			}
		}
		levels = append(levels, level)
		remaining -= len(level)
	}
	return levels
}
