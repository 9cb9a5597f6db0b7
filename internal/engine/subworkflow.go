// Copyright 2026 The FlowPlane Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"context"
	"fmt"
)

// defaultMaxSubWorkflowDepth caps nested workflow runs.
const defaultMaxSubWorkflowDepth = 10

// callStack tracks the chain of workflows leading to the current run.
// Stacks are immutable; push returns a copy so parallel steps can branch
// without sharing state.
type callStack struct {
	depth int
	seen  map[string]bool
}

func newCallStack(root string) *callStack {
	return &callStack{depth: 1, seen: map[string]bool{root: true}}
}

func (s *callStack) push(key string) *callStack {
	seen := make(map[string]bool, len(s.seen)+1)
	for k := range s.seen {
		seen[k] = true
	}
	seen[key] = true
	return &callStack{depth: s.depth + 1, seen: seen}
}

func (s *callStack) contains(key string) bool {
	return s.seen[key]
}

// executeSubWorkflow runs a nested workflow with the step's resolved input as
// its input and returns the nested run's output. Depth and re-entry are
// checked before the nested run starts.
func (o *Orchestrator) executeSubWorkflow(ctx context.Context, namespace, name string, input map[string]any, stack *callStack) (map[string]any, *StepError) {
	key := namespace + "/" + name

	if stack.depth >= o.maxDepth {
		return nil, newStepError(ErrCodeSubWorkflowTooDeep,
			"workflow %s exceeds the maximum nesting depth of %d", key, o.maxDepth)
	}
	if stack.contains(key) {
		return nil, newStepError(ErrCodeSubWorkflowCycle,
			"workflow %s is already executing in this call chain", key)
	}

	wf, ok := o.catalog.Workflow(namespace, name)
	if !ok {
		return nil, newStepError(ErrCodeTaskNotFound,
			"workflow %s not found in the catalog", key)
	}

	rec := o.execute(ctx, wf, input, stack.push(key))
	if rec.Status != RunStatusSucceeded {
		return nil, subWorkflowError(key, rec)
	}
	return rec.Output, nil
}

// subWorkflowError surfaces the most specific failure from a nested run.
func subWorkflowError(key string, rec *ExecutionRecord) *StepError {
	if rec.Error != nil {
		return &StepError{
			Code:    rec.Error.Code,
			Message: fmt.Sprintf("sub-workflow %s failed: %s", key, rec.Error.Message),
			Fields:  rec.Error.Fields,
		}
	}
	for _, step := range rec.Steps {
		if step.Error != nil {
			return &StepError{
				Code:       step.Error.Code,
				Message:    fmt.Sprintf("sub-workflow %s failed at step %q: %s", key, step.StepID, step.Error.Message),
				HTTPStatus: step.Error.HTTPStatus,
			}
		}
	}
	if rec.Status == RunStatusCancelled {
		return newStepError(ErrCodeCancelled, "sub-workflow %s was cancelled", key)
	}
	return newStepError(ErrCodeUpstreamFailed, "sub-workflow %s failed", key)
}
