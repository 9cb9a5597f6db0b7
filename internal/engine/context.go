// Copyright 2026 The FlowPlane Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"fmt"
	"sync"
)

// runContext is the shared data store for one workflow run. Steps read an
// immutable snapshot and the orchestrator writes each step's output exactly
// once under the lock, so parallel steps in a level never observe partial
// writes.
type runContext struct {
	mu      sync.RWMutex
	data    map[string]any
	written map[string]bool
}

func newRunContext(input map[string]any) *runContext {
	return &runContext{
		data: map[string]any{
			"input": deepCopyValue(input),
			"tasks": map[string]any{},
		},
		written: map[string]bool{},
	}
}

// Snapshot returns a deep copy of the context for template resolution.
func (c *runContext) Snapshot() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return deepCopyValue(c.data).(map[string]any)
}

// WriteStepOutput records a step's output under tasks.<stepID>.output.
// Each slot is write-once; a second write reports a bug in the scheduler.
func (c *runContext) WriteStepOutput(stepID string, output any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.written[stepID] {
		return fmt.Errorf("output for step %q written twice", stepID)
	}
	c.written[stepID] = true

	tasks := c.data["tasks"].(map[string]any)
	tasks[stepID] = map[string]any{"output": deepCopyValue(output)}
	return nil
}

// withForEach extends a snapshot with the forEach bindings for one iteration.
// The snapshot is already a private copy, so no locking is involved.
func withForEach(snapshot map[string]any, itemVar string, item any, index int) map[string]any {
	extended := make(map[string]any, len(snapshot)+1)
	for k, v := range snapshot {
		extended[k] = v
	}
	extended["forEach"] = map[string]any{
		itemVar: item,
		"index": float64(index),
	}
	return extended
}

// deepCopyValue copies the JSON-shaped value graphs stored in the context.
func deepCopyValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		copied := make(map[string]any, len(typed))
		for k, v := range typed {
			copied[k] = deepCopyValue(v)
		}
		return copied
	case []any:
		copied := make([]any, len(typed))
		for i, v := range typed {
			copied[i] = deepCopyValue(v)
		}
		return copied
	default:
		return typed
	}
}
