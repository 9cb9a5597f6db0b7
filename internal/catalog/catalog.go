// Copyright 2026 The FlowPlane Authors
// SPDX-License-Identifier: Apache-2.0

// Package catalog holds the workflow and task definitions available to the
// execution engine, keyed by namespace and name.
package catalog

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"sync"

	workflowv1 "github.com/daz23456/flowplane/api/v1"
)

var (
	// ErrAlreadyRegistered reports a duplicate definition. Definitions are
	// immutable once loaded.
	ErrAlreadyRegistered = errors.New("definition already registered")

	// ErrInvalidDefinition reports a definition that fails validation.
	ErrInvalidDefinition = errors.New("invalid definition")
)

var stepIDPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

type key struct {
	namespace string
	name      string
}

// Catalog is a thread-safe registry of WorkflowTask and Workflow definitions.
type Catalog struct {
	mu        sync.RWMutex
	tasks     map[key]*workflowv1.WorkflowTask
	workflows map[key]*workflowv1.Workflow
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{
		tasks:     make(map[key]*workflowv1.WorkflowTask),
		workflows: make(map[key]*workflowv1.Workflow),
	}
}

// AddTask validates and registers a task definition.
func (c *Catalog) AddTask(task *workflowv1.WorkflowTask) error {
	if err := validateTask(task); err != nil {
		return err
	}
	k := key{task.Namespace, task.Name}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.tasks[k]; exists {
		return fmt.Errorf("task %s/%s: %w", k.namespace, k.name, ErrAlreadyRegistered)
	}
	c.tasks[k] = task
	return nil
}

// AddWorkflow validates and registers a workflow definition.
func (c *Catalog) AddWorkflow(wf *workflowv1.Workflow) error {
	if err := validateWorkflow(wf); err != nil {
		return err
	}
	k := key{wf.Namespace, wf.Name}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.workflows[k]; exists {
		return fmt.Errorf("workflow %s/%s: %w", k.namespace, k.name, ErrAlreadyRegistered)
	}
	c.workflows[k] = wf
	return nil
}

// Task looks up a task definition.
func (c *Catalog) Task(namespace, name string) (*workflowv1.WorkflowTask, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	task, ok := c.tasks[key{namespace, name}]
	return task, ok
}

// Workflow looks up a workflow definition.
func (c *Catalog) Workflow(namespace, name string) (*workflowv1.Workflow, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	wf, ok := c.workflows[key{namespace, name}]
	return wf, ok
}

// Tasks lists all task definitions sorted by namespace and name.
func (c *Catalog) Tasks() []*workflowv1.WorkflowTask {
	c.mu.RLock()
	defer c.mu.RUnlock()
	tasks := make([]*workflowv1.WorkflowTask, 0, len(c.tasks))
	for _, task := range c.tasks {
		tasks = append(tasks, task)
	}
	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].Namespace != tasks[j].Namespace {
			return tasks[i].Namespace < tasks[j].Namespace
		}
		return tasks[i].Name < tasks[j].Name
	})
	return tasks
}

// Workflows lists all workflow definitions sorted by namespace and name.
func (c *Catalog) Workflows() []*workflowv1.Workflow {
	c.mu.RLock()
	defer c.mu.RUnlock()
	workflows := make([]*workflowv1.Workflow, 0, len(c.workflows))
	for _, wf := range c.workflows {
		workflows = append(workflows, wf)
	}
	sort.Slice(workflows, func(i, j int) bool {
		if workflows[i].Namespace != workflows[j].Namespace {
			return workflows[i].Namespace < workflows[j].Namespace
		}
		return workflows[i].Name < workflows[j].Name
	})
	return workflows
}

func validateTask(task *workflowv1.WorkflowTask) error {
	if task.Name == "" {
		return fmt.Errorf("task has no name: %w", ErrInvalidDefinition)
	}
	switch task.Spec.Type {
	case workflowv1.TaskTypeHTTP:
		if task.Spec.HTTP == nil {
			return fmt.Errorf("http task %q declares no request: %w", task.Name, ErrInvalidDefinition)
		}
		if task.Spec.HTTP.Method == "" || task.Spec.HTTP.URL == "" {
			return fmt.Errorf("http task %q needs a method and url: %w", task.Name, ErrInvalidDefinition)
		}
	case workflowv1.TaskTypeTransform:
		if task.Spec.Transform == nil || task.Spec.Transform.JSONPath == "" {
			return fmt.Errorf("transform task %q needs an input and jsonPath: %w", task.Name, ErrInvalidDefinition)
		}
	default:
		return fmt.Errorf("task %q has unknown type %q: %w", task.Name, task.Spec.Type, ErrInvalidDefinition)
	}
	return nil
}

func validateWorkflow(wf *workflowv1.Workflow) error {
	if wf.Name == "" {
		return fmt.Errorf("workflow has no name: %w", ErrInvalidDefinition)
	}
	if len(wf.Spec.Tasks) == 0 {
		return fmt.Errorf("workflow %q declares no steps: %w", wf.Name, ErrInvalidDefinition)
	}

	seen := make(map[string]bool, len(wf.Spec.Tasks))
	for _, step := range wf.Spec.Tasks {
		if !stepIDPattern.MatchString(step.ID) || len(step.ID) > 63 {
			return fmt.Errorf("workflow %q step id %q is not a valid identifier: %w",
				wf.Name, step.ID, ErrInvalidDefinition)
		}
		if seen[step.ID] {
			return fmt.Errorf("workflow %q has duplicate step id %q: %w",
				wf.Name, step.ID, ErrInvalidDefinition)
		}
		seen[step.ID] = true

		refs := 0
		if step.TaskRef != "" {
			refs++
		}
		if step.WorkflowRef != "" {
			refs++
		}
		if step.Switch != nil {
			refs++
		}
		if refs != 1 {
			return fmt.Errorf("workflow %q step %q must name exactly one of taskRef, workflowRef, or switch: %w",
				wf.Name, step.ID, ErrInvalidDefinition)
		}
		if step.ForEach != nil && (step.ForEach.Items == "" || step.ForEach.ItemVar == "") {
			return fmt.Errorf("workflow %q step %q forEach needs items and itemVar: %w",
				wf.Name, step.ID, ErrInvalidDefinition)
		}
	}
	return nil
}
