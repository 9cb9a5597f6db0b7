// Copyright 2026 The FlowPlane Authors
// SPDX-License-Identifier: Apache-2.0

package services

import (
	"log/slog"

	"github.com/daz23456/flowplane/internal/catalog"
	"github.com/daz23456/flowplane/internal/gateway/models"
)

// WorkflowService serves catalog browsing queries.
type WorkflowService struct {
	catalog *catalog.Catalog
	logger  *slog.Logger
}

// ListWorkflows returns workflow summaries, optionally scoped to a namespace.
func (s *WorkflowService) ListWorkflows(namespace string) []models.WorkflowResponse {
	defs := s.catalog.Workflows()
	items := make([]models.WorkflowResponse, 0, len(defs))
	for _, wf := range defs {
		if namespace != "" && wf.Namespace != namespace {
			continue
		}
		items = append(items, models.FromWorkflow(wf, false))
	}
	return items
}

// GetWorkflow returns one workflow with its step structure.
func (s *WorkflowService) GetWorkflow(namespace, name string) (models.WorkflowResponse, error) {
	wf, ok := s.catalog.Workflow(namespace, name)
	if !ok {
		return models.WorkflowResponse{}, ErrWorkflowNotFound
	}
	return models.FromWorkflow(wf, true), nil
}

// ListTasks returns task summaries, optionally scoped to a namespace.
func (s *WorkflowService) ListTasks(namespace string) []models.TaskResponse {
	defs := s.catalog.Tasks()
	items := make([]models.TaskResponse, 0, len(defs))
	for _, task := range defs {
		if namespace != "" && task.Namespace != namespace {
			continue
		}
		items = append(items, models.FromTask(task))
	}
	return items
}

// GetTask returns one task summary.
func (s *WorkflowService) GetTask(namespace, name string) (models.TaskResponse, error) {
	task, ok := s.catalog.Task(namespace, name)
	if !ok {
		return models.TaskResponse{}, ErrTaskNotFound
	}
	return models.FromTask(task), nil
}
