// Copyright 2026 The FlowPlane Authors
// SPDX-License-Identifier: Apache-2.0

// Package services implements the gateway's business logic over the catalog,
// the execution engine, and the history store.
package services

import (
	"errors"
	"log/slog"

	"github.com/daz23456/flowplane/internal/catalog"
	"github.com/daz23456/flowplane/internal/engine"
	"github.com/daz23456/flowplane/internal/store"
)

var (
	// ErrWorkflowNotFound reports an unknown workflow reference.
	ErrWorkflowNotFound = errors.New("workflow not found")

	// ErrTaskNotFound reports an unknown task reference.
	ErrTaskNotFound = errors.New("task not found")
)

// Services bundles the gateway's service layer.
type Services struct {
	Workflows  *WorkflowService
	Executions *ExecutionService
}

// NewServices wires the service layer.
func NewServices(cat *catalog.Catalog, st *store.Store, orch *engine.Orchestrator, logger *slog.Logger) *Services {
	if logger == nil {
		logger = slog.Default()
	}
	return &Services{
		Workflows:  &WorkflowService{catalog: cat, logger: logger.With("service", "workflows")},
		Executions: &ExecutionService{catalog: cat, store: st, orchestrator: orch, logger: logger.With("service", "executions")},
	}
}
