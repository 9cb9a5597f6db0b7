// Copyright 2026 The FlowPlane Authors
// SPDX-License-Identifier: Apache-2.0

package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/daz23456/flowplane/internal/catalog"
	"github.com/daz23456/flowplane/internal/engine"
	"github.com/daz23456/flowplane/internal/gateway/models"
	"github.com/daz23456/flowplane/internal/store"
)

// ExecutionService runs workflows and serves execution history.
type ExecutionService struct {
	catalog      *catalog.Catalog
	store        *store.Store
	orchestrator *engine.Orchestrator
	logger       *slog.Logger
}

// Execute runs the named workflow synchronously and returns its record.
// The record is persisted best-effort; a history write failure never fails
// the run itself.
func (s *ExecutionService) Execute(ctx context.Context, namespace, name string, req models.ExecuteRequest) (*engine.ExecutionRecord, error) {
	wf, ok := s.catalog.Workflow(namespace, name)
	if !ok {
		return nil, ErrWorkflowNotFound
	}

	if req.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(req.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	rec := s.orchestrator.Execute(ctx, wf, req.Input)

	if s.store != nil {
		// Persist outside the request's cancellation scope; a cancelled run
		// still belongs in the history.
		saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.store.SaveRecord(saveCtx, rec); err != nil {
			s.logger.Error("failed to persist execution record", "run_id", rec.ID, "error", err)
		}
	}
	return rec, nil
}

// GetExecution loads one persisted execution.
func (s *ExecutionService) GetExecution(ctx context.Context, id string) (*store.Execution, error) {
	return s.store.GetExecution(ctx, id)
}

// ListExecutions pages through persisted executions, newest first.
func (s *ExecutionService) ListExecutions(ctx context.Context, q models.ListQuery) ([]store.Execution, int64, error) {
	return s.store.ListExecutions(ctx, q.Workflow, q.Limit, q.Offset)
}

// Stats aggregates execution history.
func (s *ExecutionService) Stats(ctx context.Context, workflowName string) (*store.Stats, error) {
	return s.store.Stats(ctx, workflowName)
}
