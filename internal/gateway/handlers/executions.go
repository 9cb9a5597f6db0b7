// Copyright 2026 The FlowPlane Authors
// SPDX-License-Identifier: Apache-2.0

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/daz23456/flowplane/internal/engine"
	"github.com/daz23456/flowplane/internal/gateway/middleware/logger"
	"github.com/daz23456/flowplane/internal/gateway/models"
	"github.com/daz23456/flowplane/internal/gateway/services"
	"github.com/daz23456/flowplane/internal/store"
)

// ExecuteWorkflow runs a workflow synchronously and returns the completed
// execution record.
func (h *Handler) ExecuteWorkflow(w http.ResponseWriter, r *http.Request) {
	namespace := r.PathValue("namespace")
	name := r.PathValue("name")
	log := logger.FromContext(r.Context())

	var req models.ExecuteRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErrorResponse(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
	}
	if err := req.Validate(); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
		return
	}

	rec, err := h.services.Executions.Execute(r.Context(), namespace, name, req)
	if errors.Is(err, services.ErrWorkflowNotFound) {
		writeErrorResponse(w, http.StatusNotFound, "workflow not found", "WORKFLOW_NOT_FOUND")
		return
	}
	if err != nil {
		log.Error("execution failed", "workflow", name, "error", err)
		writeErrorResponse(w, http.StatusInternalServerError, "internal error", "INTERNAL")
		return
	}

	// Rejected input is a client error; the record carries the field errors
	// and the suggested prompt.
	if rec.Error != nil && rec.Error.Code == engine.ErrCodeInputValidation {
		writeResponse(w, http.StatusBadRequest, models.APIResponse[models.ExecutionResponse]{
			Success: false,
			Data:    models.FromRecord(rec),
			Error:   rec.Error.Message,
			Code:    "INPUT_VALIDATION",
		})
		return
	}

	// A run that failed mid-flight is still a successful API call carrying
	// the completed record.
	writeSuccessResponse(w, http.StatusOK, models.FromRecord(rec))
}

// GetExecution loads one persisted execution with its step results.
func (h *Handler) GetExecution(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	row, err := h.services.Executions.GetExecution(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeErrorResponse(w, http.StatusNotFound, "execution not found", "EXECUTION_NOT_FOUND")
		return
	}
	if err != nil {
		logger.FromContext(r.Context()).Error("get execution failed", "id", id, "error", err)
		writeErrorResponse(w, http.StatusInternalServerError, "internal error", "INTERNAL")
		return
	}
	writeSuccessResponse(w, http.StatusOK, row)
}

// ListExecutions pages through execution history, newest first.
func (h *Handler) ListExecutions(w http.ResponseWriter, r *http.Request) {
	q := models.ListQuery{
		Workflow: r.URL.Query().Get("workflow"),
		Limit:    queryInt(r, "limit", 50),
		Offset:   queryInt(r, "offset", 0),
	}
	if err := q.Validate(); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
		return
	}

	rows, total, err := h.services.Executions.ListExecutions(r.Context(), q)
	if err != nil {
		logger.FromContext(r.Context()).Error("list executions failed", "error", err)
		writeErrorResponse(w, http.StatusInternalServerError, "internal error", "INTERNAL")
		return
	}
	writeListResponse(w, rows, total, q.Limit, q.Offset)
}

// ExecutionStats aggregates history, optionally filtered by workflow.
func (h *Handler) ExecutionStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.services.Executions.Stats(r.Context(), r.URL.Query().Get("workflow"))
	if err != nil {
		logger.FromContext(r.Context()).Error("stats failed", "error", err)
		writeErrorResponse(w, http.StatusInternalServerError, "internal error", "INTERNAL")
		return
	}
	writeSuccessResponse(w, http.StatusOK, stats)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
