// Copyright 2026 The FlowPlane Authors
// SPDX-License-Identifier: Apache-2.0

package handlers

import (
	"errors"
	"net/http"

	"github.com/daz23456/flowplane/internal/gateway/middleware/logger"
	"github.com/daz23456/flowplane/internal/gateway/services"
)

// ListWorkflows returns registered workflows. An empty namespace path value
// (the unscoped route) lists every namespace.
func (h *Handler) ListWorkflows(w http.ResponseWriter, r *http.Request) {
	items := h.services.Workflows.ListWorkflows(r.PathValue("namespace"))
	writeListResponse(w, items, int64(len(items)), len(items), 0)
}

// GetWorkflow returns one workflow with its step structure.
func (h *Handler) GetWorkflow(w http.ResponseWriter, r *http.Request) {
	namespace := r.PathValue("namespace")
	name := r.PathValue("name")

	wf, err := h.services.Workflows.GetWorkflow(namespace, name)
	if errors.Is(err, services.ErrWorkflowNotFound) {
		writeErrorResponse(w, http.StatusNotFound, "workflow not found", "WORKFLOW_NOT_FOUND")
		return
	}
	if err != nil {
		logger.FromContext(r.Context()).Error("get workflow failed", "error", err)
		writeErrorResponse(w, http.StatusInternalServerError, "internal error", "INTERNAL")
		return
	}
	writeSuccessResponse(w, http.StatusOK, wf)
}

// ListTasks returns registered tasks, optionally scoped by the namespace
// path value.
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	items := h.services.Workflows.ListTasks(r.PathValue("namespace"))
	writeListResponse(w, items, int64(len(items)), len(items), 0)
}

// GetTask returns one task summary.
func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	namespace := r.PathValue("namespace")
	name := r.PathValue("name")

	task, err := h.services.Workflows.GetTask(namespace, name)
	if errors.Is(err, services.ErrTaskNotFound) {
		writeErrorResponse(w, http.StatusNotFound, "task not found", "TASK_NOT_FOUND")
		return
	}
	if err != nil {
		logger.FromContext(r.Context()).Error("get task failed", "error", err)
		writeErrorResponse(w, http.StatusInternalServerError, "internal error", "INTERNAL")
		return
	}
	writeSuccessResponse(w, http.StatusOK, task)
}
