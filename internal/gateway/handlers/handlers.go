// Copyright 2026 The FlowPlane Authors
// SPDX-License-Identifier: Apache-2.0

// Package handlers exposes the gateway's HTTP surface.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/daz23456/flowplane/internal/gateway/middleware/logger"
	"github.com/daz23456/flowplane/internal/gateway/services"
	"github.com/daz23456/flowplane/internal/gateway/stream"
)

// Handler holds the services and provides HTTP handlers.
type Handler struct {
	services *services.Services
	hub      *stream.Hub
	registry *prometheus.Registry
	logger   *slog.Logger
}

// New creates a new Handler instance.
func New(services *services.Services, hub *stream.Hub, registry *prometheus.Registry, logger *slog.Logger) *Handler {
	return &Handler{
		services: services,
		hub:      hub,
		registry: registry,
		logger:   logger,
	}
}

// Routes sets up all HTTP routes and returns the configured handler.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	v1 := "/api/v1"

	// Health & readiness checks
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /ready", h.Ready)

	// Prometheus metrics
	mux.Handle("GET /metrics", promhttp.HandlerFor(h.registry, promhttp.HandlerOpts{}))

	// Catalog browsing
	mux.HandleFunc("GET "+v1+"/workflows", h.ListWorkflows)
	mux.HandleFunc("GET "+v1+"/namespaces/{namespace}/workflows", h.ListWorkflows)
	mux.HandleFunc("GET "+v1+"/namespaces/{namespace}/workflows/{name}", h.GetWorkflow)
	mux.HandleFunc("GET "+v1+"/tasks", h.ListTasks)
	mux.HandleFunc("GET "+v1+"/namespaces/{namespace}/tasks", h.ListTasks)
	mux.HandleFunc("GET "+v1+"/namespaces/{namespace}/tasks/{name}", h.GetTask)

	// Execution
	mux.HandleFunc("POST "+v1+"/namespaces/{namespace}/workflows/{name}/execute", h.ExecuteWorkflow)

	// Execution history
	mux.HandleFunc("GET "+v1+"/executions", h.ListExecutions)
	mux.HandleFunc("GET "+v1+"/executions/stats", h.ExecutionStats)
	mux.HandleFunc("GET "+v1+"/executions/{id}", h.GetExecution)

	// Live event stream
	mux.Handle("GET "+v1+"/events", h.hub)

	return logger.Middleware(h.logger)(mux)
}
