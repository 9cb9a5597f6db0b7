// Copyright 2026 The FlowPlane Authors
// SPDX-License-Identifier: Apache-2.0

package handlers

import "net/http"

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeSuccessResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready reports readiness to serve executions.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	writeSuccessResponse(w, http.StatusOK, map[string]string{"status": "ready"})
}
