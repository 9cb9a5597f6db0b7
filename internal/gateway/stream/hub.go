// Copyright 2026 The FlowPlane Authors
// SPDX-License-Identifier: Apache-2.0

// Package stream broadcasts engine lifecycle events to WebSocket subscribers.
package stream

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/daz23456/flowplane/internal/engine"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// clientBuffer bounds each subscriber's send queue. A subscriber that
	// falls this far behind is disconnected rather than slowing the engine.
	clientBuffer = 64
)

// Event is one lifecycle message on the stream.
type Event struct {
	Type         string             `json:"type"`
	RunID        string             `json:"runId"`
	Namespace    string             `json:"namespace,omitempty"`
	WorkflowName string             `json:"workflowName,omitempty"`
	StepID       string             `json:"stepId,omitempty"`
	TaskRef      string             `json:"taskRef,omitempty"`
	Status       string             `json:"status,omitempty"`
	Result       *engine.StepResult `json:"result,omitempty"`
	DurationMs   int64              `json:"durationMs,omitempty"`
	Timestamp    time.Time          `json:"timestamp"`
}

// Hub fans engine events out to connected WebSocket clients. It implements
// engine.Notifier, so it plugs straight into the orchestrator.
type Hub struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*client]struct{}
}

var _ engine.Notifier = (*Hub)(nil)

type client struct {
	conn *websocket.Conn
	send chan Event

	// runID, when set, limits delivery to events of that run.
	runID string
}

// NewHub creates an event hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The gateway fronts trusted clients; origin policy is left to
			// the deployment's ingress.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// ServeHTTP upgrades the connection and subscribes it to the event stream.
// A runId query parameter narrows the subscription to a single run.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &client{
		conn:  conn,
		send:  make(chan Event, clientBuffer),
		runID: r.URL.Query().Get("runId"),
	}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go h.writePump(c)
	go h.readPump(c)
}

// SubscriberCount reports the number of connected clients.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
	c.conn.Close()
}

// readPump drains client frames so pong handlers run; inbound payloads are
// ignored.
func (h *Hub) readPump(c *client) {
	defer h.remove(c)
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case event, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// broadcast enqueues an event for every subscriber, dropping clients whose
// queues are full.
func (h *Hub) broadcast(event Event) {
	h.mu.RLock()
	var stalled []*client
	for c := range h.clients {
		if c.runID != "" && c.runID != event.RunID {
			continue
		}
		select {
		case c.send <- event:
		default:
			stalled = append(stalled, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range stalled {
		h.logger.Warn("dropping slow event subscriber")
		h.remove(c)
	}
}

func (h *Hub) WorkflowStarted(runID, namespace, workflowName string, at time.Time) {
	h.broadcast(Event{
		Type:         "workflow.started",
		RunID:        runID,
		Namespace:    namespace,
		WorkflowName: workflowName,
		Timestamp:    at,
	})
}

func (h *Hub) StepStarted(runID, stepID, taskRef string, at time.Time) {
	h.broadcast(Event{
		Type:      "step.started",
		RunID:     runID,
		StepID:    stepID,
		TaskRef:   taskRef,
		Timestamp: at,
	})
}

func (h *Hub) StepCompleted(runID string, result engine.StepResult) {
	h.broadcast(Event{
		Type:      "step.completed",
		RunID:     runID,
		StepID:    result.StepID,
		TaskRef:   result.TaskRef,
		Status:    string(result.Status),
		Result:    &result,
		Timestamp: result.CompletedAt,
	})
}

func (h *Hub) WorkflowCompleted(runID string, status engine.RunStatus, durationMs int64, at time.Time) {
	h.broadcast(Event{
		Type:       "workflow.completed",
		RunID:      runID,
		Status:     string(status),
		DurationMs: durationMs,
		Timestamp:  at,
	})
}
