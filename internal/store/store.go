// Copyright 2026 The FlowPlane Authors
// SPDX-License-Identifier: Apache-2.0

// Package store persists execution records in SQLite for history queries.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/daz23456/flowplane/internal/engine"
)

// ErrNotFound reports a missing execution.
var ErrNotFound = errors.New("execution not found")

// Execution is the persisted form of an engine.ExecutionRecord. JSON-shaped
// fields are stored serialized.
type Execution struct {
	ID           string `gorm:"primaryKey"`
	WorkflowName string `gorm:"index"`
	Namespace    string `gorm:"index"`
	Status       string `gorm:"index"`
	Input        string
	Output       string
	ErrorCode    string
	ErrorMessage string
	StartedAt    time.Time `gorm:"index"`
	CompletedAt  time.Time
	DurationMs   int64
	Steps        []StepRow `gorm:"foreignKey:ExecutionID;constraint:OnDelete:CASCADE"`
}

// StepRow is one persisted step result.
type StepRow struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"`
	ExecutionID  string `gorm:"index"`
	StepID       string
	TaskRef      string
	Status       string
	SkipReason   string
	Output       string
	ErrorCode    string
	ErrorMessage string
	Attempts     int
	HTTPStatus   int
	StartedAt    time.Time
	CompletedAt  time.Time
	DurationMs   int64
}

// Stats aggregates execution history for one workflow or the whole gateway.
type Stats struct {
	Total         int64   `json:"total"`
	Succeeded     int64   `json:"succeeded"`
	Failed        int64   `json:"failed"`
	Cancelled     int64   `json:"cancelled"`
	AvgDurationMs float64 `json:"avgDurationMs"`
}

// Store wraps the execution history database.
type Store struct {
	db *gorm.DB
}

// Open opens (or creates) the SQLite database at path and migrates the
// schema. Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	if err := db.AutoMigrate(&Execution{}, &StepRow{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return &Store{db: db}, nil
}

// SaveRecord persists a completed execution record with its step results.
func (s *Store) SaveRecord(ctx context.Context, rec *engine.ExecutionRecord) error {
	row := Execution{
		ID:           rec.ID,
		WorkflowName: rec.WorkflowName,
		Namespace:    rec.Namespace,
		Status:       string(rec.Status),
		Input:        encodeJSON(rec.Input),
		Output:       encodeJSON(rec.Output),
		StartedAt:    rec.StartedAt,
		CompletedAt:  rec.CompletedAt,
		DurationMs:   rec.DurationMs,
	}
	if rec.Error != nil {
		row.ErrorCode = string(rec.Error.Code)
		row.ErrorMessage = rec.Error.Message
	}

	for _, step := range rec.Steps {
		stepRow := StepRow{
			ExecutionID: rec.ID,
			StepID:      step.StepID,
			TaskRef:     step.TaskRef,
			Status:      string(step.Status),
			SkipReason:  string(step.SkipReason),
			Output:      encodeJSON(step.Output),
			Attempts:    step.Attempts,
			HTTPStatus:  step.HTTPStatus,
			StartedAt:   step.StartedAt,
			CompletedAt: step.CompletedAt,
			DurationMs:  step.DurationMs,
		}
		if step.Error != nil {
			stepRow.ErrorCode = string(step.Error.Code)
			stepRow.ErrorMessage = step.Error.Message
		}
		row.Steps = append(row.Steps, stepRow)
	}

	return s.db.WithContext(ctx).Create(&row).Error
}

// GetExecution loads one execution with its step results.
func (s *Store) GetExecution(ctx context.Context, id string) (*Execution, error) {
	var row Execution
	err := s.db.WithContext(ctx).Preload("Steps").First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("execution %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ListExecutions returns executions newest first, optionally filtered by
// workflow name, along with the total matching count.
func (s *Store) ListExecutions(ctx context.Context, workflowName string, limit, offset int) ([]Execution, int64, error) {
	if limit <= 0 {
		limit = 50
	}

	query := s.db.WithContext(ctx).Model(&Execution{})
	if workflowName != "" {
		query = query.Where("workflow_name = ?", workflowName)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []Execution
	err := query.Order("started_at DESC").Limit(limit).Offset(offset).Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Stats aggregates history, optionally filtered by workflow name.
func (s *Store) Stats(ctx context.Context, workflowName string) (*Stats, error) {
	// Chained gorm queries accumulate clauses, so each aggregate gets a
	// fresh builder.
	base := func() *gorm.DB {
		q := s.db.WithContext(ctx).Model(&Execution{})
		if workflowName != "" {
			q = q.Where("workflow_name = ?", workflowName)
		}
		return q
	}

	var stats Stats
	if err := base().Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if stats.Total == 0 {
		return &stats, nil
	}

	counts := []struct {
		Status string
		N      int64
	}{}
	if err := base().Select("status, count(*) as n").Group("status").Scan(&counts).Error; err != nil {
		return nil, err
	}
	for _, c := range counts {
		switch engine.RunStatus(c.Status) {
		case engine.RunStatusSucceeded:
			stats.Succeeded = c.N
		case engine.RunStatusFailed:
			stats.Failed = c.N
		case engine.RunStatusCancelled:
			stats.Cancelled = c.N
		}
	}

	if err := base().Select("avg(duration_ms)").Scan(&stats.AvgDurationMs).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

func encodeJSON(value any) string {
	if value == nil {
		return ""
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return ""
	}
	return string(encoded)
}
