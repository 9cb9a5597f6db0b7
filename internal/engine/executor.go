// Copyright 2026 The FlowPlane Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/itchyny/gojq"
	"k8s.io/apimachinery/pkg/runtime"

	workflowv1 "github.com/daz23456/flowplane/api/v1"
	"github.com/daz23456/flowplane/internal/quality"
	"github.com/daz23456/flowplane/internal/schema"
	"github.com/daz23456/flowplane/internal/template"
)

const (
	defaultTaskTimeout = 30 * time.Second
	defaultMaxAttempts = 3
	defaultBackoffMs   = 1000
)

// TaskResult is the outcome of one task execution.
type TaskResult struct {
	Output      any
	Err         *StepError
	Attempts    int
	HTTPStatus  int
	ResolvedURL string
	Quality     *quality.Score
}

// TaskExecutor runs http and transform tasks. HTTP requests are composed by
// template substitution against the task's resolved input, sent with a
// per-task deadline, and retried with exponential backoff on transport
// errors and 5xx responses. 4xx responses never retry.
type TaskExecutor struct {
	client   *http.Client
	resolver *template.Resolver
	analyzer quality.Analyzer
	logger   *slog.Logger
}

// NewTaskExecutor builds an executor. A nil client uses http.DefaultClient;
// a nil analyzer skips response grading.
func NewTaskExecutor(client *http.Client, analyzer quality.Analyzer, logger *slog.Logger) *TaskExecutor {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskExecutor{
		client:   client,
		resolver: template.NewResolver(),
		analyzer: analyzer,
		logger:   logger,
	}
}

// overrides carries step-level timeout and retry settings that take
// precedence over the task's own.
type overrides struct {
	timeout *time.Duration
	retry   *workflowv1.RetrySpec
}

// Execute runs the task with the given resolved input. Task-level templates
// (HTTP method, URL, headers, body, transform input) resolve against a local
// context exposing the resolved input as input.*.
func (e *TaskExecutor) Execute(ctx context.Context, task *workflowv1.WorkflowTask, input map[string]any, ov overrides) TaskResult {
	if errs := e.validateSchema(task.Spec.InputSchema, input); len(errs) > 0 {
		return TaskResult{Err: &StepError{
			Code:    ErrCodeInputSchemaViolation,
			Message: fmt.Sprintf("input for task %q violates its schema", task.Name),
			Fields:  errs,
		}}
	}

	taskCtx := map[string]any{"input": input}

	switch task.Spec.Type {
	case workflowv1.TaskTypeHTTP:
		return e.executeHTTP(ctx, task, taskCtx, ov)
	case workflowv1.TaskTypeTransform:
		return e.executeTransform(task, taskCtx)
	default:
		return TaskResult{Err: newStepError(ErrCodeTaskNotFound,
			"task %q has unsupported type %q", task.Name, task.Spec.Type)}
	}
}

func (e *TaskExecutor) executeHTTP(ctx context.Context, task *workflowv1.WorkflowTask, taskCtx map[string]any, ov overrides) TaskResult {
	spec := task.Spec.HTTP
	if spec == nil {
		return TaskResult{Err: newStepError(ErrCodeTransport,
			"http task %q declares no request", task.Name)}
	}

	method, url, headers, body, stepErr := e.composeRequest(spec, taskCtx)
	if stepErr != nil {
		return TaskResult{Err: stepErr}
	}

	maxAttempts, backoff := retryPolicy(task, ov)
	timeout := taskTimeout(task, ov)

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result := TaskResult{ResolvedURL: url}
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result.Attempts = attempt

		status, respBody, err := e.doRequest(ctx, method, url, headers, body)
		if err != nil {
			result.Err = transportError(ctx, err)
			if result.Err.Code != ErrCodeTransport {
				// Timeout and Cancelled never retry; the deadline is gone.
				return result
			}
		} else {
			result.HTTPStatus = status
			result.Err = nil

			if status >= 200 && status < 300 {
				output, parseErr := parseResponse(task, respBody)
				if parseErr != nil {
					result.Err = parseErr
					return result
				}
				if errs := e.validateSchema(task.Spec.OutputSchema, output); len(errs) > 0 {
					result.Err = &StepError{
						Code:    ErrCodeOutputSchemaViolation,
						Message: fmt.Sprintf("output of task %q violates its schema", task.Name),
						Fields:  errs,
					}
					return result
				}
				result.Output = output
				return result
			}

			result.Err = &StepError{
				Code:       ErrCodeHTTP,
				Message:    fmt.Sprintf("%s %s returned status %d", method, url, status),
				HTTPStatus: status,
			}
			if e.analyzer != nil {
				score := e.analyzer.Analyze(status, respBody)
				result.Quality = &score
			}
			if status < 500 {
				return result
			}
		}

		if attempt == maxAttempts {
			return result
		}
		wait := backoff * time.Duration(1<<(attempt-1))
		e.logger.Debug("retrying task", "task", task.Name, "attempt", attempt, "wait", wait)
		select {
		case <-ctx.Done():
			result.Err = transportError(ctx, ctx.Err())
			return result
		case <-time.After(wait):
		}
	}
	return result
}

// composeRequest resolves the method, URL, headers, and body templates.
func (e *TaskExecutor) composeRequest(spec *workflowv1.HTTPTaskSpec, taskCtx map[string]any) (method, url string, headers map[string]string, body []byte, stepErr *StepError) {
	resolvedMethod, err := e.resolver.Resolve(spec.Method, taskCtx)
	if err != nil {
		return "", "", nil, nil, templateError(err)
	}
	resolvedURL, err := e.resolver.Resolve(spec.URL, taskCtx)
	if err != nil {
		return "", "", nil, nil, templateError(err)
	}
	method = strings.ToUpper(fmt.Sprintf("%v", resolvedMethod))
	url = fmt.Sprintf("%v", resolvedURL)

	headers = make(map[string]string, len(spec.Headers))
	for name, value := range spec.Headers {
		resolved, err := e.resolver.Resolve(value, taskCtx)
		if err != nil {
			return "", "", nil, nil, templateError(err)
		}
		headers[name] = fmt.Sprintf("%v", resolved)
	}

	if spec.Body != nil && len(spec.Body.Raw) > 0 {
		var doc any
		if err := json.Unmarshal(spec.Body.Raw, &doc); err != nil {
			return "", "", nil, nil, newStepError(ErrCodeTemplateMalformed,
				"request body is not valid JSON: %v", err)
		}
		resolved, err := e.resolver.ResolveValue(doc, taskCtx)
		if err != nil {
			return "", "", nil, nil, templateError(err)
		}
		encoded, err := json.Marshal(resolved)
		if err != nil {
			return "", "", nil, nil, newStepError(ErrCodeTemplateMalformed,
				"cannot encode request body: %v", err)
		}
		body = encoded
	}
	return method, url, headers, body, nil
}

func (e *TaskExecutor) doRequest(ctx context.Context, method, url string, headers map[string]string, body []byte) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, err
	}
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for name, value := range headers {
		req.Header.Set(name, value)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, respBody, nil
}

func (e *TaskExecutor) executeTransform(task *workflowv1.WorkflowTask, taskCtx map[string]any) TaskResult {
	spec := task.Spec.Transform
	if spec == nil || spec.Input == nil {
		return TaskResult{Err: newStepError(ErrCodeTransform,
			"transform task %q declares no input document", task.Name)}
	}

	var doc any
	if err := json.Unmarshal(spec.Input.Raw, &doc); err != nil {
		return TaskResult{Err: newStepError(ErrCodeTransform,
			"transform input is not valid JSON: %v", err)}
	}
	resolved, err := e.resolver.ResolveValue(doc, taskCtx)
	if err != nil {
		return TaskResult{Err: templateError(err)}
	}

	output, stepErr := extractJSONPath(resolved, spec.JSONPath)
	if stepErr != nil {
		return TaskResult{Attempts: 1, Err: stepErr}
	}
	if errs := e.validateSchema(task.Spec.OutputSchema, output); len(errs) > 0 {
		return TaskResult{Attempts: 1, Err: &StepError{
			Code:    ErrCodeOutputSchemaViolation,
			Message: fmt.Sprintf("output of task %q violates its schema", task.Name),
			Fields:  errs,
		}}
	}
	return TaskResult{Attempts: 1, Output: output}
}

// extractJSONPath evaluates a JSONPath-style expression over doc. The
// expression is translated to a jq program: "$.orders[0].id" becomes
// ".orders[0].id".
func extractJSONPath(doc any, path string) (any, *StepError) {
	program := strings.TrimSpace(path)
	program = strings.TrimPrefix(program, "$")
	if program == "" {
		program = "."
	} else if !strings.HasPrefix(program, ".") && !strings.HasPrefix(program, "[") {
		program = "." + program
	}

	query, err := gojq.Parse(program)
	if err != nil {
		return nil, newStepError(ErrCodeTransform, "invalid jsonPath %q: %v", path, err)
	}

	iter := query.Run(doc)
	value, ok := iter.Next()
	if !ok {
		return nil, newStepError(ErrCodeTransform, "jsonPath %q produced no value", path)
	}
	if runErr, isErr := value.(error); isErr {
		return nil, newStepError(ErrCodeTransform, "jsonPath %q failed: %v", path, runErr)
	}
	return value, nil
}

func (e *TaskExecutor) validateSchema(raw *runtime.RawExtension, value any) []schema.FieldError {
	if raw == nil || len(raw.Raw) == 0 {
		return nil
	}
	var doc map[string]any
	if err := json.Unmarshal(raw.Raw, &doc); err != nil {
		return []schema.FieldError{{
			FieldPath: "",
			Message:   fmt.Sprintf("schema document is not valid JSON: %v", err),
			Expected:  "JSON object",
			Actual:    "malformed",
		}}
	}
	return schema.Validate(value, doc)
}

// parseResponse decodes a 2xx body. Non-JSON bodies degrade to a plain
// string unless the task's output schema demands structure.
func parseResponse(task *workflowv1.WorkflowTask, body []byte) (any, *StepError) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, nil
	}
	var output any
	if err := json.Unmarshal(trimmed, &output); err != nil {
		if schemaRequiresStructure(task.Spec.OutputSchema) {
			return nil, newStepError(ErrCodeResponseParse,
				"task %q expects structured output but the response is not JSON", task.Name)
		}
		return string(body), nil
	}
	return output, nil
}

func schemaRequiresStructure(raw *runtime.RawExtension) bool {
	if raw == nil || len(raw.Raw) == 0 {
		return false
	}
	var doc map[string]any
	if err := json.Unmarshal(raw.Raw, &doc); err != nil {
		return false
	}
	typ, _ := doc["type"].(string)
	return typ == "object" || typ == "array"
}

func retryPolicy(task *workflowv1.WorkflowTask, ov overrides) (maxAttempts int, backoff time.Duration) {
	maxAttempts = defaultMaxAttempts
	backoff = defaultBackoffMs * time.Millisecond

	apply := func(spec *workflowv1.RetrySpec) {
		if spec == nil {
			return
		}
		if spec.MaxAttempts > 0 {
			maxAttempts = int(spec.MaxAttempts)
		}
		if spec.BackoffMs > 0 {
			backoff = time.Duration(spec.BackoffMs) * time.Millisecond
		}
	}
	apply(task.Spec.Retry)
	apply(ov.retry)
	return maxAttempts, backoff
}

func taskTimeout(task *workflowv1.WorkflowTask, ov overrides) time.Duration {
	if ov.timeout != nil && *ov.timeout > 0 {
		return *ov.timeout
	}
	if task.Spec.Timeout != nil && task.Spec.Timeout.Duration > 0 {
		return task.Spec.Timeout.Duration
	}
	return defaultTaskTimeout
}

// transportError classifies a request error, distinguishing deadline and
// cancellation from genuine transport failures.
func transportError(ctx context.Context, err error) *StepError {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return newStepError(ErrCodeTimeout, "task deadline exceeded")
	case errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled):
		return newStepError(ErrCodeCancelled, "task cancelled")
	default:
		return newStepError(ErrCodeTransport, "request failed: %v", err)
	}
}
