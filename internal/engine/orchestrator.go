// Copyright 2026 The FlowPlane Authors
// SPDX-License-Identifier: Apache-2.0

// Package engine executes workflows level by level over a dependency DAG.
//
// The orchestrator validates input, builds the graph, dispatches each
// topological level as a parallel batch, and returns a completed execution
// record for every run, failed and cancelled runs included.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	workflowv1 "github.com/daz23456/flowplane/api/v1"
	"github.com/daz23456/flowplane/internal/quality"
	"github.com/daz23456/flowplane/internal/schema"
	"github.com/daz23456/flowplane/internal/template"
)

// Catalog resolves task and workflow definitions by namespace and name.
type Catalog interface {
	Task(namespace, name string) (*workflowv1.WorkflowTask, bool)
	Workflow(namespace, name string) (*workflowv1.Workflow, bool)
}

// Options tunes an Orchestrator. Zero values pick sensible defaults.
type Options struct {
	Notifier            Notifier
	Analyzer            quality.Analyzer
	HTTPClient          *http.Client
	Logger              *slog.Logger
	MaxSubWorkflowDepth int
}

// Orchestrator runs workflows. It is safe for concurrent use; all per-run
// state lives in the run itself.
type Orchestrator struct {
	catalog  Catalog
	executor *TaskExecutor
	resolver *template.Resolver
	notifier Notifier
	logger   *slog.Logger
	maxDepth int
}

// New builds an Orchestrator over the given catalog.
func New(catalog Catalog, opts Options) *Orchestrator {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxDepth := opts.MaxSubWorkflowDepth
	if maxDepth <= 0 {
		maxDepth = defaultMaxSubWorkflowDepth
	}
	return &Orchestrator{
		catalog:  catalog,
		executor: NewTaskExecutor(opts.HTTPClient, opts.Analyzer, logger),
		resolver: template.NewResolver(),
		notifier: newSafeNotifier(opts.Notifier, logger),
		logger:   logger,
		maxDepth: maxDepth,
	}
}

// Execute runs wf with the submitted input and returns the completed record.
// Cancelling ctx stops dispatch; in-flight steps terminate as Cancelled and
// undispatched steps are skipped.
func (o *Orchestrator) Execute(ctx context.Context, wf *workflowv1.Workflow, input map[string]any) *ExecutionRecord {
	return o.execute(ctx, wf, input, newCallStack(wf.Namespace+"/"+wf.Name))
}

func (o *Orchestrator) execute(ctx context.Context, wf *workflowv1.Workflow, input map[string]any, stack *callStack) *ExecutionRecord {
	started := time.Now()
	rec := &ExecutionRecord{
		ID:           uuid.NewString(),
		WorkflowName: wf.Name,
		Namespace:    wf.Namespace,
		Status:       RunStatusRunning,
		StartedAt:    started,
	}
	o.notifier.WorkflowStarted(rec.ID, wf.Namespace, wf.Name, started)

	finish := func(status RunStatus) *ExecutionRecord {
		rec.finish(status, time.Now())
		o.notifier.WorkflowCompleted(rec.ID, status, rec.DurationMs, rec.CompletedAt)
		return rec
	}

	withDefaults := schema.ApplyInputDefaults(input, wf.Spec.Input)
	rec.Input = withDefaults
	if errs := schema.Validate(withDefaults, schema.FromInputFields(wf.Spec.Input)); len(errs) > 0 {
		rec.Error = &StepError{
			Code:            ErrCodeInputValidation,
			Message:         fmt.Sprintf("input for workflow %q is invalid", wf.Name),
			Fields:          errs,
			SuggestedPrompt: schema.SuggestedPrompt(wf.Spec.Input, errs),
		}
		return finish(RunStatusFailed)
	}

	graph, err := BuildGraph(wf.Spec.Tasks)
	if err != nil {
		rec.Error = newStepError(ErrCodeGraphInvalid, "workflow %q: %v", wf.Name, err)
		return finish(RunStatusFailed)
	}
	if graph.HasCycles() {
		rec.Error = newStepError(ErrCodeGraphCyclic,
			"workflow %q contains dependency cycles: %v", wf.Name, graph.Cycles)
		return finish(RunStatusFailed)
	}

	r := &run{
		o:      o,
		wf:     wf,
		rec:    rec,
		graph:  graph,
		rctx:   newRunContext(withDefaults),
		stack:  stack,
		states: make(map[string]*StepResult, len(graph.Order)),
	}
	r.dispatch(ctx)

	status := r.finalStatus(ctx)
	if status == RunStatusSucceeded {
		if serr := r.resolveOutput(); serr != nil {
			rec.Error = serr
			status = RunStatusFailed
		}
	}
	return finish(status)
}

// run holds the mutable state of one workflow execution.
type run struct {
	o     *Orchestrator
	wf    *workflowv1.Workflow
	rec   *ExecutionRecord
	graph *Graph
	rctx  *runContext
	stack *callStack

	mu     sync.Mutex
	states map[string]*StepResult
}

// dispatch executes the graph level by level. Steps within a level run in
// parallel goroutines against a shared immutable snapshot.
func (r *run) dispatch(ctx context.Context) {
	for _, level := range r.graph.Levels {
		if ctx.Err() != nil {
			break
		}
		var wg sync.WaitGroup
		for _, id := range level {
			step := r.graph.Steps[id]
			if reason, upstreamErr := r.upstreamGate(step); reason != "" {
				r.finishStep(StepResult{
					StepID:     step.ID,
					Status:     StepStatusSkipped,
					SkipReason: reason,
					Error:      upstreamErr,
					StartedAt:  time.Now(),
				})
				continue
			}
			wg.Add(1)
			go func(step *workflowv1.Step) {
				defer wg.Done()
				r.runStep(ctx, step)
			}(step)
		}
		wg.Wait()
	}

	// Steps never dispatched because the run was cancelled mid-flight.
	for _, id := range r.graph.Order {
		r.mu.Lock()
		_, done := r.states[id]
		r.mu.Unlock()
		if !done {
			r.finishStep(StepResult{
				StepID:     id,
				Status:     StepStatusSkipped,
				SkipReason: SkipReasonCancelled,
				StartedAt:  time.Now(),
			})
		}
	}
}

// upstreamGate decides whether a step may start given its dependencies'
// terminal states. A failed dependency without continueOnFailure blocks the
// step and taints the run; a skipped dependency cascades the skip without
// tainting unless the skip itself came from a failure.
func (r *run) upstreamGate(step *workflowv1.Step) (SkipReason, *StepError) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, dep := range r.graph.Dependencies[step.ID] {
		state, ok := r.states[dep]
		if !ok {
			// Level ordering guarantees terminal dependencies; a miss means
			// the run was cancelled before the dependency ran.
			return SkipReasonCancelled, nil
		}
		switch state.Status {
		case StepStatusFailed:
			if !state.ContinueOnFailure {
				return SkipReasonUpstreamFailed, newStepError(ErrCodeUpstreamFailed,
					"dependency %q failed", dep)
			}
		case StepStatusSkipped:
			if state.SkipReason == SkipReasonUpstreamFailed {
				return SkipReasonUpstreamFailed, newStepError(ErrCodeUpstreamFailed,
					"dependency %q was skipped after an upstream failure", dep)
			}
			return SkipReasonUpstreamSkipped, nil
		}
	}
	return "", nil
}

// runStep executes one step to a terminal state.
func (r *run) runStep(ctx context.Context, step *workflowv1.Step) {
	result := StepResult{
		StepID:            step.ID,
		Status:            StepStatusFailed,
		ContinueOnFailure: step.ContinueOnFailure,
		StartedAt:         time.Now(),
	}
	snapshot := r.rctx.Snapshot()

	if step.Condition != "" {
		pass, serr := evalCondition(r.o.resolver, step.Condition, snapshot)
		if serr != nil {
			result.Error = serr
			r.finishStep(result)
			return
		}
		if !pass {
			result.Status = StepStatusSkipped
			result.SkipReason = SkipReasonCondition
			r.finishStep(result)
			return
		}
	}

	if step.ForEach != nil {
		r.runForEach(ctx, step, snapshot, result)
		return
	}

	taskRef, output, taskRes, serr := r.runSingle(ctx, step, snapshot, true)
	result.TaskRef = taskRef
	result.Error = serr
	if taskRes != nil {
		result.Attempts = taskRes.Attempts
		result.HTTPStatus = taskRes.HTTPStatus
		result.ResolvedURL = taskRes.ResolvedURL
		result.Quality = taskRes.Quality
	}
	if serr == nil {
		result.Status = StepStatusSucceeded
		result.Output = output
	}
	r.finishStep(result)
}

// runSingle resolves the effective reference and input for one execution of
// a step and runs it. notify controls whether a StepStarted event is emitted;
// forEach steps emit one event for the whole fan-out instead.
func (r *run) runSingle(ctx context.Context, step *workflowv1.Step, snapshot map[string]any, notify bool) (taskRef string, output any, taskRes *TaskResult, serr *StepError) {
	switch {
	case step.Switch != nil:
		taskRef, serr = evalSwitch(r.o.resolver, step.Switch, snapshot)
		if serr != nil {
			return "", nil, nil, serr
		}
	case step.WorkflowRef != "":
		taskRef = step.WorkflowRef
	default:
		taskRef = step.TaskRef
	}
	if taskRef == "" {
		return "", nil, nil, newStepError(ErrCodeTaskNotFound,
			"step %q names no task, workflow, or switch", step.ID)
	}

	input, serr := r.resolveStepInput(step, snapshot)
	if serr != nil {
		return taskRef, nil, nil, serr
	}

	if notify {
		r.o.notifier.StepStarted(r.rec.ID, step.ID, taskRef, time.Now())
	}

	if step.WorkflowRef != "" && step.Switch == nil {
		subOutput, subErr := r.o.executeSubWorkflow(ctx, r.wf.Namespace, taskRef, input, r.stack)
		if subErr != nil {
			return taskRef, nil, nil, subErr
		}
		return taskRef, anyMap(subOutput), nil, nil
	}

	task, ok := r.o.catalog.Task(r.wf.Namespace, taskRef)
	if !ok {
		return taskRef, nil, nil, newStepError(ErrCodeTaskNotFound,
			"task %q not found in namespace %q", taskRef, r.wf.Namespace)
	}

	res := r.o.executor.Execute(ctx, task, input, overrides{
		timeout: durationPtr(step.Timeout),
		retry:   step.Retry,
	})
	return taskRef, res.Output, &res, res.Err
}

// runForEach fans a step out over its resolved items and aggregates the
// ordered per-iteration results into the step's single output slot.
func (r *run) runForEach(ctx context.Context, step *workflowv1.Step, snapshot map[string]any, result StepResult) {
	items, serr := resolveItems(r.o.resolver, step.ForEach.Items, snapshot)
	if serr != nil {
		result.Error = serr
		r.finishStep(result)
		return
	}

	ref := step.TaskRef
	if step.WorkflowRef != "" {
		ref = step.WorkflowRef
	}
	if ref == "" {
		// A switch fan-out resolves its reference per iteration, so the
		// aggregate started event carries the step ID instead.
		ref = step.ID
	}
	result.TaskRef = ref
	r.o.notifier.StepStarted(r.rec.ID, step.ID, ref, time.Now())

	limit := int64(len(items))
	if step.ForEach.MaxParallel > 0 && int64(step.ForEach.MaxParallel) < limit {
		limit = int64(step.ForEach.MaxParallel)
	}
	if limit == 0 {
		limit = 1
	}
	sem := semaphore.NewWeighted(limit)

	iterations := make([]IterationResult, len(items))
	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func(index int, item any) {
			defer wg.Done()
			if err := sem.Acquire(ctx, 1); err != nil {
				iterations[index] = IterationResult{
					Index: index,
					Error: newStepError(ErrCodeCancelled, "iteration cancelled before start"),
				}
				return
			}
			defer sem.Release(1)

			extended := withForEach(snapshot, step.ForEach.ItemVar, item, index)
			_, output, _, serr := r.runSingle(ctx, step, extended, false)
			if serr != nil {
				iterations[index] = IterationResult{Index: index, Error: serr}
				return
			}
			iterations[index] = IterationResult{Index: index, Success: true, Output: output}
		}(i, item)
	}
	wg.Wait()

	result.Output = iterations
	result.Status = StepStatusSucceeded
	for i := range iterations {
		if !iterations[i].Success {
			result.Status = StepStatusFailed
			result.Error = &StepError{
				Code:    iterations[i].Error.Code,
				Message: fmt.Sprintf("iteration %d failed: %s", i, iterations[i].Error.Message),
			}
			break
		}
	}
	r.finishStep(result)
}

// resolveStepInput decodes and resolves the step's input mapping against the
// snapshot.
func (r *run) resolveStepInput(step *workflowv1.Step, snapshot map[string]any) (map[string]any, *StepError) {
	if step.Input == nil || len(step.Input.Raw) == 0 {
		return map[string]any{}, nil
	}
	var doc any
	if err := json.Unmarshal(step.Input.Raw, &doc); err != nil {
		return nil, newStepError(ErrCodeTemplateMalformed,
			"step %q input is not valid JSON: %v", step.ID, err)
	}
	resolved, err := r.o.resolver.ResolveValue(doc, snapshot)
	if err != nil {
		return nil, templateError(err)
	}
	asMap, ok := resolved.(map[string]any)
	if !ok {
		return nil, newStepError(ErrCodeTemplateMalformed,
			"step %q input must be an object, got %T", step.ID, resolved)
	}
	return asMap, nil
}

// finishStep records a terminal step result, writes the step's context slot,
// and emits the completion event. Failed and skipped steps write null so
// downstream templates see an explicit absence, never an undefined slot.
// ForEach steps write their iteration list even on partial failure.
func (r *run) finishStep(result StepResult) {
	result.CompletedAt = time.Now()
	result.DurationMs = result.CompletedAt.Sub(result.StartedAt).Milliseconds()

	var slot any
	switch {
	case result.Status == StepStatusSucceeded:
		slot = result.Output
	case result.Output != nil:
		if list, ok := result.Output.([]IterationResult); ok {
			slot = iterationContextValue(list)
		}
	}
	if err := r.rctx.WriteStepOutput(result.StepID, slot); err != nil {
		r.o.logger.Error("context write rejected", "step", result.StepID, "error", err)
	}

	r.mu.Lock()
	copied := result
	r.states[result.StepID] = &copied
	r.rec.Steps = append(r.rec.Steps, result)
	r.mu.Unlock()

	r.o.notifier.StepCompleted(r.rec.ID, result)
}

// finalStatus derives the run status from the terminal step states.
func (r *run) finalStatus(ctx context.Context) RunStatus {
	if ctx.Err() != nil {
		return RunStatusCancelled
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, state := range r.states {
		if state.Status == StepStatusFailed && !state.ContinueOnFailure {
			if state.Error != nil && state.Error.Code == ErrCodeCancelled {
				return RunStatusCancelled
			}
			return RunStatusFailed
		}
		if state.Status == StepStatusSkipped && state.SkipReason == SkipReasonUpstreamFailed {
			return RunStatusFailed
		}
	}
	return RunStatusSucceeded
}

// resolveOutput maps the workflow's declared output fields against the final
// context.
func (r *run) resolveOutput() *StepError {
	if len(r.wf.Spec.Output) == 0 {
		return nil
	}
	snapshot := r.rctx.Snapshot()
	output := make(map[string]any, len(r.wf.Spec.Output))
	for name, expr := range r.wf.Spec.Output {
		value, err := r.o.resolver.Resolve(expr, snapshot)
		if err != nil {
			return templateError(err)
		}
		output[name] = value
	}
	r.rec.Output = output
	return nil
}

// iterationContextValue converts iteration results to plain JSON-shaped
// values so templates can traverse them.
func iterationContextValue(list []IterationResult) []any {
	values := make([]any, len(list))
	for i, it := range list {
		entry := map[string]any{
			"index":   float64(it.Index),
			"success": it.Success,
		}
		if it.Output != nil {
			entry["output"] = it.Output
		}
		if it.Error != nil {
			entry["error"] = map[string]any{
				"code":    string(it.Error.Code),
				"message": it.Error.Message,
			}
		}
		values[i] = entry
	}
	return values
}

func anyMap(m map[string]any) any {
	if m == nil {
		return map[string]any{}
	}
	return m
}

func durationPtr(d *metav1.Duration) *time.Duration {
	if d == nil {
		return nil
	}
	return &d.Duration
}
