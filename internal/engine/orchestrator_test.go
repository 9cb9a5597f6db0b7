// Copyright 2026 The FlowPlane Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	workflowv1 "github.com/daz23456/flowplane/api/v1"
)

type fakeCatalog struct {
	tasks     map[string]*workflowv1.WorkflowTask
	workflows map[string]*workflowv1.Workflow
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		tasks:     map[string]*workflowv1.WorkflowTask{},
		workflows: map[string]*workflowv1.Workflow{},
	}
}

func (c *fakeCatalog) addTask(task *workflowv1.WorkflowTask) {
	c.tasks["default/"+task.Name] = task
}

func (c *fakeCatalog) addWorkflow(wf *workflowv1.Workflow) {
	c.workflows["default/"+wf.Name] = wf
}

func (c *fakeCatalog) Task(namespace, name string) (*workflowv1.WorkflowTask, bool) {
	task, ok := c.tasks[namespace+"/"+name]
	return task, ok
}

func (c *fakeCatalog) Workflow(namespace, name string) (*workflowv1.Workflow, bool) {
	wf, ok := c.workflows[namespace+"/"+name]
	return wf, ok
}

// recordingNotifier captures the event stream for ordering assertions.
type recordingNotifier struct {
	mu        sync.Mutex
	events    []string
	startRefs map[string]string
}

func (n *recordingNotifier) WorkflowStarted(runID, namespace, name string, at time.Time) {
	n.append("workflow-started")
}

func (n *recordingNotifier) StepStarted(runID, stepID, taskRef string, at time.Time) {
	n.mu.Lock()
	if n.startRefs == nil {
		n.startRefs = map[string]string{}
	}
	n.startRefs[stepID] = taskRef
	n.mu.Unlock()
	n.append("step-started:" + stepID)
}

func (n *recordingNotifier) StepCompleted(runID string, result StepResult) {
	n.append(fmt.Sprintf("step-completed:%s:%s", result.StepID, result.Status))
}

func (n *recordingNotifier) WorkflowCompleted(runID string, status RunStatus, durationMs int64, at time.Time) {
	n.append("workflow-completed:" + string(status))
}

func (n *recordingNotifier) append(event string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) snapshot() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string{}, n.events...)
}

func (n *recordingNotifier) startRef(stepID string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.startRefs[stepID]
}

func workflow(name string, spec workflowv1.WorkflowSpec) *workflowv1.Workflow {
	wf := &workflowv1.Workflow{Spec: spec}
	wf.Name = name
	wf.Namespace = "default"
	return wf
}

func TestExecuteSequentialHappyPath(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users/7":
			w.Write([]byte(`{"name":"Ada","id":7}`))
		case "/orders/Ada":
			w.Write([]byte(`{"orders":[{"id":"o-1"},{"id":"o-2"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	catalog := newFakeCatalog()
	catalog.addTask(httpTask("fetch-user", "GET", server.URL+"/users/{{ input.userId }}"))
	catalog.addTask(httpTask("fetch-orders", "GET", server.URL+"/orders/{{ input.name }}"))

	wf := workflow("user-orders", workflowv1.WorkflowSpec{
		Input: map[string]workflowv1.InputField{
			"userId": {Type: "integer", Required: true},
		},
		Tasks: []workflowv1.Step{
			{ID: "user", TaskRef: "fetch-user",
				Input: rawJSON(`{"userId":"{{ input.userId }}"}`)},
			{ID: "orders", TaskRef: "fetch-orders",
				Input: rawJSON(`{"name":"{{ tasks.user.output.name }}"}`)},
		},
		Output: map[string]string{
			"firstOrder": "{{ tasks.orders.output.orders[0].id }}",
			"userName":   "{{ tasks.user.output.name }}",
		},
	})

	notifier := &recordingNotifier{}
	o := New(catalog, Options{Notifier: notifier, HTTPClient: server.Client()})
	rec := o.Execute(context.Background(), wf, map[string]any{"userId": float64(7)})

	if rec.Status != RunStatusSucceeded {
		t.Fatalf("status = %s, error = %v", rec.Status, rec.Error)
	}
	if rec.Output["firstOrder"] != "o-1" || rec.Output["userName"] != "Ada" {
		t.Errorf("unexpected output: %v", rec.Output)
	}
	if len(rec.Steps) != 2 {
		t.Fatalf("expected 2 step results, got %d", len(rec.Steps))
	}

	// Dependency ordering: orders must not start before user completes.
	user, orders := rec.Step("user"), rec.Step("orders")
	if orders.StartedAt.Before(user.CompletedAt) {
		t.Error("dependent step started before its dependency completed")
	}

	events := notifier.snapshot()
	if events[0] != "workflow-started" {
		t.Errorf("first event = %q", events[0])
	}
	if events[len(events)-1] != "workflow-completed:Succeeded" {
		t.Errorf("last event = %q", events[len(events)-1])
	}
}

func TestExecuteDiamondRunsMiddleLevelInParallel(t *testing.T) {
	t.Parallel()

	const stepDelay = 100 * time.Millisecond
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/slow" {
			time.Sleep(stepDelay)
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	catalog := newFakeCatalog()
	catalog.addTask(httpTask("fast", "GET", server.URL+"/fast"))
	catalog.addTask(httpTask("slow", "GET", server.URL+"/slow"))

	wf := workflow("diamond", workflowv1.WorkflowSpec{
		Tasks: []workflowv1.Step{
			{ID: "a", TaskRef: "fast"},
			{ID: "b", TaskRef: "slow", DependsOn: []string{"a"}},
			{ID: "c", TaskRef: "slow", DependsOn: []string{"a"}},
			{ID: "d", TaskRef: "fast", DependsOn: []string{"b", "c"}},
		},
	})

	o := New(catalog, Options{HTTPClient: server.Client()})
	rec := o.Execute(context.Background(), wf, nil)

	if rec.Status != RunStatusSucceeded {
		t.Fatalf("status = %s, error = %v", rec.Status, rec.Error)
	}

	b, c, d := rec.Step("b"), rec.Step("c"), rec.Step("d")

	// b and c share a level, so their run windows must overlap.
	if !b.StartedAt.Before(c.CompletedAt) || !c.StartedAt.Before(b.CompletedAt) {
		t.Error("middle level steps ran sequentially")
	}
	if d.StartedAt.Before(b.CompletedAt) || d.StartedAt.Before(c.CompletedAt) {
		t.Error("join step started before the middle level completed")
	}
}

func TestExecuteRejectsCyclicWorkflow(t *testing.T) {
	t.Parallel()

	catalog := newFakeCatalog()
	wf := workflow("cyclic", workflowv1.WorkflowSpec{
		Tasks: []workflowv1.Step{
			{ID: "a", TaskRef: "t", DependsOn: []string{"b"}},
			{ID: "b", TaskRef: "t", DependsOn: []string{"a"}},
		},
	})

	o := New(catalog, Options{})
	rec := o.Execute(context.Background(), wf, nil)

	if rec.Status != RunStatusFailed {
		t.Fatalf("status = %s", rec.Status)
	}
	if rec.Error == nil || rec.Error.Code != ErrCodeGraphCyclic {
		t.Fatalf("expected GraphCyclic, got %v", rec.Error)
	}
	if len(rec.Steps) != 0 {
		t.Errorf("no step may run in a cyclic workflow, got %d results", len(rec.Steps))
	}
}

func TestExecuteInputValidationFailsFast(t *testing.T) {
	t.Parallel()

	catalog := newFakeCatalog()
	wf := workflow("strict", workflowv1.WorkflowSpec{
		Input: map[string]workflowv1.InputField{
			"userId": {Type: "integer", Required: true, Description: "Target user"},
			"limit":  {Type: "integer", Default: rawJSON(`10`)},
		},
		Tasks: []workflowv1.Step{{ID: "a", TaskRef: "t"}},
	})

	o := New(catalog, Options{})
	rec := o.Execute(context.Background(), wf, map[string]any{})

	if rec.Status != RunStatusFailed {
		t.Fatalf("status = %s", rec.Status)
	}
	if rec.Error == nil || rec.Error.Code != ErrCodeInputValidation {
		t.Fatalf("expected InputValidationError, got %v", rec.Error)
	}
	if rec.Error.SuggestedPrompt == "" {
		t.Error("expected a suggested prompt for the missing field")
	}
	if len(rec.Steps) != 0 {
		t.Error("no step may run when input validation fails")
	}
	// Defaults were still applied before validation.
	if rec.Input["limit"] != float64(10) {
		t.Errorf("default not applied: %v", rec.Input)
	}
}

func TestExecuteConditionSkipCascade(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"premium":false}`))
	}))
	defer server.Close()

	catalog := newFakeCatalog()
	catalog.addTask(httpTask("check", "GET", server.URL))
	catalog.addTask(httpTask("upgrade", "POST", server.URL))
	catalog.addTask(httpTask("bill", "POST", server.URL))

	wf := workflow("conditional", workflowv1.WorkflowSpec{
		Tasks: []workflowv1.Step{
			{ID: "a", TaskRef: "check"},
			{ID: "b", TaskRef: "upgrade", Condition: "{{ tasks.a.output.premium }}"},
			{ID: "c", TaskRef: "bill", DependsOn: []string{"b"}},
		},
	})

	o := New(catalog, Options{HTTPClient: server.Client()})
	rec := o.Execute(context.Background(), wf, nil)

	if rec.Status != RunStatusSucceeded {
		t.Fatalf("status = %s, error = %v", rec.Status, rec.Error)
	}
	if got := rec.Step("a").Status; got != StepStatusSucceeded {
		t.Errorf("a = %s", got)
	}
	b := rec.Step("b")
	if b.Status != StepStatusSkipped || b.SkipReason != SkipReasonCondition {
		t.Errorf("b = %s/%s", b.Status, b.SkipReason)
	}
	c := rec.Step("c")
	if c.Status != StepStatusSkipped || c.SkipReason != SkipReasonUpstreamSkipped {
		t.Errorf("c = %s/%s", c.Status, c.SkipReason)
	}
}

func TestExecuteFailureSkipCascadeTaintsRun(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/fail" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	catalog := newFakeCatalog()
	catalog.addTask(httpTask("ok", "GET", server.URL+"/ok"))
	catalog.addTask(httpTask("fail", "GET", server.URL+"/fail"))

	wf := workflow("failing", workflowv1.WorkflowSpec{
		Tasks: []workflowv1.Step{
			{ID: "a", TaskRef: "fail"},
			{ID: "b", TaskRef: "ok", DependsOn: []string{"a"}},
			{ID: "c", TaskRef: "ok", DependsOn: []string{"b"}},
		},
	})

	o := New(catalog, Options{HTTPClient: server.Client()})
	rec := o.Execute(context.Background(), wf, nil)

	if rec.Status != RunStatusFailed {
		t.Fatalf("status = %s", rec.Status)
	}
	if got := rec.Step("a").Error.Code; got != ErrCodeHTTP {
		t.Errorf("a error = %s", got)
	}
	b := rec.Step("b")
	if b.SkipReason != SkipReasonUpstreamFailed || b.Error == nil || b.Error.Code != ErrCodeUpstreamFailed {
		t.Errorf("b = %s/%v", b.SkipReason, b.Error)
	}
	c := rec.Step("c")
	if c.SkipReason != SkipReasonUpstreamFailed {
		t.Errorf("c skip reason = %s", c.SkipReason)
	}
}

func TestExecuteContinueOnFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/fail" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	catalog := newFakeCatalog()
	catalog.addTask(httpTask("ok", "GET", server.URL+"/ok"))
	catalog.addTask(httpTask("fail", "GET", server.URL+"/fail"))

	wf := workflow("tolerant", workflowv1.WorkflowSpec{
		Tasks: []workflowv1.Step{
			{ID: "a", TaskRef: "fail", ContinueOnFailure: true},
			{ID: "b", TaskRef: "ok", DependsOn: []string{"a"},
				Input: rawJSON(`{"prev":"{{ tasks.a.output | default:none }}"}`)},
		},
	})

	o := New(catalog, Options{HTTPClient: server.Client()})
	rec := o.Execute(context.Background(), wf, nil)

	if rec.Status != RunStatusSucceeded {
		t.Fatalf("status = %s, error = %v", rec.Status, rec.Error)
	}
	if got := rec.Step("a").Status; got != StepStatusFailed {
		t.Errorf("a = %s", got)
	}
	if got := rec.Step("b").Status; got != StepStatusSucceeded {
		t.Errorf("b = %s", got)
	}
}

func TestExecuteSwitchRouting(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	catalog := newFakeCatalog()
	catalog.addTask(httpTask("premium-handler", "POST", server.URL+"/premium"))
	catalog.addTask(httpTask("standard-handler", "POST", server.URL+"/standard"))

	wf := workflow("routed", workflowv1.WorkflowSpec{
		Input: map[string]workflowv1.InputField{"tier": {Type: "string", Required: true}},
		Tasks: []workflowv1.Step{
			{ID: "route", Switch: &workflowv1.SwitchSpec{
				Value: "{{ input.tier }}",
				Cases: []workflowv1.SwitchCase{
					{Match: rawJSON(`"premium"`), TaskRef: "premium-handler"},
				},
				Default: &workflowv1.SwitchDefault{TaskRef: "standard-handler"},
			}},
		},
	})

	o := New(catalog, Options{HTTPClient: server.Client()})
	rec := o.Execute(context.Background(), wf, map[string]any{"tier": "Premium"})

	if rec.Status != RunStatusSucceeded {
		t.Fatalf("status = %s, error = %v", rec.Status, rec.Error)
	}
	if got := rec.Step("route").TaskRef; got != "premium-handler" {
		t.Errorf("effective taskRef = %q", got)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(paths) != 1 || paths[0] != "/premium" {
		t.Errorf("server saw %v", paths)
	}
}

func TestExecuteForEachPartialFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/items/2" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message":"item 2 gone"}`))
			return
		}
		w.Write([]byte(`{"path":"` + r.URL.Path + `"}`))
	}))
	defer server.Close()

	catalog := newFakeCatalog()
	catalog.addTask(httpTask("fetch-item", "GET", server.URL+"/items/{{ input.id }}"))

	wf := workflow("fan-out", workflowv1.WorkflowSpec{
		Input: map[string]workflowv1.InputField{"ids": {Type: "array", Required: true}},
		Tasks: []workflowv1.Step{
			{ID: "each", TaskRef: "fetch-item",
				ForEach: &workflowv1.ForEachSpec{
					Items:       "{{ input.ids }}",
					ItemVar:     "id",
					MaxParallel: 2,
				},
				Input: rawJSON(`{"id":"{{ forEach.id }}"}`)},
		},
	})

	o := New(catalog, Options{HTTPClient: server.Client()})
	rec := o.Execute(context.Background(), wf, map[string]any{
		"ids": []any{float64(1), float64(2), float64(3)},
	})

	if rec.Status != RunStatusFailed {
		t.Fatalf("status = %s", rec.Status)
	}
	step := rec.Step("each")
	if step.Status != StepStatusFailed {
		t.Fatalf("step = %s", step.Status)
	}

	iterations := step.Output.([]IterationResult)
	if len(iterations) != 3 {
		t.Fatalf("expected 3 iterations, got %d", len(iterations))
	}
	for i, it := range iterations {
		if it.Index != i {
			t.Errorf("iteration %d has index %d", i, it.Index)
		}
	}
	if iterations[0].Error != nil || iterations[2].Error != nil {
		t.Error("iterations 0 and 2 should succeed")
	}
	if iterations[1].Success || iterations[1].Error == nil || iterations[1].Error.Code != ErrCodeHTTP {
		t.Errorf("iteration 1 = %+v", iterations[1])
	}
}

func TestExecuteForEachBoundsParallelism(t *testing.T) {
	t.Parallel()

	// Track the peak number of in-flight requests across the fan-out.
	var inFlight, peak atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(30 * time.Millisecond)
		inFlight.Add(-1)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	catalog := newFakeCatalog()
	catalog.addTask(httpTask("fetch-item", "GET", server.URL+"/items/{{ input.id }}"))

	wf := workflow("bounded-fan-out", workflowv1.WorkflowSpec{
		Input: map[string]workflowv1.InputField{"ids": {Type: "array", Required: true}},
		Tasks: []workflowv1.Step{
			{ID: "each", TaskRef: "fetch-item",
				ForEach: &workflowv1.ForEachSpec{
					Items:       "{{ input.ids }}",
					ItemVar:     "id",
					MaxParallel: 2,
				},
				Input: rawJSON(`{"id":"{{ forEach.id }}"}`)},
		},
	})

	o := New(catalog, Options{HTTPClient: server.Client()})
	rec := o.Execute(context.Background(), wf, map[string]any{
		"ids": []any{float64(1), float64(2), float64(3), float64(4), float64(5), float64(6)},
	})

	if rec.Status != RunStatusSucceeded {
		t.Fatalf("status = %s, error = %v", rec.Status, rec.Error)
	}
	iterations := rec.Step("each").Output.([]IterationResult)
	if len(iterations) != 6 {
		t.Fatalf("expected 6 iterations, got %d", len(iterations))
	}
	for i, it := range iterations {
		if it.Index != i || !it.Success {
			t.Errorf("iteration %d = %+v", i, it)
		}
	}
	if got := peak.Load(); got > 2 {
		t.Errorf("peak concurrent iterations = %d, want at most 2", got)
	}
}

func TestExecuteForEachSwitchReportsStepID(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"handled":"` + r.URL.Path + `"}`))
	}))
	defer server.Close()

	catalog := newFakeCatalog()
	catalog.addTask(httpTask("premium-handler", "POST", server.URL+"/premium"))
	catalog.addTask(httpTask("standard-handler", "POST", server.URL+"/standard"))

	wf := workflow("routed-fan-out", workflowv1.WorkflowSpec{
		Input: map[string]workflowv1.InputField{"tiers": {Type: "array", Required: true}},
		Tasks: []workflowv1.Step{
			{ID: "route-each",
				ForEach: &workflowv1.ForEachSpec{Items: "{{ input.tiers }}", ItemVar: "tier"},
				Switch: &workflowv1.SwitchSpec{
					Value: "{{ forEach.tier }}",
					Cases: []workflowv1.SwitchCase{
						{Match: rawJSON(`"premium"`), TaskRef: "premium-handler"},
					},
					Default: &workflowv1.SwitchDefault{TaskRef: "standard-handler"},
				}},
		},
	})

	notifier := &recordingNotifier{}
	o := New(catalog, Options{Notifier: notifier, HTTPClient: server.Client()})
	rec := o.Execute(context.Background(), wf, map[string]any{
		"tiers": []any{"premium", "basic"},
	})

	if rec.Status != RunStatusSucceeded {
		t.Fatalf("status = %s, error = %v", rec.Status, rec.Error)
	}
	// The fan-out resolves its switch per iteration, so the single started
	// event falls back to the step ID rather than an empty reference.
	if got := notifier.startRef("route-each"); got != "route-each" {
		t.Errorf("started event ref = %q, want %q", got, "route-each")
	}
	if got := rec.Step("route-each").TaskRef; got != "route-each" {
		t.Errorf("step result ref = %q, want %q", got, "route-each")
	}
}

func TestExecuteForEachItemsMustBeArray(t *testing.T) {
	t.Parallel()

	catalog := newFakeCatalog()
	catalog.addTask(httpTask("t", "GET", "http://unused.invalid"))

	wf := workflow("bad-fan-out", workflowv1.WorkflowSpec{
		Input: map[string]workflowv1.InputField{"ids": {Type: "string"}},
		Tasks: []workflowv1.Step{
			{ID: "each", TaskRef: "t",
				ForEach: &workflowv1.ForEachSpec{Items: "{{ input.ids }}", ItemVar: "id"}},
		},
	})

	o := New(catalog, Options{})
	rec := o.Execute(context.Background(), wf, map[string]any{"ids": "not-a-list"})

	if rec.Status != RunStatusFailed {
		t.Fatalf("status = %s", rec.Status)
	}
	if got := rec.Step("each").Error.Code; got != ErrCodeForEachItemsNotArray {
		t.Errorf("error code = %s", got)
	}
}

func TestExecuteSubWorkflow(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"greeting":"hello"}`))
	}))
	defer server.Close()

	catalog := newFakeCatalog()
	catalog.addTask(httpTask("greet", "GET", server.URL))

	child := workflow("child", workflowv1.WorkflowSpec{
		Tasks: []workflowv1.Step{{ID: "greet", TaskRef: "greet"}},
		Output: map[string]string{
			"message": "{{ tasks.greet.output.greeting }}",
		},
	})
	catalog.addWorkflow(child)

	parent := workflow("parent", workflowv1.WorkflowSpec{
		Tasks: []workflowv1.Step{
			{ID: "nested", WorkflowRef: "child"},
		},
		Output: map[string]string{
			"fromChild": "{{ tasks.nested.output.message }}",
		},
	})

	o := New(catalog, Options{HTTPClient: server.Client()})
	rec := o.Execute(context.Background(), parent, nil)

	if rec.Status != RunStatusSucceeded {
		t.Fatalf("status = %s, error = %v", rec.Status, rec.Error)
	}
	if rec.Output["fromChild"] != "hello" {
		t.Errorf("output = %v", rec.Output)
	}
}

func TestExecuteSubWorkflowCycle(t *testing.T) {
	t.Parallel()

	catalog := newFakeCatalog()
	a := workflow("wf-a", workflowv1.WorkflowSpec{
		Tasks: []workflowv1.Step{{ID: "call-b", WorkflowRef: "wf-b"}},
	})
	b := workflow("wf-b", workflowv1.WorkflowSpec{
		Tasks: []workflowv1.Step{{ID: "call-a", WorkflowRef: "wf-a"}},
	})
	catalog.addWorkflow(a)
	catalog.addWorkflow(b)

	o := New(catalog, Options{})
	rec := o.Execute(context.Background(), a, nil)

	if rec.Status != RunStatusFailed {
		t.Fatalf("status = %s", rec.Status)
	}
	if got := rec.Step("call-b").Error.Code; got != ErrCodeSubWorkflowCycle {
		t.Errorf("error code = %s", got)
	}
}

func TestExecuteSubWorkflowDepthCap(t *testing.T) {
	t.Parallel()

	catalog := newFakeCatalog()
	// Each workflow in the chain calls the next one.
	for i := 0; i < 5; i++ {
		catalog.addWorkflow(workflow(fmt.Sprintf("chain-%d", i), workflowv1.WorkflowSpec{
			Tasks: []workflowv1.Step{
				{ID: "next", WorkflowRef: fmt.Sprintf("chain-%d", i+1)},
			},
		}))
	}

	o := New(catalog, Options{MaxSubWorkflowDepth: 3})
	rec := o.Execute(context.Background(), catalog.workflows["default/chain-0"], nil)

	if rec.Status != RunStatusFailed {
		t.Fatalf("status = %s", rec.Status)
	}
	if got := rec.Step("next").Error.Code; got != ErrCodeSubWorkflowTooDeep {
		t.Errorf("error code = %s", got)
	}
}

func TestExecuteCancellation(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
			return
		case <-time.After(5 * time.Second):
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	catalog := newFakeCatalog()
	catalog.addTask(httpTask("hang", "GET", server.URL))

	wf := workflow("cancellable", workflowv1.WorkflowSpec{
		Tasks: []workflowv1.Step{
			{ID: "a", TaskRef: "hang"},
			{ID: "b", TaskRef: "hang", DependsOn: []string{"a"}},
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	o := New(catalog, Options{HTTPClient: server.Client()})
	rec := o.Execute(ctx, wf, nil)

	if rec.Status != RunStatusCancelled {
		t.Fatalf("status = %s", rec.Status)
	}
	if got := rec.Step("a").Error.Code; got != ErrCodeCancelled {
		t.Errorf("in-flight step error = %s", got)
	}
	b := rec.Step("b")
	if b == nil || b.Status != StepStatusSkipped || b.SkipReason != SkipReasonCancelled {
		t.Errorf("undispatched step = %+v", b)
	}
	if rec.CompletedAt.IsZero() {
		t.Error("cancelled run must still return a completed record")
	}
}

func TestExecuteSkippedStepsWriteNullNotUndefined(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	catalog := newFakeCatalog()
	catalog.addTask(httpTask("echo", "GET", server.URL))

	// b never runs, yet its output slot must hold an explicit null so the
	// output mapping can read it and apply a default.
	wf := workflow("phantom", workflowv1.WorkflowSpec{
		Tasks: []workflowv1.Step{
			{ID: "a", TaskRef: "echo"},
			{ID: "b", TaskRef: "echo", Condition: "{{ input.never | default:false }}"},
		},
		Output: map[string]string{
			"rawB":  "{{ tasks.b.output | toJson }}",
			"fromB": "{{ tasks.b.output | default:fallback }}",
		},
	})

	o := New(catalog, Options{HTTPClient: server.Client()})
	rec := o.Execute(context.Background(), wf, nil)

	if rec.Status != RunStatusSucceeded {
		t.Fatalf("status = %s, error = %v", rec.Status, rec.Error)
	}
	if rec.Output["rawB"] != "null" {
		t.Errorf("rawB = %v, want the JSON null literal", rec.Output["rawB"])
	}
	if rec.Output["fromB"] != "fallback" {
		t.Errorf("fromB = %v, want fallback", rec.Output["fromB"])
	}
}
