package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	goyaml "gopkg.in/yaml.v3"
)

// variableSetExecutor is a minimal stand-in for the components package's
// variable_set built-in: write params["value"] into the named scope under
// params["name"]. Kept local to avoid a components -> pipeline -> components
// import cycle in tests.
var variableSetExecutor = ExecutorFunc(func(params map[string]any, ctx *Context) (bool, map[string]any, error) {
	name, _ := params["name"].(string)
	value := params["value"]
	scope, _ := params["scope"].(string)
	if scope == "" {
		scope = "variables"
	}
	switch scope {
	case "state":
		ctx.State[name] = value
	case "results":
		ctx.Results[name] = value
	default:
		ctx.Variables[name] = value
	}
	return true, map[string]any{"value": value}, nil
})

func newTestRegistry() *Registry {
	r := NewRegistry()
	r.Register("variable_set", variableSetExecutor)
	return r
}

func TestScenarioLiteralVariableResolution(t *testing.T) {
	doc := &Document{
		Variables: map[string]any{"greeting": "Hi"},
		Steps: []Step{
			{
				Name:      "set_msg",
				Type:      StepComponent,
				Component: "variable_set",
				Params:    map[string]any{"name": "msg", "value": "${variables.greeting}, world"},
			},
		},
	}

	e := NewEngine(newTestRegistry(), nil)
	if err := e.LoadPipeline(doc); err != nil {
		t.Fatal(err)
	}
	ok, _, err := e.Start(context.Background(), false)
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}

	ctx := e.Context()
	if ctx.Variables["msg"] != "Hi, world" {
		t.Fatalf("variables.msg = %v", ctx.Variables["msg"])
	}
	result := ctx.Results["set_msg"].(map[string]any)
	if result["value"] != "Hi, world" {
		t.Fatalf("results.set_msg.value = %v", result["value"])
	}
}

func TestScenarioConditionalSkip(t *testing.T) {
	doc := &Document{
		Steps: []Step{
			{Name: "s1", Type: StepComponent, Component: "variable_set", If: "1 == 2",
				Params: map[string]any{"name": "a", "value": 1}},
			{Name: "s2", Type: StepComponent, Component: "variable_set",
				Params: map[string]any{"name": "b", "value": 2}},
		},
	}

	e := NewEngine(newTestRegistry(), nil)
	if err := e.LoadPipeline(doc); err != nil {
		t.Fatal(err)
	}
	ok, _, err := e.Start(context.Background(), false)
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}

	ctx := e.Context()
	if _, present := ctx.Results["s1"]; present {
		t.Fatal("s1 should not have written a result")
	}
	if ctx.Variables["b"] != 2 {
		t.Fatalf("variables.b = %v", ctx.Variables["b"])
	}
}

func TestScenarioFailureWithContinueOnError(t *testing.T) {
	doc := &Document{
		Steps: []Step{
			{Name: "s1", Type: StepShell, Command: "exit 1", ContinueOnError: true},
			{Name: "s2", Type: StepComponent, Component: "variable_set",
				Params: map[string]any{"name": "ok", "value": 1}},
		},
	}

	e := NewEngine(newTestRegistry(), nil)
	if err := e.LoadPipeline(doc); err != nil {
		t.Fatal(err)
	}
	ok, _, err := e.Start(context.Background(), false)
	if err != nil || !ok {
		t.Fatalf("expected overall success, ok=%v err=%v", ok, err)
	}

	ctx := e.Context()
	if len(ctx.Errors) != 1 {
		t.Fatalf("expected one error entry, got %d", len(ctx.Errors))
	}
	if ctx.Variables["ok"] != 1 {
		t.Fatalf("variables.ok = %v", ctx.Variables["ok"])
	}
}

func TestScenarioFailureAborts(t *testing.T) {
	doc := &Document{
		Steps: []Step{
			{Name: "s1", Type: StepShell, Command: "exit 1", ContinueOnError: false},
			{Name: "s2", Type: StepComponent, Component: "variable_set",
				Params: map[string]any{"name": "ok", "value": 1}},
		},
	}

	e := NewEngine(newTestRegistry(), nil)
	if err := e.LoadPipeline(doc); err != nil {
		t.Fatal(err)
	}
	ok, _, err := e.Start(context.Background(), false)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected overall failure")
	}

	ctx := e.Context()
	if _, present := ctx.Results["s2"]; present {
		t.Fatal("s2 must not run after an aborting failure")
	}
}

func TestStartWithoutLoadFails(t *testing.T) {
	e := NewEngine(newTestRegistry(), nil)
	_, _, err := e.Start(context.Background(), false)
	if err == nil {
		t.Fatal("expected a StateError")
	}
}

func TestStartWhileRunningFails(t *testing.T) {
	doc := &Document{Steps: []Step{
		{Name: "s1", Type: StepComponent, Component: "variable_set",
			Params: map[string]any{"name": "x", "value": 1}},
	}}
	e := NewEngine(newTestRegistry(), nil)
	if err := e.LoadPipeline(doc); err != nil {
		t.Fatal(err)
	}
	e.state = StateRunning
	if _, _, err := e.Start(context.Background(), false); err == nil {
		t.Fatal("expected a StateError while already running")
	}
}

func TestStopCancelsBeforeNextStep(t *testing.T) {
	e := NewEngine(newTestRegistry(), nil)
	doc := &Document{Steps: []Step{
		{Name: "s1", Type: StepComponent, Component: "variable_set",
			Params: map[string]any{"name": "x", "value": 1}},
	}}
	if err := e.LoadPipeline(doc); err != nil {
		t.Fatal(err)
	}
	e.state = StateRunning
	if !e.Stop() {
		t.Fatal("Stop should succeed while running")
	}
	if e.State() != StateRunning {
		t.Fatal("Stop only flags cancellation, it does not itself change state")
	}
	ok, err := e.run(context.Background())
	if err != nil || ok {
		t.Fatalf("a stopped run must report failure: ok=%v err=%v", ok, err)
	}
	if _, present := e.Context().Results["s1"]; present {
		t.Fatal("s1 must not run once Stop has been requested")
	}
	if e.State() != StateCancelled {
		t.Fatalf("state = %s, want %s", e.State(), StateCancelled)
	}
}

func TestSubPipelineExportVariables(t *testing.T) {
	dir := t.TempDir()
	subPath := filepath.Join(dir, "sub.yaml")
	subDoc := []byte(`
steps:
  - name: set_b
    type: component
    component: variable_set
    params:
      name: b
      value: 2
  - name: set_a
    type: component
    component: variable_set
    params:
      name: a
      value: 9
`)
	if err := os.WriteFile(subPath, subDoc, 0o644); err != nil {
		t.Fatal(err)
	}

	loadDocumentFile = func(path string) (*Document, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		var doc Document
		if err := goyaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		if doc.Variables == nil {
			doc.Variables = map[string]any{}
		}
		return &doc, nil
	}
	t.Cleanup(func() {
		loadDocumentFile = func(path string) (*Document, error) {
			return nil, StateError("no document parser registered; import pipeline/yamlfmt")
		}
	})

	doc := &Document{
		Variables: map[string]any{"a": 1},
		Steps: []Step{
			{Name: "run_sub", Type: StepPipeline, Path: subPath, ExportVariables: true},
		},
	}

	e := NewEngine(newTestRegistry(), nil)
	if err := e.LoadPipeline(doc); err != nil {
		t.Fatal(err)
	}
	ok, _, err := e.Start(context.Background(), false)
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}

	ctx := e.Context()
	if len(ctx.Variables) != 2 || ctx.Variables["a"] != 1 || ctx.Variables["b"] != 2 {
		t.Fatalf("variables = %v, want {a: 1, b: 2}", ctx.Variables)
	}
}
