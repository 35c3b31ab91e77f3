package components

import (
	"context"
	"testing"

	"github.com/movatalk/pipeline/pipeline"
)

func newConditionTestEngine() *pipeline.Engine {
	registry := pipeline.NewRegistry()
	Register(registry)
	return pipeline.NewEngine(registry, nil)
}

// TestConditionTrueBranchSharesContextDirectly confirms spec.md §5's
// "condition shares Context directly" rule: a variable_set in the
// true_pipeline branch is visible to a later top-level step without going
// through a sub-pipeline export step.
func TestConditionTrueBranchSharesContextDirectly(t *testing.T) {
	doc := &pipeline.Document{
		Variables: map[string]any{"mood": "happy"},
		Steps: []pipeline.Step{
			{
				Name:      "branch",
				Type:      pipeline.StepComponent,
				Component: "condition",
				Params: map[string]any{
					"condition":  `variables.mood == "happy"`,
					"output_var": "branch_outcome",
					"true_pipeline": []any{
						map[string]any{
							"name":      "mark_true",
							"type":      "component",
							"component": "variable_set",
							"params":    map[string]any{"name": "path_taken", "value": "true"},
						},
					},
					"false_pipeline": []any{
						map[string]any{
							"name":      "mark_false",
							"type":      "component",
							"component": "variable_set",
							"params":    map[string]any{"name": "path_taken", "value": "false"},
						},
					},
				},
			},
			{
				Name:      "after_branch",
				Type:      pipeline.StepComponent,
				Component: "variable_set",
				Params:    map[string]any{"name": "saw_path_taken", "value": "${variables.path_taken}"},
			},
		},
	}

	e := newConditionTestEngine()
	if err := e.LoadPipeline(doc); err != nil {
		t.Fatal(err)
	}
	ok, _, err := e.Start(context.Background(), false)
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}

	ctx := e.Context()
	if ctx.Variables["path_taken"] != "true" {
		t.Fatalf("variables.path_taken = %v, want true", ctx.Variables["path_taken"])
	}
	if ctx.Variables["saw_path_taken"] != "true" {
		t.Fatalf("a later step did not observe the branch's write: saw_path_taken = %v", ctx.Variables["saw_path_taken"])
	}
	if ctx.Results["branch_outcome"] != true {
		t.Fatalf("results.branch_outcome = %v, want true", ctx.Results["branch_outcome"])
	}
}

func TestConditionFalseBranchSkipsTrueSteps(t *testing.T) {
	doc := &pipeline.Document{
		Variables: map[string]any{"mood": "sad"},
		Steps: []pipeline.Step{
			{
				Name:      "branch",
				Type:      pipeline.StepComponent,
				Component: "condition",
				Params: map[string]any{
					"condition": `variables.mood == "happy"`,
					"true_pipeline": []any{
						map[string]any{
							"name":      "mark_true",
							"type":      "component",
							"component": "variable_set",
							"params":    map[string]any{"name": "path_taken", "value": "true"},
						},
					},
				},
			},
		},
	}

	e := newConditionTestEngine()
	if err := e.LoadPipeline(doc); err != nil {
		t.Fatal(err)
	}
	ok, _, err := e.Start(context.Background(), false)
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}

	ctx := e.Context()
	if _, present := ctx.Variables["path_taken"]; present {
		t.Fatal("true_pipeline must not run when the condition is false")
	}
}

func TestConditionWithoutMatchingBranchSucceeds(t *testing.T) {
	doc := &pipeline.Document{
		Variables: map[string]any{"mood": "sad"},
		Steps: []pipeline.Step{
			{
				Name:      "branch",
				Type:      pipeline.StepComponent,
				Component: "condition",
				Params: map[string]any{
					"condition": `variables.mood == "happy"`,
					"true_pipeline": []any{
						map[string]any{
							"name":      "mark_true",
							"type":      "component",
							"component": "variable_set",
							"params":    map[string]any{"name": "path_taken", "value": "true"},
						},
					},
				},
			},
		},
	}

	e := newConditionTestEngine()
	if err := e.LoadPipeline(doc); err != nil {
		t.Fatal(err)
	}
	ok, _, err := e.Start(context.Background(), false)
	if err != nil || !ok {
		t.Fatalf("a condition step with no false_pipeline must still succeed: ok=%v err=%v", ok, err)
	}
}
