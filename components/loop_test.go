package components

import (
	"context"
	"testing"

	"github.com/movatalk/pipeline/pipeline"
)

func newLoopTestEngine() *pipeline.Engine {
	registry := pipeline.NewRegistry()
	Register(registry)
	return pipeline.NewEngine(registry, nil)
}

// TestLoopCountWritesFreshIndexEachIteration exercises the "Loop count"
// scenario: a count loop of 3 iterations must see variables.loop_index
// change on each pass, not the value resolved before the loop began.
func TestLoopCountWritesFreshIndexEachIteration(t *testing.T) {
	doc := &pipeline.Document{
		Steps: []pipeline.Step{
			{
				Name:      "repeat",
				Type:      pipeline.StepComponent,
				Component: "loop",
				Params: map[string]any{
					"type":       "count",
					"iterations": 3,
					"steps": []any{
						map[string]any{
							"name":      "record_index",
							"type":      "component",
							"component": "variable_set",
							"params": map[string]any{
								"name":  "x",
								"value": "${variables.loop_index}",
							},
						},
					},
				},
			},
		},
	}

	e := newLoopTestEngine()
	if err := e.LoadPipeline(doc); err != nil {
		t.Fatal(err)
	}
	ok, _, err := e.Start(context.Background(), false)
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}

	ctx := e.Context()
	if ctx.Variables["x"] != 2 {
		t.Fatalf("variables.x = %v (%T), want int 2", ctx.Variables["x"], ctx.Variables["x"])
	}
	result := ctx.Results["repeat"].(map[string]any)
	if result["iterations"] != 3 {
		t.Fatalf("iterations = %v, want 3", result["iterations"])
	}
}

func TestLoopForIteratesCollection(t *testing.T) {
	doc := &pipeline.Document{
		Steps: []pipeline.Step{
			{
				Name:      "each",
				Type:      pipeline.StepComponent,
				Component: "loop",
				Params: map[string]any{
					"type":       "for",
					"item_var":   "item",
					"collection": []any{"a", "b", "c"},
					"steps": []any{
						map[string]any{
							"name":      "record_item",
							"type":      "component",
							"component": "variable_set",
							"params": map[string]any{
								"name":  "last_item",
								"value": "${variables.item}",
							},
						},
					},
				},
			},
		},
	}

	e := newLoopTestEngine()
	if err := e.LoadPipeline(doc); err != nil {
		t.Fatal(err)
	}
	ok, _, err := e.Start(context.Background(), false)
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}

	ctx := e.Context()
	if ctx.Variables["last_item"] != "c" {
		t.Fatalf("variables.last_item = %v, want c", ctx.Variables["last_item"])
	}
}

func TestLoopStopsOnInnerFailure(t *testing.T) {
	doc := &pipeline.Document{
		Steps: []pipeline.Step{
			{
				Name:      "repeat",
				Type:      pipeline.StepComponent,
				Component: "loop",
				Params: map[string]any{
					"type":       "count",
					"iterations": 5,
					"steps": []any{
						map[string]any{
							"name":    "always_fails",
							"type":    "shell",
							"command": "exit 1",
						},
					},
				},
			},
		},
	}

	e := newLoopTestEngine()
	if err := e.LoadPipeline(doc); err != nil {
		t.Fatal(err)
	}
	ok, _, err := e.Start(context.Background(), false)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected the run to fail once the loop's inner step fails")
	}
}
