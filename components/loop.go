package components

import "github.com/movatalk/pipeline/pipeline"

// loopComponent implements the "loop" component (spec.md §4.8): iterate a
// nested step list up to max_iterations, writing variables.loop_index (and
// variables[item_var] for type "for") before each iteration, terminating
// early on inner failure or cooperative cancellation.
func loopComponent(params map[string]any, ctx *pipeline.Context) (bool, map[string]any, error) {
	loopType, _ := params["type"].(string)
	switch loopType {
	case "count", "while", "for":
	default:
		return false, nil, pipeline.ValidationError("loop", "type must be one of count, while, for")
	}

	stepsRaw, hasSteps := params["steps"]
	if !hasSteps {
		return false, nil, pipeline.ValidationError("loop", "steps is required")
	}
	steps, err := pipeline.DecodeSteps(stepsRaw)
	if err != nil {
		return false, nil, err
	}

	maxIterations := 100
	if m, ok := numeric(params["max_iterations"]); ok {
		maxIterations = int(m)
	}
	itemVar, _ := params["item_var"].(string)
	conditionExpr, _ := params["condition"].(string)

	var collection []any
	if loopType == "for" {
		collection, _ = params["collection"].([]any)
	}
	iterationsTarget := 0
	if loopType == "count" {
		if n, ok := numeric(params["iterations"]); ok {
			iterationsTarget = int(n)
		}
	}

	iterations := 0
	for {
		if iterations >= maxIterations {
			break
		}
		switch loopType {
		case "count":
			if iterations >= iterationsTarget {
				return true, map[string]any{"iterations": iterations}, nil
			}
		case "while":
			if conditionExpr != "" && !pipeline.EvaluateCondition("loop", conditionExpr, ctx) {
				return true, map[string]any{"iterations": iterations}, nil
			}
		case "for":
			if iterations >= len(collection) {
				return true, map[string]any{"iterations": iterations}, nil
			}
			if itemVar != "" {
				ctx.Variables[itemVar] = collection[iterations]
			}
		}

		ctx.Variables["loop_index"] = iterations

		success, err := pipeline.RunSteps(ctx, ctx, steps)
		if err != nil {
			return false, nil, err
		}
		iterations++
		if !success {
			return false, map[string]any{"iterations": iterations}, nil
		}
		if ctx.Err() != nil {
			return false, map[string]any{"iterations": iterations}, nil
		}
	}

	return true, map[string]any{"iterations": iterations}, nil
}
