package components

import "github.com/movatalk/pipeline/pipeline"

// conditionComponent implements the "condition" component (spec.md §4.8):
// evaluate condition, then run the chosen branch's step list as an inline
// sub-pipeline sharing the current Context directly (spec.md §5 — writes
// from the branch are visible to the rest of the run immediately, unlike a
// "pipeline"-type step's fresh sub-Context).
func conditionComponent(params map[string]any, ctx *pipeline.Context) (bool, map[string]any, error) {
	rawExpr, _ := params["condition"].(string)
	if rawExpr == "" {
		return false, nil, pipeline.ValidationError("condition", "condition is required")
	}
	outputVar, _ := params["output_var"].(string)

	outcome := pipeline.EvaluateCondition("condition", rawExpr, ctx)
	if outputVar != "" {
		ctx.Results[outputVar] = outcome
	}

	branchKey := "false_pipeline"
	if outcome {
		branchKey = "true_pipeline"
	}
	branchRaw, hasBranch := params[branchKey]
	result := map[string]any{"condition": outcome}
	if !hasBranch || branchRaw == nil {
		return true, result, nil
	}

	steps, err := pipeline.DecodeSteps(branchRaw)
	if err != nil {
		return false, nil, err
	}

	success, err := pipeline.RunSteps(ctx, ctx, steps)
	if err != nil {
		return false, nil, err
	}
	return success, result, nil
}
