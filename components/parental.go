package components

import (
	"github.com/movatalk/pipeline/collaborator"
	"github.com/movatalk/pipeline/pipeline"
)

// parentalControl implements the "parental_control" component (spec.md
// §4.8): check_time, check_usage, and filter_input actions over the
// parental_control Context slot.
func parentalControl(params map[string]any, ctx *pipeline.Context) (bool, map[string]any, error) {
	action, _ := params["action"].(string)
	if action == "" {
		return false, nil, pipeline.ValidationError("parental_control", "action is required")
	}
	configFile, _ := params["config_file"].(string)

	pcAny, err := ctx.SlotOrCreate(pipeline.SlotParentalControl, func() (any, error) {
		return collaborator.NewDefaultRuleBasedParentalControl(configFile)
	})
	if err != nil {
		return false, nil, err
	}
	pc := pcAny.(collaborator.ParentalControl)

	outputVar, _ := params["output_var"].(string)

	switch action {
	case "check_time":
		allowed := pc.CheckTimeRestrictions()
		result := map[string]any{"allowed": allowed}
		if outputVar != "" {
			ctx.Results[outputVar] = allowed
		}
		return allowed, result, nil

	case "check_usage":
		if update, _ := params["update_usage"].(bool); update {
			minutes := 1
			if m, ok := numeric(params["usage_minutes"]); ok {
				minutes = int(m)
			}
			pc.UpdateUsage(minutes)
		}
		withinLimit := pc.CheckUsageLimit()
		remaining := pc.GetRemainingTime()
		result := map[string]any{"within_limit": withinLimit, "remaining_minutes": remaining}
		if outputVar != "" {
			ctx.Results[outputVar] = result
		}
		return withinLimit, result, nil

	case "filter_input":
		inputText, _ := params["input_text"].(string)
		filtered, diagnostic := pc.FilterInput(inputText)
		result := map[string]any{"filtered": filtered, "diagnostic": diagnostic}
		if outputVar != "" {
			ctx.Results[outputVar] = filtered
		}
		return true, result, nil

	default:
		return false, nil, pipeline.ValidationError("parental_control", "unknown action %q", action)
	}
}
