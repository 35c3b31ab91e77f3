package components

import "github.com/movatalk/pipeline/pipeline"

// variableSet implements the "variable_set" component (spec.md §4.8): write
// value into the named scope. value has already passed through the
// Dispatcher's Variable Resolver by the time Execute sees it.
func variableSet(params map[string]any, ctx *pipeline.Context) (bool, map[string]any, error) {
	name, _ := params["name"].(string)
	if name == "" {
		return false, nil, pipeline.ValidationError("variable_set", "name is required")
	}
	value := params["value"]
	scope, _ := params["scope"].(string)
	if scope == "" {
		scope = "variables"
	}

	switch scope {
	case "variables":
		ctx.Variables[name] = value
	case "state":
		ctx.State[name] = value
	case "results":
		ctx.Results[name] = value
	default:
		return false, nil, pipeline.ValidationError("variable_set", "unknown scope %q", scope)
	}

	return true, map[string]any{"name": name, "value": value, "scope": scope}, nil
}
