package components

import (
	"fmt"

	"github.com/movatalk/pipeline/collaborator"
	"github.com/movatalk/pipeline/pipeline"
)

// localLLM implements the "local_llm" component (spec.md §4.8): query an
// on-device model, falling back to the remote connector when fallback_to_api
// is set and the local call fails.
func localLLM(params map[string]any, ctx *pipeline.Context) (bool, map[string]any, error) {
	text, _ := params["text"].(string)
	if text == "" {
		return false, nil, pipeline.ValidationError("local_llm", "text is required")
	}
	outputVar, _ := params["output_var"].(string)
	if outputVar == "" {
		return false, nil, pipeline.ValidationError("local_llm", "output_var is required")
	}
	convContext, _ := params["context"].(string)
	configFile, _ := params["config_file"].(string)
	fallbackToAPI := true
	if v, ok := params["fallback_to_api"].(bool); ok {
		fallbackToAPI = v
	}
	useCache := true
	if v, ok := params["use_cache"].(bool); ok {
		useCache = v
	}

	connAny, err := ctx.SlotOrCreate(pipeline.SlotLocalLLM, func() (any, error) {
		var fallback collaborator.LLMConnector
		if fallbackToAPI {
			apiAny, err := ctx.SlotOrCreate(pipeline.SlotAPI, func() (any, error) {
				return newAPIConnector(ctx, "", useCache)
			})
			if err != nil {
				return nil, fmt.Errorf("building fallback api connector: %w", err)
			}
			fallback = apiAny.(collaborator.LLMConnector)
		}
		return collaborator.NewLocalLLMConnector(configFile, fallback)
	})
	if err != nil {
		return false, nil, fmt.Errorf("building local llm connector: %w", err)
	}
	conn := connAny.(collaborator.LLMConnector)

	reply, err := conn.Query(ctx, text, convContext)
	if err != nil {
		return false, nil, err
	}

	ctx.Results[outputVar] = reply
	ctx.State["last_response"] = reply
	return true, map[string]any{outputVar: reply}, nil
}
