package components

import (
	"fmt"

	"github.com/movatalk/pipeline/collaborator"
	"github.com/movatalk/pipeline/pipeline"
)

// llmQuery implements the "llm_query" component (spec.md §4.8): send text to
// the remote API connector, publishing the reply to results and
// state.last_response. The api Context slot is shared with local_llm's
// fallback path so both components reuse one connector instance per run.
func llmQuery(params map[string]any, ctx *pipeline.Context) (bool, map[string]any, error) {
	text, _ := params["text"].(string)
	if text == "" {
		return false, nil, pipeline.ValidationError("llm_query", "text is required")
	}
	outputVar, _ := params["output_var"].(string)
	if outputVar == "" {
		return false, nil, pipeline.ValidationError("llm_query", "output_var is required")
	}
	convContext, _ := params["context"].(string)
	apiConfig, _ := params["api_config"].(string)
	useCache := true
	if v, ok := params["use_cache"].(bool); ok {
		useCache = v
	}

	connAny, err := ctx.SlotOrCreate(pipeline.SlotAPI, func() (any, error) {
		return newAPIConnector(ctx, apiConfig, useCache)
	})
	if err != nil {
		return false, nil, fmt.Errorf("building llm connector: %w", err)
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

// newAPIConnector wires a SafeAPIConnector to the cache slot when use_cache
// is set, lazily creating the cache collaborator the same way the cache
// component does — so both share one FileCache instance per run.
func newAPIConnector(ctx *pipeline.Context, apiConfig string, useCache bool) (*collaborator.SafeAPIConnector, error) {
	var cache collaborator.Cache
	if useCache {
		cacheAny, err := ctx.SlotOrCreate(pipeline.SlotCache, func() (any, error) {
			return collaborator.NewFileCache("")
		})
		if err != nil {
			return nil, fmt.Errorf("building cache collaborator: %w", err)
		}
		cache = cacheAny.(collaborator.Cache)
	}
	return collaborator.NewSafeAPIConnector(apiConfig, cache)
}
