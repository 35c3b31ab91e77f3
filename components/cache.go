package components

import (
	"github.com/movatalk/pipeline/collaborator"
	"github.com/movatalk/pipeline/pipeline"
)

// cacheComponent implements the "cache" component (spec.md §4.8): get, set,
// and clear actions over the cache Context slot, shared with llm_query's
// response cache.
func cacheComponent(params map[string]any, ctx *pipeline.Context) (bool, map[string]any, error) {
	action, _ := params["action"].(string)
	if action == "" {
		return false, nil, pipeline.ValidationError("cache", "action is required")
	}
	cacheFile, _ := params["cache_file"].(string)

	cacheAny, err := ctx.SlotOrCreate(pipeline.SlotCache, func() (any, error) {
		return collaborator.NewFileCache(cacheFile)
	})
	if err != nil {
		return false, nil, err
	}
	cache := cacheAny.(collaborator.Cache)

	key, _ := params["key"].(string)
	outputVar, _ := params["output_var"].(string)

	switch action {
	case "get":
		if key == "" {
			return false, nil, pipeline.ValidationError("cache", "key is required for action %q", action)
		}
		value, hit := cache.Get(key)
		if outputVar != "" {
			ctx.Results[outputVar] = value
		}
		return true, map[string]any{"value": value, "hit": hit}, nil

	case "set":
		if key == "" {
			return false, nil, pipeline.ValidationError("cache", "key is required for action %q", action)
		}
		cache.Set(key, params["value"])
		return true, map[string]any{"key": key}, nil

	case "clear":
		cache.Clear()
		return true, map[string]any{}, nil

	default:
		return false, nil, pipeline.ValidationError("cache", "unknown action %q", action)
	}
}
