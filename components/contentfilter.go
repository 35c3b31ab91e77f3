package components

import (
	"github.com/movatalk/pipeline/collaborator"
	"github.com/movatalk/pipeline/pipeline"
)

// contentFilter implements the "content_filter" component (spec.md §4.8):
// sanitize text for age_group and report its educational value.
func contentFilter(params map[string]any, ctx *pipeline.Context) (bool, map[string]any, error) {
	text, _ := params["text"].(string)
	if text == "" {
		return false, nil, pipeline.ValidationError("content_filter", "text is required")
	}
	outputVar, _ := params["output_var"].(string)
	if outputVar == "" {
		return false, nil, pipeline.ValidationError("content_filter", "output_var is required")
	}
	ageGroup, _ := params["age_group"].(string)
	if ageGroup == "" {
		ageGroup = "5-8"
	}
	filterFile, _ := params["filter_file"].(string)

	cfAny, err := ctx.SlotOrCreate(pipeline.SlotContentFilter, func() (any, error) {
		return collaborator.NewKeywordContentFilter(filterFile)
	})
	if err != nil {
		return false, nil, err
	}
	cf := cfAny.(collaborator.ContentFilter)

	sanitized := cf.Sanitize(text, ageGroup)
	educationalValue, topics := cf.EvaluateEducationalValue(sanitized)

	result := map[string]any{
		"sanitized":         sanitized,
		"educational_value": educationalValue,
		"topics":            topics,
	}
	ctx.Results[outputVar] = sanitized
	return true, result, nil
}
