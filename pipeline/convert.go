package pipeline

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
)

// MapToStruct decodes a map[string]any (typically the body of a collaborator
// JSON config file, already unmarshalled) into target, using json tags for
// field mapping and tolerant type coercion. Adapted from the teacher's
// mapToStruct, exported for collaborator config loaders.
func MapToStruct(m map[string]any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  target,
		TagName: "json",
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		),
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(m); err != nil {
		return fmt.Errorf("failed to decode map to struct: %w", err)
	}
	return nil
}

// DecodeSteps decodes a raw params value (typically a []any of
// map[string]any, as yaml.v3 decodes a nested sequence-of-mappings into an
// interface{} field) into a []Step, using the Step struct's yaml tags. Used
// by the loop and condition components to turn their steps/true_pipeline/
// false_pipeline params into dispatchable Step values. A nil raw value
// decodes to a nil slice.
func DecodeSteps(raw any) ([]Step, error) {
	if raw == nil {
		return nil, nil
	}
	var steps []Step
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &steps,
		TagName:          "yaml",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create step decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode nested step list: %w", err)
	}
	return steps, nil
}

// StructToMap round-trips s through JSON to produce a plain map, respecting
// json tags — for turning a typed result into the generic map[string]any
// shape the Dispatcher stores under Results. No component in this
// repository calls it; each builds its result map directly.
func StructToMap(s any) (map[string]any, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal struct: %w", err)
	}
	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal to map: %w", err)
	}
	return result, nil
}
