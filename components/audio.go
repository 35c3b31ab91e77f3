// Package components implements the built-in executors enumerated in
// spec.md §4.8, each a thin contract over a collaborator from the
// collaborator package, registered with a pipeline.Registry by Register.
package components

import (
	"fmt"
	"time"

	"github.com/movatalk/pipeline/collaborator"
	"github.com/movatalk/pipeline/pipeline"
)

// audioRecord implements the "audio_record" component (spec.md §4.8):
// capture `duration` seconds of audio and publish the artifact path.
func audioRecord(params map[string]any, ctx *pipeline.Context) (bool, map[string]any, error) {
	outputVar, ok := params["output_var"].(string)
	if !ok || outputVar == "" {
		return false, nil, pipeline.ValidationError("audio_record", "output_var is required")
	}

	duration := 5.0
	if d, ok := numeric(params["duration"]); ok {
		duration = d
	}

	announce, _ := params["announce"].(bool)
	announceMessage, _ := params["announce_message"].(string)

	audioSlot, err := ctx.SlotOrCreate(pipeline.SlotTTS, func() (any, error) {
		return collaborator.NewPiperTTS("")
	})
	if err != nil {
		return false, nil, fmt.Errorf("building tts collaborator: %w", err)
	}
	if announce {
		if announceMessage == "" {
			announceMessage = "Listening..."
		}
		if tts, ok := audioSlot.(collaborator.TextToSpeech); ok {
			_, _ = tts.Speak(ctx, announceMessage)
		}
	}

	rec, err := ctx.SlotOrCreate("audio_recorder", func() (any, error) {
		return collaborator.NewRecorderAudio("")
	})
	if err != nil {
		return false, nil, fmt.Errorf("building audio collaborator: %w", err)
	}
	recorder := rec.(collaborator.Audio)

	path, err := recorder.Record(ctx, time.Duration(duration*float64(time.Second)))
	if err != nil {
		return false, nil, err
	}

	ctx.Results[outputVar] = path
	return true, map[string]any{outputVar: path}, nil
}

func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
