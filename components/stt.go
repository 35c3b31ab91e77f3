package components

import (
	"fmt"
	"strings"

	"github.com/movatalk/pipeline/collaborator"
	"github.com/movatalk/pipeline/pipeline"
)

// speechToText implements the "speech_to_text" component (spec.md §4.8):
// transcribe audioPath (already a resolved string by the time Execute sees
// it — the Dispatcher resolves every params value before invocation) and
// publish the text to both results and state.last_transcript.
func speechToText(params map[string]any, ctx *pipeline.Context) (bool, map[string]any, error) {
	audioPath, _ := params["audio_path"].(string)
	if audioPath == "" {
		return false, nil, pipeline.ValidationError("speech_to_text", "audio_path is required")
	}
	outputVar, _ := params["output_var"].(string)
	if outputVar == "" {
		return false, nil, pipeline.ValidationError("speech_to_text", "output_var is required")
	}
	modelPath, _ := params["model_path"].(string)
	language, _ := params["language"].(string)
	if language == "" {
		language = "auto"
	}

	sttAny, err := ctx.SlotOrCreate("speech_to_text", func() (any, error) {
		return collaborator.NewWhisperSTTForModel(modelPath, language)
	})
	if err != nil {
		return false, nil, fmt.Errorf("building stt collaborator: %w", err)
	}
	stt := sttAny.(collaborator.SpeechToText)

	text, err := stt.Transcribe(ctx, audioPath)
	if err != nil {
		return false, nil, err
	}
	if strings.HasPrefix(text, collaborator.STTErrorSentinel) {
		return false, map[string]any{"error": text}, nil
	}

	ctx.Results[outputVar] = text
	ctx.State["last_transcript"] = text
	return true, map[string]any{outputVar: text}, nil
}
