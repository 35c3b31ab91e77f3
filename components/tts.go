package components

import (
	"fmt"

	"github.com/movatalk/pipeline/collaborator"
	"github.com/movatalk/pipeline/pipeline"
)

// textToSpeech implements the "text_to_speech" component (spec.md §4.8):
// synthesize text either to the default output device or, when save_to is
// given, to a file. The TTS handle is published into the tts Context slot
// so later steps (e.g. audio_record's announce) reuse it.
func textToSpeech(params map[string]any, ctx *pipeline.Context) (bool, map[string]any, error) {
	text, _ := params["text"].(string)
	if text == "" {
		return false, nil, pipeline.ValidationError("text_to_speech", "text is required")
	}
	voicePath, _ := params["voice_path"].(string)
	saveTo, _ := params["save_to"].(string)

	ttsAny, err := ctx.SlotOrCreate(pipeline.SlotTTS, func() (any, error) {
		return collaborator.NewPiperTTSForVoice(voicePath)
	})
	if err != nil {
		return false, nil, fmt.Errorf("building tts collaborator: %w", err)
	}
	tts := ttsAny.(collaborator.TextToSpeech)

	var ok bool
	if saveTo != "" {
		ok, err = tts.SaveToFile(ctx, text, saveTo)
	} else {
		ok, err = tts.Speak(ctx, text)
	}
	if err != nil {
		return false, nil, err
	}

	result := map[string]any{"spoken": ok}
	if saveTo != "" {
		result["saved_to"] = saveTo
	}
	return ok, result, nil
}
