package components

import "github.com/movatalk/pipeline/pipeline"

// Register adds every built-in component enumerated in spec.md §4.8 to
// registry, under the component names the Document Parser expects.
func Register(registry *pipeline.Registry) {
	registry.Register("audio_record", pipeline.ExecutorFunc(audioRecord))
	registry.Register("speech_to_text", pipeline.ExecutorFunc(speechToText))
	registry.Register("text_to_speech", pipeline.ExecutorFunc(textToSpeech))
	registry.Register("llm_query", pipeline.ExecutorFunc(llmQuery))
	registry.Register("local_llm", pipeline.ExecutorFunc(localLLM))
	registry.Register("parental_control", pipeline.ExecutorFunc(parentalControl))
	registry.Register("content_filter", pipeline.ExecutorFunc(contentFilter))
	registry.Register("cache", pipeline.ExecutorFunc(cacheComponent))
	registry.Register("logger", pipeline.ExecutorFunc(loggerComponent))
	registry.Register("variable_set", pipeline.ExecutorFunc(variableSet))
	registry.Register("condition", pipeline.ExecutorFunc(conditionComponent))
	registry.Register("loop", pipeline.ExecutorFunc(loopComponent))
	registry.Register("timer", pipeline.ExecutorFunc(timerComponent))
}
