package collaborator

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// LocalLLMConfig mirrors movatalk/api/local_llm.py's LocalLLMConnector
// defaults — an Ollama-shaped generate endpoint with an optional fallback
// to the remote API on local failure.
type LocalLLMConfig struct {
	Model          string  `json:"model" default:"llama2"`
	Endpoint       string  `json:"endpoint" default:"http://localhost:11434/api/generate" validate:"url_format"`
	Temperature    float64 `json:"temperature" default:"0.7"`
	MaxTokens      int     `json:"max_tokens" default:"500" validate:"gt=0"`
	FallbackToAPI  bool    `json:"fallback_to_api" default:"true"`
	SystemPrompt   string  `json:"system_prompt" default:"You are a helpful, friendly, and educational assistant for children. Answer briefly, simply, and with enthusiasm."`
}

type ollamaGenerateRequest struct {
	Model   string `json:"model"`
	Prompt  string `json:"prompt"`
	Stream  bool   `json:"stream"`
	Options struct {
		Temperature float64 `json:"temperature"`
	} `json:"options"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
}

// LocalLLMConnector talks to an Ollama-compatible /api/generate endpoint,
// falling back to a remote SafeAPIConnector when the local call fails and
// FallbackToAPI is set — the same use_local_first / fallback_to_api
// two-tier strategy as the Python original.
type LocalLLMConnector struct {
	cfg      LocalLLMConfig
	client   *resty.Client
	fallback LLMConnector
}

func NewLocalLLMConnector(configFile string, fallback LLMConnector) (*LocalLLMConnector, error) {
	cfg := LocalLLMConfig{}
	if err := loadConfig(configFile, &cfg); err != nil {
		return nil, err
	}
	client := resty.New().SetTimeout(30 * time.Second)
	return &LocalLLMConnector{cfg: cfg, client: client, fallback: fallback}, nil
}

func (l *LocalLLMConnector) Query(ctx context.Context, text, convContext string) (string, error) {
	prompt := l.cfg.SystemPrompt
	if convContext != "" {
		prompt += " Conversation context: " + convContext
	}
	prompt += "\n\n" + text

	req := ollamaGenerateRequest{Model: l.cfg.Model, Prompt: prompt, Stream: false}
	req.Options.Temperature = l.cfg.Temperature

	var result ollamaGenerateResponse
	resp, err := l.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		Post(l.cfg.Endpoint)

	if err == nil && !resp.IsError() {
		return result.Response, nil
	}

	if l.cfg.FallbackToAPI && l.fallback != nil {
		return l.fallback.Query(ctx, text, convContext)
	}

	if err != nil {
		return fmt.Sprintf("%s local model unreachable: %s", LLMErrorSentinel, err), nil
	}
	return fmt.Sprintf("%s local model returned %d", LLMErrorSentinel, resp.StatusCode()), nil
}
