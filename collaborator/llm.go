package collaborator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// LLMErrorSentinel prefixes every error string an LLMConnector.Query
// returns, per spec.md §6.
const LLMErrorSentinel = "llm_error:"

// LLMConnector queries a remote language model, per spec.md §6's "query(text,
// context?) → text".
type LLMConnector interface {
	Query(ctx context.Context, text, convContext string) (string, error)
}

// childSafeSystemPrompt is the fixed system message every remote query
// carries, translated from movatalk/api/connector.py's SafeAPIConnector
// system_message — the one piece of that file with no technical
// equivalent elsewhere in the stack, so it is kept verbatim in spirit.
const childSafeSystemPrompt = "You are a helpful, friendly, and educational assistant for children. " +
	"Answer briefly, simply, and with enthusiasm. Never use inappropriate, scary, or overly " +
	"complicated content. Always be helpful, kind, and educational. Use language appropriate " +
	"for children, avoid difficult words and complicated concepts. If asked about topics " +
	"unsuitable for children, politely redirect the conversation to something more appropriate."

// APIConfig mirrors movatalk/api/connector.py's SafeAPIConnector defaults.
type APIConfig struct {
	APIKey          string  `json:"api_key"`
	Endpoint        string  `json:"endpoint" default:"https://api.openai.com/v1/chat/completions" validate:"url_format"`
	Model           string  `json:"model" default:"gpt-3.5-turbo"`
	MaxTokens       int     `json:"max_tokens" default:"150" validate:"gt=0"`
	Temperature     float64 `json:"temperature" default:"0.7"`
	ChildSafeFilter bool    `json:"child_safe_filter" default:"true"`
}

// SafeAPIConnector sends chat-completion requests through a resty client,
// the same client-construction shape as the teacher's HTTP plugin, caching
// successful replies and falling back to a small set of canned responses
// when no API key is configured — mirroring query_offline.
type SafeAPIConnector struct {
	cfg    APIConfig
	client *resty.Client
	cache  Cache
}

func NewSafeAPIConnector(configFile string, cache Cache) (*SafeAPIConnector, error) {
	cfg := APIConfig{}
	if err := loadConfig(configFile, &cfg); err != nil {
		return nil, err
	}
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(2)
	return &SafeAPIConnector{cfg: cfg, client: client, cache: cache}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *SafeAPIConnector) Query(ctx context.Context, text, convContext string) (string, error) {
	if c.cfg.APIKey == "" {
		return c.queryOffline(text), nil
	}

	cacheKey := text + "_" + convContext
	if c.cache != nil {
		if cached, ok := c.cache.Get(cacheKey); ok {
			if s, ok := cached.(string); ok {
				return s, nil
			}
		}
	}

	systemMessage := childSafeSystemPrompt
	if convContext != "" {
		systemMessage += " Conversation context: " + convContext
	}

	body := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemMessage},
			{Role: "user", Content: text},
		},
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	}

	var result chatResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+c.cfg.APIKey).
		SetBody(body).
		SetResult(&result).
		Post(c.cfg.Endpoint)
	if err != nil {
		return fmt.Sprintf("%s communication failure: %s", LLMErrorSentinel, err), nil
	}
	if resp.IsError() {
		return fmt.Sprintf("%s api returned %d: %s", LLMErrorSentinel, resp.StatusCode(), resp.String()), nil
	}
	if len(result.Choices) == 0 {
		return fmt.Sprintf("%s empty response from model", LLMErrorSentinel), nil
	}

	content := result.Choices[0].Message.Content
	if c.cache != nil {
		c.cache.Set(cacheKey, content)
	}
	return content, nil
}

// offlineResponses mirrors query_offline's small keyword-matched reply
// table, translated to English for this codebase.
var offlineResponses = map[string]string{
	"hello":     "Hi there! How can I help you today?",
	"hi":        "Hey! Great to hear from you!",
	"how are you": "I'm doing great, thanks for asking! How about you?",
	"what are you doing": "I'm helping you answer questions and learning together with you!",
	"who are you": "I'm your voice assistant. I can answer questions and help you learn.",
	"goodbye":   "Goodbye! It was nice talking with you.",
	"bye":       "Bye bye! See you soon!",
	"thank you": "You're welcome! I'm always happy to help.",
}

func (c *SafeAPIConnector) queryOffline(text string) string {
	lower := strings.ToLower(text)
	for key, response := range offlineResponses {
		if strings.Contains(lower, key) {
			return response
		}
	}
	return "Sorry, I'm currently running offline. I can't answer that without an internet connection."
}
