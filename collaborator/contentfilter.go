package collaborator

import (
	"regexp"
	"strings"
)

// ContentFilter sanitises text for a target age group and reports the
// educational value of a passage, per spec.md §6's "sanitize_content(text,
// age_group) → text, evaluate_educational_value(text) → {educational_value,
// topics}".
type ContentFilter interface {
	Sanitize(text, ageGroup string) string
	EvaluateEducationalValue(text string) (educationalValue float64, topics []string)
}

// ContentFilterConfig holds the word list and topic keyword table loaded
// from filter_file, keeping the filter's rules data-driven rather than
// hardcoded.
type ContentFilterConfig struct {
	BlockedWords []string            `json:"blocked_words"`
	TopicKeywords map[string][]string `json:"topic_keywords"`
}

var defaultTopicKeywords = map[string][]string{
	"science":     {"planet", "animal", "experiment", "space", "energy"},
	"math":        {"number", "count", "add", "subtract", "shape"},
	"reading":     {"book", "story", "word", "letter", "read"},
	"nature":      {"tree", "flower", "ocean", "weather", "forest"},
}

// KeywordContentFilter implements ContentFilter with a blocklist scrub and
// a keyword-matched educational-topic scorer — the same "evaluate via
// predefined keyword lookup" shape the Python original uses for its
// offline response table.
type KeywordContentFilter struct {
	cfg ContentFilterConfig
}

func NewKeywordContentFilter(configFile string) (*KeywordContentFilter, error) {
	cfg := ContentFilterConfig{}
	if err := loadConfig(configFile, &cfg); err != nil {
		return nil, err
	}
	if cfg.TopicKeywords == nil {
		cfg.TopicKeywords = defaultTopicKeywords
	}
	return &KeywordContentFilter{cfg: cfg}, nil
}

func (f *KeywordContentFilter) Sanitize(text, ageGroup string) string {
	sanitized := text
	for _, word := range f.cfg.BlockedWords {
		if word == "" {
			continue
		}
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
		sanitized = re.ReplaceAllString(sanitized, "***")
	}
	return sanitized
}

func (f *KeywordContentFilter) EvaluateEducationalValue(text string) (float64, []string) {
	lower := strings.ToLower(text)
	var topics []string
	matches := 0
	words := strings.Fields(lower)

	for topic, keywords := range f.cfg.TopicKeywords {
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				topics = append(topics, topic)
				matches++
				break
			}
		}
	}

	if len(words) == 0 {
		return 0, topics
	}
	value := float64(matches) / float64(len(f.cfg.TopicKeywords))
	if value > 1 {
		value = 1
	}
	return value, topics
}
