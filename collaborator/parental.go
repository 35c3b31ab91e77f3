package collaborator

import (
	"regexp"
	"strings"
	"sync"
	"time"
)

// ParentalControl implements spec.md §6's five-method collaborator
// contract: time-of-day restriction, daily usage budgeting, and a
// profanity/blocklist input filter, grounded in
// kidsvoiceai/safety/parental_control.py.
type ParentalControl interface {
	CheckTimeRestrictions() bool
	CheckUsageLimit() bool
	GetRemainingTime() int
	UpdateUsage(minutes int)
	FilterInput(text string) (filtered string, diagnostic string)
}

// ParentalControlConfig is the JSON shape of ~/.kidsvoiceai/parental_control.json.
type ParentalControlConfig struct {
	AllowedStartHour int      `json:"allowed_start_hour" default:"7" validate:"gte=0,lte=23"`
	AllowedEndHour   int      `json:"allowed_end_hour" default:"20" validate:"gte=0,lte=23"`
	DailyLimitMinutes int     `json:"daily_limit_minutes" default:"60" validate:"gt=0"`
	BlockedWords     []string `json:"blocked_words"`
}

// DefaultRuleBasedParentalControl tracks usage in memory for the lifetime
// of the process — persistence of usage stats across restarts is out of
// scope per spec.md §1's collaborator-implementation carve-out.
type DefaultRuleBasedParentalControl struct {
	cfg   ParentalControlConfig
	now   func() time.Time
	mu    sync.Mutex
	usedMinutes int
}

func NewDefaultRuleBasedParentalControl(configFile string) (*DefaultRuleBasedParentalControl, error) {
	cfg := ParentalControlConfig{}
	if err := loadConfig(configFile, &cfg); err != nil {
		return nil, err
	}
	return &DefaultRuleBasedParentalControl{cfg: cfg, now: time.Now}, nil
}

func (p *DefaultRuleBasedParentalControl) CheckTimeRestrictions() bool {
	hour := p.now().Hour()
	if p.cfg.AllowedStartHour <= p.cfg.AllowedEndHour {
		return hour >= p.cfg.AllowedStartHour && hour < p.cfg.AllowedEndHour
	}
	// Overnight window (e.g. start=20, end=7).
	return hour >= p.cfg.AllowedStartHour || hour < p.cfg.AllowedEndHour
}

func (p *DefaultRuleBasedParentalControl) CheckUsageLimit() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.usedMinutes < p.cfg.DailyLimitMinutes
}

func (p *DefaultRuleBasedParentalControl) GetRemainingTime() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	remaining := p.cfg.DailyLimitMinutes - p.usedMinutes
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (p *DefaultRuleBasedParentalControl) UpdateUsage(minutes int) {
	p.mu.Lock()
	p.usedMinutes += minutes
	p.mu.Unlock()
}

// FilterInput scrubs blocked words from text, returning the filtered
// string and a diagnostic describing what (if anything) was removed —
// spec.md §6's "filter_input(text) → (filtered|null, diagnostic)".
func (p *DefaultRuleBasedParentalControl) FilterInput(text string) (string, string) {
	if len(p.cfg.BlockedWords) == 0 {
		return text, ""
	}

	filtered := text
	var hit []string
	for _, word := range p.cfg.BlockedWords {
		if word == "" {
			continue
		}
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
		if re.MatchString(filtered) {
			hit = append(hit, word)
			filtered = re.ReplaceAllString(filtered, "***")
		}
	}
	if len(hit) == 0 {
		return text, ""
	}
	return filtered, "blocked terms removed: " + strings.Join(hit, ", ")
}
