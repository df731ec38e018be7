package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"talent-match/internal/config"
	"talent-match/internal/domain/resume"
)

var (
	ErrEmptyResponse = errors.New("no structured data returned from ai")
	ErrMissingFields = errors.New("ai response missing required fields")
	ErrUnavailable   = errors.New("ai extractor not configured")
)

// Extractor turns raw resume text into structured data.
type Extractor interface {
	ExtractResume(ctx context.Context, text string) (resume.Parsed, error)
}

func New(ctx context.Context, cfg config.AIConfig) (Extractor, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("empty AI_API_KEY")
	}
	switch cfg.Provider {
	case config.AIProviderGemini:
		return NewGemini(ctx, cfg)
	default:
		return NewOpenAI(cfg), nil
	}
}

type unavailable struct {
	cause error
}

// Unavailable returns an Extractor that fails every call with ErrUnavailable,
// letting the API start without AI credentials.
func Unavailable(cause error) Extractor {
	return unavailable{cause: cause}
}

func (u unavailable) ExtractResume(context.Context, string) (resume.Parsed, error) {
	return resume.Parsed{}, fmt.Errorf("%w: %v", ErrUnavailable, u.cause)
}

// decodeParsed validates the extractor payload. Name and skills are required;
// blank skills are dropped and the remaining ones trimmed.
func decodeParsed(raw string) (resume.Parsed, error) {
	raw = cleanJSONBlock(raw)
	if raw == "" {
		return resume.Parsed{}, ErrEmptyResponse
	}

	var payload struct {
		Name            string          `json:"name"`
		Email           string          `json:"email"`
		Phone           string          `json:"phone"`
		Skills          []string        `json:"skills"`
		ExperienceYears json.RawMessage `json:"experience_years"`
		Education       string          `json:"education"`
		Summary         string          `json:"summary"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return resume.Parsed{}, fmt.Errorf("decode ai response: %w", err)
	}

	p := resume.Parsed{
		Name:            strings.TrimSpace(payload.Name),
		Email:           strings.TrimSpace(payload.Email),
		Phone:           strings.TrimSpace(payload.Phone),
		ExperienceYears: parseYears(payload.ExperienceYears),
		Education:       strings.TrimSpace(payload.Education),
		Summary:         strings.TrimSpace(payload.Summary),
		Skills:          make([]string, 0, len(payload.Skills)),
	}
	for _, s := range payload.Skills {
		if s = strings.TrimSpace(s); s != "" {
			p.Skills = append(p.Skills, s)
		}
	}

	if p.Name == "" || payload.Skills == nil {
		return resume.Parsed{}, ErrMissingFields
	}
	return p, nil
}

// Models sometimes answer "5" or "5+" instead of a number.
func parseYears(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0
	}
	s = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(s), "+"))
	if _, err := fmt.Sscanf(s, "%g", &f); err != nil {
		return 0
	}
	return f
}

func cleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
