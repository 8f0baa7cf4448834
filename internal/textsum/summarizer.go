package textsum

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/summarease/summarease/internal/apperr"
	"github.com/summarease/summarease/internal/inference"
)

// SummaryType selects the instruction template.
type SummaryType string

const (
	Short    SummaryType = "short"
	Detailed SummaryType = "detailed"
)

const (
	systemPrompt = "You are an expert summarizer. Improved readability is your goal. Always output valid Markdown."

	shortInstruction    = "Provide a concise summary in bullet points (Markdown)."
	detailedInstruction = "Provide a detailed structured summary. Use Markdown headers (###), bold text for key terms, and bullet points for lists."

	maxTokens   = 800
	temperature = 0.7
)

// ParseSummaryType validates a request value. Empty means Detailed.
func ParseSummaryType(s string) (SummaryType, error) {
	switch SummaryType(strings.ToLower(strings.TrimSpace(s))) {
	case "", Detailed:
		return Detailed, nil
	case Short:
		return Short, nil
	}
	return "", apperr.New(apperr.Validation, `type must be "short" or "detailed"`)
}

func (t SummaryType) instruction() string {
	if t == Short {
		return shortInstruction
	}
	return detailedInstruction
}

// Chatter is the chat capability the summarizer needs.
type Chatter interface {
	Complete(ctx context.Context, req inference.ChatRequest) (string, error)
}

// Summarizer turns free text into a Markdown summary.
type Summarizer struct {
	chat Chatter
	log  zerolog.Logger
}

// New creates a text summarizer.
func New(chat Chatter, log zerolog.Logger) *Summarizer {
	return &Summarizer{
		chat: chat,
		log:  log.With().Str("component", "textsum").Logger(),
	}
}

// Summarize returns the model's Markdown as-is.
func (s *Summarizer) Summarize(ctx context.Context, text string, typ SummaryType) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", apperr.New(apperr.Validation, "Text is required")
	}

	summary, err := s.chat.Complete(ctx, inference.ChatRequest{
		System:      systemPrompt,
		User:        typ.instruction() + "\n\nText:\n" + text,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		s.log.Error().Err(err).Str("type", string(typ)).Msg("text summary failed")
		return "", apperr.Wrap(apperr.RemoteService, err, "Failed to summarize text")
	}
	return summary, nil
}
