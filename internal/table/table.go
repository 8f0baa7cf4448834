// Package table converts unstructured text into a list of uniform rows
// using a chat model.
package table

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog"
	"github.com/summarease/summarease/internal/apperr"
	"github.com/summarease/summarease/internal/inference"
	"github.com/summarease/summarease/internal/metrics"
)

const promptPrefix = "You are a data formatting assistant. Convert the following unstructured text into a valid JSON array of objects. " +
	"Ensure all objects have the same keys. Do not include any markdown formatting (like ```json), just return the raw JSON.\n\nData:\n"

const maxTokens = 1000

// Row is one table row. Key sets are whatever the model produced; uniformity
// across rows is requested, not enforced.
type Row = map[string]any

// Chatter is the chat capability the generator needs.
type Chatter interface {
	Complete(ctx context.Context, req inference.ChatRequest) (string, error)
}

// Generator asks the chat model for rows and parses its reply.
type Generator struct {
	chat Chatter
	log  zerolog.Logger
}

// New creates a table generator.
func New(chat Chatter, log zerolog.Logger) *Generator {
	return &Generator{
		chat: chat,
		log:  log.With().Str("component", "table").Logger(),
	}
}

// Generate returns the rows extracted from data.
func (g *Generator) Generate(ctx context.Context, data string) ([]Row, error) {
	if strings.TrimSpace(data) == "" {
		return nil, apperr.New(apperr.Validation, "Data is required")
	}

	raw, err := g.chat.Complete(ctx, inference.ChatRequest{
		User:      promptPrefix + data,
		MaxTokens: maxTokens,
	})
	if err != nil {
		g.log.Error().Err(err).Msg("table generation failed")
		return nil, apperr.Wrap(apperr.RemoteService, err, "Failed to generate table")
	}

	rows, err := Parse(raw)
	if err != nil {
		metrics.TableParseFailuresTotal.Inc()
		g.log.Warn().Err(err).Str("raw", raw).Msg("model output is not a JSON array")
		return nil, err
	}
	return rows, nil
}

// StripFences removes Markdown code fence markers anywhere in s.
func StripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// Parse decodes model output into rows. The result must be a JSON array
// whose elements are all objects.
func Parse(raw string) ([]Row, error) {
	var rows []Row
	if err := json.Unmarshal([]byte(StripFences(raw)), &rows); err != nil {
		return nil, apperr.Wrap(apperr.MalformedTable, err, "Failed to parse AI output as JSON")
	}
	if rows == nil {
		return nil, apperr.New(apperr.MalformedTable, "Failed to parse AI output as JSON")
	}
	for _, r := range rows {
		if r == nil {
			return nil, apperr.New(apperr.MalformedTable, "Failed to parse AI output as JSON")
		}
	}
	return rows, nil
}
