package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// Summary length bounds sent with every summarization request, in tokens.
const (
	SummaryMinLength = 30
	SummaryMaxLength = 150
)

// SummarizationClient calls a per-model summarization endpoint.
type SummarizationClient struct {
	t     *transport
	url   string
	model string
}

type summarizationRequest struct {
	Inputs     string                  `json:"inputs"`
	Parameters summarizationParameters `json:"parameters"`
}

type summarizationParameters struct {
	MinLength int `json:"min_length"`
	MaxLength int `json:"max_length"`
}

type summarizationResult struct {
	SummaryText string `json:"summary_text"`
}

// summarizationResponse accepts both the list form the provider normally
// returns and a bare object.
type summarizationResponse []summarizationResult

func (r *summarizationResponse) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '{' {
		var one summarizationResult
		if err := json.Unmarshal(b, &one); err != nil {
			return err
		}
		*r = summarizationResponse{one}
		return nil
	}
	var many []summarizationResult
	if err := json.Unmarshal(b, &many); err != nil {
		return err
	}
	*r = many
	return nil
}

// Model returns the configured summarization model.
func (c *SummarizationClient) Model() string { return c.model }

// Summarize returns a summary of text bounded by SummaryMinLength and
// SummaryMaxLength.
func (c *SummarizationClient) Summarize(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(summarizationRequest{
		Inputs: text,
		Parameters: summarizationParameters{
			MinLength: SummaryMinLength,
			MaxLength: SummaryMaxLength,
		},
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	var resp summarizationResponse
	if err := c.t.post(ctx, TaskSummarization, c.model, c.url, "application/json", bytes.NewReader(body), &resp); err != nil {
		return "", err
	}
	if len(resp) == 0 {
		return "", &Error{Kind: KindUnknown, Op: TaskSummarization, Model: c.model, Status: 200,
			Message: "response contained no summary"}
	}
	return resp[0].SummaryText, nil
}
