package api

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/summarease/summarease/internal/textsum"
)

// TextSummarizer summarizes pasted text.
type TextSummarizer interface {
	Summarize(ctx context.Context, text string, typ textsum.SummaryType) (string, error)
}

type TextHandler struct {
	summarizer TextSummarizer
	log        zerolog.Logger
}

func NewTextHandler(s TextSummarizer, log zerolog.Logger) *TextHandler {
	return &TextHandler{
		summarizer: s,
		log:        log.With().Str("handler", "summarize-text").Logger(),
	}
}

type summarizeTextRequest struct {
	Text string `json:"text"`
	Type string `json:"type"`
}

type summarizeTextResponse struct {
	Summary string `json:"summary"`
}

// Summarize handles POST /api/summarize-text.
func (h *TextHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	var req summarizeTextRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteAppError(w, err, "Text is required")
		return
	}

	typ, err := textsum.ParseSummaryType(req.Type)
	if err != nil {
		WriteAppError(w, err, "Failed to summarize text")
		return
	}

	summary, err := h.summarizer.Summarize(r.Context(), req.Text, typ)
	if err != nil {
		WriteAppError(w, err, "Failed to summarize text")
		return
	}

	WriteJSON(w, http.StatusOK, summarizeTextResponse{Summary: summary})
}
