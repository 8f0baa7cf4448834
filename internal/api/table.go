package api

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/summarease/summarease/internal/apperr"
	"github.com/summarease/summarease/internal/table"
)

// TableGenerator turns unstructured text into rows.
type TableGenerator interface {
	Generate(ctx context.Context, data string) ([]table.Row, error)
}

type TableHandler struct {
	gen TableGenerator
	log zerolog.Logger
}

func NewTableHandler(gen TableGenerator, log zerolog.Logger) *TableHandler {
	return &TableHandler{
		gen: gen,
		log: log.With().Str("handler", "generate-table").Logger(),
	}
}

type generateTableRequest struct {
	Data string `json:"data"`
}

type generateTableResponse struct {
	Table []table.Row `json:"table"`
}

// Generate handles POST /api/generate-table.
func (h *TableHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateTableRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteAppError(w, err, "Data is required")
		return
	}

	rows, err := h.gen.Generate(r.Context(), req.Data)
	if err != nil {
		headline := "Failed to generate table"
		if apperr.Is(err, apperr.MalformedTable) {
			headline = "Failed to parse AI output as JSON"
		}
		WriteAppError(w, err, headline)
		return
	}

	WriteJSON(w, http.StatusOK, generateTableResponse{Table: rows})
}
