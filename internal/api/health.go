package api

import (
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/summarease/summarease/internal/config"
)

type HealthResponse struct {
	Status        string      `json:"status"`
	Version       string      `json:"version"`
	UptimeSeconds int64       `json:"uptime_seconds"`
	Env           HealthEnv   `json:"env"`
	Models        HealthModel `json:"models"`
}

// HealthEnv describes the credential without revealing it.
type HealthEnv struct {
	GoVersion          string `json:"go_version"`
	HasRawKey          bool   `json:"has_raw_key"`
	RawKeyLength       int    `json:"raw_key_length"`
	SanitizedKeyLength int    `json:"sanitized_key_length"`
	StartsWithHF       bool   `json:"starts_with_hf"`
	ContainsQuotes     bool   `json:"contains_quotes"`
}

type HealthModel struct {
	Chat          string `json:"chat"`
	Summarization string `json:"summarization"`
	ASR           string `json:"asr"`
}

type HealthHandler struct {
	cfg       *config.Config
	version   string
	startTime time.Time
}

func NewHealthHandler(cfg *config.Config, version string, startTime time.Time) *HealthHandler {
	return &HealthHandler{
		cfg:       cfg,
		version:   version,
		startTime: startTime,
	}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw := h.cfg.HFAPIKey
	key := h.cfg.APIKey()

	WriteJSON(w, http.StatusOK, HealthResponse{
		Status:        "ok",
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		Env: HealthEnv{
			GoVersion:          runtime.Version(),
			HasRawKey:          raw != "",
			RawKeyLength:       len(raw),
			SanitizedKeyLength: len(key),
			StartsWithHF:       strings.HasPrefix(key, "hf_"),
			ContainsQuotes:     strings.ContainsAny(raw, `"'`),
		},
		Models: HealthModel{
			Chat:          h.cfg.ChatModel,
			Summarization: h.cfg.SummarizationModel,
			ASR:           h.cfg.ASRModel,
		},
	})
}
