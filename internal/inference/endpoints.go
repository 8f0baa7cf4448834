package inference

import (
	"strings"
)

// Task is a remote capability the service depends on.
type Task string

const (
	TaskChat          Task = "chat"
	TaskSummarization Task = "summarization"
	TaskASR           Task = "asr"
)

// Endpoints maps each task to the model that serves it on one provider.
// It is built once from configuration; provider and model selection never
// happens in code.
type Endpoints struct {
	BaseURL       string // e.g. https://router.huggingface.co
	Chat          string
	Summarization string
	ASR           string
}

// Model returns the configured model for a task.
func (e Endpoints) Model(t Task) string {
	switch t {
	case TaskChat:
		return e.Chat
	case TaskSummarization:
		return e.Summarization
	case TaskASR:
		return e.ASR
	}
	return ""
}

// URL resolves the endpoint for a task. Chat completion goes through the
// provider's OpenAI-compatible surface at {base}/v1; every other task is
// served per model at {base}/hf-inference/models/{model}.
func (e Endpoints) URL(t Task) string {
	base := strings.TrimRight(e.BaseURL, "/")
	if t == TaskChat {
		return base + "/v1"
	}
	return base + "/hf-inference/models/" + strings.Trim(e.Model(t), "/")
}
