package inference

import (
	"bytes"
	"context"
)

// ASRClient sends raw audio to a per-model speech-recognition endpoint.
type ASRClient struct {
	t     *transport
	url   string
	model string
}

type asrResponse struct {
	Text string `json:"text"`
}

// Model returns the configured ASR model.
func (c *ASRClient) Model() string { return c.model }

// Transcribe posts WAV bytes and returns the recognized text unmodified.
// Deciding whether an empty transcript is acceptable is left to the caller.
func (c *ASRClient) Transcribe(ctx context.Context, wav []byte) (string, error) {
	var resp asrResponse
	if err := c.t.post(ctx, TaskASR, c.model, c.url, "audio/wav", bytes.NewReader(wav), &resp); err != nil {
		return "", err
	}
	return resp.Text, nil
}
