package inference

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/summarease/summarease/internal/metrics"
)

// Options configures the clients built by New.
type Options struct {
	APIKey    string // already sanitized
	Endpoints Endpoints
	Timeout   time.Duration // bound for each remote call; 0 disables
	Log       zerolog.Logger

	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client
}

// Clients bundles the three capability clients. Built once at startup and
// passed to the task adapters.
type Clients struct {
	Chat          *ChatClient
	Summarization *SummarizationClient
	ASR           *ASRClient
}

// New builds every client from one set of options.
func New(opts Options) *Clients {
	t := newTransport(opts)
	return &Clients{
		Chat:          newChatClient(t, opts.Endpoints),
		Summarization: &SummarizationClient{t: t, url: opts.Endpoints.URL(TaskSummarization), model: opts.Endpoints.Summarization},
		ASR:           &ASRClient{t: t, url: opts.Endpoints.URL(TaskASR), model: opts.Endpoints.ASR},
	}
}

// transport holds what every client shares: credential, HTTP client, bound.
type transport struct {
	apiKey  string
	timeout time.Duration
	client  *http.Client
	log     zerolog.Logger
}

func newTransport(opts Options) *transport {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	return &transport{
		apiKey:  opts.APIKey,
		timeout: opts.Timeout,
		client:  hc,
		log:     opts.Log.With().Str("component", "inference").Logger(),
	}
}

// begin applies the per-call bound and rejects calls without a credential.
func (t *transport) begin(ctx context.Context, op Task, model string) (context.Context, context.CancelFunc, error) {
	if t.apiKey == "" {
		return ctx, func() {}, &Error{Kind: KindUnauthorized, Op: op, Model: model, Message: "HF_API_KEY is not configured"}
	}
	if t.timeout > 0 {
		ctx, cancel := context.WithTimeout(ctx, t.timeout)
		return ctx, cancel, nil
	}
	return ctx, func() {}, nil
}

// finish records metrics and a debug line for one remote call.
func (t *transport) finish(op Task, model string, start time.Time, err error) {
	kind := "ok"
	if err != nil {
		kind = string(KindOf(err))
	}
	metrics.RemoteCallsTotal.WithLabelValues(string(op), kind).Inc()
	metrics.RemoteCallDuration.WithLabelValues(string(op)).Observe(time.Since(start).Seconds())
	t.log.Debug().
		Str("op", string(op)).
		Str("model", model).
		Str("outcome", kind).
		Dur("duration", time.Since(start)).
		Msg("remote call")
}

// post sends body to url and decodes a 200 response into out.
func (t *transport) post(ctx context.Context, op Task, model, url, contentType string, body io.Reader, out any) (err error) {
	start := time.Now()
	defer func() { t.finish(op, model, start, err) }()

	ctx, cancel, err := t.begin(ctx, op, model)
	if err != nil {
		return err
	}
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+t.apiKey)

	resp, err := t.client.Do(req)
	if err != nil {
		return transportError(op, model, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportError(op, model, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return statusError(op, model, resp.StatusCode, respBody)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return &Error{Kind: KindUnknown, Op: op, Model: model, Status: resp.StatusCode,
			Message: "decode response", Err: err}
	}
	return nil
}
