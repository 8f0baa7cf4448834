package inference

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"unicode/utf8"

	openai "github.com/sashabaranov/go-openai"
)

// Kind classifies an upstream failure. The set is closed; callers switch on
// it instead of inspecting message text.
type Kind string

const (
	KindUnauthorized     Kind = "unauthorized"
	KindQuotaExceeded    Kind = "quota_exceeded"
	KindModelUnavailable Kind = "model_unavailable"
	KindTransient        Kind = "transient"
	KindMalformedInput   Kind = "malformed_input"
	KindTimeout          Kind = "timeout"
	KindUnknown          Kind = "unknown"
)

// Error is returned by every client in this package.
type Error struct {
	Kind    Kind
	Op      Task
	Model   string
	Status  int    // HTTP status, 0 if the request never completed
	Message string // upstream message, best effort
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s: %s", e.Op, e.Model, e.Kind)
	if e.Status != 0 {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	} else if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// kindForStatus maps an HTTP status from the provider onto a Kind.
func kindForStatus(status int) Kind {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindUnauthorized
	case http.StatusPaymentRequired:
		return KindQuotaExceeded
	case http.StatusNotFound, http.StatusGone:
		return KindModelUnavailable
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge,
		http.StatusUnsupportedMediaType, http.StatusUnprocessableEntity:
		return KindMalformedInput
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return KindTimeout
	case http.StatusTooManyRequests, http.StatusInternalServerError,
		http.StatusBadGateway, http.StatusServiceUnavailable:
		return KindTransient
	}
	return KindUnknown
}

// transportError classifies an error that occurred before a status was read.
func transportError(op Task, model string, err error) *Error {
	kind := KindTransient
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		kind = KindTimeout
	}
	return &Error{Kind: kind, Op: op, Model: model, Err: err}
}

// statusError builds an *Error from a non-2xx response body.
func statusError(op Task, model string, status int, body []byte) *Error {
	return &Error{
		Kind:    kindForStatus(status),
		Op:      op,
		Model:   model,
		Status:  status,
		Message: upstreamMessage(body),
	}
}

// openAIError converts errors returned by the go-openai client. A flat
// {"error": "..."} body comes back as a *RequestError wrapping an *APIError
// with no status, so the request error is checked first.
func openAIError(op Task, model string, err error) *Error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return &Error{
			Kind:    kindForStatus(reqErr.HTTPStatusCode),
			Op:      op,
			Model:   model,
			Status:  reqErr.HTTPStatusCode,
			Message: upstreamMessage(reqErr.Body),
			Err:     err,
		}
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return &Error{
			Kind:    kindForStatus(apiErr.HTTPStatusCode),
			Op:      op,
			Model:   model,
			Status:  apiErr.HTTPStatusCode,
			Message: apiErr.Message,
			Err:     err,
		}
	}
	return transportError(op, model, err)
}

const maxMessageLen = 300

// upstreamMessage extracts a readable message from a provider error body.
// The provider answers either {"error": "..."} or {"error": {"message": "..."}}.
func upstreamMessage(body []byte) string {
	var flat struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &flat) == nil && flat.Error != "" {
		return flat.Error
	}
	var nested struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &nested) == nil && nested.Error.Message != "" {
		return nested.Error.Message
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > maxMessageLen {
		cut := maxMessageLen
		for cut > 0 && !utf8.RuneStart(msg[cut]) {
			cut--
		}
		msg = msg[:cut] + "..."
	}
	return msg
}
