package textsum

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/summarease/summarease/internal/apperr"
	"github.com/summarease/summarease/internal/inference"
)

type captureChat struct {
	reqs    []inference.ChatRequest
	content string
	err     error
}

func (c *captureChat) Complete(ctx context.Context, req inference.ChatRequest) (string, error) {
	c.reqs = append(c.reqs, req)
	return c.content, c.err
}

func TestParseSummaryType(t *testing.T) {
	tests := []struct {
		in      string
		want    SummaryType
		wantErr bool
	}{
		{"", Detailed, false},
		{"detailed", Detailed, false},
		{"short", Short, false},
		{" Short ", Short, false},
		{"medium", "", true},
	}
	for _, tt := range tests {
		got, err := ParseSummaryType(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSummaryType(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if tt.wantErr && !apperr.Is(err, apperr.Validation) {
			t.Errorf("ParseSummaryType(%q) err code = %q, want validation", tt.in, apperr.CodeOf(err))
		}
		if got != tt.want {
			t.Errorf("ParseSummaryType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSummarize_PassesThroughMarkdown(t *testing.T) {
	chat := &captureChat{content: "- point one\n- point two"}
	s := New(chat, zerolog.Nop())

	got, err := s.Summarize(context.Background(), "Lorem ipsum dolor sit amet, consectetur adipiscing elit sed.", Short)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if got != "- point one\n- point two" {
		t.Errorf("summary = %q", got)
	}

	req := chat.reqs[0]
	if req.MaxTokens != 800 {
		t.Errorf("MaxTokens = %d, want 800", req.MaxTokens)
	}
	if req.Temperature != 0.7 {
		t.Errorf("Temperature = %v, want 0.7", req.Temperature)
	}
	if req.System == "" {
		t.Error("system message should be set")
	}
	if !strings.HasSuffix(req.User, "Text:\nLorem ipsum dolor sit amet, consectetur adipiscing elit sed.") {
		t.Errorf("user message should end with the input text, got %q", req.User)
	}
}

func TestSummarize_ShortAndDetailedDiffer(t *testing.T) {
	chat := &captureChat{content: "ok"}
	s := New(chat, zerolog.Nop())

	text := "The same input text for both requests."
	if _, err := s.Summarize(context.Background(), text, Short); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Summarize(context.Background(), text, Detailed); err != nil {
		t.Fatal(err)
	}

	if chat.reqs[0].User == chat.reqs[1].User {
		t.Error("short and detailed should send different instructions")
	}
	if !strings.Contains(chat.reqs[0].User, "concise") {
		t.Errorf("short instruction = %q", chat.reqs[0].User)
	}
	if !strings.Contains(chat.reqs[1].User, "###") {
		t.Errorf("detailed instruction = %q", chat.reqs[1].User)
	}
}

func TestSummarize_EmptyTextMakesNoCall(t *testing.T) {
	chat := &captureChat{}
	s := New(chat, zerolog.Nop())

	_, err := s.Summarize(context.Background(), "   ", Detailed)
	if !apperr.Is(err, apperr.Validation) {
		t.Errorf("err = %v, want validation", err)
	}
	if len(chat.reqs) != 0 {
		t.Error("no remote call expected for empty text")
	}
}

func TestSummarize_RemoteError(t *testing.T) {
	upstream := &inference.Error{Kind: inference.KindQuotaExceeded, Op: inference.TaskChat, Status: 402, Message: "credits exhausted"}
	chat := &captureChat{err: upstream}
	s := New(chat, zerolog.Nop())

	_, err := s.Summarize(context.Background(), "text", Detailed)
	if !apperr.Is(err, apperr.RemoteService) {
		t.Fatalf("err = %v, want remote_service", err)
	}
	if inference.KindOf(err) != inference.KindQuotaExceeded {
		t.Errorf("kind = %q, want quota_exceeded", inference.KindOf(err))
	}
	var ie *inference.Error
	if !errors.As(err, &ie) || ie.Status != 402 {
		t.Error("upstream status should be reachable")
	}
	if len(chat.reqs) != 1 {
		t.Errorf("%d calls, want exactly 1 (no retry)", len(chat.reqs))
	}
}
