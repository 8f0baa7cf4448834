package inference

import (
	"context"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// ChatRequest is a single-turn chat completion. System may be empty.
type ChatRequest struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float32
}

// ChatClient talks to the provider's OpenAI-compatible chat endpoint.
type ChatClient struct {
	t     *transport
	cli   *openai.Client
	model string
}

func newChatClient(t *transport, ep Endpoints) *ChatClient {
	cfg := openai.DefaultConfig(t.apiKey)
	cfg.BaseURL = ep.URL(TaskChat)
	cfg.HTTPClient = t.client
	return &ChatClient{
		t:     t,
		cli:   openai.NewClientWithConfig(cfg),
		model: ep.Chat,
	}
}

// Model returns the configured chat model.
func (c *ChatClient) Model() string { return c.model }

// Complete sends the request and returns the content of the first choice.
func (c *ChatClient) Complete(ctx context.Context, req ChatRequest) (content string, err error) {
	start := time.Now()
	defer func() { c.t.finish(TaskChat, c.model, start, err) }()

	ctx, cancel, err := c.t.begin(ctx, TaskChat, c.model)
	if err != nil {
		return "", err
	}
	defer cancel()

	var messages []openai.ChatCompletionMessage
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.User,
	})

	resp, err := c.cli.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", openAIError(TaskChat, c.model, err)
	}

	if len(resp.Choices) == 0 {
		return "", &Error{Kind: KindUnknown, Op: TaskChat, Model: c.model, Status: 200,
			Message: "response contained no choices"}
	}
	return resp.Choices[0].Message.Content, nil
}
