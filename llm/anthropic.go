package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicAdapter implements Provider against the Anthropic Messages API.
type AnthropicAdapter struct {
	name   string
	cfg    ProviderConfig
	client anthropic.Client
}

// NewAnthropic constructs the Anthropic adapter.
func NewAnthropic(cfg ProviderConfig) (Provider, error) {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &AnthropicAdapter{
		name:   cfg.Name,
		cfg:    cfg,
		client: anthropic.NewClient(opts...),
	}, nil
}

// Name returns the provider identifier.
func (a *AnthropicAdapter) Name() string { return a.name }

// Client exposes the underlying SDK client handle.
func (a *AnthropicAdapter) Client() anthropic.Client { return a.client }

func (a *AnthropicAdapter) params(req Request) anthropic.MessageNewParams {
	model := req.Model
	if model == "" {
		model = a.cfg.DefaultModel
	}
	maxTokens := DefaultMaxTokens
	if req.MaxTokens != nil {
		maxTokens = *req.MaxTokens
	}
	wire := req.Messages()
	msgs := make([]anthropic.MessageParam, 0, len(wire))
	for _, m := range wire {
		block := anthropic.NewTextBlock(m.Content)
		if m.Role == RoleAssistant {
			msgs = append(msgs, anthropic.NewAssistantMessage(block))
		} else {
			msgs = append(msgs, anthropic.NewUserMessage(block))
		}
	}
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(maxTokens),
		Messages:  msgs,
	}
	if req.Temperature != nil {
		params.Temperature = anthropic.Float(*req.Temperature)
	}
	if req.TopP != nil {
		params.TopP = anthropic.Float(*req.TopP)
	}
	return params
}

// Complete sends a blocking message request and returns the concatenated
// text blocks, trimmed of surrounding whitespace.
func (a *AnthropicAdapter) Complete(ctx context.Context, req Request) (*Response, error) {
	message, err := a.client.Messages.New(ctx, a.params(req))
	if err != nil {
		return nil, a.translateError(err)
	}
	var sb strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return &Response{
		ID:           message.ID,
		Model:        string(message.Model),
		Provider:     a.name,
		Text:         strings.TrimSpace(sb.String()),
		FinishReason: string(message.StopReason),
		Usage: Usage{
			InputTokens:  int(message.Usage.InputTokens),
			OutputTokens: int(message.Usage.OutputTokens),
			TotalTokens:  int(message.Usage.InputTokens + message.Usage.OutputTokens),
		},
	}, nil
}

// Stream sends a streaming message request, forwarding text deltas as they
// arrive. Empty deltas are skipped.
func (a *AnthropicAdapter) Stream(ctx context.Context, req Request) (<-chan StreamEvent, error) {
	stream := a.client.Messages.NewStreaming(ctx, a.params(req))

	ch := make(chan StreamEvent, 64)
	go func() {
		defer close(ch)
		defer stream.Close()

		ch <- StreamEvent{Type: EventStart}

		var full strings.Builder
		message := anthropic.Message{}

		for stream.Next() {
			event := stream.Current()
			_ = message.Accumulate(event)

			switch variant := event.AsAny().(type) {
			case anthropic.ContentBlockDeltaEvent:
				if delta, ok := variant.Delta.AsAny().(anthropic.TextDelta); ok && delta.Text != "" {
					full.WriteString(delta.Text)
					ch <- StreamEvent{Type: EventTextDelta, Delta: delta.Text}
				}
			}
		}
		if err := stream.Err(); err != nil {
			ch <- StreamEvent{Type: EventError, Err: a.translateError(err)}
			return
		}

		ch <- StreamEvent{Type: EventFinish, Response: &Response{
			ID:           message.ID,
			Model:        string(message.Model),
			Provider:     a.name,
			Text:         strings.TrimSpace(full.String()),
			FinishReason: string(message.StopReason),
			Usage: Usage{
				InputTokens:  int(message.Usage.InputTokens),
				OutputTokens: int(message.Usage.OutputTokens),
				TotalTokens:  int(message.Usage.InputTokens + message.Usage.OutputTokens),
			},
		}}
	}()
	return ch, nil
}

// Validate performs a short live completion and reports false on any error.
func (a *AnthropicAdapter) Validate(ctx context.Context) bool {
	return validateWithCompletion(ctx, a)
}

func (a *AnthropicAdapter) translateError(err error) error {
	var apierr *anthropic.Error
	if errors.As(err, &apierr) {
		return ErrorFromStatusCode(a.name, apierr.StatusCode, apierr.Error())
	}
	return &NetworkError{BaseError: BaseError{Message: a.name + " request failed", Cause: err}}
}

var _ Provider = (*AnthropicAdapter)(nil)
