package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIAdapter implements Provider against the OpenAI chat completion wire
// format. It also serves OpenAI-compatible backends such as Groq, which
// differ only in base URL and credentials.
type OpenAIAdapter struct {
	name   string
	cfg    ProviderConfig
	client openai.Client
}

// NewOpenAI constructs an adapter for an OpenAI-compatible backend.
func NewOpenAI(cfg ProviderConfig) (Provider, error) {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAIAdapter{
		name:   cfg.Name,
		cfg:    cfg,
		client: openai.NewClient(opts...),
	}, nil
}

// Name returns the provider identifier.
func (a *OpenAIAdapter) Name() string { return a.name }

// Client exposes the underlying SDK client handle.
func (a *OpenAIAdapter) Client() openai.Client { return a.client }

func (a *OpenAIAdapter) params(req Request) openai.ChatCompletionNewParams {
	model := req.Model
	if model == "" {
		model = a.cfg.DefaultModel
	}
	wire := req.Messages()
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(wire))
	for _, m := range wire {
		switch m.Role {
		case RoleSystem:
			msgs = append(msgs, openai.SystemMessage(m.Content))
		case RoleAssistant:
			msgs = append(msgs, openai.AssistantMessage(m.Content))
		default:
			msgs = append(msgs, openai.UserMessage(m.Content))
		}
	}
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: msgs,
	}
	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}
	if req.MaxTokens != nil {
		params.MaxTokens = openai.Int(int64(*req.MaxTokens))
	}
	if req.TopP != nil {
		params.TopP = openai.Float(*req.TopP)
	}
	return params
}

// Complete sends a blocking chat completion and returns the first choice's
// message content, trimmed of surrounding whitespace.
func (a *OpenAIAdapter) Complete(ctx context.Context, req Request) (*Response, error) {
	completion, err := a.client.Chat.Completions.New(ctx, a.params(req))
	if err != nil {
		return nil, a.translateError(err)
	}
	if len(completion.Choices) == 0 {
		return nil, &ProviderError{
			BaseError: BaseError{Message: "response contained no choices"},
			Provider:  a.name,
		}
	}
	return &Response{
		ID:           completion.ID,
		Model:        completion.Model,
		Provider:     a.name,
		Text:         strings.TrimSpace(completion.Choices[0].Message.Content),
		FinishReason: string(completion.Choices[0].FinishReason),
		Usage: Usage{
			InputTokens:  int(completion.Usage.PromptTokens),
			OutputTokens: int(completion.Usage.CompletionTokens),
			TotalTokens:  int(completion.Usage.TotalTokens),
		},
	}, nil
}

// Stream sends a streaming chat completion. Incremental content deltas are
// forwarded as EventTextDelta events; empty deltas are skipped.
func (a *OpenAIAdapter) Stream(ctx context.Context, req Request) (<-chan StreamEvent, error) {
	stream := a.client.Chat.Completions.NewStreaming(ctx, a.params(req))

	ch := make(chan StreamEvent, 64)
	go func() {
		defer close(ch)
		defer stream.Close()

		ch <- StreamEvent{Type: EventStart}

		var full strings.Builder
		var usage Usage
		finishReason := ""
		id := ""
		model := ""

		for stream.Next() {
			chunk := stream.Current()
			if chunk.ID != "" {
				id = chunk.ID
			}
			if chunk.Model != "" {
				model = chunk.Model
			}
			if chunk.Usage.TotalTokens > 0 {
				usage = Usage{
					InputTokens:  int(chunk.Usage.PromptTokens),
					OutputTokens: int(chunk.Usage.CompletionTokens),
					TotalTokens:  int(chunk.Usage.TotalTokens),
				}
			}
			if len(chunk.Choices) == 0 {
				continue
			}
			choice := chunk.Choices[0]
			if choice.FinishReason != "" {
				finishReason = string(choice.FinishReason)
			}
			if choice.Delta.Content != "" {
				full.WriteString(choice.Delta.Content)
				ch <- StreamEvent{Type: EventTextDelta, Delta: choice.Delta.Content}
			}
		}
		if err := stream.Err(); err != nil {
			ch <- StreamEvent{Type: EventError, Err: a.translateError(err)}
			return
		}

		if id == "" {
			id = "chatcmpl-" + uuid.New().String()[:8]
		}
		ch <- StreamEvent{Type: EventFinish, Response: &Response{
			ID:           id,
			Model:        model,
			Provider:     a.name,
			Text:         strings.TrimSpace(full.String()),
			FinishReason: finishReason,
			Usage:        usage,
		}}
	}()
	return ch, nil
}

// Validate performs a short live completion and reports false on any error.
func (a *OpenAIAdapter) Validate(ctx context.Context) bool {
	return validateWithCompletion(ctx, a)
}

func (a *OpenAIAdapter) translateError(err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		return ErrorFromStatusCode(a.name, apierr.StatusCode, apierr.Error())
	}
	return &NetworkError{BaseError: BaseError{Message: a.name + " request failed", Cause: err}}
}

var _ Provider = (*OpenAIAdapter)(nil)
