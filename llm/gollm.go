package llm

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/teilomillet/gollm"
)

// GollmAdapter implements Provider through the gollm library. It covers
// backends without a dedicated SDK adapter here; the default registry uses
// it for Mistral.
type GollmAdapter struct {
	name string
	cfg  ProviderConfig
	llm  gollm.LLM
}

// NewGollm constructs a gollm-backed adapter for the configured provider.
func NewGollm(cfg ProviderConfig) (Provider, error) {
	opts := []gollm.ConfigOption{
		gollm.SetProvider(cfg.Name),
		gollm.SetModel(cfg.DefaultModel),
		gollm.SetAPIKey(cfg.APIKey),
		gollm.SetMaxTokens(DefaultMaxTokens),
		gollm.SetTemperature(DefaultTemperature),
		gollm.SetMaxRetries(0), // retries are the caller's decision
		gollm.SetLogLevel(gollm.LogLevelWarn),
	}
	llm, err := gollm.NewLLM(opts...)
	if err != nil {
		return nil, &ConfigError{BaseError: BaseError{
			Message: fmt.Sprintf("failed to initialize %s backend", cfg.Name),
			Cause:   err,
		}}
	}
	return &GollmAdapter{name: cfg.Name, cfg: cfg, llm: llm}, nil
}

// Name returns the provider identifier.
func (a *GollmAdapter) Name() string { return a.name }

// Client exposes the underlying gollm handle.
func (a *GollmAdapter) Client() gollm.LLM { return a.llm }

func (a *GollmAdapter) prompt(req Request) *gollm.Prompt {
	var opts []gollm.PromptOption
	if req.MaxTokens != nil {
		opts = append(opts, gollm.WithMaxLength(*req.MaxTokens))
	}
	return gollm.NewPrompt(req.Prompt, opts...)
}

func (a *GollmAdapter) applyOptions(req Request) {
	if req.Model != "" {
		a.llm.SetOption("model", req.Model)
	}
	if req.Temperature != nil {
		a.llm.SetOption("temperature", *req.Temperature)
	}
	if req.TopP != nil {
		a.llm.SetOption("top_p", *req.TopP)
	}
	if req.MaxTokens != nil {
		a.llm.SetOption("max_tokens", *req.MaxTokens)
	}
}

func (a *GollmAdapter) response(req Request, text string) *Response {
	model := req.Model
	if model == "" {
		model = a.cfg.DefaultModel
	}
	return &Response{
		ID:           "resp_" + uuid.New().String()[:8],
		Model:        model,
		Provider:     a.name,
		Text:         strings.TrimSpace(text),
		FinishReason: "stop",
	}
}

// Complete sends a blocking generation request.
func (a *GollmAdapter) Complete(ctx context.Context, req Request) (*Response, error) {
	a.applyOptions(req)
	text, err := a.llm.Generate(ctx, a.prompt(req))
	if err != nil {
		return nil, a.translateError(err)
	}
	return a.response(req, text), nil
}

// Stream sends a streaming generation request. Backends without native
// streaming fall back to a single delta carrying the full response.
func (a *GollmAdapter) Stream(ctx context.Context, req Request) (<-chan StreamEvent, error) {
	a.applyOptions(req)

	ch := make(chan StreamEvent, 64)

	if !a.llm.SupportsStreaming() {
		go func() {
			defer close(ch)
			ch <- StreamEvent{Type: EventStart}

			text, err := a.llm.Generate(ctx, a.prompt(req))
			if err != nil {
				ch <- StreamEvent{Type: EventError, Err: a.translateError(err)}
				return
			}
			resp := a.response(req, text)
			if resp.Text != "" {
				ch <- StreamEvent{Type: EventTextDelta, Delta: resp.Text}
			}
			ch <- StreamEvent{Type: EventFinish, Response: resp}
		}()
		return ch, nil
	}

	stream, err := a.llm.Stream(ctx, a.prompt(req))
	if err != nil {
		return nil, a.translateError(err)
	}

	go func() {
		defer close(ch)
		defer stream.Close()

		ch <- StreamEvent{Type: EventStart}

		var full strings.Builder
		for {
			token, err := stream.Next(ctx)
			if err == io.EOF {
				break
			}
			if err != nil {
				ch <- StreamEvent{Type: EventError, Err: a.translateError(err)}
				return
			}
			if token == nil || token.Text == "" {
				continue
			}
			full.WriteString(token.Text)
			ch <- StreamEvent{Type: EventTextDelta, Delta: token.Text}
		}

		ch <- StreamEvent{Type: EventFinish, Response: a.response(req, full.String())}
	}()
	return ch, nil
}

// Validate performs a short live completion and reports false on any error.
func (a *GollmAdapter) Validate(ctx context.Context) bool {
	return validateWithCompletion(ctx, a)
}

func (a *GollmAdapter) translateError(err error) error {
	return &ProviderError{
		BaseError: BaseError{Message: "generation failed", Cause: err},
		Provider:  a.name,
		// gollm does not expose status codes; treat as retryable upstream failure.
		Retryable: true,
	}
}

var _ Provider = (*GollmAdapter)(nil)
