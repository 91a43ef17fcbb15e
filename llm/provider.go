package llm

import "context"

// Provider is the capability interface every backend adapter implements.
type Provider interface {
	// Name returns the provider identifier (e.g. "openai", "groq").
	Name() string

	// Complete sends a blocking request and returns the full response.
	// Failures surface as errors from this package's taxonomy.
	Complete(ctx context.Context, req Request) (*Response, error)

	// Stream sends a request and returns a finite channel of stream events.
	// The channel is closed after EventFinish or EventError; a failure may
	// occur mid-stream after partial output has been delivered.
	Stream(ctx context.Context, req Request) (<-chan StreamEvent, error)

	// Validate performs a minimal live call against the backend and reports
	// false on any error rather than propagating it.
	Validate(ctx context.Context) bool
}

// Closer is implemented by adapters that hold releasable resources.
type Closer interface {
	Close() error
}

// validateWithCompletion is the shared Validate implementation: a short,
// cheap completion against the live backend.
func validateWithCompletion(ctx context.Context, p Provider) bool {
	maxTokens := 5
	_, err := p.Complete(ctx, Request{Prompt: "Hello", MaxTokens: &maxTokens})
	return err == nil
}
