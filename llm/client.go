package llm

import (
	"context"
	"strings"
)

// Generation defaults, applied when no option overrides them.
const (
	DefaultTemperature = 0.5
	DefaultMaxTokens   = 1000
	DefaultTopP        = 1.0
)

// Client owns exactly one live provider at a time and carries the
// generation defaults applied to every request. It is not safe for
// concurrent use while switching providers.
type Client struct {
	registry *Registry
	settings *Settings

	provider     Provider
	providerName string

	model       string
	temperature float64
	maxTokens   int
	topP        float64
}

// ClientOption configures a Client before its provider is constructed.
type ClientOption func(*Client)

// WithProviderName selects the initial provider instead of the settings
// default.
func WithProviderName(name string) ClientOption {
	return func(c *Client) { c.providerName = strings.ToLower(strings.TrimSpace(name)) }
}

// WithModel overrides the provider's default model. Catalog aliases are
// resolved to their canonical ID.
func WithModel(model string) ClientOption {
	return func(c *Client) { c.model = ResolveModel(model) }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) ClientOption {
	return func(c *Client) { c.temperature = t }
}

// WithMaxTokens sets the completion token limit.
func WithMaxTokens(n int) ClientOption {
	return func(c *Client) { c.maxTokens = n }
}

// WithTopP sets the nucleus sampling value.
func WithTopP(p float64) ClientOption {
	return func(c *Client) { c.topP = p }
}

// WithRegistry supplies a custom provider registry.
func WithRegistry(r *Registry) ClientOption {
	return func(c *Client) { c.registry = r }
}

// NewClient builds a Client and constructs its initial provider. Missing
// credentials fail here with a ConfigError, never on a later call.
func NewClient(settings *Settings, opts ...ClientOption) (*Client, error) {
	if settings == nil {
		return nil, &ConfigError{BaseError: BaseError{Message: "settings are required"}}
	}
	c := &Client{
		settings:    settings,
		temperature: DefaultTemperature,
		maxTokens:   DefaultMaxTokens,
		topP:        DefaultTopP,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.registry == nil {
		c.registry = DefaultRegistry()
	}
	if c.providerName == "" {
		c.providerName = settings.DefaultProvider
	}
	if err := c.initProvider(c.providerName); err != nil {
		return nil, err
	}
	return c, nil
}

// initProvider constructs a fresh provider instance for name and installs
// it, closing any previously held provider first. No state from the old
// provider survives a switch.
func (c *Client) initProvider(name string) error {
	cfg, err := c.settings.Config(name)
	if err != nil {
		return err
	}
	p, err := c.registry.New(name, cfg)
	if err != nil {
		return err
	}

	if old, ok := c.provider.(Closer); ok {
		_ = old.Close()
	}
	c.provider = p
	c.providerName = name
	if c.model == "" {
		c.model = cfg.DefaultModel
	}
	return nil
}

// SwitchProvider replaces the live provider with a freshly constructed one
// for name. Subsequent calls use the new provider's configuration; the old
// provider's client is closed and never touched again. The model resets to
// the new provider's default unless a later WithModel-style override is
// applied via SetModel.
func (c *Client) SwitchProvider(name string) error {
	cfg, err := c.settings.Config(name)
	if err != nil {
		return err
	}
	p, err := c.registry.New(name, cfg)
	if err != nil {
		return err
	}
	if old, ok := c.provider.(Closer); ok {
		_ = old.Close()
	}
	c.provider = p
	c.providerName = strings.ToLower(strings.TrimSpace(name))
	c.model = cfg.DefaultModel
	return nil
}

// SetModel changes the model used for subsequent requests. Catalog aliases
// resolve to their canonical ID; unknown names pass through unchanged.
func (c *Client) SetModel(model string) {
	c.model = ResolveModel(model)
}

// request assembles a Request from the prompt and the client defaults.
func (c *Client) request(prompt string) Request {
	temperature := c.temperature
	maxTokens := c.maxTokens
	topP := c.topP
	return Request{
		Prompt:      prompt,
		Model:       c.model,
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
		TopP:        &topP,
	}
}

// Complete issues a blocking completion for prompt and returns the
// response text trimmed of surrounding whitespace.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.CompleteRequest(ctx, c.request(prompt))
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// CompleteRequest issues a fully specified blocking completion.
func (c *Client) CompleteRequest(ctx context.Context, req Request) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	resp, err := c.provider.Complete(ctx, req)
	if err != nil {
		return nil, c.wrapProviderErr(err)
	}
	return resp, nil
}

// Stream issues a streaming completion for prompt. The returned channel is
// finite; concatenating its text deltas yields the blocking result for the
// same upstream response.
func (c *Client) Stream(ctx context.Context, prompt string) (<-chan StreamEvent, error) {
	return c.StreamRequest(ctx, c.request(prompt))
}

// StreamRequest issues a fully specified streaming completion.
func (c *Client) StreamRequest(ctx context.Context, req Request) (<-chan StreamEvent, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	events, err := c.provider.Stream(ctx, req)
	if err != nil {
		return nil, c.wrapProviderErr(err)
	}
	return events, nil
}

// wrapProviderErr ensures every upstream failure carries the provider name.
// Errors already in the taxonomy pass through untouched.
func (c *Client) wrapProviderErr(err error) error {
	switch err.(type) {
	case *ProviderError, *AuthenticationError, *RateLimitError, *InvalidRequestError, *ServerError, *NetworkError, *ConfigError:
		return err
	}
	return &ProviderError{
		BaseError: BaseError{Message: "completion failed", Cause: err},
		Provider:  c.providerName,
	}
}

// Validate performs a minimal live call against the current provider and
// reports false on any error.
func (c *Client) Validate(ctx context.Context) bool {
	return c.provider.Validate(ctx)
}

// ProviderInfo describes the client's current provider and defaults.
type ProviderInfo struct {
	Provider    string  `json:"provider"`
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
	TopP        float64 `json:"top_p"`
}

// Info returns the current provider name and generation defaults.
func (c *Client) Info() ProviderInfo {
	return ProviderInfo{
		Provider:    c.providerName,
		Model:       c.model,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		TopP:        c.topP,
	}
}

// Close releases the live provider's resources.
func (c *Client) Close() error {
	if closer, ok := c.provider.(Closer); ok {
		return closer.Close()
	}
	return nil
}
