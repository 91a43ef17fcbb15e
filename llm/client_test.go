package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// mockProvider is a test double for Provider. When streamErr is set, Stream
// delivers the canned text's deltas and then fails instead of finishing.
type mockProvider struct {
	name      string
	text      string
	err       error
	streamErr error
	closed    bool
	requests  []Request
}

func (m *mockProvider) Name() string { return m.name }

func (m *mockProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	return &Response{
		ID:       "test_resp",
		Model:    req.Model,
		Provider: m.name,
		Text:     strings.TrimSpace(m.text),
		Usage:    Usage{InputTokens: 10, OutputTokens: 20, TotalTokens: 30},
	}, nil
}

func (m *mockProvider) Stream(ctx context.Context, req Request) (<-chan StreamEvent, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	ch := make(chan StreamEvent, 16)
	ch <- StreamEvent{Type: EventStart}
	// Split the canned text into small deltas, skipping empties.
	text := m.text
	for len(text) > 0 {
		n := 3
		if n > len(text) {
			n = len(text)
		}
		ch <- StreamEvent{Type: EventTextDelta, Delta: text[:n]}
		text = text[n:]
	}
	if m.streamErr != nil {
		ch <- StreamEvent{Type: EventError, Err: m.streamErr}
		close(ch)
		return ch, nil
	}
	ch <- StreamEvent{Type: EventFinish, Response: &Response{
		Provider: m.name,
		Text:     strings.TrimSpace(m.text),
	}}
	close(ch)
	return ch, nil
}

func (m *mockProvider) Validate(ctx context.Context) bool { return m.err == nil }

func (m *mockProvider) Close() error {
	m.closed = true
	return nil
}

// testSetup builds a client over mock providers for the named backends.
// The returned map exposes each constructed mock by provider name.
func testSetup(t *testing.T, defaultProvider string, texts map[string]string) (*Client, map[string]*mockProvider) {
	t.Helper()

	mocks := make(map[string]*mockProvider)
	registry := NewRegistry()
	keys := make(map[string]string)
	for name, text := range texts {
		text := text
		keys[name] = "sk-test"
		if err := registry.Register(name, func(cfg ProviderConfig) (Provider, error) {
			m := &mockProvider{name: cfg.Name, text: text}
			mocks[cfg.Name] = m
			return m, nil
		}); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}

	settings := settingsFromKeys(defaultProvider, keys)
	client, err := NewClient(settings, WithRegistry(registry))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client, mocks
}

func TestClientComplete(t *testing.T) {
	for _, name := range []string{"openai", "groq", "anthropic", "mistral"} {
		t.Run(name, func(t *testing.T) {
			client, _ := testSetup(t, name, map[string]string{name: "  Hello!  "})
			got, err := client.Complete(context.Background(), "Hi")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got == "" {
				t.Fatal("expected non-empty completion")
			}
			if got != "Hello!" {
				t.Errorf("expected trimmed %q, got %q", "Hello!", got)
			}
		})
	}
}

func TestClientRequestDefaults(t *testing.T) {
	client, mocks := testSetup(t, "groq", map[string]string{"groq": "ok"})
	if _, err := client.Complete(context.Background(), "Hi"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reqs := mocks["groq"].requests
	if len(reqs) != 1 {
		t.Fatalf("expected 1 request, got %d", len(reqs))
	}
	req := reqs[0]
	if req.Model != "llama-3.1-70b-versatile" {
		t.Errorf("expected provider default model, got %q", req.Model)
	}
	if req.Temperature == nil || *req.Temperature != DefaultTemperature {
		t.Errorf("expected temperature %v, got %v", DefaultTemperature, req.Temperature)
	}
	if req.MaxTokens == nil || *req.MaxTokens != DefaultMaxTokens {
		t.Errorf("expected max_tokens %v, got %v", DefaultMaxTokens, req.MaxTokens)
	}
	if req.TopP == nil || *req.TopP != DefaultTopP {
		t.Errorf("expected top_p %v, got %v", DefaultTopP, req.TopP)
	}
}

func TestClientStreamMatchesComplete(t *testing.T) {
	const canned = "def main():\n    print('hello')\n"
	client, _ := testSetup(t, "openai", map[string]string{"openai": canned})

	blocking, err := client.Complete(context.Background(), "Hi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	events, err := client.Stream(context.Background(), "Hi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var sb strings.Builder
	for ev := range events {
		switch ev.Type {
		case EventTextDelta:
			if ev.Delta == "" {
				t.Error("received empty delta")
			}
			sb.WriteString(ev.Delta)
		case EventError:
			t.Fatalf("unexpected stream error: %v", ev.Err)
		}
	}

	if strings.TrimSpace(sb.String()) != blocking {
		t.Errorf("concatenated deltas %q != blocking result %q", sb.String(), blocking)
	}
}

func TestClientSwitchProvider(t *testing.T) {
	client, mocks := testSetup(t, "groq", map[string]string{
		"groq":   "groq says hi",
		"openai": "openai says hi",
	})

	got, err := client.Complete(context.Background(), "Hi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "groq says hi" {
		t.Errorf("expected groq response, got %q", got)
	}

	if err := client.SwitchProvider("openai"); err != nil {
		t.Fatalf("SwitchProvider: %v", err)
	}

	old := mocks["groq"]
	if !old.closed {
		t.Error("expected old provider to be closed after switch")
	}
	callsBefore := len(old.requests)

	got, err = client.Complete(context.Background(), "Hi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "openai says hi" {
		t.Errorf("expected openai response, got %q", got)
	}
	if info := client.Info(); info.Provider != "openai" {
		t.Errorf("expected provider openai, got %q", info.Provider)
	}
	if info := client.Info(); info.Model != "gpt-4" {
		t.Errorf("expected model reset to new provider default, got %q", info.Model)
	}
	if len(old.requests) != callsBefore {
		t.Error("old provider received a call after the switch")
	}
}

func TestClientStreamMidStreamError(t *testing.T) {
	boom := &ServerError{ProviderError: ProviderError{
		BaseError: BaseError{Message: "upstream hiccup"},
		Provider:  "groq", StatusCode: 502, Retryable: true,
	}}
	registry := NewRegistry()
	_ = registry.Register("groq", func(cfg ProviderConfig) (Provider, error) {
		return &mockProvider{name: cfg.Name, text: "partial output", streamErr: boom}, nil
	})
	settings := settingsFromKeys("groq", map[string]string{"groq": "sk-test"})
	client, err := NewClient(settings, WithRegistry(registry))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	events, err := client.Stream(context.Background(), "Hi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	deltas := 0
	var streamErr error
	var afterErr []StreamEvent
	for ev := range events {
		if streamErr != nil {
			afterErr = append(afterErr, ev)
			continue
		}
		switch ev.Type {
		case EventTextDelta:
			deltas++
		case EventError:
			streamErr = ev.Err
		}
	}

	// Partial output arrives before the failure; the error event is terminal.
	if deltas == 0 {
		t.Error("expected partial deltas before the failure")
	}
	if streamErr == nil {
		t.Fatal("expected a terminal error event")
	}
	var srvErr *ServerError
	if !errors.As(streamErr, &srvErr) {
		t.Fatalf("expected ServerError, got %T", streamErr)
	}
	if len(afterErr) != 0 {
		t.Errorf("expected no events after the error, got %d", len(afterErr))
	}
}

func TestClientSetModelResolvesAliases(t *testing.T) {
	client, mocks := testSetup(t, "anthropic", map[string]string{"anthropic": "ok"})

	client.SetModel("sonnet")
	if got := client.Info().Model; got != "claude-sonnet-4-5" {
		t.Errorf("expected alias resolved to canonical ID, got %q", got)
	}

	// Uncataloged models pass through untouched.
	client.SetModel("my-finetune-v2")
	if got := client.Info().Model; got != "my-finetune-v2" {
		t.Errorf("expected unknown model to pass through, got %q", got)
	}

	if _, err := client.Complete(context.Background(), "Hi"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	reqs := mocks["anthropic"].requests
	if len(reqs) != 1 || reqs[0].Model != "my-finetune-v2" {
		t.Errorf("expected resolved model on the request, got %+v", reqs)
	}
}

func TestClientSwitchProviderUnknown(t *testing.T) {
	client, _ := testSetup(t, "groq", map[string]string{"groq": "hi"})

	err := client.SwitchProvider("doesnotexist")
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %T", err)
	}
	// The message enumerates the known provider names.
	for _, name := range []string{"groq", "openai", "anthropic", "mistral"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("expected error to mention %q: %v", name, err)
		}
	}
}

func TestClientWrapsProviderErrors(t *testing.T) {
	registry := NewRegistry()
	_ = registry.Register("groq", func(cfg ProviderConfig) (Provider, error) {
		return &mockProvider{name: cfg.Name, err: errors.New("boom")}, nil
	})
	settings := settingsFromKeys("groq", map[string]string{"groq": "sk-test"})
	client, err := NewClient(settings, WithRegistry(registry))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	_, err = client.Complete(context.Background(), "Hi")
	var perr *ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProviderError, got %T", err)
	}
	if perr.Provider != "groq" {
		t.Errorf("expected provider name on error, got %q", perr.Provider)
	}
}

func TestClientRequestValidation(t *testing.T) {
	client, _ := testSetup(t, "groq", map[string]string{"groq": "hi"})

	bad := -1.0
	_, err := client.CompleteRequest(context.Background(), Request{Prompt: "x", Temperature: &bad})
	if err == nil {
		t.Fatal("expected validation error for temperature out of range")
	}

	zero := 0
	_, err = client.CompleteRequest(context.Background(), Request{Prompt: "x", MaxTokens: &zero})
	if err == nil {
		t.Fatal("expected validation error for non-positive max_tokens")
	}
}
