package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type nopProvider struct{ name string }

func (p *nopProvider) Name() string { return p.name }
func (p *nopProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	return &Response{Provider: p.name, Text: "ok"}, nil
}
func (p *nopProvider) Stream(ctx context.Context, req Request) (<-chan StreamEvent, error) {
	ch := make(chan StreamEvent)
	close(ch)
	return ch, nil
}
func (p *nopProvider) Validate(ctx context.Context) bool { return true }

func nopFactory(cfg ProviderConfig) (Provider, error) {
	return &nopProvider{name: cfg.Name}, nil
}

func TestRegistryRegisterAndNew(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("Custom", nopFactory); err != nil {
		t.Fatalf("Register: %v", err)
	}

	// Names are normalized to lower case.
	p, err := r.New("custom", ProviderConfig{APIKey: "sk-test"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if p.Name() != "custom" {
		t.Errorf("expected name %q, got %q", "custom", p.Name())
	}
}

func TestRegistryUnknownProviderListsNames(t *testing.T) {
	r := NewRegistry()
	_ = r.Register("openai", nopFactory)
	_ = r.Register("groq", nopFactory)

	_, err := r.New("gemini", ProviderConfig{APIKey: "sk-test"})
	if !errors.Is(err, ErrProviderNotFound) {
		t.Fatalf("expected ErrProviderNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "groq, openai") {
		t.Errorf("expected sorted registered names in error, got %q", err.Error())
	}
}

func TestRegistryEmptyAPIKey(t *testing.T) {
	r := NewRegistry()
	_ = r.Register("openai", nopFactory)

	_, err := r.New("openai", ProviderConfig{APIKeyEnv: "OPENAI_API_KEY"})
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %T", err)
	}
	if cfgErr.EnvVar != "OPENAI_API_KEY" {
		t.Errorf("expected EnvVar OPENAI_API_KEY, got %q", cfgErr.EnvVar)
	}
	if !strings.Contains(err.Error(), "OPENAI_API_KEY") {
		t.Errorf("expected env var named in error, got %q", err.Error())
	}
}

func TestRegistryInvalidRegistrations(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("", nopFactory); err == nil {
		t.Error("expected error for empty name")
	}
	if err := r.Register("x", nil); err == nil {
		t.Error("expected error for nil factory")
	}
}

func TestDefaultRegistryNames(t *testing.T) {
	names := DefaultRegistry().Names()
	want := []string{"anthropic", "groq", "mistral", "openai"}
	if len(names) != len(want) {
		t.Fatalf("expected %d names, got %v", len(want), names)
	}
	for i, n := range want {
		if names[i] != n {
			t.Errorf("names[%d] = %q, want %q", i, names[i], n)
		}
	}
}
