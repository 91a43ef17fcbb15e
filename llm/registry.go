package llm

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrProviderNotFound indicates the provider name is unknown to a registry.
var ErrProviderNotFound = errors.New("llm: provider not found")

// Factory constructs a Provider from resolved configuration. The config's
// APIKey is guaranteed non-empty by the time a factory runs.
type Factory func(cfg ProviderConfig) (Provider, error)

// Registry maps provider names to factories. It is process-scoped state:
// construct one explicitly (usually via DefaultRegistry) and pass it to
// consumers rather than mutating a shared global.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under the given name, replacing any previous
// registration. Names are normalized to lower case.
func (r *Registry) Register(name string, f Factory) error {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return errors.New("llm: provider name is empty")
	}
	if f == nil {
		return errors.New("llm: provider factory is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
	return nil
}

// Names returns all registered provider names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New constructs a provider instance by name. Unknown names fail with the
// list of registered names in the message, to aid the caller.
func (r *Registry) New(name string, cfg ProviderConfig) (Provider, error) {
	canonical := strings.ToLower(strings.TrimSpace(name))
	r.mu.RLock()
	f, ok := r.factories[canonical]
	r.mu.RUnlock()
	if !ok {
		available := r.Names()
		if len(available) == 0 {
			return nil, fmt.Errorf("%w: %q (no providers registered)", ErrProviderNotFound, name)
		}
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrProviderNotFound, name, strings.Join(available, ", "))
	}
	if cfg.APIKey == "" {
		return nil, &ConfigError{
			BaseError: BaseError{Message: fmt.Sprintf("provider %q has no API key configured (set %s)", canonical, cfg.APIKeyEnv)},
			EnvVar:    cfg.APIKeyEnv,
		}
	}
	if cfg.Name == "" {
		cfg.Name = canonical
	}
	return f(cfg)
}

// DefaultRegistry returns a registry preloaded with the built-in adapters.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	_ = r.Register("openai", NewOpenAI)
	_ = r.Register("groq", NewOpenAI) // Groq speaks the OpenAI wire format
	_ = r.Register("anthropic", NewAnthropic)
	_ = r.Register("mistral", NewGollm)
	return r
}
