package llm

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

// EnvDefaultProvider selects the default provider name.
const EnvDefaultProvider = "PYFORGE_PROVIDER"

// ProviderConfig is the resolved configuration an adapter is constructed
// from. APIKey must be non-empty before a provider instance is built;
// absence is a fatal configuration error at startup, not a per-call error.
type ProviderConfig struct {
	Name         string
	APIKey       string
	DefaultModel string
	BaseURL      string
	APIKeyEnv    string
}

// providerDefaults describes a built-in provider's environment binding.
// Default models come from the catalog, not from here.
type providerDefaults struct {
	apiKeyEnv string
	baseURL   string
}

var builtinProviders = map[string]providerDefaults{
	"groq": {
		apiKeyEnv: "GROQ_API_KEY",
		baseURL:   "https://api.groq.com/openai/v1",
	},
	"openai": {
		apiKeyEnv: "OPENAI_API_KEY",
		baseURL:   "https://api.openai.com/v1",
	},
	"anthropic": {
		apiKeyEnv: "ANTHROPIC_API_KEY",
		baseURL:   "https://api.anthropic.com",
	},
	"mistral": {
		apiKeyEnv: "MISTRAL_API_KEY",
		baseURL:   "https://api.mistral.ai/v1",
	},
}

// LoadEnv loads environment variables from the given .env files, or from
// ./.env when none are specified. Missing files are not an error for the
// no-argument form.
func LoadEnv(filenames ...string) error {
	if len(filenames) == 0 {
		_ = godotenv.Load()
		return nil
	}
	return godotenv.Load(filenames...)
}

// Settings holds the environment-resolved provider configuration. It is
// loaded once at startup; provider availability is not re-checked per call.
type Settings struct {
	DefaultProvider string

	keys map[string]string
}

// LoadSettings scans the environment for API keys of all built-in providers
// and resolves the default provider. The default comes from
// PYFORGE_PROVIDER when that provider has a key, otherwise the first
// configured provider (alphabetically). Zero configured keys is a fatal
// ConfigError.
func LoadSettings() (*Settings, error) {
	_ = godotenv.Load()

	s := &Settings{keys: make(map[string]string)}
	for name, def := range builtinProviders {
		if key := os.Getenv(def.apiKeyEnv); key != "" {
			s.keys[name] = key
		}
	}

	if len(s.keys) == 0 {
		var envs []string
		for _, def := range builtinProviders {
			envs = append(envs, def.apiKeyEnv)
		}
		sort.Strings(envs)
		return nil, &ConfigError{BaseError: BaseError{
			Message: fmt.Sprintf("no provider API keys found; set one of: %s", strings.Join(envs, ", ")),
		}}
	}

	requested := strings.ToLower(strings.TrimSpace(os.Getenv(EnvDefaultProvider)))
	if requested != "" {
		if _, ok := s.keys[requested]; ok {
			s.DefaultProvider = requested
		}
	}
	if s.DefaultProvider == "" {
		s.DefaultProvider = s.Available()[0]
	}
	return s, nil
}

// Available returns the names of providers with a configured API key, in
// sorted order.
func (s *Settings) Available() []string {
	names := make([]string, 0, len(s.keys))
	for name := range s.keys {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Config resolves the full configuration for a provider. Unknown names and
// missing API keys fail with a ConfigError naming the relevant environment
// variable.
func (s *Settings) Config(name string) (ProviderConfig, error) {
	canonical := strings.ToLower(strings.TrimSpace(name))
	def, ok := builtinProviders[canonical]
	if !ok {
		known := make([]string, 0, len(builtinProviders))
		for n := range builtinProviders {
			known = append(known, n)
		}
		sort.Strings(known)
		return ProviderConfig{}, &ConfigError{BaseError: BaseError{
			Message: fmt.Sprintf("unknown provider %q (known: %s)", name, strings.Join(known, ", ")),
		}}
	}

	key := s.keys[canonical]
	if key == "" {
		return ProviderConfig{}, &ConfigError{
			BaseError: BaseError{Message: fmt.Sprintf("API key not found for provider %q (set %s)", canonical, def.apiKeyEnv)},
			EnvVar:    def.apiKeyEnv,
		}
	}

	return ProviderConfig{
		Name:         canonical,
		APIKey:       key,
		DefaultModel: DefaultModel(canonical),
		BaseURL:      def.baseURL,
		APIKeyEnv:    def.apiKeyEnv,
	}, nil
}

// settingsFromKeys builds Settings directly from a name -> key map. Tests
// use it to avoid touching process environment.
func settingsFromKeys(defaultProvider string, keys map[string]string) *Settings {
	s := &Settings{DefaultProvider: defaultProvider, keys: make(map[string]string, len(keys))}
	for k, v := range keys {
		s.keys[strings.ToLower(k)] = v
	}
	return s
}
