package llm

// ModelInfo describes a known model in the catalog.
type ModelInfo struct {
	ID            string   `json:"id"`
	Provider      string   `json:"provider"`
	DisplayName   string   `json:"display_name"`
	ContextWindow int      `json:"context_window"`
	Aliases       []string `json:"aliases,omitempty"`

	// Default marks the model a provider falls back to when no model is
	// configured. At most one per provider.
	Default bool `json:"default,omitempty"`
}

// Models is the built-in model catalog.
var Models = []ModelInfo{
	// OpenAI
	{
		ID: "gpt-4", Provider: "openai", DisplayName: "GPT-4",
		ContextWindow: 128000, Default: true,
	},
	{
		ID: "gpt-4o", Provider: "openai", DisplayName: "GPT-4o",
		ContextWindow: 128000, Aliases: []string{"4o"},
	},
	{
		ID: "gpt-4o-mini", Provider: "openai", DisplayName: "GPT-4o mini",
		ContextWindow: 128000, Aliases: []string{"4o-mini"},
	},

	// Groq
	{
		ID: "llama-3.1-70b-versatile", Provider: "groq", DisplayName: "Llama 3.1 70B Versatile",
		ContextWindow: 131072, Aliases: []string{"llama-70b"}, Default: true,
	},
	{
		ID: "llama-3.1-8b-instant", Provider: "groq", DisplayName: "Llama 3.1 8B Instant",
		ContextWindow: 131072, Aliases: []string{"llama-8b"},
	},
	{
		ID: "mixtral-8x7b-32768", Provider: "groq", DisplayName: "Mixtral 8x7B",
		ContextWindow: 32768, Aliases: []string{"mixtral"},
	},

	// Anthropic
	{
		ID: "claude-sonnet-4-5", Provider: "anthropic", DisplayName: "Claude Sonnet 4.5",
		ContextWindow: 200000, Aliases: []string{"sonnet", "claude-sonnet"}, Default: true,
	},
	{
		ID: "claude-haiku-4-5", Provider: "anthropic", DisplayName: "Claude Haiku 4.5",
		ContextWindow: 200000, Aliases: []string{"haiku", "claude-haiku"},
	},

	// Mistral
	{
		ID: "mistral-large-latest", Provider: "mistral", DisplayName: "Mistral Large",
		ContextWindow: 128000, Aliases: []string{"mistral-large"}, Default: true,
	},
	{
		ID: "mistral-small-latest", Provider: "mistral", DisplayName: "Mistral Small",
		ContextWindow: 32000, Aliases: []string{"mistral-small"},
	},
}

// GetModelInfo looks up a model by ID or alias. Returns nil when unknown.
func GetModelInfo(id string) *ModelInfo {
	for i := range Models {
		if Models[i].ID == id {
			return &Models[i]
		}
		for _, alias := range Models[i].Aliases {
			if alias == id {
				return &Models[i]
			}
		}
	}
	return nil
}

// ResolveModel canonicalizes a model ID or alias to its catalog ID. Unknown
// ids pass through unchanged, so uncataloged models stay usable.
func ResolveModel(id string) string {
	if info := GetModelInfo(id); info != nil {
		return info.ID
	}
	return id
}

// DefaultModel returns the ID of a provider's default catalog model, or ""
// when the provider has no catalog entries.
func DefaultModel(provider string) string {
	for _, m := range Models {
		if m.Provider == provider && m.Default {
			return m.ID
		}
	}
	return ""
}

// ListModels returns the catalog entries for a provider, or the whole
// catalog when provider is empty.
func ListModels(provider string) []ModelInfo {
	if provider == "" {
		out := make([]ModelInfo, len(Models))
		copy(out, Models)
		return out
	}
	var out []ModelInfo
	for _, m := range Models {
		if m.Provider == provider {
			out = append(out, m)
		}
	}
	return out
}
