// Package llm provides a provider-agnostic client for hosted chat-completion
// APIs. Interchangeable backend adapters implement a small capability set
// (complete, stream, validate) and are constructed by name from a registry,
// so new backends are added by registering a factory, never by touching call
// sites.
//
// # Architecture
//
//   - Provider: the adapter interface plus optional Closer
//   - Registry: name -> Factory mapping, process-scoped and passed explicitly
//   - Settings: environment-driven provider configuration (API keys, default
//     provider selection); loaded once at startup
//   - Client: owns one live provider at a time, carries generation defaults,
//     and can switch providers with a full reinitialization
//
// # Quick Start
//
//	settings, err := llm.LoadSettings()
//	if err != nil {
//	    log.Fatal(err) // no provider API keys configured
//	}
//	client, err := llm.NewClient(settings)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	text, err := client.Complete(ctx, "Write a haiku about goroutines")
//
// Streaming delivers the same completion as ordered fragments:
//
//	events, err := client.Stream(ctx, "Explain channels")
//	for ev := range events {
//	    if ev.Type == llm.EventTextDelta {
//	        fmt.Print(ev.Delta)
//	    }
//	}
//
// # Adapters
//
// Built-in adapters cover OpenAI and Groq (both speak the OpenAI chat
// completion wire format), Anthropic (Messages API), and Mistral (through
// the gollm library). All of them translate upstream failures into the
// package's error taxonomy; see ErrorFromStatusCode.
//
// Provider errors are never retried automatically. Callers that want
// backoff wrap their calls in Retry with an explicit Policy.
package llm
