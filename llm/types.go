package llm

import "fmt"

// Role identifies who produced a message in a conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a chat conversation as sent on the wire.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// UserMessage creates a user Message.
func UserMessage(text string) Message {
	return Message{Role: RoleUser, Content: text}
}

// Request is the input for both Complete and Stream. It is a value type and
// must not be mutated after it has been issued.
type Request struct {
	Prompt      string   `json:"prompt"`
	Model       string   `json:"model,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`
	TopP        *float64 `json:"top_p,omitempty"`
}

// Validate checks the request parameters against their allowed ranges.
func (r Request) Validate() error {
	if r.Prompt == "" {
		return &BaseError{Message: "request prompt is empty"}
	}
	if r.Temperature != nil && (*r.Temperature < 0 || *r.Temperature > 2) {
		return &BaseError{Message: fmt.Sprintf("temperature %v out of range [0, 2]", *r.Temperature)}
	}
	if r.MaxTokens != nil && *r.MaxTokens <= 0 {
		return &BaseError{Message: fmt.Sprintf("max_tokens %d must be positive", *r.MaxTokens)}
	}
	if r.TopP != nil && (*r.TopP < 0 || *r.TopP > 1) {
		return &BaseError{Message: fmt.Sprintf("top_p %v out of range [0, 1]", *r.TopP)}
	}
	return nil
}

// Messages returns the wire-format message list for the request.
func (r Request) Messages() []Message {
	return []Message{UserMessage(r.Prompt)}
}

// Usage tracks token consumption reported by the provider.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// Response is the output of a blocking completion. Text holds the first
// choice's message content with surrounding whitespace trimmed.
type Response struct {
	ID           string `json:"id"`
	Model        string `json:"model"`
	Provider     string `json:"provider"`
	Text         string `json:"text"`
	FinishReason string `json:"finish_reason,omitempty"`
	Usage        Usage  `json:"usage"`
}

// EventType identifies the kind of stream event.
type EventType string

const (
	EventStart     EventType = "start"
	EventTextDelta EventType = "text_delta"
	EventFinish    EventType = "finish"
	EventError     EventType = "error"
)

// StreamEvent is a single event from a streaming completion. The event
// channel is finite and non-restartable: after EventFinish or EventError
// no further events are delivered. Empty text deltas are never emitted.
// An EventError may arrive after partial output has already been yielded.
type StreamEvent struct {
	Type     EventType `json:"type"`
	Delta    string    `json:"delta,omitempty"`
	Response *Response `json:"response,omitempty"` // set on EventFinish
	Err      error     `json:"-"`                  // set on EventError
}
