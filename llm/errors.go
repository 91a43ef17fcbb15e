package llm

import "fmt"

// BaseError is the base type for all llm errors.
type BaseError struct {
	Message string
	Cause   error
}

func (e *BaseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *BaseError) Unwrap() error {
	return e.Cause
}

// ConfigError reports missing or invalid provider configuration. It is
// detected at construction time, is fatal to the operation, and is never
// retried. EnvVar names the environment variable that would resolve the
// problem, when one exists.
type ConfigError struct {
	BaseError
	EnvVar string
}

// ProviderError represents a failure returned by an upstream LLM API.
type ProviderError struct {
	BaseError
	Provider   string
	StatusCode int
	Retryable  bool
}

func (e *ProviderError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("[%s] %s (status=%d, retryable=%v)", e.Provider, msg, e.StatusCode, e.Retryable)
	}
	return fmt.Sprintf("[%s] %s", e.Provider, msg)
}

// Concrete provider error kinds.

type AuthenticationError struct{ ProviderError }
type RateLimitError struct{ ProviderError }
type InvalidRequestError struct{ ProviderError }
type ServerError struct{ ProviderError }

// NetworkError reports a transport-level failure before any upstream
// response was received.
type NetworkError struct{ BaseError }

// ErrorFromStatusCode maps an upstream HTTP status code to the appropriate
// error kind.
func ErrorFromStatusCode(provider string, statusCode int, message string) error {
	pe := ProviderError{
		BaseError:  BaseError{Message: message},
		Provider:   provider,
		StatusCode: statusCode,
	}

	switch statusCode {
	case 400, 404, 422:
		pe.Retryable = false
		return &InvalidRequestError{ProviderError: pe}
	case 401, 403:
		pe.Retryable = false
		return &AuthenticationError{ProviderError: pe}
	case 429:
		pe.Retryable = true
		return &RateLimitError{ProviderError: pe}
	case 500, 502, 503, 504:
		pe.Retryable = true
		return &ServerError{ProviderError: pe}
	default:
		// Unknown upstream failures default to retryable.
		pe.Retryable = true
		return &pe
	}
}

// IsRetryable reports whether an error is safe to retry. Nothing in this
// package retries automatically; Retry consults this classification.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	switch e := err.(type) {
	case *ConfigError:
		return false
	case *AuthenticationError:
		return false
	case *InvalidRequestError:
		return false
	case *RateLimitError:
		return true
	case *ServerError:
		return true
	case *NetworkError:
		return true
	case *ProviderError:
		return e.Retryable
	default:
		return false
	}
}
