package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrMissingCredentials is returned by providers that were configured without an API key.
var ErrMissingCredentials = errors.New("llm: missing credentials")

// Error is a failed call to a generation backend.
type Error struct {
	Provider   string
	StatusCode int
	Body       string
	Retryable  bool
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s api error (status %d): %s", e.Provider, e.StatusCode, e.Body)
}

// NewHTTPError classifies a non-2xx response. Rate limits and server errors are retryable.
func NewHTTPError(provider string, statusCode int, body []byte) *Error {
	return &Error{
		Provider:   provider,
		StatusCode: statusCode,
		Body:       string(body),
		Retryable:  statusCode == http.StatusTooManyRequests || statusCode >= 500,
	}
}

// IsRetryable reports whether err is worth another attempt.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrMissingCredentials) || errors.Is(err, context.Canceled) {
		return false
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Retryable
	}
	// transport failures
	return true
}

type unavailableProvider struct {
	reason error
}

// NewUnavailableProvider returns a provider whose every call fails with reason.
// It lets the pipeline route straight to its fallbacks when no backend is configured.
func NewUnavailableProvider(reason error) LLMProvider {
	if reason == nil {
		reason = ErrMissingCredentials
	}
	return &unavailableProvider{reason: reason}
}

func (p *unavailableProvider) Chat(ctx context.Context, history []Message, options ...Option) (string, error) {
	return "", p.reason
}

func (p *unavailableProvider) Generate(ctx context.Context, prompt string, options ...Option) (string, error) {
	return "", p.reason
}
