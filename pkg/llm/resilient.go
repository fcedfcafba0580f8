package llm

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// ResilientProvider retries retryable failures of the wrapped provider with exponential backoff.
type ResilientProvider struct {
	inner           LLMProvider
	maxRetries      uint
	initialInterval time.Duration
}

var _ LLMProvider = &ResilientProvider{}

func NewResilientProvider(inner LLMProvider, maxRetries int, initialInterval time.Duration) *ResilientProvider {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if initialInterval <= 0 {
		initialInterval = 2 * time.Second
	}
	return &ResilientProvider{
		inner:           inner,
		maxRetries:      uint(maxRetries),
		initialInterval: initialInterval,
	}
}

func (r *ResilientProvider) Chat(ctx context.Context, history []Message, options ...Option) (string, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.initialInterval
	b.Multiplier = 2

	return backoff.Retry(ctx, func() (string, error) {
		out, err := r.inner.Chat(ctx, history, options...)
		if err != nil && !IsRetryable(err) {
			return "", backoff.Permanent(err)
		}
		return out, err
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(r.maxRetries+1),
	)
}

func (r *ResilientProvider) Generate(ctx context.Context, prompt string, options ...Option) (string, error) {
	return r.Chat(ctx, []Message{{Role: "user", Content: prompt}}, options...)
}
