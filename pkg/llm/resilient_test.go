package llm

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type scriptedProvider struct {
	errs  []error
	calls int
}

func (s *scriptedProvider) Chat(ctx context.Context, history []Message, options ...Option) (string, error) {
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	return "ok", nil
}

func (s *scriptedProvider) Generate(ctx context.Context, prompt string, options ...Option) (string, error) {
	return s.Chat(ctx, []Message{{Role: "user", Content: prompt}}, options...)
}

func TestResilientProvider(t *testing.T) {
	rateLimited := NewHTTPError("groq", http.StatusTooManyRequests, []byte("slow down"))
	badRequest := NewHTTPError("groq", http.StatusBadRequest, []byte("bad"))

	tests := []struct {
		name       string
		errs       []error
		maxRetries int
		wantOut    string
		wantErr    error
		wantCalls  int
	}{
		{name: "first call succeeds", errs: nil, maxRetries: 1, wantOut: "ok", wantCalls: 1},
		{name: "429 then success", errs: []error{rateLimited}, maxRetries: 1, wantOut: "ok", wantCalls: 2},
		{name: "429 exhausts retries", errs: []error{rateLimited, rateLimited}, maxRetries: 1, wantErr: rateLimited, wantCalls: 2},
		{name: "4xx is permanent", errs: []error{badRequest}, maxRetries: 3, wantErr: badRequest, wantCalls: 1},
		{name: "missing key is permanent", errs: []error{ErrMissingCredentials}, maxRetries: 3, wantErr: ErrMissingCredentials, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner := &scriptedProvider{errs: tt.errs}
			p := NewResilientProvider(inner, tt.maxRetries, time.Millisecond)

			out, err := p.Generate(context.Background(), "hello")
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantOut, out)
			}
			assert.Equal(t, tt.wantCalls, inner.calls)
		})
	}
}

func TestUnavailableProvider(t *testing.T) {
	p := NewUnavailableProvider(nil)
	_, err := p.Generate(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrMissingCredentials)
	assert.False(t, IsRetryable(err))
}
