package factory

import (
	"context"
	"testing"

	"inzite-research-be/pkg/llm"
	"inzite-research-be/pkg/llm/groq"
	"inzite-research-be/pkg/llm/ollama"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLLMProvider(t *testing.T) {
	t.Run("ollama", func(t *testing.T) {
		p, err := NewLLMProvider("ollama", "llama3", "", "")
		require.NoError(t, err)
		o, ok := p.(*ollama.OllamaProvider)
		require.True(t, ok)
		assert.Equal(t, "http://localhost:11434", o.BaseURL)
	})

	t.Run("groq with key", func(t *testing.T) {
		p, err := NewLLMProvider("groq", "", "", "key")
		require.NoError(t, err)
		_, ok := p.(*groq.Provider)
		assert.True(t, ok)
	})

	t.Run("groq without key degrades", func(t *testing.T) {
		p, err := NewLLMProvider("groq", "", "", "")
		require.NoError(t, err)
		_, err = p.Generate(context.Background(), "hi")
		assert.ErrorIs(t, err, llm.ErrMissingCredentials)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := NewLLMProvider("mystery", "", "", "")
		assert.Error(t, err)
	})
}
