package factory

import (
	"fmt"

	"inzite-research-be/pkg/llm"
	"inzite-research-be/pkg/llm/groq"
	"inzite-research-be/pkg/llm/ollama"
)

// NewLLMProvider builds the configured backend. A hosted backend without an API key
// yields an unavailable provider so callers fall through to their fallback payloads.
func NewLLMProvider(providerType, modelName, baseURL, apiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	case "groq", "openai":
		if apiKey == "" {
			return llm.NewUnavailableProvider(llm.ErrMissingCredentials), nil
		}
		url := ""
		if providerType == "openai" {
			url = baseURL
		}
		return groq.NewProvider(apiKey, url, modelName), nil
	case "none", "":
		return llm.NewUnavailableProvider(llm.ErrMissingCredentials), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
