package server

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"inzite-research-be/internal/bootstrap"
	"inzite-research-be/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_StartThenPoll(t *testing.T) {
	cfg := &config.Config{
		App:      config.AppConfig{Environment: "test", LogFilePath: filepath.Join(t.TempDir(), "app.log"), CorsAllowedOrigins: "*"},
		Database: config.DatabaseConfig{StorageDriver: "memory"},
		Ai:       config.AIConfig{LLMProvider: "none", EmbeddingDimension: 768},
		Workflow: config.WorkflowConfig{TopicName: "workflow/research", RetrievalK: 20, RerankThreshold: 0.4},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	container, err := bootstrap.NewContainer(ctx, cfg)
	require.NoError(t, err)
	defer container.Close()

	app := New(cfg, container).GetApp()

	req := httptest.NewRequest("POST", "/api/research/start", strings.NewReader(`{"query":"AI pet-sitting marketplace","session_id":"abc-123"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 202, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/research/status?sessionId=abc-123", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var body struct {
		Data struct {
			Status      string `json:"status"`
			CurrentStep string `json:"currentStep"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "processing", body.Data.Status)
	assert.Equal(t, "Initializing Research Workflow...", body.Data.CurrentStep)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/reports/latest", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}
