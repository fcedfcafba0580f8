package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"inzite-research-be/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func offlineConfig(t *testing.T) *config.Config {
	return &config.Config{
		App:      config.AppConfig{Environment: "test", LogFilePath: filepath.Join(t.TempDir(), "app.log")},
		Database: config.DatabaseConfig{StorageDriver: "memory"},
		Ai:       config.AIConfig{LLMProvider: "none", EmbeddingProvider: "gemini", EmbeddingDimension: 768},
		Workflow: config.WorkflowConfig{TopicName: "workflow/research", RetrievalK: 20, RerankThreshold: 0.4},
	}
}

func TestNewContainer_Offline(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c, err := NewContainer(ctx, offlineConfig(t))
	require.NoError(t, err)
	defer c.Close()

	assert.NotNil(t, c.ResearchController)
	assert.NotNil(t, c.ReportController)
	assert.NotNil(t, c.ChatController)
	assert.NotNil(t, c.ProgressHandler)
	assert.NotNil(t, c.ConsumerService)
	assert.NotNil(t, c.WorkflowService)
	assert.Nil(t, c.EventAuditService)
}

func TestNewContainer_BadStorageDriver(t *testing.T) {
	cfg := offlineConfig(t)
	cfg.Database.StorageDriver = "mongo"

	_, err := NewContainer(context.Background(), cfg)
	assert.ErrorContains(t, err, "unsupported storage driver")
}

func TestNewContainer_UnreachableRedisStaysLocal(t *testing.T) {
	cfg := offlineConfig(t)
	cfg.App.RedisURL = "redis://127.0.0.1:1"

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c, err := NewContainer(ctx, cfg)
	require.NoError(t, err)
	defer c.Close()
	assert.NotNil(t, c.WebSocketHub)
}
