package handler

import (
	"context"
	"net/http/httptest"
	"testing"

	"inzite-research-be/internal/dto"
	"inzite-research-be/internal/pkg/logger"
	"inzite-research-be/internal/service"
	internalWS "inzite-research-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type knownSession struct{}

func (knownSession) Start(ctx context.Context, req *dto.StartResearchRequest) (*dto.StartResearchResponse, error) {
	return nil, nil
}

func (knownSession) GetStatus(ctx context.Context, sessionId string) (*dto.ResearchStatusResponse, error) {
	if sessionId != "abc-123" {
		return nil, service.ErrSessionNotFound
	}
	return &dto.ResearchStatusResponse{SessionId: sessionId, Status: "processing"}, nil
}

func TestProgressHandler_ServeWs(t *testing.T) {
	hub := internalWS.NewHub(nil, logger.NewNopLogger())
	app := fiber.New()
	NewProgressHandler(knownSession{}, hub, logger.NewNopLogger()).RegisterRoutes(app.Group("/api"))

	tests := []struct {
		name string
		path string
		code int
	}{
		{name: "unknown session", path: "/api/research/ws/nope", code: fiber.StatusNotFound},
		{name: "plain http", path: "/api/research/ws/abc-123", code: fiber.StatusUpgradeRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.code, resp.StatusCode)
		})
	}
}
