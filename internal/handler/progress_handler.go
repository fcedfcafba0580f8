package handler

import (
	"errors"

	"inzite-research-be/internal/pkg/logger"
	"inzite-research-be/internal/service"
	internalWS "inzite-research-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// ProgressHandler streams stage transitions of one research session over a websocket.
type ProgressHandler struct {
	research service.IResearchService
	hub      *internalWS.Hub
	logger   logger.ILogger
}

func NewProgressHandler(research service.IResearchService, hub *internalWS.Hub, log logger.ILogger) *ProgressHandler {
	return &ProgressHandler{
		research: research,
		hub:      hub,
		logger:   log,
	}
}

// ServeWs checks the session exists before upgrading, so a typo gets a 404 instead
// of a silent socket.
func (h *ProgressHandler) ServeWs(c *fiber.Ctx) error {
	sessionID := c.Params("sessionId")

	if _, err := h.research.GetStatus(c.UserContext(), sessionID); err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return err
	}

	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("ProgressHandler", "Starting WebSocket session", map[string]interface{}{"session_id": sessionID})
		internalWS.ServeWs(h.hub, conn, sessionID)
		h.logger.Info("ProgressHandler", "WebSocket session ended", map[string]interface{}{"session_id": sessionID})
	})(c)
}

func (h *ProgressHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/research/ws/:sessionId", h.ServeWs)
}
