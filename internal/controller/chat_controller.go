package controller

import (
	"inzite-research-be/internal/dto"
	"inzite-research-be/internal/pkg/serverutils"
	"inzite-research-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Ask(ctx *fiber.Ctx) error
	ListSessions(ctx *fiber.Ctx) error
	GetHistory(ctx *fiber.Ctx) error
	ClearChats(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IChatService
}

func NewChatController(service service.IChatService) IChatController {
	return &chatController{service: service}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	r.Post("/chat", serverutils.OptionalJwtMiddleware, c.Ask)

	h := r.Group("/chat/sessions")
	h.Use(serverutils.JwtMiddleware)
	h.Get("/", c.ListSessions)
	h.Get("/:sessionId", c.GetHistory)
	h.Delete("/", c.ClearChats)
}

func (c *chatController) Ask(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Ask(ctx.UserContext(), serverutils.UserID(ctx), &req)
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Chat answer", res))
}

func (c *chatController) ListSessions(ctx *fiber.Ctx) error {
	res, err := c.service.ListSessions(ctx.UserContext(), serverutils.UserID(ctx))
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Chat sessions", res))
}

func (c *chatController) GetHistory(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("sessionId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid chat session id")
	}

	res, err := c.service.GetHistory(ctx.UserContext(), serverutils.UserID(ctx), id)
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Chat history", res))
}

func (c *chatController) ClearChats(ctx *fiber.Ctx) error {
	res, err := c.service.ClearChats(ctx.UserContext(), serverutils.UserID(ctx))
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Chats cleared", res))
}
