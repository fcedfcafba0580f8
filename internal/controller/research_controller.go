package controller

import (
	"inzite-research-be/internal/dto"
	"inzite-research-be/internal/pkg/serverutils"
	"inzite-research-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IResearchController interface {
	RegisterRoutes(r fiber.Router)
	Start(ctx *fiber.Ctx) error
	GetStatus(ctx *fiber.Ctx) error
}

type researchController struct {
	service service.IResearchService
}

func NewResearchController(service service.IResearchService) IResearchController {
	return &researchController{service: service}
}

func (c *researchController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/research")
	h.Use(serverutils.OptionalJwtMiddleware)
	h.Post("/start", c.Start)
	h.Get("/status", c.GetStatus)
	h.Get("/status/:sessionId", c.GetStatus)
}

func (c *researchController) Start(ctx *fiber.Ctx) error {
	var req dto.StartResearchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if uid := serverutils.UserID(ctx); uid != "" {
		req.UserId = uid
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Start(ctx.UserContext(), &req)
	if err != nil {
		return httpError(err)
	}
	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Research started", res))
}

func (c *researchController) GetStatus(ctx *fiber.Ctx) error {
	sessionId := ctx.Params("sessionId", ctx.Query("sessionId"))
	if sessionId == "" {
		return fiber.NewError(fiber.StatusBadRequest, "sessionId is required")
	}

	res, err := c.service.GetStatus(ctx.UserContext(), sessionId)
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Research status", res))
}
