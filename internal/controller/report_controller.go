package controller

import (
	"inzite-research-be/internal/dto"
	"inzite-research-be/internal/pkg/serverutils"
	"inzite-research-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IReportController interface {
	RegisterRoutes(r fiber.Router)
	GetLatest(ctx *fiber.Ctx) error
	GetByID(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type reportController struct {
	service service.IReportService
}

func NewReportController(service service.IReportService) IReportController {
	return &reportController{service: service}
}

func (c *reportController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/reports")
	h.Use(serverutils.OptionalJwtMiddleware)
	h.Get("/", c.List)
	h.Get("/latest", c.GetLatest)
	h.Get("/:id<int>", c.GetByID)
	h.Delete("/:id<int>", serverutils.JwtMiddleware, c.Delete)
}

func (c *reportController) GetLatest(ctx *fiber.Ctx) error {
	res, err := c.service.GetLatest(ctx.UserContext(), ownerFilter(ctx))
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Latest report", res))
}

func (c *reportController) GetByID(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid report id")
	}

	res, err := c.service.GetByID(ctx.UserContext(), id, ownerFilter(ctx))
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Report", res))
}

func (c *reportController) List(ctx *fiber.Ctx) error {
	var req dto.ListReportsRequest
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid query parameters")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.List(ctx.UserContext(), ownerFilter(ctx), &req)
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Reports", res))
}

func (c *reportController) Delete(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid report id")
	}

	if err := c.service.Delete(ctx.UserContext(), id, serverutils.UserID(ctx)); err != nil {
		return httpError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Report deleted", nil))
}

// ownerFilter scopes reads to the authenticated user, falling back to ?userId=.
func ownerFilter(ctx *fiber.Ctx) string {
	if uid := serverutils.UserID(ctx); uid != "" {
		return uid
	}
	return ctx.Query("userId")
}
