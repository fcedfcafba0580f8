package controller

import (
	"errors"

	"inzite-research-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

// httpError maps service sentinels onto status codes. Unknown errors pass through
// and become 500s in the error middleware.
func httpError(err error) error {
	switch {
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, service.ErrReportNotFound), errors.Is(err, service.ErrChatSessionNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidQuery):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrSessionExists):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	}
	return err
}
