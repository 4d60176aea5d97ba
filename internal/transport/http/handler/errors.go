package handler

import (
	"errors"

	"github.com/Yash7028/ECommerce-API/internal/infrastructure/payment"
	"github.com/Yash7028/ECommerce-API/internal/repository"
	"github.com/Yash7028/ECommerce-API/internal/service"
	"github.com/gofiber/fiber/v2"
)

// errorStatus maps service and repository errors onto HTTP codes. Anything
// unrecognized is an internal error and keeps its message out of the body.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, repository.ErrOrderNotFound),
		errors.Is(err, repository.ErrProductNotFound),
		errors.Is(err, repository.ErrCartNotFound),
		errors.Is(err, repository.ErrAddressNotFound),
		errors.Is(err, repository.ErrUserNotFound):
		return fiber.StatusNotFound

	case errors.Is(err, repository.ErrInsufficientStock),
		errors.Is(err, service.ErrOrderAlreadyPlaced),
		errors.Is(err, service.ErrAlreadyRefunded),
		errors.Is(err, service.ErrOrderNotConfirmed),
		errors.Is(err, service.ErrRefundFailed):
		return fiber.StatusConflict

	case errors.Is(err, service.ErrUnauthorized):
		return fiber.StatusForbidden

	case errors.Is(err, payment.ErrProvider):
		return fiber.StatusBadGateway

	default:
		return fiber.StatusInternalServerError
	}
}

func errorResponse(c *fiber.Ctx, err error) error {
	code := errorStatus(err)

	if code == fiber.StatusInternalServerError {
		return c.Status(code).JSON(fiber.Map{"error": "internal error"})
	}

	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

func userIDFromLocals(c *fiber.Ctx) (int64, bool) {
	userID, ok := c.Locals("userId").(int64)
	return userID, ok
}
