package handler

import (
	"github.com/Yash7028/ECommerce-API/internal/service"
	"github.com/Yash7028/ECommerce-API/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	payments *service.PaymentService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewPaymentHandler(payments *service.PaymentService, validate *validator.Validate, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		payments: payments,
		validate: validate,
		logger:   logger,
	}
}

type verifyPaymentRequest struct {
	PaymentIntent string `json:"payment_intent" validate:"required"`
}

func (h *PaymentHandler) Verify(c *fiber.Ctx) error {
	input := new(verifyPaymentRequest)

	if err := c.BodyParser(input); err != nil {
		h.logger.Warn(
			"failed to parse body in verify payment",
			zap.Error(err),
		)

		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "error parsing body",
		})
	}

	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": utils.FormatValidationError(err),
		})
	}

	userID, ok := userIDFromLocals(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "userId parsing error"})
	}

	report, err := h.payments.VerifyPayment(c.UserContext(), userID, input.PaymentIntent)
	if err != nil {
		h.logger.Warn(
			"verify payment failed",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)

		return errorResponse(c, err)
	}

	return c.JSON(report)
}
