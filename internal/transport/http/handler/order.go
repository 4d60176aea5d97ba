package handler

import (
	"github.com/Yash7028/ECommerce-API/internal/service"
	"github.com/Yash7028/ECommerce-API/pkg/mylogger"
	"github.com/Yash7028/ECommerce-API/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type OrderHandler struct {
	orders   *service.OrderService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewOrderHandler(orders *service.OrderService, validate *validator.Validate, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orders:   orders,
		validate: validate,
		logger:   logger,
	}
}

func (h *OrderHandler) Create(c *fiber.Ctx) error {
	input := new(service.CreateOrderRequest)

	if err := c.BodyParser(input); err != nil {
		h.logger.Warn(
			"failed to parse body in create order",
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
		mylogger.Info(c.UserContext(), h.logger, "user_id get failed")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "userId parsing error"})
	}

	order, err := h.orders.CreateOrder(c.UserContext(), userID, *input)
	if err != nil {
		h.logger.Warn(
			"create order failed",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)

		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(order)
}

func (h *OrderHandler) CreateFromCart(c *fiber.Ctx) error {
	input := new(service.CartOrderRequest)

	if err := c.BodyParser(input); err != nil {
		h.logger.Warn(
			"failed to parse body in create cart order",
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
		mylogger.Info(c.UserContext(), h.logger, "user_id get failed")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "userId parsing error"})
	}

	order, err := h.orders.CreateCartOrder(c.UserContext(), userID, *input)
	if err != nil {
		h.logger.Warn(
			"create cart order failed",
			zap.Int64("user_id", userID),
			zap.Int64("cart_id", input.CartID),
			zap.Error(err),
		)

		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(order)
}

func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	orderID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid order id"})
	}

	userID, ok := userIDFromLocals(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "userId parsing error"})
	}

	order, err := h.orders.GetOrderByID(c.UserContext(), userID, int64(orderID))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(order)
}

func (h *OrderHandler) List(c *fiber.Ctx) error {
	userID, ok := userIDFromLocals(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "userId parsing error"})
	}

	limit := int64(c.QueryInt("limit", 10))
	offset := int64(c.QueryInt("offset", 0))

	orders, total, err := h.orders.ListOrdersByUser(c.UserContext(), userID, limit, offset)
	if err != nil {
		h.logger.Warn(
			"list orders failed",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)

		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"orders": orders,
		"total":  total,
	})
}

func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	orderID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid order id"})
	}

	userID, ok := userIDFromLocals(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "userId parsing error"})
	}

	if err := h.orders.DeleteOrder(c.UserContext(), userID, int64(orderID)); err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{"status": "success"})
}

type doPaymentRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required,oneof=COD CARD"`
}

func (h *OrderHandler) DoPayment(c *fiber.Ctx) error {
	orderID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid order id"})
	}

	input := new(doPaymentRequest)
	if err := c.BodyParser(input); err != nil {
		h.logger.Warn(
			"failed to parse body in do payment",
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

	res, err := h.orders.DoPayment(c.UserContext(), userID, int64(orderID), input.PaymentMethod)
	if err != nil {
		h.logger.Warn(
			"do payment failed",
			zap.Int64("order_id", int64(orderID)),
			zap.String("payment_method", input.PaymentMethod),
			zap.Error(err),
		)

		return errorResponse(c, err)
	}

	return c.JSON(res)
}

type cancelOrderRequest struct {
	Reason string `json:"reason"`
}

func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	orderID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid order id"})
	}

	input := new(cancelOrderRequest)
	if len(c.Body()) > 0 {
		if err := c.BodyParser(input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "error parsing body",
			})
		}
	}

	userID, ok := userIDFromLocals(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "userId parsing error"})
	}

	if err := h.orders.CancelOrder(c.UserContext(), userID, int64(orderID), input.Reason); err != nil {
		h.logger.Warn(
			"cancel order failed",
			zap.Int64("order_id", int64(orderID)),
			zap.Error(err),
		)

		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{"status": "success"})
}
