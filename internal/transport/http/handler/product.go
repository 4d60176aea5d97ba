package handler

import (
	"github.com/Yash7028/ECommerce-API/internal/service"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ProductHandler struct {
	products service.ProductFinder
	logger   *zap.Logger
}

func NewProductHandler(products service.ProductFinder, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		products: products,
		logger:   logger,
	}
}

func (h *ProductHandler) FindByID(c *fiber.Ctx) error {
	productID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id"})
	}

	product, err := h.products.FindByID(c.UserContext(), int64(productID))
	if err != nil {
		h.logger.Warn(
			"find product failed",
			zap.Int64("product_id", int64(productID)),
			zap.Error(err),
		)

		return errorResponse(c, err)
	}

	return c.JSON(product)
}
