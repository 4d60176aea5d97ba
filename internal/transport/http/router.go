package http

import (
	"github.com/Yash7028/ECommerce-API/internal/transport/http/handler"
	"github.com/Yash7028/ECommerce-API/internal/transport/http/middleware"
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Order   *handler.OrderHandler
	Payment *handler.PaymentHandler
	Product *handler.ProductHandler
}

func RegisterRoutes(app *fiber.App, h *Handlers, accessSecret string) {
	api := app.Group("/api", middleware.NewAuthMiddleware(accessSecret))

	order := api.Group("/orders")
	order.Post("", h.Order.Create)
	order.Post("/from-cart", h.Order.CreateFromCart)
	order.Get("", h.Order.List)
	order.Get("/:id", h.Order.GetByID)
	order.Delete("/:id", h.Order.Delete)
	order.Put("/:id/payment", h.Order.DoPayment)
	order.Put("/:id/cancel", h.Order.Cancel)

	payment := api.Group("/payments")
	payment.Post("/verify", h.Payment.Verify)

	product := api.Group("/products")
	product.Get("/:id", h.Product.FindByID)
}
