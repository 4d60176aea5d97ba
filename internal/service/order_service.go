package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Yash7028/ECommerce-API/internal/domain"
	"github.com/Yash7028/ECommerce-API/internal/infrastructure/email"
	"github.com/Yash7028/ECommerce-API/internal/infrastructure/payment"
	"github.com/Yash7028/ECommerce-API/internal/repository"
	"github.com/Yash7028/ECommerce-API/pkg/mylogger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	codIntentID = "COD_PAYMENT"
	codMessage  = "Order placed successfully with COD"

	cancelledByUserReason = "Cancelled by user"
)

type OrderService struct {
	orders    repository.OrderRepository
	products  repository.ProductRepository
	carts     repository.CartRepository
	addresses repository.AddressRepository
	users     repository.UserRepository

	processor payment.Processor
	mailer    email.Sender

	deliveryLeadTime time.Duration

	logger *zap.Logger
	tracer trace.Tracer
}

func NewOrderService(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	carts repository.CartRepository,
	addresses repository.AddressRepository,
	users repository.UserRepository,
	processor payment.Processor,
	mailer email.Sender,
	deliveryLeadTime time.Duration,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orders:           orders,
		products:         products,
		carts:            carts,
		addresses:        addresses,
		users:            users,
		processor:        processor,
		mailer:           mailer,
		deliveryLeadTime: deliveryLeadTime,
		logger:           logger,
		tracer:           otel.Tracer("service/order"),
	}
}

// CreateOrder builds an unconfirmed order from an explicit product list.
// Prices are snapshotted into the items at this point; stock is not touched
// until a payment is recorded.
func (s *OrderService) CreateOrder(ctx context.Context, userID int64, req CreateOrderRequest) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.CreateOrder")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("user_id", userID),
		attribute.Int("products_count", len(req.Products)),
	)

	items, err := s.buildItems(ctx, req.Products)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	return s.placeOrder(ctx, userID, items, req.BillingAddress, req.ShippingAddress)
}

// CreateCartOrder builds an unconfirmed order from the items of an existing
// cart. The cart itself is left untouched.
func (s *OrderService) CreateCartOrder(ctx context.Context, userID int64, req CartOrderRequest) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.CreateCartOrder")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("user_id", userID),
		attribute.Int64("cart_id", req.CartID),
	)

	cart, err := s.carts.GetByID(ctx, req.CartID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if cart.UserID != userID {
		return nil, ErrUnauthorized
	}

	inputs := make([]ProductOrderInput, 0, len(cart.Items))
	for _, item := range cart.Items {
		inputs = append(inputs, ProductOrderInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	items, err := s.buildItems(ctx, inputs)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	return s.placeOrder(ctx, userID, items, req.BillingAddress, req.ShippingAddress)
}

func (s *OrderService) placeOrder(
	ctx context.Context,
	userID int64,
	items []domain.OrderItem,
	billing, shipping AddressInput,
) (*domain.Order, error) {
	billingID, err := s.resolveAddress(ctx, userID, billing)
	if err != nil {
		return nil, err
	}

	shippingID := billingID
	if shipping.ID != 0 || shipping.Street != "" {
		shippingID, err = s.resolveAddress(ctx, userID, shipping)
		if err != nil {
			return nil, err
		}
	}

	deliveryDate := time.Now().Add(s.deliveryLeadTime)
	order := &domain.Order{
		UserID:            userID,
		Items:             items,
		Status:            domain.StatusNotConfirmed,
		OrderStatus:       domain.OrderStatusPending,
		BillingAddressID:  billingID,
		ShippingAddressID: shippingID,
		DeliveryDate:      &deliveryDate,
	}
	order.CalculateTotals()

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	mylogger.Info(
		ctx,
		s.logger,
		"Order created",
		zap.Int64("order_id", order.ID),
		zap.Int64("user_id", userID),
		zap.Int64("final_amount", order.FinalAmount),
	)

	return order, nil
}

// DoPayment records a payment attempt against an existing order. COD
// confirms immediately and sells the stock; CARD only creates a processor
// intent and leaves the order waiting for verification.
func (s *OrderService) DoPayment(ctx context.Context, userID, orderID int64, paymentMethod string) (*PaymentIntentResponse, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.DoPayment")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("order_id", orderID),
		attribute.Int64("user_id", userID),
		attribute.String("payment_method", paymentMethod),
	)

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if order.UserID != userID {
		return nil, ErrUnauthorized
	}

	if strings.EqualFold(order.Status, domain.StatusConfirmed) {
		return nil, ErrOrderAlreadyPlaced
	}

	if strings.EqualFold(order.PaymentMethod, domain.PaymentMethodCOD) {
		return nil, ErrOrderAlreadyPlaced
	}

	// A card attempt is already on record: hand back the same intent no
	// matter which method the client asks for now.
	if strings.EqualFold(order.PaymentMethod, domain.PaymentMethodCard) && order.PaymentIntentID != "" {
		return &PaymentIntentResponse{
			PaymentIntentID: order.PaymentIntentID,
			ClientSecret:    order.ClientSecret,
		}, nil
	}

	switch strings.ToUpper(paymentMethod) {
	case domain.PaymentMethodCOD:
		return s.payWithCOD(ctx, order)
	case domain.PaymentMethodCard:
		return s.payWithCard(ctx, order)
	default:
		return nil, fmt.Errorf("unsupported payment method %q", paymentMethod)
	}
}

func (s *OrderService) payWithCOD(ctx context.Context, order *domain.Order) (*PaymentIntentResponse, error) {
	// Stock goes first so an undersupplied item aborts before the order is
	// confirmed. Items already decremented in this loop are not rolled back;
	// the refund path restores them if the user cancels.
	for _, item := range order.Items {
		if err := s.products.DecreaseStock(ctx, item.ProductID, item.Quantity); err != nil {
			if errors.Is(err, repository.ErrInsufficientStock) {
				return nil, fmt.Errorf("%w: product %d", repository.ErrInsufficientStock, item.ProductID)
			}

			return nil, err
		}
	}

	// If the confirm UPDATE fails here the decrements above are stranded
	// and a client retry sells the stock again. Same window as the
	// original flow; closing it needs a reservation scheme.
	deliveryDate := time.Now().Add(s.deliveryLeadTime)
	if err := s.orders.Confirm(ctx, order.ID, domain.PaymentMethodCOD, deliveryDate); err != nil {
		return nil, err
	}

	mylogger.Info(
		ctx,
		s.logger,
		"Order confirmed with COD",
		zap.Int64("order_id", order.ID),
	)

	s.notifyConfirmation(ctx, order)

	return &PaymentIntentResponse{
		PaymentIntentID: codIntentID,
		ClientSecret:    codMessage,
	}, nil
}

func (s *OrderService) payWithCard(ctx context.Context, order *domain.Order) (*PaymentIntentResponse, error) {
	intent, err := s.processor.CreateIntent(ctx, order.FinalAmount, order.ID, order.UserID)
	if err != nil {
		return nil, err
	}

	if err := s.orders.SavePaymentIntent(ctx, order.ID, intent.ID, intent.ClientSecret); err != nil {
		return nil, err
	}

	mylogger.Info(
		ctx,
		s.logger,
		"Payment intent created",
		zap.Int64("order_id", order.ID),
		zap.String("payment_intent_id", intent.ID),
	)

	return &PaymentIntentResponse{
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
	}, nil
}

// CancelOrder refunds a confirmed order, restores the sold stock and marks
// the order cancelled. Only confirmed, not-yet-refunded orders qualify.
func (s *OrderService) CancelOrder(ctx context.Context, userID, orderID int64, reason string) error {
	ctx, span := s.tracer.Start(ctx, "OrderService.CancelOrder")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("order_id", orderID),
		attribute.Int64("user_id", userID),
	)

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		span.RecordError(err)
		return err
	}

	if order.UserID != userID {
		return ErrUnauthorized
	}

	if order.Refunded {
		return ErrAlreadyRefunded
	}

	if !strings.EqualFold(order.Status, domain.StatusConfirmed) {
		return ErrOrderNotConfirmed
	}

	refund, err := s.processor.Refund(ctx, order.PaymentIntentID)
	if err != nil {
		span.RecordError(err)
		return err
	}

	// Only a settled refund mutates state. A pending refund can still fail
	// on the processor side, so the caller has to retry the cancellation.
	if refund.Status != payment.StatusSucceeded {
		mylogger.Warn(
			ctx,
			s.logger,
			"Refund rejected by processor",
			zap.Int64("order_id", orderID),
			zap.String("refund_id", refund.ID),
			zap.String("refund_status", string(refund.Status)),
		)

		return ErrRefundFailed
	}

	if reason == "" {
		reason = cancelledByUserReason
	}

	if err := s.orders.MarkCancelled(ctx, orderID, reason); err != nil {
		return err
	}

	for _, item := range order.Items {
		if err := s.products.IncreaseStock(ctx, item.ProductID, item.Quantity); err != nil {
			mylogger.Error(
				ctx,
				s.logger,
				"Failed to restore stock after cancellation",
				zap.Int64("order_id", orderID),
				zap.Int64("product_id", item.ProductID),
				zap.Error(err),
			)
		}
	}

	mylogger.Info(
		ctx,
		s.logger,
		"Order cancelled and refunded",
		zap.Int64("order_id", orderID),
		zap.String("refund_id", refund.ID),
	)

	s.notifyCancellation(ctx, order, reason)

	return nil
}

func (s *OrderService) GetOrderByID(ctx context.Context, userID, orderID int64) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetOrderByID")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("order_id", orderID),
	)

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if order.UserID != userID {
		return nil, ErrUnauthorized
	}

	return order, nil
}

func (s *OrderService) ListOrdersByUser(ctx context.Context, userID, limit, offset int64) ([]domain.Order, int64, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListOrdersByUser")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("user_id", userID),
	)

	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	return s.orders.ListByUser(ctx, userID, limit, offset)
}

func (s *OrderService) DeleteOrder(ctx context.Context, userID, orderID int64) error {
	ctx, span := s.tracer.Start(ctx, "OrderService.DeleteOrder")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("order_id", orderID),
	)

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		span.RecordError(err)
		return err
	}

	if order.UserID != userID {
		return ErrUnauthorized
	}

	return s.orders.DeleteByID(ctx, orderID)
}

func (s *OrderService) buildItems(ctx context.Context, inputs []ProductOrderInput) ([]domain.OrderItem, error) {
	items := make([]domain.OrderItem, 0, len(inputs))
	for _, in := range inputs {
		product, err := s.products.GetByID(ctx, in.ProductID)
		if err != nil {
			return nil, err
		}

		qty := int64(in.Quantity)
		items = append(items, domain.OrderItem{
			ProductID:        product.ID,
			Name:             product.Name,
			Quantity:         in.Quantity,
			TotalPrice:       product.Price * qty,
			DiscountedPrice:  product.DiscountedPrice * qty,
			MainImage:        product.MainImage,
			AdditionalImages: product.AdditionalImages,
		})
	}

	return items, nil
}

// resolveAddress returns the address row id an order should reference.
// Saved book addresses are copied into a fresh unsaved row so later edits
// to the book leave the order untouched.
func (s *OrderService) resolveAddress(ctx context.Context, userID int64, in AddressInput) (int64, error) {
	if in.ID != 0 {
		addr, err := s.addresses.GetByID(ctx, in.ID)
		if err != nil {
			return 0, err
		}

		if addr.UserID != userID {
			return 0, ErrUnauthorized
		}

		if !addr.Saved {
			return addr.ID, nil
		}

		snapshot := &domain.Address{
			UserID:  userID,
			Street:  addr.Street,
			City:    addr.City,
			State:   addr.State,
			Zip:     addr.Zip,
			Country: addr.Country,
			Saved:   false,
		}
		if err := s.addresses.Create(ctx, snapshot); err != nil {
			return 0, err
		}

		return snapshot.ID, nil
	}

	addr := &domain.Address{
		UserID:  userID,
		Street:  in.Street,
		City:    in.City,
		State:   in.State,
		Zip:     in.Zip,
		Country: in.Country,
		Saved:   false,
	}
	if err := s.addresses.Create(ctx, addr); err != nil {
		return 0, err
	}

	return addr.ID, nil
}

func (s *OrderService) notifyConfirmation(ctx context.Context, order *domain.Order) {
	user, err := s.users.GetByID(ctx, order.UserID)
	if err != nil {
		mylogger.Warn(
			ctx,
			s.logger,
			"Skipping confirmation email, user lookup failed",
			zap.Int64("user_id", order.UserID),
			zap.Error(err),
		)

		return
	}

	go func() {
		mailCtx := context.WithoutCancel(ctx)
		if err := s.mailer.SendOrderConfirmation(mailCtx, user.Email, order); err != nil {
			mylogger.Warn(
				mailCtx,
				s.logger,
				"Failed to send confirmation email",
				zap.Int64("order_id", order.ID),
				zap.Error(err),
			)
		}
	}()
}

func (s *OrderService) notifyCancellation(ctx context.Context, order *domain.Order, reason string) {
	user, err := s.users.GetByID(ctx, order.UserID)
	if err != nil {
		mylogger.Warn(
			ctx,
			s.logger,
			"Skipping cancellation email, user lookup failed",
			zap.Int64("user_id", order.UserID),
			zap.Error(err),
		)

		return
	}

	go func() {
		mailCtx := context.WithoutCancel(ctx)
		if err := s.mailer.SendOrderCancellation(mailCtx, user.Email, order, reason); err != nil {
			mylogger.Warn(
				mailCtx,
				s.logger,
				"Failed to send cancellation email",
				zap.Int64("order_id", order.ID),
				zap.Error(err),
			)
		}
	}()
}
