package service

import (
	"context"
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

type PaymentService struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	users    repository.UserRepository

	processor payment.Processor
	mailer    email.Sender

	deliveryLeadTime time.Duration

	logger *zap.Logger
	tracer trace.Tracer
}

func NewPaymentService(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	users repository.UserRepository,
	processor payment.Processor,
	mailer email.Sender,
	deliveryLeadTime time.Duration,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		orders:           orders,
		products:         products,
		users:            users,
		processor:        processor,
		mailer:           mailer,
		deliveryLeadTime: deliveryLeadTime,
		logger:           logger,
		tracer:           otel.Tracer("service/payment"),
	}
}

// VerifyPayment asks the processor for the real state of an intent and, on
// success, confirms the order and sells the stock. The processor answer is
// the source of truth; the local payment_status only guards repeats.
// Clients may send either the intent id or the client secret; the secret is
// the id plus a "_secret..." suffix.
func (s *PaymentService) VerifyPayment(ctx context.Context, userID int64, intentOrSecret string) (*VerificationReport, error) {
	ctx, span := s.tracer.Start(ctx, "PaymentService.VerifyPayment")
	defer span.End()

	intentID := strings.SplitN(intentOrSecret, "_secret", 2)[0]

	span.SetAttributes(
		attribute.Int64("user_id", userID),
		attribute.String("payment_intent_id", intentID),
	)

	intent, err := s.processor.RetrieveIntent(ctx, intentID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	order, err := s.orders.GetByID(ctx, intent.OrderID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if order.UserID != userID {
		return nil, ErrUnauthorized
	}

	report := &VerificationReport{
		Status:   string(intent.Status),
		Amount:   intent.Amount,
		Currency: intent.Currency,
		OrderID:  order.ID,
		UserID:   order.UserID,
	}

	if intent.Status != payment.StatusSucceeded {
		report.Message = "Payment not successful."
		return report, nil
	}

	if strings.EqualFold(order.PaymentStatus, domain.PaymentStatusSucceeded) {
		report.Message = "Payment already verified."
		return report, nil
	}

	for _, item := range order.Items {
		enough, err := s.products.HasStock(ctx, item.ProductID, item.Quantity)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}

		// The charge itself went through, so the report keeps the
		// processor status and only the message carries the stock problem.
		if !enough {
			report.Message = fmt.Sprintf("Insufficient stock for product: %d", item.ProductID)
			return report, nil
		}
	}

	deliveryDate := time.Now().Add(s.deliveryLeadTime)
	if err := s.orders.Confirm(ctx, order.ID, "", deliveryDate); err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.notifyConfirmation(ctx, order)

	// The pre-check above is advisory only, a concurrent sale can still
	// drain an item between the probe and this loop. Failures here are
	// logged for manual reconciliation, the payment already went through.
	for _, item := range order.Items {
		if err := s.products.DecreaseStock(ctx, item.ProductID, item.Quantity); err != nil {
			mylogger.Error(
				ctx,
				s.logger,
				"Failed to decrement stock after verified payment",
				zap.Int64("order_id", order.ID),
				zap.Int64("product_id", item.ProductID),
				zap.Error(err),
			)
		}
	}

	mylogger.Info(
		ctx,
		s.logger,
		"Payment verified, order confirmed",
		zap.Int64("order_id", order.ID),
		zap.String("payment_intent_id", intentID),
	)

	report.Message = "Payment verified successfully"
	return report, nil
}

func (s *PaymentService) notifyConfirmation(ctx context.Context, order *domain.Order) {
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
