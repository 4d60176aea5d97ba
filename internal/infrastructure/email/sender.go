package email

import (
	"context"
	"fmt"
	"net/smtp"
	"os"

	"github.com/Yash7028/ECommerce-API/internal/domain"
	"github.com/Yash7028/ECommerce-API/pkg/mylogger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Sender is a fire-and-forget notification sink: callers log failures and
// move on, they never fail an order operation over a missed email.
type Sender interface {
	SendOrderConfirmation(ctx context.Context, to string, order *domain.Order) error
	SendOrderCancellation(ctx context.Context, to string, order *domain.Order, reason string) error
}

type smtpSender struct {
	from     string
	password string
	host     string
	port     string
	logger   *zap.Logger
	tracer   trace.Tracer
}

func NewSMTPSender(logger *zap.Logger) Sender {
	return &smtpSender{
		from:     os.Getenv("SMTP_USER"),
		password: os.Getenv("SMTP_PASSWORD"),
		host:     os.Getenv("SMTP_HOST"),
		port:     os.Getenv("SMTP_PORT"),
		logger:   logger,
		tracer:   otel.Tracer("infrastructure/email"),
	}
}

func (s *smtpSender) SendOrderConfirmation(ctx context.Context, to string, order *domain.Order) error {
	ctx, span := s.tracer.Start(ctx, "smtp.SendOrderConfirmation")
	defer span.End()

	span.SetAttributes(
		attribute.String("to.email", to),
		attribute.Int64("order_id", order.ID),
	)

	subject := "Subject: Your Order is Confirmed\n"
	mime := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"

	itemRows := ""
	for _, item := range order.Items {
		itemRows += fmt.Sprintf("<li>%s x %d: %d</li>", item.Name, item.Quantity, item.DiscountedPrice)
	}

	body := fmt.Sprintf(`
		<h1>Thank you for your order! 🎉</h1>
		<p>Order #%d has been confirmed.</p>
		<ul>%s</ul>
		<p>Total: %d, discount: %d, to pay: %d</p>
	`, order.ID, itemRows, order.TotalAmount, order.Discount, order.FinalAmount)

	msg := []byte(subject + mime + body)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	auth := smtp.PlainAuth("", s.from, s.password, s.host)

	mylogger.Info(
		ctx,
		s.logger,
		"Sending order confirmation email",
		zap.String("to", to),
		zap.Int64("order_id", order.ID),
	)

	if err := smtp.SendMail(addr, auth, s.from, []string{to}, msg); err != nil {
		span.RecordError(err)

		mylogger.Error(
			ctx,
			s.logger,
			"Error sending order confirmation email",
			zap.String("to", to),
			zap.Int64("order_id", order.ID),
			zap.Error(err),
		)

		return fmt.Errorf("failed to send mail: %v", err)
	}

	return nil
}

func (s *smtpSender) SendOrderCancellation(ctx context.Context, to string, order *domain.Order, reason string) error {
	ctx, span := s.tracer.Start(ctx, "smtp.SendOrderCancellation")
	defer span.End()

	span.SetAttributes(
		attribute.String("to.email", to),
		attribute.Int64("order_id", order.ID),
	)

	subject := "Subject: Order Cancellation Confirmation\n"
	mime := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"
	body := fmt.Sprintf(`
		<h1>Your order #%d has been cancelled</h1>
		<p>Reason: %s</p>
		<p>The refund of %d has been issued to your original payment method.</p>
	`, order.ID, reason, order.FinalAmount)

	msg := []byte(subject + mime + body)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	auth := smtp.PlainAuth("", s.from, s.password, s.host)

	mylogger.Info(
		ctx,
		s.logger,
		"Sending order cancellation email",
		zap.String("to", to),
		zap.Int64("order_id", order.ID),
	)

	if err := smtp.SendMail(addr, auth, s.from, []string{to}, msg); err != nil {
		span.RecordError(err)

		mylogger.Error(
			ctx,
			s.logger,
			"Error sending order cancellation email",
			zap.String("to", to),
			zap.Int64("order_id", order.ID),
			zap.Error(err),
		)

		return fmt.Errorf("failed to send mail: %v", err)
	}

	return nil
}
