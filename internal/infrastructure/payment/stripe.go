package payment

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Yash7028/ECommerce-API/pkg/config"
	"github.com/Yash7028/ECommerce-API/pkg/mylogger"
	"github.com/Yash7028/ECommerce-API/pkg/utils"
	"github.com/sony/gobreaker"
	stripe "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type stripeProcessor struct {
	api      *client.API
	currency string
	timeout  time.Duration
	logger   *zap.Logger
	cb       *gobreaker.CircuitBreaker
	tracer   trace.Tracer
}

func NewStripeProcessor(cfg config.Stripe, logger *zap.Logger) Processor {
	api := &client.API{}
	api.Init(cfg.APIKey, nil)

	settings := gobreaker.Settings{
		Name:        "StripeProcessor",
		MaxRequests: 3,
		Interval:    5 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn(
				"Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	return &stripeProcessor{
		api:      api,
		currency: cfg.Currency,
		timeout:  cfg.Timeout,
		logger:   logger,
		cb:       gobreaker.NewCircuitBreaker(settings),
		tracer:   otel.Tracer("infrastructure/payment"),
	}
}

func (p *stripeProcessor) CreateIntent(ctx context.Context, amount, orderID, userID int64) (*Intent, error) {
	ctx, span := p.tracer.Start(ctx, "StripeProcessor.CreateIntent")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("amount", amount),
		attribute.Int64("order_id", orderID),
		attribute.Int64("user_id", userID),
	)

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(amount),
		Currency:    stripe.String(p.currency),
		Description: stripe.String("Order Payment"),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
	}
	params.Context = ctx
	params.AddMetadata("order_id", strconv.FormatInt(orderID, 10))
	params.AddMetadata("user_id", strconv.FormatInt(userID, 10))

	pi, err := utils.ExecuteWithBreaker(p.cb, func() (*stripe.PaymentIntent, error) {
		return p.api.PaymentIntents.New(params)
	})
	if err != nil {
		span.RecordError(err)

		mylogger.Error(
			ctx,
			p.logger,
			"Failed to create payment intent",
			zap.Int64("order_id", orderID),
			zap.Error(err),
		)

		return nil, fmt.Errorf("%w: create intent: %v", ErrProvider, err)
	}

	return p.toIntent(pi), nil
}

func (p *stripeProcessor) RetrieveIntent(ctx context.Context, intentID string) (*Intent, error) {
	ctx, span := p.tracer.Start(ctx, "StripeProcessor.RetrieveIntent")
	defer span.End()

	span.SetAttributes(
		attribute.String("payment_intent_id", intentID),
	)

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := utils.ExecuteWithBreaker(p.cb, func() (*stripe.PaymentIntent, error) {
		return p.api.PaymentIntents.Get(intentID, params)
	})
	if err != nil {
		span.RecordError(err)

		mylogger.Error(
			ctx,
			p.logger,
			"Failed to retrieve payment intent",
			zap.String("payment_intent_id", intentID),
			zap.Error(err),
		)

		return nil, fmt.Errorf("%w: retrieve intent: %v", ErrProvider, err)
	}

	return p.toIntent(pi), nil
}

func (p *stripeProcessor) Refund(ctx context.Context, intentID string) (*RefundResult, error) {
	ctx, span := p.tracer.Start(ctx, "StripeProcessor.Refund")
	defer span.End()

	span.SetAttributes(
		attribute.String("payment_intent_id", intentID),
	)

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(intentID),
	}
	params.Context = ctx

	refund, err := utils.ExecuteWithBreaker(p.cb, func() (*stripe.Refund, error) {
		return p.api.Refunds.New(params)
	})
	if err != nil {
		span.RecordError(err)

		mylogger.Error(
			ctx,
			p.logger,
			"Failed to create refund",
			zap.String("payment_intent_id", intentID),
			zap.Error(err),
		)

		return nil, fmt.Errorf("%w: refund: %v", ErrProvider, err)
	}

	result := &RefundResult{ID: refund.ID, Status: StatusFailed}
	if refund.Status == stripe.RefundStatusSucceeded {
		result.Status = StatusSucceeded
	} else if refund.Status == stripe.RefundStatusPending {
		result.Status = StatusPending
	}

	return result, nil
}

func (p *stripeProcessor) toIntent(pi *stripe.PaymentIntent) *Intent {
	intent := &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       translateIntentStatus(pi.Status),
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
	}

	if v, ok := pi.Metadata["order_id"]; ok {
		intent.OrderID, _ = strconv.ParseInt(v, 10, 64)
	}
	if v, ok := pi.Metadata["user_id"]; ok {
		intent.UserID, _ = strconv.ParseInt(v, 10, 64)
	}

	return intent
}

func translateIntentStatus(s stripe.PaymentIntentStatus) Status {
	switch s {
	case stripe.PaymentIntentStatusSucceeded:
		return StatusSucceeded
	case stripe.PaymentIntentStatusProcessing:
		return StatusProcessing
	case stripe.PaymentIntentStatusCanceled:
		return StatusFailed
	default:
		return StatusPending
	}
}
