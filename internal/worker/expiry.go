package worker

import (
	"context"
	"time"

	"github.com/Yash7028/ECommerce-API/internal/repository"
	"github.com/Yash7028/ECommerce-API/pkg/config"
	"github.com/Yash7028/ECommerce-API/pkg/mylogger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const paymentTimeoutReason = "Payment timeout"

// ExpiryWorker periodically cancels orders whose card payment stayed
// pending past the configured maximum age. Stock is never restored here:
// pending orders have not sold any.
type ExpiryWorker struct {
	orders   repository.OrderRepository
	interval time.Duration
	maxAge   time.Duration
	logger   *zap.Logger
	tracer   trace.Tracer
}

func NewExpiryWorker(orders repository.OrderRepository, cfg config.Expiry, logger *zap.Logger) *ExpiryWorker {
	return &ExpiryWorker{
		orders:   orders,
		interval: cfg.Interval,
		maxAge:   cfg.MaxAge,
		logger:   logger,
		tracer:   otel.Tracer("worker/expiry"),
	}
}

// Run blocks until ctx is cancelled. One sweep fires immediately so a
// restart does not wait a full interval to catch up.
func (w *ExpiryWorker) Run(ctx context.Context) {
	w.logger.Info(
		"Expiry worker started",
		zap.Duration("interval", w.interval),
		zap.Duration("max_age", w.maxAge),
	)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Expiry worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *ExpiryWorker) sweep(ctx context.Context) {
	ctx, span := w.tracer.Start(ctx, "ExpiryWorker.sweep")
	defer span.End()

	cutoff := time.Now().Add(-w.maxAge)

	expired, err := w.orders.ExpirePending(ctx, cutoff, paymentTimeoutReason)
	if err != nil {
		span.RecordError(err)

		mylogger.Error(
			ctx,
			w.logger,
			"Expiry sweep failed",
			zap.Error(err),
		)

		return
	}

	span.SetAttributes(
		attribute.Int64("expired_count", expired),
	)

	if expired > 0 {
		mylogger.Info(
			ctx,
			w.logger,
			"Expired pending orders",
			zap.Int64("count", expired),
			zap.Time("cutoff", cutoff),
		)
	}
}
