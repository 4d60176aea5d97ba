package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Yash7028/ECommerce-API/internal/domain"
	"github.com/Yash7028/ECommerce-API/pkg/mylogger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	ListByUser(ctx context.Context, userID, limit, offset int64) ([]domain.Order, int64, error)
	SavePaymentIntent(ctx context.Context, orderID int64, intentID, clientSecret string) error
	Confirm(ctx context.Context, orderID int64, paymentMethod string, deliveryDate time.Time) error
	MarkCancelled(ctx context.Context, orderID int64, reason string) error
	ExpirePending(ctx context.Context, cutoff time.Time, reason string) (int64, error)
	DeleteByID(ctx context.Context, id int64) error
}

type orderRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
	tracer trace.Tracer
}

func NewOrderRepository(pool *pgxpool.Pool, logger *zap.Logger) OrderRepository {
	return &orderRepo{
		pool:   pool,
		logger: logger,
		tracer: otel.Tracer("repository/order_repo"),
	}
}

// Create persists the order together with its item snapshots in one
// transaction. Addresses are expected to be persisted beforehand.
func (r *orderRepo) Create(ctx context.Context, order *domain.Order) error {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("user_id", order.UserID),
		attribute.Int("items_count", len(order.Items)),
	)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		cleanupCtx := context.WithoutCancel(ctx)
		err := tx.Rollback(cleanupCtx)

		if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			mylogger.Warn(
				cleanupCtx,
				r.logger,
				"Error rolling back transaction",
				zap.Error(err),
			)
		}
	}()

	queryOrder := `
		INSERT INTO orders (
			user_id, billing_address_id, shipping_address_id,
			total_amount, discount, final_amount,
			status, order_status, payment_status,
			delivery_date, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		RETURNING id, created_at
	`

	if err := tx.QueryRow(
		ctx,
		queryOrder,
		order.UserID,
		order.BillingAddressID,
		order.ShippingAddressID,
		order.TotalAmount,
		order.Discount,
		order.FinalAmount,
		order.Status,
		string(order.OrderStatus),
		order.PaymentStatus,
		order.DeliveryDate,
	).Scan(
		&order.ID,
		&order.CreatedAt,
	); err != nil {
		span.RecordError(err)

		mylogger.Warn(
			ctx,
			r.logger,
			"Failed to insert order",
			zap.Error(err),
		)

		return err
	}

	queryItem := `
		INSERT INTO order_items (order_id, product_id, name, quantity, total_price, discounted_price, main_image, additional_images)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	for i := range order.Items {
		item := &order.Items[i]

		images := item.AdditionalImages
		if images == nil {
			images = []string{}
		}

		if err := tx.QueryRow(
			ctx,
			queryItem,
			order.ID,
			item.ProductID,
			item.Name,
			item.Quantity,
			item.TotalPrice,
			item.DiscountedPrice,
			item.MainImage,
			images,
		).Scan(&item.ID); err != nil {
			span.RecordError(err)

			mylogger.Error(
				ctx,
				r.logger,
				"Failed to insert order item",
				zap.Int64("product_id", item.ProductID),
				zap.Error(err),
			)

			return fmt.Errorf("failed to insert order item: %w", err)
		}

		item.OrderID = order.ID
	}

	if err := tx.Commit(ctx); err != nil {
		mylogger.Error(ctx, r.logger, "Failed to commit transaction", zap.Error(err))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *orderRepo) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.GetByID")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("order_id", id),
	)

	query := `
		SELECT id, user_id, billing_address_id, shipping_address_id,
			total_amount, discount, final_amount,
			status, order_status, payment_status, payment_method,
			payment_intent_id, client_secret,
			refunded, refund_date, cancelled_reason,
			created_at, payment_date, delivery_date, delivered_at
		FROM orders
		WHERE id = $1
	`

	var o domain.Order
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.UserID, &o.BillingAddressID, &o.ShippingAddressID,
		&o.TotalAmount, &o.Discount, &o.FinalAmount,
		&o.Status, &o.OrderStatus, &o.PaymentStatus, &o.PaymentMethod,
		&o.PaymentIntentID, &o.ClientSecret,
		&o.Refunded, &o.RefundDate, &o.CancelledReason,
		&o.CreatedAt, &o.PaymentDate, &o.DeliveryDate, &o.DeliveredAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}

		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Failed to query order",
			zap.Int64("order_id", id),
			zap.Error(err),
		)

		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	items, err := r.itemsOfOrder(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	o.Items = items

	return &o, nil
}

func (r *orderRepo) itemsOfOrder(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, name, quantity, total_price, discounted_price, main_image, additional_images
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		mylogger.Error(
			ctx,
			r.logger,
			"Failed to query order_items",
			zap.Int64("order_id", orderID),
			zap.Error(err),
		)

		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var result []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.Name,
			&item.Quantity,
			&item.TotalPrice,
			&item.DiscountedPrice,
			&item.MainImage,
			&item.AdditionalImages,
		); err != nil {
			mylogger.Error(ctx, r.logger, "Failed to scan order item", zap.Error(err))
			return nil, err
		}

		result = append(result, item)
	}

	if err := rows.Err(); err != nil {
		mylogger.Error(ctx, r.logger, "Rows error", zap.Error(err))
		return nil, err
	}

	return result, nil
}

func (r *orderRepo) ListByUser(ctx context.Context, userID, limit, offset int64) ([]domain.Order, int64, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.ListByUser")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("user_id", userID),
		attribute.Int64("limit", limit),
		attribute.Int64("offset", offset),
	)

	query := `
		SELECT id, user_id, billing_address_id, shipping_address_id,
			total_amount, discount, final_amount,
			status, order_status, payment_status, payment_method,
			payment_intent_id, client_secret,
			refunded, refund_date, cancelled_reason,
			created_at, payment_date, delivery_date, delivered_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Failed to query orders of user",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)

		return nil, 0, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(
			&o.ID, &o.UserID, &o.BillingAddressID, &o.ShippingAddressID,
			&o.TotalAmount, &o.Discount, &o.FinalAmount,
			&o.Status, &o.OrderStatus, &o.PaymentStatus, &o.PaymentMethod,
			&o.PaymentIntentID, &o.ClientSecret,
			&o.Refunded, &o.RefundDate, &o.CancelledReason,
			&o.CreatedAt, &o.PaymentDate, &o.DeliveryDate, &o.DeliveredAt,
		); err != nil {
			span.RecordError(err)
			mylogger.Error(ctx, r.logger, "Failed to scan order", zap.Error(err))
			return nil, 0, err
		}

		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		mylogger.Error(ctx, r.logger, "Rows iteration error", zap.Error(err))
		return nil, 0, err
	}

	for i := range orders {
		items, err := r.itemsOfOrder(ctx, orders[i].ID)
		if err != nil {
			return nil, 0, err
		}
		orders[i].Items = items
	}

	var totalCount int64
	countQuery := `SELECT COUNT(*) FROM orders WHERE user_id = $1`
	if err := r.pool.QueryRow(ctx, countQuery, userID).Scan(&totalCount); err != nil {
		span.RecordError(err)
		mylogger.Error(ctx, r.logger, "Failed to count orders", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	return orders, totalCount, nil
}

// SavePaymentIntent records the processor handle on the order and flips it
// into the card-pending state. No stock is touched at this point.
func (r *orderRepo) SavePaymentIntent(ctx context.Context, orderID int64, intentID, clientSecret string) error {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.SavePaymentIntent")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("order_id", orderID),
		attribute.String("payment_intent_id", intentID),
	)

	query := `
		UPDATE orders
		SET payment_method = $2,
			payment_intent_id = $3,
			client_secret = $4,
			payment_status = $5
		WHERE id = $1
	`

	commandTag, err := r.pool.Exec(
		ctx,
		query,
		orderID,
		domain.PaymentMethodCard,
		intentID,
		clientSecret,
		domain.PaymentStatusPending,
	)
	if err != nil {
		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Failed to save payment intent",
			zap.Int64("order_id", orderID),
			zap.Error(err),
		)

		return fmt.Errorf("failed to save payment intent: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		mylogger.Warn(ctx, r.logger, "Order not found", zap.Int64("order_id", orderID))
		return ErrOrderNotFound
	}

	return nil
}

// Confirm moves the order into the paid state in a single statement so the
// transition commits atomically against the order row. paymentMethod is
// only written when non-empty (COD confirmation sets it, card verification
// keeps the recorded one).
func (r *orderRepo) Confirm(ctx context.Context, orderID int64, paymentMethod string, deliveryDate time.Time) error {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.Confirm")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("order_id", orderID),
		attribute.String("payment_method", paymentMethod),
	)

	query := `
		UPDATE orders
		SET payment_status = $2,
			payment_date = NOW(),
			status = $3,
			order_status = $4,
			delivery_date = $5,
			payment_method = COALESCE(NULLIF($6, ''), payment_method)
		WHERE id = $1
	`

	commandTag, err := r.pool.Exec(
		ctx,
		query,
		orderID,
		domain.PaymentStatusSucceeded,
		domain.StatusConfirmed,
		string(domain.OrderStatusProcessing),
		deliveryDate,
		paymentMethod,
	)
	if err != nil {
		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Failed to confirm order",
			zap.Int64("order_id", orderID),
			zap.Error(err),
		)

		return fmt.Errorf("failed to confirm order: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		mylogger.Warn(ctx, r.logger, "Order not found", zap.Int64("order_id", orderID))
		return ErrOrderNotFound
	}

	return nil
}

func (r *orderRepo) MarkCancelled(ctx context.Context, orderID int64, reason string) error {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.MarkCancelled")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("order_id", orderID),
	)

	query := `
		UPDATE orders
		SET refunded = TRUE,
			refund_date = NOW(),
			cancelled_reason = $2,
			status = $3
		WHERE id = $1
	`

	commandTag, err := r.pool.Exec(ctx, query, orderID, reason, domain.StatusCancelled)
	if err != nil {
		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Failed to mark order cancelled",
			zap.Int64("order_id", orderID),
			zap.Error(err),
		)

		return fmt.Errorf("failed to mark order cancelled: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		mylogger.Warn(ctx, r.logger, "Order not found", zap.Int64("order_id", orderID))
		return ErrOrderNotFound
	}

	return nil
}

// ExpirePending cancels every order whose card payment has been pending
// since before the cutoff. Stock was never decremented for those orders,
// so nothing is restored.
func (r *orderRepo) ExpirePending(ctx context.Context, cutoff time.Time, reason string) (int64, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.ExpirePending")
	defer span.End()

	query := `
		UPDATE orders
		SET order_status = $3,
			cancelled_reason = $2
		WHERE payment_status = $1
			AND created_at < $4
	`

	commandTag, err := r.pool.Exec(
		ctx,
		query,
		domain.PaymentStatusPending,
		reason,
		string(domain.OrderStatusCancelled),
		cutoff,
	)
	if err != nil {
		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Failed to expire pending orders",
			zap.Error(err),
		)

		return 0, fmt.Errorf("failed to expire pending orders: %w", err)
	}

	span.SetAttributes(
		attribute.Int64("expired_count", commandTag.RowsAffected()),
	)

	return commandTag.RowsAffected(), nil
}

func (r *orderRepo) DeleteByID(ctx context.Context, id int64) error {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.DeleteByID")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("order_id", id),
	)

	// order_items go with the order via ON DELETE CASCADE
	query := `
		DELETE FROM orders
		WHERE id = $1
	`

	commandTag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Failed to delete order",
			zap.Int64("order_id", id),
			zap.Error(err),
		)

		return fmt.Errorf("failed to delete order: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}

	return nil
}
