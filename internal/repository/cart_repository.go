package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Yash7028/ECommerce-API/internal/domain"
	"github.com/Yash7028/ECommerce-API/pkg/mylogger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type CartRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Cart, error)
}

type cartRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
	tracer trace.Tracer
}

func NewCartRepository(pool *pgxpool.Pool, logger *zap.Logger) CartRepository {
	return &cartRepo{
		pool:   pool,
		logger: logger,
		tracer: otel.Tracer("repository/cart_repo"),
	}
}

func (r *cartRepo) GetByID(ctx context.Context, id int64) (*domain.Cart, error) {
	ctx, span := r.tracer.Start(ctx, "CartRepository.GetByID")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("cart_id", id),
	)

	query := `
		SELECT id, user_id
		FROM carts
		WHERE id = $1
	`

	var cart domain.Cart
	if err := r.pool.QueryRow(ctx, query, id).Scan(&cart.ID, &cart.UserID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCartNotFound
		}

		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Failed to query cart",
			zap.Int64("cart_id", id),
			zap.Error(err),
		)

		return nil, fmt.Errorf("failed to query cart: %w", err)
	}

	itemsQuery := `
		SELECT id, cart_id, product_id, quantity
		FROM cart_items
		WHERE cart_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, itemsQuery, id)
	if err != nil {
		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Failed to query cart_items",
			zap.Int64("cart_id", id),
			zap.Error(err),
		)

		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(&item.ID, &item.CartID, &item.ProductID, &item.Quantity); err != nil {
			span.RecordError(err)
			mylogger.Error(ctx, r.logger, "Failed to scan cart item", zap.Error(err))
			return nil, err
		}

		cart.Items = append(cart.Items, item)
	}

	if err := rows.Err(); err != nil {
		mylogger.Error(ctx, r.logger, "Rows error", zap.Error(err))
		return nil, err
	}

	return &cart, nil
}
