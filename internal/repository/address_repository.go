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

type AddressRepository interface {
	Create(ctx context.Context, address *domain.Address) error
	GetByID(ctx context.Context, id int64) (*domain.Address, error)
}

type addressRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
	tracer trace.Tracer
}

func NewAddressRepository(pool *pgxpool.Pool, logger *zap.Logger) AddressRepository {
	return &addressRepo{
		pool:   pool,
		logger: logger,
		tracer: otel.Tracer("repository/address_repo"),
	}
}

func (r *addressRepo) Create(ctx context.Context, address *domain.Address) error {
	ctx, span := r.tracer.Start(ctx, "AddressRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("user_id", address.UserID),
	)

	query := `
		INSERT INTO addresses (user_id, street, city, state, zip, country, saved)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	if err := r.pool.QueryRow(
		ctx,
		query,
		address.UserID,
		address.Street,
		address.City,
		address.State,
		address.Zip,
		address.Country,
		address.Saved,
	).Scan(&address.ID); err != nil {
		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Failed to insert address",
			zap.Int64("user_id", address.UserID),
			zap.Error(err),
		)

		return fmt.Errorf("failed to insert address: %w", err)
	}

	return nil
}

func (r *addressRepo) GetByID(ctx context.Context, id int64) (*domain.Address, error) {
	ctx, span := r.tracer.Start(ctx, "AddressRepository.GetByID")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("id", id),
	)

	query := `
		SELECT id, user_id, street, city, state, zip, country, saved
		FROM addresses
		WHERE id = $1
	`

	var a domain.Address
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.UserID, &a.Street, &a.City, &a.State, &a.Zip, &a.Country, &a.Saved,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAddressNotFound
		}

		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Failed to query address",
			zap.Int64("id", id),
			zap.Error(err),
		)

		return nil, fmt.Errorf("failed to query address: %w", err)
	}

	return &a, nil
}
