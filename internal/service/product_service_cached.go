package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Yash7028/ECommerce-API/internal/domain"
	"github.com/Yash7028/ECommerce-API/pkg/mylogger"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const productCacheTTL = 10 * time.Minute

// CachedProductService wraps a ProductFinder with a redis read-through
// cache. Cache failures are logged and degrade to the inner finder.
type CachedProductService struct {
	inner  ProductFinder
	rdb    *redis.Client
	logger *zap.Logger
	tracer trace.Tracer
}

func NewCachedProductService(inner ProductFinder, rdb *redis.Client, logger *zap.Logger) *CachedProductService {
	return &CachedProductService{
		inner:  inner,
		rdb:    rdb,
		logger: logger,
		tracer: otel.Tracer("service/product_cached"),
	}
}

func (s *CachedProductService) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CachedProductService.FindByID")
	defer span.End()

	key := fmt.Sprintf("product:%d", id)

	span.SetAttributes(
		attribute.Int64("id", id),
		attribute.String("cache_key", key),
	)

	cached, err := s.rdb.Get(ctx, key).Result()
	if err == nil {
		var product domain.Product
		if err := json.Unmarshal([]byte(cached), &product); err == nil {
			span.SetAttributes(attribute.Bool("cache_hit", true))
			return &product, nil
		}

		mylogger.Warn(ctx, s.logger, "Corrupted cache entry", zap.String("key", key))
	} else if !errors.Is(err, redis.Nil) {
		mylogger.Warn(
			ctx,
			s.logger,
			"Cache lookup failed",
			zap.String("key", key),
			zap.Error(err),
		)
	}

	span.SetAttributes(attribute.Bool("cache_hit", false))

	product, err := s.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(product)
	if err == nil {
		if err := s.rdb.Set(ctx, key, payload, productCacheTTL).Err(); err != nil {
			mylogger.Warn(
				ctx,
				s.logger,
				"Failed to populate cache",
				zap.String("key", key),
				zap.Error(err),
			)
		}
	}

	return product, nil
}
