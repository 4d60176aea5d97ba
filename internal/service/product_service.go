package service

import (
	"context"

	"github.com/Yash7028/ECommerce-API/internal/domain"
	"github.com/Yash7028/ECommerce-API/internal/repository"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type ProductFinder interface {
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
}

type ProductService struct {
	products repository.ProductRepository
	logger   *zap.Logger
	tracer   trace.Tracer
}

func NewProductService(products repository.ProductRepository, logger *zap.Logger) *ProductService {
	return &ProductService{
		products: products,
		logger:   logger,
		tracer:   otel.Tracer("service/product"),
	}
}

func (s *ProductService) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.FindByID")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("id", id),
	)

	return s.products.GetByID(ctx, id)
}
