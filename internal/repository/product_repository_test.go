package repository_test

import (
	"errors"
	"sync"

	"github.com/Yash7028/ECommerce-API/internal/repository"
)

func (s *RepositorySuite) TestGetProductByID() {
	s.seedProduct(1, "Keyboard", 1000, 800, 10)

	product, err := s.Products.GetByID(s.Ctx, 1)
	s.Require().NoError(err)
	s.Equal("Keyboard", product.Name)
	s.Equal(int64(800), product.DiscountedPrice)
	s.Equal([]string{"a.jpg", "b.jpg"}, product.AdditionalImages)

	_, err = s.Products.GetByID(s.Ctx, 999)
	s.Require().ErrorIs(err, repository.ErrProductNotFound)
}

func (s *RepositorySuite) TestDecreaseStock() {
	s.seedProduct(1, "Keyboard", 1000, 800, 10)

	s.Require().NoError(s.Products.DecreaseStock(s.Ctx, 1, 4))

	product, err := s.Products.GetByID(s.Ctx, 1)
	s.Require().NoError(err)
	s.Equal(int64(6), product.StockQuantity)

	err = s.Products.DecreaseStock(s.Ctx, 1, 7)
	s.Require().ErrorIs(err, repository.ErrInsufficientStock)

	// A failed decrement leaves the quantity alone.
	product, err = s.Products.GetByID(s.Ctx, 1)
	s.Require().NoError(err)
	s.Equal(int64(6), product.StockQuantity)
}

func (s *RepositorySuite) TestDecreaseStock_Concurrent() {
	s.seedProduct(1, "Keyboard", 1000, 800, 5)

	var wg sync.WaitGroup
	results := make([]error, 2)

	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = s.Products.DecreaseStock(s.Ctx, 1, 3)
		}(i)
	}
	wg.Wait()

	var failed int
	for _, err := range results {
		if errors.Is(err, repository.ErrInsufficientStock) {
			failed++
		} else {
			s.Require().NoError(err)
		}
	}
	s.Equal(1, failed)

	product, err := s.Products.GetByID(s.Ctx, 1)
	s.Require().NoError(err)
	s.Equal(int64(2), product.StockQuantity)
}

func (s *RepositorySuite) TestIncreaseStock() {
	s.seedProduct(1, "Keyboard", 1000, 800, 2)

	s.Require().NoError(s.Products.IncreaseStock(s.Ctx, 1, 3))

	product, err := s.Products.GetByID(s.Ctx, 1)
	s.Require().NoError(err)
	s.Equal(int64(5), product.StockQuantity)

	err = s.Products.IncreaseStock(s.Ctx, 999, 1)
	s.Require().ErrorIs(err, repository.ErrProductNotFound)
}

func (s *RepositorySuite) TestHasStock() {
	s.seedProduct(1, "Keyboard", 1000, 800, 5)

	enough, err := s.Products.HasStock(s.Ctx, 1, 5)
	s.Require().NoError(err)
	s.True(enough)

	enough, err = s.Products.HasStock(s.Ctx, 1, 6)
	s.Require().NoError(err)
	s.False(enough)

	enough, err = s.Products.HasStock(s.Ctx, 999, 1)
	s.Require().NoError(err)
	s.False(enough)
}
