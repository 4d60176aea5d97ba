package repository_test

import (
	"github.com/Yash7028/ECommerce-API/internal/domain"
	"github.com/Yash7028/ECommerce-API/internal/repository"
)

func (s *RepositorySuite) TestAddressCreateAndGet() {
	s.seedUser(1, "buyer@example.com")

	address := &domain.Address{
		UserID:  1,
		Street:  "2 Main St",
		City:    "Springfield",
		Zip:     "12345",
		Country: "US",
		Saved:   false,
	}
	s.Require().NoError(s.Addresses.Create(s.Ctx, address))
	s.Require().NotZero(address.ID)

	stored, err := s.Addresses.GetByID(s.Ctx, address.ID)
	s.Require().NoError(err)
	s.Equal("2 Main St", stored.Street)
	s.False(stored.Saved)

	_, err = s.Addresses.GetByID(s.Ctx, 999)
	s.Require().ErrorIs(err, repository.ErrAddressNotFound)
}

func (s *RepositorySuite) TestCartGetByID() {
	s.seedUser(1, "buyer@example.com")
	s.seedProduct(1, "Keyboard", 1000, 800, 10)
	s.seedProduct(2, "Mouse", 500, 500, 5)
	s.seedCart(42, 1, map[int64]int32{1: 2, 2: 1})

	cart, err := s.Carts.GetByID(s.Ctx, 42)
	s.Require().NoError(err)
	s.Equal(int64(1), cart.UserID)
	s.Len(cart.Items, 2)

	_, err = s.Carts.GetByID(s.Ctx, 404)
	s.Require().ErrorIs(err, repository.ErrCartNotFound)
}

func (s *RepositorySuite) TestUserGetByID() {
	s.seedUser(1, "buyer@example.com")

	user, err := s.Users.GetByID(s.Ctx, 1)
	s.Require().NoError(err)
	s.Equal("buyer@example.com", user.Email)

	user, err = s.Users.GetByEmail(s.Ctx, "buyer@example.com")
	s.Require().NoError(err)
	s.Equal(int64(1), user.ID)

	_, err = s.Users.GetByID(s.Ctx, 999)
	s.Require().ErrorIs(err, repository.ErrUserNotFound)
}
