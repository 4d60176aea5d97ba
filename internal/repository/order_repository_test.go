package repository_test

import (
	"time"

	"github.com/Yash7028/ECommerce-API/internal/domain"
	"github.com/Yash7028/ECommerce-API/internal/repository"
)

func (s *RepositorySuite) TestCreateOrder_RoundTrip() {
	s.seedUser(1, "buyer@example.com")
	s.seedAddress(10, 1, false)

	order := s.newOrder(1, 10)
	s.Require().NoError(s.Orders.Create(s.Ctx, order))

	s.Require().NotZero(order.ID)
	s.Require().NotZero(order.Items[0].ID)
	s.Equal(order.ID, order.Items[0].OrderID)

	stored, err := s.Orders.GetByID(s.Ctx, order.ID)
	s.Require().NoError(err)

	s.Equal(int64(1), stored.UserID)
	s.Equal(domain.StatusNotConfirmed, stored.Status)
	s.Equal(domain.OrderStatusPending, stored.OrderStatus)
	s.Empty(stored.PaymentStatus)
	s.Equal(int64(2500), stored.TotalAmount)
	s.Equal(int64(2100), stored.FinalAmount)
	s.Equal(int64(400), stored.Discount)

	s.Require().Len(stored.Items, 2)
	s.Equal("Keyboard", stored.Items[0].Name)
	s.Equal([]string{"a.jpg", "b.jpg"}, stored.Items[0].AdditionalImages)
	s.Nil(stored.PaymentDate)
	s.Nil(stored.RefundDate)
}

func (s *RepositorySuite) TestGetOrderByID_NotFound() {
	_, err := s.Orders.GetByID(s.Ctx, 12345)
	s.Require().ErrorIs(err, repository.ErrOrderNotFound)
}

func (s *RepositorySuite) TestSavePaymentIntent() {
	s.seedUser(1, "buyer@example.com")
	s.seedAddress(10, 1, false)

	order := s.newOrder(1, 10)
	s.Require().NoError(s.Orders.Create(s.Ctx, order))

	err := s.Orders.SavePaymentIntent(s.Ctx, order.ID, "pi_123", "pi_123_secret_abc")
	s.Require().NoError(err)

	stored, err := s.Orders.GetByID(s.Ctx, order.ID)
	s.Require().NoError(err)
	s.Equal(domain.PaymentMethodCard, stored.PaymentMethod)
	s.Equal("pi_123", stored.PaymentIntentID)
	s.Equal("pi_123_secret_abc", stored.ClientSecret)
	s.Equal(domain.PaymentStatusPending, stored.PaymentStatus)

	err = s.Orders.SavePaymentIntent(s.Ctx, 12345, "pi_x", "secret")
	s.Require().ErrorIs(err, repository.ErrOrderNotFound)
}

func (s *RepositorySuite) TestConfirm_KeepsRecordedMethod() {
	s.seedUser(1, "buyer@example.com")
	s.seedAddress(10, 1, false)

	order := s.newOrder(1, 10)
	s.Require().NoError(s.Orders.Create(s.Ctx, order))
	s.Require().NoError(s.Orders.SavePaymentIntent(s.Ctx, order.ID, "pi_123", "secret"))

	deliveryDate := time.Now().Add(120 * time.Hour)
	s.Require().NoError(s.Orders.Confirm(s.Ctx, order.ID, "", deliveryDate))

	stored, err := s.Orders.GetByID(s.Ctx, order.ID)
	s.Require().NoError(err)
	s.Equal(domain.StatusConfirmed, stored.Status)
	s.Equal(domain.OrderStatusProcessing, stored.OrderStatus)
	s.Equal(domain.PaymentStatusSucceeded, stored.PaymentStatus)
	s.Equal(domain.PaymentMethodCard, stored.PaymentMethod)
	s.Require().NotNil(stored.PaymentDate)
	s.Require().NotNil(stored.DeliveryDate)
	s.WithinDuration(deliveryDate, *stored.DeliveryDate, time.Second)
}

func (s *RepositorySuite) TestConfirm_WritesCODMethod() {
	s.seedUser(1, "buyer@example.com")
	s.seedAddress(10, 1, false)

	order := s.newOrder(1, 10)
	s.Require().NoError(s.Orders.Create(s.Ctx, order))

	s.Require().NoError(s.Orders.Confirm(s.Ctx, order.ID, domain.PaymentMethodCOD, time.Now().Add(time.Hour)))

	stored, err := s.Orders.GetByID(s.Ctx, order.ID)
	s.Require().NoError(err)
	s.Equal(domain.PaymentMethodCOD, stored.PaymentMethod)

	err = s.Orders.Confirm(s.Ctx, 12345, domain.PaymentMethodCOD, time.Now())
	s.Require().ErrorIs(err, repository.ErrOrderNotFound)
}

func (s *RepositorySuite) TestMarkCancelled() {
	s.seedUser(1, "buyer@example.com")
	s.seedAddress(10, 1, false)

	order := s.newOrder(1, 10)
	s.Require().NoError(s.Orders.Create(s.Ctx, order))
	s.Require().NoError(s.Orders.Confirm(s.Ctx, order.ID, domain.PaymentMethodCOD, time.Now().Add(time.Hour)))

	s.Require().NoError(s.Orders.MarkCancelled(s.Ctx, order.ID, "Changed my mind"))

	stored, err := s.Orders.GetByID(s.Ctx, order.ID)
	s.Require().NoError(err)
	s.True(stored.Refunded)
	s.Require().NotNil(stored.RefundDate)
	s.Equal("Changed my mind", stored.CancelledReason)
	s.Equal(domain.StatusCancelled, stored.Status)

	err = s.Orders.MarkCancelled(s.Ctx, 12345, "x")
	s.Require().ErrorIs(err, repository.ErrOrderNotFound)
}

func (s *RepositorySuite) TestExpirePending() {
	s.seedUser(1, "buyer@example.com")
	s.seedAddress(10, 1, false)

	stale := s.newOrder(1, 10)
	s.Require().NoError(s.Orders.Create(s.Ctx, stale))
	s.Require().NoError(s.Orders.SavePaymentIntent(s.Ctx, stale.ID, "pi_stale", "secret"))
	s.backdateOrder(stale.ID, 3*time.Hour)

	fresh := s.newOrder(1, 10)
	s.Require().NoError(s.Orders.Create(s.Ctx, fresh))
	s.Require().NoError(s.Orders.SavePaymentIntent(s.Ctx, fresh.ID, "pi_fresh", "secret"))

	// Never entered the card flow, must not be swept no matter the age.
	untouched := s.newOrder(1, 10)
	s.Require().NoError(s.Orders.Create(s.Ctx, untouched))
	s.backdateOrder(untouched.ID, 3*time.Hour)

	count, err := s.Orders.ExpirePending(s.Ctx, time.Now().Add(-2*time.Hour), "Payment timeout")
	s.Require().NoError(err)
	s.Equal(int64(1), count)

	swept, err := s.Orders.GetByID(s.Ctx, stale.ID)
	s.Require().NoError(err)
	s.Equal(domain.OrderStatusCancelled, swept.OrderStatus)
	s.Equal("Payment timeout", swept.CancelledReason)

	kept, err := s.Orders.GetByID(s.Ctx, fresh.ID)
	s.Require().NoError(err)
	s.Equal(domain.OrderStatusPending, kept.OrderStatus)

	plain, err := s.Orders.GetByID(s.Ctx, untouched.ID)
	s.Require().NoError(err)
	s.Equal(domain.OrderStatusPending, plain.OrderStatus)
}

func (s *RepositorySuite) TestListByUser() {
	s.seedUser(1, "buyer@example.com")
	s.seedUser(2, "other@example.com")
	s.seedAddress(10, 1, false)
	s.seedAddress(11, 2, false)

	for i := 0; i < 3; i++ {
		order := s.newOrder(1, 10)
		s.Require().NoError(s.Orders.Create(s.Ctx, order))
	}
	other := s.newOrder(2, 11)
	s.Require().NoError(s.Orders.Create(s.Ctx, other))

	orders, total, err := s.Orders.ListByUser(s.Ctx, 1, 2, 0)
	s.Require().NoError(err)
	s.Equal(int64(3), total)
	s.Require().Len(orders, 2)
	s.Len(orders[0].Items, 2)

	orders, total, err = s.Orders.ListByUser(s.Ctx, 1, 2, 2)
	s.Require().NoError(err)
	s.Equal(int64(3), total)
	s.Len(orders, 1)
}

func (s *RepositorySuite) TestDeleteByID_CascadesItems() {
	s.seedUser(1, "buyer@example.com")
	s.seedAddress(10, 1, false)

	order := s.newOrder(1, 10)
	s.Require().NoError(s.Orders.Create(s.Ctx, order))

	s.Require().NoError(s.Orders.DeleteByID(s.Ctx, order.ID))

	_, err := s.Orders.GetByID(s.Ctx, order.ID)
	s.Require().ErrorIs(err, repository.ErrOrderNotFound)

	var itemCount int
	err = s.DbPool.QueryRow(s.Ctx, `SELECT COUNT(*) FROM order_items WHERE order_id = $1`, order.ID).Scan(&itemCount)
	s.Require().NoError(err)
	s.Zero(itemCount)

	s.Require().ErrorIs(s.Orders.DeleteByID(s.Ctx, order.ID), repository.ErrOrderNotFound)
}
