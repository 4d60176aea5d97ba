package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Yash7028/ECommerce-API/internal/domain"
	"github.com/Yash7028/ECommerce-API/internal/infrastructure/payment"
	"github.com/Yash7028/ECommerce-API/internal/repository"
)

type fakeOrderRepo struct {
	mu         sync.Mutex
	nextID     int64
	orders     map[int64]*domain.Order
	confirmErr error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[int64]*domain.Order)}
}

func (r *fakeOrderRepo) Create(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	order.ID = r.nextID
	order.CreatedAt = time.Now()
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}

	stored := *order
	stored.Items = append([]domain.OrderItem(nil), order.Items...)
	r.orders[order.ID] = &stored

	return nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}

	copied := *stored
	copied.Items = append([]domain.OrderItem(nil), stored.Items...)
	return &copied, nil
}

func (r *fakeOrderRepo) ListByUser(_ context.Context, userID, limit, offset int64) ([]domain.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var all []domain.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			all = append(all, *o)
		}
	}

	total := int64(len(all))
	if offset >= total {
		return nil, total, nil
	}

	end := offset + limit
	if end > total {
		end = total
	}

	return all[offset:end], total, nil
}

func (r *fakeOrderRepo) SavePaymentIntent(_ context.Context, orderID int64, intentID, clientSecret string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok {
		return repository.ErrOrderNotFound
	}

	order.PaymentMethod = domain.PaymentMethodCard
	order.PaymentIntentID = intentID
	order.ClientSecret = clientSecret
	order.PaymentStatus = domain.PaymentStatusPending

	return nil
}

func (r *fakeOrderRepo) Confirm(_ context.Context, orderID int64, paymentMethod string, deliveryDate time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.confirmErr != nil {
		return r.confirmErr
	}

	order, ok := r.orders[orderID]
	if !ok {
		return repository.ErrOrderNotFound
	}

	now := time.Now()
	order.PaymentStatus = domain.PaymentStatusSucceeded
	order.PaymentDate = &now
	order.Status = domain.StatusConfirmed
	order.OrderStatus = domain.OrderStatusProcessing
	order.DeliveryDate = &deliveryDate
	if paymentMethod != "" {
		order.PaymentMethod = paymentMethod
	}

	return nil
}

func (r *fakeOrderRepo) MarkCancelled(_ context.Context, orderID int64, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok {
		return repository.ErrOrderNotFound
	}

	now := time.Now()
	order.Refunded = true
	order.RefundDate = &now
	order.CancelledReason = reason
	order.Status = domain.StatusCancelled

	return nil
}

func (r *fakeOrderRepo) ExpirePending(_ context.Context, cutoff time.Time, reason string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, order := range r.orders {
		if order.PaymentStatus == domain.PaymentStatusPending && order.CreatedAt.Before(cutoff) {
			order.OrderStatus = domain.OrderStatusCancelled
			order.CancelledReason = reason
			count++
		}
	}

	return count, nil
}

func (r *fakeOrderRepo) DeleteByID(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[id]; !ok {
		return repository.ErrOrderNotFound
	}

	delete(r.orders, id)
	return nil
}

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[int64]*domain.Product
}

func newFakeProductRepo(products ...*domain.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: make(map[int64]*domain.Product)}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}

	copied := *p
	return &copied, nil
}

func (r *fakeProductRepo) DecreaseStock(_ context.Context, id int64, quantity int32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok || p.StockQuantity < int64(quantity) {
		return repository.ErrInsufficientStock
	}

	p.StockQuantity -= int64(quantity)
	return nil
}

func (r *fakeProductRepo) IncreaseStock(_ context.Context, id int64, quantity int32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return repository.ErrProductNotFound
	}

	p.StockQuantity += int64(quantity)
	return nil
}

func (r *fakeProductRepo) HasStock(_ context.Context, id int64, quantity int32) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	return ok && p.StockQuantity >= int64(quantity), nil
}

func (r *fakeProductRepo) stockOf(id int64) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.products[id].StockQuantity
}

type fakeCartRepo struct {
	carts map[int64]*domain.Cart
}

func (r *fakeCartRepo) GetByID(_ context.Context, id int64) (*domain.Cart, error) {
	cart, ok := r.carts[id]
	if !ok {
		return nil, repository.ErrCartNotFound
	}
	return cart, nil
}

type fakeAddressRepo struct {
	mu        sync.Mutex
	nextID    int64
	addresses map[int64]*domain.Address
}

func newFakeAddressRepo(addresses ...*domain.Address) *fakeAddressRepo {
	r := &fakeAddressRepo{addresses: make(map[int64]*domain.Address)}
	for _, a := range addresses {
		r.addresses[a.ID] = a
		if a.ID > r.nextID {
			r.nextID = a.ID
		}
	}
	return r
}

func (r *fakeAddressRepo) Create(_ context.Context, address *domain.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	address.ID = r.nextID
	stored := *address
	r.addresses[address.ID] = &stored

	return nil
}

func (r *fakeAddressRepo) GetByID(_ context.Context, id int64) (*domain.Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.addresses[id]
	if !ok {
		return nil, repository.ErrAddressNotFound
	}

	copied := *a
	return &copied, nil
}

type fakeUserRepo struct {
	users map[int64]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[int64]*domain.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

type fakeProcessor struct {
	mu sync.Mutex

	createErr    error
	retrieveErr  error
	refundErr    error
	intentStatus payment.Status
	refundStatus payment.Status

	createCalls    int
	retrievedIDs   []string
	refundedIDs    []string
	createdIntents map[string]*payment.Intent
}

func newFakeProcessor() *fakeProcessor {
	return &fakeProcessor{
		intentStatus:   payment.StatusSucceeded,
		refundStatus:   payment.StatusSucceeded,
		createdIntents: make(map[string]*payment.Intent),
	}
}

func (p *fakeProcessor) CreateIntent(_ context.Context, amount, orderID, userID int64) (*payment.Intent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.createCalls++
	if p.createErr != nil {
		return nil, p.createErr
	}

	intent := &payment.Intent{
		ID:           fmt.Sprintf("pi_%d", orderID),
		ClientSecret: fmt.Sprintf("pi_%d_secret_test", orderID),
		Status:       payment.StatusPending,
		Amount:       amount,
		Currency:     "brl",
		OrderID:      orderID,
		UserID:       userID,
	}
	p.createdIntents[intent.ID] = intent

	return intent, nil
}

func (p *fakeProcessor) RetrieveIntent(_ context.Context, intentID string) (*payment.Intent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.retrievedIDs = append(p.retrievedIDs, intentID)
	if p.retrieveErr != nil {
		return nil, p.retrieveErr
	}

	intent, ok := p.createdIntents[intentID]
	if !ok {
		return nil, fmt.Errorf("%w: no such intent", payment.ErrProvider)
	}

	copied := *intent
	copied.Status = p.intentStatus
	return &copied, nil
}

func (p *fakeProcessor) Refund(_ context.Context, intentID string) (*payment.RefundResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.refundedIDs = append(p.refundedIDs, intentID)
	if p.refundErr != nil {
		return nil, p.refundErr
	}

	return &payment.RefundResult{ID: "re_" + intentID, Status: p.refundStatus}, nil
}

type fakeMailer struct {
	mu            sync.Mutex
	confirmations int
	cancellations int
}

func (m *fakeMailer) SendOrderConfirmation(_ context.Context, _ string, _ *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.confirmations++
	return nil
}

func (m *fakeMailer) SendOrderCancellation(_ context.Context, _ string, _ *domain.Order, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancellations++
	return nil
}
