package domain

import "time"

// OrderStatus tracks the fulfilment side of an order, independent of the
// free-text confirmation status kept in Order.Status.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

const (
	StatusNotConfirmed = "Not-Confirmed"
	StatusConfirmed    = "Confirmed"
	StatusCancelled    = "Cancelled"

	PaymentStatusPending   = "PENDING"
	PaymentStatusSucceeded = "succeeded"

	PaymentMethodCOD  = "COD"
	PaymentMethodCard = "CARD"
)

type Order struct {
	ID     int64       `db:"id"`
	UserID int64       `db:"user_id"`
	Items  []OrderItem `db:"items"`

	TotalAmount int64 `db:"total_amount"`
	Discount    int64 `db:"discount"`
	FinalAmount int64 `db:"final_amount"`

	Status          string      `db:"status"`
	OrderStatus     OrderStatus `db:"order_status"`
	PaymentStatus   string      `db:"payment_status"`
	PaymentMethod   string      `db:"payment_method"`
	PaymentIntentID string      `db:"payment_intent_id"`
	ClientSecret    string      `db:"client_secret"`

	Refunded        bool       `db:"refunded"`
	RefundDate      *time.Time `db:"refund_date"`
	CancelledReason string     `db:"cancelled_reason"`

	BillingAddressID  int64 `db:"billing_address_id"`
	ShippingAddressID int64 `db:"shipping_address_id"`

	CreatedAt    time.Time  `db:"created_at"`
	PaymentDate  *time.Time `db:"payment_date"`
	DeliveryDate *time.Time `db:"delivery_date"`
	DeliveredAt  *time.Time `db:"delivered_at"`
}

// OrderItem is a snapshot of a product at purchase time. ProductID is a
// plain reference, not a foreign key: the product may change or disappear
// later without touching the order history.
type OrderItem struct {
	ID               int64    `db:"id"`
	OrderID          int64    `db:"order_id"`
	ProductID        int64    `db:"product_id"`
	Name             string   `db:"name"`
	Quantity         int32    `db:"quantity"`
	TotalPrice       int64    `db:"total_price"`
	DiscountedPrice  int64    `db:"discounted_price"`
	MainImage        string   `db:"main_image"`
	AdditionalImages []string `db:"additional_images"`
}

// CalculateTotals derives the order amounts from its items:
// totalAmount = Σ totalPrice, finalAmount = Σ discountedPrice.
func (o *Order) CalculateTotals() {
	var total, final int64
	for _, item := range o.Items {
		total += item.TotalPrice
		final += item.DiscountedPrice
	}

	o.TotalAmount = total
	o.FinalAmount = final
	o.Discount = total - final
}
