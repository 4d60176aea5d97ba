package service

// AddressInput either references an existing address by ID or carries the
// full fields of a new one. Referenced saved addresses are copied before an
// order points at them.
type AddressInput struct {
	ID      int64  `json:"id"`
	Street  string `json:"street" validate:"required_without=ID"`
	City    string `json:"city" validate:"required_without=ID"`
	State   string `json:"state"`
	Zip     string `json:"zip" validate:"required_without=ID"`
	Country string `json:"country" validate:"required_without=ID"`
}

type ProductOrderInput struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int32 `json:"quantity" validate:"required,gt=0"`
}

type CreateOrderRequest struct {
	Products        []ProductOrderInput `json:"products" validate:"required,min=1,dive"`
	BillingAddress  AddressInput        `json:"billing_address" validate:"required"`
	ShippingAddress AddressInput        `json:"shipping_address"`
}

type CartOrderRequest struct {
	CartID          int64        `json:"cart_id" validate:"required,gt=0"`
	BillingAddress  AddressInput `json:"billing_address" validate:"required"`
	ShippingAddress AddressInput `json:"shipping_address"`
}

type PaymentIntentResponse struct {
	PaymentIntentID string `json:"payment_intent_id"`
	ClientSecret    string `json:"client_secret"`
}

// VerificationReport is what the client gets back after asking the backend
// to check a payment with the processor. Status mirrors the processor
// vocabulary, Message is human-readable.
type VerificationReport struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Amount   int64  `json:"amount,omitempty"`
	Currency string `json:"currency,omitempty"`
	OrderID  int64  `json:"order_id,omitempty"`
	UserID   int64  `json:"user_id,omitempty"`
}
