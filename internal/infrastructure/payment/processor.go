package payment

import (
	"context"
	"errors"
)

// ErrProvider marks any failure on the processor side, including timeouts.
// Callers never retry automatically; the client decides.
var ErrProvider = errors.New("payment provider error")

// Status is the internal payment vocabulary. Processor status strings are
// translated at the adapter boundary and never leak past this package.
type Status string

const (
	StatusSucceeded  Status = "succeeded"
	StatusProcessing Status = "processing"
	StatusPending    Status = "pending"
	StatusFailed     Status = "failed"
)

// Intent is the processor's handle for an in-progress charge attempt.
// OrderID/UserID come back from the metadata the intent was tagged with.
type Intent struct {
	ID           string
	ClientSecret string
	Status       Status
	Amount       int64
	Currency     string
	OrderID      int64
	UserID       int64
}

type RefundResult struct {
	ID     string
	Status Status
}

type Processor interface {
	CreateIntent(ctx context.Context, amount, orderID, userID int64) (*Intent, error)
	RetrieveIntent(ctx context.Context, intentID string) (*Intent, error)
	Refund(ctx context.Context, intentID string) (*RefundResult, error)
}
