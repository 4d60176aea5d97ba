package service

import "errors"

var (
	ErrOrderAlreadyPlaced = errors.New("order already placed")
	ErrAlreadyRefunded    = errors.New("order already refunded")
	ErrOrderNotConfirmed  = errors.New("order is not confirmed")
	ErrUnauthorized       = errors.New("order does not belong to user")
	ErrRefundFailed       = errors.New("refund was not accepted by the payment provider")
)
