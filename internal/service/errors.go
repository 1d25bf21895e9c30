package service

import "errors"

var (
	ErrUnauthorized         = errors.New("unauthorized")
	ErrForbidden            = errors.New("forbidden")
	ErrOrderNotFound        = errors.New("order not found")
	ErrEmptyItems           = errors.New("empty items")
	ErrQuantityInvalid      = errors.New("quantity must be > 0")
	ErrPriceInvalid         = errors.New("price must be > 0")
	ErrAmountInvalid        = errors.New("declared amount does not match cart total")
	ErrCurrencyNotSupported = errors.New("currency not supported")
	ErrSessionAlreadySet    = errors.New("checkout session already set for order")
	ErrInvalidSignature     = errors.New("invalid webhook signature")
	ErrProcessorAuth        = errors.New("payment processor authentication failed")
	ErrProcessorUnavailable = errors.New("payment processor unavailable")
	ErrOrderNotCancellable  = errors.New("order cannot be cancelled")
	ErrAlreadyCancelled     = errors.New("order already cancelled")
	ErrAlreadyExists        = errors.New("user already exists")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUserNotFound         = errors.New("user not found")
)
