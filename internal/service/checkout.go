package service

import (
	"context"

	"zoovio-backend/internal/models"
	"zoovio-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CartItem struct {
	PetID    string
	Name     string
	Category string
	Breed    string
	Quantity uint32
	Price    decimal.Decimal
}

type CustomerInfo struct {
	Name  string
	Email string
}

type CreateCheckoutInput struct {
	Currency string
	Customer CustomerInfo
	Items    []CartItem
	// DeclaredTotal — сумма, заявленная клиентом; должна совпадать с Σ(price×qty).
	DeclaredTotal   decimal.Decimal
	ShippingAddress *string
	BillingAddress  *string
	Notes           *string
	Meta            RequestMeta
}

type CheckoutResult struct {
	OrderID     uuid.UUID
	OrderNumber string
	SessionID   string
	SessionURL  string
}

type VerifyResult struct {
	OrderID       uuid.UUID
	OrderNumber   string
	Status        models.OrderStatus
	PaymentStatus models.PaymentStatus
	Amount        decimal.Decimal
	Currency      string
	CustomerEmail string
}

type ListFilter struct {
	Status *models.OrderStatus
	Limit  int
	Offset int
}

type CheckoutService interface {
	CreateCheckoutSession(ctx context.Context, in CreateCheckoutInput) (*CheckoutResult, error)
	VerifySession(ctx context.Context, sessionID string, meta RequestMeta) (*VerifyResult, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string, meta RequestMeta) error
	PaymentHistory(ctx context.Context) ([]repository.PaymentHistoryRow, error)

	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, *models.Payment, error)
	ListOrders(ctx context.Context, f ListFilter) ([]models.Order, int64, error)
	CancelOrder(ctx context.Context, id uuid.UUID, meta RequestMeta) (*models.Order, error)
}
