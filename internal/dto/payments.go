package dto

import "time"

// Платёжные DTO повторяют контракт фронтенда: camelCase-ключи.

type CartItemRequest struct {
	PetID    string  `json:"id" binding:"required" example:"dog-1"`
	Name     string  `json:"name" binding:"required" example:"Golden Retriever Puppy"`
	Category string  `json:"category" example:"dogs"`
	Breed    string  `json:"breed" example:"Golden Retriever"`
	Quantity uint32  `json:"qty" binding:"required,gt=0" example:"1"`
	Price    float64 `json:"price" binding:"required,gt=0" example:"1200.00"`
}

type CreateCheckoutSessionRequest struct {
	Amount          float64           `json:"amount" binding:"required,gt=0" example:"2800.00"`
	Currency        string            `json:"currency" binding:"required,len=3" example:"USD"`
	CustomerName    string            `json:"customerName" binding:"required" example:"Ivan Petrov"`
	CustomerEmail   string            `json:"customerEmail" binding:"required,email" example:"user@example.com"`
	CartItems       []CartItemRequest `json:"cartItems" binding:"required,min=1,dive"`
	ShippingAddress *string           `json:"shippingAddress,omitempty"`
	BillingAddress  *string           `json:"billingAddress,omitempty"`
	Notes           *string           `json:"notes,omitempty"`
}

type CreateCheckoutSessionResponse struct {
	OrderID     string `json:"orderId"`
	OrderNumber string `json:"orderNumber" example:"ZOO-1756500000000-A1B2C3D4E"`
	SessionID   string `json:"sessionId" example:"cs_test_a1b2c3"`
	SessionURL  string `json:"sessionUrl" example:"https://checkout.stripe.com/c/pay/cs_test_a1b2c3"`
}

type VerifySessionResponse struct {
	OrderID       string `json:"orderId"`
	OrderNumber   string `json:"orderNumber"`
	Status        string `json:"status" example:"confirmed"`
	PaymentStatus string `json:"paymentStatus" example:"succeeded"`
	Amount        string `json:"amount" example:"2800.00"`
	Currency      string `json:"currency" example:"USD"`
	CustomerEmail string `json:"customerEmail,omitempty"`
}

type WebhookAckResponse struct {
	Received bool `json:"received" example:"true"`
}

type PaymentHistoryItem struct {
	ID           string     `json:"id"`
	Amount       string     `json:"amount" example:"2800.00"`
	Currency     string     `json:"currency" example:"USD"`
	Status       string     `json:"status" example:"succeeded"`
	CardBrand    *string    `json:"cardBrand,omitempty"`
	CardLastFour *string    `json:"cardLastFour,omitempty"`
	ProcessedAt  *time.Time `json:"processedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	OrderNumber  *string    `json:"orderNumber,omitempty"`
	OrderStatus  *string    `json:"orderStatus,omitempty"`
}

type PaymentHistoryResponse struct {
	Payments []PaymentHistoryItem `json:"payments"`
}
