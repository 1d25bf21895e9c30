package dto

import "time"

type OrderItemResponse struct {
	PetID      string `json:"pet_id"`
	PetName    string `json:"pet_name"`
	Category   string `json:"category,omitempty"`
	Breed      string `json:"breed,omitempty"`
	Quantity   uint32 `json:"quantity"`
	UnitPrice  string `json:"unit_price" example:"800.00"`
	TotalPrice string `json:"total_price" example:"1600.00"`
}

type OrderResponse struct {
	ID                string              `json:"id"`
	OrderNumber       string              `json:"order_number"`
	TotalAmount       string              `json:"total_amount" example:"2800.00"`
	Currency          string              `json:"currency" example:"USD"`
	Status            string              `json:"status" example:"pending"`
	PaymentStatus     string              `json:"payment_status" example:"pending"`
	CheckoutSessionID *string             `json:"checkout_session_id,omitempty"`
	ShippingAddress   *string             `json:"shipping_address,omitempty"`
	Notes             *string             `json:"notes,omitempty"`
	Items             []OrderItemResponse `json:"items"`
	Payment           *PaymentBrief       `json:"payment,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

type PaymentBrief struct {
	ID          string     `json:"id"`
	Status      string     `json:"status" example:"succeeded"`
	Amount      string     `json:"amount" example:"2800.00"`
	Currency    string     `json:"currency" example:"USD"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required" example:"cancelled"`
}

type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int64           `json:"total" example:"42"`
	Limit  int             `json:"limit" example:"20"`
	Offset int             `json:"offset" example:"0"`
}
