package dto

import "time"

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email" example:"user@example.com"`
	Password string `json:"password" binding:"required,min=8" example:"Str0ngPass!"`
	Name     string `json:"name" binding:"required,min=1" example:"Ivan Petrov"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"user@example.com"`
	Password string `json:"password" binding:"required" example:"Str0ngPass!"`
}

type AuthResponse struct {
	UserID      string    `json:"user_id" example:"6a1f6f3e-6a40-4e9e-9c9a-1a2b3c4d5e6f"`
	Email       string    `json:"email" example:"user@example.com"`
	Name        string    `json:"name" example:"Ivan Petrov"`
	Role        string    `json:"role" example:"ROLE_CUSTOMER"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}
