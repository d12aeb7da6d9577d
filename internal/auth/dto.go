package auth

import "github.com/solehaus/wholesale-backend/internal/buyers"

// LoginRequest captures the buyer credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AdminLoginRequest carries the shared admin password.
type AdminLoginRequest struct {
	Password string `json:"password" validate:"required"`
}

// BuyerLoginResult holds the buyer session token and profile. The token
// travels only in the cookie.
type BuyerLoginResult struct {
	Token string           `json:"-"`
	Buyer *buyers.BuyerDTO `json:"buyer"`
}

// AdminLoginResult holds the admin session token.
type AdminLoginResult struct {
	Token string `json:"-"`
}
