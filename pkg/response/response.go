package response

import "time"

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Role      string    `json:"role"`
	Profile   any       `json:"profile,omitempty"`
}

type CountResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

type IdentityResponse struct {
	Email  string `json:"email"`
	Status string `json:"status"`
}
