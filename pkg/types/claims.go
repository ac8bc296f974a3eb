package types

import "github.com/golang-jwt/jwt/v5"

type Role string

const (
	RoleVendor Role = "vendor"
	RoleAdmin  Role = "admin"
)

// Claims is the signed session carried by every authenticated request.
// Subject holds the vendor record id for vendors and the admin email for admins.
type Claims struct {
	Email string `json:"email"`
	Role  Role   `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) IsAdmin() bool {
	return c != nil && c.Role == RoleAdmin
}
