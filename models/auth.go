package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// DispatcherRole is the role allowed to move appointments on the board
const DispatcherRole = "dispatcher"

// JWTClaims represents the JWT claims issued by the identity service
type JWTClaims struct {
	UserID   string   `json:"user_id"`
	Email    string   `json:"email"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`

	jwt.RegisteredClaims
}

// HasRole reports whether the claims carry role
func (c *JWTClaims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}
