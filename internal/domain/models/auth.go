package models

import "github.com/golang-jwt/jwt/v5"

// IdentityClaims represents the JWT claims issued by the identity
// provider. The subject claim is the stable opaque user key every
// storage entity is owned by.
type IdentityClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"` // "authenticated" or "anon"
}

// GetUserID returns the user key from the JWT subject claim.
func (c *IdentityClaims) GetUserID() string {
	return c.Subject
}
