package auth

import (
	"github.com/angelmondragon/ferremas-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID uuid.UUID
	Email  string
	Role   enums.Role
	JTI    string
}

// AccessTokenClaims represents the typed JWT issued to clients. The subject
// claim carries the user's email.
type AccessTokenClaims struct {
	UserID uuid.UUID  `json:"uid"`
	Role   enums.Role `json:"role"`
	jwt.RegisteredClaims
}

// Email returns the subject of the token.
func (c *AccessTokenClaims) Email() string {
	if c == nil {
		return ""
	}
	return c.Subject
}
