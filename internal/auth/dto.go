package auth

import (
	"github.com/angelmondragon/ferremas-backend/internal/users"
)

// LoginRequest captures the user credentials sent to the token endpoint. The
// OAuth2 password form sends the email as "username".
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse is returned by login and refresh.
type TokenResponse struct {
	AccessToken  string         `json:"access_token"`
	TokenType    string         `json:"token_type"`
	ExpiresIn    int            `json:"expires_in"`
	RefreshToken string         `json:"refresh_token"`
	User         *users.UserDTO `json:"user"`
}
