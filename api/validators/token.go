package validators

import (
	"errors"
	"mime"
	"net/http"
	"strings"

	pkgerrors "github.com/angelmondragon/ferremas-backend/pkg/errors"
)

var ErrInvalidToken = errors.New("invalid auth token")

const maxCredentialLen = 254

// Credentials is the login input accepted by the token endpoint.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(header string) (string, error) {
	raw := strings.TrimSpace(header)
	if raw == "" {
		return "", ErrInvalidToken
	}
	parts := strings.SplitN(raw, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", ErrInvalidToken
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", ErrInvalidToken
	}
	return token, nil
}

// DecodeCredentials reads either the OAuth2 password form (username,
// password) or a JSON body (email, password).
func DecodeCredentials(r *http.Request) (Credentials, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/x-www-form-urlencoded" {
		var creds Credentials
		if err := DecodeJSONBody(r, &creds); err != nil {
			return Credentials{}, err
		}
		return creds, nil
	}

	if err := r.ParseForm(); err != nil {
		return Credentials{}, pkgerrors.Wrap(pkgerrors.CodeSchema, err, "invalid form body")
	}
	creds := Credentials{
		Email:    SanitizeString(r.PostForm.Get("username"), maxCredentialLen),
		Password: r.PostForm.Get("password"),
	}
	if creds.Email == "" || creds.Password == "" {
		return Credentials{}, pkgerrors.New(pkgerrors.CodeSchema, "username and password are required").WithDetails(map[string]string{
			"username": "is required",
			"password": "is required",
		})
	}
	return creds, nil
}
