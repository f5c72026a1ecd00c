package middleware

import (
	"context"
	"net/http"

	"github.com/angelmondragon/ferremas-backend/api/responses"
	"github.com/angelmondragon/ferremas-backend/api/validators"
	"github.com/angelmondragon/ferremas-backend/internal/auth"
	pkgerrors "github.com/angelmondragon/ferremas-backend/pkg/errors"
	"github.com/angelmondragon/ferremas-backend/pkg/logger"
)

type authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*auth.Principal, error)
}

// Auth resolves the bearer token into an active user and seeds the request
// context with it.
func Auth(svc authenticator, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := validators.BearerToken(r.Header.Get("Authorization"))
			if err != nil {
				w.Header().Set("WWW-Authenticate", "Bearer")
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "missing credentials"))
				return
			}

			principal, err := svc.Authenticate(r.Context(), token)
			if err != nil {
				w.Header().Set("WWW-Authenticate", "Bearer")
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := WithUser(r.Context(), principal.User)
			ctx = withAccessID(ctx, principal.AccessID)
			if logg != nil {
				ctx = logg.WithUserID(ctx, principal.User.ID.String())
				ctx = logg.WithActorRole(ctx, string(principal.User.Role))
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
