package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/angelmondragon/ferremas-backend/internal/auth"
	"github.com/angelmondragon/ferremas-backend/pkg/db/models"
	"github.com/angelmondragon/ferremas-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/ferremas-backend/pkg/errors"
)

type stubAuthenticator struct {
	token     string
	principal *auth.Principal
}

func (s stubAuthenticator) Authenticate(_ context.Context, token string) (*auth.Principal, error) {
	if token != s.token {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "could not validate credentials")
	}
	return s.principal, nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthRejectsMissingToken(t *testing.T) {
	handler := Auth(stubAuthenticator{token: "good"}, nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
	if resp.Header().Get("WWW-Authenticate") != "Bearer" {
		t.Fatalf("expected WWW-Authenticate header")
	}
}

func TestAuthRejectsNonBearerScheme(t *testing.T) {
	handler := Auth(stubAuthenticator{token: "good"}, nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic Z29vZA==")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	handler := Auth(stubAuthenticator{token: "good"}, nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer invalid")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthAllowsValidToken(t *testing.T) {
	user := &models.User{ID: uuid.New(), Email: "bodega@ferremas.cl", Role: enums.RoleBodega, IsActive: true}
	svc := stubAuthenticator{token: "good", principal: &auth.Principal{User: user, AccessID: "jti-1"}}

	var captured struct {
		user     uuid.UUID
		role     enums.Role
		accessID string
		email    string
	}
	handler := Auth(svc, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.user = UserIDFromContext(r.Context())
		captured.role = RoleFromContext(r.Context())
		captured.accessID = AccessIDFromContext(r.Context())
		if u := UserFromContext(r.Context()); u != nil {
			captured.email = u.Email
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if captured.user != user.ID {
		t.Fatalf("expected user %s got %s", user.ID, captured.user)
	}
	if captured.role != enums.RoleBodega {
		t.Fatalf("expected role Bodega got %s", captured.role)
	}
	if captured.accessID != "jti-1" {
		t.Fatalf("expected access id jti-1 got %s", captured.accessID)
	}
	if captured.email != user.Email {
		t.Fatalf("expected email %s got %s", user.Email, captured.email)
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name string
		role enums.Role
		want int
	}{
		{"allowed", enums.RoleVendedor, http.StatusOK},
		{"other role", enums.RoleCliente, http.StatusForbidden},
		{"anonymous", "", http.StatusForbidden},
	}

	handler := RequireRole(nil, enums.RoleVendedor, enums.RoleAdministrador)(okHandler())
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/sales", nil)
		if tt.role != "" {
			req = req.WithContext(WithUser(req.Context(), &models.User{ID: uuid.New(), Role: tt.role}))
		}
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		if resp.Code != tt.want {
			t.Fatalf("%s: expected %d got %d", tt.name, tt.want, resp.Code)
		}
	}
}

func TestActorFromContext(t *testing.T) {
	id := uuid.New()
	ctx := WithUser(context.Background(), &models.User{ID: id, Role: enums.RoleAdministrador})
	actor := ActorFromContext(ctx)
	if actor.UserID != id || !actor.IsAdmin() {
		t.Fatalf("unexpected actor %+v", actor)
	}
}
