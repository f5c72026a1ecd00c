package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/ferremas-backend/api/middleware"
	"github.com/angelmondragon/ferremas-backend/pkg/db/models"
	"github.com/angelmondragon/ferremas-backend/pkg/enums"
)

func withURLParam(req *http.Request, key, value string) *http.Request {
	rc := chi.NewRouteContext()
	rc.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func withCaller(req *http.Request, role enums.Role) (*http.Request, *models.User) {
	user := &models.User{ID: uuid.New(), Name: "Caller", Email: "caller@ferremas.cl", Role: role, IsActive: true}
	return req.WithContext(middleware.WithUser(req.Context(), user)), user
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	return env
}
