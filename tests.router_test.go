package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newJSONBody(s string) io.Reader {
	return bytes.NewBufferString(s)
}

// extractToken pulls the signed token out of a token endpoint response.
func extractToken(t *testing.T, data []byte) string {
	t.Helper()
	var resp APIResponse
	err := json.Unmarshal(data, &resp)
	assert.NoError(t, err)
	body, ok := resp.Data.(map[string]interface{})
	assert.True(t, ok)
	token, _ := body["token"].(string)
	return token
}

// newTestRouter builds a mux with the full middlewares stacks so the
// routing tests exercise the same chains as the running server.
func newTestRouter(t *testing.T, repo *MockBookStorage, opsEnabled bool) *http.ServeMux {
	t.Helper()
	config := &Config{
		OpsEndpointsEnable: opsEnabled,
		Auth: AuthConfig{
			Secret:   "unit-test-secret",
			Issuer:   "booksapi",
			TokenTTL: 15 * time.Minute,
			Username: "admin",
			Password: "admin",
		},
	}
	clock := NewClock(false)
	ids := NewIDsHandler()
	tokens := NewTokenHandler(&config.Auth, clock)
	bs := NewBookService(zap.NewNop(), config, clock, ids, repo, NewMockQueuer())
	api := NewAPIHandler(zap.NewNop(), config, &Statistics{started: clock.Now()}, clock, ids, tokens, bs)

	public, protected, ops := api.MiddlewaresStacks()
	return api.SetupRoutes(http.NewServeMux(), &MiddlewareMap{
		public:    public.Chain,
		protected: protected.Chain,
		ops:       ops.Chain,
	})
}

// TestRouterPublicRoutes ensures the read endpoints answer without a token.
func TestRouterPublicRoutes(t *testing.T) {
	repo := &MockBookStorage{
		GetAllFunc: func(ctx context.Context) ([]Book, error) {
			return []Book{}, nil
		},
		GetOneFunc: func(ctx context.Context, id string) (Book, error) {
			return Book{ID: id}, nil
		},
	}
	router := newTestRouter(t, repo, false)

	testCases := []struct {
		name   string
		method string
		target string
		status int
	}{
		{name: "status", method: http.MethodGet, target: "/status", status: http.StatusOK},
		{name: "index redirects to status", method: http.MethodGet, target: "/", status: http.StatusSeeOther},
		{name: "list books", method: http.MethodGet, target: "/books/all", status: http.StatusOK},
		{name: "book details", method: http.MethodGet, target: "/books/64a1b2c3d4e5f60718293a4b/details", status: http.StatusOK},
		{name: "unknown route", method: http.MethodGet, target: "/unknown", status: http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.target, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tc.status, res.StatusCode)
		})
	}
}

// TestRouterProtectedRoutes ensures every write endpoint rejects
// requests without a bearer token.
func TestRouterProtectedRoutes(t *testing.T) {
	router := newTestRouter(t, &MockBookStorage{}, false)

	testCases := []struct {
		name   string
		method string
		target string
	}{
		{name: "create", method: http.MethodPost, target: "/books/add"},
		{name: "update", method: http.MethodPost, target: "/books/64a1b2c3d4e5f60718293a4b/update"},
		{name: "delete", method: http.MethodDelete, target: "/books/64a1b2c3d4e5f60718293a4b/delete"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.target, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
		})
	}
}

// TestRouterOpsRoutes ensures ops endpoints are wired only when enabled.
func TestRouterOpsRoutes(t *testing.T) {
	t.Run("enabled", func(t *testing.T) {
		router := newTestRouter(t, &MockBookStorage{}, true)
		req := httptest.NewRequest(http.MethodGet, "/ops/stats", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusOK, res.StatusCode)
	})

	t.Run("disabled", func(t *testing.T) {
		router := newTestRouter(t, &MockBookStorage{}, false)
		req := httptest.NewRequest(http.MethodGet, "/ops/stats", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})
}

// TestRouterWriteFlowWithToken walks a create call end to end through
// the token endpoint then the protected route.
func TestRouterWriteFlowWithToken(t *testing.T) {
	repo := &MockBookStorage{
		FindByNameFunc: func(ctx context.Context, name string, excludeID string) (Book, error) {
			return Book{}, ErrBookNotFound
		},
		AddFunc: func(ctx context.Context, id string, book Book) error {
			return nil
		},
	}
	router := newTestRouter(t, repo, false)

	tokenReq := httptest.NewRequest(http.MethodPost, "/auth/token", newJSONBody(`{"username":"admin", "password":"admin"}`))
	tokenRec := httptest.NewRecorder()
	router.ServeHTTP(tokenRec, tokenReq)
	tokenRes := tokenRec.Result()
	defer tokenRes.Body.Close()
	assert.Equal(t, http.StatusOK, tokenRes.StatusCode)

	token := extractToken(t, tokenRec.Body.Bytes())
	assert.NotEmpty(t, token)

	createReq := httptest.NewRequest(http.MethodPost, "/books/add",
		newJSONBody(`{"name":"Routed book", "author":"Jerome Amon", "description":"Created through the router.", "price":12.5}`))
	createReq.Header.Set("Authorization", "Bearer "+token)
	createRec := httptest.NewRecorder()
	router.ServeHTTP(createRec, createReq)
	createRes := createRec.Result()
	defer createRes.Body.Close()
	assert.Equal(t, http.StatusCreated, createRes.StatusCode)
}
