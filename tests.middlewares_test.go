package main

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestMiddlewaresStacks ensures we get the public, protected and ops
// middlewares stacks with exact number of elements in those stacks.
func TestMiddlewaresStacks(t *testing.T) {
	api := newTestAPIHandler(t, &MockBookStorage{})
	pub, protected, ops := api.MiddlewaresStacks()
	assert.Equal(t, 6, len(*pub))
	assert.Equal(t, 7, len(*protected))
	assert.Equal(t, 5, len(*ops))
}

// TestChain ensures each middleware in the stack is called as well the handler.
func TestChain(t *testing.T) {
	var ca, cb, cc, ch bool
	queue := make(chan int, 4)

	middlewareA := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			queue <- 1
			ca = true
			next.ServeHTTP(w, r)
		})
	}
	middlewareB := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			queue <- 2
			cb = true
			next.ServeHTTP(w, r)
		})
	}
	middlewareC := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			queue <- 3
			cc = true
			next.ServeHTTP(w, r)
		})
	}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queue <- 4
		ch = true
	})

	stack := Middlewares{middlewareA, middlewareB, middlewareC}
	chained := stack.Chain(handler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	chained.ServeHTTP(httptest.NewRecorder(), req)
	close(queue)

	assert.True(t, ca)
	assert.True(t, cb)
	assert.True(t, cc)
	assert.True(t, ch)

	order := []int{}
	for v := range queue {
		order = append(order, v)
	}
	assert.Equal(t, []int{1, 2, 3, 4}, order)
}

// TestChainEmptyStack ensures an empty stack returns the handler untouched.
func TestChainEmptyStack(t *testing.T) {
	called := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	chained := (&Middlewares{}).Chain(handler)
	chained.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, called)
}

// TestAuthenticationMiddleware ensures the bearer token gate on write routes.
func TestAuthenticationMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller := GetValueFromContext(r.Context(), CallerContextKey)
		w.Header().Set("X-Caller", caller)
		w.WriteHeader(http.StatusOK)
	})

	t.Run("should pass: valid bearer token", func(t *testing.T) {
		api := newTestAPIHandler(t, &MockBookStorage{})
		req := httptest.NewRequest(http.MethodPost, "/books/add", nil)
		req.Header.Set("Authorization", "Bearer any-token")
		w := httptest.NewRecorder()
		api.AuthenticationMiddleware(next).ServeHTTP(w, req)
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, "tester", res.Header.Get("X-Caller"))
	})

	t.Run("should fail: missing authorization header", func(t *testing.T) {
		api := newTestAPIHandler(t, &MockBookStorage{})
		req := httptest.NewRequest(http.MethodPost, "/books/add", nil)
		w := httptest.NewRecorder()
		api.AuthenticationMiddleware(next).ServeHTTP(w, req)
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	})

	t.Run("should fail: non bearer scheme", func(t *testing.T) {
		api := newTestAPIHandler(t, &MockBookStorage{})
		req := httptest.NewRequest(http.MethodPost, "/books/add", nil)
		req.Header.Set("Authorization", "Basic YWRtaW46YWRtaW4=")
		w := httptest.NewRecorder()
		api.AuthenticationMiddleware(next).ServeHTTP(w, req)
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	})

	t.Run("should fail: rejected token", func(t *testing.T) {
		api := newTestAPIHandler(t, &MockBookStorage{})
		api.tokens = &MockTokener{
			ParseFunc: func(tokenString string) (*APIClaims, error) {
				return nil, errors.New("token is expired")
			},
		}
		req := httptest.NewRequest(http.MethodPost, "/books/add", nil)
		req.Header.Set("Authorization", "Bearer expired-token")
		w := httptest.NewRecorder()
		api.AuthenticationMiddleware(next).ServeHTTP(w, req)
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	})
}

// TestMaintenanceModeMiddleware ensures 503 short-circuit while enabled.
func TestMaintenanceModeMiddleware(t *testing.T) {
	api := newTestAPIHandler(t, &MockBookStorage{})
	reached := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	})

	api.mode.enabled.Store(true)
	api.mode.message = "upgrading the storage"
	w := httptest.NewRecorder()
	api.MaintenanceModeMiddleware(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/books/all", nil))
	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
	assert.False(t, reached)

	api.mode.enabled.Store(false)
	w = httptest.NewRecorder()
	api.MaintenanceModeMiddleware(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/books/all", nil))
	assert.True(t, reached)
}

// TestPanicRecoveryMiddleware ensures a panic turns into a 500 envelope.
func TestPanicRecoveryMiddleware(t *testing.T) {
	api := newTestAPIHandler(t, &MockBookStorage{})
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	w := httptest.NewRecorder()
	api.PanicRecoveryMiddleware(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status", nil))
	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
}

// TestCoreMiddleware ensures response status codes feed the statistics.
func TestCoreMiddleware(t *testing.T) {
	api := newTestAPIHandler(t, &MockBookStorage{})
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	w := httptest.NewRecorder()
	api.CoreMiddleware(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status", nil))
	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusTeapot, res.StatusCode)

	api.stats.mu.RLock()
	defer api.stats.mu.RUnlock()
	assert.Equal(t, uint64(1), api.stats.status[http.StatusTeapot])
}

// TestCORSMiddleware ensures cors headers are applied.
func TestCORSMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	w := httptest.NewRecorder()
	CORSMiddleware(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status", nil))
	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, "*", res.Header.Get("Access-Control-Allow-Origin"))
}
