package main

import (
	"context"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// MiddlewareFunc is a custom type for ease of use.
type MiddlewareFunc func(http.Handler) http.Handler

// Middlewares is a custom type to represent a stack of
// middleware functions used to build a single chain.
type Middlewares []MiddlewareFunc

// MiddlewareMap contains middlewares chains to
// be applied on each group of routes.
type MiddlewareMap struct {
	public    func(http.Handler) http.Handler
	protected func(http.Handler) http.Handler
	ops       func(http.Handler) http.Handler
}

// MiddlewaresStacks builds the middlewares stacks applied to the public,
// the token-protected and the internal ops groups of routes. The write
// endpoints get the public stack plus the authentication check.
func (api *APIHandler) MiddlewaresStacks() (*Middlewares, *Middlewares, *Middlewares) {
	public := Middlewares{
		api.PanicRecoveryMiddleware,
		api.RequestsCounterMiddleware,
		api.RequestIDMiddleware,
		CORSMiddleware,
		api.CoreMiddleware,
		api.MaintenanceModeMiddleware,
	}
	protected := Middlewares{
		api.PanicRecoveryMiddleware,
		api.RequestsCounterMiddleware,
		api.RequestIDMiddleware,
		CORSMiddleware,
		api.CoreMiddleware,
		api.MaintenanceModeMiddleware,
		api.AuthenticationMiddleware,
	}
	ops := Middlewares{
		api.PanicRecoveryMiddleware,
		api.RequestsCounterMiddleware,
		api.RequestIDMiddleware,
		CORSMiddleware,
		api.CoreMiddleware,
	}
	return &public, &protected, &ops
}

// statusRecorder wraps a response writer to capture
// the status code set by downstream handlers.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// CoreMiddleware setup the duration measurement for each request, logs its
// result and records the response status code into the app statistics.
func (api *APIHandler) CoreMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := GetValueFromContext(r.Context(), RequestIDContextKey)

		api.logger.Info(
			"request",
			zap.String("request.id", requestID),
			zap.Uint64("request.num", GetRequestNumberFromContext(r.Context())),
			zap.String("request.method", r.Method),
			zap.String("request.path", r.URL.Path),
			zap.String("request.ip", GetRequestSourceIP(r)),
			zap.String("request.agent", r.UserAgent()),
			zap.String("request.referer", r.Referer()),
		)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		api.stats.mu.Lock()
		api.stats.status[rec.status]++
		api.stats.mu.Unlock()

		api.logger.Info(
			"request",
			zap.String("request.id", requestID),
			zap.String("request.method", r.Method),
			zap.String("request.path", r.URL.Path),
			zap.Int("request.status", rec.status),
			zap.Duration("request.duration", time.Since(start)),
		)
	})
}

// RequestsCounterMiddleware increments the number of received requests statistics and add this
// new value to the request context to be used during logging as `request.num` field.
func (api *APIHandler) RequestsCounterMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), RequestNumberContextKey, atomic.AddUint64(&api.stats.called, 1))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIDMiddleware generates and add a unique id to the request context.
func (api *APIHandler) RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := api.idsHandler.RequestID()
		ctx := context.WithValue(r.Context(), RequestIDContextKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CORSMiddleware intercepts each incoming HTTP calls then apply cors headers on it.
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, UPDATE, PATCH, HEAD")
		w.Header().Set("Access-Control-Allow-Headers", "Origin, Access-Control-Request-Method, Access-Control-Request-Headers, Accept, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, User-Agent, Accept-Language, Referer, DNT, Connection, Pragma, Cache-Control, TE")
		next.ServeHTTP(w, r)
	})
}

// PanicRecoveryMiddleware catches any panic during the request lifecycle and produces
// an error log for further analysis. It sends a failure response to the client with 500.
func (api *APIHandler) PanicRecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recovery := func() {
			if err := recover(); err != nil {
				requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
				api.logger.Error("panic occurred", zap.String("request.id", requestID), zap.Any("error", err))
				errResp := NewAPIError(requestID, http.StatusInternalServerError, "failed to process the request", EmptyData)
				if err := WriteErrorResponse(r.Context(), w, errResp); err != nil {
					api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
				}
			}
		}
		defer recovery()
		next.ServeHTTP(w, r)
	})
}

// MaintenanceModeMiddleware short-circuits every call with 503 while
// the maintenance mode is on, serving the configured message.
func (api *APIHandler) MaintenanceModeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if api.mode.enabled.Load() {
			requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
			message := api.mode.message
			if message == "" {
				message = "service under maintenance. please retry later"
			}
			errResp := NewAPIError(requestID, http.StatusServiceUnavailable, message, EmptyData)
			if err := WriteErrorResponse(r.Context(), w, errResp); err != nil {
				api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
			}
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AuthenticationMiddleware guards the write endpoints. It expects a bearer
// token issued by the token endpoint and stores the caller subject into
// the request context on success.
func (api *APIHandler) AuthenticationMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
		authorization := r.Header.Get("Authorization")
		tokenString, found := strings.CutPrefix(authorization, "Bearer ")
		if !found || tokenString == "" {
			api.logger.Error("missing bearer token", zap.String("request.id", requestID), zap.String("request.path", r.URL.Path))
			errResp := NewAPIError(requestID, http.StatusUnauthorized, "missing or malformed authorization header", EmptyData)
			if err := WriteErrorResponse(r.Context(), w, errResp); err != nil {
				api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
			}
			return
		}

		claims, err := api.tokens.Parse(tokenString)
		if err != nil {
			api.logger.Error("invalid bearer token", zap.String("request.id", requestID), zap.String("request.path", r.URL.Path), zap.Error(err))
			errResp := NewAPIError(requestID, http.StatusUnauthorized, "invalid or expired token", EmptyData)
			if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
				api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
			}
			return
		}

		ctx := context.WithValue(r.Context(), CallerContextKey, claims.Sub)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Chain wraps a given http.Handler with a list of middlewares.
// It does by starting from the last middleware from the list.
func (m *Middlewares) Chain(h http.Handler) http.Handler {
	if len(*m) == 0 {
		return h
	}
	lg := len(*m)
	handler := (*m)[lg-1](h)

	for i := lg - 2; i >= 0; i-- {
		handler = (*m)[i](handler)
	}

	return handler
}
