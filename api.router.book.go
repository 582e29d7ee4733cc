package main

import (
	"net/http"
)

// SetupBookRoutes injects the book related api endpoints. The read
// endpoints stay public while every write requires a bearer token.
func (api *APIHandler) SetupBookRoutes(mux *http.ServeMux, m *MiddlewareMap) *http.ServeMux {
	mux.Handle("GET /{$}", m.public(http.HandlerFunc(api.Index)))
	mux.Handle("GET /status", m.public(http.HandlerFunc(api.Status)))
	mux.Handle("POST /auth/token", m.public(http.HandlerFunc(api.IssueToken)))

	mux.Handle("GET /books/all", m.public(http.HandlerFunc(api.GetAllBooks)))
	mux.Handle("GET /books/{id}/details", m.public(http.HandlerFunc(api.GetOneBook)))
	mux.Handle("POST /books/add", m.protected(http.HandlerFunc(api.CreateBook)))
	mux.Handle("POST /books/{id}/update", m.protected(http.HandlerFunc(api.UpdateBook)))
	mux.Handle("DELETE /books/{id}/delete", m.protected(http.HandlerFunc(api.DeleteOneBook)))
	return mux
}
