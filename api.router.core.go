package main

import (
	"net/http"
)

// SetupRoutes injects book and ops related endpoints if required.
func (api *APIHandler) SetupRoutes(mux *http.ServeMux, m *MiddlewareMap) *http.ServeMux {
	mux.Handle("/", m.public(http.HandlerFunc(api.NotFound)))
	api.SetupBookRoutes(mux, m)
	if api.config.OpsEndpointsEnable {
		api.SetupOpsRoutes(mux, m)
	}
	return mux
}
