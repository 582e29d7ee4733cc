package main

import (
	"net/http"
	"net/http/pprof"
)

// SetupOpsRoutes injects internal operations related endpoints.
func (api *APIHandler) SetupOpsRoutes(mux *http.ServeMux, m *MiddlewareMap) *http.ServeMux {
	mux.Handle("GET /ops/configs", m.ops(http.HandlerFunc(api.GetConfigs)))
	mux.Handle("GET /ops/stats", m.ops(http.HandlerFunc(api.GetStatistics)))
	mux.Handle("GET /ops/maintenance", m.ops(http.HandlerFunc(api.MaintenanceMode)))
	mux.Handle("GET /ops/debug/vars", m.ops(http.HandlerFunc(GetMemStats)))
	mux.Handle("GET /ops/debug/gc", m.ops(http.HandlerFunc(api.RunGC)))
	mux.Handle("GET /ops/debug/fos", m.ops(http.HandlerFunc(api.FreeOSMemory)))

	if api.config.ProfilerEnable {
		mux.Handle("GET /ops/debug/pprof/", m.ops(http.HandlerFunc(pprof.Index)))
		mux.Handle("GET /ops/debug/pprof/profile", m.ops(http.HandlerFunc(pprof.Profile)))
		mux.Handle("GET /ops/debug/pprof/trace", m.ops(http.HandlerFunc(pprof.Trace)))
		mux.Handle("GET /ops/debug/pprof/symbol", m.ops(http.HandlerFunc(pprof.Symbol)))
		mux.Handle("GET /ops/debug/pprof/cmdline", m.ops(http.HandlerFunc(pprof.Cmdline)))
		mux.Handle("GET /ops/debug/pprof/heap", m.ops(pprof.Handler("heap")))
		mux.Handle("GET /ops/debug/pprof/allocs", m.ops(pprof.Handler("allocs")))
		mux.Handle("GET /ops/debug/pprof/goroutine", m.ops(pprof.Handler("goroutine")))
		mux.Handle("GET /ops/debug/pprof/threadcreate", m.ops(pprof.Handler("threadcreate")))
		mux.Handle("GET /ops/debug/pprof/block", m.ops(pprof.Handler("block")))
		mux.Handle("GET /ops/debug/pprof/mutex", m.ops(pprof.Handler("mutex")))
	}

	return mux
}
