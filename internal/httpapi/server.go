package httpapi

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/EricA1019/godot-mcp-index/internal/control"
)

// New builds a chi router exposing surface's operations over HTTP.
func New(surface *control.Surface) http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger)

	h := &handlers{surface: surface}
	r.Get("/health", h.health)
	r.Post("/scan", h.scan)
	r.Post("/reconcile", h.reconcile)
	r.Get("/query", h.query)
	r.Get("/query_advanced", h.queryAdvanced)
	r.Get("/bundle", h.bundle)
	r.Post("/watch/start", h.watchStart)
	r.Post("/watch/stop", h.watchStop)
	r.Get("/index_health", h.indexHealth)

	return r
}

// responseWriter wraps http.ResponseWriter to capture the status and size
// written, for the access log below.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

// requestLogger logs method, chi's matched route pattern (not the raw
// path, which may contain query-specific values), status, size, and
// duration for every request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		pattern := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			pattern = rctx.RoutePattern()
		}
		log.Printf("httpapi: %s %s %d %dB %s", r.Method, pattern, wrapped.statusCode, wrapped.size, time.Since(start))
	})
}
