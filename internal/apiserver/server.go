package apiserver

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/DokaIzk/StellarRoute/internal/ratelimit"
)

// NewRouter assembles the full route table, request-id tagging, and
// rate-limit admission wrapping every route, per spec.md §4.7.
func NewRouter(s *Server, limiter ratelimit.Limiter, endpoints ratelimit.EndpointConfig) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.HandleHealth)
	mux.HandleFunc("/api/v1/pairs", s.HandlePairs)
	mux.HandleFunc("/api/v1/orderbook/", routeTwoSegmentPath(s.HandleOrderbook))
	mux.HandleFunc("/api/v1/quote/", routeTwoSegmentPath(s.HandleQuote))
	mux.HandleFunc("/swagger-ui", serveStaticPlaceholder("text/html", swaggerUIPlaceholder))
	mux.HandleFunc("/api-docs/openapi.json", serveStaticPlaceholder("application/json", openAPIPlaceholder))

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, NoRoute())
	})

	var handler http.Handler = mux
	handler = ratelimit.Middleware(limiter, endpoints)(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

// routeTwoSegmentPath validates that the path beyond the registered
// prefix has exactly two non-empty segments (base, counter) before
// delegating to next; otherwise it answers 404 no_route.
func routeTwoSegmentPath(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		trimmed := strings.Trim(r.URL.Path, "/")
		parts := strings.Split(trimmed, "/")
		// parts looks like ["api","v1","orderbook","XLM","USDC"]
		if len(parts) != 5 || parts[3] == "" || parts[4] == "" {
			writeError(w, NoRoute())
			return
		}
		next(w, r)
	}
}

func serveStaticPlaceholder(contentType, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(body))
	}
}

const swaggerUIPlaceholder = `<!DOCTYPE html><html><head><title>StellarRoute API</title></head><body><div id="swagger-ui"></div></body></html>`

const openAPIPlaceholder = `{"openapi":"3.0.0","info":{"title":"StellarRoute API","version":"1"},"paths":{}}`

// requestIDHeader carries a UUID that correlates a request across logs.
const requestIDHeader = "X-Request-Id"

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}
