package ratelimit

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"
)

// deniedBody is the JSON shape spec.md §4.5/§6 mandates for a 429.
type deniedBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Middleware wraps next with admission control: every request is
// checked against endpoints.ForPath(r.URL.Path) keyed by
// "rate_limit:<slug>:<client_ip>". Every response, allowed or denied,
// carries the three X-RateLimit-* headers; a denied response also gets
// Retry-After and a 429 JSON body, per spec.md §4.5.
func Middleware(limiter Limiter, endpoints EndpointConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			cfg := endpoints.ForPath(path)
			slug := pathToSlug(path)
			ip := ExtractIP(r)
			key := "rate_limit:" + slug + ":" + ip

			decision := limiter.Check(r.Context(), key, cfg)
			setHeaders(w, decision)

			if decision.Denied {
				retryAfter := decision.ResetUnix - time.Now().Unix()
				if retryAfter < 0 {
					retryAfter = 0
				}
				w.Header().Set("Retry-After", strconv.FormatInt(retryAfter, 10))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(deniedBody{
					Error:   "rate_limit_exceeded",
					Message: "Too many requests. Please try again later.",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func setHeaders(w http.ResponseWriter, d Decision) {
	w.Header().Set("X-RateLimit-Limit", strconv.FormatUint(uint64(d.Limit), 10))
	w.Header().Set("X-RateLimit-Remaining", strconv.FormatUint(uint64(d.Remaining), 10))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(d.ResetUnix, 10))
}
