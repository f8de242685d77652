package apiserver

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/DokaIzk/StellarRoute/internal/cache"
	"github.com/DokaIzk/StellarRoute/internal/store"
)

// pairsCacheTTL is how long a pairs response is served from cache before
// the next request queries Postgres again.
const pairsCacheTTL = 10 * time.Second

// Store is the subset of *store.Store the API reads, kept narrow for
// testability with a fake.
type Store interface {
	Pairs(ctx context.Context) ([]store.Pair, error)
	HealthCheck(ctx context.Context) error
}

// Server holds the shared, read-only dependencies every handler needs.
type Server struct {
	store   Store
	cache   *cache.Cache
	version string
}

// New builds a Server. cache may be nil (no Redis configured); version
// is surfaced verbatim on GET /health.
func New(s Store, c *cache.Cache, version string) *Server {
	return &Server{store: s, cache: c, version: version}
}

// tradingPair is the wire shape spec.md §6 mandates: the newer,
// denormalized form. The legacy quote_asset field must never appear.
type tradingPair struct {
	Base         string     `json:"base"`
	Counter      string     `json:"counter"`
	BaseAsset    string     `json:"base_asset"`
	CounterAsset string     `json:"counter_asset"`
	OfferCount   int64      `json:"offer_count"`
	LastUpdated  *time.Time `json:"last_updated,omitempty"`
}

type pairsResponse struct {
	Pairs []tradingPair `json:"pairs"`
	Total int           `json:"total"`
}

// HandlePairs implements GET /api/v1/pairs: cache → on miss, aggregate
// over Postgres → cache the result with a short TTL, per spec.md §4.7.
func (s *Server) HandlePairs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	key := cache.PairsListKey()

	if resp, ok := cache.Get[pairsResponse](ctx, s.cache, key); ok {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	pairs, err := s.store.Pairs(ctx)
	if err != nil {
		writeError(w, Database(err))
		return
	}

	resp := pairsResponse{Pairs: make([]tradingPair, 0, len(pairs)), Total: len(pairs)}
	for _, p := range pairs {
		resp.Pairs = append(resp.Pairs, tradingPair{
			Base:         p.Base,
			Counter:      p.Counter,
			BaseAsset:    p.BaseAsset,
			CounterAsset: p.CounterAsset,
			OfferCount:   p.OfferCount,
			LastUpdated:  p.LastUpdated,
		})
	}

	cache.Set(ctx, s.cache, key, resp, pairsCacheTTL)
	writeJSON(w, http.StatusOK, resp)
}

type healthComponents struct {
	Database string `json:"database"`
	Redis    string `json:"redis"`
}

type healthResponse struct {
	Status     string           `json:"status"`
	Version    string           `json:"version"`
	Timestamp  string           `json:"timestamp"`
	Components healthComponents `json:"components"`
}

// HandleHealth implements GET /health per spec.md §6: overall status is
// "healthy" only when the database is reachable; Redis degradation
// (including "no Redis configured") never fails the whole probe since
// the cache is optional.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := s.store.HealthCheck(ctx); err != nil {
		dbStatus = "degraded"
	}

	redisStatus := "degraded"
	if s.cache.IsHealthy(ctx) {
		redisStatus = "healthy"
	}

	overall := "healthy"
	if dbStatus != "healthy" {
		overall = "degraded"
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Status:    overall,
		Version:   s.version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Components: healthComponents{
			Database: dbStatus,
			Redis:    redisStatus,
		},
	})
}

// HandleOrderbook implements GET /api/v1/orderbook/{base}/{counter}.
// The response shape is defined by the OpenAPI schema; per spec.md
// §1/§4.7 the handler logic itself is deferred.
func (s *Server) HandleOrderbook(w http.ResponseWriter, r *http.Request) {
	writeError(w, newAPIError(http.StatusNotImplemented, "internal_error", "orderbook endpoint is not yet implemented"))
}

// HandleQuote implements GET /api/v1/quote/{base}/{counter}, deferred
// for the same reason as HandleOrderbook.
func (s *Server) HandleQuote(w http.ResponseWriter, r *http.Request) {
	writeError(w, newAPIError(http.StatusNotImplemented, "internal_error", "quote endpoint is not yet implemented"))
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
