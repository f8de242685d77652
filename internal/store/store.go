// Package store is the sole writer and sole reader of StellarRoute's
// Postgres-shaped schema: the assets and sdex_offers tables. The indexer
// writes through UpsertAsset/UpsertOffer; the API reads through Pairs.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DokaIzk/StellarRoute/internal/sdex"
)

// PoolConfig bounds the shared Postgres connection pool per spec.md §6's
// DB_* environment variables.
type PoolConfig struct {
	DatabaseURL       string
	MaxConnections    int32
	MinConnections    int32
	ConnectionTimeout time.Duration
	IdleTimeout       time.Duration
	MaxLifetime       time.Duration
}

// NewPool builds a pgxpool.Pool honoring cfg. Callers should call Close
// on the returned pool at shutdown.
func NewPool(ctx context.Context, cfg PoolConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("store: parse database url: %w", err)
	}

	if cfg.MaxConnections > 0 {
		poolCfg.MaxConns = cfg.MaxConnections
	}
	if cfg.MinConnections > 0 {
		poolCfg.MinConns = cfg.MinConnections
	}
	if cfg.ConnectionTimeout > 0 {
		poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectionTimeout
	}
	if cfg.IdleTimeout > 0 {
		poolCfg.MaxConnIdleTime = cfg.IdleTimeout
	}
	if cfg.MaxLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("store: create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}

	return pool, nil
}

// Querier is the subset of pgxpool.Pool that Store needs, so tests can
// substitute a fake without standing up Postgres.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// Store wraps a Postgres pool implementing spec.md §4.4's upsert
// semantics and §4.7's pairs aggregation.
type Store struct {
	pool Querier
}

// New builds a Store over an already-connected pool (or a fake
// implementing Querier, in tests).
func New(pool Querier) *Store {
	return &Store{pool: pool}
}

// UpsertAsset writes (asset_type, asset_code, asset_issuer) idempotently.
// On conflict on the natural triple key it touches only updated_at,
// preserving created_at and any surrogate id, per spec.md §4.4. Null
// code/issuer (native assets) participate in the conflict target via
// COALESCE so that null-equals-null holds.
func (s *Store) UpsertAsset(ctx context.Context, assetType, code, issuer string) error {
	const query = `
		INSERT INTO assets (asset_type, asset_code, asset_issuer, created_at, updated_at)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), now(), now())
		ON CONFLICT (asset_type, (COALESCE(asset_code, '')), (COALESCE(asset_issuer, '')))
		DO UPDATE SET updated_at = now()
	`
	if _, err := s.pool.Exec(ctx, query, assetType, code, issuer); err != nil {
		return fmt.Errorf("store: upsert asset: %w", err)
	}
	return nil
}

// UpsertOffer writes a full offer row. On conflict on offer_id it
// updates only the mutable fields named in spec.md §4.4, preserving
// created_at; replaying the same wire offer any number of times
// converges to the same row.
func (s *Store) UpsertOffer(ctx context.Context, o sdex.Offer) error {
	sellingType, sellingCode, sellingIssuer := o.Selling.Key()
	buyingType, buyingCode, buyingIssuer := o.Buying.Key()

	const query = `
		INSERT INTO sdex_offers (
			offer_id, seller_id,
			selling_asset_type, selling_asset_code, selling_asset_issuer,
			buying_asset_type, buying_asset_code, buying_asset_issuer,
			amount, price_n, price_d, price,
			last_modified_ledger, last_modified_time,
			created_at, updated_at
		) VALUES (
			$1, $2,
			$3, NULLIF($4, ''), NULLIF($5, ''),
			$6, NULLIF($7, ''), NULLIF($8, ''),
			$9, $10, $11, $12,
			$13, $14,
			now(), now()
		)
		ON CONFLICT (offer_id) DO UPDATE SET
			seller_id = EXCLUDED.seller_id,
			amount = EXCLUDED.amount,
			price_n = EXCLUDED.price_n,
			price_d = EXCLUDED.price_d,
			price = EXCLUDED.price,
			last_modified_ledger = EXCLUDED.last_modified_ledger,
			last_modified_time = EXCLUDED.last_modified_time,
			updated_at = now()
	`
	_, err := s.pool.Exec(ctx, query,
		o.ID, o.Seller,
		sellingType, sellingCode, sellingIssuer,
		buyingType, buyingCode, buyingIssuer,
		o.Amount, o.PriceN, o.PriceD, o.Price,
		o.LastModifiedLedger, o.LastModifiedTime,
	)
	if err != nil {
		return fmt.Errorf("store: upsert offer: %w", err)
	}
	return nil
}

// Pair is one aggregated trading pair row, the newer schema shape
// spec.md §9 mandates (no quote_asset field).
type Pair struct {
	Base         string
	Counter      string
	BaseAsset    string
	CounterAsset string
	OfferCount   int64
	LastUpdated  *time.Time
}

// Pairs aggregates sdex_offers by (selling, buying) asset tuple, ordered
// by offer_count descending, capped at 100 rows per spec.md §4.7.
func (s *Store) Pairs(ctx context.Context) ([]Pair, error) {
	const query = `
		SELECT
			selling_asset_code, selling_asset_issuer, selling_asset_type,
			buying_asset_code, buying_asset_issuer, buying_asset_type,
			COUNT(*) AS offer_count,
			MAX(last_modified_time) AS last_updated
		FROM sdex_offers
		GROUP BY
			selling_asset_type, selling_asset_code, selling_asset_issuer,
			buying_asset_type, buying_asset_code, buying_asset_issuer
		ORDER BY offer_count DESC
		LIMIT 100
	`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("store: pairs query: %w", err)
	}
	defer rows.Close()

	var pairs []Pair
	for rows.Next() {
		var sellCode, sellIssuer, sellType, buyCode, buyIssuer, buyType *string
		var p Pair
		if err := rows.Scan(&sellCode, &sellIssuer, &sellType, &buyCode, &buyIssuer, &buyType, &p.OfferCount, &p.LastUpdated); err != nil {
			return nil, fmt.Errorf("store: pairs scan: %w", err)
		}
		p.Base = deref(sellCode, "XLM")
		p.Counter = deref(buyCode, "XLM")
		p.BaseAsset = canonicalFromColumns(sellType, sellCode, sellIssuer)
		p.CounterAsset = canonicalFromColumns(buyType, buyCode, buyIssuer)
		pairs = append(pairs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: pairs rows: %w", err)
	}
	return pairs, nil
}

func deref(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

func canonicalFromColumns(assetType, code, issuer *string) string {
	if assetType == nil || *assetType == "native" {
		return "native"
	}
	a, err := sdex.CreditAsset(deref(code, ""), deref(issuer, ""))
	if err != nil {
		return deref(code, "")
	}
	return a.Canonical()
}

// HealthCheck probes connectivity with a trivial SELECT 1, used by
// GET /health per spec.md §6.
func (s *Store) HealthCheck(ctx context.Context) error {
	var one int
	if err := s.pool.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("store: health check: %w", err)
	}
	return nil
}
