// Package ingest drives the offer ingestion pipeline: pull wire offers
// from Horizon (polling or streaming), convert and upsert them, and
// isolate per-record faults so one bad offer never stalls the feed.
package ingest

import (
	"context"
	"log"
	"time"

	"github.com/DokaIzk/StellarRoute/internal/horizon"
	"github.com/DokaIzk/StellarRoute/internal/sdex"
)

// Mode selects how the Loop pulls offers from Horizon.
type Mode int

const (
	// Polling repeatedly calls FetchOffers on a fixed interval.
	Polling Mode = iota
	// Streaming opens a single SSE connection and consumes it until it ends.
	Streaming
)

// Store is the subset of internal/store.Store the loop needs, kept
// narrow so tests can substitute an in-memory fake.
type Store interface {
	UpsertAsset(ctx context.Context, assetType, code, issuer string) error
	UpsertOffer(ctx context.Context, o sdex.Offer) error
}

// horizonClient is the subset of *horizon.Client the loop drives,
// narrowed for the same testability reason as Store.
type horizonClient interface {
	FetchOffers(ctx context.Context, cursor string, limit int, order string) (*horizon.Page, error)
	StreamOffers(ctx context.Context) <-chan horizon.StreamItem
}

// Loop coordinates one Horizon source against one Store, per spec.md
// §4.3. It does not track a cursor across polling cycles; idempotent
// upsert absorbs the overlap between cycles.
type Loop struct {
	client       horizonClient
	store        Store
	mode         Mode
	pollInterval time.Duration
	limit        int
	order        string
}

// New builds a Loop. pollInterval and limit are only consulted in
// Polling mode.
func New(client *horizon.Client, store Store, mode Mode, pollInterval time.Duration, limit int) *Loop {
	return &Loop{
		client:       client,
		store:        store,
		mode:         mode,
		pollInterval: pollInterval,
		limit:        limit,
		order:        "asc",
	}
}

// Run drives the configured mode until ctx is cancelled (Polling) or the
// stream ends (Streaming, at which point Run returns so the caller's
// supervising entrypoint may restart it).
func (l *Loop) Run(ctx context.Context) error {
	switch l.mode {
	case Streaming:
		return l.runStreaming(ctx)
	default:
		return l.runPolling(ctx)
	}
}

func (l *Loop) runPolling(ctx context.Context) error {
	log.Printf("ingest: starting polling mode (interval=%s limit=%d)", l.pollInterval, l.limit)

	for {
		start := time.Now()

		page, err := l.client.FetchOffers(ctx, "", l.limit, l.order)
		if err != nil {
			log.Printf("ingest: fetch offers failed: %v", err)
		} else {
			indexed := 0
			for _, wire := range page.Records {
				if l.processRecord(ctx, wire) {
					indexed++
				}
			}
			log.Printf("ingest: indexed %d offers", indexed)
		}

		elapsed := time.Since(start)
		delay := l.pollInterval - elapsed
		if delay < 0 {
			delay = 0
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

func (l *Loop) runStreaming(ctx context.Context) error {
	log.Printf("ingest: starting streaming mode")

	items := l.client.StreamOffers(ctx)
	for item := range items {
		if item.Err != nil {
			log.Printf("ingest: stream error: %v", item.Err)
			continue
		}
		l.processRecord(ctx, *item.Offer)
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}
	log.Printf("ingest: offer stream ended unexpectedly")
	return nil
}

// processRecord runs the four-step per-record pipeline from spec.md
// §4.3: parse, upsert selling asset, upsert buying asset, upsert offer.
// Every step is independently fault-isolated; it reports whether the
// offer upsert ultimately succeeded.
func (l *Loop) processRecord(ctx context.Context, wire sdex.WireOffer) bool {
	offer, err := sdex.ParseWireOffer(wire)
	if err != nil {
		log.Printf("ingest: skipping malformed offer: %v", err)
		return false
	}

	sellType, sellCode, sellIssuer := offer.Selling.Key()
	if err := l.store.UpsertAsset(ctx, sellType, sellCode, sellIssuer); err != nil {
		log.Printf("ingest: failed to upsert selling asset for offer %d: %v", offer.ID, err)
	}

	buyType, buyCode, buyIssuer := offer.Buying.Key()
	if err := l.store.UpsertAsset(ctx, buyType, buyCode, buyIssuer); err != nil {
		log.Printf("ingest: failed to upsert buying asset for offer %d: %v", offer.ID, err)
	}

	if err := l.store.UpsertOffer(ctx, offer); err != nil {
		log.Printf("ingest: failed to upsert offer %d: %v", offer.ID, err)
		return false
	}
	return true
}
