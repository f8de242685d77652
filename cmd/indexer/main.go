// Command indexer tails the Stellar Decentralized Exchange's live offer
// set from a Horizon-style API and upserts it into Postgres.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DokaIzk/StellarRoute/internal/config"
	"github.com/DokaIzk/StellarRoute/internal/horizon"
	"github.com/DokaIzk/StellarRoute/internal/ingest"
	"github.com/DokaIzk/StellarRoute/internal/store"
)

func main() {
	cfg, err := config.LoadIndexer()
	if err != nil {
		log.Fatalf("indexer: config error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := store.NewPool(ctx, store.PoolConfig{
		DatabaseURL:       cfg.DatabaseURL,
		MaxConnections:    cfg.MaxConnections,
		MinConnections:    cfg.MinConnections,
		ConnectionTimeout: cfg.ConnectionTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxLifetime:       cfg.MaxLifetime,
	})
	if err != nil {
		log.Printf("indexer: failed to connect to database: %v", err)
		os.Exit(1)
	}
	defer pool.Close()
	log.Println("indexer: connected to Postgres")

	s := store.New(pool)
	client := horizon.NewClient(cfg.HorizonURL, &http.Client{Timeout: 30 * time.Second})
	loop := ingest.New(client, s, ingest.Polling, cfg.PollInterval, cfg.HorizonLimit)

	log.Printf("indexer: starting (horizon=%s poll_interval=%s limit=%d)", cfg.HorizonURL, cfg.PollInterval, cfg.HorizonLimit)

	if err := loop.Run(ctx); err != nil && ctx.Err() == nil {
		log.Printf("indexer: loop exited with error: %v", err)
	}

	log.Println("indexer: shutting down")
}
