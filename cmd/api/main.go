// Command api serves the read-only HTTP API over the schema the
// indexer maintains: trading pairs today, orderbook/quote routed but
// deferred.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/DokaIzk/StellarRoute/internal/apiserver"
	"github.com/DokaIzk/StellarRoute/internal/cache"
	"github.com/DokaIzk/StellarRoute/internal/config"
	"github.com/DokaIzk/StellarRoute/internal/ratelimit"
	"github.com/DokaIzk/StellarRoute/internal/store"
)

const buildVersion = "0.1.0"

func main() {
	cfg, err := config.LoadAPI()
	if err != nil {
		log.Fatalf("api: config error: %v", err)
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
		log.Printf("api: failed to connect to database: %v", err)
		os.Exit(1)
	}
	defer pool.Close()
	log.Println("api: connected to Postgres")

	var limiter ratelimit.Limiter
	var appCache *cache.Cache

	if cfg.RedisURL != "" {
		opts, err := goredis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Printf("api: invalid REDIS_URL, falling back to in-memory rate limiting: %v", err)
			limiter = ratelimit.NewMemoryLimiter()
		} else {
			redisClient := goredis.NewClient(opts)
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			if err := redisClient.Ping(pingCtx).Err(); err != nil {
				log.Printf("api: warning: redis not reachable at startup: %v", err)
			}
			cancel()
			limiter = ratelimit.NewRedisLimiter(redisClient)
			appCache = cache.New(redisClient)
		}
	} else {
		log.Println("api: REDIS_URL not set; using in-memory rate limiting and no cache")
		limiter = ratelimit.NewMemoryLimiter()
		appCache = cache.New(nil)
	}

	endpoints := ratelimit.NewEndpointConfig(cfg.RateLimitWindow, cfg.RateLimitPairs, cfg.RateLimitOrderbook, cfg.RateLimitQuote)
	server := apiserver.New(store.New(pool), appCache, buildVersion)
	router := apiserver.NewRouter(server, limiter, endpoints)

	addr := cfg.Host + ":" + strconv.Itoa(cfg.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("api: listening on %s", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("api: server error: %v", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Println("api: shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("api: forced shutdown: %v", err)
	}

	log.Println("api: exited")
}
