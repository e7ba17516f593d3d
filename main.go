package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"auction-marketplace/internal/auth"
	bidding "auction-marketplace/internal/biddingService"
	"auction-marketplace/internal/cache"
	"auction-marketplace/internal/config"
	"auction-marketplace/internal/events"
	"auction-marketplace/internal/repository"
	"auction-marketplace/internal/server"
	"auction-marketplace/internal/sweeper"
	watchlist "auction-marketplace/internal/watchlistService"
	"auction-marketplace/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// store is what the services need from a backend
type store interface {
	repository.AuctionDB
	repository.WatchlistDB
}

func main() {
	cfg := config.Load()
	utils.SetLevel(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		utils.Fatal("invalid configuration", map[string]any{"error": err.Error(), "gin_mode": cfg.GinMode})
	}
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := openStore(cfg)
	if err != nil {
		utils.Fatal("failed to open store", map[string]any{"driver": cfg.Store, "error": err.Error()})
	}

	publisher, closePublisher := newPublisher(cfg)
	defer closePublisher()

	biddingSvc := bidding.NewBiddingService(repo,
		bidding.WithBidCache(cache.NewBidCache(cfg.Cache.SizeMB, cfg.Cache.TTL)),
		bidding.WithPublisher(publisher),
	)
	watchlistSvc := watchlist.NewWatchlistService(repo, repo)

	if cfg.SeedData {
		created, err := biddingSvc.SeedDemoAuctions(ctx)
		if err != nil {
			utils.Fatal("failed to seed demo auctions", map[string]any{"error": err.Error()})
		}
		utils.Info("demo auctions ready", map[string]any{"created": created})
	}

	if cfg.SweepInterval > 0 {
		go sweeper.New(repo, cfg.SweepInterval).Run(ctx)
	}

	var limiter *rate.Limiter
	if cfg.BidRateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.BidRateLimit), cfg.BidRateBurst)
	}

	router := server.SetupRouter(server.Dependencies{
		Bidding:    biddingSvc,
		Watchlist:  watchlistSvc,
		Tokens:     auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL),
		BidLimiter: limiter,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.Info("starting auction server", map[string]any{"port": cfg.Port, "store": cfg.Store})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Fatal("failed to start server", map[string]any{"error": err.Error()})
		}
	}()

	<-ctx.Done()
	utils.Info("shutting down", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.Error("server shutdown failed", map[string]any{"error": err.Error()})
	}
}

// openStore returns the configured backend, migrating the schema when asked
func openStore(cfg *config.Config) (store, error) {
	switch cfg.Store {
	case config.StoreMemory:
		return repository.NewMemoryRepo(), nil
	case config.StorePostgres:
		db, err := repository.OpenPostgres(cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		if cfg.RunMigrations {
			if err := repository.Migrate(db); err != nil {
				return nil, err
			}
		}
		return repository.NewGormRepo(db), nil
	default:
		return nil, errors.New("unknown store driver " + cfg.Store)
	}
}

// newPublisher sends bid events to Kafka when a broker is configured, otherwise to the log
func newPublisher(cfg *config.Config) (events.Publisher, func()) {
	if cfg.Kafka.Broker == "" {
		return events.LogPublisher{}, func() {}
	}

	publisher := events.NewKafkaPublisher(cfg.Kafka.Broker, cfg.Kafka.BidTopic)
	utils.Info("publishing bid events to kafka", map[string]any{"broker": cfg.Kafka.Broker, "topic": cfg.Kafka.BidTopic})
	return publisher, func() {
		if err := publisher.Close(); err != nil {
			utils.Warn("failed to close kafka publisher", map[string]any{"error": err.Error()})
		}
	}
}
