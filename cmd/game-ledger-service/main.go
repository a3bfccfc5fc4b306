package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/XavierBriggs/fortuna/services/game-ledger-service/internal/cache"
	"github.com/XavierBriggs/fortuna/services/game-ledger-service/internal/config"
	"github.com/XavierBriggs/fortuna/services/game-ledger-service/internal/export"
	"github.com/XavierBriggs/fortuna/services/game-ledger-service/internal/handlers"
	"github.com/XavierBriggs/fortuna/services/game-ledger-service/internal/hub"
	"github.com/XavierBriggs/fortuna/services/game-ledger-service/internal/ledger"
	"github.com/XavierBriggs/fortuna/services/game-ledger-service/internal/livestate"
	"github.com/XavierBriggs/fortuna/services/game-ledger-service/internal/publisher"
	"github.com/XavierBriggs/fortuna/services/game-ledger-service/internal/store"
	"github.com/XavierBriggs/fortuna/services/game-ledger-service/internal/store/postgres"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
)

func main() {
	fmt.Println("=== Game Ledger Service ===")

	cfg := config.LoadConfig()

	// Context for hub and websocket lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eventStore, err := openStore(ctx, cfg.Database)
	if err != nil {
		fmt.Printf("❌ Failed to open store: %v\n", err)
		os.Exit(1)
	}
	defer eventStore.Close()

	h := hub.NewHub(livestate.NewLoader(eventStore))
	go h.Run(ctx)

	listeners := []ledger.Listener{h}
	var views handlers.ViewCache

	if cfg.Redis.URL != "" {
		redisOpts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			fmt.Printf("❌ Failed to parse Redis URL: %v\n", err)
			os.Exit(1)
		}
		redisClient := redis.NewClient(redisOpts)
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			fmt.Printf("❌ Failed to connect to Redis: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("✓ Connected to Redis")

		writer := cache.NewRedisWriter(redisClient, cfg.Redis.SummaryTTL, cfg.Redis.LiveTTL)
		views = writer
		listeners = append(listeners,
			cache.NewRefresher(eventStore, writer),
			publisher.NewStreamPublisher(redisClient, cfg.Redis.Stream),
		)
	} else {
		fmt.Println("⚠️  REDIS_URL not set, view cache and ledger stream disabled")
	}

	gameLedger := ledger.New(eventStore, listeners...)
	handler := handlers.NewHandler(eventStore, gameLedger, export.NewRegistry(export.NewJSONFormatter()), views)
	feedHandler := handlers.NewFeedHandler(h, ctx)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ws", feedHandler.HandleWebSocket)
	r.Get("/metrics", feedHandler.HandleMetrics)
	r.Group(func(r chi.Router) {
		r.Use(chimiddleware.Timeout(30 * time.Second))
		handler.RegisterRoutes(r)
	})

	srv := &http.Server{
		Addr:        cfg.Server.Addr,
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		fmt.Printf("✓ Game ledger listening on %s\n", cfg.Server.Addr)
		fmt.Println("  Endpoints:")
		fmt.Println("    GET    /health")
		fmt.Println("    GET    /ws")
		fmt.Println("    GET    /metrics")
		fmt.Println("    GET    /api/v1/games/{game_id}/roster")
		fmt.Println("    PUT    /api/v1/games/{game_id}/roster")
		fmt.Println("    GET    /api/v1/games/{game_id}/events")
		fmt.Println("    POST   /api/v1/games/{game_id}/events")
		fmt.Println("    PATCH  /api/v1/games/{game_id}/events/{event_id}")
		fmt.Println("    DELETE /api/v1/games/{game_id}/events/{event_id}")
		fmt.Println("    POST   /api/v1/games/{game_id}/undo")
		fmt.Println("    GET    /api/v1/games/{game_id}/state")
		fmt.Println("    GET    /api/v1/games/{game_id}/summary")
		fmt.Println("    GET    /api/v1/games/{game_id}/boxscore/display")

		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		fmt.Printf("❌ Server error: %v\n", err)
		os.Exit(1)

	case sig := <-shutdown:
		fmt.Printf("\n⚠️  Received signal: %v\n", sig)

		// Stop the hub and websocket pumps
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("⚠️  Graceful shutdown failed: %v\n", err)
			if err := srv.Close(); err != nil {
				fmt.Printf("❌ Could not stop server: %v\n", err)
			}
		}
	}

	fmt.Println("✓ Shutdown complete")
}

// openStore connects to PostgreSQL when a DSN is configured, otherwise
// keeps games in memory
func openStore(ctx context.Context, cfg config.DatabaseConfig) (store.Store, error) {
	if cfg.DSN == "" {
		fmt.Println("⚠️  DATABASE_URL not set, using in-memory store")
		return store.NewMemoryStore(), nil
	}

	pg, err := postgres.New(cfg.DSN)
	if err != nil {
		return nil, err
	}
	if err := pg.Migrate(ctx); err != nil {
		pg.Close()
		return nil, fmt.Errorf("migrating schema: %w", err)
	}
	fmt.Println("✓ Connected to PostgreSQL")
	return pg, nil
}
