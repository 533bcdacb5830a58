// jobgrid-search-service
//
// Search query compiler for the job board. Turns a flat set of caller
// parameters (keyword, occupation codes, location, radius, date window,
// pagination, sort, poster-type filter, prior-search replay) into a
// well-formed query against the Solr job index, resolves geographic terms
// to coordinates, and persists/replays search sessions by opaque id.
//
// Exposes a REST API used by the Gateway to implement:
//   - search                 — run a search, return the result envelope
//   - occupation counts      — faceted per-occupation counts
//   - company/location facets — facet aggregation over the same query
//   - describe               — human-readable restatement of the query
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"jobgrid/search-service/internal/api"
	"jobgrid/search-service/internal/config"
	"jobgrid/search-service/internal/db"
	"jobgrid/search-service/internal/refdata"
	"jobgrid/search-service/internal/search"
	"jobgrid/search-service/internal/session"
	"jobgrid/search-service/internal/solr"
	"jobgrid/search-service/internal/warmer"
)

const version = "1.0.0"

func main() {
	// Load .env (optional, for local dev)
	_ = godotenv.Load()

	// ── Config ──────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[search-service] Config error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── PostgreSQL ───────────────────────────────────────────────────────────
	log.Println("[search-service] Connecting to PostgreSQL…")
	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[search-service] PostgreSQL: %v", err)
	}
	defer pool.Close()
	log.Println("[search-service] PostgreSQL connected ✓")

	// ── Redis ────────────────────────────────────────────────────────────────
	log.Println("[search-service] Connecting to Redis…")
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("[search-service] Redis: %v", err)
	}
	defer rdb.Close()
	log.Println("[search-service] Redis connected ✓")

	// ── Pipeline wiring ──────────────────────────────────────────────────────
	resolver := refdata.New(pool, rdb, time.Duration(cfg.RefCacheTTLMins)*time.Minute)
	sessions := session.New(pool)
	assembler := search.NewAssembler(resolver, sessions)
	engine := solr.NewClient(cfg.SolrURL)

	// ── Reference cache warmer ───────────────────────────────────────────────
	warm := warmer.New(resolver, cfg.WarmIntervalHours)
	if err := warm.Start(ctx); err != nil {
		log.Fatalf("[search-service] Warmer: %v", err)
	}
	defer warm.Stop()

	// ── HTTP server ──────────────────────────────────────────────────────────
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
	}))
	r.Get("/health", healthHandler)

	h := api.NewHandler(pool, resolver, assembler, engine)
	h.RegisterRoutes(r)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[search-service] v%s listening on :%s", version, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[search-service] HTTP server error: %v", err)
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[search-service] Shutting down…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[search-service] Shutdown error: %v", err)
	}
	log.Println("[search-service] Stopped.")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "search-service",
		"version": version,
	})
}
