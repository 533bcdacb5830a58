// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, the process exits with an error.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all runtime configuration for the search service.
type Config struct {
	Port              string
	DatabaseURL       string
	RedisURL          string
	SolrURL           string // base URL of the job index core, e.g. http://solr:8983/solr/jobs
	RefCacheTTLMins   int    // TTL for cached reference lookups in Redis
	WarmIntervalHours int    // how often the reference-cache warmer fires
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	solrURL := os.Getenv("SOLR_URL")
	if solrURL == "" {
		return nil, fmt.Errorf("SOLR_URL is required")
	}

	ttl := 60
	if s := os.Getenv("REF_CACHE_TTL_MINUTES"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("REF_CACHE_TTL_MINUTES must be a positive integer, got %q", s)
		}
		ttl = v
	}

	warm := 12
	if s := os.Getenv("WARM_INTERVAL_HOURS"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("WARM_INTERVAL_HOURS must be a positive integer, got %q", s)
		}
		warm = v
	}

	port := os.Getenv("SEARCH_PORT")
	if port == "" {
		port = "8083"
	}

	return &Config{
		Port:              port,
		DatabaseURL:       dbURL,
		RedisURL:          redisURL,
		SolrURL:           solrURL,
		RefCacheTTLMins:   ttl,
		WarmIntervalHours: warm,
	}, nil
}
