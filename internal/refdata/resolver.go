// Package refdata resolves human-facing codes (industry ids, country codes,
// occupation and military occupation codes, city/state pairs, zip codes)
// against the reference tables in PostgreSQL, reading through a Redis cache.
// Cache failures are never fatal: a broken cache just means every lookup
// hits the database.
package refdata

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"jobgrid/search-service/internal/search"
)

// ErrNotFound is returned when no reference row matches the requested key.
var ErrNotFound = fmt.Errorf("reference entry not found")

// Store implements search.Resolver over PostgreSQL with a Redis
// read-through cache.
type Store struct {
	pool *pgxpool.Pool
	rdb  *redis.Client
	ttl  time.Duration
}

// New returns a configured Store. ttl bounds how long cached lookups live.
func New(pool *pgxpool.Pool, rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{pool: pool, rdb: rdb, ttl: ttl}
}

// IndustryName returns the display name for an industry id.
func (s *Store) IndustryName(ctx context.Context, id string) (string, error) {
	return s.lookupString(ctx, "ref:industry:"+id,
		`SELECT name FROM industries WHERE id = $1`, id)
}

// CountryName returns the display name for an ISO country code.
func (s *Store) CountryName(ctx context.Context, code string) (string, error) {
	return s.lookupString(ctx, "ref:country:"+strings.ToUpper(code),
		`SELECT name FROM countries WHERE code = UPPER($1)`, code)
}

// OccupationTitle returns the title for a cleaned occupation code.
func (s *Store) OccupationTitle(ctx context.Context, code string) (string, error) {
	return s.lookupString(ctx, "ref:onet:"+code,
		`SELECT title FROM occupations WHERE code = $1`, code)
}

// MilitaryTitle returns the title for a cleaned military occupation code.
func (s *Store) MilitaryTitle(ctx context.Context, code string) (string, error) {
	return s.lookupString(ctx, "ref:moc:"+code,
		`SELECT title FROM military_occupations WHERE code = $1`, code)
}

// CityCentroid returns the centroid for a (city, state) pair. The match is
// case-insensitive on both sides.
func (s *Store) CityCentroid(ctx context.Context, city, state string) (search.Centroid, error) {
	key := "geo:city:" + strings.ToLower(city) + "|" + strings.ToLower(state)
	return s.lookupCentroid(ctx, key,
		`SELECT latitude, longitude FROM city_centroids
		 WHERE LOWER(city) = LOWER($1) AND LOWER(state) = LOWER($2)`,
		city, state)
}

// ZipCentroid returns the centroid for a 5-digit zip code.
func (s *Store) ZipCentroid(ctx context.Context, zip string) (search.Centroid, error) {
	return s.lookupCentroid(ctx, "geo:zip:"+zip,
		`SELECT latitude, longitude FROM zip_centroids WHERE zip = $1`, zip)
}

// lookupString resolves one string-valued reference entry: cache hit, else
// point read, else ErrNotFound. Misses are back-filled into the cache.
func (s *Store) lookupString(ctx context.Context, key, query string, args ...any) (string, error) {
	if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
		return cached, nil
	} else if err != redis.Nil {
		slog.Warn("refdata cache read failed", "key", key, "err", err)
	}

	var value string
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&value); err != nil {
		return "", ErrNotFound
	}

	s.backfill(ctx, key, value)
	return value, nil
}

// lookupCentroid resolves one (lat, lon) reference entry. Centroids are
// cached as "lat,lon" strings.
func (s *Store) lookupCentroid(ctx context.Context, key, query string, args ...any) (search.Centroid, error) {
	if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
		if c, ok := parseCentroid(cached); ok {
			return c, nil
		}
	} else if err != redis.Nil {
		slog.Warn("refdata cache read failed", "key", key, "err", err)
	}

	var c search.Centroid
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&c.Lat, &c.Lon); err != nil {
		return search.Centroid{}, ErrNotFound
	}

	s.backfill(ctx, key, formatCentroid(c))
	return c, nil
}

func (s *Store) backfill(ctx context.Context, key, value string) {
	if err := s.rdb.Set(ctx, key, value, s.ttl).Err(); err != nil {
		slog.Warn("refdata cache write failed", "key", key, "err", err)
	}
}

func formatCentroid(c search.Centroid) string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," +
		strconv.FormatFloat(c.Lon, 'f', -1, 64)
}

func parseCentroid(s string) (search.Centroid, bool) {
	lat, lon, ok := strings.Cut(s, ",")
	if !ok {
		return search.Centroid{}, false
	}
	latF, err1 := strconv.ParseFloat(lat, 64)
	lonF, err2 := strconv.ParseFloat(lon, 64)
	if err1 != nil || err2 != nil {
		return search.Centroid{}, false
	}
	return search.Centroid{Lat: latF, Lon: lonF}, true
}
