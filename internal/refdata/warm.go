package refdata

import (
	"context"
	"fmt"
)

// WarmIndustries bulk-loads the industries table into the cache so
// steady-state industry lookups rarely touch PostgreSQL. Returns the number
// of entries written.
func (s *Store) WarmIndustries(ctx context.Context) (int, error) {
	return s.warmTable(ctx, `SELECT id, name FROM industries`, "ref:industry:")
}

// WarmCountries bulk-loads the countries table into the cache.
func (s *Store) WarmCountries(ctx context.Context) (int, error) {
	return s.warmTable(ctx, `SELECT code, name FROM countries`, "ref:country:")
}

func (s *Store) warmTable(ctx context.Context, query, prefix string) (int, error) {
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("warm query: %w", err)
	}
	defer rows.Close()

	pipe := s.rdb.Pipeline()
	count := 0
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return count, fmt.Errorf("warm scan: %w", err)
		}
		pipe.Set(ctx, prefix+key, value, s.ttl)
		count++
	}
	if err := rows.Err(); err != nil {
		return count, err
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return count, fmt.Errorf("warm pipeline: %w", err)
	}
	return count, nil
}
