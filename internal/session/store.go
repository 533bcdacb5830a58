// Package session persists search sessions: one row per assembled search,
// keyed by an opaque integer id, enabling replay-with-overrides. Sessions
// are never deleted here; retention is owned by an external job.
package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a session id does not exist or belongs to a
// different caller. The two cases are deliberately indistinguishable.
var ErrNotFound = fmt.Errorf("session not found")

// Store implements search.SessionStore over PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// New returns a configured Store.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Create records a new search session and returns its id. The params blob
// must be a complete, replayable engine request: loading the session and
// issuing no new parameters has to reproduce the original result set.
func (s *Store) Create(ctx context.Context, callerID, query string, params []byte) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO search_sessions (caller_id, query, params, last_accessed)
		 VALUES ($1, $2, $3::jsonb, NOW())
		 RETURNING id`,
		callerID, query, string(params),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create session: %w", err)
	}
	return id, nil
}

// Load returns the stored query and serialized request for id, failing
// closed when the session is missing or owned by someone else. Loading
// refreshes last_accessed as a best-effort side effect: a write error is
// logged, never surfaced, and never blocks the read.
func (s *Store) Load(ctx context.Context, id int64, callerID string) (string, []byte, error) {
	var (
		query  string
		params []byte
	)
	err := s.pool.QueryRow(ctx,
		`SELECT query, params FROM search_sessions
		 WHERE id = $1 AND caller_id = $2`,
		id, callerID,
	).Scan(&query, &params)
	if err != nil {
		return "", nil, ErrNotFound
	}

	if _, err := s.pool.Exec(ctx,
		`UPDATE search_sessions SET last_accessed = NOW() WHERE id = $1`, id,
	); err != nil {
		slog.Warn("session touch failed", "sessionId", id, "err", err)
	}

	return query, params, nil
}
