// Package warmer wires up the cron job that periodically pre-loads the
// slow-changing reference tables (industries, countries) into the Redis
// cache, so steady-state lookups rarely touch PostgreSQL.
package warmer

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"jobgrid/search-service/internal/refdata"
)

// Warmer wraps robfig/cron and manages the refresh loop.
type Warmer struct {
	cron  *cron.Cron
	store *refdata.Store
	spec  string // cron spec, e.g. "@every 12h"
}

// New creates a Warmer that fires every intervalHours hours.
func New(store *refdata.Store, intervalHours int) *Warmer {
	return &Warmer{
		cron:  cron.New(cron.WithLogger(cron.DefaultLogger)),
		store: store,
		spec:  fmt.Sprintf("@every %dh", intervalHours),
	}
}

// Start registers the job and starts the scheduler. Also runs one refresh
// immediately so lookups are warm without waiting for the first tick.
func (w *Warmer) Start(ctx context.Context) error {
	_, err := w.cron.AddFunc(w.spec, func() {
		w.refresh(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	w.cron.Start()
	log.Printf("[warmer] Cron started — spec: %s", w.spec)

	// Warm immediately on startup (non-blocking)
	go w.refresh(ctx)

	return nil
}

// Stop gracefully shuts down the scheduler.
func (w *Warmer) Stop() {
	w.cron.Stop()
	log.Println("[warmer] Cron stopped")
}

// refresh bulk-loads each reference table into the cache. A failed table is
// logged and skipped; lookups fall back to the database until the next tick.
func (w *Warmer) refresh(ctx context.Context) {
	log.Println("[warmer] Reference cache refresh started")

	if n, err := w.store.WarmIndustries(ctx); err != nil {
		log.Printf("[warmer] WarmIndustries error: %v", err)
	} else {
		log.Printf("[warmer] Cached %d industries", n)
	}

	if n, err := w.store.WarmCountries(ctx); err != nil {
		log.Printf("[warmer] WarmCountries error: %v", err)
	} else {
		log.Printf("[warmer] Cached %d countries", n)
	}

	log.Println("[warmer] Reference cache refresh complete")
}
