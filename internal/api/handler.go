// Package api implements the HTTP surface of the search service.
//
// All routes authenticate via an X-API-Key header mapped to a provisioned
// caller row.
//
// Routes:
//
//	GET /search             → run a search, return the result envelope
//	GET /search/occupations → faceted per-occupation counts for the query
//	GET /search/facets      → company/location facet aggregation
//	GET /search/describe    → human-readable restatement of the query
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"jobgrid/search-service/internal/refdata"
	"jobgrid/search-service/internal/search"
	"jobgrid/search-service/internal/solr"
)

// Envelope is the JSON shape returned for every search call. Start and End
// are the effective 1-based result rows; Error is empty on success.
type Envelope struct {
	Start     int                          `json:"start"`
	End       int                          `json:"end"`
	Total     int                          `json:"total"`
	SessionID int64                        `json:"sessionId"`
	Error     string                       `json:"error"`
	Docs      []json.RawMessage            `json:"docs"`
	Facets    map[string][]solr.FacetCount `json:"facets,omitempty"`
}

// Handler holds shared dependencies.
type Handler struct {
	pool     *pgxpool.Pool
	resolver *refdata.Store
	asm      *search.Assembler
	engine   *solr.Client
}

// NewHandler returns a configured Handler.
func NewHandler(pool *pgxpool.Pool, resolver *refdata.Store, asm *search.Assembler, engine *solr.Client) *Handler {
	return &Handler{pool: pool, resolver: resolver, asm: asm, engine: engine}
}

// RegisterRoutes mounts all search-service routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/search", h.runSearch)
	r.Get("/search/occupations", h.occupationCounts)
	r.Get("/search/facets", h.companyLocationFacets)
	r.Get("/search/describe", h.describe)
}

// ─── Route handlers ────────────────────────────────────────────────────────

func (h *Handler) runSearch(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	params := search.ParseParams(r.URL.Query())
	asm, err := h.asm.Assemble(r.Context(), caller, params)
	if err != nil {
		writeEnvelopeError(w, err)
		return
	}

	h.execute(w, r, asm)
}

// occupationCounts returns per-occupation document counts for the compiled
// query. Requires the occupation-detail capability.
func (h *Handler) occupationCounts(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.authenticate(w, r)
	if !ok {
		return
	}
	if !caller.CanViewOnetDetail {
		jsonError(w, "occupation detail not permitted", http.StatusForbidden)
		return
	}

	params := search.ParseParams(r.URL.Query())
	asm, err := h.asm.AssembleFacets(r.Context(), caller, params, "onetcode")
	if err != nil {
		writeEnvelopeError(w, err)
		return
	}

	h.execute(w, r, asm)
}

// companyLocationFacets returns company and location aggregation for the
// compiled query.
func (h *Handler) companyLocationFacets(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	params := search.ParseParams(r.URL.Query())
	asm, err := h.asm.AssembleFacets(r.Context(), caller, params, "company", "alllocations")
	if err != nil {
		writeEnvelopeError(w, err)
		return
	}

	h.execute(w, r, asm)
}

func (h *Handler) describe(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.authenticate(w, r); !ok {
		return
	}

	params := search.ParseParams(r.URL.Query())
	text := search.Describe(r.Context(), h.resolver, params)
	writeJSON(w, http.StatusOK, map[string]string{"description": text})
}

// ─── Execution and error mapping ───────────────────────────────────────────

func (h *Handler) execute(w http.ResponseWriter, r *http.Request, asm *search.Assembly) {
	result, err := h.engine.Execute(r.Context(), asm.Request)
	if err != nil {
		log.Printf("[search-service] engine query failed: %v", err)
		writeEnvelopeError(w, search.ErrQueryFormat)
		return
	}

	writeJSON(w, http.StatusOK, Envelope{
		Start:     asm.Start,
		End:       asm.End,
		Total:     result.Total,
		SessionID: asm.SessionID,
		Docs:      result.Docs,
		Facets:    result.Facets,
	})
}

// writeEnvelopeError surfaces one of the four pipeline errors verbatim in
// the envelope's error string, with a transport status to match.
func writeEnvelopeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, search.ErrSearchTooBroad):
		status = http.StatusBadRequest
	case errors.Is(err, search.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, search.ErrJobNoLongerAvailable):
		status = http.StatusGone
	case errors.Is(err, search.ErrQueryFormat):
		status = http.StatusBadGateway
	}
	writeJSON(w, status, Envelope{Error: err.Error(), Docs: []json.RawMessage{}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[search-service] write response: %v", err)
	}
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// ─── Caller authentication ─────────────────────────────────────────────────

// authenticate maps the X-API-Key header to a provisioned caller. Unknown or
// revoked keys are rejected; the caller row is read-only here.
func (h *Handler) authenticate(w http.ResponseWriter, r *http.Request) (search.Caller, bool) {
	key := r.Header.Get("X-API-Key")
	if key == "" {
		jsonError(w, "missing X-API-Key", http.StatusUnauthorized)
		return search.Caller{}, false
	}

	caller, err := h.lookupCaller(r.Context(), key)
	if err != nil {
		jsonError(w, "unknown or revoked API key", http.StatusUnauthorized)
		return search.Caller{}, false
	}
	return caller, true
}

func (h *Handler) lookupCaller(ctx context.Context, key string) (search.Caller, error) {
	var (
		c        search.Caller
		scope    string
		disabled bool
	)
	err := h.pool.QueryRow(ctx,
		`SELECT id::text, scope, can_query_jobid, can_view_onet_detail, disabled
		 FROM callers WHERE api_key = $1`,
		key,
	).Scan(&c.ID, &scope, &c.CanQueryJobID, &c.CanViewOnetDetail, &disabled)
	if err != nil {
		return search.Caller{}, err
	}
	if disabled {
		return search.Caller{}, errors.New("caller revoked")
	}
	c.Scope = search.Scope(scope)
	return c, nil
}
