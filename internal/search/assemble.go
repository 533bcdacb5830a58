package search

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"

	"jobgrid/search-service/internal/solr"
)

// SessionStore persists assembled searches for replay by opaque id.
// Implemented by session.Store; faked in tests.
type SessionStore interface {
	// Create records a new search and returns its id.
	Create(ctx context.Context, callerID, query string, params []byte) (int64, error)
	// Load returns the stored query and serialized request for id, failing
	// closed when the session belongs to a different caller.
	Load(ctx context.Context, id int64, callerID string) (query string, params []byte, err error)
}

// Assembly is the outcome of one compiler run: the immutable engine request,
// the session id backing it (existing or newly created, 0 when none), and
// the effective 1-based result window for the response envelope.
type Assembly struct {
	Request   solr.Request
	SessionID int64
	Start     int
	End       int
}

// Assembler drives the per-field transforms and the geolocation resolver
// over a full parameter set and produces the final engine request. It is
// stateless between calls; every run builds its request from scratch (or
// from an immutable session baseline) and never mutates it afterward.
type Assembler struct {
	resolver Resolver
	sessions SessionStore
}

// NewAssembler returns a configured Assembler.
func NewAssembler(resolver Resolver, sessions SessionStore) *Assembler {
	return &Assembler{resolver: resolver, sessions: sessions}
}

// Assemble compiles one parameter set into an engine request for caller c.
// The only errors are the four pipeline-terminating conditions; every
// malformed field degrades silently.
func (a *Assembler) Assemble(ctx context.Context, c Caller, p Params) (*Assembly, error) {
	return a.assemble(ctx, c, p, nil)
}

// AssembleFacets compiles the same request as Assemble but asks the engine
// only for facet counts over the given fields: no document page is fetched
// and no session is persisted. This is the thin policy layer behind the
// occupation-count and company/location aggregation endpoints.
func (a *Assembler) AssembleFacets(ctx context.Context, c Caller, p Params, fields ...string) (*Assembly, error) {
	return a.assemble(ctx, c, p, fields)
}

func (a *Assembler) assemble(ctx context.Context, c Caller, p Params, facets []string) (*Assembly, error) {
	// Exact-identifier lookups bypass the whole pipeline.
	if p.Has(FieldJobID) {
		if !c.CanQueryJobID {
			return nil, ErrJobNoLongerAvailable
		}
		return &Assembly{
			Request: solr.Request{
				Query:   "*:*",
				Filters: []string{jobIDFilter(p.Get(FieldJobID))},
				Sort:    sortByRelevance,
				Rows:    defaultRows,
			},
			Start: 1,
			End:   defaultRows,
		}, nil
	}

	// A loaded session supplies the baseline the new parameters shadow.
	baseline := solr.Request{Sort: sortByRelevance, Rows: defaultRows}
	var sessionID int64
	sessionLoaded := false
	if p.Has(FieldSession) {
		id, err := strconv.ParseInt(strings.TrimSpace(p.Get(FieldSession)), 10, 64)
		if err != nil {
			return nil, ErrSessionNotFound
		}
		_, blob, err := a.sessions.Load(ctx, id, c.ID)
		if err != nil {
			return nil, ErrSessionNotFound
		}
		if err := json.Unmarshal(blob, &baseline); err != nil {
			return nil, ErrSessionNotFound
		}
		sessionID = id
		sessionLoaded = true
	}
	sessionQuery := baseline.Query

	// Accumulate: filter fragments in fixed field order, the keyword query
	// ANDed onto any carried-over query, control values overwriting the
	// baseline only when supplied.
	filters := append([]string(nil), baseline.Filters...)
	appendFilter := func(fragment string) {
		if fragment != "" && !containsFilter(filters, fragment) {
			filters = append(filters, fragment)
		}
	}
	if p.Has(FieldOccupations) {
		appendFilter(occupationFilter(fieldOnetCode, p.Get(FieldOccupations)))
	}
	if p.Has(FieldMilitaryCode) {
		appendFilter(occupationFilter(fieldMocCode, p.Get(FieldMilitaryCode)))
	}
	if p.Has(FieldDaysBack) {
		appendFilter(daysBackFilter(p.Get(FieldDaysBack)))
	}
	if p.Has(FieldCountry) {
		appendFilter(countryFilter(ctx, a.resolver, p.Get(FieldCountry)))
	}
	if p.Has(FieldIndustry) {
		appendFilter(industryFilter(ctx, a.resolver, p.Get(FieldIndustry)))
	}
	if p.Has(FieldPosterType) {
		appendFilter(posterTypeFilter(p.Get(FieldPosterType)))
	}
	if p.Has(FieldCompany) {
		appendFilter(companyFilter(p.Get(FieldCompany)))
	}
	if p.Has(FieldOccupationTitle) {
		appendFilter(occupationTitleFilter(p.Get(FieldOccupationTitle)))
	}

	query := ""
	if kw := keywordQuery(p.Get(FieldKeyword)); kw != "" {
		if sessionQuery != "" {
			query = "(" + sessionQuery + ") AND " + kw
		} else {
			query = kw
		}
	}

	sort := baseline.Sort
	if p.Has(FieldSort) {
		sort = sortSpec(p.Get(FieldSort))
	}
	start := baseline.Start
	rows := baseline.Rows
	if p.Has(FieldRowStart) || p.Has(FieldRowEnd) {
		start = startOffset(p.Get(FieldRowStart))
		rows = rowCount(p.Get(FieldRowStart), p.Get(FieldRowEnd))
	}

	// Geolocate.
	if p.Has(FieldLocation) {
		appendFilter(geoFilter(ctx, a.resolver, p.Get(FieldLocation), p.Get(FieldRadius)))
	}

	// Boost toward title matches whenever a fresh main query exists.
	boost := baseline.Boost
	if query != "" {
		boost = titleBoost(query)
	}

	// Scope filter: network-restricted callers only ever see network-flagged
	// documents. appendFilter keeps this idempotent across session replays.
	if c.Scope == ScopeNetwork {
		appendFilter(networkFilter)
	}

	// Decide.
	if query == "" && len(filters) == 0 {
		return nil, ErrSearchTooBroad
	}
	if query == "" && sessionQuery != "" {
		query = sessionQuery
	}
	if query == "" {
		query = "*:*"
	}

	req := solr.Request{
		Query:   query,
		Filters: filters,
		Boost:   boost,
		Sort:    sort,
		Start:   start,
		Rows:    rows,
	}

	if len(facets) > 0 {
		// Counts-only variant: same compiled query, no document page, no
		// persisted session.
		req.Facets = facets
		req.Rows = 0
		return &Assembly{Request: req, SessionID: sessionID, Start: 1, End: 0}, nil
	}

	// Persist: a brand-new search becomes a replayable session. Failure to
	// persist costs the caller a session id, not the search.
	if !sessionLoaded {
		blob, err := json.Marshal(req)
		if err == nil {
			sessionID, err = a.sessions.Create(ctx, c.ID, req.Query, blob)
		}
		if err != nil {
			slog.Warn("search session create failed", "caller", c.ID, "err", err)
			sessionID = 0
		}
	}

	end := start + req.Rows
	if req.Rows == 0 {
		end = start
	}
	return &Assembly{
		Request:   req,
		SessionID: sessionID,
		Start:     start + 1,
		End:       end,
	}, nil
}

func containsFilter(filters []string, fragment string) bool {
	for _, f := range filters {
		if f == fragment {
			return true
		}
	}
	return false
}
