package search_test

// Shared test doubles for the compiler tests. The fake resolver returns
// canned reference rows; the fake session store keeps rows in memory.

import (
	"context"
	"fmt"
	"net/url"

	"jobgrid/search-service/internal/search"
)

var errNoRow = fmt.Errorf("reference entry not found")

type fakeResolver struct {
	industries map[string]string
	countries  map[string]string
	onetTitles map[string]string
	mocTitles  map[string]string
	cities     map[string]search.Centroid // keyed "city|state"
	zips       map[string]search.Centroid

	cityLookups int
}

func (f *fakeResolver) IndustryName(_ context.Context, id string) (string, error) {
	return f.stringRow(f.industries, id)
}

func (f *fakeResolver) CountryName(_ context.Context, code string) (string, error) {
	return f.stringRow(f.countries, code)
}

func (f *fakeResolver) OccupationTitle(_ context.Context, code string) (string, error) {
	return f.stringRow(f.onetTitles, code)
}

func (f *fakeResolver) MilitaryTitle(_ context.Context, code string) (string, error) {
	return f.stringRow(f.mocTitles, code)
}

func (f *fakeResolver) CityCentroid(_ context.Context, city, state string) (search.Centroid, error) {
	f.cityLookups++
	c, ok := f.cities[city+"|"+state]
	if !ok {
		return search.Centroid{}, errNoRow
	}
	return c, nil
}

func (f *fakeResolver) ZipCentroid(_ context.Context, zip string) (search.Centroid, error) {
	c, ok := f.zips[zip]
	if !ok {
		return search.Centroid{}, errNoRow
	}
	return c, nil
}

func (f *fakeResolver) stringRow(m map[string]string, key string) (string, error) {
	v, ok := m[key]
	if !ok {
		return "", errNoRow
	}
	return v, nil
}

type sessionRow struct {
	callerID string
	query    string
	params   []byte
}

type fakeSessions struct {
	nextID    int64
	rows      map[int64]sessionRow
	createErr error
	created   int
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{nextID: 100, rows: make(map[int64]sessionRow)}
}

func (f *fakeSessions) Create(_ context.Context, callerID, query string, params []byte) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.nextID++
	f.created++
	f.rows[f.nextID] = sessionRow{callerID: callerID, query: query, params: params}
	return f.nextID, nil
}

func (f *fakeSessions) Load(_ context.Context, id int64, callerID string) (string, []byte, error) {
	row, ok := f.rows[id]
	if !ok || row.callerID != callerID {
		return "", nil, fmt.Errorf("session not found")
	}
	return row.query, row.params, nil
}

// ─── Builders ──────────────────────────────────────────────────────────────

func newResolver() *fakeResolver {
	return &fakeResolver{
		industries: map[string]string{"12": "Healthcare"},
		countries:  map[string]string{"US": "United States"},
		onetTitles: map[string]string{"37101100": "First-Line Supervisors of Housekeeping"},
		mocTitles:  map[string]string{"11B": "Infantryman"},
		cities: map[string]search.Centroid{
			"Parsippany|New Jersey": {Lat: 40.8578, Lon: -74.4259},
		},
		zips: map[string]search.Centroid{
			"07054": {Lat: 40.8578, Lon: -74.4259},
		},
	}
}

func allScopeCaller() search.Caller {
	return search.Caller{ID: "c1", Scope: search.ScopeAll, CanQueryJobID: true, CanViewOnetDetail: true}
}

func params(kv map[string]string) search.Params {
	values := url.Values{}
	for k, v := range kv {
		values.Set(k, v)
	}
	return search.ParseParams(values)
}
