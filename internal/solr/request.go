// Package solr implements the request contract toward the external job
// index: the assembled query object, the normalized result shape, and the
// HTTP client that carries one to the other. The engine's ranking and
// indexing are opaque here.
package solr

import "encoding/json"

// Request is one fully-assembled engine query. It is built fresh per call
// and never mutated after assembly; its JSON form is also the blob persisted
// for session replay, so the field set must stay replay-complete.
type Request struct {
	Query   string   `json:"query"`
	Filters []string `json:"filters,omitempty"`
	Boost   string   `json:"boost,omitempty"`
	Facets  []string `json:"facets,omitempty"`
	Sort    string   `json:"sort,omitempty"`
	Start   int      `json:"start"`
	Rows    int      `json:"rows"`
}

// FacetCount is one (value, document count) pair for a faceted field.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Result is the normalized engine response: the total hit count, the current
// page of documents (opaque beyond count/identity), and any requested facet
// counts.
type Result struct {
	Total  int                     `json:"total"`
	Docs   []json.RawMessage       `json:"docs"`
	Facets map[string][]FacetCount `json:"facets,omitempty"`
}
