package search

import "context"

// Centroid is a representative latitude/longitude point for a named place.
type Centroid struct {
	Lat float64
	Lon float64
}

// Resolver looks up human-facing codes against the reference tables. All
// lookups are point reads by exact key; a missing row is an error the
// transforms absorb (the filter is weakened, never dropped into the caller).
type Resolver interface {
	IndustryName(ctx context.Context, id string) (string, error)
	CountryName(ctx context.Context, code string) (string, error)
	OccupationTitle(ctx context.Context, code string) (string, error)
	MilitaryTitle(ctx context.Context, code string) (string, error)
	CityCentroid(ctx context.Context, city, state string) (Centroid, error)
	ZipCentroid(ctx context.Context, zip string) (Centroid, error)
}

// Scope is a caller's result-visibility level.
type Scope string

const (
	// ScopeAll sees every indexed document.
	ScopeAll Scope = "all"
	// ScopeNetwork sees only network-flagged documents.
	ScopeNetwork Scope = "network"
)

// Caller identifies the API credential a search runs under. Provisioned out
// of band; read-only here.
type Caller struct {
	ID                string
	Scope             Scope
	CanQueryJobID     bool
	CanViewOnetDetail bool
}
