// Package search implements the search query compiler: it normalizes a flat
// set of caller-supplied parameters into a well-formed request against the
// job index, resolves geographic terms to coordinates, persists and replays
// search sessions by id, and reconstructs a human-readable restatement of
// the effective query.
package search

import "net/url"

// Field identifies one recognized search parameter. The set is closed:
// inbound names that do not map to a Field are ignored.
type Field int

const (
	FieldKeyword Field = iota
	FieldOccupations
	FieldDaysBack
	FieldSort
	FieldCountry
	FieldIndustry
	FieldPosterType
	FieldRowStart
	FieldRowEnd
	FieldLocation
	FieldRadius
	FieldSession
	FieldJobID
	FieldCompany
	FieldOccupationTitle
	FieldMilitaryCode
	FieldBranch
)

// paramNames maps inbound query-string names to fields. zc1/rd1 are legacy
// aliases for zc/rd; when both forms are present the canonical name wins.
var paramNames = map[string]Field{
	"kw":     FieldKeyword,
	"onets":  FieldOccupations,
	"fdb":    FieldDaysBack,
	"sort":   FieldSort,
	"cn":     FieldCountry,
	"indid":  FieldIndustry,
	"tm":     FieldPosterType,
	"rs":     FieldRowStart,
	"re":     FieldRowEnd,
	"zc":     FieldLocation,
	"zc1":    FieldLocation,
	"rd":     FieldRadius,
	"rd1":    FieldRadius,
	"si":     FieldSession,
	"jvid":   FieldJobID,
	"cname":  FieldCompany,
	"tt":     FieldOccupationTitle,
	"mc":     FieldMilitaryCode,
	"branch": FieldBranch,
}

// Params is the normalized parameter set for one search call. Values are the
// raw caller-supplied strings; each per-field transform owns its own parsing
// and its own failure policy (malformed values degrade, never error).
type Params struct {
	fields map[Field]string
}

// ParseParams extracts every recognized parameter from a flat query-string
// mapping. Unrecognized names and blank values contribute nothing.
func ParseParams(values url.Values) Params {
	p := Params{fields: make(map[Field]string)}
	// Aliased names (zc1, rd1) must not clobber the canonical form, so the
	// canonical names are applied last.
	for _, name := range []string{"zc1", "rd1"} {
		if v := values.Get(name); v != "" {
			p.fields[paramNames[name]] = v
		}
	}
	for name, f := range paramNames {
		if name == "zc1" || name == "rd1" {
			continue
		}
		if v := values.Get(name); v != "" {
			p.fields[f] = v
		}
	}
	return p
}

// Get returns the raw value for a field, or "" if absent.
func (p Params) Get(f Field) string { return p.fields[f] }

// Has reports whether the field was supplied with a non-blank value.
func (p Params) Has(f Field) bool { return p.fields[f] != "" }
