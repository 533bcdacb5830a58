package search

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Describe reconstructs a display sentence for the effective search from the
// raw parameters, independently of query assembly. The clause order is
// fixed; a clause appears only when its source parameter is present and, for
// code lookups, the title actually resolves. Used for UI and audit, never
// for querying.
func Describe(ctx context.Context, r Resolver, p Params) string {
	var clauses []string

	if p.Has(FieldKeyword) {
		clauses = append(clauses, fmt.Sprintf("%q", p.Get(FieldKeyword)))
	}

	if titles := resolveTitles(ctx, r.OccupationTitle, p.Get(FieldOccupations)); titles != "" {
		clauses = append(clauses, titles)
	}

	if p.Has(FieldIndustry) {
		if name, err := r.IndustryName(ctx, p.Get(FieldIndustry)); err == nil && name != "" {
			clauses = append(clauses, "in "+name)
		}
	}

	if p.Has(FieldCountry) {
		if name, err := r.CountryName(ctx, p.Get(FieldCountry)); err == nil && name != "" {
			clauses = append(clauses, "in "+name)
		}
	}

	if p.Has(FieldLocation) {
		clause := "in " + p.Get(FieldLocation)
		if radius := radiusMiles(p.Get(FieldRadius)); radius > 0 {
			clause += fmt.Sprintf(" (within %s miles)", strconv.FormatFloat(radius, 'f', -1, 64))
		}
		clauses = append(clauses, clause)
	}

	if p.Has(FieldCompany) {
		clauses = append(clauses, "for "+p.Get(FieldCompany))
	}

	switch strings.TrimSpace(p.Get(FieldPosterType)) {
	case "1":
		clauses = append(clauses, "posted by staffing firms only")
	case "2":
		clauses = append(clauses, "posted by employers only")
	}

	if p.Has(FieldOccupationTitle) {
		clauses = append(clauses, "matching occupation title "+p.Get(FieldOccupationTitle))
	}

	if titles := resolveTitles(ctx, r.MilitaryTitle, p.Get(FieldMilitaryCode)); titles != "" {
		clauses = append(clauses, "matching military occupation "+titles)
	}

	if p.Has(FieldBranch) {
		clauses = append(clauses, "in "+p.Get(FieldBranch))
	}

	if days, err := strconv.Atoi(strings.TrimSpace(p.Get(FieldDaysBack))); err == nil && days > 0 {
		clauses = append(clauses, fmt.Sprintf("acquired in the last %d days", days))
	}

	return strings.Join(clauses, " ")
}

// resolveTitles looks up every code in a comma-separated list and joins the
// titles that resolve. Codes are cleaned the same way the filter transform
// cleans them; a group wildcard never resolves to a single title and is
// skipped.
func resolveTitles(ctx context.Context, lookup func(context.Context, string) (string, error), raw string) string {
	var titles []string
	for _, part := range strings.Split(raw, ",") {
		code := cleanOccupationCode(part)
		if code == "" || strings.HasSuffix(code, "*") {
			continue
		}
		if title, err := lookup(ctx, code); err == nil && title != "" {
			titles = append(titles, title)
		}
	}
	return strings.Join(titles, ", ")
}
