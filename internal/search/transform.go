package search

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Engine schema field names. jobtext is the full-text body field; the boost
// query retargets it to jobtitle by textual substitution, so the two names
// must stay substitution-safe (neither is a prefix of the other).
const (
	fieldJobText      = "jobtext"
	fieldJobTitle     = "jobtitle"
	fieldOnetCode     = "onetcode"
	fieldDateAcquired = "dateacquired"
	fieldCountry      = "country"
	fieldIndustry     = "industry"
	fieldStaffing     = "staffing"
	fieldCompany      = "company"
	fieldAllLocations = "alllocations"
	fieldNetwork      = "network"
	fieldJobID        = "jobid"
	fieldMocCode      = "moc"
	fieldOnetTitle    = "onettitle"
)

const (
	maxRows     = 500
	defaultRows = 20

	sortByDate      = fieldDateAcquired + " desc"
	sortByRelevance = "score desc"

	networkFilter = fieldNetwork + ":true"
)

// cleanOccupationCode strips the punctuation out of one O*NET-style code.
// A code whose trailing zeros mark a whole group becomes a prefix wildcard,
// so "37-0000.00" matches every code under 37.
func cleanOccupationCode(raw string) string {
	code := strings.ReplaceAll(raw, "-", "")
	code = strings.ReplaceAll(code, ".", "")
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}
	if trimmed := strings.TrimSuffix(code, "000000"); trimmed != code {
		return trimmed + "*"
	}
	return code
}

// occupationFilter turns a comma-separated code list into an OR-joined
// filter on the occupation field. Blank entries are dropped; an all-blank
// list yields no filter.
func occupationFilter(field, raw string) string {
	var codes []string
	for _, part := range strings.Split(raw, ",") {
		if code := cleanOccupationCode(part); code != "" {
			codes = append(codes, code)
		}
	}
	if len(codes) == 0 {
		return ""
	}
	return fmt.Sprintf("%s:(%s)", field, strings.Join(codes, " OR "))
}

// daysBackFilter emits a "within N days of now" range on the ingestion date.
// Non-numeric or non-positive input is ignored entirely.
func daysBackFilter(raw string) string {
	days, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || days <= 0 {
		return ""
	}
	return fmt.Sprintf("%s:[NOW-%dDAYS TO NOW]", fieldDateAcquired, days)
}

// sortSpec maps the caller's sort choice to an engine sort. Only "initdate"
// selects ingestion order; everything else is relevance.
func sortSpec(raw string) string {
	if raw == "initdate" {
		return sortByDate
	}
	return sortByRelevance
}

// countryFilter resolves the country code to its display name and quotes it
// as an exact phrase. An unresolved code still yields a (possibly
// empty-phrase) filter rather than an error.
func countryFilter(ctx context.Context, r Resolver, code string) string {
	name, err := r.CountryName(ctx, code)
	if err != nil {
		name = ""
	}
	return fmt.Sprintf("%s:%q", fieldCountry, name)
}

// industryFilter resolves the industry id to its display name, quoted as an
// exact phrase.
func industryFilter(ctx context.Context, r Resolver, id string) string {
	name, err := r.IndustryName(ctx, id)
	if err != nil {
		name = ""
	}
	return fmt.Sprintf("%s:%q", fieldIndustry, name)
}

// posterTypeFilter maps the two-valued poster-type flag to a boolean filter:
// 1 = posted by staffing firms, 2 = posted by employers. Anything else is
// ignored.
func posterTypeFilter(raw string) string {
	switch strings.TrimSpace(raw) {
	case "1":
		return fieldStaffing + ":true"
	case "2":
		return fieldStaffing + ":false"
	}
	return ""
}

// companyFilter quotes the company name as an exact phrase.
func companyFilter(name string) string {
	return fmt.Sprintf("%s:%q", fieldCompany, name)
}

// occupationTitleFilter quotes a free-text occupation title as an exact
// phrase against the indexed title field.
func occupationTitleFilter(title string) string {
	return fmt.Sprintf("%s:%q", fieldOnetTitle, title)
}

// startOffset converts the caller's 1-based start row to the engine's
// 0-based offset. Non-numeric or non-positive input collapses to 0.
func startOffset(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return 0
	}
	return n - 1
}

// rowCount computes the page size from the caller's 1-based start/end rows,
// clamped to [0, maxRows]. A missing or unparseable end row silently
// defaults; an end before the start yields 0.
func rowCount(startRaw, endRaw string) int {
	end, err := strconv.Atoi(strings.TrimSpace(endRaw))
	if err != nil {
		return defaultRows
	}
	count := end - startOffset(startRaw)
	if count < 0 {
		return 0
	}
	if count > maxRows {
		return maxRows
	}
	return count
}

// keywordQuery rewrites the caller's keyword operators (!= negation, | OR,
// & AND) and wraps the result as a full-text field query. An empty keyword
// contributes nothing.
func keywordQuery(raw string) string {
	kw := strings.TrimSpace(raw)
	if kw == "" {
		return ""
	}
	kw = strings.ReplaceAll(kw, "!=", "-")
	kw = strings.ReplaceAll(kw, "|", " OR ")
	kw = strings.ReplaceAll(kw, "&", " AND ")
	return fmt.Sprintf("%s:(%s)", fieldJobText, kw)
}

// titleBoost retargets a main query from the full-text field to the title
// field, producing the secondary ranking-only query.
func titleBoost(query string) string {
	return strings.ReplaceAll(query, fieldJobText+":", fieldJobTitle+":")
}

// jobIDFilter is the exact-identifier short-circuit filter.
func jobIDFilter(id string) string {
	return fmt.Sprintf("%s:%q", fieldJobID, strings.TrimSpace(id))
}
