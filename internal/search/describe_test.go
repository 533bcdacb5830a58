package search_test

import (
	"context"
	"strings"
	"testing"

	"jobgrid/search-service/internal/search"
)

func TestDescribe_AllClausesInFixedOrder(t *testing.T) {
	text := search.Describe(context.Background(), newResolver(), params(map[string]string{
		"kw":     "nurse",
		"onets":  "37-1011.00",
		"indid":  "12",
		"cn":     "US",
		"zc":     "Parsippany, New Jersey",
		"rd":     "10",
		"cname":  "Acme Staffing",
		"tm":     "1",
		"tt":     "Supervisor",
		"mc":     "11B",
		"branch": "Army",
		"fdb":    "7",
	}))

	wantInOrder := []string{
		`"nurse"`,
		"First-Line Supervisors of Housekeeping",
		"in Healthcare",
		"in United States",
		"in Parsippany, New Jersey (within 10 miles)",
		"for Acme Staffing",
		"posted by staffing firms only",
		"matching occupation title Supervisor",
		"matching military occupation Infantryman",
		"in Army",
		"acquired in the last 7 days",
	}
	pos := 0
	for _, clause := range wantInOrder {
		idx := strings.Index(text[pos:], clause)
		if idx < 0 {
			t.Fatalf("description %q missing clause %q (after position %d)", text, clause, pos)
		}
		pos += idx + len(clause)
	}
}

func TestDescribe_AbsentParametersContributeNothing(t *testing.T) {
	text := search.Describe(context.Background(), newResolver(), params(map[string]string{
		"kw": "nurse",
	}))
	if text != `"nurse"` {
		t.Errorf("description = %q, want only the keyword clause", text)
	}
}

func TestDescribe_UnresolvedCodesAreSkipped(t *testing.T) {
	text := search.Describe(context.Background(), newResolver(), params(map[string]string{
		"kw":    "nurse",
		"onets": "99-9999.99",
		"indid": "404",
		"cn":    "ZZ",
	}))
	if text != `"nurse"` {
		t.Errorf("description = %q, unresolved titles must not appear", text)
	}
}

func TestDescribe_GroupWildcardNeverResolvesToTitle(t *testing.T) {
	text := search.Describe(context.Background(), newResolver(), params(map[string]string{
		"onets": "37000000",
	}))
	if text != "" {
		t.Errorf("description = %q, a group wildcard has no single title", text)
	}
}

func TestDescribe_EmployerPosterClause(t *testing.T) {
	text := search.Describe(context.Background(), newResolver(), params(map[string]string{
		"tm": "2",
	}))
	if text != "posted by employers only" {
		t.Errorf("description = %q, want the employer clause", text)
	}
}
