package search_test

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"jobgrid/search-service/internal/search"
)

// The centroid path and the degraded text path are both exercised through
// Assemble, the same way the handler drives them.

func geoAssembly(t *testing.T, resolver *fakeResolver, kv map[string]string) *search.Assembly {
	t.Helper()
	asm := search.NewAssembler(resolver, newFakeSessions())
	a, err := asm.Assemble(context.Background(), allScopeCaller(), params(kv))
	if err != nil {
		t.Fatalf("Assemble(%v) returned error: %v", kv, err)
	}
	return a
}

func lastFilter(t *testing.T, a *search.Assembly) string {
	t.Helper()
	if len(a.Request.Filters) == 0 {
		t.Fatal("no filter fragment emitted")
	}
	return a.Request.Filters[len(a.Request.Filters)-1]
}

// ── Centroid resolution ────────────────────────────────────────────────────

func TestGeo_CityStateResolvesToRadiusFilter(t *testing.T) {
	a := geoAssembly(t, newResolver(), map[string]string{"zc": "Parsippany, New Jersey"})

	fq := lastFilter(t, a)
	wantDistance := strconv.FormatFloat(25*1.621371192, 'f', -1, 64)
	if !strings.HasPrefix(fq, "{!geofilt sfield=latlon pt=40.8578,-74.4259") {
		t.Errorf("filter = %q, want a geofilt on the Parsippany centroid", fq)
	}
	if !strings.Contains(fq, "d="+wantDistance) {
		t.Errorf("filter = %q, want default 25-mile radius converted with the historical factor", fq)
	}
}

func TestGeo_RadiusConvertedWithHistoricalFactor(t *testing.T) {
	a := geoAssembly(t, newResolver(), map[string]string{
		"zc": "Parsippany, New Jersey", "rd": "10",
	})

	fq := lastFilter(t, a)
	wantDistance := strconv.FormatFloat(10*1.621371192, 'f', -1, 64)
	if !strings.Contains(fq, "d="+wantDistance) {
		t.Errorf("filter = %q, want distance %s km", fq, wantDistance)
	}
}

func TestGeo_QuotedCityStillResolves(t *testing.T) {
	a := geoAssembly(t, newResolver(), map[string]string{
		"zc": `"Parsippany", 'New Jersey'`,
	})

	if !strings.HasPrefix(lastFilter(t, a), "{!geofilt") {
		t.Errorf("filter = %q, quotes and apostrophes should be stripped before lookup", lastFilter(t, a))
	}
}

func TestGeo_ZipResolvesToRadiusFilter(t *testing.T) {
	a := geoAssembly(t, newResolver(), map[string]string{"zc": "07054"})

	if !strings.HasPrefix(lastFilter(t, a), "{!geofilt sfield=latlon pt=40.8578,-74.4259") {
		t.Errorf("filter = %q, want a geofilt on the zip centroid", lastFilter(t, a))
	}
}

func TestGeo_ZipPlusFourTruncatedToFiveDigits(t *testing.T) {
	a := geoAssembly(t, newResolver(), map[string]string{"zc": "07054-2303"})

	if !strings.HasPrefix(lastFilter(t, a), "{!geofilt") {
		t.Errorf("filter = %q, want the leading five digits geocoded", lastFilter(t, a))
	}
}

func TestGeo_ResolutionIsIdempotent(t *testing.T) {
	resolver := newResolver()
	first := lastFilter(t, geoAssembly(t, resolver, map[string]string{"zc": "Parsippany, New Jersey"}))
	second := lastFilter(t, geoAssembly(t, resolver, map[string]string{"zc": "Parsippany, New Jersey"}))
	if first != second {
		t.Errorf("repeated resolution differs: %q vs %q", first, second)
	}
}

// ── Degraded text path ─────────────────────────────────────────────────────

func TestGeo_UnknownPlaceDegradesToTextFilter(t *testing.T) {
	resolver := newResolver()
	a := geoAssembly(t, resolver, map[string]string{"zc": "Atlantis, Oceania"})

	want := "alllocations:(Atlantis, Oceania)"
	if fq := lastFilter(t, a); fq != want {
		t.Errorf("filter = %q, want degraded text filter %q", fq, want)
	}

	// Degradation is stable too.
	b := geoAssembly(t, resolver, map[string]string{"zc": "Atlantis, Oceania"})
	if lastFilter(t, a) != lastFilter(t, b) {
		t.Error("repeated degraded resolution should yield the same filter")
	}
}

func TestGeo_ZeroRadiusSkipsGeocoding(t *testing.T) {
	resolver := newResolver()
	a := geoAssembly(t, resolver, map[string]string{
		"zc": "Parsippany, New Jersey", "rd": "0",
	})

	if fq := lastFilter(t, a); !strings.HasPrefix(fq, "alllocations:(") {
		t.Errorf("filter = %q, radius 0 must take the text path", fq)
	}
	if resolver.cityLookups != 0 {
		t.Errorf("city lookups = %d, want 0 with radius 0", resolver.cityLookups)
	}
}

func TestGeo_BareORTokenEscaped(t *testing.T) {
	a := geoAssembly(t, newResolver(), map[string]string{
		"zc": "Portland OR", "rd": "0",
	})

	want := `alllocations:(Portland "OR")`
	if fq := lastFilter(t, a); fq != want {
		t.Errorf("filter = %q, want %q", fq, want)
	}
}

func TestGeo_NonNumericRadiusUsesDefault(t *testing.T) {
	a := geoAssembly(t, newResolver(), map[string]string{
		"zc": "Parsippany, New Jersey", "rd": "wide",
	})

	wantDistance := strconv.FormatFloat(25*1.621371192, 'f', -1, 64)
	if fq := lastFilter(t, a); !strings.Contains(fq, "d="+wantDistance) {
		t.Errorf("filter = %q, want the default 25-mile radius", fq)
	}
}
