package search_test

import (
	"net/url"
	"testing"

	"jobgrid/search-service/internal/search"
)

func TestParseParams_RecognizedNames(t *testing.T) {
	values := url.Values{}
	values.Set("kw", "nurse")
	values.Set("onets", "37-1011.00")
	values.Set("rs", "5")

	p := search.ParseParams(values)
	if p.Get(search.FieldKeyword) != "nurse" {
		t.Errorf("keyword = %q, want nurse", p.Get(search.FieldKeyword))
	}
	if p.Get(search.FieldOccupations) != "37-1011.00" {
		t.Errorf("occupations = %q, want raw code", p.Get(search.FieldOccupations))
	}
	if p.Get(search.FieldRowStart) != "5" {
		t.Errorf("row start = %q, want 5", p.Get(search.FieldRowStart))
	}
}

func TestParseParams_UnrecognizedNamesIgnored(t *testing.T) {
	values := url.Values{}
	values.Set("kw", "nurse")
	values.Set("bogus", "anything")
	values.Set("format", "xml")

	p := search.ParseParams(values)
	if !p.Has(search.FieldKeyword) {
		t.Error("recognized name should survive")
	}
	// Nothing to assert on the unknown names beyond the call not failing:
	// they simply do not map to a field.
}

func TestParseParams_BlankValuesAbsent(t *testing.T) {
	values := url.Values{}
	values.Set("kw", "")

	p := search.ParseParams(values)
	if p.Has(search.FieldKeyword) {
		t.Error("blank value should read as absent")
	}
}

func TestParseParams_LegacyLocationAliases(t *testing.T) {
	values := url.Values{}
	values.Set("zc1", "07054")
	values.Set("rd1", "50")

	p := search.ParseParams(values)
	if p.Get(search.FieldLocation) != "07054" {
		t.Errorf("location = %q, want zc1 value", p.Get(search.FieldLocation))
	}
	if p.Get(search.FieldRadius) != "50" {
		t.Errorf("radius = %q, want rd1 value", p.Get(search.FieldRadius))
	}
}

func TestParseParams_CanonicalNameWinsOverAlias(t *testing.T) {
	values := url.Values{}
	values.Set("zc", "Parsippany, New Jersey")
	values.Set("zc1", "07054")

	p := search.ParseParams(values)
	if p.Get(search.FieldLocation) != "Parsippany, New Jersey" {
		t.Errorf("location = %q, want the canonical zc value", p.Get(search.FieldLocation))
	}
}
