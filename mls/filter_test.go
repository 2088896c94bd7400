package mls

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const baseFilter = "PropertyType eq 'Residential Freehold'" +
	" and RentalApplicationYN eq true" +
	" and OriginatingSystemName eq 'Toronto Regional Real Estate Board'"

func strPtr(s string) *string     { return &s }
func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }

func TestBuildFilterBaseOnly(t *testing.T) {
	assert.Equal(t, baseFilter, BuildFilter(SearchCriteria{}))
}

func TestBuildFilterSingleClauseAppended(t *testing.T) {
	got := BuildFilter(SearchCriteria{City: strPtr("Toronto")})
	assert.Equal(t, baseFilter+" and contains(City, 'Toronto')", got)

	got = BuildFilter(SearchCriteria{MinBeds: intPtr(2)})
	assert.Equal(t, baseFilter+" and BedroomsTotal ge 2", got)
}

func TestBuildFilterFixedClauseOrder(t *testing.T) {
	got := BuildFilter(SearchCriteria{
		City:     strPtr("Toronto"),
		MinPrice: floatPtr(1500),
		MaxPrice: floatPtr(2750.5),
		MinBeds:  intPtr(1),
		MaxBeds:  intPtr(3),
		MinBaths: intPtr(1),
		MaxBaths: intPtr(2),
	})
	want := baseFilter +
		" and contains(City, 'Toronto')" +
		" and ListPrice ge 1500" +
		" and ListPrice le 2750.5" +
		" and BedroomsTotal ge 1" +
		" and BedroomsTotal le 3" +
		" and BathroomsTotalInteger ge 1" +
		" and BathroomsTotalInteger le 2"
	assert.Equal(t, want, got)
}

func TestBuildFilterDeterministic(t *testing.T) {
	crit := SearchCriteria{City: strPtr("Ajax"), MaxPrice: floatPtr(3000)}
	assert.Equal(t, BuildFilter(crit), BuildFilter(crit))
}

func TestBuildFilterEscapesCityQuotes(t *testing.T) {
	got := BuildFilter(SearchCriteria{City: strPtr("L'Amoreaux")})
	assert.Equal(t, baseFilter+" and contains(City, 'L''Amoreaux')", got)

	// a value trying to close the literal stays inside it
	got = BuildFilter(SearchCriteria{City: strPtr("x') or ListPrice gt 0 or contains(City, '")})
	assert.NotContains(t, got, "contains(City, 'x')")
	assert.Contains(t, got, "x'') or ListPrice gt 0 or contains(City, ''")
}

func TestKeyFilterEscapes(t *testing.T) {
	assert.Equal(t, "ListingKey eq 'W5797164'", KeyFilter("W5797164"))
	assert.Equal(t, "ListingKey eq 'a''b'", KeyFilter("a'b"))
}

func TestMediaFilter(t *testing.T) {
	assert.Equal(t,
		"ResourceRecordKey eq 'W5797164' and LargePhotoExists eq true",
		MediaFilter("W5797164"))
}
