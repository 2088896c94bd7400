package mls

import (
	"fmt"
	"strconv"
	"strings"
)

// Every listing query carries these. The upstream feed mixes boards and
// listing classes; this pins the slice of it the frontend is built for.
var baseClauses = []string{
	"PropertyType eq 'Residential Freehold'",
	"RentalApplicationYN eq true",
	"OriginatingSystemName eq 'Toronto Regional Real Estate Board'",
}

// filterExpr accumulates OData predicates and renders them joined by
// " and ". Values go through the typed append helpers, never raw
// interpolation, so string input cannot terminate the quoted literal.
type filterExpr struct {
	clauses []string
}

func (f *filterExpr) contains(field, value string) {
	f.clauses = append(f.clauses, fmt.Sprintf("contains(%s, '%s')", field, escapeString(value)))
}

func (f *filterExpr) cmpFloat(field, op string, v float64) {
	f.clauses = append(f.clauses, fmt.Sprintf("%s %s %s", field, op, strconv.FormatFloat(v, 'f', -1, 64)))
}

func (f *filterExpr) cmpInt(field, op string, v int) {
	f.clauses = append(f.clauses, fmt.Sprintf("%s %s %d", field, op, v))
}

func (f *filterExpr) String() string {
	return strings.Join(f.clauses, " and ")
}

// escapeString doubles embedded single quotes per OData string-literal
// rules ("L'Amoreaux" -> "L''Amoreaux").
func escapeString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// BuildFilter renders the $filter expression for a criteria set.
// Clause order is fixed: base predicates, then city, price bounds, bed
// bounds, bath bounds. Absent criteria contribute nothing.
func BuildFilter(c SearchCriteria) string {
	f := filterExpr{clauses: append([]string(nil), baseClauses...)}

	if c.City != nil && *c.City != "" {
		f.contains("City", *c.City)
	}
	if c.MinPrice != nil {
		f.cmpFloat("ListPrice", "ge", *c.MinPrice)
	}
	if c.MaxPrice != nil {
		f.cmpFloat("ListPrice", "le", *c.MaxPrice)
	}
	if c.MinBeds != nil {
		f.cmpInt("BedroomsTotal", "ge", *c.MinBeds)
	}
	if c.MaxBeds != nil {
		f.cmpInt("BedroomsTotal", "le", *c.MaxBeds)
	}
	if c.MinBaths != nil {
		f.cmpInt("BathroomsTotalInteger", "ge", *c.MinBaths)
	}
	if c.MaxBaths != nil {
		f.cmpInt("BathroomsTotalInteger", "le", *c.MaxBaths)
	}
	return f.String()
}

// KeyFilter renders the exact-match lookup for one listing key.
func KeyFilter(listingKey string) string {
	return fmt.Sprintf("ListingKey eq '%s'", escapeString(listingKey))
}

// MediaFilter selects the large photos for one listing.
func MediaFilter(listingKey string) string {
	return fmt.Sprintf("ResourceRecordKey eq '%s' and LargePhotoExists eq true", escapeString(listingKey))
}
