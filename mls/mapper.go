package mls

import (
	"encoding/json"
	"strconv"
	"strings"
)

// TransformProperty reshapes one raw feed record into the card model.
// It is total: missing or oddly typed fields fall back to zero values,
// so a sparse record still produces a usable card.
func TransformProperty(raw RawListing, images []string) PropertyView {
	if images == nil {
		images = []string{}
	}
	return PropertyView{
		ID:            str(raw, "ListingKey"),
		Images:        images,
		Price:         num(raw, "ListPrice"),
		Address:       composeAddress(raw),
		Added:         str(raw, "ListingContractDate"),
		Beds:          int(num(raw, "BedroomsTotal")),
		Baths:         int(num(raw, "BathroomsTotalInteger")),
		Parking:       int(num(raw, "ParkingTotal")),
		Sqft:          num(raw, "LivingArea"),
		Location:      str(raw, "City"),
		AreaCode:      str(raw, "Area"),
		PropertyType:  str(raw, "PropertyType"),
		AvailableDate: str(raw, "AvailableDate"),
		LeaseTerms:    str(raw, "LeaseTerm"),
		Description:   firstNonEmpty(str(raw, "PublicRemarks"), str(raw, "PrivateRemarks")),
	}
}

// composeAddress joins the non-empty address parts with ", ". Country
// defaults to CA when the feed leaves it blank.
func composeAddress(raw RawListing) string {
	country := str(raw, "Country")
	if country == "" {
		country = "CA"
	}
	parts := []string{
		str(raw, "PropertyAddress"),
		str(raw, "City"),
		str(raw, "StateOrProvince"),
		str(raw, "PostalCode"),
		country,
	}
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}

func str(raw RawListing, key string) string {
	if v, ok := raw[key].(string); ok {
		return v
	}
	return ""
}

// num coerces a field to float64. The feed is inconsistent about
// numeric typing (numbers, numeric strings, nulls); anything it cannot
// read counts as zero.
func num(raw RawListing, key string) float64 {
	switch v := raw[key].(type) {
	case float64:
		return v
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
