package mls

// RawListing is one record from the upstream Property feed, kept as the
// decoded JSON object. Field names upstream are PascalCase RESO names.
type RawListing map[string]any

// PropertyView is the stable card shape the frontend consumes.
type PropertyView struct {
	ID            string   `json:"id"` // upstream ListingKey
	Images        []string `json:"images"`
	Price         float64  `json:"price"`
	Address       string   `json:"address"`
	Added         string   `json:"added"`
	Beds          int      `json:"beds"`
	Baths         int      `json:"baths"`
	Parking       int      `json:"parking"`
	Sqft          float64  `json:"sqft"`
	Location      string   `json:"location"`
	AreaCode      string   `json:"areaCode"`
	PropertyType  string   `json:"propertyType"`
	AvailableDate string   `json:"availableDate"`
	LeaseTerms    string   `json:"leaseTerms"`
	Description   string   `json:"description"`
}

// SearchCriteria carries the optional listing filters. Nil means the
// caller did not constrain that field.
type SearchCriteria struct {
	City     *string
	MinPrice *float64
	MaxPrice *float64
	MinBeds  *int
	MaxBeds  *int
	MinBaths *int
	MaxBaths *int
	Limit    int
}

// ListingQuery is what actually goes on the wire for a /Property call.
type ListingQuery struct {
	Top    int
	Filter string
	Select string
}
