package model

// DefaultSearchRadiusMeters is used when a point query supplies no
// radius.
const DefaultSearchRadiusMeters = 50000

// SearchQuery carries one search call's filters. Point mode (lat/lng
// present) and text mode are mutually exclusive: when coordinates are
// supplied, the city/postcode/street filters are ignored.
type SearchQuery struct {
	City     string `form:"city"`
	Postcode string `form:"postcode"`
	Street   string `form:"street"`

	// BloodGroup is an exact-match filter, donors only.
	BloodGroup string `form:"blood_group"`
	// Verified is an exact filter, hospitals and ambulance owners only.
	Verified *bool `form:"verified"`

	Latitude    *float64 `form:"latitude"`
	Longitude   *float64 `form:"longitude"`
	MaxDistance float64  `form:"max_distance"`
}

// HasPoint reports whether the query is in point mode.
func (q *SearchQuery) HasPoint() bool {
	return q.Latitude != nil && q.Longitude != nil
}

// Radius returns the effective search radius in meters.
func (q *SearchQuery) Radius() float64 {
	if q.MaxDistance > 0 {
		return q.MaxDistance
	}
	return DefaultSearchRadiusMeters
}

// HasTextFilter reports whether any attribute filter is present.
func (q *SearchQuery) HasTextFilter() bool {
	return q.City != "" || q.Postcode != "" || q.Street != ""
}
