package model

import (
	"errors"

	"github.com/WahidMubarrat/EmerCare/internal/geo"
)

// AddressInput is the address-or-location choice every registration
// makes: a complete text address, a GPS point, or both. At least one
// must be present.
type AddressInput struct {
	Street    string
	City      string
	Postcode  string
	Latitude  *float64
	Longitude *float64
}

func (a *AddressInput) hasText() bool {
	return a.Street != "" || a.City != "" || a.Postcode != ""
}

func (a *AddressInput) hasPoint() bool {
	return a.Latitude != nil && a.Longitude != nil
}

// Validate enforces the registration address rules: at least one of
// text address and GPS location, a complete text address when that is
// the only source, and in-range coordinates when a point is given.
func (a *AddressInput) Validate() error {
	if !a.hasText() && !a.hasPoint() {
		return errors.New("either text address (street, city, postcode) or GPS location is required")
	}
	if a.hasText() && !a.hasPoint() {
		if a.Street == "" || a.City == "" || a.Postcode == "" {
			return errors.New("street, city, and postcode are required for text address")
		}
	}
	if a.hasPoint() && !geo.IsValidCoordinate(*a.Latitude, *a.Longitude) {
		return errors.New("latitude/longitude out of range")
	}
	return nil
}

// Location returns the GeoJSON point, or an invalid NullGeoPoint when
// no coordinates were supplied.
func (a *AddressInput) Location() NullGeoPoint {
	if !a.hasPoint() {
		return NullGeoPoint{}
	}
	return NullPointFrom(*a.Latitude, *a.Longitude)
}
