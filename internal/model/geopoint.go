package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/WahidMubarrat/EmerCare/internal/geo"
)

// GeoPoint is a GeoJSON point. The wire and persisted shape is
// {"type":"Point","coordinates":[lng,lat]} with longitude first, as
// geospatial indexes expect. It is stored in a JSONB column.
type GeoPoint struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// NewGeoPoint builds a GeoPoint from a lat/lng pair.
func NewGeoPoint(lat, lng float64) *GeoPoint {
	return &GeoPoint{
		Type:        "Point",
		Coordinates: [2]float64{lng, lat},
	}
}

func (p *GeoPoint) Lat() float64 { return p.Coordinates[1] }
func (p *GeoPoint) Lng() float64 { return p.Coordinates[0] }

// Point converts to the geo engine's representation.
func (p *GeoPoint) Point() geo.Point {
	return geo.Point{Lat: p.Lat(), Lng: p.Lng()}
}

// Validate checks the GeoJSON type tag and coordinate ranges.
func (p *GeoPoint) Validate() error {
	if p.Type != "Point" {
		return fmt.Errorf("unsupported geometry type %q", p.Type)
	}
	if !geo.IsValidCoordinate(p.Lat(), p.Lng()) {
		return errors.New("coordinates out of range")
	}
	return nil
}

// NullGeoPoint is a GeoPoint that may be absent, following the
// database/sql Null* convention. Entities without GPS data persist a
// NULL column and marshal "location": null.
type NullGeoPoint struct {
	Point GeoPoint
	Valid bool
}

// NullPointFrom builds a valid NullGeoPoint from a lat/lng pair.
func NullPointFrom(lat, lng float64) NullGeoPoint {
	return NullGeoPoint{Point: *NewGeoPoint(lat, lng), Valid: true}
}

// Value implements driver.Valuer so the point persists as JSONB.
func (n NullGeoPoint) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	return json.Marshal(n.Point)
}

// Scan implements sql.Scanner for reading JSONB back.
func (n *NullGeoPoint) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		n.Valid = false
		return nil
	case []byte:
		n.Valid = true
		return json.Unmarshal(v, &n.Point)
	case string:
		n.Valid = true
		return json.Unmarshal([]byte(v), &n.Point)
	default:
		return fmt.Errorf("cannot scan %T into NullGeoPoint", src)
	}
}

func (n NullGeoPoint) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Point)
}

func (n *NullGeoPoint) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		n.Valid = false
		return nil
	}
	n.Valid = true
	return json.Unmarshal(data, &n.Point)
}
