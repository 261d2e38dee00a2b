package model

import "github.com/WahidMubarrat/EmerCare/internal/geo"

// Hospital is a registered hospital. Verification is admin-gated and
// defaults to false; there is no admin flow in this service.
type Hospital struct {
	Base
	HospitalName string       `json:"hospital_name" db:"hospital_name"`
	Phone        string       `json:"phone" db:"phone"`
	Email        string       `json:"email" db:"email"`
	Password     string       `json:"-" db:"password"`
	Street       string       `json:"street" db:"street"`
	City         string       `json:"city" db:"city"`
	Postcode     string       `json:"postcode" db:"postcode"`
	Location     NullGeoPoint `json:"location" db:"location"`
	License      string       `json:"license" db:"license"`
	IsVerified   bool         `json:"is_verified" db:"is_verified"`
	IsActive     bool         `json:"is_active" db:"is_active"`

	Distance     *float64 `json:"distance,omitempty" db:"-"`
	DistanceText string   `json:"distance_text,omitempty" db:"-"`
}

func (h *Hospital) DisplayName() string        { return h.HospitalName }
func (h *Hospital) HasLocation() bool          { return h.Location.Valid }
func (h *Hospital) GeoLocation() NullGeoPoint  { return h.Location }
func (h *Hospital) SetDistance(meters float64) {
	h.Distance = &meters
	h.DistanceText = geo.FormatDistance(meters)
}

type RegisterHospitalRequest struct {
	HospitalName string   `json:"hospital_name" binding:"required"`
	Phone        string   `json:"phone" binding:"required"`
	Email        string   `json:"email" binding:"required,email"`
	Password     string   `json:"password" binding:"required"`
	Street       string   `json:"street"`
	City         string   `json:"city"`
	Postcode     string   `json:"postcode"`
	License      string   `json:"license" binding:"required"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
}

type UpdateHospitalRequest struct {
	HospitalName *string `json:"hospital_name"`
	Phone        *string `json:"phone"`
	Email        *string `json:"email" binding:"omitempty,email"`
	Street       *string `json:"street"`
	City         *string `json:"city"`
	Postcode     *string `json:"postcode"`
}
