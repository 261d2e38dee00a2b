package model

import "github.com/WahidMubarrat/EmerCare/internal/geo"

const (
	DonorMinAge = 18
	DonorMaxAge = 65
)

// Donor is a registered blood donor. IsActive tracks donation
// availability, toggled by the donor; donors are never hard-deleted.
type Donor struct {
	Base
	Name       string       `json:"name" db:"name"`
	Phone      string       `json:"phone" db:"phone"`
	Email      string       `json:"email" db:"email"`
	Password   string       `json:"-" db:"password"`
	Age        int          `json:"age" db:"age"`
	Street     string       `json:"street" db:"street"`
	City       string       `json:"city" db:"city"`
	Postcode   string       `json:"postcode" db:"postcode"`
	Location   NullGeoPoint `json:"location" db:"location"`
	BloodGroup BloodGroup   `json:"blood_group" db:"blood_group"`
	Picture    string       `json:"picture" db:"picture"`
	IsActive   bool         `json:"is_active" db:"is_active"`

	// Distance is set only on point-mode search results, in meters.
	Distance     *float64 `json:"distance,omitempty" db:"-"`
	DistanceText string   `json:"distance_text,omitempty" db:"-"`
}

func (d *Donor) DisplayName() string        { return d.Name }
func (d *Donor) HasLocation() bool          { return d.Location.Valid }
func (d *Donor) GeoLocation() NullGeoPoint  { return d.Location }
func (d *Donor) SetDistance(meters float64) {
	d.Distance = &meters
	d.DistanceText = geo.FormatDistance(meters)
}

type RegisterDonorRequest struct {
	Name       string   `json:"name" binding:"required"`
	Phone      string   `json:"phone" binding:"required"`
	Email      string   `json:"email" binding:"required,email"`
	Password   string   `json:"password" binding:"required"`
	Age        int      `json:"age" binding:"required"`
	Street     string   `json:"street"`
	City       string   `json:"city"`
	Postcode   string   `json:"postcode"`
	BloodGroup string   `json:"blood_group" binding:"required,bloodgroup"`
	Picture    string   `json:"picture" binding:"required"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
}

type UpdateDonorRequest struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Age      *int    `json:"age"`
	Street   *string `json:"street"`
	City     *string `json:"city"`
	Postcode *string `json:"postcode"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

type SetAvailabilityRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// LoginResult is the sanitized projection returned on successful login.
type LoginResult struct {
	UserType string      `json:"user_type"`
	Profile  interface{} `json:"profile"`
}
