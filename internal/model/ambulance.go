package model

import (
	"github.com/google/uuid"

	"github.com/WahidMubarrat/EmerCare/internal/geo"
)

const (
	AmbulanceOwnerMinAge = 18
	AmbulanceOwnerMaxAge = 70
)

// AmbulanceOwner is a registered ambulance service operator. Vehicles
// belong to owners and are managed through the vehicle sub-registry.
type AmbulanceOwner struct {
	Base
	OwnerName  string       `json:"owner_name" db:"owner_name"`
	Phone      string       `json:"phone" db:"phone"`
	Email      string       `json:"email" db:"email"`
	Password   string       `json:"-" db:"password"`
	Age        int          `json:"age" db:"age"`
	Street     string       `json:"street" db:"street"`
	City       string       `json:"city" db:"city"`
	Postcode   string       `json:"postcode" db:"postcode"`
	Location   NullGeoPoint `json:"location" db:"location"`
	Picture    string       `json:"picture" db:"picture"`
	IsVerified bool         `json:"is_verified" db:"is_verified"`
	IsActive   bool         `json:"is_active" db:"is_active"`

	Distance     *float64 `json:"distance,omitempty" db:"-"`
	DistanceText string   `json:"distance_text,omitempty" db:"-"`
}

func (a *AmbulanceOwner) DisplayName() string        { return a.OwnerName }
func (a *AmbulanceOwner) HasLocation() bool          { return a.Location.Valid }
func (a *AmbulanceOwner) GeoLocation() NullGeoPoint  { return a.Location }
func (a *AmbulanceOwner) SetDistance(meters float64) {
	a.Distance = &meters
	a.DistanceText = geo.FormatDistance(meters)
}

// AmbulanceVehicle is a dispatchable vehicle owned by an
// AmbulanceOwner. Deletion is soft: IsActive flips to false and the
// row stays. IsAvailable is the dispatch-readiness flag.
type AmbulanceVehicle struct {
	Base
	OwnerID           uuid.UUID `json:"owner_id" db:"owner_id"`
	VehicleNumber     string    `json:"vehicle_number" db:"vehicle_number"`
	Model             string    `json:"model" db:"model"`
	Year              int       `json:"year" db:"year"`
	DriverName        string    `json:"driver_name" db:"driver_name"`
	DriverPhone       string    `json:"driver_phone" db:"driver_phone"`
	RegistrationPaper string    `json:"registration_paper" db:"registration_paper"`
	DriverLicense     string    `json:"driver_license" db:"driver_license"`
	FitnessPaper      string    `json:"fitness_paper" db:"fitness_paper"`
	IsActive          bool      `json:"is_active" db:"is_active"`
	IsAvailable       bool      `json:"is_available" db:"is_available"`
}

// AmbulanceWithVehicles decorates an owner with its active fleet for
// listings.
type AmbulanceWithVehicles struct {
	AmbulanceOwner
	Vehicles          []*AmbulanceVehicle `json:"vehicles"`
	TotalVehicles     int                 `json:"total_vehicles"`
	AvailableVehicles int                 `json:"available_vehicles"`
}

type RegisterAmbulanceOwnerRequest struct {
	OwnerName string   `json:"owner_name" binding:"required"`
	Phone     string   `json:"phone" binding:"required"`
	Email     string   `json:"email" binding:"required,email"`
	Password  string   `json:"password" binding:"required"`
	Age       int      `json:"age" binding:"required"`
	Street    string   `json:"street"`
	City      string   `json:"city"`
	Postcode  string   `json:"postcode"`
	Picture   string   `json:"picture" binding:"required"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type UpdateAmbulanceOwnerRequest struct {
	OwnerName *string `json:"owner_name"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Age       *int    `json:"age"`
	Street    *string `json:"street"`
	City      *string `json:"city"`
	Postcode  *string `json:"postcode"`
}

type AddVehicleRequest struct {
	OwnerID           string `json:"owner_id" binding:"required"`
	VehicleNumber     string `json:"vehicle_number" binding:"required"`
	Model             string `json:"model" binding:"required"`
	Year              int    `json:"year" binding:"required"`
	DriverName        string `json:"driver_name" binding:"required"`
	DriverPhone       string `json:"driver_phone" binding:"required"`
	RegistrationPaper string `json:"registration_paper" binding:"required"`
	DriverLicense     string `json:"driver_license" binding:"required"`
	FitnessPaper      string `json:"fitness_paper" binding:"required"`
}

type UpdateVehicleRequest struct {
	VehicleNumber *string `json:"vehicle_number"`
	Model         *string `json:"model"`
	Year          *int    `json:"year"`
	DriverName    *string `json:"driver_name"`
	DriverPhone   *string `json:"driver_phone"`
	IsAvailable   *bool   `json:"is_available"`
}

type ToggleVehicleAvailabilityRequest struct {
	IsAvailable *bool `json:"is_available" binding:"required"`
}
