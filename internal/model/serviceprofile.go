package model

import "github.com/google/uuid"

// ServiceType classifies a hospital service entry.
type ServiceType string

const (
	ServiceTypeTest      ServiceType = "Test"
	ServiceTypeTreatment ServiceType = "Treatment"
)

func (t ServiceType) IsValid() bool {
	return t == ServiceTypeTest || t == ServiceTypeTreatment
}

// DefaultAvailability is the initial availability note for a doctor.
const DefaultAvailability = "Available"

// DefaultBedCategories seeds a fresh service profile.
var DefaultBedCategories = []string{"ICU", "HDU", "Cabin", "General Ward"}

// Doctor is a sub-record of a hospital's service profile.
type Doctor struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Specialty    string    `json:"specialty" db:"specialty"`
	Phone        string    `json:"phone,omitempty" db:"phone"`
	Email        string    `json:"email,omitempty" db:"email"`
	Availability string    `json:"availability" db:"availability"`
}

// HospitalService is a diagnostic test or treatment the hospital
// offers.
type HospitalService struct {
	ID          uuid.UUID   `json:"id" db:"id"`
	Name        string      `json:"name" db:"name"`
	Type        ServiceType `json:"type" db:"type"`
	Description string      `json:"description,omitempty" db:"description"`
}

// BedCategory tracks capacity for one bed class. Available never
// exceeds Total.
type BedCategory struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Total     int       `json:"total" db:"total"`
	Available int       `json:"available" db:"available"`
}

// BloodStock is the on-hand unit count for one blood group.
type BloodStock struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	BloodGroup BloodGroup `json:"blood_group" db:"blood_group"`
	Units      int        `json:"units" db:"units"`
}

// HospitalServiceProfile aggregates a hospital's doctors, services,
// bed capacities and blood bank. It is created lazily on first access
// and owns its sub-records exclusively.
type HospitalServiceProfile struct {
	Base
	HospitalID uuid.UUID          `json:"hospital_id" db:"hospital_id"`
	Doctors    []*Doctor          `json:"doctors"`
	Services   []*HospitalService `json:"services"`
	Beds       []*BedCategory     `json:"beds"`
	BloodBank  []*BloodStock      `json:"blood_bank"`
	Notes      string             `json:"notes,omitempty" db:"notes"`
}

// DefaultBeds returns the four seed categories at zero capacity.
func DefaultBeds() []*BedCategory {
	beds := make([]*BedCategory, 0, len(DefaultBedCategories))
	for _, name := range DefaultBedCategories {
		beds = append(beds, &BedCategory{ID: uuid.New(), Name: name})
	}
	return beds
}

// DefaultBloodBank returns all eight groups at zero units.
func DefaultBloodBank() []*BloodStock {
	stock := make([]*BloodStock, 0, len(BloodGroups))
	for _, g := range BloodGroups {
		stock = append(stock, &BloodStock{ID: uuid.New(), BloodGroup: g})
	}
	return stock
}

type AddDoctorRequest struct {
	Name         string `json:"name" binding:"required"`
	Specialty    string `json:"specialty" binding:"required"`
	Phone        string `json:"phone"`
	Email        string `json:"email" binding:"omitempty,email"`
	Availability string `json:"availability"`
}

type UpdateDoctorRequest struct {
	Name         *string `json:"name"`
	Specialty    *string `json:"specialty"`
	Phone        *string `json:"phone"`
	Email        *string `json:"email" binding:"omitempty,email"`
	Availability *string `json:"availability"`
}

type AddServiceRequest struct {
	Name        string `json:"name" binding:"required"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

type UpdateServiceRequest struct {
	Name        *string `json:"name"`
	Type        *string `json:"type"`
	Description *string `json:"description"`
}

// BedEntry is one element of a full bed replacement. ID, when present
// and well-formed, preserves the existing sub-record identity.
type BedEntry struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Total     *float64 `json:"total"`
	Available *float64 `json:"available"`
}

type ReplaceBedsRequest struct {
	Beds []BedEntry `json:"beds" binding:"required"`
}

type BloodStockEntry struct {
	ID         string   `json:"id"`
	BloodGroup string   `json:"blood_group"`
	Units      *float64 `json:"units"`
}

type ReplaceBloodBankRequest struct {
	BloodBank []BloodStockEntry `json:"blood_bank" binding:"required"`
}
