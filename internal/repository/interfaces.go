package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/WahidMubarrat/EmerCare/internal/model"
)

// GeoBox is a coordinate prefilter for point-mode searches. Repos
// return every candidate inside the box; the search service applies
// the exact distance test.
type GeoBox struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// SearchFilter narrows a listing query. Text fields match as
// case-insensitive substrings; zero values mean "no filter".
type SearchFilter struct {
	City       string
	Postcode   string
	Street     string
	BloodGroup string
	Verified   *bool
	ActiveOnly bool

	// Box, when set, restricts results to located entities inside the
	// box and takes precedence over the text fields.
	Box *GeoBox
}

type DonorRepository interface {
	Create(ctx context.Context, donor *model.Donor) error
	Get(ctx context.Context, id uuid.UUID) (*model.Donor, error)
	GetByEmail(ctx context.Context, email string) (*model.Donor, error)
	Update(ctx context.Context, donor *model.Donor) error
	UpdatePassword(ctx context.Context, id uuid.UUID, digest string) error
	SetAvailability(ctx context.Context, id uuid.UUID, isActive bool) error
	Search(ctx context.Context, filter *SearchFilter) ([]*model.Donor, error)
}

type HospitalRepository interface {
	Create(ctx context.Context, hospital *model.Hospital) error
	Get(ctx context.Context, id uuid.UUID) (*model.Hospital, error)
	GetByEmail(ctx context.Context, email string) (*model.Hospital, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Update(ctx context.Context, hospital *model.Hospital) error
	UpdatePassword(ctx context.Context, id uuid.UUID, digest string) error
	Search(ctx context.Context, filter *SearchFilter) ([]*model.Hospital, error)
}

type AmbulanceOwnerRepository interface {
	Create(ctx context.Context, owner *model.AmbulanceOwner) error
	Get(ctx context.Context, id uuid.UUID) (*model.AmbulanceOwner, error)
	GetByEmail(ctx context.Context, email string) (*model.AmbulanceOwner, error)
	Update(ctx context.Context, owner *model.AmbulanceOwner) error
	UpdatePassword(ctx context.Context, id uuid.UUID, digest string) error
	Search(ctx context.Context, filter *SearchFilter) ([]*model.AmbulanceOwner, error)
}

type VehicleRepository interface {
	Create(ctx context.Context, vehicle *model.AmbulanceVehicle) error
	Get(ctx context.Context, id uuid.UUID) (*model.AmbulanceVehicle, error)
	ExistsByNumber(ctx context.Context, vehicleNumber string) (bool, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, activeOnly bool) ([]*model.AmbulanceVehicle, error)
	Update(ctx context.Context, vehicle *model.AmbulanceVehicle) error
	SetActive(ctx context.Context, id uuid.UUID, isActive bool) error
	SetAvailability(ctx context.Context, id uuid.UUID, isAvailable bool) error
}

type ServiceProfileRepository interface {
	// GetByHospital loads the full profile including sub-records in
	// insertion order.
	GetByHospital(ctx context.Context, hospitalID uuid.UUID) (*model.HospitalServiceProfile, error)
	// CreateDefault inserts the seeded profile; it is a no-op if one
	// already exists for the hospital.
	CreateDefault(ctx context.Context, profile *model.HospitalServiceProfile) error

	AddDoctor(ctx context.Context, profileID uuid.UUID, doctor *model.Doctor) error
	GetDoctor(ctx context.Context, profileID, doctorID uuid.UUID) (*model.Doctor, error)
	UpdateDoctor(ctx context.Context, profileID uuid.UUID, doctor *model.Doctor) error
	DeleteDoctor(ctx context.Context, profileID, doctorID uuid.UUID) error

	AddService(ctx context.Context, profileID uuid.UUID, service *model.HospitalService) error
	GetService(ctx context.Context, profileID, serviceID uuid.UUID) (*model.HospitalService, error)
	UpdateService(ctx context.Context, profileID uuid.UUID, service *model.HospitalService) error
	DeleteService(ctx context.Context, profileID, serviceID uuid.UUID) error

	ReplaceBeds(ctx context.Context, profileID uuid.UUID, beds []*model.BedCategory) error
	ReplaceBloodBank(ctx context.Context, profileID uuid.UUID, stock []*model.BloodStock) error
}
