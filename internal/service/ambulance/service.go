package ambulance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/WahidMubarrat/EmerCare/internal/model"
	"github.com/WahidMubarrat/EmerCare/internal/repository"
	"github.com/WahidMubarrat/EmerCare/pkg/apperror"
	"github.com/WahidMubarrat/EmerCare/pkg/geocode"
	"github.com/WahidMubarrat/EmerCare/pkg/security"
	"github.com/WahidMubarrat/EmerCare/pkg/upload"
)

type AmbulanceService interface {
	RegisterOwner(ctx context.Context, req *model.RegisterAmbulanceOwnerRequest) (*model.AmbulanceOwner, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.AmbulanceOwner, error)
	GetOwner(ctx context.Context, id string) (*model.AmbulanceOwner, error)
	UpdateOwner(ctx context.Context, id string, req *model.UpdateAmbulanceOwnerRequest) (*model.AmbulanceOwner, error)
	ChangePassword(ctx context.Context, id string, req *model.ChangePasswordRequest) error

	AddVehicle(ctx context.Context, req *model.AddVehicleRequest) (*model.AmbulanceVehicle, error)
	GetVehicle(ctx context.Context, id string) (*model.AmbulanceVehicle, error)
	ListVehicles(ctx context.Context, ownerID string) ([]*model.AmbulanceVehicle, error)
	UpdateVehicle(ctx context.Context, id string, req *model.UpdateVehicleRequest) (*model.AmbulanceVehicle, error)
	SetVehicleAvailability(ctx context.Context, id string, available bool) (*model.AmbulanceVehicle, error)
	RemoveVehicle(ctx context.Context, id string) error
}

type Service struct {
	owners   repository.AmbulanceOwnerRepository
	vehicles repository.VehicleRepository
	hasher   security.PasswordHasher
	uploader upload.Uploader
	geocoder geocode.Geocoder
}

func NewService(owners repository.AmbulanceOwnerRepository, vehicles repository.VehicleRepository, hasher security.PasswordHasher, uploader upload.Uploader, geocoder geocode.Geocoder) *Service {
	return &Service{
		owners:   owners,
		vehicles: vehicles,
		hasher:   hasher,
		uploader: uploader,
		geocoder: geocoder,
	}
}

func (s *Service) RegisterOwner(ctx context.Context, req *model.RegisterAmbulanceOwnerRequest) (*model.AmbulanceOwner, error) {
	if err := s.validateOwnerRegistration(req); err != nil {
		return nil, err
	}

	if _, err := s.owners.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperror.DuplicateEmail("ambulance owner")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.Internal(fmt.Errorf("failed to check owner email: %w", err))
	}

	pictureURL, err := s.uploader.Upload(ctx, req.Picture, "emercare/ambulance-owners")
	if err != nil {
		return nil, apperror.UploadFailed(err)
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to hash password: %w", err))
	}

	addr := &model.AddressInput{
		Street:    req.Street,
		City:      req.City,
		Postcode:  req.Postcode,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}
	owner := &model.AmbulanceOwner{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		OwnerName:  req.OwnerName,
		Phone:      req.Phone,
		Email:      req.Email,
		Password:   hashed,
		Age:        req.Age,
		Street:     req.Street,
		City:       req.City,
		Postcode:   req.Postcode,
		Location:   addr.Location(),
		Picture:    pictureURL,
		IsVerified: false,
		IsActive:   true,
	}

	if owner.City == "" && owner.Location.Valid {
		owner.City = s.geocoder.Reverse(ctx, owner.Location.Point.Lat(), owner.Location.Point.Lng())
	}

	if err := s.owners.Create(ctx, owner); err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to create ambulance owner: %w", err))
	}

	log.Info().Str("owner_id", owner.ID.String()).Msg("ambulance owner registered")
	return owner, nil
}

func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.AmbulanceOwner, error) {
	owner, err := s.owners.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.InvalidCredentials()
		}
		return nil, apperror.Internal(fmt.Errorf("failed to look up ambulance owner: %w", err))
	}
	if !s.hasher.Verify(req.Password, owner.Password) {
		return nil, apperror.InvalidCredentials()
	}
	return owner, nil
}

func (s *Service) GetOwner(ctx context.Context, id string) (*model.AmbulanceOwner, error) {
	ownerID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.InvalidID("ambulance owner")
	}
	owner, err := s.owners.Get(ctx, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("ambulance owner")
		}
		return nil, apperror.Internal(fmt.Errorf("failed to get ambulance owner: %w", err))
	}
	return owner, nil
}

func (s *Service) UpdateOwner(ctx context.Context, id string, req *model.UpdateAmbulanceOwnerRequest) (*model.AmbulanceOwner, error) {
	owner, err := s.GetOwner(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Age != nil && (*req.Age < model.AmbulanceOwnerMinAge || *req.Age > model.AmbulanceOwnerMaxAge) {
		return nil, apperror.Validationf("age must be between %d and %d", model.AmbulanceOwnerMinAge, model.AmbulanceOwnerMaxAge)
	}
	if req.Email != nil && *req.Email != owner.Email {
		if existing, err := s.owners.GetByEmail(ctx, *req.Email); err == nil && existing.ID != owner.ID {
			return nil, apperror.DuplicateEmail("ambulance owner")
		} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.Internal(fmt.Errorf("failed to check owner email: %w", err))
		}
		owner.Email = *req.Email
	}

	if req.OwnerName != nil {
		owner.OwnerName = *req.OwnerName
	}
	if req.Phone != nil {
		owner.Phone = *req.Phone
	}
	if req.Age != nil {
		owner.Age = *req.Age
	}
	if req.Street != nil {
		owner.Street = *req.Street
	}
	if req.City != nil {
		owner.City = *req.City
	}
	if req.Postcode != nil {
		owner.Postcode = *req.Postcode
	}
	owner.UpdatedAt = time.Now()

	if err := s.owners.Update(ctx, owner); err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to update ambulance owner: %w", err))
	}
	return owner, nil
}

func (s *Service) ChangePassword(ctx context.Context, id string, req *model.ChangePasswordRequest) error {
	owner, err := s.GetOwner(ctx, id)
	if err != nil {
		return err
	}
	if !s.hasher.Verify(req.CurrentPassword, owner.Password) {
		return apperror.InvalidCredentials()
	}
	if err := security.ValidatePassword(req.NewPassword); err != nil {
		return apperror.Validation(err.Error())
	}
	hashed, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return apperror.Internal(fmt.Errorf("failed to hash password: %w", err))
	}
	if err := s.owners.UpdatePassword(ctx, owner.ID, hashed); err != nil {
		return apperror.Internal(fmt.Errorf("failed to update password: %w", err))
	}
	return nil
}

func (s *Service) AddVehicle(ctx context.Context, req *model.AddVehicleRequest) (*model.AmbulanceVehicle, error) {
	owner, err := s.GetOwner(ctx, req.OwnerID)
	if err != nil {
		return nil, err
	}

	if req.VehicleNumber == "" || req.Model == "" || req.DriverName == "" || req.DriverPhone == "" {
		return nil, apperror.Validation("vehicle number, model, driver name, and driver phone are required")
	}
	if req.Year < 1990 || req.Year > time.Now().Year()+1 {
		return nil, apperror.Validationf("year must be between 1990 and %d", time.Now().Year()+1)
	}

	// Registration numbers are unique across all owners, not per fleet.
	taken, err := s.vehicles.ExistsByNumber(ctx, req.VehicleNumber)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to check vehicle number: %w", err))
	}
	if taken {
		return nil, apperror.DuplicateVehicleNumber()
	}

	// All three papers upload before the row is written; any failure
	// aborts with nothing persisted.
	docs := [3]string{}
	for i, doc := range []struct {
		content string
		name    string
	}{
		{req.RegistrationPaper, "registration paper"},
		{req.DriverLicense, "driver license"},
		{req.FitnessPaper, "fitness paper"},
	} {
		url, err := s.uploader.Upload(ctx, doc.content, "emercare/vehicles")
		if err != nil {
			return nil, apperror.UploadFailed(fmt.Errorf("%s: %w", doc.name, err))
		}
		docs[i] = url
	}

	vehicle := &model.AmbulanceVehicle{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		OwnerID:           owner.ID,
		VehicleNumber:     req.VehicleNumber,
		Model:             req.Model,
		Year:              req.Year,
		DriverName:        req.DriverName,
		DriverPhone:       req.DriverPhone,
		RegistrationPaper: docs[0],
		DriverLicense:     docs[1],
		FitnessPaper:      docs[2],
		IsActive:          true,
		IsAvailable:       true,
	}

	if err := s.vehicles.Create(ctx, vehicle); err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to create vehicle: %w", err))
	}

	log.Info().Str("vehicle_id", vehicle.ID.String()).Str("owner_id", owner.ID.String()).Msg("vehicle added")
	return vehicle, nil
}

func (s *Service) GetVehicle(ctx context.Context, id string) (*model.AmbulanceVehicle, error) {
	vehicleID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.InvalidID("vehicle")
	}
	vehicle, err := s.vehicles.Get(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("vehicle")
		}
		return nil, apperror.Internal(fmt.Errorf("failed to get vehicle: %w", err))
	}
	return vehicle, nil
}

func (s *Service) ListVehicles(ctx context.Context, ownerID string) ([]*model.AmbulanceVehicle, error) {
	owner, err := s.GetOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	vehicles, err := s.vehicles.ListByOwner(ctx, owner.ID, true)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to list vehicles: %w", err))
	}
	return vehicles, nil
}

func (s *Service) UpdateVehicle(ctx context.Context, id string, req *model.UpdateVehicleRequest) (*model.AmbulanceVehicle, error) {
	vehicle, err := s.GetVehicle(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.VehicleNumber != nil && *req.VehicleNumber != vehicle.VehicleNumber {
		taken, err := s.vehicles.ExistsByNumber(ctx, *req.VehicleNumber)
		if err != nil {
			return nil, apperror.Internal(fmt.Errorf("failed to check vehicle number: %w", err))
		}
		if taken {
			return nil, apperror.DuplicateVehicleNumber()
		}
		vehicle.VehicleNumber = *req.VehicleNumber
	}

	if req.Model != nil {
		vehicle.Model = *req.Model
	}
	if req.Year != nil {
		if *req.Year < 1990 || *req.Year > time.Now().Year()+1 {
			return nil, apperror.Validationf("year must be between 1990 and %d", time.Now().Year()+1)
		}
		vehicle.Year = *req.Year
	}
	if req.DriverName != nil {
		vehicle.DriverName = *req.DriverName
	}
	if req.DriverPhone != nil {
		vehicle.DriverPhone = *req.DriverPhone
	}
	if req.IsAvailable != nil {
		vehicle.IsAvailable = *req.IsAvailable
	}
	vehicle.UpdatedAt = time.Now()

	if err := s.vehicles.Update(ctx, vehicle); err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to update vehicle: %w", err))
	}
	return vehicle, nil
}

func (s *Service) SetVehicleAvailability(ctx context.Context, id string, available bool) (*model.AmbulanceVehicle, error) {
	vehicle, err := s.GetVehicle(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.vehicles.SetAvailability(ctx, vehicle.ID, available); err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to set vehicle availability: %w", err))
	}
	vehicle.IsAvailable = available
	return vehicle, nil
}

// RemoveVehicle retires a vehicle. The row stays for record-keeping;
// retired vehicles drop out of listings and searches.
func (s *Service) RemoveVehicle(ctx context.Context, id string) error {
	vehicle, err := s.GetVehicle(ctx, id)
	if err != nil {
		return err
	}
	if err := s.vehicles.SetActive(ctx, vehicle.ID, false); err != nil {
		return apperror.Internal(fmt.Errorf("failed to retire vehicle: %w", err))
	}
	return nil
}

func (s *Service) validateOwnerRegistration(req *model.RegisterAmbulanceOwnerRequest) error {
	if req.OwnerName == "" || req.Phone == "" || req.Email == "" {
		return apperror.Validation("owner name, phone, and email are required")
	}
	if req.Age < model.AmbulanceOwnerMinAge || req.Age > model.AmbulanceOwnerMaxAge {
		return apperror.Validationf("age must be between %d and %d", model.AmbulanceOwnerMinAge, model.AmbulanceOwnerMaxAge)
	}
	if req.Picture == "" {
		return apperror.Validation("picture is required")
	}
	if err := security.ValidatePassword(req.Password); err != nil {
		return apperror.Validation(err.Error())
	}
	addr := &model.AddressInput{
		Street:    req.Street,
		City:      req.City,
		Postcode:  req.Postcode,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}
	if err := addr.Validate(); err != nil {
		return apperror.Validation(err.Error())
	}
	return nil
}
