package donor

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

type DonorService interface {
	Register(ctx context.Context, req *model.RegisterDonorRequest) (*model.Donor, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.Donor, error)
	Get(ctx context.Context, id string) (*model.Donor, error)
	UpdateProfile(ctx context.Context, id string, req *model.UpdateDonorRequest) (*model.Donor, error)
	ChangePassword(ctx context.Context, id string, req *model.ChangePasswordRequest) error
	SetAvailability(ctx context.Context, id string, active bool) (*model.Donor, error)
}

type Service struct {
	repo     repository.DonorRepository
	hasher   security.PasswordHasher
	uploader upload.Uploader
	geocoder geocode.Geocoder
}

func NewService(repo repository.DonorRepository, hasher security.PasswordHasher, uploader upload.Uploader, geocoder geocode.Geocoder) *Service {
	return &Service{
		repo:     repo,
		hasher:   hasher,
		uploader: uploader,
		geocoder: geocoder,
	}
}

func (s *Service) Register(ctx context.Context, req *model.RegisterDonorRequest) (*model.Donor, error) {
	if err := s.validateRegistration(req); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperror.DuplicateEmail("donor")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.Internal(fmt.Errorf("failed to check donor email: %w", err))
	}

	// The picture upload happens before any row is written so a failed
	// upload leaves no partial registration behind.
	pictureURL, err := s.uploader.Upload(ctx, req.Picture, "emercare/donors")
	if err != nil {
		return nil, apperror.UploadFailed(err)
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to hash password: %w", err))
	}

	addr := addressFromRegister(req)
	donor := &model.Donor{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		Name:       req.Name,
		Phone:      req.Phone,
		Email:      req.Email,
		Password:   hashed,
		Age:        req.Age,
		Street:     req.Street,
		City:       req.City,
		Postcode:   req.Postcode,
		Location:   addr.Location(),
		BloodGroup: model.BloodGroup(req.BloodGroup),
		Picture:    pictureURL,
		IsActive:   true,
	}

	// GPS-only registrations get a best-effort city backfill so text
	// search can still find them. Geocoder failures are not fatal.
	if donor.City == "" && donor.Location.Valid {
		donor.City = s.geocoder.Reverse(ctx, donor.Location.Point.Lat(), donor.Location.Point.Lng())
	}

	if err := s.repo.Create(ctx, donor); err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to create donor: %w", err))
	}

	log.Info().Str("donor_id", donor.ID.String()).Str("blood_group", string(donor.BloodGroup)).Msg("donor registered")
	return donor, nil
}

func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.Donor, error) {
	donor, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.InvalidCredentials()
		}
		return nil, apperror.Internal(fmt.Errorf("failed to look up donor: %w", err))
	}
	if !s.hasher.Verify(req.Password, donor.Password) {
		return nil, apperror.InvalidCredentials()
	}
	return donor, nil
}

func (s *Service) Get(ctx context.Context, id string) (*model.Donor, error) {
	donorID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.InvalidID("donor")
	}
	donor, err := s.repo.Get(ctx, donorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("donor")
		}
		return nil, apperror.Internal(fmt.Errorf("failed to get donor: %w", err))
	}
	return donor, nil
}

func (s *Service) UpdateProfile(ctx context.Context, id string, req *model.UpdateDonorRequest) (*model.Donor, error) {
	donor, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Age != nil && (*req.Age < model.DonorMinAge || *req.Age > model.DonorMaxAge) {
		return nil, apperror.Validationf("age must be between %d and %d", model.DonorMinAge, model.DonorMaxAge)
	}
	if req.Email != nil && *req.Email != donor.Email {
		if existing, err := s.repo.GetByEmail(ctx, *req.Email); err == nil && existing.ID != donor.ID {
			return nil, apperror.DuplicateEmail("donor")
		} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.Internal(fmt.Errorf("failed to check donor email: %w", err))
		}
		donor.Email = *req.Email
	}

	if req.Name != nil {
		donor.Name = *req.Name
	}
	if req.Phone != nil {
		donor.Phone = *req.Phone
	}
	if req.Age != nil {
		donor.Age = *req.Age
	}
	if req.Street != nil {
		donor.Street = *req.Street
	}
	if req.City != nil {
		donor.City = *req.City
	}
	if req.Postcode != nil {
		donor.Postcode = *req.Postcode
	}
	donor.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, donor); err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to update donor: %w", err))
	}
	return donor, nil
}

func (s *Service) ChangePassword(ctx context.Context, id string, req *model.ChangePasswordRequest) error {
	donor, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !s.hasher.Verify(req.CurrentPassword, donor.Password) {
		return apperror.InvalidCredentials()
	}
	if err := security.ValidatePassword(req.NewPassword); err != nil {
		return apperror.Validation(err.Error())
	}
	hashed, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return apperror.Internal(fmt.Errorf("failed to hash password: %w", err))
	}
	if err := s.repo.UpdatePassword(ctx, donor.ID, hashed); err != nil {
		return apperror.Internal(fmt.Errorf("failed to update password: %w", err))
	}
	return nil
}

func (s *Service) SetAvailability(ctx context.Context, id string, active bool) (*model.Donor, error) {
	donor, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetAvailability(ctx, donor.ID, active); err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to set donor availability: %w", err))
	}
	donor.IsActive = active
	return donor, nil
}

func (s *Service) validateRegistration(req *model.RegisterDonorRequest) error {
	if req.Name == "" || req.Phone == "" || req.Email == "" {
		return apperror.Validation("name, phone, and email are required")
	}
	if req.Age < model.DonorMinAge || req.Age > model.DonorMaxAge {
		return apperror.Validationf("age must be between %d and %d", model.DonorMinAge, model.DonorMaxAge)
	}
	if !model.BloodGroup(req.BloodGroup).IsValid() {
		return apperror.Validationf("invalid blood group %q", req.BloodGroup)
	}
	if req.Picture == "" {
		return apperror.Validation("picture is required")
	}
	if err := security.ValidatePassword(req.Password); err != nil {
		return apperror.Validation(err.Error())
	}
	addr := addressFromRegister(req)
	if err := addr.Validate(); err != nil {
		return apperror.Validation(err.Error())
	}
	return nil
}

func addressFromRegister(req *model.RegisterDonorRequest) *model.AddressInput {
	return &model.AddressInput{
		Street:    req.Street,
		City:      req.City,
		Postcode:  req.Postcode,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}
}
