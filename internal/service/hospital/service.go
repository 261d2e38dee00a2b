package hospital

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

type HospitalService interface {
	Register(ctx context.Context, req *model.RegisterHospitalRequest) (*model.Hospital, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.Hospital, error)
	Get(ctx context.Context, id string) (*model.Hospital, error)
	UpdateProfile(ctx context.Context, id string, req *model.UpdateHospitalRequest) (*model.Hospital, error)
	ChangePassword(ctx context.Context, id string, req *model.ChangePasswordRequest) error
}

type Service struct {
	repo     repository.HospitalRepository
	hasher   security.PasswordHasher
	uploader upload.Uploader
	geocoder geocode.Geocoder
}

func NewService(repo repository.HospitalRepository, hasher security.PasswordHasher, uploader upload.Uploader, geocoder geocode.Geocoder) *Service {
	return &Service{
		repo:     repo,
		hasher:   hasher,
		uploader: uploader,
		geocoder: geocoder,
	}
}

func (s *Service) Register(ctx context.Context, req *model.RegisterHospitalRequest) (*model.Hospital, error) {
	if err := s.validateRegistration(req); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperror.DuplicateEmail("hospital")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.Internal(fmt.Errorf("failed to check hospital email: %w", err))
	}

	// The license document goes to the media service before anything is
	// persisted; a failed upload leaves no partial registration.
	licenseURL, err := s.uploader.Upload(ctx, req.License, "emercare/hospitals")
	if err != nil {
		return nil, apperror.UploadFailed(err)
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to hash password: %w", err))
	}

	addr := addressFromRegister(req)
	hospital := &model.Hospital{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		HospitalName: req.HospitalName,
		Phone:        req.Phone,
		Email:        req.Email,
		Password:     hashed,
		Street:       req.Street,
		City:         req.City,
		Postcode:     req.Postcode,
		Location:     addr.Location(),
		License:      licenseURL,
		IsVerified:   false,
		IsActive:     true,
	}

	// Text-only registrations get best-effort coordinates so the
	// hospital shows up in point-mode searches; GPS-only ones get a
	// city backfill for text search. Neither failure blocks signup.
	if !hospital.Location.Valid {
		if coords := s.geocoder.Forward(ctx, req.Street, req.City, req.Postcode); coords != nil {
			hospital.Location = model.NullPointFrom(coords.Latitude, coords.Longitude)
		}
	} else if hospital.City == "" {
		hospital.City = s.geocoder.Reverse(ctx, hospital.Location.Point.Lat(), hospital.Location.Point.Lng())
	}

	if err := s.repo.Create(ctx, hospital); err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to create hospital: %w", err))
	}

	log.Info().Str("hospital_id", hospital.ID.String()).Str("city", hospital.City).Msg("hospital registered")
	return hospital, nil
}

func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.Hospital, error) {
	hospital, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.InvalidCredentials()
		}
		return nil, apperror.Internal(fmt.Errorf("failed to look up hospital: %w", err))
	}
	if !s.hasher.Verify(req.Password, hospital.Password) {
		return nil, apperror.InvalidCredentials()
	}
	return hospital, nil
}

func (s *Service) Get(ctx context.Context, id string) (*model.Hospital, error) {
	hospitalID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.InvalidID("hospital")
	}
	hospital, err := s.repo.Get(ctx, hospitalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("hospital")
		}
		return nil, apperror.Internal(fmt.Errorf("failed to get hospital: %w", err))
	}
	return hospital, nil
}

func (s *Service) UpdateProfile(ctx context.Context, id string, req *model.UpdateHospitalRequest) (*model.Hospital, error) {
	hospital, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != hospital.Email {
		if existing, err := s.repo.GetByEmail(ctx, *req.Email); err == nil && existing.ID != hospital.ID {
			return nil, apperror.DuplicateEmail("hospital")
		} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.Internal(fmt.Errorf("failed to check hospital email: %w", err))
		}
		hospital.Email = *req.Email
	}

	if req.HospitalName != nil {
		hospital.HospitalName = *req.HospitalName
	}
	if req.Phone != nil {
		hospital.Phone = *req.Phone
	}
	if req.Street != nil {
		hospital.Street = *req.Street
	}
	if req.City != nil {
		hospital.City = *req.City
	}
	if req.Postcode != nil {
		hospital.Postcode = *req.Postcode
	}
	hospital.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, hospital); err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to update hospital: %w", err))
	}
	return hospital, nil
}

func (s *Service) ChangePassword(ctx context.Context, id string, req *model.ChangePasswordRequest) error {
	hospital, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !s.hasher.Verify(req.CurrentPassword, hospital.Password) {
		return apperror.InvalidCredentials()
	}
	if err := security.ValidatePassword(req.NewPassword); err != nil {
		return apperror.Validation(err.Error())
	}
	hashed, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return apperror.Internal(fmt.Errorf("failed to hash password: %w", err))
	}
	if err := s.repo.UpdatePassword(ctx, hospital.ID, hashed); err != nil {
		return apperror.Internal(fmt.Errorf("failed to update password: %w", err))
	}
	return nil
}

func (s *Service) validateRegistration(req *model.RegisterHospitalRequest) error {
	if req.HospitalName == "" || req.Phone == "" || req.Email == "" {
		return apperror.Validation("hospital name, phone, and email are required")
	}
	if req.License == "" {
		return apperror.Validation("license document is required")
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

func addressFromRegister(req *model.RegisterHospitalRequest) *model.AddressInput {
	return &model.AddressInput{
		Street:    req.Street,
		City:      req.City,
		Postcode:  req.Postcode,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}
}
