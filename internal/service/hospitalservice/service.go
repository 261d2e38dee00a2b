package hospitalservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/WahidMubarrat/EmerCare/internal/model"
	"github.com/WahidMubarrat/EmerCare/internal/repository"
	"github.com/WahidMubarrat/EmerCare/pkg/apperror"
)

type ProfileService interface {
	GetProfile(ctx context.Context, hospitalID string) (*model.HospitalServiceProfile, error)

	AddDoctor(ctx context.Context, hospitalID string, req *model.AddDoctorRequest) (*model.Doctor, error)
	UpdateDoctor(ctx context.Context, hospitalID, doctorID string, req *model.UpdateDoctorRequest) (*model.Doctor, error)
	RemoveDoctor(ctx context.Context, hospitalID, doctorID string) error

	AddService(ctx context.Context, hospitalID string, req *model.AddServiceRequest) (*model.HospitalService, error)
	UpdateService(ctx context.Context, hospitalID, serviceID string, req *model.UpdateServiceRequest) (*model.HospitalService, error)
	RemoveService(ctx context.Context, hospitalID, serviceID string) error

	ReplaceBeds(ctx context.Context, hospitalID string, entries []model.BedEntry) (*model.HospitalServiceProfile, error)
	ReplaceBloodBank(ctx context.Context, hospitalID string, entries []model.BloodStockEntry) (*model.HospitalServiceProfile, error)
}

type Service struct {
	profiles  repository.ServiceProfileRepository
	hospitals repository.HospitalRepository
}

func NewService(profiles repository.ServiceProfileRepository, hospitals repository.HospitalRepository) *Service {
	return &Service{
		profiles:  profiles,
		hospitals: hospitals,
	}
}

// GetProfile returns the hospital's service profile, creating the
// seeded default the first time the hospital is asked about.
func (s *Service) GetProfile(ctx context.Context, hospitalID string) (*model.HospitalServiceProfile, error) {
	return s.ensureProfile(ctx, hospitalID)
}

func (s *Service) AddDoctor(ctx context.Context, hospitalID string, req *model.AddDoctorRequest) (*model.Doctor, error) {
	profile, err := s.ensureProfile(ctx, hospitalID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	specialty := strings.TrimSpace(req.Specialty)
	if name == "" || specialty == "" {
		return nil, apperror.Validation("doctor name and specialty are required")
	}
	availability := strings.TrimSpace(req.Availability)
	if availability == "" {
		availability = model.DefaultAvailability
	}

	doctor := &model.Doctor{
		ID:           uuid.New(),
		Name:         name,
		Specialty:    specialty,
		Phone:        strings.TrimSpace(req.Phone),
		Email:        strings.TrimSpace(req.Email),
		Availability: availability,
	}
	if err := s.profiles.AddDoctor(ctx, profile.ID, doctor); err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to add doctor: %w", err))
	}
	return doctor, nil
}

func (s *Service) UpdateDoctor(ctx context.Context, hospitalID, doctorID string, req *model.UpdateDoctorRequest) (*model.Doctor, error) {
	profile, err := s.ensureProfile(ctx, hospitalID)
	if err != nil {
		return nil, err
	}
	id, err := uuid.Parse(doctorID)
	if err != nil {
		return nil, apperror.InvalidID("doctor")
	}

	doctor, err := s.profiles.GetDoctor(ctx, profile.ID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("doctor")
		}
		return nil, apperror.Internal(fmt.Errorf("failed to get doctor: %w", err))
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, apperror.Validation("doctor name cannot be blank")
		}
		doctor.Name = strings.TrimSpace(*req.Name)
	}
	if req.Specialty != nil {
		if strings.TrimSpace(*req.Specialty) == "" {
			return nil, apperror.Validation("doctor specialty cannot be blank")
		}
		doctor.Specialty = strings.TrimSpace(*req.Specialty)
	}
	if req.Phone != nil {
		doctor.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Email != nil {
		doctor.Email = strings.TrimSpace(*req.Email)
	}
	if req.Availability != nil {
		doctor.Availability = strings.TrimSpace(*req.Availability)
	}

	if err := s.profiles.UpdateDoctor(ctx, profile.ID, doctor); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("doctor")
		}
		return nil, apperror.Internal(fmt.Errorf("failed to update doctor: %w", err))
	}
	return doctor, nil
}

func (s *Service) RemoveDoctor(ctx context.Context, hospitalID, doctorID string) error {
	profile, err := s.ensureProfile(ctx, hospitalID)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(doctorID)
	if err != nil {
		return apperror.InvalidID("doctor")
	}
	if err := s.profiles.DeleteDoctor(ctx, profile.ID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.NotFound("doctor")
		}
		return apperror.Internal(fmt.Errorf("failed to delete doctor: %w", err))
	}
	return nil
}

func (s *Service) AddService(ctx context.Context, hospitalID string, req *model.AddServiceRequest) (*model.HospitalService, error) {
	profile, err := s.ensureProfile(ctx, hospitalID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperror.Validation("service name is required")
	}
	svcType := model.ServiceType(strings.TrimSpace(req.Type))
	if svcType == "" {
		svcType = model.ServiceTypeTest
	}
	if !svcType.IsValid() {
		return nil, apperror.Validationf("service type must be %q or %q", model.ServiceTypeTest, model.ServiceTypeTreatment)
	}

	entry := &model.HospitalService{
		ID:          uuid.New(),
		Name:        name,
		Type:        svcType,
		Description: strings.TrimSpace(req.Description),
	}
	if err := s.profiles.AddService(ctx, profile.ID, entry); err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to add service: %w", err))
	}
	return entry, nil
}

func (s *Service) UpdateService(ctx context.Context, hospitalID, serviceID string, req *model.UpdateServiceRequest) (*model.HospitalService, error) {
	profile, err := s.ensureProfile(ctx, hospitalID)
	if err != nil {
		return nil, err
	}
	id, err := uuid.Parse(serviceID)
	if err != nil {
		return nil, apperror.InvalidID("service")
	}

	entry, err := s.profiles.GetService(ctx, profile.ID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("service")
		}
		return nil, apperror.Internal(fmt.Errorf("failed to get service: %w", err))
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, apperror.Validation("service name cannot be blank")
		}
		entry.Name = strings.TrimSpace(*req.Name)
	}
	if req.Type != nil {
		svcType := model.ServiceType(strings.TrimSpace(*req.Type))
		if !svcType.IsValid() {
			return nil, apperror.Validationf("service type must be %q or %q", model.ServiceTypeTest, model.ServiceTypeTreatment)
		}
		entry.Type = svcType
	}
	if req.Description != nil {
		entry.Description = strings.TrimSpace(*req.Description)
	}

	if err := s.profiles.UpdateService(ctx, profile.ID, entry); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("service")
		}
		return nil, apperror.Internal(fmt.Errorf("failed to update service: %w", err))
	}
	return entry, nil
}

func (s *Service) RemoveService(ctx context.Context, hospitalID, serviceID string) error {
	profile, err := s.ensureProfile(ctx, hospitalID)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(serviceID)
	if err != nil {
		return apperror.InvalidID("service")
	}
	if err := s.profiles.DeleteService(ctx, profile.ID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.NotFound("service")
		}
		return apperror.Internal(fmt.Errorf("failed to delete service: %w", err))
	}
	return nil
}

// ReplaceBeds swaps the full bed inventory. An empty replacement
// restores the seeded categories at zero capacity.
func (s *Service) ReplaceBeds(ctx context.Context, hospitalID string, entries []model.BedEntry) (*model.HospitalServiceProfile, error) {
	profile, err := s.ensureProfile(ctx, hospitalID)
	if err != nil {
		return nil, err
	}

	var beds []*model.BedCategory
	if len(entries) == 0 {
		beds = model.DefaultBeds()
	} else {
		beds = make([]*model.BedCategory, 0, len(entries))
		for _, entry := range entries {
			bed, err := sanitizeBedEntry(entry)
			if err != nil {
				return nil, err
			}
			beds = append(beds, bed)
		}
	}

	if err := s.profiles.ReplaceBeds(ctx, profile.ID, beds); err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to replace beds: %w", err))
	}
	return s.reload(ctx, profile.HospitalID)
}

// ReplaceBloodBank swaps the full blood stock. Unlike beds, an empty
// replacement really empties the bank; the eight seeded groups exist
// only until the first explicit update.
func (s *Service) ReplaceBloodBank(ctx context.Context, hospitalID string, entries []model.BloodStockEntry) (*model.HospitalServiceProfile, error) {
	profile, err := s.ensureProfile(ctx, hospitalID)
	if err != nil {
		return nil, err
	}

	stock := make([]*model.BloodStock, 0, len(entries))
	seen := make(map[model.BloodGroup]bool, len(entries))
	for _, entry := range entries {
		item, err := sanitizeStockEntry(entry)
		if err != nil {
			return nil, err
		}
		if seen[item.BloodGroup] {
			return nil, apperror.Validationf("duplicate blood group %q", item.BloodGroup)
		}
		seen[item.BloodGroup] = true
		stock = append(stock, item)
	}

	if err := s.profiles.ReplaceBloodBank(ctx, profile.ID, stock); err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to replace blood bank: %w", err))
	}
	return s.reload(ctx, profile.HospitalID)
}

func (s *Service) ensureProfile(ctx context.Context, hospitalID string) (*model.HospitalServiceProfile, error) {
	id, err := uuid.Parse(hospitalID)
	if err != nil {
		return nil, apperror.InvalidID("hospital")
	}

	exists, err := s.hospitals.Exists(ctx, id)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to check hospital: %w", err))
	}
	if !exists {
		return nil, apperror.NotFound("hospital")
	}

	profile, err := s.profiles.GetByHospital(ctx, id)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.Internal(fmt.Errorf("failed to get service profile: %w", err))
	}

	seed := &model.HospitalServiceProfile{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		HospitalID: id,
		Beds:       model.DefaultBeds(),
		BloodBank:  model.DefaultBloodBank(),
	}
	// CreateDefault is a no-op when another request won the race; the
	// re-read below returns whichever profile landed first.
	if err := s.profiles.CreateDefault(ctx, seed); err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to create service profile: %w", err))
	}
	return s.reload(ctx, id)
}

func (s *Service) reload(ctx context.Context, hospitalID uuid.UUID) (*model.HospitalServiceProfile, error) {
	profile, err := s.profiles.GetByHospital(ctx, hospitalID)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to reload service profile: %w", err))
	}
	return profile, nil
}

func sanitizeBedEntry(entry model.BedEntry) (*model.BedCategory, error) {
	name := strings.TrimSpace(entry.Name)
	if name == "" {
		return nil, apperror.Validation("bed category name is required")
	}
	total, err := intQuantity(entry.Total, "total", name)
	if err != nil {
		return nil, err
	}
	available, err := intQuantity(entry.Available, "available", name)
	if err != nil {
		return nil, err
	}
	if available > total {
		return nil, apperror.Validationf("available beds exceed total for %q", name)
	}
	return &model.BedCategory{
		ID:        subRecordID(entry.ID),
		Name:      name,
		Total:     total,
		Available: available,
	}, nil
}

func sanitizeStockEntry(entry model.BloodStockEntry) (*model.BloodStock, error) {
	group := model.BloodGroup(strings.TrimSpace(entry.BloodGroup))
	if !group.IsValid() {
		return nil, apperror.Validationf("invalid blood group %q", entry.BloodGroup)
	}
	units, err := intQuantity(entry.Units, "units", string(group))
	if err != nil {
		return nil, err
	}
	return &model.BloodStock{
		ID:         subRecordID(entry.ID),
		BloodGroup: group,
		Units:      units,
	}, nil
}

// intQuantity coerces an optional JSON number into a non-negative
// count. Absent means zero; fractional values are truncated.
func intQuantity(v *float64, field, name string) (int, error) {
	if v == nil {
		return 0, nil
	}
	f := *v
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, apperror.Validationf("%s for %q must be a non-negative number", field, name)
	}
	return int(math.Trunc(f)), nil
}

// subRecordID keeps a caller-supplied identity when it parses, so
// replacements can preserve stable IDs across edits.
func subRecordID(raw string) uuid.UUID {
	if id, err := uuid.Parse(strings.TrimSpace(raw)); err == nil {
		return id
	}
	return uuid.New()
}
