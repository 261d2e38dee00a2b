package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/WahidMubarrat/EmerCare/internal/model"
	"github.com/WahidMubarrat/EmerCare/internal/repository"
)

type serviceProfileRepository struct {
	db *sqlx.DB
}

func NewServiceProfileRepository(db *sqlx.DB) repository.ServiceProfileRepository {
	return &serviceProfileRepository{db: db}
}

func (r *serviceProfileRepository) GetByHospital(ctx context.Context, hospitalID uuid.UUID) (*model.HospitalServiceProfile, error) {
	query := `
		SELECT id, hospital_id, notes, created_at, updated_at
		FROM hospital_service_profiles WHERE hospital_id = $1
	`
	var profile model.HospitalServiceProfile
	if err := r.db.GetContext(ctx, &profile, query, hospitalID); err != nil {
		return nil, fmt.Errorf("failed to get service profile: %w", err)
	}

	if err := r.loadSubRecords(ctx, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *serviceProfileRepository) loadSubRecords(ctx context.Context, profile *model.HospitalServiceProfile) error {
	doctorsQ := `
		SELECT id, name, specialty, phone, email, availability
		FROM profile_doctors WHERE profile_id = $1 ORDER BY seq ASC
	`
	if err := r.db.SelectContext(ctx, &profile.Doctors, doctorsQ, profile.ID); err != nil {
		return fmt.Errorf("failed to load doctors: %w", err)
	}

	servicesQ := `
		SELECT id, name, type, description
		FROM profile_services WHERE profile_id = $1 ORDER BY seq ASC
	`
	if err := r.db.SelectContext(ctx, &profile.Services, servicesQ, profile.ID); err != nil {
		return fmt.Errorf("failed to load services: %w", err)
	}

	bedsQ := `
		SELECT id, name, total, available
		FROM profile_beds WHERE profile_id = $1 ORDER BY position ASC
	`
	if err := r.db.SelectContext(ctx, &profile.Beds, bedsQ, profile.ID); err != nil {
		return fmt.Errorf("failed to load beds: %w", err)
	}

	bloodQ := `
		SELECT id, blood_group, units
		FROM profile_blood_bank WHERE profile_id = $1 ORDER BY position ASC
	`
	if err := r.db.SelectContext(ctx, &profile.BloodBank, bloodQ, profile.ID); err != nil {
		return fmt.Errorf("failed to load blood bank: %w", err)
	}
	return nil
}

func (r *serviceProfileRepository) CreateDefault(ctx context.Context, profile *model.HospitalServiceProfile) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	profile.CreatedAt = time.Now()
	profile.UpdatedAt = time.Now()

	// Concurrent ensure calls race to insert; the loser becomes a
	// no-op and re-reads the winner's profile.
	res, err := tx.ExecContext(ctx, `
		INSERT INTO hospital_service_profiles (id, hospital_id, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (hospital_id) DO NOTHING
	`, profile.ID, profile.HospitalID, profile.Notes, profile.CreatedAt, profile.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create service profile: %w", err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to create service profile: %w", err)
	}
	if inserted == 0 {
		return nil
	}

	for i, bed := range profile.Beds {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO profile_beds (id, profile_id, name, total, available, position)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, bed.ID, profile.ID, bed.Name, bed.Total, bed.Available, i)
		if err != nil {
			return fmt.Errorf("failed to seed beds: %w", err)
		}
	}

	for i, stock := range profile.BloodBank {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO profile_blood_bank (id, profile_id, blood_group, units, position)
			VALUES ($1, $2, $3, $4, $5)
		`, stock.ID, profile.ID, stock.BloodGroup, stock.Units, i)
		if err != nil {
			return fmt.Errorf("failed to seed blood bank: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit service profile: %w", err)
	}
	return nil
}

func (r *serviceProfileRepository) AddDoctor(ctx context.Context, profileID uuid.UUID, doctor *model.Doctor) error {
	// Plain INSERT: concurrent appends against the same profile never
	// overwrite each other.
	query := `
		INSERT INTO profile_doctors (id, profile_id, name, specialty, phone, email, availability)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		doctor.ID, profileID, doctor.Name, doctor.Specialty,
		doctor.Phone, doctor.Email, doctor.Availability,
	)
	if err != nil {
		return fmt.Errorf("failed to add doctor: %w", err)
	}
	return nil
}

func (r *serviceProfileRepository) GetDoctor(ctx context.Context, profileID, doctorID uuid.UUID) (*model.Doctor, error) {
	query := `
		SELECT id, name, specialty, phone, email, availability
		FROM profile_doctors WHERE id = $1 AND profile_id = $2
	`
	var doctor model.Doctor
	if err := r.db.GetContext(ctx, &doctor, query, doctorID, profileID); err != nil {
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return &doctor, nil
}

func (r *serviceProfileRepository) UpdateDoctor(ctx context.Context, profileID uuid.UUID, doctor *model.Doctor) error {
	query := `
		UPDATE profile_doctors SET name = $1, specialty = $2, phone = $3, email = $4, availability = $5
		WHERE id = $6 AND profile_id = $7
	`
	res, err := r.db.ExecContext(ctx, query,
		doctor.Name, doctor.Specialty, doctor.Phone, doctor.Email, doctor.Availability,
		doctor.ID, profileID,
	)
	if err != nil {
		return fmt.Errorf("failed to update doctor: %w", err)
	}
	return requireRow(res)
}

func (r *serviceProfileRepository) DeleteDoctor(ctx context.Context, profileID, doctorID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM profile_doctors WHERE id = $1 AND profile_id = $2`, doctorID, profileID)
	if err != nil {
		return fmt.Errorf("failed to delete doctor: %w", err)
	}
	return requireRow(res)
}

func (r *serviceProfileRepository) AddService(ctx context.Context, profileID uuid.UUID, service *model.HospitalService) error {
	query := `
		INSERT INTO profile_services (id, profile_id, name, type, description)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		service.ID, profileID, service.Name, service.Type, service.Description,
	)
	if err != nil {
		return fmt.Errorf("failed to add service: %w", err)
	}
	return nil
}

func (r *serviceProfileRepository) GetService(ctx context.Context, profileID, serviceID uuid.UUID) (*model.HospitalService, error) {
	query := `
		SELECT id, name, type, description
		FROM profile_services WHERE id = $1 AND profile_id = $2
	`
	var service model.HospitalService
	if err := r.db.GetContext(ctx, &service, query, serviceID, profileID); err != nil {
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return &service, nil
}

func (r *serviceProfileRepository) UpdateService(ctx context.Context, profileID uuid.UUID, service *model.HospitalService) error {
	query := `
		UPDATE profile_services SET name = $1, type = $2, description = $3
		WHERE id = $4 AND profile_id = $5
	`
	res, err := r.db.ExecContext(ctx, query,
		service.Name, service.Type, service.Description, service.ID, profileID,
	)
	if err != nil {
		return fmt.Errorf("failed to update service: %w", err)
	}
	return requireRow(res)
}

func (r *serviceProfileRepository) DeleteService(ctx context.Context, profileID, serviceID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM profile_services WHERE id = $1 AND profile_id = $2`, serviceID, profileID)
	if err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}
	return requireRow(res)
}

func (r *serviceProfileRepository) ReplaceBeds(ctx context.Context, profileID uuid.UUID, beds []*model.BedCategory) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM profile_beds WHERE profile_id = $1`, profileID); err != nil {
		return fmt.Errorf("failed to clear beds: %w", err)
	}

	for i, bed := range beds {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO profile_beds (id, profile_id, name, total, available, position)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, bed.ID, profileID, bed.Name, bed.Total, bed.Available, i)
		if err != nil {
			return fmt.Errorf("failed to insert bed %q: %w", bed.Name, err)
		}
	}

	if err := r.touch(ctx, tx, profileID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit bed replacement: %w", err)
	}
	return nil
}

func (r *serviceProfileRepository) ReplaceBloodBank(ctx context.Context, profileID uuid.UUID, stock []*model.BloodStock) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM profile_blood_bank WHERE profile_id = $1`, profileID); err != nil {
		return fmt.Errorf("failed to clear blood bank: %w", err)
	}

	for i, s := range stock {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO profile_blood_bank (id, profile_id, blood_group, units, position)
			VALUES ($1, $2, $3, $4, $5)
		`, s.ID, profileID, s.BloodGroup, s.Units, i)
		if err != nil {
			return fmt.Errorf("failed to insert blood stock %s: %w", s.BloodGroup, err)
		}
	}

	if err := r.touch(ctx, tx, profileID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit blood bank replacement: %w", err)
	}
	return nil
}

func (r *serviceProfileRepository) touch(ctx context.Context, tx *sqlx.Tx, profileID uuid.UUID) error {
	if _, err := tx.ExecContext(ctx,
		`UPDATE hospital_service_profiles SET updated_at = $1 WHERE id = $2`, time.Now(), profileID); err != nil {
		return fmt.Errorf("failed to touch profile: %w", err)
	}
	return nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
