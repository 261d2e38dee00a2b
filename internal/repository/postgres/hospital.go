package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/WahidMubarrat/EmerCare/internal/model"
	"github.com/WahidMubarrat/EmerCare/internal/repository"
)

type hospitalRepository struct {
	db *sqlx.DB
}

func NewHospitalRepository(db *sqlx.DB) repository.HospitalRepository {
	return &hospitalRepository{db: db}
}

func (r *hospitalRepository) Create(ctx context.Context, hospital *model.Hospital) error {
	query := `
		INSERT INTO hospitals (id, hospital_name, phone, email, password, street, city, postcode,
			location, license, is_verified, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	hospital.CreatedAt = time.Now()
	hospital.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		hospital.ID,
		hospital.HospitalName,
		hospital.Phone,
		hospital.Email,
		hospital.Password,
		hospital.Street,
		hospital.City,
		hospital.Postcode,
		hospital.Location,
		hospital.License,
		hospital.IsVerified,
		hospital.IsActive,
		hospital.CreatedAt,
		hospital.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create hospital: %w", err)
	}
	return nil
}

func (r *hospitalRepository) Get(ctx context.Context, id uuid.UUID) (*model.Hospital, error) {
	query := `SELECT * FROM hospitals WHERE id = $1`
	var hospital model.Hospital
	if err := r.db.GetContext(ctx, &hospital, query, id); err != nil {
		return nil, fmt.Errorf("failed to get hospital: %w", err)
	}
	return &hospital, nil
}

func (r *hospitalRepository) GetByEmail(ctx context.Context, email string) (*model.Hospital, error) {
	query := `SELECT * FROM hospitals WHERE LOWER(email) = LOWER($1)`
	var hospital model.Hospital
	if err := r.db.GetContext(ctx, &hospital, query, email); err != nil {
		return nil, fmt.Errorf("failed to get hospital by email: %w", err)
	}
	return &hospital, nil
}

func (r *hospitalRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM hospitals WHERE id = $1)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		return false, fmt.Errorf("failed to check hospital existence: %w", err)
	}
	return exists, nil
}

func (r *hospitalRepository) Update(ctx context.Context, hospital *model.Hospital) error {
	query := `
		UPDATE hospitals SET hospital_name = $1, phone = $2, email = $3,
			street = $4, city = $5, postcode = $6, updated_at = $7
		WHERE id = $8
	`
	hospital.UpdatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, query,
		hospital.HospitalName, hospital.Phone, hospital.Email,
		hospital.Street, hospital.City, hospital.Postcode, hospital.UpdatedAt, hospital.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update hospital: %w", err)
	}
	return nil
}

func (r *hospitalRepository) UpdatePassword(ctx context.Context, id uuid.UUID, digest string) error {
	query := `UPDATE hospitals SET password = $1, updated_at = $2 WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, digest, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update hospital password: %w", err)
	}
	return nil
}

func (r *hospitalRepository) Search(ctx context.Context, filter *repository.SearchFilter) ([]*model.Hospital, error) {
	conds, args := searchConditions(filter)
	query := `SELECT * FROM hospitals` + whereClause(conds) + ` ORDER BY hospital_name ASC`

	var hospitals []*model.Hospital
	if err := r.db.SelectContext(ctx, &hospitals, query, args...); err != nil {
		return nil, fmt.Errorf("failed to search hospitals: %w", err)
	}
	return hospitals, nil
}
