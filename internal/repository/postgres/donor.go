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

type donorRepository struct {
	db *sqlx.DB
}

func NewDonorRepository(db *sqlx.DB) repository.DonorRepository {
	return &donorRepository{db: db}
}

func (r *donorRepository) Create(ctx context.Context, donor *model.Donor) error {
	query := `
		INSERT INTO donors (id, name, phone, email, password, age, street, city, postcode,
			location, blood_group, picture, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	donor.CreatedAt = time.Now()
	donor.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		donor.ID,
		donor.Name,
		donor.Phone,
		donor.Email,
		donor.Password,
		donor.Age,
		donor.Street,
		donor.City,
		donor.Postcode,
		donor.Location,
		donor.BloodGroup,
		donor.Picture,
		donor.IsActive,
		donor.CreatedAt,
		donor.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create donor: %w", err)
	}
	return nil
}

func (r *donorRepository) Get(ctx context.Context, id uuid.UUID) (*model.Donor, error) {
	query := `SELECT * FROM donors WHERE id = $1`
	var donor model.Donor
	if err := r.db.GetContext(ctx, &donor, query, id); err != nil {
		return nil, fmt.Errorf("failed to get donor: %w", err)
	}
	return &donor, nil
}

func (r *donorRepository) GetByEmail(ctx context.Context, email string) (*model.Donor, error) {
	query := `SELECT * FROM donors WHERE LOWER(email) = LOWER($1)`
	var donor model.Donor
	if err := r.db.GetContext(ctx, &donor, query, email); err != nil {
		return nil, fmt.Errorf("failed to get donor by email: %w", err)
	}
	return &donor, nil
}

func (r *donorRepository) Update(ctx context.Context, donor *model.Donor) error {
	query := `
		UPDATE donors SET name = $1, phone = $2, email = $3, age = $4,
			street = $5, city = $6, postcode = $7, updated_at = $8
		WHERE id = $9
	`
	donor.UpdatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, query,
		donor.Name, donor.Phone, donor.Email, donor.Age,
		donor.Street, donor.City, donor.Postcode, donor.UpdatedAt, donor.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update donor: %w", err)
	}
	return nil
}

func (r *donorRepository) UpdatePassword(ctx context.Context, id uuid.UUID, digest string) error {
	query := `UPDATE donors SET password = $1, updated_at = $2 WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, digest, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update donor password: %w", err)
	}
	return nil
}

func (r *donorRepository) SetAvailability(ctx context.Context, id uuid.UUID, isActive bool) error {
	query := `UPDATE donors SET is_active = $1, updated_at = $2 WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, isActive, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to set donor availability: %w", err)
	}
	return nil
}

func (r *donorRepository) Search(ctx context.Context, filter *repository.SearchFilter) ([]*model.Donor, error) {
	conds, args := searchConditions(filter)
	query := `SELECT * FROM donors` + whereClause(conds) + ` ORDER BY name ASC`

	var donors []*model.Donor
	if err := r.db.SelectContext(ctx, &donors, query, args...); err != nil {
		return nil, fmt.Errorf("failed to search donors: %w", err)
	}
	return donors, nil
}
