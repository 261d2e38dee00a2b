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

type ambulanceOwnerRepository struct {
	db *sqlx.DB
}

func NewAmbulanceOwnerRepository(db *sqlx.DB) repository.AmbulanceOwnerRepository {
	return &ambulanceOwnerRepository{db: db}
}

func (r *ambulanceOwnerRepository) Create(ctx context.Context, owner *model.AmbulanceOwner) error {
	query := `
		INSERT INTO ambulance_owners (id, owner_name, phone, email, password, age, street, city,
			postcode, location, picture, is_verified, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	owner.CreatedAt = time.Now()
	owner.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		owner.ID,
		owner.OwnerName,
		owner.Phone,
		owner.Email,
		owner.Password,
		owner.Age,
		owner.Street,
		owner.City,
		owner.Postcode,
		owner.Location,
		owner.Picture,
		owner.IsVerified,
		owner.IsActive,
		owner.CreatedAt,
		owner.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create ambulance owner: %w", err)
	}
	return nil
}

func (r *ambulanceOwnerRepository) Get(ctx context.Context, id uuid.UUID) (*model.AmbulanceOwner, error) {
	query := `SELECT * FROM ambulance_owners WHERE id = $1`
	var owner model.AmbulanceOwner
	if err := r.db.GetContext(ctx, &owner, query, id); err != nil {
		return nil, fmt.Errorf("failed to get ambulance owner: %w", err)
	}
	return &owner, nil
}

func (r *ambulanceOwnerRepository) GetByEmail(ctx context.Context, email string) (*model.AmbulanceOwner, error) {
	query := `SELECT * FROM ambulance_owners WHERE LOWER(email) = LOWER($1)`
	var owner model.AmbulanceOwner
	if err := r.db.GetContext(ctx, &owner, query, email); err != nil {
		return nil, fmt.Errorf("failed to get ambulance owner by email: %w", err)
	}
	return &owner, nil
}

func (r *ambulanceOwnerRepository) Update(ctx context.Context, owner *model.AmbulanceOwner) error {
	query := `
		UPDATE ambulance_owners SET owner_name = $1, phone = $2, email = $3, age = $4,
			street = $5, city = $6, postcode = $7, updated_at = $8
		WHERE id = $9
	`
	owner.UpdatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, query,
		owner.OwnerName, owner.Phone, owner.Email, owner.Age,
		owner.Street, owner.City, owner.Postcode, owner.UpdatedAt, owner.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update ambulance owner: %w", err)
	}
	return nil
}

func (r *ambulanceOwnerRepository) UpdatePassword(ctx context.Context, id uuid.UUID, digest string) error {
	query := `UPDATE ambulance_owners SET password = $1, updated_at = $2 WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, digest, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update ambulance owner password: %w", err)
	}
	return nil
}

func (r *ambulanceOwnerRepository) Search(ctx context.Context, filter *repository.SearchFilter) ([]*model.AmbulanceOwner, error) {
	conds, args := searchConditions(filter)
	query := `SELECT * FROM ambulance_owners` + whereClause(conds) + ` ORDER BY owner_name ASC`

	var owners []*model.AmbulanceOwner
	if err := r.db.SelectContext(ctx, &owners, query, args...); err != nil {
		return nil, fmt.Errorf("failed to search ambulance owners: %w", err)
	}
	return owners, nil
}
