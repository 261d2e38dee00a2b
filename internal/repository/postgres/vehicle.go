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

type vehicleRepository struct {
	db *sqlx.DB
}

func NewVehicleRepository(db *sqlx.DB) repository.VehicleRepository {
	return &vehicleRepository{db: db}
}

func (r *vehicleRepository) Create(ctx context.Context, vehicle *model.AmbulanceVehicle) error {
	query := `
		INSERT INTO ambulance_vehicles (id, owner_id, vehicle_number, model, year, driver_name,
			driver_phone, registration_paper, driver_license, fitness_paper,
			is_active, is_available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	vehicle.CreatedAt = time.Now()
	vehicle.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		vehicle.ID,
		vehicle.OwnerID,
		vehicle.VehicleNumber,
		vehicle.Model,
		vehicle.Year,
		vehicle.DriverName,
		vehicle.DriverPhone,
		vehicle.RegistrationPaper,
		vehicle.DriverLicense,
		vehicle.FitnessPaper,
		vehicle.IsActive,
		vehicle.IsAvailable,
		vehicle.CreatedAt,
		vehicle.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create vehicle: %w", err)
	}
	return nil
}

func (r *vehicleRepository) Get(ctx context.Context, id uuid.UUID) (*model.AmbulanceVehicle, error) {
	query := `SELECT * FROM ambulance_vehicles WHERE id = $1`
	var vehicle model.AmbulanceVehicle
	if err := r.db.GetContext(ctx, &vehicle, query, id); err != nil {
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}
	return &vehicle, nil
}

func (r *vehicleRepository) ExistsByNumber(ctx context.Context, vehicleNumber string) (bool, error) {
	// Uniqueness is global across all owners.
	query := `SELECT EXISTS(SELECT 1 FROM ambulance_vehicles WHERE vehicle_number = $1)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, vehicleNumber); err != nil {
		return false, fmt.Errorf("failed to check vehicle number: %w", err)
	}
	return exists, nil
}

func (r *vehicleRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, activeOnly bool) ([]*model.AmbulanceVehicle, error) {
	query := `SELECT * FROM ambulance_vehicles WHERE owner_id = $1`
	if activeOnly {
		query += ` AND is_active = TRUE`
	}
	query += ` ORDER BY created_at DESC`

	var vehicles []*model.AmbulanceVehicle
	if err := r.db.SelectContext(ctx, &vehicles, query, ownerID); err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}
	return vehicles, nil
}

func (r *vehicleRepository) Update(ctx context.Context, vehicle *model.AmbulanceVehicle) error {
	query := `
		UPDATE ambulance_vehicles SET vehicle_number = $1, model = $2, year = $3,
			driver_name = $4, driver_phone = $5, is_available = $6, updated_at = $7
		WHERE id = $8
	`
	vehicle.UpdatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, query,
		vehicle.VehicleNumber, vehicle.Model, vehicle.Year,
		vehicle.DriverName, vehicle.DriverPhone, vehicle.IsAvailable,
		vehicle.UpdatedAt, vehicle.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update vehicle: %w", err)
	}
	return nil
}

func (r *vehicleRepository) SetActive(ctx context.Context, id uuid.UUID, isActive bool) error {
	query := `UPDATE ambulance_vehicles SET is_active = $1, updated_at = $2 WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, isActive, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to set vehicle active flag: %w", err)
	}
	return nil
}

func (r *vehicleRepository) SetAvailability(ctx context.Context, id uuid.UUID, isAvailable bool) error {
	query := `UPDATE ambulance_vehicles SET is_available = $1, updated_at = $2 WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, isAvailable, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to set vehicle availability: %w", err)
	}
	return nil
}
