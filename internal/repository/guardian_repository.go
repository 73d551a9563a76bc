package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/fortidesk-api/internal/models"
)

const guardianColumns = `id, athlete_id, first_name, last_name, phone, email, guardian_type, active, created_at`

// GuardianRepository persists guardians attached to athletes.
type GuardianRepository struct {
	db *sqlx.DB
}

// NewGuardianRepository constructs a GuardianRepository.
func NewGuardianRepository(db *sqlx.DB) *GuardianRepository {
	return &GuardianRepository{db: db}
}

// ListContactable returns active guardians of the athlete that have an email on file.
func (r *GuardianRepository) ListContactable(ctx context.Context, athleteID string) ([]models.Guardian, error) {
	query := `SELECT ` + guardianColumns + `
        FROM guardians WHERE athlete_id = $1 AND active = TRUE AND email IS NOT NULL AND email <> '' ORDER BY created_at, id`
	var guardians []models.Guardian
	if err := r.db.SelectContext(ctx, &guardians, query, athleteID); err != nil {
		return nil, fmt.Errorf("list guardians: %w", err)
	}
	return guardians, nil
}

// ListByAthlete returns every guardian of the athlete, active or not.
func (r *GuardianRepository) ListByAthlete(ctx context.Context, athleteID string) ([]models.Guardian, error) {
	query := `SELECT ` + guardianColumns + ` FROM guardians WHERE athlete_id = $1 ORDER BY created_at, id`
	var guardians []models.Guardian
	if err := r.db.SelectContext(ctx, &guardians, query, athleteID); err != nil {
		return nil, fmt.Errorf("list athlete guardians: %w", err)
	}
	return guardians, nil
}

// FindByID fetches a guardian. sql.ErrNoRows is returned unwrapped.
func (r *GuardianRepository) FindByID(ctx context.Context, id string) (*models.Guardian, error) {
	var guardian models.Guardian
	if err := r.db.GetContext(ctx, &guardian, `SELECT `+guardianColumns+` FROM guardians WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find guardian: %w", err)
	}
	return &guardian, nil
}

// Create inserts a new guardian.
func (r *GuardianRepository) Create(ctx context.Context, guardian *models.Guardian) error {
	if guardian.ID == "" {
		guardian.ID = uuid.NewString()
	}
	if guardian.CreatedAt.IsZero() {
		guardian.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO guardians (id, athlete_id, first_name, last_name, phone, email, guardian_type, active, created_at)
        VALUES (:id, :athlete_id, :first_name, :last_name, :phone, :email, :guardian_type, :active, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, guardian); err != nil {
		return fmt.Errorf("create guardian: %w", err)
	}
	return nil
}

// Update modifies a guardian's contact details.
func (r *GuardianRepository) Update(ctx context.Context, guardian *models.Guardian) error {
	const query = `UPDATE guardians SET first_name = :first_name, last_name = :last_name, phone = :phone, email = :email,
        guardian_type = :guardian_type, active = :active WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, guardian)
	if err != nil {
		return fmt.Errorf("update guardian: %w", err)
	}
	return expectAffected(res, "update guardian")
}
