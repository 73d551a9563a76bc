package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/fortidesk-api/internal/models"
)

const athleteSelect = `SELECT a.id, a.first_name, a.last_name, a.birth_date, a.fiscal_code, a.federation_id, a.team_id, t.name AS team_name,
        a.document_number, a.document_expiry, a.has_medical_certificate, a.certificate_type, a.certificate_expiry, a.active, a.created_at, a.updated_at
        FROM athletes a LEFT JOIN teams t ON t.id = a.team_id`

// AthleteRepository persists athlete records.
type AthleteRepository struct {
	db *sqlx.DB
}

// NewAthleteRepository constructs an AthleteRepository.
func NewAthleteRepository(db *sqlx.DB) *AthleteRepository {
	return &AthleteRepository{db: db}
}

// List returns athletes matching the filter ordered by last then first name.
func (r *AthleteRepository) List(ctx context.Context, filter models.AthleteFilter) ([]models.Athlete, error) {
	conditions := []string{"1=1"}
	var args []interface{}
	if filter.TeamID != "" {
		conditions = append(conditions, fmt.Sprintf("a.team_id = $%d", len(args)+1))
		args = append(args, filter.TeamID)
	}
	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("a.active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}

	query := fmt.Sprintf("%s WHERE %s ORDER BY a.last_name, a.first_name, a.id", athleteSelect, strings.Join(conditions, " AND "))
	var athletes []models.Athlete
	if err := r.db.SelectContext(ctx, &athletes, query, args...); err != nil {
		return nil, fmt.Errorf("list athletes: %w", err)
	}
	return athletes, nil
}

// FindByID fetches an athlete by identifier. sql.ErrNoRows is returned unwrapped.
func (r *AthleteRepository) FindByID(ctx context.Context, id string) (*models.Athlete, error) {
	var athlete models.Athlete
	if err := r.db.GetContext(ctx, &athlete, athleteSelect+" WHERE a.id = $1", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find athlete: %w", err)
	}
	return &athlete, nil
}

// CountActive returns the number of active athletes.
func (r *AthleteRepository) CountActive(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM athletes WHERE active = TRUE`); err != nil {
		return 0, fmt.Errorf("count athletes: %w", err)
	}
	return total, nil
}

// ExistsByFiscalCode reports whether another athlete already carries the fiscal code.
func (r *AthleteRepository) ExistsByFiscalCode(ctx context.Context, code string, excludeID string) (bool, error) {
	query := "SELECT 1 FROM athletes WHERE fiscal_code = $1"
	args := []interface{}{code}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check fiscal code: %w", err)
	}
	return true, nil
}

// Create inserts a new athlete.
func (r *AthleteRepository) Create(ctx context.Context, athlete *models.Athlete) error {
	if athlete.ID == "" {
		athlete.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if athlete.CreatedAt.IsZero() {
		athlete.CreatedAt = now
	}
	athlete.UpdatedAt = now
	const query = `INSERT INTO athletes (id, first_name, last_name, birth_date, fiscal_code, federation_id, team_id, document_number, document_expiry,
        has_medical_certificate, certificate_type, certificate_expiry, active, created_at, updated_at)
        VALUES (:id, :first_name, :last_name, :birth_date, :fiscal_code, :federation_id, :team_id, :document_number, :document_expiry,
        :has_medical_certificate, :certificate_type, :certificate_expiry, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, athlete); err != nil {
		return fmt.Errorf("create athlete: %w", err)
	}
	return nil
}

// Update modifies an existing athlete. sql.ErrNoRows is returned when nothing matched.
func (r *AthleteRepository) Update(ctx context.Context, athlete *models.Athlete) error {
	athlete.UpdatedAt = time.Now().UTC()
	const query = `UPDATE athletes SET first_name = :first_name, last_name = :last_name, birth_date = :birth_date, fiscal_code = :fiscal_code,
        federation_id = :federation_id, team_id = :team_id, document_number = :document_number, document_expiry = :document_expiry,
        has_medical_certificate = :has_medical_certificate, certificate_type = :certificate_type, certificate_expiry = :certificate_expiry,
        active = :active, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, athlete)
	if err != nil {
		return fmt.Errorf("update athlete: %w", err)
	}
	return expectAffected(res, "update athlete")
}

// Deactivate marks an athlete as inactive.
func (r *AthleteRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE athletes SET active = FALSE, updated_at = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("deactivate athlete: %w", err)
	}
	return expectAffected(res, "deactivate athlete")
}
