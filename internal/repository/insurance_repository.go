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

const insuranceSelect = `SELECT i.id, i.athlete_id, a.first_name || ' ' || a.last_name AS athlete_name, i.policy_number, i.provider,
        i.insurance_type, i.start_date, i.end_date, i.coverage_amount, i.notes, i.active, i.created_at
        FROM insurances i JOIN athletes a ON a.id = i.athlete_id`

// InsuranceRepository persists insurance policies.
type InsuranceRepository struct {
	db *sqlx.DB
}

// NewInsuranceRepository constructs an InsuranceRepository.
func NewInsuranceRepository(db *sqlx.DB) *InsuranceRepository {
	return &InsuranceRepository{db: db}
}

// ListActive returns active policies with the insured athlete's name, soonest ending first.
func (r *InsuranceRepository) ListActive(ctx context.Context) ([]models.Insurance, error) {
	query := insuranceSelect + ` WHERE i.active = TRUE ORDER BY i.end_date, i.id`
	var policies []models.Insurance
	if err := r.db.SelectContext(ctx, &policies, query); err != nil {
		return nil, fmt.Errorf("list insurances: %w", err)
	}
	return policies, nil
}

// ListByAthlete returns every policy of one athlete, newest first.
func (r *InsuranceRepository) ListByAthlete(ctx context.Context, athleteID string) ([]models.Insurance, error) {
	query := insuranceSelect + ` WHERE i.athlete_id = $1 ORDER BY i.end_date DESC, i.id`
	var policies []models.Insurance
	if err := r.db.SelectContext(ctx, &policies, query, athleteID); err != nil {
		return nil, fmt.Errorf("list athlete insurances: %w", err)
	}
	return policies, nil
}

// FindByID fetches a policy. sql.ErrNoRows is returned unwrapped.
func (r *InsuranceRepository) FindByID(ctx context.Context, id string) (*models.Insurance, error) {
	var policy models.Insurance
	if err := r.db.GetContext(ctx, &policy, insuranceSelect+" WHERE i.id = $1", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find insurance: %w", err)
	}
	return &policy, nil
}

// Create inserts a new policy.
func (r *InsuranceRepository) Create(ctx context.Context, policy *models.Insurance) error {
	if policy.ID == "" {
		policy.ID = uuid.NewString()
	}
	if policy.CreatedAt.IsZero() {
		policy.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO insurances (id, athlete_id, policy_number, provider, insurance_type, start_date, end_date, coverage_amount, notes, active, created_at)
        VALUES (:id, :athlete_id, :policy_number, :provider, :insurance_type, :start_date, :end_date, :coverage_amount, :notes, :active, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, policy); err != nil {
		return fmt.Errorf("create insurance: %w", err)
	}
	return nil
}

// Update modifies a policy. The insured athlete never changes.
func (r *InsuranceRepository) Update(ctx context.Context, policy *models.Insurance) error {
	const query = `UPDATE insurances SET policy_number = :policy_number, provider = :provider, insurance_type = :insurance_type,
        start_date = :start_date, end_date = :end_date, coverage_amount = :coverage_amount, notes = :notes, active = :active
        WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, policy)
	if err != nil {
		return fmt.Errorf("update insurance: %w", err)
	}
	return expectAffected(res, "update insurance")
}
