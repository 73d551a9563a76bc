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

// TeamRepository persists teams and reads seasons.
type TeamRepository struct {
	db *sqlx.DB
}

// NewTeamRepository constructs a TeamRepository.
func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

const teamColumns = `id, name, age_group, season, head_coach_id, active, created_at`

// List returns teams ordered by season then name; inactive teams only when includeInactive is set.
func (r *TeamRepository) List(ctx context.Context, includeInactive bool) ([]models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams`
	if !includeInactive {
		query += ` WHERE active = TRUE`
	}
	query += ` ORDER BY season DESC, name, id`
	var teams []models.Team
	if err := r.db.SelectContext(ctx, &teams, query); err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return teams, nil
}

// FindByID fetches a team. sql.ErrNoRows is returned unwrapped.
func (r *TeamRepository) FindByID(ctx context.Context, id string) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`
	var team models.Team
	if err := r.db.GetContext(ctx, &team, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find team: %w", err)
	}
	return &team, nil
}

// Create inserts a new team.
func (r *TeamRepository) Create(ctx context.Context, team *models.Team) error {
	if team.ID == "" {
		team.ID = uuid.NewString()
	}
	if team.CreatedAt.IsZero() {
		team.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO teams (id, name, age_group, season, head_coach_id, active, created_at)
        VALUES (:id, :name, :age_group, :season, :head_coach_id, :active, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, team); err != nil {
		return fmt.Errorf("create team: %w", err)
	}
	return nil
}

// Update modifies a team. sql.ErrNoRows is returned when nothing matched.
func (r *TeamRepository) Update(ctx context.Context, team *models.Team) error {
	const query = `UPDATE teams SET name = :name, age_group = :age_group, season = :season, head_coach_id = :head_coach_id,
        active = :active WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, team)
	if err != nil {
		return fmt.Errorf("update team: %w", err)
	}
	return expectAffected(res, "update team")
}

// CountActive returns the number of active teams.
func (r *TeamRepository) CountActive(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM teams WHERE active = TRUE`); err != nil {
		return 0, fmt.Errorf("count teams: %w", err)
	}
	return total, nil
}

// SeasonExists reports whether the season id is known.
func (r *TeamRepository) SeasonExists(ctx context.Context, id string) (bool, error) {
	var one int
	if err := r.db.GetContext(ctx, &one, `SELECT 1 FROM seasons WHERE id = $1 LIMIT 1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check season: %w", err)
	}
	return true, nil
}
