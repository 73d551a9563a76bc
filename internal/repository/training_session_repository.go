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
	"github.com/noah-isme/fortidesk-api/pkg/database"
)

const sessionColumns = `id, title, date, start_time, end_time, location, session_type, team_id, season_id, coach_id, notes,
        is_recurring, recurrence_day, recurrence_end_date, cancelled, cancellation_reason, created_by, active, created_at, updated_at`

const insertSessionQuery = `INSERT INTO training_sessions (id, title, date, start_time, end_time, location, session_type, team_id, season_id, coach_id, notes,
        is_recurring, recurrence_day, recurrence_end_date, cancelled, cancellation_reason, created_by, active, created_at, updated_at)
        VALUES (:id, :title, :date, :start_time, :end_time, :location, :session_type, :team_id, :season_id, :coach_id, :notes,
        :is_recurring, :recurrence_day, :recurrence_end_date, :cancelled, :cancellation_reason, :created_by, :active, :created_at, :updated_at)`

// TrainingSessionRepository persists calendar sessions.
type TrainingSessionRepository struct {
	db *sqlx.DB
}

// NewTrainingSessionRepository constructs a TrainingSessionRepository.
func NewTrainingSessionRepository(db *sqlx.DB) *TrainingSessionRepository {
	return &TrainingSessionRepository{db: db}
}

func stampSession(s *models.TrainingSession, now time.Time) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
}

// Create inserts a single session.
func (r *TrainingSessionRepository) Create(ctx context.Context, session *models.TrainingSession) error {
	stampSession(session, time.Now().UTC())
	if _, err := r.db.NamedExecContext(ctx, insertSessionQuery, session); err != nil {
		return fmt.Errorf("create training session: %w", err)
	}
	return nil
}

// CreateBatch inserts all sessions in one transaction; either every row is stored or none is.
func (r *TrainingSessionRepository) CreateBatch(ctx context.Context, sessions []models.TrainingSession) error {
	if len(sessions) == 0 {
		return nil
	}
	now := time.Now().UTC()
	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		for i := range sessions {
			stampSession(&sessions[i], now)
			if _, err := tx.NamedExecContext(ctx, insertSessionQuery, &sessions[i]); err != nil {
				return fmt.Errorf("create training session %d: %w", i, err)
			}
		}
		return nil
	})
}

// FindByID fetches a session. sql.ErrNoRows is returned unwrapped.
func (r *TrainingSessionRepository) FindByID(ctx context.Context, id string) (*models.TrainingSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM training_sessions WHERE id = $1 AND active = TRUE`
	var session models.TrainingSession
	if err := r.db.GetContext(ctx, &session, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find training session: %w", err)
	}
	return &session, nil
}

// List returns active sessions matching the filter ordered by date and start time.
func (r *TrainingSessionRepository) List(ctx context.Context, filter models.TrainingSessionFilter) ([]models.TrainingSession, int, error) {
	conditions := []string{"active = TRUE"}
	var args []interface{}
	if filter.TeamID != "" {
		conditions = append(conditions, fmt.Sprintf("team_id = $%d", len(args)+1))
		args = append(args, filter.TeamID)
	}
	if filter.SeasonID != "" {
		conditions = append(conditions, fmt.Sprintf("season_id = $%d", len(args)+1))
		args = append(args, filter.SeasonID)
	}
	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("date >= $%d", len(args)+1))
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("date <= $%d", len(args)+1))
		args = append(args, *filter.To)
	}
	where := strings.Join(conditions, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s FROM training_sessions WHERE %s ORDER BY date, start_time, id LIMIT %d OFFSET %d", sessionColumns, where, size, offset)
	var sessions []models.TrainingSession
	if err := r.db.SelectContext(ctx, &sessions, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list training sessions: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM training_sessions WHERE "+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count training sessions: %w", err)
	}
	return sessions, total, nil
}

// Update modifies one session without touching siblings generated from the same pattern.
func (r *TrainingSessionRepository) Update(ctx context.Context, session *models.TrainingSession) error {
	session.UpdatedAt = time.Now().UTC()
	const query = `UPDATE training_sessions SET title = :title, date = :date, start_time = :start_time, end_time = :end_time,
        location = :location, session_type = :session_type, team_id = :team_id, season_id = :season_id, coach_id = :coach_id,
        notes = :notes, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, session); err != nil {
		return fmt.Errorf("update training session: %w", err)
	}
	return nil
}

// Cancel flags a session as cancelled with an optional reason.
func (r *TrainingSessionRepository) Cancel(ctx context.Context, id string, reason *string) error {
	const query = `UPDATE training_sessions SET cancelled = TRUE, cancellation_reason = $2, updated_at = $3 WHERE id = $1 AND active = TRUE`
	res, err := r.db.ExecContext(ctx, query, id, reason, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("cancel training session: %w", err)
	}
	return expectAffected(res, "cancel training session")
}
