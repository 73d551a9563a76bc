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

const staffColumns = `id, first_name, last_name, email, phone, role, document_number, document_expiry,
        has_medical_certificate, certificate_expiry, has_background_check, background_check_date, background_check_expiry,
        active, created_at, updated_at`

// StaffRepository persists staff records.
type StaffRepository struct {
	db *sqlx.DB
}

// NewStaffRepository constructs a StaffRepository.
func NewStaffRepository(db *sqlx.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

// ListActive returns active staff ordered by last then first name.
func (r *StaffRepository) ListActive(ctx context.Context) ([]models.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE active = TRUE ORDER BY last_name, first_name, id`
	var staff []models.Staff
	if err := r.db.SelectContext(ctx, &staff, query); err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	return staff, nil
}

// List returns staff matching the filter ordered by last then first name.
func (r *StaffRepository) List(ctx context.Context, filter models.StaffFilter) ([]models.Staff, error) {
	conditions := []string{"1=1"}
	var args []interface{}
	if filter.Role != "" {
		conditions = append(conditions, fmt.Sprintf("role = $%d", len(args)+1))
		args = append(args, filter.Role)
	}
	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	query := fmt.Sprintf("SELECT %s FROM staff WHERE %s ORDER BY last_name, first_name, id", staffColumns, strings.Join(conditions, " AND "))
	var staff []models.Staff
	if err := r.db.SelectContext(ctx, &staff, query, args...); err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	return staff, nil
}

// FindByID fetches a staff member. sql.ErrNoRows is returned unwrapped.
func (r *StaffRepository) FindByID(ctx context.Context, id string) (*models.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE id = $1`
	var member models.Staff
	if err := r.db.GetContext(ctx, &member, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find staff: %w", err)
	}
	return &member, nil
}

// CountActive returns the number of active staff members.
func (r *StaffRepository) CountActive(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM staff WHERE active = TRUE`); err != nil {
		return 0, fmt.Errorf("count staff: %w", err)
	}
	return total, nil
}

// ExistsByEmail reports whether another staff member already uses the email.
func (r *StaffRepository) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	query := "SELECT 1 FROM staff WHERE LOWER(email) = LOWER($1)"
	args := []interface{}{email}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check staff email: %w", err)
	}
	return true, nil
}

// Create inserts a new staff member.
func (r *StaffRepository) Create(ctx context.Context, member *models.Staff) error {
	if member.ID == "" {
		member.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if member.CreatedAt.IsZero() {
		member.CreatedAt = now
	}
	member.UpdatedAt = now
	const query = `INSERT INTO staff (id, first_name, last_name, email, phone, role, document_number, document_expiry,
        has_medical_certificate, certificate_expiry, has_background_check, background_check_date, background_check_expiry,
        active, created_at, updated_at)
        VALUES (:id, :first_name, :last_name, :email, :phone, :role, :document_number, :document_expiry,
        :has_medical_certificate, :certificate_expiry, :has_background_check, :background_check_date, :background_check_expiry,
        :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, member); err != nil {
		return fmt.Errorf("create staff: %w", err)
	}
	return nil
}

// Update modifies an existing staff member. sql.ErrNoRows is returned when nothing matched.
func (r *StaffRepository) Update(ctx context.Context, member *models.Staff) error {
	member.UpdatedAt = time.Now().UTC()
	const query = `UPDATE staff SET first_name = :first_name, last_name = :last_name, email = :email, phone = :phone, role = :role,
        document_number = :document_number, document_expiry = :document_expiry, has_medical_certificate = :has_medical_certificate,
        certificate_expiry = :certificate_expiry, has_background_check = :has_background_check,
        background_check_date = :background_check_date, background_check_expiry = :background_check_expiry,
        active = :active, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, member)
	if err != nil {
		return fmt.Errorf("update staff: %w", err)
	}
	return expectAffected(res, "update staff")
}

// Deactivate marks a staff member as inactive.
func (r *StaffRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE staff SET active = FALSE, updated_at = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("deactivate staff: %w", err)
	}
	return expectAffected(res, "deactivate staff")
}
