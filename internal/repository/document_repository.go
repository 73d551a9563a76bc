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

	"github.com/noah-isme/fortidesk-api/internal/compliance"
	"github.com/noah-isme/fortidesk-api/internal/models"
)

const documentColumns = `id, title, document_type, file_name, file_path, mime_type, file_size, owner_type, owner_id,
        expiry_date, reminder_sent, notes, created_by, active, created_at, updated_at`

// documentRow carries the owner as stored columns; it is converted to a
// tagged owner as soon as it leaves the database.
type documentRow struct {
	models.Document
	OwnerType string `db:"owner_type"`
	OwnerID   string `db:"owner_id"`
}

func (row documentRow) toModel() (models.Document, error) {
	kind, err := compliance.ParseOwnerKind(row.OwnerType)
	if err != nil {
		return models.Document{}, fmt.Errorf("document %s: %w", row.ID, err)
	}
	doc := row.Document
	doc.Owner = compliance.Owner{Kind: kind, ID: row.OwnerID}
	return doc, nil
}

func toDocuments(rows []documentRow) ([]models.Document, error) {
	docs := make([]models.Document, 0, len(rows))
	for _, row := range rows {
		doc, err := row.toModel()
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// DocumentRepository manages document metadata and reminder state.
type DocumentRepository struct {
	db *sqlx.DB
}

// NewDocumentRepository constructs a DocumentRepository.
func NewDocumentRepository(db *sqlx.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Create inserts a new document. Reminder state always starts unsent.
func (r *DocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now
	doc.ReminderSent = false

	row := documentRow{Document: *doc, OwnerType: string(doc.Owner.Kind), OwnerID: doc.Owner.ID}
	const query = `INSERT INTO documents (id, title, document_type, file_name, file_path, mime_type, file_size, owner_type, owner_id,
        expiry_date, reminder_sent, notes, created_by, active, created_at, updated_at)
        VALUES (:id, :title, :document_type, :file_name, :file_path, :mime_type, :file_size, :owner_type, :owner_id,
        :expiry_date, :reminder_sent, :notes, :created_by, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("create document: %w", err)
	}
	return nil
}

// FindByID fetches a document. sql.ErrNoRows is returned unwrapped.
func (r *DocumentRepository) FindByID(ctx context.Context, id string) (*models.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	var row documentRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find document: %w", err)
	}
	doc, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// List returns active documents matching the filter along with the total count.
func (r *DocumentRepository) List(ctx context.Context, filter models.DocumentFilter) ([]models.Document, int, error) {
	conditions := []string{"active = TRUE"}
	var args []interface{}
	if filter.OwnerKind != "" {
		conditions = append(conditions, fmt.Sprintf("owner_type = $%d", len(args)+1))
		args = append(args, string(filter.OwnerKind))
	}
	if filter.OwnerID != "" {
		conditions = append(conditions, fmt.Sprintf("owner_id = $%d", len(args)+1))
		args = append(args, filter.OwnerID)
	}
	if filter.DocumentType != "" {
		conditions = append(conditions, fmt.Sprintf("document_type = $%d", len(args)+1))
		args = append(args, string(filter.DocumentType))
	}
	if filter.ExpiringBefore != nil {
		conditions = append(conditions, fmt.Sprintf("expiry_date IS NOT NULL AND expiry_date <= $%d", len(args)+1))
		args = append(args, *filter.ExpiringBefore)
	}
	where := strings.Join(conditions, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s FROM documents WHERE %s ORDER BY created_at DESC, id LIMIT %d OFFSET %d", documentColumns, where, size, offset)
	var rows []documentRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list documents: %w", err)
	}
	docs, err := toDocuments(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM documents WHERE "+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count documents: %w", err)
	}
	return docs, total, nil
}

// ListWithExpiry returns every active document carrying an expiry date, soonest first.
func (r *DocumentRepository) ListWithExpiry(ctx context.Context) ([]models.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE active = TRUE AND expiry_date IS NOT NULL ORDER BY expiry_date, id`
	var rows []documentRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list expiring documents: %w", err)
	}
	return toDocuments(rows)
}

// ListPendingReminders returns active, unreminded documents expiring on or before cutoff.
func (r *DocumentRepository) ListPendingReminders(ctx context.Context, cutoff time.Time) ([]models.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents
        WHERE active = TRUE AND reminder_sent = FALSE AND expiry_date IS NOT NULL AND expiry_date <= $1
        ORDER BY expiry_date, id`
	var rows []documentRow
	if err := r.db.SelectContext(ctx, &rows, query, cutoff); err != nil {
		return nil, fmt.Errorf("list pending reminders: %w", err)
	}
	return toDocuments(rows)
}

// MarkReminderSent flips reminder_sent to true. Marking an already sent document is a no-op.
func (r *DocumentRepository) MarkReminderSent(ctx context.Context, id string) error {
	const query = `UPDATE documents SET reminder_sent = TRUE, updated_at = $2 WHERE id = $1 AND reminder_sent = FALSE`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("mark reminder sent: %w", err)
	}
	return nil
}

// Deactivate soft deletes a document.
func (r *DocumentRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE documents SET active = FALSE, updated_at = $2 WHERE id = $1 AND active = TRUE`
	res, err := r.db.ExecContext(ctx, query, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("deactivate document: %w", err)
	}
	return expectAffected(res, "deactivate document")
}
