package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/fortidesk-api/internal/compliance"
	"github.com/noah-isme/fortidesk-api/internal/dto"
	"github.com/noah-isme/fortidesk-api/internal/models"
	appErrors "github.com/noah-isme/fortidesk-api/pkg/errors"
	"github.com/noah-isme/fortidesk-api/pkg/lock"
	"github.com/noah-isme/fortidesk-api/pkg/mailer"
)

type reminderDocumentStore interface {
	ListPendingReminders(ctx context.Context, cutoff time.Time) ([]models.Document, error)
	MarkReminderSent(ctx context.Context, id string) error
}

type recipientDirectory interface {
	Lookup(ctx context.Context, owner compliance.Owner) (*ResolvedOwner, error)
	Recipients(ctx context.Context, owner *ResolvedOwner) ([]string, error)
}

// ReminderServiceParams groups constructor dependencies.
type ReminderServiceParams struct {
	Documents     reminderDocumentStore
	Owners        recipientDirectory
	Sender        mailer.Sender
	Locker        lock.Locker
	Metrics       *MetricsService
	Logger        *zap.Logger
	LookaheadDays int
}

// ReminderService sends one expiry reminder per document and records that it did.
type ReminderService struct {
	documents reminderDocumentStore
	owners    recipientDirectory
	sender    mailer.Sender
	locker    lock.Locker
	metrics   *MetricsService
	logger    *zap.Logger
	lookahead int
	now       func() time.Time
}

// NewReminderService constructs a ReminderService. A nil locker lets runs overlap.
func NewReminderService(params ReminderServiceParams) *ReminderService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	locker := params.Locker
	if locker == nil {
		locker = lock.Noop{}
	}
	sender := params.Sender
	if sender == nil {
		sender = mailer.NewLogSender(logger)
	}
	lookahead := params.LookaheadDays
	if lookahead <= 0 {
		lookahead = compliance.DefaultLookaheadDays
	}
	return &ReminderService{
		documents: params.Documents,
		owners:    params.Owners,
		sender:    sender,
		locker:    locker,
		metrics:   params.Metrics,
		logger:    logger,
		lookahead: lookahead,
		now:       time.Now,
	}
}

func (s *ReminderService) today(day time.Time) time.Time {
	if day.IsZero() {
		return compliance.DateOf(s.now())
	}
	return compliance.DateOf(day)
}

// SelectPending lists documents awaiting a reminder whose owner is still active.
func (s *ReminderService) SelectPending(ctx context.Context, day time.Time) ([]dto.PendingReminder, error) {
	today := s.today(day)
	docs, err := s.documents.ListPendingReminders(ctx, today.AddDate(0, 0, s.lookahead))
	if err != nil {
		return nil, internalError(err, "failed to load pending reminders")
	}

	pending := make([]dto.PendingReminder, 0, len(docs))
	for _, doc := range docs {
		owner, err := s.owners.Lookup(ctx, doc.Owner)
		if err != nil {
			if appErrors.Is(err, appErrors.ErrNotFound) {
				continue
			}
			return nil, err
		}
		if !owner.Active {
			continue
		}
		recipients, err := s.owners.Recipients(ctx, owner)
		if err != nil {
			return nil, err
		}
		pending = append(pending, dto.PendingReminder{
			DocumentID:    doc.ID,
			Title:         doc.Title,
			DocumentType:  string(doc.DocumentType),
			OwnerKind:     string(doc.Owner.Kind),
			OwnerID:       doc.Owner.ID,
			OwnerName:     owner.Name,
			ExpiryDate:    compliance.DateOf(*doc.ExpiryDate),
			DaysRemaining: compliance.DaysUntil(*doc.ExpiryDate, today),
			Recipients:    len(recipients),
		})
	}
	return pending, nil
}

// Dispatch runs one reminder pass for day. Send failures are counted and
// never abort the run; a document whose state could not be persisted makes
// the run fail after every other document has been processed. A run that
// cannot take the lock returns a summary with Skipped set.
func (s *ReminderService) Dispatch(ctx context.Context, day time.Time) (*dto.ReminderRunSummary, error) {
	started := s.now()
	summary := &dto.ReminderRunSummary{
		RunID:     uuid.NewString(),
		Date:      s.today(day),
		StartedAt: started.UTC(),
	}
	logger := s.logger.With(zap.String("run_id", summary.RunID), zap.Time("date", summary.Date))

	acquired, err := s.locker.Acquire(ctx)
	if err != nil {
		return nil, internalError(err, "failed to acquire reminder lock")
	}
	if !acquired {
		logger.Info("reminder run skipped: another run holds the lock")
		summary.Skipped = true
		summary.FinishedAt = s.now().UTC()
		s.metrics.ObserveReminderRun("skipped", summary.FinishedAt.Sub(started))
		return summary, nil
	}
	defer func() {
		if err := s.locker.Release(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("failed to release reminder lock", zap.Error(err))
		}
	}()

	docs, err := s.documents.ListPendingReminders(ctx, summary.Date.AddDate(0, 0, s.lookahead))
	if err != nil {
		s.metrics.ObserveReminderRun("failed", s.now().Sub(started))
		return nil, internalError(err, "failed to load pending reminders")
	}
	summary.Documents = len(docs)

	var runErrs []error
	for _, doc := range docs {
		if err := s.remind(ctx, logger, doc, summary); err != nil {
			runErrs = append(runErrs, err)
		}
	}

	summary.FinishedAt = s.now().UTC()
	result := "completed"
	if len(runErrs) > 0 {
		result = "failed"
	}
	s.metrics.ObserveReminderRun(result, summary.FinishedAt.Sub(started))
	logger.Info("reminder run finished",
		zap.Int("documents", summary.Documents),
		zap.Int("notified", summary.Notified),
		zap.Int("failed", summary.Failed),
		zap.Int("zero_recipients", summary.ZeroRecipients),
		zap.Int("marked", summary.Marked),
		zap.Int("mark_failures", summary.MarkFailures),
		zap.Int("unresolved", summary.Unresolved))

	if len(runErrs) > 0 {
		return summary, internalError(errors.Join(runErrs...), "reminder run incomplete")
	}
	return summary, nil
}

// remind notifies every recipient of one document then marks it. Only
// failures that leave the document unmarked are returned.
func (s *ReminderService) remind(ctx context.Context, logger *zap.Logger, doc models.Document, summary *dto.ReminderRunSummary) error {
	logger = logger.With(zap.String("document_id", doc.ID), zap.String("owner", doc.Owner.String()))

	recipients, ownerName, err := s.resolveRecipients(ctx, doc.Owner)
	if err != nil {
		summary.Unresolved++
		logger.Error("failed to resolve reminder recipients", zap.Error(err))
		return fmt.Errorf("document %s: %w", doc.ID, err)
	}

	if len(recipients) == 0 {
		summary.ZeroRecipients++
		logger.Info("zero_recipients")
	} else {
		body, err := renderReminder(doc, ownerName, summary.Date)
		if err != nil {
			summary.Unresolved++
			logger.Error("failed to render reminder", zap.Error(err))
			return fmt.Errorf("document %s: %w", doc.ID, err)
		}
		subject := reminderSubject(doc)
		for _, to := range recipients {
			if err := s.sender.Send(ctx, to, subject, body); err != nil {
				summary.Failed++
				s.metrics.RecordReminderEmail("failed")
				logger.Warn("reminder delivery failed", zap.String("recipient", to), zap.Error(err))
				continue
			}
			summary.Notified++
			s.metrics.RecordReminderEmail("sent")
		}
	}

	if err := s.documents.MarkReminderSent(ctx, doc.ID); err != nil {
		summary.MarkFailures++
		logger.Error("failed to mark reminder sent", zap.Error(err))
		return fmt.Errorf("document %s: %w", doc.ID, err)
	}
	summary.Marked++
	return nil
}

// resolveRecipients treats missing and inactive owners as having nobody to notify.
func (s *ReminderService) resolveRecipients(ctx context.Context, owner compliance.Owner) ([]string, string, error) {
	resolved, err := s.owners.Lookup(ctx, owner)
	if err != nil {
		if appErrors.Is(err, appErrors.ErrNotFound) {
			return nil, unknownOwnerName, nil
		}
		return nil, "", err
	}
	if !resolved.Active {
		return nil, resolved.Name, nil
	}
	recipients, err := s.owners.Recipients(ctx, resolved)
	if err != nil {
		return nil, "", err
	}
	return recipients, resolved.Name, nil
}
