package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/fortidesk-api/internal/compliance"
	"github.com/noah-isme/fortidesk-api/internal/dto"
	"github.com/noah-isme/fortidesk-api/internal/models"
	"github.com/noah-isme/fortidesk-api/internal/recurrence"
	appErrors "github.com/noah-isme/fortidesk-api/pkg/errors"
)

const sessionTimeLayout = "15:04"

type trainingSessionRepository interface {
	Create(ctx context.Context, session *models.TrainingSession) error
	CreateBatch(ctx context.Context, sessions []models.TrainingSession) error
	FindByID(ctx context.Context, id string) (*models.TrainingSession, error)
	List(ctx context.Context, filter models.TrainingSessionFilter) ([]models.TrainingSession, int, error)
	Update(ctx context.Context, session *models.TrainingSession) error
	Cancel(ctx context.Context, id string, reason *string) error
}

type sessionTeamLookup interface {
	FindByID(ctx context.Context, id string) (*models.Team, error)
	SeasonExists(ctx context.Context, id string) (bool, error)
}

// TrainingSessionListRequest filters the session calendar.
type TrainingSessionListRequest struct {
	TeamID   string
	SeasonID string
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}

// TrainingService schedules single and weekly training sessions.
type TrainingService struct {
	repo     trainingSessionRepository
	teams    sessionTeamLookup
	validate *validator.Validate
	logger   *zap.Logger
}

// NewTrainingService constructs a TrainingService.
func NewTrainingService(repo trainingSessionRepository, teams sessionTeamLookup, validate *validator.Validate, logger *zap.Logger) *TrainingService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrainingService{repo: repo, teams: teams, validate: validate, logger: logger}
}

// GenerateRecurring expands a weekly pattern into sessions and stores them
// all or none. The whole template is validated before anything is written.
func (s *TrainingService) GenerateRecurring(ctx context.Context, req dto.RecurringSessionRequest, actorID string) (*dto.RecurringSessionResult, error) {
	fields := s.templateFields(&req)
	requireDate(fields, "startDate", req.StartDate)
	requireDate(fields, "endDate", req.EndDate)
	if !req.StartDate.IsZero() && !req.EndDate.IsZero() && req.EndDate.Before(req.StartDate.Time) {
		fields["endDate"] = "must not be before startDate"
	}
	if len(fields) > 0 {
		return nil, appErrors.NewValidation("invalid recurring session", fields)
	}
	if err := s.checkReferences(ctx, req.TeamID, req.SeasonID); err != nil {
		return nil, err
	}

	weekday := recurrence.Weekday(*req.Weekday)
	endDate := compliance.DateOf(req.EndDate.Time)
	dates := recurrence.Generate(weekday, req.StartDate.Time, req.EndDate.Time)
	sessions := make([]models.TrainingSession, 0, len(dates))
	for _, date := range dates {
		session := s.fromTemplate(req.TrainingSessionTemplate, date, actorID)
		session.IsRecurring = true
		day := int(weekday)
		session.RecurrenceDay = &day
		session.RecurrenceEndDate = &endDate
		sessions = append(sessions, session)
	}

	if err := s.repo.CreateBatch(ctx, sessions); err != nil {
		return nil, internalError(err, "failed to create training sessions")
	}
	s.logger.Info("recurring sessions created",
		zap.String("team_id", req.TeamID),
		zap.String("weekday", weekday.String()),
		zap.Int("count", len(sessions)))
	return &dto.RecurringSessionResult{Created: len(sessions), Sessions: sessions}, nil
}

// Create schedules a single session.
func (s *TrainingService) Create(ctx context.Context, req dto.CreateTrainingSessionRequest, actorID string) (*models.TrainingSession, error) {
	if fields := s.templateFields(&req); len(fields) > 0 {
		return nil, appErrors.NewValidation("invalid training session", fields)
	}
	if err := s.checkReferences(ctx, req.TeamID, req.SeasonID); err != nil {
		return nil, err
	}
	session := s.fromTemplate(req.TrainingSessionTemplate, req.Date.Time, actorID)
	if err := s.repo.Create(ctx, &session); err != nil {
		return nil, internalError(err, "failed to create training session")
	}
	return &session, nil
}

// Update edits one session. Sessions generated from the same pattern are left alone.
func (s *TrainingService) Update(ctx context.Context, id string, req dto.UpdateTrainingSessionRequest) (*models.TrainingSession, error) {
	if fields := s.templateFields(&req); len(fields) > 0 {
		return nil, appErrors.NewValidation("invalid training session", fields)
	}
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, req.TeamID, req.SeasonID); err != nil {
		return nil, err
	}
	tpl := req.TrainingSessionTemplate
	existing.Title = tpl.Title
	existing.Date = compliance.DateOf(req.Date.Time)
	existing.StartTime = tpl.StartTime
	existing.EndTime = tpl.EndTime
	existing.Location = tpl.Location
	existing.SessionType = models.SessionType(tpl.SessionType)
	existing.TeamID = tpl.TeamID
	existing.SeasonID = tpl.SeasonID
	existing.CoachID = tpl.CoachID
	existing.Notes = tpl.Notes
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, internalError(err, "failed to update training session")
	}
	return existing, nil
}

// Cancel marks one session as cancelled.
func (s *TrainingService) Cancel(ctx context.Context, id string, req dto.CancelSessionRequest) (*models.TrainingSession, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err, "invalid cancellation")
	}
	if err := s.repo.Cancel(ctx, id, req.Reason); err != nil {
		return nil, notFound(err, "training session")
	}
	return s.Get(ctx, id)
}

// Get fetches one session.
func (s *TrainingService) Get(ctx context.Context, id string) (*models.TrainingSession, error) {
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "training session")
	}
	return session, nil
}

// List returns sessions matching the filter with pagination metadata.
func (s *TrainingService) List(ctx context.Context, req TrainingSessionListRequest) ([]models.TrainingSession, *models.Pagination, error) {
	page, size := normalizePage(req.Page, req.PageSize)
	sessions, total, err := s.repo.List(ctx, models.TrainingSessionFilter{
		TeamID:   req.TeamID,
		SeasonID: req.SeasonID,
		From:     req.From,
		To:       req.To,
		Page:     page,
		PageSize: size,
	})
	if err != nil {
		return nil, nil, internalError(err, "failed to list training sessions")
	}
	return sessions, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// templateFields validates struct tags plus the time ordering and returns
// every failing field at once.
func (s *TrainingService) templateFields(req any) map[string]string {
	fields := fieldErrors(s.validate, req)
	if _, bad := fields["request"]; bad {
		return fields
	}

	var tpl dto.TrainingSessionTemplate
	switch r := req.(type) {
	case *dto.RecurringSessionRequest:
		tpl = r.TrainingSessionTemplate
	case *dto.CreateTrainingSessionRequest:
		tpl = r.TrainingSessionTemplate
		requireDate(fields, "date", r.Date)
	}
	if _, bad := fields["startTime"]; bad {
		return fields
	}
	if _, bad := fields["endTime"]; bad {
		return fields
	}
	start, errStart := time.Parse(sessionTimeLayout, tpl.StartTime)
	end, errEnd := time.Parse(sessionTimeLayout, tpl.EndTime)
	if errStart == nil && errEnd == nil && !end.After(start) {
		fields["endTime"] = "must be after startTime"
	}
	return fields
}

func requireDate(fields map[string]string, key string, d dto.Date) {
	if d.IsZero() {
		fields[key] = "is required"
	}
}

func (s *TrainingService) checkReferences(ctx context.Context, teamID string, seasonID *string) error {
	if _, err := s.teams.FindByID(ctx, teamID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.NewValidation("unknown team", map[string]string{"teamId": "does not exist"})
		}
		return internalError(err, "failed to load team")
	}
	if seasonID == nil || *seasonID == "" {
		return nil
	}
	ok, err := s.teams.SeasonExists(ctx, *seasonID)
	if err != nil {
		return internalError(err, "failed to load season")
	}
	if !ok {
		return appErrors.NewValidation("unknown season", map[string]string{"seasonId": "does not exist"})
	}
	return nil
}

func (s *TrainingService) fromTemplate(tpl dto.TrainingSessionTemplate, date time.Time, actorID string) models.TrainingSession {
	session := models.TrainingSession{
		Title:       tpl.Title,
		Date:        compliance.DateOf(date),
		StartTime:   tpl.StartTime,
		EndTime:     tpl.EndTime,
		Location:    tpl.Location,
		SessionType: models.SessionType(tpl.SessionType),
		TeamID:      tpl.TeamID,
		SeasonID:    tpl.SeasonID,
		CoachID:     tpl.CoachID,
		Notes:       tpl.Notes,
		Active:      true,
	}
	if actorID != "" {
		session.CreatedBy = &actorID
	}
	return session
}

func normalizePage(page, size int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	if size > 100 {
		size = 100
	}
	return page, size
}
