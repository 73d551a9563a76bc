package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/fortidesk-api/internal/dto"
	"github.com/noah-isme/fortidesk-api/internal/models"
	appErrors "github.com/noah-isme/fortidesk-api/pkg/errors"
)

type fakeSessionRepo struct {
	batches  [][]models.TrainingSession
	created  []models.TrainingSession
	sessions map[string]*models.TrainingSession
	batchErr error
	cancel   map[string]*string
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]*models.TrainingSession{}, cancel: map[string]*string{}}
}

func (f *fakeSessionRepo) Create(_ context.Context, s *models.TrainingSession) error {
	s.ID = "sess-single"
	f.created = append(f.created, *s)
	f.sessions[s.ID] = s
	return nil
}

func (f *fakeSessionRepo) CreateBatch(_ context.Context, sessions []models.TrainingSession) error {
	if f.batchErr != nil {
		return f.batchErr
	}
	f.batches = append(f.batches, sessions)
	return nil
}

func (f *fakeSessionRepo) FindByID(_ context.Context, id string) (*models.TrainingSession, error) {
	if s, ok := f.sessions[id]; ok {
		clone := *s
		return &clone, nil
	}
	return nil, errNoRows
}

func (f *fakeSessionRepo) List(_ context.Context, filter models.TrainingSessionFilter) ([]models.TrainingSession, int, error) {
	return []models.TrainingSession{}, 0, nil
}

func (f *fakeSessionRepo) Update(_ context.Context, s *models.TrainingSession) error {
	f.sessions[s.ID] = s
	return nil
}

func (f *fakeSessionRepo) Cancel(_ context.Context, id string, reason *string) error {
	s, ok := f.sessions[id]
	if !ok {
		return errNoRows
	}
	s.Cancelled = true
	s.CancellationReason = reason
	return nil
}

func sessionTemplate() dto.TrainingSessionTemplate {
	return dto.TrainingSessionTemplate{
		Title:       "U12 Training",
		StartTime:   "17:30",
		EndTime:     "19:00",
		Location:    "Main pitch",
		SessionType: "training",
		TeamID:      "team-u12",
	}
}

func newTrainingFixture() (*TrainingService, *fakeSessionRepo) {
	repo := newFakeSessionRepo()
	teams := &fakeTeams{teams: map[string]*models.Team{"team-u12": {ID: "team-u12", Name: "Under 12"}}}
	return NewTrainingService(repo, teams, nil, nil), repo
}

func TestGenerateRecurringWednesdays(t *testing.T) {
	svc, repo := newTrainingFixture()
	weekday := 2

	res, err := svc.GenerateRecurring(context.Background(), dto.RecurringSessionRequest{
		TrainingSessionTemplate: sessionTemplate(),
		Weekday:                 &weekday,
		StartDate:               dto.NewDate(day(2025, 9, 1)),
		EndDate:                 dto.NewDate(day(2025, 9, 30)),
	}, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 4, res.Created)
	require.Len(t, repo.batches, 1)

	var dates []time.Time
	for _, s := range res.Sessions {
		dates = append(dates, s.Date)
		assert.True(t, s.IsRecurring)
		require.NotNil(t, s.RecurrenceDay)
		assert.Equal(t, 2, *s.RecurrenceDay)
		assert.Equal(t, day(2025, 9, 30), *s.RecurrenceEndDate)
		assert.Equal(t, "17:30", s.StartTime)
		assert.Equal(t, models.SessionTraining, s.SessionType)
		require.NotNil(t, s.CreatedBy)
		assert.Equal(t, "user-1", *s.CreatedBy)
	}
	assert.Equal(t, []time.Time{day(2025, 9, 3), day(2025, 9, 10), day(2025, 9, 17), day(2025, 9, 24)}, dates)
}

func TestGenerateRecurringEmptyRange(t *testing.T) {
	svc, repo := newTrainingFixture()
	weekday := 6

	res, err := svc.GenerateRecurring(context.Background(), dto.RecurringSessionRequest{
		TrainingSessionTemplate: sessionTemplate(),
		Weekday:                 &weekday,
		StartDate:               dto.NewDate(day(2025, 9, 1)),
		EndDate:                 dto.NewDate(day(2025, 9, 5)),
	}, "")
	require.NoError(t, err)
	assert.Zero(t, res.Created)
	assert.Empty(t, res.Sessions)
	require.Len(t, repo.batches, 1)
	assert.Empty(t, repo.batches[0])
}

func TestGenerateRecurringValidatesWholeTemplate(t *testing.T) {
	svc, repo := newTrainingFixture()
	weekday := 9
	tpl := sessionTemplate()
	tpl.StartTime = "19:00"
	tpl.EndTime = "18:00"
	tpl.SessionType = "party"

	_, err := svc.GenerateRecurring(context.Background(), dto.RecurringSessionRequest{
		TrainingSessionTemplate: tpl,
		Weekday:                 &weekday,
		StartDate:               dto.NewDate(day(2025, 9, 30)),
		EndDate:                 dto.NewDate(day(2025, 9, 1)),
	}, "")
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Fields, "weekday")
	assert.Contains(t, appErr.Fields, "sessionType")
	assert.Equal(t, "must be after startTime", appErr.Fields["endTime"])
	assert.Equal(t, "must not be before startDate", appErr.Fields["endDate"])
	assert.Empty(t, repo.batches)
}

func TestGenerateRecurringRequiresWeekday(t *testing.T) {
	svc, _ := newTrainingFixture()

	_, err := svc.GenerateRecurring(context.Background(), dto.RecurringSessionRequest{
		TrainingSessionTemplate: sessionTemplate(),
		StartDate:               dto.NewDate(day(2025, 9, 1)),
		EndDate:                 dto.NewDate(day(2025, 9, 30)),
	}, "")
	require.Error(t, err)
	assert.Equal(t, "is required", appErrors.FromError(err).Fields["weekday"])
}

func TestGenerateRecurringUnknownTeam(t *testing.T) {
	svc, repo := newTrainingFixture()
	weekday := 0
	tpl := sessionTemplate()
	tpl.TeamID = "team-x"

	_, err := svc.GenerateRecurring(context.Background(), dto.RecurringSessionRequest{
		TrainingSessionTemplate: tpl,
		Weekday:                 &weekday,
		StartDate:               dto.NewDate(day(2025, 9, 1)),
		EndDate:                 dto.NewDate(day(2025, 9, 30)),
	}, "")
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Fields, "teamId")
	assert.Empty(t, repo.batches)
}

func TestGenerateRecurringBatchFailure(t *testing.T) {
	svc, repo := newTrainingFixture()
	repo.batchErr = errors.New("unique violation")
	weekday := 0

	_, err := svc.GenerateRecurring(context.Background(), dto.RecurringSessionRequest{
		TrainingSessionTemplate: sessionTemplate(),
		Weekday:                 &weekday,
		StartDate:               dto.NewDate(day(2025, 9, 1)),
		EndDate:                 dto.NewDate(day(2025, 9, 30)),
	}, "")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrInternal))
}

func TestTrainingCreateUpdateCancel(t *testing.T) {
	svc, repo := newTrainingFixture()
	ctx := context.Background()

	created, err := svc.Create(ctx, dto.CreateTrainingSessionRequest{
		TrainingSessionTemplate: sessionTemplate(),
		Date:                    dto.NewDate(time.Date(2025, 9, 4, 15, 0, 0, 0, time.UTC)),
	}, "user-1")
	require.NoError(t, err)
	assert.Equal(t, day(2025, 9, 4), created.Date)
	assert.False(t, created.IsRecurring)

	update := dto.UpdateTrainingSessionRequest{TrainingSessionTemplate: sessionTemplate(), Date: dto.NewDate(day(2025, 9, 5))}
	update.Location = "Gym"
	updated, err := svc.Update(ctx, created.ID, update)
	require.NoError(t, err)
	assert.Equal(t, "Gym", updated.Location)
	assert.Equal(t, day(2025, 9, 5), repo.sessions[created.ID].Date)

	reason := "Storm"
	cancelled, err := svc.Cancel(ctx, created.ID, dto.CancelSessionRequest{Reason: &reason})
	require.NoError(t, err)
	assert.True(t, cancelled.Cancelled)
	assert.Equal(t, "Storm", *cancelled.CancellationReason)

	_, err = svc.Cancel(ctx, "missing", dto.CancelSessionRequest{})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestTrainingListPagination(t *testing.T) {
	svc, _ := newTrainingFixture()

	_, page, err := svc.List(context.Background(), TrainingSessionListRequest{PageSize: 500})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 100, page.PageSize)
}
