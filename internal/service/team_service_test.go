package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/fortidesk-api/internal/dto"
	"github.com/noah-isme/fortidesk-api/internal/models"
	appErrors "github.com/noah-isme/fortidesk-api/pkg/errors"
)

type memTeamStore struct {
	teams           map[string]*models.Team
	includeInactive bool
}

func (m *memTeamStore) List(_ context.Context, includeInactive bool) ([]models.Team, error) {
	m.includeInactive = includeInactive
	var out []models.Team
	for _, t := range m.teams {
		out = append(out, *t)
	}
	return out, nil
}

func (m *memTeamStore) FindByID(_ context.Context, id string) (*models.Team, error) {
	if t, ok := m.teams[id]; ok {
		clone := *t
		return &clone, nil
	}
	return nil, errNoRows
}

func (m *memTeamStore) Create(_ context.Context, team *models.Team) error {
	team.ID = "team-new"
	clone := *team
	m.teams[team.ID] = &clone
	return nil
}

func (m *memTeamStore) Update(_ context.Context, team *models.Team) error {
	clone := *team
	m.teams[team.ID] = &clone
	return nil
}

func newTeamFixture() (*TeamService, *memTeamStore, *countingInvalidator) {
	repo := &memTeamStore{teams: map[string]*models.Team{
		"team-1": {ID: "team-1", Name: "Under 13", AgeGroup: "U13", Season: "2025/2026", Active: true},
	}}
	coaches := stubStaffFinder{"staff-1": {ID: "staff-1", Role: models.StaffCoach, Active: true}}
	inv := &countingInvalidator{}
	return NewTeamService(repo, coaches, inv, nil), repo, inv
}

func TestTeamCreateAndUpdate(t *testing.T) {
	svc, repo, inv := newTeamFixture()

	team, err := svc.Create(context.Background(), dto.TeamRequest{Name: " Under 15 ", AgeGroup: "U15", Season: "2025/2026", HeadCoachID: strPtr("staff-1")})
	require.NoError(t, err)
	assert.Equal(t, "Under 15", team.Name)
	assert.True(t, team.Active)
	assert.Equal(t, 1, inv.calls)

	inactive := false
	updated, err := svc.Update(context.Background(), "team-1", dto.TeamRequest{Name: "Under 13 B", AgeGroup: "U13", Season: "2025/2026", Active: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.Active)
	assert.Nil(t, updated.HeadCoachID)
	assert.False(t, repo.teams["team-1"].Active)
	assert.Equal(t, 2, inv.calls)
}

func TestTeamRejectsUnknownHeadCoach(t *testing.T) {
	svc, _, inv := newTeamFixture()

	_, err := svc.Create(context.Background(), dto.TeamRequest{Name: "Under 15", AgeGroup: "U15", Season: "2025/2026", HeadCoachID: strPtr("ghost")})
	requireValidation(t, err, "headCoachId")

	_, err = svc.Create(context.Background(), dto.TeamRequest{})
	requireValidation(t, err, "name", "ageGroup", "season")

	_, err = svc.Update(context.Background(), "ghost", dto.TeamRequest{Name: "X", AgeGroup: "U9", Season: "2025/2026"})
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
	assert.Zero(t, inv.calls)
}

func TestTeamList(t *testing.T) {
	svc, repo, _ := newTeamFixture()

	teams, err := svc.List(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, teams, 1)
	assert.True(t, repo.includeInactive)
}
