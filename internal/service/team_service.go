package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/fortidesk-api/internal/dto"
	"github.com/noah-isme/fortidesk-api/internal/models"
	appErrors "github.com/noah-isme/fortidesk-api/pkg/errors"
)

type teamStore interface {
	List(ctx context.Context, includeInactive bool) ([]models.Team, error)
	FindByID(ctx context.Context, id string) (*models.Team, error)
	Create(ctx context.Context, team *models.Team) error
	Update(ctx context.Context, team *models.Team) error
}

type coachFinder interface {
	FindByID(ctx context.Context, id string) (*models.Staff, error)
}

// TeamService maintains the club's teams.
type TeamService struct {
	repo       teamStore
	staff      coachFinder
	dashboards dashboardInvalidator
	validate   *validator.Validate
}

// NewTeamService constructs a TeamService. dashboards may be nil.
func NewTeamService(repo teamStore, staff coachFinder, dashboards dashboardInvalidator, validate *validator.Validate) *TeamService {
	if validate == nil {
		validate = NewValidator()
	}
	return &TeamService{repo: repo, staff: staff, dashboards: dashboards, validate: validate}
}

// List returns teams, active ones only unless includeInactive is set.
func (s *TeamService) List(ctx context.Context, includeInactive bool) ([]models.Team, error) {
	teams, err := s.repo.List(ctx, includeInactive)
	if err != nil {
		return nil, internalError(err, "failed to list teams")
	}
	return teams, nil
}

// Get fetches one team.
func (s *TeamService) Get(ctx context.Context, id string) (*models.Team, error) {
	team, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "team")
	}
	return team, nil
}

// Create registers a team.
func (s *TeamService) Create(ctx context.Context, req dto.TeamRequest) (*models.Team, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err, "invalid team")
	}
	if err := s.checkCoach(ctx, req.HeadCoachID); err != nil {
		return nil, err
	}
	team := &models.Team{Active: true}
	applyTeam(team, req)
	if err := s.repo.Create(ctx, team); err != nil {
		return nil, internalError(err, "failed to create team")
	}
	invalidateDashboards(ctx, s.dashboards)
	return team, nil
}

// Update replaces a team's details.
func (s *TeamService) Update(ctx context.Context, id string, req dto.TeamRequest) (*models.Team, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err, "invalid team")
	}
	team, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkCoach(ctx, req.HeadCoachID); err != nil {
		return nil, err
	}
	applyTeam(team, req)
	if err := s.repo.Update(ctx, team); err != nil {
		return nil, notFound(err, "team")
	}
	invalidateDashboards(ctx, s.dashboards)
	return team, nil
}

func (s *TeamService) checkCoach(ctx context.Context, coachID *string) error {
	id := normalizeOptional(coachID)
	if id == nil {
		return nil
	}
	if _, err := s.staff.FindByID(ctx, *id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.NewValidation("unknown head coach", map[string]string{"headCoachId": "does not exist"})
		}
		return internalError(err, "failed to load head coach")
	}
	return nil
}

func applyTeam(team *models.Team, req dto.TeamRequest) {
	team.Name = strings.TrimSpace(req.Name)
	team.AgeGroup = strings.TrimSpace(req.AgeGroup)
	team.Season = strings.TrimSpace(req.Season)
	team.HeadCoachID = normalizeOptional(req.HeadCoachID)
	if req.Active != nil {
		team.Active = *req.Active
	}
}
