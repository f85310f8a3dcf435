package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/ksu-sports/tournament-backend/models"
	"github.com/ksu-sports/tournament-backend/repositories"
	"github.com/ksu-sports/tournament-backend/storage"
)

type TeamInput struct {
	Name         string  `json:"name"`
	ContactEmail *string `json:"contact_email,omitempty"`
}

type TeamService interface {
	Create(ctx context.Context, input TeamInput) (*models.Team, error)
	GetByID(ctx context.Context, id int) (*models.Team, error)
	List(ctx context.Context) ([]*models.Team, error)
	Update(ctx context.Context, id int, input TeamInput) (*models.Team, error)
	Delete(ctx context.Context, id int) error
	UploadLogo(ctx context.Context, id int, file io.Reader, contentType string) (*models.Team, error)
}

type teamService struct {
	teamRepo     repositories.TeamRepository
	standingRepo repositories.StandingRepository
	uploader     storage.FileUploader
	logger       *slog.Logger
}

func NewTeamService(
	teamRepo repositories.TeamRepository,
	standingRepo repositories.StandingRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) TeamService {
	return &teamService{
		teamRepo:     teamRepo,
		standingRepo: standingRepo,
		uploader:     uploader,
		logger:       logger,
	}
}

func validateTeamInput(input TeamInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return ErrTeamNameRequired
	}
	if input.ContactEmail != nil && !emailRegex.MatchString(*input.ContactEmail) {
		return ErrInvalidEmail
	}
	return nil
}

func (s *teamService) Create(ctx context.Context, input TeamInput) (*models.Team, error) {
	if err := validateTeamInput(input); err != nil {
		return nil, err
	}

	team := &models.Team{
		Name:         strings.TrimSpace(input.Name),
		ContactEmail: input.ContactEmail,
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamNameConflict) {
			return nil, ErrTeamNameConflict
		}
		return nil, err
	}
	return team, nil
}

// GetByID returns the team together with every tournament assignment it
// holds, most recent tournament first.
func (s *teamService) GetByID(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	assignments, err := s.standingRepo.ListByTeam(ctx, id)
	if err != nil {
		return nil, err
	}
	team.Assignments = assignments
	s.attachLogoURL(team)
	return team, nil
}

func (s *teamService) List(ctx context.Context) ([]*models.Team, error) {
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range teams {
		s.attachLogoURL(t)
	}
	return teams, nil
}

func (s *teamService) Update(ctx context.Context, id int, input TeamInput) (*models.Team, error) {
	if err := validateTeamInput(input); err != nil {
		return nil, err
	}

	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	team.Name = strings.TrimSpace(input.Name)
	team.ContactEmail = input.ContactEmail

	if err := s.teamRepo.Update(ctx, team); err != nil {
		switch {
		case errors.Is(err, repositories.ErrTeamNotFound):
			return nil, ErrTeamNotFound
		case errors.Is(err, repositories.ErrTeamNameConflict):
			return nil, ErrTeamNameConflict
		}
		return nil, err
	}
	s.attachLogoURL(team)
	return team, nil
}

func (s *teamService) Delete(ctx context.Context, id int) error {
	if err := s.teamRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return err
	}
	return nil
}

func (s *teamService) UploadLogo(ctx context.Context, id int, file io.Reader, contentType string) (*models.Team, error) {
	if s.uploader == nil {
		return nil, ErrStorageUnavailable
	}
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	key := fmt.Sprintf("teams/%d/logo-%s%s", id, uuid.NewString(), extensionFor(contentType))
	if err := s.uploader.Upload(ctx, key, file, contentType); err != nil {
		return nil, err
	}
	if err := s.teamRepo.UpdateLogoKey(ctx, id, &key); err != nil {
		return nil, err
	}

	if team.LogoKey != nil {
		if err := s.uploader.Delete(ctx, *team.LogoKey); err != nil {
			s.logger.Warn("failed to delete previous logo",
				slog.String("key", *team.LogoKey), slog.Any("error", err))
		}
	}

	team.LogoKey = &key
	s.attachLogoURL(team)
	return team, nil
}

func (s *teamService) attachLogoURL(t *models.Team) {
	if s.uploader == nil || t.LogoKey == nil {
		return
	}
	url := s.uploader.GetPublicURL(*t.LogoKey)
	t.LogoURL = &url
}
