package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ksu-sports/tournament-backend/models"
	"github.com/ksu-sports/tournament-backend/repositories"
	"github.com/ksu-sports/tournament-backend/services/schedule"
	"github.com/ksu-sports/tournament-backend/storage"
)

type TournamentInput struct {
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

type AssignTeamInput struct {
	TeamID     int    `json:"team_id"`
	GroupLabel string `json:"group_label"`
}

type GenerateFixturesInput struct {
	GroupLabel     string    `json:"group_label"`
	VenueID        int       `json:"venue_id"`
	FirstMatchDate time.Time `json:"first_match_date"`
	DoubleRound    bool      `json:"double_round"`
}

type TournamentService interface {
	Create(ctx context.Context, input TournamentInput) (*models.Tournament, error)
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context) ([]*models.Tournament, error)
	Update(ctx context.Context, id int, input TournamentInput) (*models.Tournament, error)
	Delete(ctx context.Context, id int) error

	AssignTeam(ctx context.Context, tournamentID int, input AssignTeamInput) (*models.TournamentTeam, error)
	RemoveTeam(ctx context.Context, tournamentID, teamID int) error
	// GenerateGroupFixtures creates a round-robin schedule for one group
	// in a single transaction. It refuses to run twice for the same group.
	GenerateGroupFixtures(ctx context.Context, tournamentID int, input GenerateFixturesInput) ([]*models.Match, error)

	UploadLogo(ctx context.Context, id int, file io.Reader, contentType string) (*models.Tournament, error)
	DeleteLogo(ctx context.Context, id int) error
}

type tournamentService struct {
	txManager      repositories.TxManager
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	standingRepo   repositories.StandingRepository
	matchRepo      repositories.MatchRepository
	venueRepo      repositories.VenueRepository
	uploader       storage.FileUploader
	logger         *slog.Logger
}

func NewTournamentService(
	txManager repositories.TxManager,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	standingRepo repositories.StandingRepository,
	matchRepo repositories.MatchRepository,
	venueRepo repositories.VenueRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		txManager:      txManager,
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		standingRepo:   standingRepo,
		matchRepo:      matchRepo,
		venueRepo:      venueRepo,
		uploader:       uploader,
		logger:         logger,
	}
}

func validateTournamentInput(input TournamentInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return ErrTournamentNameRequired
	}
	if input.EndDate.Before(input.StartDate) {
		return ErrTournamentInvalidDateRange
	}
	return nil
}

func (s *tournamentService) Create(ctx context.Context, input TournamentInput) (*models.Tournament, error) {
	if err := validateTournamentInput(input); err != nil {
		return nil, err
	}

	tournament := &models.Tournament{
		Name:      strings.TrimSpace(input.Name),
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
	}
	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		if errors.Is(err, repositories.ErrTournamentNameConflict) {
			return nil, ErrTournamentNameConflict
		}
		return nil, err
	}
	return tournament, nil
}

func (s *tournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	standings, err := s.standingRepo.ListByTournament(ctx, nil, id, true)
	if err != nil {
		return nil, err
	}
	tournament.Standings = standings
	s.attachLogoURL(tournament)
	return tournament, nil
}

func (s *tournamentService) List(ctx context.Context) ([]*models.Tournament, error) {
	tournaments, err := s.tournamentRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range tournaments {
		s.attachLogoURL(t)
	}
	return tournaments, nil
}

func (s *tournamentService) Update(ctx context.Context, id int, input TournamentInput) (*models.Tournament, error) {
	if err := validateTournamentInput(input); err != nil {
		return nil, err
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	tournament.Name = strings.TrimSpace(input.Name)
	tournament.StartDate = input.StartDate
	tournament.EndDate = input.EndDate

	if err := s.tournamentRepo.Update(ctx, tournament); err != nil {
		switch {
		case errors.Is(err, repositories.ErrTournamentNotFound):
			return nil, ErrTournamentNotFound
		case errors.Is(err, repositories.ErrTournamentNameConflict):
			return nil, ErrTournamentNameConflict
		}
		return nil, err
	}
	s.attachLogoURL(tournament)
	return tournament, nil
}

func (s *tournamentService) Delete(ctx context.Context, id int) error {
	if err := s.tournamentRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return err
	}
	return nil
}

func (s *tournamentService) AssignTeam(ctx context.Context, tournamentID int, input AssignTeamInput) (*models.TournamentTeam, error) {
	if strings.TrimSpace(input.GroupLabel) == "" {
		return nil, ErrGroupLabelRequired
	}
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	team, err := s.teamRepo.GetByID(ctx, input.TeamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	standing := &models.TournamentTeam{
		TournamentID: tournamentID,
		TeamID:       input.TeamID,
		GroupLabel:   strings.TrimSpace(input.GroupLabel),
	}
	if err := s.standingRepo.Create(ctx, nil, standing); err != nil {
		switch {
		case errors.Is(err, repositories.ErrStandingConflict):
			return nil, ErrTeamAlreadyAssigned
		case errors.Is(err, repositories.ErrStandingRefInvalid):
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	standing.TeamName = team.Name
	return standing, nil
}

func (s *tournamentService) RemoveTeam(ctx context.Context, tournamentID, teamID int) error {
	if err := s.standingRepo.Delete(ctx, tournamentID, teamID); err != nil {
		if errors.Is(err, repositories.ErrStandingNotFound) {
			return ErrStandingNotFound
		}
		return err
	}
	return nil
}

func (s *tournamentService) GenerateGroupFixtures(ctx context.Context, tournamentID int, input GenerateFixturesInput) ([]*models.Match, error) {
	groupLabel := strings.TrimSpace(input.GroupLabel)
	if groupLabel == "" {
		return nil, ErrGroupLabelRequired
	}
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	if _, err := s.venueRepo.GetByID(ctx, input.VenueID); err != nil {
		if errors.Is(err, repositories.ErrVenueNotFound) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}

	stage := fmt.Sprintf("group_%s", groupLabel)
	existing, err := s.matchRepo.List(ctx, repositories.MatchFilter{TournamentID: &tournamentID})
	if err != nil {
		return nil, err
	}
	for _, m := range existing {
		if m.Stage == stage {
			return nil, ErrFixturesAlreadyExist
		}
	}

	rounds := schedule.SingleRound
	if input.DoubleRound {
		rounds = schedule.DoubleRound
	}

	var matches []*models.Match
	err = s.txManager.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		group, err := s.standingRepo.ListByGroup(ctx, exec, tournamentID, groupLabel)
		if err != nil {
			return err
		}
		teamIDs := make([]int, 0, len(group))
		for _, row := range group {
			teamIDs = append(teamIDs, row.TeamID)
		}

		generated, err := schedule.RoundRobin(schedule.Params{
			TournamentID:   tournamentID,
			Stage:          stage,
			TeamIDs:        teamIDs,
			VenueID:        input.VenueID,
			FirstMatchDate: input.FirstMatchDate,
			Rounds:         rounds,
		})
		if err != nil {
			return fmt.Errorf("failed to generate fixtures: %w", err)
		}

		for _, m := range generated {
			if err := s.matchRepo.Create(ctx, exec, m); err != nil {
				return fmt.Errorf("failed to insert fixture: %w", err)
			}
		}
		matches = generated
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("group fixtures generated",
		slog.Int("tournament_id", tournamentID),
		slog.String("group", groupLabel),
		slog.Int("matches", len(matches)))
	return matches, nil
}

func (s *tournamentService) UploadLogo(ctx context.Context, id int, file io.Reader, contentType string) (*models.Tournament, error) {
	if s.uploader == nil {
		return nil, ErrStorageUnavailable
	}
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	key := fmt.Sprintf("tournaments/%d/logo-%s%s", id, uuid.NewString(), extensionFor(contentType))
	if err := s.uploader.Upload(ctx, key, file, contentType); err != nil {
		return nil, err
	}
	if err := s.tournamentRepo.UpdateLogoKey(ctx, id, &key); err != nil {
		return nil, err
	}

	// The old object is deleted best effort after the row points at the
	// new one.
	if tournament.LogoKey != nil {
		if err := s.uploader.Delete(ctx, *tournament.LogoKey); err != nil {
			s.logger.Warn("failed to delete previous logo",
				slog.String("key", *tournament.LogoKey), slog.Any("error", err))
		}
	}

	tournament.LogoKey = &key
	s.attachLogoURL(tournament)
	return tournament, nil
}

func (s *tournamentService) DeleteLogo(ctx context.Context, id int) error {
	if s.uploader == nil {
		return ErrStorageUnavailable
	}
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return err
	}
	if tournament.LogoKey == nil {
		return nil
	}
	if err := s.uploader.Delete(ctx, *tournament.LogoKey); err != nil {
		return err
	}
	return s.tournamentRepo.UpdateLogoKey(ctx, id, nil)
}

func (s *tournamentService) attachLogoURL(t *models.Tournament) {
	if s.uploader == nil || t.LogoKey == nil {
		return
	}
	url := s.uploader.GetPublicURL(*t.LogoKey)
	t.LogoURL = &url
}

// extensionFor maps the upload content type to a file extension. Unknown
// types get no extension.
func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/svg+xml":
		return ".svg"
	}
	return ""
}
