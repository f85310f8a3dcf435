package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ksu-sports/tournament-backend/models"
	"github.com/ksu-sports/tournament-backend/repositories"
)

type PlayerInput struct {
	Name         string    `json:"name"`
	DateOfBirth  time.Time `json:"date_of_birth"`
	JerseyNumber int       `json:"jersey_number"`
	Position     string    `json:"position"`
}

type RosterInput struct {
	TeamID       int `json:"team_id"`
	TournamentID int `json:"tournament_id"`
}

type PlayerService interface {
	Create(ctx context.Context, input PlayerInput) (*models.Player, error)
	GetByID(ctx context.Context, id int) (*models.Player, error)
	List(ctx context.Context, filter repositories.PlayerFilter) ([]*models.Player, error)
	Update(ctx context.Context, id int, input PlayerInput) (*models.Player, error)
	Delete(ctx context.Context, id int) error

	// AssignToRoster puts the player on a team's roster for one tournament.
	// Jersey numbers are unique within a roster.
	AssignToRoster(ctx context.Context, playerID int, input RosterInput) (*models.RosterEntry, error)
	RemoveFromRoster(ctx context.Context, playerID int, input RosterInput) error
	ListRoster(ctx context.Context, teamID, tournamentID int) ([]*models.RosterEntry, error)
}

type playerService struct {
	playerRepo repositories.PlayerRepository
	rosterRepo repositories.RosterRepository
}

func NewPlayerService(playerRepo repositories.PlayerRepository, rosterRepo repositories.RosterRepository) PlayerService {
	return &playerService{playerRepo: playerRepo, rosterRepo: rosterRepo}
}

func validatePlayerInput(input PlayerInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return ErrPlayerNameRequired
	}
	return nil
}

func (s *playerService) Create(ctx context.Context, input PlayerInput) (*models.Player, error) {
	if err := validatePlayerInput(input); err != nil {
		return nil, err
	}
	player := &models.Player{
		Name:         strings.TrimSpace(input.Name),
		DateOfBirth:  input.DateOfBirth,
		JerseyNumber: input.JerseyNumber,
		Position:     input.Position,
	}
	if err := s.playerRepo.Create(ctx, player); err != nil {
		return nil, err
	}
	return player, nil
}

func (s *playerService) GetByID(ctx context.Context, id int) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return player, nil
}

func (s *playerService) List(ctx context.Context, filter repositories.PlayerFilter) ([]*models.Player, error) {
	return s.playerRepo.List(ctx, filter)
}

func (s *playerService) Update(ctx context.Context, id int, input PlayerInput) (*models.Player, error) {
	if err := validatePlayerInput(input); err != nil {
		return nil, err
	}
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}

	player.Name = strings.TrimSpace(input.Name)
	player.DateOfBirth = input.DateOfBirth
	player.JerseyNumber = input.JerseyNumber
	player.Position = input.Position

	if err := s.playerRepo.Update(ctx, player); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return player, nil
}

func (s *playerService) Delete(ctx context.Context, id int) error {
	if err := s.playerRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return ErrPlayerNotFound
		}
		return err
	}
	return nil
}

func (s *playerService) AssignToRoster(ctx context.Context, playerID int, input RosterInput) (*models.RosterEntry, error) {
	player, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}

	taken, err := s.rosterRepo.JerseyTaken(ctx, input.TeamID, input.TournamentID, player.JerseyNumber, playerID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrJerseyNumberTaken
	}

	entry := &models.RosterEntry{
		PlayerID:     playerID,
		TeamID:       input.TeamID,
		TournamentID: input.TournamentID,
	}
	if err := s.rosterRepo.Add(ctx, entry); err != nil {
		switch {
		case errors.Is(err, repositories.ErrRosterEntryConflict):
			return nil, ErrRosterConflict
		case errors.Is(err, repositories.ErrRosterRefInvalid):
			return nil, ErrNotFound
		}
		return nil, err
	}
	entry.PlayerName = player.Name
	entry.JerseyNumber = player.JerseyNumber
	entry.Position = player.Position
	return entry, nil
}

func (s *playerService) RemoveFromRoster(ctx context.Context, playerID int, input RosterInput) error {
	if err := s.rosterRepo.Remove(ctx, playerID, input.TeamID, input.TournamentID); err != nil {
		if errors.Is(err, repositories.ErrRosterEntryNotFound) {
			return ErrRosterEntryNotFound
		}
		return err
	}
	return nil
}

func (s *playerService) ListRoster(ctx context.Context, teamID, tournamentID int) ([]*models.RosterEntry, error) {
	return s.rosterRepo.ListByTeamAndTournament(ctx, teamID, tournamentID)
}
