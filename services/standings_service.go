package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ksu-sports/tournament-backend/models"
	"github.com/ksu-sports/tournament-backend/repositories"
)

// Points convention: 3 per win, 1 per draw, 0 per loss. A match decided by a
// penalty shootout counts as a draw for points purposes (both teams get one
// point and a draw on their row); the shootout winner additionally gets its
// shootout_wins counter incremented. Wins and losses track normal-time
// results only.
const (
	pointsPerWin  = 3
	pointsPerDraw = 1
)

// StandingsBroadcaster pushes live updates to subscribed clients.
type StandingsBroadcaster interface {
	BroadcastToRoom(roomID string, message interface{})
}

type RecordResultInput struct {
	MatchID              int                   `json:"-"`
	HomeGoals            int                   `json:"home_goals"`
	AwayGoals            int                   `json:"away_goals"`
	DecidedBy            models.DecisionMethod `json:"decided_by"`
	ShootoutWinnerTeamID *int                  `json:"shootout_winner_team_id,omitempty"`
	PlayerOfMatchID      *int                  `json:"player_of_match_id,omitempty"`
	Amend                bool                  `json:"amend,omitempty"`
}

type StandingsService interface {
	// RecordResult marks the match completed and updates both standings
	// rows in a single transaction: either everything is applied or
	// nothing is.
	RecordResult(ctx context.Context, input RecordResultInput) (*models.Match, error)
	GetStandings(ctx context.Context, tournamentID int) ([]*models.TournamentTeam, error)
}

type standingsService struct {
	txManager      repositories.TxManager
	matchRepo      repositories.MatchRepository
	standingRepo   repositories.StandingRepository
	tournamentRepo repositories.TournamentRepository
	hub            StandingsBroadcaster
	logger         *slog.Logger
}

func NewStandingsService(
	txManager repositories.TxManager,
	matchRepo repositories.MatchRepository,
	standingRepo repositories.StandingRepository,
	tournamentRepo repositories.TournamentRepository,
	hub StandingsBroadcaster,
	logger *slog.Logger,
) StandingsService {
	return &standingsService{
		txManager:      txManager,
		matchRepo:      matchRepo,
		standingRepo:   standingRepo,
		tournamentRepo: tournamentRepo,
		hub:            hub,
		logger:         logger,
	}
}

func (s *standingsService) RecordResult(ctx context.Context, input RecordResultInput) (*models.Match, error) {
	if err := validateResultInput(input); err != nil {
		return nil, err
	}

	var match *models.Match
	err := s.txManager.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		m, err := s.matchRepo.GetByIDForUpdate(ctx, exec, input.MatchID)
		if err != nil {
			if errors.Is(err, repositories.ErrMatchNotFound) {
				return ErrMatchNotFound
			}
			return err
		}

		if input.DecidedBy == models.DecidedByPenalty {
			if *input.ShootoutWinnerTeamID != m.HomeTeamID && *input.ShootoutWinnerTeamID != m.AwayTeamID {
				return ErrShootoutWinnerNotPlaying
			}
		}

		if m.Status == models.MatchStatusCompleted && !input.Amend {
			return ErrResultAlreadyRecorded
		}

		home, err := s.getStandingRow(ctx, exec, m.TournamentID, m.HomeTeamID)
		if err != nil {
			return err
		}
		away, err := s.getStandingRow(ctx, exec, m.TournamentID, m.AwayTeamID)
		if err != nil {
			return err
		}

		// An amend first reverses the previously applied result so the
		// aggregate never double-counts the match.
		if m.Status == models.MatchStatusCompleted {
			if m.HomeScore == nil || m.AwayScore == nil || m.DecidedBy == nil {
				return fmt.Errorf("completed match %d has no stored result to reverse", m.ID)
			}
			applyOutcome(home, away, *m.HomeScore, *m.AwayScore, *m.DecidedBy, m.WinnerTeamID, -1)
		}

		winner := resultWinner(m, input)
		applyOutcome(home, away, input.HomeGoals, input.AwayGoals, input.DecidedBy, winner, +1)

		if err := s.standingRepo.Update(ctx, exec, home); err != nil {
			return fmt.Errorf("failed to update home standings row: %w", err)
		}
		if err := s.standingRepo.Update(ctx, exec, away); err != nil {
			return fmt.Errorf("failed to update away standings row: %w", err)
		}

		homeGoals, awayGoals, decidedBy := input.HomeGoals, input.AwayGoals, input.DecidedBy
		m.Status = models.MatchStatusCompleted
		m.HomeScore = &homeGoals
		m.AwayScore = &awayGoals
		m.DecidedBy = &decidedBy
		m.WinnerTeamID = winner
		if input.PlayerOfMatchID != nil {
			m.PlayerOfMatchID = input.PlayerOfMatchID
		}
		if err := s.matchRepo.UpdateResult(ctx, exec, m); err != nil {
			return fmt.Errorf("failed to update match result: %w", err)
		}

		if err := s.rerankGroups(ctx, exec, m.TournamentID, home, away); err != nil {
			return err
		}

		match = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcastStandings(ctx, match.TournamentID)

	return match, nil
}

func (s *standingsService) GetStandings(ctx context.Context, tournamentID int) ([]*models.TournamentTeam, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return s.standingRepo.ListByTournament(ctx, nil, tournamentID, true)
}

func (s *standingsService) getStandingRow(ctx context.Context, exec repositories.SQLExecutor, tournamentID, teamID int) (*models.TournamentTeam, error) {
	row, err := s.standingRepo.GetByTournamentAndTeam(ctx, exec, tournamentID, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrStandingNotFound) {
			return nil, ErrTeamsNotInTournament
		}
		return nil, err
	}
	return row, nil
}

// rerankGroups recomputes group positions for every group touched by the two
// standings rows, inside the same transaction as the result itself.
func (s *standingsService) rerankGroups(ctx context.Context, exec repositories.SQLExecutor, tournamentID int, rows ...*models.TournamentTeam) error {
	seen := make(map[string]bool, len(rows))
	for _, row := range rows {
		if seen[row.GroupLabel] {
			continue
		}
		seen[row.GroupLabel] = true

		group, err := s.standingRepo.ListByGroup(ctx, exec, tournamentID, row.GroupLabel)
		if err != nil {
			return fmt.Errorf("failed to list group %q standings: %w", row.GroupLabel, err)
		}
		for i, gs := range group {
			pos := i + 1
			gs.GroupPosition = &pos
		}
		if err := s.standingRepo.UpdateGroupPositions(ctx, exec, group); err != nil {
			return fmt.Errorf("failed to rerank group %q: %w", row.GroupLabel, err)
		}
	}
	return nil
}

func (s *standingsService) broadcastStandings(ctx context.Context, tournamentID int) {
	if s.hub == nil {
		return
	}
	standings, err := s.standingRepo.ListByTournament(ctx, nil, tournamentID, true)
	if err != nil {
		s.logger.Error("failed to load standings for broadcast",
			slog.Int("tournament_id", tournamentID), slog.Any("error", err))
		return
	}
	s.hub.BroadcastToRoom(fmt.Sprintf("tournament_%d", tournamentID), map[string]interface{}{
		"type":    "STANDINGS_UPDATED",
		"payload": standings,
	})
}

func validateResultInput(input RecordResultInput) error {
	if input.HomeGoals < 0 || input.AwayGoals < 0 {
		return ErrNegativeScore
	}
	switch input.DecidedBy {
	case models.DecidedNormalTime:
	case models.DecidedByPenalty:
		// A shootout only happens when normal time ends level.
		if input.HomeGoals != input.AwayGoals {
			return ErrShootoutScoreNotLevel
		}
		if input.ShootoutWinnerTeamID == nil {
			return ErrShootoutWinnerRequired
		}
	default:
		return ErrInvalidDecisionMethod
	}
	return nil
}

// resultWinner returns the team id recorded as match winner: the higher
// scorer for a normal-time result, the shootout winner for a penalty
// decision, nil for a normal-time draw.
func resultWinner(m *models.Match, input RecordResultInput) *int {
	if input.DecidedBy == models.DecidedByPenalty {
		return input.ShootoutWinnerTeamID
	}
	switch {
	case input.HomeGoals > input.AwayGoals:
		id := m.HomeTeamID
		return &id
	case input.HomeGoals < input.AwayGoals:
		id := m.AwayTeamID
		return &id
	}
	return nil
}

// applyOutcome folds one match result into both standings rows. sign is +1
// to apply and -1 to reverse. The derived columns (matches played, goal
// difference, points) are recomputed from the counters afterwards, so the
// invariants goal_diff == gf-ga and points == 3w+d hold by construction.
func applyOutcome(home, away *models.TournamentTeam, homeGoals, awayGoals int, decidedBy models.DecisionMethod, winnerTeamID *int, sign int) {
	home.GoalsFor += sign * homeGoals
	home.GoalsAgainst += sign * awayGoals
	away.GoalsFor += sign * awayGoals
	away.GoalsAgainst += sign * homeGoals

	switch {
	case decidedBy == models.DecidedByPenalty:
		home.Draws += sign
		away.Draws += sign
		if winnerTeamID != nil {
			switch *winnerTeamID {
			case home.TeamID:
				home.ShootoutWins += sign
			case away.TeamID:
				away.ShootoutWins += sign
			}
		}
	case homeGoals > awayGoals:
		home.Wins += sign
		away.Losses += sign
	case homeGoals < awayGoals:
		away.Wins += sign
		home.Losses += sign
	default:
		home.Draws += sign
		away.Draws += sign
	}

	for _, row := range []*models.TournamentTeam{home, away} {
		row.MatchesPlayed = row.Wins + row.Draws + row.Losses
		row.GoalDifference = row.GoalsFor - row.GoalsAgainst
		row.Points = pointsPerWin*row.Wins + pointsPerDraw*row.Draws
	}
}
