package services

import (
	"context"
	"errors"

	"github.com/ksu-sports/tournament-backend/models"
	"github.com/ksu-sports/tournament-backend/repositories"
	"golang.org/x/sync/errgroup"
)

const (
	defaultTopScorersLimit = 10
	tournamentDetailLimit  = 5
)

// StatsService derives reporting views from the match ledger. Everything
// here is a deterministic pure projection.
type StatsService interface {
	TopScorers(ctx context.Context, tournamentID *int, limit int) ([]*models.PlayerGoals, error)
	RedCardLeaders(ctx context.Context, tournamentID *int) ([]*models.PlayerRedCards, error)
	RecentMatches(ctx context.Context, tournamentID, limit int) ([]*models.Match, error)
	UpcomingMatches(ctx context.Context, tournamentID, limit int) ([]*models.Match, error)
	TournamentDetail(ctx context.Context, tournamentID int) (*models.TournamentDetail, error)
}

type statsService struct {
	statsRepo      repositories.StatsRepository
	standingRepo   repositories.StandingRepository
	tournamentRepo repositories.TournamentRepository
}

func NewStatsService(
	statsRepo repositories.StatsRepository,
	standingRepo repositories.StandingRepository,
	tournamentRepo repositories.TournamentRepository,
) StatsService {
	return &statsService{
		statsRepo:      statsRepo,
		standingRepo:   standingRepo,
		tournamentRepo: tournamentRepo,
	}
}

func (s *statsService) TopScorers(ctx context.Context, tournamentID *int, limit int) ([]*models.PlayerGoals, error) {
	if limit <= 0 {
		limit = defaultTopScorersLimit
	}
	if err := s.checkTournament(ctx, tournamentID); err != nil {
		return nil, err
	}
	return s.statsRepo.TopScorers(ctx, tournamentID, limit)
}

func (s *statsService) RedCardLeaders(ctx context.Context, tournamentID *int) ([]*models.PlayerRedCards, error) {
	if err := s.checkTournament(ctx, tournamentID); err != nil {
		return nil, err
	}
	return s.statsRepo.RedCardLeaders(ctx, tournamentID)
}

func (s *statsService) RecentMatches(ctx context.Context, tournamentID, limit int) ([]*models.Match, error) {
	if limit <= 0 {
		limit = tournamentDetailLimit
	}
	id := tournamentID
	if err := s.checkTournament(ctx, &id); err != nil {
		return nil, err
	}
	return s.statsRepo.RecentMatches(ctx, tournamentID, limit)
}

func (s *statsService) UpcomingMatches(ctx context.Context, tournamentID, limit int) ([]*models.Match, error) {
	if limit <= 0 {
		limit = tournamentDetailLimit
	}
	id := tournamentID
	if err := s.checkTournament(ctx, &id); err != nil {
		return nil, err
	}
	return s.statsRepo.UpcomingMatches(ctx, tournamentID, limit)
}

// TournamentDetail assembles the per-tournament dashboard. The four reads
// are independent, so they run concurrently.
func (s *statsService) TournamentDetail(ctx context.Context, tournamentID int) (*models.TournamentDetail, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	detail := &models.TournamentDetail{Tournament: tournament}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		standings, err := s.standingRepo.ListByTournament(gctx, nil, tournamentID, true)
		if err == nil {
			detail.Standings = standings
		}
		return err
	})
	g.Go(func() error {
		scorers, err := s.statsRepo.TopScorers(gctx, &tournamentID, tournamentDetailLimit)
		if err == nil {
			detail.TopScorers = scorers
		}
		return err
	})
	g.Go(func() error {
		recent, err := s.statsRepo.RecentMatches(gctx, tournamentID, tournamentDetailLimit)
		if err == nil {
			detail.RecentMatches = recent
		}
		return err
	})
	g.Go(func() error {
		upcoming, err := s.statsRepo.UpcomingMatches(gctx, tournamentID, tournamentDetailLimit)
		if err == nil {
			detail.UpcomingMatches = upcoming
		}
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *statsService) checkTournament(ctx context.Context, tournamentID *int) error {
	if tournamentID == nil {
		return nil
	}
	if _, err := s.tournamentRepo.GetByID(ctx, *tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return err
	}
	return nil
}
