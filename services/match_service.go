package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ksu-sports/tournament-backend/models"
	"github.com/ksu-sports/tournament-backend/repositories"
	"golang.org/x/sync/errgroup"
)

type CreateMatchInput struct {
	TournamentID int       `json:"tournament_id"`
	Stage        string    `json:"stage"`
	Date         time.Time `json:"date"`
	HomeTeamID   int       `json:"home_team_id"`
	AwayTeamID   int       `json:"away_team_id"`
	VenueID      int       `json:"venue_id"`
	Audience     int       `json:"audience"`
}

type GoalEventInput struct {
	TeamID   int             `json:"team_id"`
	PlayerID int             `json:"player_id"`
	Minute   int             `json:"minute"`
	Type     models.GoalType `json:"type"`
	Period   int             `json:"period"`
}

type PenaltyKickInput struct {
	TeamID   int  `json:"team_id"`
	PlayerID int  `json:"player_id"`
	KickNo   int  `json:"kick_no"`
	Scored   bool `json:"scored"`
}

type BookingInput struct {
	TeamID   int             `json:"team_id"`
	PlayerID int             `json:"player_id"`
	Card     models.CardType `json:"card"`
	SentOff  bool            `json:"sent_off"`
}

// ReminderOutcome reports the delivery attempt for one team contact.
type ReminderOutcome struct {
	TeamName string `json:"team_name"`
	Email    string `json:"email,omitempty"`
	Sent     bool   `json:"sent"`
	Error    string `json:"error,omitempty"`
}

type MatchService interface {
	CreateFixture(ctx context.Context, input CreateMatchInput) (*models.Match, error)
	// GetByID loads the match with its goal events, shootout kicks and
	// bookings attached.
	GetByID(ctx context.Context, id int) (*models.Match, error)
	List(ctx context.Context, filter repositories.MatchFilter) ([]*models.Match, error)
	Delete(ctx context.Context, id int) error

	AddGoalEvent(ctx context.Context, matchID int, input GoalEventInput) (*models.GoalEvent, error)
	AddPenaltyKick(ctx context.Context, matchID int, input PenaltyKickInput) (*models.PenaltyKick, error)
	AddBooking(ctx context.Context, matchID int, input BookingInput) (*models.Booking, error)

	// SendReminders mails both team contacts about an upcoming match.
	// Individual delivery failures do not fail the whole call.
	SendReminders(ctx context.Context, matchID int) ([]ReminderOutcome, error)
}

type matchService struct {
	matchRepo    repositories.MatchRepository
	standingRepo repositories.StandingRepository
	venueRepo    repositories.VenueRepository
	teamRepo     repositories.TeamRepository
	emails       EmailService
	logger       *slog.Logger
}

func NewMatchService(
	matchRepo repositories.MatchRepository,
	standingRepo repositories.StandingRepository,
	venueRepo repositories.VenueRepository,
	teamRepo repositories.TeamRepository,
	emails EmailService,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		matchRepo:    matchRepo,
		standingRepo: standingRepo,
		venueRepo:    venueRepo,
		teamRepo:     teamRepo,
		emails:       emails,
		logger:       logger,
	}
}

func (s *matchService) CreateFixture(ctx context.Context, input CreateMatchInput) (*models.Match, error) {
	if input.HomeTeamID == input.AwayTeamID {
		return nil, ErrSameTeam
	}
	if _, err := s.venueRepo.GetByID(ctx, input.VenueID); err != nil {
		if errors.Is(err, repositories.ErrVenueNotFound) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}

	// Fixtures may only pair teams that are assigned to the tournament,
	// otherwise the standings update at result time would have no rows to
	// write to.
	for _, teamID := range []int{input.HomeTeamID, input.AwayTeamID} {
		if _, err := s.standingRepo.GetByTournamentAndTeam(ctx, nil, input.TournamentID, teamID); err != nil {
			if errors.Is(err, repositories.ErrStandingNotFound) {
				return nil, ErrTeamsNotInTournament
			}
			return nil, err
		}
	}

	match := &models.Match{
		TournamentID: input.TournamentID,
		Stage:        input.Stage,
		Date:         input.Date,
		HomeTeamID:   input.HomeTeamID,
		AwayTeamID:   input.AwayTeamID,
		VenueID:      input.VenueID,
		Audience:     input.Audience,
		Status:       models.MatchStatusUpcoming,
	}
	if err := s.matchRepo.Create(ctx, nil, match); err != nil {
		if errors.Is(err, repositories.ErrMatchRefInvalid) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.matchRepo.GetByID(ctx, match.ID)
}

func (s *matchService) GetByID(ctx context.Context, id int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		goals, err := s.matchRepo.ListGoalEvents(gctx, id)
		if err == nil {
			match.Goals = goals
		}
		return err
	})
	g.Go(func() error {
		kicks, err := s.matchRepo.ListPenaltyKicks(gctx, id)
		if err == nil {
			match.Shootout = kicks
		}
		return err
	})
	g.Go(func() error {
		bookings, err := s.matchRepo.ListBookings(gctx, id)
		if err == nil {
			match.Bookings = bookings
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return match, nil
}

func (s *matchService) List(ctx context.Context, filter repositories.MatchFilter) ([]*models.Match, error) {
	return s.matchRepo.List(ctx, filter)
}

func (s *matchService) Delete(ctx context.Context, id int) error {
	if err := s.matchRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return ErrMatchNotFound
		}
		return err
	}
	return nil
}

// loadMatchForEvent fetches the match and checks the event's team is one of
// the two playing teams.
func (s *matchService) loadMatchForEvent(ctx context.Context, matchID, teamID int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	if teamID != match.HomeTeamID && teamID != match.AwayTeamID {
		return nil, ErrEventTeamNotInMatch
	}
	return match, nil
}

func (s *matchService) AddGoalEvent(ctx context.Context, matchID int, input GoalEventInput) (*models.GoalEvent, error) {
	switch input.Type {
	case models.GoalTypeNormal, models.GoalTypePenalty, models.GoalTypeOwnGoal:
	default:
		return nil, ErrValidationFailed
	}
	if input.Minute < 0 {
		return nil, ErrValidationFailed
	}
	if _, err := s.loadMatchForEvent(ctx, matchID, input.TeamID); err != nil {
		return nil, err
	}

	goal := &models.GoalEvent{
		MatchID:  matchID,
		TeamID:   input.TeamID,
		PlayerID: input.PlayerID,
		Minute:   input.Minute,
		Type:     input.Type,
		Period:   input.Period,
	}
	if err := s.matchRepo.AddGoalEvent(ctx, goal); err != nil {
		if errors.Is(err, repositories.ErrMatchEventRefInvalid) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return goal, nil
}

func (s *matchService) AddPenaltyKick(ctx context.Context, matchID int, input PenaltyKickInput) (*models.PenaltyKick, error) {
	if input.KickNo < 1 {
		return nil, ErrValidationFailed
	}
	if _, err := s.loadMatchForEvent(ctx, matchID, input.TeamID); err != nil {
		return nil, err
	}

	kick := &models.PenaltyKick{
		MatchID:  matchID,
		TeamID:   input.TeamID,
		PlayerID: input.PlayerID,
		KickNo:   input.KickNo,
		Scored:   input.Scored,
	}
	if err := s.matchRepo.AddPenaltyKick(ctx, kick); err != nil {
		if errors.Is(err, repositories.ErrMatchEventRefInvalid) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return kick, nil
}

func (s *matchService) AddBooking(ctx context.Context, matchID int, input BookingInput) (*models.Booking, error) {
	switch input.Card {
	case models.CardYellow, models.CardRed:
	default:
		return nil, ErrValidationFailed
	}
	if _, err := s.loadMatchForEvent(ctx, matchID, input.TeamID); err != nil {
		return nil, err
	}

	booking := &models.Booking{
		MatchID:  matchID,
		TeamID:   input.TeamID,
		PlayerID: input.PlayerID,
		Card:     input.Card,
		SentOff:  input.SentOff || input.Card == models.CardRed,
	}
	if err := s.matchRepo.AddBooking(ctx, booking); err != nil {
		if errors.Is(err, repositories.ErrMatchEventRefInvalid) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return booking, nil
}

func (s *matchService) SendReminders(ctx context.Context, matchID int) ([]ReminderOutcome, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	if match.Status != models.MatchStatusUpcoming {
		return nil, ErrMatchNotUpcoming
	}

	teamIDs := []int{match.HomeTeamID, match.AwayTeamID}
	outcomes := make([]ReminderOutcome, len(teamIDs))

	g, gctx := errgroup.WithContext(ctx)
	for i, teamID := range teamIDs {
		i, teamID := i, teamID
		g.Go(func() error {
			team, err := s.teamRepo.GetByID(gctx, teamID)
			if err != nil {
				return err
			}
			outcomes[i].TeamName = team.Name
			if team.ContactEmail == nil {
				outcomes[i].Error = "no contact email on file"
				return nil
			}
			outcomes[i].Email = *team.ContactEmail
			if err := s.emails.SendMatchReminderEmail(*team.ContactEmail, team.Name, match); err != nil {
				s.logger.Error("failed to send match reminder",
					slog.Int("match_id", matchID),
					slog.String("team", team.Name),
					slog.Any("error", err))
				outcomes[i].Error = err.Error()
				return nil
			}
			outcomes[i].Sent = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}
