package services

import (
	"context"
	"testing"

	"github.com/ksu-sports/tournament-backend/models"
	"github.com/ksu-sports/tournament-backend/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type matchFixture struct {
	matchRepo    *mockMatchRepo
	standingRepo *mockStandingRepo
	venueRepo    *mockVenueRepo
	teamRepo     *mockTeamRepo
	emails       *mockEmailService
	svc          MatchService
}

func newMatchFixture(t *testing.T) *matchFixture {
	t.Helper()
	f := &matchFixture{
		matchRepo:    new(mockMatchRepo),
		standingRepo: new(mockStandingRepo),
		venueRepo:    new(mockVenueRepo),
		teamRepo:     new(mockTeamRepo),
		emails:       new(mockEmailService),
	}
	f.svc = NewMatchService(f.matchRepo, f.standingRepo, f.venueRepo, f.teamRepo, f.emails, discardLogger())
	return f
}

func TestCreateFixtureSameTeam(t *testing.T) {
	f := newMatchFixture(t)
	_, err := f.svc.CreateFixture(context.Background(), CreateMatchInput{
		TournamentID: 7, HomeTeamID: 1, AwayTeamID: 1, VenueID: 3,
	})
	assert.ErrorIs(t, err, ErrSameTeam)
	f.matchRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateFixtureTeamNotAssigned(t *testing.T) {
	f := newMatchFixture(t)
	f.venueRepo.On("GetByID", mock.Anything, 3).Return(&models.Venue{ID: 3}, nil)
	f.standingRepo.On("GetByTournamentAndTeam", mock.Anything, mock.Anything, 7, 1).
		Return(standingRow(7, 1), nil)
	f.standingRepo.On("GetByTournamentAndTeam", mock.Anything, mock.Anything, 7, 2).
		Return(nil, repositories.ErrStandingNotFound)

	_, err := f.svc.CreateFixture(context.Background(), CreateMatchInput{
		TournamentID: 7, HomeTeamID: 1, AwayTeamID: 2, VenueID: 3,
	})
	assert.ErrorIs(t, err, ErrTeamsNotInTournament)
}

func TestCreateFixtureSuccess(t *testing.T) {
	f := newMatchFixture(t)
	f.venueRepo.On("GetByID", mock.Anything, 3).Return(&models.Venue{ID: 3}, nil)
	f.standingRepo.On("GetByTournamentAndTeam", mock.Anything, mock.Anything, 7, 1).
		Return(standingRow(7, 1), nil)
	f.standingRepo.On("GetByTournamentAndTeam", mock.Anything, mock.Anything, 7, 2).
		Return(standingRow(7, 2), nil)
	f.matchRepo.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(m *models.Match) bool {
		return m.Status == models.MatchStatusUpcoming && m.HomeScore == nil
	})).Run(func(args mock.Arguments) {
		args.Get(2).(*models.Match).ID = 42
	}).Return(nil)
	f.matchRepo.On("GetByID", mock.Anything, 42).
		Return(&models.Match{ID: 42, HomeTeamName: "Ants", AwayTeamName: "Bees"}, nil)

	match, err := f.svc.CreateFixture(context.Background(), CreateMatchInput{
		TournamentID: 7, HomeTeamID: 1, AwayTeamID: 2, VenueID: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ants", match.HomeTeamName)
}

func TestAddGoalEventTeamNotInMatch(t *testing.T) {
	f := newMatchFixture(t)
	f.matchRepo.On("GetByID", mock.Anything, 42).Return(upcomingMatch(7, 1, 2), nil)

	_, err := f.svc.AddGoalEvent(context.Background(), 42, GoalEventInput{
		TeamID: 99, PlayerID: 5, Minute: 10, Type: models.GoalTypeNormal,
	})
	assert.ErrorIs(t, err, ErrEventTeamNotInMatch)
}

func TestAddGoalEventInvalidType(t *testing.T) {
	f := newMatchFixture(t)
	_, err := f.svc.AddGoalEvent(context.Background(), 42, GoalEventInput{
		TeamID: 1, PlayerID: 5, Minute: 10, Type: "bicycle_kick",
	})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestAddBookingRedCardImpliesSentOff(t *testing.T) {
	f := newMatchFixture(t)
	f.matchRepo.On("GetByID", mock.Anything, 42).Return(upcomingMatch(7, 1, 2), nil)
	f.matchRepo.On("AddBooking", mock.Anything, mock.MatchedBy(func(b *models.Booking) bool {
		return b.SentOff
	})).Return(nil)

	booking, err := f.svc.AddBooking(context.Background(), 42, BookingInput{
		TeamID: 1, PlayerID: 5, Card: models.CardRed,
	})
	require.NoError(t, err)
	assert.True(t, booking.SentOff)
}

func TestSendRemindersSkipsTeamsWithoutContact(t *testing.T) {
	f := newMatchFixture(t)
	match := upcomingMatch(7, 1, 2)
	match.HomeTeamName, match.AwayTeamName = "Ants", "Bees"
	contact := "captain@ants.example"

	f.matchRepo.On("GetByID", mock.Anything, 42).Return(match, nil)
	f.teamRepo.On("GetByID", mock.Anything, 1).
		Return(&models.Team{ID: 1, Name: "Ants", ContactEmail: &contact}, nil)
	f.teamRepo.On("GetByID", mock.Anything, 2).
		Return(&models.Team{ID: 2, Name: "Bees"}, nil)
	f.emails.On("SendMatchReminderEmail", contact, "Ants", match).Return(nil)

	outcomes, err := f.svc.SendReminders(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, outcomes, 2)

	assert.True(t, outcomes[0].Sent)
	assert.False(t, outcomes[1].Sent)
	assert.Equal(t, "no contact email on file", outcomes[1].Error)
	f.emails.AssertNumberOfCalls(t, "SendMatchReminderEmail", 1)
}

func TestSendRemindersRejectsCompletedMatch(t *testing.T) {
	f := newMatchFixture(t)
	match := upcomingMatch(7, 1, 2)
	match.Status = models.MatchStatusCompleted
	f.matchRepo.On("GetByID", mock.Anything, 42).Return(match, nil)

	_, err := f.svc.SendReminders(context.Background(), 42)
	assert.ErrorIs(t, err, ErrMatchNotUpcoming)
}

func TestGetByIDLoadsChildEvents(t *testing.T) {
	f := newMatchFixture(t)
	match := upcomingMatch(7, 1, 2)
	goals := []*models.GoalEvent{{ID: 1, Minute: 12}}
	kicks := []*models.PenaltyKick{{ID: 2, KickNo: 1, Scored: true}}
	bookings := []*models.Booking{{ID: 3, Card: models.CardYellow}}

	f.matchRepo.On("GetByID", mock.Anything, 42).Return(match, nil)
	f.matchRepo.On("ListGoalEvents", mock.Anything, 42).Return(goals, nil)
	f.matchRepo.On("ListPenaltyKicks", mock.Anything, 42).Return(kicks, nil)
	f.matchRepo.On("ListBookings", mock.Anything, 42).Return(bookings, nil)

	got, err := f.svc.GetByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, goals, got.Goals)
	assert.Equal(t, kicks, got.Shootout)
	assert.Equal(t, bookings, got.Bookings)
}
