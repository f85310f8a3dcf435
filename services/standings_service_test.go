package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ksu-sports/tournament-backend/models"
	"github.com/ksu-sports/tournament-backend/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func upcomingMatch(tournamentID, homeID, awayID int) *models.Match {
	return &models.Match{
		ID:           42,
		TournamentID: tournamentID,
		Stage:        "group_A",
		Date:         time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC),
		HomeTeamID:   homeID,
		AwayTeamID:   awayID,
		VenueID:      1,
		Status:       models.MatchStatusUpcoming,
	}
}

func standingRow(tournamentID, teamID int) *models.TournamentTeam {
	return &models.TournamentTeam{
		ID:           teamID * 100,
		TournamentID: tournamentID,
		TeamID:       teamID,
		GroupLabel:   "A",
	}
}

type standingsFixture struct {
	matchRepo      *mockMatchRepo
	standingRepo   *mockStandingRepo
	tournamentRepo *mockTournamentRepo
	hub            *fakeBroadcaster
	svc            StandingsService
}

func newStandingsFixture(t *testing.T) *standingsFixture {
	t.Helper()
	f := &standingsFixture{
		matchRepo:      new(mockMatchRepo),
		standingRepo:   new(mockStandingRepo),
		tournamentRepo: new(mockTournamentRepo),
		hub:            new(fakeBroadcaster),
	}
	f.svc = NewStandingsService(
		&fakeTxManager{}, f.matchRepo, f.standingRepo, f.tournamentRepo, f.hub, discardLogger())
	return f
}

// expectCommonWrites wires the calls every successful RecordResult makes
// after the standings math itself.
func (f *standingsFixture) expectCommonWrites(home, away *models.TournamentTeam) {
	f.standingRepo.On("Update", mock.Anything, mock.Anything, home).Return(nil)
	f.standingRepo.On("Update", mock.Anything, mock.Anything, away).Return(nil)
	f.matchRepo.On("UpdateResult", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.standingRepo.On("ListByGroup", mock.Anything, mock.Anything, home.TournamentID, "A").
		Return([]*models.TournamentTeam{home, away}, nil)
	f.standingRepo.On("UpdateGroupPositions", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.standingRepo.On("ListByTournament", mock.Anything, mock.Anything, home.TournamentID, true).
		Return([]*models.TournamentTeam{home, away}, nil)
}

func TestRecordResultHomeWin(t *testing.T) {
	f := newStandingsFixture(t)
	match := upcomingMatch(7, 1, 2)
	home := standingRow(7, 1)
	away := standingRow(7, 2)

	f.matchRepo.On("GetByIDForUpdate", mock.Anything, mock.Anything, 42).Return(match, nil)
	f.standingRepo.On("GetByTournamentAndTeam", mock.Anything, mock.Anything, 7, 1).Return(home, nil)
	f.standingRepo.On("GetByTournamentAndTeam", mock.Anything, mock.Anything, 7, 2).Return(away, nil)
	f.expectCommonWrites(home, away)

	got, err := f.svc.RecordResult(context.Background(), RecordResultInput{
		MatchID:   42,
		HomeGoals: 3,
		AwayGoals: 1,
		DecidedBy: models.DecidedNormalTime,
	})
	require.NoError(t, err)

	assert.Equal(t, models.MatchStatusCompleted, got.Status)
	require.NotNil(t, got.WinnerTeamID)
	assert.Equal(t, 1, *got.WinnerTeamID)

	assert.Equal(t, 1, home.Wins)
	assert.Equal(t, 3, home.Points)
	assert.Equal(t, 1, home.MatchesPlayed)
	assert.Equal(t, 2, home.GoalDifference)

	assert.Equal(t, 1, away.Losses)
	assert.Equal(t, 0, away.Points)
	assert.Equal(t, -2, away.GoalDifference)

	// Group positions were recomputed inside the transaction.
	require.NotNil(t, home.GroupPosition)
	require.NotNil(t, away.GroupPosition)

	// Live subscribers got the refreshed table.
	require.Len(t, f.hub.rooms, 1)
	assert.Equal(t, "tournament_7", f.hub.rooms[0])
}

func TestRecordResultShootout(t *testing.T) {
	f := newStandingsFixture(t)
	match := upcomingMatch(7, 1, 2)
	home := standingRow(7, 1)
	away := standingRow(7, 2)
	winner := 2

	f.matchRepo.On("GetByIDForUpdate", mock.Anything, mock.Anything, 42).Return(match, nil)
	f.standingRepo.On("GetByTournamentAndTeam", mock.Anything, mock.Anything, 7, 1).Return(home, nil)
	f.standingRepo.On("GetByTournamentAndTeam", mock.Anything, mock.Anything, 7, 2).Return(away, nil)
	f.expectCommonWrites(home, away)

	got, err := f.svc.RecordResult(context.Background(), RecordResultInput{
		MatchID:              42,
		HomeGoals:            2,
		AwayGoals:            2,
		DecidedBy:            models.DecidedByPenalty,
		ShootoutWinnerTeamID: &winner,
	})
	require.NoError(t, err)

	// A shootout counts as a draw for points; only the shootout counter
	// separates the teams.
	assert.Equal(t, 1, home.Draws)
	assert.Equal(t, 1, home.Points)
	assert.Equal(t, 0, home.ShootoutWins)
	assert.Equal(t, 1, away.Draws)
	assert.Equal(t, 1, away.Points)
	assert.Equal(t, 1, away.ShootoutWins)
	assert.Equal(t, 0, home.Wins+home.Losses+away.Wins+away.Losses)

	require.NotNil(t, got.WinnerTeamID)
	assert.Equal(t, 2, *got.WinnerTeamID)
}

func TestRecordResultValidation(t *testing.T) {
	winner := 1
	tests := []struct {
		name    string
		input   RecordResultInput
		wantErr error
	}{
		{
			name:    "negative score",
			input:   RecordResultInput{MatchID: 42, HomeGoals: -1, DecidedBy: models.DecidedNormalTime},
			wantErr: ErrNegativeScore,
		},
		{
			name:    "unknown decision method",
			input:   RecordResultInput{MatchID: 42, DecidedBy: "golden_goal"},
			wantErr: ErrInvalidDecisionMethod,
		},
		{
			name:    "shootout with unlevel score",
			input:   RecordResultInput{MatchID: 42, HomeGoals: 2, AwayGoals: 1, DecidedBy: models.DecidedByPenalty, ShootoutWinnerTeamID: &winner},
			wantErr: ErrShootoutScoreNotLevel,
		},
		{
			name:    "shootout without winner",
			input:   RecordResultInput{MatchID: 42, HomeGoals: 1, AwayGoals: 1, DecidedBy: models.DecidedByPenalty},
			wantErr: ErrShootoutWinnerRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newStandingsFixture(t)
			_, err := f.svc.RecordResult(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRecordResultShootoutWinnerNotPlaying(t *testing.T) {
	f := newStandingsFixture(t)
	match := upcomingMatch(7, 1, 2)
	winner := 99

	f.matchRepo.On("GetByIDForUpdate", mock.Anything, mock.Anything, 42).Return(match, nil)

	_, err := f.svc.RecordResult(context.Background(), RecordResultInput{
		MatchID:              42,
		HomeGoals:            0,
		AwayGoals:            0,
		DecidedBy:            models.DecidedByPenalty,
		ShootoutWinnerTeamID: &winner,
	})
	assert.ErrorIs(t, err, ErrShootoutWinnerNotPlaying)
	f.standingRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecordResultAlreadyRecorded(t *testing.T) {
	f := newStandingsFixture(t)
	match := upcomingMatch(7, 1, 2)
	match.Status = models.MatchStatusCompleted
	two, zero := 2, 0
	decided := models.DecidedNormalTime
	match.HomeScore, match.AwayScore, match.DecidedBy = &two, &zero, &decided

	f.matchRepo.On("GetByIDForUpdate", mock.Anything, mock.Anything, 42).Return(match, nil)

	_, err := f.svc.RecordResult(context.Background(), RecordResultInput{
		MatchID:   42,
		HomeGoals: 1,
		AwayGoals: 1,
		DecidedBy: models.DecidedNormalTime,
	})
	assert.ErrorIs(t, err, ErrResultAlreadyRecorded)
	f.standingRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, f.hub.rooms)
}

func TestRecordResultAmendReversesPreviousResult(t *testing.T) {
	f := newStandingsFixture(t)
	match := upcomingMatch(7, 1, 2)

	// Previously recorded as a 2-0 home win.
	two, zero := 2, 0
	decided := models.DecidedNormalTime
	winner := 1
	match.Status = models.MatchStatusCompleted
	match.HomeScore, match.AwayScore = &two, &zero
	match.DecidedBy = &decided
	match.WinnerTeamID = &winner

	home := standingRow(7, 1)
	home.Wins, home.GoalsFor, home.GoalsAgainst = 1, 2, 0
	home.MatchesPlayed, home.GoalDifference, home.Points = 1, 2, 3
	away := standingRow(7, 2)
	away.Losses, away.GoalsFor, away.GoalsAgainst = 1, 0, 2
	away.MatchesPlayed, away.GoalDifference, away.Points = 1, -2, 0

	f.matchRepo.On("GetByIDForUpdate", mock.Anything, mock.Anything, 42).Return(match, nil)
	f.standingRepo.On("GetByTournamentAndTeam", mock.Anything, mock.Anything, 7, 1).Return(home, nil)
	f.standingRepo.On("GetByTournamentAndTeam", mock.Anything, mock.Anything, 7, 2).Return(away, nil)
	f.expectCommonWrites(home, away)

	// Corrected to a 1-1 draw.
	got, err := f.svc.RecordResult(context.Background(), RecordResultInput{
		MatchID:   42,
		HomeGoals: 1,
		AwayGoals: 1,
		DecidedBy: models.DecidedNormalTime,
		Amend:     true,
	})
	require.NoError(t, err)

	// The old result is fully reversed, never double counted.
	assert.Equal(t, 1, home.MatchesPlayed)
	assert.Equal(t, 0, home.Wins)
	assert.Equal(t, 1, home.Draws)
	assert.Equal(t, 1, home.Points)
	assert.Equal(t, 0, home.GoalDifference)

	assert.Equal(t, 1, away.MatchesPlayed)
	assert.Equal(t, 0, away.Losses)
	assert.Equal(t, 1, away.Draws)
	assert.Equal(t, 1, away.Points)
	assert.Equal(t, 0, away.GoalDifference)

	assert.Nil(t, got.WinnerTeamID)
	require.NotNil(t, got.HomeScore)
	assert.Equal(t, 1, *got.HomeScore)
}

func TestRecordResultTeamsNotInTournament(t *testing.T) {
	f := newStandingsFixture(t)
	match := upcomingMatch(7, 1, 2)

	f.matchRepo.On("GetByIDForUpdate", mock.Anything, mock.Anything, 42).Return(match, nil)
	f.standingRepo.On("GetByTournamentAndTeam", mock.Anything, mock.Anything, 7, 1).
		Return(nil, repositories.ErrStandingNotFound)

	_, err := f.svc.RecordResult(context.Background(), RecordResultInput{
		MatchID:   42,
		HomeGoals: 1,
		AwayGoals: 0,
		DecidedBy: models.DecidedNormalTime,
	})
	assert.ErrorIs(t, err, ErrTeamsNotInTournament)
}

func TestRecordResultMatchNotFound(t *testing.T) {
	f := newStandingsFixture(t)
	f.matchRepo.On("GetByIDForUpdate", mock.Anything, mock.Anything, 42).
		Return(nil, repositories.ErrMatchNotFound)

	_, err := f.svc.RecordResult(context.Background(), RecordResultInput{
		MatchID:   42,
		DecidedBy: models.DecidedNormalTime,
	})
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestGetStandingsTournamentNotFound(t *testing.T) {
	f := newStandingsFixture(t)
	f.tournamentRepo.On("GetByID", mock.Anything, 7).
		Return(nil, repositories.ErrTournamentNotFound)

	_, err := f.svc.GetStandings(context.Background(), 7)
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}

func TestApplyOutcomeRoundTrip(t *testing.T) {
	home := standingRow(7, 1)
	away := standingRow(7, 2)

	applyOutcome(home, away, 4, 2, models.DecidedNormalTime, &home.TeamID, +1)
	applyOutcome(home, away, 4, 2, models.DecidedNormalTime, &home.TeamID, -1)

	// Applying and reversing the same outcome leaves both rows untouched.
	assert.Equal(t, standingRow(7, 1), home)
	assert.Equal(t, standingRow(7, 2), away)
}
