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

func TestTopScorersDefaultLimit(t *testing.T) {
	statsRepo := new(mockStatsRepo)
	svc := NewStatsService(statsRepo, new(mockStandingRepo), new(mockTournamentRepo))

	scorers := []*models.PlayerGoals{{PlayerID: 1, PlayerName: "Ada", Goals: 9}}
	statsRepo.On("TopScorers", mock.Anything, (*int)(nil), defaultTopScorersLimit).Return(scorers, nil)

	got, err := svc.TopScorers(context.Background(), nil, 0)
	require.NoError(t, err)
	assert.Equal(t, scorers, got)
	statsRepo.AssertExpectations(t)
}

func TestTopScorersUnknownTournament(t *testing.T) {
	statsRepo := new(mockStatsRepo)
	tournamentRepo := new(mockTournamentRepo)
	svc := NewStatsService(statsRepo, new(mockStandingRepo), tournamentRepo)

	tournamentRepo.On("GetByID", mock.Anything, 9).Return(nil, repositories.ErrTournamentNotFound)

	tid := 9
	_, err := svc.TopScorers(context.Background(), &tid, 5)
	assert.ErrorIs(t, err, ErrTournamentNotFound)
	statsRepo.AssertNotCalled(t, "TopScorers", mock.Anything, mock.Anything, mock.Anything)
}

func TestTournamentDetailFanOut(t *testing.T) {
	statsRepo := new(mockStatsRepo)
	standingRepo := new(mockStandingRepo)
	tournamentRepo := new(mockTournamentRepo)
	svc := NewStatsService(statsRepo, standingRepo, tournamentRepo)

	tournament := &models.Tournament{ID: 7, Name: "Spring Cup"}
	standings := []*models.TournamentTeam{{TournamentID: 7, TeamID: 1, Points: 6}}
	scorers := []*models.PlayerGoals{{PlayerID: 3, Goals: 4}}
	recent := []*models.Match{{ID: 1, Status: models.MatchStatusCompleted}}
	upcoming := []*models.Match{{ID: 2, Status: models.MatchStatusUpcoming}}

	tournamentRepo.On("GetByID", mock.Anything, 7).Return(tournament, nil)
	standingRepo.On("ListByTournament", mock.Anything, mock.Anything, 7, true).Return(standings, nil)
	statsRepo.On("TopScorers", mock.Anything, mock.Anything, tournamentDetailLimit).Return(scorers, nil)
	statsRepo.On("RecentMatches", mock.Anything, 7, tournamentDetailLimit).Return(recent, nil)
	statsRepo.On("UpcomingMatches", mock.Anything, 7, tournamentDetailLimit).Return(upcoming, nil)

	detail, err := svc.TournamentDetail(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, tournament, detail.Tournament)
	assert.Equal(t, standings, detail.Standings)
	assert.Equal(t, scorers, detail.TopScorers)
	assert.Equal(t, recent, detail.RecentMatches)
	assert.Equal(t, upcoming, detail.UpcomingMatches)
}

func TestTournamentDetailNotFound(t *testing.T) {
	tournamentRepo := new(mockTournamentRepo)
	svc := NewStatsService(new(mockStatsRepo), new(mockStandingRepo), tournamentRepo)

	tournamentRepo.On("GetByID", mock.Anything, 404).Return(nil, repositories.ErrTournamentNotFound)

	_, err := svc.TournamentDetail(context.Background(), 404)
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}
