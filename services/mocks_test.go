package services

import (
	"context"
	"time"

	"github.com/ksu-sports/tournament-backend/models"
	"github.com/ksu-sports/tournament-backend/repositories"
	"github.com/stretchr/testify/mock"
)

// fakeTxManager runs the callback without a real transaction so service
// logic can be exercised against mocked repositories.
type fakeTxManager struct {
	beginErr error
}

func (f *fakeTxManager) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	if f.beginErr != nil {
		return f.beginErr
	}
	return fn(nil)
}

type fakeBroadcaster struct {
	rooms    []string
	messages []interface{}
}

func (f *fakeBroadcaster) BroadcastToRoom(roomID string, message interface{}) {
	f.rooms = append(f.rooms, roomID)
	f.messages = append(f.messages, message)
}

type mockMatchRepo struct {
	mock.Mock
}

func (m *mockMatchRepo) Create(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	return m.Called(ctx, exec, match).Error(0)
}

func (m *mockMatchRepo) GetByID(ctx context.Context, id int) (*models.Match, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Match), args.Error(1)
}

func (m *mockMatchRepo) GetByIDForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Match, error) {
	args := m.Called(ctx, exec, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Match), args.Error(1)
}

func (m *mockMatchRepo) List(ctx context.Context, filter repositories.MatchFilter) ([]*models.Match, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Match), args.Error(1)
}

func (m *mockMatchRepo) UpdateResult(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	return m.Called(ctx, exec, match).Error(0)
}

func (m *mockMatchRepo) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockMatchRepo) AddGoalEvent(ctx context.Context, goal *models.GoalEvent) error {
	return m.Called(ctx, goal).Error(0)
}

func (m *mockMatchRepo) ListGoalEvents(ctx context.Context, matchID int) ([]*models.GoalEvent, error) {
	args := m.Called(ctx, matchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.GoalEvent), args.Error(1)
}

func (m *mockMatchRepo) AddPenaltyKick(ctx context.Context, kick *models.PenaltyKick) error {
	return m.Called(ctx, kick).Error(0)
}

func (m *mockMatchRepo) ListPenaltyKicks(ctx context.Context, matchID int) ([]*models.PenaltyKick, error) {
	args := m.Called(ctx, matchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PenaltyKick), args.Error(1)
}

func (m *mockMatchRepo) AddBooking(ctx context.Context, booking *models.Booking) error {
	return m.Called(ctx, booking).Error(0)
}

func (m *mockMatchRepo) ListBookings(ctx context.Context, matchID int) ([]*models.Booking, error) {
	args := m.Called(ctx, matchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Booking), args.Error(1)
}

type mockStandingRepo struct {
	mock.Mock
}

func (m *mockStandingRepo) Create(ctx context.Context, exec repositories.SQLExecutor, standing *models.TournamentTeam) error {
	return m.Called(ctx, exec, standing).Error(0)
}

func (m *mockStandingRepo) GetByTournamentAndTeam(ctx context.Context, exec repositories.SQLExecutor, tournamentID, teamID int) (*models.TournamentTeam, error) {
	args := m.Called(ctx, exec, tournamentID, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TournamentTeam), args.Error(1)
}

func (m *mockStandingRepo) Update(ctx context.Context, exec repositories.SQLExecutor, standing *models.TournamentTeam) error {
	return m.Called(ctx, exec, standing).Error(0)
}

func (m *mockStandingRepo) ListByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int, ranked bool) ([]*models.TournamentTeam, error) {
	args := m.Called(ctx, exec, tournamentID, ranked)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TournamentTeam), args.Error(1)
}

func (m *mockStandingRepo) ListByGroup(ctx context.Context, exec repositories.SQLExecutor, tournamentID int, groupLabel string) ([]*models.TournamentTeam, error) {
	args := m.Called(ctx, exec, tournamentID, groupLabel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TournamentTeam), args.Error(1)
}

func (m *mockStandingRepo) ListByTeam(ctx context.Context, teamID int) ([]*models.TournamentTeam, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TournamentTeam), args.Error(1)
}

func (m *mockStandingRepo) UpdateGroupPositions(ctx context.Context, exec repositories.SQLExecutor, standings []*models.TournamentTeam) error {
	return m.Called(ctx, exec, standings).Error(0)
}

func (m *mockStandingRepo) Delete(ctx context.Context, tournamentID, teamID int) error {
	return m.Called(ctx, tournamentID, teamID).Error(0)
}

type mockTournamentRepo struct {
	mock.Mock
}

func (m *mockTournamentRepo) Create(ctx context.Context, tournament *models.Tournament) error {
	return m.Called(ctx, tournament).Error(0)
}

func (m *mockTournamentRepo) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tournament), args.Error(1)
}

func (m *mockTournamentRepo) List(ctx context.Context) ([]*models.Tournament, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Tournament), args.Error(1)
}

func (m *mockTournamentRepo) Update(ctx context.Context, tournament *models.Tournament) error {
	return m.Called(ctx, tournament).Error(0)
}

func (m *mockTournamentRepo) UpdateLogoKey(ctx context.Context, id int, logoKey *string) error {
	return m.Called(ctx, id, logoKey).Error(0)
}

func (m *mockTournamentRepo) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockUserRepo) SetPasswordResetToken(ctx context.Context, userID int, token string, expiresAt time.Time) error {
	return m.Called(ctx, userID, token, expiresAt).Error(0)
}

func (m *mockUserRepo) GetByPasswordResetToken(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type mockStatsRepo struct {
	mock.Mock
}

func (m *mockStatsRepo) TopScorers(ctx context.Context, tournamentID *int, limit int) ([]*models.PlayerGoals, error) {
	args := m.Called(ctx, tournamentID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PlayerGoals), args.Error(1)
}

func (m *mockStatsRepo) RedCardLeaders(ctx context.Context, tournamentID *int) ([]*models.PlayerRedCards, error) {
	args := m.Called(ctx, tournamentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PlayerRedCards), args.Error(1)
}

func (m *mockStatsRepo) RecentMatches(ctx context.Context, tournamentID, limit int) ([]*models.Match, error) {
	args := m.Called(ctx, tournamentID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Match), args.Error(1)
}

func (m *mockStatsRepo) UpcomingMatches(ctx context.Context, tournamentID, limit int) ([]*models.Match, error) {
	args := m.Called(ctx, tournamentID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Match), args.Error(1)
}

type mockVenueRepo struct {
	mock.Mock
}

func (m *mockVenueRepo) Create(ctx context.Context, venue *models.Venue) error {
	return m.Called(ctx, venue).Error(0)
}

func (m *mockVenueRepo) GetByID(ctx context.Context, id int) (*models.Venue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Venue), args.Error(1)
}

func (m *mockVenueRepo) List(ctx context.Context) ([]*models.Venue, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Venue), args.Error(1)
}

func (m *mockVenueRepo) Update(ctx context.Context, venue *models.Venue) error {
	return m.Called(ctx, venue).Error(0)
}

func (m *mockVenueRepo) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

type mockTeamRepo struct {
	mock.Mock
}

func (m *mockTeamRepo) Create(ctx context.Context, team *models.Team) error {
	return m.Called(ctx, team).Error(0)
}

func (m *mockTeamRepo) GetByID(ctx context.Context, id int) (*models.Team, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}

func (m *mockTeamRepo) List(ctx context.Context) ([]*models.Team, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Team), args.Error(1)
}

func (m *mockTeamRepo) Update(ctx context.Context, team *models.Team) error {
	return m.Called(ctx, team).Error(0)
}

func (m *mockTeamRepo) UpdateLogoKey(ctx context.Context, id int, logoKey *string) error {
	return m.Called(ctx, id, logoKey).Error(0)
}

func (m *mockTeamRepo) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

type mockEmailService struct {
	mock.Mock
}

func (m *mockEmailService) SendWelcomeEmail(to, username string) error {
	return m.Called(to, username).Error(0)
}

func (m *mockEmailService) SendPasswordResetEmail(to, resetToken string) error {
	return m.Called(to, resetToken).Error(0)
}

func (m *mockEmailService) SendMatchReminderEmail(to, teamName string, match *models.Match) error {
	return m.Called(to, teamName, match).Error(0)
}
