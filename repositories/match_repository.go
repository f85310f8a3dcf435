package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ksu-sports/tournament-backend/models"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound        = errors.New("match not found")
	ErrMatchRefInvalid      = errors.New("match team, venue or tournament invalid")
	ErrMatchEventRefInvalid = errors.New("match event player or team invalid")
)

// MatchFilter narrows match listings.
type MatchFilter struct {
	TournamentID *int
	TeamID       *int
	Status       *models.MatchStatus
	DateDesc     bool
}

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	// GetByIDForUpdate locks the match row for the duration of the
	// surrounding transaction.
	GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	List(ctx context.Context, filter MatchFilter) ([]*models.Match, error)
	UpdateResult(ctx context.Context, exec SQLExecutor, match *models.Match) error
	Delete(ctx context.Context, id int) error

	AddGoalEvent(ctx context.Context, goal *models.GoalEvent) error
	ListGoalEvents(ctx context.Context, matchID int) ([]*models.GoalEvent, error)
	AddPenaltyKick(ctx context.Context, kick *models.PenaltyKick) error
	ListPenaltyKicks(ctx context.Context, matchID int) ([]*models.PenaltyKick, error)
	AddBooking(ctx context.Context, booking *models.Booking) error
	ListBookings(ctx context.Context, matchID int) ([]*models.Booking, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO matches
			(tournament_id, stage, match_date, home_team_id, away_team_id,
			 venue_id, audience, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		match.TournamentID,
		match.Stage,
		match.Date,
		match.HomeTeamID,
		match.AwayTeamID,
		match.VenueID,
		match.Audience,
		match.Status,
	).Scan(&match.ID, &match.CreatedAt)

	return mapMatchConstraintError(err)
}

const matchColumns = `
	m.id, m.tournament_id, m.stage, m.match_date, m.home_team_id, m.away_team_id,
	m.venue_id, m.audience, m.status, m.home_score, m.away_score, m.decided_by,
	m.winner_team_id, m.player_of_match_id, m.created_at,
	home.name, away.name, v.name`

const matchJoins = `
	FROM matches m
	JOIN teams home ON m.home_team_id = home.id
	JOIN teams away ON m.away_team_id = away.id
	JOIN venues v ON m.venue_id = v.id`

func (r *postgresMatchRepository) scanMatch(rowScanner interface{ Scan(...interface{}) error }) (*models.Match, error) {
	m := &models.Match{}
	err := rowScanner.Scan(
		&m.ID, &m.TournamentID, &m.Stage, &m.Date, &m.HomeTeamID, &m.AwayTeamID,
		&m.VenueID, &m.Audience, &m.Status, &m.HomeScore, &m.AwayScore, &m.DecidedBy,
		&m.WinnerTeamID, &m.PlayerOfMatchID, &m.CreatedAt,
		&m.HomeTeamName, &m.AwayTeamName, &m.VenueName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := "SELECT" + matchColumns + matchJoins + " WHERE m.id = $1"
	return r.scanMatch(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresMatchRepository) GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	executor := r.getExecutor(exec)
	// Joined names are looked up separately so the lock stays on the
	// matches row alone.
	query := `
		SELECT id, tournament_id, stage, match_date, home_team_id, away_team_id,
		       venue_id, audience, status, home_score, away_score, decided_by,
		       winner_team_id, player_of_match_id, created_at
		FROM matches
		WHERE id = $1
		FOR UPDATE`

	m := &models.Match{}
	err := executor.QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.TournamentID, &m.Stage, &m.Date, &m.HomeTeamID, &m.AwayTeamID,
		&m.VenueID, &m.Audience, &m.Status, &m.HomeScore, &m.AwayScore, &m.DecidedBy,
		&m.WinnerTeamID, &m.PlayerOfMatchID, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to lock match %d: %w", id, err)
	}
	return m, nil
}

func (r *postgresMatchRepository) List(ctx context.Context, filter MatchFilter) ([]*models.Match, error) {
	query := "SELECT" + matchColumns + matchJoins + " WHERE 1=1"
	args := make([]interface{}, 0, 3)

	if filter.TournamentID != nil {
		args = append(args, *filter.TournamentID)
		query += fmt.Sprintf(" AND m.tournament_id = $%d", len(args))
	}
	if filter.TeamID != nil {
		args = append(args, *filter.TeamID)
		query += fmt.Sprintf(" AND (m.home_team_id = $%d OR m.away_team_id = $%d)", len(args), len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" AND m.status = $%d", len(args))
	}
	if filter.DateDesc {
		query += " ORDER BY m.match_date DESC"
	} else {
		query += " ORDER BY m.match_date ASC"
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m, errScan := r.scanMatch(rows)
		if errScan != nil {
			return nil, errScan
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *postgresMatchRepository) UpdateResult(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE matches SET
			status = $1,
			home_score = $2,
			away_score = $3,
			decided_by = $4,
			winner_team_id = $5,
			player_of_match_id = $6
		WHERE id = $7`

	result, err := executor.ExecContext(ctx, query,
		match.Status,
		match.HomeScore,
		match.AwayScore,
		match.DecidedBy,
		match.WinnerTeamID,
		match.PlayerOfMatchID,
		match.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) Delete(ctx context.Context, id int) error {
	// Goal events, shootout kicks and bookings cascade via FK constraints.
	result, err := r.db.ExecContext(ctx, `DELETE FROM matches WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) AddGoalEvent(ctx context.Context, goal *models.GoalEvent) error {
	query := `
		INSERT INTO goal_events (match_id, team_id, player_id, minute, goal_type, period)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		goal.MatchID, goal.TeamID, goal.PlayerID, goal.Minute, goal.Type, goal.Period,
	).Scan(&goal.ID)
	return mapMatchEventConstraintError(err)
}

func (r *postgresMatchRepository) ListGoalEvents(ctx context.Context, matchID int) ([]*models.GoalEvent, error) {
	query := `
		SELECT ge.id, ge.match_id, ge.team_id, ge.player_id, ge.minute, ge.goal_type, ge.period,
		       p.name, t.name
		FROM goal_events ge
		JOIN players p ON ge.player_id = p.id
		JOIN teams t ON ge.team_id = t.id
		WHERE ge.match_id = $1
		ORDER BY ge.minute ASC, ge.id ASC`

	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	goals := make([]*models.GoalEvent, 0)
	for rows.Next() {
		g := &models.GoalEvent{}
		if err := rows.Scan(
			&g.ID, &g.MatchID, &g.TeamID, &g.PlayerID, &g.Minute, &g.Type, &g.Period,
			&g.PlayerName, &g.TeamName,
		); err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return goals, nil
}

func (r *postgresMatchRepository) AddPenaltyKick(ctx context.Context, kick *models.PenaltyKick) error {
	query := `
		INSERT INTO penalty_kicks (match_id, team_id, player_id, kick_no, scored)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		kick.MatchID, kick.TeamID, kick.PlayerID, kick.KickNo, kick.Scored,
	).Scan(&kick.ID)
	return mapMatchEventConstraintError(err)
}

func (r *postgresMatchRepository) ListPenaltyKicks(ctx context.Context, matchID int) ([]*models.PenaltyKick, error) {
	query := `
		SELECT pk.id, pk.match_id, pk.team_id, pk.player_id, pk.kick_no, pk.scored,
		       p.name, t.name
		FROM penalty_kicks pk
		JOIN players p ON pk.player_id = p.id
		JOIN teams t ON pk.team_id = t.id
		WHERE pk.match_id = $1
		ORDER BY pk.kick_no ASC`

	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	kicks := make([]*models.PenaltyKick, 0)
	for rows.Next() {
		k := &models.PenaltyKick{}
		if err := rows.Scan(
			&k.ID, &k.MatchID, &k.TeamID, &k.PlayerID, &k.KickNo, &k.Scored,
			&k.PlayerName, &k.TeamName,
		); err != nil {
			return nil, err
		}
		kicks = append(kicks, k)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return kicks, nil
}

func (r *postgresMatchRepository) AddBooking(ctx context.Context, booking *models.Booking) error {
	query := `
		INSERT INTO bookings (match_id, team_id, player_id, card, sent_off)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		booking.MatchID, booking.TeamID, booking.PlayerID, booking.Card, booking.SentOff,
	).Scan(&booking.ID)
	return mapMatchEventConstraintError(err)
}

func (r *postgresMatchRepository) ListBookings(ctx context.Context, matchID int) ([]*models.Booking, error) {
	query := `
		SELECT b.id, b.match_id, b.team_id, b.player_id, b.card, b.sent_off,
		       p.name, t.name
		FROM bookings b
		JOIN players p ON b.player_id = p.id
		JOIN teams t ON b.team_id = t.id
		WHERE b.match_id = $1
		ORDER BY b.id ASC`

	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]*models.Booking, 0)
	for rows.Next() {
		b := &models.Booking{}
		if err := rows.Scan(
			&b.ID, &b.MatchID, &b.TeamID, &b.PlayerID, &b.Card, &b.SentOff,
			&b.PlayerName, &b.TeamName,
		); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}

func mapMatchConstraintError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
		return ErrMatchRefInvalid
	}
	return err
}

func mapMatchEventConstraintError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
		return ErrMatchEventRefInvalid
	}
	return err
}
