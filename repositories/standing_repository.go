package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ksu-sports/tournament-backend/models"
	"github.com/lib/pq"
)

var (
	ErrStandingNotFound   = errors.New("standings row not found")
	ErrStandingConflict   = errors.New("team already assigned to this tournament")
	ErrStandingRefInvalid = errors.New("standings team or tournament invalid")
)

type StandingRepository interface {
	Create(ctx context.Context, exec SQLExecutor, standing *models.TournamentTeam) error
	GetByTournamentAndTeam(ctx context.Context, exec SQLExecutor, tournamentID, teamID int) (*models.TournamentTeam, error)
	Update(ctx context.Context, exec SQLExecutor, standing *models.TournamentTeam) error
	// ListByTournament returns standings rows with team names joined. With
	// ranked set, rows come back grouped by group label, each group in
	// standings order: points desc, goal difference desc, goals for desc,
	// team name asc.
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int, ranked bool) ([]*models.TournamentTeam, error)
	ListByGroup(ctx context.Context, exec SQLExecutor, tournamentID int, groupLabel string) ([]*models.TournamentTeam, error)
	ListByTeam(ctx context.Context, teamID int) ([]*models.TournamentTeam, error)
	UpdateGroupPositions(ctx context.Context, exec SQLExecutor, standings []*models.TournamentTeam) error
	Delete(ctx context.Context, tournamentID, teamID int) error
}

type postgresStandingRepository struct {
	db *sql.DB
}

func NewPostgresStandingRepository(db *sql.DB) StandingRepository {
	return &postgresStandingRepository{db: db}
}

func (r *postgresStandingRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresStandingRepository) Create(ctx context.Context, exec SQLExecutor, standing *models.TournamentTeam) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO tournament_teams
			(tournament_id, team_id, group_label, matches_played, wins, draws, losses,
			 shootout_wins, goals_for, goals_against, goal_difference, points, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`

	if standing.UpdatedAt.IsZero() {
		standing.UpdatedAt = time.Now()
	}
	err := executor.QueryRowContext(ctx, query,
		standing.TournamentID, standing.TeamID, standing.GroupLabel,
		standing.MatchesPlayed, standing.Wins, standing.Draws, standing.Losses,
		standing.ShootoutWins, standing.GoalsFor, standing.GoalsAgainst,
		standing.GoalDifference, standing.Points, standing.UpdatedAt,
	).Scan(&standing.ID)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				return ErrStandingConflict
			case "23503":
				return ErrStandingRefInvalid
			}
		}
		return err
	}
	return nil
}

func (r *postgresStandingRepository) scanStanding(rowScanner interface{ Scan(...interface{}) error }) (*models.TournamentTeam, error) {
	s := &models.TournamentTeam{}
	err := rowScanner.Scan(
		&s.ID, &s.TournamentID, &s.TeamID, &s.GroupLabel,
		&s.MatchesPlayed, &s.Wins, &s.Draws, &s.Losses, &s.ShootoutWins,
		&s.GoalsFor, &s.GoalsAgainst, &s.GoalDifference, &s.Points,
		&s.GroupPosition, &s.UpdatedAt, &s.TeamName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStandingNotFound
		}
		return nil, err
	}
	return s, nil
}

const standingColumns = `
	tt.id, tt.tournament_id, tt.team_id, tt.group_label,
	tt.matches_played, tt.wins, tt.draws, tt.losses, tt.shootout_wins,
	tt.goals_for, tt.goals_against, tt.goal_difference, tt.points,
	tt.group_position, tt.updated_at, t.name`

func (r *postgresStandingRepository) GetByTournamentAndTeam(ctx context.Context, exec SQLExecutor, tournamentID, teamID int) (*models.TournamentTeam, error) {
	executor := r.getExecutor(exec)
	query := "SELECT" + standingColumns + `
		FROM tournament_teams tt
		JOIN teams t ON tt.team_id = t.id
		WHERE tt.tournament_id = $1 AND tt.team_id = $2`
	return r.scanStanding(executor.QueryRowContext(ctx, query, tournamentID, teamID))
}

func (r *postgresStandingRepository) Update(ctx context.Context, exec SQLExecutor, standing *models.TournamentTeam) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE tournament_teams SET
			matches_played = $1, wins = $2, draws = $3, losses = $4,
			shootout_wins = $5, goals_for = $6, goals_against = $7,
			goal_difference = $8, points = $9, updated_at = NOW()
		WHERE id = $10`

	result, err := executor.ExecContext(ctx, query,
		standing.MatchesPlayed, standing.Wins, standing.Draws, standing.Losses,
		standing.ShootoutWins, standing.GoalsFor, standing.GoalsAgainst,
		standing.GoalDifference, standing.Points,
		standing.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrStandingNotFound)
}

func (r *postgresStandingRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int, ranked bool) ([]*models.TournamentTeam, error) {
	executor := r.getExecutor(exec)
	query := "SELECT" + standingColumns + `
		FROM tournament_teams tt
		JOIN teams t ON tt.team_id = t.id
		WHERE tt.tournament_id = $1`
	if ranked {
		query += " ORDER BY tt.group_label ASC, tt.points DESC, tt.goal_difference DESC, tt.goals_for DESC, t.name ASC"
	} else {
		query += " ORDER BY tt.group_label ASC, t.name ASC"
	}
	return r.listStandings(ctx, executor, query, tournamentID)
}

func (r *postgresStandingRepository) ListByGroup(ctx context.Context, exec SQLExecutor, tournamentID int, groupLabel string) ([]*models.TournamentTeam, error) {
	executor := r.getExecutor(exec)
	query := "SELECT" + standingColumns + `
		FROM tournament_teams tt
		JOIN teams t ON tt.team_id = t.id
		WHERE tt.tournament_id = $1 AND tt.group_label = $2
		ORDER BY tt.points DESC, tt.goal_difference DESC, tt.goals_for DESC, t.name ASC`
	return r.listStandings(ctx, executor, query, tournamentID, groupLabel)
}

func (r *postgresStandingRepository) ListByTeam(ctx context.Context, teamID int) ([]*models.TournamentTeam, error) {
	query := `
		SELECT tt.id, tt.tournament_id, tt.team_id, tt.group_label,
		       tt.matches_played, tt.wins, tt.draws, tt.losses, tt.shootout_wins,
		       tt.goals_for, tt.goals_against, tt.goal_difference, tt.points,
		       tt.group_position, tt.updated_at, tr.name
		FROM tournament_teams tt
		JOIN tournaments tr ON tt.tournament_id = tr.id
		WHERE tt.team_id = $1
		ORDER BY tr.start_date DESC`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	standings := make([]*models.TournamentTeam, 0)
	for rows.Next() {
		s := &models.TournamentTeam{}
		if err := rows.Scan(
			&s.ID, &s.TournamentID, &s.TeamID, &s.GroupLabel,
			&s.MatchesPlayed, &s.Wins, &s.Draws, &s.Losses, &s.ShootoutWins,
			&s.GoalsFor, &s.GoalsAgainst, &s.GoalDifference, &s.Points,
			&s.GroupPosition, &s.UpdatedAt, &s.TournamentName,
		); err != nil {
			return nil, err
		}
		standings = append(standings, s)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return standings, nil
}

func (r *postgresStandingRepository) UpdateGroupPositions(ctx context.Context, exec SQLExecutor, standings []*models.TournamentTeam) error {
	executor := r.getExecutor(exec)
	for _, s := range standings {
		result, err := executor.ExecContext(ctx,
			`UPDATE tournament_teams SET group_position = $1 WHERE id = $2`,
			s.GroupPosition, s.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update group position for standing %d: %w", s.ID, err)
		}
		if err := checkAffectedRows(result, ErrStandingNotFound); err != nil {
			return err
		}
	}
	return nil
}

func (r *postgresStandingRepository) Delete(ctx context.Context, tournamentID, teamID int) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM tournament_teams WHERE tournament_id = $1 AND team_id = $2`,
		tournamentID, teamID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrStandingNotFound)
}

func (r *postgresStandingRepository) listStandings(ctx context.Context, executor SQLExecutor, query string, args ...interface{}) ([]*models.TournamentTeam, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	standings := make([]*models.TournamentTeam, 0)
	for rows.Next() {
		s, errScan := r.scanStanding(rows)
		if errScan != nil {
			return nil, errScan
		}
		standings = append(standings, s)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return standings, nil
}
