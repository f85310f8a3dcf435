package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ksu-sports/tournament-backend/models"
)

// StatsRepository holds the read-only aggregation queries over the match
// ledger. Nothing here mutates state.
type StatsRepository interface {
	TopScorers(ctx context.Context, tournamentID *int, limit int) ([]*models.PlayerGoals, error)
	RedCardLeaders(ctx context.Context, tournamentID *int) ([]*models.PlayerRedCards, error)
	RecentMatches(ctx context.Context, tournamentID, limit int) ([]*models.Match, error)
	UpcomingMatches(ctx context.Context, tournamentID, limit int) ([]*models.Match, error)
}

type postgresStatsRepository struct {
	db *sql.DB
}

func NewPostgresStatsRepository(db *sql.DB) StatsRepository {
	return &postgresStatsRepository{db: db}
}

func (r *postgresStatsRepository) TopScorers(ctx context.Context, tournamentID *int, limit int) ([]*models.PlayerGoals, error) {
	query := `
		SELECT
			p.id, p.name, p.jersey_number, p.position,
			t.name, tr.name, COUNT(*) AS goals
		FROM goal_events ge
		JOIN players p ON ge.player_id = p.id
		JOIN teams t ON ge.team_id = t.id
		JOIN roster_entries re ON re.player_id = ge.player_id AND re.team_id = ge.team_id
		JOIN tournaments tr ON re.tournament_id = tr.id
		WHERE ge.goal_type <> 'own_goal'`
	args := make([]interface{}, 0, 2)

	if tournamentID != nil {
		args = append(args, *tournamentID)
		query += fmt.Sprintf(" AND re.tournament_id = $%d", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(`
		GROUP BY p.id, p.name, p.jersey_number, p.position, t.name, tr.name
		ORDER BY goals DESC, p.name ASC
		LIMIT $%d`, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scorers := make([]*models.PlayerGoals, 0)
	for rows.Next() {
		s := &models.PlayerGoals{}
		if err := rows.Scan(
			&s.PlayerID, &s.PlayerName, &s.JerseyNumber, &s.Position,
			&s.TeamName, &s.TournamentName, &s.Goals,
		); err != nil {
			return nil, err
		}
		scorers = append(scorers, s)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return scorers, nil
}

func (r *postgresStatsRepository) RedCardLeaders(ctx context.Context, tournamentID *int) ([]*models.PlayerRedCards, error) {
	query := `
		SELECT
			p.id, p.name, p.jersey_number, p.position,
			t.name, tr.name, COUNT(*) AS red_cards
		FROM bookings b
		JOIN players p ON b.player_id = p.id
		JOIN teams t ON b.team_id = t.id
		JOIN roster_entries re ON re.player_id = b.player_id AND re.team_id = b.team_id
		JOIN tournaments tr ON re.tournament_id = tr.id
		WHERE b.sent_off = TRUE`
	args := make([]interface{}, 0, 1)

	if tournamentID != nil {
		args = append(args, *tournamentID)
		query += fmt.Sprintf(" AND re.tournament_id = $%d", len(args))
	}
	query += `
		GROUP BY p.id, p.name, p.jersey_number, p.position, t.name, tr.name
		ORDER BY red_cards DESC, p.name ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leaders := make([]*models.PlayerRedCards, 0)
	for rows.Next() {
		l := &models.PlayerRedCards{}
		if err := rows.Scan(
			&l.PlayerID, &l.PlayerName, &l.JerseyNumber, &l.Position,
			&l.TeamName, &l.TournamentName, &l.RedCards,
		); err != nil {
			return nil, err
		}
		leaders = append(leaders, l)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return leaders, nil
}

func (r *postgresStatsRepository) RecentMatches(ctx context.Context, tournamentID, limit int) ([]*models.Match, error) {
	query := "SELECT" + matchColumns + matchJoins + `
		WHERE m.tournament_id = $1 AND m.status = 'completed'
		ORDER BY m.match_date DESC
		LIMIT $2`
	return r.listMatches(ctx, query, tournamentID, limit)
}

func (r *postgresStatsRepository) UpcomingMatches(ctx context.Context, tournamentID, limit int) ([]*models.Match, error) {
	query := "SELECT" + matchColumns + matchJoins + `
		WHERE m.tournament_id = $1 AND m.status = 'upcoming' AND m.match_date > NOW()
		ORDER BY m.match_date ASC
		LIMIT $2`
	return r.listMatches(ctx, query, tournamentID, limit)
}

func (r *postgresStatsRepository) listMatches(ctx context.Context, query string, args ...interface{}) ([]*models.Match, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m := &models.Match{}
		if err := rows.Scan(
			&m.ID, &m.TournamentID, &m.Stage, &m.Date, &m.HomeTeamID, &m.AwayTeamID,
			&m.VenueID, &m.Audience, &m.Status, &m.HomeScore, &m.AwayScore, &m.DecidedBy,
			&m.WinnerTeamID, &m.PlayerOfMatchID, &m.CreatedAt,
			&m.HomeTeamName, &m.AwayTeamName, &m.VenueName,
		); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}
