package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ksu-sports/tournament-backend/models"
	"github.com/lib/pq"
)

var (
	ErrRosterEntryNotFound = errors.New("roster entry not found")
	ErrRosterEntryConflict = errors.New("player already on this roster")
	ErrRosterRefInvalid    = errors.New("roster player, team or tournament invalid")
)

type RosterRepository interface {
	Add(ctx context.Context, entry *models.RosterEntry) error
	Remove(ctx context.Context, playerID, teamID, tournamentID int) error
	ListByTeamAndTournament(ctx context.Context, teamID, tournamentID int) ([]*models.RosterEntry, error)
	JerseyTaken(ctx context.Context, teamID, tournamentID, jerseyNumber, excludePlayerID int) (bool, error)
}

type postgresRosterRepository struct {
	db *sql.DB
}

func NewPostgresRosterRepository(db *sql.DB) RosterRepository {
	return &postgresRosterRepository{db: db}
}

func (r *postgresRosterRepository) Add(ctx context.Context, entry *models.RosterEntry) error {
	query := `
		INSERT INTO roster_entries (player_id, team_id, tournament_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		entry.PlayerID, entry.TeamID, entry.TournamentID,
	).Scan(&entry.ID, &entry.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				return ErrRosterEntryConflict
			case "23503":
				return ErrRosterRefInvalid
			}
		}
		return err
	}
	return nil
}

func (r *postgresRosterRepository) Remove(ctx context.Context, playerID, teamID, tournamentID int) error {
	query := `
		DELETE FROM roster_entries
		WHERE player_id = $1 AND team_id = $2 AND tournament_id = $3`
	result, err := r.db.ExecContext(ctx, query, playerID, teamID, tournamentID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrRosterEntryNotFound)
}

func (r *postgresRosterRepository) ListByTeamAndTournament(ctx context.Context, teamID, tournamentID int) ([]*models.RosterEntry, error) {
	query := `
		SELECT re.id, re.player_id, re.team_id, re.tournament_id, re.created_at,
		       p.name, p.jersey_number, p.position
		FROM roster_entries re
		JOIN players p ON re.player_id = p.id
		WHERE re.team_id = $1 AND re.tournament_id = $2
		ORDER BY p.jersey_number ASC`

	rows, err := r.db.QueryContext(ctx, query, teamID, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*models.RosterEntry, 0)
	for rows.Next() {
		e := &models.RosterEntry{}
		if err := rows.Scan(
			&e.ID, &e.PlayerID, &e.TeamID, &e.TournamentID, &e.CreatedAt,
			&e.PlayerName, &e.JerseyNumber, &e.Position,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// JerseyTaken reports whether another player on the same team roster already
// wears the given jersey number.
func (r *postgresRosterRepository) JerseyTaken(ctx context.Context, teamID, tournamentID, jerseyNumber, excludePlayerID int) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM roster_entries re
			JOIN players p ON re.player_id = p.id
			WHERE re.team_id = $1
			  AND re.tournament_id = $2
			  AND p.jersey_number = $3
			  AND p.id <> $4
		)`
	var taken bool
	err := r.db.QueryRowContext(ctx, query, teamID, tournamentID, jerseyNumber, excludePlayerID).Scan(&taken)
	return taken, err
}
