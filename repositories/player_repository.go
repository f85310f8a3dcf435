package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ksu-sports/tournament-backend/models"
)

var ErrPlayerNotFound = errors.New("player not found")

// PlayerFilter narrows player listings by roster membership.
type PlayerFilter struct {
	TeamID       *int
	TournamentID *int
}

type PlayerRepository interface {
	Create(ctx context.Context, player *models.Player) error
	GetByID(ctx context.Context, id int) (*models.Player, error)
	List(ctx context.Context, filter PlayerFilter) ([]*models.Player, error)
	Update(ctx context.Context, player *models.Player) error
	Delete(ctx context.Context, id int) error
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) Create(ctx context.Context, player *models.Player) error {
	query := `
		INSERT INTO players (name, date_of_birth, jersey_number, position)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query,
		player.Name,
		player.DateOfBirth,
		player.JerseyNumber,
		player.Position,
	).Scan(&player.ID, &player.CreatedAt)
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, id int) (*models.Player, error) {
	query := `
		SELECT id, name, date_of_birth, jersey_number, position, created_at
		FROM players
		WHERE id = $1`

	p := &models.Player{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.DateOfBirth, &p.JerseyNumber, &p.Position, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to scan player: %w", err)
	}
	return p, nil
}

func (r *postgresPlayerRepository) List(ctx context.Context, filter PlayerFilter) ([]*models.Player, error) {
	query := `
		SELECT
			p.id, p.name, p.date_of_birth, p.jersey_number, p.position, p.created_at,
			re.team_id, t.name, re.tournament_id, tr.name
		FROM players p
		LEFT JOIN roster_entries re ON re.player_id = p.id
		LEFT JOIN teams t ON re.team_id = t.id
		LEFT JOIN tournaments tr ON re.tournament_id = tr.id
		WHERE 1=1`
	args := make([]interface{}, 0, 2)

	if filter.TeamID != nil {
		args = append(args, *filter.TeamID)
		query += fmt.Sprintf(" AND re.team_id = $%d", len(args))
	}
	if filter.TournamentID != nil {
		args = append(args, *filter.TournamentID)
		query += fmt.Sprintf(" AND re.tournament_id = $%d", len(args))
	}
	query += " ORDER BY p.name ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]*models.Player, 0)
	for rows.Next() {
		p := &models.Player{}
		var teamName, tournamentName sql.NullString
		if err := rows.Scan(
			&p.ID, &p.Name, &p.DateOfBirth, &p.JerseyNumber, &p.Position, &p.CreatedAt,
			&p.TeamID, &teamName, &p.TournamentID, &tournamentName,
		); err != nil {
			return nil, err
		}
		p.TeamName = teamName.String
		p.TournamentName = tournamentName.String
		players = append(players, p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return players, nil
}

func (r *postgresPlayerRepository) Update(ctx context.Context, player *models.Player) error {
	query := `
		UPDATE players SET
			name = $1,
			date_of_birth = $2,
			jersey_number = $3,
			position = $4
		WHERE id = $5`

	result, err := r.db.ExecContext(ctx, query,
		player.Name,
		player.DateOfBirth,
		player.JerseyNumber,
		player.Position,
		player.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}
