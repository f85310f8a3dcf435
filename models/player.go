package models

import "time"

type Player struct {
	ID           int       `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	DateOfBirth  time.Time `json:"date_of_birth" db:"date_of_birth"`
	JerseyNumber int       `json:"jersey_number" db:"jersey_number"`
	Position     string    `json:"position" db:"position"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	TeamID         *int   `json:"team_id,omitempty" db:"-"`
	TeamName       string `json:"team_name,omitempty" db:"-"`
	TournamentID   *int   `json:"tournament_id,omitempty" db:"-"`
	TournamentName string `json:"tournament_name,omitempty" db:"-"`
}

// RosterEntry links a player to a team within a tournament.
type RosterEntry struct {
	ID           int       `json:"id" db:"id"`
	PlayerID     int       `json:"player_id" db:"player_id"`
	TeamID       int       `json:"team_id" db:"team_id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	PlayerName   string `json:"player_name,omitempty" db:"-"`
	JerseyNumber int    `json:"jersey_number,omitempty" db:"-"`
	Position     string `json:"position,omitempty" db:"-"`
}
