package models

import "time"

// TournamentTeam is the per-team, per-tournament standings row. It is a
// materialized aggregate over the match ledger: every value must stay
// reconstructible by replaying the completed matches of the tournament.
type TournamentTeam struct {
	ID             int       `json:"id" db:"id"`
	TournamentID   int       `json:"tournament_id" db:"tournament_id"`
	TeamID         int       `json:"team_id" db:"team_id"`
	GroupLabel     string    `json:"group" db:"group_label"`
	MatchesPlayed  int       `json:"matches_played" db:"matches_played"`
	Wins           int       `json:"wins" db:"wins"`
	Draws          int       `json:"draws" db:"draws"`
	Losses         int       `json:"losses" db:"losses"`
	ShootoutWins   int       `json:"shootout_wins" db:"shootout_wins"`
	GoalsFor       int       `json:"goals_for" db:"goals_for"`
	GoalsAgainst   int       `json:"goals_against" db:"goals_against"`
	GoalDifference int       `json:"goal_difference" db:"goal_difference"`
	Points         int       `json:"points" db:"points"`
	GroupPosition  *int      `json:"group_position,omitempty" db:"group_position"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`

	// Joined fields, populated by list queries.
	TeamName       string `json:"team_name,omitempty" db:"-"`
	TournamentName string `json:"tournament_name,omitempty" db:"-"`
}
