package models

// PlayerGoals is a top-scorers row derived from goal events.
type PlayerGoals struct {
	PlayerID       int    `json:"id"`
	PlayerName     string `json:"name"`
	JerseyNumber   int    `json:"jersey_number"`
	Position       string `json:"position"`
	TeamName       string `json:"team_name"`
	TournamentName string `json:"tournament_name,omitempty"`
	Goals          int    `json:"goals"`
}

// PlayerRedCards is a red-card leaders row derived from bookings with the
// sent-off flag set.
type PlayerRedCards struct {
	PlayerID       int    `json:"id"`
	PlayerName     string `json:"name"`
	JerseyNumber   int    `json:"jersey_number"`
	Position       string `json:"position"`
	TeamName       string `json:"team_name"`
	TournamentName string `json:"tournament_name,omitempty"`
	RedCards       int    `json:"red_cards"`
}

// TournamentDetail aggregates the read-only views for a single tournament.
type TournamentDetail struct {
	Tournament      *Tournament       `json:"tournament"`
	Standings       []*TournamentTeam `json:"standings"`
	TopScorers      []*PlayerGoals    `json:"top_scorers"`
	RecentMatches   []*Match          `json:"recent_matches"`
	UpcomingMatches []*Match          `json:"upcoming_matches"`
}
