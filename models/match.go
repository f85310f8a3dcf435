package models

import "time"

type MatchStatus string

const (
	MatchStatusUpcoming  MatchStatus = "upcoming"
	MatchStatusCompleted MatchStatus = "completed"
)

// DecisionMethod records how a completed match was decided.
type DecisionMethod string

const (
	DecidedNormalTime DecisionMethod = "normal"
	DecidedByPenalty  DecisionMethod = "penalties"
)

type GoalType string

const (
	GoalTypeNormal  GoalType = "normal"
	GoalTypePenalty GoalType = "penalty"
	GoalTypeOwnGoal GoalType = "own_goal"
)

type CardType string

const (
	CardYellow CardType = "yellow"
	CardRed    CardType = "red"
)

type Match struct {
	ID              int             `json:"id" db:"id"`
	TournamentID    int             `json:"tournament_id" db:"tournament_id"`
	Stage           string          `json:"stage" db:"stage"`
	Date            time.Time       `json:"date" db:"match_date"`
	HomeTeamID      int             `json:"home_team_id" db:"home_team_id"`
	AwayTeamID      int             `json:"away_team_id" db:"away_team_id"`
	VenueID         int             `json:"venue_id" db:"venue_id"`
	Audience        int             `json:"audience" db:"audience"`
	Status          MatchStatus     `json:"status" db:"status"`
	HomeScore       *int            `json:"home_score,omitempty" db:"home_score"`
	AwayScore       *int            `json:"away_score,omitempty" db:"away_score"`
	DecidedBy       *DecisionMethod `json:"decided_by,omitempty" db:"decided_by"`
	WinnerTeamID    *int            `json:"winner_team_id,omitempty" db:"winner_team_id"`
	PlayerOfMatchID *int            `json:"player_of_match_id,omitempty" db:"player_of_match_id"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`

	// Joined fields, populated by list queries.
	HomeTeamName string `json:"home_team,omitempty" db:"-"`
	AwayTeamName string `json:"away_team,omitempty" db:"-"`
	VenueName    string `json:"venue,omitempty" db:"-"`

	// Child events, populated for single-match reads. All three are
	// append-only and owned by the match (cascade-deleted with it).
	Goals    []*GoalEvent   `json:"goals,omitempty" db:"-"`
	Shootout []*PenaltyKick `json:"shootout,omitempty" db:"-"`
	Bookings []*Booking     `json:"bookings,omitempty" db:"-"`
}

type GoalEvent struct {
	ID       int      `json:"id" db:"id"`
	MatchID  int      `json:"match_id" db:"match_id"`
	TeamID   int      `json:"team_id" db:"team_id"`
	PlayerID int      `json:"player_id" db:"player_id"`
	Minute   int      `json:"minute" db:"minute"`
	Type     GoalType `json:"goal_type" db:"goal_type"`
	Period   int      `json:"period" db:"period"`

	PlayerName string `json:"player_name,omitempty" db:"-"`
	TeamName   string `json:"team_name,omitempty" db:"-"`
}

type PenaltyKick struct {
	ID       int  `json:"id" db:"id"`
	MatchID  int  `json:"match_id" db:"match_id"`
	TeamID   int  `json:"team_id" db:"team_id"`
	PlayerID int  `json:"player_id" db:"player_id"`
	KickNo   int  `json:"kick_no" db:"kick_no"`
	Scored   bool `json:"scored" db:"scored"`

	PlayerName string `json:"player_name,omitempty" db:"-"`
	TeamName   string `json:"team_name,omitempty" db:"-"`
}

type Booking struct {
	ID       int      `json:"id" db:"id"`
	MatchID  int      `json:"match_id" db:"match_id"`
	TeamID   int      `json:"team_id" db:"team_id"`
	PlayerID int      `json:"player_id" db:"player_id"`
	Card     CardType `json:"card" db:"card"`
	SentOff  bool     `json:"sent_off" db:"sent_off"`

	PlayerName string `json:"player_name,omitempty" db:"-"`
	TeamName   string `json:"team_name,omitempty" db:"-"`
}
