package schedule

import (
	"fmt"
	"sort"
	"time"

	"github.com/ksu-sports/tournament-backend/models"
)

// Rounds selects single or double round-robin generation.
type Rounds int

const (
	SingleRound Rounds = 1
	DoubleRound Rounds = 2
)

type Params struct {
	TournamentID int
	Stage        string
	TeamIDs      []int
	VenueID      int
	// FirstMatchDate anchors the schedule; one pairing per day.
	FirstMatchDate time.Time
	Rounds         Rounds
}

// RoundRobin generates group fixtures: every team plays every other team
// once (or twice with home/away swapped for a double round). Returned
// matches carry no result and are ordered deterministically.
func RoundRobin(params Params) ([]*models.Match, error) {
	if len(params.TeamIDs) < 2 {
		return nil, fmt.Errorf("round robin requires at least 2 teams, got %d", len(params.TeamIDs))
	}
	if params.Rounds != SingleRound && params.Rounds != DoubleRound {
		return nil, fmt.Errorf("unsupported number of rounds: %d", params.Rounds)
	}

	teams := make([]int, len(params.TeamIDs))
	copy(teams, params.TeamIDs)
	sort.Ints(teams)

	firstLeg := len(teams) * (len(teams) - 1) / 2
	matches := make([]*models.Match, 0, firstLeg*int(params.Rounds))

	order := 0
	for i := 0; i < len(teams); i++ {
		for j := i + 1; j < len(teams); j++ {
			matches = append(matches, fixture(params, teams[i], teams[j], order))
			order++

			if params.Rounds == DoubleRound {
				// Second leg with home and away swapped, scheduled
				// after the whole first leg.
				matches = append(matches, fixture(params, teams[j], teams[i], order+firstLeg-1))
			}
		}
	}

	sort.Slice(matches, func(a, b int) bool {
		return matches[a].Date.Before(matches[b].Date)
	})
	return matches, nil
}

func fixture(params Params, homeID, awayID, order int) *models.Match {
	return &models.Match{
		TournamentID: params.TournamentID,
		Stage:        params.Stage,
		Date:         params.FirstMatchDate.AddDate(0, 0, order),
		HomeTeamID:   homeID,
		AwayTeamID:   awayID,
		VenueID:      params.VenueID,
		Status:       models.MatchStatusUpcoming,
	}
}
