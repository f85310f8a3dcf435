package handlers

import (
	"net/http"

	"github.com/ksu-sports/tournament-backend/services"
)

type StatsHandler struct {
	statsService services.StatsService
}

func NewStatsHandler(statsService services.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// TopScorers supports tournament_id and limit query parameters; without a
// tournament filter the ranking spans all tournaments.
func (h *StatsHandler) TopScorers(w http.ResponseWriter, r *http.Request) {
	tournamentID := queryIntPtr(r, "tournament_id")
	limit := queryInt(r, "limit", 0)

	scorers, err := h.statsService.TopScorers(r.Context(), tournamentID, limit)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	listResponse(w, r, http.StatusOK, scorers)
}

func (h *StatsHandler) RedCardLeaders(w http.ResponseWriter, r *http.Request) {
	tournamentID := queryIntPtr(r, "tournament_id")

	leaders, err := h.statsService.RedCardLeaders(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	listResponse(w, r, http.StatusOK, leaders)
}

func (h *StatsHandler) RecentMatches(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.statsService.RecentMatches(r.Context(), id, queryInt(r, "limit", 0))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	listResponse(w, r, http.StatusOK, matches)
}

func (h *StatsHandler) UpcomingMatches(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.statsService.UpcomingMatches(r.Context(), id, queryInt(r, "limit", 0))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	listResponse(w, r, http.StatusOK, matches)
}

func (h *StatsHandler) TournamentDetail(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	detail, err := h.statsService.TournamentDetail(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	dataResponse(w, r, http.StatusOK, detail)
}
