package handlers

import (
	"errors"
	"net/http"

	"github.com/ksu-sports/tournament-backend/models"
	"github.com/ksu-sports/tournament-backend/repositories"
	"github.com/ksu-sports/tournament-backend/services"
)

var errInvalidStatusFilter = errors.New("status must be upcoming or completed")

type MatchHandler struct {
	matchService     services.MatchService
	standingsService services.StandingsService
}

func NewMatchHandler(matchService services.MatchService, standingsService services.StandingsService) *MatchHandler {
	return &MatchHandler{
		matchService:     matchService,
		standingsService: standingsService,
	}
}

func (h *MatchHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateMatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.CreateFixture(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	dataResponse(w, r, http.StatusCreated, match)
}

func (h *MatchHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	dataResponse(w, r, http.StatusOK, match)
}

// List supports tournament_id, team_id and status query parameters.
func (h *MatchHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repositories.MatchFilter{
		TournamentID: queryIntPtr(r, "tournament_id"),
		TeamID:       queryIntPtr(r, "team_id"),
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := models.MatchStatus(raw)
		if status != models.MatchStatusUpcoming && status != models.MatchStatusCompleted {
			badRequestResponse(w, r, errInvalidStatusFilter)
			return
		}
		filter.Status = &status
	}

	matches, err := h.matchService.List(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	listResponse(w, r, http.StatusOK, matches)
}

// RecordResult completes a match and folds the score into the standings.
func (h *MatchHandler) RecordResult(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.RecordResultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.MatchID = id

	match, err := h.standingsService.RecordResult(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	dataResponse(w, r, http.StatusOK, match)
}

func (h *MatchHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.matchService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	messageResponse(w, r, http.StatusOK, "match deleted")
}

func (h *MatchHandler) AddGoalEvent(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.GoalEventInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	goal, err := h.matchService.AddGoalEvent(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	dataResponse(w, r, http.StatusCreated, goal)
}

func (h *MatchHandler) AddPenaltyKick(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.PenaltyKickInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	kick, err := h.matchService.AddPenaltyKick(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	dataResponse(w, r, http.StatusCreated, kick)
}

func (h *MatchHandler) AddBooking(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.BookingInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	booking, err := h.matchService.AddBooking(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	dataResponse(w, r, http.StatusCreated, booking)
}

func (h *MatchHandler) SendReminders(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	outcomes, err := h.matchService.SendReminders(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	listResponse(w, r, http.StatusOK, outcomes)
}
