package handlers

import (
	"net/http"

	"github.com/Dosada05/league-tracker/services"
	"github.com/go-chi/chi/v5"
)

type TeamHandler struct {
	leagueService services.LeagueService
}

func NewTeamHandler(ls services.LeagueService) *TeamHandler {
	return &TeamHandler{leagueService: ls}
}

// ListTeams returns every team, or only the first team with the exact name
// when ?name= is given.
func (h *TeamHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	league := leagueParam(r)

	if name := r.URL.Query().Get("name"); name != "" {
		team, err := h.leagueService.FindTeamByName(r.Context(), league, name)
		if err != nil {
			mapServiceErrorToHTTP(w, r, err)
			return
		}
		if err := writeJSON(w, http.StatusOK, jsonResponse{"teams": []services.TeamView{*team}}, nil); err != nil {
			serverErrorResponse(w, r, err)
		}
		return
	}

	teams, err := h.leagueService.ListTeams(r.Context(), league)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"teams": teams}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TeamHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var input services.CreateTeamInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.leagueService.AddTeam(r.Context(), leagueParam(r), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TeamHandler) GetTeam(w http.ResponseWriter, r *http.Request) {
	team, err := h.leagueService.GetTeam(r.Context(), leagueParam(r), chi.URLParam(r, "teamID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TeamHandler) AddPlayer(w http.ResponseWriter, r *http.Request) {
	var input services.CreatePlayerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.leagueService.AddPlayer(r.Context(), leagueParam(r), chi.URLParam(r, "teamID"), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TeamHandler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.leagueService.ListPlayers(r.Context(), leagueParam(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"players": players}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TeamHandler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	player, err := h.leagueService.GetPlayer(r.Context(), leagueParam(r), chi.URLParam(r, "playerID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
