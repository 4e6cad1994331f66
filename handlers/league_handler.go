package handlers

import (
	"net/http"

	"github.com/Dosada05/league-tracker/services"
)

type LeagueHandler struct {
	leagueService services.LeagueService
}

func NewLeagueHandler(ls services.LeagueService) *LeagueHandler {
	return &LeagueHandler{leagueService: ls}
}

func (h *LeagueHandler) ListLeagues(w http.ResponseWriter, r *http.Request) {
	listing, err := h.leagueService.ListLeagues(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"leagues": listing}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *LeagueHandler) CreateLeague(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name string `json:"name"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	league, err := h.leagueService.CreateLeague(r.Context(), input.Name)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	headers := make(http.Header)
	headers.Set("Location", "/leagues/"+league.Key)
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"league": league}, headers); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *LeagueHandler) GetLeague(w http.ResponseWriter, r *http.Request) {
	league, err := h.leagueService.GetLeague(r.Context(), leagueParam(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"league": league}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *LeagueHandler) CloseLeague(w http.ResponseWriter, r *http.Request) {
	if err := h.leagueService.CloseLeague(r.Context(), leagueParam(r)); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *LeagueHandler) SaveLeague(w http.ResponseWriter, r *http.Request) {
	name := leagueParam(r)
	if err := h.leagueService.SaveLeague(r.Context(), name); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	league, err := h.leagueService.GetLeague(r.Context(), name)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"league": league, "saved": true}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// LoadLeague replaces the open copy with the stored snapshot.
func (h *LeagueHandler) LoadLeague(w http.ResponseWriter, r *http.Request) {
	league, err := h.leagueService.LoadLeague(r.Context(), leagueParam(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"league": league}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *LeagueHandler) AdvanceRound(w http.ResponseWriter, r *http.Request) {
	league, err := h.leagueService.AdvanceRound(r.Context(), leagueParam(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"league": league}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *LeagueHandler) Standings(w http.ResponseWriter, r *http.Request) {
	standings, err := h.leagueService.Standings(r.Context(), leagueParam(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *LeagueHandler) PlayerRankings(w http.ResponseWriter, r *http.Request) {
	rankings, err := h.leagueService.PlayerRankings(r.Context(), leagueParam(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"rankings": rankings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
