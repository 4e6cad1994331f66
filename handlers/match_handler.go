package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/Dosada05/league-tracker/models"
	"github.com/Dosada05/league-tracker/services"
	"github.com/go-chi/chi/v5"
)

type MatchHandler struct {
	leagueService services.LeagueService
}

func NewMatchHandler(ls services.LeagueService) *MatchHandler {
	return &MatchHandler{leagueService: ls}
}

func parseMatchFilter(r *http.Request) (services.MatchFilter, error) {
	var filter services.MatchFilter
	q := r.URL.Query()

	if raw := q.Get("round"); raw != "" {
		round, err := strconv.Atoi(raw)
		if err != nil || round < 1 {
			return filter, fmt.Errorf("round must be a positive integer, got %q", raw)
		}
		filter.Round = &round
	}
	if raw := q.Get("finished"); raw != "" {
		finished, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, fmt.Errorf("finished must be true or false, got %q", raw)
		}
		filter.Finished = &finished
	}
	return filter, nil
}

func (h *MatchHandler) ListMatches(w http.ResponseWriter, r *http.Request) {
	filter, err := parseMatchFilter(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.leagueService.ListMatches(r.Context(), leagueParam(r), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	var input struct {
		HomeTeamID string `json:"home_team_id"`
		AwayTeamID string `json:"away_team_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	problems := map[string]string{}
	if input.HomeTeamID == "" {
		problems["home_team_id"] = "must be provided"
	}
	if input.AwayTeamID == "" {
		problems["away_team_id"] = "must be provided"
	}
	if len(problems) > 0 {
		failedValidationResponse(w, r, problems)
		return
	}

	match, err := h.leagueService.CreateMatch(r.Context(), leagueParam(r), input.HomeTeamID, input.AwayTeamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) RecordScore(w http.ResponseWriter, r *http.Request) {
	var input struct {
		HomeScore *int `json:"home_score"`
		AwayScore *int `json:"away_score"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	problems := map[string]string{}
	if input.HomeScore == nil {
		problems["home_score"] = "must be provided"
	} else if *input.HomeScore < 0 {
		problems["home_score"] = "must not be negative"
	}
	if input.AwayScore == nil {
		problems["away_score"] = "must be provided"
	} else if *input.AwayScore < 0 {
		problems["away_score"] = "must not be negative"
	}
	if len(problems) > 0 {
		failedValidationResponse(w, r, problems)
		return
	}

	match, err := h.leagueService.RecordScore(r.Context(), leagueParam(r), chi.URLParam(r, "matchID"), *input.HomeScore, *input.AwayScore)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RecordOutcome accepts either {"home": "win", "away": "loss"} or a symbol
// pair such as {"result": "○-×"}.
func (h *MatchHandler) RecordOutcome(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Home   models.Outcome `json:"home"`
		Away   models.Outcome `json:"away"`
		Result string         `json:"result"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	home, away := input.Home, input.Away
	if input.Result != "" {
		var err error
		home, away, err = models.ParseOutcomePair(input.Result)
		if err != nil {
			failedValidationResponse(w, r, map[string]string{"result": err.Error()})
			return
		}
	} else if !home.Valid() || !away.Valid() {
		failedValidationResponse(w, r, map[string]string{"result": "provide home and away outcomes or a result such as ○-×"})
		return
	}

	match, err := h.leagueService.RecordOutcome(r.Context(), leagueParam(r), chi.URLParam(r, "matchID"), home, away)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) RecordPlayerResult(w http.ResponseWriter, r *http.Request) {
	var input struct {
		PlayerID string         `json:"player_id"`
		Outcome  models.Outcome `json:"outcome"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	problems := map[string]string{}
	if input.PlayerID == "" {
		problems["player_id"] = "must be provided"
	}
	if !input.Outcome.Valid() {
		problems["outcome"] = "must be win, loss or draw"
	}
	if len(problems) > 0 {
		failedValidationResponse(w, r, problems)
		return
	}

	match, err := h.leagueService.RecordPlayerResult(r.Context(), leagueParam(r), chi.URLParam(r, "matchID"), input.PlayerID, input.Outcome)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
