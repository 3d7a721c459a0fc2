package handlers

import (
	"errors"
	"net/http"

	"github.com/dachrisch/leaguesphere/services"
)

type GameHandler struct {
	gameService       services.GameService
	resolutionService services.ResolutionService
}

func NewGameHandler(gs services.GameService, rs services.ResolutionService) *GameHandler {
	return &GameHandler{gameService: gs, resolutionService: rs}
}

// GetByIDHandler обрабатывает GET /games/{gameID}
func (h *GameHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, err := h.gameService.GetGame(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"game": game}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateResultsHandler обрабатывает PUT /games/{gameID}/results.
// Finishing a game triggers the dependent bracket updates before the
// response is written, so the client sees a settled schedule afterwards.
func (h *GameHandler) UpdateResultsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var entry services.ScoreEntry
	if err := readJSON(w, r, &entry); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if entry.Status == "" {
		badRequestResponse(w, r, errors.New("status is required"))
		return
	}

	game, err := h.gameService.UpdateResults(r.Context(), id, entry)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"game": game}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ResolveHandler обрабатывает GET /games/{gameID}/resolve?gameday={id}&ref=winner|loser
func (h *GameHandler) ResolveHandler(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	gamedayID, err := queryInt(r, "gameday")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var team interface{}
	switch ref := r.URL.Query().Get("ref"); ref {
	case "winner":
		team, err = h.resolutionService.ResolveWinner(r.Context(), gamedayID, gameID)
	case "loser":
		team, err = h.resolutionService.ResolveLoser(r.Context(), gamedayID, gameID)
	default:
		badRequestResponse(w, r, errors.New("ref query parameter must be winner or loser"))
		return
	}
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
