package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/dachrisch/leaguesphere/services"
)

type GamedayHandler struct {
	gamedayService    services.GamedayService
	scheduleService   services.ScheduleService
	standingsService  services.StandingsService
	resolutionService services.ResolutionService
}

func NewGamedayHandler(
	gs services.GamedayService,
	ss services.ScheduleService,
	st services.StandingsService,
	rs services.ResolutionService,
) *GamedayHandler {
	return &GamedayHandler{
		gamedayService:    gs,
		scheduleService:   ss,
		standingsService:  st,
		resolutionService: rs,
	}
}

// ListHandler обрабатывает GET /gamedays
func (h *GamedayHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	gamedays, err := h.gamedayService.ListGamedays(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"gamedays": gamedays}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetByIDHandler обрабатывает GET /gamedays/{gamedayID}
func (h *GamedayHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "gamedayID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	gameday, err := h.gamedayService.GetGameday(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"gameday": gameday}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ScheduleHandler обрабатывает GET /gamedays/{gamedayID}/schedule.
// The get query parameter selects the view: schedule (default), qualify,
// final, or whistle (optionally narrowed with team=).
func (h *GamedayHandler) ScheduleHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "gamedayID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	switch view := r.URL.Query().Get("get"); view {
	case "", "schedule":
		rows, err := h.scheduleService.MaterializeSchedule(r.Context(), id)
		if err != nil {
			mapServiceErrorToHTTP(w, r, err)
			return
		}
		writeRows(w, r, "schedule", rows)
	case "qualify":
		table, err := h.standingsService.QualifyTable(r.Context(), id)
		if err != nil {
			mapServiceErrorToHTTP(w, r, err)
			return
		}
		writeRows(w, r, "qualify", table)
	case "final":
		table, err := h.standingsService.BuildFinalTable(r.Context(), id)
		if err != nil {
			mapServiceErrorToHTTP(w, r, err)
			return
		}
		writeRows(w, r, "final", table)
	case "whistle":
		rows, err := h.scheduleService.GamesToWhistle(r.Context(), id, r.URL.Query().Get("team"))
		if err != nil {
			mapServiceErrorToHTTP(w, r, err)
			return
		}
		writeRows(w, r, "whistle", rows)
	default:
		badRequestResponse(w, r, errors.New("invalid get query parameter, expected schedule, qualify, final or whistle"))
	}
}

// StandingsHandler обрабатывает GET /gamedays/{gamedayID}/standings.
// Scope is given by stage=, standing= or standings= (comma separated).
func (h *GamedayHandler) StandingsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "gamedayID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	query := r.URL.Query()
	key := services.GroupingKey{
		Stage:    query.Get("stage"),
		Standing: query.Get("standing"),
	}
	if list := query.Get("standings"); list != "" {
		for _, s := range strings.Split(list, ",") {
			if s = strings.TrimSpace(s); s != "" {
				key.Standings = append(key.Standings, s)
			}
		}
	}
	if key.Stage == "" && key.Standing == "" && len(key.Standings) == 0 {
		badRequestResponse(w, r, errors.New("one of stage, standing or standings query parameters is required"))
		return
	}

	table, err := h.standingsService.BuildStandings(r.Context(), id, key)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeRows(w, r, "standings", table)
}

// UnresolvedHandler обрабатывает GET /gamedays/{gamedayID}/unresolved
func (h *GamedayHandler) UnresolvedHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "gamedayID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	games, err := h.resolutionService.GetUnresolvedReferences(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeRows(w, r, "games", games)
}

// ResolvePlaceHandler обрабатывает GET /gamedays/{gamedayID}/resolve:
// standing= and place= pick the team, points= optionally restricts the
// ranking to teams holding exactly that many points.
func (h *GamedayHandler) ResolvePlaceHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "gamedayID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	query := r.URL.Query()
	standing := query.Get("standing")
	if standing == "" {
		badRequestResponse(w, r, errors.New("standing query parameter is required"))
		return
	}
	place, err := strconv.Atoi(query.Get("place"))
	if err != nil || place < 1 {
		badRequestResponse(w, r, errors.New("place query parameter must be a positive number"))
		return
	}
	var points *int
	if pStr := query.Get("points"); pStr != "" {
		p, err := strconv.Atoi(pStr)
		if err != nil {
			badRequestResponse(w, r, errors.New("points query parameter must be a number"))
			return
		}
		points = &p
	}

	team, err := h.resolutionService.ResolveByPlace(r.Context(), id, standing, place, points)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SaveDesignerHandler обрабатывает PUT /gamedays/{gamedayID}/designer
func (h *GamedayHandler) SaveDesignerHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "gamedayID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	// The payload is stored as-is, so it is read raw rather than decoded
	// into a struct that would drop unknown designer fields.
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1_048_576))
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.gamedayService.SaveDesigner(r.Context(), id, string(body)); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"saved": true}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// PublishHandler обрабатывает POST /gamedays/{gamedayID}/publish
func (h *GamedayHandler) PublishHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "gamedayID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	gameday, err := h.gamedayService.Publish(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"gameday": gameday}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteHandler обрабатывает DELETE /gamedays/{gamedayID}
func (h *GamedayHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "gamedayID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.gamedayService.DeleteGameday(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeRows(w http.ResponseWriter, r *http.Request, key string, rows interface{}) {
	if err := writeJSON(w, http.StatusOK, jsonResponse{key: rows}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
