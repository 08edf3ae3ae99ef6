package api

import (
	"log/slog"
	"net/http"
	"strconv"

	common "github.com/padel-api/padel-api/pkg/domain"
	tournament_services "github.com/padel-api/padel-api/pkg/domain/tournament/services"
)

// PlannerHandler exposes the pre-tournament planning helpers. Pure
// calculations, no persistence.
type PlannerHandler struct {
	logger *slog.Logger
}

func NewPlannerHandler(logger *slog.Logger) *PlannerHandler {
	return &PlannerHandler{logger: logger}
}

func (h *PlannerHandler) EstimateDuration(w http.ResponseWriter, r *http.Request) {
	numPlayers, err := queryInt(r, "players", 0)
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	courts, err := queryInt(r, "courts", 1)
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	pointsPerGame, err := queryInt(r, "points_per_game", tournament_services.DefaultPointsPerGame)
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	secondsPerPoint, err := queryInt(r, "seconds_per_point", tournament_services.DefaultSecondsPerPoint)
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	restSeconds, err := queryInt(r, "rest_seconds", tournament_services.DefaultRestSeconds)
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}

	minutes, rounds, err := tournament_services.EstimateDuration(numPlayers, courts, pointsPerGame, secondsPerPoint, restSeconds)
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{
		"estimated_minutes": minutes,
		"rounds":            rounds,
	})
}

func (h *PlannerHandler) OptimalPoints(w http.ResponseWriter, r *http.Request) {
	numPlayers, err := queryInt(r, "players", 0)
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	courts, err := queryInt(r, "courts", 1)
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	secondsPerPoint, err := queryInt(r, "seconds_per_point", tournament_services.DefaultSecondsPerPoint)
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	restSeconds, err := queryInt(r, "rest_seconds", tournament_services.DefaultRestSeconds)
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	hoursRaw := r.URL.Query().Get("available_hours")
	hours, err := strconv.ParseFloat(hoursRaw, 64)
	if err != nil || hours <= 0 {
		writeError(r.Context(), h.logger, w, common.NewErrInvalidInput("malformed available_hours %q", hoursRaw))
		return
	}

	points, err := tournament_services.OptimalPointsPerMatch(numPlayers, courts, hours, secondsPerPoint, restSeconds)
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"points_per_match": points})
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, common.NewErrInvalidInput("malformed %s %q", name, raw)
	}
	return v, nil
}
