package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/padel-api/padel-api/pkg/app/metrics"
	common "github.com/padel-api/padel-api/pkg/domain"
	tournament_entities "github.com/padel-api/padel-api/pkg/domain/tournament/entities"
	tournament_in "github.com/padel-api/padel-api/pkg/domain/tournament/ports/in"
	tournament_out "github.com/padel-api/padel-api/pkg/domain/tournament/ports/out"
)

// TournamentHandler is the HTTP surface of the tournament context.
type TournamentHandler struct {
	create  tournament_in.CreateTournamentCommandHandler
	join    tournament_in.JoinTournamentCommandHandler
	leave   tournament_in.LeaveTournamentCommandHandler
	roster  tournament_in.RosterCommandHandler
	codes   tournament_in.JoinCodeCommandHandler
	start   tournament_in.StartTournamentCommandHandler
	record  tournament_in.RecordMatchResultCommandHandler
	finish  tournament_in.FinishTournamentCommandHandler
	queries tournament_in.TournamentQueries
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewTournamentHandler(
	create tournament_in.CreateTournamentCommandHandler,
	join tournament_in.JoinTournamentCommandHandler,
	leave tournament_in.LeaveTournamentCommandHandler,
	roster tournament_in.RosterCommandHandler,
	codes tournament_in.JoinCodeCommandHandler,
	start tournament_in.StartTournamentCommandHandler,
	record tournament_in.RecordMatchResultCommandHandler,
	finish tournament_in.FinishTournamentCommandHandler,
	queries tournament_in.TournamentQueries,
	m *metrics.Metrics,
	logger *slog.Logger,
) *TournamentHandler {
	return &TournamentHandler{
		create: create, join: join, leave: leave, roster: roster, codes: codes,
		start: start, record: record, finish: finish, queries: queries,
		metrics: m, logger: logger,
	}
}

type createTournamentRequest struct {
	Name           string    `json:"name"`
	System         string    `json:"system"`
	MaxPlayers     int       `json:"max_players"`
	PointsPerMatch int       `json:"points_per_match"`
	Courts         int       `json:"courts"`
	Location       string    `json:"location"`
	StartsAt       time.Time `json:"starts_at"`
}

func (h *TournamentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTournamentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(r.Context(), h.logger, w, common.NewErrInvalidInput("malformed request body"))
		return
	}
	if req.System == "" {
		req.System = string(tournament_entities.SystemAmericano)
	}
	t, err := h.create.Exec(r.Context(), tournament_in.CreateTournamentCommand{
		Name:           req.Name,
		System:         tournament_entities.TournamentSystem(req.System),
		MaxPlayers:     req.MaxPlayers,
		PointsPerMatch: req.PointsPerMatch,
		Courts:         req.Courts,
		Location:       req.Location,
		StartsAt:       req.StartsAt,
	})
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *TournamentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	t, err := h.queries.Get(r.Context(), id)
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *TournamentHandler) List(w http.ResponseWriter, r *http.Request) {
	filters, err := parseFilters(r)
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	list, err := h.queries.List(r.Context(), filters)
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// ListMine lists tournaments created by the caller.
func (h *TournamentHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	h.listForOwner(w, r, func(filters *tournament_out.TournamentFilters, userID uuid.UUID) {
		filters.CreatedBy = &userID
	})
}

// ListJoined lists tournaments the caller plays in.
func (h *TournamentHandler) ListJoined(w http.ResponseWriter, r *http.Request) {
	h.listForOwner(w, r, func(filters *tournament_out.TournamentFilters, userID uuid.UUID) {
		filters.PlayerID = &userID
	})
}

func (h *TournamentHandler) listForOwner(w http.ResponseWriter, r *http.Request, bind func(*tournament_out.TournamentFilters, uuid.UUID)) {
	if !common.IsAuthenticated(r.Context()) {
		writeError(r.Context(), h.logger, w, common.NewErrUnauthorized())
		return
	}
	filters, err := parseFilters(r)
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	bind(&filters, common.GetResourceOwner(r.Context()).UserID)
	list, err := h.queries.List(r.Context(), filters)
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// ListUpcoming lists pending tournaments starting from now.
func (h *TournamentHandler) ListUpcoming(w http.ResponseWriter, r *http.Request) {
	filters, err := parseFilters(r)
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	pending := tournament_entities.StatusPending
	now := time.Now().UTC()
	filters.Status = &pending
	filters.StartsAfter = &now
	list, err := h.queries.List(r.Context(), filters)
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *TournamentHandler) Join(w http.ResponseWriter, r *http.Request) {
	h.execByID(w, r, h.join.Exec)
}

func (h *TournamentHandler) Leave(w http.ResponseWriter, r *http.Request) {
	h.execByID(w, r, h.leave.Exec)
}

func (h *TournamentHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.execByID(w, r, h.start.Exec)
}

func (h *TournamentHandler) execByID(w http.ResponseWriter, r *http.Request, exec func(ctx context.Context, id uuid.UUID) (*tournament_entities.Tournament, error)) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	t, err := exec(r.Context(), id)
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *TournamentHandler) AddPlayer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	playerID, err := pathID(r, "playerID")
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	t, err := h.roster.AddPlayer(r.Context(), id, playerID)
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *TournamentHandler) RemovePlayer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	playerID, err := pathID(r, "playerID")
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	t, err := h.roster.RemovePlayer(r.Context(), id, playerID)
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *TournamentHandler) JoinCode(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	code, err := h.codes.GetOrCreate(r.Context(), id)
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"join_code": code})
}

func (h *TournamentHandler) JoinByCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(r.Context(), h.logger, w, common.NewErrInvalidInput("malformed request body"))
		return
	}
	t, err := h.codes.JoinByCode(r.Context(), req.Code)
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

type recordResultRequest struct {
	Team1Score int `json:"team1_score"`
	Team2Score int `json:"team2_score"`
}

func (h *TournamentHandler) RecordResult(w http.ResponseWriter, r *http.Request) {
	matchID, err := pathID(r, "matchID")
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	var req recordResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(r.Context(), h.logger, w, common.NewErrInvalidInput("malformed request body"))
		return
	}
	match, err := h.record.Exec(r.Context(), tournament_in.RecordMatchResultCommand{
		MatchID:    matchID,
		Team1Score: req.Team1Score,
		Team2Score: req.Team2Score,
	})
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	h.metrics.MatchesRecorded.Inc()
	writeJSON(w, http.StatusOK, match)
}

func (h *TournamentHandler) Finish(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	results, err := h.finish.Exec(r.Context(), id)
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *TournamentHandler) CurrentRound(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	matches, err := h.queries.CurrentRoundMatches(r.Context(), id)
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, matches)
}

func (h *TournamentHandler) Rounds(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	rounds, err := h.queries.AllRounds(r.Context(), id)
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, rounds)
}

func (h *TournamentHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	board, err := h.queries.Leaderboard(r.Context(), id)
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

func (h *TournamentHandler) Results(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	results, err := h.queries.Results(r.Context(), id)
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *TournamentHandler) Winner(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	winner, err := h.queries.Winner(r.Context(), id)
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	if winner == nil {
		writeError(r.Context(), h.logger, w, common.NewErrNotFound("winner for tournament", id))
		return
	}
	writeJSON(w, http.StatusOK, winner)
}

func pathID(r *http.Request, name string) (uuid.UUID, error) {
	raw := mux.Vars(r)[name]
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, common.NewErrInvalidInput("malformed id %q", raw)
	}
	return id, nil
}

func parseFilters(r *http.Request) (tournament_out.TournamentFilters, error) {
	q := r.URL.Query()
	filters := tournament_out.TournamentFilters{Limit: 50}

	if raw := q.Get("status"); raw != "" {
		status := tournament_entities.TournamentStatus(raw)
		filters.Status = &status
	}
	if raw := q.Get("system"); raw != "" {
		system := tournament_entities.TournamentSystem(raw)
		filters.System = &system
	}
	filters.Location = q.Get("location")
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return filters, common.NewErrInvalidInput("malformed limit %q", raw)
		}
		filters.Limit = limit
	}
	if raw := q.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return filters, common.NewErrInvalidInput("malformed offset %q", raw)
		}
		filters.Offset = offset
	}
	if raw := q.Get("min_avg_rating"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return filters, common.NewErrInvalidInput("malformed min_avg_rating %q", raw)
		}
		filters.MinAvgRating = &v
	}
	if raw := q.Get("max_avg_rating"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return filters, common.NewErrInvalidInput("malformed max_avg_rating %q", raw)
		}
		filters.MaxAvgRating = &v
	}
	return filters, nil
}
