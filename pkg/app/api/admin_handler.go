package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	common "github.com/padel-api/padel-api/pkg/domain"
	admin_entities "github.com/padel-api/padel-api/pkg/domain/admin/entities"
	admin_in "github.com/padel-api/padel-api/pkg/domain/admin/ports/in"
	admin_out "github.com/padel-api/padel-api/pkg/domain/admin/ports/out"
	tournament_entities "github.com/padel-api/padel-api/pkg/domain/tournament/entities"
)

// AdminHandler exposes the audited superuser operations. Authorization lives
// in the usecases; the handler only shapes requests and responses.
type AdminHandler struct {
	override    admin_in.OverrideMatchResultCommandHandler
	recalculate admin_in.RecalculateResultsCommandHandler
	forceStatus admin_in.ForceStatusCommandHandler
	manageUsers admin_in.ManageUsersCommandHandler
	audit       admin_in.AuditQueries
	logger      *slog.Logger
}

func NewAdminHandler(
	override admin_in.OverrideMatchResultCommandHandler,
	recalculate admin_in.RecalculateResultsCommandHandler,
	forceStatus admin_in.ForceStatusCommandHandler,
	manageUsers admin_in.ManageUsersCommandHandler,
	audit admin_in.AuditQueries,
	logger *slog.Logger,
) *AdminHandler {
	return &AdminHandler{
		override: override, recalculate: recalculate, forceStatus: forceStatus,
		manageUsers: manageUsers, audit: audit, logger: logger,
	}
}

func (h *AdminHandler) OverrideMatchResult(w http.ResponseWriter, r *http.Request) {
	matchID, err := pathID(r, "matchID")
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	var req struct {
		Team1Score int    `json:"team1_score"`
		Team2Score int    `json:"team2_score"`
		Reason     string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(r.Context(), h.logger, w, common.NewErrInvalidInput("malformed request body"))
		return
	}
	match, err := h.override.Exec(r.Context(), admin_in.OverrideMatchResultCommand{
		MatchID:    matchID,
		Team1Score: req.Team1Score,
		Team2Score: req.Team2Score,
		Reason:     req.Reason,
	})
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, match)
}

func (h *AdminHandler) RecalculateResults(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	var req struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(r.Context(), h.logger, w, common.NewErrInvalidInput("malformed request body"))
		return
	}
	results, err := h.recalculate.Exec(r.Context(), id, req.Reason)
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *AdminHandler) ForceStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	var req struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(r.Context(), h.logger, w, common.NewErrInvalidInput("malformed request body"))
		return
	}
	t, err := h.forceStatus.Exec(r.Context(), admin_in.ForceStatusCommand{
		TournamentID: id,
		Status:       tournament_entities.TournamentStatus(req.Status),
		Reason:       req.Reason,
	})
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *AdminHandler) SetUserActive(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	var req struct {
		IsActive bool   `json:"is_active"`
		Reason   string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(r.Context(), h.logger, w, common.NewErrInvalidInput("malformed request body"))
		return
	}
	user, err := h.manageUsers.SetActive(r.Context(), id, req.IsActive, req.Reason)
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	reason := r.URL.Query().Get("reason")
	if err := h.manageUsers.Delete(r.Context(), id, reason); err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *AdminHandler) SearchAudit(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := admin_out.AuditFilters{Limit: 100}
	if raw := q.Get("action"); raw != "" {
		action := admin_entities.ActionType(raw)
		filters.Action = &action
	}
	if raw := q.Get("target_type"); raw != "" {
		targetType := admin_entities.TargetType(raw)
		filters.TargetType = &targetType
	}
	filters.TargetID = q.Get("target_id")

	entries, err := h.audit.Search(r.Context(), filters)
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *AdminHandler) AuditStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.audit.Stats(r.Context())
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *AdminHandler) TargetAuditHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	targetType := admin_entities.TargetType(q.Get("target_type"))
	targetID := q.Get("target_id")
	if targetType == "" || targetID == "" {
		writeError(r.Context(), h.logger, w, common.NewErrInvalidInput("target_type and target_id are required"))
		return
	}
	entries, err := h.audit.TargetHistory(r.Context(), targetType, targetID)
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
