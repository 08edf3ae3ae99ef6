package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	common "github.com/padel-api/padel-api/pkg/domain"
	iam_in "github.com/padel-api/padel-api/pkg/domain/iam/ports/in"
)

// UserHandler exposes user lookups and guest provisioning.
type UserHandler struct {
	users  iam_in.UserService
	logger *slog.Logger
}

func NewUserHandler(users iam_in.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}
	users, err := h.users.Search(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) CreateGuest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName string `json:"full_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(r.Context(), h.logger, w, common.NewErrInvalidInput("malformed request body"))
		return
	}
	guest, err := h.users.CreateGuest(r.Context(), req.FullName)
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, guest)
}
