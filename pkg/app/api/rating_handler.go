package api

import (
	"log/slog"
	"net/http"
	"strconv"

	rating_in "github.com/padel-api/padel-api/pkg/domain/rating/ports/in"
)

// RatingHandler exposes the rating read-models.
type RatingHandler struct {
	ratings rating_in.RatingService
	logger  *slog.Logger
}

func NewRatingHandler(ratings rating_in.RatingService, logger *slog.Logger) *RatingHandler {
	return &RatingHandler{ratings: ratings, logger: logger}
}

func (h *RatingHandler) PlayerStatistics(w http.ResponseWriter, r *http.Request) {
	playerID, err := pathID(r, "playerID")
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	stats, err := h.ratings.PlayerStatistics(r.Context(), playerID)
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *RatingHandler) TopRatings(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}
	top, err := h.ratings.TopRatings(r.Context(), limit)
	if err != nil {
		writeError(r.Context(), h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, top)
}
