package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/padel-api/padel-api/pkg/app/live"
	"github.com/padel-api/padel-api/pkg/app/metrics"
)

// NewRouter wires every route of the service. Path ids are UUIDs; validation
// happens in the handlers so malformed ids return a domain-shaped error.
func NewRouter(
	tournaments *TournamentHandler,
	ratings *RatingHandler,
	users *UserHandler,
	admin *AdminHandler,
	planner *PlannerHandler,
	hub *live.Hub,
	m *metrics.Metrics,
	logger *slog.Logger,
) *mux.Router {
	r := mux.NewRouter()
	r.Use(IdentityMiddleware)
	r.Use(LoggingMiddleware(logger))
	r.Use(MetricsMiddleware(m))

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	r.Handle("/metrics", m.Handler()).Methods(http.MethodGet)

	v1 := r.PathPrefix("/api/v1").Subrouter()

	// tournaments
	v1.HandleFunc("/tournaments", tournaments.Create).Methods(http.MethodPost)
	v1.HandleFunc("/tournaments", tournaments.List).Methods(http.MethodGet)
	v1.HandleFunc("/tournaments/mine", tournaments.ListMine).Methods(http.MethodGet)
	v1.HandleFunc("/tournaments/joined", tournaments.ListJoined).Methods(http.MethodGet)
	v1.HandleFunc("/tournaments/upcoming", tournaments.ListUpcoming).Methods(http.MethodGet)
	v1.HandleFunc("/tournaments/join", tournaments.JoinByCode).Methods(http.MethodPost)
	v1.HandleFunc("/tournaments/{id}", tournaments.Get).Methods(http.MethodGet)
	v1.HandleFunc("/tournaments/{id}/join", tournaments.Join).Methods(http.MethodPost)
	v1.HandleFunc("/tournaments/{id}/leave", tournaments.Leave).Methods(http.MethodPost)
	v1.HandleFunc("/tournaments/{id}/players/{playerID}", tournaments.AddPlayer).Methods(http.MethodPost)
	v1.HandleFunc("/tournaments/{id}/players/{playerID}", tournaments.RemovePlayer).Methods(http.MethodDelete)
	v1.HandleFunc("/tournaments/{id}/join-code", tournaments.JoinCode).Methods(http.MethodPost)
	v1.HandleFunc("/tournaments/{id}/start", tournaments.Start).Methods(http.MethodPost)
	v1.HandleFunc("/tournaments/{id}/finish", tournaments.Finish).Methods(http.MethodPost)
	v1.HandleFunc("/tournaments/{id}/rounds", tournaments.Rounds).Methods(http.MethodGet)
	v1.HandleFunc("/tournaments/{id}/rounds/current", tournaments.CurrentRound).Methods(http.MethodGet)
	v1.HandleFunc("/tournaments/{id}/leaderboard", tournaments.Leaderboard).Methods(http.MethodGet)
	v1.HandleFunc("/tournaments/{id}/results", tournaments.Results).Methods(http.MethodGet)
	v1.HandleFunc("/tournaments/{id}/winner", tournaments.Winner).Methods(http.MethodGet)

	// matches
	v1.HandleFunc("/matches/{matchID}/result", tournaments.RecordResult).Methods(http.MethodPost)

	// planner
	v1.HandleFunc("/planner/duration", planner.EstimateDuration).Methods(http.MethodGet)
	v1.HandleFunc("/planner/points", planner.OptimalPoints).Methods(http.MethodGet)

	// ratings
	v1.HandleFunc("/ratings/top", ratings.TopRatings).Methods(http.MethodGet)
	v1.HandleFunc("/ratings/players/{playerID}", ratings.PlayerStatistics).Methods(http.MethodGet)

	// users
	v1.HandleFunc("/users/search", users.Search).Methods(http.MethodGet)
	v1.HandleFunc("/users/guests", users.CreateGuest).Methods(http.MethodPost)
	v1.HandleFunc("/users/{id}", users.Get).Methods(http.MethodGet)

	// admin
	adminRouter := v1.PathPrefix("/admin").Subrouter()
	adminRouter.HandleFunc("/matches/{matchID}/result", admin.OverrideMatchResult).Methods(http.MethodPut)
	adminRouter.HandleFunc("/tournaments/{id}/recalculate", admin.RecalculateResults).Methods(http.MethodPost)
	adminRouter.HandleFunc("/tournaments/{id}/status", admin.ForceStatus).Methods(http.MethodPut)
	adminRouter.HandleFunc("/users/{id}/status", admin.SetUserActive).Methods(http.MethodPut)
	adminRouter.HandleFunc("/users/{id}", admin.DeleteUser).Methods(http.MethodDelete)
	adminRouter.HandleFunc("/audit", admin.SearchAudit).Methods(http.MethodGet)
	adminRouter.HandleFunc("/audit/stats", admin.AuditStats).Methods(http.MethodGet)
	adminRouter.HandleFunc("/audit/history", admin.TargetAuditHistory).Methods(http.MethodGet)

	// live updates
	v1.HandleFunc("/tournaments/{id}/live", func(w http.ResponseWriter, req *http.Request) {
		id, err := pathID(req, "id")
		if err != nil {
			writeError(req.Context(), logger, w, err)
			return
		}
		hub.Subscribe(w, req, id)
	}).Methods(http.MethodGet)

	return r
}
