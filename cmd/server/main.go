package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/golobby/container/v3"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/padel-api/padel-api/pkg/app/api"
	"github.com/padel-api/padel-api/pkg/app/live"
	"github.com/padel-api/padel-api/pkg/app/metrics"
	common "github.com/padel-api/padel-api/pkg/domain"
	admin_in "github.com/padel-api/padel-api/pkg/domain/admin/ports/in"
	admin_out "github.com/padel-api/padel-api/pkg/domain/admin/ports/out"
	admin_usecases "github.com/padel-api/padel-api/pkg/domain/admin/usecases"
	iam_in "github.com/padel-api/padel-api/pkg/domain/iam/ports/in"
	iam_out "github.com/padel-api/padel-api/pkg/domain/iam/ports/out"
	iam_usecases "github.com/padel-api/padel-api/pkg/domain/iam/usecases"
	rating_in "github.com/padel-api/padel-api/pkg/domain/rating/ports/in"
	rating_out "github.com/padel-api/padel-api/pkg/domain/rating/ports/out"
	rating_services "github.com/padel-api/padel-api/pkg/domain/rating/services"
	tournament_in "github.com/padel-api/padel-api/pkg/domain/tournament/ports/in"
	tournament_out "github.com/padel-api/padel-api/pkg/domain/tournament/ports/out"
	tournament_services "github.com/padel-api/padel-api/pkg/domain/tournament/services"
	tournament_usecases "github.com/padel-api/padel-api/pkg/domain/tournament/usecases"
	db "github.com/padel-api/padel-api/pkg/infra/db/mongodb"
	"github.com/padel-api/padel-api/pkg/infra/events"
)

const shutdownGrace = 15 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if os.Getenv("DEV_ENV") == "true" || os.Getenv("MONGO_URI") == "" {
		if err := godotenv.Load(); err != nil {
			logger.Warn("no .env file found, using environment variables")
		}
	}

	mongoURI := envOr("MONGO_URI", "mongodb://localhost:27017")
	dbName := envOr("MONGODB_DATABASE", "padel_api")
	listenAddr := envOr("LISTEN_ADDR", ":8080")
	kafkaBrokers := os.Getenv("KAFKA_BROKERS")
	kafkaTopic := envOr("KAFKA_TOPIC", "padel.tournament.events")

	ctx := context.Background()
	client, err := db.Connect(ctx, mongoURI)
	if err != nil {
		logger.Error("mongodb connection failed", "error", err)
		os.Exit(1)
	}
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, client, dbName); err != nil {
		logger.Error("index creation failed", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to mongodb", "db", dbName)

	c := container.New()
	must := func(err error) {
		if err != nil {
			logger.Error("container wiring failed", "error", err)
			os.Exit(1)
		}
	}

	m := metrics.New()
	hub := live.NewHub(logger)

	must(c.Singleton(func() *slog.Logger { return logger }))
	must(c.Singleton(func() *mongo.Client { return client }))
	must(c.Singleton(func() common.TxRunner { return db.NewTxRunner(client, logger) }))
	must(c.Singleton(func() tournament_out.TournamentRepository { return db.NewTournamentRepository(client, dbName) }))
	must(c.Singleton(func() tournament_out.MatchRepository { return db.NewMatchRepository(client, dbName) }))
	must(c.Singleton(func() tournament_out.ResultRepository { return db.NewResultRepository(client, dbName) }))
	must(c.Singleton(func() rating_out.PlayerRatingRepository { return db.NewPlayerRatingRepository(client, dbName) }))
	must(c.Singleton(func() iam_out.UserRepository { return db.NewUserRepository(client, dbName) }))
	must(c.Singleton(func() admin_out.AuditRepository { return db.NewAuditRepository(client, dbName) }))

	must(c.Singleton(func() tournament_out.EventPublisher {
		observer := metrics.NewEventObserver(m)
		if kafkaBrokers == "" {
			logger.Warn("no kafka brokers configured, events go to websocket subscribers only")
			return events.NewFanoutPublisher(hub, observer)
		}
		kafkaPub := events.NewKafkaPublisher(strings.Split(kafkaBrokers, ","), kafkaTopic, logger)
		return events.NewFanoutPublisher(kafkaPub, hub, observer)
	}))

	must(c.Singleton(func() *tournament_services.AmericanoScheduler { return tournament_services.NewAmericanoScheduler() }))
	must(c.Singleton(func() *tournament_services.Scoreboard { return tournament_services.NewScoreboard() }))
	must(c.Singleton(func(ratings rating_out.PlayerRatingRepository) rating_in.RatingService {
		return rating_services.NewEloRatingService(rating_services.DefaultConfig(), ratings)
	}))

	must(c.Singleton(func(repo tournament_out.TournamentRepository, l *slog.Logger) tournament_in.CreateTournamentCommandHandler {
		return tournament_usecases.NewCreateTournamentUseCase(repo, l)
	}))
	must(c.Singleton(func(repo tournament_out.TournamentRepository, tx common.TxRunner, l *slog.Logger) tournament_in.JoinTournamentCommandHandler {
		return tournament_usecases.NewJoinTournamentUseCase(repo, tx, l)
	}))
	must(c.Singleton(func(repo tournament_out.TournamentRepository, tx common.TxRunner, l *slog.Logger) tournament_in.LeaveTournamentCommandHandler {
		return tournament_usecases.NewLeaveTournamentUseCase(repo, tx, l)
	}))
	must(c.Singleton(func(repo tournament_out.TournamentRepository, users iam_out.UserRepository, tx common.TxRunner, l *slog.Logger) tournament_in.RosterCommandHandler {
		return tournament_usecases.NewManageRosterUseCase(repo, users, tx, l)
	}))
	must(c.Singleton(func(repo tournament_out.TournamentRepository, tx common.TxRunner, l *slog.Logger) tournament_in.JoinCodeCommandHandler {
		return tournament_usecases.NewJoinCodeUseCase(repo, tx, l)
	}))
	must(c.Singleton(func(
		repo tournament_out.TournamentRepository,
		matches tournament_out.MatchRepository,
		ratings rating_out.PlayerRatingRepository,
		scheduler *tournament_services.AmericanoScheduler,
		publisher tournament_out.EventPublisher,
		tx common.TxRunner,
		l *slog.Logger,
	) tournament_in.StartTournamentCommandHandler {
		return tournament_usecases.NewStartTournamentUseCase(repo, matches, ratings, scheduler, publisher, tx, l)
	}))
	must(c.Singleton(func(
		repo tournament_out.TournamentRepository,
		matches tournament_out.MatchRepository,
		ratingService rating_in.RatingService,
		publisher tournament_out.EventPublisher,
		tx common.TxRunner,
		l *slog.Logger,
	) tournament_in.RecordMatchResultCommandHandler {
		return tournament_usecases.NewRecordMatchResultUseCase(repo, matches, ratingService, publisher, tx, l)
	}))
	must(c.Singleton(func(
		repo tournament_out.TournamentRepository,
		matches tournament_out.MatchRepository,
		results tournament_out.ResultRepository,
		ratingService rating_in.RatingService,
		scoreboard *tournament_services.Scoreboard,
		publisher tournament_out.EventPublisher,
		tx common.TxRunner,
		l *slog.Logger,
	) tournament_in.FinishTournamentCommandHandler {
		return tournament_usecases.NewFinishTournamentUseCase(repo, matches, results, ratingService, scoreboard, publisher, tx, l)
	}))
	must(c.Singleton(func(
		repo tournament_out.TournamentRepository,
		matches tournament_out.MatchRepository,
		results tournament_out.ResultRepository,
		users iam_out.UserRepository,
		scoreboard *tournament_services.Scoreboard,
		l *slog.Logger,
	) tournament_in.TournamentQueries {
		return tournament_usecases.NewTournamentQueriesUseCase(repo, matches, results, users, scoreboard, l)
	}))

	must(c.Singleton(func(users iam_out.UserRepository, l *slog.Logger) iam_in.UserService {
		return iam_usecases.NewUserServiceUseCase(users, l)
	}))

	must(c.Singleton(func(repo tournament_out.TournamentRepository, matches tournament_out.MatchRepository, audit admin_out.AuditRepository, tx common.TxRunner, l *slog.Logger) admin_in.OverrideMatchResultCommandHandler {
		return admin_usecases.NewOverrideMatchResultUseCase(repo, matches, audit, tx, l)
	}))
	must(c.Singleton(func(
		repo tournament_out.TournamentRepository,
		matches tournament_out.MatchRepository,
		results tournament_out.ResultRepository,
		audit admin_out.AuditRepository,
		scoreboard *tournament_services.Scoreboard,
		tx common.TxRunner,
		l *slog.Logger,
	) admin_in.RecalculateResultsCommandHandler {
		return admin_usecases.NewRecalculateResultsUseCase(repo, matches, results, audit, scoreboard, tx, l)
	}))
	must(c.Singleton(func(repo tournament_out.TournamentRepository, audit admin_out.AuditRepository, tx common.TxRunner, l *slog.Logger) admin_in.ForceStatusCommandHandler {
		return admin_usecases.NewForceStatusUseCase(repo, audit, tx, l)
	}))
	must(c.Singleton(func(users iam_out.UserRepository, repo tournament_out.TournamentRepository, audit admin_out.AuditRepository, tx common.TxRunner, l *slog.Logger) admin_in.ManageUsersCommandHandler {
		return admin_usecases.NewManageUsersUseCase(users, repo, audit, tx, l)
	}))
	must(c.Singleton(func(audit admin_out.AuditRepository) admin_in.AuditQueries {
		return admin_usecases.NewAuditQueriesUseCase(audit)
	}))

	var (
		createUC  tournament_in.CreateTournamentCommandHandler
		joinUC    tournament_in.JoinTournamentCommandHandler
		leaveUC   tournament_in.LeaveTournamentCommandHandler
		rosterUC  tournament_in.RosterCommandHandler
		codesUC   tournament_in.JoinCodeCommandHandler
		startUC   tournament_in.StartTournamentCommandHandler
		recordUC  tournament_in.RecordMatchResultCommandHandler
		finishUC  tournament_in.FinishTournamentCommandHandler
		queriesUC tournament_in.TournamentQueries

		ratingService rating_in.RatingService
		userService   iam_in.UserService

		overrideUC admin_in.OverrideMatchResultCommandHandler
		recalcUC   admin_in.RecalculateResultsCommandHandler
		forceUC    admin_in.ForceStatusCommandHandler
		usersUC    admin_in.ManageUsersCommandHandler
		auditUC    admin_in.AuditQueries
	)
	must(c.Resolve(&createUC))
	must(c.Resolve(&joinUC))
	must(c.Resolve(&leaveUC))
	must(c.Resolve(&rosterUC))
	must(c.Resolve(&codesUC))
	must(c.Resolve(&startUC))
	must(c.Resolve(&recordUC))
	must(c.Resolve(&finishUC))
	must(c.Resolve(&queriesUC))
	must(c.Resolve(&ratingService))
	must(c.Resolve(&userService))
	must(c.Resolve(&overrideUC))
	must(c.Resolve(&recalcUC))
	must(c.Resolve(&forceUC))
	must(c.Resolve(&usersUC))
	must(c.Resolve(&auditUC))

	tournamentHandler := api.NewTournamentHandler(createUC, joinUC, leaveUC, rosterUC, codesUC, startUC, recordUC, finishUC, queriesUC, m, logger)
	ratingHandler := api.NewRatingHandler(ratingService, logger)
	userHandler := api.NewUserHandler(userService, logger)
	adminHandler := api.NewAdminHandler(overrideUC, recalcUC, forceUC, usersUC, auditUC, logger)
	plannerHandler := api.NewPlannerHandler(logger)

	router := api.NewRouter(tournamentHandler, ratingHandler, userHandler, adminHandler, plannerHandler, hub, m, logger)

	server := &http.Server{
		Addr:              listenAddr,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		// No WriteTimeout: the /live websocket routes hold connections open.
		IdleTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", listenAddr)
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
		}
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
