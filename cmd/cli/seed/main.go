package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	common "github.com/padel-api/padel-api/pkg/domain"
	iam_entities "github.com/padel-api/padel-api/pkg/domain/iam/entities"
	rating_entities "github.com/padel-api/padel-api/pkg/domain/rating/entities"
	tournament_entities "github.com/padel-api/padel-api/pkg/domain/tournament/entities"
	db "github.com/padel-api/padel-api/pkg/infra/db/mongodb"
)

// Well-known ids so repeated runs stay idempotent.
var (
	AdminUserID    = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	DemoTournament = uuid.MustParse("00000000-0000-0000-0000-000000000100")
)

var seedPlayers = []struct {
	ID       uuid.UUID
	Email    string
	FullName string
	Rating   float64
	Matches  int
}{
	{uuid.MustParse("00000000-0000-0000-0000-000000000011"), "maria@example.com", "Maria Fernandez", 1240, 42},
	{uuid.MustParse("00000000-0000-0000-0000-000000000012"), "jorge@example.com", "Jorge Alvarez", 1180, 35},
	{uuid.MustParse("00000000-0000-0000-0000-000000000013"), "lucia@example.com", "Lucia Moreno", 1090, 18},
	{uuid.MustParse("00000000-0000-0000-0000-000000000014"), "pablo@example.com", "Pablo Ortega", 1015, 12},
	{uuid.MustParse("00000000-0000-0000-0000-000000000015"), "carmen@example.com", "Carmen Ruiz", 980, 9},
	{uuid.MustParse("00000000-0000-0000-0000-000000000016"), "diego@example.com", "Diego Santos", 1310, 57},
	{uuid.MustParse("00000000-0000-0000-0000-000000000017"), "elena@example.com", "Elena Vidal", 1120, 24},
	{uuid.MustParse("00000000-0000-0000-0000-000000000018"), "ruben@example.com", "Ruben Castillo", 1000, 0},
}

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if os.Getenv("DEV_ENV") == "true" || os.Getenv("MONGO_URI") == "" {
		if err := godotenv.Load(); err != nil {
			slog.Warn("no .env file found, using environment variables")
		}
	}

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}
	dbName := os.Getenv("MONGODB_DATABASE")
	if dbName == "" {
		dbName = "padel_api"
	}

	client, err := db.Connect(ctx, mongoURI)
	if err != nil {
		slog.Error("failed to connect to mongodb", "error", err)
		os.Exit(1)
	}
	defer client.Disconnect(ctx)
	slog.Info("connected to mongodb", "db", dbName)

	if err := db.EnsureIndexes(ctx, client, dbName); err != nil {
		slog.Error("failed to create indexes", "error", err)
		os.Exit(1)
	}

	slog.Info("step 1/3: seeding users...")
	if err := seedUsers(ctx, client, dbName); err != nil {
		slog.Error("failed to seed users", "error", err)
		os.Exit(1)
	}

	slog.Info("step 2/3: seeding ratings...")
	if err := seedRatings(ctx, client, dbName); err != nil {
		slog.Error("failed to seed ratings", "error", err)
		os.Exit(1)
	}

	slog.Info("step 3/3: seeding demo tournament...")
	if err := seedDemoTournament(ctx, client, dbName); err != nil {
		slog.Error("failed to seed tournament", "error", err)
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
	fmt.Println("===========================================")
	fmt.Printf("  Users:       %d (+1 admin)\n", len(seedPlayers))
	fmt.Printf("  Ratings:     %d\n", len(seedPlayers))
	fmt.Println("  Tournaments: 1 pending demo event")
	fmt.Println("===========================================")
}

func seedUsers(ctx context.Context, client *mongo.Client, dbName string) error {
	collection := client.Database(dbName).Collection("users")

	now := time.Now().UTC()
	adminEmail := "admin@example.com"
	admin := &iam_entities.User{
		BaseEntity:  common.BaseEntity{ID: AdminUserID, CreatedAt: now, UpdatedAt: now},
		Email:       &adminEmail,
		FullName:    "Club Admin",
		IsActive:    true,
		IsSuperuser: true,
	}
	if err := upsertByID(ctx, collection, admin.ID, admin); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	for _, p := range seedPlayers {
		email := p.Email
		user := &iam_entities.User{
			BaseEntity: common.BaseEntity{ID: p.ID, CreatedAt: now, UpdatedAt: now},
			Email:      &email,
			FullName:   p.FullName,
			IsActive:   true,
		}
		if err := upsertByID(ctx, collection, user.ID, user); err != nil {
			return fmt.Errorf("seed user %s: %w", p.FullName, err)
		}
		slog.Info("seeded user", "name", p.FullName)
	}
	return nil
}

func seedRatings(ctx context.Context, client *mongo.Client, dbName string) error {
	collection := client.Database(dbName).Collection("player_ratings")

	for _, p := range seedPlayers {
		count, err := collection.CountDocuments(ctx, bson.M{"player_id": p.ID})
		if err != nil {
			return fmt.Errorf("check rating for %s: %w", p.FullName, err)
		}
		if count > 0 {
			slog.Info("rating already exists, skipping", "name", p.FullName)
			continue
		}
		rating := rating_entities.NewPlayerRating(p.ID)
		rating.CurrentRating = p.Rating
		rating.PeakRating = max(p.Rating, rating_entities.InitialRating)
		rating.LowestRating = min(p.Rating, rating_entities.InitialRating)
		rating.MatchesPlayed = p.Matches
		rating.MatchesWon = p.Matches / 2
		if _, err := collection.InsertOne(ctx, rating); err != nil {
			return fmt.Errorf("insert rating for %s: %w", p.FullName, err)
		}
		slog.Info("seeded rating", "name", p.FullName, "rating", p.Rating)
	}
	return nil
}

func seedDemoTournament(ctx context.Context, client *mongo.Client, dbName string) error {
	collection := client.Database(dbName).Collection("tournaments")

	count, err := collection.CountDocuments(ctx, bson.M{"_id": DemoTournament})
	if err != nil {
		return fmt.Errorf("check tournament: %w", err)
	}
	if count > 0 {
		slog.Info("demo tournament already exists, skipping")
		return nil
	}

	t, err := tournament_entities.NewTournament(
		"Friday Night Americano", tournament_entities.SystemAmericano, AdminUserID,
		8, 21, 2, "Club de Padel Centro", time.Now().UTC().AddDate(0, 0, 3),
	)
	if err != nil {
		return err
	}
	t.ID = DemoTournament
	for _, p := range seedPlayers {
		if err := t.AddPlayer(p.ID); err != nil {
			return fmt.Errorf("add %s to demo tournament: %w", p.FullName, err)
		}
	}

	if _, err := collection.InsertOne(ctx, t); err != nil {
		return fmt.Errorf("insert demo tournament: %w", err)
	}
	slog.Info("seeded demo tournament", "name", t.Name, "players", len(t.Players))
	return nil
}

func upsertByID(ctx context.Context, collection *mongo.Collection, id uuid.UUID, doc any) error {
	count, err := collection.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	_, err = collection.InsertOne(ctx, doc)
	return err
}
