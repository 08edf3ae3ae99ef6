package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the repositories rely on. Safe to run on
// every startup; creation is idempotent.
func EnsureIndexes(ctx context.Context, client *mongo.Client, dbName string) error {
	db := client.Database(dbName)

	indexes := map[string][]mongo.IndexModel{
		tournamentsCollection: {
			{
				Keys:    bson.D{{Key: "join_code", Value: 1}},
				Options: options.Index().SetUnique(true).SetSparse(true),
			},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "players", Value: 1}}},
			{Keys: bson.D{{Key: "created_by", Value: 1}}},
		},
		matchesCollection: {
			{Keys: bson.D{{Key: "tournament_id", Value: 1}, {Key: "round_number", Value: 1}}},
		},
		resultsCollection: {
			{
				Keys:    bson.D{{Key: "tournament_id", Value: 1}, {Key: "player_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		ratingsCollection: {
			{
				Keys:    bson.D{{Key: "player_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "matches_played", Value: 1}, {Key: "current_rating", Value: -1}}},
		},
		historyCollection: {
			{Keys: bson.D{{Key: "player_rating_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		usersCollection: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true).SetSparse(true),
			},
			{Keys: bson.D{{Key: "full_name", Value: 1}}},
		},
		auditCollection: {
			{Keys: bson.D{{Key: "target_type", Value: 1}, {Key: "target_id", Value: 1}, {Key: "timestamp", Value: -1}}},
			{Keys: bson.D{{Key: "timestamp", Value: -1}}},
		},
	}

	for collection, models := range indexes {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return wrapStoreErr(err, "create indexes for "+collection)
		}
	}
	return nil
}
