package mongodb

import (
	"context"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	common "github.com/padel-api/padel-api/pkg/domain"
	tournament_entities "github.com/padel-api/padel-api/pkg/domain/tournament/entities"
	tournament_out "github.com/padel-api/padel-api/pkg/domain/tournament/ports/out"
)

type ResultRepository struct {
	db *mongo.Database
}

func NewResultRepository(client *mongo.Client, dbName string) *ResultRepository {
	return &ResultRepository{db: client.Database(dbName)}
}

func (r *ResultRepository) collection() *mongo.Collection {
	return r.db.Collection(resultsCollection)
}

func (r *ResultRepository) FindByTournament(ctx context.Context, tournamentID uuid.UUID) ([]*tournament_entities.TournamentResult, error) {
	opts := options.Find().SetSort(bson.D{{Key: "final_position", Value: 1}})
	cursor, err := r.collection().Find(ctx, bson.M{"tournament_id": tournamentID}, opts)
	if err != nil {
		return nil, wrapStoreErr(err, "find results")
	}
	defer cursor.Close(ctx)

	var results []*tournament_entities.TournamentResult
	if err := cursor.All(ctx, &results); err != nil {
		return nil, wrapStoreErr(err, "decode results")
	}
	return results, nil
}

func (r *ResultRepository) FindByTournamentAndPlayer(ctx context.Context, tournamentID, playerID uuid.UUID) (*tournament_entities.TournamentResult, error) {
	var result tournament_entities.TournamentResult
	err := r.collection().FindOne(ctx, bson.M{"tournament_id": tournamentID, "player_id": playerID}).Decode(&result)
	if err == mongo.ErrNoDocuments {
		return nil, common.NewErrNotFound("tournament result", playerID)
	}
	if err != nil {
		return nil, wrapStoreErr(err, "find result")
	}
	return &result, nil
}

func (r *ResultRepository) ReplaceForTournament(ctx context.Context, tournamentID uuid.UUID, results []*tournament_entities.TournamentResult) error {
	if _, err := r.collection().DeleteMany(ctx, bson.M{"tournament_id": tournamentID}); err != nil {
		return wrapStoreErr(err, "clear results")
	}
	if len(results) == 0 {
		return nil
	}
	docs := make([]any, len(results))
	for i, res := range results {
		docs[i] = res
	}
	if _, err := r.collection().InsertMany(ctx, docs); err != nil {
		return wrapStoreErr(err, "insert results")
	}
	return nil
}

var _ tournament_out.ResultRepository = (*ResultRepository)(nil)
