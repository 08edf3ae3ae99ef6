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

type MatchRepository struct {
	db *mongo.Database
}

func NewMatchRepository(client *mongo.Client, dbName string) *MatchRepository {
	return &MatchRepository{db: client.Database(dbName)}
}

func (r *MatchRepository) collection() *mongo.Collection {
	return r.db.Collection(matchesCollection)
}

var matchOrder = bson.D{{Key: "round_number", Value: 1}, {Key: "created_at", Value: 1}}

func (r *MatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*tournament_entities.Match, error) {
	var m tournament_entities.Match
	err := r.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return nil, common.NewErrNotFound("match", id)
	}
	if err != nil {
		return nil, wrapStoreErr(err, "find match")
	}
	return &m, nil
}

func (r *MatchRepository) FindByTournament(ctx context.Context, tournamentID uuid.UUID) ([]*tournament_entities.Match, error) {
	return r.find(ctx, bson.M{"tournament_id": tournamentID})
}

func (r *MatchRepository) FindByRound(ctx context.Context, tournamentID uuid.UUID, roundNumber int) ([]*tournament_entities.Match, error) {
	return r.find(ctx, bson.M{"tournament_id": tournamentID, "round_number": roundNumber})
}

func (r *MatchRepository) FindCompleted(ctx context.Context, tournamentID uuid.UUID) ([]*tournament_entities.Match, error) {
	return r.find(ctx, bson.M{"tournament_id": tournamentID, "is_completed": true})
}

func (r *MatchRepository) find(ctx context.Context, query bson.M) ([]*tournament_entities.Match, error) {
	cursor, err := r.collection().Find(ctx, query, options.Find().SetSort(matchOrder))
	if err != nil {
		return nil, wrapStoreErr(err, "find matches")
	}
	defer cursor.Close(ctx)

	var matches []*tournament_entities.Match
	if err := cursor.All(ctx, &matches); err != nil {
		return nil, wrapStoreErr(err, "decode matches")
	}
	return matches, nil
}

func (r *MatchRepository) SaveAll(ctx context.Context, matches []*tournament_entities.Match) error {
	if len(matches) == 0 {
		return nil
	}
	docs := make([]any, len(matches))
	for i, m := range matches {
		docs[i] = m
	}
	if _, err := r.collection().InsertMany(ctx, docs); err != nil {
		return wrapStoreErr(err, "insert matches")
	}
	return nil
}

func (r *MatchRepository) Update(ctx context.Context, match *tournament_entities.Match) error {
	res, err := r.collection().ReplaceOne(ctx, bson.M{"_id": match.ID}, match)
	if err != nil {
		return wrapStoreErr(err, "update match")
	}
	if res.MatchedCount == 0 {
		return common.NewErrNotFound("match", match.ID)
	}
	return nil
}

var _ tournament_out.MatchRepository = (*MatchRepository)(nil)
