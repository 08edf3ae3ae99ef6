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

const (
	tournamentsCollection = "tournaments"
	matchesCollection     = "matches"
	resultsCollection     = "tournament_results"
)

type TournamentRepository struct {
	db *mongo.Database
}

func NewTournamentRepository(client *mongo.Client, dbName string) *TournamentRepository {
	return &TournamentRepository{db: client.Database(dbName)}
}

func (r *TournamentRepository) collection() *mongo.Collection {
	return r.db.Collection(tournamentsCollection)
}

func (r *TournamentRepository) FindByID(ctx context.Context, id uuid.UUID) (*tournament_entities.Tournament, error) {
	var t tournament_entities.Tournament
	err := r.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	if err == mongo.ErrNoDocuments {
		return nil, common.NewErrNotFound("tournament", id)
	}
	if err != nil {
		return nil, wrapStoreErr(err, "find tournament")
	}
	return &t, nil
}

func (r *TournamentRepository) FindByJoinCode(ctx context.Context, code string) (*tournament_entities.Tournament, error) {
	var t tournament_entities.Tournament
	err := r.collection().FindOne(ctx, bson.M{"join_code": code}).Decode(&t)
	if err == mongo.ErrNoDocuments {
		return nil, common.NewErrNotFound("tournament with join code", code)
	}
	if err != nil {
		return nil, wrapStoreErr(err, "find tournament by join code")
	}
	return &t, nil
}

func (r *TournamentRepository) Search(ctx context.Context, filters tournament_out.TournamentFilters) ([]*tournament_entities.Tournament, error) {
	query := bson.M{}
	if filters.System != nil {
		query["system"] = *filters.System
	}
	if filters.Status != nil {
		query["status"] = *filters.Status
	}
	if filters.CreatedBy != nil {
		query["created_by"] = *filters.CreatedBy
	}
	if filters.PlayerID != nil {
		query["players"] = *filters.PlayerID
	}
	if filters.Location != "" {
		query["location"] = bson.M{"$regex": filters.Location, "$options": "i"}
	}
	if filters.CreatedAfter != nil || filters.CreatedBefore != nil {
		created := bson.M{}
		if filters.CreatedAfter != nil {
			created["$gte"] = *filters.CreatedAfter
		}
		if filters.CreatedBefore != nil {
			created["$lte"] = *filters.CreatedBefore
		}
		query["created_at"] = created
	}
	if filters.StartsAfter != nil {
		query["starts_at"] = bson.M{"$gte": *filters.StartsAfter}
	}
	if filters.MinAvgRating != nil || filters.MaxAvgRating != nil {
		rating := bson.M{}
		if filters.MinAvgRating != nil {
			rating["$gte"] = *filters.MinAvgRating
		}
		if filters.MaxAvgRating != nil {
			rating["$lte"] = *filters.MaxAvgRating
		}
		query["average_player_rating"] = rating
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if filters.Offset > 0 {
		opts.SetSkip(int64(filters.Offset))
	}
	if filters.Limit > 0 {
		opts.SetLimit(int64(filters.Limit))
	}

	cursor, err := r.collection().Find(ctx, query, opts)
	if err != nil {
		return nil, wrapStoreErr(err, "search tournaments")
	}
	defer cursor.Close(ctx)

	var tournaments []*tournament_entities.Tournament
	if err := cursor.All(ctx, &tournaments); err != nil {
		return nil, wrapStoreErr(err, "decode tournaments")
	}
	return tournaments, nil
}

func (r *TournamentRepository) Save(ctx context.Context, t *tournament_entities.Tournament) error {
	if _, err := r.collection().InsertOne(ctx, t); err != nil {
		return wrapStoreErr(err, "insert tournament")
	}
	return nil
}

func (r *TournamentRepository) Update(ctx context.Context, t *tournament_entities.Tournament) error {
	res, err := r.collection().ReplaceOne(ctx, bson.M{"_id": t.ID}, t)
	if err != nil {
		return wrapStoreErr(err, "update tournament")
	}
	if res.MatchedCount == 0 {
		return common.NewErrNotFound("tournament", t.ID)
	}
	return nil
}

func (r *TournamentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.collection().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return wrapStoreErr(err, "delete tournament")
	}
	if res.DeletedCount == 0 {
		return common.NewErrNotFound("tournament", id)
	}
	if _, err := r.db.Collection(matchesCollection).DeleteMany(ctx, bson.M{"tournament_id": id}); err != nil {
		return wrapStoreErr(err, "delete tournament matches")
	}
	if _, err := r.db.Collection(resultsCollection).DeleteMany(ctx, bson.M{"tournament_id": id}); err != nil {
		return wrapStoreErr(err, "delete tournament results")
	}
	return nil
}

var _ tournament_out.TournamentRepository = (*TournamentRepository)(nil)
