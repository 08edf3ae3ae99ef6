package mongodb

import (
	"context"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	common "github.com/padel-api/padel-api/pkg/domain"
	rating_entities "github.com/padel-api/padel-api/pkg/domain/rating/entities"
	rating_out "github.com/padel-api/padel-api/pkg/domain/rating/ports/out"
)

const (
	ratingsCollection = "player_ratings"
	historyCollection = "rating_history"
)

type PlayerRatingRepository struct {
	db *mongo.Database
}

func NewPlayerRatingRepository(client *mongo.Client, dbName string) *PlayerRatingRepository {
	return &PlayerRatingRepository{db: client.Database(dbName)}
}

func (r *PlayerRatingRepository) ratings() *mongo.Collection {
	return r.db.Collection(ratingsCollection)
}

func (r *PlayerRatingRepository) history() *mongo.Collection {
	return r.db.Collection(historyCollection)
}

func (r *PlayerRatingRepository) FindByPlayer(ctx context.Context, playerID uuid.UUID) (*rating_entities.PlayerRating, error) {
	var rating rating_entities.PlayerRating
	err := r.ratings().FindOne(ctx, bson.M{"player_id": playerID}).Decode(&rating)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, wrapStoreErr(err, "find rating")
	}
	return &rating, nil
}

func (r *PlayerRatingRepository) FindByPlayers(ctx context.Context, playerIDs []uuid.UUID) ([]*rating_entities.PlayerRating, error) {
	if len(playerIDs) == 0 {
		return nil, nil
	}
	cursor, err := r.ratings().Find(ctx, bson.M{"player_id": bson.M{"$in": playerIDs}})
	if err != nil {
		return nil, wrapStoreErr(err, "find ratings")
	}
	defer cursor.Close(ctx)

	var ratings []*rating_entities.PlayerRating
	if err := cursor.All(ctx, &ratings); err != nil {
		return nil, wrapStoreErr(err, "decode ratings")
	}
	return ratings, nil
}

func (r *PlayerRatingRepository) Save(ctx context.Context, rating *rating_entities.PlayerRating) error {
	if _, err := r.ratings().InsertOne(ctx, rating); err != nil {
		return wrapStoreErr(err, "insert rating")
	}
	return nil
}

func (r *PlayerRatingRepository) Update(ctx context.Context, rating *rating_entities.PlayerRating) error {
	res, err := r.ratings().ReplaceOne(ctx, bson.M{"_id": rating.ID}, rating)
	if err != nil {
		return wrapStoreErr(err, "update rating")
	}
	if res.MatchedCount == 0 {
		return common.NewErrNotFound("player rating", rating.ID)
	}
	return nil
}

func (r *PlayerRatingRepository) TopByRating(ctx context.Context, minMatches, limit int) ([]*rating_entities.PlayerRating, error) {
	opts := options.Find().SetSort(bson.D{{Key: "current_rating", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := r.ratings().Find(ctx, bson.M{"matches_played": bson.M{"$gte": minMatches}}, opts)
	if err != nil {
		return nil, wrapStoreErr(err, "top ratings")
	}
	defer cursor.Close(ctx)

	var ratings []*rating_entities.PlayerRating
	if err := cursor.All(ctx, &ratings); err != nil {
		return nil, wrapStoreErr(err, "decode top ratings")
	}
	return ratings, nil
}

func (r *PlayerRatingRepository) AppendHistory(ctx context.Context, entry *rating_entities.RatingHistoryEntry) error {
	if _, err := r.history().InsertOne(ctx, entry); err != nil {
		return wrapStoreErr(err, "insert rating history")
	}
	return nil
}

func (r *PlayerRatingRepository) RecentHistory(ctx context.Context, playerRatingID uuid.UUID, limit int) ([]*rating_entities.RatingHistoryEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := r.history().Find(ctx, bson.M{"player_rating_id": playerRatingID}, opts)
	if err != nil {
		return nil, wrapStoreErr(err, "find rating history")
	}
	defer cursor.Close(ctx)

	var entries []*rating_entities.RatingHistoryEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, wrapStoreErr(err, "decode rating history")
	}
	return entries, nil
}

var _ rating_out.PlayerRatingRepository = (*PlayerRatingRepository)(nil)
