package mongodb

import (
	"context"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	common "github.com/padel-api/padel-api/pkg/domain"
	iam_entities "github.com/padel-api/padel-api/pkg/domain/iam/entities"
	iam_out "github.com/padel-api/padel-api/pkg/domain/iam/ports/out"
)

const usersCollection = "users"

type UserRepository struct {
	db *mongo.Database
}

func NewUserRepository(client *mongo.Client, dbName string) *UserRepository {
	return &UserRepository{db: client.Database(dbName)}
}

func (r *UserRepository) collection() *mongo.Collection {
	return r.db.Collection(usersCollection)
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*iam_entities.User, error) {
	var user iam_entities.User
	err := r.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, common.NewErrNotFound("user", id)
	}
	if err != nil {
		return nil, wrapStoreErr(err, "find user")
	}
	return &user, nil
}

func (r *UserRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*iam_entities.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cursor, err := r.collection().Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, wrapStoreErr(err, "find users")
	}
	defer cursor.Close(ctx)

	var users []*iam_entities.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, wrapStoreErr(err, "decode users")
	}
	return users, nil
}

func (r *UserRepository) Search(ctx context.Context, query string, limit int) ([]*iam_entities.User, error) {
	filter := bson.M{"$or": []bson.M{
		{"full_name": bson.M{"$regex": query, "$options": "i"}},
		{"email": bson.M{"$regex": query, "$options": "i"}},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "is_active", Value: -1}, {Key: "full_name", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := r.collection().Find(ctx, filter, opts)
	if err != nil {
		return nil, wrapStoreErr(err, "search users")
	}
	defer cursor.Close(ctx)

	var users []*iam_entities.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, wrapStoreErr(err, "decode users")
	}
	return users, nil
}

func (r *UserRepository) Save(ctx context.Context, user *iam_entities.User) error {
	if _, err := r.collection().InsertOne(ctx, user); err != nil {
		return wrapStoreErr(err, "insert user")
	}
	return nil
}

func (r *UserRepository) Update(ctx context.Context, user *iam_entities.User) error {
	res, err := r.collection().ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		return wrapStoreErr(err, "update user")
	}
	if res.MatchedCount == 0 {
		return common.NewErrNotFound("user", user.ID)
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.collection().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return wrapStoreErr(err, "delete user")
	}
	if res.DeletedCount == 0 {
		return common.NewErrNotFound("user", id)
	}
	return nil
}

var _ iam_out.UserRepository = (*UserRepository)(nil)
