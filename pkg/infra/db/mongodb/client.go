package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	common "github.com/padel-api/padel-api/pkg/domain"
)

const connectTimeout = 10 * time.Second

// Connect opens a client with the UUID registry installed and verifies the
// connection with a ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetRegistry(MongoRegistry))
	if err != nil {
		return nil, wrapStoreErr(err, "connect")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, wrapStoreErr(err, "ping")
	}
	return client, nil
}

// wrapStoreErr folds a driver error into the domain taxonomy. Domain errors
// and context errors pass through untouched so usecase semantics survive the
// store boundary.
func wrapStoreErr(err error, op string) error {
	if err == nil {
		return nil
	}
	var de *common.Error
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	switch {
	case mongo.IsDuplicateKeyError(err):
		return common.WrapError(common.KindConflict, err, "duplicate key on %s", op)
	case mongo.IsNetworkError(err), mongo.IsTimeout(err):
		return common.WrapError(common.KindTransientStore, err, "transient store failure on %s", op)
	default:
		return common.WrapError(common.KindFatalStore, err, "store failure on %s", op)
	}
}
