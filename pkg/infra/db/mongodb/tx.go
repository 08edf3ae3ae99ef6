package mongodb

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	common "github.com/padel-api/padel-api/pkg/domain"
)

const (
	txMaxAttempts    = 3
	txInitialBackoff = 50 * time.Millisecond
)

// TxRunner executes a unit of work inside a MongoDB multi-document
// transaction. Transient failures retry up to txMaxAttempts with exponential
// backoff; domain errors abort immediately and reach the caller unchanged.
// Requires a replica set.
type TxRunner struct {
	client *mongo.Client
	logger *slog.Logger
}

func NewTxRunner(client *mongo.Client, logger *slog.Logger) *TxRunner {
	return &TxRunner{client: client, logger: logger}
}

func (r *TxRunner) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	backoff := txInitialBackoff
	var lastErr error
	for attempt := 1; attempt <= txMaxAttempts; attempt++ {
		lastErr = r.runOnce(ctx, fn)
		if lastErr == nil {
			return nil
		}
		if common.KindOf(lastErr) != common.KindTransientStore {
			return lastErr
		}
		if attempt == txMaxAttempts {
			break
		}
		r.logger.WarnContext(ctx, "transaction attempt failed, retrying",
			"attempt", attempt, "backoff", backoff, "error", lastErr)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
		backoff *= 2
	}
	return lastErr
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := r.client.StartSession()
	if err != nil {
		return wrapStoreErr(err, "start session")
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(sc)
	})
	return wrapStoreErr(err, "transaction")
}

var _ common.TxRunner = (*TxRunner)(nil)
