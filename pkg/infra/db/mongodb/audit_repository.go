package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	admin_entities "github.com/padel-api/padel-api/pkg/domain/admin/entities"
	admin_out "github.com/padel-api/padel-api/pkg/domain/admin/ports/out"
)

const auditCollection = "audit_log"

type AuditRepository struct {
	db *mongo.Database
}

func NewAuditRepository(client *mongo.Client, dbName string) *AuditRepository {
	return &AuditRepository{db: client.Database(dbName)}
}

func (r *AuditRepository) collection() *mongo.Collection {
	return r.db.Collection(auditCollection)
}

func (r *AuditRepository) Append(ctx context.Context, entry *admin_entities.AuditEntry) error {
	if _, err := r.collection().InsertOne(ctx, entry); err != nil {
		return wrapStoreErr(err, "insert audit entry")
	}
	return nil
}

func (r *AuditRepository) Search(ctx context.Context, filters admin_out.AuditFilters) ([]*admin_entities.AuditEntry, error) {
	query := bson.M{}
	if filters.Action != nil {
		query["action"] = *filters.Action
	}
	if filters.TargetType != nil {
		query["target_type"] = *filters.TargetType
	}
	if filters.TargetID != "" {
		query["target_id"] = filters.TargetID
	}
	if filters.After != nil || filters.Before != nil {
		window := bson.M{}
		if filters.After != nil {
			window["$gte"] = *filters.After
		}
		if filters.Before != nil {
			window["$lte"] = *filters.Before
		}
		query["timestamp"] = window
	}

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if filters.Offset > 0 {
		opts.SetSkip(int64(filters.Offset))
	}
	if filters.Limit > 0 {
		opts.SetLimit(int64(filters.Limit))
	}

	cursor, err := r.collection().Find(ctx, query, opts)
	if err != nil {
		return nil, wrapStoreErr(err, "search audit log")
	}
	defer cursor.Close(ctx)

	var entries []*admin_entities.AuditEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, wrapStoreErr(err, "decode audit log")
	}
	return entries, nil
}

func (r *AuditRepository) Stats(ctx context.Context) (*admin_out.AuditStats, error) {
	cursor, err := r.collection().Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$action", "count": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, wrapStoreErr(err, "aggregate audit stats")
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Action admin_entities.ActionType `bson:"_id"`
		Count  int                       `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, wrapStoreErr(err, "decode audit stats")
	}

	stats := &admin_out.AuditStats{CountsByAction: make(map[admin_entities.ActionType]int, len(rows))}
	for _, row := range rows {
		stats.CountsByAction[row.Action] = row.Count
		stats.TotalEntries += row.Count
	}
	return stats, nil
}

func (r *AuditRepository) TargetHistory(ctx context.Context, targetType admin_entities.TargetType, targetID string) ([]*admin_entities.AuditEntry, error) {
	return r.Search(ctx, admin_out.AuditFilters{TargetType: &targetType, TargetID: targetID})
}

var _ admin_out.AuditRepository = (*AuditRepository)(nil)
