package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bitez/platform/internal/core/domain"
	"github.com/bitez/platform/internal/core/ports"
)

const auditCollection = "auth_events"

// AuditRepository writes auth events to the auth_events collection.
type AuditRepository struct {
	col *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(auditCollection)}
}

var _ ports.AuditRepository = (*AuditRepository)(nil)

func (r *AuditRepository) Insert(ctx context.Context, event *domain.AuthEvent) error {
	if _, err := r.col.InsertOne(ctx, auditDoc(event, time.Now().UTC())); err != nil {
		return fmt.Errorf("insert auth event: %w", err)
	}
	return nil
}

// EnsureIndexes creates lookup indexes by user and by time.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "type", Value: 1}}},
	})
	return err
}

func auditDoc(event *domain.AuthEvent, processedAt time.Time) bson.M {
	doc := bson.M{
		"type":         string(event.Type),
		"ip":           event.IP,
		"user_agent":   event.UserAgent,
		"timestamp":    event.Timestamp.UTC(),
		"processed_at": processedAt,
	}
	if event.UserID != "" {
		doc["user_id"] = event.UserID
	}
	if event.Email != "" {
		doc["email"] = event.Email
	}
	return doc
}
