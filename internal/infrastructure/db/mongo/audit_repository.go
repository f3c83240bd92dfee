package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kanbanhq/ticket-board/internal/core/domain"
)

const auditCollection = "audit_events"

// AuditRepository implements ports.AuditLog using MongoDB.
type AuditRepository struct {
	col *mongo.Collection
	now func() time.Time
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{
		col: db.Collection(auditCollection),
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Record appends one event to the audit_events collection. A zero At is
// stamped with the current time.
func (r *AuditRepository) Record(ctx context.Context, event domain.AuditEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if event.At.IsZero() {
		event.At = r.now()
	}
	if _, err := r.col.InsertOne(ctx, auditDocument(event)); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// EnsureIndexes creates the lookup indexes on the audit_events collection.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "entity", Value: 1}, {Key: "entity_id", Value: 1}, {Key: "at", Value: -1}}},
		{Keys: bson.D{{Key: "actor_id", Value: 1}}},
	}

	if _, err := r.col.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("create audit indexes: %w", err)
	}
	return nil
}

func auditDocument(event domain.AuditEvent) bson.M {
	doc := bson.M{
		"entity":    event.Entity,
		"entity_id": event.EntityID,
		"action":    string(event.Action),
		"actor_id":  event.ActorID,
		"at":        event.At.UTC(),
	}
	if len(event.Changes) > 0 {
		doc["changes"] = event.Changes
	}
	return doc
}
