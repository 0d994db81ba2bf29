package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/memberhub/portal/internal/core/domain"
)

const auditCollection = "auth_events"

// AuditRepository appends authentication events to a capped-style collection.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

type mongoAuthEvent struct {
	Identity         string `bson:"identity"`
	Kind             string `bson:"kind"`
	RemainingSeconds int    `bson:"remaining_seconds,omitempty"`
	At               int64  `bson:"at"`
}

func (r *AuditRepository) Append(ctx context.Context, event domain.AuthEvent) error {
	doc := mongoAuthEvent{
		Identity:         event.Identity,
		Kind:             string(event.Kind),
		RemainingSeconds: event.RemainingSeconds,
		At:               event.At.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert auth event: %w", err)
	}
	return nil
}
