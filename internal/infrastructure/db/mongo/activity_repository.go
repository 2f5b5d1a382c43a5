package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hyperlocal/community/internal/core/domain"
)

// ActivityRepository persists the audit trail to the activity_log collection.
type ActivityRepository struct {
	coll *mongo.Collection
}

func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{coll: db.Collection(collectionActivity)}
}

type activityDoc struct {
	Kind        string    `bson:"kind"`
	ActorID     string    `bson:"actor_id"`
	ActorRole   string    `bson:"actor_role"`
	EntityID    string    `bson:"entity_id"`
	Detail      string    `bson:"detail,omitempty"`
	At          time.Time `bson:"at"`
	ProcessedAt time.Time `bson:"processed_at"`
}

func (r *ActivityRepository) Insert(ctx context.Context, ev *domain.ActivityEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := activityDoc{
		Kind:        string(ev.Kind),
		ActorID:     ev.ActorID,
		ActorRole:   string(ev.ActorRole),
		EntityID:    ev.EntityID,
		Detail:      ev.Detail,
		At:          ev.At.UTC(),
		ProcessedAt: time.Now().UTC(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

// Recent returns up to limit events, newest first.
func (r *ActivityRepository) Recent(ctx context.Context, limit int) ([]*domain.ActivityEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{}, findOptions("at", limit))
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	var docs []activityDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode activity: %w", err)
	}

	out := make([]*domain.ActivityEvent, 0, len(docs))
	for _, d := range docs {
		out = append(out, &domain.ActivityEvent{
			Kind:      domain.ActivityKind(d.Kind),
			ActorID:   d.ActorID,
			ActorRole: domain.Role(d.ActorRole),
			EntityID:  d.EntityID,
			Detail:    d.Detail,
			At:        d.At,
		})
	}
	return out, nil
}
