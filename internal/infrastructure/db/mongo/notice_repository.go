package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hyperlocal/community/internal/core/domain"
)

type NoticeRepository struct {
	coll *mongo.Collection
}

func NewNoticeRepository(db *mongo.Database) *NoticeRepository {
	return &NoticeRepository{coll: db.Collection(collectionNotices)}
}

type noticeDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Content   string             `bson:"content"`
	Priority  string             `bson:"priority"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (d noticeDoc) toDomain() *domain.Notice {
	return &domain.Notice{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		Content:   d.Content,
		Priority:  domain.Priority(d.Priority),
		CreatedAt: d.CreatedAt,
	}
}

// Create inserts n and sets its ID.
func (r *NoticeRepository) Create(ctx context.Context, n *domain.Notice) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := noticeDoc{
		ID:        primitive.NewObjectID(),
		Title:     n.Title,
		Content:   n.Content,
		Priority:  string(n.Priority),
		CreatedAt: n.CreatedAt.UTC(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert notice: %w", err)
	}
	n.ID = doc.ID.Hex()
	return nil
}

func (r *NoticeRepository) List(ctx context.Context, limit int) ([]*domain.Notice, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{}, findOptions("created_at", limit))
	if err != nil {
		return nil, fmt.Errorf("list notices: %w", err)
	}
	var docs []noticeDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode notices: %w", err)
	}

	out := make([]*domain.Notice, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *NoticeRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id, domain.ErrNoticeNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete notice: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNoticeNotFound
	}
	return nil
}

func (r *NoticeRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.coll.CountDocuments(ctx, bson.M{})
}
