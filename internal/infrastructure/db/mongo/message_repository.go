package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hyperlocal/community/internal/core/domain"
)

type MessageRepository struct {
	coll *mongo.Collection
}

func NewMessageRepository(db *mongo.Database) *MessageRepository {
	return &MessageRepository{coll: db.Collection(collectionMessages)}
}

type messageDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Content     string             `bson:"content"`
	UserID      interface{}        `bson:"user_id"`
	UserName    string             `bson:"user_name"`
	IsSecretary bool               `bson:"is_secretary"`
	CreatedAt   time.Time          `bson:"created_at"`
}

func (d messageDoc) toDomain() *domain.ChatMessage {
	role := domain.RoleResident
	if d.IsSecretary {
		role = domain.RoleSecretary
	}
	return &domain.ChatMessage{
		ID:         d.ID.Hex(),
		Content:    d.Content,
		UserID:     hexOf(d.UserID),
		UserName:   d.UserName,
		SenderRole: role,
		CreatedAt:  d.CreatedAt,
	}
}

// Create inserts m and sets its ID.
func (r *MessageRepository) Create(ctx context.Context, m *domain.ChatMessage) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := messageDoc{
		ID:          primitive.NewObjectID(),
		Content:     m.Content,
		UserID:      userObjectID(m.UserID),
		UserName:    m.UserName,
		IsSecretary: m.SenderRole == domain.RoleSecretary,
		CreatedAt:   m.CreatedAt.UTC(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	m.ID = doc.ID.Hex()
	return nil
}

func (r *MessageRepository) FindByID(ctx context.Context, id string) (*domain.ChatMessage, error) {
	oid, err := objectID(id, domain.ErrMessageNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc messageDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrMessageNotFound
		}
		return nil, fmt.Errorf("find message: %w", err)
	}
	return doc.toDomain(), nil
}

// Recent returns up to limit messages, newest first.
func (r *MessageRepository) Recent(ctx context.Context, limit int) ([]*domain.ChatMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{}, findOptions("created_at", limit))
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	var docs []messageDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}

	out := make([]*domain.ChatMessage, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *MessageRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id, domain.ErrMessageNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrMessageNotFound
	}
	return nil
}

func (r *MessageRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.coll.CountDocuments(ctx, bson.M{})
}
