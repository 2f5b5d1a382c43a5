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
	"github.com/hyperlocal/community/internal/core/ports"
)

type ServiceRequestRepository struct {
	coll *mongo.Collection
}

func NewServiceRequestRepository(db *mongo.Database) *ServiceRequestRepository {
	return &ServiceRequestRepository{coll: db.Collection(collectionRequests)}
}

type requestDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Title          string             `bson:"title"`
	Description    string             `bson:"description"`
	Category       string             `bson:"category"`
	Priority       string             `bson:"priority"`
	Status         string             `bson:"status"`
	UserID         interface{}        `bson:"user_id"`
	UserName       string             `bson:"user_name"`
	Apartment      string             `bson:"apartment"`
	IdempotencyKey string             `bson:"idempotency_key,omitempty"`
	CreatedAt      time.Time          `bson:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at,omitempty"`
}

func (d requestDoc) toDomain() *domain.ServiceRequest {
	return &domain.ServiceRequest{
		ID:             d.ID.Hex(),
		Title:          d.Title,
		Description:    d.Description,
		Category:       domain.Category(d.Category),
		Priority:       domain.Priority(d.Priority),
		Status:         domain.RequestStatus(d.Status),
		UserID:         hexOf(d.UserID),
		UserName:       d.UserName,
		Apartment:      d.Apartment,
		IdempotencyKey: d.IdempotencyKey,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

// Create inserts req and sets its ID.
func (r *ServiceRequestRepository) Create(ctx context.Context, req *domain.ServiceRequest) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := requestDoc{
		ID:             primitive.NewObjectID(),
		Title:          req.Title,
		Description:    req.Description,
		Category:       string(req.Category),
		Priority:       string(req.Priority),
		Status:         string(req.Status),
		UserID:         userObjectID(req.UserID),
		UserName:       req.UserName,
		Apartment:      req.Apartment,
		IdempotencyKey: req.IdempotencyKey,
		CreatedAt:      req.CreatedAt.UTC(),
		UpdatedAt:      req.UpdatedAt.UTC(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert service request: %w", err)
	}
	req.ID = doc.ID.Hex()
	return nil
}

func (r *ServiceRequestRepository) findOne(ctx context.Context, filter bson.M) (*domain.ServiceRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc requestDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, fmt.Errorf("find service request: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ServiceRequestRepository) FindByID(ctx context.Context, id string) (*domain.ServiceRequest, error) {
	oid, err := objectID(id, domain.ErrRequestNotFound)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

// FindByIdempotencyKey retrieves a request previously created by userID with key.
func (r *ServiceRequestRepository) FindByIdempotencyKey(ctx context.Context, userID, key string) (*domain.ServiceRequest, error) {
	return r.findOne(ctx, bson.M{"user_id": userObjectID(userID), "idempotency_key": key})
}

func requestFilter(f ports.RequestFilter) bson.M {
	filter := bson.M{}
	if f.UserID != "" {
		filter["user_id"] = userObjectID(f.UserID)
	}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	return filter
}

func (r *ServiceRequestRepository) List(ctx context.Context, f ports.RequestFilter) ([]*domain.ServiceRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, requestFilter(f), findOptions("created_at", f.Limit))
	if err != nil {
		return nil, fmt.Errorf("list service requests: %w", err)
	}
	var docs []requestDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode service requests: %w", err)
	}

	out := make([]*domain.ServiceRequest, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *ServiceRequestRepository) UpdateStatus(ctx context.Context, id string, status domain.RequestStatus) error {
	oid, err := objectID(id, domain.ErrRequestNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": string(status), "updated_at": time.Now().UTC()}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update service request status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrRequestNotFound
	}
	return nil
}

func (r *ServiceRequestRepository) Count(ctx context.Context, f ports.RequestFilter) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.coll.CountDocuments(ctx, requestFilter(f))
}
