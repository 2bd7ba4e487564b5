package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/alumnet/alumnet-backend/src/models"
	"github.com/alumnet/alumnet-backend/src/repository"
)

type EventRepo struct {
	coll *mongo.Collection
}

func NewEventRepo(db *mongo.Database) *EventRepo {
	return &EventRepo{coll: db.Collection("events")}
}

func (r *EventRepo) Insert(ctx context.Context, e *models.Event) (primitive.ObjectID, error) {
	if e.Id.IsZero() {
		e.Id = primitive.NewObjectID()
	}
	e.CreatedAt = time.Now()

	if _, err := r.coll.InsertOne(ctx, e); err != nil {
		return primitive.NilObjectID, err
	}
	return e.Id, nil
}

func (r *EventRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	var event models.Event
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&event)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("event %s: %w", id.Hex(), repository.ErrNotFound)
		}
		return nil, err
	}
	return &event, nil
}

func (r *EventRepo) Update(ctx context.Context, e *models.Event) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": e.Id}, e)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("event %s: %w", e.Id.Hex(), repository.ErrNotFound)
	}
	return nil
}

func (r *EventRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("event %s: %w", id.Hex(), repository.ErrNotFound)
	}
	return nil
}

func (r *EventRepo) List(ctx context.Context, approvedOnly bool) ([]models.Event, error) {
	filter := bson.M{}
	if approvedOnly {
		filter["isApproved"] = true
	}
	return r.find(ctx, filter, options.Find().SetSort(bson.M{"createdAt": -1}))
}

func (r *EventRepo) CountAll(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

func (r *EventRepo) CountPendingApproval(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"isApproved": false})
}

func (r *EventRepo) FindRecent(ctx context.Context, limit int64) ([]models.Event, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(limit)
	return r.find(ctx, bson.M{}, opts)
}

func (r *EventRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Event, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	events := []models.Event{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
