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

type ConnectionRepo struct {
	coll *mongo.Collection
}

func NewConnectionRepo(db *mongo.Database) *ConnectionRepo {
	return &ConnectionRepo{coll: db.Collection("connections")}
}

func (r *ConnectionRepo) Insert(ctx context.Context, c *models.Connection) error {
	if c.Id.IsZero() {
		c.Id = primitive.NewObjectID()
	}
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, c); err != nil {
		// Two racing requests for the same pair: the unique index on
		// (requester, recipient) decides, not the service.
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("connection already exists: %w", repository.ErrConflict)
		}
		return err
	}
	return nil
}

func (r *ConnectionRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Connection, error) {
	var conn models.Connection
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&conn)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("connection %s: %w", id.Hex(), repository.ErrNotFound)
		}
		return nil, err
	}
	return &conn, nil
}

func (r *ConnectionRepo) FindBetween(ctx context.Context, a, b primitive.ObjectID) (*models.Connection, error) {
	filter := bson.M{
		"$or": bson.A{
			bson.M{"requester": a, "recipient": b},
			bson.M{"requester": b, "recipient": a},
		},
	}

	var conn models.Connection
	err := r.coll.FindOne(ctx, filter).Decode(&conn)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("connection between %s and %s: %w", a.Hex(), b.Hex(), repository.ErrNotFound)
		}
		return nil, err
	}
	return &conn, nil
}

func (r *ConnectionRepo) Update(ctx context.Context, c *models.Connection) error {
	c.UpdatedAt = time.Now()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": c.Id}, c)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("connection %s: %w", c.Id.Hex(), repository.ErrNotFound)
	}
	return nil
}

func (r *ConnectionRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("connection %s: %w", id.Hex(), repository.ErrNotFound)
	}
	return nil
}

func (r *ConnectionRepo) ListAccepted(ctx context.Context, userID primitive.ObjectID) ([]models.Connection, error) {
	filter := participantFilter(userID)
	filter["status"] = models.ConnectionStatusAccepted
	return r.find(ctx, filter, options.Find().SetSort(bson.M{"updatedAt": -1}))
}

func (r *ConnectionRepo) ListPendingReceived(ctx context.Context, userID primitive.ObjectID) ([]models.Connection, error) {
	filter := bson.M{
		"recipient": userID,
		"status":    models.ConnectionStatusPending,
	}
	return r.find(ctx, filter, options.Find().SetSort(bson.M{"createdAt": -1}))
}

func (r *ConnectionRepo) ListPendingSent(ctx context.Context, userID primitive.ObjectID) ([]models.Connection, error) {
	filter := bson.M{
		"requester": userID,
		"status":    models.ConnectionStatusPending,
	}
	return r.find(ctx, filter, options.Find().SetSort(bson.M{"createdAt": -1}))
}

func (r *ConnectionRepo) ListMentorships(ctx context.Context, userID primitive.ObjectID) ([]models.Connection, error) {
	filter := participantFilter(userID)
	filter["status"] = models.ConnectionStatusAccepted
	filter["mentorshipRequest"] = true
	return r.find(ctx, filter, options.Find().SetSort(bson.M{"updatedAt": -1}))
}

func (r *ConnectionRepo) ListAllFor(ctx context.Context, userID primitive.ObjectID) ([]models.Connection, error) {
	return r.find(ctx, participantFilter(userID), options.Find())
}

func (r *ConnectionRepo) Stats(ctx context.Context, userID primitive.ObjectID) (*models.ConnectionStats, error) {
	accepted := participantFilter(userID)
	accepted["status"] = models.ConnectionStatusAccepted

	mentorships := participantFilter(userID)
	mentorships["status"] = models.ConnectionStatusAccepted
	mentorships["mentorshipRequest"] = true

	stats := &models.ConnectionStats{}
	var err error

	if stats.TotalConnections, err = r.coll.CountDocuments(ctx, accepted); err != nil {
		return nil, err
	}
	if stats.PendingRequests, err = r.coll.CountDocuments(ctx, bson.M{"recipient": userID, "status": models.ConnectionStatusPending}); err != nil {
		return nil, err
	}
	if stats.SentRequests, err = r.coll.CountDocuments(ctx, bson.M{"requester": userID, "status": models.ConnectionStatusPending}); err != nil {
		return nil, err
	}
	if stats.MentorshipConnections, err = r.coll.CountDocuments(ctx, mentorships); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *ConnectionRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Connection, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	conns := []models.Connection{}
	if err := cursor.All(ctx, &conns); err != nil {
		return nil, err
	}
	return conns, nil
}

func participantFilter(userID primitive.ObjectID) bson.M {
	return bson.M{
		"$or": bson.A{
			bson.M{"requester": userID},
			bson.M{"recipient": userID},
		},
	}
}
