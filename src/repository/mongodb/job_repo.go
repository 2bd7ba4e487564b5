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

type JobRepo struct {
	coll *mongo.Collection
}

func NewJobRepo(db *mongo.Database) *JobRepo {
	return &JobRepo{coll: db.Collection("jobs")}
}

func (r *JobRepo) Insert(ctx context.Context, j *models.Job) (primitive.ObjectID, error) {
	if j.Id.IsZero() {
		j.Id = primitive.NewObjectID()
	}
	now := time.Now()
	j.CreatedAt = now
	j.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, j); err != nil {
		return primitive.NilObjectID, err
	}
	return j.Id, nil
}

func (r *JobRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Job, error) {
	var job models.Job
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&job)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("job %s: %w", id.Hex(), repository.ErrNotFound)
		}
		return nil, err
	}
	return &job, nil
}

func (r *JobRepo) Update(ctx context.Context, j *models.Job) error {
	j.UpdatedAt = time.Now()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": j.Id}, j)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("job %s: %w", j.Id.Hex(), repository.ErrNotFound)
	}
	return nil
}

func (r *JobRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("job %s: %w", id.Hex(), repository.ErrNotFound)
	}
	return nil
}

func (r *JobRepo) List(ctx context.Context, q repository.JobQuery) ([]models.Job, error) {
	filter := bson.M{}
	if q.JobType != "" {
		filter["jobType"] = q.JobType
	}
	if q.Company != "" {
		filter["company"] = primitive.Regex{Pattern: q.Company, Options: "i"}
	}
	if q.Location != "" {
		filter["location"] = primitive.Regex{Pattern: q.Location, Options: "i"}
	}
	if q.IsActive != nil {
		filter["isActive"] = *q.IsActive
	}
	return r.find(ctx, filter, options.Find().SetSort(bson.M{"createdAt": -1}))
}

func (r *JobRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"applicationDeadline": bson.M{"$lt": now}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *JobRepo) CountAll(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

func (r *JobRepo) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"createdAt": bson.M{"$gte": since}})
}

func (r *JobRepo) FindRecent(ctx context.Context, limit int64) ([]models.Job, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(limit)
	return r.find(ctx, bson.M{}, opts)
}

func (r *JobRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Job, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	jobs := []models.Job{}
	if err := cursor.All(ctx, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}
