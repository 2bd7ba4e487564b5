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

type UserRepo struct {
	coll *mongo.Collection
}

func NewUserRepo(db *mongo.Database) *UserRepo {
	return &UserRepo{coll: db.Collection("users")}
}

func (r *UserRepo) Insert(ctx context.Context, u *models.User) (primitive.ObjectID, error) {
	if u.Id.IsZero() {
		u.Id = primitive.NewObjectID()
	}
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, fmt.Errorf("email already registered: %w", repository.ErrConflict)
		}
		return primitive.NilObjectID, err
	}
	return u.Id, nil
}

func (r *UserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("user %s: %w", id.Hex(), repository.ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("user %s: %w", email, repository.ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) FindByResetToken(ctx context.Context, hashedToken string, now time.Time) (*models.User, error) {
	filter := bson.M{
		"resetPasswordToken":  hashedToken,
		"resetPasswordExpire": bson.M{"$gt": now},
	}

	var user models.User
	err := r.coll.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("reset token: %w", repository.ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) Update(ctx context.Context, u *models.User) error {
	u.UpdatedAt = time.Now()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": u.Id}, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("email already registered: %w", repository.ErrConflict)
		}
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("user %s: %w", u.Id.Hex(), repository.ErrNotFound)
	}
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("user %s: %w", id.Hex(), repository.ErrNotFound)
	}
	return nil
}

func (r *UserRepo) FindAll(ctx context.Context) ([]models.User, error) {
	return r.find(ctx, bson.M{}, options.Find().SetSort(bson.M{"createdAt": -1}))
}

func (r *UserRepo) ListAlumni(ctx context.Context, q repository.AlumniQuery) ([]models.User, error) {
	filter := verifiedAlumniFilter()
	applyAlumniFilters(filter, q)

	opts := options.Find()
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}
	return r.find(ctx, filter, opts)
}

func (r *UserRepo) SearchAlumni(ctx context.Context, q repository.AlumniQuery) ([]models.User, error) {
	pattern := primitive.Regex{Pattern: q.Query, Options: "i"}
	filter := verifiedAlumniFilter()
	filter["$or"] = bson.A{
		bson.M{"name": pattern},
		bson.M{"bio": pattern},
		bson.M{"currentCompany": pattern},
		bson.M{"skills": bson.M{"$in": bson.A{pattern}}},
	}
	applyAlumniFilters(filter, q)

	opts := options.Find()
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}
	return r.find(ctx, filter, opts)
}

func (r *UserRepo) RecommendAlumni(ctx context.Context, exclude []primitive.ObjectID, branch string, skills []string, limit int64) ([]models.User, error) {
	filter := verifiedAlumniFilter()
	filter["_id"] = bson.M{"$nin": exclude}
	filter["$or"] = bson.A{
		bson.M{"branch": branch},
		bson.M{"skills": bson.M{"$in": skills}},
	}

	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(limit)
	}
	return r.find(ctx, filter, opts)
}

func (r *UserRepo) AlumniOverview(ctx context.Context) (*models.AlumniOverview, error) {
	total, err := r.coll.CountDocuments(ctx, verifiedAlumniFilter())
	if err != nil {
		return nil, err
	}

	byBranch, err := r.groupCounts(ctx, mongo.Pipeline{
		{{Key: "$match", Value: verifiedAlumniFilter()}},
		{{Key: "$group", Value: bson.M{"_id": "$branch", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.M{"count": -1}}},
	})
	if err != nil {
		return nil, err
	}

	companyFilter := verifiedAlumniFilter()
	companyFilter["currentCompany"] = bson.M{"$exists": true, "$ne": ""}
	topCompanies, err := r.groupCounts(ctx, mongo.Pipeline{
		{{Key: "$match", Value: companyFilter}},
		{{Key: "$group", Value: bson.M{"_id": "$currentCompany", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.M{"count": -1}}},
		{{Key: "$limit", Value: 10}},
	})
	if err != nil {
		return nil, err
	}

	return &models.AlumniOverview{
		TotalAlumni:    total,
		AlumniByBranch: byBranch,
		TopCompanies:   topCompanies,
	}, nil
}

func (r *UserRepo) groupCounts(ctx context.Context, pipeline mongo.Pipeline) ([]models.BucketCount, error) {
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	counts := []models.BucketCount{}
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *UserRepo) CountByRole(ctx context.Context, role models.Role) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"role": role})
}

func (r *UserRepo) CountAll(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

func (r *UserRepo) CountUnverified(ctx context.Context) (int64, error) {
	// Admins never need verification, keep them out of the pending count.
	filter := bson.M{
		"isVerified": false,
		"role":       bson.M{"$ne": models.RoleAdmin},
	}
	return r.coll.CountDocuments(ctx, filter)
}

func (r *UserRepo) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"createdAt": bson.M{"$gte": since}})
}

func (r *UserRepo) FindRecent(ctx context.Context, limit int64) ([]models.User, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(limit)
	return r.find(ctx, bson.M{}, opts)
}

func (r *UserRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.User, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func verifiedAlumniFilter() bson.M {
	return bson.M{
		"role":       models.RoleAlumni,
		"isVerified": true,
	}
}

func applyAlumniFilters(filter bson.M, q repository.AlumniQuery) {
	if q.Branch != "" {
		filter["branch"] = q.Branch
	}
	if q.Company != "" {
		filter["currentCompany"] = primitive.Regex{Pattern: q.Company, Options: "i"}
	}
	if q.GraduationYear != 0 {
		filter["graduationYear"] = q.GraduationYear
	}
	if len(q.Skills) > 0 {
		filter["skills"] = bson.M{"$in": q.Skills}
	}
}
