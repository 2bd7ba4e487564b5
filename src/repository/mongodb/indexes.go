package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the application relies on. The unique
// compound index on (requester, recipient) is what turns a racing duplicate
// request into a duplicate-key error instead of a second document.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("connections").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "requester", Value: 1},
			{Key: "recipient", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	return err
}
