package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Имена коллекций документного хранилища.
const (
	UsersCollection      = "users"
	ActivitiesCollection = "activities"
	FavoritesCollection  = "favorites"
)

// NewMongo подключается к MongoDB и проверяет соединение.
func NewMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(50).
		SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: не удалось подключиться: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: ping не прошёл: %w", err)
	}

	return client, nil
}

// IndexModels описывает индексы каждой коллекции.
func IndexModels() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		UsersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		ActivitiesCollection: {
			{Keys: bson.D{{Key: "ownerId", Value: 1}}},
			{Keys: bson.D{{Key: "city", Value: 1}}},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "city", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		FavoritesCollection: {
			// дубликаты userId+activityId запрещены
			{
				Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "activityId", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("userId_activityId_unique"),
			},
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "order", Value: 1}}},
		},
	}
}

// EnsureIndexes создаёт индексы коллекций, если их ещё нет.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	for collection, models := range IndexModels() {
		if _, err := database.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("mongo: не удалось создать индексы %s: %w", collection, err)
		}
	}
	return nil
}
