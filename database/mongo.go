package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Collection names.
const (
	Admins     = "admins"
	Users      = "users"
	Products   = "products"
	Categories = "categories"
	Brands     = "brands"
	Orders     = "orders"
	Coupons    = "coupons"
	Reviews    = "reviews"
	Counters   = "counters"
)

// ConnectMongo connects to MongoDB and verifies the connection with a ping.
func ConnectMongo(ctx context.Context, mongoURL, dbName string) (*mongo.Client, *mongo.Database, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(timeoutCtx, options.Client().ApplyURI(mongoURL))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(timeoutCtx, nil); err != nil {
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	zap.L().Info("Connected to MongoDB", zap.String("db", dbName))
	return client, client.Database(dbName), nil
}

// DisconnectMongo closes the client with a short deadline.
func DisconnectMongo(client *mongo.Client) error {
	if client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from MongoDB: %w", err)
	}
	zap.L().Info("Disconnected from MongoDB")
	return nil
}

// EnsureIndexes creates the indexes the repositories rely on. Existing indexes are left alone.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)
	specs := map[string][]mongo.IndexModel{
		Admins:  {{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique}},
		Users:   {{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique}},
		Coupons: {{Keys: bson.D{{Key: "couponCode", Value: 1}}, Options: unique}},
		Brands:  {{Keys: bson.D{{Key: "name", Value: 1}}, Options: unique}},
		Products: {
			{Keys: bson.D{{Key: "sku", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
			{Keys: bson.D{{Key: "slug", Value: 1}}},
			{Keys: bson.D{{Key: "category.name", Value: 1}}},
		},
		Reviews: {{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "productId", Value: 1}}, Options: unique}},
		Orders:  {{Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}}}},
	}

	for coll, models := range specs {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("ensure indexes on %s: %w", coll, err)
		}
	}
	return nil
}
