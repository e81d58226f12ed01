package db

import (
	"context"
	"fmt"
	"time"

	"savoro/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DB bundles the collection handles the handlers work with. Connect is called
// exactly once from main; components receive only the handles they need.
type DB struct {
	Client *mongo.Client

	Users    *mongo.Collection
	Products *mongo.Collection
	Offers   *mongo.Collection
	Orders   *mongo.Collection
}

func Connect(ctx context.Context, cfg *config.Config) (*DB, error) {
	clientOptions := options.Client().ApplyURI(cfg.MongoURI)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	database := client.Database(cfg.MongoDB)
	d := &DB{
		Client:   client,
		Users:    database.Collection("users"),
		Products: database.Collection("products"),
		Offers:   database.Collection("offers"),
		Orders:   database.Collection("orders"),
	}

	if err := d.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *DB) ensureIndexes(ctx context.Context) error {
	// Offer codes are stored upper-cased; the unique index makes the
	// case-insensitive uniqueness invariant hold under concurrent creates.
	_, err := d.Offers.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "code", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("offers code index: %w", err)
	}

	_, err = d.Users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("users username index: %w", err)
	}

	_, err = d.Orders.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "paymentStatus", Value: 1}, {Key: "createdAt", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("orders window index: %w", err)
	}
	return nil
}

func (d *DB) Close(ctx context.Context) error {
	return d.Client.Disconnect(ctx)
}
