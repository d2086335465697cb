// Package mongo implements the document stores on MongoDB.
//
// Documents use string _id values (ObjectID hex) so the interfaces stay
// implementation-neutral. Every operation is instrumented through the
// observability metrics when provided.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/openshelf/openshelf/pkg/observability"
	"github.com/openshelf/openshelf/pkg/store"
)

// Collection names.
const (
	usersCollection   = "users"
	rolesCollection   = "roles"
	postsCollection   = "posts"
	authorsCollection = "authors"
	booksCollection   = "books"
)

// Connect opens a client and verifies connectivity with a ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}
	return client, nil
}

// NewStores builds the full store bundle on a database. metrics may be
// nil.
func NewStores(db *mongo.Database, metrics *observability.Metrics) *store.Stores {
	return &store.Stores{
		Users:   NewUserStore(db, metrics),
		Roles:   NewRoleStore(db, metrics),
		Posts:   NewPostStore(db, metrics),
		Authors: NewAuthorStore(db, metrics),
		Books:   NewBookStore(db, metrics),
	}
}

// EnsureIndexes creates the unique and lookup indexes the stores rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    map[string]interface{}{"email": 1},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("creating users email index: %w", err)
	}
	_, err = db.Collection(rolesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    map[string]interface{}{"name": 1},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("creating roles name index: %w", err)
	}
	return nil
}

// observe records an instrumented store operation.
func observe(metrics *observability.Metrics, collection, operation string, start time.Time, err error) {
	if metrics == nil {
		return
	}
	metrics.ObserveStoreOperation(collection, operation, err, time.Since(start))
}
