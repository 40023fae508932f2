package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gigboard/marketplace-core/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

// Collection names.
const (
	collectionAccounts    = "accounts"
	collectionUsers       = "users"
	collectionMetadata    = "metadata"
	collectionFreelancers = "freelancers"
	collectionClients     = "clients"
	collectionJobs        = "jobs"
	collectionProposals   = "proposals"
	collectionProjects    = "projects"
)

// Transaction failure markers returned by the server.
const (
	transientTxLabel  = "TransientTransactionError"
	writeConflictCode = 112
)

// Config captures the minimal settings required to establish a MongoDB connection.
// Transactions require the server to run as a replica set.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}

// directoryCollection maps a role to the collection holding its entries.
func directoryCollection(role domain.Role) string {
	if role == domain.RoleClient {
		return collectionClients
	}
	return collectionFreelancers
}

// EnsureSequences creates the counters document when it is missing. It never
// touches an existing document.
func EnsureSequences(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := db.Collection(collectionMetadata).UpdateOne(ctx,
		bson.M{"_id": domain.SequenceDocumentID},
		bson.M{"$setOnInsert": bson.M{"freelancer_count": int64(0), "client_count": int64(0)}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("ensure sequences: %w", err)
	}
	return nil
}

// EnsureIndexes creates the secondary indexes of every collection.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := map[string][]mongo.IndexModel{
		collectionAccounts: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		collectionFreelancers: {
			{Keys: bson.D{{Key: "owner_id", Value: 1}}},
		},
		collectionClients: {
			{Keys: bson.D{{Key: "owner_id", Value: 1}}},
		},
		collectionJobs: {
			{Keys: bson.D{{Key: "client_user_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		collectionProposals: {
			{
				Keys:    bson.D{{Key: "job_id", Value: 1}, {Key: "freelancer_user_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		collectionProjects: {
			{Keys: bson.D{{Key: "freelancer_user_id", Value: 1}}},
			{Keys: bson.D{{Key: "client_user_id", Value: 1}}},
		},
	}

	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("ensure indexes on %s: %w", name, err)
		}
	}
	return nil
}

// isConflict reports whether err is a transient transaction failure that the
// caller may retry from scratch.
func isConflict(err error) bool {
	var se mongo.ServerError
	if !errors.As(err, &se) {
		return false
	}
	return se.HasErrorLabel(transientTxLabel) || se.HasErrorCode(writeConflictCode)
}
