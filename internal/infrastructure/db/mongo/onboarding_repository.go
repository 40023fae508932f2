package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"github.com/gigboard/marketplace-core/internal/core/domain"
	"github.com/gigboard/marketplace-core/internal/core/ports"
)

// OnboardingRepository runs onboarding units as multi-document transactions
// with snapshot reads. Two units touching the counters document conflict and
// one of them is retried by the driver before the error surfaces.
type OnboardingRepository struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewOnboardingRepository(client *mongo.Client, db *mongo.Database) *OnboardingRepository {
	return &OnboardingRepository{client: client, db: db}
}

// WithinTransaction runs fn inside a session transaction. A conflict that
// outlives the driver's own retries is reported as domain.ErrTransactionConflict.
func (r *OnboardingRepository) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx ports.OnboardingTx) error) error {
	sess, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(context.WithoutCancel(ctx))

	txOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc, &onboardingTx{db: r.db, sess: sess})
	}, txOpts)
	if err != nil {
		if isConflict(err) {
			return fmt.Errorf("%w: %w", domain.ErrTransactionConflict, err)
		}
		return err
	}
	return nil
}

// onboardingTx binds every call to the session so reads see the transaction's
// snapshot and writes stay invisible until commit.
type onboardingTx struct {
	db   *mongo.Database
	sess mongo.Session
}

func (t *onboardingTx) bind(ctx context.Context) context.Context {
	return mongo.NewSessionContext(ctx, t.sess)
}

func (t *onboardingTx) FindUser(ctx context.Context, userID string) (*domain.User, error) {
	var u domain.User
	err := t.db.Collection(collectionUsers).FindOne(t.bind(ctx), bson.M{"_id": userID}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (t *onboardingTx) LoadCounters(ctx context.Context) (domain.Counters, error) {
	var c domain.Counters
	err := t.db.Collection(collectionMetadata).FindOne(t.bind(ctx), bson.M{"_id": domain.SequenceDocumentID}).Decode(&c)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Counters{}, err
	}
	return c, nil
}

func (t *onboardingTx) DirectoryEntryExists(ctx context.Context, role domain.Role, identifier string) (bool, error) {
	n, err := t.db.Collection(directoryCollection(role)).CountDocuments(
		t.bind(ctx),
		bson.M{"_id": identifier},
		options.Count().SetLimit(1),
	)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (t *onboardingTx) PutDirectoryEntry(ctx context.Context, entry *domain.DirectoryEntry) error {
	_, err := t.db.Collection(directoryCollection(entry.Role)).ReplaceOne(
		t.bind(ctx),
		bson.M{"_id": entry.Identifier},
		entry,
		options.Replace().SetUpsert(true),
	)
	return err
}

func (t *onboardingTx) SaveCounters(ctx context.Context, counters domain.Counters) error {
	_, err := t.db.Collection(collectionMetadata).UpdateOne(
		t.bind(ctx),
		bson.M{"_id": domain.SequenceDocumentID},
		bson.M{"$set": bson.M{
			"freelancer_count": counters.FreelancerCount,
			"client_count":     counters.ClientCount,
		}},
		options.Update().SetUpsert(true),
	)
	return err
}

func (t *onboardingTx) SaveUser(ctx context.Context, user *domain.User) error {
	res, err := t.db.Collection(collectionUsers).ReplaceOne(t.bind(ctx), bson.M{"_id": user.ID}, user)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
