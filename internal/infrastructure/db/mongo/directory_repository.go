package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gigboard/marketplace-core/internal/core/domain"
)

// DirectoryRepository reads the public freelancers/clients collections and
// mirrors ledger snapshots into freelancer entries.
type DirectoryRepository struct {
	db *mongo.Database
}

func NewDirectoryRepository(db *mongo.Database) *DirectoryRepository {
	return &DirectoryRepository{db: db}
}

func (r *DirectoryRepository) FindByIdentifier(ctx context.Context, role domain.Role, identifier string) (*domain.DirectoryEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var e domain.DirectoryEntry
	err := r.db.Collection(directoryCollection(role)).FindOne(ctx, bson.M{"_id": identifier}).Decode(&e)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDirectoryEntryNotFound
		}
		return nil, err
	}
	return &e, nil
}

// UpdateLedger writes absolute values, not deltas, so a later mirror always
// repairs an earlier lost one. History only grows, so a snapshot whose history
// is shorter than the stored one is older and must not land: mirrors run off
// the request path and can finish out of commit order.
func (r *DirectoryRepository) UpdateLedger(ctx context.Context, identifier string, ledger *domain.Ledger) error {
	filter := bson.M{
		"_id": identifier,
		"$expr": bson.M{"$lte": bson.A{
			bson.M{"$size": bson.M{"$ifNull": bson.A{"$ledger.history", bson.A{}}}},
			len(ledger.History),
		}},
	}
	matched, err := r.setLedger(ctx, filter, ledger)
	if err != nil || matched {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	n, err := r.db.Collection(collectionFreelancers).CountDocuments(ctx, bson.M{"_id": identifier}, options.Count().SetLimit(1))
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrDirectoryEntryNotFound
	}
	// A newer snapshot is already stored.
	return nil
}

// ReplaceLedger is the unguarded write used by reconciliation.
func (r *DirectoryRepository) ReplaceLedger(ctx context.Context, identifier string, ledger *domain.Ledger) error {
	matched, err := r.setLedger(ctx, bson.M{"_id": identifier}, ledger)
	if err != nil {
		return err
	}
	if !matched {
		return domain.ErrDirectoryEntryNotFound
	}
	return nil
}

func (r *DirectoryRepository) setLedger(ctx context.Context, filter bson.M, ledger *domain.Ledger) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.db.Collection(collectionFreelancers).UpdateOne(ctx, filter,
		bson.M{"$set": bson.M{
			"ledger.available":    ledger.Available,
			"ledger.total_earned": ledger.TotalEarned,
			"ledger.history":      ledger.History,
			"updated_at":          time.Now().UTC(),
		}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}
