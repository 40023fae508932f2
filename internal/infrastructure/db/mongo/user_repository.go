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

// UserRepository applies ledger mutations as single-document conditional
// updates, so the balance check and the write are one atomic step.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

func (r *UserRepository) FindByID(ctx context.Context, userID string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var u domain.User
	if err := r.col.FindOne(ctx, bson.M{"_id": userID}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// InitializeLedger sets the ledger only on records that have none.
func (r *UserRepository) InitializeLedger(ctx context.Context, userID string, ledger *domain.Ledger) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": userID, "ledger": nil}
	update := bson.M{"$set": bson.M{"ledger": ledger, "updated_at": time.Now().UTC()}}

	u, err := r.findOneAndUpdate(ctx, filter, update)
	if errors.Is(err, mongo.ErrNoDocuments) {
		if _, ferr := r.FindByID(ctx, userID); ferr != nil {
			return nil, ferr
		}
		return nil, domain.ErrLedgerExists
	}
	return u, err
}

// ApplyDebit only matches when the committed balance covers the amount.
func (r *UserRepository) ApplyDebit(ctx context.Context, userID string, entry domain.LedgerEntry) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"_id":              userID,
		"ledger.available": bson.M{"$gte": entry.Amount},
	}
	update := bson.M{
		"$inc":  bson.M{"ledger.available": -entry.Amount},
		"$push": bson.M{"ledger.history": entry},
		"$set":  bson.M{"updated_at": entry.Timestamp},
	}

	u, err := r.findOneAndUpdate(ctx, filter, update)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, r.classifyMiss(ctx, userID)
	}
	return u, err
}

func (r *UserRepository) ApplyCredit(ctx context.Context, userID string, entry domain.LedgerEntry) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"_id":    userID,
		"ledger": bson.M{"$type": "object"},
	}
	update := bson.M{
		"$inc": bson.M{
			"ledger.available":    entry.Amount,
			"ledger.total_earned": entry.Amount,
		},
		"$push": bson.M{"ledger.history": entry},
		"$set":  bson.M{"updated_at": entry.Timestamp},
	}

	u, err := r.findOneAndUpdate(ctx, filter, update)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrUserNotFound
	}
	return u, err
}

func (r *UserRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*domain.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var u domain.User
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// classifyMiss explains why a conditional debit matched nothing.
func (r *UserRepository) classifyMiss(ctx context.Context, userID string) error {
	u, err := r.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if u.Ledger == nil {
		return domain.ErrUserNotFound
	}
	return fmt.Errorf("%w: available %d", domain.ErrInsufficientBalance, u.Ledger.Available)
}
