package ports

import (
	"context"

	"github.com/gigboard/marketplace-core/internal/core/domain"
)

// UserRepository reads user records and applies ledger mutations. The Apply
// methods must be single atomic read-modify-write operations at the storage
// layer and return the record as it stands after the write.
type UserRepository interface {
	FindByID(ctx context.Context, userID string) (*domain.User, error)
	// InitializeLedger sets the ledger only when none exists (ErrLedgerExists otherwise).
	InitializeLedger(ctx context.Context, userID string, ledger *domain.Ledger) (*domain.User, error)
	// ApplyDebit fails with ErrInsufficientBalance when entry.Amount exceeds the
	// committed balance, and ErrUserNotFound when there is no user or ledger.
	ApplyDebit(ctx context.Context, userID string, entry domain.LedgerEntry) (*domain.User, error)
	ApplyCredit(ctx context.Context, userID string, entry domain.LedgerEntry) (*domain.User, error)
}

// EntryIDGenerator issues unique ids for ledger history entries.
type EntryIDGenerator interface {
	NextID() string
}

// LedgerService is the connects ledger used by onboarding and settlement.
type LedgerService interface {
	Initialize(ctx context.Context, userID string) (*domain.Ledger, error)
	Debit(ctx context.Context, userID string, amount int64, reason string) (*domain.Ledger, error)
	Credit(ctx context.Context, userID string, amount int64, reason string) (*domain.Ledger, error)
	Balance(ctx context.Context, userID string) (int64, error)
	Ledger(ctx context.Context, userID string) (*domain.Ledger, error)
}
