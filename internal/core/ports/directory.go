package ports

import (
	"context"

	"github.com/gigboard/marketplace-core/internal/core/domain"
)

// DirectoryRepository reads and mirrors into the public directory collections.
type DirectoryRepository interface {
	FindByIdentifier(ctx context.Context, role domain.Role, identifier string) (*domain.DirectoryEntry, error)
	// UpdateLedger overwrites the ledger snapshot of an existing entry unless
	// the stored history is already longer, in which case the write is a
	// no-op. It does not create entries; a missing one is
	// ErrDirectoryEntryNotFound.
	UpdateLedger(ctx context.Context, identifier string, ledger *domain.Ledger) error
	// ReplaceLedger overwrites the snapshot unconditionally.
	ReplaceLedger(ctx context.Context, identifier string, ledger *domain.Ledger) error
}

// LedgerMirror receives authoritative ledger values after every successful
// mutation. Implementations are best effort and never report failure.
type LedgerMirror interface {
	Mirror(ctx context.Context, identifier string, ledger *domain.Ledger)
}

// DirectoryService answers public directory lookups.
type DirectoryService interface {
	GetFreelancerDirectoryEntry(ctx context.Context, identifier string) (*domain.DirectoryEntry, error)
	GetClientDirectoryEntry(ctx context.Context, identifier string) (*domain.DirectoryEntry, error)
	// Reconcile rewrites a freelancer's projection from the authoritative ledger.
	Reconcile(ctx context.Context, userID string) (*domain.DirectoryEntry, error)
}
