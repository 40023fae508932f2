package ports

import (
	"context"

	"github.com/gigboard/marketplace-core/internal/core/domain"
)

// OnboardingTx is the read/write set available inside one atomic onboarding
// unit. Every call must go through the transaction it was handed; nothing
// written here is visible to other sessions until the unit commits.
type OnboardingTx interface {
	FindUser(ctx context.Context, userID string) (*domain.User, error)
	// LoadCounters returns zero counters when the sequence record is missing.
	LoadCounters(ctx context.Context) (domain.Counters, error)
	DirectoryEntryExists(ctx context.Context, role domain.Role, identifier string) (bool, error)
	// PutDirectoryEntry replaces (never merges) the entry keyed by its identifier.
	PutDirectoryEntry(ctx context.Context, entry *domain.DirectoryEntry) error
	SaveCounters(ctx context.Context, counters domain.Counters) error
	SaveUser(ctx context.Context, user *domain.User) error
}

// OnboardingRepository exposes the storage layer's transaction primitive.
// fn may run more than once when the backend retries a conflicting commit,
// so it must not have side effects outside tx.
type OnboardingRepository interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx OnboardingTx) error) error
}

// ProfileInput carries the role profile data collected by the onboarding form.
type ProfileInput struct {
	Name       string
	Title      string
	Bio        string
	Skills     []string
	HourlyRate int64
	Company    string
	Location   string
	PhotoURL   string
}

// OnboardingInput is the DTO for CompleteOnboarding.
type OnboardingInput struct {
	UserID  string
	Roles   []string
	Profile ProfileInput
}

// OnboardingService is the single entry point that moves a user into the
// onboarded state. GetUser reads the committed record.
type OnboardingService interface {
	CompleteOnboarding(ctx context.Context, in OnboardingInput) (*domain.User, error)
	GetUser(ctx context.Context, userID string) (*domain.User, error)
}
