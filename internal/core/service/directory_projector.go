package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/gigboard/marketplace-core/internal/api/metrics"
	"github.com/gigboard/marketplace-core/internal/core/domain"
	"github.com/gigboard/marketplace-core/internal/core/ports"
)

// DirectoryProjector owns the public directory collections: it writes the
// initial projection during onboarding, mirrors ledger changes afterwards and
// answers public lookups.
type DirectoryProjector struct {
	repo  ports.DirectoryRepository
	users ports.UserRepository
	clock func() time.Time
	log   zerolog.Logger
}

func NewDirectoryProjector(repo ports.DirectoryRepository, users ports.UserRepository, log zerolog.Logger) *DirectoryProjector {
	return &DirectoryProjector{
		repo:  repo,
		users: users,
		clock: func() time.Time { return time.Now().UTC() },
		log:   log,
	}
}

// Project writes the directory entry for a freshly allocated identifier inside
// the onboarding transaction. ledger is nil for client entries.
func (p *DirectoryProjector) Project(ctx context.Context, tx ports.OnboardingTx, identifier string, role domain.Role, user *domain.User, ledger *domain.Ledger) error {
	now := p.clock()
	entry := &domain.DirectoryEntry{
		Identifier: identifier,
		Role:       role,
		OwnerID:    user.ID,
		Profile:    user.Profile,
		Ledger:     ledger.Clone(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	entry.Profile.Skills = append([]string(nil), user.Profile.Skills...)

	if err := tx.PutDirectoryEntry(ctx, entry); err != nil {
		return fmt.Errorf("project %s: %w", identifier, err)
	}
	return nil
}

// Mirror copies the authoritative ledger onto the freelancer's directory
// entry. Failures are logged and swallowed: the user record stays correct and
// the next successful mirror overwrites the stale values.
func (p *DirectoryProjector) Mirror(ctx context.Context, identifier string, ledger *domain.Ledger) {
	start := time.Now()
	err := p.repo.UpdateLedger(ctx, identifier, ledger)
	metrics.MirrorDuration.Observe(time.Since(start).Seconds())
	if err == nil {
		return
	}

	reason := "write_failed"
	if errors.Is(err, domain.ErrDirectoryEntryNotFound) {
		reason = "not_found"
	}
	metrics.MirrorFailuresTotal.WithLabelValues(reason).Inc()
	p.log.Warn().
		Err(fmt.Errorf("%w: %w", domain.ErrMirrorSyncFailed, err)).
		Str("identifier", identifier).
		Int64("available", ledger.Available).
		Msg("directory mirror failed")
}

// GetFreelancerDirectoryEntry returns the public entry for a freelancer id.
func (p *DirectoryProjector) GetFreelancerDirectoryEntry(ctx context.Context, identifier string) (*domain.DirectoryEntry, error) {
	return p.lookup(ctx, domain.RoleFreelancer, identifier)
}

// GetClientDirectoryEntry returns the public entry for a client id.
func (p *DirectoryProjector) GetClientDirectoryEntry(ctx context.Context, identifier string) (*domain.DirectoryEntry, error) {
	return p.lookup(ctx, domain.RoleClient, identifier)
}

func (p *DirectoryProjector) lookup(ctx context.Context, role domain.Role, identifier string) (*domain.DirectoryEntry, error) {
	parsed, _, err := domain.ParseIdentifier(identifier)
	if err != nil || parsed != role {
		return nil, domain.ErrDirectoryEntryNotFound
	}
	return p.repo.FindByIdentifier(ctx, role, identifier)
}

// Reconcile rewrites the freelancer projection of userID from the
// authoritative ledger and returns the refreshed entry.
func (p *DirectoryProjector) Reconcile(ctx context.Context, userID string) (*domain.DirectoryEntry, error) {
	user, err := p.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("reconcile: %w", err)
	}
	if user.FreelancerID == "" || user.Ledger == nil {
		return nil, fmt.Errorf("reconcile: %w", domain.ErrRoleNotHeld)
	}
	if err := user.Ledger.Verify(); err != nil {
		p.log.Error().Err(err).Str("user_id", userID).Msg("authoritative ledger fails conservation check")
	}

	if err := p.repo.ReplaceLedger(ctx, user.FreelancerID, user.Ledger); err != nil {
		return nil, fmt.Errorf("reconcile %s: %w", user.FreelancerID, err)
	}

	p.log.Info().Str("user_id", userID).Str("identifier", user.FreelancerID).Msg("directory entry reconciled")
	return p.repo.FindByIdentifier(ctx, domain.RoleFreelancer, user.FreelancerID)
}
