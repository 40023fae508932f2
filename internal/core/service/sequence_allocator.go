package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gigboard/marketplace-core/internal/api/metrics"
	"github.com/gigboard/marketplace-core/internal/core/domain"
	"github.com/gigboard/marketplace-core/internal/core/ports"
)

// maxCollisionSkips bounds how many occupied identifiers Allocate walks past
// inside one transaction.
const maxCollisionSkips = 64

// SequenceAllocator issues role identifiers. It never touches storage outside
// the transaction it is given; the caller persists the mutated counters.
type SequenceAllocator struct {
	log zerolog.Logger
}

func NewSequenceAllocator(log zerolog.Logger) *SequenceAllocator {
	return &SequenceAllocator{log: log}
}

// Allocate increments the counter for role and returns the new identifier.
//
// A non-zero counter is only trusted while the role's first directory entry
// still exists. When it is gone the directory was wiped behind the counter's
// back, so the counter restarts at zero and numbering resumes from 001.
// Identifiers still present in the directory are never reissued; allocation
// moves past them and fails with ErrIdentifierCollision only after
// maxCollisionSkips occupied identifiers in a row.
func (a *SequenceAllocator) Allocate(ctx context.Context, tx ports.OnboardingTx, counters *domain.Counters, role domain.Role) (string, error) {
	if current := counters.Get(role); current > 0 {
		first := domain.FirstIdentifier(role)
		exists, err := tx.DirectoryEntryExists(ctx, role, first)
		if err != nil {
			return "", fmt.Errorf("allocate %s: check %s: %w", role, first, err)
		}
		if !exists {
			a.log.Warn().
				Str("role", string(role)).
				Int64("counter", current).
				Msg("first directory entry missing, resetting sequence")
			metrics.SequenceResetsTotal.WithLabelValues(string(role)).Inc()
			counters.Set(role, 0)
		}
	}

	// A partially wiped directory can leave live entries ahead of the counter.
	// Skip past them so one missing document never blocks every onboarding.
	next := counters.Get(role) + 1
	for skipped := 0; ; skipped++ {
		if skipped == maxCollisionSkips {
			return "", fmt.Errorf("allocate %s: %w: %d identifiers taken from %s",
				role, domain.ErrIdentifierCollision, skipped, domain.FormatIdentifier(role, counters.Get(role)+1))
		}
		id := domain.FormatIdentifier(role, next)
		taken, err := tx.DirectoryEntryExists(ctx, role, id)
		if err != nil {
			return "", fmt.Errorf("allocate %s: check %s: %w", role, id, err)
		}
		if !taken {
			if skipped > 0 {
				a.log.Warn().
					Str("role", string(role)).
					Str("identifier", id).
					Int("skipped", skipped).
					Msg("skipped identifiers already in the directory")
			}
			counters.Set(role, next)
			return id, nil
		}
		next++
	}
}
