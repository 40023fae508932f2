package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"

	"github.com/gigboard/marketplace-core/internal/api/metrics"
	"github.com/gigboard/marketplace-core/internal/core/domain"
	"github.com/gigboard/marketplace-core/internal/core/ports"
)

const (
	defaultOnboardingAttempts = 3
	onboardingRetryBase       = 50 * time.Millisecond
)

// OnboardingOptions tunes the onboarding orchestrator.
type OnboardingOptions struct {
	StarterGrant int64
	// MaxAttempts bounds how many times a conflicting transaction is replayed.
	MaxAttempts int
}

// OnboardingService implements ports.OnboardingService.
type OnboardingService struct {
	repo        ports.OnboardingRepository
	users       ports.UserRepository
	allocator   *SequenceAllocator
	projector   *DirectoryProjector
	ids         ports.EntryIDGenerator
	grant       int64
	maxAttempts int
	clock       func() time.Time
	log         zerolog.Logger
}

func NewOnboardingService(
	repo ports.OnboardingRepository,
	users ports.UserRepository,
	allocator *SequenceAllocator,
	projector *DirectoryProjector,
	ids ports.EntryIDGenerator,
	opts OnboardingOptions,
	log zerolog.Logger,
) *OnboardingService {
	if opts.StarterGrant <= 0 {
		opts.StarterGrant = domain.DefaultStarterGrant
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultOnboardingAttempts
	}
	return &OnboardingService{
		repo:        repo,
		users:       users,
		allocator:   allocator,
		projector:   projector,
		ids:         ids,
		grant:       opts.StarterGrant,
		maxAttempts: opts.MaxAttempts,
		clock:       func() time.Time { return time.Now().UTC() },
		log:         log,
	}
}

// CompleteOnboarding assigns identifiers for every requested role the user
// does not hold yet, seeds the freelancer ledger, writes the directory entries
// and flips the onboarded flag, all in one transaction. Roles already held are
// left untouched, so retrying after a failure or a success is safe.
//
// Every failure is reported as domain.ErrOnboardingFailed wrapping the cause.
func (s *OnboardingService) CompleteOnboarding(ctx context.Context, in ports.OnboardingInput) (*domain.User, error) {
	roles, err := domain.ParseRoles(in.Roles)
	if err != nil {
		metrics.OnboardingTotal.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: %w", domain.ErrOnboardingFailed, err)
	}

	var (
		result *domain.User
		issued map[domain.Role]string
	)
	backoff := retry.WithMaxRetries(uint64(s.maxAttempts-1), retry.NewExponential(onboardingRetryBase))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		user, ids, err := s.attempt(ctx, in, roles)
		if err != nil {
			if errors.Is(err, domain.ErrTransactionConflict) {
				s.log.Debug().Err(err).Str("user_id", in.UserID).Msg("onboarding conflict, retrying")
				return retry.RetryableError(err)
			}
			return err
		}
		result, issued = user, ids
		return nil
	})
	if err != nil {
		label := "failed"
		if errors.Is(err, domain.ErrTransactionConflict) {
			label = "conflict"
		}
		metrics.OnboardingTotal.WithLabelValues(label).Inc()
		s.log.Error().Err(err).Str("user_id", in.UserID).Strs("roles", roles.Strings()).Msg("onboarding failed")
		return nil, fmt.Errorf("%w: %w", domain.ErrOnboardingFailed, err)
	}

	metrics.OnboardingTotal.WithLabelValues("ok").Inc()
	for role, id := range issued {
		metrics.IdentifiersIssuedTotal.WithLabelValues(string(role)).Inc()
		s.log.Info().Str("user_id", in.UserID).Str("role", string(role)).Str("identifier", id).Msg("identifier issued")
	}
	return result, nil
}

// attempt runs one transactional pass. It may be replayed by the backend, so
// all state it builds lives inside the closure.
func (s *OnboardingService) attempt(ctx context.Context, in ports.OnboardingInput, roles domain.RoleSet) (*domain.User, map[domain.Role]string, error) {
	var (
		result *domain.User
		issued map[domain.Role]string
	)

	err := s.repo.WithinTransaction(ctx, func(ctx context.Context, tx ports.OnboardingTx) error {
		issued = make(map[domain.Role]string, len(roles))

		current, err := tx.FindUser(ctx, in.UserID)
		if err != nil {
			return fmt.Errorf("load user: %w", err)
		}
		counters, err := tx.LoadCounters(ctx)
		if err != nil {
			return fmt.Errorf("load counters: %w", err)
		}

		now := s.clock()
		user := current.Clone()
		user.Profile = user.Profile.Merge(profileFromInput(in.Profile))

		for _, role := range roles {
			if user.Identifier(role) != "" {
				continue
			}
			id, err := s.allocator.Allocate(ctx, tx, &counters, role)
			if err != nil {
				return err
			}
			user.SetIdentifier(role, id)
			user.Roles = user.Roles.With(role)
			if role == domain.RoleFreelancer && user.Ledger == nil {
				user.Ledger = domain.NewStarterLedger(s.grant, s.ids.NextID(), now)
			}
			issued[role] = id
		}

		for _, role := range roles {
			id, ok := issued[role]
			if !ok {
				continue
			}
			var ledger *domain.Ledger
			if role == domain.RoleFreelancer {
				ledger = user.Ledger
			}
			if err := s.projector.Project(ctx, tx, id, role, user, ledger); err != nil {
				return err
			}
		}

		if len(issued) > 0 {
			if err := tx.SaveCounters(ctx, counters); err != nil {
				return fmt.Errorf("save counters: %w", err)
			}
		}

		user.Onboarded = true
		user.UpdatedAt = now
		if err := tx.SaveUser(ctx, user); err != nil {
			return fmt.Errorf("save user: %w", err)
		}

		result = user
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return result, issued, nil
}

// GetUser returns the committed user record.
func (s *OnboardingService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

func profileFromInput(in ports.ProfileInput) domain.Profile {
	return domain.Profile{
		Name:       in.Name,
		Title:      in.Title,
		Bio:        in.Bio,
		Skills:     in.Skills,
		HourlyRate: in.HourlyRate,
		Company:    in.Company,
		Location:   in.Location,
		PhotoURL:   in.PhotoURL,
	}
}
