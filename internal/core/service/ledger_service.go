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

// LedgerService implements ports.LedgerService. Balance checks and updates
// happen in the repository as one atomic write; this layer only builds
// entries, mirrors the result and records metrics.
type LedgerService struct {
	users        ports.UserRepository
	mirror       ports.LedgerMirror
	ids          ports.EntryIDGenerator
	starterGrant int64
	clock        func() time.Time
	log          zerolog.Logger
}

// NewLedgerService returns a LedgerService. A non-positive starterGrant falls
// back to domain.DefaultStarterGrant.
func NewLedgerService(
	users ports.UserRepository,
	mirror ports.LedgerMirror,
	ids ports.EntryIDGenerator,
	starterGrant int64,
	log zerolog.Logger,
) *LedgerService {
	if starterGrant <= 0 {
		starterGrant = domain.DefaultStarterGrant
	}
	return &LedgerService{
		users:        users,
		mirror:       mirror,
		ids:          ids,
		starterGrant: starterGrant,
		clock:        func() time.Time { return time.Now().UTC() },
		log:          log,
	}
}

// Initialize seeds the starter ledger for a user that has none yet.
func (s *LedgerService) Initialize(ctx context.Context, userID string) (*domain.Ledger, error) {
	ledger := domain.NewStarterLedger(s.starterGrant, s.ids.NextID(), s.clock())

	user, err := s.users.InitializeLedger(ctx, userID, ledger)
	if err != nil {
		metrics.LedgerOperationsTotal.WithLabelValues("initialize", resultLabel(err)).Inc()
		return nil, fmt.Errorf("initialize ledger: %w", err)
	}
	metrics.LedgerOperationsTotal.WithLabelValues("initialize", "ok").Inc()
	metrics.LedgerAmountTotal.WithLabelValues("initialize").Add(float64(s.starterGrant))

	s.mirrorUser(ctx, user)
	return user.Ledger, nil
}

// Debit spends amount connects. The balance check is evaluated against the
// committed value by the repository, never against a cached read.
func (s *LedgerService) Debit(ctx context.Context, userID string, amount int64, reason string) (*domain.Ledger, error) {
	return s.apply(ctx, userID, domain.EntrySpent, amount, reason)
}

// Credit adds amount connects and raises the lifetime total.
func (s *LedgerService) Credit(ctx context.Context, userID string, amount int64, reason string) (*domain.Ledger, error) {
	return s.apply(ctx, userID, domain.EntryEarned, amount, reason)
}

func (s *LedgerService) apply(ctx context.Context, userID string, typ domain.EntryType, amount int64, reason string) (*domain.Ledger, error) {
	op := "credit"
	if typ == domain.EntrySpent {
		op = "debit"
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%s: %w", op, domain.ErrInvalidAmount)
	}

	entry := domain.LedgerEntry{
		ID:        s.ids.NextID(),
		Type:      typ,
		Amount:    amount,
		Reason:    reason,
		Timestamp: s.clock(),
	}

	var (
		user *domain.User
		err  error
	)
	if typ == domain.EntrySpent {
		user, err = s.users.ApplyDebit(ctx, userID, entry)
	} else {
		user, err = s.users.ApplyCredit(ctx, userID, entry)
	}
	if err != nil {
		metrics.LedgerOperationsTotal.WithLabelValues(op, resultLabel(err)).Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	metrics.LedgerOperationsTotal.WithLabelValues(op, "ok").Inc()
	metrics.LedgerAmountTotal.WithLabelValues(op).Add(float64(amount))
	s.log.Info().
		Str("user_id", userID).
		Str("op", op).
		Int64("amount", amount).
		Int64("available", user.Ledger.Available).
		Str("reason", reason).
		Msg("ledger updated")

	s.mirrorUser(ctx, user)
	return user.Ledger, nil
}

// Balance returns the committed available balance.
func (s *LedgerService) Balance(ctx context.Context, userID string) (int64, error) {
	ledger, err := s.Ledger(ctx, userID)
	if err != nil {
		return 0, err
	}
	return ledger.Available, nil
}

// Ledger returns the full ledger; users without one are reported as not found.
func (s *LedgerService) Ledger(ctx context.Context, userID string) (*domain.Ledger, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ledger: %w", err)
	}
	if user.Ledger == nil {
		return nil, fmt.Errorf("ledger: %w", domain.ErrUserNotFound)
	}
	return user.Ledger, nil
}

func (s *LedgerService) mirrorUser(ctx context.Context, user *domain.User) {
	if s.mirror == nil || user.FreelancerID == "" || user.Ledger == nil {
		return
	}
	s.mirror.Mirror(ctx, user.FreelancerID, user.Ledger.Clone())
}

func resultLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, domain.ErrUserNotFound):
		return "not_found"
	default:
		return "error"
	}
}
