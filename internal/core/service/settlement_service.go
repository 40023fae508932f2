package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gigboard/marketplace-core/internal/api/metrics"
	"github.com/gigboard/marketplace-core/internal/core/domain"
	"github.com/gigboard/marketplace-core/internal/core/ports"
)

const defaultGuardTTL = 30 * time.Second

// SettlementOptions carries the fixed prices of marketplace events.
type SettlementOptions struct {
	ProposalCost int64
	HireBonus    int64
	GuardTTL     time.Duration
}

// SettlementService implements ports.SettlementService.
type SettlementService struct {
	users     ports.UserRepository
	jobs      ports.JobRepository
	proposals ports.ProposalRepository
	projects  ports.ProjectRepository
	ledger    ports.LedgerService
	guard     ports.SubmissionGuard
	opts      SettlementOptions
	clock     func() time.Time
	log       zerolog.Logger
}

// NewSettlementService wires the settlement flow. guard may be nil, in which
// case only the proposal store's uniqueness check prevents double submission.
func NewSettlementService(
	users ports.UserRepository,
	jobs ports.JobRepository,
	proposals ports.ProposalRepository,
	projects ports.ProjectRepository,
	ledger ports.LedgerService,
	guard ports.SubmissionGuard,
	opts SettlementOptions,
	log zerolog.Logger,
) *SettlementService {
	if opts.ProposalCost <= 0 {
		opts.ProposalCost = domain.DefaultProposalCost
	}
	if opts.HireBonus <= 0 {
		opts.HireBonus = domain.DefaultHireBonus
	}
	if opts.GuardTTL <= 0 {
		opts.GuardTTL = defaultGuardTTL
	}
	return &SettlementService{
		users:     users,
		jobs:      jobs,
		proposals: proposals,
		projects:  projects,
		ledger:    ledger,
		guard:     guard,
		opts:      opts,
		clock:     func() time.Time { return time.Now().UTC() },
		log:       log,
	}
}

// PostJob publishes a job on behalf of a user holding the client role.
func (s *SettlementService) PostJob(ctx context.Context, in ports.PostJobInput) (*domain.Job, error) {
	if in.Budget < 0 {
		return nil, fmt.Errorf("post job: %w", domain.ErrInvalidAmount)
	}
	user, err := s.users.FindByID(ctx, in.ClientUserID)
	if err != nil {
		return nil, fmt.Errorf("post job: %w", err)
	}
	if user.ClientID == "" {
		return nil, fmt.Errorf("post job: %w", domain.ErrRoleNotHeld)
	}

	now := s.clock()
	job := &domain.Job{
		ID:           uuid.NewString(),
		ClientUserID: user.ID,
		ClientID:     user.ClientID,
		Title:        in.Title,
		Description:  in.Description,
		Budget:       in.Budget,
		Status:       domain.JobOpen,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.jobs.CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("post job: %w", err)
	}

	s.log.Info().Str("job_id", job.ID).Str("client_id", job.ClientID).Msg("job posted")
	return job, nil
}

// SubmitProposal charges the proposal cost and records the proposal.
//
// The debit happens first and blocks the submission when the balance is short.
// If the proposal write fails afterwards the connects are credited back.
func (s *SettlementService) SubmitProposal(ctx context.Context, in ports.SubmitProposalInput) (*ports.ProposalResult, error) {
	user, err := s.users.FindByID(ctx, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("submit proposal: %w", err)
	}
	if user.FreelancerID == "" {
		return nil, fmt.Errorf("submit proposal: %w", domain.ErrRoleNotHeld)
	}

	job, err := s.jobs.FindJob(ctx, in.JobID)
	if err != nil {
		return nil, fmt.Errorf("submit proposal: %w", err)
	}
	if job.Status != domain.JobOpen {
		return nil, fmt.Errorf("submit proposal: %w", domain.ErrJobClosed)
	}

	release, err := s.acquire(ctx, job.ID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("submit proposal: %w", err)
	}
	defer release()

	exists, err := s.proposals.ExistsForFreelancer(ctx, job.ID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("submit proposal: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("submit proposal: %w", domain.ErrDuplicateProposal)
	}

	reason := "Proposal for: " + job.Title
	ledger, err := s.ledger.Debit(ctx, user.ID, s.opts.ProposalCost, reason)
	if err != nil {
		metrics.SettlementEventsTotal.WithLabelValues("proposal", "rejected").Inc()
		return nil, fmt.Errorf("submit proposal: %w", err)
	}

	now := s.clock()
	proposal := &domain.Proposal{
		ID:               uuid.NewString(),
		JobID:            job.ID,
		JobTitle:         job.Title,
		FreelancerUserID: user.ID,
		FreelancerID:     user.FreelancerID,
		CoverLetter:      in.CoverLetter,
		Bid:              in.Bid,
		ConnectsSpent:    s.opts.ProposalCost,
		Status:           domain.ProposalPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.proposals.CreateProposal(ctx, proposal); err != nil {
		s.refund(ctx, user.ID, reason, err)
		return nil, fmt.Errorf("submit proposal: %w", err)
	}

	metrics.SettlementEventsTotal.WithLabelValues("proposal", "ok").Inc()
	s.log.Info().
		Str("proposal_id", proposal.ID).
		Str("job_id", job.ID).
		Str("freelancer_id", user.FreelancerID).
		Int64("available", ledger.Available).
		Msg("proposal submitted")

	return &ports.ProposalResult{Proposal: proposal, Ledger: ledger}, nil
}

// AcceptHire turns a pending proposal into a project and pays the hire bonus.
// A failed bonus credit is logged; the hire itself stands.
func (s *SettlementService) AcceptHire(ctx context.Context, in ports.AcceptHireInput) (*ports.HireResult, error) {
	proposal, err := s.proposals.FindProposal(ctx, in.ProposalID)
	if err != nil {
		return nil, fmt.Errorf("accept hire: %w", err)
	}
	job, err := s.jobs.FindJob(ctx, proposal.JobID)
	if err != nil {
		return nil, fmt.Errorf("accept hire: %w", err)
	}
	if job.ClientUserID != in.ClientUserID {
		return nil, fmt.Errorf("accept hire: %w", domain.ErrForbidden)
	}
	if proposal.Status != domain.ProposalPending {
		return nil, fmt.Errorf("accept hire: %w", domain.ErrProposalNotPending)
	}
	if job.Status != domain.JobOpen {
		return nil, fmt.Errorf("accept hire: %w", domain.ErrJobClosed)
	}

	// Claim the job first: the conditional move serializes every hire on it.
	if err := s.jobs.UpdateJobStatus(ctx, job.ID, domain.JobOpen, domain.JobInProgress); err != nil {
		return nil, fmt.Errorf("accept hire: %w", err)
	}
	if err := s.proposals.UpdateProposalStatus(ctx, proposal.ID, domain.ProposalPending, domain.ProposalAccepted); err != nil {
		s.reopenJob(ctx, job.ID)
		return nil, fmt.Errorf("accept hire: %w", err)
	}

	project := &domain.Project{
		ID:               uuid.NewString(),
		JobID:            job.ID,
		ProposalID:       proposal.ID,
		Title:            job.Title,
		ClientUserID:     job.ClientUserID,
		FreelancerUserID: proposal.FreelancerUserID,
		Amount:           proposal.Bid,
		Status:           domain.ProjectActive,
		CreatedAt:        s.clock(),
	}
	if err := s.projects.CreateProject(ctx, project); err != nil {
		if rerr := s.proposals.UpdateProposalStatus(ctx, proposal.ID, domain.ProposalAccepted, domain.ProposalPending); rerr != nil {
			s.log.Error().Err(rerr).Str("proposal_id", proposal.ID).Msg("reverting accepted proposal failed")
		}
		s.reopenJob(ctx, job.ID)
		return nil, fmt.Errorf("accept hire: %w", err)
	}

	result := &ports.HireResult{Project: project}
	reason := "Hired for: " + job.Title + " (Bonus)"
	if _, err := s.ledger.Credit(ctx, proposal.FreelancerUserID, s.opts.HireBonus, reason); err != nil {
		metrics.SettlementEventsTotal.WithLabelValues("hire", "bonus_failed").Inc()
		s.log.Error().
			Err(err).
			Str("project_id", project.ID).
			Str("freelancer_user_id", proposal.FreelancerUserID).
			Msg("hire bonus credit failed")
		return result, nil
	}

	result.BonusCredited = true
	metrics.SettlementEventsTotal.WithLabelValues("hire", "ok").Inc()
	s.log.Info().Str("project_id", project.ID).Str("job_id", job.ID).Msg("freelancer hired")
	return result, nil
}

func (s *SettlementService) reopenJob(ctx context.Context, jobID string) {
	if err := s.jobs.UpdateJobStatus(ctx, jobID, domain.JobInProgress, domain.JobOpen); err != nil {
		s.log.Error().Err(err).Str("job_id", jobID).Msg("reopening job after failed hire failed")
	}
}

func (s *SettlementService) refund(ctx context.Context, userID, reason string, cause error) {
	metrics.SettlementEventsTotal.WithLabelValues("proposal", "refunded").Inc()
	if _, err := s.ledger.Credit(ctx, userID, s.opts.ProposalCost, "Refund: "+reason); err != nil {
		s.log.Error().
			Err(errors.Join(cause, err)).
			Str("user_id", userID).
			Int64("amount", s.opts.ProposalCost).
			Msg("proposal refund failed")
		return
	}
	s.log.Warn().Err(cause).Str("user_id", userID).Msg("proposal write failed, connects refunded")
}

// acquire takes the per-submission guard. A guard backend outage is logged and
// the submission proceeds on the store's uniqueness check alone.
func (s *SettlementService) acquire(ctx context.Context, jobID, userID string) (func(), error) {
	noop := func() {}
	if s.guard == nil {
		return noop, nil
	}

	key := "proposal:" + jobID + ":" + userID
	ok, err := s.guard.Acquire(ctx, key, s.opts.GuardTTL)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("submission guard unavailable")
		return noop, nil
	}
	if !ok {
		return nil, domain.ErrSubmissionInProgress
	}
	return func() {
		if err := s.guard.Release(context.WithoutCancel(ctx), key); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("submission guard release failed")
		}
	}, nil
}
