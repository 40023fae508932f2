package ports

import (
	"context"
	"time"

	"github.com/gigboard/marketplace-core/internal/core/domain"
)

// JobRepository persists job postings.
type JobRepository interface {
	CreateJob(ctx context.Context, job *domain.Job) error
	FindJob(ctx context.Context, jobID string) (*domain.Job, error)
	// UpdateJobStatus moves the job from one status to another only if it is
	// still in from; otherwise it reports ErrJobClosed.
	UpdateJobStatus(ctx context.Context, jobID string, from, to domain.JobStatus) error
}

// ProposalRepository persists proposals. CreateProposal reports
// ErrDuplicateProposal when the freelancer already bid on the job.
type ProposalRepository interface {
	CreateProposal(ctx context.Context, p *domain.Proposal) error
	FindProposal(ctx context.Context, proposalID string) (*domain.Proposal, error)
	ExistsForFreelancer(ctx context.Context, jobID, freelancerUserID string) (bool, error)
	// UpdateProposalStatus moves the proposal from one status to another only
	// if it is still in from; otherwise it reports ErrProposalNotPending.
	UpdateProposalStatus(ctx context.Context, proposalID string, from, to domain.ProposalStatus) error
}

// ProjectRepository persists hired engagements.
type ProjectRepository interface {
	CreateProject(ctx context.Context, p *domain.Project) error
}

// SubmissionGuard serializes proposal submissions per (job, freelancer) across
// instances. Acquire reports false when another submission holds the key.
type SubmissionGuard interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// PostJobInput is the DTO for PostJob.
type PostJobInput struct {
	ClientUserID string
	Title        string
	Description  string
	Budget       int64
}

// SubmitProposalInput is the DTO for SubmitProposal.
type SubmitProposalInput struct {
	UserID      string
	JobID       string
	CoverLetter string
	Bid         int64
}

// ProposalResult is returned after a paid proposal submission.
type ProposalResult struct {
	Proposal *domain.Proposal
	Ledger   *domain.Ledger
}

// AcceptHireInput is the DTO for AcceptHire.
type AcceptHireInput struct {
	ClientUserID string
	ProposalID   string
}

// HireResult is returned after a hire. BonusCredited is false when the hire
// went through but the bonus credit failed.
type HireResult struct {
	Project       *domain.Project
	BonusCredited bool
}

// SettlementService drives the ledger from marketplace events.
type SettlementService interface {
	PostJob(ctx context.Context, in PostJobInput) (*domain.Job, error)
	SubmitProposal(ctx context.Context, in SubmitProposalInput) (*ProposalResult, error)
	AcceptHire(ctx context.Context, in AcceptHireInput) (*HireResult, error)
}
