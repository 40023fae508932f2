package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gigboard/marketplace-core/internal/core/domain"
)

// MarketplaceRepository stores jobs, proposals and projects. It implements
// ports.JobRepository, ports.ProposalRepository and ports.ProjectRepository.
type MarketplaceRepository struct {
	jobs      *mongo.Collection
	proposals *mongo.Collection
	projects  *mongo.Collection
}

func NewMarketplaceRepository(db *mongo.Database) *MarketplaceRepository {
	return &MarketplaceRepository{
		jobs:      db.Collection(collectionJobs),
		proposals: db.Collection(collectionProposals),
		projects:  db.Collection(collectionProjects),
	}
}

// CreateJob inserts a new job document.
func (r *MarketplaceRepository) CreateJob(ctx context.Context, job *domain.Job) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.jobs.InsertOne(ctx, job)
	return err
}

func (r *MarketplaceRepository) FindJob(ctx context.Context, jobID string) (*domain.Job, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var j domain.Job
	if err := r.jobs.FindOne(ctx, bson.M{"_id": jobID}).Decode(&j); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrJobNotFound
		}
		return nil, err
	}
	return &j, nil
}

// UpdateJobStatus is a compare-and-set on the status field, so of two racing
// hires on one job exactly one matches.
func (r *MarketplaceRepository) UpdateJobStatus(ctx context.Context, jobID string, from, to domain.JobStatus) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.jobs.UpdateOne(ctx,
		bson.M{"_id": jobID, "status": from},
		bson.M{"$set": bson.M{"status": to, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return r.missOrMismatch(ctx, r.jobs, jobID, domain.ErrJobNotFound, domain.ErrJobClosed)
	}
	return nil
}

// CreateProposal relies on the unique (job_id, freelancer_user_id) index.
func (r *MarketplaceRepository) CreateProposal(ctx context.Context, p *domain.Proposal) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.proposals.InsertOne(ctx, p); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateProposal
		}
		return err
	}
	return nil
}

func (r *MarketplaceRepository) FindProposal(ctx context.Context, proposalID string) (*domain.Proposal, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var p domain.Proposal
	if err := r.proposals.FindOne(ctx, bson.M{"_id": proposalID}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProposalNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *MarketplaceRepository) ExistsForFreelancer(ctx context.Context, jobID, freelancerUserID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.proposals.CountDocuments(ctx, bson.M{"job_id": jobID, "freelancer_user_id": freelancerUserID})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *MarketplaceRepository) UpdateProposalStatus(ctx context.Context, proposalID string, from, to domain.ProposalStatus) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.proposals.UpdateOne(ctx,
		bson.M{"_id": proposalID, "status": from},
		bson.M{"$set": bson.M{"status": to, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return r.missOrMismatch(ctx, r.proposals, proposalID, domain.ErrProposalNotFound, domain.ErrProposalNotPending)
	}
	return nil
}

// missOrMismatch explains a conditional update that matched nothing: either
// the document is gone or its status moved on.
func (r *MarketplaceRepository) missOrMismatch(ctx context.Context, col *mongo.Collection, id string, missing, mismatch error) error {
	n, err := col.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return err
	}
	if n == 0 {
		return missing
	}
	return mismatch
}

func (r *MarketplaceRepository) CreateProject(ctx context.Context, p *domain.Project) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.projects.InsertOne(ctx, p)
	return err
}
