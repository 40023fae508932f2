package domain

import "time"

// JobStatus is the lifecycle state of a job posting.
type JobStatus string

const (
	JobOpen       JobStatus = "open"
	JobInProgress JobStatus = "in-progress"
	JobClosed     JobStatus = "closed"
)

// Job is a client's posting that freelancers bid on.
type Job struct {
	ID           string    `json:"id" bson:"_id"`
	ClientUserID string    `json:"clientUserId" bson:"client_user_id"`
	ClientID     string    `json:"clientId" bson:"client_id"`
	Title        string    `json:"title" bson:"title"`
	Description  string    `json:"description" bson:"description"`
	Budget       int64     `json:"budget" bson:"budget"`
	Status       JobStatus `json:"status" bson:"status"`
	CreatedAt    time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updated_at"`
}

// ProposalStatus is the lifecycle state of a proposal.
type ProposalStatus string

const (
	ProposalPending  ProposalStatus = "pending"
	ProposalAccepted ProposalStatus = "accepted"
	ProposalRejected ProposalStatus = "rejected"
)

// Proposal is a freelancer's bid on a job, paid for in connects.
type Proposal struct {
	ID               string         `json:"id" bson:"_id"`
	JobID            string         `json:"jobId" bson:"job_id"`
	JobTitle         string         `json:"jobTitle" bson:"job_title"`
	FreelancerUserID string         `json:"freelancerUserId" bson:"freelancer_user_id"`
	FreelancerID     string         `json:"freelancerId" bson:"freelancer_id"`
	CoverLetter      string         `json:"coverLetter" bson:"cover_letter"`
	Bid              int64          `json:"bid" bson:"bid"`
	ConnectsSpent    int64          `json:"connectsSpent" bson:"connects_spent"`
	Status           ProposalStatus `json:"status" bson:"status"`
	CreatedAt        time.Time      `json:"createdAt" bson:"created_at"`
	UpdatedAt        time.Time      `json:"updatedAt" bson:"updated_at"`
}

// ProjectStatus is the lifecycle state of a hired engagement.
type ProjectStatus string

const ProjectActive ProjectStatus = "active"

// Project is created when a client hires a freelancer from a proposal.
type Project struct {
	ID               string        `json:"id" bson:"_id"`
	JobID            string        `json:"jobId" bson:"job_id"`
	ProposalID       string        `json:"proposalId" bson:"proposal_id"`
	Title            string        `json:"title" bson:"title"`
	ClientUserID     string        `json:"clientUserId" bson:"client_user_id"`
	FreelancerUserID string        `json:"freelancerUserId" bson:"freelancer_user_id"`
	Amount           int64         `json:"amount" bson:"amount"`
	Status           ProjectStatus `json:"status" bson:"status"`
	CreatedAt        time.Time     `json:"createdAt" bson:"created_at"`
}
