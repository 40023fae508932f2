package handler

import "github.com/gigboard/marketplace-core/internal/core/domain"

type profileRequest struct {
	Name       string   `json:"name"`
	Title      string   `json:"title"`
	Bio        string   `json:"bio"`
	Skills     []string `json:"skills"`
	HourlyRate int64    `json:"hourlyRate" validate:"min=0"`
	Company    string   `json:"company"`
	Location   string   `json:"location"`
	PhotoURL   string   `json:"photoUrl"   validate:"omitempty,url"`
}

type onboardingRequest struct {
	Roles   []string       `json:"roles"   validate:"required,min=1,max=2,dive,marketplace_role"`
	Profile profileRequest `json:"profile"`
}

type ledgerResponse struct {
	Balance int64          `json:"balance"`
	Ledger  *domain.Ledger `json:"ledger"`
}

type ledgerAdjustRequest struct {
	Amount int64  `json:"amount" validate:"required,gt=0"`
	Reason string `json:"reason" validate:"required,max=200"`
}

type postJobRequest struct {
	Title       string `json:"title"       validate:"required,max=200"`
	Description string `json:"description" validate:"max=5000"`
	Budget      int64  `json:"budget"      validate:"min=0"`
}

type submitProposalRequest struct {
	CoverLetter string `json:"coverLetter" validate:"required,max=5000"`
	Bid         int64  `json:"bid"         validate:"gt=0"`
}

type proposalResponse struct {
	Proposal *domain.Proposal `json:"proposal"`
	Balance  int64            `json:"balance"`
}

type hireResponse struct {
	Project       *domain.Project `json:"project"`
	BonusCredited bool            `json:"bonusCredited"`
}
