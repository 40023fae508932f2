package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/gigboard/marketplace-core/internal/core/domain"
	"github.com/gigboard/marketplace-core/internal/core/ports"
)

type stubSettlementService struct {
	postJobFn func(ctx context.Context, in ports.PostJobInput) (*domain.Job, error)
	submitFn  func(ctx context.Context, in ports.SubmitProposalInput) (*ports.ProposalResult, error)
	hireFn    func(ctx context.Context, in ports.AcceptHireInput) (*ports.HireResult, error)
}

func (s *stubSettlementService) PostJob(ctx context.Context, in ports.PostJobInput) (*domain.Job, error) {
	return s.postJobFn(ctx, in)
}

func (s *stubSettlementService) SubmitProposal(ctx context.Context, in ports.SubmitProposalInput) (*ports.ProposalResult, error) {
	return s.submitFn(ctx, in)
}

func (s *stubSettlementService) AcceptHire(ctx context.Context, in ports.AcceptHireInput) (*ports.HireResult, error) {
	return s.hireFn(ctx, in)
}

func TestSettlementHandler_PostJob_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubSettlementService{
		postJobFn: func(ctx context.Context, in ports.PostJobInput) (*domain.Job, error) {
			if in.ClientUserID != "client-1" || in.Title != "Build an API" || in.Budget != 500 {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.Job{ID: "job-1", Title: in.Title, Status: domain.JobOpen}, nil
		},
	}
	h := NewSettlementHandler(stub)

	c, rec := newAuthedContext(e, http.MethodPost, "/v1/jobs", `{"title":"Build an API","budget":500}`, "client-1")

	if err := h.PostJob(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestSettlementHandler_PostJob_MissingTitle(t *testing.T) {
	e := newTestEcho()
	h := NewSettlementHandler(&stubSettlementService{})

	c, _ := newAuthedContext(e, http.MethodPost, "/v1/jobs", `{"budget":500}`, "client-1")

	err := h.PostJob(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 HTTPError, got %v", err)
	}
}

func TestSettlementHandler_SubmitProposal_ReturnsBalance(t *testing.T) {
	e := newTestEcho()
	stub := &stubSettlementService{
		submitFn: func(ctx context.Context, in ports.SubmitProposalInput) (*ports.ProposalResult, error) {
			if in.JobID != "job-9" || in.UserID != "free-1" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.ProposalResult{
				Proposal: &domain.Proposal{ID: "prop-1", JobID: in.JobID, ConnectsSpent: 4},
				Ledger:   &domain.Ledger{Available: 46},
			}, nil
		},
	}
	h := NewSettlementHandler(stub)

	c, rec := newAuthedContext(e, http.MethodPost, "/v1/jobs/job-9/proposals", `{"coverLetter":"Hi","bid":300}`, "free-1")
	c.SetParamNames("id")
	c.SetParamValues("job-9")

	if err := h.SubmitProposal(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp struct {
		Balance  int64 `json:"balance"`
		Proposal struct {
			ID string `json:"id"`
		} `json:"proposal"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Balance != 46 || resp.Proposal.ID != "prop-1" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestSettlementHandler_SubmitProposal_InsufficientBalance(t *testing.T) {
	e := newTestEcho()
	stub := &stubSettlementService{
		submitFn: func(ctx context.Context, in ports.SubmitProposalInput) (*ports.ProposalResult, error) {
			return nil, domain.ErrInsufficientBalance
		},
	}
	h := NewSettlementHandler(stub)

	c, _ := newAuthedContext(e, http.MethodPost, "/v1/jobs/job-9/proposals", `{"coverLetter":"Hi","bid":300}`, "free-1")

	if err := h.SubmitProposal(c); !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
}

func TestSettlementHandler_AcceptHire(t *testing.T) {
	e := newTestEcho()
	stub := &stubSettlementService{
		hireFn: func(ctx context.Context, in ports.AcceptHireInput) (*ports.HireResult, error) {
			if in.ProposalID != "prop-1" || in.ClientUserID != "client-1" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.HireResult{Project: &domain.Project{ID: "proj-1"}, BonusCredited: true}, nil
		},
	}
	h := NewSettlementHandler(stub)

	c, rec := newAuthedContext(e, http.MethodPost, "/v1/proposals/prop-1/hire", "", "client-1")
	c.SetParamNames("id")
	c.SetParamValues("prop-1")

	if err := h.AcceptHire(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["bonusCredited"] != true {
		t.Fatalf("expected bonusCredited=true, got %+v", resp)
	}
}
