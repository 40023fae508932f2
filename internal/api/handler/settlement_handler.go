package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gigboard/marketplace-core/internal/core/ports"
)

// SettlementHandler serves jobs, proposals and hires.
type SettlementHandler struct {
	service ports.SettlementService
}

func NewSettlementHandler(service ports.SettlementService) *SettlementHandler {
	return &SettlementHandler{service: service}
}

// PostJob handles POST /v1/jobs.
//
// @Summary      Post a job
// @Tags         marketplace
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      postJobRequest  true  "Job details"
// @Success      201   {object}  domain.Job
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/jobs [post]
func (h *SettlementHandler) PostJob(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req postJobRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	job, err := h.service.PostJob(c.Request().Context(), ports.PostJobInput{
		ClientUserID: userID,
		Title:        req.Title,
		Description:  req.Description,
		Budget:       req.Budget,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, job)
}

// SubmitProposal handles POST /v1/jobs/:id/proposals.
//
// @Summary      Submit a proposal
// @Description  Charges the proposal cost in connects. Rejected with 402 when the balance is too low.
// @Tags         marketplace
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Job id"
// @Param        body  body      submitProposalRequest  true  "Proposal"
// @Success      201   {object}  proposalResponse
// @Failure      402   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/jobs/{id}/proposals [post]
func (h *SettlementHandler) SubmitProposal(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req submitProposalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	res, err := h.service.SubmitProposal(c.Request().Context(), ports.SubmitProposalInput{
		UserID:      userID,
		JobID:       c.Param("id"),
		CoverLetter: req.CoverLetter,
		Bid:         req.Bid,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, proposalResponse{Proposal: res.Proposal, Balance: res.Ledger.Available})
}

// AcceptHire handles POST /v1/proposals/:id/hire.
//
// @Summary      Hire the freelancer behind a proposal
// @Tags         marketplace
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Proposal id"
// @Success      201  {object}  hireResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /v1/proposals/{id}/hire [post]
func (h *SettlementHandler) AcceptHire(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	res, err := h.service.AcceptHire(c.Request().Context(), ports.AcceptHireInput{
		ClientUserID: userID,
		ProposalID:   c.Param("id"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, hireResponse{Project: res.Project, BonusCredited: res.BonusCredited})
}
