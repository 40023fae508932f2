package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gigboard/marketplace-core/internal/core/domain"
	"github.com/gigboard/marketplace-core/internal/core/ports"
)

// LedgerHandler exposes the caller's connects ledger and the admin
// adjustment endpoints.
type LedgerHandler struct {
	service ports.LedgerService
}

func NewLedgerHandler(service ports.LedgerService) *LedgerHandler {
	return &LedgerHandler{service: service}
}

// Mine handles GET /v1/me/ledger.
//
// @Summary      Current user's connects ledger
// @Tags         ledger
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ledgerResponse
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/me/ledger [get]
func (h *LedgerHandler) Mine(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	ledger, err := h.service.Ledger(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ledgerResponse{Balance: ledger.Available, Ledger: ledger})
}

// Credit handles POST /v1/admin/users/:id/ledger/credit.
//
// @Summary      Manually credit connects
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "User id"
// @Param        body  body      ledgerAdjustRequest  true  "Amount and reason"
// @Success      200   {object}  ledgerResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/admin/users/{id}/ledger/credit [post]
func (h *LedgerHandler) Credit(c echo.Context) error {
	return h.adjust(c, h.service.Credit)
}

// Debit handles POST /v1/admin/users/:id/ledger/debit.
//
// @Summary      Manually debit connects
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "User id"
// @Param        body  body      ledgerAdjustRequest  true  "Amount and reason"
// @Success      200   {object}  ledgerResponse
// @Failure      400   {object}  map[string]string
// @Failure      402   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/admin/users/{id}/ledger/debit [post]
func (h *LedgerHandler) Debit(c echo.Context) error {
	return h.adjust(c, h.service.Debit)
}

type adjustFunc = func(ctx context.Context, userID string, amount int64, reason string) (*domain.Ledger, error)

func (h *LedgerHandler) adjust(c echo.Context, apply adjustFunc) error {
	var req ledgerAdjustRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	ledger, err := apply(c.Request().Context(), c.Param("id"), req.Amount, req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ledgerResponse{Balance: ledger.Available, Ledger: ledger})
}
