package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gigboard/marketplace-core/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Onboarding failures wrap their cause; classify by the cause first.
	if errors.Is(err, domain.ErrOnboardingFailed) {
		switch {
		case errors.Is(err, domain.ErrTransactionConflict):
			return http.StatusConflict, "onboarding conflicted with a concurrent update, retry"
		case errors.Is(err, domain.ErrInvalidRole), errors.Is(err, domain.ErrNoRoles):
			return http.StatusUnprocessableEntity, err.Error()
		case errors.Is(err, domain.ErrUserNotFound):
			return http.StatusNotFound, "user not found"
		case errors.Is(err, domain.ErrIdentifierCollision):
			// The message names the identifier range an operator has to clean up.
			return http.StatusConflict, err.Error()
		}
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrInsufficientBalance):
		return http.StatusPaymentRequired, "insufficient connects balance"
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest, domain.ErrInvalidAmount.Error()
	case errors.Is(err, domain.ErrRoleNotHeld):
		return http.StatusForbidden, domain.ErrRoleNotHeld.Error()
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, domain.ErrDirectoryEntryNotFound):
		return http.StatusNotFound, "directory entry not found"
	case errors.Is(err, domain.ErrJobNotFound):
		return http.StatusNotFound, "job not found"
	case errors.Is(err, domain.ErrProposalNotFound):
		return http.StatusNotFound, "proposal not found"
	case errors.Is(err, domain.ErrJobClosed),
		errors.Is(err, domain.ErrProposalNotPending),
		errors.Is(err, domain.ErrDuplicateProposal),
		errors.Is(err, domain.ErrSubmissionInProgress),
		errors.Is(err, domain.ErrLedgerExists):
		return http.StatusConflict, rootMessage(err)
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "user already exists"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}

// rootMessage returns the message of the innermost wrapped error, dropping the
// operation prefixes added on the way up.
func rootMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}
