package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gigboard/marketplace-core/internal/core/ports"
)

// OnboardingHandler serves the onboarding transition and the caller's record.
type OnboardingHandler struct {
	service ports.OnboardingService
}

func NewOnboardingHandler(service ports.OnboardingService) *OnboardingHandler {
	return &OnboardingHandler{service: service}
}

// Complete handles POST /v1/onboarding.
//
// @Summary      Complete onboarding
// @Description  Assigns role identifiers, seeds the freelancer ledger and publishes directory entries. Roles already held are skipped.
// @Tags         onboarding
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      onboardingRequest  true  "Requested roles and profile"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /v1/onboarding [post]
func (h *OnboardingHandler) Complete(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req onboardingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	user, err := h.service.CompleteOnboarding(c.Request().Context(), ports.OnboardingInput{
		UserID: userID,
		Roles:  req.Roles,
		Profile: ports.ProfileInput{
			Name:       req.Profile.Name,
			Title:      req.Profile.Title,
			Bio:        req.Profile.Bio,
			Skills:     req.Profile.Skills,
			HourlyRate: req.Profile.HourlyRate,
			Company:    req.Profile.Company,
			Location:   req.Profile.Location,
			PhotoURL:   req.Profile.PhotoURL,
		},
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Me handles GET /v1/me.
//
// @Summary      Current user record
// @Tags         onboarding
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/me [get]
func (h *OnboardingHandler) Me(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	user, err := h.service.GetUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
