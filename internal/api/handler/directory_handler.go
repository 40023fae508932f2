package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gigboard/marketplace-core/internal/core/ports"
)

// DirectoryHandler serves the public directory and the admin reconcile hook.
type DirectoryHandler struct {
	service ports.DirectoryService
}

func NewDirectoryHandler(service ports.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{service: service}
}

// Freelancer handles GET /v1/directory/freelancers/:id.
//
// @Summary      Public freelancer entry
// @Tags         directory
// @Produce      json
// @Param        id   path      string  true  "Freelancer identifier (e.g. F-001)"
// @Success      200  {object}  domain.DirectoryEntry
// @Failure      404  {object}  map[string]string
// @Router       /v1/directory/freelancers/{id} [get]
func (h *DirectoryHandler) Freelancer(c echo.Context) error {
	entry, err := h.service.GetFreelancerDirectoryEntry(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entry)
}

// Client handles GET /v1/directory/clients/:id.
//
// @Summary      Public client entry
// @Tags         directory
// @Produce      json
// @Param        id   path      string  true  "Client identifier (e.g. C-001)"
// @Success      200  {object}  domain.DirectoryEntry
// @Failure      404  {object}  map[string]string
// @Router       /v1/directory/clients/{id} [get]
func (h *DirectoryHandler) Client(c echo.Context) error {
	entry, err := h.service.GetClientDirectoryEntry(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entry)
}

// Reconcile handles POST /v1/admin/users/:id/directory/reconcile.
//
// @Summary      Rewrite a freelancer's directory ledger from the user record
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  domain.DirectoryEntry
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/admin/users/{id}/directory/reconcile [post]
func (h *DirectoryHandler) Reconcile(c echo.Context) error {
	entry, err := h.service.Reconcile(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entry)
}
