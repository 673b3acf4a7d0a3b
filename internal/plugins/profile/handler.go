package profile

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/garotinhosDePrograma/mylinks-api/internal/apperror"
)

// Handler exposes the public profile endpoint.
type Handler struct {
	service ProfileService
}

// NewHandler creates a new profile handler.
func NewHandler(service ProfileService) *Handler {
	return &Handler{service: service}
}

// lookup handles GET /user/:username. No authentication required.
func (h *Handler) lookup(c echo.Context) error {
	username := c.Param("username")
	if username == "" {
		return apperror.NewBadRequest("username is required")
	}

	profile, err := h.service.Lookup(c.Request().Context(), username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// RegisterRoutes mounts the public profile endpoint.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.GET("/user/:username", h.lookup)
}
