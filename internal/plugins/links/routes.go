package links

import (
	"github.com/labstack/echo/v4"

	"github.com/garotinhosDePrograma/mylinks-api/internal/plugins/auth"
	"github.com/garotinhosDePrograma/mylinks-api/internal/token"
)

// RegisterRoutes mounts the link management endpoints under /links. The
// reorder route is registered before /:id so it is not captured as a
// parameter.
func RegisterRoutes(e *echo.Echo, h *Handler, issuer *token.Issuer) {
	g := e.Group("/links", auth.RequireAuth(issuer))

	g.GET("", h.list)
	g.POST("", h.create)
	g.PUT("/reorder", h.reorder)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.remove)
}
