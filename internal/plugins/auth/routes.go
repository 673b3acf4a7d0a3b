package auth

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/garotinhosDePrograma/mylinks-api/internal/middleware"
	"github.com/garotinhosDePrograma/mylinks-api/internal/token"
)

// RegisterRoutes mounts the auth endpoints under /auth. Credential
// endpoints get per-IP rate limits; mutations additionally require a valid
// access token.
func RegisterRoutes(e *echo.Echo, h *Handler, issuer *token.Issuer, rdb *redis.Client) {
	g := e.Group("/auth")

	g.POST("/register", h.register, middleware.RateLimit(rdb, "register", 5, time.Minute))
	g.POST("/login", h.login, middleware.RateLimit(rdb, "login", 10, time.Minute))
	g.POST("/refresh", h.refresh)

	g.GET("/google", h.googleLogin, middleware.RateLimit(rdb, "google", 10, time.Minute))
	g.GET("/google/callback", h.googleCallback, middleware.RateLimit(rdb, "google", 10, time.Minute))
	g.POST("/google/mobile", h.googleMobile, middleware.RateLimit(rdb, "google", 10, time.Minute))

	authed := g.Group("", RequireAuth(issuer))
	authed.PUT("/update-username", h.updateUsername)
	authed.PUT("/update-email", h.updateEmail)
	authed.PUT("/update-password", h.updatePassword)
	authed.PUT("/profile-photo", h.updateProfilePhoto)
	authed.DELETE("/delete-account", h.deleteAccount)
}
