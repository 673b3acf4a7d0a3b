package app

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/garotinhosDePrograma/mylinks-api/internal/apperror"
	"github.com/garotinhosDePrograma/mylinks-api/internal/plugins/auth"
	"github.com/garotinhosDePrograma/mylinks-api/internal/plugins/links"
	"github.com/garotinhosDePrograma/mylinks-api/internal/plugins/profile"
)

// RegisterRoutes sets up all application routes. It builds each plugin's
// repository/service/handler chain and delegates to the plugin's route
// registration function.
//
// This is the single place where all routes are aggregated.
func (a *App) RegisterRoutes() {
	e := a.Echo

	// Health check endpoint for Docker health monitoring. Verifies the
	// stores are actually reachable, not just that the process is up.
	e.GET("/healthz", a.healthz)

	// auth plugin (register, login, refresh, Google, account mutations)
	userRepo := auth.NewUserRepository(a.DB)
	var photos auth.PhotoUploader = disabledPhotos{}
	if a.Photos != nil {
		photos = a.Photos
	}
	authService := auth.NewAuthService(userRepo, a.Issuer, photos)
	authHandler := auth.NewHandler(authService, a.Google, a.Config.FrontendURL, a.Config.S3.MaxPhotoSize)
	auth.RegisterRoutes(e, authHandler, a.Issuer, a.Redis)

	// links plugin (authenticated link management)
	linkRepo := links.NewLinkRepository(a.DB)
	linkService := links.NewLinkService(linkRepo)
	links.RegisterRoutes(e, links.NewHandler(linkService), a.Issuer)

	// profile plugin (public profile lookup)
	profileService := profile.NewProfileService(userRepo, linkRepo)
	profile.RegisterRoutes(e, profile.NewHandler(profileService))
}

// disabledPhotos stands in when object storage is not configured. Uploads
// fail with a clear error; deletes are no-ops so account deletion still works.
type disabledPhotos struct{}

func (disabledPhotos) UploadPhoto(context.Context, []byte, string) (string, error) {
	return "", apperror.NewServiceUnavailable("photo storage is not configured")
}

func (disabledPhotos) DeletePhotoByURL(context.Context, string) error {
	return nil
}

func (a *App) healthz(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := a.DB.PingContext(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "degraded", "database": "down",
		})
	}
	if err := a.Redis.Ping(ctx).Err(); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "degraded", "redis": "down",
		})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
