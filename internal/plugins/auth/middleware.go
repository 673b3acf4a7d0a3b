package auth

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/garotinhosDePrograma/mylinks-api/internal/apperror"
	"github.com/garotinhosDePrograma/mylinks-api/internal/token"
)

// userIDKey is the echo context key under which RequireAuth stores the
// authenticated user's id.
const userIDKey = "auth.user_id"

// RequireAuth validates the access token in the Authorization header and
// stores the user id in the request context. Refresh tokens are rejected
// here; they are only good at the refresh endpoint.
func RequireAuth(issuer *token.Issuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tok := bearerToken(c)
			if tok == "" {
				return apperror.NewUnauthorized("authentication token required")
			}

			claims, err := issuer.Validate(tok)
			if err != nil {
				switch {
				case errors.Is(err, token.ErrExpired):
					return apperror.NewUnauthorized("token expired")
				default:
					return apperror.NewUnauthorized("invalid token")
				}
			}
			if claims.Kind == token.KindRefresh {
				return apperror.NewUnauthorized("use the access token, not the refresh token")
			}

			c.Set(userIDKey, claims.UserID)
			return next(c)
		}
	}
}

// GetUserID returns the authenticated user's id set by RequireAuth, or the
// empty string when the request went through no auth middleware.
func GetUserID(c echo.Context) string {
	id, _ := c.Get(userIDKey).(string)
	return id
}
