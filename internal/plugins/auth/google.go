package auth

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/garotinhosDePrograma/mylinks-api/internal/apperror"
	"github.com/garotinhosDePrograma/mylinks-api/internal/googleoauth"
)

// googleLogin handles GET /auth/google. It returns the provider consent
// URL and a fresh state value; the frontend stores the state and opens the
// URL.
func (h *Handler) googleLogin(c echo.Context) error {
	if h.google == nil {
		return apperror.NewServiceUnavailable("google login is not configured")
	}

	state, err := generateRandomSecret()
	if err != nil {
		return apperror.NewInternal(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"auth_url": h.google.AuthURL(state),
		"state":    state,
	})
}

// googleCallback handles GET /auth/google/callback, the browser leg of the
// flow. Google redirects here; we finish the login and bounce the browser
// to the frontend with the outcome in the query string, since the browser
// cannot receive JSON mid-redirect.
func (h *Handler) googleCallback(c echo.Context) error {
	if h.google == nil {
		return apperror.NewServiceUnavailable("google login is not configured")
	}

	if errCode := c.QueryParam("error"); errCode != "" {
		return h.redirectWithError(c, errCode)
	}
	code := c.QueryParam("code")
	if code == "" {
		return h.redirectWithError(c, "missing_code")
	}

	profile, err := h.google.ResolveCode(c.Request().Context(), code)
	if err != nil {
		return h.redirectWithError(c, "google_auth_failed")
	}

	result, err := h.service.FederatedLogin(c.Request().Context(), profile)
	if err != nil {
		return h.redirectWithError(c, "login_failed")
	}

	params := url.Values{}
	params.Set("access_token", result.AccessToken)
	params.Set("refresh_token", result.RefreshToken)
	params.Set("user_id", result.User.ID)
	params.Set("username", result.User.Username)
	params.Set("email", result.User.Email)
	if result.User.PhotoURL != nil {
		params.Set("photo_url", *result.User.PhotoURL)
	}

	return c.Redirect(http.StatusFound, h.frontendURL+"/index.html?"+params.Encode())
}

// googleMobile handles POST /auth/google/mobile. Native apps obtain an ID
// token through the platform SDK and post it here; the response is the
// same JSON shape as a password login.
func (h *Handler) googleMobile(c echo.Context) error {
	if h.google == nil {
		return apperror.NewServiceUnavailable("google login is not configured")
	}

	var req GoogleMobileRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	if req.IDToken == "" {
		return apperror.NewBadRequest("id_token is required")
	}

	profile, err := h.google.VerifyIDToken(c.Request().Context(), req.IDToken)
	if err != nil {
		return translateVerifyError(err)
	}

	result, err := h.service.FederatedLogin(c.Request().Context(), profile)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

// translateVerifyError separates a token Google rejected (the caller's
// fault, 401) from a failure to reach Google at all (a dependency error,
// 500). A provider outage must not read as bad credentials.
func translateVerifyError(err error) error {
	if errors.Is(err, googleoauth.ErrInvalidIDToken) {
		return apperror.NewUnauthorized("invalid google id token")
	}
	return apperror.NewInternal(err)
}

func (h *Handler) redirectWithError(c echo.Context, code string) error {
	params := url.Values{}
	params.Set("error", code)
	return c.Redirect(http.StatusFound, h.frontendURL+"/login.html?"+params.Encode())
}
