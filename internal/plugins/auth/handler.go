package auth

import (
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/garotinhosDePrograma/mylinks-api/internal/apperror"
	"github.com/garotinhosDePrograma/mylinks-api/internal/googleoauth"
)

// Handler exposes the auth service over HTTP. All responses are JSON; the
// Google callback is the one exception, it redirects to the frontend.
type Handler struct {
	service      AuthService
	google       *googleoauth.Client
	frontendURL  string
	maxPhotoSize int64
}

// NewHandler creates a new auth handler. google may be nil when federated
// login is not configured; the routes are still registered and answer 503.
func NewHandler(service AuthService, google *googleoauth.Client, frontendURL string, maxPhotoSize int64) *Handler {
	return &Handler{
		service:      service,
		google:       google,
		frontendURL:  frontendURL,
		maxPhotoSize: maxPhotoSize,
	}
}

// register handles POST /auth/register.
func (h *Handler) register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	if err := h.service.Register(c.Request().Context(), RegisterInput(req)); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "account created",
	})
}

// login handles POST /auth/login.
func (h *Handler) login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	result, err := h.service.Login(c.Request().Context(), LoginInput(req))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

// refresh handles POST /auth/refresh. The refresh token travels in the
// Authorization header; this endpoint reads it directly instead of going
// through RequireAuth, which only admits access tokens.
func (h *Handler) refresh(c echo.Context) error {
	tok := bearerToken(c)
	if tok == "" {
		return apperror.NewUnauthorized("refresh token required")
	}

	access, err := h.service.RefreshAccessToken(tok)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"access_token": access,
	})
}

// updateUsername handles PUT /auth/update-username.
func (h *Handler) updateUsername(c echo.Context) error {
	var req UpdateUsernameRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	userID := GetUserID(c)
	if err := h.service.UpdateUsername(c.Request().Context(), userID, req.NewUsername, req.Password); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"username": strings.TrimSpace(req.NewUsername),
	})
}

// updateEmail handles PUT /auth/update-email.
func (h *Handler) updateEmail(c echo.Context) error {
	var req UpdateEmailRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	userID := GetUserID(c)
	if err := h.service.UpdateEmail(c.Request().Context(), userID, req.NewEmail, req.Password); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"email": strings.ToLower(strings.TrimSpace(req.NewEmail)),
	})
}

// updatePassword handles PUT /auth/update-password.
func (h *Handler) updatePassword(c echo.Context) error {
	var req UpdatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	userID := GetUserID(c)
	if err := h.service.UpdatePassword(c.Request().Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "password updated",
	})
}

// deleteAccount handles DELETE /auth/delete-account.
func (h *Handler) deleteAccount(c echo.Context) error {
	var req DeleteAccountRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	userID := GetUserID(c)
	if err := h.service.DeleteAccount(c.Request().Context(), userID, req.Password); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "account deleted",
	})
}

// updateProfilePhoto handles PUT /auth/profile-photo with a multipart form
// carrying the image under the "photo" field.
func (h *Handler) updateProfilePhoto(c echo.Context) error {
	file, err := c.FormFile("photo")
	if err != nil {
		return apperror.NewBadRequest("photo file is required")
	}
	if file.Size > h.maxPhotoSize {
		return apperror.NewBadRequest("photo is too large")
	}

	src, err := file.Open()
	if err != nil {
		return apperror.NewBadRequest("could not read photo")
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, h.maxPhotoSize+1))
	if err != nil {
		return apperror.NewBadRequest("could not read photo")
	}
	if int64(len(data)) > h.maxPhotoSize {
		return apperror.NewBadRequest("photo is too large")
	}

	// Sniff the real content type; the client-declared header is not
	// trusted.
	contentType := http.DetectContentType(data)

	userID := GetUserID(c)
	photoURL, err := h.service.UpdateProfilePhoto(c.Request().Context(), userID, data, contentType)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"photo_url": photoURL,
	})
}

// bearerToken extracts the token from the Authorization header, accepting
// both "Bearer <token>" and a bare token.
func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return ""
	}
	if rest, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(rest)
	}
	return strings.TrimSpace(header)
}
