package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/garotinhosDePrograma/mylinks-api/internal/apperror"
	"github.com/garotinhosDePrograma/mylinks-api/internal/googleoauth"
	"github.com/garotinhosDePrograma/mylinks-api/internal/token"
)

// PhotoUploader is the slice of the storage layer used by the auth service.
// Declared here so tests can substitute a mock.
type PhotoUploader interface {
	UploadPhoto(ctx context.Context, data []byte, contentType string) (string, error)
	DeletePhotoByURL(ctx context.Context, photoURL string) error
}

// AuthService defines the business logic contract for authentication and
// account mutations. Handlers call these methods -- they never touch the
// repository or the token issuer directly.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) error
	Login(ctx context.Context, input LoginInput) (*AuthResult, error)
	FederatedLogin(ctx context.Context, profile *googleoauth.Profile) (*AuthResult, error)
	RefreshAccessToken(refreshToken string) (string, error)

	UpdateUsername(ctx context.Context, userID, newUsername, password string) error
	UpdateEmail(ctx context.Context, userID, newEmail, password string) error
	UpdatePassword(ctx context.Context, userID, currentPassword, newPassword string) error
	DeleteAccount(ctx context.Context, userID, password string) error
	UpdateProfilePhoto(ctx context.Context, userID string, data []byte, contentType string) (string, error)
}

// authService implements AuthService with bcrypt hashing and stateless JWTs.
type authService struct {
	repo   UserRepository
	issuer *token.Issuer
	photos PhotoUploader
}

// NewAuthService creates a new auth service with the given dependencies.
func NewAuthService(repo UserRepository, issuer *token.Issuer, photos PhotoUploader) AuthService {
	return &authService{
		repo:   repo,
		issuer: issuer,
		photos: photos,
	}
}

// Register creates a new local account. It validates the username, email
// and password policies, checks uniqueness, hashes the password and
// persists the user. No tokens are issued -- the user logs in separately.
func (s *authService) Register(ctx context.Context, input RegisterInput) error {
	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if err := validateUsername(username); err != nil {
		return err
	}
	if err := validateEmail(email); err != nil {
		return err
	}
	if err := validatePasswordStrength(input.Password); err != nil {
		return err
	}

	// Username is checked before email so the client gets the more
	// actionable error first. The database unique constraints are the real
	// guarantee; these checks only shape the message.
	taken, err := s.repo.UsernameExists(ctx, username)
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("checking username: %w", err))
	}
	if taken {
		return apperror.NewConflict("this username is already taken")
	}

	taken, err = s.repo.EmailExists(ctx, email)
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("checking email: %w", err))
	}
	if taken {
		return apperror.NewConflict("an account with this email already exists")
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return apperror.NewInternal(err)
	}

	user := &User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return asAppError(fmt.Errorf("creating user: %w", err))
	}

	slog.Info("user registered",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)
	return nil
}

// Login authenticates by email and password. Unknown email and wrong
// password produce the same error so callers cannot enumerate accounts.
// On success it issues both token kinds bound to the user id.
func (s *authService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if isNotFound(err) {
			return nil, apperror.NewUnauthorized("invalid email or password")
		}
		return nil, apperror.NewInternal(fmt.Errorf("finding user: %w", err))
	}

	if !verifyPassword(input.Password, user.PasswordHash) {
		return nil, apperror.NewUnauthorized("invalid email or password")
	}

	return s.issueResult(user)
}

// FederatedLogin resolves a verified Google profile into a local account,
// auto-provisioning one on first sight, and issues the same token pair as
// Login so downstream handling is uniform.
func (s *authService) FederatedLogin(ctx context.Context, profile *googleoauth.Profile) (*AuthResult, error) {
	if profile.Email == "" {
		return nil, apperror.NewBadRequest("google account has no email")
	}
	email := strings.ToLower(profile.Email)

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil && !isNotFound(err) {
		return nil, apperror.NewInternal(fmt.Errorf("finding user: %w", err))
	}

	if user == nil {
		user, err = s.provisionFederated(ctx, email, profile)
		if err != nil {
			return nil, err
		}
	}

	return s.issueResult(user)
}

// provisionFederated creates an account for a first-time federated login.
// The stored secret is random and never revealed, so the account can only
// authenticate through the provider (or a later password reset flow).
func (s *authService) provisionFederated(ctx context.Context, email string, profile *googleoauth.Profile) (*User, error) {
	username, err := s.availableUsername(ctx, deriveUsernameBase(profile.Name, email))
	if err != nil {
		return nil, err
	}

	secret, err := generateRandomSecret()
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	hash, err := hashPassword(secret)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	user := &User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if profile.Picture != "" {
		picture := profile.Picture
		user.PhotoURL = &picture
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, asAppError(fmt.Errorf("provisioning federated user: %w", err))
	}

	slog.Info("federated user provisioned",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)
	return user, nil
}

// availableUsername appends an incrementing numeric suffix to base until
// the result is free: name, name1, name2, ... Candidates that fail the
// username policy (a display name of "Admin" derives the reserved "admin")
// are skipped the same way taken ones are; the suffixed variants pass.
func (s *authService) availableUsername(ctx context.Context, base string) (string, error) {
	candidate := base
	for counter := 1; ; counter++ {
		if validateUsername(candidate) == nil {
			taken, err := s.repo.UsernameExists(ctx, candidate)
			if err != nil {
				return "", apperror.NewInternal(fmt.Errorf("checking username: %w", err))
			}
			if !taken {
				return candidate, nil
			}
		}
		candidate = withSuffix(base, counter)
	}
}

// RefreshAccessToken validates a refresh token and mints a new access
// token. The refresh token itself is never rotated -- it stays valid until
// its own expiry.
func (s *authService) RefreshAccessToken(refreshToken string) (string, error) {
	access, err := s.issuer.Refresh(refreshToken)
	if err != nil {
		return "", translateTokenError(err)
	}
	return access, nil
}

// UpdateUsername changes the username after re-verifying the password.
func (s *authService) UpdateUsername(ctx context.Context, userID, newUsername, password string) error {
	newUsername = strings.TrimSpace(newUsername)

	user, err := s.reauthenticate(ctx, userID, password)
	if err != nil {
		return err
	}
	if err := validateUsername(newUsername); err != nil {
		return err
	}
	if newUsername == user.Username {
		return nil
	}

	owner, err := s.repo.FindByUsername(ctx, newUsername)
	if err != nil && !isNotFound(err) {
		return apperror.NewInternal(fmt.Errorf("checking username: %w", err))
	}
	if owner != nil && owner.ID != userID {
		return apperror.NewConflict("this username is already taken")
	}

	if err := s.repo.UpdateUsername(ctx, userID, newUsername); err != nil {
		return asAppError(err)
	}

	slog.Info("username changed", slog.String("user_id", userID))
	return nil
}

// UpdateEmail changes the email after re-verifying the password.
func (s *authService) UpdateEmail(ctx context.Context, userID, newEmail, password string) error {
	newEmail = strings.ToLower(strings.TrimSpace(newEmail))

	user, err := s.reauthenticate(ctx, userID, password)
	if err != nil {
		return err
	}
	if err := validateEmail(newEmail); err != nil {
		return err
	}
	if newEmail == user.Email {
		return nil
	}

	owner, err := s.repo.FindByEmail(ctx, newEmail)
	if err != nil && !isNotFound(err) {
		return apperror.NewInternal(fmt.Errorf("checking email: %w", err))
	}
	if owner != nil && owner.ID != userID {
		return apperror.NewConflict("an account with this email already exists")
	}

	if err := s.repo.UpdateEmail(ctx, userID, newEmail); err != nil {
		return asAppError(err)
	}

	slog.Info("email changed", slog.String("user_id", userID))
	return nil
}

// UpdatePassword changes the password after re-verifying the current one
// and policy-checking the new one.
func (s *authService) UpdatePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if _, err := s.reauthenticate(ctx, userID, currentPassword); err != nil {
		return err
	}
	if err := validatePasswordStrength(newPassword); err != nil {
		return err
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return apperror.NewInternal(err)
	}
	if err := s.repo.UpdatePassword(ctx, userID, hash); err != nil {
		return asAppError(err)
	}

	slog.Info("password changed", slog.String("user_id", userID))
	return nil
}

// DeleteAccount removes the account after re-verifying the password.
// Owned links go with it via the storage layer's cascade.
func (s *authService) DeleteAccount(ctx context.Context, userID, password string) error {
	user, err := s.reauthenticate(ctx, userID, password)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, userID); err != nil {
		return asAppError(err)
	}

	// Best-effort cleanup of the stored photo; the account is already gone.
	if user.PhotoURL != nil {
		if err := s.photos.DeletePhotoByURL(ctx, *user.PhotoURL); err != nil {
			slog.Warn("failed to delete profile photo",
				slog.String("user_id", userID),
				slog.Any("error", err),
			)
		}
	}

	slog.Info("account deleted", slog.String("user_id", userID))
	return nil
}

// allowedPhotoTypes are the image formats accepted for profile photos.
// Kept in sync with the storage layer's key extension map.
var allowedPhotoTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// UpdateProfilePhoto stores a new photo and updates the reference. No
// password re-verification: a low-risk, reversible change, the access
// token alone suffices.
func (s *authService) UpdateProfilePhoto(ctx context.Context, userID string, data []byte, contentType string) (string, error) {
	if !allowedPhotoTypes[contentType] {
		return "", apperror.NewBadRequest("photo must be a jpeg, png, webp or gif image")
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return "", asAppError(err)
	}

	photoURL, err := s.photos.UploadPhoto(ctx, data, contentType)
	if err != nil {
		return "", apperror.NewInternal(fmt.Errorf("uploading photo: %w", err))
	}

	if err := s.repo.UpdatePhotoURL(ctx, userID, photoURL); err != nil {
		return "", asAppError(err)
	}

	// Drop the previous photo from storage; non-critical.
	if user.PhotoURL != nil && *user.PhotoURL != photoURL {
		if err := s.photos.DeletePhotoByURL(ctx, *user.PhotoURL); err != nil {
			slog.Warn("failed to delete previous profile photo",
				slog.String("user_id", userID),
				slog.Any("error", err),
			)
		}
	}

	return photoURL, nil
}

// --- Helpers ---

// issueResult issues the token pair and builds the login response.
func (s *authService) issueResult(user *User) (*AuthResult, error) {
	access, refresh, err := s.issuer.IssuePair(user.ID)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	slog.Info("user logged in", slog.String("user_id", user.ID))

	return &AuthResult{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         summaryOf(user),
	}, nil
}

// reauthenticate loads the user and verifies the supplied password.
// Identity-changing mutations call this regardless of the bearer token's
// validity. The NotFound case covers an account deleted after the token
// was issued.
func (s *authService) reauthenticate(ctx context.Context, userID, password string) (*User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, asAppError(err)
	}
	if !verifyPassword(password, user.PasswordHash) {
		return nil, apperror.NewUnauthorized("invalid credentials")
	}
	return user, nil
}

// deriveUsernameBase builds the starting username for federated
// provisioning: the display name lower-cased with spaces as underscores,
// or the email's local part when there is no usable name.
func deriveUsernameBase(name, email string) string {
	base := sanitizeUsername(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_"))
	if len(base) < 3 {
		local, _, _ := strings.Cut(email, "@")
		base = sanitizeUsername(strings.ToLower(local))
	}
	if len(base) < 3 {
		base = "newuser"
	}
	if len(base) > 20 {
		base = strings.TrimRight(base[:20], "_-")
	}
	return base
}

// sanitizeUsername strips characters outside the username alphabet and
// trims separators from both ends.
func sanitizeUsername(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "_-")
}

// withSuffix appends a numeric suffix, shortening the base when needed to
// stay inside the 20 character limit.
func withSuffix(base string, counter int) string {
	suffix := fmt.Sprintf("%d", counter)
	if len(base)+len(suffix) > 20 {
		base = base[:20-len(suffix)]
	}
	return base + suffix
}

// translateTokenError maps token package sentinels to client-facing 401s.
func translateTokenError(err error) error {
	switch {
	case errors.Is(err, token.ErrExpired):
		return apperror.NewUnauthorized("token expired")
	case errors.Is(err, token.ErrWrongKind):
		return apperror.NewUnauthorized("use the refresh token, not the access token")
	case errors.Is(err, token.ErrMalformed):
		return apperror.NewUnauthorized("invalid token")
	default:
		return apperror.NewInternal(err)
	}
}

// isNotFound checks whether err is an apperror with a 404 code.
func isNotFound(err error) bool {
	var appErr *apperror.AppError
	return errors.As(err, &appErr) && appErr.Code == 404
}

// asAppError passes AppErrors through untouched and wraps anything else as
// an internal error so infrastructure details never reach the client.
func asAppError(err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperror.NewInternal(err)
}
