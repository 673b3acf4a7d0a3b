// Package auth handles user accounts for mylinks-api: registration, login
// (password and Google), stateless JWT issuance and refresh, and the guarded
// account mutations (username/email/password change, deletion, profile
// photo). All identity-changing operations re-verify the password even on an
// authenticated request -- a stolen access token must not be enough to take
// over the account's recovery surface.
package auth

import (
	"time"
)

// User is the persisted account record. This is the domain model used
// throughout the application; database scanning and JSON marshaling use
// this struct directly.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose in JSON responses.
	PhotoURL     *string   `json:"photo_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Summary is the non-sensitive slice of a User returned by login flows.
type Summary struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	PhotoURL *string `json:"photo_url,omitempty"`
}

// summaryOf builds a Summary from a User.
func summaryOf(u *User) Summary {
	return Summary{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		PhotoURL: u.PhotoURL,
	}
}

// AuthResult is what Login and FederatedLogin return: both token kinds plus
// the identity summary.
type AuthResult struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
	User         Summary `json:"user"`
}

// --- Request DTOs (bound from HTTP requests) ---

// RegisterRequest holds the registration payload.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest holds the login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUsernameRequest holds the username change payload. Password is the
// current secret, re-verified before the change applies.
type UpdateUsernameRequest struct {
	NewUsername string `json:"new_username"`
	Password    string `json:"password"`
}

// UpdateEmailRequest holds the email change payload.
type UpdateEmailRequest struct {
	NewEmail string `json:"new_email"`
	Password string `json:"password"`
}

// UpdatePasswordRequest holds the password change payload.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// DeleteAccountRequest holds the account deletion payload.
type DeleteAccountRequest struct {
	Password string `json:"password"`
}

// GoogleMobileRequest holds the mobile federated login payload.
type GoogleMobileRequest struct {
	IDToken string `json:"id_token"`
}

// --- Service Input DTOs (passed from handler to service) ---

// RegisterInput is the validated input for creating a new user.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// LoginInput is the validated input for authenticating a user.
type LoginInput struct {
	Email    string
	Password string
}
