// Package profile serves the public, unauthenticated view of an account:
// the page anyone hits when they follow a mylinks URL. It only ever
// exposes the username, photo and links; email and timestamps stay
// private.
package profile

import (
	"context"
	"errors"

	"github.com/garotinhosDePrograma/mylinks-api/internal/apperror"
	"github.com/garotinhosDePrograma/mylinks-api/internal/plugins/auth"
	"github.com/garotinhosDePrograma/mylinks-api/internal/plugins/links"
)

// PublicProfile is the response shape for a public profile lookup.
type PublicProfile struct {
	ID       string       `json:"id"`
	Username string       `json:"username"`
	PhotoURL *string      `json:"photo_url,omitempty"`
	Links    []links.Link `json:"links"`
}

// ProfileService resolves usernames to public profiles.
type ProfileService interface {
	Lookup(ctx context.Context, username string) (*PublicProfile, error)
}

type profileService struct {
	users auth.UserRepository
	links links.LinkRepository
}

// NewProfileService creates a new profile service.
func NewProfileService(users auth.UserRepository, linkRepo links.LinkRepository) ProfileService {
	return &profileService{users: users, links: linkRepo}
}

// Lookup returns the public profile for a username, or a 404 when no such
// account exists. Lookup is case-sensitive, matching the storage collation.
func (s *profileService) Lookup(ctx context.Context, username string) (*PublicProfile, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Code == 404 {
			return nil, apperror.NewNotFound("profile not found")
		}
		return nil, apperror.NewInternal(err)
	}

	userLinks, err := s.links.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	return &PublicProfile{
		ID:       user.ID,
		Username: user.Username,
		PhotoURL: user.PhotoURL,
		Links:    userLinks,
	}, nil
}
