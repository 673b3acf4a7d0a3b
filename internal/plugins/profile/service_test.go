package profile

import (
	"context"
	"errors"
	"testing"

	"github.com/garotinhosDePrograma/mylinks-api/internal/apperror"
	"github.com/garotinhosDePrograma/mylinks-api/internal/plugins/auth"
	"github.com/garotinhosDePrograma/mylinks-api/internal/plugins/links"
)

// The embedded interfaces satisfy the full contracts; only the methods the
// profile service touches are overridden.
type mockUsers struct {
	auth.UserRepository
	findByUsernameFn func(ctx context.Context, username string) (*auth.User, error)
}

func (m *mockUsers) FindByUsername(ctx context.Context, username string) (*auth.User, error) {
	return m.findByUsernameFn(ctx, username)
}

type mockLinks struct {
	links.LinkRepository
	listByUserFn func(ctx context.Context, userID string) ([]links.Link, error)
}

func (m *mockLinks) ListByUser(ctx context.Context, userID string) ([]links.Link, error) {
	return m.listByUserFn(ctx, userID)
}

func TestLookup_Success(t *testing.T) {
	photo := "https://cdn.example.com/avatars/u1.jpg"
	users := &mockUsers{
		findByUsernameFn: func(_ context.Context, username string) (*auth.User, error) {
			if username != "someone" {
				t.Errorf("looked up %q, want someone", username)
			}
			return &auth.User{
				ID:       "u1",
				Username: "someone",
				Email:    "someone@example.com",
				PhotoURL: &photo,
			}, nil
		},
	}
	linkRepo := &mockLinks{
		listByUserFn: func(_ context.Context, userID string) ([]links.Link, error) {
			if userID != "u1" {
				t.Errorf("listed links for %q, want u1", userID)
			}
			return []links.Link{
				{ID: 1, Title: "Blog", URL: "https://blog.example.com", Position: 1},
				{ID: 2, Title: "Shop", URL: "https://shop.example.com", Position: 2},
			}, nil
		},
	}
	svc := NewProfileService(users, linkRepo)

	profile, err := svc.Lookup(context.Background(), "someone")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if profile.ID != "u1" || profile.Username != "someone" {
		t.Errorf("profile: %+v", profile)
	}
	if profile.PhotoURL == nil || *profile.PhotoURL != photo {
		t.Error("photo url missing")
	}
	if len(profile.Links) != 2 || profile.Links[0].Position != 1 {
		t.Errorf("links: %+v", profile.Links)
	}
}

func TestLookup_UnknownUsername(t *testing.T) {
	users := &mockUsers{
		findByUsernameFn: func(_ context.Context, _ string) (*auth.User, error) {
			return nil, apperror.NewNotFound("user not found")
		},
	}
	svc := NewProfileService(users, &mockLinks{})

	_, err := svc.Lookup(context.Background(), "nobody")
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != 404 {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestLookup_EmptyCollection(t *testing.T) {
	users := &mockUsers{
		findByUsernameFn: func(_ context.Context, _ string) (*auth.User, error) {
			return &auth.User{ID: "u1", Username: "someone"}, nil
		},
	}
	linkRepo := &mockLinks{
		listByUserFn: func(_ context.Context, _ string) ([]links.Link, error) {
			return []links.Link{}, nil
		},
	}
	svc := NewProfileService(users, linkRepo)

	profile, err := svc.Lookup(context.Background(), "someone")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if profile.Links == nil || len(profile.Links) != 0 {
		t.Errorf("links should be an empty slice, got %v", profile.Links)
	}
}
