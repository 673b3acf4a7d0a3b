package links

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/garotinhosDePrograma/mylinks-api/internal/apperror"
)

type mockLinkRepo struct {
	t *testing.T

	listByUserFn  func(ctx context.Context, userID string) ([]Link, error)
	countByUserFn func(ctx context.Context, userID string) (int, error)
	createFn      func(ctx context.Context, link *Link) error
	updateFn      func(ctx context.Context, userID string, linkID int64, title, url string) error
	deleteFn      func(ctx context.Context, userID string, linkID int64) error
	reorderFn     func(ctx context.Context, userID string, items []ReorderItem) error
}

func (m *mockLinkRepo) ListByUser(ctx context.Context, userID string) ([]Link, error) {
	if m.listByUserFn == nil {
		m.t.Fatal("unexpected ListByUser call")
	}
	return m.listByUserFn(ctx, userID)
}

func (m *mockLinkRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	if m.countByUserFn == nil {
		m.t.Fatal("unexpected CountByUser call")
	}
	return m.countByUserFn(ctx, userID)
}

func (m *mockLinkRepo) Create(ctx context.Context, link *Link) error {
	if m.createFn == nil {
		m.t.Fatal("unexpected Create call")
	}
	return m.createFn(ctx, link)
}

func (m *mockLinkRepo) Update(ctx context.Context, userID string, linkID int64, title, url string) error {
	if m.updateFn == nil {
		m.t.Fatal("unexpected Update call")
	}
	return m.updateFn(ctx, userID, linkID, title, url)
}

func (m *mockLinkRepo) Delete(ctx context.Context, userID string, linkID int64) error {
	if m.deleteFn == nil {
		m.t.Fatal("unexpected Delete call")
	}
	return m.deleteFn(ctx, userID, linkID)
}

func (m *mockLinkRepo) Reorder(ctx context.Context, userID string, items []ReorderItem) error {
	if m.reorderFn == nil {
		m.t.Fatal("unexpected Reorder call")
	}
	return m.reorderFn(ctx, userID, items)
}

func assertAppError(t *testing.T, err error, code int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %d, got nil", code)
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T: %v", err, err)
	}
	if appErr.Code != code {
		t.Fatalf("expected code %d, got %d (%s)", code, appErr.Code, appErr.Message)
	}
}

func TestCreate_AppendsAtEnd(t *testing.T) {
	var created *Link
	repo := &mockLinkRepo{
		t:             t,
		countByUserFn: func(_ context.Context, _ string) (int, error) { return 2, nil },
		createFn: func(_ context.Context, link *Link) error {
			link.ID = 99
			created = link
			return nil
		},
	}
	svc := NewLinkService(repo)

	link, err := svc.Create(context.Background(), "u1", "My Blog", "https://blog.example.com")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Position != 3 {
		t.Errorf("position %d, want 3 (appended after 2 existing)", created.Position)
	}
	if link.ID != 99 {
		t.Errorf("id %d not taken from the store", link.ID)
	}
	if link.UserID != "u1" {
		t.Errorf("user id %q, want u1", link.UserID)
	}
}

func TestCreate_Validation(t *testing.T) {
	// No repo functions: validation rejects before any store access.
	svc := NewLinkService(&mockLinkRepo{t: t})

	cases := []struct {
		name  string
		title string
		url   string
	}{
		{"empty title", "", "https://example.com"},
		{"long title", strings.Repeat("a", 101), "https://example.com"},
		{"empty url", "My Blog", ""},
		{"no scheme", "My Blog", "example.com"},
		{"bad scheme", "My Blog", "ftp://example.com"},
		{"long url", "My Blog", "https://" + strings.Repeat("a", 2048)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), "u1", tc.title, tc.url)
			assertAppError(t, err, 400)
		})
	}
}

func TestUpdate_NotFoundPassesThrough(t *testing.T) {
	repo := &mockLinkRepo{
		t: t,
		updateFn: func(_ context.Context, _ string, _ int64, _, _ string) error {
			return apperror.NewNotFound("link not found")
		},
	}
	svc := NewLinkService(repo)

	err := svc.Update(context.Background(), "u1", 42, "Title", "https://example.com")
	assertAppError(t, err, 404)
}

func TestReorder_Validation(t *testing.T) {
	// No repo functions: bad row sets are rejected before any store access.
	svc := NewLinkService(&mockLinkRepo{t: t})

	cases := []struct {
		name  string
		items []ReorderItem
	}{
		{"empty", nil},
		{"duplicate id", []ReorderItem{{ID: 1, Position: 1}, {ID: 1, Position: 2}}},
		{"duplicate position", []ReorderItem{{ID: 1, Position: 1}, {ID: 2, Position: 1}}},
		{"position zero", []ReorderItem{{ID: 1, Position: 0}}},
		{"position gap", []ReorderItem{{ID: 1, Position: 1}, {ID: 2, Position: 3}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assertAppError(t, svc.Reorder(context.Background(), "u1", tc.items), 400)
		})
	}
}

func TestReorder_Passthrough(t *testing.T) {
	var got []ReorderItem
	repo := &mockLinkRepo{
		t: t,
		reorderFn: func(_ context.Context, _ string, items []ReorderItem) error {
			got = items
			return nil
		},
	}
	svc := NewLinkService(repo)

	items := []ReorderItem{{ID: 3, Position: 1}, {ID: 1, Position: 2}, {ID: 2, Position: 3}}
	if err := svc.Reorder(context.Background(), "u1", items); err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	if len(got) != 3 || got[0].ID != 3 || got[0].Position != 1 || got[2].ID != 2 {
		t.Errorf("repo received %v", got)
	}
}

func TestDelete_Passthrough(t *testing.T) {
	called := false
	repo := &mockLinkRepo{
		t: t,
		deleteFn: func(_ context.Context, userID string, linkID int64) error {
			if userID != "u1" || linkID != 7 {
				t.Errorf("Delete(%q, %d), want (u1, 7)", userID, linkID)
			}
			called = true
			return nil
		},
	}
	svc := NewLinkService(repo)

	if err := svc.Delete(context.Background(), "u1", 7); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !called {
		t.Error("Delete was not called")
	}
}
