package token

import (
	"errors"
	"testing"
	"time"
)

func newTestIssuer() *Issuer {
	return NewIssuer("test-secret-key", 15*time.Minute, 7*24*time.Hour)
}

func TestIssueAndValidate(t *testing.T) {
	iss := newTestIssuer()

	tok, err := iss.Issue("user-123", KindAccess, time.Hour)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	claims, err := iss.Validate(tok)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.UserID != "user-123" {
		t.Errorf("expected user-123, got %s", claims.UserID)
	}
	if claims.Kind != KindAccess {
		t.Errorf("expected access kind, got %s", claims.Kind)
	}
}

func TestValidate_ZeroTTLIsExpired(t *testing.T) {
	iss := newTestIssuer()

	tok, err := iss.Issue("user-123", KindAccess, 0)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	// A token whose expiry equals its issue time must be rejected on the
	// very next validation.
	time.Sleep(10 * time.Millisecond)
	_, err = iss.Validate(tok)
	if !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestValidate_WrongKey(t *testing.T) {
	iss := newTestIssuer()
	other := NewIssuer("different-secret", 15*time.Minute, 7*24*time.Hour)

	tok, err := iss.Issue("user-123", KindAccess, time.Hour)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	_, err = other.Validate(tok)
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed for wrong key, got %v", err)
	}
}

func TestValidate_Malformed(t *testing.T) {
	iss := newTestIssuer()

	tests := []struct {
		name string
		tok  string
	}{
		{"empty", ""},
		{"garbage", "not-a-jwt"},
		{"wrong parts", "a.b"},
		{"unsigned", "eyJhbGciOiJub25lIn0.eyJpZCI6IngifQ."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := iss.Validate(tt.tok); !errors.Is(err, ErrMalformed) {
				t.Errorf("expected ErrMalformed, got %v", err)
			}
		})
	}
}

func TestIssuePair_KindsDiffer(t *testing.T) {
	iss := newTestIssuer()

	access, refresh, err := iss.IssuePair("user-123")
	if err != nil {
		t.Fatalf("IssuePair failed: %v", err)
	}

	ac, err := iss.Validate(access)
	if err != nil {
		t.Fatalf("validating access token: %v", err)
	}
	if ac.Kind != KindAccess {
		t.Errorf("expected access kind, got %s", ac.Kind)
	}

	rc, err := iss.Validate(refresh)
	if err != nil {
		t.Fatalf("validating refresh token: %v", err)
	}
	if rc.Kind != KindRefresh {
		t.Errorf("expected refresh kind, got %s", rc.Kind)
	}
}

func TestRefresh(t *testing.T) {
	iss := newTestIssuer()

	_, refresh, err := iss.IssuePair("user-123")
	if err != nil {
		t.Fatalf("IssuePair failed: %v", err)
	}

	access, err := iss.Refresh(refresh)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	claims, err := iss.Validate(access)
	if err != nil {
		t.Fatalf("validating refreshed token: %v", err)
	}
	if claims.UserID != "user-123" {
		t.Errorf("expected user-123, got %s", claims.UserID)
	}
	if claims.Kind != KindAccess {
		t.Errorf("refreshed token must be an access token, got %s", claims.Kind)
	}
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	iss := newTestIssuer()

	access, _, err := iss.IssuePair("user-123")
	if err != nil {
		t.Fatalf("IssuePair failed: %v", err)
	}

	if _, err := iss.Refresh(access); !errors.Is(err, ErrWrongKind) {
		t.Fatalf("expected ErrWrongKind, got %v", err)
	}
}

func TestRefresh_ExpiredRefreshToken(t *testing.T) {
	iss := newTestIssuer()

	refresh, err := iss.Issue("user-123", KindRefresh, -time.Second)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := iss.Refresh(refresh); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}
