package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/garotinhosDePrograma/mylinks-api/internal/googleoauth"
)

// mockAuthService embeds the interface and overrides only what a test
// exercises; calling anything else panics on the nil embedded value.
type mockAuthService struct {
	AuthService
	registerFn func(ctx context.Context, input RegisterInput) error
}

func (m *mockAuthService) Register(ctx context.Context, input RegisterInput) error {
	return m.registerFn(ctx, input)
}

func TestRegisterHandler_ReturnsOK(t *testing.T) {
	e := echo.New()
	body := `{"username":"fresh","email":"a@example.com","password":"Sup3rSecret!x"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	svc := &mockAuthService{
		registerFn: func(_ context.Context, input RegisterInput) error {
			if input.Username != "fresh" {
				t.Errorf("bound username %q", input.Username)
			}
			return nil
		},
	}
	h := NewHandler(svc, nil, "http://localhost:3000", 5<<20)

	if err := h.register(c); err != nil {
		t.Fatalf("register: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "message") {
		t.Errorf("body %q carries no message", rec.Body.String())
	}
}

func TestTranslateVerifyError(t *testing.T) {
	// A token Google rejected is the caller's fault.
	assertAppError(t, translateVerifyError(googleoauth.ErrInvalidIDToken), 401)

	// Failing to reach Google is ours, and must not read as bad credentials.
	assertAppError(t, translateVerifyError(errors.New("dial tcp: connection refused")), 500)
}
