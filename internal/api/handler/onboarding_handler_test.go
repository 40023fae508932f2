package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/gigboard/marketplace-core/internal/api/middleware"
	"github.com/gigboard/marketplace-core/internal/core/domain"
	"github.com/gigboard/marketplace-core/internal/core/ports"
)

type stubOnboardingService struct {
	completeFn func(ctx context.Context, in ports.OnboardingInput) (*domain.User, error)
	getUserFn  func(ctx context.Context, userID string) (*domain.User, error)
}

func (s *stubOnboardingService) CompleteOnboarding(ctx context.Context, in ports.OnboardingInput) (*domain.User, error) {
	return s.completeFn(ctx, in)
}

func (s *stubOnboardingService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.getUserFn(ctx, userID)
}

// newAuthedContext builds a request context as if the Auth middleware had run.
func newAuthedContext(e *echo.Echo, method, target, body, userID string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != "" {
		c.Set(middleware.ContextUserID, userID)
	}
	return c, rec
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func TestOnboardingHandler_Complete_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubOnboardingService{
		completeFn: func(ctx context.Context, in ports.OnboardingInput) (*domain.User, error) {
			if in.UserID != "u1" {
				t.Fatalf("expected user id from context, got %q", in.UserID)
			}
			if len(in.Roles) != 2 || in.Profile.Title != "Go engineer" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.User{
				ID:           "u1",
				Onboarded:    true,
				Roles:        domain.RoleSet{domain.RoleFreelancer, domain.RoleClient},
				FreelancerID: "F-001",
				ClientID:     "C-001",
				Ledger:       &domain.Ledger{Available: 50},
			}, nil
		},
	}
	h := NewOnboardingHandler(stub)

	c, rec := newAuthedContext(e, http.MethodPost, "/v1/onboarding",
		`{"roles":["freelancer","client"],"profile":{"title":"Go engineer"}}`, "u1")

	if err := h.Complete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["freelancerId"] != "F-001" || resp["clientId"] != "C-001" || resp["onboarded"] != true {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestOnboardingHandler_Complete_UnknownRole(t *testing.T) {
	e := newTestEcho()
	stub := &stubOnboardingService{
		completeFn: func(ctx context.Context, in ports.OnboardingInput) (*domain.User, error) {
			t.Fatalf("service must not be called for invalid roles")
			return nil, nil
		},
	}
	h := NewOnboardingHandler(stub)

	c, _ := newAuthedContext(e, http.MethodPost, "/v1/onboarding", `{"roles":["admin"]}`, "u1")

	err := h.Complete(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 HTTPError, got %v", err)
	}
}

func TestOnboardingHandler_Complete_EmptyRoles(t *testing.T) {
	e := newTestEcho()
	h := NewOnboardingHandler(&stubOnboardingService{})

	c, _ := newAuthedContext(e, http.MethodPost, "/v1/onboarding", `{"roles":[]}`, "u1")

	err := h.Complete(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 HTTPError, got %v", err)
	}
}

func TestOnboardingHandler_Complete_MissingClaims(t *testing.T) {
	e := newTestEcho()
	h := NewOnboardingHandler(&stubOnboardingService{})

	c, _ := newAuthedContext(e, http.MethodPost, "/v1/onboarding", `{"roles":["client"]}`, "")

	err := h.Complete(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestOnboardingHandler_Complete_PropagatesServiceError(t *testing.T) {
	e := newTestEcho()
	stub := &stubOnboardingService{
		completeFn: func(ctx context.Context, in ports.OnboardingInput) (*domain.User, error) {
			return nil, domain.ErrOnboardingFailed
		},
	}
	h := NewOnboardingHandler(stub)

	c, _ := newAuthedContext(e, http.MethodPost, "/v1/onboarding", `{"roles":["client"]}`, "u1")

	if err := h.Complete(c); !errors.Is(err, domain.ErrOnboardingFailed) {
		t.Fatalf("expected ErrOnboardingFailed, got %v", err)
	}
}

func TestOnboardingHandler_Me(t *testing.T) {
	e := newTestEcho()
	stub := &stubOnboardingService{
		getUserFn: func(ctx context.Context, userID string) (*domain.User, error) {
			return &domain.User{ID: userID, Profile: domain.Profile{Name: "Ada"}}, nil
		},
	}
	h := NewOnboardingHandler(stub)

	c, rec := newAuthedContext(e, http.MethodGet, "/v1/me", "", "u7")

	if err := h.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"id":"u7"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
