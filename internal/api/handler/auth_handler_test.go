package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/greenpath/platform/internal/api/middleware"
	"github.com/greenpath/platform/internal/core/domain"
	"github.com/greenpath/platform/internal/core/ports"
)

type stubIdentityProvider struct {
	signUpFn   func(ctx context.Context, email, password string, meta domain.SignUpMetadata) (*ports.SignUpResult, error)
	signInFn   func(ctx context.Context, email, password string) (*domain.Session, error)
	oauthFn    func(ctx context.Context, provider string) (string, error)
	completeFn func(ctx context.Context, provider, state, code string) (*domain.Session, error)
	signOutFn  func(ctx context.Context, sess domain.Session) error
}

func (s *stubIdentityProvider) SignUp(ctx context.Context, email, password string, meta domain.SignUpMetadata) (*ports.SignUpResult, error) {
	return s.signUpFn(ctx, email, password, meta)
}

func (s *stubIdentityProvider) SignInWithPassword(ctx context.Context, email, password string) (*domain.Session, error) {
	return s.signInFn(ctx, email, password)
}

func (s *stubIdentityProvider) SignInWithOAuth(ctx context.Context, provider string) (string, error) {
	return s.oauthFn(ctx, provider)
}

func (s *stubIdentityProvider) CompleteOAuth(ctx context.Context, provider, state, code string) (*domain.Session, error) {
	return s.completeFn(ctx, provider, state, code)
}

func (s *stubIdentityProvider) SignOut(ctx context.Context, sess domain.Session) error {
	return s.signOutFn(ctx, sess)
}

func (s *stubIdentityProvider) CurrentSession(context.Context, string) (*domain.Session, error) {
	return nil, domain.ErrSessionInvalid
}

func (s *stubIdentityProvider) Subscribe() <-chan domain.SessionEvent { return nil }

func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func testSession() *domain.Session {
	return &domain.Session{
		ID:        "s1",
		UserID:    "u1",
		Email:     "kid@example.com",
		Provider:  domain.ProviderPassword,
		ExpiresAt: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
		Token:     "tok",
	}
}

func TestAuthHandler_SignUp_Success(t *testing.T) {
	stub := &stubIdentityProvider{
		signUpFn: func(ctx context.Context, email, password string, meta domain.SignUpMetadata) (*ports.SignUpResult, error) {
			if email != "kid@example.com" || password != "secret1" {
				t.Fatalf("unexpected credentials: %s %s", email, password)
			}
			if meta.Role != domain.RoleTeacher || meta.Age == nil || *meta.Age != 13 {
				t.Fatalf("unexpected metadata: %+v", meta)
			}
			return &ports.SignUpResult{
				Identity: &domain.Identity{ID: "u1", Email: email, Provider: domain.ProviderPassword, Metadata: meta},
				Session:  testSession(),
			}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newTestContext(http.MethodPost, "/auth/signup", `{"email":"kid@example.com","password":"secret1","role":"teacher","age":13}`)
	if err := handler.SignUp(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["id"] != "u1" {
		t.Fatalf("unexpected user payload: %+v", resp["user"])
	}
	sess, ok := resp["session"].(map[string]any)
	if !ok || sess["access_token"] != "tok" || sess["token_type"] != "Bearer" {
		t.Fatalf("unexpected session payload: %+v", resp["session"])
	}
}

func TestAuthHandler_SignUp_RejectsBadPayloads(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"unknown field", `{"email":"kid@example.com","password":"secret1","admin":true}`},
		{"bad email", `{"email":"nope","password":"secret1"}`},
		{"short password", `{"email":"kid@example.com","password":"123"}`},
		{"age too low", `{"email":"kid@example.com","password":"secret1","age":5}`},
		{"unknown role", `{"email":"kid@example.com","password":"secret1","role":"wizard"}`},
		{"not json", `{"email":`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubIdentityProvider{
				signUpFn: func(context.Context, string, string, domain.SignUpMetadata) (*ports.SignUpResult, error) {
					t.Fatalf("provider must not be called")
					return nil, nil
				},
			}
			c, _ := newTestContext(http.MethodPost, "/auth/signup", tc.body)
			err := NewAuthHandler(stub).SignUp(c)
			if !errors.Is(err, domain.ErrInvalidArgument) {
				t.Fatalf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestAuthHandler_SignUp_UserExists(t *testing.T) {
	stub := &stubIdentityProvider{
		signUpFn: func(context.Context, string, string, domain.SignUpMetadata) (*ports.SignUpResult, error) {
			return nil, domain.ErrUserExists
		},
	}
	c, _ := newTestContext(http.MethodPost, "/auth/signup", `{"email":"kid@example.com","password":"secret1"}`)
	if err := NewAuthHandler(stub).SignUp(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_SignIn(t *testing.T) {
	stub := &stubIdentityProvider{
		signInFn: func(ctx context.Context, email, password string) (*domain.Session, error) {
			if password != "secret1" {
				return nil, domain.ErrInvalidCredentials
			}
			return testSession(), nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newTestContext(http.MethodPost, "/auth/login", `{"email":"kid@example.com","password":"secret1"}`)
	if err := handler.SignIn(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp sessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.AccessToken != "tok" || resp.User.ID != "u1" || resp.ExpiresAt != "2026-05-01T12:00:00Z" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	c, _ = newTestContext(http.MethodPost, "/auth/login", `{"email":"kid@example.com","password":"wrong"}`)
	if err := handler.SignIn(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_SignOut(t *testing.T) {
	var revoked string
	stub := &stubIdentityProvider{
		signOutFn: func(_ context.Context, sess domain.Session) error {
			revoked = sess.ID
			return nil
		},
	}
	c, rec := newTestContext(http.MethodPost, "/auth/logout", "")
	c.Set(middleware.SessionKey, testSession())

	if err := NewAuthHandler(stub).SignOut(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent || revoked != "s1" {
		t.Fatalf("expected 204 and s1 revoked, got %d %q", rec.Code, revoked)
	}
}

func TestAuthHandler_SignOut_WithoutSession(t *testing.T) {
	c, _ := newTestContext(http.MethodPost, "/auth/logout", "")
	err := NewAuthHandler(&stubIdentityProvider{}).SignOut(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuthHandler_OAuthStart_Redirects(t *testing.T) {
	stub := &stubIdentityProvider{
		oauthFn: func(_ context.Context, provider string) (string, error) {
			if provider != "google" {
				return "", domain.ErrUnsupportedProvider
			}
			return "https://accounts.example.com/auth?state=abc", nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newTestContext(http.MethodGet, "/auth/oauth/google", "")
	c.SetParamNames("provider")
	c.SetParamValues("google")
	if err := handler.OAuthStart(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "https://accounts.example.com/auth?state=abc" {
		t.Fatalf("unexpected redirect: %d %q", rec.Code, rec.Header().Get("Location"))
	}

	c, _ = newTestContext(http.MethodGet, "/auth/oauth/github", "")
	c.SetParamNames("provider")
	c.SetParamValues("github")
	if err := handler.OAuthStart(c); !errors.Is(err, domain.ErrUnsupportedProvider) {
		t.Fatalf("expected ErrUnsupportedProvider, got %v", err)
	}
}

func TestAuthHandler_OAuthCallback(t *testing.T) {
	stub := &stubIdentityProvider{
		completeFn: func(_ context.Context, provider, state, code string) (*domain.Session, error) {
			if provider != "google" || state != "st" || code != "cd" {
				t.Fatalf("unexpected args: %s %s %s", provider, state, code)
			}
			return testSession(), nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newTestContext(http.MethodGet, "/auth/oauth/google/callback?state=st&code=cd", "")
	c.SetParamNames("provider")
	c.SetParamValues("google")
	if err := handler.OAuthCallback(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	cases := []struct {
		target string
		code   int
	}{
		{"/auth/oauth/google/callback?state=st", http.StatusBadRequest},
		{"/auth/oauth/google/callback?error=access_denied", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		c, _ := newTestContext(http.MethodGet, tc.target, "")
		c.SetParamNames("provider")
		c.SetParamValues("google")
		var he *echo.HTTPError
		if err := handler.OAuthCallback(c); !errors.As(err, &he) || he.Code != tc.code {
			t.Fatalf("%s: expected %d, got %v", tc.target, tc.code, err)
		}
	}
}
