package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/greenpath/platform/internal/core/domain"
	"github.com/greenpath/platform/internal/core/ports"
)

type AuthHandler struct {
	provider ports.IdentityProvider
}

func NewAuthHandler(provider ports.IdentityProvider) *AuthHandler {
	return &AuthHandler{provider: provider}
}

// SignUp creates an account and signs it in. Unknown fields are rejected.
// The requested role is recorded on the account; the profile starts as student.
//
//	POST /auth/signup
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signUpRequest
	if err := bindStrict(c, &req); err != nil {
		return err
	}

	res, err := h.provider.SignUp(c.Request().Context(), req.Email, req.Password, domain.SignUpMetadata{
		Role:      domain.Role(req.Role),
		Age:       req.Age,
		ClassName: req.ClassName,
	})
	if err != nil {
		return err
	}

	resp := signUpResponse{User: res.Identity}
	if res.Session != nil {
		s := toSessionResponse(res.Session)
		resp.Session = &s
	}
	return c.JSON(http.StatusCreated, resp)
}

// SignIn authenticates with email and password.
//
//	POST /auth/login
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req signInRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	sess, err := h.provider.SignInWithPassword(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSessionResponse(sess))
}

// SignOut revokes the caller's session.
//
//	POST /auth/logout
func (h *AuthHandler) SignOut(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	if err := h.provider.SignOut(c.Request().Context(), *sess); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// OAuthStart redirects the browser to the provider's consent page.
//
//	GET /auth/oauth/:provider
func (h *AuthHandler) OAuthStart(c echo.Context) error {
	url, err := h.provider.SignInWithOAuth(c.Request().Context(), c.Param("provider"))
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, url)
}

// OAuthCallback finishes a federated sign-in.
//
//	GET /auth/oauth/:provider/callback?state=&code=
func (h *AuthHandler) OAuthCallback(c echo.Context) error {
	if reason := c.QueryParam("error"); reason != "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "authorization denied: "+reason)
	}
	state, code := c.QueryParam("state"), c.QueryParam("code")
	if state == "" || code == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "state and code are required")
	}

	sess, err := h.provider.CompleteOAuth(c.Request().Context(), c.Param("provider"), state, code)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSessionResponse(sess))
}

func toSessionResponse(s *domain.Session) sessionResponse {
	return sessionResponse{
		AccessToken: s.Token,
		TokenType:   "Bearer",
		ExpiresAt:   s.ExpiresAt.UTC().Format(time.RFC3339),
		User:        userShort{ID: s.UserID, Email: s.Email, Provider: s.Provider},
	}
}
