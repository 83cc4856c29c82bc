package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/greenpath/platform/internal/api/metrics"
	"github.com/greenpath/platform/internal/core/domain"
	"github.com/greenpath/platform/internal/core/ports"
)

const (
	defaultTokenTTL    = 24 * time.Hour
	defaultStateTTL    = 10 * time.Minute
	defaultEventBuffer = 256
	minPasswordLength  = 6
)

// AuthConfig tunes the identity provider.
type AuthConfig struct {
	JWTSecret     string
	TokenTTL      time.Duration
	OAuthStateTTL time.Duration
	EventBuffer   int
}

// sessionClaims is the payload of a session token.
type sessionClaims struct {
	SessionID string `json:"sid"`
	Email     string `json:"email"`
	Provider  string `json:"provider"`
	jwt.RegisteredClaims
}

// AuthService is the local identity provider: password and federated
// sign-in, session tokens, revocation and the session-change stream.
type AuthService struct {
	repo       ports.IdentityRepository
	revoker    ports.SessionRevoker
	states     ports.OAuthStateStore
	connectors map[string]ports.OAuthConnector

	secret   []byte
	tokenTTL time.Duration
	stateTTL time.Duration

	events chan domain.SessionEvent
	log    zerolog.Logger
	now    func() time.Time
}

func NewAuthService(repo ports.IdentityRepository, revoker ports.SessionRevoker, states ports.OAuthStateStore, cfg AuthConfig, log zerolog.Logger) *AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}
	if cfg.OAuthStateTTL <= 0 {
		cfg.OAuthStateTTL = defaultStateTTL
	}
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = defaultEventBuffer
	}
	return &AuthService{
		repo:       repo,
		revoker:    revoker,
		states:     states,
		connectors: make(map[string]ports.OAuthConnector),
		secret:     []byte(cfg.JWTSecret),
		tokenTTL:   cfg.TokenTTL,
		stateTTL:   cfg.OAuthStateTTL,
		events:     make(chan domain.SessionEvent, cfg.EventBuffer),
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// RegisterConnector enables a federated provider. Call before serving.
func (s *AuthService) RegisterConnector(provider string, c ports.OAuthConnector) {
	s.connectors[provider] = c
}

// Subscribe returns the session-change stream. It has exactly one consumer.
func (s *AuthService) Subscribe() <-chan domain.SessionEvent {
	return s.events
}

func (s *AuthService) SignUp(ctx context.Context, email, password string, meta domain.SignUpMetadata) (*ports.SignUpResult, error) {
	email = normalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return nil, fmt.Errorf("%w: email is not valid", domain.ErrInvalidArgument)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidArgument, minPasswordLength)
	}

	role := domain.RoleStudent
	if meta.Role != "" {
		r, err := domain.ParseRole(string(meta.Role))
		if err != nil {
			return nil, err
		}
		role = r
	}
	meta.Role = role
	if meta.Age != nil && (*meta.Age < domain.MinStudentAge || *meta.Age > domain.MaxStudentAge) {
		return nil, fmt.Errorf("%w: age must be between %d and %d", domain.ErrInvalidArgument, domain.MinStudentAge, domain.MaxStudentAge)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	created, err := s.repo.Create(ctx, &domain.Identity{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Provider:     domain.ProviderPassword,
		Metadata:     meta,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	sess, err := s.issue(ctx, created, domain.ProviderPassword, domain.SessionSignedIn)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", created.ID).Str("requested_role", string(role)).Msg("account created")
	return &ports.SignUpResult{Identity: created, Session: sess}, nil
}

func (s *AuthService) SignInWithPassword(ctx context.Context, email, password string) (*domain.Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	identity, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if identity.PasswordHash == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return s.issue(ctx, identity, domain.ProviderPassword, domain.SessionSignedIn)
}

func (s *AuthService) SignInWithOAuth(ctx context.Context, provider string) (string, error) {
	conn, ok := s.connectors[provider]
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedProvider, provider)
	}
	state := uuid.NewString()
	if err := s.states.Save(ctx, state, provider, s.stateTTL); err != nil {
		return "", fmt.Errorf("save oauth state: %w", err)
	}
	return conn.AuthCodeURL(state), nil
}

func (s *AuthService) CompleteOAuth(ctx context.Context, provider, state, code string) (*domain.Session, error) {
	conn, ok := s.connectors[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedProvider, provider)
	}
	issuedFor, err := s.states.Consume(ctx, state)
	if err != nil {
		return nil, err
	}
	if issuedFor != provider {
		return nil, domain.ErrSessionInvalid
	}

	acct, err := conn.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %s exchange: %v", domain.ErrInvalidCredentials, provider, err)
	}

	identity, err := s.repo.FindBySubject(ctx, provider, acct.Subject)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		now := s.now()
		identity, err = s.repo.Create(ctx, &domain.Identity{
			ID:        uuid.NewString(),
			Email:     normalizeEmail(acct.Email),
			Provider:  provider,
			Subject:   acct.Subject,
			Metadata:  domain.SignUpMetadata{Role: domain.RoleStudent},
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return nil, err
		}
		s.log.Info().Str("user_id", identity.ID).Str("provider", provider).Msg("federated account created")
	case err != nil:
		return nil, err
	}

	return s.issue(ctx, identity, provider, domain.SessionSignedIn)
}

// SignOut revokes the session until its token would have expired anyway.
func (s *AuthService) SignOut(ctx context.Context, sess domain.Session) error {
	if err := s.revoker.Revoke(ctx, sess.ID, sess.ExpiresAt); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	s.publish(ctx, domain.SessionEvent{Kind: domain.SessionSignedOut, Session: sess, At: s.now()})
	return nil
}

func (s *AuthService) CurrentSession(ctx context.Context, token string) (*domain.Session, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid || claims.SessionID == "" || claims.Subject == "" {
		return nil, domain.ErrSessionInvalid
	}

	revoked, err := s.revoker.IsRevoked(ctx, claims.SessionID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, domain.ErrSessionInvalid
	}

	sess := &domain.Session{
		ID:       claims.SessionID,
		UserID:   claims.Subject,
		Email:    claims.Email,
		Provider: claims.Provider,
		Token:    token,
	}
	if claims.IssuedAt != nil {
		sess.IssuedAt = claims.IssuedAt.Time.UTC()
	}
	if claims.ExpiresAt != nil {
		sess.ExpiresAt = claims.ExpiresAt.Time.UTC()
	}
	return sess, nil
}

// Restore publishes a restored event for a live session, carrying the
// identity's sign-up metadata.
func (s *AuthService) Restore(ctx context.Context, sess domain.Session) error {
	identity, err := s.repo.FindByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrSessionInvalid
		}
		return err
	}
	meta := identity.Metadata
	s.publish(ctx, domain.SessionEvent{Kind: domain.SessionRestored, Session: sess, Metadata: &meta, At: s.now()})
	return nil
}

func (s *AuthService) issue(ctx context.Context, identity *domain.Identity, provider string, kind domain.SessionEventKind) (*domain.Session, error) {
	now := s.now()
	sess := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    identity.ID,
		Email:     identity.Email,
		Provider:  provider,
		IssuedAt:  now.Truncate(time.Second),
		ExpiresAt: now.Add(s.tokenTTL).Truncate(time.Second),
	}

	claims := sessionClaims{
		SessionID: sess.ID,
		Email:     sess.Email,
		Provider:  provider,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(sess.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}
	sess.Token = token

	meta := identity.Metadata
	s.publish(ctx, domain.SessionEvent{Kind: kind, Session: *sess, Metadata: &meta, At: now})
	return sess, nil
}

// publish blocks until the stream has room or ctx is done.
func (s *AuthService) publish(ctx context.Context, ev domain.SessionEvent) {
	ev.Session.Token = ""
	select {
	case s.events <- ev:
		metrics.SessionEventsTotal.WithLabelValues(string(ev.Kind), "published").Inc()
	case <-ctx.Done():
		metrics.SessionEventsTotal.WithLabelValues(string(ev.Kind), "dropped").Inc()
		s.log.Warn().
			Str("kind", string(ev.Kind)).
			Str("session_id", ev.Session.ID).
			Msg("session event dropped")
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
