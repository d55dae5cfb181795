package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Ometeor-Zheero-OMZ/Ataria/internal/auth"
	"github.com/Ometeor-Zheero-OMZ/Ataria/internal/config"
	"github.com/Ometeor-Zheero-OMZ/Ataria/internal/domain"
	"github.com/Ometeor-Zheero-OMZ/Ataria/internal/events"
	"github.com/Ometeor-Zheero-OMZ/Ataria/internal/repository"
)

// ErrInvalidCredentials is returned for an unknown email or a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService coordinates signup and login flows. Tokens are issued only by
// Login and GuestLogin.
type AuthService struct {
	users      repository.UserRepository
	tokens     *auth.TokenManager
	throttle   *auth.LoginThrottle
	dispatcher events.Dispatcher
	logger     *zap.Logger
	clock      domain.Clock
	bcryptCost int
	guestEmail string
}

// AuthDependencies encapsulates collaborators of the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Tokens     *auth.TokenManager
	Throttle   *auth.LoginThrottle
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Clock      domain.Clock
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = domain.RealClock{}
	}
	return &AuthService{
		users:      deps.UserRepo,
		tokens:     deps.Tokens,
		throttle:   deps.Throttle,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		clock:      clock,
		bcryptCost: cfg.BcryptCost,
		guestEmail: cfg.GuestEmail,
	}
}

// Signup creates a new account. It does not sign the caller in.
func (s *AuthService) Signup(ctx context.Context, name, email, password string) (*domain.User, error) {
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         strings.TrimSpace(name),
		Email:        normalizeEmail(email),
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{Type: events.EventUserSignedUp, UserID: user.ID, Email: user.Email})
	return user, nil
}

// Login authenticates an account by email and password and issues a token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	email = normalizeEmail(email)

	if err := s.throttle.Check(ctx, email); err != nil {
		if errors.Is(err, auth.ErrTooManyAttempts) {
			return nil, "", time.Time{}, err
		}
		s.logger.Warn("login throttle check failed", zap.Error(err))
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.loginFailed(ctx, email, "unknown email")
			return nil, "", time.Time{}, ErrInvalidCredentials
		}
		return nil, "", time.Time{}, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		s.loginFailed(ctx, email, "password mismatch")
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	if err := s.throttle.Reset(ctx, email); err != nil {
		s.logger.Warn("login throttle reset failed", zap.Error(err))
	}
	return s.issue(ctx, user, events.EventUserLoggedIn)
}

// GuestLogin signs in the shared guest account without a password.
func (s *AuthService) GuestLogin(ctx context.Context) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(s.guestEmail))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", time.Time{}, ErrInvalidCredentials
		}
		return nil, "", time.Time{}, err
	}
	return s.issue(ctx, user, events.EventGuestLoggedIn)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

func (s *AuthService) issue(ctx context.Context, user *domain.User, eventType events.EventType) (*domain.User, string, time.Time, error) {
	token, exp, err := s.tokens.GenerateToken(user.Email, user.ID)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	s.publish(ctx, events.Event{
		Type:    eventType,
		UserID:  user.ID,
		Email:   user.Email,
		Payload: events.LoginPayload{TokenExpiresAt: exp},
	})
	return user, token, exp, nil
}

func (s *AuthService) loginFailed(ctx context.Context, email, reason string) {
	if err := s.throttle.RecordFailure(ctx, email); err != nil {
		s.logger.Warn("login throttle update failed", zap.Error(err))
	}
	s.publish(ctx, events.Event{
		Type:    events.EventLoginFailed,
		Email:   email,
		Payload: events.LoginPayload{Reason: reason},
	})
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = s.clock.Now()
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
