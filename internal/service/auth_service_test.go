package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Ometeor-Zheero-OMZ/Ataria/internal/auth"
	"github.com/Ometeor-Zheero-OMZ/Ataria/internal/config"
	"github.com/Ometeor-Zheero-OMZ/Ataria/internal/domain"
	"github.com/Ometeor-Zheero-OMZ/Ataria/internal/domain/domaintest"
	"github.com/Ometeor-Zheero-OMZ/Ataria/internal/events"
	"github.com/Ometeor-Zheero-OMZ/Ataria/internal/repository/repositorytest"
	"github.com/Ometeor-Zheero-OMZ/Ataria/internal/service"
)

var testStart = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) handle(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type authFixture struct {
	svc    *service.AuthService
	users  *repositorytest.Users
	tokens *auth.TokenManager
	clock  *domaintest.FakeClock
	events *recorder
}

func newAuthFixture(t *testing.T, throttle *auth.LoginThrottle) *authFixture {
	t.Helper()
	clock := domaintest.NewFakeClock(testStart)
	tokens, err := auth.NewTokenManager("service-test-secret", clock)
	require.NoError(t, err)

	rec := &recorder{}
	dispatcher := events.NewInMemoryDispatcher()
	for _, et := range []events.EventType{events.EventUserSignedUp, events.EventUserLoggedIn, events.EventGuestLoggedIn, events.EventLoginFailed} {
		dispatcher.Subscribe(et, rec.handle)
	}

	users := repositorytest.NewUsers()
	svc := service.NewAuthService(config.AuthConfig{
		BcryptCost: bcrypt.MinCost,
		GuestEmail: "guest@example.com",
	}, service.AuthDependencies{
		UserRepo:   users,
		Tokens:     tokens,
		Throttle:   throttle,
		Dispatcher: dispatcher,
		Clock:      clock,
	})
	return &authFixture{svc: svc, users: users, tokens: tokens, clock: clock, events: rec}
}

func TestAuthServiceSignup(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, nil)

	user, err := f.svc.Signup(ctx, " Alice ", " Alice@Example.com ", "s3cret-pass")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NoError(t, auth.ComparePassword(user.PasswordHash, "s3cret-pass"))

	_, err = f.svc.Signup(ctx, "Alice", "alice@example.com", "other")
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	assert.Equal(t, []events.EventType{events.EventUserSignedUp}, f.events.types())
}

func TestAuthServiceLogin(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, nil)
	created, err := f.svc.Signup(ctx, "Alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	t.Run("issues a verifiable token", func(t *testing.T) {
		user, token, exp, err := f.svc.Login(ctx, "ALICE@example.com", "s3cret-pass")
		require.NoError(t, err)
		assert.Equal(t, created.ID, user.ID)
		assert.Equal(t, testStart.Add(auth.TokenLifetime), exp)

		claims, err := f.tokens.ParseToken(token)
		require.NoError(t, err)
		assert.Equal(t, created.ID, claims.UserID)
		assert.Equal(t, "alice@example.com", claims.Subject)
		assert.Equal(t, exp.Unix(), claims.ExpiresAt)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, token, _, err := f.svc.Login(ctx, "alice@example.com", "nope")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
		assert.Empty(t, token)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, _, err := f.svc.Login(ctx, "bob@example.com", "s3cret-pass")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	assert.Equal(t, []events.EventType{
		events.EventUserSignedUp,
		events.EventUserLoggedIn,
		events.EventLoginFailed,
		events.EventLoginFailed,
	}, f.events.types())
}

func TestAuthServiceLoginThrottle(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	f := newAuthFixture(t, auth.NewLoginThrottle(client, 2, time.Minute))
	_, err := f.svc.Signup(ctx, "Alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	t.Run("success resets the counter", func(t *testing.T) {
		_, _, _, err := f.svc.Login(ctx, "alice@example.com", "bad")
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
		_, _, _, err = f.svc.Login(ctx, "alice@example.com", "s3cret-pass")
		require.NoError(t, err)
		assert.False(t, mr.Exists("login_fail:alice@example.com"))
	})

	t.Run("locks out after repeated failures", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			_, _, _, err := f.svc.Login(ctx, "alice@example.com", "bad")
			require.ErrorIs(t, err, service.ErrInvalidCredentials)
		}
		_, _, _, err := f.svc.Login(ctx, "alice@example.com", "s3cret-pass")
		assert.ErrorIs(t, err, auth.ErrTooManyAttempts)

		mr.FastForward(time.Minute + time.Second)
		_, _, _, err = f.svc.Login(ctx, "alice@example.com", "s3cret-pass")
		assert.NoError(t, err)
	})

	t.Run("fails open when redis is down", func(t *testing.T) {
		mr.Close()
		_, _, _, err := f.svc.Login(ctx, "alice@example.com", "s3cret-pass")
		assert.NoError(t, err)
	})
}

func TestAuthServiceGuestLogin(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, nil)

	_, _, _, err := f.svc.GuestLogin(ctx)
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	guest := &domain.User{Name: "Guest", Email: "guest@example.com", PasswordHash: "x", IsGuest: true}
	require.NoError(t, f.users.Create(ctx, guest))

	user, token, _, err := f.svc.GuestLogin(ctx)
	require.NoError(t, err)
	assert.True(t, user.IsGuest)

	claims, err := f.svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, guest.ID, claims.UserID)
	assert.Equal(t, "guest@example.com", claims.Subject)
	assert.Equal(t, []events.EventType{events.EventGuestLoggedIn}, f.events.types())
}
