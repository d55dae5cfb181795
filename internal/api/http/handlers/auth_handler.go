package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Ometeor-Zheero-OMZ/Ataria/internal/api/dto"
	"github.com/Ometeor-Zheero-OMZ/Ataria/internal/auth"
	"github.com/Ometeor-Zheero-OMZ/Ataria/internal/domain"
	"github.com/Ometeor-Zheero-OMZ/Ataria/internal/service"
	apperrors "github.com/Ometeor-Zheero-OMZ/Ataria/pkg/util"
)

// AuthHandler exposes signup, login and identity endpoints.
type AuthHandler struct {
	auth   *service.AuthService
	logger *zap.Logger
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{auth: authService, logger: logger}
}

// Signup handles POST /api/auth/signup.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if strings.TrimSpace(req.Name) == "" || req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("name, email, password required", nil)
	}
	if !strings.Contains(req.Email, "@") {
		return apperrors.NewValidationError("invalid email", map[string]any{"field": "email"})
	}

	user, err := h.auth.Signup(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return apperrors.NewConflict("email already registered", nil)
		}
		return apperrors.MapError(err)
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{"user": userResponse(user)},
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	user, token, exp, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return h.loginError(err)
	}
	return authenticated(c, user, token, exp)
}

// GuestLogin handles POST /api/auth/guest_login.
func (h *AuthHandler) GuestLogin(c *fiber.Ctx) error {
	user, token, exp, err := h.auth.GuestLogin(c.UserContext())
	if err != nil {
		return h.loginError(err)
	}
	return authenticated(c, user, token, exp)
}

// CurrentUser handles GET /api/auth/current_user. The route is exempt from
// the gate, so the header is verified here.
func (h *AuthHandler) CurrentUser(c *fiber.Ctx) error {
	claims, err := h.auth.TokenManager().VerifyHeader(c.Get(fiber.HeaderAuthorization))
	if err != nil {
		h.logger.Info("current_user rejected", zap.Error(err))
		return apperrors.NewUnauthorized("unregistered user")
	}
	return c.JSON(fiber.Map{"data": dto.CurrentUserResponse{
		ID:        claims.UserID,
		Subject:   claims.Subject,
		ExpiresAt: time.Unix(claims.ExpiresAt, 0).UTC(),
	}})
}

func (h *AuthHandler) loginError(err error) error {
	switch {
	case errors.Is(err, auth.ErrTooManyAttempts):
		return apperrors.NewTooManyRequests("too many failed login attempts")
	case errors.Is(err, service.ErrInvalidCredentials):
		return apperrors.NewUnauthorized("unregistered user")
	default:
		return apperrors.MapError(err)
	}
}

func authenticated(c *fiber.Ctx, user *domain.User, token string, exp time.Time) error {
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user": userResponse(user),
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

func userResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{ID: user.ID, Name: user.Name, Email: user.Email, IsGuest: user.IsGuest}
}
