package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/campus-issues/internal/api/dto"
	"github.com/spec-kit/campus-issues/internal/auth"
	"github.com/spec-kit/campus-issues/internal/domain"
	"github.com/spec-kit/campus-issues/internal/service"
	apperrors "github.com/spec-kit/campus-issues/pkg/util/errorutil"
)

// AuthHandler exposes registration and the session lifecycle.
type AuthHandler struct {
	auth     *service.AuthService
	sessions *service.SessionManager
	tokens   *auth.TokenManager
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, sessions *service.SessionManager, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{auth: authService, sessions: sessions, tokens: tokens}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	req.Trim()

	user, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Name:     req.Name,
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data":    dto.NewUserResponse(*user),
		"message": "Registration successful! Please login.",
	})
}

// Login handles POST /auth/login. Any previous session is replaced.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	req.Trim()

	session, err := h.sessions.Login(c.UserContext(), service.Credentials{
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	token, exp, err := h.tokens.GenerateToken(*session)
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"session": dto.NewSessionHeader(session.User),
			"auth":    dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
		"message": welcome(session.User),
	})
}

// Logout handles POST /auth/logout. It always succeeds. A token from an
// older session cannot end the current one.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if h.mayEndCurrent(c) {
		h.sessions.Logout(c.UserContext())
	}
	return c.JSON(fiber.Map{"message": "Logged out successfully!"})
}

// Session handles GET /auth/session.
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSessionHeader(user)})
}

func (h *AuthHandler) mayEndCurrent(c *fiber.Ctx) bool {
	header := c.Get(fiber.HeaderAuthorization)
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return false
	}
	claims, err := h.tokens.ParseToken(strings.TrimSpace(token))
	if err != nil {
		return false
	}
	_, err = h.sessions.Require(claims.SessionID)
	return err == nil
}

func welcome(u domain.User) string {
	if u.IsAdmin() {
		return "Welcome Admin!"
	}
	return "Welcome " + u.Name + "!"
}
