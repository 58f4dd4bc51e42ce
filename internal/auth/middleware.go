package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/campus-issues/internal/domain"
	apperrors "github.com/spec-kit/campus-issues/pkg/util/errorutil"
)

const sessionKey = "auth_session"

// SessionResolver returns the active session when sessionID still identifies it.
type SessionResolver interface {
	Require(sessionID string) (*domain.Session, error)
}

// AuthMiddleware validates bearer tokens against the active session.
type AuthMiddleware struct {
	tokens   *TokenManager
	sessions SessionResolver
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, sessions SessionResolver) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, sessions: sessions}
}

// Handle enforces authentication for protected routes. A token from a session
// that was replaced by a later login or ended by logout is rejected.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewUnauthorized("not logged in")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(strings.TrimSpace(parts[1]))
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	session, err := m.sessions.Require(claims.SessionID)
	if err != nil {
		return err
	}

	c.Locals(sessionKey, session)
	return c.Next()
}

// SessionFromContext retrieves the session stored by AuthMiddleware.
func SessionFromContext(c *fiber.Ctx) (*domain.Session, bool) {
	val := c.Locals(sessionKey)
	if val == nil {
		return nil, false
	}
	session, ok := val.(*domain.Session)
	return session, ok
}

// CurrentUser is SessionFromContext reduced to the user.
func CurrentUser(c *fiber.Ctx) (domain.User, error) {
	session, ok := SessionFromContext(c)
	if !ok {
		return domain.User{}, apperrors.NewUnauthorized("not logged in")
	}
	return session.User, nil
}
