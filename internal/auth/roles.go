package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/campus-issues/pkg/util/errorutil"
)

// RequireAdmin lets only the administrator through.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := CurrentUser(c)
		if err != nil {
			return err
		}
		if !user.IsAdmin() {
			return apperrors.NewForbidden("administrator required")
		}
		return c.Next()
	}
}

// RequireReporter lets through anyone who may submit issues, i.e. every
// authenticated user except the administrator.
func RequireReporter() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := CurrentUser(c)
		if err != nil {
			return err
		}
		if user.IsAdmin() {
			return apperrors.NewForbidden("administrators cannot submit or delete issues")
		}
		return c.Next()
	}
}
