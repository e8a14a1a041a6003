package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apierrors "github.com/muliswilliam/vending-machine/common/apierrors"
)

const (
	HeaderRole      = "X-Role"
	RoleMaintenance = "maintenance"
)

// RequireRole rejects requests whose X-Role header does not match role, ignoring case.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		got := strings.TrimSpace(c.Get(HeaderRole))
		if !strings.EqualFold(got, role) {
			return apierrors.NewApplicationError(apierrors.ErrCodeForbidden, "Forbidden resource", nil).
				WithContext("required_role", role).
				WithContext("presented_role", got)
		}
		return c.Next()
	}
}
