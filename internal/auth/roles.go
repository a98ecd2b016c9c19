package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/domain"
	apperrors "github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/pkg/util/errorutil"
)

// Capability selects one flag of the role-capability table.
type Capability func(domain.RoleCapabilities) bool

var (
	ManageUsers      Capability = func(c domain.RoleCapabilities) bool { return c.CanManageUsers }
	AssignCategories Capability = func(c domain.RoleCapabilities) bool { return c.CanAssignCategories }
	ViewAllTickets   Capability = func(c domain.RoleCapabilities) bool { return c.CanViewAllTickets }
	DeleteTickets    Capability = func(c domain.RoleCapabilities) bool { return c.CanDeleteTickets }
)

// RequireStudent ensures a student is authenticated.
func RequireStudent() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := CurrentUser(c)
		if err != nil {
			return err
		}
		if !user.IsStudent() {
			return apperrors.NewForbidden("student account required")
		}
		return c.Next()
	}
}

// RequireStaff ensures a staff member is authenticated.
func RequireStaff() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := CurrentUser(c)
		if err != nil {
			return err
		}
		if user.IsStudent() {
			return apperrors.NewForbidden("staff account required")
		}
		return c.Next()
	}
}

// RequireCapability gates a route on a capability flag. Services repeat the
// check; this only rejects early.
func RequireCapability(capability Capability, message string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := CurrentUser(c)
		if err != nil {
			return err
		}
		if !capability(user.Capabilities()) {
			return apperrors.NewForbidden(message)
		}
		return c.Next()
	}
}
