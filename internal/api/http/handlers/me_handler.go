package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/api/dto"
	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/auth"
	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/service"
)

// MeHandler serves the caller's own profile.
type MeHandler struct {
	directory *service.DirectoryService
}

// NewMeHandler constructs handler.
func NewMeHandler(directory *service.DirectoryService) *MeHandler {
	return &MeHandler{directory: directory}
}

// Get handles GET /me.
func (h *MeHandler) Get(c *fiber.Ctx) error {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// Update handles PATCH /me.
func (h *MeHandler) Update(c *fiber.Ctx) error {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	var req dto.UpdateProfileRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	updated, err := h.directory.UpdateProfile(c.UserContext(), user.ID, service.UpdateProfileInput{
		Name:          req.Name,
		LastName:      req.LastName,
		Phone:         req.Phone,
		PersonalEmail: req.PersonalEmail,
		Career:        req.Career,
		Password:      req.Password,
	}, user)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(updated)})
}
