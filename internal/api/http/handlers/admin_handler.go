package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/api/dto"
	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/auth"
	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/domain"
	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/repository"
	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/service"
	apperrors "github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/pkg/util/errorutil"
)

// AdminHandler serves the administration panel: account management and the
// unfiltered ticket views.
type AdminHandler struct {
	directory *service.DirectoryService
	tickets   *service.TicketService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(directory *service.DirectoryService, tickets *service.TicketService) *AdminHandler {
	return &AdminHandler{directory: directory, tickets: tickets}
}

// ListTickets GET /admin/tickets?status=&category=&requester=.
func (h *AdminHandler) ListTickets(c *fiber.Ctx) error {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	filter, err := parseAdminTicketFilter(c)
	if err != nil {
		return err
	}
	tickets, err := h.tickets.Search(c.UserContext(), filter, user)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummaries(tickets)})
}

// Stats GET /admin/stats.
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	if !user.Capabilities().CanViewAllTickets {
		return apperrors.NewForbidden("your role cannot view all tickets")
	}
	stats, err := h.tickets.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": statsResponse(stats)})
}

// ListUsers GET /admin/users?kind=students|staff.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	filter := repository.UserFilter{}
	switch kind := repository.UserKind(strings.ToLower(c.Query("kind"))); kind {
	case repository.UserKindAll, repository.UserKindStudents, repository.UserKindStaff:
		filter.Kind = kind
	default:
		return apperrors.NewValidationError("invalid kind", map[string]any{"kind": kind})
	}
	if raw := c.Query("role"); raw != "" {
		role, ok := domain.ParseRole(raw)
		if !ok {
			return apperrors.NewValidationError("invalid role", map[string]any{"role": raw})
		}
		filter.Role = &role
	}

	users, err := h.directory.List(c.UserContext(), filter, user)
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, userResponse(&users[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateUser POST /admin/users.
func (h *AdminHandler) CreateUser(c *fiber.Ctx) error {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	var req dto.CreateStaffRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	role, ok := domain.ParseRole(req.Role)
	if !ok {
		return apperrors.NewValidationError("invalid role", map[string]any{"role": req.Role})
	}
	categories, err := parseCategories(req.AssignedCategories)
	if err != nil {
		return err
	}
	created, err := h.directory.CreateStaff(c.UserContext(), service.CreateStaffInput{
		Name:               req.Name,
		LastName:           req.LastName,
		Email:              req.Email,
		Password:           req.Password,
		Role:               role,
		Cedula:             req.Cedula,
		Age:                req.Age,
		AssignedCategories: categories,
	}, user)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": userResponse(created)})
}

// DeleteUser DELETE /admin/users/:id.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	if _, err := h.directory.Delete(c.UserContext(), c.Params("id"), user); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// UpdateCategories PUT /admin/users/:id/categories.
func (h *AdminHandler) UpdateCategories(c *fiber.Ctx) error {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	var req dto.UpdateCategoriesRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	categories, err := parseCategories(req.Categories)
	if err != nil {
		return err
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	updated, err := h.directory.UpdateAssignedCategories(c.UserContext(), c.Params("id"), categories, user)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(updated)})
}

func parseAdminTicketFilter(c *fiber.Ctx) (repository.TicketFilter, error) {
	var filter repository.TicketFilter
	if raw := c.Query("status"); raw != "" {
		status, ok := domain.ParseStatus(raw)
		if !ok {
			return filter, apperrors.NewValidationError("invalid status", map[string]any{"status": raw})
		}
		filter.Status = &status
	}
	if raw := c.Query("category"); raw != "" {
		category, err := parseCategory(raw)
		if err != nil {
			return filter, err
		}
		filter.Category = &category
	}
	if raw := strings.TrimSpace(c.Query("requester")); raw != "" {
		filter.RequesterID = &raw
	}
	return filter, nil
}
