package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/api/dto"
	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/auth"
	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/domain"
	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/service"
	apperrors "github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/pkg/util/errorutil"
)

// TicketsHandler serves ticket endpoints for every signed-in role. What a
// caller may see or change is decided by the services.
type TicketsHandler struct {
	tickets     *service.TicketService
	assignments *service.AssignmentService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(tickets *service.TicketService, assignments *service.AssignmentService) *TicketsHandler {
	return &TicketsHandler{tickets: tickets, assignments: assignments}
}

// List GET /tickets.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	tickets, err := h.tickets.AllVisibleTo(c.UserContext(), user)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummaries(tickets)})
}

// Create POST /tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	var req dto.CreateTicketRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	category, err := parseCategory(req.Category)
	if err != nil {
		return err
	}
	ticket, err := h.tickets.Create(c.UserContext(), user, service.CreateTicketInput{
		Title:        req.Title,
		Description:  req.Description,
		Category:     category,
		PriorityHint: req.Priority,
		ProblemType:  req.ProblemType,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketDetail(ticket)})
}

// Stats GET /tickets/stats.
func (h *TicketsHandler) Stats(c *fiber.Ctx) error {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	stats, err := h.tickets.StatsFor(c.UserContext(), user)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": statsResponse(stats)})
}

// Get GET /tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	ticket, err := h.tickets.Get(c.UserContext(), c.Params("id"), user)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket)})
}

// Report GET /tickets/:id/report.
func (h *TicketsHandler) Report(c *fiber.Ctx) error {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	report, err := h.tickets.Report(c.UserContext(), c.Params("id"), user)
	if err != nil {
		return err
	}
	resp := dto.TicketReportResponse{Ticket: ticketDetail(report.Ticket)}
	if report.Requester != nil {
		requester := userResponse(report.Requester)
		resp.Requester = &requester
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Delete DELETE /tickets/:id.
func (h *TicketsHandler) Delete(c *fiber.Ctx) error {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	if _, err := h.tickets.Delete(c.UserContext(), c.Params("id"), user); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Assign POST /tickets/:id/assign.
func (h *TicketsHandler) Assign(c *fiber.Ctx) error {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	ticket, err := h.assignments.Assign(c.UserContext(), c.Params("id"), user)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket)})
}

// Transfer POST /tickets/:id/transfer.
func (h *TicketsHandler) Transfer(c *fiber.Ctx) error {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	var req dto.TransferRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	category, err := parseCategory(req.Category)
	if err != nil {
		return err
	}
	ticket, err := h.assignments.Transfer(c.UserContext(), c.Params("id"), category, user)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket)})
}

// SetStatus POST /tickets/:id/status.
func (h *TicketsHandler) SetStatus(c *fiber.Ctx) error {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	var req dto.StatusUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	status, ok := domain.ParseStatus(req.Status)
	if !ok {
		return apperrors.NewValidationError("invalid status", map[string]any{"status": req.Status})
	}
	ticket, err := h.tickets.SetStatus(c.UserContext(), c.Params("id"), status, user)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket)})
}

// SetPriority POST /tickets/:id/priority.
func (h *TicketsHandler) SetPriority(c *fiber.Ctx) error {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	var req dto.PriorityUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	priority, ok := domain.ParsePriority(req.Priority)
	if !ok {
		return apperrors.NewValidationError("invalid priority", map[string]any{"priority": req.Priority})
	}
	ticket, err := h.tickets.UpdatePriority(c.UserContext(), c.Params("id"), priority, user)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket)})
}

// AddNote POST /tickets/:id/notes.
func (h *TicketsHandler) AddNote(c *fiber.Ctx) error {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	var req dto.NoteRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	note, err := h.tickets.AddNote(c.UserContext(), c.Params("id"), req.Text, user)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": noteResponse(note)})
}
